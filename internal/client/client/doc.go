// Package client talks to the GophMedia backend.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface): Ping,
//     InitAsset (content id plus time-limited write URLs) and CreateAsset
//     (commit of an uploaded asset, returning its public read URLs).
//  2. A concrete gRPC implementation (see GRPCClient) that manages a
//     connection, injects the access token via an interceptor and maps gRPC
//     status codes to sentinel errors.
//
// # Error Handling
//
// Common conditions are exposed as sentinel errors that callers can match with
// errors.Is: ErrUnavailable, ErrUnauthorized, ErrRejected.
package client
