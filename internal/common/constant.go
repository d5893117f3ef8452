// Package common contains shared constants and sentinel errors used across
// GophMedia components.
package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on outbound requests.
const AccessTokenHeaderName = "access_token"

// SizePadding is added to an image's declared size when resized variants
// will be uploaded alongside the original.
const SizePadding = 1000

// Default square dimensions of the derived variants.
const (
	DefaultSmallCut  = 300
	DefaultMediumCut = 600
	DefaultLargeCut  = 900
)
