// Package config loads runtime configuration for the GophMedia uploader.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string            address:port of the backend gRPC endpoint
//	-t string            access token sent with every RPC
//	-u string            user id recorded on uploads
//	-d string            path of the local SQLite store
//	-s string            staging directory for temporary video copies
//	-l string            log level (debug, info, warn, error)
//	-log-format string   log format (json, text)
//	-http-timeout dur    timeout of a single object storage PUT
//	-rpc-timeout dur     timeout of a single backend RPC
//	-settle-timeout dur  wait for asset events before the next upload
//	-small/-medium/-large int  variant dimensions
//	-e int               asset expiration in hours (0 keeps the server default)
//	-kind string         media kind for all files (image, video, audio)
//	-caption string      caption attached to every file
//	-no-cuts             skip resized variants
//	-ffmpeg, -ffprobe    paths of the video tools
//
// Remaining positional arguments are the files to upload.
//
// # JSON schema
//
// Durations use timex.Duration, so values can be either strings like "30s"
// or integer nanoseconds:
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "access_token": "...",
//	  "database_path": "gophmedia.db",
//	  "http_timeout": "2m",
//	  "cuts": {"small": 300, "medium": 600, "large": 900}
//	}
//
// Only non-zero JSON values are applied.
package config
