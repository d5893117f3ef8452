// Package proto declares the MediaService RPC contract: request and
// response messages, their protobuf wire encoding, and the service descriptors used by
// both the client stub and the server registration.
package proto

// Variant names used as keys of WriteUrls and ReadUrls.
const (
	VariantOriginal     = "original"
	VariantSmall        = "small"
	VariantMedium       = "medium"
	VariantLarge        = "large"
	VariantVideoPreview = "video_preview"
)

type PingRequest struct{}

type PingResponse struct {
	Status string
}

// InitAssetRequest announces an upload and asks for write URLs for the
// listed variants.
type InitAssetRequest struct {
	Id          string
	FileName    string
	ContentType string
	Kind        string
	Size        int64
	Variants    []string
}

type InitAssetResponse struct {
	ContentId string
	WriteUrls map[string]string
	ExpiresAt int64
}

// CreateAssetRequest commits an uploaded asset with its final metadata.
type CreateAssetRequest struct {
	Id              string
	ContentId       string
	FileName        string
	ContentType     string
	Kind            string
	Size            int64
	DurationMs      int64
	Color           string
	XRes            int32
	YRes            int32
	Caption         string
	ExpirationHours int32
	Variants        []string
}

type CreateAssetResponse struct {
	Asset *Asset
}

type Asset struct {
	Id          string
	ContentId   string
	FileName    string
	ContentType string
	Kind        string
	Size        int64
	DurationMs  int64
	Color       string
	XRes        int32
	YRes        int32
	Caption     string
	Status      string
	ReadUrls    map[string]string
	CreatedAt   int64
	ExpiresAt   int64
}
