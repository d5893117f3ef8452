// Package models defines client-side data models used by the GophMedia uploader.
package models

import "strings"

// MediaKind is the declared kind of a local asset.
type MediaKind string

const (
	KindImage   MediaKind = "image"
	KindVideo   MediaKind = "video"
	KindAudio   MediaKind = "audio"
	KindUnknown MediaKind = "unknown"
)

// ParseMediaKind maps a user-supplied kind, defaulting to KindUnknown.
func ParseMediaKind(s string) MediaKind {
	switch MediaKind(strings.ToLower(strings.TrimSpace(s))) {
	case KindImage:
		return KindImage
	case KindVideo:
		return KindVideo
	case KindAudio:
		return KindAudio
	default:
		return KindUnknown
	}
}

// KindFromContentType derives a media kind from a MIME type.
func KindFromContentType(contentType string) MediaKind {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return KindImage
	case strings.HasPrefix(contentType, "video/"):
		return KindVideo
	case strings.HasPrefix(contentType, "audio/"):
		return KindAudio
	default:
		return KindUnknown
	}
}

// Variant names one uploaded rendition of an asset.
type Variant string

const (
	VariantOriginal     Variant = "original"
	VariantSmall        Variant = "small"
	VariantMedium       Variant = "medium"
	VariantLarge        Variant = "large"
	VariantVideoPreview Variant = "video_preview"
)

// CutVariants lists the resized variants in upload order.
var CutVariants = []Variant{VariantSmall, VariantMedium, VariantLarge}
