package models

import (
	"time"

	"github.com/dmitrijs2005/gophmedia/internal/common"
)

// Cuts holds the square dimensions of the derived variants.
type Cuts struct {
	Small  int `json:"small"`
	Medium int `json:"medium"`
	Large  int `json:"large"`
}

// DefaultCuts returns the 300/600/900 variant dimensions.
func DefaultCuts() Cuts {
	return Cuts{Small: common.DefaultSmallCut, Medium: common.DefaultMediumCut, Large: common.DefaultLargeCut}
}

// Dimension returns the square size for a resized variant, 0 otherwise.
func (c Cuts) Dimension(v Variant) int {
	switch v {
	case VariantSmall:
		return c.Small
	case VariantMedium:
		return c.Medium
	case VariantLarge:
		return c.Large
	default:
		return 0
	}
}

// UploadItem is what a caller submits: one local asset plus upload options.
type UploadItem struct {
	// Path references the local asset.
	Path string
	// Kind is the declared media kind.
	Kind MediaKind
	// NoCuts disables resized variants.
	NoCuts bool
	// Cuts overrides the variant dimensions; zero fields take defaults.
	Cuts Cuts
	// ExpirationHours is forwarded to the backend; 0 keeps the configured default.
	ExpirationHours int
	// ContentType, when set, overrides detection.
	ContentType string
	// Caption is free text attached to the asset.
	Caption string
}

// Status is the lifecycle state of an UploadIntent.
type Status string

const (
	StatusPending     Status = "pending"
	StatusInitialized Status = "initialized"
	StatusUploading   Status = "uploading"
	StatusUploaded    Status = "uploaded"
	StatusFailure     Status = "failure"
)

// UploadIntent is the persisted record of one asset scheduled for upload.
type UploadIntent struct {
	ID            string
	UserID        string
	SessionID     string
	TransactionID string
	// Index is the position of the intent inside its transaction.
	Index int

	// Path is the caller-supplied reference; LocalPath the resolved file.
	Path      string
	LocalPath string
	// FileName is the base name with whitespace removed.
	FileName string

	Kind        MediaKind
	ContentType string
	// Size is the declared byte count, padded when variants are produced.
	Size     int64
	Duration time.Duration
	// Color is the average color as #rrggbb, images only.
	Color string
	XRes  int
	YRes  int

	Caption         string
	NoCuts          bool
	Cuts            Cuts
	ExpirationHours int

	// ContentID, WriteURLs and ReadURLs are assigned by the backend.
	ContentID string
	WriteURLs URLs
	ReadURLs  URLs

	Status Status
	// Error keeps the message of the last failure.
	Error string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Clone returns a copy safe to hand to other goroutines.
func (i *UploadIntent) Clone() *UploadIntent {
	if i == nil {
		return nil
	}
	c := *i
	return &c
}

// Variants lists the renditions the intent will upload.
func (i *UploadIntent) Variants() []Variant {
	vs := []Variant{VariantOriginal}
	if i.Kind == KindVideo || KindFromContentType(i.ContentType) == KindVideo {
		vs = append(vs, VariantVideoPreview)
	}
	if i.GeneratesCuts() {
		vs = append(vs, CutVariants...)
	}
	return vs
}

// GeneratesCuts reports whether resized variants will be produced.
func (i *UploadIntent) GeneratesCuts() bool {
	if i.NoCuts {
		return false
	}
	k := KindFromContentType(i.ContentType)
	return k == KindImage || k == KindVideo
}
