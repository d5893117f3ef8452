// Package models holds the server-side domain types.
package models

import "time"

// Asset lifecycle on the server.
const (
	AssetStatusInitialized = "initialized"
	AssetStatusCommitted   = "committed"
)

// Asset is one upload tracked by the server, keyed by ContentID. ID is the
// client-side intent id echoed back on commit.
type Asset struct {
	ContentID   string
	ID          string
	UserID      string
	StorageKey  string
	FileName    string
	ContentType string
	Kind        string
	Size        int64
	Duration    time.Duration
	Color       string
	XRes        int
	YRes        int
	Caption     string
	Variants    []string
	Status      string
	CreatedAt   time.Time
	ExpiresAt   *time.Time

	// ReadURLs is derived from StorageKey and Variants, never stored.
	ReadURLs map[string]string
}

// HasVariant reports whether v was announced for the asset.
func (a *Asset) HasVariant(v string) bool {
	for _, x := range a.Variants {
		if x == v {
			return true
		}
	}
	return false
}
