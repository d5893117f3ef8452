package models

import "time"

// Asset is a committed upload as returned by the backend and stored
// locally. ID equals the originating UploadIntent ID.
type Asset struct {
	ID          string
	UserID      string
	SessionID   string
	ContentID   string
	Path        string
	FileName    string
	ContentType string
	Kind        MediaKind
	Size        int64
	Duration    time.Duration
	Color       string
	XRes        int
	YRes        int
	Caption     string
	ReadURLs    URLs
	Status      string
	CreatedAt   time.Time
	ExpiresAt   time.Time
}

// Clone returns a copy safe to hand to other goroutines.
func (a *Asset) Clone() *Asset {
	if a == nil {
		return nil
	}
	c := *a
	return &c
}
