package client

import (
	"context"

	"github.com/dmitrijs2005/gophmedia/internal/client/models"
)

// InitAssetResult carries what the backend assigns to a new upload.
type InitAssetResult struct {
	ContentID string
	WriteURLs models.URLs
}

type Client interface {
	Close() error
	Ping(ctx context.Context) error
	InitAsset(ctx context.Context, intent *models.UploadIntent) (*InitAssetResult, error)
	CreateAsset(ctx context.Context, intent *models.UploadIntent) (*models.Asset, error)
}
