package assets

import (
	"context"

	"github.com/dmitrijs2005/gophmedia/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, asset *models.Asset) error
	Get(ctx context.Context, contentID string) (*models.Asset, error)
	Commit(ctx context.Context, asset *models.Asset) error
}
