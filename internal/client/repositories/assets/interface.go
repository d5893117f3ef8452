// Package assets persists committed assets in the local SQLite store.
package assets

import (
	"context"

	"github.com/dmitrijs2005/gophmedia/internal/client/models"
)

type Repository interface {
	// Upsert inserts or replaces the asset and reports whether it was new.
	Upsert(ctx context.Context, a *models.Asset) (bool, error)
	GetByID(ctx context.Context, id string) (*models.Asset, error)
	ListBySession(ctx context.Context, sessionID string) ([]*models.Asset, error)
}
