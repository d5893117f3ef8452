// Package intents persists UploadIntent records in the local SQLite store.
package intents

import (
	"context"

	"github.com/dmitrijs2005/gophmedia/internal/client/models"
)

// Filter narrows List results. Empty fields match everything.
type Filter struct {
	SessionID     string
	TransactionID string
	Statuses      []models.Status
}

type Repository interface {
	// Upsert inserts or replaces the intent and reports whether it was new.
	Upsert(ctx context.Context, i *models.UploadIntent) (bool, error)
	GetByID(ctx context.Context, id string) (*models.UploadIntent, error)
	List(ctx context.Context, f Filter) ([]*models.UploadIntent, error)
}
