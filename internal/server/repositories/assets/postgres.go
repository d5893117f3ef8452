// Package assets persists server-side asset records in PostgreSQL.
package assets

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophmedia/internal/common"
	"github.com/dmitrijs2005/gophmedia/internal/dbx"
	"github.com/dmitrijs2005/gophmedia/internal/server/models"
)

// PostgresRepository implements asset storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func joinVariants(v []string) string {
	return strings.Join(v, ",")
}

func splitVariants(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// Create inserts an initialized asset row.
func (r *PostgresRepository) Create(ctx context.Context, a *models.Asset) error {
	query := `
		INSERT INTO assets (content_id, id, user_id, storage_key, file_name, content_type, kind, size, variants, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	res, err := r.db.ExecContext(ctx, query,
		a.ContentID, a.ID, a.UserID, a.StorageKey, a.FileName, a.ContentType, a.Kind, a.Size, joinVariants(a.Variants), a.Status)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n != 1 {
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
	return nil
}

// Get loads the asset by content id; common.ErrorNotFound when absent.
func (r *PostgresRepository) Get(ctx context.Context, contentID string) (*models.Asset, error) {
	query := `SELECT content_id, id, user_id, storage_key, file_name, content_type, kind, size,
		duration_ms, color, x_res, y_res, caption, variants, status, created_at, expires_at
		FROM assets WHERE content_id=$1`

	var (
		a          models.Asset
		durationMs int64
		variants   string
		expiresAt  sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, query, contentID).Scan(
		&a.ContentID, &a.ID, &a.UserID, &a.StorageKey, &a.FileName, &a.ContentType, &a.Kind, &a.Size,
		&durationMs, &a.Color, &a.XRes, &a.YRes, &a.Caption, &variants, &a.Status, &a.CreatedAt, &expiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("failed to select asset: %w", err)
	}

	a.Duration = time.Duration(durationMs) * time.Millisecond
	a.Variants = splitVariants(variants)
	if expiresAt.Valid {
		t := expiresAt.Time
		a.ExpiresAt = &t
	}
	return &a, nil
}

// Commit stores the final metadata of an initialized asset and flips it to
// committed. Returns common.ErrorConflict when the row is not in the
// initialized state.
func (r *PostgresRepository) Commit(ctx context.Context, a *models.Asset) error {
	query := `
		UPDATE assets SET
			content_type=$2, kind=$3, size=$4, duration_ms=$5, color=$6, x_res=$7, y_res=$8,
			caption=$9, variants=$10, status=$11, expires_at=$12, committed_at=now()
		WHERE content_id=$1 AND status='initialized'
	`
	res, err := r.db.ExecContext(ctx, query,
		a.ContentID, a.ContentType, a.Kind, a.Size, a.Duration.Milliseconds(), a.Color, a.XRes, a.YRes,
		a.Caption, joinVariants(a.Variants), models.AssetStatusCommitted, nullTime(a.ExpiresAt))
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 1:
		a.Status = models.AssetStatusCommitted
		return nil
	case 0:
		return common.ErrorConflict
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}
