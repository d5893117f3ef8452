package assets

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophmedia/internal/client/models"
	"github.com/dmitrijs2005/gophmedia/internal/common"
	"github.com/dmitrijs2005/gophmedia/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const columns = `id, user_id, session_id, content_id, path, file_name, content_type, kind, size,
	duration_ms, color, x_res, y_res, caption, read_urls, status, created_at, expires_at`

func (r *SQLiteRepository) Upsert(ctx context.Context, a *models.Asset) (bool, error) {
	var exists int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM assets WHERE id = ?`, a.ID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check asset %s: %w", a.ID, err)
	}

	urls, err := json.Marshal(a.ReadURLs)
	if err != nil {
		return false, fmt.Errorf("failed to encode read urls: %w", err)
	}

	var expires int64
	if !a.ExpiresAt.IsZero() {
		expires = a.ExpiresAt.UnixMilli()
	}

	query := `INSERT INTO assets (` + columns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			content_id = excluded.content_id,
			content_type = excluded.content_type,
			size = excluded.size,
			duration_ms = excluded.duration_ms,
			color = excluded.color,
			x_res = excluded.x_res,
			y_res = excluded.y_res,
			caption = excluded.caption,
			read_urls = excluded.read_urls,
			status = excluded.status,
			expires_at = excluded.expires_at`

	_, err = r.db.ExecContext(ctx, query,
		a.ID, a.UserID, a.SessionID, a.ContentID, a.Path, a.FileName, a.ContentType, string(a.Kind), a.Size,
		a.Duration.Milliseconds(), a.Color, a.XRes, a.YRes, a.Caption, string(urls), a.Status, a.CreatedAt.UnixMilli(), expires,
	)
	if err != nil {
		return false, fmt.Errorf("failed to upsert asset: %w", err)
	}

	return exists == 0, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Asset, error) {
	a, err := scan(r.db.QueryRowContext(ctx, `SELECT `+columns+` FROM assets WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get asset %s: %w", id, err)
	}
	return a, nil
}

func (r *SQLiteRepository) ListBySession(ctx context.Context, sessionID string) ([]*models.Asset, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+columns+` FROM assets WHERE session_id = ? ORDER BY created_at, id`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}
	defer rows.Close()

	var result []*models.Asset
	for rows.Next() {
		a, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan asset row: %w", err)
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate asset rows: %w", err)
	}

	return result, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(s scanner) (*models.Asset, error) {
	var (
		a                           models.Asset
		kind, urls                  string
		durationMs, created, expire int64
	)

	err := s.Scan(&a.ID, &a.UserID, &a.SessionID, &a.ContentID, &a.Path, &a.FileName, &a.ContentType, &kind, &a.Size,
		&durationMs, &a.Color, &a.XRes, &a.YRes, &a.Caption, &urls, &a.Status, &created, &expire)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(urls), &a.ReadURLs); err != nil {
		return nil, fmt.Errorf("decode read urls: %w", err)
	}

	a.Kind = models.MediaKind(kind)
	a.Duration = time.Duration(durationMs) * time.Millisecond
	a.CreatedAt = time.UnixMilli(created).UTC()
	if expire > 0 {
		a.ExpiresAt = time.UnixMilli(expire).UTC()
	}

	return &a, nil
}
