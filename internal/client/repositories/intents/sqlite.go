package intents

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
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

const columns = `id, user_id, session_id, transaction_id, idx, path, local_path, file_name, kind,
	content_type, size, duration_ms, color, x_res, y_res, caption, no_cuts, cuts, expiration_hours,
	content_id, write_urls, read_urls, status, error, created_at, updated_at`

func (r *SQLiteRepository) Upsert(ctx context.Context, i *models.UploadIntent) (bool, error) {
	var exists int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM upload_intents WHERE id = ?`, i.ID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check intent %s: %w", i.ID, err)
	}

	cuts, err := json.Marshal(i.Cuts)
	if err != nil {
		return false, fmt.Errorf("failed to encode cuts: %w", err)
	}
	writeURLs, err := json.Marshal(i.WriteURLs)
	if err != nil {
		return false, fmt.Errorf("failed to encode write urls: %w", err)
	}
	readURLs, err := json.Marshal(i.ReadURLs)
	if err != nil {
		return false, fmt.Errorf("failed to encode read urls: %w", err)
	}

	query := `INSERT INTO upload_intents (` + columns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			local_path = excluded.local_path,
			content_type = excluded.content_type,
			size = excluded.size,
			duration_ms = excluded.duration_ms,
			color = excluded.color,
			x_res = excluded.x_res,
			y_res = excluded.y_res,
			content_id = excluded.content_id,
			write_urls = excluded.write_urls,
			read_urls = excluded.read_urls,
			status = excluded.status,
			error = excluded.error,
			updated_at = excluded.updated_at`

	_, err = r.db.ExecContext(ctx, query,
		i.ID, i.UserID, i.SessionID, i.TransactionID, i.Index, i.Path, i.LocalPath, i.FileName, string(i.Kind),
		i.ContentType, i.Size, i.Duration.Milliseconds(), i.Color, i.XRes, i.YRes, i.Caption, i.NoCuts, string(cuts), i.ExpirationHours,
		i.ContentID, string(writeURLs), string(readURLs), string(i.Status), i.Error, i.CreatedAt.UnixMilli(), i.UpdatedAt.UnixMilli(),
	)
	if err != nil {
		return false, fmt.Errorf("failed to upsert intent: %w", err)
	}

	return exists == 0, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.UploadIntent, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+columns+` FROM upload_intents WHERE id = ?`, id)

	i, err := scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get intent %s: %w", id, err)
	}
	return i, nil
}

func (r *SQLiteRepository) List(ctx context.Context, f Filter) ([]*models.UploadIntent, error) {
	var where []string
	var args []any

	if f.SessionID != "" {
		where = append(where, "session_id = ?")
		args = append(args, f.SessionID)
	}
	if f.TransactionID != "" {
		where = append(where, "transaction_id = ?")
		args = append(args, f.TransactionID)
	}
	if len(f.Statuses) > 0 {
		marks := make([]string, len(f.Statuses))
		for n, s := range f.Statuses {
			marks[n] = "?"
			args = append(args, string(s))
		}
		where = append(where, "status IN ("+strings.Join(marks, ", ")+")")
	}

	query := `SELECT ` + columns + ` FROM upload_intents`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at, transaction_id, idx`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list intents: %w", err)
	}
	defer rows.Close()

	var result []*models.UploadIntent
	for rows.Next() {
		i, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan intent row: %w", err)
		}
		result = append(result, i)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate intent rows: %w", err)
	}

	return result, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(s scanner) (*models.UploadIntent, error) {
	var (
		i                            models.UploadIntent
		kind, status                 string
		durationMs, created, updated int64
		cuts, writeURLs, readURLs    string
	)

	err := s.Scan(&i.ID, &i.UserID, &i.SessionID, &i.TransactionID, &i.Index, &i.Path, &i.LocalPath, &i.FileName, &kind,
		&i.ContentType, &i.Size, &durationMs, &i.Color, &i.XRes, &i.YRes, &i.Caption, &i.NoCuts, &cuts, &i.ExpirationHours,
		&i.ContentID, &writeURLs, &readURLs, &status, &i.Error, &created, &updated)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(cuts), &i.Cuts); err != nil {
		return nil, fmt.Errorf("decode cuts: %w", err)
	}
	if err := json.Unmarshal([]byte(writeURLs), &i.WriteURLs); err != nil {
		return nil, fmt.Errorf("decode write urls: %w", err)
	}
	if err := json.Unmarshal([]byte(readURLs), &i.ReadURLs); err != nil {
		return nil, fmt.Errorf("decode read urls: %w", err)
	}

	i.Kind = models.MediaKind(kind)
	i.Status = models.Status(status)
	i.Duration = time.Duration(durationMs) * time.Millisecond
	i.CreatedAt = time.UnixMilli(created).UTC()
	i.UpdatedAt = time.UnixMilli(updated).UTC()

	return &i, nil
}
