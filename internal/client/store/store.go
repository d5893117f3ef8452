// Package store is the client's persistent local store: a SQLite database
// with embedded migrations, repositories for intents, assets and metadata,
// and change feeds that publish committed writes to subscribers.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/gophmedia/internal/client/migrations"
	"github.com/dmitrijs2005/gophmedia/internal/client/models"
	"github.com/dmitrijs2005/gophmedia/internal/client/repositories/assets"
	"github.com/dmitrijs2005/gophmedia/internal/client/repositories/intents"
	"github.com/dmitrijs2005/gophmedia/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/gophmedia/internal/dbx"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

type Store struct {
	db      *sql.DB
	intents *Feed[*models.UploadIntent]
	assets  *Feed[*models.Asset]
}

func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// Open opens (creating if needed) the database at dsn and migrates it.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// one writer at a time; also keeps ":memory:" on a single connection
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, `PRAGMA busy_timeout = 5000`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to configure sqlite: %w", err)
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	return &Store{
		db:      db,
		intents: NewFeed[*models.UploadIntent](),
		assets:  NewFeed[*models.Asset](),
	}, nil
}

func (s *Store) Close() error {
	s.intents.Close()
	s.assets.Close()
	return s.db.Close()
}

func (s *Store) Metadata() metadata.Repository {
	return metadata.NewSQLiteRepository(s.db)
}

// SaveIntents persists intents atomically.
func (s *Store) SaveIntents(ctx context.Context, items []*models.UploadIntent) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var batch ChangeBatch[*models.UploadIntent]
		if err := s.upsertIntents(ctx, tx, &batch, items...); err != nil {
			return err
		}
		dbx.OnCommit(ctx, func() { s.intents.Publish(batch) })
		return nil
	})
}

func (s *Store) UpdateIntent(ctx context.Context, i *models.UploadIntent) error {
	return s.SaveIntents(ctx, []*models.UploadIntent{i})
}

// Reconcile records a committed asset together with its final intent state.
func (s *Store) Reconcile(ctx context.Context, i *models.UploadIntent, a *models.Asset) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var intentBatch ChangeBatch[*models.UploadIntent]
		if err := s.upsertIntents(ctx, tx, &intentBatch, i); err != nil {
			return err
		}

		var assetBatch ChangeBatch[*models.Asset]
		if err := s.upsertAssets(ctx, tx, &assetBatch, a); err != nil {
			return err
		}

		dbx.OnCommit(ctx, func() {
			s.intents.Publish(intentBatch)
			s.assets.Publish(assetBatch)
		})
		return nil
	})
}

func (s *Store) SaveAsset(ctx context.Context, a *models.Asset) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var batch ChangeBatch[*models.Asset]
		if err := s.upsertAssets(ctx, tx, &batch, a); err != nil {
			return err
		}
		dbx.OnCommit(ctx, func() { s.assets.Publish(batch) })
		return nil
	})
}

func (s *Store) Intent(ctx context.Context, id string) (*models.UploadIntent, error) {
	return intents.NewSQLiteRepository(s.db).GetByID(ctx, id)
}

func (s *Store) Intents(ctx context.Context, f intents.Filter) ([]*models.UploadIntent, error) {
	return intents.NewSQLiteRepository(s.db).List(ctx, f)
}

func (s *Store) Asset(ctx context.Context, id string) (*models.Asset, error) {
	return assets.NewSQLiteRepository(s.db).GetByID(ctx, id)
}

func (s *Store) Assets(ctx context.Context, sessionID string) ([]*models.Asset, error) {
	return assets.NewSQLiteRepository(s.db).ListBySession(ctx, sessionID)
}

// ObserveIntents subscribes to committed intent writes matching match.
func (s *Store) ObserveIntents(match func(*models.UploadIntent) bool) *Subscription[*models.UploadIntent] {
	return s.intents.Subscribe(match)
}

// ObserveAssets subscribes to committed asset writes matching match.
func (s *Store) ObserveAssets(match func(*models.Asset) bool) *Subscription[*models.Asset] {
	return s.assets.Subscribe(match)
}

func (s *Store) upsertIntents(ctx context.Context, tx dbx.DBTX, batch *ChangeBatch[*models.UploadIntent], items ...*models.UploadIntent) error {
	repo := intents.NewSQLiteRepository(tx)
	for _, i := range items {
		inserted, err := repo.Upsert(ctx, i)
		if err != nil {
			return err
		}
		if inserted {
			batch.Inserted = append(batch.Inserted, i.Clone())
		} else {
			batch.Updated = append(batch.Updated, i.Clone())
		}
	}
	return nil
}

func (s *Store) upsertAssets(ctx context.Context, tx dbx.DBTX, batch *ChangeBatch[*models.Asset], items ...*models.Asset) error {
	repo := assets.NewSQLiteRepository(tx)
	for _, a := range items {
		inserted, err := repo.Upsert(ctx, a)
		if err != nil {
			return err
		}
		if inserted {
			batch.Inserted = append(batch.Inserted, a.Clone())
		} else {
			batch.Updated = append(batch.Updated, a.Clone())
		}
	}
	return nil
}
