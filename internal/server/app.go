// Package server wires the reference media server: PostgreSQL-backed asset
// records, S3 presigning and the gRPC endpoint.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/dmitrijs2005/gophmedia/internal/logging"
	"github.com/dmitrijs2005/gophmedia/internal/server/config"
	"github.com/dmitrijs2005/gophmedia/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophmedia/internal/server/services"
	"github.com/dmitrijs2005/gophmedia/internal/server/storage"
	"golang.org/x/sync/errgroup"

	gs "github.com/dmitrijs2005/gophmedia/internal/server/grpc"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server *gs.GRPCServer
}

var openDB = func(dsn string) (*sql.DB, error) {
	return sql.Open("pgx", dsn)
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.New(os.Stdout, c.LogLevel, "json")

	db, err := openDB(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	as := services.NewAssetService(db, rm, storage.NewPresigner(c), c)
	srv := gs.NewGRPCServer(c.EndpointAddrGRPC, logger, as, c.SecretKey)

	return &App{config: c, logger: logger, db: db, server: srv}, nil
}

// Run serves until ctx is cancelled or the server fails, then closes the
// database.
func (app *App) Run(ctx context.Context) error {

	app.logger.Info(ctx, "Starting app...")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return app.server.Run(gctx)
	})

	err := g.Wait()
	if cerr := app.db.Close(); cerr != nil && err == nil {
		err = cerr
	}

	app.logger.Info(context.WithoutCancel(ctx), "App stopped")
	return err
}
