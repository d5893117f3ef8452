package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/gophmedia/internal/client/client"
	"github.com/dmitrijs2005/gophmedia/internal/client/config"
	"github.com/dmitrijs2005/gophmedia/internal/client/media"
	"github.com/dmitrijs2005/gophmedia/internal/client/models"
	"github.com/dmitrijs2005/gophmedia/internal/client/services"
	"github.com/dmitrijs2005/gophmedia/internal/client/store"
	"github.com/dmitrijs2005/gophmedia/internal/client/uploads"
	"github.com/dmitrijs2005/gophmedia/internal/filex"
	"github.com/dmitrijs2005/gophmedia/internal/logging"
	"github.com/dmitrijs2005/gophmedia/internal/netx"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"
)

var (
	ErrNoFiles       = errors.New("no files given")
	ErrUploadsFailed = errors.New("some uploads failed")
)

// uploader is the part of uploads.Manager the app drives.
type uploader interface {
	Start(ctx context.Context) error
	Stop()
	Done() <-chan struct{}
	Err() error
	UploadAssets(ctx context.Context, items []models.UploadItem, cb uploads.Callback) (string, error)
}

type App struct {
	config  *config.Config
	logger  logging.Logger
	media   media.Transformer
	manager uploader
	session services.SessionService
	reports *services.ReportService
	out     io.Writer
	tty     bool
	width   int

	closers []func() error
}

// NewApp opens the local store, connects to the backend and builds the
// upload manager.
func NewApp(ctx context.Context, c *config.Config, out *os.File) (*App, error) {
	logger := logging.New(os.Stderr, c.LogLevel, c.LogFormat)

	st, err := store.Open(ctx, c.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	apiClient, err := client.NewMediaClient(c.ServerEndpointAddr, c.AccessToken, c.RPCTimeout)
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	a := &App{
		config:  c,
		logger:  logger,
		media:   media.New(media.Options{FFmpegPath: c.FFmpegPath, FFprobePath: c.FFprobePath}),
		session: services.NewSessionService(apiClient, st.Metadata()),
		reports: services.NewReportService(st),
		out:     out,
		closers: []func() error{apiClient.Close, st.Close},
	}
	a.tty, a.width = terminal(out)

	id, err := a.session.Identity(ctx, c.UserID)
	if err != nil {
		a.Close()
		return nil, err
	}

	stagingDir, err := filex.EnsureSubDir(c.StagingDir)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.manager = uploads.NewManager(uploads.Deps{
		Store:     st,
		Backend:   apiClient,
		Transport: netx.NewUploader(c.HTTPTimeout),
		Media:     a.media,
		Logger:    logger,
	}, uploads.Settings{
		UserID:          id.UserID,
		SessionID:       id.SessionID,
		TempDir:         stagingDir,
		SettleTimeout:   c.SettleTimeout,
		Cuts:            c.Cuts,
		ExpirationHours: c.ExpirationHours,
	})

	return a, nil
}

func terminal(f *os.File) (bool, int) {
	if f == nil || !term.IsTerminal(int(f.Fd())) {
		return false, 0
	}
	w, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return true, 80
	}
	return true, w
}

func (a *App) Close() {
	for _, c := range a.closers {
		if err := c(); err != nil {
			a.logger.Warn(context.Background(), "close failed", "error", err)
		}
	}
}

// Run uploads the configured files as one transaction and blocks until it
// ends, the manager halts or ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	defer a.Close()

	items := a.items()
	if len(items) == 0 {
		return ErrNoFiles
	}

	if err := a.session.Ping(ctx); err != nil {
		a.logger.Warn(ctx, "server is not reachable", "addr", a.config.ServerEndpointAddr, "error", err)
	}

	p := newPrinter(a.out, a.tty, a.width)
	ended := make(chan uploads.TransactionEnd, 1)
	cb := func(txID string, st uploads.UploadState) {
		p.handle(txID, st)
		if end, ok := st.(uploads.TransactionEnd); ok {
			ended <- end
		}
	}

	if err := a.manager.Start(ctx); err != nil {
		return err
	}

	var txID string
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		select {
		case <-a.manager.Done():
			if err := a.manager.Err(); err != nil {
				return fmt.Errorf("upload manager halted: %w", err)
			}
			return nil
		case <-gctx.Done():
			return nil
		}
	})

	g.Go(func() error {
		defer a.manager.Stop()

		var err error
		txID, err = a.manager.UploadAssets(gctx, items, cb)
		if err != nil {
			return err
		}

		select {
		case <-ended:
			return nil
		case <-gctx.Done():
			return gctx.Err()
		}
	})

	if err := g.Wait(); err != nil {
		return err
	}

	if p.failures() > 0 {
		a.summary(context.WithoutCancel(ctx), txID)
		return ErrUploadsFailed
	}
	return nil
}

func (a *App) summary(ctx context.Context, txID string) {
	if a.reports == nil || txID == "" {
		return
	}
	r, err := a.reports.Transaction(ctx, txID)
	if err != nil {
		a.logger.Warn(ctx, "failed to load transaction report", "tx_id", txID, "error", err)
		return
	}
	fmt.Fprintf(a.out, "%d of %d uploads failed:\n", len(r.Failed), r.Total())
	for _, i := range r.Failed {
		fmt.Fprintf(a.out, "  %s: %s\n", i.Path, i.Error)
	}
}

func (a *App) items() []models.UploadItem {
	items := make([]models.UploadItem, 0, len(a.config.Files))
	for _, f := range a.config.Files {
		items = append(items, models.UploadItem{
			Path:            f,
			Kind:            a.kindOf(f),
			NoCuts:          a.config.NoCuts,
			Cuts:            a.config.Cuts,
			ExpirationHours: a.config.ExpirationHours,
			Caption:         a.config.Caption,
		})
	}
	return items
}

func (a *App) kindOf(path string) models.MediaKind {
	if a.config.Kind != "" {
		return models.ParseMediaKind(a.config.Kind)
	}
	return models.KindFromContentType(a.media.MimeType(filepath.Base(path)))
}
