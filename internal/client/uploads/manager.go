package uploads

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophmedia/internal/async"
	"github.com/dmitrijs2005/gophmedia/internal/client/media"
	"github.com/dmitrijs2005/gophmedia/internal/client/models"
	"github.com/dmitrijs2005/gophmedia/internal/client/store"
	"github.com/dmitrijs2005/gophmedia/internal/logging"
	"github.com/google/uuid"
)

const defaultSettleTimeout = 5 * time.Second

// Store is the local persistence the manager writes through.
type Store interface {
	SaveIntents(ctx context.Context, items []*models.UploadIntent) error
	UpdateIntent(ctx context.Context, i *models.UploadIntent) error
	Reconcile(ctx context.Context, i *models.UploadIntent, a *models.Asset) error
	ObserveAssets(match func(*models.Asset) bool) *store.Subscription[*models.Asset]
}

type Deps struct {
	Store     Store
	Backend   Backend
	Transport Transport
	Media     media.Transformer
	Logger    logging.Logger
}

type Settings struct {
	UserID    string
	SessionID string
	// TempDir receives staged video copies; empty means os.TempDir().
	TempDir string
	// SettleTimeout bounds how long the worker waits for the events of a
	// committed asset before admitting the next intent.
	SettleTimeout   time.Duration
	Cuts            models.Cuts
	ExpirationHours int
}

func (s Settings) cuts() models.Cuts {
	c, def := s.Cuts, models.DefaultCuts()
	if c.Small <= 0 {
		c.Small = def.Small
	}
	if c.Medium <= 0 {
		c.Medium = def.Medium
	}
	if c.Large <= 0 {
		c.Large = def.Large
	}
	return c
}

// Manager owns the queue, the registry and the single upload worker.
type Manager struct {
	store    Store
	builder  *Builder
	pipeline *Pipeline
	logger   logging.Logger
	settings Settings

	registry   *Registry
	queue      *Queue
	dispatcher *dispatcher
	bridge     *bridge

	now   func() time.Time
	newID func() string

	mu      sync.Mutex
	started bool
	err     error

	quit     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

func NewManager(deps Deps, s Settings) *Manager {
	logger := deps.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logger.With("module", "uploads")

	if s.SettleTimeout <= 0 {
		s.SettleTimeout = defaultSettleTimeout
	}
	s.Cuts = s.cuts()

	registry := NewRegistry()
	d := newDispatcher(logger)

	return &Manager{
		store:      deps.Store,
		builder:    NewBuilder(deps.Media, logger, s),
		pipeline:   NewPipeline(deps.Backend, deps.Transport, deps.Media, s.TempDir, logger),
		logger:     logger,
		settings:   s,
		registry:   registry,
		queue:      NewQueue(),
		dispatcher: d,
		bridge:     newBridge(registry, d, logger),
		now:        func() time.Time { return time.Now().UTC() },
		newID:      uuid.NewString,
		quit:       make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// Start subscribes to the asset feed and launches the worker. The worker
// halts when ctx is cancelled, Stop is called or a store write fails.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.started {
		m.mu.Unlock()
		return errors.New("upload manager already started")
	}
	m.started = true
	m.mu.Unlock()

	sessionID := m.settings.SessionID
	sub := m.store.ObserveAssets(func(a *models.Asset) bool {
		return sessionID == "" || a.SessionID == sessionID
	})

	m.dispatcher.start()
	async.Go(m.logger, "uploads.bridge", func() { m.bridge.run(sub) })
	async.Go(m.logger, "uploads.worker", func() {
		defer func() {
			m.stopOnce.Do(func() { close(m.quit) })
			sub.Cancel()
			<-m.bridge.done
			m.dispatcher.close()
			close(m.done)
		}()
		m.work(ctx)
	})

	m.logger.Info(ctx, "upload manager started", "session_id", sessionID)
	return nil
}

// Stop lets the intent in flight finish and halts the worker. Queued
// intents stay pending in the store.
func (m *Manager) Stop() {
	m.stopOnce.Do(func() { close(m.quit) })

	m.mu.Lock()
	started := m.started
	m.mu.Unlock()
	if started {
		<-m.done
	}
}

// Done is closed once the worker has halted.
func (m *Manager) Done() <-chan struct{} {
	return m.done
}

// Err returns the store failure that halted the worker, if any.
func (m *Manager) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.err
}

func (m *Manager) setErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err == nil {
		m.err = err
	}
}

// UploadAssets submits items as a new transaction and returns its id.
func (m *Manager) UploadAssets(ctx context.Context, items []models.UploadItem, cb Callback) (string, error) {
	txID := m.newID()
	if err := m.UploadTransaction(ctx, txID, items, cb); err != nil {
		return "", err
	}
	return txID, nil
}

// UploadTransaction submits items under a caller-chosen transaction id.
// On error nothing was queued and no callback will fire.
func (m *Manager) UploadTransaction(ctx context.Context, txID string, items []models.UploadItem, cb Callback) error {
	if len(items) == 0 {
		return ErrNoUploads
	}
	if m.halted() {
		return ErrStopped
	}

	intents := make([]*models.UploadIntent, len(items))
	failed := make(map[string]error)
	ids := make([]string, len(items))

	for n, item := range items {
		intent, err := m.builder.Build(ctx, txID, n, item)
		if err != nil {
			intent.Status = models.StatusFailure
			intent.Error = err.Error()
			failed[intent.ID] = err
			m.logger.Warn(ctx, "invalid upload item", "tx_id", txID, "path", item.Path, "error", err)
		}
		intents[n] = intent
		ids[n] = intent.ID
	}

	tx := NewTransaction(txID, ids, cb)
	if err := m.registry.Register(tx); err != nil {
		return err
	}

	if err := m.store.SaveIntents(ctx, intents); err != nil {
		m.registry.Remove(txID)
		return fmt.Errorf("save intents: %w", err)
	}

	m.logger.Info(ctx, "transaction submitted", "tx_id", txID, "total", len(items), "invalid", len(failed))

	m.emit(txID, cb, TransactionStart{Total: len(items)})

	queued := make([]*models.UploadIntent, 0, len(intents))
	for _, intent := range intents {
		if err, ok := failed[intent.ID]; ok {
			m.postFailure(intent.Clone(), err)
			continue
		}
		queued = append(queued, intent)
	}
	m.queue.Enqueue(queued...)

	return nil
}

func (m *Manager) halted() bool {
	select {
	case <-m.quit:
		return true
	case <-m.done:
		return true
	default:
	}
	return m.Err() != nil
}

func (m *Manager) emit(txID string, cb Callback, st UploadState) {
	if cb == nil {
		return
	}
	m.dispatcher.post(func() { cb(txID, st) })
}

// postFailure completes intent as failed and emits its terminal events.
func (m *Manager) postFailure(intent *models.UploadIntent, err error) {
	m.dispatcher.post(func() {
		tx, last, ok := m.registry.Complete(intent.ID, nil)
		if !ok || tx.Callback == nil {
			return
		}
		tx.Callback(tx.ID, AssetUploadError{Err: err, Intent: intent})
		if last {
			tx.Callback(tx.ID, TransactionEnd{Total: tx.Total, Assets: tx.Assets, Tx: tx})
		}
	})
}

func (m *Manager) work(ctx context.Context) {
	for {
		select {
		case <-m.quit:
			return
		case <-ctx.Done():
			return
		default:
		}

		if !m.admitNext(ctx) {
			select {
			case <-m.queue.Ready():
			case <-m.quit:
				return
			case <-ctx.Done():
				return
			}
			continue
		}

		if err := m.Err(); err != nil {
			m.logger.Error(ctx, "upload worker halted", "error", err)
			return
		}
	}
}

// admitNext pops the queue head and runs it to completion. It reports
// false when the queue was empty.
func (m *Manager) admitNext(ctx context.Context) bool {
	intent, ok := m.queue.Pop()
	if !ok {
		return false
	}
	m.process(context.WithoutCancel(ctx), intent)
	return true
}

func (m *Manager) process(ctx context.Context, intent *models.UploadIntent) {
	tx, ok := m.registry.FindOwner(intent.ID)
	if !ok {
		m.logger.Warn(ctx, "queued intent has no transaction", "intent_id", intent.ID)
		return
	}
	cb := tx.Callback
	log := m.logger.With("tx_id", tx.ID, "intent_id", intent.ID)

	m.emit(tx.ID, cb, AssetStart{Index: intent.Index, Total: tx.Total, Intent: intent.Clone()})

	if err := m.pipeline.Init(ctx, intent); err != nil {
		m.fail(ctx, intent, err)
		return
	}
	if !m.persist(ctx, intent) {
		return
	}

	intent.Status = models.StatusUploading
	if !m.persist(ctx, intent) {
		return
	}

	progress := func(sent, total int64) {
		m.emit(tx.ID, cb, AssetProgress{Sent: sent, Total: total, Intent: intent.Clone()})
	}
	if err := m.pipeline.Transfer(ctx, intent, progress); err != nil {
		m.fail(ctx, intent, err)
		return
	}
	m.emit(tx.ID, cb, AssetUploadEnd{Intent: intent.Clone()})

	asset, err := m.pipeline.Commit(ctx, intent)
	if err != nil {
		m.fail(ctx, intent, err)
		return
	}

	intent.UpdatedAt = m.now()
	settled := m.bridge.expect(intent.Clone())
	if err := m.store.Reconcile(ctx, intent, asset); err != nil {
		m.bridge.take(intent.ID)
		m.setErr(fmt.Errorf("reconcile %s: %w", intent.ID, err))
		return
	}
	log.Info(ctx, "asset uploaded", "content_id", intent.ContentID, "size", intent.Size)

	select {
	case <-settled:
	case <-time.After(m.settings.SettleTimeout):
		log.Warn(ctx, "asset events not settled in time", "timeout", m.settings.SettleTimeout)
	}
}

// persist writes intent. A failure halts the manager.
func (m *Manager) persist(ctx context.Context, intent *models.UploadIntent) bool {
	intent.UpdatedAt = m.now()
	if err := m.store.UpdateIntent(ctx, intent); err != nil {
		m.setErr(fmt.Errorf("update intent %s: %w", intent.ID, err))
		return false
	}
	return true
}

func (m *Manager) fail(ctx context.Context, intent *models.UploadIntent, err error) {
	m.logger.Warn(ctx, "asset upload failed", "tx_id", intent.TransactionID, "intent_id", intent.ID, "error", err)

	intent.Status = models.StatusFailure
	intent.Error = err.Error()
	m.persist(ctx, intent)
	m.postFailure(intent.Clone(), err)
}
