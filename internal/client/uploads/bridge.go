package uploads

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/gophmedia/internal/client/models"
	"github.com/dmitrijs2005/gophmedia/internal/client/store"
	"github.com/dmitrijs2005/gophmedia/internal/logging"
)

type expectation struct {
	intent  *models.UploadIntent
	settled chan struct{}
}

// bridge turns committed asset rows from the store change feed into
// transaction events. Only assets the worker announced with expect are
// handled, once each; anything else on the feed is ignored.
type bridge struct {
	registry   *Registry
	dispatcher *dispatcher
	logger     logging.Logger

	mu       sync.Mutex
	expected map[string]*expectation

	done chan struct{}
}

func newBridge(r *Registry, d *dispatcher, logger logging.Logger) *bridge {
	return &bridge{
		registry:   r,
		dispatcher: d,
		logger:     logger,
		expected:   make(map[string]*expectation),
		done:       make(chan struct{}),
	}
}

// expect announces that an asset for intent is about to be written. The
// returned channel is closed once its events were delivered.
func (b *bridge) expect(intent *models.UploadIntent) <-chan struct{} {
	e := &expectation{intent: intent, settled: make(chan struct{})}

	b.mu.Lock()
	b.expected[intent.ID] = e
	b.mu.Unlock()

	return e.settled
}

func (b *bridge) take(id string) (*expectation, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	e, ok := b.expected[id]
	if ok {
		delete(b.expected, id)
	}
	return e, ok
}

// run consumes sub until it is cancelled.
func (b *bridge) run(sub *store.Subscription[*models.Asset]) {
	defer close(b.done)

	for batch := range sub.C {
		for _, a := range batch.Inserted {
			b.handle(a)
		}
		for _, a := range batch.Updated {
			b.handle(a)
		}
	}
}

func (b *bridge) handle(a *models.Asset) {
	e, ok := b.take(a.ID)
	if !ok {
		b.logger.Debug(context.Background(), "ignoring asset notification", "asset_id", a.ID)
		return
	}

	b.dispatcher.post(func() {
		defer close(e.settled)

		tx, last, ok := b.registry.Complete(a.ID, a)
		if !ok {
			b.logger.Debug(context.Background(), "asset has no active transaction", "asset_id", a.ID)
			return
		}
		if tx.Callback == nil {
			return
		}

		tx.Callback(tx.ID, AssetCreated{Asset: a.Clone(), Intent: e.intent})
		if last {
			tx.Callback(tx.ID, TransactionEnd{Total: tx.Total, Assets: tx.Assets, Tx: tx})
		}
	})
}
