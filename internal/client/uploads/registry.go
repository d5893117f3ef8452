package uploads

import (
	"fmt"
	"sync"

	"github.com/dmitrijs2005/gophmedia/internal/client/models"
)

// Transaction is one submitted batch of uploads.
type Transaction struct {
	ID        string
	IntentIDs []string
	Total     int
	Remaining int
	Assets    []*models.Asset
	Callback  Callback

	completed map[string]bool
}

// NewTransaction returns a transaction owning intentIDs.
func NewTransaction(id string, intentIDs []string, cb Callback) *Transaction {
	return &Transaction{
		ID:        id,
		IntentIDs: append([]string(nil), intentIDs...),
		Total:     len(intentIDs),
		Remaining: len(intentIDs),
		Callback:  cb,
		completed: make(map[string]bool, len(intentIDs)),
	}
}

func (t *Transaction) snapshot() *Transaction {
	c := &Transaction{
		ID:        t.ID,
		IntentIDs: append([]string(nil), t.IntentIDs...),
		Total:     t.Total,
		Remaining: t.Remaining,
		Assets:    make([]*models.Asset, 0, len(t.Assets)),
		Callback:  t.Callback,
	}
	for _, a := range t.Assets {
		c.Assets = append(c.Assets, a.Clone())
	}
	return c
}

// Registry tracks in-flight transactions and which transaction owns each intent.
type Registry struct {
	mu     sync.Mutex
	txs    map[string]*Transaction
	owners map[string]string
}

func NewRegistry() *Registry {
	return &Registry{
		txs:    make(map[string]*Transaction),
		owners: make(map[string]string),
	}
}

// Register adds tx. It fails with ErrDuplicateTransaction when tx.ID is active.
func (r *Registry) Register(tx *Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.txs[tx.ID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateTransaction, tx.ID)
	}
	if tx.completed == nil {
		tx.completed = make(map[string]bool, len(tx.IntentIDs))
	}
	r.txs[tx.ID] = tx
	for _, id := range tx.IntentIDs {
		r.owners[id] = tx.ID
	}
	return nil
}

// Remove drops tx without emitting anything. Used when submission fails.
func (r *Registry) Remove(txID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removeLocked(txID)
}

func (r *Registry) removeLocked(txID string) {
	tx, ok := r.txs[txID]
	if !ok {
		return
	}
	for _, id := range tx.IntentIDs {
		delete(r.owners, id)
	}
	delete(r.txs, txID)
}

// Complete records the terminal outcome of intentID. asset is nil for a
// failed member. It returns a snapshot of the owning transaction, whether
// this was its last member, and false when no active transaction owns the
// intent or the member already completed. The last completion removes the
// transaction.
func (r *Registry) Complete(intentID string, asset *models.Asset) (*Transaction, bool, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	txID, ok := r.owners[intentID]
	if !ok {
		return nil, false, false
	}
	tx := r.txs[txID]
	if tx.completed[intentID] {
		return nil, false, false
	}

	tx.completed[intentID] = true
	if asset != nil {
		tx.Assets = append(tx.Assets, asset.Clone())
	}
	tx.Remaining--

	last := tx.Remaining == 0
	if last {
		r.removeLocked(txID)
	}
	return tx.snapshot(), last, true
}

// FindOwner returns a snapshot of the transaction owning intentID.
func (r *Registry) FindOwner(intentID string) (*Transaction, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	txID, ok := r.owners[intentID]
	if !ok {
		return nil, false
	}
	return r.txs[txID].snapshot(), true
}

// Len returns the number of active transactions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.txs)
}
