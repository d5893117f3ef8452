package uploads

import (
	"fmt"
	"sync"
	"testing"

	"github.com/dmitrijs2005/gophmedia/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_RegisterDuplicate(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(NewTransaction("t1", []string{"a"}, nil)))
	require.ErrorIs(t, r.Register(NewTransaction("t1", []string{"b"}, nil)), ErrDuplicateTransaction)
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_CompleteCountsDownAndRemoves(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(NewTransaction("t1", []string{"a", "b"}, nil)))

	tx, last, ok := r.Complete("a", &models.Asset{ID: "a"})
	require.True(t, ok)
	assert.False(t, last)
	assert.Equal(t, 1, tx.Remaining)
	assert.Len(t, tx.Assets, 1)

	tx, last, ok = r.Complete("b", nil)
	require.True(t, ok)
	assert.True(t, last)
	assert.Equal(t, 0, tx.Remaining)
	assert.Equal(t, 2, tx.Total)
	assert.Len(t, tx.Assets, 1)

	assert.Equal(t, 0, r.Len())
	_, found := r.FindOwner("a")
	assert.False(t, found)
}

func TestRegistry_CompleteIsOncePerMember(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(NewTransaction("t1", []string{"a", "b"}, nil)))

	_, _, ok := r.Complete("a", nil)
	require.True(t, ok)
	_, _, ok = r.Complete("a", &models.Asset{ID: "a"})
	assert.False(t, ok)

	tx, found := r.FindOwner("b")
	require.True(t, found)
	assert.Equal(t, 1, tx.Remaining)
	assert.Empty(t, tx.Assets)
}

func TestRegistry_UnknownIntent(t *testing.T) {
	r := NewRegistry()
	_, _, ok := r.Complete("ghost", nil)
	assert.False(t, ok)
	_, found := r.FindOwner("ghost")
	assert.False(t, found)
}

func TestRegistry_SnapshotIsDetached(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(NewTransaction("t1", []string{"a", "b"}, nil)))

	snap, _ := r.FindOwner("a")
	snap.Remaining = 100
	snap.IntentIDs[0] = "zzz"

	again, _ := r.FindOwner("a")
	assert.Equal(t, 2, again.Remaining)
	assert.Equal(t, []string{"a", "b"}, again.IntentIDs)
}

func TestRegistry_Remove(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(NewTransaction("t1", []string{"a"}, nil)))
	r.Remove("t1")
	r.Remove("t1")

	_, found := r.FindOwner("a")
	assert.False(t, found)
	require.NoError(t, r.Register(NewTransaction("t1", []string{"a"}, nil)))
}

func TestRegistry_ConcurrentCompleteHasOneLast(t *testing.T) {
	const n = 64

	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("m%d", i)
	}

	r := NewRegistry()
	require.NoError(t, r.Register(NewTransaction("t1", ids, nil)))
	require.NoError(t, r.Register(NewTransaction("t2", []string{"other"}, nil)))

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		lasts int
		oks   int
		start = make(chan struct{})
	)
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			<-start
			tx, last, ok := r.Complete(id, &models.Asset{ID: id})
			mu.Lock()
			defer mu.Unlock()
			if ok {
				oks++
			}
			if last {
				lasts++
				assert.Equal(t, 0, tx.Remaining)
				assert.Len(t, tx.Assets, n)
			}
		}(id)
	}
	close(start)
	wg.Wait()

	assert.Equal(t, n, oks)
	assert.Equal(t, 1, lasts)
	assert.Equal(t, 1, r.Len())

	_, last, ok := r.Complete(ids[0], nil)
	assert.False(t, ok)
	assert.False(t, last)

	_, found := r.FindOwner("other")
	assert.True(t, found)
}
