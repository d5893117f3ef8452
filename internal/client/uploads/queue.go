package uploads

import (
	"sync"

	"github.com/dmitrijs2005/gophmedia/internal/client/models"
)

// Queue is the unbounded FIFO of intents waiting for the worker.
type Queue struct {
	mu    sync.Mutex
	items []*models.UploadIntent
	wake  chan struct{}
}

func NewQueue() *Queue {
	return &Queue{wake: make(chan struct{}, 1)}
}

// Enqueue appends items to the tail. It does not start any work.
func (q *Queue) Enqueue(items ...*models.UploadIntent) {
	if len(items) == 0 {
		return
	}

	q.mu.Lock()
	q.items = append(q.items, items...)
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// Pop removes the head.
func (q *Queue) Pop() (*models.UploadIntent, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		return nil, false
	}
	head := q.items[0]
	q.items[0] = nil
	q.items = q.items[1:]
	return head, true
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Ready is signalled after Enqueue.
func (q *Queue) Ready() <-chan struct{} {
	return q.wake
}
