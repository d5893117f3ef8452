package store

import "sync"

// ChangeBatch groups the rows one committed write inserted or updated.
type ChangeBatch[T any] struct {
	Inserted []T
	Updated  []T
}

func (b ChangeBatch[T]) empty() bool {
	return len(b.Inserted) == 0 && len(b.Updated) == 0
}

// Subscription delivers matching change batches in commit order until
// Cancel is called. C is closed after Cancel.
type Subscription[T any] struct {
	C <-chan ChangeBatch[T]

	feed *Feed[T]
	id   uint64
}

// Cancel stops delivery. Batches not yet received are dropped.
func (s *Subscription[T]) Cancel() {
	s.feed.remove(s.id)
}

type subscriber[T any] struct {
	match   func(T) bool
	out     chan ChangeBatch[T]
	mu      sync.Mutex
	pending []ChangeBatch[T]
	wake    chan struct{}
	quit    chan struct{}
}

// Feed fans change batches out to subscribers. Publish never blocks:
// every subscriber has an unbounded backlog drained by its own goroutine.
type Feed[T any] struct {
	mu   sync.Mutex
	subs map[uint64]*subscriber[T]
	next uint64
}

func NewFeed[T any]() *Feed[T] {
	return &Feed[T]{subs: make(map[uint64]*subscriber[T])}
}

// Subscribe registers a subscriber receiving only rows for which match
// returns true. A nil match accepts everything.
func (f *Feed[T]) Subscribe(match func(T) bool) *Subscription[T] {
	if match == nil {
		match = func(T) bool { return true }
	}

	s := &subscriber[T]{
		match: match,
		out:   make(chan ChangeBatch[T]),
		wake:  make(chan struct{}, 1),
		quit:  make(chan struct{}),
	}

	f.mu.Lock()
	f.next++
	id := f.next
	f.subs[id] = s
	f.mu.Unlock()

	go s.pump()

	return &Subscription[T]{C: s.out, feed: f, id: id}
}

// Publish delivers batch to every subscriber with at least one matching row.
func (f *Feed[T]) Publish(batch ChangeBatch[T]) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, s := range f.subs {
		filtered := ChangeBatch[T]{
			Inserted: filter(batch.Inserted, s.match),
			Updated:  filter(batch.Updated, s.match),
		}
		if filtered.empty() {
			continue
		}
		s.push(filtered)
	}
}

func (f *Feed[T]) remove(id uint64) {
	f.mu.Lock()
	s, ok := f.subs[id]
	delete(f.subs, id)
	f.mu.Unlock()

	if ok {
		close(s.quit)
	}
}

// Close cancels every subscription.
func (f *Feed[T]) Close() {
	f.mu.Lock()
	subs := f.subs
	f.subs = make(map[uint64]*subscriber[T])
	f.mu.Unlock()

	for _, s := range subs {
		close(s.quit)
	}
}

func (s *subscriber[T]) push(b ChangeBatch[T]) {
	s.mu.Lock()
	s.pending = append(s.pending, b)
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *subscriber[T]) pump() {
	defer close(s.out)

	for {
		s.mu.Lock()
		batches := s.pending
		s.pending = nil
		s.mu.Unlock()

		for _, b := range batches {
			select {
			case s.out <- b:
			case <-s.quit:
				return
			}
		}

		if len(batches) > 0 {
			continue
		}

		select {
		case <-s.wake:
		case <-s.quit:
			return
		}
	}
}

func filter[T any](items []T, match func(T) bool) []T {
	var out []T
	for _, it := range items {
		if match(it) {
			out = append(out, it)
		}
	}
	return out
}
