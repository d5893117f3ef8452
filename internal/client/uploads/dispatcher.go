package uploads

import (
	"sync"

	"github.com/dmitrijs2005/gophmedia/internal/async"
	"github.com/dmitrijs2005/gophmedia/internal/logging"
)

// dispatcher runs posted tasks one at a time in post order. A panicking
// task is logged and does not stop the loop.
type dispatcher struct {
	logger logging.Logger

	mu     sync.Mutex
	tasks  []func()
	closed bool

	wake chan struct{}
	done chan struct{}
}

func newDispatcher(logger logging.Logger) *dispatcher {
	return &dispatcher{
		logger: logger,
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

func (d *dispatcher) start() {
	async.Go(d.logger, "uploads.dispatcher", d.run)
}

func (d *dispatcher) post(fn func()) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.tasks = append(d.tasks, fn)
	d.mu.Unlock()

	select {
	case d.wake <- struct{}{}:
	default:
	}
}

func (d *dispatcher) run() {
	defer close(d.done)

	for {
		d.mu.Lock()
		tasks := d.tasks
		d.tasks = nil
		closed := d.closed
		d.mu.Unlock()

		for _, fn := range tasks {
			d.exec(fn)
		}

		if len(tasks) > 0 {
			continue
		}
		if closed {
			return
		}
		<-d.wake
	}
}

func (d *dispatcher) exec(fn func()) {
	defer async.Recover(d.logger, "uploads.callback")
	fn()
}

// close stops accepting tasks, waits for the pending ones to run and
// returns once the loop exited.
func (d *dispatcher) close() {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()

	select {
	case d.wake <- struct{}{}:
	default:
	}
	<-d.done
}
