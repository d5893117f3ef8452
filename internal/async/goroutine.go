// Package async runs background goroutines behind a panic guard.
package async

import (
	"context"
	"runtime/debug"

	"github.com/dmitrijs2005/gophmedia/internal/logging"
)

// Go runs fn in a goroutine guarded by panic recovery.
func Go(logger logging.Logger, name string, fn func()) {
	go func() {
		defer Recover(logger, name)
		fn()
	}()
}

// Recover logs panic details without crashing the process.
// It must be called directly from a deferred statement.
func Recover(logger logging.Logger, name string) {
	if r := recover(); r != nil {
		if logger == nil {
			return
		}
		logger.Error(context.Background(), "goroutine panic", "name", name, "panic", r, "stack", string(debug.Stack()))
	}
}
