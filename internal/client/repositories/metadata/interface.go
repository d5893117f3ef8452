// Package metadata stores client identity and settings as key/value pairs.
package metadata

import "context"

// Well-known keys.
const (
	KeySessionID = "session_id"
	KeyUserID    = "user_id"
)

type Repository interface {
	// Get returns the stored value and whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	// GetOrCreate returns the stored value, storing gen() first when absent.
	GetOrCreate(ctx context.Context, key string, gen func() string) (string, error)
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string]string, error)
}
