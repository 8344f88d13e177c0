package idempotency

import (
	"context"
	"time"
)

// TTL is how long a cached command response stays replayable. A lookup past
// expiry behaves as not-found.
const TTL = 24 * time.Hour

// Store caches the serialized outcome of a write command under a
// client-supplied key.
type Store interface {
	FindByKey(ctx context.Context, key string) (response string, found bool, err error)

	Save(ctx context.Context, key, response string) error
}
