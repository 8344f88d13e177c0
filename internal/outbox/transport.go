package outbox

import "context"

// Transport moves recorded events to wherever external consumers pick them
// up, and persists the dispatcher's position in the event log.
type Transport interface {
	LoadCheckpoint(ctx context.Context) (uint64, error)

	SaveCheckpoint(ctx context.Context, eventID uint64) error

	Publish(ctx context.Context, payload string) error
}
