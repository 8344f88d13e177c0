package outbox

import (
	"context"
	"strconv"

	"github.com/redis/rueidis"
)

// RedisTransport pushes events onto a redis list and keeps the dispatcher
// checkpoint in a redis key.
type RedisTransport struct {
	client        rueidis.Client
	streamKey     string
	checkpointKey string
}

func NewRedisTransport(client rueidis.Client, streamKey, checkpointKey string) *RedisTransport {
	return &RedisTransport{
		client:        client,
		streamKey:     streamKey,
		checkpointKey: checkpointKey,
	}
}

func (t *RedisTransport) LoadCheckpoint(ctx context.Context) (uint64, error) {
	result := t.client.Do(ctx, t.client.B().Get().Key(t.checkpointKey).Build())

	if err := result.Error(); err != nil {
		if rueidis.IsRedisNil(err) {
			return 0, nil
		}
		return 0, err
	}

	value, err := result.ToString()
	if err != nil {
		return 0, err
	}

	return strconv.ParseUint(value, 10, 64)
}

func (t *RedisTransport) SaveCheckpoint(ctx context.Context, eventID uint64) error {
	cmd := t.client.B().Set().Key(t.checkpointKey).Value(strconv.FormatUint(eventID, 10)).Build()
	return t.client.Do(ctx, cmd).Error()
}

func (t *RedisTransport) Publish(ctx context.Context, payload string) error {
	cmd := t.client.B().Rpush().Key(t.streamKey).Element(payload).Build()
	return t.client.Do(ctx, cmd).Error()
}
