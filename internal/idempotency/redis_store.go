package idempotency

import (
	"context"

	"github.com/redis/rueidis"
)

// RedisStore keeps cached responses in redis. Expiry and purging of stale
// keys are handled by the redis TTL itself.
type RedisStore struct {
	client rueidis.Client
	prefix string
}

func NewRedisStore(client rueidis.Client, prefix string) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: prefix,
	}
}

func (s *RedisStore) FindByKey(ctx context.Context, key string) (string, bool, error) {
	cmd := s.client.B().Get().Key(s.prefix + key).Build()
	result := s.client.Do(ctx, cmd)

	if err := result.Error(); err != nil {
		if rueidis.IsRedisNil(err) {
			return "", false, nil
		}
		return "", false, err
	}

	response, err := result.ToString()
	if err != nil {
		return "", false, err
	}

	return response, true, nil
}

func (s *RedisStore) Save(ctx context.Context, key, response string) error {
	cmd := s.client.B().Set().Key(s.prefix + key).Value(response).Ex(TTL).Build()
	return s.client.Do(ctx, cmd).Error()
}
