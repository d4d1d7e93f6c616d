package policy

import (
	"context"
	"errors"

	goredis "github.com/redis/go-redis/v9"
)

const defaultRedisPrefix = "timely:policy:"

// RedisBlobStore keeps models as plain string values, one key per user.
type RedisBlobStore struct {
	rdb    goredis.UniversalClient
	prefix string
}

// NewRedisBlobStore wraps an existing client. An empty prefix uses
// "timely:policy:".
func NewRedisBlobStore(rdb goredis.UniversalClient, prefix string) (*RedisBlobStore, error) {
	if rdb == nil {
		return nil, errors.New("policy: redis client is required")
	}
	if prefix == "" {
		prefix = defaultRedisPrefix
	}
	return &RedisBlobStore{rdb: rdb, prefix: prefix}, nil
}

func (s *RedisBlobStore) key(userID string) string {
	return s.prefix + userID
}

func (s *RedisBlobStore) Load(ctx context.Context, userID string) ([]byte, error) {
	data, err := s.rdb.Get(ctx, s.key(userID)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, ErrBlobNotFound
	}
	return data, err
}

// Save uses a single SET, which redis applies atomically.
func (s *RedisBlobStore) Save(ctx context.Context, userID string, data []byte) error {
	return s.rdb.Set(ctx, s.key(userID), data, 0).Err()
}
