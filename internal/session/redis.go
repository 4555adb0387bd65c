package session

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"
)

// StorageKey is the fixed key the session blob lives under.
const StorageKey = "auth-storage"

// RedisBackend persists the session record as a JSON blob under StorageKey.
type RedisBackend struct {
	client *redis.Client
}

// NewRedisBackend constructs a RedisBackend.
func NewRedisBackend(client *redis.Client) *RedisBackend {
	return &RedisBackend{client: client}
}

// Load reads the persisted session. A missing key yields an anonymous session.
func (b *RedisBackend) Load(ctx context.Context) (Session, error) {
	payload, err := b.client.Get(ctx, StorageKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Session{}, nil
		}
		return Session{}, err
	}
	var sess Session
	if err := json.Unmarshal(payload, &sess); err != nil {
		return Session{}, err
	}
	return sess, nil
}

// Save writes the session blob.
func (b *RedisBackend) Save(ctx context.Context, sess Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return b.client.Set(ctx, StorageKey, data, 0).Err()
}

// Clear removes the persisted blob.
func (b *RedisBackend) Clear(ctx context.Context) error {
	err := b.client.Del(ctx, StorageKey).Err()
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	return nil
}

var _ Backend = (*RedisBackend)(nil)
