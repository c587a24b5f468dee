package store

import (
	"context"
	"fmt"

	"github.com/jrsteele09/go-getresponse/oauth2"
	"github.com/redis/rueidis"
)

// DefaultRedisKey is used when RedisOptions.Key is empty.
const DefaultRedisKey = "getresponse:token"

// RedisStore implements Store on a single Redis key via rueidis.
type RedisStore struct {
	client rueidis.Client
	key    string
}

var _ Store = (*RedisStore)(nil)

// RedisOptions contains configuration for Redis connection.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Key      string
}

// NewRedisStore creates a RedisStore on an existing rueidis client.
func NewRedisStore(client rueidis.Client, key string) *RedisStore {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisStore{client: client, key: key}
}

// NewRedisStoreFromOptions dials Redis and returns a store on opts.Key.
func NewRedisStoreFromOptions(opts RedisOptions) (*RedisStore, error) {
	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress: []string{opts.Addr},
		Password:    opts.Password,
		SelectDB:    opts.DB,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create redis client: %w", err)
	}
	return NewRedisStore(client, opts.Key), nil
}

// Close closes the Redis client connection.
func (r *RedisStore) Close() {
	r.client.Close()
}

func (r *RedisStore) Load(ctx context.Context) (oauth2.TokenSet, error) {
	data, err := r.client.Do(ctx, r.client.B().Get().Key(r.key).Build()).AsBytes()
	if rueidis.IsRedisNil(err) {
		return oauth2.TokenSet{}, ErrNotFound
	}
	if err != nil {
		return oauth2.TokenSet{}, fmt.Errorf("failed to get token set from redis: %w", err)
	}
	return decode(data)
}

func (r *RedisStore) Save(ctx context.Context, tokens oauth2.TokenSet) error {
	data, err := encode(tokens)
	if err != nil {
		return err
	}
	cmd := r.client.B().Set().Key(r.key).Value(rueidis.BinaryString(data)).Build()
	if err := r.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("failed to save token set to redis: %w", err)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context) error {
	if err := r.client.Do(ctx, r.client.B().Del().Key(r.key).Build()).Error(); err != nil {
		return fmt.Errorf("failed to delete token set from redis: %w", err)
	}
	return nil
}
