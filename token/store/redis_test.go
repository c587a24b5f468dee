package store_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-getresponse/token/store"
	"github.com/redis/rueidis"
)

// setupRedisStore connects to localhost:6379 and skips the test when Redis
// is not available.
func setupRedisStore(t *testing.T) *store.RedisStore {
	t.Helper()

	client, err := rueidis.NewClient(rueidis.ClientOption{InitAddress: []string{"localhost:6379"}})
	if err != nil {
		t.Skipf("Redis not available, skipping test: %v", err)
	}
	if err := client.Do(context.Background(), client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		t.Skipf("Cannot connect to Redis, skipping test: %v", err)
	}

	s := store.NewRedisStore(client, "getresponse:test:"+uuid.NewString())
	t.Cleanup(func() {
		_ = s.Delete(context.Background())
		s.Close()
	})
	return s
}

func TestRedisStore(t *testing.T) {
	exerciseStore(t, setupRedisStore(t))
}
