package store

import (
	"context"
	"fmt"

	"github.com/jrsteele09/go-getresponse/internal/config"
)

// New creates the store selected by the configuration.
func New(cfg config.StoreConfig) (Store, error) {
	return NewContext(context.Background(), cfg)
}

// NewContext is New with a context bounding the backend connection.
func NewContext(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.GetStoreType() {
	case config.StoreTypeMemory:
		return NewMemoryStore(), nil
	case config.StoreTypeFile:
		return NewFileStore(cfg.GetTokenFile()), nil
	case config.StoreTypeRedis:
		s, err := NewRedisStoreFromOptions(RedisOptions{
			Addr:     cfg.GetRedisAddr(),
			Password: cfg.GetRedisPassword(),
			DB:       cfg.GetRedisDB(),
			Key:      cfg.GetRedisKey(),
		})
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.StoreTypeSQLite:
		s, err := OpenSQLiteStore(ctx, cfg.GetSQLitePath(), cfg.GetSQLiteName())
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unsupported store type: %s", cfg.GetStoreType())
	}
}
