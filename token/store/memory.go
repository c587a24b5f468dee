package store

import (
	"context"
	"sync"

	"github.com/jrsteele09/go-getresponse/oauth2"
)

// MemoryStore implements Store in memory. Tokens are lost on restart.
type MemoryStore struct {
	mu   sync.RWMutex
	data []byte
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Load(ctx context.Context) (oauth2.TokenSet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.data == nil {
		return oauth2.TokenSet{}, ErrNotFound
	}
	return decode(m.data)
}

func (m *MemoryStore) Save(ctx context.Context, tokens oauth2.TokenSet) error {
	data, err := encode(tokens)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = data
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = nil
	return nil
}
