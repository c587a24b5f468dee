// Package store persists GetResponse token sets between runs. The client
// never persists anything itself; these stores back the host application's
// side of the contract.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jrsteele09/go-getresponse/oauth2"
)

var (
	// ErrNotFound is returned by Load when nothing has been saved yet.
	ErrNotFound = errors.New("token set not found")
	// ErrEmptyAccessToken is returned when saving a token set without an access token.
	ErrEmptyAccessToken = errors.New("token set has no access token")
)

// Store keeps a single user's token set.
type Store interface {
	Load(ctx context.Context) (oauth2.TokenSet, error)
	Save(ctx context.Context, tokens oauth2.TokenSet) error
	Delete(ctx context.Context) error
}

// encode serializes the vendor payload so that every field GetResponse sent
// survives a round trip.
func encode(tokens oauth2.TokenSet) ([]byte, error) {
	if tokens.AccessToken == "" {
		return nil, ErrEmptyAccessToken
	}
	data, err := json.Marshal(tokens.Payload())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal token set: %w", err)
	}
	return data, nil
}

func decode(data []byte) (oauth2.TokenSet, error) {
	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		return oauth2.TokenSet{}, fmt.Errorf("failed to unmarshal token set: %w", err)
	}
	return oauth2.ParseTokenSet(payload), nil
}
