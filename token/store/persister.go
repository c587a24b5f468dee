package store

import (
	"context"
	"fmt"

	"github.com/jrsteele09/go-getresponse/oauth2"
	"github.com/jrsteele09/go-getresponse/token"
	"github.com/rs/zerolog/log"
)

// Persister is a token.RenewalCallback that saves every renewed token set.
type Persister struct {
	store Store
}

var _ token.RenewalCallback = (*Persister)(nil)

// NewPersister returns a renewal callback writing to s.
func NewPersister(s Store) *Persister {
	return &Persister{store: s}
}

func (p *Persister) OnTokenRenewed(ctx context.Context, tokens oauth2.TokenSet) error {
	if err := p.store.Save(ctx, tokens); err != nil {
		log.Err(err).Str("component", "token-store").Msg("failed to persist renewed token set")
		return fmt.Errorf("persist renewed token set: %w", err)
	}
	log.Debug().Str("component", "token-store").Msg("renewed token set persisted")
	return nil
}
