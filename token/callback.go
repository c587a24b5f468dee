package token

import (
	"context"

	"github.com/jrsteele09/go-getresponse/oauth2"
)

// RenewalCallback is told about every token set obtained by an automatic
// renewal. This is where the host application persists the new tokens.
type RenewalCallback interface {
	OnTokenRenewed(ctx context.Context, tokens oauth2.TokenSet) error
}

// RenewalFunc adapts an ordinary function to RenewalCallback.
type RenewalFunc func(ctx context.Context, tokens oauth2.TokenSet) error

func (f RenewalFunc) OnTokenRenewed(ctx context.Context, tokens oauth2.TokenSet) error {
	return f(ctx, tokens)
}
