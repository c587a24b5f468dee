package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/jrsteele09/go-getresponse/getresponse"
	"github.com/jrsteele09/go-getresponse/internal/config"
	"github.com/jrsteele09/go-getresponse/server"
	"github.com/jrsteele09/go-getresponse/token/store"
)

// session bundles the configuration, the client and the token store.
type session struct {
	cfg    config.Config
	client *getresponse.Client
	tokens store.Store
}

func openSession() (*session, error) {
	cfg, err := config.New()
	if err != nil {
		return nil, err
	}
	setupLogging(cfg.GetDebug())

	client, err := server.NewClient(cfg)
	if err != nil {
		return nil, err
	}
	tokens, err := store.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("open token store: %w", err)
	}
	return &session{cfg: cfg, client: client, tokens: tokens}, nil
}

// requireFixedState fails when the state was generated for this process. A
// generated state never survives from consent-url to a later exchange.
func (s *session) requireFixedState() error {
	if s.cfg.IsStateGenerated() {
		return fmt.Errorf("%s_STATE must be set so consent-url and exchange share one state", config.EnvPrefix)
	}
	return nil
}

func (s *session) Close() {
	if closer, ok := s.tokens.(interface{ Close() }); ok {
		closer.Close()
	}
}

// restore installs the stored tokens and persists future renewals.
func (s *session) restore(ctx context.Context) error {
	tokens, err := s.tokens.Load(ctx)
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("not connected: run \"serve\" or \"consent-url\" and \"exchange\" first: %w", err)
	}
	if err != nil {
		return fmt.Errorf("load tokens: %w", err)
	}
	if err := s.client.SetAccessToken(tokens.AccessToken); err != nil {
		return err
	}
	s.client.RegisterRenewalCallback(tokens.RefreshToken, store.NewPersister(s.tokens))
	return nil
}

func printJSON(w io.Writer, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}
