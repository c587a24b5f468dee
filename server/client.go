package server

import (
	"fmt"

	"github.com/jrsteele09/go-getresponse/getresponse"
	"github.com/jrsteele09/go-getresponse/internal/config"
	"github.com/rs/zerolog/log"
)

// NewClient builds a GetResponse client from the loaded configuration.
func NewClient(cfg config.Config, opts ...getresponse.Option) (*getresponse.Client, error) {
	base := []getresponse.Option{
		getresponse.WithBaseURL(cfg.GetAPIBaseURL()),
		getresponse.WithConsentURLTemplate(cfg.GetConsentURLTemplate()),
		getresponse.WithHTTPTimeout(cfg.GetHTTPTimeout()),
		getresponse.WithLogger(log.Logger),
		getresponse.WithDebugLogging(cfg.GetDebug()),
	}
	client, err := getresponse.New(getresponse.Credentials{
		ClientID:     cfg.GetClientID(),
		ClientSecret: cfg.GetClientSecret(),
		State:        cfg.GetState(),
	}, append(base, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("[server NewClient] %w", err)
	}
	return client, nil
}
