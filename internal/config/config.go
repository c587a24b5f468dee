package config

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is prepended to every environment variable read by New.
const EnvPrefix = "GETRESPONSE"

type Config interface {
	EnvConfig
	OAuthConfig
	StoreConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	GetDebug() bool
	GetHTTPTimeout() time.Duration
}

type mainConfig struct {
	EnvVars
	OAuth
	Store
}

// New loads the configuration from GETRESPONSE_* environment variables.
// When no state is configured a random one is generated for the lifetime of
// the process.
func New() (Config, error) {
	var c mainConfig
	if err := envconfig.Process(EnvPrefix, &c); err != nil {
		return nil, fmt.Errorf("[config New] failed to process environment: %w", err)
	}
	if c.OAuth.State == "" {
		c.OAuth.State = uuid.NewString()
		c.OAuth.stateGenerated = true
	}
	if !c.Store.Type.IsValid() {
		return nil, fmt.Errorf("[config New] unsupported token store type %q", c.Store.Type)
	}
	return c, nil
}
