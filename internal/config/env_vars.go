package config

import (
	"fmt"
	"strings"
	"time"
)

type EnvVars struct {
	Port        string        `envconfig:"PORT" default:"8080"`
	AppName     string        `envconfig:"APP_NAME" default:"GetResponse Demo"`
	Env         string        `envconfig:"ENV" default:"DEV"`
	Debug       bool          `envconfig:"DEBUG" default:"false"`
	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"30s"`
}

var _ EnvConfig = EnvVars{}

func (e EnvVars) GetPort() string {
	port := e.Port
	if port == "" {
		port = "8080"
	}
	if !strings.HasPrefix(port, ":") {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (e EnvVars) GetAppName() string {
	return e.AppName
}

func (e EnvVars) GetEnv() string {
	if e.Env == "" {
		return "DEV"
	}
	return e.Env
}

func (e EnvVars) GetDebug() bool {
	return e.Debug
}

func (e EnvVars) GetHTTPTimeout() time.Duration {
	if e.HTTPTimeout <= 0 {
		return 30 * time.Second
	}
	return e.HTTPTimeout
}

