package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/jrsteele09/go-getresponse/getresponse/getresponsefake"
	"github.com/jrsteele09/go-getresponse/internal/config"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// fakeCmd runs the in-memory GetResponse API so the demo can be tried without
// a real account. Point GETRESPONSE_API_BASE_URL and
// GETRESPONSE_CONSENT_URL_TEMPLATE at it.
func fakeCmd() *cobra.Command {
	var addr, redirectURI string
	var ttl time.Duration
	cmd := &cobra.Command{
		Use:   "fake",
		Short: "Run a local fake of the GetResponse API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.New()
			if err != nil {
				return err
			}
			setupLogging(cfg.GetDebug())
			if cfg.GetClientID() == "" || cfg.GetClientSecret() == "" {
				return fmt.Errorf("GETRESPONSE_CLIENT_ID and GETRESPONSE_CLIENT_SECRET are required")
			}

			fake := getresponsefake.New(getresponsefake.WithAccessTokenTTL(ttl))
			if err := fake.RegisterApp(cfg.GetClientID(), cfg.GetClientSecret(), redirectURI); err != nil {
				return err
			}

			httpServer := &http.Server{Addr: addr, Handler: fake, ReadHeaderTimeout: 10 * time.Second}
			serveErr := make(chan error, 1)
			go func() { serveErr <- listenAndServe(httpServer) }()
			log.Info().
				Str("api_base_url", "http://localhost"+addr).
				Str("consent_url_template", "http://localhost"+addr+getresponsefake.RouteConsent+"?response_type=code&client_id={{clientId}}&state={{state}}").
				Msg("fake GetResponse API running")

			select {
			case err := <-serveErr:
				return err
			case <-waitForStopSignal():
			}
			return shutdown(httpServer)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8081", "Listen address")
	cmd.Flags().StringVar(&redirectURI, "redirect-uri", "http://localhost:8080/callback", "Where the consent page sends the user")
	cmd.Flags().DurationVar(&ttl, "access-token-ttl", 5*time.Minute, "Lifetime of issued access tokens")
	return cmd
}
