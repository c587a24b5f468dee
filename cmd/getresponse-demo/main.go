package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:          "getresponse-demo",
	Short:        "Connect a GetResponse account over OAuth2 and browse it",
	SilenceUsage: true,
	Long: `getresponse-demo reads its configuration from GETRESPONSE_* environment
variables (GETRESPONSE_CLIENT_ID, GETRESPONSE_CLIENT_SECRET, GETRESPONSE_STATE,
GETRESPONSE_STORE, ...). Run "serve" and open the index page to grant access,
or use "consent-url" and "exchange" from the terminal.`,
}

func main() {
	rootCmd.AddCommand(serveCmd(), fakeCmd(), consentURLCmd(), exchangeCmd())
	rootCmd.AddCommand(resourceCmds()...)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setupLogging(debug bool) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
}
