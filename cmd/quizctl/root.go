package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/gokatarajesh/certquiz/internal/client"
)

const defaultEndpoint = "http://localhost:8080"

var rootCmd = &cobra.Command{
	Use:           "quizctl",
	Short:         "Terminal client for the certification quiz API",
	Long:          "quizctl plays AWS certification practice quizzes against a running quiz API.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("endpoint", "", "Quiz API base URL (overrides QUIZ_ENDPOINT env var)")
	rootCmd.PersistentFlags().String("turn-path", client.DefaultTurnPath, "Path of the turn route, e.g. /quiz for the legacy route")
	rootCmd.PersistentFlags().Duration("timeout", client.DefaultTimeout, "Per-attempt request timeout")
	rootCmd.PersistentFlags().Bool("verbose", false, "Log retries to stderr")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(profilesCmd)
}

// resolveEndpoint returns the API URL using --endpoint (highest priority),
// then QUIZ_ENDPOINT, then the local default.
func resolveEndpoint(cmd *cobra.Command) string {
	if e, _ := cmd.Flags().GetString("endpoint"); e != "" {
		return e
	}
	if e := os.Getenv("QUIZ_ENDPOINT"); e != "" {
		return e
	}
	return defaultEndpoint
}

func newClient(cmd *cobra.Command) (*client.Client, error) {
	path, _ := cmd.Flags().GetString("turn-path")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	verbose, _ := cmd.Flags().GetBool("verbose")

	logger := zerolog.Nop()
	if verbose {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).With().Timestamp().Logger()
	}

	return client.New(client.Config{
		BaseURL:  resolveEndpoint(cmd),
		TurnPath: path,
		Timeout:  timeout,
	}, logger)
}
