// Package main provides the daycare_agent CLI: search, enrich, score and rank daycare providers.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jonathan/daycare-finder/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "daycare_agent",
	Short: "Find and rank daycare providers near a location",
	Long: "daycare_agent searches Google Maps for daycare providers around a location, optionally reads their " +
		"websites for program details, scores them with a configurable weighted formula and flags providers " +
		"eligible for an employer discount.",
	SilenceUsage:      true,
	PersistentPreRunE: setupLogging,
}

var (
	configPath string
	verbose    bool
	logLevel   string
	logJSON    bool

	logger           = zerolog.Nop()
	logOut io.Writer = os.Stderr
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a JSON or YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print detailed debug information")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (default info)")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "Write logs as JSON lines")
}

func setupLogging(cmd *cobra.Command, _ []string) error {
	logOut = cmd.ErrOrStderr()
	logger = logging.New(logging.Options{
		Out:     logOut,
		Level:   logLevel,
		Verbose: verbose,
		JSON:    logJSON,
	})
	return nil
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
