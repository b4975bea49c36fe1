package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/anime-shed/study-worker-go/internal/config"
	"github.com/anime-shed/study-worker-go/internal/container"
	"github.com/anime-shed/study-worker-go/internal/logger"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	noColor bool
	quiet   bool
)

var rootCmd = &cobra.Command{
	Use:   "studyctl",
	Short: "Run the study-material pipeline from the command line",
	Long: `studyctl runs the same extraction and generation pipeline as the HTTP worker
against a single page photo and prints the result as JSON.

Configuration is read from the environment (and a .env file) exactly like the server.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			logger.SetLevel("debug")
		}
		if noColor {
			color.NoColor = true
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored status output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "print only the JSON result")
}

// buildContainer loads configuration and wires the pipeline; logs go to stderr
// so stdout carries only the JSON result.
func buildContainer() (*container.Container, error) {
	logger.Logger.SetOutput(os.Stderr)

	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if !verbose {
		logger.SetLevel(cfg.LogLevel)
	}
	return container.NewContainer(cfg)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		printError(err)
		os.Exit(1)
	}
}
