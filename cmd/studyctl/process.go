package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	processImageURL  string
	processSessionID string
)

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Generate study material for one page photo",
	RunE:  runProcess,
}

func init() {
	processCmd.Flags().StringVarP(&processImageURL, "image-url", "u", "", "URL of the page photo (required)")
	processCmd.Flags().StringVarP(&processSessionID, "session-id", "s", "", "Correlation ID for this run (required)")
	processCmd.MarkFlagRequired("image-url")
	processCmd.MarkFlagRequired("session-id")
	rootCmd.AddCommand(processCmd)
}

func runProcess(cmd *cobra.Command, args []string) error {
	c, err := buildContainer()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), c.Config().RequestTimeout)
	defer cancel()

	s := startSpinner(fmt.Sprintf("Processing %s (%s mode)", processImageURL, c.Pipeline().StrategyName()))
	result, err := c.Pipeline().Process(ctx, processImageURL, processSessionID)
	s.Stop()
	if err != nil {
		return fmt.Errorf("process %s: %w", processImageURL, err)
	}

	printSuccess("%q: %d words, %d flashcards, %d quiz questions in %dms",
		result.Topic, result.WordCount, len(result.Flashcards), len(result.QuizQuestions), result.ProcessingTimeMs)
	return printJSON(cmd.OutOrStdout(), result)
}
