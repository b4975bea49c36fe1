package main

import (
	"context"
	"fmt"

	"github.com/anime-shed/study-worker-go/internal/factory"
	"github.com/anime-shed/study-worker-go/internal/ocr"

	"github.com/spf13/cobra"
)

var (
	ocrImageURL     string
	ocrFile         string
	ocrExpectedText string
)

var ocrCmd = &cobra.Command{
	Use:   "ocr",
	Short: "Extract text from a page photo without generating anything",
	Long: `Extract text from a page photo given by --image-url or a local --file.
With --expected-text the report also includes character and word error rates
against that transcription.`,
	RunE: runOCR,
}

func init() {
	ocrCmd.Flags().StringVarP(&ocrImageURL, "image-url", "u", "", "URL of the page photo (required)")
	ocrCmd.Flags().StringVarP(&ocrFile, "file", "f", "", "Path of a local page photo")
	ocrCmd.Flags().StringVar(&ocrExpectedText, "expected-text", "", "Known transcription to score against")
	ocrCmd.MarkFlagsOneRequired("image-url", "file")
	ocrCmd.MarkFlagsMutuallyExclusive("image-url", "file")
	rootCmd.AddCommand(ocrCmd)
}

func runOCR(cmd *cobra.Command, args []string) error {
	c, err := buildContainer()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), c.Config().RequestTimeout)
	defer cancel()

	extractor, target := c.Extractor(), ocrImageURL
	if ocrFile != "" {
		components := factory.NewComponentFactory(c.Config())
		source, err := components.StorageFactory.CreateStorage(factory.FileStorage)
		if err != nil {
			return err
		}
		extractor, target = components.CreateExtractor(source), ocrFile
	}

	s := startSpinner("Reading " + target)
	text, err := extractor.Extract(ctx, target)
	s.Stop()
	if err != nil {
		return fmt.Errorf("extract %s: %w", target, err)
	}

	report := ocr.Report(text, ocrExpectedText)
	if text == "" {
		printWarning("no text found in %s", target)
	} else if report.Diagnostics != nil {
		printSuccess("match score %.0f (CER %.3f, WER %.3f)",
			report.Diagnostics.MatchScore, report.Diagnostics.CharacterErrorRate, report.Diagnostics.WordErrorRate)
	}
	return printJSON(cmd.OutOrStdout(), report)
}
