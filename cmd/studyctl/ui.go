package main

import (
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
)

var (
	successColor = color.New(color.FgGreen, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	warnColor    = color.New(color.FgYellow)
)

// startSpinner draws progress on stderr. The spinner stays silent when stderr
// is not a terminal, so piped runs only see the JSON on stdout.
func startSpinner(message string) *spinner.Spinner {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " " + message
	if !quiet {
		s.Start()
	}
	return s
}

func printSuccess(format string, args ...any) {
	if quiet {
		return
	}
	successColor.Fprintf(os.Stderr, "✓ %s\n", fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	warnColor.Fprintf(os.Stderr, "⚠ %s\n", fmt.Sprintf(format, args...))
}

func printError(err error) {
	errorColor.Fprintf(os.Stderr, "✗ %v\n", err)
}
