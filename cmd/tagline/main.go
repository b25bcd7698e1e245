// Package main provides the entry point for the tagline CLI application.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	version        = "0.1.0-dev"
	globalLogLevel string
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	rootCmd := &cobra.Command{
		Use:     "tagline",
		Short:   "Tags social-media posts with topics using LLM relevance checks",
		Version: version,
	}

	rootCmd.PersistentFlags().StringVar(&globalLogLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		newInitCmd(),
		newTagCmd(),
		newPostsCmd(),
	)

	return rootCmd.ExecuteContext(ctx)
}
