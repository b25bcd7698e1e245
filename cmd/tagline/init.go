package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tagline/internal/infrastructure/config"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create a default configuration",
		Long:  "Writes a default config file to the .tagline directory in the current working directory.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("getting current directory: %w", err)
			}

			if config.Exists(cwd) {
				return fmt.Errorf("tagline already initialized in %s", cwd)
			}

			if err := config.WriteDefault(cwd); err != nil {
				return err
			}

			fmt.Printf("Created %s\n", config.ConfigFilePath(cwd))
			fmt.Println("Edit it to set your endpoints, topics, and API keys.")
			return nil
		},
	}
}
