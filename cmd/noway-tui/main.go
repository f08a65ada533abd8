package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/handiism/noway/internal/config"
	"github.com/handiism/noway/internal/namegen"
	"github.com/handiism/noway/internal/tui"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Error: loading .env: %v\n", err)
		os.Exit(1)
	}

	var configPath string
	cmd := &cobra.Command{
		Use:           "noway-tui",
		Short:         "Interactive Wayback Machine snapshot downloader",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings := config.DefaultSettings()
			if configPath != "" {
				var err error
				settings, err = config.Load(configPath)
				if err != nil {
					return fmt.Errorf("loading config: %w", err)
				}
			}
			if err := settings.ApplyEnv(); err != nil {
				return fmt.Errorf("reading environment: %w", err)
			}
			if err := settings.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			return tui.Run(settings, namegen.New())
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "Path to config file (.json, .yaml or .yml)")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
