package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hveem/calwatch/config"
	"github.com/hveem/calwatch/gcal"
)

func newAuthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "auth",
		Short: "Run the OAuth flow and save a fresh token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			loader, err := config.NewFileLoader()
			if err != nil {
				return fmt.Errorf("config.NewFileLoader: %w", err)
			}
			if err := gcal.Authorize(loader); err != nil {
				return fmt.Errorf("gcal.Authorize: %w", err)
			}
			fmt.Println("Token saved.")
			return nil
		},
	}
}
