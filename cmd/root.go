package cmd

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the calwatch application
var rootCmd = &cobra.Command{
	Use:   "calwatch",
	Short: "Watches Google Calendars and surfaces each entity's next event",
	Long: `calwatch polls one or more Google Calendars and keeps, per configured
entity, the next upcoming event plus an offset-reached flag. Events marked
"free" are skipped unless the entity ignores availability.

Configuration lives in ~/.calwatch/config.json (override the directory with
the CALWATCH_DIR environment variable or a .env file in the working
directory).`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "calwatch version %s\n" .Version}}`)

	// A missing .env file is fine; it is purely an overlay.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newEventsCmd())
	rootCmd.AddCommand(newAuthCmd())
	rootCmd.AddCommand(newVersionCmd())
}
