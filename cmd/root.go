package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Version is overridden from the embedded VERSION file at startup.
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "hdframe",
	Short: "Normalize camera photos into letterboxed full HD frames",
	Long: `hdframe rotates photos according to how each camera vendor records
orientation, drops photos taken before a cutoff date, and letterboxes the
rest onto a fixed-size canvas named after their capture time.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Load .env file if present (ignore errors)
		_ = godotenv.Load()
	},
}

// Root returns the root command for execution.
func Root() *cobra.Command {
	return rootCmd
}

// ApplyVersion copies Version onto the root command.
func ApplyVersion() {
	rootCmd.Version = Version
}
