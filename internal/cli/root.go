package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/clipsheet/clipsheet-agent/internal/config"
	"github.com/clipsheet/clipsheet-agent/internal/logging"
)

var (
	logLevel string
	logger   *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "clipsheet",
	Short: "Extract timeline clip sheets from Premiere Pro projects",
	Long: `Clipsheet reads Adobe Premiere Pro project files (.prproj) and extracts
per-clip timing information from their sequences: which clips appear, when,
on which tracks, and where stock footage came from.

Use "extract" for one-shot CSV output, or "serve" to run the local agent
with its HTTP API and system tray.`,
	Version: config.Version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = logging.NewLogger(logLevel)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().
		StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
}
