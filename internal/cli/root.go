// Package cli is the bookclub command tree.
package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pdxshibaa/BookClub/internal/config"
	"github.com/pdxshibaa/BookClub/internal/platform/logger"
)

var (
	cfg *config.Config
	log logger.Logger

	flagConfig  string
	flagNoColor bool
	flagMemory  bool
)

var rootCmd = &cobra.Command{
	Use:   "bookclub",
	Short: "Track what the book club has read, scheduled and suggested",
	Long: `bookclub keeps the club's shared book collection.

The collection lives in Postgres and every change is pushed to connected
clients. Run 'bookclub serve' for the HTTP API or 'bookclub watch' for a
live terminal view.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file path (default: $BOOKCLUB_CONFIG)")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&flagMemory, "memory", false, "Use in-process stores instead of Postgres")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if flagNoColor {
			color.NoColor = true
		}

		var err error
		cfg, err = config.Load(flagConfig)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		log = logger.New(cfg.Log.Env)
		return nil
	}

	rootCmd.AddCommand(
		newServeCmd(),
		newMigrateCmd(),
		newUserCmd(),
		newListCmd(),
		newWatchCmd(),
		newSearchCmd(),
		newImportCmd(),
		newExportCmd(),
	)
}

// ok prints a green success line.
func ok(format string, a ...interface{}) {
	fmt.Println(color.GreenString("✓"), fmt.Sprintf(format, a...))
}

// warn prints a yellow warning line.
func warn(format string, a ...interface{}) {
	fmt.Fprintln(os.Stderr, color.YellowString("!"), fmt.Sprintf(format, a...))
}
