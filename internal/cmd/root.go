package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/nutragenie/nutragenie/internal/config"
)

var (
	cfgFile   string
	verbose   bool
	noColor   bool
	logFormat string

	// cfg is loaded once by the root command before any subcommand runs.
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "nutragenie",
	Short: "Onboarding and meal planning in your terminal",
	Long: `NutraGenie: personalised meals from a two-minute onboarding

Walk through signup, dietary preferences and recipe preferences once.
Your answers are saved as you type, synced to your account when a record
API is configured, and used to pick the dishes on your home dashboard.`,
	SilenceUsage:      true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return initConfig() },
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("NutraGenie " + Version)
		fmt.Println("Run 'nutragenie --help' for available commands")
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with ctx, which long-running commands
// (serve, profile --follow, the TUIs) watch for cancellation.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./nutragenie.json or ~/.nutragenie/nutragenie.json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logging)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable color output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: text or json (overrides log.format)")
}

func initConfig() error {
	if noColor {
		// termenv reads NO_COLOR when lipgloss first detects the profile.
		_ = os.Setenv("NO_COLOR", "1")
	}
	if err := config.LoadEnvFile(".env"); err != nil {
		return err
	}
	c, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if verbose {
		c.Log.Level = "debug"
	}
	if logFormat != "" {
		c.Log.Format = logFormat
	}
	cfg = c
	slog.SetDefault(config.NewLogger(c.Log, os.Stderr))
	return nil
}
