package cmd

import (
	"github.com/spf13/cobra"

	"github.com/nutragenie/nutragenie/internal/tui/views"
)

var homeCmd = &cobra.Command{
	Use:   "home",
	Short: "Open the home dashboard",
	Long: `Show your profile, per-meal targets and the dishes that fit your
preferences. The dashboard refreshes when your profile changes, including
changes made with 'nutragenie select' from another terminal.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, closer, err := tuiLogger(cfg)
		if err != nil {
			return err
		}
		defer closer.Close()

		svc, err := newServices(cfg, logger)
		if err != nil {
			return err
		}
		return views.RunHome(cmd.Context(), svc.store, svc.watchDir())
	},
}

func init() {
	rootCmd.AddCommand(homeCmd)
}
