package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nutragenie/nutragenie/internal/onboarding"
	"github.com/nutragenie/nutragenie/internal/tui/models"
	"github.com/nutragenie/nutragenie/internal/tui/styles"
	"github.com/nutragenie/nutragenie/internal/tui/views"
	"github.com/nutragenie/nutragenie/internal/wizard"
)

var (
	onboardExplain bool
	onboardScreen  string
)

var onboardCmd = &cobra.Command{
	Use:     "onboard",
	Aliases: []string{"init"},
	Short:   "Launch the onboarding wizard",
	Long: `Set up your NutraGenie profile.

The onboarding flow has three screens:
  1. signup   -- account, location, body measurements
  2. dietary  -- diet, health conditions and allergies, goal
  3. recipes  -- favourite cuisine, cooking skill and time

Each screen is a series of sections. Confirm a section with enter to unlock
the next one. Everything is saved as you type, so you can leave at any time
and pick up where you stopped.

Use --screen to jump to a later screen and --explain for annotations.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if onboardScreen != "" {
			if _, err := onboarding.FindScreen(onboarding.Screens(nil), onboardScreen); err != nil {
				return err
			}
		}

		logger, closer, err := tuiLogger(cfg)
		if err != nil {
			return err
		}
		defer closer.Close()

		svc, err := newServices(cfg, logger)
		if err != nil {
			return err
		}
		gate, err := wizard.ParseGatePolicy(cfg.Wizard.Gate)
		if err != nil {
			return err
		}

		res, err := views.RunOnboarding(cmd.Context(), models.OnboardingDeps{
			Syncer:  svc.syncer,
			Tables:  svc.tables,
			Metrics: svc.metrics,
			Logger:  logger,
			Gate:    gate,
			Delay:   cfg.Wizard.AdvanceDelay,
		}, onboardScreen, onboardExplain)
		if err != nil {
			return err
		}

		switch {
		case res.Finished:
			fmt.Println(styles.Green("Profile complete.") + " Run " + styles.Accent("nutragenie home") + " to see your dishes.")
		case res.Left:
			fmt.Println(styles.Dim("Progress saved. Run nutragenie onboard to continue."))
		}
		return nil
	},
}

func init() {
	onboardCmd.Flags().BoolVar(&onboardExplain, "explain", false, "show annotations for every section")
	onboardCmd.Flags().StringVar(&onboardScreen, "screen", "", "start at a screen: signup, dietary or recipes")
	rootCmd.AddCommand(onboardCmd)
}
