package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nutragenie/nutragenie/internal/onboarding"
	"github.com/nutragenie/nutragenie/internal/snapshot"
	"github.com/nutragenie/nutragenie/internal/tui/styles"
	"github.com/nutragenie/nutragenie/internal/tui/views"
)

var (
	profileJSON     bool
	profileResolved bool
	profileFollow   bool
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Print the saved profile",
	Long: `Print your saved profile with defaults applied for anything not yet
answered.

  --json       print the stored snapshot exactly as saved
  --resolved   with --json, print the resolved profile instead
  --follow     print again whenever the profile changes on disk`,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newServices(cfg, nil)
		if err != nil {
			return err
		}

		if err := printProfile(svc.store); err != nil {
			return err
		}
		if !profileFollow {
			return nil
		}

		dir := svc.watchDir()
		if dir == "" {
			return fmt.Errorf("--follow needs the file store backend")
		}
		w, err := snapshot.NewWatcher(dir, svc.logger)
		if err != nil {
			return err
		}
		defer w.Close()

		ctx := cmd.Context()
		for change := range w.Watch(ctx) {
			if change.Key != snapshot.KeyPermanent {
				continue
			}
			fmt.Println(styles.Divider(60))
			fmt.Println(styles.Dim("changed at " + change.Time.Format("15:04:05")))
			if err := printProfile(svc.store); err != nil {
				return err
			}
		}
		return nil
	},
}

func printProfile(store *snapshot.Store) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	if profileJSON {
		if profileResolved {
			return enc.Encode(store.Profile())
		}
		return enc.Encode(store.Load())
	}

	p := store.Profile()
	fmt.Println(views.RenderProfile(p, 80))
	if next := onboarding.NextScreen(onboarding.Screens(nil), p); next != "" {
		fmt.Println()
		fmt.Println(styles.Dim("Onboarding not finished. Run nutragenie onboard --screen " + next + " to continue."))
	}
	return nil
}

func init() {
	profileCmd.Flags().BoolVar(&profileJSON, "json", false, "print the stored snapshot as JSON")
	profileCmd.Flags().BoolVar(&profileResolved, "resolved", false, "with --json, print the resolved profile")
	profileCmd.Flags().BoolVar(&profileFollow, "follow", false, "print again whenever the profile changes")
	rootCmd.AddCommand(profileCmd)
}
