package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/nutragenie/nutragenie/internal/config"
	"github.com/nutragenie/nutragenie/internal/health"
	"github.com/nutragenie/nutragenie/internal/remote"
	"github.com/nutragenie/nutragenie/internal/snapshot"
	"github.com/nutragenie/nutragenie/internal/tui/styles"
)

var (
	healthCategory string
	healthRepair   bool
	healthJSON     bool
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Run configuration and store health checks",
	Long: `Run diagnostic checks against the configuration and the local store.

Checks are grouped into categories:
  config   - config values, conflict table file
  store    - store directory, saved snapshot, stored selections
  sync     - temporary and permanent keys hold the same profile
  remote   - record API reachability

Use --category to run one group and --repair to rewrite both snapshot keys
from the merged profile before checking.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		deps := health.Deps{Config: cfg}
		// The store is opened leniently so a bad config is reported as a
		// failed check rather than an error.
		if store, err := openStore(cfg); err == nil {
			deps.Store = store
		}
		if cfg.Remote.URL != "" {
			deps.Client = remote.NewClient(cfg.Remote.URL, cfg.Remote.Timeout)
		}

		if healthRepair {
			if deps.Store == nil {
				return fmt.Errorf("cannot repair: store is not available")
			}
			if _, err := deps.Store.Repair(); err != nil {
				return fmt.Errorf("repairing store: %w", err)
			}
			if !healthJSON {
				fmt.Println(styles.Green("Snapshot keys rewritten."))
				fmt.Println()
			}
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		checker := health.NewChecker(deps)
		var report *health.Report
		if healthCategory != "" {
			if !validCategory(healthCategory) {
				return fmt.Errorf("unknown category %q (want one of %v)", healthCategory, health.Categories())
			}
			report = checker.RunCategory(ctx, healthCategory)
		} else {
			report = checker.RunAll(ctx)
		}

		if healthJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(report); err != nil {
				return err
			}
		} else {
			fmt.Println(health.FormatReport(report))
		}

		if !report.Healthy {
			return fmt.Errorf("%d check(s) failed", report.Failed)
		}
		return nil
	},
}

func validCategory(c string) bool {
	for _, known := range health.Categories() {
		if c == known {
			return true
		}
	}
	return false
}

// openStore opens the configured store without validating the rest of the
// config.
func openStore(c *config.Config) (*snapshot.Store, error) {
	if c.Store.Backend == config.BackendMemory {
		return snapshot.NewStore(snapshot.NewMemoryBackend()), nil
	}
	if c.Store.Dir == "" {
		return nil, fmt.Errorf("store.dir is empty")
	}
	if _, err := os.Stat(c.Store.Dir); err != nil {
		return nil, err
	}
	b, err := snapshot.NewFileBackend(c.Store.Dir)
	if err != nil {
		return nil, err
	}
	return snapshot.NewStore(b), nil
}

func init() {
	healthCmd.Flags().StringVar(&healthCategory, "category", "", "run checks in one category: config, store, sync or remote")
	healthCmd.Flags().BoolVar(&healthRepair, "repair", false, "rewrite both snapshot keys from the merged profile first")
	healthCmd.Flags().BoolVar(&healthJSON, "json", false, "print the report as JSON")
	rootCmd.AddCommand(healthCmd)
}
