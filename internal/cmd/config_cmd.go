package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nutragenie/nutragenie/internal/config"
	"github.com/nutragenie/nutragenie/internal/tui/styles"
)

var configJSON bool

// --- config (parent) ---

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Show the configuration after merging defaults, the config file, .env and
NUTRAGENIE_* environment variables.

Subcommands:
  tables   List the conflict tables and their exclusive pairs`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if configJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(cfg)
		}

		fmt.Println(styles.Title.Render("Configuration"))
		fmt.Println()

		source := cfg.File
		if source == "" {
			source = "(defaults and environment)"
		}
		row := func(label, value string) {
			fmt.Println(styles.Label.Render(fmt.Sprintf("  %-14s", label)) + styles.Value.Render(value))
		}
		row("FILE", source)
		fmt.Println()

		fmt.Println(styles.Subtitle.Render("Store"))
		row("BACKEND", cfg.Store.Backend)
		row("DIR", cfg.Store.Dir)
		fmt.Println()

		fmt.Println(styles.Subtitle.Render("Wizard"))
		row("ADVANCE DELAY", cfg.Wizard.AdvanceDelay.String())
		row("GATE", cfg.Wizard.Gate)
		tables := cfg.Conflicts.Path
		if tables == "" {
			tables = "(built-in)"
		}
		row("TABLES", tables)
		fmt.Println()

		fmt.Println(styles.Subtitle.Render("Remote"))
		if cfg.Remote.URL == "" {
			row("URL", styles.Dim("disabled"))
		} else {
			row("URL", cfg.Remote.URL)
		}
		row("TIMEOUT", cfg.Remote.Timeout.String())
		fmt.Println()

		fmt.Println(styles.Subtitle.Render("Server"))
		row("ADDR", cfg.Server.Addr)
		row("DB", cfg.Server.DB)
		fmt.Println()

		fmt.Println(styles.Subtitle.Render("Logging"))
		row("LEVEL", cfg.Log.Level)
		row("FORMAT", cfg.Log.Format)
		row("TUI LOG", cfg.LogFile())
		fmt.Println()

		fmt.Println(styles.Divider(50))
		if errs := config.Validate(cfg); len(errs) > 0 {
			fmt.Println(styles.Red(fmt.Sprintf("%d problem(s):", len(errs))))
			for _, e := range errs {
				fmt.Println("  " + styles.Red("✗") + " " + e.Error())
			}
			return fmt.Errorf("invalid configuration")
		}
		fmt.Println(styles.Green("✓ valid"))
		return nil
	},
}

// --- config tables ---

var configTablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "List conflict tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		tables, err := config.ConflictTables(cfg)
		if err != nil {
			return err
		}

		fmt.Println(styles.Title.Render("Conflict Tables"))
		fmt.Println()

		for _, name := range tables.Names() {
			t := tables[name]
			sentinel := ""
			if t.Sentinel != "" {
				sentinel = "  " + styles.Dim("exclusive: "+t.Sentinel)
			}
			fmt.Println(styles.Subtitle.Render(name) + sentinel)

			fmt.Printf("  %s  %s\n",
				styles.TableHeader.Width(16).Render("OPTION"),
				styles.TableHeader.Width(40).Render("CONFLICTS WITH"),
			)
			fmt.Println("  " + styles.Divider(58))
			for i, o := range t.Options {
				with := t.ConflictsWith(o)
				list := styles.Dim("-")
				if len(with) > 0 {
					list = styles.Dim(styles.TruncateWithEllipsis(strings.Join(with, ", "), 40))
				}
				fmt.Printf("  %s  %s\n", styles.TableRow(i%2 == 0).Width(16).Render(o), list)
			}
			fmt.Println()
		}
		return nil
	},
}

func init() {
	configCmd.Flags().BoolVar(&configJSON, "json", false, "print the effective config as JSON")
	configCmd.AddCommand(configTablesCmd)
	rootCmd.AddCommand(configCmd)
}
