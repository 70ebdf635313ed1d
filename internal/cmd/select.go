package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nutragenie/nutragenie/internal/onboarding"
	"github.com/nutragenie/nutragenie/internal/tui/styles"
)

var selectCmd = &cobra.Command{
	Use:   "select <set> <option>",
	Short: "Toggle a dietary or health option",
	Long: `Toggle one option in your stored dietary or health selection.

Sets:
  dietary   diets such as vegan, keto, paleo, gluten-free, or none
  health    conditions such as diabetes or hypertension, or none

Options that cannot be combined with the new one are removed, and "none"
clears everything else. Changing a selection you already confirmed asks you
to confirm that section again on the next onboarding run.`,
	Args: cobra.ExactArgs(2),
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) == 0 {
			return []string{"dietary", "health"}, cobra.ShellCompDirectiveNoFileComp
		}
		return nil, cobra.ShellCompDirectiveNoFileComp
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newServices(cfg, nil)
		if err != nil {
			return err
		}
		defer svc.syncer.Wait()

		set, option := strings.ToLower(args[0]), strings.ToLower(args[1])
		sel, err := onboarding.Select(cmd.Context(), svc.syncer, svc.tables, set, option)
		if err != nil {
			return err
		}

		if !sel.Changed {
			fmt.Println(styles.Dim("No change."))
		}
		for _, r := range sel.Removed {
			fmt.Println(styles.Highlight("removed") + " " + r + styles.Dim(" (conflicts with "+option+")"))
		}
		current := strings.Join(sel.Set, ", ")
		if current == "" {
			current = styles.Dim("nothing selected")
		}
		fmt.Println(styles.Label.Render(strings.ToUpper(set)) + "  " + styles.Value.Render(current))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(selectCmd)
}
