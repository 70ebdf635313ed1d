package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nutragenie/nutragenie/internal/nutrition"
	"github.com/nutragenie/nutragenie/internal/tui/components"
	"github.com/nutragenie/nutragenie/internal/tui/styles"
)

var (
	dishesAll        bool
	dishesJSON       bool
	dishesSubstitute string
)

var dishesCmd = &cobra.Command{
	Use:   "dishes",
	Short: "List dishes that fit your profile",
	Long: `List catalog dishes that fit your saved diet, health conditions,
allergies, cooking skill and time. Dishes of your favourite cuisine come
first.

Use --all to list the whole catalog and --substitute from=to to see the
nutrition of every matching dish with one ingredient swapped, for example
--substitute beef=tofu.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newServices(cfg, nil)
		if err != nil {
			return err
		}
		profile := svc.store.Profile()

		dishes := nutrition.Catalog()
		if !dishesAll {
			dishes = nutrition.Recommend(profile, dishes)
		}

		if dishesSubstitute != "" {
			from, to, ok := strings.Cut(dishesSubstitute, "=")
			if !ok {
				return fmt.Errorf("--substitute wants from=to, got %q", dishesSubstitute)
			}
			known := nutrition.SubstitutesFor(strings.TrimSpace(from))
			if !slices.Contains(known, strings.ToLower(strings.TrimSpace(to))) {
				return fmt.Errorf("%w for %s -> %s (known: %s)", nutrition.ErrNoSubstitute, from, to, strings.Join(known, ", "))
			}
			var swapped []nutrition.Dish
			for _, d := range dishes {
				out, err := nutrition.Substitute(d, from, to)
				if err != nil {
					// Dishes without the ingredient are left out.
					continue
				}
				swapped = append(swapped, out)
			}
			dishes = swapped
		}

		if dishesJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(dishes)
		}

		if len(dishes) == 0 {
			fmt.Println(styles.Dim("No dishes match. Try --all or finish onboarding with nutragenie onboard."))
			return nil
		}

		targets := nutrition.DailyTargets(profile).PerMeal(profile.MealsPerDay)
		fmt.Println(styles.Title.Render("Dishes for " + profile.DisplayName()))
		fmt.Println(styles.Dim(fmt.Sprintf("Per meal target: %d kcal, %dg protein", targets.Calories, targets.Protein)))
		fmt.Println()
		for _, d := range dishes {
			fmt.Println(components.DishCard{Dish: d}.RenderCompact())
		}
		return nil
	},
}

func init() {
	dishesCmd.Flags().BoolVar(&dishesAll, "all", false, "list the whole catalog")
	dishesCmd.Flags().BoolVar(&dishesJSON, "json", false, "print dishes as JSON")
	dishesCmd.Flags().StringVar(&dishesSubstitute, "substitute", "", "swap an ingredient, e.g. beef=tofu")
	rootCmd.AddCommand(dishesCmd)
}
