package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/nutragenie/nutragenie/internal/tui/styles"
)

// Set with -ldflags "-X github.com/nutragenie/nutragenie/internal/cmd.Version=...".
var (
	Version   = "dev"
	GitCommit = "none"
	BuildDate = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s %s\n\n", styles.Accent(styles.Logo), styles.Value.Render("v"+Version))
		for _, row := range [][2]string{
			{"commit", GitCommit},
			{"built", BuildDate},
			{"go", runtime.Version()},
			{"platform", runtime.GOOS + "/" + runtime.GOARCH},
		} {
			fmt.Fprintf(out, "%s %s\n", styles.Label.Width(10).Render(row[0]), styles.Value.Render(row[1]))
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
