package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	descriptionsPath string
	targetsPath      string
	configPath       string
	offline          bool
	noSnapshot       bool
)

// NewRootCommand creates the root command for the CLI
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "gw2-planner",
		Short: "Calculate the best raw materials to buy for crafting a list of items",
		Long: `gw2-planner computes a minimum-cost procurement plan for a list of
target items: how many units of which materials to buy from the Guild Wars 2
Trading Post and how many from vendors, so that every target can be crafted
at the lowest total cost.

The planner reads a material descriptions database and a targets list,
fetches current Trading Post listings for every material that could appear
in the plan, and searches over buy/vendor/craft choices for the cheapest
complete plan.

Examples:
  gw2-planner
  gw2-planner -d my-descriptions.yaml -t weekly-crafts.yaml
  gw2-planner --offline
  gw2-planner runs`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(cmd)
		},
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.PersistentFlags().StringVarP(&descriptionsPath, "descriptions", "d", ".material-descriptions.yaml",
		"Material descriptions database")
	rootCmd.PersistentFlags().StringVarP(&targetsPath, "targets", "t", "material-targets.yaml",
		"Target materials list")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to config file (default: config.yaml in . or ./configs)")
	rootCmd.Flags().BoolVar(&offline, "offline", false,
		"Plan against the most recent recorded listings instead of fetching")
	rootCmd.Flags().BoolVar(&noSnapshot, "no-snapshot", false,
		"Skip recording fetched listings to the snapshot database")

	rootCmd.AddCommand(NewRunsCommand())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
