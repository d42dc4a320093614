package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"qmt-data/internal/app"
)

var marketsCMD = &cobra.Command{
	Use:   "markets",
	Short: "Decode the standard market directories under DATA_DIR",
	Long: `Process szdayK, shdayK and sh5mK under DATA_DIR when present, writing
shenzhen_daily, shanghai_daily and shanghai_5min under the output directory.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, cleanup, err := bootstrap()
		if err != nil {
			return err
		}
		defer cleanup()
		defer startMetrics(a)()

		results, err := app.RunMarkets(cmd.Context(), a.Config, a.Runner)
		for _, res := range results {
			fmt.Printf("%s: parsed %d/%d files, %d rows, %d codes\n", res.Source, res.WithData, res.Files, res.Rows, res.Codes)
		}
		return err
	},
}
