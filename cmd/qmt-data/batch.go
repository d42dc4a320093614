package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"qmt-data/internal/app"
)

var batchCMD = &cobra.Command{
	Use:   "batch [data-directory]",
	Short: "Decode every DAT file in a directory into one combined table",
	Long: `Decode all files matching GLOB in the given directory and write the combined
table all_stocks_data.<format> into the output directory, with a run report and
a latest-bar manifest next to it.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, cleanup, err := bootstrap()
		if err != nil {
			return err
		}
		defer cleanup()
		defer startMetrics(a)()

		res, err := app.RunDirectory(cmd.Context(), a.Config, a.Runner, args[0], a.Config.OutputDir)
		if err != nil {
			return err
		}
		fmt.Printf("parsed %d/%d files: %d rows, %d codes\n", res.WithData, res.Files, res.Rows, res.Codes)
		for _, p := range res.Outputs {
			fmt.Printf("saved %s\n", p)
		}
		return nil
	},
}
