package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"qmt-data/internal/model"
)

var (
	parseSave    string
	parsePreview int
)

var parseCMD = &cobra.Command{
	Use:   "parse [dat-file]",
	Short: "Decode a single DAT file and preview its bars",
	Long:  `Decode one DAT file, print the row count and the first rows, and optionally save the series.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, cleanup, err := bootstrap()
		if err != nil {
			return err
		}
		defer cleanup()

		series, stats, err := a.Parser.ParseFile(args[0])
		if err != nil {
			slog.Error("failed to parse file", "file", args[0], "error", err)
			return err
		}
		if series.Empty() {
			fmt.Printf("%s: no valid bars (%d record pairs, %d rejected)\n", args[0], stats.Pairs, stats.RejectedTotal())
			return nil
		}
		fmt.Printf("parsed %s: %d bars (%s, %d rejected)\n", series.Code, series.Len(), series.Kind, stats.RejectedTotal())
		printPreview(series, parsePreview)

		if parseSave != "" {
			if err := a.Saver.Save(model.Table{Kind: series.Kind, Bars: series.Bars}, parseSave); err != nil {
				return fmt.Errorf("save %s: %w", parseSave, err)
			}
			fmt.Printf("saved to %s\n", parseSave)
		}
		if a.Store != nil {
			if err := a.Store.SaveSeries(cmd.Context(), series); err != nil {
				return fmt.Errorf("store series: %w", err)
			}
		}
		return nil
	},
}

func init() {
	parseCMD.Flags().StringVar(&parseSave, "save", "", "write the series to this file using --format")
	parseCMD.Flags().IntVar(&parsePreview, "preview", 5, "number of rows to print")
}

func printPreview(s model.Series, n int) {
	if n <= 0 {
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(model.Columns(s.Kind), "\t"))
	for i, b := range s.Bars {
		if i >= n {
			break
		}
		fmt.Fprintln(w, strings.Join(b.Record(), "\t"))
	}
	w.Flush()
}
