package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sells-group/churn-cli/internal/fetcher"
)

var (
	runInput  string
	runOutdir string
	runXLSX   bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full ETL pipeline on one dataset",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		p, st, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		raw, err := fetcher.LoadJSON(runInput)
		if err != nil {
			return err
		}

		res, err := p.Run(ctx, runInput, raw)
		if err != nil {
			return err
		}

		outdir := runOutdir
		if outdir == "" {
			outdir = cfg.Output.Dir
		}
		if err := writeOutputs(res, runInput, outdir, runXLSX || cfg.Output.XLSX); err != nil {
			return err
		}

		c := res.Summary.Counters
		fmt.Printf("Raw rows: %d | clean rows: %d\n", c.OriginalRows, c.CleanRows)
		fmt.Printf("Dropped duplicates: %d | dropped labels: %d\n", c.DroppedDuplicates, c.DroppedLabels)
		if res.Summary.Overall.Defined {
			fmt.Printf("Overall churn rate: %.2f%%\n", res.Summary.Overall.Value*100)
		} else {
			fmt.Println("Overall churn rate: n/a")
		}
		fmt.Printf("Run ID: %s\n", res.RunID)
		return nil
	},
}

func init() {
	runCmd.Flags().StringVar(&runInput, "input", "", "path to the raw JSON dataset (required)")
	runCmd.Flags().StringVar(&runOutdir, "outdir", "", "output directory (default from config)")
	runCmd.Flags().BoolVar(&runXLSX, "xlsx", false, "also write clean.xlsx")
	_ = runCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(runCmd)
}
