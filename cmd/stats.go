package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/churn-cli/internal/fetcher"
)

var statsInput string

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Run the pipeline and print the statistics summary as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		p, st, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		raw, err := fetcher.LoadJSON(statsInput)
		if err != nil {
			return err
		}

		res, err := p.Run(ctx, statsInput, raw)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(res.Summary), "encode summary")
	},
}

func init() {
	statsCmd.Flags().StringVar(&statsInput, "input", "", "path to the raw JSON dataset (required)")
	_ = statsCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(statsCmd)
}
