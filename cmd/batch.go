package main

import (
	"context"
	"fmt"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/churn-cli/internal/fetcher"
	"github.com/sells-group/churn-cli/internal/pipeline"
)

var (
	batchOutdir      string
	batchConcurrency int
)

var batchCmd = &cobra.Command{
	Use:   "batch [files...]",
	Short: "Run the ETL pipeline over multiple datasets concurrently",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		p, st, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		limit := batchConcurrency
		if limit <= 0 {
			limit = cfg.Batch.MaxConcurrentFiles
		}

		if err := runBatch(ctx, p, args, batchOutdir, limit, cfg.Output.XLSX); err != nil {
			return err
		}
		fmt.Printf("Processed %d file(s) into %s\n", len(args), batchOutdir)
		return nil
	},
}

// runBatch processes the input files with at most limit running at once.
// The first failure cancels the remaining files and is returned.
func runBatch(ctx context.Context, p *pipeline.Pipeline, inputs []string, outdir string, limit int, xlsx bool) error {
	if limit < 1 {
		limit = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for _, input := range inputs {
		g.Go(func() error {
			raw, err := fetcher.LoadJSON(input)
			if err != nil {
				return err
			}

			// Each stage run is sequential; only files run concurrently.
			res, err := p.Run(gctx, input, raw)
			if err != nil {
				return err
			}

			base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
			if err := writeOutputs(res, input, filepath.Join(outdir, base), xlsx); err != nil {
				return err
			}

			zap.L().Info("batch: file complete",
				zap.String("input", input),
				zap.String("run_id", res.RunID),
			)
			return nil
		})
	}

	return g.Wait()
}

func init() {
	batchCmd.Flags().StringVar(&batchOutdir, "outdir", "out", "base output directory; one subdirectory per input file")
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 0, "max files processed at once (default from config)")
	rootCmd.AddCommand(batchCmd)
}
