package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/churn-cli/internal/export"
	"github.com/sells-group/churn-cli/internal/pipeline"
	"github.com/sells-group/churn-cli/internal/schema"
	"github.com/sells-group/churn-cli/internal/store"
)

// initStore opens the configured run-history store and applies migrations.
func initStore(ctx context.Context) (store.Store, error) {
	var (
		st  store.Store
		err error
	)
	switch cfg.Store.Driver {
	case "postgres":
		st, err = store.NewPostgres(ctx, cfg.Store.DatabaseURL, nil)
	case "sqlite", "":
		st, err = store.NewSQLite(cfg.Store.DatabaseURL)
	default:
		return nil, eris.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, err
	}
	return st, nil
}

// initPipeline builds the pipeline with its schema and store.
func initPipeline(ctx context.Context) (*pipeline.Pipeline, store.Store, error) {
	s, err := schema.Load(cfg.Schema.Path)
	if err != nil {
		return nil, nil, err
	}
	st, err := initStore(ctx)
	if err != nil {
		return nil, nil, err
	}
	return pipeline.New(cfg, s, st), st, nil
}

// writeOutputs writes the cleaned table, summary, and report for one run.
func writeOutputs(res *pipeline.Result, source, outdir string, xlsx bool) error {
	if err := os.MkdirAll(outdir, 0o755); err != nil {
		return eris.Wrapf(err, "create outdir %s", outdir)
	}

	csvPath := filepath.Join(outdir, "clean.csv")
	if err := export.WriteCSV(res.Table, csvPath); err != nil {
		return err
	}

	if xlsx {
		if err := export.WriteXLSX(res.Table, filepath.Join(outdir, "clean.xlsx")); err != nil {
			return err
		}
	}

	report := pipeline.FormatReport(source, res.Summary)
	if err := os.WriteFile(filepath.Join(outdir, "report.md"), []byte(report), 0o644); err != nil {
		return eris.Wrap(err, "write report")
	}

	summaryJSON, err := json.MarshalIndent(res.Summary, "", "  ")
	if err != nil {
		return eris.Wrap(err, "marshal summary")
	}
	if err := os.WriteFile(filepath.Join(outdir, "summary.json"), summaryJSON, 0o644); err != nil {
		return eris.Wrap(err, "write summary")
	}

	zap.L().Info("outputs written",
		zap.String("outdir", outdir),
		zap.String("csv", csvPath),
		zap.Bool("xlsx", xlsx),
	)
	return nil
}
