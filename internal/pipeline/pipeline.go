package pipeline

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/churn-cli/internal/config"
	"github.com/sells-group/churn-cli/internal/model"
	"github.com/sells-group/churn-cli/internal/schema"
	"github.com/sells-group/churn-cli/internal/store"
)

// Pipeline orchestrates the five ETL stages over one dataset and records
// run history in the store. The stages themselves are pure; all persistence
// happens here at the orchestration boundary.
type Pipeline struct {
	cfg    *config.Config
	schema schema.Schema
	store  store.Store
}

// Result is one complete run: the cleaned table and its summary.
type Result struct {
	RunID   string
	Table   model.Table
	Summary model.Summary
	Stages  []model.StageResult
}

// New creates a Pipeline.
func New(cfg *config.Config, s schema.Schema, st store.Store) *Pipeline {
	return &Pipeline{cfg: cfg, schema: s, store: st}
}

// Run executes flatten, normalize, dedupe, derive, and aggregate over a
// parsed JSON value. Row-local issues are tallied into the summary's
// counters; only schema errors abort the run.
func (p *Pipeline) Run(ctx context.Context, source string, raw any) (*Result, error) {
	log := zap.L().With(zap.String("source", source))
	log.Info("pipeline: starting run")

	run, err := p.store.CreateRun(ctx, source)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: create run")
	}
	result := &Result{RunID: run.ID}

	if err := p.store.UpdateRunStatus(ctx, run.ID, model.RunStatusProcessing); err != nil {
		log.Warn("pipeline: failed to update status", zap.Error(err))
	}

	// Stage tracking helper: times the stage, records it in the store, and
	// propagates only the stage's own error.
	track := func(name string, rowsIn int, fn func() (int, error)) error {
		stageID, stageErr := p.store.CreateStage(ctx, run.ID, name)
		if stageErr != nil {
			log.Warn("pipeline: failed to create stage", zap.String("stage", name), zap.Error(stageErr))
		}

		start := time.Now()
		rowsOut, fnErr := fn()
		sr := &model.StageResult{
			Name:     name,
			Status:   model.StageStatusComplete,
			Duration: time.Since(start).Milliseconds(),
			RowsIn:   rowsIn,
			RowsOut:  rowsOut,
		}
		if fnErr != nil {
			sr.Status = model.StageStatusFailed
			sr.Error = fnErr.Error()
		}
		result.Stages = append(result.Stages, *sr)

		if stageID != "" {
			if completeErr := p.store.CompleteStage(ctx, stageID, sr); completeErr != nil {
				log.Warn("pipeline: failed to complete stage", zap.String("stage", name), zap.Error(completeErr))
			}
		}

		log.Info("pipeline: stage finished",
			zap.String("stage", name),
			zap.String("status", string(sr.Status)),
			zap.Int("rows_in", rowsIn),
			zap.Int("rows_out", rowsOut),
			zap.Int64("duration_ms", sr.Duration),
		)
		return fnErr
	}

	fail := func(stageErr error) (*Result, error) {
		if updateErr := p.store.UpdateRunError(ctx, run.ID, stageErr.Error()); updateErr != nil {
			log.Warn("pipeline: failed to record run error", zap.Error(updateErr))
		}
		return nil, stageErr
	}

	var (
		flat       model.Table
		normalized model.Table
		deduped    model.Table
		featured   model.Table
		normStats  NormalizeStats
		dupes      int
	)

	if err := track("flatten", 0, func() (int, error) {
		var stageErr error
		flat, stageErr = Flatten(raw)
		return len(flat.Rows), stageErr
	}); err != nil {
		return fail(err)
	}
	originalRows := len(flat.Rows)

	if err := track("normalize", originalRows, func() (int, error) {
		var stageErr error
		normalized, normStats, stageErr = Normalize(flat, p.schema)
		return len(normalized.Rows), stageErr
	}); err != nil {
		return fail(err)
	}

	_ = track("dedupe", len(normalized.Rows), func() (int, error) {
		deduped, dupes = Dedupe(normalized, p.schema.Identity())
		return len(deduped.Rows), nil
	})

	_ = track("derive", len(deduped.Rows), func() (int, error) {
		featured = DeriveFeatures(deduped)
		return len(featured.Rows), nil
	})

	_ = track("aggregate", len(featured.Rows), func() (int, error) {
		result.Summary = Aggregate(featured, p.cfg.Aggregate.Dimensions, p.cfg.Aggregate.NumericColumns)
		return len(featured.Rows), nil
	})

	result.Table = featured
	result.Summary.Counters = model.Counters{
		OriginalRows:      originalRows,
		CleanRows:         len(featured.Rows),
		DroppedDuplicates: dupes,
		DroppedLabels:     normStats.DroppedLabels,
		CoercionFailures:  normStats.CoercionFailures,
	}

	if err := p.store.UpdateRunSummary(ctx, run.ID, &result.Summary); err != nil {
		log.Warn("pipeline: failed to persist summary", zap.Error(err))
	}

	log.Info("pipeline: run complete",
		zap.Int("original_rows", originalRows),
		zap.Int("clean_rows", len(featured.Rows)),
		zap.Int("dropped_duplicates", dupes),
		zap.Int("dropped_labels", normStats.DroppedLabels),
	)
	return result, nil
}
