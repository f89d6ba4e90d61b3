package pipeline

import (
	"go.uber.org/zap"

	"github.com/sells-group/churn-cli/internal/model"
)

// Dedupe removes rows whose identity key was already seen, keeping the first
// occurrence in input order. First-seen-wins is deliberate: it is stable and
// deterministic, where a "most complete row wins" policy would not be.
// Rows with a missing identity key form a single duplicate group, matching
// how the key collapses in the exported table. Returns the deduplicated
// table and the number of rows removed.
func Dedupe(t model.Table, key string) (model.Table, int) {
	out := model.Table{Columns: append([]string(nil), t.Columns...)}
	seen := make(map[string]bool, len(t.Rows))

	for _, row := range t.Rows {
		id := row[key].Render()
		if seen[id] {
			continue
		}
		seen[id] = true
		out.Rows = append(out.Rows, row)
	}

	dropped := len(t.Rows) - len(out.Rows)
	if dropped > 0 {
		zap.L().Info("dedupe: duplicate rows removed",
			zap.String("key", key),
			zap.Int("dropped", dropped),
		)
	}
	return out, dropped
}
