package jobs

import (
	"context"
	"fmt"
	"strings"

	"chatpulse/internal/ingest"
	"chatpulse/internal/logging"
	"chatpulse/internal/metrics"
	"chatpulse/internal/store"
)

// RunImportOnce decodes paths, merges them and writes the result to db as a
// single import run.
func RunImportOnce(ctx context.Context, db *store.DB, paths []string) (store.Import, error) {
	if len(paths) == 0 {
		return store.Import{}, fmt.Errorf("no input files")
	}
	rows, err := ingest.LoadFiles(paths)
	if err != nil {
		return store.Import{}, err
	}
	imp, err := db.PutRows(ctx, strings.Join(paths, ","), rows)
	if err != nil {
		return imp, fmt.Errorf("store rows: %w", err)
	}
	metrics.RowsStored.Add(float64(imp.Inserted))
	logging.Info("import_once", map[string]any{
		"id": imp.ID, "files": len(paths), "rows": imp.Rows, "inserted": imp.Inserted,
	})
	return imp, nil
}
