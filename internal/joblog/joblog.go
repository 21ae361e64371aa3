// Package joblog writes the flat batch result log: one record per job
// outcome, suitable for post-run auditing. The log is written once per run
// and never consumed by the pipeline itself.
package joblog

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sparkgeo/serverless-datacube-demo/internal/dispatch"
)

// Save writes one CSV record per job outcome to path: successful outcomes
// first (status "success"), then the skipped jobs (status "skip"), each
// identified by job id and label. Parent directories are created as needed.
func Save(path string, result *dispatch.Result) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open result log %q: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"job_id", "label", "status"}); err != nil {
		return fmt.Errorf("failed to write result log header: %w", err)
	}

	for _, o := range result.Outcomes {
		if o == nil {
			continue
		}
		if err := w.Write([]string{o.JobID.String(), o.Label, "success"}); err != nil {
			return fmt.Errorf("failed to write result log record: %w", err)
		}
	}
	for _, j := range result.Skipped {
		if err := w.Write([]string{j.ID().String(), j.Label(), "skip"}); err != nil {
			return fmt.Errorf("failed to write result log record: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush result log: %w", err)
	}
	return nil
}
