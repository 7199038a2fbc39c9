package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"olistetl/internal/clean"
	"olistetl/internal/config"
	"olistetl/internal/dataset"
	"olistetl/internal/holidays"
	"olistetl/internal/load"
	"olistetl/internal/metrics"
	"olistetl/internal/reports"
	"olistetl/internal/results"
	"olistetl/internal/storage"
)

// StageError identifies where a run failed: the pipeline stage plus, for
// transform and write failures, the report name.
type StageError struct {
	Stage string
	Name  string
	Err   error
}

func (e *StageError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("stage %s (%s): %v", e.Stage, e.Name, e.Err)
	}
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// run executes one full pipeline pass: extract, clean, materialize, then
// each report followed by its write. Stages are strictly sequential and the
// first failure aborts the run. The store handle is opened once here and
// released on every exit path.
func run(ctx context.Context, p config.Pipeline, verbose bool) error {
	repo, err := storage.New(ctx, storage.Config{Kind: p.Storage.Kind, DSN: p.Storage.DB.DSN})
	if err != nil {
		return &StageError{Stage: "open", Err: err}
	}
	defer repo.Close()

	// Extract.
	start := time.Now()
	tables, err := dataset.ReadAll(p.Dataset.Dir, p.Dataset.Files)
	if err == nil {
		hc := holidays.NewClient(holidays.Config{})
		ht := hc.FetchTable(ctx, p.Holidays.URL, p.Holidays.Year, p.Holidays.Country)
		// Calendar joins compare dates, not instants.
		err = clean.Midnight{Column: "date"}.Apply(ht)
		tables = append(tables, ht)
	}
	metrics.RecordStage(p.Job, "extract", err, time.Since(start))
	if err != nil {
		return &StageError{Stage: "extract", Err: err}
	}
	for _, t := range tables {
		metrics.RecordRows(p.Job, t.Name, int64(len(t.Rows)))
	}

	// Clean.
	start = time.Now()
	chain := clean.Default()
	for _, t := range tables {
		if err = chain.Apply(t); err != nil {
			break
		}
	}
	metrics.RecordStage(p.Job, "clean", err, time.Since(start))
	if err != nil {
		return &StageError{Stage: "clean", Err: err}
	}

	// Materialize.
	start = time.Now()
	err = load.Materialize(ctx, repo, tables, p.Runtime.BatchSize)
	metrics.RecordStage(p.Job, "materialize", err, time.Since(start))
	if err != nil {
		return &StageError{Stage: "materialize", Err: err}
	}

	// Transform and write, one report at a time in fixed order.
	names := p.Reports
	if len(names) == 0 {
		names = reports.Names()
	}
	writer := results.NewWriter(repo, p.Output.Dir, p.Output.Formats)

	for _, name := range names {
		start = time.Now()
		rel, err := reports.Run(ctx, repo, name)
		metrics.RecordStage(p.Job, "transform", err, time.Since(start))
		if err != nil {
			return &StageError{Stage: "transform", Name: name, Err: err}
		}
		metrics.RecordRows(p.Job, rel.Name, int64(len(rel.Rows)))
		if verbose {
			log.Printf("transform: %s: rows=%d", rel.Name, len(rel.Rows))
		}

		start = time.Now()
		err = writer.Write(ctx, rel)
		metrics.RecordStage(p.Job, "write", err, time.Since(start))
		if err != nil {
			return &StageError{Stage: "write", Name: name, Err: err}
		}
	}

	return nil
}
