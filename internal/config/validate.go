// This file adds a lightweight linter for Pipeline values: static checks
// over a decoded Pipeline returning a list of issues (errors and warnings)
// that callers can surface in a CLI or tests.
package config

import (
	"fmt"
	"strings"

	"olistetl/internal/reports"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a configuration error that blocks execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates a finding worth surfacing that does not
	// block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation finding. Path is a dotted path into
// the config (e.g. "storage.kind", "reports[1]").
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a
// single error where needed.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// HasErrors reports whether any issue carries error severity.
func HasErrors(issues []Issue) bool {
	for _, i := range issues {
		if i.Severity == SeverityError {
			return true
		}
	}
	return false
}

// ValidatePipeline statically checks a Pipeline without mutating it.
// Callers decide whether warnings are fatal.
func ValidatePipeline(p Pipeline) []Issue {
	var issues []Issue

	if strings.TrimSpace(p.Job) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "job",
			Message:  "job must not be empty; it labels metrics and identifies runs",
		})
	}

	if strings.TrimSpace(p.Dataset.Dir) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "dataset.dir",
			Message:  "dataset.dir must point at the CSV source directory",
		})
	}

	issues = append(issues, validateStorage(p.Storage)...)
	issues = append(issues, validateReports(p.Reports)...)
	issues = append(issues, validateOutput(p.Output)...)

	if p.Runtime.BatchSize < 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "runtime.batch_size",
			Message:  "batch_size must not be negative",
		})
	}

	return issues
}

func validateStorage(s Storage) []Issue {
	var issues []Issue

	if strings.TrimSpace(s.Kind) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.kind",
			Message:  "storage.kind must not be empty",
		})
		return issues
	}

	// Unknown kinds are warnings for forward compatibility; the storage
	// factory gives the authoritative answer at open time.
	known := map[string]struct{}{
		"sqlite":   {},
		"postgres": {},
		"mssql":    {},
	}
	if _, ok := known[s.Kind]; !ok {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "storage.kind",
			Message:  fmt.Sprintf("unknown storage kind %q; ensure a matching backend is registered", s.Kind),
		})
	}

	if s.Kind != "sqlite" && strings.TrimSpace(s.DB.DSN) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.db.dsn",
			Message:  fmt.Sprintf("%s storage requires a non-empty dsn", s.Kind),
		})
	}

	return issues
}

func validateReports(names []string) []Issue {
	var issues []Issue
	seen := map[string]bool{}
	for i, n := range names {
		path := fmt.Sprintf("reports[%d]", i)
		if _, ok := reports.Lookup(n); !ok {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     path,
				Message:  fmt.Sprintf("unknown report %q; known: %v", n, reports.Names()),
			})
		}
		if seen[n] {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Path:     path,
				Message:  fmt.Sprintf("report %q listed more than once", n),
			})
		}
		seen[n] = true
	}
	return issues
}

func validateOutput(o Output) []Issue {
	var issues []Issue
	for i, f := range o.Formats {
		switch f {
		case "csv", "json":
		default:
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     fmt.Sprintf("output.formats[%d]", i),
				Message:  fmt.Sprintf("unknown output format %q (known: csv, json)", f),
			})
		}
	}
	if len(o.Formats) > 0 && strings.TrimSpace(o.Dir) == "" {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "output.dir",
			Message:  "output formats configured but output.dir is empty; file export is disabled",
		})
	}
	return issues
}
