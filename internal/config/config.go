// Package config defines the canonical, JSON-serializable configuration
// model for the pipeline. It is intentionally small and dependency-free so
// pipeline files can be loaded from disk and passed through the program
// without additional glue code.
//
// Example (trimmed):
//
//	{
//	  "job":     "olist",
//	  "dataset": { "dir": "data/olist" },
//	  "storage": { "kind": "sqlite", "db": { "dsn": "file:artifacts/olist.sqlite" } },
//	  "reports": ["revenue_by_month_year", "revenue_per_state"],
//	  "output":  { "dir": "artifacts", "formats": ["csv", "json"] }
//	}
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Pipeline is the top-level object decoded from a pipeline file under
// configs/pipelines/*.json.
type Pipeline struct {
	// Job names the run; it labels metrics and log lines.
	Job string `json:"job"`

	// Dataset locates the CSV sources.
	Dataset Dataset `json:"dataset"`

	// Holidays configures the public-holidays enrichment fetch.
	Holidays Holidays `json:"holidays"`

	// Storage selects the query-capable store the pipeline runs against.
	Storage Storage `json:"storage"`

	// Reports lists the report names to run, in order. Empty means every
	// registered report.
	Reports []string `json:"reports"`

	// Output configures file exports of report results.
	Output Output `json:"output"`

	Runtime Runtime `json:"runtime"`
}

// Dataset locates the CSV source directory.
type Dataset struct {
	// Dir is the directory holding the dataset CSV files.
	Dir string `json:"dir"`

	// Files optionally overrides the CSV filename for a table,
	// e.g. {"olist_orders": "orders_2018_snapshot.csv"}.
	Files map[string]string `json:"files"`
}

// Holidays configures the public-holidays API fetch. An empty URL disables
// the enrichment; the pipeline then loads an empty holidays table.
type Holidays struct {
	// URL is the API base, e.g. "https://date.nager.at/api/v3/publicholidays".
	URL string `json:"url"`

	// Year defaults to "2017".
	Year string `json:"year"`

	// Country defaults to "BR".
	Country string `json:"country"`
}

// Storage selects the store backend.
type Storage struct {
	// Kind selects the backend implementation: "sqlite", "postgres", "mssql".
	Kind string `json:"kind"`

	// DB carries backend connection options.
	DB StorageDB `json:"db"`
}

// StorageDB holds connection options shared by all backends.
type StorageDB struct {
	// DSN is the connection string, passed to the backend verbatim.
	DSN string `json:"dsn"`
}

// Output configures file exports of report results.
type Output struct {
	// Dir is the export directory. Empty disables file export; results are
	// still written to the store as result_<name> tables.
	Dir string `json:"dir"`

	// Formats lists export formats: "csv", "json".
	Formats []string `json:"formats"`
}

// Runtime controls batching.
type Runtime struct {
	// BatchSize bounds rows per bulk-insert batch; 0 uses the default.
	BatchSize int `json:"batch_size"`
}

// Load reads and decodes a pipeline file.
func Load(path string) (Pipeline, error) {
	var p Pipeline
	raw, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := json.Unmarshal(raw, &p); err != nil {
		return p, fmt.Errorf("config: decode %s: %w", path, err)
	}
	p.applyDefaults()
	return p, nil
}

func (p *Pipeline) applyDefaults() {
	if p.Job == "" {
		p.Job = "olist"
	}
	if p.Storage.Kind == "" {
		p.Storage.Kind = "sqlite"
	}
	if p.Holidays.Year == "" {
		p.Holidays.Year = "2017"
	}
	if p.Holidays.Country == "" {
		p.Holidays.Country = "BR"
	}
}
