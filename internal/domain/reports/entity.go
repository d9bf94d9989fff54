package reports

// Outcome enum for a single check result
type Outcome string

const (
	OutcomePassed  Outcome = "passed"
	OutcomeFailed  Outcome = "failed"
	OutcomeSkipped Outcome = "skipped"
)

// CheckResult is one check evaluated against one resource in one file.
type CheckResult struct {
	CheckID   string         `json:"check_id"`
	Resource  string         `json:"resource"`
	FilePath  string         `json:"file_abs_path"`
	Outcome   Outcome        `json:"result"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CheckName string         `json:"check_name,omitempty"`
}

// ScanReport is the output of one analysis domain (one file-format
// checker): a flat list of check results. Read-only input to reduction.
type ScanReport struct {
	CheckType string        `json:"check_type"`
	Results   []CheckResult `json:"results"`
}

// Document is the generic string-keyed tree the reducer and the deep
// merge operate on: every value is either a scalar or a nested
// map[string]any.
type Document = map[string]any
