package models

// MigrationSummary accumulates per-result outcomes over one run. Counters
// only ever go up; the engine finalizes it once at the end of the run.
type MigrationSummary struct {
	Copied  int `json:"copied"`
	Skipped int `json:"skipped"`
	Errors  int `json:"errors"`
}

// Total is the number of results the engine classified.
func (s MigrationSummary) Total() int {
	return s.Copied + s.Skipped + s.Errors
}
