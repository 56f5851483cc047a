package dataset

import "time"

// TableStats counts the outcome of parsing one source table.
type TableStats struct {
	Rows    int `json:"rows"`
	Skipped int `json:"skipped"`
}

// ReloadStats reports what a reload ingested. Per-row parse failures
// and cross-reference misses are counted here instead of aborting the
// reload.
type ReloadStats struct {
	Tables        map[string]TableStats `json:"tables"`
	DanglingVotes int                   `json:"danglingVotes"`
	Diagnostics   []string              `json:"-"`
	Duration      time.Duration         `json:"durationMs"`
}

func newReloadStats() *ReloadStats {
	return &ReloadStats{Tables: make(map[string]TableStats)}
}

// DiagnosticCount is the number of recoverable problems recorded
// during the reload (malformed rows, dangling references, missing
// sub-records).
func (s *ReloadStats) DiagnosticCount() int {
	return len(s.Diagnostics)
}

// TotalRows sums merged rows across all tables.
func (s *ReloadStats) TotalRows() int {
	var n int
	for _, t := range s.Tables {
		n += t.Rows
	}
	return n
}

// TotalSkipped sums skipped rows across all tables.
func (s *ReloadStats) TotalSkipped() int {
	var n int
	for _, t := range s.Tables {
		n += t.Skipped
	}
	return n
}
