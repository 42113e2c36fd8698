package model

import "time"

// Run is one reconciliation of one filing.
type Run struct {
	ID          string    `json:"id"`
	FilingID    string    `json:"filing_id"`
	Taxonomy    string    `json:"taxonomy"`
	Status      string    `json:"status"` // running/done/failed
	Error       string    `json:"error,omitempty"`
	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at,omitzero"`
}

// ExtensionSummary counts how the filer's extension concepts resolved.
type ExtensionSummary struct {
	Total    int `json:"total"`
	Valid    int `json:"valid"`
	Invalid  int `json:"invalid"`
	Unmapped int `json:"unmapped"`
}

// RunResult bundles everything one filing run produced.
type RunResult struct {
	Run        Run                `json:"run"`
	Statements []*StatementResult `json:"statements"`
	Overall    Statistics         `json:"overall"`
	Extensions ExtensionSummary   `json:"extensions"`
	Duplicates []*DuplicateReport `json:"duplicates"`
}

// StatementResultFor returns the result for one statement, or nil.
func (r *RunResult) StatementResultFor(s StatementType) *StatementResult {
	for _, sr := range r.Statements {
		if sr.Statement == s {
			return sr
		}
	}
	return nil
}
