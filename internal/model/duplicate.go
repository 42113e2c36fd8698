package model

// Severity grades the disagreement between duplicate values for one
// (concept, context) key.
type Severity string

const (
	// SeverityRedundant: every value textually identical. Harmless repetition.
	SeverityRedundant Severity = "REDUNDANT"
	SeverityMinor     Severity = "MINOR"
	SeverityMajor     Severity = "MAJOR"
	SeverityCritical  Severity = "CRITICAL"
)

// Origin attributes where a duplicate group came from.
type Origin string

const (
	// OriginSourceData: the duplication already existed in the pre-mapping facts.
	OriginSourceData Origin = "SOURCE_DATA"
	// OriginMappingIntroduced: the source had one fact for the key, the mapper
	// emitted several.
	OriginMappingIntroduced Origin = "MAPPING_INTRODUCED"
	OriginUnknown           Origin = "UNKNOWN"
)

// DuplicateGroup is two or more facts sharing (concept, context) within one
// mapper's output.
type DuplicateGroup struct {
	Concept       string   `json:"concept"`
	Context       string   `json:"context"`
	Values        []string `json:"values"`
	UniqueValues  int      `json:"unique_values"`
	VarianceRatio float64  `json:"variance_ratio"`
	Severity      Severity `json:"severity"`
	Origin        Origin   `json:"origin"`
	// NonNumeric marks groups whose values could not all be parsed as numbers;
	// their variance is reported as 0 rather than being dropped.
	NonNumeric bool `json:"non_numeric,omitempty"`
}

// OriginBreakdown counts duplicate groups by attribution.
type OriginBreakdown struct {
	SourceData        int `json:"source_data"`
	MappingIntroduced int `json:"mapping_introduced"`
	Unknown           int `json:"unknown"`
}

// DuplicateReport is the full duplicate-integrity result for one mapper's
// fact set. Diagnostic only: nothing here removes facts or blocks a run.
type DuplicateReport struct {
	Source              Source           `json:"source"`
	TotalGroups         int              `json:"total_groups"`
	TotalDuplicateFacts int              `json:"total_duplicate_facts"`
	SeverityCounts      map[Severity]int `json:"severity_counts"`
	OriginBreakdown     OriginBreakdown  `json:"origin_breakdown"`
	Groups              []DuplicateGroup `json:"groups"`
}
