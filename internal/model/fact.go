package model

// Source tags which mapping pipeline a fact came from.
type Source string

const (
	SourceMapperA Source = "mapper_a"
	SourceMapperB Source = "mapper_b"
	SourceBoth    Source = "both"
	// SourcePremap marks facts from the pre-mapping extraction, used only for
	// duplicate origin attribution.
	SourcePremap Source = "premap"
)

// Fact is one reported value for a concept in a context. Produced once by a
// loader and never mutated afterwards.
type Fact struct {
	Concept  ConceptID `json:"concept"`
	Context  string    `json:"context"`
	Value    string    `json:"value"`
	Unit     string    `json:"unit,omitempty"`
	Decimals string    `json:"decimals,omitempty"`
	Source   Source    `json:"source"`
}

// AcceptedFact is a fact the reconciler admitted onto a statement.
type AcceptedFact struct {
	Concept      string `json:"concept"`
	Value        string `json:"value"`
	Context      string `json:"context"`
	Unit         string `json:"unit,omitempty"`
	SourceMapper Source `json:"source_mapper"`
}
