package model

// Outcome classifies one concept's placement on one statement.
type Outcome string

const (
	OutcomeCorrectBoth    Outcome = "correct_both"
	OutcomeCorrectAOnly   Outcome = "correct_a_only"
	OutcomeCorrectBOnly   Outcome = "correct_b_only"
	OutcomeCorrectNeither Outcome = "correct_neither"
	OutcomeNotInTaxonomy  Outcome = "not_in_taxonomy"
)

// Statistics are per-outcome concept counts for one statement, or the
// aggregate across statements. The five outcome counts always sum to
// TotalConcepts.
type Statistics struct {
	TotalConcepts  int `json:"total_concepts"`
	CorrectBoth    int `json:"correct_both"`
	CorrectAOnly   int `json:"correct_a_only"`
	CorrectBOnly   int `json:"correct_b_only"`
	CorrectNeither int `json:"correct_neither"`
	NotInTaxonomy  int `json:"not_in_taxonomy"`
	FactsA         int `json:"facts_a"`
	FactsB         int `json:"facts_b"`
}

// Count records one classified concept.
func (s *Statistics) Count(o Outcome) {
	s.TotalConcepts++
	switch o {
	case OutcomeCorrectBoth:
		s.CorrectBoth++
	case OutcomeCorrectAOnly:
		s.CorrectAOnly++
	case OutcomeCorrectBOnly:
		s.CorrectBOnly++
	case OutcomeCorrectNeither:
		s.CorrectNeither++
	case OutcomeNotInTaxonomy:
		s.NotInTaxonomy++
	}
}

// Merge adds other's counts into s.
func (s *Statistics) Merge(other Statistics) {
	s.TotalConcepts += other.TotalConcepts
	s.CorrectBoth += other.CorrectBoth
	s.CorrectAOnly += other.CorrectAOnly
	s.CorrectBOnly += other.CorrectBOnly
	s.CorrectNeither += other.CorrectNeither
	s.NotInTaxonomy += other.NotInTaxonomy
	s.FactsA += other.FactsA
	s.FactsB += other.FactsB
}

// Discrepancy records one concept the reconciler rejected from a statement.
type Discrepancy struct {
	Concept           string        `json:"concept"`
	ExpectedStatement StatementType `json:"expected_statement"`
	ActualStatement   StatementType `json:"actual_statement"`
	InMapperA         bool          `json:"in_mapper_a"`
	InMapperB         bool          `json:"in_mapper_b"`
	Reason            string        `json:"reason"`
}

// StatementResult is the reconciler output for one statement.
type StatementResult struct {
	Statement     StatementType  `json:"statement"`
	Accepted      []AcceptedFact `json:"accepted"`
	Stats         Statistics     `json:"statistics"`
	Discrepancies []Discrepancy  `json:"discrepancies"`
}
