package taxonomy

import (
	"go.uber.org/zap"

	"crosscheck/internal/model"
)

// Status is the resolution outcome for one extension concept.
type Status string

const (
	StatusValid   Status = "VALID"
	StatusInvalid Status = "INVALID"
)

// Unresolvable-chain reasons. These are data findings, not errors.
const (
	ReasonBaseNotFound = "base concept not found"
	ReasonChainTooDeep = "cycle or chain too deep"
	ReasonBaseUnplaced = "base concept not in any presentation role"
)

// DefaultMaxChainDepth bounds substitution-group chains. Real filings chain
// once or twice; ten covers pathological but legitimate schemas.
const DefaultMaxChainDepth = 10

// Resolution maps one extension concept onto the standard taxonomy.
type Resolution struct {
	Concept   model.ConceptID     `json:"concept"`
	Status    Status              `json:"status"`
	Base      model.ConceptID     `json:"base,omitempty"`
	Statement model.StatementType `json:"statement,omitempty"`
	Depth     int                 `json:"depth"`
	Reason    string              `json:"reason,omitempty"`
}

// Resolver follows substitutionGroup pointers from filer extensions into a
// concept index.
type Resolver struct {
	maxDepth int
	logger   *zap.Logger
}

// NewResolver creates a resolver with the given chain depth bound; zero or
// negative means DefaultMaxChainDepth.
func NewResolver(maxDepth int, logger *zap.Logger) *Resolver {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxChainDepth
	}
	return &Resolver{maxDepth: maxDepth, logger: logger}
}

// Resolve maps each extension concept with a declared substitutionGroup onto
// the index, following extension→extension chains with a visited set and the
// depth bound. Extensions without a substitutionGroup are left out of the
// result entirely; declaring none is not an error.
func (r *Resolver) Resolve(extensions []model.ExtensionConcept, ix *ConceptIndex) map[model.ConceptID]Resolution {
	byID := make(map[model.ConceptID]model.ExtensionConcept, len(extensions))
	for _, ext := range extensions {
		byID[ext.Concept] = ext
	}

	out := make(map[model.ConceptID]Resolution)
	for _, ext := range extensions {
		if ext.SubstitutionGroup.IsZero() {
			continue
		}
		res := r.resolveChain(ext, byID, ix)
		if res.Status == StatusInvalid {
			r.logger.Debug("extension did not resolve",
				zap.String("concept", ext.Concept.String()),
				zap.String("reason", res.Reason))
		}
		out[ext.Concept] = res
	}
	return out
}

func (r *Resolver) resolveChain(ext model.ExtensionConcept, byID map[model.ConceptID]model.ExtensionConcept, ix *ConceptIndex) Resolution {
	visited := map[model.ConceptID]bool{ext.Concept: true}
	current := ext.SubstitutionGroup

	for depth := 1; depth <= r.maxDepth; depth++ {
		if stmt, ok := ix.StatementFor(current); ok {
			return Resolution{
				Concept:   ext.Concept,
				Status:    StatusValid,
				Base:      current,
				Statement: stmt,
				Depth:     depth,
			}
		}

		if visited[current] {
			return Resolution{
				Concept: ext.Concept,
				Status:  StatusInvalid,
				Depth:   depth,
				Reason:  ReasonChainTooDeep,
			}
		}
		visited[current] = true

		next, ok := byID[current]
		if !ok {
			// Declared in the standard taxonomy but never presented, or
			// missing entirely.
			reason := ReasonBaseNotFound
			if _, declared := ix.Element(current); declared {
				reason = ReasonBaseUnplaced
			}
			return Resolution{
				Concept: ext.Concept,
				Status:  StatusInvalid,
				Depth:   depth,
				Reason:  reason,
			}
		}
		if next.SubstitutionGroup.IsZero() {
			return Resolution{
				Concept: ext.Concept,
				Status:  StatusInvalid,
				Depth:   depth,
				Reason:  ReasonBaseNotFound,
			}
		}
		current = next.SubstitutionGroup
	}

	return Resolution{
		Concept: ext.Concept,
		Status:  StatusInvalid,
		Depth:   r.maxDepth,
		Reason:  ReasonChainTooDeep,
	}
}

// Summarize counts resolution outcomes for a filing's extension set.
func Summarize(extensions []model.ExtensionConcept, resolutions map[model.ConceptID]Resolution) model.ExtensionSummary {
	sum := model.ExtensionSummary{Total: len(extensions)}
	for _, ext := range extensions {
		res, ok := resolutions[ext.Concept]
		if !ok {
			sum.Unmapped++
			continue
		}
		switch res.Status {
		case StatusValid:
			sum.Valid++
		case StatusInvalid:
			sum.Invalid++
		}
	}
	return sum
}
