package reconcile

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"crosscheck/internal/config"
	"crosscheck/internal/model"
	"crosscheck/internal/taxonomy"
)

// Reconciler grades both mappers' concept placements against the taxonomy.
// The taxonomy is the single source of truth; the mappers are never compared
// against each other directly.
type Reconciler struct {
	index      *taxonomy.ConceptIndex
	extensions map[model.ConceptID]taxonomy.Resolution
	standard   map[string]bool
	denyNS     map[string]bool
	denySuffix []string
	logger     *zap.Logger
}

// New creates a reconciler over a built concept index and resolved extension
// map. Both are read-only hand-offs shared with other filings' workers.
func New(index *taxonomy.ConceptIndex, extensions map[model.ConceptID]taxonomy.Resolution, cfg config.ReconcileConfig, logger *zap.Logger) *Reconciler {
	standard := make(map[string]bool, len(cfg.StandardNamespaces))
	for _, ns := range cfg.StandardNamespaces {
		standard[ns] = true
	}
	denyNS := make(map[string]bool, len(cfg.DenylistNamespaces))
	for _, ns := range cfg.DenylistNamespaces {
		denyNS[ns] = true
	}
	return &Reconciler{
		index:      index,
		extensions: extensions,
		standard:   standard,
		denyNS:     denyNS,
		denySuffix: cfg.DenylistSuffixes,
		logger:     logger,
	}
}

// IsStandardNamespace reports whether a namespace prefix belongs to the
// standard taxonomy allow-list (i.e. the concept is not a filer extension).
func (r *Reconciler) IsStandardNamespace(ns string) bool {
	return r.standard[ns]
}

// Reconcile classifies every concept either mapper reported on one statement
// into the five outcome buckets, emitting accepted facts, statistics, and
// discrepancy records. Facts must already carry normalized concept ids.
func (r *Reconciler) Reconcile(statement model.StatementType, factsA, factsB []model.Fact) *model.StatementResult {
	result := &model.StatementResult{
		Statement:     statement,
		Accepted:      []model.AcceptedFact{},
		Discrepancies: []model.Discrepancy{},
	}
	result.Stats.FactsA = len(factsA)
	result.Stats.FactsB = len(factsB)

	byConceptA := groupByConcept(factsA)
	byConceptB := groupByConcept(factsB)

	for _, concept := range unionConcepts(byConceptA, byConceptB) {
		if r.denylisted(concept) {
			// Cover-page and dimension metadata the taxonomy cannot place;
			// counting these would only manufacture discrepancies.
			continue
		}

		inA := len(byConceptA[concept]) > 0
		inB := len(byConceptB[concept]) > 0

		expected, known := r.expectedStatement(concept)

		if !known {
			result.Stats.Count(model.OutcomeNotInTaxonomy)
			// Unknown concepts pass through rather than being dropped, so
			// genuine filer-specific disclosures survive reconciliation.
			r.accept(result, concept, byConceptA[concept], byConceptB[concept])
			continue
		}

		if expected == statement {
			result.Stats.Count(classifyCorrect(inA, inB))
			r.accept(result, concept, byConceptA[concept], byConceptB[concept])
			continue
		}

		result.Stats.Count(model.OutcomeCorrectNeither)
		result.Discrepancies = append(result.Discrepancies, model.Discrepancy{
			Concept:           concept.String(),
			ExpectedStatement: expected,
			ActualStatement:   statement,
			InMapperA:         inA,
			InMapperB:         inB,
			Reason:            "taxonomy places concept on " + string(expected),
		})
	}

	r.logger.Debug("statement reconciled",
		zap.String("statement", string(statement)),
		zap.Int("concepts", result.Stats.TotalConcepts),
		zap.Int("accepted_facts", len(result.Accepted)),
		zap.Int("discrepancies", len(result.Discrepancies)))

	return result
}

// ReconcileAll runs every core statement and aggregates overall statistics.
func (r *Reconciler) ReconcileAll(factsA, factsB map[model.StatementType][]model.Fact) ([]*model.StatementResult, model.Statistics) {
	var results []*model.StatementResult
	var overall model.Statistics
	for _, stmt := range model.CoreStatements {
		res := r.Reconcile(stmt, factsA[stmt], factsB[stmt])
		overall.Merge(res.Stats)
		results = append(results, res)
	}
	return results, overall
}

// expectedStatement resolves where the taxonomy says a concept belongs:
// directly from the index, or through the extension map for filer concepts.
func (r *Reconciler) expectedStatement(concept model.ConceptID) (model.StatementType, bool) {
	if stmt, ok := r.index.StatementFor(concept); ok {
		return stmt, true
	}
	if !r.standard[concept.Namespace] {
		if res, ok := r.extensions[concept]; ok && res.Status == taxonomy.StatusValid {
			return res.Statement, true
		}
	}
	return model.StatementUnknown, false
}

// accept admits a concept's facts onto the statement. When both mappers
// report it, mapper A's instances win (richer context) tagged source "both".
func (r *Reconciler) accept(result *model.StatementResult, concept model.ConceptID, factsA, factsB []model.Fact) {
	facts := factsA
	tag := model.SourceMapperA
	switch {
	case len(factsA) > 0 && len(factsB) > 0:
		tag = model.SourceBoth
	case len(factsB) > 0:
		facts = factsB
		tag = model.SourceMapperB
	}

	for _, f := range facts {
		result.Accepted = append(result.Accepted, model.AcceptedFact{
			Concept:      concept.String(),
			Value:        f.Value,
			Context:      f.Context,
			Unit:         f.Unit,
			SourceMapper: tag,
		})
	}
}

func (r *Reconciler) denylisted(concept model.ConceptID) bool {
	if r.denyNS[concept.Namespace] {
		return true
	}
	for _, suffix := range r.denySuffix {
		if strings.HasSuffix(concept.Name, suffix) {
			return true
		}
	}
	return false
}

func classifyCorrect(inA, inB bool) model.Outcome {
	switch {
	case inA && inB:
		return model.OutcomeCorrectBoth
	case inA:
		return model.OutcomeCorrectAOnly
	default:
		return model.OutcomeCorrectBOnly
	}
}

func groupByConcept(facts []model.Fact) map[model.ConceptID][]model.Fact {
	out := make(map[model.ConceptID][]model.Fact)
	for _, f := range facts {
		out[f.Concept] = append(out[f.Concept], f)
	}
	return out
}

// unionConcepts returns the sorted union of both mappers' concept sets, so a
// re-run over the same snapshot emits identical output.
func unionConcepts(a, b map[model.ConceptID][]model.Fact) []model.ConceptID {
	seen := make(map[model.ConceptID]bool, len(a)+len(b))
	var out []model.ConceptID
	for c := range a {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	for c := range b {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}
