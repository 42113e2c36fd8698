package taxonomy

import (
	"strings"

	"go.uber.org/zap"

	"crosscheck/internal/config"
	"crosscheck/internal/model"
)

// ConceptIndex is the authoritative concept→statement mapping for one
// taxonomy vintage. Immutable after BuildIndex; safe to share across
// concurrent filing workers.
type ConceptIndex struct {
	name       string
	statements map[model.ConceptID]model.StatementType
	elements   map[model.ConceptID]model.Element
}

// BuildIndex classifies every presentation role by keyword and assigns each
// member concept the role's statement type. A concept reached through roles
// with different classifications keeps the higher-priority statement.
// Malformed roles are logged and skipped; a partial index beats failing the
// filing.
func BuildIndex(name string, elements []model.Element, roles []model.Role, keywords config.KeywordConfig, logger *zap.Logger) *ConceptIndex {
	ix := &ConceptIndex{
		name:       name,
		statements: make(map[model.ConceptID]model.StatementType),
		elements:   make(map[model.ConceptID]model.Element, len(elements)),
	}

	for _, el := range elements {
		if el.Concept.IsZero() {
			continue
		}
		ix.elements[el.Concept] = el
	}

	for _, role := range roles {
		if role.Definition == "" {
			logger.Warn("skipping role without definition", zap.String("role", role.URI))
			continue
		}
		stmt := ClassifyRole(role.Definition, keywords)
		for _, concept := range role.Concepts {
			if concept.IsZero() {
				logger.Warn("skipping empty concept in role", zap.String("role", role.URI))
				continue
			}
			if prev, ok := ix.statements[concept]; ok {
				if stmt.Priority() <= prev.Priority() {
					continue
				}
			}
			ix.statements[concept] = stmt
		}
	}

	logger.Debug("concept index built",
		zap.String("taxonomy", name),
		zap.Int("roles", len(roles)),
		zap.Int("concepts", len(ix.statements)))

	return ix
}

// ClassifyRole maps a role definition string onto a statement type by
// priority-ordered substring match. Balance sheet keywords are checked first,
// then cash flow, then income statement; anything else is "other".
func ClassifyRole(definition string, keywords config.KeywordConfig) model.StatementType {
	def := strings.ToLower(definition)

	for _, kw := range keywords.BalanceSheet {
		if strings.Contains(def, strings.ToLower(kw)) {
			return model.StatementBalanceSheet
		}
	}
	for _, kw := range keywords.CashFlow {
		if strings.Contains(def, strings.ToLower(kw)) {
			return model.StatementCashFlow
		}
	}
	for _, kw := range keywords.IncomeStatement {
		if strings.Contains(def, strings.ToLower(kw)) {
			return model.StatementIncomeStatement
		}
	}
	return model.StatementOther
}

// Name returns the taxonomy identifier the index was built for.
func (ix *ConceptIndex) Name() string {
	return ix.name
}

// StatementFor looks up the statement a concept belongs to. Concepts in no
// presentation role are absent.
func (ix *ConceptIndex) StatementFor(concept model.ConceptID) (model.StatementType, bool) {
	stmt, ok := ix.statements[concept]
	return stmt, ok
}

// Element returns the taxonomy element definition for a concept, if declared.
func (ix *ConceptIndex) Element(concept model.ConceptID) (model.Element, bool) {
	el, ok := ix.elements[concept]
	return el, ok
}

// Len reports how many concepts carry a statement assignment.
func (ix *ConceptIndex) Len() int {
	return len(ix.statements)
}
