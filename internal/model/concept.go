package model

import "strings"

// ConceptID identifies an accounting concept by namespace prefix and local name.
type ConceptID struct {
	Namespace string `json:"namespace"`
	Name      string `json:"name"`
}

// ParseConceptID splits a qualified name like "us-gaap:Assets" into its parts.
// Names without a prefix get an empty namespace.
func ParseConceptID(qname string) ConceptID {
	qname = strings.TrimSpace(qname)
	if i := strings.IndexByte(qname, ':'); i >= 0 {
		return ConceptID{Namespace: qname[:i], Name: qname[i+1:]}
	}
	return ConceptID{Name: qname}
}

// String renders the id back to prefix:name form.
func (c ConceptID) String() string {
	if c.Namespace == "" {
		return c.Name
	}
	return c.Namespace + ":" + c.Name
}

// IsZero reports whether the id is empty.
func (c ConceptID) IsZero() bool {
	return c.Namespace == "" && c.Name == ""
}

// PeriodType is the taxonomy-declared period kind of a concept.
type PeriodType string

const (
	PeriodInstant  PeriodType = "instant"
	PeriodDuration PeriodType = "duration"
	PeriodUnknown  PeriodType = "unknown"
)

// BalanceType is the taxonomy-declared balance attribute of a concept.
type BalanceType string

const (
	BalanceDebit  BalanceType = "debit"
	BalanceCredit BalanceType = "credit"
	BalanceNone   BalanceType = "none"
)

// Element is one concept definition from the parsed taxonomy element table.
type Element struct {
	Concept    ConceptID   `json:"concept"`
	PeriodType PeriodType  `json:"period_type"`
	Balance    BalanceType `json:"balance"`
	Abstract   bool        `json:"abstract"`
	Type       string      `json:"type"`
}

// Role is one presentation role from the parsed taxonomy, carrying the
// human-readable definition string used for statement classification.
type Role struct {
	URI        string      `json:"uri"`
	Definition string      `json:"definition"`
	Concepts   []ConceptID `json:"concepts"`
}

// ExtensionConcept is a filer-defined concept outside the standard taxonomy.
// SubstitutionGroup names the standard concept it stands in for; a zero value
// means none was declared.
type ExtensionConcept struct {
	Concept           ConceptID   `json:"concept"`
	SubstitutionGroup ConceptID   `json:"substitution_group"`
	PeriodType        PeriodType  `json:"period_type"`
	Balance           BalanceType `json:"balance"`
	Abstract          bool        `json:"abstract"`
}
