package parser

import (
	"regexp"
	"strings"

	"crosscheck/internal/model"
)

// Filings pin their taxonomy vintage in the namespace prefix
// ("us-gaap-2024"). The year is noise for cross-mapper comparison.
var yearSuffixRe = regexp.MustCompile(`[-_/](19|20)\d{2}$`)

// NormalizeConcept canonicalizes a raw concept id: trims whitespace, strips
// the filing-year suffix from the namespace prefix, and splits into
// namespace/local name. The local name is never rewritten. Returns false for
// an empty id.
func NormalizeConcept(raw string) (model.ConceptID, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return model.ConceptID{}, false
	}

	id := model.ParseConceptID(raw)
	if id.Name == "" {
		return model.ConceptID{}, false
	}
	id.Namespace = StripYearSuffix(id.Namespace)
	return id, true
}

// StripYearSuffix removes a trailing filing-year marker from a namespace
// prefix, so "us-gaap-2024" and "us-gaap" compare equal.
func StripYearSuffix(namespace string) string {
	return yearSuffixRe.ReplaceAllString(namespace, "")
}
