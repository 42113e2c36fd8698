package parser

import (
	"encoding/json"
	"os"

	"github.com/cockroachdb/errors"

	"crosscheck/internal/model"
)

// TaxonomyData is the normalized taxonomy hand-off: the element table plus
// the presentation roles. Raw XML/iXBRL schema parsing happens upstream.
type TaxonomyData struct {
	Name     string
	Elements []model.Element
	Roles    []model.Role
}

type rawTaxonomyFile struct {
	Taxonomy string                `json:"taxonomy"`
	Elements map[string]rawElement `json:"elements"`
	Roles    map[string]rawRole    `json:"roles"`
}

type rawElement struct {
	PeriodType string `json:"period_type"`
	Balance    string `json:"balance"`
	Abstract   bool   `json:"abstract"`
	Type       string `json:"type"`
}

type rawRole struct {
	Definition string   `json:"definition"`
	Concepts   []string `json:"concepts"`
}

// LoadTaxonomy reads a normalized taxonomy table file. Elements with an
// unparseable qname are dropped here; role members that fail to normalize are
// dropped per role. Neither is fatal.
func LoadTaxonomy(path string) (*TaxonomyData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read taxonomy file %s", path)
	}

	var raw rawTaxonomyFile
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrapf(err, "decode taxonomy file %s", path)
	}

	out := &TaxonomyData{Name: raw.Taxonomy}

	for qname, el := range raw.Elements {
		id, ok := NormalizeConcept(qname)
		if !ok {
			continue
		}
		out.Elements = append(out.Elements, model.Element{
			Concept:    id,
			PeriodType: parsePeriodType(el.PeriodType),
			Balance:    parseBalanceType(el.Balance),
			Abstract:   el.Abstract,
			Type:       el.Type,
		})
	}

	for uri, role := range raw.Roles {
		r := model.Role{URI: uri, Definition: role.Definition}
		for _, qname := range role.Concepts {
			id, ok := NormalizeConcept(qname)
			if !ok {
				continue
			}
			r.Concepts = append(r.Concepts, id)
		}
		out.Roles = append(out.Roles, r)
	}

	return out, nil
}

func parsePeriodType(s string) model.PeriodType {
	switch s {
	case "instant":
		return model.PeriodInstant
	case "duration":
		return model.PeriodDuration
	}
	return model.PeriodUnknown
}

func parseBalanceType(s string) model.BalanceType {
	switch s {
	case "debit":
		return model.BalanceDebit
	case "credit":
		return model.BalanceCredit
	}
	return model.BalanceNone
}
