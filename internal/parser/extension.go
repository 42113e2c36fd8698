package parser

import (
	"encoding/json"
	"os"

	"github.com/cockroachdb/errors"

	"crosscheck/internal/model"
)

type rawExtensionFile struct {
	Prefix   string                `json:"prefix"`
	Concepts []rawExtensionConcept `json:"concepts"`
}

type rawExtensionConcept struct {
	Name              string `json:"name"`
	SubstitutionGroup string `json:"substitution_group"`
	SubGroupAlt       string `json:"substitutionGroup"`
	PeriodType        string `json:"period_type"`
	Balance           string `json:"balance"`
	Abstract          bool   `json:"abstract"`
}

// LoadExtensions reads the filer's extension schema: either a bare JSON array
// of concept declarations or an object with a prefix and a "concepts" array.
// Declarations without a usable name are skipped.
func LoadExtensions(path string) ([]model.ExtensionConcept, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read extension file %s", path)
	}

	var raws []rawExtensionConcept
	if err := json.Unmarshal(data, &raws); err != nil {
		var wrapped rawExtensionFile
		if err := json.Unmarshal(data, &wrapped); err != nil {
			return nil, errors.Wrapf(err, "decode extension file %s", path)
		}
		raws = wrapped.Concepts
	}

	out := make([]model.ExtensionConcept, 0, len(raws))
	for _, raw := range raws {
		id, ok := NormalizeConcept(raw.Name)
		if !ok {
			continue
		}
		subGroup := raw.SubstitutionGroup
		if subGroup == "" {
			subGroup = raw.SubGroupAlt
		}
		ext := model.ExtensionConcept{
			Concept:    id,
			PeriodType: parsePeriodType(raw.PeriodType),
			Balance:    parseBalanceType(raw.Balance),
			Abstract:   raw.Abstract,
		}
		if base, ok := NormalizeConcept(subGroup); ok {
			ext.SubstitutionGroup = base
		}
		out = append(out, ext)
	}
	return out, nil
}
