package duplicate

import (
	"math/big"
	"sort"
	"strings"

	"go.uber.org/zap"

	"crosscheck/internal/config"
	"crosscheck/internal/model"
)

// Analyzer detects duplicate facts within one mapper's output and grades how
// badly the duplicates disagree. Diagnostic only: it never removes facts or
// blocks a run; its severity counts feed an external scorer as a penalty.
type Analyzer struct {
	critical float64
	major    float64
	logger   *zap.Logger
}

// NewAnalyzer creates an analyzer with the given variance thresholds; zero
// thresholds fall back to the 5%/1% defaults.
func NewAnalyzer(cfg config.DuplicateConfig, logger *zap.Logger) *Analyzer {
	critical := cfg.CriticalThreshold
	if critical <= 0 {
		critical = 0.05
	}
	major := cfg.MajorThreshold
	if major <= 0 {
		major = 0.01
	}
	return &Analyzer{critical: critical, major: major, logger: logger}
}

type groupKey struct {
	concept model.ConceptID
	context string
}

// Detect groups facts by (concept, context), keeps groups of two or more,
// and classifies each. sourceFacts is the optional pre-mapping fact list used
// for origin attribution; pass nil when unavailable and every group reports
// UNKNOWN.
func (a *Analyzer) Detect(facts []model.Fact, sourceFacts []model.Fact, source model.Source) *model.DuplicateReport {
	report := &model.DuplicateReport{
		Source:         source,
		SeverityCounts: make(map[model.Severity]int),
		Groups:         []model.DuplicateGroup{},
	}

	grouped := make(map[groupKey][]model.Fact)
	for _, f := range facts {
		key := groupKey{concept: f.Concept, context: f.Context}
		grouped[key] = append(grouped[key], f)
	}

	var sourceCounts map[groupKey]int
	if sourceFacts != nil {
		sourceCounts = make(map[groupKey]int, len(sourceFacts))
		for _, f := range sourceFacts {
			sourceCounts[groupKey{concept: f.Concept, context: f.Context}]++
		}
	}

	keys := make([]groupKey, 0, len(grouped))
	for key, group := range grouped {
		if len(group) >= 2 {
			keys = append(keys, key)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].concept != keys[j].concept {
			return keys[i].concept.String() < keys[j].concept.String()
		}
		return keys[i].context < keys[j].context
	})

	for _, key := range keys {
		group := grouped[key]
		dg := a.classify(key, group)
		dg.Origin = attributeOrigin(sourceCounts, key, len(group))

		report.Groups = append(report.Groups, dg)
		report.TotalGroups++
		report.TotalDuplicateFacts += len(group)
		report.SeverityCounts[dg.Severity]++
		switch dg.Origin {
		case model.OriginSourceData:
			report.OriginBreakdown.SourceData++
		case model.OriginMappingIntroduced:
			report.OriginBreakdown.MappingIntroduced++
		default:
			report.OriginBreakdown.Unknown++
		}
	}

	a.logger.Debug("duplicate analysis complete",
		zap.String("source", string(source)),
		zap.Int("facts", len(facts)),
		zap.Int("groups", report.TotalGroups))

	return report
}

// classify computes variance and severity for one group. Textual identity is
// checked before any numeric parsing: a group repeating the same unparseable
// value is REDUNDANT, never CRITICAL.
func (a *Analyzer) classify(key groupKey, group []model.Fact) model.DuplicateGroup {
	values := make([]string, len(group))
	unique := make(map[string]bool)
	for i, f := range group {
		values[i] = f.Value
		unique[f.Value] = true
	}

	dg := model.DuplicateGroup{
		Concept:      key.concept.String(),
		Context:      key.context,
		Values:       values,
		UniqueValues: len(unique),
	}

	if len(unique) == 1 {
		dg.Severity = model.SeverityRedundant
		return dg
	}

	variance, numericCount := varianceRatio(values)
	dg.VarianceRatio = variance
	dg.NonNumeric = numericCount < len(values)

	switch {
	case variance >= a.critical:
		dg.Severity = model.SeverityCritical
	case variance >= a.major:
		dg.Severity = model.SeverityMajor
	default:
		// Covers >0% variance and textually-differing values whose numeric
		// variance is zero or incomputable.
		dg.Severity = model.SeverityMinor
	}
	return dg
}

// varianceRatio is |max−min| / max(|min|,|max|) over the numerically
// parseable values, computed with exact rationals so the 1%/5% boundaries
// don't wobble on float artifacts. Returns 0 when fewer than two values
// parse, and 0 for the (0,0) group.
func varianceRatio(values []string) (ratio float64, numericCount int) {
	var min, max *big.Rat
	for _, v := range values {
		r, ok := parseNumeric(v)
		if !ok {
			continue
		}
		numericCount++
		if min == nil || r.Cmp(min) < 0 {
			min = r
		}
		if max == nil || r.Cmp(max) > 0 {
			max = r
		}
	}
	if numericCount < 2 || min == nil || max == nil {
		return 0, numericCount
	}

	diff := new(big.Rat).Sub(max, min)
	diff.Abs(diff)

	absMin := new(big.Rat).Abs(min)
	absMax := new(big.Rat).Abs(max)
	denom := absMin
	if absMax.Cmp(absMin) > 0 {
		denom = absMax
	}
	if denom.Sign() == 0 {
		return 0, numericCount
	}

	f, _ := new(big.Rat).Quo(diff, denom).Float64()
	return f, numericCount
}

func parseNumeric(s string) (*big.Rat, bool) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return nil, false
	}
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return nil, false
	}
	return r, true
}

func attributeOrigin(sourceCounts map[groupKey]int, key groupKey, mapped int) model.Origin {
	if sourceCounts == nil {
		return model.OriginUnknown
	}
	switch n := sourceCounts[key]; {
	case n > 1:
		return model.OriginSourceData
	case n == 1 && mapped > 1:
		return model.OriginMappingIntroduced
	default:
		return model.OriginUnknown
	}
}
