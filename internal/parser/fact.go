package parser

import (
	"bytes"
	"encoding/json"
	"os"
	"strconv"

	"github.com/cockroachdb/errors"

	"crosscheck/internal/config"
	"crosscheck/internal/model"
)

// FactExtractor pulls canonical fact fields out of loosely-named mapper
// records using ordered alias lists. The first alias present with a non-empty
// value wins; the lists are configuration, not code.
type FactExtractor struct {
	aliases config.AliasConfig
}

// NewFactExtractor creates an extractor with the given alias tables.
func NewFactExtractor(aliases config.AliasConfig) *FactExtractor {
	return &FactExtractor{aliases: aliases}
}

// Extract builds a Fact from one raw record. A record without a resolvable
// concept id or value is unusable and reported as not ok; a missing context
// is kept as empty (single-context statements omit it).
func (e *FactExtractor) Extract(record map[string]any, source model.Source) (model.Fact, bool) {
	rawConcept, ok := pickString(record, e.aliases.Concept)
	if !ok {
		return model.Fact{}, false
	}
	concept, ok := NormalizeConcept(rawConcept)
	if !ok {
		return model.Fact{}, false
	}

	value, ok := pickString(record, e.aliases.Value)
	if !ok {
		return model.Fact{}, false
	}

	context, _ := pickString(record, e.aliases.Context)
	unit, _ := pickString(record, e.aliases.Unit)
	decimals, _ := pickString(record, e.aliases.Decimals)

	return model.Fact{
		Concept:  concept,
		Context:  context,
		Value:    value,
		Unit:     unit,
		Decimals: decimals,
		Source:   source,
	}, true
}

// ExtractAll converts a batch of raw records, returning the facts and the
// number of records skipped for missing concept/value.
func (e *FactExtractor) ExtractAll(records []map[string]any, source model.Source) ([]model.Fact, int) {
	facts := make([]model.Fact, 0, len(records))
	skipped := 0
	for _, rec := range records {
		fact, ok := e.Extract(rec, source)
		if !ok {
			skipped++
			continue
		}
		facts = append(facts, fact)
	}
	return facts, skipped
}

// LoadFacts reads a mapper statement file: either a bare JSON array of fact
// records or an object with a "facts" array. Numbers are decoded as
// json.Number so values keep their exact source text.
func LoadFacts(path string, source model.Source, e *FactExtractor) ([]model.Fact, int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, errors.Wrapf(err, "read fact file %s", path)
	}

	records, err := decodeFactRecords(data)
	if err != nil {
		return nil, 0, errors.Wrapf(err, "decode fact file %s", path)
	}

	facts, skipped := e.ExtractAll(records, source)
	return facts, skipped, nil
}

func decodeFactRecords(data []byte) ([]map[string]any, error) {
	var records []map[string]any
	if err := decodeUseNumber(data, &records); err == nil {
		return records, nil
	}

	var wrapped struct {
		Facts []map[string]any `json:"facts"`
	}
	if err := decodeUseNumber(data, &wrapped); err != nil {
		return nil, err
	}
	if wrapped.Facts == nil {
		return nil, errors.New("no fact array found")
	}
	return wrapped.Facts, nil
}

func decodeUseNumber(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(v)
}

// pickString returns the first alias present in the record with a non-empty
// stringable value.
func pickString(record map[string]any, aliases []string) (string, bool) {
	for _, alias := range aliases {
		v, ok := record[alias]
		if !ok || v == nil {
			continue
		}
		s, ok := stringify(v)
		if !ok || s == "" {
			continue
		}
		return s, true
	}
	return "", false
}

func stringify(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case int:
		return strconv.Itoa(t), true
	case bool:
		return strconv.FormatBool(t), true
	}
	return "", false
}
