package parser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crosscheck/internal/config"
	"crosscheck/internal/model"
)

func testAliases() config.AliasConfig {
	return config.DefaultConfig().Reconcile.Aliases
}

func TestExtractAliasPriority(t *testing.T) {
	t.Parallel()

	e := NewFactExtractor(testAliases())

	// concept_qname outranks qname when both are present.
	fact, ok := e.Extract(map[string]any{
		"concept_qname": "us-gaap:Assets",
		"qname":         "us-gaap:Liabilities",
		"fact_value":    "100",
		"context_ref":   "c-1",
		"unit_ref":      "USD",
	}, model.SourceMapperA)
	require.True(t, ok)
	assert.Equal(t, "us-gaap:Assets", fact.Concept.String())
	assert.Equal(t, "100", fact.Value)
	assert.Equal(t, "c-1", fact.Context)
	assert.Equal(t, "USD", fact.Unit)
	assert.Equal(t, model.SourceMapperA, fact.Source)
}

func TestExtractFallbackAliases(t *testing.T) {
	t.Parallel()

	e := NewFactExtractor(testAliases())

	fact, ok := e.Extract(map[string]any{
		"concept":    "us-gaap-2024:Revenues",
		"value":      "250",
		"contextRef": "d-2024",
		"unit":       "USD",
	}, model.SourceMapperB)
	require.True(t, ok)
	assert.Equal(t, "us-gaap:Revenues", fact.Concept.String())
	assert.Equal(t, "250", fact.Value)
	assert.Equal(t, "d-2024", fact.Context)
}

func TestExtractRejectsUnusableRecords(t *testing.T) {
	t.Parallel()

	e := NewFactExtractor(testAliases())

	_, ok := e.Extract(map[string]any{"fact_value": "1"}, model.SourceMapperA)
	assert.False(t, ok, "record without concept id")

	_, ok = e.Extract(map[string]any{"concept_qname": "us-gaap:Assets"}, model.SourceMapperA)
	assert.False(t, ok, "record without value")
}

func TestLoadFactsKeepsExactNumberText(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "facts.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
		{"concept_qname": "us-gaap:NetIncomeLoss", "fact_value": -2104701000, "context_ref": "d-1"},
		{"concept_qname": "us-gaap:Assets", "fact_value": "352755000000", "context_ref": "i-1"}
	]`), 0644))

	facts, skipped, err := LoadFacts(path, model.SourceMapperA, NewFactExtractor(testAliases()))
	require.NoError(t, err)
	assert.Zero(t, skipped)
	require.Len(t, facts, 2)
	assert.Equal(t, "-2104701000", facts[0].Value)
	assert.Equal(t, "352755000000", facts[1].Value)
}

func TestLoadFactsWrappedObject(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "facts.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"facts": [
		{"qname": "us-gaap:Assets", "value": "1", "context": "i-1"},
		{"no_concept_here": true}
	]}`), 0644))

	facts, skipped, err := LoadFacts(path, model.SourceMapperB, NewFactExtractor(testAliases()))
	require.NoError(t, err)
	assert.Equal(t, 1, skipped)
	require.Len(t, facts, 1)
	assert.Equal(t, "us-gaap:Assets", facts[0].Concept.String())
}

func TestLoadFactsMissingFile(t *testing.T) {
	t.Parallel()

	_, _, err := LoadFacts(filepath.Join(t.TempDir(), "absent.json"), model.SourceMapperA, NewFactExtractor(testAliases()))
	assert.Error(t, err)
}
