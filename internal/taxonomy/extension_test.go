package taxonomy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"crosscheck/internal/model"
)

func balanceSheetIndex(t *testing.T) *ConceptIndex {
	t.Helper()
	roles := []model.Role{{
		URI:        "http://example.com/role/BalanceSheet",
		Definition: "Statement of Financial Position",
		Concepts:   []model.ConceptID{cid("us-gaap:Liabilities")},
	}}
	elements := []model.Element{
		{Concept: cid("us-gaap:Liabilities"), PeriodType: model.PeriodInstant, Balance: model.BalanceCredit},
		{Concept: cid("us-gaap:UnpresentedThing"), PeriodType: model.PeriodDuration},
	}
	return BuildIndex("t", elements, roles, defaultKeywords(), zap.NewNop())
}

func TestResolveDirectBase(t *testing.T) {
	t.Parallel()

	ix := balanceSheetIndex(t)
	r := NewResolver(0, zap.NewNop())

	exts := []model.ExtensionConcept{{
		Concept:           cid("aci:CustomLiability"),
		SubstitutionGroup: cid("us-gaap:Liabilities"),
	}}

	got := r.Resolve(exts, ix)
	res, ok := got[cid("aci:CustomLiability")]
	require.True(t, ok)
	assert.Equal(t, StatusValid, res.Status)
	assert.Equal(t, cid("us-gaap:Liabilities"), res.Base)
	assert.Equal(t, model.StatementBalanceSheet, res.Statement)
	assert.Equal(t, 1, res.Depth)
}

func TestResolveChainedExtensions(t *testing.T) {
	t.Parallel()

	ix := balanceSheetIndex(t)
	r := NewResolver(0, zap.NewNop())

	exts := []model.ExtensionConcept{
		{Concept: cid("aci:SpecificLiability"), SubstitutionGroup: cid("aci:GeneralLiability")},
		{Concept: cid("aci:GeneralLiability"), SubstitutionGroup: cid("us-gaap:Liabilities")},
	}

	got := r.Resolve(exts, ix)
	res := got[cid("aci:SpecificLiability")]
	assert.Equal(t, StatusValid, res.Status)
	assert.Equal(t, cid("us-gaap:Liabilities"), res.Base)
	assert.Equal(t, model.StatementBalanceSheet, res.Statement)
	assert.Equal(t, 2, res.Depth)
}

func TestResolveCycleTerminates(t *testing.T) {
	t.Parallel()

	ix := balanceSheetIndex(t)
	r := NewResolver(0, zap.NewNop())

	exts := []model.ExtensionConcept{
		{Concept: cid("aci:A"), SubstitutionGroup: cid("aci:B")},
		{Concept: cid("aci:B"), SubstitutionGroup: cid("aci:A")},
	}

	got := r.Resolve(exts, ix)
	for _, concept := range []string{"aci:A", "aci:B"} {
		res := got[cid(concept)]
		assert.Equal(t, StatusInvalid, res.Status, concept)
		assert.Equal(t, ReasonChainTooDeep, res.Reason, concept)
	}
}

func TestResolveDanglingPointer(t *testing.T) {
	t.Parallel()

	ix := balanceSheetIndex(t)
	r := NewResolver(0, zap.NewNop())

	exts := []model.ExtensionConcept{{
		Concept:           cid("aci:Orphan"),
		SubstitutionGroup: cid("us-gaap:DoesNotExist"),
	}}

	res := r.Resolve(exts, ix)[cid("aci:Orphan")]
	assert.Equal(t, StatusInvalid, res.Status)
	assert.Equal(t, ReasonBaseNotFound, res.Reason)
}

func TestResolveBaseDeclaredButUnpresented(t *testing.T) {
	t.Parallel()

	ix := balanceSheetIndex(t)
	r := NewResolver(0, zap.NewNop())

	exts := []model.ExtensionConcept{{
		Concept:           cid("aci:Floating"),
		SubstitutionGroup: cid("us-gaap:UnpresentedThing"),
	}}

	res := r.Resolve(exts, ix)[cid("aci:Floating")]
	assert.Equal(t, StatusInvalid, res.Status)
	assert.Equal(t, ReasonBaseUnplaced, res.Reason)
}

func TestResolveDepthBound(t *testing.T) {
	t.Parallel()

	ix := balanceSheetIndex(t)
	r := NewResolver(3, zap.NewNop())

	// A chain longer than the bound never reaches the base.
	exts := []model.ExtensionConcept{
		{Concept: cid("aci:L0"), SubstitutionGroup: cid("aci:L1")},
		{Concept: cid("aci:L1"), SubstitutionGroup: cid("aci:L2")},
		{Concept: cid("aci:L2"), SubstitutionGroup: cid("aci:L3")},
		{Concept: cid("aci:L3"), SubstitutionGroup: cid("us-gaap:Liabilities")},
	}

	res := r.Resolve(exts, ix)[cid("aci:L0")]
	assert.Equal(t, StatusInvalid, res.Status)
	assert.Equal(t, ReasonChainTooDeep, res.Reason)

	// A short chain still resolves under the same bound.
	res = r.Resolve(exts, ix)[cid("aci:L2")]
	assert.Equal(t, StatusValid, res.Status)
}

func TestResolveNoSubstitutionGroupIsUnmapped(t *testing.T) {
	t.Parallel()

	ix := balanceSheetIndex(t)
	r := NewResolver(0, zap.NewNop())

	exts := []model.ExtensionConcept{{Concept: cid("aci:Standalone")}}

	got := r.Resolve(exts, ix)
	_, ok := got[cid("aci:Standalone")]
	assert.False(t, ok, "no substitutionGroup means unmapped, not invalid")

	sum := Summarize(exts, got)
	assert.Equal(t, model.ExtensionSummary{Total: 1, Unmapped: 1}, sum)
}

func TestSummarizeCounts(t *testing.T) {
	t.Parallel()

	ix := balanceSheetIndex(t)
	r := NewResolver(0, zap.NewNop())

	exts := []model.ExtensionConcept{
		{Concept: cid("aci:Good"), SubstitutionGroup: cid("us-gaap:Liabilities")},
		{Concept: cid("aci:Bad"), SubstitutionGroup: cid("us-gaap:Nope")},
		{Concept: cid("aci:Plain")},
	}

	sum := Summarize(exts, r.Resolve(exts, ix))
	assert.Equal(t, model.ExtensionSummary{Total: 3, Valid: 1, Invalid: 1, Unmapped: 1}, sum)
}
