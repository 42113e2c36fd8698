package importer

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"crosscheck/internal/config"
	"crosscheck/internal/model"
	"crosscheck/internal/store"
)

const fixtureTaxonomy = `{
  "taxonomy": "us-gaap-2024",
  "elements": {
    "us-gaap-2024:Assets": {"period_type": "instant", "balance": "debit"},
    "us-gaap:Liabilities": {"period_type": "instant", "balance": "credit"},
    "us-gaap:Revenues": {"period_type": "duration", "balance": "credit"}
  },
  "roles": {
    "http://example.com/role/BalanceSheet": {
      "definition": "Statement of Financial Position",
      "concepts": ["us-gaap:Assets", "us-gaap:Liabilities"]
    },
    "http://example.com/role/Income": {
      "definition": "Consolidated Statements of Operations",
      "concepts": ["us-gaap:Revenues"]
    }
  }
}`

const fixtureExtensions = `{
  "prefix": "aci",
  "concepts": [
    {"name": "aci:CustomLiability", "substitution_group": "us-gaap:Liabilities"}
  ]
}`

// writeFixtureFiling lays out one complete filing directory. Mapper A carries a
// redundant Assets pair the source file reports only once.
func writeFixtureFiling(t *testing.T, root, filingID string) string {
	t.Helper()
	dir := filepath.Join(root, filingID)
	writeFile(t, filepath.Join(dir, "taxonomy.json"), fixtureTaxonomy)
	writeFile(t, filepath.Join(dir, "extensions.json"), fixtureExtensions)
	writeFile(t, filepath.Join(dir, "source_facts.json"), `[
	  {"concept": "us-gaap:Assets", "value": "100", "context_ref": "i-1"}
	]`)
	writeFile(t, filepath.Join(dir, "mapper_a", "balance_sheet.json"), `[
	  {"concept": "us-gaap:Assets", "value": "100", "context_ref": "i-1"},
	  {"concept": "us-gaap:Assets", "value": "100", "context_ref": "i-1"},
	  {"concept": "us-gaap:Liabilities", "value": "60", "context_ref": "i-1"},
	  {"concept": "aci:CustomLiability", "value": "40", "context_ref": "i-1"}
	]`)
	writeFile(t, filepath.Join(dir, "mapper_a", "income_statement.json"), `[
	  {"concept": "us-gaap:Revenues", "value": "500", "context_ref": "d-1"}
	]`)
	writeFile(t, filepath.Join(dir, "mapper_b", "balance_sheet.json"), `[
	  {"concept": "us-gaap:Assets", "value": "100", "context_ref": "i-1"}
	]`)
	return dir
}

func TestCoordinatorRun(t *testing.T) {
	t.Parallel()

	dir := writeFixtureFiling(t, t.TempDir(), "acme-10k-2024")
	c := NewCoordinator(config.DefaultConfig(), nil, zap.NewNop())

	var events []string
	result, err := c.Run(RunOptions{
		FilingDir:  dir,
		OnProgress: func(e ProgressEvent) { events = append(events, e.Type) },
	})
	require.NoError(t, err)

	assert.NotEmpty(t, result.Run.ID)
	assert.Equal(t, "acme-10k-2024", result.Run.FilingID)
	assert.Equal(t, "us-gaap-2024", result.Run.Taxonomy)
	assert.Equal(t, "done", result.Run.Status)
	assert.False(t, result.Run.CompletedAt.IsZero())

	// Balance sheet: Assets in both, Liabilities and the valid extension in A.
	bs := result.StatementResultFor(model.StatementBalanceSheet)
	require.NotNil(t, bs)
	assert.Equal(t, 3, bs.Stats.TotalConcepts)
	assert.Equal(t, 1, bs.Stats.CorrectBoth)
	assert.Equal(t, 2, bs.Stats.CorrectAOnly)
	assert.Empty(t, bs.Discrepancies)

	assert.Equal(t, 4, result.Overall.TotalConcepts)
	assert.Equal(t, 3, result.Overall.CorrectAOnly)

	assert.Equal(t, model.ExtensionSummary{Total: 1, Valid: 1}, result.Extensions)

	// The doubled Assets fact is mapper A's doing, not the source data's.
	require.Len(t, result.Duplicates, 2)
	reportA := result.Duplicates[0]
	assert.Equal(t, model.SourceMapperA, reportA.Source)
	require.Len(t, reportA.Groups, 1)
	assert.Equal(t, "us-gaap:Assets", reportA.Groups[0].Concept)
	assert.Equal(t, model.SeverityRedundant, reportA.Groups[0].Severity)
	assert.Equal(t, model.OriginMappingIntroduced, reportA.Groups[0].Origin)
	assert.Empty(t, result.Duplicates[1].Groups)

	assert.Equal(t, []string{"start", "statement", "duplicates", "done"}, events)
}

func TestCoordinatorRunPersists(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	st, err := store.New(filepath.Join(tmp, "crosscheck.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	dir := writeFixtureFiling(t, tmp, "acme-10k-2024")
	c := NewCoordinator(config.DefaultConfig(), st, zap.NewNop())

	result, err := c.Run(RunOptions{FilingDir: dir})
	require.NoError(t, err)

	run, err := st.GetRun(result.Run.ID)
	require.NoError(t, err)
	assert.Equal(t, "done", run.Status)

	stats, err := st.GetStatistics(result.Run.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, stats[model.StatementBalanceSheet].TotalConcepts)

	groups, err := st.ListDuplicateGroups(result.Run.ID)
	require.NoError(t, err)
	assert.Len(t, groups[model.SourceMapperA], 1)
}

func TestCoordinatorRunBatchSkipsBrokenFiling(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFixtureFiling(t, root, "good-filing")
	// Broken sibling: no taxonomy.
	writeFile(t, filepath.Join(root, "broken-filing", "mapper_a", "balance_sheet.json"), "[]")

	c := NewCoordinator(config.DefaultConfig(), nil, zap.NewNop())
	items, err := c.RunBatch(root, nil)
	require.NoError(t, err)
	require.Len(t, items, 2)

	// Sorted by directory name.
	assert.Equal(t, "broken-filing", items[0].FilingID)
	assert.ErrorIs(t, items[0].Err, ErrMissingInput)
	assert.Nil(t, items[0].Result)

	assert.Equal(t, "good-filing", items[1].FilingID)
	require.NoError(t, items[1].Err)
	assert.Equal(t, 4, items[1].Result.Overall.TotalConcepts)
}
