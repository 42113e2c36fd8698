package importer

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"

	"crosscheck/internal/model"
)

// ErrMissingInput marks a filing that cannot be processed at all: no
// taxonomy table or no fact list for a mapper. Batch runners skip the filing
// and continue.
var ErrMissingInput = errors.New("missing required input")

// FilingError carries the filing id (and offending concept, when known) so a
// batch runner can report which filing to skip.
type FilingError struct {
	FilingID string
	Concept  string
	Err      error
}

func (e *FilingError) Error() string {
	msg := "filing " + e.FilingID
	if e.Concept != "" {
		msg += " concept " + e.Concept
	}
	return msg + ": " + e.Err.Error()
}

func (e *FilingError) Unwrap() error {
	return e.Err
}

func filingErr(filingID string, err error) error {
	return &FilingError{FilingID: filingID, Err: err}
}

// FilingInputs are the resolved file paths for one filing directory.
// ExtensionPath and SourcePath are optional; MapperA/MapperB hold one fact
// file per statement.
type FilingInputs struct {
	FilingID      string
	TaxonomyPath  string
	ExtensionPath string
	MapperA       map[model.StatementType]string
	MapperB       map[model.StatementType]string
	SourcePath    string
}

var statementFileNames = map[model.StatementType]string{
	model.StatementBalanceSheet:    "balance_sheet.json",
	model.StatementIncomeStatement: "income_statement.json",
	model.StatementCashFlow:        "cash_flow.json",
}

// DiscoverFiling resolves the fixed file layout of a filing directory:
// taxonomy.json, optional extensions.json and source_facts.json, and
// per-statement fact files under mapper_a/ and mapper_b/. A missing taxonomy
// or a mapper with no statement files at all is a hard error.
func DiscoverFiling(dir string) (FilingInputs, error) {
	filingID := filepath.Base(dir)
	inputs := FilingInputs{
		FilingID:     filingID,
		TaxonomyPath: filepath.Join(dir, "taxonomy.json"),
	}

	if !fileExists(inputs.TaxonomyPath) {
		return inputs, filingErr(filingID, errors.Wrap(ErrMissingInput, "taxonomy.json"))
	}

	if p := filepath.Join(dir, "extensions.json"); fileExists(p) {
		inputs.ExtensionPath = p
	}
	if p := filepath.Join(dir, "source_facts.json"); fileExists(p) {
		inputs.SourcePath = p
	}

	var err error
	inputs.MapperA, err = discoverMapper(dir, "mapper_a", filingID)
	if err != nil {
		return inputs, err
	}
	inputs.MapperB, err = discoverMapper(dir, "mapper_b", filingID)
	if err != nil {
		return inputs, err
	}

	return inputs, nil
}

func discoverMapper(dir, mapper, filingID string) (map[model.StatementType]string, error) {
	out := make(map[model.StatementType]string)
	for stmt, name := range statementFileNames {
		p := filepath.Join(dir, mapper, name)
		if fileExists(p) {
			out[stmt] = p
		}
	}
	if len(out) == 0 {
		return nil, filingErr(filingID, errors.Wrapf(ErrMissingInput, "no statement files under %s", mapper))
	}
	return out, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
