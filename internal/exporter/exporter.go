package exporter

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/xuri/excelize/v2"

	"crosscheck/internal/model"
)

// Exporter renders a run result as an xlsx workbook: a summary sheet,
// per-statement accepted-fact sheets, a discrepancy sheet, and a duplicate
// sheet.
type Exporter struct{}

// NewExporter creates a workbook exporter.
func NewExporter() *Exporter {
	return &Exporter{}
}

var statementSheetNames = map[model.StatementType]string{
	model.StatementBalanceSheet:    "Balance Sheet",
	model.StatementIncomeStatement: "Income Statement",
	model.StatementCashFlow:        "Cash Flow",
}

// Export builds the workbook for one run result. The caller owns the file
// and is responsible for closing it.
func (e *Exporter) Export(result *model.RunResult) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := e.writeSummary(f, result); err != nil {
		_ = f.Close()
		return nil, err
	}
	for _, sr := range result.Statements {
		if err := e.writeStatement(f, sr); err != nil {
			_ = f.Close()
			return nil, err
		}
	}
	if err := e.writeDiscrepancies(f, result); err != nil {
		_ = f.Close()
		return nil, err
	}
	if err := e.writeDuplicates(f, result); err != nil {
		_ = f.Close()
		return nil, err
	}

	f.SetActiveSheet(0)
	return f, nil
}

func (e *Exporter) writeSummary(f *excelize.File, result *model.RunResult) error {
	const sheet = "Summary"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return errors.Wrap(err, "rename summary sheet")
	}

	rows := [][]any{
		{"Run", result.Run.ID},
		{"Filing", result.Run.FilingID},
		{"Taxonomy", result.Run.Taxonomy},
		{"Started", result.Run.StartedAt.Format("2006-01-02 15:04:05")},
		{},
		{"Statement", "Concepts", "Correct Both", "Correct A Only", "Correct B Only",
			"Correct Neither", "Not In Taxonomy", "Facts A", "Facts B"},
	}
	for _, sr := range result.Statements {
		st := sr.Stats
		rows = append(rows, []any{string(sr.Statement), st.TotalConcepts, st.CorrectBoth,
			st.CorrectAOnly, st.CorrectBOnly, st.CorrectNeither, st.NotInTaxonomy,
			st.FactsA, st.FactsB})
	}
	ov := result.Overall
	rows = append(rows,
		[]any{"overall", ov.TotalConcepts, ov.CorrectBoth, ov.CorrectAOnly, ov.CorrectBOnly,
			ov.CorrectNeither, ov.NotInTaxonomy, ov.FactsA, ov.FactsB},
		[]any{},
		[]any{"Extensions", result.Extensions.Total},
		[]any{"  valid", result.Extensions.Valid},
		[]any{"  invalid", result.Extensions.Invalid},
		[]any{"  unmapped", result.Extensions.Unmapped},
	)

	if err := writeRows(f, sheet, rows); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "A", "A", 22)
}

func (e *Exporter) writeStatement(f *excelize.File, sr *model.StatementResult) error {
	sheet, ok := statementSheetNames[sr.Statement]
	if !ok {
		sheet = string(sr.Statement)
	}
	if _, err := f.NewSheet(sheet); err != nil {
		return errors.Wrapf(err, "create sheet %s", sheet)
	}

	rows := [][]any{{"Concept", "Value", "Context", "Unit", "Source"}}
	for _, af := range sr.Accepted {
		rows = append(rows, []any{af.Concept, af.Value, af.Context, af.Unit, string(af.SourceMapper)})
	}
	if err := writeRows(f, sheet, rows); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "A", "A", 48)
}

func (e *Exporter) writeDiscrepancies(f *excelize.File, result *model.RunResult) error {
	const sheet = "Discrepancies"
	if _, err := f.NewSheet(sheet); err != nil {
		return errors.Wrap(err, "create discrepancy sheet")
	}

	rows := [][]any{{"Concept", "Expected Statement", "Actual Statement", "In Mapper A", "In Mapper B", "Reason"}}
	for _, sr := range result.Statements {
		for _, d := range sr.Discrepancies {
			rows = append(rows, []any{d.Concept, string(d.ExpectedStatement), string(d.ActualStatement),
				d.InMapperA, d.InMapperB, d.Reason})
		}
	}
	if err := writeRows(f, sheet, rows); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "A", "A", 48)
}

func (e *Exporter) writeDuplicates(f *excelize.File, result *model.RunResult) error {
	const sheet = "Duplicates"
	if _, err := f.NewSheet(sheet); err != nil {
		return errors.Wrap(err, "create duplicate sheet")
	}

	rows := [][]any{{"Mapper", "Concept", "Context", "Values", "Unique", "Variance", "Severity", "Origin"}}
	for _, report := range result.Duplicates {
		for _, g := range report.Groups {
			rows = append(rows, []any{string(report.Source), g.Concept, g.Context,
				len(g.Values), g.UniqueValues, g.VarianceRatio, string(g.Severity), string(g.Origin)})
		}
	}
	if err := writeRows(f, sheet, rows); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "B", "B", 48)
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell := fmt.Sprintf("A%d", i+1)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return errors.Wrapf(err, "write row %d on %s", i+1, sheet)
		}
	}
	return nil
}
