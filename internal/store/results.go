package store

import (
	"github.com/cockroachdb/errors"

	"crosscheck/internal/model"
)

// SaveResult persists one run's statistics, discrepancies, and duplicate
// groups in a single transaction. Accepted facts are not persisted; they are
// returned to the caller and exported, not queried later.
func (s *Store) SaveResult(result *model.RunResult) error {
	tx, err := s.db.Begin()
	if err != nil {
		return errors.Wrap(err, "begin transaction")
	}
	defer tx.Rollback()

	for _, sr := range result.Statements {
		if _, err := tx.Exec(`
			INSERT INTO statement_stats (
				run_id, statement, total_concepts, correct_both, correct_a_only,
				correct_b_only, correct_neither, not_in_taxonomy, facts_a, facts_b
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, result.Run.ID, string(sr.Statement), sr.Stats.TotalConcepts, sr.Stats.CorrectBoth,
			sr.Stats.CorrectAOnly, sr.Stats.CorrectBOnly, sr.Stats.CorrectNeither,
			sr.Stats.NotInTaxonomy, sr.Stats.FactsA, sr.Stats.FactsB); err != nil {
			return errors.Wrap(err, "insert statement stats")
		}

		for _, d := range sr.Discrepancies {
			if _, err := tx.Exec(`
				INSERT INTO discrepancies (
					run_id, statement, concept, expected_statement, actual_statement,
					in_mapper_a, in_mapper_b, reason
				) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			`, result.Run.ID, string(sr.Statement), d.Concept, string(d.ExpectedStatement),
				string(d.ActualStatement), d.InMapperA, d.InMapperB, d.Reason); err != nil {
				return errors.Wrap(err, "insert discrepancy")
			}
		}
	}

	for _, report := range result.Duplicates {
		for _, g := range report.Groups {
			if _, err := tx.Exec(`
				INSERT INTO duplicate_groups (
					run_id, source, concept, context, value_count, unique_values,
					variance_ratio, severity, origin, non_numeric
				) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			`, result.Run.ID, string(report.Source), g.Concept, g.Context, len(g.Values),
				g.UniqueValues, g.VarianceRatio, string(g.Severity), string(g.Origin),
				g.NonNumeric); err != nil {
				return errors.Wrap(err, "insert duplicate group")
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "commit result")
	}
	return nil
}

// GetStatistics loads the per-statement statistics for a run.
func (s *Store) GetStatistics(runID string) (map[model.StatementType]model.Statistics, error) {
	rows, err := s.db.Query(`
		SELECT statement, total_concepts, correct_both, correct_a_only, correct_b_only,
		       correct_neither, not_in_taxonomy, facts_a, facts_b
		FROM statement_stats WHERE run_id = ?
	`, runID)
	if err != nil {
		return nil, errors.Wrap(err, "query statement stats")
	}
	defer rows.Close()

	out := make(map[model.StatementType]model.Statistics)
	for rows.Next() {
		var stmt string
		var st model.Statistics
		if err := rows.Scan(&stmt, &st.TotalConcepts, &st.CorrectBoth, &st.CorrectAOnly,
			&st.CorrectBOnly, &st.CorrectNeither, &st.NotInTaxonomy, &st.FactsA, &st.FactsB); err != nil {
			return nil, errors.Wrap(err, "scan statement stats")
		}
		out[model.StatementType(stmt)] = st
	}
	return out, rows.Err()
}

// ListDiscrepancies loads a run's discrepancies, optionally filtered by
// statement (empty means all).
func (s *Store) ListDiscrepancies(runID string, statement model.StatementType) ([]model.Discrepancy, error) {
	query := `
		SELECT concept, expected_statement, actual_statement, in_mapper_a, in_mapper_b, reason
		FROM discrepancies WHERE run_id = ?`
	args := []any{runID}
	if statement != model.StatementUnknown {
		query += ` AND statement = ?`
		args = append(args, string(statement))
	}
	query += ` ORDER BY concept`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query discrepancies")
	}
	defer rows.Close()

	var out []model.Discrepancy
	for rows.Next() {
		var d model.Discrepancy
		var expected, actual string
		if err := rows.Scan(&d.Concept, &expected, &actual, &d.InMapperA, &d.InMapperB, &d.Reason); err != nil {
			return nil, errors.Wrap(err, "scan discrepancy")
		}
		d.ExpectedStatement = model.StatementType(expected)
		d.ActualStatement = model.StatementType(actual)
		out = append(out, d)
	}
	return out, rows.Err()
}

// ListDuplicateGroups loads a run's duplicate groups across both mappers.
func (s *Store) ListDuplicateGroups(runID string) (map[model.Source][]model.DuplicateGroup, error) {
	rows, err := s.db.Query(`
		SELECT source, concept, context, unique_values, variance_ratio, severity, origin, non_numeric
		FROM duplicate_groups WHERE run_id = ? ORDER BY source, concept, context
	`, runID)
	if err != nil {
		return nil, errors.Wrap(err, "query duplicate groups")
	}
	defer rows.Close()

	out := make(map[model.Source][]model.DuplicateGroup)
	for rows.Next() {
		var source, severity, origin string
		var g model.DuplicateGroup
		if err := rows.Scan(&source, &g.Concept, &g.Context, &g.UniqueValues,
			&g.VarianceRatio, &severity, &origin, &g.NonNumeric); err != nil {
			return nil, errors.Wrap(err, "scan duplicate group")
		}
		g.Severity = model.Severity(severity)
		g.Origin = model.Origin(origin)
		out[model.Source(source)] = append(out[model.Source(source)], g)
	}
	return out, rows.Err()
}
