package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"crosscheck/internal/config"
	"crosscheck/internal/exporter"
	"crosscheck/internal/importer"
	"crosscheck/internal/model"
	"crosscheck/internal/store"
)

var (
	runBatch   bool
	runExport  string
	runNoStore bool
)

var runCmd = &cobra.Command{
	Use:   "run <filing-dir>",
	Short: "Reconcile one filing directory (or a directory of filings with --batch)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var st *store.Store
		if !runNoStore {
			dataDir, err := config.EnsureDataDir(cfg)
			if err != nil {
				return err
			}
			st, err = store.New(filepath.Join(dataDir, "crosscheck.db"))
			if err != nil {
				return err
			}
			defer st.Close()
		}

		coordinator := importer.NewCoordinator(cfg, st, logger)
		progress := func(ev importer.ProgressEvent) {
			fmt.Printf("  [%s] %s\n", ev.Type, ev.Message)
		}

		if runBatch {
			items, err := coordinator.RunBatch(args[0], progress)
			if err != nil {
				return err
			}
			failed := 0
			for _, item := range items {
				if item.Err != nil {
					failed++
					fmt.Fprintf(os.Stderr, "skipped %s: %v\n", item.FilingID, item.Err)
					continue
				}
				printSummary(item.Result)
				if err := exportResult(item.Result); err != nil {
					return err
				}
			}
			fmt.Printf("%d filings processed, %d skipped\n", len(items)-failed, failed)
			return nil
		}

		result, err := coordinator.Run(importer.RunOptions{FilingDir: args[0], OnProgress: progress})
		if err != nil {
			return err
		}
		printSummary(result)
		return exportResult(result)
	},
}

func init() {
	runCmd.Flags().BoolVar(&runBatch, "batch", false, "treat the argument as a directory of filing directories")
	runCmd.Flags().StringVar(&runExport, "export-dir", "", "write an xlsx workbook per filing into this directory")
	runCmd.Flags().BoolVar(&runNoStore, "no-store", false, "skip SQLite persistence")
}

func printSummary(result *model.RunResult) {
	fmt.Printf("\nfiling %s (run %s)\n", result.Run.FilingID, result.Run.ID)
	fmt.Printf("  %-18s %8s %6s %6s %6s %7s %7s\n",
		"statement", "concepts", "both", "A", "B", "neither", "unknown")
	for _, sr := range result.Statements {
		st := sr.Stats
		fmt.Printf("  %-18s %8d %6d %6d %6d %7d %7d\n",
			sr.Statement, st.TotalConcepts, st.CorrectBoth, st.CorrectAOnly,
			st.CorrectBOnly, st.CorrectNeither, st.NotInTaxonomy)
	}
	ov := result.Overall
	fmt.Printf("  %-18s %8d %6d %6d %6d %7d %7d\n",
		"overall", ov.TotalConcepts, ov.CorrectBoth, ov.CorrectAOnly,
		ov.CorrectBOnly, ov.CorrectNeither, ov.NotInTaxonomy)

	for _, report := range result.Duplicates {
		if report.TotalGroups == 0 {
			continue
		}
		fmt.Printf("  duplicates (%s): %d groups / %d facts", report.Source, report.TotalGroups, report.TotalDuplicateFacts)
		for _, sev := range []model.Severity{model.SeverityCritical, model.SeverityMajor, model.SeverityMinor, model.SeverityRedundant} {
			if n := report.SeverityCounts[sev]; n > 0 {
				fmt.Printf(" %s=%d", sev, n)
			}
		}
		fmt.Println()
	}
}

func exportResult(result *model.RunResult) error {
	if runExport == "" {
		return nil
	}
	if err := os.MkdirAll(runExport, 0755); err != nil {
		return err
	}
	f, err := exporter.NewExporter().Export(result)
	if err != nil {
		return err
	}
	defer f.Close()

	path := filepath.Join(runExport, fmt.Sprintf("crosscheck-%s.xlsx", result.Run.FilingID))
	if err := f.SaveAs(path); err != nil {
		return err
	}
	fmt.Printf("  workbook written to %s\n", path)
	return nil
}
