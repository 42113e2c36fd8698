package importer

import (
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"crosscheck/internal/config"
	"crosscheck/internal/duplicate"
	"crosscheck/internal/model"
	"crosscheck/internal/parser"
	"crosscheck/internal/reconcile"
	"crosscheck/internal/store"
	"crosscheck/internal/taxonomy"
)

// Coordinator orchestrates one filing end to end: load inputs, build the
// concept index, resolve extensions, reconcile each statement, run duplicate
// analysis per mapper, persist.
type Coordinator struct {
	cfg       *config.AppConfig
	store     *store.Store
	cache     *taxonomy.IndexCache
	extractor *parser.FactExtractor
	logger    *zap.Logger
}

// NewCoordinator creates a coordinator. store may be nil for runs that only
// report and export.
func NewCoordinator(cfg *config.AppConfig, st *store.Store, logger *zap.Logger) *Coordinator {
	return &Coordinator{
		cfg:       cfg,
		store:     st,
		cache:     taxonomy.NewIndexCache(),
		extractor: parser.NewFactExtractor(cfg.Reconcile.Aliases),
		logger:    logger,
	}
}

// RunOptions selects the filing to process.
type RunOptions struct {
	FilingDir  string
	OnProgress func(ProgressEvent)
}

// ProgressEvent reports coordinator progress to an observer (CLI printer,
// streaming handler).
type ProgressEvent struct {
	Type      string    `json:"type"` // start/statement/duplicates/done/error
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// Run processes one filing directory and returns the full result. Errors are
// typed with the filing id so batch callers can skip and continue.
func (c *Coordinator) Run(opts RunOptions) (*model.RunResult, error) {
	inputs, err := DiscoverFiling(opts.FilingDir)
	if err != nil {
		return nil, err
	}
	c.progress(opts, "start", "processing filing "+inputs.FilingID)

	tax, err := parser.LoadTaxonomy(inputs.TaxonomyPath)
	if err != nil {
		return nil, filingErr(inputs.FilingID, err)
	}
	indexKey := tax.Name
	if indexKey == "" {
		indexKey = inputs.TaxonomyPath
	}
	index := c.cache.GetOrBuild(indexKey, func() *taxonomy.ConceptIndex {
		return taxonomy.BuildIndex(indexKey, tax.Elements, tax.Roles, c.cfg.Reconcile.Keywords, c.logger)
	})

	var extensions []model.ExtensionConcept
	if inputs.ExtensionPath != "" {
		extensions, err = parser.LoadExtensions(inputs.ExtensionPath)
		if err != nil {
			return nil, filingErr(inputs.FilingID, err)
		}
	}
	resolver := taxonomy.NewResolver(c.cfg.Reconcile.MaxChainDepth, c.logger)
	resolutions := resolver.Resolve(extensions, index)

	factsA, allA, err := c.loadMapper(inputs.MapperA, model.SourceMapperA, inputs.FilingID)
	if err != nil {
		return nil, err
	}
	factsB, allB, err := c.loadMapper(inputs.MapperB, model.SourceMapperB, inputs.FilingID)
	if err != nil {
		return nil, err
	}

	var sourceFacts []model.Fact
	if inputs.SourcePath != "" {
		sourceFacts, _, err = parser.LoadFacts(inputs.SourcePath, model.SourcePremap, c.extractor)
		if err != nil {
			return nil, filingErr(inputs.FilingID, err)
		}
	}

	run := model.Run{
		ID:        uuid.NewString(),
		FilingID:  inputs.FilingID,
		Taxonomy:  indexKey,
		Status:    "running",
		StartedAt: time.Now(),
	}
	if c.store != nil {
		if err := c.store.CreateRun(run); err != nil {
			return nil, filingErr(inputs.FilingID, err)
		}
	}

	reconciler := reconcile.New(index, resolutions, c.cfg.Reconcile, c.logger)
	statements, overall := reconciler.ReconcileAll(factsA, factsB)
	c.progress(opts, "statement", "statements reconciled")

	analyzer := duplicate.NewAnalyzer(c.cfg.Duplicate, c.logger)
	duplicates := []*model.DuplicateReport{
		analyzer.Detect(allA, sourceFacts, model.SourceMapperA),
		analyzer.Detect(allB, sourceFacts, model.SourceMapperB),
	}
	c.progress(opts, "duplicates", "duplicate analysis complete")

	result := &model.RunResult{
		Run:        run,
		Statements: statements,
		Overall:    overall,
		Extensions: taxonomy.Summarize(extensions, resolutions),
		Duplicates: duplicates,
	}

	if c.store != nil {
		if err := c.store.SaveResult(result); err != nil {
			_ = c.store.FinishRun(run.ID, "failed", err.Error(), time.Now())
			return nil, filingErr(inputs.FilingID, err)
		}
		result.Run.Status = "done"
		result.Run.CompletedAt = time.Now()
		if err := c.store.FinishRun(run.ID, "done", "", result.Run.CompletedAt); err != nil {
			return nil, filingErr(inputs.FilingID, err)
		}
	} else {
		result.Run.Status = "done"
		result.Run.CompletedAt = time.Now()
	}

	c.progress(opts, "done", "filing "+inputs.FilingID+" complete")
	return result, nil
}

// loadMapper reads one mapper's statement files, returning facts grouped by
// statement plus the flat list for duplicate analysis.
func (c *Coordinator) loadMapper(paths map[model.StatementType]string, source model.Source, filingID string) (map[model.StatementType][]model.Fact, []model.Fact, error) {
	byStatement := make(map[model.StatementType][]model.Fact, len(paths))
	var all []model.Fact
	for stmt, path := range paths {
		facts, skipped, err := parser.LoadFacts(path, source, c.extractor)
		if err != nil {
			return nil, nil, filingErr(filingID, err)
		}
		if skipped > 0 {
			c.logger.Warn("skipped unusable fact records",
				zap.String("filing", filingID),
				zap.String("file", path),
				zap.Int("skipped", skipped))
		}
		byStatement[stmt] = facts
		all = append(all, facts...)
	}
	return byStatement, all, nil
}

// BatchItem is the outcome of one filing inside a batch run.
type BatchItem struct {
	FilingID string
	Result   *model.RunResult
	Err      error
}

// RunBatch processes every filing subdirectory under root. One filing's
// failure never stops the batch.
func (c *Coordinator) RunBatch(root string, onProgress func(ProgressEvent)) ([]BatchItem, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, errors.Wrapf(err, "read batch directory %s", root)
	}

	var dirs []string
	for _, entry := range entries {
		if entry.IsDir() {
			dirs = append(dirs, entry.Name())
		}
	}
	sort.Strings(dirs)

	items := make([]BatchItem, 0, len(dirs))
	for _, name := range dirs {
		result, err := c.Run(RunOptions{
			FilingDir:  filepath.Join(root, name),
			OnProgress: onProgress,
		})
		item := BatchItem{FilingID: name, Result: result, Err: err}
		if err != nil {
			c.logger.Warn("filing skipped", zap.String("filing", name), zap.Error(err))
		}
		items = append(items, item)
	}
	return items, nil
}

func (c *Coordinator) progress(opts RunOptions, typ, msg string) {
	if opts.OnProgress == nil {
		return
	}
	opts.OnProgress(ProgressEvent{Type: typ, Message: msg, Timestamp: time.Now()})
}
