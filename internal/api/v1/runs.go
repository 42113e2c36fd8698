package v1

import (
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"

	"crosscheck/internal/importer"
	"crosscheck/internal/model"
	"crosscheck/internal/store"
)

// GetStatus reports service liveness and run counts.
func (h *Handler) GetStatus(c *gin.Context) {
	runs, err := h.store.ListRuns(1)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	status := gin.H{"status": "ok"}
	if len(runs) > 0 {
		status["last_run"] = runs[0]
	}
	c.JSON(http.StatusOK, status)
}

type reconcileRequest struct {
	// FilingDir is an absolute or relative path to a filing directory;
	// FilingID resolves relative to the configured filings dir instead.
	FilingDir string `json:"filing_dir"`
	FilingID  string `json:"filing_id"`
}

// Reconcile runs one filing synchronously and returns the full result.
func (h *Handler) Reconcile(c *gin.Context) {
	var req reconcileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	dir := req.FilingDir
	if dir == "" && req.FilingID != "" {
		dir = filepath.Join(h.filingsDir, req.FilingID)
	}
	if dir == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "filing_dir or filing_id required"})
		return
	}

	result, err := h.coordinator.Run(importer.RunOptions{FilingDir: dir})
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, importer.ErrMissingInput) {
			status = http.StatusUnprocessableEntity
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	h.cacheResult(result)
	c.JSON(http.StatusOK, result)
}

// ListRuns returns recent runs, newest first.
func (h *Handler) ListRuns(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	runs, err := h.store.ListRuns(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if runs == nil {
		runs = []model.Run{}
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs})
}

// GetRun returns one run's row plus its per-statement statistics.
func (h *Handler) GetRun(c *gin.Context) {
	id := c.Param("id")
	run, err := h.store.GetRun(id)
	if errors.Is(err, store.ErrRunNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	stats, err := h.store.GetStatistics(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"run": run, "statistics": stats})
}

// GetStatistics returns only the per-statement statistics for a run.
func (h *Handler) GetStatistics(c *gin.Context) {
	stats, err := h.store.GetStatistics(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"statistics": stats})
}

// ListDiscrepancies returns a run's discrepancies, optionally filtered by
// ?statement=.
func (h *Handler) ListDiscrepancies(c *gin.Context) {
	statement := model.StatementType(c.Query("statement"))
	if statement != model.StatementUnknown && !statement.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown statement type"})
		return
	}

	discrepancies, err := h.store.ListDiscrepancies(c.Param("id"), statement)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if discrepancies == nil {
		discrepancies = []model.Discrepancy{}
	}
	c.JSON(http.StatusOK, gin.H{"discrepancies": discrepancies})
}

// ListDuplicates returns a run's duplicate groups keyed by mapper.
func (h *Handler) ListDuplicates(c *gin.Context) {
	groups, err := h.store.ListDuplicateGroups(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"duplicates": groups})
}
