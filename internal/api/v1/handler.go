package v1

import (
	"sync"

	"github.com/gin-gonic/gin"

	"crosscheck/internal/exporter"
	"crosscheck/internal/importer"
	"crosscheck/internal/model"
	"crosscheck/internal/store"
)

// Handler serves the v1 reconciliation API.
type Handler struct {
	store       *store.Store
	coordinator *importer.Coordinator
	exporter    *exporter.Exporter
	filingsDir  string

	// Full results (with accepted facts) are kept in memory for export;
	// the store only persists statistics, discrepancies, and duplicates.
	mu      sync.RWMutex
	results map[string]*model.RunResult
}

// NewHandler creates the v1 API handler.
func NewHandler(st *store.Store, coordinator *importer.Coordinator, exp *exporter.Exporter, filingsDir string) *Handler {
	return &Handler{
		store:       st,
		coordinator: coordinator,
		exporter:    exp,
		filingsDir:  filingsDir,
		results:     make(map[string]*model.RunResult),
	}
}

// RegisterRoutes mounts the v1 routes.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/status", h.GetStatus)

	router.POST("/reconcile", h.Reconcile)

	router.GET("/runs", h.ListRuns)
	router.GET("/runs/:id", h.GetRun)
	router.GET("/runs/:id/statistics", h.GetStatistics)
	router.GET("/runs/:id/discrepancies", h.ListDiscrepancies)
	router.GET("/runs/:id/duplicates", h.ListDuplicates)
	router.GET("/runs/:id/export", h.ExportRun)
}

func (h *Handler) cacheResult(result *model.RunResult) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.results[result.Run.ID] = result
}

func (h *Handler) cachedResult(runID string) (*model.RunResult, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	result, ok := h.results[runID]
	return result, ok
}
