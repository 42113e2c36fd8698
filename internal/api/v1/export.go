package v1

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ExportRun streams the run's workbook. Only runs from this process are
// exportable: accepted facts live in memory, not in the store.
func (h *Handler) ExportRun(c *gin.Context) {
	runID := c.Param("id")
	result, ok := h.cachedResult(runID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "run result no longer available for export; re-run the filing"})
		return
	}

	f, err := h.exporter.Export(result)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer f.Close()

	filename := fmt.Sprintf("crosscheck-%s.xlsx", result.Run.FilingID)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := f.Write(c.Writer); err != nil {
		// Headers are gone; nothing to do but log via gin's error list.
		_ = c.Error(err)
	}
}
