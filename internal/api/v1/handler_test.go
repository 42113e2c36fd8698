package v1

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"crosscheck/internal/config"
	"crosscheck/internal/exporter"
	"crosscheck/internal/importer"
	"crosscheck/internal/store"
)

const testTaxonomy = `{
  "taxonomy": "us-gaap-2024",
  "roles": {
    "http://example.com/role/BalanceSheet": {
      "definition": "Statement of Financial Position",
      "concepts": ["us-gaap:Assets"]
    }
  }
}`

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// testRouter stands up the API against a temp store and one filing named
// "acme" under the filings dir.
func testRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tmp := t.TempDir()
	st, err := store.New(filepath.Join(tmp, "crosscheck.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	filingsDir := filepath.Join(tmp, "filings")
	filing := filepath.Join(filingsDir, "acme")
	write(t, filepath.Join(filing, "taxonomy.json"), testTaxonomy)
	write(t, filepath.Join(filing, "mapper_a", "balance_sheet.json"),
		`[{"concept": "us-gaap:Assets", "value": "100", "context_ref": "i-1"}]`)
	write(t, filepath.Join(filing, "mapper_b", "balance_sheet.json"),
		`[{"concept": "us-gaap:Assets", "value": "100", "context_ref": "i-1"}]`)

	coordinator := importer.NewCoordinator(config.DefaultConfig(), st, zap.NewNop())
	handler := NewHandler(st, coordinator, exporter.NewExporter(), filingsDir)

	router := gin.New()
	handler.RegisterRoutes(router.Group("/api/v1"))
	return router
}

func do(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestStatusEndpoint(t *testing.T) {
	t.Parallel()

	w := do(testRouter(t), http.MethodGet, "/api/v1/status", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestReconcileAndFetchRun(t *testing.T) {
	t.Parallel()

	router := testRouter(t)

	w := do(router, http.MethodPost, "/api/v1/reconcile", `{"filing_id": "acme"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var result struct {
		Run struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		} `json:"run"`
		Overall struct {
			TotalConcepts int `json:"total_concepts"`
			CorrectBoth   int `json:"correct_both"`
		} `json:"overall"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	require.NotEmpty(t, result.Run.ID)
	assert.Equal(t, "done", result.Run.Status)
	assert.Equal(t, 1, result.Overall.TotalConcepts)
	assert.Equal(t, 1, result.Overall.CorrectBoth)

	w = do(router, http.MethodGet, "/api/v1/runs/"+result.Run.ID, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(router, http.MethodGet, "/api/v1/runs/"+result.Run.ID+"/statistics", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(router, http.MethodGet, "/api/v1/runs", "")
	require.Equal(t, http.StatusOK, w.Code)
	var listed struct {
		Runs []json.RawMessage `json:"runs"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	assert.Len(t, listed.Runs, 1)
}

func TestReconcileValidation(t *testing.T) {
	t.Parallel()

	router := testRouter(t)

	w := do(router, http.MethodPost, "/api/v1/reconcile", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Filing id that resolves to a directory without inputs.
	w = do(router, http.MethodPost, "/api/v1/reconcile", `{"filing_id": "missing"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestGetRunNotFound(t *testing.T) {
	t.Parallel()

	w := do(testRouter(t), http.MethodGet, "/api/v1/runs/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDiscrepancyStatementValidation(t *testing.T) {
	t.Parallel()

	router := testRouter(t)
	w := do(router, http.MethodGet, "/api/v1/runs/x/discrepancies?statement=bogus", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExportRun(t *testing.T) {
	t.Parallel()

	router := testRouter(t)

	w := do(router, http.MethodPost, "/api/v1/reconcile", `{"filing_id": "acme"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var result struct {
		Run struct {
			ID string `json:"id"`
		} `json:"run"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))

	w = do(router, http.MethodGet, "/api/v1/runs/"+result.Run.ID+"/export", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "spreadsheetml")
	assert.NotZero(t, w.Body.Len())

	// Results from another process are not exportable.
	w = do(router, http.MethodGet, "/api/v1/runs/some-other-run/export", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
