package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/danielhan/advisor/internal/api/handlers"
	"github.com/danielhan/advisor/internal/scheduler"
	"github.com/danielhan/advisor/internal/taxonomy"
	"github.com/danielhan/advisor/pkg/logger"
)

func newTestRouter(jobsHandler *handlers.JobsHandler) http.Handler {
	log := logger.NewNop()
	return NewRouter(
		&handlers.RecommendationHandler{},
		&handlers.InstrumentHandler{},
		handlers.NewTaxonomyHandler(taxonomy.Default(), log),
		jobsHandler,
		log,
	)
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestUnknownRouteReturns404(t *testing.T) {
	router := newTestRouter(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSectorsRouteWired(t *testing.T) {
	router := newTestRouter(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/taxonomy/sectors", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestJobsRouteAbsentWithoutScheduler(t *testing.T) {
	router := newTestRouter(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestJobsRouteWiredWithScheduler(t *testing.T) {
	log := logger.NewNop()
	router := newTestRouter(handlers.NewJobsHandler(scheduler.New(log), log))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
