package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/danielhan/advisor/internal/api/handlers"
	"github.com/danielhan/advisor/pkg/logger"
)

// NewRouter creates and configures the HTTP router. jobsHandler is nil
// when the scheduler is disabled; its routes are then not registered.
func NewRouter(recHandler *handlers.RecommendationHandler, instHandler *handlers.InstrumentHandler, taxHandler *handlers.TaxonomyHandler, jobsHandler *handlers.JobsHandler, log *logger.Logger) http.Handler {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", healthCheckHandler).Methods("GET")

	// API v1
	api := r.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/recommendations", recHandler.Recommend).Methods("POST")
	api.HandleFunc("/instruments/{symbol}", instHandler.GetInstrument).Methods("GET")
	api.HandleFunc("/taxonomy/sectors", taxHandler.GetSectors).Methods("GET")

	if jobsHandler != nil {
		api.HandleFunc("/jobs", jobsHandler.ListJobs).Methods("GET")
		api.HandleFunc("/jobs/{name}/run", jobsHandler.RunJob).Methods("POST")
	}

	// Apply middleware
	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	return r
}

// healthCheckHandler returns server health status
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"service": "advisor-api",
	})
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			next.ServeHTTP(w, r)

			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"duration": time.Since(start),
			}).Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from panics
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("Panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"error": "Internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
