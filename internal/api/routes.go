package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/clipsheet/clipsheet-agent/internal/config"
)

func NewRouter(cfg ServerConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware())
	r.Use(RecoveryMiddleware(cfg.Logger))
	r.Use(LoggingMiddleware(cfg.Logger))

	r.Get("/health", healthHandler(cfg))

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(cfg.Repository, cfg.Logger))

		r.Post("/projects", uploadProjectHandler(cfg))
		r.Get("/projects", listProjectsHandler(cfg))
		r.Get("/projects/{id}/sequences", listSequencesHandler(cfg))
		r.Post("/projects/{id}/extract", extractHandler(cfg))
		r.Get("/projects/{id}/export.csv", exportCSVHandler(cfg))
		r.Delete("/projects/{id}", deleteProjectHandler(cfg))
		r.Get("/extractions", listExtractionsHandler(cfg))
	})

	return r
}

func healthHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uptime := int64(time.Since(cfg.StartTime).Seconds())
		WriteJSON(w, http.StatusOK, HealthResponse{
			Status:  "ok",
			Version: config.Version,
			UptimeS: uptime,
		})
	}
}

func listExtractionsHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 50
		if v := r.URL.Query().Get("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 500 {
				limit = n
			}
		}

		extractions, err := cfg.Repository.ListExtractions(r.Context(), limit)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "failed to list extractions", "INTERNAL_ERROR")
			return
		}

		resp := ExtractionsResponse{Extractions: make([]ExtractionResponse, len(extractions))}
		for i, e := range extractions {
			resp.Extractions[i] = ExtractionToResponse(e)
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}
