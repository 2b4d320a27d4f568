package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(120 * time.Second))

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	r.Get("/api/health", s.handleHealthCheck)

	r.Route("/api", func(r chi.Router) {
		r.Get("/profile", s.handleGetProfile)
		r.Put("/profile", s.handleUpdateProfile)
		r.Get("/settings", s.handleGetSettings)
		r.Put("/settings", s.handleUpdateSettings)
		r.Get("/eligibility", s.handleEligibility)
		r.Get("/applications", s.handleListApplications)
		r.Post("/fill", s.handleFill)
		r.Post("/sessions", s.handleOpenSession)
		r.Delete("/sessions/{id}", s.handleCloseSession)
		r.Post("/messages", s.handleMessage)
	})

	return r
}
