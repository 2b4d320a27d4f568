package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"autoapply/internal/bridge"
	"autoapply/internal/coordinator"
	"autoapply/internal/domain"
	"autoapply/internal/session"
)

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	p, err := s.coord.Profile(r.Context())
	if err != nil {
		s.logger.Error("failed to read profile", zap.Error(err))
		s.respondWithError(w, http.StatusInternalServerError, "Could not read profile")
		return
	}
	if p == nil {
		s.respondWithError(w, http.StatusNotFound, "No profile stored")
		return
	}
	s.respondWithJSON(w, http.StatusOK, p)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var p domain.UserProfile
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		s.respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.coord.UpdateProfile(r.Context(), p); err != nil {
		s.logger.Error("failed to update profile", zap.Error(err))
		s.respondWithError(w, http.StatusInternalServerError, "Could not store profile")
		return
	}
	s.respondWithJSON(w, http.StatusOK, map[string]string{"message": "Profile updated"})
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	st, err := s.coord.Settings(r.Context())
	if err != nil {
		s.logger.Error("failed to read settings", zap.Error(err))
		s.respondWithError(w, http.StatusInternalServerError, "Could not read settings")
		return
	}
	s.respondWithJSON(w, http.StatusOK, st)
}

func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var patch domain.SettingsPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		s.respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	st, err := s.coord.UpdateSettings(r.Context(), patch)
	if err != nil {
		s.logger.Error("failed to update settings", zap.Error(err))
		s.respondWithError(w, http.StatusInternalServerError, "Could not store settings")
		return
	}
	s.respondWithJSON(w, http.StatusOK, st)
}

func (s *Server) handleEligibility(w http.ResponseWriter, r *http.Request) {
	state, settings, err := s.coord.GateState(r.Context())
	if err != nil {
		s.logger.Error("failed to compute eligibility", zap.Error(err))
		s.respondWithError(w, http.StatusInternalServerError, "Could not compute eligibility")
		return
	}
	s.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"state":             state,
		"canAutoApply":      settings.AutoApplyEnabled && settings.ApplicationsToday < settings.DailyApplicationLimit,
		"applicationsToday": settings.ApplicationsToday,
		"dailyLimit":        settings.DailyApplicationLimit,
	})
}

func (s *Server) handleListApplications(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	recs, err := s.coord.Applications(r.Context(), limit)
	if err != nil {
		s.logger.Error("failed to list applications", zap.Error(err))
		s.respondWithError(w, http.StatusInternalServerError, "Could not list applications")
		return
	}
	if recs == nil {
		recs = []domain.ApplicationRecord{}
	}
	s.respondWithJSON(w, http.StatusOK, recs)
}

type fillRequest struct {
	URL   string `json:"url"`
	Field string `json:"field,omitempty"`
	Save  bool   `json:"save,omitempty"`
}

func (s *Server) handleFill(w http.ResponseWriter, r *http.Request) {
	var req fillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if _, err := url.ParseRequestURI(req.URL); err != nil {
		s.respondWithError(w, http.StatusBadRequest, "Invalid URL: "+req.URL)
		return
	}

	outcome, err := s.sessions.FillOnce(r.Context(), req.URL, req.Field, req.Save)
	switch {
	case errors.Is(err, session.ErrUnsupportedSite):
		s.respondWithError(w, http.StatusUnprocessableEntity, "Unsupported job site")
	case errors.Is(err, session.ErrNoApplicationForm):
		s.respondWithError(w, http.StatusUnprocessableEntity, "No application form detected")
	case errors.Is(err, coordinator.ErrNoProfile):
		s.respondWithError(w, http.StatusConflict, "No profile stored")
	case err != nil:
		s.logger.Error("fill failed", zap.String("url", req.URL), zap.Error(err))
		s.metrics.IncErrorsTotal("fill_failed")
		s.respondWithError(w, http.StatusInternalServerError, "Fill failed")
	default:
		s.respondWithJSON(w, http.StatusOK, outcome)
	}
}

func (s *Server) handleOpenSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if _, err := url.ParseRequestURI(req.URL); err != nil {
		s.respondWithError(w, http.StatusBadRequest, "Invalid URL: "+req.URL)
		return
	}
	id, err := s.sessions.Watch(r.Context(), req.URL)
	if errors.Is(err, session.ErrUnsupportedSite) {
		s.respondWithError(w, http.StatusUnprocessableEntity, "Unsupported job site")
		return
	}
	if err != nil {
		s.logger.Error("failed to open session", zap.String("url", req.URL), zap.Error(err))
		s.respondWithError(w, http.StatusInternalServerError, "Could not open session")
		return
	}
	s.respondWithJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Server) handleCloseSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.sessions.Close(id); err != nil {
		s.respondWithError(w, http.StatusNotFound, "Session not found")
		return
	}
	s.respondWithJSON(w, http.StatusOK, map[string]string{"message": "Session closed"})
}

// handleMessage exposes the raw bridge vocabulary so the companion web app
// can speak the same message kinds the in-page overlay does. The response is
// always a correlated bridge envelope, success flag included, even when the
// underlying handler fails.
func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	var req bridge.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	resp := bridge.Dispatch(r.Context(), s.coord, req)
	s.respondWithJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	healthStatus := make(map[string]string)

	if s.pgStore != nil {
		if err := s.pgStore.Ping(ctx); err != nil {
			healthStatus["postgres"] = "unhealthy"
			s.logger.Error("health check failed for postgres", zap.Error(err))
		} else {
			healthStatus["postgres"] = "healthy"
		}
	} else {
		healthStatus["postgres"] = "disabled"
	}

	if s.redisStore != nil {
		if err := s.redisStore.Ping(ctx); err != nil {
			healthStatus["redis"] = "unhealthy"
			s.logger.Error("health check failed for redis", zap.Error(err))
		} else {
			healthStatus["redis"] = "healthy"
		}
	} else {
		healthStatus["redis"] = "disabled"
	}

	if healthStatus["redis"] == "unhealthy" || healthStatus["postgres"] == "unhealthy" {
		s.respondWithJSON(w, http.StatusServiceUnavailable, healthStatus)
		return
	}
	s.respondWithJSON(w, http.StatusOK, healthStatus)
}

// --- Helper Functions ---

func (s *Server) respondWithError(w http.ResponseWriter, code int, message string) {
	s.respondWithJSON(w, code, map[string]string{"error": message})
}

func (s *Server) respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
