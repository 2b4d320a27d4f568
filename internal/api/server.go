package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"autoapply/internal/config"
	"autoapply/internal/coordinator"
	"autoapply/internal/monitoring"
	"autoapply/internal/session"
	"autoapply/internal/storage"
)

// Server holds the dependencies for the HTTP server.
type Server struct {
	config     *config.Config
	router     http.Handler
	httpServer *http.Server
	coord      *coordinator.Coordinator
	sessions   *session.Manager
	pgStore    *storage.PostgresStore
	redisStore *storage.RedisStore
	metrics    *monitoring.Metrics
	logger     *zap.Logger
}

func NewServer(cfg *config.Config, coord *coordinator.Coordinator, sm *session.Manager, ps *storage.PostgresStore, rs *storage.RedisStore, m *monitoring.Metrics, l *zap.Logger) *Server {
	s := &Server{
		config:     cfg,
		coord:      coord,
		sessions:   sm,
		pgStore:    ps,
		redisStore: rs,
		metrics:    m,
		logger:     l,
	}
	s.router = s.setupRouter()
	return s
}

func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%s", s.config.ServerPort),
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 120 * time.Second, // fills drive a real browser
	}
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
