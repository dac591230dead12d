// Package server отдает статус узла через небольшой локальный HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"github.com/iudanet/peernote/internal/server/handlers"
	"github.com/iudanet/peernote/internal/server/middleware"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// Deps - компоненты узла, из которых читает status API
type Deps struct {
	Version   string
	Peers     handlers.PeerSource
	Nickname  handlers.NicknameFunc
	Targets   handlers.TargetsFunc
	Document  handlers.DocumentSource
	Recoverer handlers.Recoverer
	// History равен nil, если бэкенд хранит единственный бэкап
	History handlers.HistorySource
}

// Server - HTTP сервер статуса
type Server struct {
	addr   string
	logger *slog.Logger
	http   *http.Server

	mu       sync.Mutex
	listener net.Listener
}

// New создает роутер и сервер для addr
func New(addr string, deps Deps, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "status")

	return &Server{
		addr:   addr,
		logger: logger,
		http: &http.Server{
			Handler:           NewRouter(deps, logger),
			ReadHeaderTimeout: readHeaderTimeout,
		},
	}
}

// NewRouter регистрирует все маршруты статуса
func NewRouter(deps Deps, logger *slog.Logger) http.Handler {
	health := handlers.NewHealthHandler(logger, deps.Version)
	peers := handlers.NewPeersHandler(logger, deps.Peers, deps.Nickname, deps.Targets)
	doc := handlers.NewDocumentHandler(logger, deps.Document, deps.Recoverer)

	r := mux.NewRouter()
	r.Use(middleware.RecoveryMiddleware(logger))
	r.Use(middleware.LoggingWithSkip(logger, []string{"/api/v1/health"}))

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Methods(http.MethodGet).Path("/health").HandlerFunc(health.Health)
	api.Methods(http.MethodGet).Path("/peers").HandlerFunc(peers.List)
	api.Methods(http.MethodGet).Path("/document").HandlerFunc(doc.Document)
	api.Methods(http.MethodPost).Path("/recover").HandlerFunc(doc.Recover)
	if deps.History != nil {
		backups := handlers.NewBackupsHandler(logger, deps.History)
		api.Methods(http.MethodGet).Path("/backups").HandlerFunc(backups.List)
	}

	return r
}

// Start открывает addr и обслуживает запросы в фоне до отмены ctx
func (s *Server) Start(ctx context.Context) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen status %s: %w", s.addr, err)
	}

	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.http.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn("status server shutdown failed", "error", err)
		}
	}()

	go func() {
		if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("status server failed", "error", err)
		}
	}()

	s.logger.Info("status endpoint listening", "addr", ln.Addr().String())
	return nil
}

// Addr возвращает адрес листенера, nil до Start
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}
