/*
Package stats provides the server's runtime counters and the optional internal
HTTP endpoint that exposes them.

This file defines the internal stats HTTP server. It is disabled unless a
listen address is configured and serves only operator-facing routes: a health
check, a JSON snapshot of the room directory, and the Prometheus metrics.
*/
package stats

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"parley/internal/pkg/logx"
)

// RoomStat describes one room in a directory snapshot.
type RoomStat struct {
	Name        string   `json:"name"`
	Subscribers int      `json:"subscribers"`
	Users       []string `json:"users"`
}

// Snapshot is the JSON document served on the stats endpoint.
type Snapshot struct {
	Sessions int        `json:"sessions"`
	Rooms    []RoomStat `json:"rooms"`
}

// SnapshotFunc produces a point-in-time Snapshot of the chat core.
type SnapshotFunc func() Snapshot

// Server is the internal stats HTTP server.
type Server struct {
	httpServer *http.Server
	logger     zerolog.Logger
}

// NewServer builds a stats server listening on addr, serving snapshots from
// the given function and metrics from the given bundle.
func NewServer(addr string, metrics *Metrics, snapshot SnapshotFunc) *Server {
	logger := logx.Logger().With().Str("component", "StatsServer").Logger()

	r := chi.NewRouter()

	c := cors.New(cors.Options{
		AllowedMethods: []string{http.MethodGet},
		MaxAge:         300,
	})
	r.Use(c.Handler)

	r.Use(middleware.RequestID)
	r.Use(logx.RequestLogger())
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	r.Get("/api/internal/stats", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")
		_ = json.NewEncoder(w).Encode(snapshot())
	})

	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(metrics.Registry(), promhttp.HandlerOpts{}))

	return &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      r,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  120 * time.Second,
		},
		logger: logger,
	}
}

// Run serves until the context is canceled, then shuts the listener down
// gracefully. The chat server does not depend on it; a stats failure only
// loses the operator endpoint.
func (s *Server) Run(ctx context.Context) {
	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error().Err(err).Msg("Stats server forced to shut down.")
		}
	}()

	s.logger.Info().Str("addr", s.httpServer.Addr).Msg("Stats server listening.")

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.logger.Error().Err(err).Msg("Stats server failed.")
	}
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}
