/*
Package chat contains the core logic of the chat server.

This file defines the Server, the TCP acceptor. It binds the configured
address, reserves a unique handle for every accepted connection, and spawns
an independent session per connection. Accept errors are fatal to the
process; session errors never are.
*/
package chat

import (
	"context"
	"fmt"
	"net"
	"sync"

	"github.com/rs/zerolog"

	"parley/internal/app/stats"
	"parley/internal/configs"
	"parley/internal/pkg/logx"
	"parley/internal/pkg/randx"
)

// Server accepts chat connections and owns the process-wide registries.
type Server struct {
	cfg     *configs.AppConfig
	names   *Names
	rooms   *Rooms
	metrics *stats.Metrics

	mu    sync.Mutex
	addr  net.Addr
	conns map[net.Conn]struct{}
	wg    sync.WaitGroup

	logger zerolog.Logger
}

// NewServer wires a server with fresh registries.
func NewServer(cfg *configs.AppConfig, metrics *stats.Metrics) *Server {
	return &Server{
		cfg:     cfg,
		names:   NewNames(),
		rooms:   NewRooms(metrics),
		metrics: metrics,
		conns:   make(map[net.Conn]struct{}, 32),
		logger:  logx.Logger().With().Str("component", "Server").Logger(),
	}
}

// ListenAndServe binds the configured address and accepts connections until
// the context is canceled. A bind or accept failure is returned to the
// caller, which treats it as fatal.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr())
	if err != nil {
		return fmt.Errorf("bind %s: %w", s.cfg.Addr(), err)
	}

	stop := context.AfterFunc(ctx, func() {
		_ = ln.Close()
	})
	defer stop()

	s.mu.Lock()
	s.addr = ln.Addr()
	s.mu.Unlock()

	s.logger.Info().Str("addr", ln.Addr().String()).Msg("Listening.")

	gen := randx.NewNameGenerator()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("accept: %w", err)
		}

		name := s.names.ReserveUnique(gen)
		s.metrics.SessionsTotal.Inc()
		s.logger.Debug().
			Str("remote_addr", conn.RemoteAddr().String()).
			Str("handle", name).
			Msg("Connection accepted.")

		s.track(conn)
		session := NewSession(conn, name, s.names, s.rooms, s.metrics)

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer s.forget(conn)
			session.Run()
		}()
	}
}

// Shutdown closes every live connection and waits for the sessions to finish
// their cleanup.
func (s *Server) Shutdown() {
	s.logger.Info().Msg("Shutting down sessions...")

	s.mu.Lock()
	for conn := range s.conns {
		_ = conn.Close()
	}
	s.mu.Unlock()

	s.wg.Wait()

	s.logger.Info().Msg("All sessions finished.")
}

// Snapshot produces the document served on the internal stats endpoint.
func (s *Server) Snapshot() stats.Snapshot {
	return stats.Snapshot{
		Sessions: s.names.Len(),
		Rooms:    s.rooms.Stats(),
	}
}

// Addr returns the bound listener address, or nil before the listener is up.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.addr
}

// Rooms exposes the directory, used by tests and the stats wiring.
func (s *Server) Rooms() *Rooms {
	return s.rooms
}

// Names exposes the handle registry, used by tests.
func (s *Server) Names() *Names {
	return s.names
}

func (s *Server) track(conn net.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.conns[conn] = struct{}{}
}

func (s *Server) forget(conn net.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.conns, conn)
}
