/*
Package main is the entry point for the parley chat server.

It is responsible for loading configuration, initializing the global logging
system, starting the TCP acceptor and the optional internal stats server, and
gracefully handling operating system interrupt signals (SIGINT, SIGTERM) to
ensure a smooth shutdown.
*/
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"parley/internal/app/chat"
	"parley/internal/app/stats"
	"parley/internal/configs"
	"parley/internal/pkg/logx"
)

func main() {
	// Load configuration from flags and environment variables
	cfg, err := configs.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	logx.InitGlobalLogger(cfg.IsDevelopment())
	logx.Logger().Info().
		Str("environment", cfg.Environment).
		Str("addr", cfg.Addr()).
		Str("stats_addr", cfg.StatsAddr).
		Msg("Configuration loaded successfully")

	// Create a context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics := stats.NewMetrics()
	server := chat.NewServer(cfg, metrics)

	// Optional internal stats endpoint
	if cfg.StatsAddr != "" {
		statsServer := stats.NewServer(cfg.StatsAddr, metrics, server.Snapshot)
		go statsServer.Run(ctx)
	}

	if err := server.ListenAndServe(ctx); err != nil {
		logx.Fatal(err, "Server failed")
	}

	logx.Info("Received shutdown signal. Starting graceful shutdown...")
	server.Shutdown()

	logx.Info("Server gracefully stopped.")
}
