/*
Package main is a stress client for the parley chat server.

It launches a swarm of scripted bots that connect over TCP, spread across
rooms, send rate-limited random chat messages, and quit, then prints an
aggregate traffic report.
*/
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"parley/internal/pkg/logx"
)

func main() {
	cfg, err := parseConfig(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		os.Exit(1)
	}

	logx.InitGlobalLogger(true)

	runID := uuid.New().String()
	logger := logx.Logger().With().
		Str("component", "Stress").
		Str("run_id", runID).
		Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info().
		Str("addr", cfg.Addr).
		Int("bots", cfg.Bots).
		Int("msgs", cfg.Msgs).
		Float64("rate", cfg.Rate).
		Strs("rooms", cfg.Rooms).
		Msg("Starting stress run.")

	start := time.Now()
	results := make(chan Stats, cfg.Bots)

	for i := 0; i < cfg.Bots; i++ {
		room := ""
		if len(cfg.Rooms) > 0 {
			room = cfg.Rooms[i%len(cfg.Rooms)]
		}

		botLogger := logger.With().Int("bot", i).Logger()

		go func() {
			limiter := rate.NewLimiter(rate.Limit(cfg.Rate), cfg.Burst)

			bot, err := newBot(cfg.Addr, room, cfg.Msgs, limiter, botLogger)
			if err != nil {
				botLogger.Error().Err(err).Msg("Bot failed to connect.")
				results <- Stats{}
				return
			}

			stats, err := bot.chat(ctx)
			if err != nil && ctx.Err() == nil {
				botLogger.Warn().Err(err).Msg("Bot ended early.")
			}
			results <- stats
		}()
	}

	var total Stats
	for i := 0; i < cfg.Bots; i++ {
		stats := <-results
		total.add(stats)
	}

	report := buildReport(runID, cfg, total, time.Since(start))
	report.log(logger)

	if cfg.ReportJSON != "" {
		if err := report.writeJSON(cfg.ReportJSON); err != nil {
			logger.Error().Err(err).Str("path", cfg.ReportJSON).Msg("Failed to write JSON report.")
			os.Exit(1)
		}
	}
}
