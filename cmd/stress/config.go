package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
)

// Config holds the stress run parameters.
type Config struct {
	Addr string

	Bots int
	Msgs int

	// Rate is the per-bot send rate in messages per second; Burst is the
	// token bucket size.
	Rate  float64
	Burst int

	// Rooms is the set of rooms the bots spread across. Bots assigned the
	// empty string stay in main.
	Rooms []string

	// ReportJSON is an optional path to write the aggregate report to.
	ReportJSON string
}

func parseConfig(args []string) (Config, error) {
	cfg := Config{}

	fs := flag.NewFlagSet("stress", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	fs.StringVar(&cfg.Addr, "addr", "127.0.0.1:42069", "Chat server address")
	fs.IntVar(&cfg.Bots, "bots", 10, "Number of concurrent bots")
	fs.IntVar(&cfg.Msgs, "msgs", 100, "Messages each bot sends before quitting")
	fs.Float64Var(&cfg.Rate, "rate", 5, "Per-bot send rate in messages per second")
	fs.IntVar(&cfg.Burst, "burst", 2, "Per-bot send burst size")
	roomsFlag := fs.String("rooms", "", "Comma-separated rooms to spread bots across (empty keeps all bots in main)")
	fs.StringVar(&cfg.ReportJSON, "report-json", "", "Optional path to write a JSON report")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if *roomsFlag != "" {
		for _, room := range strings.Split(*roomsFlag, ",") {
			if trimmed := strings.TrimSpace(room); trimmed != "" {
				cfg.Rooms = append(cfg.Rooms, trimmed)
			}
		}
	}

	if cfg.Bots < 1 {
		return Config{}, fmt.Errorf("bots must be at least 1, got %d", cfg.Bots)
	}
	if cfg.Msgs < 1 {
		return Config{}, fmt.Errorf("msgs must be at least 1, got %d", cfg.Msgs)
	}
	if cfg.Rate <= 0 {
		return Config{}, fmt.Errorf("rate must be positive, got %v", cfg.Rate)
	}
	if cfg.Burst < 1 {
		return Config{}, fmt.Errorf("burst must be at least 1, got %d", cfg.Burst)
	}

	return cfg, nil
}
