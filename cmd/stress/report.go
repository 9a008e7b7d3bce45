package main

import (
	"encoding/json"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Report is the aggregate outcome of one stress run.
type Report struct {
	RunID      string  `json:"run_id"`
	Addr       string  `json:"addr"`
	Bots       int     `json:"bots"`
	MsgsPerBot int     `json:"msgs_per_bot"`
	Elapsed    string  `json:"elapsed"`
	Totals     Stats   `json:"totals"`
	SentPerSec float64 `json:"sent_per_sec"`
	GotPerSec  float64 `json:"got_per_sec"`
}

func buildReport(runID string, cfg Config, totals Stats, elapsed time.Duration) Report {
	secs := elapsed.Seconds()
	if secs <= 0 {
		secs = 1
	}

	return Report{
		RunID:      runID,
		Addr:       cfg.Addr,
		Bots:       cfg.Bots,
		MsgsPerBot: cfg.Msgs,
		Elapsed:    elapsed.Round(time.Millisecond).String(),
		Totals:     totals,
		SentPerSec: float64(totals.SentMsgs) / secs,
		GotPerSec:  float64(totals.GotMsgs) / secs,
	}
}

func (r Report) log(logger zerolog.Logger) {
	logger.Info().
		Str("elapsed", r.Elapsed).
		Int("sent_msgs", r.Totals.SentMsgs).
		Int64("sent_bytes", r.Totals.SentBytes).
		Int("got_msgs", r.Totals.GotMsgs).
		Int64("got_bytes", r.Totals.GotBytes).
		Float64("sent_per_sec", r.SentPerSec).
		Float64("got_per_sec", r.GotPerSec).
		Msg("Stress run complete.")
}

func (r Report) writeJSON(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, append(data, '\n'), 0o644)
}
