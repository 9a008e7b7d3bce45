package main

import (
	"context"
	"net"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"parley/internal/pkg/lineproto"
	"parley/internal/pkg/randx"
)

// botReadMax bounds inbound lines generously; the server never sends frames
// anywhere near this long.
const botReadMax = 4096

// Stats counts one bot's traffic.
type Stats struct {
	SentMsgs  int   `json:"sent_msgs"`
	SentBytes int64 `json:"sent_bytes"`
	GotMsgs   int   `json:"got_msgs"`
	GotBytes  int64 `json:"got_bytes"`
}

func (s *Stats) add(rhs Stats) {
	s.SentMsgs += rhs.SentMsgs
	s.SentBytes += rhs.SentBytes
	s.GotMsgs += rhs.GotMsgs
	s.GotBytes += rhs.GotBytes
}

// Bot is one scripted chat client: it connects, optionally joins a room,
// sends rate-limited random sentences, and quits.
type Bot struct {
	conn    net.Conn
	reader  *lineproto.Reader
	writer  *lineproto.Writer
	limiter *rate.Limiter

	room string
	msgs int

	stats Stats

	logger zerolog.Logger
}

func newBot(addr, room string, msgs int, limiter *rate.Limiter, logger zerolog.Logger) (*Bot, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, err
	}

	return &Bot{
		conn:    conn,
		reader:  lineproto.NewReader(conn, botReadMax),
		writer:  lineproto.NewWriter(conn, botReadMax),
		limiter: limiter,
		room:    room,
		msgs:    msgs,
		logger:  logger,
	}, nil
}

// chat runs the bot to completion and returns its traffic counters.
func (b *Bot) chat(ctx context.Context) (Stats, error) {
	defer b.conn.Close()

	// Count inbound traffic until the connection is closed.
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			line, err := b.reader.ReadLine()
			if err != nil {
				return
			}
			b.stats.GotMsgs++
			b.stats.GotBytes += int64(len(line)) + 1
		}
	}()

	if b.room != "" {
		if err := b.send(ctx, "/join "+b.room); err != nil {
			return b.finish(&wg), err
		}
	}

	for i := 0; i < b.msgs; i++ {
		if err := b.send(ctx, randx.Sentence()); err != nil {
			return b.finish(&wg), err
		}
	}

	err := b.send(ctx, "/quit")
	return b.finish(&wg), err
}

func (b *Bot) send(ctx context.Context, msg string) error {
	if err := b.limiter.Wait(ctx); err != nil {
		return err
	}

	if err := b.writer.WriteLine(msg); err != nil {
		return err
	}

	b.stats.SentMsgs++
	b.stats.SentBytes += int64(len(msg)) + 1
	return nil
}

// finish closes the connection so the read goroutine unblocks, waits for it,
// and returns the final counters.
func (b *Bot) finish(wg *sync.WaitGroup) Stats {
	_ = b.conn.Close()
	wg.Wait()
	return b.stats
}
