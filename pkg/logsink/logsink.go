// Package logsink forwards log output to a Telegram chat.
//
// The sink plugs into zerolog as a LevelWriter: lines at or above a minimum
// level are queued and delivered through a notification client by one
// background worker, paced by a rate limiter. The queue is bounded and
// lossy; when logging outruns delivery, lines are dropped and counted
// rather than blocking the caller.
package logsink

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"tgnotify/pkg/tgnotify"
)

// Sender is the slice of the notification client the sink needs.
// *tgnotify.Client satisfies it.
type Sender interface {
	SendMessage(ctx context.Context, msg tgnotify.Message, to ...tgnotify.ChatID) error
}

// Config tunes the sink. The zero value means: warn and above, one message
// per second, queue of 256 lines.
type Config struct {
	// MinLevel is the lowest forwarded level ("debug", "info", "warn", ...).
	MinLevel string
	// RatePerSec paces outbound messages.
	RatePerSec int
	// QueueSize bounds the in-flight line buffer.
	QueueSize int
}

// Writer is a zerolog LevelWriter delivering to Telegram.
type Writer struct {
	sender   Sender
	minLevel zerolog.Level
	limiter  *rate.Limiter

	queue   chan string
	dropped atomic.Uint64
	closed  atomic.Bool

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// New starts the sink's delivery worker. Callers own the Sender and must
// Close the Writer before closing the underlying client.
func New(s Sender, cfg Config) *Writer {
	minLevel := zerolog.WarnLevel
	if cfg.MinLevel != "" {
		if lvl, err := zerolog.ParseLevel(strings.ToLower(cfg.MinLevel)); err == nil {
			minLevel = lvl
		}
	}
	perSec := cfg.RatePerSec
	if perSec <= 0 {
		perSec = 1
	}
	size := cfg.QueueSize
	if size <= 0 {
		size = 256
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &Writer{
		sender:   s,
		minLevel: minLevel,
		limiter:  rate.NewLimiter(rate.Limit(perSec), 1),
		queue:    make(chan string, size),
		cancel:   cancel,
	}
	w.wg.Add(1)
	go w.run(ctx)
	return w
}

// Write forwards a line unconditionally (no level information available).
func (w *Writer) Write(p []byte) (int, error) {
	w.enqueue(p)
	return len(p), nil
}

// WriteLevel forwards a line when its level clears the configured minimum.
// It never blocks the logging caller.
func (w *Writer) WriteLevel(level zerolog.Level, p []byte) (int, error) {
	if level >= w.minLevel {
		w.enqueue(p)
	}
	return len(p), nil
}

func (w *Writer) enqueue(p []byte) {
	line := strings.TrimRight(string(p), "\n")
	if line == "" {
		return
	}
	if w.closed.Load() {
		w.dropped.Add(1)
		return
	}
	select {
	case w.queue <- line:
	default:
		w.dropped.Add(1)
	}
}

// Dropped reports lines discarded because the queue was full or delivery
// failed.
func (w *Writer) Dropped() uint64 { return w.dropped.Load() }

// Close stops the delivery worker. Lines written afterwards are counted as
// dropped. Close is idempotent.
func (w *Writer) Close() {
	w.closeOnce.Do(func() {
		w.closed.Store(true)
		w.cancel()
		w.wg.Wait()
		// Count queued-but-undelivered lines as dropped.
		for {
			select {
			case <-w.queue:
				w.dropped.Add(1)
			default:
				return
			}
		}
	})
}

func (w *Writer) run(ctx context.Context) {
	defer w.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case line := <-w.queue:
			if err := w.limiter.Wait(ctx); err != nil {
				w.dropped.Add(1)
				return
			}
			// Log lines carry JSON and arbitrary error text; send them
			// unformatted so Telegram never rejects the markup.
			if err := w.sender.SendMessage(ctx, tgnotify.Message{Text: line, ParseMode: tgnotify.ModePlain, Silent: true}); err != nil {
				w.dropped.Add(1)
			}
		}
	}
}
