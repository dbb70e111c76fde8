package fanout

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/time/rate"

	"tgnotify/pkg/tgnotify"
)

// Sender is the slice of the notification client fan-out needs.
// *tgnotify.Client satisfies it.
type Sender interface {
	SendText(ctx context.Context, text string, to ...tgnotify.ChatID) error
}

// Config bounds a fan-out run. The zero value means 4 workers, no pacing.
type Config struct {
	// Workers is the number of concurrent senders.
	Workers int
	// RatePerSec paces sends globally across workers. 0 disables pacing.
	RatePerSec int
}

// Failure records one chat that could not be reached.
type Failure struct {
	ChatID tgnotify.ChatID
	Err    error
}

const defaultWorkers = 4

// Send delivers text to every chat and returns the per-chat failures.
// A nil return means every chat was reached. Context cancellation stops
// the run; chats not yet attempted are reported as failed with ctx.Err().
// log may be nil.
func Send(ctx context.Context, s Sender, cfg Config, log *slog.Logger, text string, chats []tgnotify.ChatID) []Failure {
	if len(chats) == 0 {
		return nil
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}
	if workers > len(chats) {
		workers = len(chats)
	}
	var limiter *rate.Limiter
	if cfg.RatePerSec > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSec), 1)
	}

	queue := make(chan tgnotify.ChatID)
	var (
		mu       sync.Mutex
		failures []Failure
	)
	fail := func(chat tgnotify.ChatID, err error) {
		mu.Lock()
		failures = append(failures, Failure{ChatID: chat, Err: err})
		mu.Unlock()
	}

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for chat := range queue {
				if limiter != nil {
					if err := limiter.Wait(ctx); err != nil {
						fail(chat, err)
						continue
					}
				}
				if err := s.SendText(ctx, text, chat); err != nil {
					if log != nil {
						log.Warn("fanout send failed", slog.String("chat_id", string(chat)), slog.Any("err", err))
					}
					fail(chat, err)
					continue
				}
				if log != nil {
					log.Debug("fanout send delivered", slog.String("chat_id", string(chat)))
				}
			}
		}()
	}

feed:
	for _, chat := range chats {
		select {
		case <-ctx.Done():
			fail(chat, ctx.Err())
			continue feed
		case queue <- chat:
		}
	}
	close(queue)
	wg.Wait()

	if log != nil && len(failures) > 0 {
		log.Warn("fanout finished with failures", slog.Int("total", len(chats)), slog.Int("failed", len(failures)))
	}
	return failures
}
