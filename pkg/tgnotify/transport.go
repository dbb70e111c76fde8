package tgnotify

import (
	"errors"
	"net/http"
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"
)

// sender is the slice of the underlying bot API the client needs.
// The production implementation wraps *tele.Bot; tests substitute a stub.
type sender interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
	Close()
}

type telebotSender struct {
	bot  *tele.Bot
	http *http.Client
}

func newSender(cfg Config) (sender, error) {
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: time.Minute}
	}
	bot, err := tele.NewBot(tele.Settings{
		Token:  cfg.Token,
		URL:    cfg.APIEndpoint,
		Client: client,
		// Send-only client: no poller, and no getMe probe at construction.
		// Credentials are exercised by the first send.
		Offline: true,
	})
	if err != nil {
		return nil, err
	}
	return &telebotSender{bot: bot, http: client}, nil
}

func (t *telebotSender) Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error) {
	return t.bot.Send(to, what, opts...)
}

func (t *telebotSender) Close() {
	t.http.CloseIdleConnections()
}

// mapSendError translates an underlying transport failure into the package
// error taxonomy. Exactly four categories exist: chat not found, bot
// blocked/kicked, flood control, and everything else.
func mapSendError(op string, chat ChatID, err error) error {
	if err == nil {
		return nil
	}

	var flood tele.FloodError
	if errors.As(err, &flood) {
		return &RateLimitError{ChatID: chat, RetryAfter: time.Duration(flood.RetryAfter) * time.Second}
	}
	if errors.Is(err, tele.ErrChatNotFound) {
		return &ChatNotFoundError{ChatID: chat}
	}
	for _, blocked := range []error{
		tele.ErrBlockedByUser,
		tele.ErrKickedFromGroup,
		tele.ErrKickedFromSuperGroup,
		tele.ErrKickedFromChannel,
		tele.ErrNotStartedByUser,
	} {
		if errors.Is(err, blocked) {
			return &BlockedError{ChatID: chat}
		}
	}

	// Self-hosted Bot API servers word some failures differently, so fall
	// back to matching the description.
	desc := strings.ToLower(err.Error())
	switch {
	case strings.Contains(desc, "chat not found"):
		return &ChatNotFoundError{ChatID: chat}
	case strings.Contains(desc, "bot was blocked"), strings.Contains(desc, "bot was kicked"):
		return &BlockedError{ChatID: chat}
	}

	return &NotificationError{ChatID: chat, Op: op, Err: err}
}
