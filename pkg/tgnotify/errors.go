package tgnotify

import (
	"errors"
	"fmt"
	"time"
)

// ErrClientClosed is wrapped by the NotificationError returned from any
// send attempted after Close.
var ErrClientClosed = errors.New("tgnotify: client is closed")

// NotificationError is the generic failure wrapper: transport errors that
// do not map to a more specific type below, payload problems detected
// before transport, and use-after-close.
type NotificationError struct {
	ChatID ChatID // resolved target of the failed send, if any
	Op     string // "send_message", "send_photo" or "send_document"
	Err    error
}

func (e *NotificationError) Error() string {
	if e.ChatID != "" {
		return fmt.Sprintf("tgnotify: %s to chat %s: %v", e.Op, e.ChatID, e.Err)
	}
	return fmt.Sprintf("tgnotify: %s: %v", e.Op, e.Err)
}

func (e *NotificationError) Unwrap() error { return e.Err }

// ConfigError reports a missing or malformed construction input.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("tgnotify: invalid config field %q: %s", e.Field, e.Reason)
}

// InvalidChatIDError reports a chat id whose shape is not one of the four
// accepted forms.
type InvalidChatIDError struct {
	Raw string
}

func (e *InvalidChatIDError) Error() string {
	return fmt.Sprintf("tgnotify: invalid chat id %q", e.Raw)
}

// ChatNotFoundError: Telegram reported that the chat does not exist or the
// bot was never added to it.
type ChatNotFoundError struct {
	ChatID ChatID
}

func (e *ChatNotFoundError) Error() string {
	return fmt.Sprintf("tgnotify: chat %s not found", e.ChatID)
}

// BlockedError: the bot was blocked by the user or kicked from the chat.
type BlockedError struct {
	ChatID ChatID
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("tgnotify: bot is blocked or was removed from chat %s", e.ChatID)
}

// RateLimitError surfaces Telegram flood control. The client never retries
// on its own; RetryAfter is the server-suggested wait.
type RateLimitError struct {
	ChatID     ChatID
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("tgnotify: flood control on chat %s, retry after %s", e.ChatID, e.RetryAfter)
}
