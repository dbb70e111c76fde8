package tgnotify

import (
	"context"
	"sync/atomic"

	tele "gopkg.in/telebot.v4"
)

// Operation names carried by NotificationError.
const (
	opMessage  = "send_message"
	opPhoto    = "send_photo"
	opDocument = "send_document"
)

// Client pushes notifications to one configured Telegram chat.
//
// Methods are safe for concurrent use; the configuration is read-only after
// New and the only shared state is the network session. Close is idempotent
// and a closed client rejects sends without a transport attempt. A send in
// flight when Close is called either completes or observes the closed
// session; no partial state is produced either way.
type Client struct {
	cfg    Config
	bot    sender
	closed atomic.Bool
}

// New builds a client from a full configuration.
func New(cfg Config) (*Client, error) {
	if cfg.ParseMode == ModeDefault {
		cfg.ParseMode = ModeHTML
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	bot, err := newSender(cfg)
	if err != nil {
		return nil, &ConfigError{Field: "token", Reason: err.Error()}
	}
	return &Client{cfg: cfg, bot: bot}, nil
}

// NewWithToken builds a client from a bare token and a default chat, with
// stock defaults (HTML parse mode, audible, forwardable).
func NewWithToken(token string, chat ChatID) (*Client, error) {
	return New(Config{Token: token, ChatID: chat})
}

// With runs fn against a short-lived client and guarantees exactly one
// Close on every exit path, including a panicking fn.
func With(cfg Config, fn func(*Client) error) error {
	c, err := New(cfg)
	if err != nil {
		return err
	}
	defer c.Close()
	return fn(c)
}

// SendText delivers plain text using the configured parse mode and flags.
// An optional chat id overrides the configured default for this send only.
func (c *Client) SendText(ctx context.Context, text string, to ...ChatID) error {
	return c.SendMessage(ctx, Message{Text: text}, to...)
}

// SendMessage delivers a structured message. Zero-value fields inherit the
// configured defaults.
func (c *Client) SendMessage(ctx context.Context, msg Message, to ...ChatID) error {
	chat, err := c.target(to)
	if err != nil {
		return err
	}
	if err := msg.validate(); err != nil {
		return &NotificationError{ChatID: chat, Op: opMessage, Err: err}
	}
	if err := c.ready(ctx); err != nil {
		return &NotificationError{ChatID: chat, Op: opMessage, Err: err}
	}
	_, err = c.bot.Send(chat, msg.Text, c.sendOptions(msg.ParseMode, msg.Silent, msg.Protected))
	return mapSendError(opMessage, chat, err)
}

// SendPhoto delivers a photo from a path, buffer or URL source with an
// optional caption. Telegram caps photos at 10MB; the limit is not checked
// client-side and an oversized upload surfaces as a transport error.
func (c *Client) SendPhoto(ctx context.Context, photo Source, caption string, to ...ChatID) error {
	chat, err := c.target(to)
	if err != nil {
		return err
	}
	if err := validateCaption(caption); err != nil {
		return &NotificationError{ChatID: chat, Op: opPhoto, Err: err}
	}
	file, _, err := photo.file()
	if err != nil {
		return &NotificationError{ChatID: chat, Op: opPhoto, Err: err}
	}
	if err := c.ready(ctx); err != nil {
		return &NotificationError{ChatID: chat, Op: opPhoto, Err: err}
	}
	_, err = c.bot.Send(chat, &tele.Photo{File: file, Caption: caption}, c.sendOptions(ModeDefault, false, false))
	return mapSendError(opPhoto, chat, err)
}

// SendDocument delivers a document from a path, buffer or URL source with
// an optional caption. Telegram caps documents at 50MB; as with photos the
// ceiling is enforced by the server, not here.
func (c *Client) SendDocument(ctx context.Context, doc Source, caption string, to ...ChatID) error {
	chat, err := c.target(to)
	if err != nil {
		return err
	}
	if err := validateCaption(caption); err != nil {
		return &NotificationError{ChatID: chat, Op: opDocument, Err: err}
	}
	file, name, err := doc.file()
	if err != nil {
		return &NotificationError{ChatID: chat, Op: opDocument, Err: err}
	}
	if err := c.ready(ctx); err != nil {
		return &NotificationError{ChatID: chat, Op: opDocument, Err: err}
	}
	_, err = c.bot.Send(chat, &tele.Document{File: file, FileName: name, Caption: caption}, c.sendOptions(ModeDefault, false, false))
	return mapSendError(opDocument, chat, err)
}

// Close releases the underlying network session. Calling it again is a
// no-op; sends attempted after Close fail with ErrClientClosed wrapped in
// a NotificationError.
func (c *Client) Close() error {
	if c.closed.CompareAndSwap(false, true) {
		c.bot.Close()
	}
	return nil
}

// target resolves the effective chat id: explicit override first, else the
// configured default. The override shape is validated; the default was
// validated at construction.
func (c *Client) target(override []ChatID) (ChatID, error) {
	chat := c.cfg.ChatID
	if len(override) > 0 {
		chat = override[0]
		if err := chat.Validate(); err != nil {
			return "", err
		}
	}
	return chat, nil
}

// ready gates a send before any transport attempt.
func (c *Client) ready(ctx context.Context) error {
	if c.closed.Load() {
		return ErrClientClosed
	}
	return ctx.Err()
}

func (c *Client) sendOptions(mode ParseMode, silent, protected bool) *tele.SendOptions {
	if mode == ModeDefault {
		mode = c.cfg.ParseMode
	}
	return &tele.SendOptions{
		ParseMode:           mode.wire(),
		DisableNotification: silent || c.cfg.Silent,
		Protected:           protected || c.cfg.Protected,
	}
}
