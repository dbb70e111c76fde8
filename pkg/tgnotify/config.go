package tgnotify

import (
	"net/http"
	"strings"
)

// ParseMode selects how Telegram interprets formatting in outbound text.
type ParseMode string

const (
	// ModeDefault inherits the configured default (ModeHTML unless the
	// Config says otherwise).
	ModeDefault ParseMode = ""
	// ModePlain disables formatting entirely.
	ModePlain ParseMode = "plain"

	ModeHTML       ParseMode = "HTML"
	ModeMarkdown   ParseMode = "Markdown"
	ModeMarkdownV2 ParseMode = "MarkdownV2"
)

// wire returns the parse_mode value the Bot API expects.
func (m ParseMode) wire() string {
	if m == ModePlain {
		return ""
	}
	return string(m)
}

func (m ParseMode) valid() bool {
	switch m {
	case ModeDefault, ModePlain, ModeHTML, ModeMarkdown, ModeMarkdownV2:
		return true
	}
	return false
}

// Config fixes a client's credentials and per-send defaults. It is copied
// at construction and never mutated afterwards.
type Config struct {
	// Token is the bot credential issued by @BotFather, "<bot-id>:<secret>".
	Token string
	// ChatID is the default target for every send that does not name one.
	ChatID ChatID
	// ParseMode applies to sends that do not set their own.
	// ModeDefault means ModeHTML.
	ParseMode ParseMode
	// Silent delivers without a client-side notification sound.
	Silent bool
	// Protected forbids forwarding and saving of delivered content.
	Protected bool

	// HTTPClient overrides the transport used for Bot API calls.
	HTTPClient *http.Client
	// APIEndpoint overrides the Bot API base URL, for self-hosted API
	// servers and tests. Empty means the public https://api.telegram.org.
	APIEndpoint string
}

func (c Config) validate() error {
	if strings.TrimSpace(c.Token) == "" {
		return &ConfigError{Field: "token", Reason: "must not be empty"}
	}
	if strings.Count(c.Token, ":") != 1 {
		return &ConfigError{Field: "token", Reason: "must look like <bot-id>:<secret>"}
	}
	if c.ChatID == "" {
		return &ConfigError{Field: "chat_id", Reason: "no default chat configured"}
	}
	if !c.ParseMode.valid() {
		return &ConfigError{Field: "parse_mode", Reason: "unknown mode " + string(c.ParseMode)}
	}
	return c.ChatID.Validate()
}
