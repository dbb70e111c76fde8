package tgnotify

import (
	"errors"
	"unicode/utf8"
)

// Telegram-imposed text ceilings. Media payload ceilings (10MB photos,
// 50MB documents) are NOT enforced here; oversized uploads come back as a
// transport error.
const (
	maxTextLen    = 4096
	maxCaptionLen = 1024
)

var (
	errEmptyText      = errors.New("message text is empty")
	errTextTooLong    = errors.New("message text exceeds 4096 characters")
	errCaptionTooLong = errors.New("caption exceeds 1024 characters")
)

// Message is a structured text payload. Zero-value fields inherit the
// client's configured defaults: ModeDefault falls back to the configured
// parse mode, and the Silent/Protected flags are combined (OR) with the
// configured ones.
type Message struct {
	Text      string
	ParseMode ParseMode
	Silent    bool
	Protected bool
}

func (m Message) validate() error {
	if m.Text == "" {
		return errEmptyText
	}
	if utf8.RuneCountInString(m.Text) > maxTextLen {
		return errTextTooLong
	}
	if !m.ParseMode.valid() {
		return errors.New("unknown parse mode " + string(m.ParseMode))
	}
	return nil
}

func validateCaption(caption string) error {
	if utf8.RuneCountInString(caption) > maxCaptionLen {
		return errCaptionTooLong
	}
	return nil
}
