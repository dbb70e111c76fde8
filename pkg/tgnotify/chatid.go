package tgnotify

import "strconv"

// ChatID addresses a Telegram chat. Four textual shapes are accepted:
//
//	"123456789"      private chat (user id)
//	"-123456789"     basic group
//	"-100123456789"  supergroup or channel
//	"@publichandle"  public username
//
// The value goes to the Bot API exactly as given. Validate checks the shape
// only; it never rewrites or probes the chat.
type ChatID string

// IntChatID converts a numeric chat id into its textual form.
func IntChatID(id int64) ChatID {
	return ChatID(strconv.FormatInt(id, 10))
}

// Recipient implements telebot's Recipient interface so a ChatID can be
// handed to the underlying bot without conversion.
func (id ChatID) Recipient() string { return string(id) }

// Validate reports whether the chat id has one of the accepted shapes.
func (id ChatID) Validate() error {
	s := string(id)
	if s == "" {
		return &InvalidChatIDError{Raw: s}
	}
	if s[0] == '@' {
		if len(s) == 1 {
			return &InvalidChatIDError{Raw: s}
		}
		for i := 1; i < len(s); i++ {
			if !isHandleChar(s[i]) {
				return &InvalidChatIDError{Raw: s}
			}
		}
		return nil
	}
	digits := s
	if len(s) > 1 && s[0] == '-' {
		// Covers both the "-" basic-group and "-100" supergroup prefixes.
		digits = s[1:]
	}
	if digits == "" {
		return &InvalidChatIDError{Raw: s}
	}
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return &InvalidChatIDError{Raw: s}
		}
	}
	return nil
}

func isHandleChar(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z':
		return true
	case c >= 'A' && c <= 'Z':
		return true
	case c >= '0' && c <= '9':
		return true
	case c == '_':
		return true
	}
	return false
}
