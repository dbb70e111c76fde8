// Package cli holds configuration plumbing for the tgnotify command.
package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	yaml "go.yaml.in/yaml/v3"

	"tgnotify/pkg/tgnotify"
)

// FileConfig is the on-disk configuration (YAML or JSON).
type FileConfig struct {
	Token     string `json:"token"`
	ChatID    string `json:"chat_id"`
	ParseMode string `json:"parse_mode"`
	Silent    bool   `json:"silent"`
	Protected bool   `json:"protected"`
}

// envConfig overlays the file values. Pointers distinguish "unset" from
// zero values for the flags.
type envConfig struct {
	Token     string `env:"TGNOTIFY_TOKEN"`
	ChatID    string `env:"TGNOTIFY_CHAT_ID"`
	ParseMode string `env:"TGNOTIFY_PARSE_MODE"`
	Silent    *bool  `env:"TGNOTIFY_SILENT"`
	Protected *bool  `env:"TGNOTIFY_PROTECTED"`
}

// Load assembles the client configuration: an optional config file, then
// environment variables on top (a .env file is honored when present).
// path may be empty to run on environment alone.
func Load(path string) (tgnotify.Config, error) {
	// Missing .env is fine; a present-but-broken one is not silently ignored.
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return tgnotify.Config{}, fmt.Errorf("load .env: %w", err)
		}
	}

	var fc FileConfig
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return tgnotify.Config{}, err
		}
		jb, err := coerceToJSONBytes(path, b)
		if err != nil {
			return tgnotify.Config{}, fmt.Errorf("config %s: %w", path, err)
		}
		if err := strictDecode(jb, &fc); err != nil {
			return tgnotify.Config{}, fmt.Errorf("config %s: %w", path, err)
		}
	}

	var ec envConfig
	if err := env.Parse(&ec); err != nil {
		return tgnotify.Config{}, fmt.Errorf("environment: %w", err)
	}
	if ec.Token != "" {
		fc.Token = ec.Token
	}
	if ec.ChatID != "" {
		fc.ChatID = ec.ChatID
	}
	if ec.ParseMode != "" {
		fc.ParseMode = ec.ParseMode
	}
	if ec.Silent != nil {
		fc.Silent = *ec.Silent
	}
	if ec.Protected != nil {
		fc.Protected = *ec.Protected
	}

	mode, err := ParseMode(fc.ParseMode)
	if err != nil {
		return tgnotify.Config{}, err
	}
	return tgnotify.Config{
		Token:     fc.Token,
		ChatID:    tgnotify.ChatID(fc.ChatID),
		ParseMode: mode,
		Silent:    fc.Silent,
		Protected: fc.Protected,
	}, nil
}

// ParseMode maps a user-facing mode name onto the client's ParseMode.
func ParseMode(s string) (tgnotify.ParseMode, error) {
	switch strings.ToLower(s) {
	case "":
		return tgnotify.ModeDefault, nil
	case "plain", "none":
		return tgnotify.ModePlain, nil
	case "html":
		return tgnotify.ModeHTML, nil
	case "markdown":
		return tgnotify.ModeMarkdown, nil
	case "markdownv2":
		return tgnotify.ModeMarkdownV2, nil
	}
	return "", fmt.Errorf("unknown parse mode %q", s)
}

// coerceToJSONBytes converts YAML config to JSON bytes so the strict JSON
// decoder (DisallowUnknownFields) serves both formats.
func coerceToJSONBytes(path string, data []byte) ([]byte, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".yaml" && ext != ".yml" {
		return data, nil
	}

	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("yaml unmarshal: %w", err)
	}
	v = normalizeYAML(v)

	j, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("yaml->json marshal: %w", err)
	}
	return j, nil
}

// normalizeYAML ensures all map keys are strings so the result can be
// JSON-marshaled.
func normalizeYAML(in any) any {
	switch x := in.(type) {
	case map[any]any:
		m := make(map[string]any, len(x))
		for k, v := range x {
			m[fmt.Sprint(k)] = normalizeYAML(v)
		}
		return m
	case map[string]any:
		for k, v := range x {
			x[k] = normalizeYAML(v)
		}
		return x
	case []any:
		for i := range x {
			x[i] = normalizeYAML(x[i])
		}
		return x
	default:
		return in
	}
}

func strictDecode(jb []byte, out *FileConfig) error {
	dec := json.NewDecoder(bytes.NewReader(jb))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return err
	}
	// Reject trailing tokens (e.g. concatenated JSON documents).
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return fmt.Errorf("trailing data after config")
		}
		return err
	}
	return nil
}
