package tgnotify

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tele "gopkg.in/telebot.v4"
)

var errNoSource = errors.New("no payload source")

// Source is a closed set of payload origins for photo and document sends:
// a local file, an in-memory buffer, or a URL that Telegram fetches itself.
// Build one with FromPath, FromBytes or FromURL; the zero value is invalid.
type Source struct {
	kind sourceKind
	path string
	data []byte
	name string
	url  string
}

type sourceKind int

const (
	sourceNone sourceKind = iota
	sourcePath
	sourceBytes
	sourceURL
)

// FromPath uploads a local file. The file must exist at send time.
func FromPath(path string) Source {
	return Source{kind: sourcePath, path: path}
}

// FromBytes uploads an in-memory payload. name is the filename hint shown
// to recipients; empty defaults to "file".
func FromBytes(data []byte, name string) Source {
	if name == "" {
		name = "file"
	}
	return Source{kind: sourceBytes, data: data, name: name}
}

// FromURL makes Telegram fetch the payload from a public http(s) URL.
func FromURL(url string) Source {
	return Source{kind: sourceURL, url: url}
}

// file resolves the source into a telebot file plus a filename hint.
// Local paths are verified here so a typo fails before transport.
func (s Source) file() (tele.File, string, error) {
	switch s.kind {
	case sourcePath:
		if _, err := os.Stat(s.path); err != nil {
			return tele.File{}, "", fmt.Errorf("source file: %w", err)
		}
		return tele.FromDisk(s.path), filepath.Base(s.path), nil
	case sourceBytes:
		return tele.FromReader(bytes.NewReader(s.data)), s.name, nil
	case sourceURL:
		if !strings.HasPrefix(s.url, "http://") && !strings.HasPrefix(s.url, "https://") {
			return tele.File{}, "", fmt.Errorf("source url %q is not http(s)", s.url)
		}
		return tele.FromURL(s.url), "", nil
	default:
		return tele.File{}, "", errNoSource
	}
}
