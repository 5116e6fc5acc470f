package publish

import (
	"context"
	"fmt"
	"mime"
	"path"
	"strings"
)

// Sink stores rendered files.
//
// Paths are slash-separated and relative to the site root ("index.html",
// "blog/old.html"). A Sink must be safe for concurrent use when Persist runs
// with a concurrency above one.
type Sink interface {
	Write(ctx context.Context, path string, data []byte) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ctx context.Context, path string, data []byte) error

// Write calls f.
func (f SinkFunc) Write(ctx context.Context, path string, data []byte) error {
	return f(ctx, path, data)
}

// cleanPath rejects paths that would escape the sink root.
func cleanPath(p string) (string, error) {
	if p == "" || strings.ContainsRune(p, '\\') {
		return "", fmt.Errorf("invalid file path %q", p)
	}
	cleaned := path.Clean("/" + p)[1:]
	if cleaned == "" || cleaned != strings.TrimPrefix(p, "/") {
		return "", fmt.Errorf("invalid file path %q", p)
	}
	return cleaned, nil
}

// contentType guesses a MIME type from the file extension.
func contentType(p string) string {
	switch path.Ext(p) {
	case ".html":
		return "text/html; charset=utf-8"
	case "":
		// _redirects, _headers
		return "text/plain; charset=utf-8"
	}
	if ct := mime.TypeByExtension(path.Ext(p)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
