package router

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
)

// Composition errors. They are returned by Tree methods and leave the tree
// in its previous state.
var (
	// ErrDuplicateRoute indicates a relative path registered twice on one level.
	ErrDuplicateRoute = errors.New("duplicate route")

	// ErrDuplicatePrefix indicates a prefix nested twice on one level.
	ErrDuplicatePrefix = errors.New("duplicate prefix")

	// ErrDuplicateFallback indicates a second fallback on one level.
	ErrDuplicateFallback = errors.New("duplicate fallback")

	// ErrConflictingFallback indicates a merge of two trees that both have a
	// fallback.
	ErrConflictingFallback = errors.New("conflicting fallback")

	// ErrInvalidPath indicates a route path or prefix that cannot be
	// materialized as a file.
	ErrInvalidPath = errors.New("invalid path")

	// ErrInvalidEndpoint indicates a zero Endpoint or a nil subtree.
	ErrInvalidEndpoint = errors.New("invalid endpoint")
)

// Resolution errors. They abort resolution before anything is rendered.
var (
	// ErrDuplicateResolvedPath indicates two entries with the same absolute path.
	ErrDuplicateResolvedPath = errors.New("duplicate resolved path")

	// ErrRedirectCycle indicates a redirect chain that never reaches a page.
	ErrRedirectCycle = errors.New("redirect cycle")
)

// Error describes a composition or resolution failure with enough context to
// fix the route tree.
type Error struct {
	// Kind is one of the sentinel errors above.
	Kind error

	// Path is the path, prefix or absolute path involved.
	Path string

	// Sites are the registration sites involved, when known.
	Sites []string

	// Err is an underlying cause, such as a path validation error.
	Err error
}

func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString("router: ")
	sb.WriteString(e.Kind.Error())
	if e.Path != "" {
		fmt.Fprintf(&sb, " %q", e.Path)
	}
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	if sites := nonEmpty(e.Sites); len(sites) > 0 {
		fmt.Fprintf(&sb, " (registered at %s)", strings.Join(sites, ", "))
	}
	return sb.String()
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newError(kind error, path string, sites ...string) *Error {
	return &Error{Kind: kind, Path: path, Sites: sites}
}

func nonEmpty(s []string) []string {
	out := s[:0:0]
	for _, v := range s {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// callerSite returns "dir/file.go:line" for the caller skip frames above it.
func callerSite(skip int) string {
	_, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return ""
	}
	dir, base := filepath.Split(file)
	return fmt.Sprintf("%s/%s:%d", filepath.Base(dir), base, line)
}
