// Package routepath implements the path arithmetic shared by the route tree,
// the resolver and the renderer.
//
// Every absolute path in a resolved table is produced by Join, so the
// single-separator rule lives in exactly one place:
//
//	Join("", "/")          → "/"
//	Join("/blog", "/")     → "/blog/"
//	Join("/blog/", "/old") → "/blog/old"
//	Join("/", "about")     → "/about"
//
// OutputFile maps an absolute path to the file that materializes it:
//
//	OutputFile("/")       → "index.html"
//	OutputFile("/blog/")  → "blog/index.html"
//	OutputFile("/about")  → "about.html"
package routepath

import (
	"errors"
	"strings"
)

// IndexFile is the file name a directory-style path ("/", "/blog/") renders to.
const IndexFile = "index.html"

// Extension is appended to non-directory paths.
const Extension = ".html"

// Path validation errors.
var (
	ErrInvalidPath     = errors.New("invalid path")
	ErrBackslashInPath = errors.New("path contains backslash")
	ErrNullByteInPath  = errors.New("path contains null byte")
	ErrDotSegment      = errors.New("path contains . or .. segment")
	ErrQueryInPath     = errors.New("path contains query or fragment")
)

// Validate checks that a route path or prefix can be materialized as a file.
// It does not require a leading slash; Join adds one.
func Validate(p string) error {
	if strings.Contains(p, "\\") {
		return ErrBackslashInPath
	}
	if strings.IndexByte(p, 0) != -1 {
		return ErrNullByteInPath
	}
	if strings.ContainsAny(p, "?#") {
		return ErrQueryInPath
	}
	for _, seg := range strings.Split(p, "/") {
		if seg == "." || seg == ".." {
			return ErrDotSegment
		}
	}
	return nil
}

// Join concatenates an accumulated prefix and a relative path with exactly
// one separator between them. The result always starts with "/", keeps the
// trailing slash of path, and never contains "//".
//
// An empty path is treated as "/", so Join(prefix, "") names the index of
// prefix.
func Join(prefix, p string) string {
	base := strings.TrimRight(prefix, "/")
	if p == "" {
		p = "/"
	}
	return collapse("/" + base + "/" + p)
}

// JoinPrefix is Join without the trailing slash. It is used to accumulate
// nest prefixes, where "/" and "" both mean "no prefix" and the result is
// either "" or a path like "/blog/archive".
func JoinPrefix(prefix, segment string) string {
	return strings.TrimRight(Join(prefix, segment), "/")
}

// OutputFile returns the slash-separated file path, relative to the output
// root, that an absolute route path renders to.
func OutputFile(p string) string {
	rel := strings.TrimLeft(p, "/")
	if rel == "" || strings.HasSuffix(rel, "/") {
		return rel + IndexFile
	}
	return rel + Extension
}

// IsIndex reports whether p names a directory index ("/" or a trailing slash).
func IsIndex(p string) bool {
	return p == "" || strings.HasSuffix(p, "/")
}

// collapse replaces every run of slashes with a single slash.
func collapse(p string) string {
	if !strings.Contains(p, "//") {
		return p
	}
	var b strings.Builder
	b.Grow(len(p))
	prevSlash := false
	for i := 0; i < len(p); i++ {
		c := p[i]
		if c == '/' {
			if prevSlash {
				continue
			}
			prevSlash = true
		} else {
			prevSlash = false
		}
		b.WriteByte(c)
	}
	return b.String()
}
