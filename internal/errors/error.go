package errors

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Category groups error codes by the stage that produced them.
type Category string

const (
	CategoryConfig   Category = "config"
	CategoryManifest Category = "manifest"
	CategoryRoute    Category = "route"
	CategoryRender   Category = "render"
	CategoryPublish  Category = "publish"
	CategoryCLI      Category = "cli"
)

// Location is a position in a source file or manifest.
type Location struct {
	File   string
	Line   int
	Column int
}

// String returns the location as file:line[:column].
func (l *Location) String() string {
	if l == nil {
		return ""
	}
	if l.Column > 0 {
		return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// ParseLocation parses "file:line" or "file:line:column". It returns nil
// when s carries no line number.
func ParseLocation(s string) *Location {
	parts := strings.Split(s, ":")
	if len(parts) < 2 {
		return nil
	}

	// file:line:col
	if len(parts) >= 3 {
		line, err1 := strconv.Atoi(parts[len(parts)-2])
		col, err2 := strconv.Atoi(parts[len(parts)-1])
		if err1 == nil && err2 == nil && line > 0 {
			return &Location{File: strings.Join(parts[:len(parts)-2], ":"), Line: line, Column: col}
		}
	}

	line, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil || line <= 0 {
		return nil
	}
	return &Location{File: strings.Join(parts[:len(parts)-1], ":"), Line: line}
}

// PagebakeError is a coded error with location, explanation and hint.
type PagebakeError struct {
	// Code is a unique error identifier (e.g., "E121").
	Code string

	// Category is the stage that produced the error.
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation.
	Detail string

	// Location is where the problem is, when known.
	Location *Location

	// Context holds source lines around Location.
	Context []string

	// contextStart is the line number of Context[0].
	contextStart int

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// DocURL links to documentation about this error.
	DocURL string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *PagebakeError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = e.Code + ": " + msg
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *PagebakeError) Unwrap() error {
	return e.Wrapped
}

// WithLocation sets the location and reads the surrounding lines if the
// file exists.
func (e *PagebakeError) WithLocation(file string, line, column int) *PagebakeError {
	e.Location = &Location{File: file, Line: line, Column: column}
	e.Context, e.contextStart = readContextLines(file, line, 5)
	return e
}

// WithSite sets the location from a registration site such as
// "site.hcl:14" or "cmd/site.go:22". Unparseable sites are ignored.
func (e *PagebakeError) WithSite(site string) *PagebakeError {
	if loc := ParseLocation(site); loc != nil {
		return e.WithLocation(loc.File, loc.Line, loc.Column)
	}
	return e
}

// WithSuggestion adds a fix suggestion.
func (e *PagebakeError) WithSuggestion(s string) *PagebakeError {
	e.Suggestion = s
	return e
}

// WithDetail replaces the registered explanation.
func (e *PagebakeError) WithDetail(d string) *PagebakeError {
	e.Detail = d
	return e
}

// Wrap records the underlying error.
func (e *PagebakeError) Wrap(err error) *PagebakeError {
	e.Wrapped = err
	return e
}

// readContextLines reads up to size lines centered on target. It returns the
// lines and the number of the first one.
func readContextLines(filename string, target, size int) ([]string, int) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, 0
	}
	defer file.Close()

	start := max(target-size/2, 1)
	end := target + size/2

	var lines []string
	scanner := bufio.NewScanner(file)
	for n := 1; scanner.Scan(); n++ {
		if n >= start {
			lines = append(lines, scanner.Text())
		}
		if n >= end {
			break
		}
	}
	if len(lines) == 0 {
		return nil, 0
	}
	return lines, start
}

// New creates a PagebakeError from a registered code.
func New(code string) *PagebakeError {
	template, ok := registry[code]
	if !ok {
		return &PagebakeError{Code: code, Message: "Unknown error"}
	}
	return &PagebakeError{
		Code:       code,
		Category:   template.Category,
		Message:    template.Message,
		Detail:     template.Detail,
		Suggestion: template.Suggestion,
		DocURL:     template.DocURL,
	}
}

// Newf creates an uncoded error with a formatted message.
func Newf(category Category, format string, args ...any) *PagebakeError {
	return &PagebakeError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps err under code unless it already is a *PagebakeError.
func FromError(err error, code string) *PagebakeError {
	if err == nil {
		return nil
	}
	if pe, ok := err.(*PagebakeError); ok {
		return pe
	}
	return New(code).Wrap(err)
}
