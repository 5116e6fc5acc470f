package router

import (
	"fmt"
)

// Kind distinguishes the two endpoint variants.
type Kind int

const (
	// KindPage is an endpoint that produces HTML content.
	KindPage Kind = iota

	// KindRedirect is an endpoint that points at another path.
	KindRedirect
)

func (k Kind) String() string {
	switch k {
	case KindPage:
		return "page"
	case KindRedirect:
		return "redirect"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ContentFunc produces the HTML for a page. It may be called more than once
// and is expected to return the same content each time.
type ContentFunc func() (string, error)

// Endpoint is a route's behavior: either a page producer or a redirect
// target. The zero Endpoint is invalid and rejected by the Tree.
type Endpoint struct {
	kind    Kind
	content ContentFunc
	target  string

	// local redirects are joined with the accumulated nest prefix at
	// resolution time.
	local bool
}

// Page wraps an infallible content generator.
func Page(render func() string) Endpoint {
	if render == nil {
		return Endpoint{}
	}
	return Endpoint{
		kind:    KindPage,
		content: func() (string, error) { return render(), nil },
	}
}

// PageFunc wraps a content generator that can fail, such as one reading a
// template from disk. A returned error aborts the render call.
func PageFunc(render ContentFunc) Endpoint {
	if render == nil {
		return Endpoint{}
	}
	return Endpoint{kind: KindPage, content: render}
}

// Static is a page with fixed content.
func Static(html string) Endpoint {
	return Endpoint{
		kind:    KindPage,
		content: func() (string, error) { return html, nil },
	}
}

// Redirect points at an absolute target path. The target is not checked
// against the table; dangling redirects are allowed.
func Redirect(target string) Endpoint {
	return Endpoint{kind: KindRedirect, target: target}
}

// LocalRedirect points at a target relative to the tree level it is
// registered in. Nested under "/blog", LocalRedirect("/") resolves to a
// redirect to "/blog/".
func LocalRedirect(target string) Endpoint {
	return Endpoint{kind: KindRedirect, target: target, local: true}
}

// Kind returns the endpoint variant.
func (e Endpoint) Kind() Kind {
	return e.kind
}

// IsRedirect reports whether the endpoint is a redirect.
func (e Endpoint) IsRedirect() bool {
	return e.kind == KindRedirect
}

// IsLocal reports whether a redirect target is relative to its tree level.
func (e Endpoint) IsLocal() bool {
	return e.local
}

// Target returns the redirect target, or "" for pages.
func (e Endpoint) Target() string {
	return e.target
}

// Content invokes the page generator. It returns an error for redirects.
func (e Endpoint) Content() (string, error) {
	if e.kind != KindPage || e.content == nil {
		return "", fmt.Errorf("router: %s endpoint has no content", e.kind)
	}
	return e.content()
}

// valid reports whether the endpoint was built by one of the constructors.
func (e Endpoint) valid() bool {
	switch e.kind {
	case KindPage:
		return e.content != nil
	case KindRedirect:
		return e.target != ""
	default:
		return false
	}
}

// Source records why an entry is in the resolved table.
type Source int

const (
	// SourceRoute is an explicitly registered page.
	SourceRoute Source = iota

	// SourceRedirect is an explicitly registered redirect.
	SourceRedirect

	// SourceFallback is a tree-level fallback page.
	SourceFallback
)

func (s Source) String() string {
	switch s {
	case SourceRoute:
		return "route"
	case SourceRedirect:
		return "redirect"
	case SourceFallback:
		return "fallback"
	default:
		return fmt.Sprintf("Source(%d)", int(s))
	}
}

// Entry is one row of a resolved Table.
type Entry struct {
	// Path is the absolute route path (e.g., "/blog/old").
	Path string

	// Endpoint is the page or redirect served at Path. Local redirects are
	// already rewritten to absolute targets.
	Endpoint Endpoint

	// Source distinguishes explicit routes, redirects and fallbacks.
	Source Source

	// Site is where the entry was registered (file:line, or a manifest
	// location). Empty when unknown.
	Site string
}

// Table is the flattened, collision-free view of a Tree. Entries are in
// resolution order.
type Table struct {
	Entries []Entry
}

// Len returns the number of entries.
func (t Table) Len() int {
	return len(t.Entries)
}

// Pages returns the explicit page routes (fallbacks excluded).
func (t Table) Pages() []Entry {
	return t.filter(SourceRoute)
}

// Redirects returns the redirect entries.
func (t Table) Redirects() []Entry {
	return t.filter(SourceRedirect)
}

// Fallbacks returns the fallback entries.
func (t Table) Fallbacks() []Entry {
	return t.filter(SourceFallback)
}

// Lookup finds the entry at an absolute path.
func (t Table) Lookup(path string) (Entry, bool) {
	for _, e := range t.Entries {
		if e.Path == path {
			return e, true
		}
	}
	return Entry{}, false
}

// Paths returns every absolute path in table order.
func (t Table) Paths() []string {
	paths := make([]string, len(t.Entries))
	for i, e := range t.Entries {
		paths[i] = e.Path
	}
	return paths
}

func (t Table) filter(src Source) []Entry {
	var out []Entry
	for _, e := range t.Entries {
		if e.Source == src {
			out = append(out, e)
		}
	}
	return out
}
