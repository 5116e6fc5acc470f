package router

import (
	"errors"

	"github.com/vango-dev/pagebake/pkg/routepath"
)

// DefaultFallbackName is the path segment fallback pages resolve to:
// a fallback under prefix P lives at P + "/404".
const DefaultFallbackName = "404"

// ResolveOption configures Resolve.
type ResolveOption func(*resolveOptions)

type resolveOptions struct {
	fallbackName string
}

// WithFallbackName changes the segment fallback pages resolve to.
// An empty name keeps the default.
func WithFallbackName(name string) ResolveOption {
	return func(o *resolveOptions) {
		if name != "" {
			o.fallbackName = name
		}
	}
}

// Resolve flattens a tree into a Table of absolute paths.
//
// Each level emits its routes, then its nested trees, then its fallback, so
// the table order is stable and equals registration order. After the walk
// every absolute path must be unique; each collision is reported as an
// *Error wrapping ErrDuplicateResolvedPath, joined in table order.
func Resolve(t *Tree, opts ...ResolveOption) (Table, error) {
	o := resolveOptions{fallbackName: DefaultFallbackName}
	for _, opt := range opts {
		opt(&o)
	}

	var table Table
	if t != nil {
		t.flatten("", &o, &table)
	}

	if err := checkUnique(table); err != nil {
		return Table{}, err
	}
	return table, nil
}

// flatten appends the entries of t under the accumulated prefix.
func (t *Tree) flatten(prefix string, o *resolveOptions, table *Table) {
	for _, r := range t.routes {
		table.Entries = append(table.Entries, resolveRoute(prefix, r))
	}

	for _, c := range t.children {
		c.tree.flatten(routepath.JoinPrefix(prefix, c.prefix), o, table)
	}

	if t.fallback != nil {
		table.Entries = append(table.Entries, Entry{
			Path:     routepath.Join(prefix, o.fallbackName),
			Endpoint: t.fallback.endpoint,
			Source:   SourceFallback,
			Site:     t.fallback.site,
		})
	}
}

func resolveRoute(prefix string, r route) Entry {
	entry := Entry{
		Path:     routepath.Join(prefix, r.path),
		Endpoint: r.endpoint,
		Source:   SourceRoute,
		Site:     r.site,
	}
	if r.endpoint.IsRedirect() {
		entry.Source = SourceRedirect
		if r.endpoint.IsLocal() {
			entry.Endpoint = Redirect(routepath.Join(prefix, r.endpoint.Target()))
		}
	}
	return entry
}

// checkUnique reports every absolute path claimed by more than one entry.
func checkUnique(table Table) error {
	first := make(map[string]int, len(table.Entries))
	var errs []error

	for i, e := range table.Entries {
		j, seen := first[e.Path]
		if !seen {
			first[e.Path] = i
			continue
		}
		errs = append(errs, newError(ErrDuplicateResolvedPath, e.Path, table.Entries[j].Site, e.Site))
	}

	return errors.Join(errs...)
}
