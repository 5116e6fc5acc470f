package router

import (
	"errors"

	"github.com/vango-dev/pagebake/pkg/routepath"
)

// Tree is one level of a site: exact routes, nested subtrees keyed by prefix,
// and an optional fallback page. Build it top-down; resolve it once.
type Tree struct {
	routes   []route
	routeIdx map[string]int

	children []child
	childIdx map[string]int

	fallback *route
}

type route struct {
	path     string
	endpoint Endpoint
	site     string
}

type child struct {
	prefix string
	tree   *Tree
	site   string
}

// New creates an empty tree.
func New() *Tree {
	return &Tree{
		routeIdx: make(map[string]int),
		childIdx: make(map[string]int),
	}
}

// RouteOption configures a single registration.
type RouteOption func(*routeOptions)

type routeOptions struct {
	site string
}

// WithSource overrides the recorded registration site. Loaders that build
// trees from files use it to point errors at the file instead of the loader.
//
// Example:
//
//	t.Route("/about", page, router.WithSource("site.hcl:12"))
func WithSource(site string) RouteOption {
	return func(o *routeOptions) {
		o.site = site
	}
}

func applyOptions(opts []RouteOption) routeOptions {
	var o routeOptions
	o.site = callerSite(2)
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Route registers an endpoint at a relative path on this level.
// It fails with ErrDuplicateRoute if the exact path string is already taken.
func (t *Tree) Route(path string, endpoint Endpoint, opts ...RouteOption) error {
	o := applyOptions(opts)

	if err := routepath.Validate(path); err != nil {
		return &Error{Kind: ErrInvalidPath, Path: path, Sites: []string{o.site}, Err: err}
	}
	if !endpoint.valid() {
		return newError(ErrInvalidEndpoint, path, o.site)
	}
	if i, exists := t.routeIdx[path]; exists {
		return newError(ErrDuplicateRoute, path, t.routes[i].site, o.site)
	}

	t.addRoute(route{path: path, endpoint: endpoint, site: o.site})
	return nil
}

// Nest mounts a copy of sub under prefix. Paths in sub are joined with the
// prefix at resolution time; a prefix of "/" is equivalent to no prefix.
// It fails with ErrDuplicatePrefix if the exact prefix string is already taken.
func (t *Tree) Nest(prefix string, sub *Tree, opts ...RouteOption) error {
	o := applyOptions(opts)

	if err := routepath.Validate(prefix); err != nil {
		return &Error{Kind: ErrInvalidPath, Path: prefix, Sites: []string{o.site}, Err: err}
	}
	if sub == nil {
		return newError(ErrInvalidEndpoint, prefix, o.site)
	}
	if i, exists := t.childIdx[prefix]; exists {
		return newError(ErrDuplicatePrefix, prefix, t.children[i].site, o.site)
	}

	t.addChild(child{prefix: prefix, tree: sub.clone(), site: o.site})
	return nil
}

// Fallback sets the page rendered for unmatched paths under this level.
// It fails with ErrDuplicateFallback if one is already set.
func (t *Tree) Fallback(endpoint Endpoint, opts ...RouteOption) error {
	o := applyOptions(opts)

	if endpoint.Kind() != KindPage || !endpoint.valid() {
		return newError(ErrInvalidEndpoint, "", o.site)
	}
	if t.fallback != nil {
		return newError(ErrDuplicateFallback, "", t.fallback.site, o.site)
	}

	t.fallback = &route{endpoint: endpoint, site: o.site}
	return nil
}

// Merge adds the routes, nested trees and fallback of other to this level.
// Every overlap is reported, joined in other's registration order; if any
// exists nothing is merged.
func (t *Tree) Merge(other *Tree) error {
	if other == nil {
		return nil
	}

	var errs []error
	for _, r := range other.routes {
		if i, exists := t.routeIdx[r.path]; exists {
			errs = append(errs, newError(ErrDuplicateRoute, r.path, t.routes[i].site, r.site))
		}
	}
	for _, c := range other.children {
		if i, exists := t.childIdx[c.prefix]; exists {
			errs = append(errs, newError(ErrDuplicatePrefix, c.prefix, t.children[i].site, c.site))
		}
	}
	if t.fallback != nil && other.fallback != nil {
		errs = append(errs, newError(ErrConflictingFallback, "", t.fallback.site, other.fallback.site))
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	src := other.clone()
	for _, r := range src.routes {
		t.addRoute(r)
	}
	for _, c := range src.children {
		t.addChild(c)
	}
	if src.fallback != nil {
		t.fallback = src.fallback
	}
	return nil
}

// Routes returns the relative route paths on this level in registration order.
func (t *Tree) Routes() []string {
	paths := make([]string, len(t.routes))
	for i, r := range t.routes {
		paths[i] = r.path
	}
	return paths
}

// Prefixes returns the nested prefixes on this level in registration order.
func (t *Tree) Prefixes() []string {
	prefixes := make([]string, len(t.children))
	for i, c := range t.children {
		prefixes[i] = c.prefix
	}
	return prefixes
}

// HasFallback reports whether this level has a fallback page.
func (t *Tree) HasFallback() bool {
	return t.fallback != nil
}

// Endpoint returns the endpoint registered at a relative path on this level.
func (t *Tree) Endpoint(path string) (Endpoint, bool) {
	i, ok := t.routeIdx[path]
	if !ok {
		return Endpoint{}, false
	}
	return t.routes[i].endpoint, true
}

// WalkFunc is called for every level of a tree. prefix is the accumulated
// absolute prefix ("" for the root) and depth the nesting depth.
type WalkFunc func(prefix string, depth int, level *Tree) error

// Walk visits every level depth-first in resolution order. Returning an
// error from fn stops the walk.
func (t *Tree) Walk(fn WalkFunc) error {
	return t.walk("", 0, fn)
}

func (t *Tree) walk(prefix string, depth int, fn WalkFunc) error {
	if err := fn(prefix, depth, t); err != nil {
		return err
	}
	for _, c := range t.children {
		if err := c.tree.walk(routepath.JoinPrefix(prefix, c.prefix), depth+1, fn); err != nil {
			return err
		}
	}
	return nil
}

func (t *Tree) addRoute(r route) {
	if t.routeIdx == nil {
		t.routeIdx = make(map[string]int)
	}
	t.routeIdx[r.path] = len(t.routes)
	t.routes = append(t.routes, r)
}

func (t *Tree) addChild(c child) {
	if t.childIdx == nil {
		t.childIdx = make(map[string]int)
	}
	t.childIdx[c.prefix] = len(t.children)
	t.children = append(t.children, c)
}

// clone deep-copies the tree structure. Endpoints are values and are shared.
func (t *Tree) clone() *Tree {
	out := New()
	for _, r := range t.routes {
		out.addRoute(r)
	}
	for _, c := range t.children {
		out.addChild(child{prefix: c.prefix, tree: c.tree.clone(), site: c.site})
	}
	if t.fallback != nil {
		fb := *t.fallback
		out.fallback = &fb
	}
	return out
}
