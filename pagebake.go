// Package pagebake describes a static website as a composable tree of
// routes and renders it to files.
//
// This is the recommended import for most sites:
//
//	import "github.com/vango-dev/pagebake"
//
// Usage:
//
//	site := pagebake.New()
//	site.Route("/", pagebake.Get(func() string { return "<h1>Home</h1>" }))
//	site.Route("/old", pagebake.Redirect("/"))
//
//	blog := pagebake.New()
//	blog.Route("/", pagebake.Get(blogIndex))
//	site.Nest("/blog", blog)
//
//	err := pagebake.RenderToDir(ctx, site, "dist", pagebake.DefaultConfig())
//
// The subpackages hold the pieces: router (tree and resolver), render
// (renderer and FileMap), lists (redirect and route lists) and publish
// (sinks and persistence).
package pagebake

import (
	"context"

	"github.com/vango-dev/pagebake/pkg/publish"
	"github.com/vango-dev/pagebake/pkg/render"
	"github.com/vango-dev/pagebake/pkg/router"
)

// =============================================================================
// Route tree (re-export from pkg/router)
// =============================================================================

// Tree is one level of a site.
type Tree = router.Tree

// Endpoint is a page or a redirect.
type Endpoint = router.Endpoint

// Table is a resolved route table.
type Table = router.Table

// New creates an empty tree.
func New() *Tree {
	return router.New()
}

// Get returns a page endpoint whose content is produced by render.
//
// Example:
//
//	site.Route("/about", pagebake.Get(func() string {
//	    return "<h1>About</h1>"
//	}))
func Get(render func() string) Endpoint {
	return router.Page(render)
}

// Redirect returns a redirect endpoint pointing at target, which is
// written verbatim into the redirect page.
func Redirect(target string) Endpoint {
	return router.Redirect(target)
}

// LocalRedirect returns a redirect whose target is relative to the tree
// it is registered in.
var LocalRedirect = router.LocalRedirect

// Resolve flattens a tree into an absolute route table.
var Resolve = router.Resolve

// =============================================================================
// Rendering (re-export from pkg/render)
// =============================================================================

// Config configures rendering.
type Config = render.Config

// FileMap maps output file paths to their content.
type FileMap = render.FileMap

// DefaultConfig returns a Config with the default redirect page and no
// lists.
func DefaultConfig() Config {
	return render.DefaultConfig()
}

// Render resolves tree and renders every entry into an in-memory FileMap.
func Render(tree *Tree, cfg Config) (FileMap, error) {
	return render.Render(tree, cfg)
}

// RenderToDir renders tree and writes the files below dir. Rendering
// errors write nothing. Write errors are collected into a
// *publish.PersistError after every file has been attempted.
func RenderToDir(ctx context.Context, tree *Tree, dir string, cfg Config) error {
	files, err := render.Render(tree, cfg)
	if err != nil {
		return err
	}

	sink, err := publish.NewDirSink(dir)
	if err != nil {
		return err
	}

	return publish.Persist(ctx, files, sink,
		publish.WithConcurrency(cfg.Workers),
		publish.WithLogger(cfg.Logger),
	)
}
