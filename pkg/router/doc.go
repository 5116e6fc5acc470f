// Package router describes a static site as a composable tree of routes and
// flattens that tree into an absolute route table.
//
// The router provides:
//   - Endpoints: page producers and redirect targets
//   - Tree composition: Route, Nest, Merge and Fallback
//   - Resolution: depth-first flattening into a collision-free Table
//   - Redirect chain resolution with cycle detection
//
// # Building a Tree
//
//	blog := router.New()
//	blog.Route("/", router.Page(func() string { return "<h1>Blog</h1>" }))
//	blog.Route("/old", router.Redirect("/"))
//	blog.Fallback(router.Static("<h1>Not in the blog</h1>"))
//
//	site := router.New()
//	site.Route("/", router.Static("<h1>Home</h1>"))
//	site.Nest("/blog", blog)
//
// Every composition method returns an error instead of overwriting: a second
// route at the same relative path fails with ErrDuplicateRoute, a second
// prefix with ErrDuplicatePrefix, a second fallback with ErrDuplicateFallback,
// and merging two trees that both carry a fallback with
// ErrConflictingFallback. A failed call leaves the tree unchanged.
//
// # Resolution
//
//	table, err := router.Resolve(site)
//
// Resolve walks each level in registration order: routes, then nested trees,
// then the fallback. Paths are joined with routepath.Join, so "/blog" + "/"
// is "/blog/" and "/blog" + "/old" is "/blog/old". A fallback registered
// under prefix P lives at P + "/404" (the name is configurable with
// WithFallbackName). Two entries that resolve to the same absolute path fail
// with ErrDuplicateResolvedPath naming both registration sites.
//
// # Ownership
//
// Nest and Merge copy the subtree they receive, so a Tree exclusively owns its
// children and later edits to the argument do not leak into the parent.
package router
