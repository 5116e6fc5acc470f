// Package render turns a route tree into static files.
//
// Rendering happens in two steps. The tree is first flattened into a
// router.Table; every entry of the table then becomes one output file:
//
//   - a page at "/" becomes "index.html"
//   - a page at "/blog/" becomes "blog/index.html"
//   - a page at "/about" becomes "about.html"
//   - a redirect becomes a small HTML document that forwards the browser
//   - a fallback is rendered like a page at its "404" path
//
// After the entries, every configured redirect list and route list is
// generated from the table and added to the same FileMap.
//
// # Basic Usage
//
//	t := router.New()
//	t.Route("/", router.Static("<h1>Home</h1>"))
//	t.Route("/old", router.Redirect("/"))
//
//	files, err := render.Render(t, render.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	html, _ := files.Get("index.html")
//
// Render never touches the filesystem. Use package publish to write a
// FileMap to a directory, an object store or an archive.
//
// # Redirect Pages
//
// DefaultRedirectPage inserts the target verbatim. Sites whose redirect
// targets come from untrusted input should set Config.RedirectPage to
// EscapedRedirectPage or sanitize targets before registering them.
package render
