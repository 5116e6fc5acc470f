// Package manifest builds a route tree from an HCL site manifest.
//
// A manifest describes one tree level. Blocks are registered in source
// order:
//
//	route "/" {
//	  html = "<h1>Home</h1>"
//	}
//
//	route "/about" {
//	  file = "pages/about.html"   # relative to this manifest
//	}
//
//	redirect "/old" {
//	  to = "/"
//	}
//
//	nest "/blog" {
//	  route "/" { file = "pages/blog.html" }
//	  redirect "/latest" {
//	    to    = "/2024/hello"
//	    local = true               # resolves to /blog/2024/hello
//	  }
//	  fallback { html = "<h1>No such post</h1>" }
//	}
//
//	merge "docs/site.hcl" {}        # merged into this level
//
//	fallback {
//	  html = format("<h1>Not found</h1><p>%s</p>", env.SITE_NAME)
//	}
//
// Expressions can read environment variables through the env object and
// call upper, lower, trimspace, format and join.
//
// Every route is registered with its manifest position, so composition
// errors such as duplicate routes point at "site.hcl:12".
package manifest
