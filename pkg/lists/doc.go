// Package lists generates the side files a static host reads next to the
// rendered pages: redirect maps and route lists such as sitemaps.
//
// Every generator is a pure formatting function over part of a resolved
// route table. Redirect lists receive the redirect entries; route lists
// receive the navigable pages (fallbacks and redirects excluded unless
// RouteList.IncludeRedirects is set).
//
// # Redirect list formats
//
// Cloudflare Pages (_redirects), one redirect per line, no trailing newline:
//
//	/old /
//	/blog/old /blog/
//
// Netlify (_redirects), with an explicit status:
//
//	/old / 302
//
// Static Web Server (config.toml):
//
//	[advanced]
//
//	[[advanced.redirects]]
//	source = "/old"
//	destination = "/"
//	kind = 302
//
// Vercel (vercel.json):
//
//	{
//	  "redirects": [
//	    {
//	      "source": "/old",
//	      "destination": "/",
//	      "permanent": false
//	    }
//	  ]
//	}
//
// # Route list formats
//
// Sitemap (sitemap.xml) lists base URL + path for every page in the
// sitemaps.org 0.9 schema. SitemapText (sitemap.txt) lists one URL per line.
package lists
