// Package config loads the pagebake project configuration.
//
// The configuration lives in pagebake.toml at the project root;
// pagebake.json with the same keys is read when no TOML file exists.
//
// # Configuration File Structure
//
//	name     = "my-site"
//	manifest = "site.hcl"
//	base_url = "https://example.com"
//
//	[build]
//	output                  = "dist"
//	fallback_name           = "404"
//	resolve_redirect_chains = true
//	workers                 = 4
//	redirect_lists          = ["cloudflare"]
//	route_lists             = ["sitemap"]
//	metrics_file            = "build.prom"
//	clean                   = true
//
//	[publish]
//	target = "dir" # dir, s3, sqlar or none
//
//	[publish.s3]
//	bucket = "my-site"
//	prefix = "www/"
//	region = "eu-west-1"
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package config
