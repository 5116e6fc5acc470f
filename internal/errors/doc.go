// Package errors provides the coded, actionable errors printed by the
// pagebake command.
//
// Library packages return plain sentinel-based errors. At the command
// boundary, Classify maps them to a registered code with a plain-language
// explanation, the manifest or source location involved, and a hint:
//
//	ERROR E121: Duplicate resolved path
//
//	  site.hcl:14
//
//	    12 │ nest "/blog" {
//	    13 │   route "/" { html = "<h1>Blog</h1>" }
//	  → 14 │   route "/old" { html = "old" }
//	    15 │ }
//
//	  Two routes resolve to the same absolute path after nest prefixes are
//	  joined.
//
//	  Hint: Rename one of the routes or move it under a different prefix.
//
// # Error Codes
//
//   - E100-E109 project configuration
//   - E110-E119 site manifest
//   - E120-E129 route tree composition and resolution
//   - E130-E139 page rendering
//   - E140-E149 publishing
//   - E150-E159 command line
package errors
