// Package build runs a complete site build for the pagebake command.
//
// A build has four phases, each traced as a span and timed in the
// pagebake_phase_duration_seconds histogram:
//
//  1. load: decode the site manifest into a route tree
//  2. resolve: flatten the tree into an absolute route table
//  3. render: produce every page, redirect page and list file in memory
//  4. publish: write the files to the configured target
//
// Nothing is published unless the first three phases succeed.
//
// # Usage
//
//	builder := build.New(cfg, build.Options{})
//	result, err := builder.Build(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Printf("Built %d pages in %s\n", result.Pages, result.Duration)
package build
