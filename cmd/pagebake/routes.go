package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vango-dev/pagebake/internal/config"
	"github.com/vango-dev/pagebake/internal/manifest"
	"github.com/vango-dev/pagebake/pkg/routepath"
	"github.com/vango-dev/pagebake/pkg/router"
)

func routesCmd() *cobra.Command {
	var tree bool

	cmd := &cobra.Command{
		Use:   "routes",
		Short: "List resolved routes",
		Long: `List every route of the site with the file it renders to.

With --tree, print the route tree as declared in the manifest instead
of the resolved table.

Examples:
  pagebake routes
  pagebake routes --tree`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFromWorkingDir()
			if err != nil {
				return err
			}

			t, err := manifest.Load(cmd.Context(), cfg.ManifestPath())
			if err != nil {
				return err
			}

			if tree {
				return printTree(cmd.OutOrStdout(), t)
			}
			return printRoutes(cmd.OutOrStdout(), t, cfg.Build.FallbackName)
		},
	}

	cmd.Flags().BoolVar(&tree, "tree", false, "Print the route tree instead of the resolved table")

	return cmd
}

// printRoutes prints the resolved table as aligned columns.
func printRoutes(w io.Writer, t *router.Tree, fallbackName string) error {
	table, err := router.Resolve(t, router.WithFallbackName(fallbackName))
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PATH\tSOURCE\tFILE\tTARGET\tSITE")
	for _, e := range table.Entries {
		target := "-"
		if e.Endpoint.IsRedirect() {
			target = e.Endpoint.Target()
		}
		site := e.Site
		if site == "" {
			site = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", e.Path, e.Source, routepath.OutputFile(e.Path), target, site)
	}
	return tw.Flush()
}

// printTree prints every tree level indented by depth.
func printTree(w io.Writer, t *router.Tree) error {
	return t.Walk(func(prefix string, depth int, level *router.Tree) error {
		indent := strings.Repeat("  ", depth)
		name := prefix
		if name == "" {
			name = "/"
		}
		fmt.Fprintf(w, "%s%s\n", indent, name)

		for _, p := range level.Routes() {
			ep, _ := level.Endpoint(p)
			if ep.IsRedirect() {
				fmt.Fprintf(w, "%s  %s -> %s\n", indent, p, ep.Target())
				continue
			}
			fmt.Fprintf(w, "%s  %s\n", indent, p)
		}
		if level.HasFallback() {
			fmt.Fprintf(w, "%s  (fallback)\n", indent)
		}
		return nil
	})
}
