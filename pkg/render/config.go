package render

import (
	"log/slog"
	"sort"

	"github.com/vango-dev/pagebake/pkg/lists"
)

// Config controls how a table is rendered.
type Config struct {
	// RedirectPage renders the document written for each redirect.
	// Default: DefaultRedirectPage.
	RedirectPage RedirectPageFunc

	// RedirectLists are generated in order from the redirect entries.
	// A later list replaces an earlier one with the same file name.
	RedirectLists []lists.RedirectList

	// RouteLists are generated in order from the page entries.
	RouteLists []lists.RouteList

	// FallbackName is the path segment fallbacks resolve to.
	// Default: router.DefaultFallbackName ("404").
	FallbackName string

	// ResolveRedirectChains points every redirect at the end of its chain.
	ResolveRedirectChains bool

	// Workers is the number of pages rendered concurrently.
	// Values below 2 render sequentially. Output does not depend on it.
	Workers int

	// Logger receives one Debug record per rendered file.
	// Default: slog.Default().
	Logger *slog.Logger
}

// DefaultConfig returns a Config with the default redirect page, no lists
// and sequential rendering.
func DefaultConfig() Config {
	return Config{
		RedirectPage: DefaultRedirectPage,
		Workers:      1,
	}
}

// ListFileNames returns the distinct file names the configured lists
// write, sorted.
func (c Config) ListFileNames() []string {
	seen := make(map[string]struct{})
	for _, l := range c.RedirectLists {
		seen[l.FileName] = struct{}{}
	}
	for _, l := range c.RouteLists {
		seen[l.FileName] = struct{}{}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (c Config) redirectPage() RedirectPageFunc {
	if c.RedirectPage == nil {
		return DefaultRedirectPage
	}
	return c.RedirectPage
}

func (c Config) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.Default().With("component", "render")
	}
	return c.Logger
}
