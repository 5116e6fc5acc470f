package render

import (
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/vango-dev/pagebake/pkg/lists"
	"github.com/vango-dev/pagebake/pkg/routepath"
	"github.com/vango-dev/pagebake/pkg/router"
)

var (
	// ErrPageFailed indicates a page generator that returned an error or
	// panicked. It aborts the render call.
	ErrPageFailed = errors.New("page failed")

	// ErrOutputCollision indicates two table entries whose paths map to the
	// same output file, such as "/docs/" and "/docs/index".
	ErrOutputCollision = errors.New("output collision")
)

// PageError describes a failure to produce the content of one entry.
type PageError struct {
	// Path is the absolute route path.
	Path string

	// File is the output file the entry maps to.
	File string

	// Site is where the entry was registered, when known.
	Site string

	// Kind is ErrPageFailed or ErrOutputCollision.
	Kind error

	// Err is the underlying cause.
	Err error
}

func (e *PageError) Error() string {
	msg := fmt.Sprintf("render: %s %q", e.Kind, e.Path)
	if e.File != "" {
		msg += fmt.Sprintf(" (%s)", e.File)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Site != "" {
		msg += " (registered at " + e.Site + ")"
	}
	return msg
}

func (e *PageError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Render resolves t and renders the resulting table.
// Resolution errors are returned unchanged and nothing is rendered.
func Render(t *router.Tree, cfg Config) (FileMap, error) {
	table, err := router.Resolve(t, router.WithFallbackName(cfg.FallbackName))
	if err != nil {
		return nil, err
	}
	return RenderTable(table, cfg)
}

// RenderTable renders every entry of table, then the configured lists.
//
// The table is assumed to come from router.Resolve. Entries are processed in
// table order and lists in configuration order, so the result is the same
// for any Config.Workers.
func RenderTable(table router.Table, cfg Config) (FileMap, error) {
	log := cfg.logger()

	if cfg.ResolveRedirectChains {
		var err error
		if table, err = router.ResolveRedirectChains(table); err != nil {
			return nil, err
		}
	}

	files, err := outputFiles(table)
	if err != nil {
		return nil, err
	}

	contents, err := renderEntries(table, files, cfg)
	if err != nil {
		return nil, err
	}

	out := make(FileMap, len(table.Entries)+len(cfg.RedirectLists)+len(cfg.RouteLists))
	for i, e := range table.Entries {
		out.Set(files[i], contents[i])
		log.Debug("rendered",
			slog.String("path", e.Path),
			slog.String("file", files[i]),
			slog.String("source", e.Source.String()),
			slog.Int("bytes", len(contents[i])))
	}

	if len(cfg.RedirectLists) > 0 {
		redirects := redirectsOf(table)
		for _, l := range cfg.RedirectLists {
			name, content := l.Generate(redirects)
			setList(out, log, l.Name, name, content)
		}
	}

	for _, l := range cfg.RouteLists {
		name, content := l.Generate(routesOf(table, l.IncludeRedirects))
		setList(out, log, l.Name, name, content)
	}

	return out, nil
}

func setList(out FileMap, log *slog.Logger, list, name string, content []byte) {
	if _, exists := out.Get(name); exists {
		log.Warn("list overwrites existing file",
			slog.String("list", list),
			slog.String("file", name))
	}
	out.Set(name, content)
	log.Debug("generated list",
		slog.String("list", list),
		slog.String("file", name),
		slog.Int("bytes", len(content)))
}

// outputFiles maps each entry to its output file and rejects collisions.
func outputFiles(table router.Table) ([]string, error) {
	files := make([]string, len(table.Entries))
	owner := make(map[string]int, len(table.Entries))
	var errs []error

	for i, e := range table.Entries {
		files[i] = routepath.OutputFile(e.Path)
		if j, taken := owner[files[i]]; taken {
			errs = append(errs, &PageError{
				Path: e.Path,
				File: files[i],
				Site: e.Site,
				Kind: ErrOutputCollision,
				Err:  fmt.Errorf("already written by %q", table.Entries[j].Path),
			})
			continue
		}
		owner[files[i]] = i
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return files, nil
}

// renderEntries produces the content of every entry, indexed like the table.
func renderEntries(table router.Table, files []string, cfg Config) ([][]byte, error) {
	redirectPage := cfg.redirectPage()
	contents := make([][]byte, len(table.Entries))

	renderOne := func(i int) error {
		e := table.Entries[i]
		content, err := renderEntry(e, redirectPage)
		if err != nil {
			return &PageError{Path: e.Path, File: files[i], Site: e.Site, Kind: ErrPageFailed, Err: err}
		}
		contents[i] = []byte(content)
		return nil
	}

	if cfg.Workers < 2 {
		for i := range table.Entries {
			if err := renderOne(i); err != nil {
				return nil, err
			}
		}
		return contents, nil
	}

	var g errgroup.Group
	g.SetLimit(cfg.Workers)
	for i := range table.Entries {
		g.Go(func() error { return renderOne(i) })
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return contents, nil
}

// renderEntry calls the page generator or the redirect renderer, turning a
// panic into an error.
func renderEntry(e router.Entry, redirectPage RedirectPageFunc) (content string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	if e.Endpoint.IsRedirect() {
		return redirectPage(e.Endpoint.Target()), nil
	}
	return e.Endpoint.Content()
}

func redirectsOf(table router.Table) []lists.Redirect {
	entries := table.Redirects()
	out := make([]lists.Redirect, len(entries))
	for i, e := range entries {
		out[i] = lists.Redirect{Source: e.Path, Target: e.Endpoint.Target()}
	}
	return out
}

// routesOf returns the navigable paths: explicit pages, plus redirect
// sources when includeRedirects is set. Fallbacks are never listed.
func routesOf(table router.Table, includeRedirects bool) []string {
	var out []string
	for _, e := range table.Entries {
		switch e.Source {
		case router.SourceRoute:
			out = append(out, e.Path)
		case router.SourceRedirect:
			if includeRedirects {
				out = append(out, e.Path)
			}
		}
	}
	return out
}
