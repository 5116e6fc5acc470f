package manifest

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"

	"github.com/vango-dev/pagebake/internal/errors"
	"github.com/vango-dev/pagebake/pkg/router"
)

var levelSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "route", LabelNames: []string{"path"}},
		{Type: "redirect", LabelNames: []string{"path"}},
		{Type: "fallback"},
		{Type: "nest", LabelNames: []string{"prefix"}},
		{Type: "merge", LabelNames: []string{"file"}},
	},
}

type pageAttrs struct {
	HTML *string `hcl:"html,optional"`
	File *string `hcl:"file,optional"`
}

type redirectAttrs struct {
	To    string `hcl:"to"`
	Local bool   `hcl:"local,optional"`
}

// Option configures a load.
type Option func(*loader)

// WithEnv replaces the process environment exposed as the env object.
func WithEnv(env map[string]string) Option {
	return func(l *loader) {
		l.env = env
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(l *loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

type loader struct {
	ctx     context.Context
	parser  *hclparse.Parser
	evalCtx *hcl.EvalContext
	env     map[string]string
	logger  *slog.Logger

	// loading holds the absolute paths of the manifests being loaded, to
	// detect merge cycles.
	loading map[string]bool
}

func newLoader(ctx context.Context, opts []Option) *loader {
	l := &loader{
		ctx:     ctx,
		parser:  hclparse.NewParser(),
		logger:  slog.Default().With("component", "manifest"),
		loading: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.env == nil {
		l.env = environ()
	}
	l.evalCtx = &hcl.EvalContext{
		Variables: map[string]cty.Value{"env": envObject(l.env)},
		Functions: map[string]function.Function{
			"upper":     stdlib.UpperFunc,
			"lower":     stdlib.LowerFunc,
			"trimspace": stdlib.TrimSpaceFunc,
			"format":    stdlib.FormatFunc,
			"join":      stdlib.JoinFunc,
		},
	}
	return l
}

// Load reads the manifest at path and every manifest it merges.
func Load(ctx context.Context, path string, opts ...Option) (*router.Tree, error) {
	return newLoader(ctx, opts).loadFile(path, nil)
}

// Parse builds a tree from manifest source. filename is used in positions;
// page files and merged manifests are resolved against baseDir.
func Parse(src []byte, filename, baseDir string, opts ...Option) (*router.Tree, error) {
	l := newLoader(context.Background(), opts)

	file, diags := l.parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, diagError("E111", diags)
	}
	return l.decodeFile(file.Body, baseDir)
}

func (l *loader) loadFile(path string, from *hcl.Range) (*router.Tree, error) {
	if err := l.ctx.Err(); err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.New("E110").Wrap(err)
	}
	if l.loading[abs] {
		return nil, withRange(errors.New("E115").
			WithDetail(fmt.Sprintf("%s is already being loaded", path)), from)
	}

	src, err := os.ReadFile(path)
	if err != nil {
		code := "E114"
		if os.IsNotExist(err) {
			code = "E110"
		}
		return nil, withRange(errors.New(code).Wrap(err), from)
	}

	l.logger.Debug("loading manifest", slog.String("path", path))

	file, diags := l.parser.ParseHCL(src, path)
	if diags.HasErrors() {
		return nil, diagError("E111", diags)
	}

	l.loading[abs] = true
	defer delete(l.loading, abs)

	return l.decodeFile(file.Body, filepath.Dir(path))
}

func (l *loader) decodeFile(body hcl.Body, baseDir string) (*router.Tree, error) {
	t := router.New()
	if err := l.decodeLevel(t, body, baseDir); err != nil {
		return nil, err
	}
	return t, nil
}

// decodeLevel registers the blocks of body on t in source order.
func (l *loader) decodeLevel(t *router.Tree, body hcl.Body, baseDir string) error {
	content, diags := body.Content(levelSchema)
	if diags.HasErrors() {
		return diagError("E112", diags)
	}

	for _, block := range content.Blocks {
		source := router.WithSource(site(block.DefRange))

		switch block.Type {
		case "route":
			page, err := l.decodePage(block, baseDir)
			if err != nil {
				return err
			}
			if err := t.Route(block.Labels[0], page, source); err != nil {
				return err
			}

		case "redirect":
			var attrs redirectAttrs
			if diags := gohcl.DecodeBody(block.Body, l.evalCtx, &attrs); diags.HasErrors() {
				return diagError("E112", diags)
			}
			endpoint := router.Redirect(attrs.To)
			if attrs.Local {
				endpoint = router.LocalRedirect(attrs.To)
			}
			if err := t.Route(block.Labels[0], endpoint, source); err != nil {
				return err
			}

		case "fallback":
			page, err := l.decodePage(block, baseDir)
			if err != nil {
				return err
			}
			if err := t.Fallback(page, source); err != nil {
				return err
			}

		case "nest":
			sub := router.New()
			if err := l.decodeLevel(sub, block.Body, baseDir); err != nil {
				return err
			}
			if err := t.Nest(block.Labels[0], sub, source); err != nil {
				return err
			}

		case "merge":
			if diags := gohcl.DecodeBody(block.Body, l.evalCtx, &struct{}{}); diags.HasErrors() {
				return diagError("E112", diags)
			}
			rng := block.DefRange
			other, err := l.loadFile(resolvePath(baseDir, block.Labels[0]), &rng)
			if err != nil {
				return err
			}
			if err := t.Merge(other); err != nil {
				return err
			}
		}
	}

	return nil
}

// decodePage reads the html or file attribute of a route or fallback block.
func (l *loader) decodePage(block *hcl.Block, baseDir string) (router.Endpoint, error) {
	var attrs pageAttrs
	if diags := gohcl.DecodeBody(block.Body, l.evalCtx, &attrs); diags.HasErrors() {
		return router.Endpoint{}, diagError("E112", diags)
	}

	switch {
	case attrs.HTML != nil && attrs.File != nil:
		return router.Endpoint{}, withRange(errors.New("E113").
			WithDetail("A route cannot set both 'html' and 'file'."), &block.DefRange)

	case attrs.HTML != nil:
		return router.Static(*attrs.HTML), nil

	case attrs.File != nil:
		path := resolvePath(baseDir, *attrs.File)
		data, err := os.ReadFile(path)
		if err != nil {
			return router.Endpoint{}, withRange(errors.New("E114").Wrap(err), &block.DefRange)
		}
		return router.Static(string(data)), nil

	default:
		return router.Endpoint{}, withRange(errors.New("E113"), &block.DefRange)
	}
}

func resolvePath(baseDir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, filepath.FromSlash(path))
}

func site(r hcl.Range) string {
	return fmt.Sprintf("%s:%d", r.Filename, r.Start.Line)
}

func withRange(e *errors.PagebakeError, r *hcl.Range) *errors.PagebakeError {
	if r == nil {
		return e
	}
	return e.WithLocation(r.Filename, r.Start.Line, r.Start.Column)
}

// diagError converts HCL diagnostics, locating the first error.
func diagError(code string, diags hcl.Diagnostics) *errors.PagebakeError {
	e := errors.New(code).Wrap(diags.Errs()[0])
	for _, d := range diags {
		if d.Severity == hcl.DiagError && d.Subject != nil {
			return withRange(e, d.Subject)
		}
	}
	return e
}

func environ() map[string]string {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok && k != "" {
			env[k] = v
		}
	}
	return env
}

func envObject(env map[string]string) cty.Value {
	if len(env) == 0 {
		return cty.EmptyObjectVal
	}
	vals := make(map[string]cty.Value, len(env))
	for k, v := range env {
		vals[k] = cty.StringVal(v)
	}
	return cty.ObjectVal(vals)
}
