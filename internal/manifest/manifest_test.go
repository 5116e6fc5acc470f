package manifest

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/pagebake/internal/errors"
	"github.com/vango-dev/pagebake/pkg/render"
	"github.com/vango-dev/pagebake/pkg/router"
)

func write(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func resolve(t *testing.T, tree *router.Tree) router.Table {
	t.Helper()
	table, err := router.Resolve(tree)
	require.NoError(t, err)
	return table
}

func code(t *testing.T, err error) string {
	t.Helper()
	var pe *errors.PagebakeError
	require.True(t, stderrors.As(err, &pe), "want *errors.PagebakeError, got %T: %v", err, err)
	return pe.Code
}

func TestParseExampleSite(t *testing.T) {
	src := `
route "/" {
  html = "<h1>Home</h1>"
}

nest "/blog" {
  route "/" { html = "<h1>Blog</h1>" }
  redirect "/old" { to = "/" }
}
`
	tree, err := Parse([]byte(src), "site.hcl", t.TempDir())
	require.NoError(t, err)

	files, err := render.Render(tree, render.DefaultConfig())
	require.NoError(t, err)

	index, _ := files.Get("index.html")
	blog, _ := files.Get("blog/index.html")
	old, _ := files.Get("blog/old.html")
	assert.Equal(t, "<h1>Home</h1>", string(index))
	assert.Equal(t, "<h1>Blog</h1>", string(blog))
	assert.Equal(t, render.DefaultRedirectPage("/"), string(old))
}

func TestParseAllBlocks(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "pages/about.html", "<h1>About</h1>")

	src := `
route "/about" {
  file = "pages/about.html"
}

nest "/blog" {
  redirect "/latest" {
    to    = "/2024/hello"
    local = true
  }
  fallback { html = "blog 404" }
}

fallback {
  html = format("<h1>%s</h1>", upper(env.SITE_NAME))
}
`
	tree, err := Parse([]byte(src), "site.hcl", dir, WithEnv(map[string]string{"SITE_NAME": "docs"}))
	require.NoError(t, err)

	table := resolve(t, tree)
	assert.Equal(t, []string{"/about", "/blog/latest", "/blog/404", "/404"}, table.Paths())

	about, ok := table.Lookup("/about")
	require.True(t, ok)
	html, err := about.Endpoint.Content()
	require.NoError(t, err)
	assert.Equal(t, "<h1>About</h1>", html)
	assert.Equal(t, "site.hcl:2", about.Site)

	latest, _ := table.Lookup("/blog/latest")
	assert.Equal(t, "/blog/2024/hello", latest.Endpoint.Target())

	notFound, _ := table.Lookup("/404")
	html, err = notFound.Endpoint.Content()
	require.NoError(t, err)
	assert.Equal(t, "<h1>DOCS</h1>", html)
}

func TestLoadMerge(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "docs/site.hcl", `
route "/docs/" { html = "docs" }
route "/guide" { file = "guide.html" }
`)
	write(t, dir, "docs/guide.html", "guide")
	path := write(t, dir, "site.hcl", `
route "/" { html = "home" }
merge "docs/site.hcl" {}
`)

	tree, err := Load(context.Background(), path)
	require.NoError(t, err)

	table := resolve(t, tree)
	assert.Equal(t, []string{"/", "/docs/", "/guide"}, table.Paths())

	guide, _ := table.Lookup("/guide")
	html, err := guide.Endpoint.Content()
	require.NoError(t, err)
	assert.Equal(t, "guide", html, "file paths resolve against the merged manifest")
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name     string
		files    map[string]string
		wantCode string
		wantLine int
	}{
		{
			name:     "syntax",
			files:    map[string]string{"site.hcl": "route \"/\" {\n  html = \n}\n"},
			wantCode: "E111",
		},
		{
			name:     "unknown block",
			files:    map[string]string{"site.hcl": "page \"/\" {}\n"},
			wantCode: "E112",
			wantLine: 1,
		},
		{
			name:     "unknown attribute",
			files:    map[string]string{"site.hcl": "route \"/\" {\n  body = \"x\"\n}\n"},
			wantCode: "E112",
			wantLine: 2,
		},
		{
			name:     "no content",
			files:    map[string]string{"site.hcl": "\nroute \"/\" {}\n"},
			wantCode: "E113",
			wantLine: 2,
		},
		{
			name:     "both contents",
			files:    map[string]string{"site.hcl": "route \"/\" {\n  html = \"a\"\n  file = \"a.html\"\n}\n"},
			wantCode: "E113",
			wantLine: 1,
		},
		{
			name:     "missing page file",
			files:    map[string]string{"site.hcl": "route \"/\" { file = \"nope.html\" }\n"},
			wantCode: "E114",
			wantLine: 1,
		},
		{
			name:     "redirect without target",
			files:    map[string]string{"site.hcl": "redirect \"/old\" {}\n"},
			wantCode: "E112",
		},
		{
			name: "merge cycle",
			files: map[string]string{
				"site.hcl":  "merge \"other.hcl\" {}\n",
				"other.hcl": "\nmerge \"site.hcl\" {}\n",
			},
			wantCode: "E115",
			wantLine: 2,
		},
		{
			name:     "missing merge",
			files:    map[string]string{"site.hcl": "merge \"nope.hcl\" {}\n"},
			wantCode: "E110",
			wantLine: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			for name, content := range tt.files {
				write(t, dir, name, content)
			}

			_, err := Load(context.Background(), filepath.Join(dir, "site.hcl"))
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, code(t, err))

			if tt.wantLine > 0 {
				var pe *errors.PagebakeError
				require.True(t, stderrors.As(err, &pe))
				require.NotNil(t, pe.Location)
				assert.Equal(t, tt.wantLine, pe.Location.Line)
			}
		})
	}
}

func TestLoadMissingManifest(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "site.hcl"))
	require.Error(t, err)
	assert.Equal(t, "E110", code(t, err))
}

func TestDuplicateRoutesPointAtManifest(t *testing.T) {
	src := `
route "/about" { html = "a" }
route "/about" { html = "b" }
`
	_, err := Parse([]byte(src), "site.hcl", t.TempDir())
	require.ErrorIs(t, err, router.ErrDuplicateRoute)

	var re *router.Error
	require.ErrorAs(t, err, &re)
	assert.Equal(t, []string{"site.hcl:2", "site.hcl:3"}, re.Sites)
}

func TestMergeConflictIsReported(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "other.hcl", `fallback { html = "other" }`)
	path := write(t, dir, "site.hcl", `
fallback { html = "main" }
merge "other.hcl" {}
`)

	_, err := Load(context.Background(), path)
	assert.ErrorIs(t, err, router.ErrConflictingFallback)
}

func TestLoadCanceled(t *testing.T) {
	path := write(t, t.TempDir(), "site.hcl", `route "/" { html = "x" }`)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Load(ctx, path)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEnvObject(t *testing.T) {
	assert.True(t, envObject(nil).RawEquals(envObject(map[string]string{})))
	obj := envObject(map[string]string{"A": "1"})
	assert.Equal(t, "1", obj.GetAttr("A").AsString())
}
