package build

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/vango-dev/pagebake/internal/config"
	"github.com/vango-dev/pagebake/internal/errors"
	"github.com/vango-dev/pagebake/internal/telemetry"
	"github.com/vango-dev/pagebake/pkg/publish"
	"github.com/vango-dev/pagebake/pkg/router"
)

const siteManifest = `
route "/" {
  html = "<h1>Home</h1>"
}

route "/about" {
  file = "pages/about.html"
}

nest "/blog" {
  route "/" { html = "<h1>Blog</h1>" }
  redirect "/old" { to = "/blog/new" }
  route "/new" { html = "<h1>New</h1>" }
}

fallback {
  html = "<h1>Not found</h1>"
}
`

// setupProject writes a project with the given config and returns its
// loaded configuration.
func setupProject(t *testing.T, configTOML string) *config.Config {
	t.Helper()
	dir := t.TempDir()

	files := map[string]string{
		config.ConfigFileName: configTOML,
		"site.hcl":            siteManifest,
		"pages/about.html":    "<h1>About</h1>",
	}
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	cfg, err := config.Load(dir)
	require.NoError(t, err)
	return cfg
}

func readOutput(t *testing.T, cfg *config.Config, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(cfg.OutputPath(), filepath.FromSlash(name)))
	require.NoError(t, err)
	return string(data)
}

func TestBuildToDirectory(t *testing.T) {
	cfg := setupProject(t, `
name = "docs"
base_url = "https://example.com"

[build]
redirect_lists = ["netlify"]
route_lists = ["sitemap-text"]
`)

	var steps []string
	result, err := New(cfg, Options{
		OnProgress: func(step string) { steps = append(steps, step) },
	}).Build(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, result.Pages)
	assert.Equal(t, 1, result.Redirects)
	assert.Equal(t, 1, result.Fallbacks)
	assert.Equal(t, 2, result.ListFiles)
	assert.Equal(t, config.TargetDir, result.Target)
	assert.Equal(t, int64(result.Files.Len()), result.Written)
	assert.Equal(t, result.Files.Size(), result.Bytes)
	assert.NotEmpty(t, steps)

	assert.Equal(t, "<h1>Home</h1>", readOutput(t, cfg, "index.html"))
	assert.Equal(t, "<h1>About</h1>", readOutput(t, cfg, "about.html"))
	assert.Equal(t, "<h1>New</h1>", readOutput(t, cfg, "blog/new.html"))
	assert.Equal(t, "<h1>Not found</h1>", readOutput(t, cfg, "404.html"))
	assert.Contains(t, readOutput(t, cfg, "blog/old.html"), `url=/blog/new`)
	assert.Contains(t, readOutput(t, cfg, "_redirects"), "/blog/old /blog/new")
	assert.Contains(t, readOutput(t, cfg, "sitemap.txt"), "https://example.com/about")
}

func TestBuildCleansOutput(t *testing.T) {
	cfg := setupProject(t, `
[build]
clean = true
`)
	stale := filepath.Join(cfg.OutputPath(), "stale.html")
	require.NoError(t, os.MkdirAll(cfg.OutputPath(), 0o755))
	require.NoError(t, os.WriteFile(stale, []byte("old"), 0o644))

	_, err := New(cfg, Options{}).Build(context.Background())
	require.NoError(t, err)

	_, err = os.Stat(stale)
	assert.True(t, os.IsNotExist(err), "stale file should be removed")
}

func TestBuildWithTreeAndSink(t *testing.T) {
	tree := router.New()
	require.NoError(t, tree.Route("/", router.Static("home")))
	require.NoError(t, tree.Route("/moved", router.Redirect("/")))

	sink := publish.NewMemorySink()
	result, err := New(config.New(), Options{Tree: tree, Sink: sink}).Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "custom", result.Target)

	got, err := sink.ReadFile("index.html")
	require.NoError(t, err)
	assert.Equal(t, "home", string(got))

	files, err := sink.Files()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"index.html", "moved.html"}, files)
}

func TestBuildTargetNone(t *testing.T) {
	cfg := setupProject(t, `
[publish]
target = "none"
`)
	result, err := New(cfg, Options{}).Build(context.Background())
	require.NoError(t, err)
	assert.Zero(t, result.Written)
	assert.NotZero(t, result.Files.Len())

	_, err = os.Stat(cfg.OutputPath())
	assert.True(t, os.IsNotExist(err), "nothing should be written")
}

func TestBuildToSQLiteArchive(t *testing.T) {
	cfg := setupProject(t, `
[publish]
target = "sqlar"

[publish.sqlar]
path = "out/site.sqlar"
`)
	require.NoError(t, os.MkdirAll(filepath.Join(cfg.Dir(), "out"), 0o755))

	result, err := New(cfg, Options{}).Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(result.Files.Len()), result.Written)

	archive, err := publish.OpenSQLiteArchive(cfg.ArchivePath())
	require.NoError(t, err)
	defer archive.Close()

	got, err := archive.ReadFile(context.Background(), "about.html")
	require.NoError(t, err)
	assert.Equal(t, "<h1>About</h1>", string(got))
}

func TestBuildStopsBeforePublishOnResolveError(t *testing.T) {
	tree := router.New()
	require.NoError(t, tree.Route("/a/b", router.Static("a")))
	sub := router.New()
	require.NoError(t, sub.Route("/b", router.Static("dup")))
	require.NoError(t, tree.Nest("/a", sub))

	written := 0
	sink := publish.SinkFunc(func(context.Context, string, []byte) error {
		written++
		return nil
	})

	_, err := New(config.New(), Options{Tree: tree, Sink: sink}).Build(context.Background())
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, router.ErrDuplicateResolvedPath))
	assert.Zero(t, written)
}

func TestBuildReportsWriteFailures(t *testing.T) {
	tree := router.New()
	require.NoError(t, tree.Route("/", router.Static("home")))
	require.NoError(t, tree.Route("/broken", router.Static("broken")))

	sink := publish.SinkFunc(func(_ context.Context, p string, _ []byte) error {
		if p == "broken.html" {
			return stderrors.New("disk full")
		}
		return nil
	})

	metrics := telemetry.NewMetrics()
	result, err := New(config.New(), Options{Tree: tree, Sink: sink, Metrics: metrics}).Build(context.Background())
	require.Error(t, err)

	var pe *publish.PersistError
	require.True(t, stderrors.As(err, &pe))
	require.Len(t, pe.Errors, 1)
	assert.Equal(t, "broken.html", pe.Errors[0].Path)

	require.NotNil(t, result)
	assert.Equal(t, int64(1), result.Written)

	classified, ok := errors.Classify(err)
	require.True(t, ok)
	assert.Equal(t, "E140", classified.Code)
}

func TestBuildManifestError(t *testing.T) {
	cfg := setupProject(t, "")
	require.NoError(t, os.Remove(cfg.ManifestPath()))

	_, err := New(cfg, Options{}).Build(context.Background())
	require.Error(t, err)

	var pe *errors.PagebakeError
	require.True(t, stderrors.As(err, &pe))
	assert.Equal(t, "E110", pe.Code)
}

func TestBuildUnknownTarget(t *testing.T) {
	cfg := config.New()
	cfg.Publish.Target = "ftp"
	tree := router.New()
	require.NoError(t, tree.Route("/", router.Static("home")))

	_, err := New(cfg, Options{Tree: tree}).Build(context.Background())
	var pe *errors.PagebakeError
	require.True(t, stderrors.As(err, &pe))
	assert.Equal(t, "E102", pe.Code)
}

func TestBuildWritesMetricsFile(t *testing.T) {
	cfg := setupProject(t, `
[build]
metrics_file = "metrics.prom"
`)
	_, err := New(cfg, Options{}).Build(context.Background())
	require.NoError(t, err)

	data, err := os.ReadFile(cfg.MetricsPath())
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, "pagebake_files_written_total 6")
	assert.Contains(t, text, `pagebake_entries_rendered_total{source="route"} 4`)
	assert.Contains(t, text, "pagebake_last_success_timestamp_seconds")
}

func TestBuildTracesPhases(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	cfg := setupProject(t, "")
	_, err := New(cfg, Options{
		Tracer: telemetry.NewTracer(telemetry.WithTracerProvider(provider)),
	}).Build(context.Background())
	require.NoError(t, err)

	var names []string
	for _, span := range recorder.Ended() {
		names = append(names, span.Name())
	}
	assert.Equal(t, []string{
		"pagebake.load",
		"pagebake.resolve",
		"pagebake.render",
		"pagebake.publish",
		"pagebake.build",
	}, names)
}

func TestClean(t *testing.T) {
	cfg := setupProject(t, "")
	require.NoError(t, os.MkdirAll(cfg.OutputPath(), 0o755))

	require.NoError(t, New(cfg, Options{}).Clean())
	_, err := os.Stat(cfg.OutputPath())
	assert.True(t, os.IsNotExist(err))
	assert.False(t, strings.HasSuffix(cfg.OutputPath(), string(filepath.Separator)))
}

func TestBuildCountsListFilesByName(t *testing.T) {
	cfg := setupProject(t, `
[build]
redirect_lists = ["cloudflare", "netlify"]
`)
	result, err := New(cfg, Options{}).Build(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.ListFiles, "both lists write _redirects")
	assert.Equal(t, result.Files.Len(), result.Pages+result.Redirects+result.Fallbacks+result.ListFiles)
}
