package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/pagebake/internal/build"
	"github.com/vango-dev/pagebake/internal/config"
	"github.com/vango-dev/pagebake/internal/manifest"
	"github.com/vango-dev/pagebake/pkg/router"
)

func TestNewLogger(t *testing.T) {
	for _, format := range []string{"", "text", "json"} {
		logger, err := newLogger(globalFlags{logFormat: format})
		require.NoError(t, err, format)
		assert.NotNil(t, logger)
	}

	_, err := newLogger(globalFlags{logFormat: "xml"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "E150")
}

func TestApplyBuildFlags(t *testing.T) {
	cfg := config.New()
	applyBuildFlags(cfg, buildFlags{
		output:  "public",
		baseURL: "https://example.com",
		target:  config.TargetSQLar,
		workers: 4,
		clean:   true,
	})

	assert.Equal(t, "public", cfg.Build.Output)
	assert.Equal(t, "https://example.com", cfg.BaseURL)
	assert.Equal(t, config.TargetSQLar, cfg.Publish.Target)
	assert.Equal(t, 4, cfg.Build.Workers)
	assert.True(t, cfg.Build.Clean)

	untouched := config.New()
	applyBuildFlags(untouched, buildFlags{})
	assert.Equal(t, config.New(), untouched)
}

func exampleTree(t *testing.T) *router.Tree {
	t.Helper()
	blog := router.New()
	require.NoError(t, blog.Route("/", router.Static("blog")))
	require.NoError(t, blog.Route("/old", router.LocalRedirect("/")))

	site := router.New()
	require.NoError(t, site.Route("/", router.Static("home")))
	require.NoError(t, site.Nest("/blog", blog))
	require.NoError(t, site.Fallback(router.Static("missing")))
	return site
}

func TestPrintRoutes(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printRoutes(&buf, exampleTree(t), "404"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 5)
	assert.True(t, strings.HasPrefix(lines[0], "PATH"))
	assert.Contains(t, lines[3], "/blog/old")
	assert.Contains(t, lines[3], "/blog/")
	assert.Contains(t, lines[4], "404.html")
}

func TestPrintTree(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printTree(&buf, exampleTree(t)))

	assert.Equal(t, strings.Join([]string{
		"/",
		"  /",
		"  (fallback)",
		"  /blog",
		"    /",
		"    /old -> /",
		"",
	}, "\n"), buf.String())
}

func TestInitThenBuild(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, runInit(dir, "docs", "https://example.com", false))

	cfg, err := config.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "docs", cfg.Name)
	assert.Equal(t, []string{"sitemap"}, cfg.Build.RouteLists)

	tree, err := manifest.Load(context.Background(), cfg.ManifestPath())
	require.NoError(t, err)
	assert.True(t, tree.HasFallback())

	result, err := build.New(cfg, build.Options{}).Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, result.Pages)
	assert.Equal(t, 1, result.Redirects)

	sitemap, err := os.ReadFile(filepath.Join(cfg.OutputPath(), "sitemap.xml"))
	require.NoError(t, err)
	assert.Contains(t, string(sitemap), "https://example.com/about")
}

func TestInitRefusesExistingProject(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, runInit(dir, "", "", false))

	err := runInit(dir, "", "", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "E103")

	require.NoError(t, runInit(dir, "", "", true))
}
