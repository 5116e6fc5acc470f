package build

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/vango-dev/pagebake/internal/config"
	"github.com/vango-dev/pagebake/internal/errors"
	"github.com/vango-dev/pagebake/internal/manifest"
	"github.com/vango-dev/pagebake/internal/telemetry"
	"github.com/vango-dev/pagebake/pkg/publish"
	"github.com/vango-dev/pagebake/pkg/render"
	"github.com/vango-dev/pagebake/pkg/router"
)

// Build phases, used for progress, spans and metrics.
const (
	PhaseLoad    = "load"
	PhaseResolve = "resolve"
	PhaseRender  = "render"
	PhasePublish = "publish"
)

// Result contains the build output.
type Result struct {
	// Duration is how long the build took.
	Duration time.Duration

	// Table is the resolved route table.
	Table router.Table

	// Files is the rendered site.
	Files render.FileMap

	// Pages, Redirects and Fallbacks count the table entries by source.
	Pages     int
	Redirects int
	Fallbacks int

	// ListFiles counts generated redirect and route list files.
	ListFiles int

	// Target is the publish target used.
	Target string

	// Written and Bytes describe what reached the target.
	Written int64
	Bytes   int64
}

// Options configures the builder.
type Options struct {
	// Tree replaces the manifest named in the configuration.
	Tree *router.Tree

	// Sink replaces the publish target named in the configuration.
	Sink publish.Sink

	// Logger receives one Info record per phase. Default: slog.Default().
	Logger *slog.Logger

	// Metrics records build metrics. Default: a fresh private registry.
	Metrics *telemetry.Metrics

	// Tracer opens a span per phase. Default: the global provider.
	Tracer *telemetry.Tracer

	// OnProgress is called with progress updates.
	OnProgress func(step string)
}

// Builder runs a site build: load, resolve, render and publish.
type Builder struct {
	config  *config.Config
	options Options
	logger  *slog.Logger
}

// New creates a new builder.
func New(cfg *config.Config, options Options) *Builder {
	if options.Metrics == nil {
		options.Metrics = telemetry.NewMetrics()
	}
	if options.Tracer == nil {
		options.Tracer = telemetry.NewTracer()
	}

	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Builder{
		config:  cfg,
		options: options,
		logger:  logger.With("component", "build"),
	}
}

// Metrics returns the metrics the builder records into.
func (b *Builder) Metrics() *telemetry.Metrics {
	return b.options.Metrics
}

// Build performs a site build. Nothing is published unless loading,
// resolving and rendering all succeed.
func (b *Builder) Build(ctx context.Context) (result *Result, err error) {
	start := time.Now()
	result = &Result{Target: b.config.Publish.Target}
	if b.options.Sink != nil {
		result.Target = "custom"
	}

	ctx, span := b.options.Tracer.Start(ctx, "build",
		attribute.String("pagebake.site", b.config.Name),
		attribute.String("pagebake.target", result.Target),
	)
	defer func() {
		if metricsErr := b.writeMetrics(err == nil); metricsErr != nil && err == nil {
			err = metricsErr
		}
		telemetry.End(span, err)
	}()

	tree, err := b.load(ctx)
	if err != nil {
		return nil, err
	}

	table, err := b.resolve(ctx, tree)
	if err != nil {
		return nil, err
	}
	result.Table = table
	result.Pages = len(table.Pages())
	result.Redirects = len(table.Redirects())
	result.Fallbacks = len(table.Fallbacks())

	files, listFiles, err := b.render(ctx, table)
	if err != nil {
		return nil, err
	}
	result.Files = files
	result.ListFiles = listFiles

	b.options.Metrics.AddEntries(router.SourceRoute.String(), result.Pages)
	b.options.Metrics.AddEntries(router.SourceRedirect.String(), result.Redirects)
	b.options.Metrics.AddEntries(router.SourceFallback.String(), result.Fallbacks)
	b.options.Metrics.AddListFiles(result.ListFiles)

	stats, err := b.publish(ctx, files)
	result.Written = stats.Written
	result.Bytes = stats.Bytes
	result.Duration = time.Since(start)
	if err != nil {
		return result, err
	}

	b.options.Metrics.MarkSuccess(time.Now())
	return result, nil
}

func (b *Builder) load(ctx context.Context) (*router.Tree, error) {
	if b.options.Tree != nil {
		return b.options.Tree, nil
	}

	b.progress("Loading " + b.config.Manifest + "...")
	return phase(ctx, b, PhaseLoad, func(ctx context.Context) (*router.Tree, error) {
		return manifest.Load(ctx, b.config.ManifestPath(), manifest.WithLogger(b.logger))
	})
}

func (b *Builder) resolve(ctx context.Context, tree *router.Tree) (router.Table, error) {
	b.progress("Resolving routes...")
	table, err := phase(ctx, b, PhaseResolve, func(context.Context) (router.Table, error) {
		return router.Resolve(tree, router.WithFallbackName(b.config.Build.FallbackName))
	})
	if err == nil {
		b.logger.Info("resolved routes", slog.Int("entries", table.Len()))
	}
	return table, err
}

// render returns the rendered files and the number of list files among
// them.
func (b *Builder) render(ctx context.Context, table router.Table) (render.FileMap, int, error) {
	redirectLists, err := b.config.RedirectLists()
	if err != nil {
		return nil, 0, err
	}
	routeLists, err := b.config.RouteLists()
	if err != nil {
		return nil, 0, err
	}

	cfg := render.Config{
		RedirectPage:          render.DefaultRedirectPage,
		RedirectLists:         redirectLists,
		RouteLists:            routeLists,
		FallbackName:          b.config.Build.FallbackName,
		ResolveRedirectChains: b.config.Build.ResolveRedirectChains,
		Workers:               b.config.Build.Workers,
		Logger:                b.logger.With("component", "render"),
	}

	b.progress("Rendering pages...")
	files, err := phase(ctx, b, PhaseRender, func(context.Context) (render.FileMap, error) {
		return render.RenderTable(table, cfg)
	})
	if err != nil {
		return nil, 0, err
	}
	b.logger.Info("rendered site", slog.Int("files", files.Len()), slog.Int64("bytes", files.Size()))
	return files, len(cfg.ListFileNames()), nil
}

func (b *Builder) publish(ctx context.Context, files render.FileMap) (publish.Stats, error) {
	var stats publish.Stats

	sink, closeSink, err := b.openSink()
	if err != nil {
		return stats, err
	}
	if sink == nil {
		b.logger.Info("publish skipped", slog.String("target", config.TargetNone))
		return stats, nil
	}

	b.progress("Publishing to " + b.config.Publish.Target + "...")
	_, err = phase(ctx, b, PhasePublish, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, publish.Persist(ctx, files, sink,
			publish.WithConcurrency(b.config.Build.Workers),
			publish.WithLogger(b.logger.With("component", "publish")),
			publish.WithOnWrite(func(_ string, size int, err error) {
				b.options.Metrics.ObserveWrite(size, err)
			}),
			publish.WithStats(&stats),
		)
	})

	if closeErr := closeSink(); closeErr != nil && err == nil {
		err = errors.New("E141").Wrap(closeErr)
	}

	b.logger.Info("published site",
		slog.String("target", b.config.Publish.Target),
		slog.Int64("written", stats.Written),
		slog.Int64("failed", stats.Failed))
	return stats, err
}

// openSink builds the configured sink. It returns a nil sink for the
// "none" target.
func (b *Builder) openSink() (publish.Sink, func() error, error) {
	noClose := func() error { return nil }

	if b.options.Sink != nil {
		return b.options.Sink, noClose, nil
	}

	switch b.config.Publish.Target {
	case config.TargetNone:
		return nil, noClose, nil

	case config.TargetDir:
		sink, err := publish.NewDirSink(b.config.OutputPath())
		if err != nil {
			return nil, nil, errors.New("E141").Wrap(err)
		}
		if b.config.Build.Clean {
			b.progress("Cleaning output directory...")
			if err := sink.Clean(); err != nil {
				return nil, nil, errors.New("E141").Wrap(err)
			}
		}
		return sink, noClose, nil

	case config.TargetS3:
		s3cfg := b.config.Publish.S3
		client, err := publish.NewS3Client(publish.S3Options{
			Region:    s3cfg.Region,
			Endpoint:  s3cfg.Endpoint,
			PathStyle: s3cfg.PathStyle,
		})
		if err != nil {
			return nil, nil, errors.New("E141").Wrap(err)
		}
		return publish.NewS3Sink(client, s3cfg.Bucket, s3cfg.Prefix), noClose, nil

	case config.TargetSQLar:
		sink, err := publish.OpenSQLiteArchive(b.config.ArchivePath())
		if err != nil {
			return nil, nil, errors.New("E141").Wrap(err)
		}
		return sink, sink.Close, nil

	default:
		return nil, nil, errors.New("E102").
			WithDetail(fmt.Sprintf("Unknown publish target %q", b.config.Publish.Target))
	}
}

func (b *Builder) writeMetrics(success bool) error {
	path := b.config.MetricsPath()
	if path == "" {
		return nil
	}
	if err := b.options.Metrics.WriteTextfile(path); err != nil {
		return errors.New("E151").Wrap(err)
	}
	b.logger.Debug("wrote metrics", slog.String("path", path), slog.Bool("success", success))
	return nil
}

// phase runs fn inside a span, recording its duration and outcome.
func phase[T any](ctx context.Context, b *Builder, name string, fn func(context.Context) (T, error)) (T, error) {
	ctx, span := b.options.Tracer.Start(ctx, name)
	start := time.Now()

	out, err := fn(ctx)

	elapsed := time.Since(start)
	b.options.Metrics.ObservePhase(name, elapsed)
	telemetry.End(span, err)
	b.logger.Debug("phase done", slog.String("phase", name), slog.Duration("duration", elapsed), slog.Bool("ok", err == nil))
	return out, err
}

// progress reports build progress.
func (b *Builder) progress(step string) {
	if b.options.OnProgress != nil {
		b.options.OnProgress(step)
	}
}

// Clean removes the build output directory.
func (b *Builder) Clean() error {
	return os.RemoveAll(b.config.OutputPath())
}
