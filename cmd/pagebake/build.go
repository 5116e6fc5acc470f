package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vango-dev/pagebake/internal/build"
	"github.com/vango-dev/pagebake/internal/config"
)

type buildFlags struct {
	output      string
	baseURL     string
	target      string
	workers     int
	metricsFile string
	clean       bool
}

func buildCmd() *cobra.Command {
	var flags buildFlags

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Render and publish the site",
		Long: `Render the site described by the manifest and publish it.

This command:
  • Loads the site manifest (site.hcl)
  • Resolves the route tree into absolute paths
  • Renders every page, redirect page and list file
  • Writes the files to the configured target

Examples:
  pagebake build
  pagebake build --output=public
  pagebake build --target=sqlar
  pagebake build --base-url=https://example.com`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(flags)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output directory (default from pagebake.toml)")
	cmd.Flags().StringVar(&flags.baseURL, "base-url", "", "Base URL for sitemaps")
	cmd.Flags().StringVar(&flags.target, "target", "", "Publish target (dir, s3, sqlar, none)")
	cmd.Flags().IntVarP(&flags.workers, "workers", "j", 0, "Pages rendered and files written at once")
	cmd.Flags().StringVar(&flags.metricsFile, "metrics-file", "", "Write build metrics to this file")
	cmd.Flags().BoolVar(&flags.clean, "clean", false, "Clean output directory before build")

	return cmd
}

// applyBuildFlags copies explicitly set flags over the loaded config.
func applyBuildFlags(cfg *config.Config, flags buildFlags) {
	if flags.output != "" {
		cfg.Build.Output = flags.output
	}
	if flags.baseURL != "" {
		cfg.BaseURL = flags.baseURL
	}
	if flags.target != "" {
		cfg.Publish.Target = flags.target
	}
	if flags.workers > 0 {
		cfg.Build.Workers = flags.workers
	}
	if flags.metricsFile != "" {
		cfg.Build.MetricsFile = flags.metricsFile
	}
	if flags.clean {
		cfg.Build.Clean = true
	}
}

func runBuild(flags buildFlags) error {
	cfg, err := config.LoadFromWorkingDir()
	if err != nil {
		return err
	}

	applyBuildFlags(cfg, flags)
	if err := cfg.Validate(); err != nil {
		return err
	}

	fmt.Println("  Building site...")
	fmt.Println()

	builder := build.New(cfg, build.Options{
		OnProgress: func(step string) {
			info(step)
		},
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := builder.Build(ctx)
	if err != nil {
		if result != nil && result.Written > 0 {
			warn("%d files were written before the build failed", result.Written)
		}
		return err
	}

	fmt.Println()
	success("Build complete in %s", result.Duration.Round(time.Millisecond))
	fmt.Println()
	fmt.Printf("  Pages:      %d\n", result.Pages)
	fmt.Printf("  Redirects:  %d\n", result.Redirects)
	fmt.Printf("  Fallbacks:  %d\n", result.Fallbacks)
	fmt.Printf("  List files: %d\n", result.ListFiles)
	fmt.Println()

	switch result.Target {
	case config.TargetNone:
		info("Rendered %d files (%s), nothing published", result.Files.Len(), formatBytes(result.Files.Size()))
	case config.TargetDir:
		info("Wrote %d files (%s) to %s/", result.Written, formatBytes(result.Bytes), cfg.Build.Output)
	case config.TargetS3:
		info("Uploaded %d files (%s) to s3://%s/%s", result.Written, formatBytes(result.Bytes),
			cfg.Publish.S3.Bucket, cfg.Publish.S3.Prefix)
	case config.TargetSQLar:
		info("Archived %d files (%s) in %s", result.Written, formatBytes(result.Bytes), cfg.Publish.SQLar.Path)
	}
	fmt.Println()

	return nil
}

// formatBytes formats bytes as a human-readable string.
func formatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(b)/float64(div), "KMGTPE"[exp])
}
