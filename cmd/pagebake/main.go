package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/pagebake/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// globalFlags are shared by every command.
type globalFlags struct {
	verbose   bool
	logFormat string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if pe, ok := errors.Classify(err); ok {
			err = pe
		}
		errors.Print(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var flags globalFlags

	rootCmd := &cobra.Command{
		Use:   "pagebake",
		Short: "Render a static site from a tree of routes",
		Long: `pagebake renders a static website described as a tree of routes.

A site manifest (site.hcl) declares pages, redirects, nested sections
and fallback pages. pagebake resolves the tree into absolute paths,
renders every page and redirect, generates host redirect files and
sitemaps, and publishes the result to a directory, an S3 bucket or a
SQLite archive.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(flags)
			if err != nil {
				return err
			}
			slog.SetDefault(logger)
			return nil
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Log debug output")
	rootCmd.PersistentFlags().StringVar(&flags.logFormat, "log-format", "text", "Log format (text, json)")

	rootCmd.AddCommand(
		buildCmd(),
		routesCmd(),
		initCmd(),
		versionCmd(),
	)

	return rootCmd
}

// newLogger builds the stderr logger selected by the global flags.
func newLogger(flags globalFlags) (*slog.Logger, error) {
	opts := &slog.HandlerOptions{Level: slog.LevelWarn}
	if flags.verbose {
		opts.Level = slog.LevelDebug
	}

	switch flags.logFormat {
	case "text", "":
		return slog.New(slog.NewTextHandler(os.Stderr, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(os.Stderr, opts)), nil
	default:
		return nil, errors.New("E150").
			WithDetail(fmt.Sprintf("Unknown log format %q", flags.logFormat)).
			WithSuggestion("Use --log-format=text or --log-format=json")
	}
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func warn(format string, args ...any) {
	fmt.Printf("\033[33m⚠\033[0m %s\n", fmt.Sprintf(format, args...))
}
