package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vango-dev/pagebake/internal/config"
	"github.com/vango-dev/pagebake/internal/errors"
)

const starterManifest = `# Site manifest. See "pagebake routes --tree" for the resolved tree.

route "/" {
  html = "<h1>%s</h1>"
}

route "/about" {
  file = "pages/about.html"
}

nest "/blog" {
  route "/" {
    html = "<h1>Blog</h1>"
  }

  # Relative to /blog.
  redirect "/latest" {
    to    = "/"
    local = true
  }
}

fallback {
  html = "<h1>Page not found</h1>"
}
`

const starterAbout = "<h1>About</h1>\n"

func initCmd() *cobra.Command {
	var (
		name    string
		baseURL string
		force   bool
	)

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Create a new pagebake project",
		Long: `Create pagebake.toml and a starter site manifest.

Examples:
  pagebake init
  pagebake init my-site --base-url=https://example.com`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			return runInit(dir, name, baseURL, force)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Site name (default: directory name)")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "Base URL for sitemaps")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing files")

	return cmd
}

func runInit(dir, name, baseURL string, force bool) error {
	projectDir, err := filepath.Abs(dir)
	if err != nil {
		return err
	}

	if config.Exists(projectDir) && !force {
		return errors.New("E103").
			WithDetail("A pagebake project already exists in " + projectDir).
			WithSuggestion("Use --force to overwrite it")
	}

	if name == "" {
		name = filepath.Base(projectDir)
	}

	cfg := config.New()
	cfg.Name = name
	cfg.BaseURL = baseURL
	if baseURL != "" {
		cfg.Build.RouteLists = []string{"sitemap"}
	}

	files := map[string]string{
		config.DefaultManifest: fmt.Sprintf(starterManifest, name),
		"pages/about.html":     starterAbout,
	}

	info("Creating project in %s...", projectDir)
	for rel, content := range files {
		path := filepath.Join(projectDir, filepath.FromSlash(rel))
		if _, err := os.Stat(path); err == nil && !force {
			warn("Skipping %s (already exists)", rel)
			continue
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return err
		}
		info("Created %s", rel)
	}

	if err := cfg.SaveTo(filepath.Join(projectDir, config.ConfigFileName)); err != nil {
		return err
	}
	info("Created %s", config.ConfigFileName)

	fmt.Println()
	success("Project ready")
	fmt.Println()
	fmt.Println("  Next steps:")
	if dir != "." {
		fmt.Printf("    cd %s\n", dir)
	}
	fmt.Println("    pagebake build")
	fmt.Println()

	return nil
}
