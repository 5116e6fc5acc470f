package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/vango-dev/pagebake/internal/errors"
	"github.com/vango-dev/pagebake/pkg/lists"
)

const (
	// ConfigFileName is the preferred configuration file.
	ConfigFileName = "pagebake.toml"

	// JSONConfigFileName is read when no pagebake.toml exists.
	JSONConfigFileName = "pagebake.json"

	// DefaultManifest is the site manifest, relative to the project root.
	DefaultManifest = "site.hcl"

	// DefaultOutput is the default build output directory.
	DefaultOutput = "dist"

	// DefaultFallbackName is the file name fallbacks render to, without
	// extension.
	DefaultFallbackName = "404"

	// DefaultArchive is the default SQLite archive path.
	DefaultArchive = "site.sqlar"
)

// Publish targets.
const (
	TargetDir   = "dir"
	TargetS3    = "s3"
	TargetSQLar = "sqlar"
	TargetNone  = "none"
)

// Targets lists the accepted publish targets.
func Targets() []string {
	return []string{TargetDir, TargetS3, TargetSQLar, TargetNone}
}

// Config is the project configuration.
type Config struct {
	// Name is the project name.
	Name string `toml:"name,omitempty" json:"name,omitempty"`

	// Manifest is the site manifest path.
	Manifest string `toml:"manifest,omitempty" json:"manifest,omitempty"`

	// BaseURL prefixes paths in sitemaps (e.g., "https://example.com").
	BaseURL string `toml:"base_url,omitempty" json:"base_url,omitempty"`

	// Build contains rendering settings.
	Build BuildConfig `toml:"build" json:"build"`

	// Publish selects where rendered files are written.
	Publish PublishConfig `toml:"publish" json:"publish"`

	// configPath is the path the config was loaded from.
	configPath string
}

// BuildConfig contains rendering settings.
type BuildConfig struct {
	// Output is the directory the "dir" target writes to.
	Output string `toml:"output,omitempty" json:"output,omitempty"`

	// FallbackName is the path segment fallback pages resolve to.
	FallbackName string `toml:"fallback_name,omitempty" json:"fallback_name,omitempty"`

	// ResolveRedirectChains points redirects at the end of their chain.
	ResolveRedirectChains bool `toml:"resolve_redirect_chains,omitempty" json:"resolve_redirect_chains,omitempty"`

	// Workers is the number of pages rendered and files written at once.
	Workers int `toml:"workers,omitempty" json:"workers,omitempty"`

	// RedirectLists names the redirect list formats to emit.
	RedirectLists []string `toml:"redirect_lists,omitempty" json:"redirect_lists,omitempty"`

	// RouteLists names the route list formats to emit.
	RouteLists []string `toml:"route_lists,omitempty" json:"route_lists,omitempty"`

	// IncludeRedirectsInLists adds redirect sources to route lists.
	IncludeRedirectsInLists bool `toml:"include_redirects_in_lists,omitempty" json:"include_redirects_in_lists,omitempty"`

	// MetricsFile, when set, receives build metrics in the Prometheus text
	// format.
	MetricsFile string `toml:"metrics_file,omitempty" json:"metrics_file,omitempty"`

	// Clean empties the output directory before writing.
	Clean bool `toml:"clean,omitempty" json:"clean,omitempty"`
}

// PublishConfig selects where rendered files are written.
type PublishConfig struct {
	// Target is one of "dir", "s3", "sqlar" or "none".
	Target string `toml:"target,omitempty" json:"target,omitempty"`

	S3    S3Config    `toml:"s3,omitempty" json:"s3,omitempty"`
	SQLar SQLarConfig `toml:"sqlar,omitempty" json:"sqlar,omitempty"`
}

// S3Config configures the "s3" target. Credentials come from the
// environment.
type S3Config struct {
	Bucket    string `toml:"bucket,omitempty" json:"bucket,omitempty"`
	Prefix    string `toml:"prefix,omitempty" json:"prefix,omitempty"`
	Region    string `toml:"region,omitempty" json:"region,omitempty"`
	Endpoint  string `toml:"endpoint,omitempty" json:"endpoint,omitempty"`
	PathStyle bool   `toml:"path_style,omitempty" json:"path_style,omitempty"`
}

// SQLarConfig configures the "sqlar" target.
type SQLarConfig struct {
	Path string `toml:"path,omitempty" json:"path,omitempty"`
}

// New creates a Config with default values.
func New() *Config {
	return &Config{
		Manifest: DefaultManifest,
		Build: BuildConfig{
			Output:       DefaultOutput,
			FallbackName: DefaultFallbackName,
			Workers:      1,
		},
		Publish: PublishConfig{
			Target: TargetDir,
			SQLar:  SQLarConfig{Path: DefaultArchive},
		},
	}
}

// Load reads pagebake.toml, or pagebake.json if there is no TOML file,
// from dir.
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, ConfigFileName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if alt := filepath.Join(dir, JSONConfigFileName); fileExists(alt) {
			path = alt
		}
	}
	return LoadFile(path)
}

// LoadFile reads configuration from path. The format follows the file
// extension: .json is JSON, anything else is TOML.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E100").
				WithDetail("No " + ConfigFileName + " found in " + filepath.Dir(path))
		}
		return nil, errors.New("E101").Wrap(err)
	}

	cfg := New()
	if isJSON(path) {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, errors.New("E101").
				WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error()).
				WithSuggestion("Check that the file is valid JSON")
		}
	} else {
		md, err := toml.Decode(string(data), cfg)
		if err != nil {
			perr := errors.New("E101").
				WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error()).
				WithSuggestion("Check that the file is valid TOML")
			if tomlErr, ok := err.(toml.ParseError); ok {
				perr.WithLocation(path, tomlErr.Position.Line, tomlErr.Position.Col)
			}
			return nil, perr
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return nil, errors.New("E102").
				WithDetail("Unknown keys in " + filepath.Base(path) + ": " + strings.Join(keys, ", "))
		}
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to path in the format its extension
// names.
func (c *Config) SaveTo(path string) error {
	var data []byte
	if isJSON(path) {
		out, err := json.MarshalIndent(c, "", "  ")
		if err != nil {
			return errors.New("E103").Wrap(err)
		}
		data = append(out, '\n')
	} else {
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(c); err != nil {
			return errors.New("E103").Wrap(err)
		}
		data = buf.Bytes()
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.New("E103").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Manifest == "" {
		c.Manifest = DefaultManifest
	}
	if c.Build.Output == "" {
		c.Build.Output = DefaultOutput
	}
	if c.Build.FallbackName == "" {
		c.Build.FallbackName = DefaultFallbackName
	}
	if c.Build.Workers == 0 {
		c.Build.Workers = 1
	}
	if c.Publish.Target == "" {
		c.Publish.Target = TargetDir
	}
	if c.Publish.SQLar.Path == "" {
		c.Publish.SQLar.Path = DefaultArchive
	}
}

// Validate checks list names, the publish target and the settings they
// depend on.
func (c *Config) Validate() error {
	if c.Build.Workers < 0 {
		return errors.New("E102").
			WithDetail(fmt.Sprintf("build.workers must not be negative, got %d", c.Build.Workers))
	}

	for _, name := range c.Build.RedirectLists {
		if _, err := lists.RedirectListByName(name); err != nil {
			return errors.New("E102").
				WithDetail(fmt.Sprintf("Unknown redirect list %q in build.redirect_lists", name)).
				WithSuggestion("Use one of: " + strings.Join(lists.RedirectProviders(), ", "))
		}
	}

	for _, name := range c.Build.RouteLists {
		if !slices.Contains(lists.RouteFormats(), name) {
			return errors.New("E102").
				WithDetail(fmt.Sprintf("Unknown route list %q in build.route_lists", name)).
				WithSuggestion("Use one of: " + strings.Join(lists.RouteFormats(), ", "))
		}
		if c.BaseURL == "" {
			return errors.New("E102").
				WithDetail(fmt.Sprintf("Route list %q needs base_url", name)).
				WithSuggestion(`Set base_url = "https://example.com" in ` + ConfigFileName)
		}
	}

	switch c.Publish.Target {
	case TargetDir, TargetSQLar, TargetNone:
	case TargetS3:
		if c.Publish.S3.Bucket == "" {
			return errors.New("E102").
				WithDetail("publish.s3.bucket is required for the s3 target")
		}
	default:
		return errors.New("E102").
			WithDetail(fmt.Sprintf("Unknown publish target %q", c.Publish.Target)).
			WithSuggestion("Use one of: " + strings.Join(Targets(), ", "))
	}

	return nil
}

// RedirectLists returns the configured redirect list generators.
func (c *Config) RedirectLists() ([]lists.RedirectList, error) {
	out := make([]lists.RedirectList, 0, len(c.Build.RedirectLists))
	for _, name := range c.Build.RedirectLists {
		l, err := lists.RedirectListByName(name)
		if err != nil {
			return nil, errors.New("E102").Wrap(err)
		}
		out = append(out, l)
	}
	return out, nil
}

// RouteLists returns the configured route list generators.
func (c *Config) RouteLists() ([]lists.RouteList, error) {
	out := make([]lists.RouteList, 0, len(c.Build.RouteLists))
	for _, name := range c.Build.RouteLists {
		l, err := lists.RouteListByName(name, c.BaseURL)
		if err != nil {
			return nil, errors.New("E102").Wrap(err)
		}
		l.IncludeRedirects = c.Build.IncludeRedirectsInLists
		out = append(out, l)
	}
	return out, nil
}

// OutputPath returns the absolute path of the output directory.
func (c *Config) OutputPath() string {
	return c.resolve(c.Build.Output)
}

// ManifestPath returns the absolute path of the site manifest.
func (c *Config) ManifestPath() string {
	return c.resolve(c.Manifest)
}

// ArchivePath returns the absolute path of the SQLite archive.
func (c *Config) ArchivePath() string {
	return c.resolve(c.Publish.SQLar.Path)
}

// MetricsPath returns the absolute path of the metrics file, or "".
func (c *Config) MetricsPath() string {
	if c.Build.MetricsFile == "" {
		return ""
	}
	return c.resolve(c.Build.MetricsFile)
}

func (c *Config) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.Dir(), path)
}

// Exists reports whether dir holds a configuration file.
func Exists(dir string) bool {
	return fileExists(filepath.Join(dir, ConfigFileName)) ||
		fileExists(filepath.Join(dir, JSONConfigFileName))
}

// FindProjectRoot walks up from startDir to the first directory with a
// configuration file.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("E100").
				WithDetail("No " + ConfigFileName + " found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads the configuration of the project containing the
// working directory.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	root, err := FindProjectRoot(wd)
	if err != nil {
		return nil, err
	}

	return Load(root)
}

func isJSON(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
