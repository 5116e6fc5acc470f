package lists

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Redirect is a source path and the target it points to.
type Redirect struct {
	Source string
	Target string
}

// RedirectListFunc formats redirects as the content of one file.
type RedirectListFunc func(redirects []Redirect) string

// RedirectList is a generator for a redirect map file.
type RedirectList struct {
	// Name identifies the provider (e.g., "cloudflare").
	Name string

	// FileName is the output file, relative to the site root.
	FileName string

	// Render formats the redirects.
	Render RedirectListFunc
}

// Generate returns the file name and content for the given redirects.
// A list without a Render func produces an empty file.
func (l RedirectList) Generate(redirects []Redirect) (string, []byte) {
	if l.Render == nil {
		return l.FileName, []byte{}
	}
	return l.FileName, []byte(l.Render(redirects))
}

// Provider names accepted by RedirectListByName.
const (
	ProviderCloudflare      = "cloudflare"
	ProviderNetlify         = "netlify"
	ProviderStaticWebServer = "static-web-server"
	ProviderVercel          = "vercel"
)

// RedirectProviders lists the built-in provider names.
func RedirectProviders() []string {
	return []string{ProviderCloudflare, ProviderNetlify, ProviderStaticWebServer, ProviderVercel}
}

// RedirectListByName returns the built-in generator for a provider name.
func RedirectListByName(name string) (RedirectList, error) {
	switch name {
	case ProviderCloudflare:
		return Cloudflare(), nil
	case ProviderNetlify:
		return Netlify(), nil
	case ProviderStaticWebServer:
		return StaticWebServer(), nil
	case ProviderVercel:
		return Vercel(), nil
	default:
		return RedirectList{}, fmt.Errorf("lists: unknown redirect provider %q (want one of %s)",
			name, strings.Join(RedirectProviders(), ", "))
	}
}

// Cloudflare generates a Cloudflare Pages _redirects file: one
// "source target" line per redirect, joined by newlines.
func Cloudflare() RedirectList {
	return RedirectList{
		Name:     ProviderCloudflare,
		FileName: "_redirects",
		Render: func(redirects []Redirect) string {
			lines := make([]string, len(redirects))
			for i, r := range redirects {
				lines[i] = r.Source + " " + r.Target
			}
			return strings.Join(lines, "\n")
		},
	}
}

// Netlify generates a Netlify _redirects file: one "source target 302"
// line per redirect, newline terminated.
func Netlify() RedirectList {
	return RedirectList{
		Name:     ProviderNetlify,
		FileName: "_redirects",
		Render: func(redirects []Redirect) string {
			var sb strings.Builder
			for _, r := range redirects {
				fmt.Fprintf(&sb, "%s %s 302\n", r.Source, r.Target)
			}
			return sb.String()
		},
	}
}

// StaticWebServer generates the [advanced] redirects section of a
// Static Web Server config.toml.
func StaticWebServer() RedirectList {
	return RedirectList{
		Name:     ProviderStaticWebServer,
		FileName: "config.toml",
		Render: func(redirects []Redirect) string {
			tables := make([]string, len(redirects))
			for i, r := range redirects {
				tables[i] = fmt.Sprintf("[[advanced.redirects]]\nsource = \"%s\"\ndestination = \"%s\"\nkind = 302",
					tomlEscape(r.Source), tomlEscape(r.Target))
			}
			return "[advanced]\n\n" + strings.Join(tables, "\n\n")
		},
	}
}

type vercelConfig struct {
	Redirects []vercelRedirect `json:"redirects"`
}

type vercelRedirect struct {
	Source      string `json:"source"`
	Destination string `json:"destination"`
	Permanent   bool   `json:"permanent"`
}

// Vercel generates a vercel.json containing only the redirects array.
func Vercel() RedirectList {
	return RedirectList{
		Name:     ProviderVercel,
		FileName: "vercel.json",
		Render: func(redirects []Redirect) string {
			cfg := vercelConfig{Redirects: make([]vercelRedirect, len(redirects))}
			for i, r := range redirects {
				cfg.Redirects[i] = vercelRedirect{Source: r.Source, Destination: r.Target}
			}
			data, err := json.MarshalIndent(cfg, "", "  ")
			if err != nil {
				// Only strings and bools; Marshal cannot fail.
				panic(err)
			}
			return string(data) + "\n"
		},
	}
}

// tomlEscape escapes the characters a TOML basic string cannot hold verbatim.
func tomlEscape(s string) string {
	if !strings.ContainsAny(s, "\"\\") {
		return s
	}
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}
