package lists

import (
	"encoding/xml"
	"fmt"
	"strings"
)

// RouteListFunc formats absolute route paths as the content of one file.
type RouteListFunc func(paths []string) string

// RouteList is a generator for a route list file such as a sitemap.
type RouteList struct {
	// Name identifies the format (e.g., "sitemap").
	Name string

	// FileName is the output file, relative to the site root.
	FileName string

	// Render formats the paths.
	Render RouteListFunc

	// IncludeRedirects adds redirect sources to the listed paths.
	IncludeRedirects bool
}

// Generate returns the file name and content for the given paths.
// A list without a Render func produces an empty file.
func (l RouteList) Generate(paths []string) (string, []byte) {
	if l.Render == nil {
		return l.FileName, []byte{}
	}
	return l.FileName, []byte(l.Render(paths))
}

// Route list names accepted by RouteListByName.
const (
	FormatSitemap     = "sitemap"
	FormatSitemapText = "sitemap-text"
)

// RouteFormats lists the built-in route list names.
func RouteFormats() []string {
	return []string{FormatSitemap, FormatSitemapText}
}

// RouteListByName returns the built-in route list for a format name.
func RouteListByName(name, baseURL string) (RouteList, error) {
	switch name {
	case FormatSitemap:
		return Sitemap(baseURL), nil
	case FormatSitemapText:
		return SitemapText(baseURL), nil
	default:
		return RouteList{}, fmt.Errorf("lists: unknown route list %q (want one of %s)",
			name, strings.Join(RouteFormats(), ", "))
	}
}

const sitemapNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

type urlset struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc string `xml:"loc"`
}

// Sitemap generates sitemap.xml with one <url><loc> per path, prefixed by
// baseURL (e.g., "https://example.com").
func Sitemap(baseURL string) RouteList {
	base := strings.TrimRight(baseURL, "/")
	return RouteList{
		Name:     FormatSitemap,
		FileName: "sitemap.xml",
		Render: func(paths []string) string {
			set := urlset{Xmlns: sitemapNamespace, URLs: make([]sitemapURL, len(paths))}
			for i, p := range paths {
				set.URLs[i] = sitemapURL{Loc: base + p}
			}
			data, err := xml.MarshalIndent(set, "", "  ")
			if err != nil {
				// Only strings; Marshal cannot fail.
				panic(err)
			}
			return xml.Header + string(data)
		},
	}
}

// SitemapText generates sitemap.txt with one absolute URL per line.
func SitemapText(baseURL string) RouteList {
	base := strings.TrimRight(baseURL, "/")
	return RouteList{
		Name:     FormatSitemapText,
		FileName: "sitemap.txt",
		Render: func(paths []string) string {
			var sb strings.Builder
			for _, p := range paths {
				sb.WriteString(base)
				sb.WriteString(p)
				sb.WriteByte('\n')
			}
			return sb.String()
		},
	}
}
