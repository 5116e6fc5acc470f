package render

import (
	"sort"
)

// FileMap maps output file paths ("index.html", "blog/old.html",
// "sitemap.xml") to their content. Paths are slash-separated and relative to
// the output root.
//
// Set overwrites: the last writer for a path wins. The renderer relies on
// this so that list generators registered later replace earlier ones that
// chose the same file name.
type FileMap map[string][]byte

// Set stores content at path, replacing any previous content.
func (m FileMap) Set(path string, content []byte) {
	m[path] = content
}

// Get returns the content stored at path.
func (m FileMap) Get(path string) ([]byte, bool) {
	content, ok := m[path]
	return content, ok
}

// Len returns the number of files.
func (m FileMap) Len() int {
	return len(m)
}

// Paths returns the file paths in lexical order.
func (m FileMap) Paths() []string {
	paths := make([]string, 0, len(m))
	for p := range m {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Size returns the total content size in bytes.
func (m FileMap) Size() int64 {
	var n int64
	for _, content := range m {
		n += int64(len(content))
	}
	return n
}

// Merge copies every file of other into m; other wins on conflicts.
func (m FileMap) Merge(other FileMap) {
	for p, content := range other {
		m[p] = content
	}
}
