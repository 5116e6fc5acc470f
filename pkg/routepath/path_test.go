package routepath

import (
	"errors"
	"strings"
	"testing"
)

func TestJoin(t *testing.T) {
	tests := []struct {
		prefix string
		path   string
		want   string
	}{
		// Root joins
		{"", "/", "/"},
		{"", "", "/"},
		{"/", "/", "/"},
		{"/", "", "/"},
		{"", "/about", "/about"},
		{"/", "/about", "/about"},
		{"/", "about", "/about"},

		// Prefix without trailing slash
		{"/blog", "/", "/blog/"},
		{"/blog", "", "/blog/"},
		{"/blog", "/old", "/blog/old"},
		{"/blog", "old", "/blog/old"},
		{"/blog", "/posts/", "/blog/posts/"},

		// Prefix with trailing slash
		{"/blog/", "/old", "/blog/old"},
		{"/blog/", "old", "/blog/old"},
		{"/blog/", "/", "/blog/"},
		{"/blog//", "//old", "/blog/old"},

		// Prefix without leading slash
		{"blog", "/old", "/blog/old"},
		{"blog/", "old/", "/blog/old/"},

		// Deep prefixes
		{"/a/b", "/c", "/a/b/c"},
		{"/a/b/", "c/d/", "/a/b/c/d/"},
		{"/a//b", "/c", "/a/b/c"},

		// Fallback convention
		{"/blog", "/404", "/blog/404"},
		{"", "/404", "/404"},
	}

	for _, tt := range tests {
		got := Join(tt.prefix, tt.path)
		if got != tt.want {
			t.Errorf("Join(%q, %q) = %q, want %q", tt.prefix, tt.path, got, tt.want)
		}
		if strings.Contains(got, "//") {
			t.Errorf("Join(%q, %q) = %q contains a doubled separator", tt.prefix, tt.path, got)
		}
	}
}

func TestJoinPrefix(t *testing.T) {
	tests := []struct {
		prefix  string
		segment string
		want    string
	}{
		{"", "", ""},
		{"", "/", ""},
		{"/", "/", ""},
		{"", "/blog", "/blog"},
		{"", "/blog/", "/blog"},
		{"/blog", "/archive", "/blog/archive"},
		{"/blog/", "archive/", "/blog/archive"},
		{"/blog", "/", "/blog"},
	}

	for _, tt := range tests {
		if got := JoinPrefix(tt.prefix, tt.segment); got != tt.want {
			t.Errorf("JoinPrefix(%q, %q) = %q, want %q", tt.prefix, tt.segment, got, tt.want)
		}
	}
}

// Nesting a path under a prefix must equal joining the prefix with the path
// the subtree resolves to on its own.
func TestJoinAssociatesWithPrefix(t *testing.T) {
	prefixes := []string{"", "/", "/blog", "/blog/", "blog", "/a/b/"}
	inner := []string{"", "/x", "/x/"}
	paths := []string{"", "/", "/old", "old", "/posts/", "/404"}

	for _, outer := range prefixes {
		for _, in := range inner {
			for _, p := range paths {
				nested := Join(JoinPrefix(JoinPrefix("", outer), in), p)
				alone := Join(JoinPrefix("", in), p)
				if got := Join(outer, alone); got != nested {
					t.Errorf("outer=%q inner=%q path=%q: Join(outer, %q) = %q, nested = %q",
						outer, in, p, alone, got, nested)
				}
			}
		}
	}
}

func TestOutputFile(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/", "index.html"},
		{"", "index.html"},
		{"/about", "about.html"},
		{"/blog/", "blog/index.html"},
		{"/blog/old", "blog/old.html"},
		{"/blog/404", "blog/404.html"},
		{"/a/b/c/", "a/b/c/index.html"},
		{"/file.txt", "file.txt.html"},
	}

	for _, tt := range tests {
		if got := OutputFile(tt.path); got != tt.want {
			t.Errorf("OutputFile(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestIsIndex(t *testing.T) {
	if !IsIndex("/") || !IsIndex("/blog/") || !IsIndex("") {
		t.Error("directory paths should be index paths")
	}
	if IsIndex("/blog") {
		t.Error("/blog should not be an index path")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		path string
		want error
	}{
		{"/", nil},
		{"", nil},
		{"/blog/post-1", nil},
		{"about", nil},
		{"/a\\b", ErrBackslashInPath},
		{"/a\x00b", ErrNullByteInPath},
		{"/a?b=1", ErrQueryInPath},
		{"/a#top", ErrQueryInPath},
		{"/a/../b", ErrDotSegment},
		{"/./a", ErrDotSegment},
		{"..", ErrDotSegment},
	}

	for _, tt := range tests {
		err := Validate(tt.path)
		if !errors.Is(err, tt.want) {
			t.Errorf("Validate(%q) = %v, want %v", tt.path, err, tt.want)
		}
	}
}
