package render

import (
	"fmt"
	"strings"
)

// RedirectPageFunc renders the HTML page materialized for a redirect.
type RedirectPageFunc func(target string) string

// redirectTemplate is the default redirect document. The target is
// substituted into the meta refresh, the script and the fallback link.
const redirectTemplate = `<!DOCTYPE HTML>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta http-equiv="refresh" content="0; url={target}">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Page Redirection</title>
</head>
<body>
    <script>
        (function() {
            window.location.replace({script_target});
        })();
    </script>

    <p>Redirecting to <a href="{target}">{link_text}</a>...</p>
</body>
</html>`

// DefaultRedirectPage renders a document that redirects with a meta refresh
// and a script, with a link for clients that support neither.
//
// The target is inserted verbatim, without escaping. Callers that accept
// targets from untrusted input must sanitize them first or use
// EscapedRedirectPage.
func DefaultRedirectPage(target string) string {
	return strings.NewReplacer(
		"{target}", target,
		"{script_target}", fmt.Sprintf(`"%s"`, target),
		"{link_text}", target,
	).Replace(redirectTemplate)
}

// EscapedRedirectPage renders the same document as DefaultRedirectPage with
// the target escaped for each context it appears in.
func EscapedRedirectPage(target string) string {
	escaped := escapeAttr(target)
	return strings.NewReplacer(
		"{target}", escaped,
		"{script_target}", escapeJSString(target),
		"{link_text}", escaped,
	).Replace(redirectTemplate)
}
