package render

import (
	"encoding/json"
	"strings"
)

// attrReplacer escapes text for an HTML attribute value or element content.
// Whitespace control characters are escaped so a value cannot break out of
// a quoted attribute across lines.
var attrReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
	"\n", "&#10;",
	"\r", "&#13;",
	"\t", "&#9;",
)

// escapeAttr escapes text for inclusion in HTML content or a quoted attribute.
func escapeAttr(s string) string {
	return attrReplacer.Replace(s)
}

// escapeJSString returns s as a double-quoted JavaScript string literal that
// is safe inside a <script> element: <, > and & are \u-escaped so the
// literal cannot close the script.
func escapeJSString(s string) string {
	data, err := json.Marshal(s)
	if err != nil {
		// Strings always marshal.
		return `""`
	}
	return string(data)
}
