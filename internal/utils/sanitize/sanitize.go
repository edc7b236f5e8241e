// Package sanitize normalizes raw form input before it reaches the writer.
package sanitize

import (
	"html"
	"strings"
)

// unslash reverses backslash escaping of quotes added by legacy transports
// ("O\'Connor" -> "O'Connor"). Input without such escapes is unchanged.
var unslash = strings.NewReplacer(`\\`, `\`, `\'`, `'`, `\"`, `"`)

// decoder inverts exactly the entities Clean can produce (html.EscapeString
// output plus the &#039; / &quot; spellings). Anything else that merely
// looks like an entity, such as "&copy" or "a&ltb", is left as typed.
var decoder = strings.NewReplacer(
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&#39;", "'",
	"&#039;", "'",
	"&#34;", `"`,
	"&quot;", `"`,
)

// Clean trims, unescapes and HTML-encodes a raw form value.
//
// An absent field arrives as "" (url.Values.Get) and stays "". The result
// has <, >, &, ' and " encoded as entities. The handful of entities Clean
// itself emits are decoded first, so Clean(Clean(s)) == Clean(s) and
// plain text is never double-encoded. Invalid UTF-8 is replaced with
// U+FFFD; valid multi-byte characters pass through unchanged.
func Clean(raw string) string {
	s := strings.TrimSpace(raw)
	s = unslash.Replace(s)
	s = strings.ToValidUTF8(s, "\uFFFD")
	return html.EscapeString(Decode(s))
}

// Decode reverses the encoding applied by Clean and nothing more.
func Decode(s string) string {
	return decoder.Replace(s)
}
