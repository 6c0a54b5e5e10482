// Package sanitize provides text normalization utilities shared by the
// search engine: URL slugs and literal LIKE patterns.
package sanitize

import "strings"

// Slug derives a URL-safe slug from a title. The result depends on the
// title alone: lower-case it, drop everything except [a-z0-9], whitespace
// and hyphens, turn whitespace runs into one hyphen, collapse hyphen runs,
// and trim hyphens from both ends.
func Slug(title string) string {
	lowered := strings.ToLower(title)

	var b strings.Builder
	b.Grow(len(lowered))

	pendingHyphen := false
	for _, r := range lowered {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		case r == '-' || isSlugSpace(r):
			pendingHyphen = true
		}
	}

	return b.String()
}

// isSlugSpace matches the whitespace set stored slugs were generated with,
// including NBSP and the byte order mark.
func isSlugSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', ' ',
		'\u00a0', '\u1680', '\u2028', '\u2029', '\u202f', '\u205f', '\u3000', '\ufeff':
		return true
	}
	return r >= '\u2000' && r <= '\u200a'
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ContainsPattern returns an ILIKE pattern matching s as a literal substring.
func ContainsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
