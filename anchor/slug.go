package anchor

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Slugify converts heading content to a URL fragment identifier.
//
// The text is flattened, HTML entities are decoded, surrounding whitespace is
// trimmed, apostrophes are dropped and every URL-unsafe character becomes a
// hyphen. Hyphen runs collapse, leading and trailing hyphens are stripped and
// the result is lowercased. Non-ASCII letters are kept.
//
// Identical headings get identical slugs; no deduplication is done.
//
//	Slugify(Text(" ⚡⚡ Don't forget: URLs!")) // "⚡⚡-dont-forget-urls"
func Slugify(c Content) string {
	s := newlines.Replace(html.UnescapeString(Flatten(c)))
	s = strings.TrimFunc(s, isSpace)
	s = strings.ReplaceAll(s, "'", "")
	s = replaceUnsafe(s)
	s = stripHyphens(s)
	if s == "" {
		return ""
	}
	return cases.Lower(language.Und).String(s)
}

// SlugifyString is Slugify for plain text.
func SlugifyString(s string) string {
	return Slugify(Text(s))
}

// newlines folds CR and CRLF into LF the way an HTML parser does.
var newlines = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// unsafeChars need escaping in a URL fragment.
const unsafeChars = "& +$,:;=?@\"#{}|^~[`%!'<>]./()*\\\n\t\b\v\u00a0"

// replaceUnsafe maps unsafe characters to '-' and collapses hyphen runs.
func replaceUnsafe(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prev := false
	for _, r := range s {
		if r == '-' || strings.ContainsRune(unsafeChars, r) {
			if !prev {
				b.WriteByte('-')
				prev = true
			}
			continue
		}
		b.WriteRune(r)
		prev = false
	}
	return b.String()
}

// stripHyphens removes leading and trailing hyphens from every line.
func stripHyphens(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for {
		i := strings.IndexFunc(s, isLineTerminator)
		if i < 0 {
			b.WriteString(strings.Trim(s, "-"))
			return b.String()
		}
		b.WriteString(strings.Trim(s[:i], "-"))
		_, size := utf8.DecodeRuneInString(s[i:])
		b.WriteString(s[i : i+size])
		s = s[i+size:]
	}
}

func isLineTerminator(r rune) bool {
	return r == '\n' || r == '\u2028' || r == '\u2029'
}

// isSpace matches the whitespace and line terminators trimmed by String.prototype.trim.
func isSpace(r rune) bool {
	switch r {
	case '\t', '\v', '\f', '\r', ' ', '\u00a0', '\ufeff':
		return true
	}
	return isLineTerminator(r) || unicode.Is(unicode.Zs, r)
}
