package pubmark

import (
	"net/url"
	"path"
	"strings"
)

// Slugify converts a title or file name to an ASCII slug for permalinks.
// Heading anchors use anchor.Slugify instead.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	prev := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prev = false
		default:
			if !prev && b.Len() > 0 {
				b.WriteByte('-')
				prev = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// NormalizePermalink turns a bare slug into "/blog/<slug>/" and makes sure
// absolute permalinks end with a slash.
func NormalizePermalink(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return ""
	}
	if !strings.HasPrefix(p, "/") {
		p = JoinPaths("/blog", p)
	}
	if !strings.HasSuffix(p, "/") {
		p += "/"
	}
	return p
}

// SlugFromPermalink returns the last path segment of a permalink.
func SlugFromPermalink(p string) string {
	return path.Base(strings.TrimSuffix(p, "/"))
}

// JoinPaths joins path parts with "/", dropping a leading "./" or "/" from
// every part after the first.
func JoinPaths(parts ...string) string {
	if len(parts) == 0 {
		return ""
	}
	out := []string{parts[0]}
	for _, p := range parts[1:] {
		p = strings.TrimSpace(p)
		p = strings.TrimPrefix(p, "./")
		p = strings.TrimPrefix(p, "/")
		out = append(out, p)
	}
	return strings.Join(out, "/")
}

// BuildURL joins a base URL with path segments, ensuring a trailing slash.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if len(pathSegments) > 0 && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// FilterEmpty removes empty/whitespace-only strings from a slice.
func FilterEmpty(vals []string) []string {
	var out []string
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			out = append(out, s)
		}
	}
	return out
}
