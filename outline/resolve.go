package outline

import (
	"strings"

	"github.com/eringen/pubmark/anchor"
)

// Mode selects between diagnostic and production behavior.
type Mode int

const (
	// Development reports unresolved links.
	Development Mode = iota
	// Production degrades unresolved links silently.
	Production
)

// ParseMode maps "production" to Production and anything else to Development.
func ParseMode(s string) Mode {
	if strings.EqualFold(strings.TrimSpace(s), "production") {
		return Production
	}
	return Development
}

func (m Mode) String() string {
	if m == Production {
		return "production"
	}
	return "development"
}

// Logger receives diagnostics. echo.Logger satisfies it.
type Logger interface {
	Warnf(format string, args ...interface{})
}

// Resolver turns paragraph titles into URL fragments.
type Resolver struct {
	Mode   Mode
	Logger Logger
}

// Fragment returns "#<slug>" for a title found in root. An empty title
// yields "". A title that cannot be found also yields "", so the link points
// at the whole document; in Development mode a warning is logged.
func (r Resolver) Fragment(root *Node, title string) string {
	if title == "" {
		return ""
	}
	n, ok := FindParagraph(root, title)
	if ok {
		return "#" + anchor.SlugifyString(n.Title)
	}
	r.Warnf("paragraph %q not found in outline:\n%s", title, root)
	return ""
}

// Link appends the fragment for title to permalink.
func (r Resolver) Link(permalink string, root *Node, title string) string {
	return permalink + r.Fragment(root, title)
}

// Warnf logs only in Development mode.
func (r Resolver) Warnf(format string, args ...interface{}) {
	if r.Mode != Development || r.Logger == nil {
		return
	}
	r.Logger.Warnf(format, args...)
}
