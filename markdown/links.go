package markdown

import (
	"net/url"
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// CrossLinkScheme prefixes link destinations that point at another post,
// e.g. [see setup](<post:/blog/setup/#Install Go>) or [above](<post:#Intro>).
const CrossLinkScheme = "post:"

// ParseCrossLink splits a "post:" destination into permalink and paragraph.
// The paragraph may be percent-encoded and is otherwise passed through as is.
func ParseCrossLink(dest string) (permalink, paragraph string, ok bool) {
	if !strings.HasPrefix(dest, CrossLinkScheme) {
		return "", "", false
	}
	rest := strings.TrimPrefix(dest, CrossLinkScheme)
	permalink, paragraph, _ = strings.Cut(rest, "#")
	if p, err := url.PathUnescape(paragraph); err == nil {
		paragraph = p
	}
	return strings.TrimSpace(permalink), paragraph, true
}

// crossLinks rewrites "post:" links through the LinkResolver stored in the
// parser context. Links that cannot be resolved are replaced by their text.
type crossLinks struct{}

func (crossLinks) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	resolver, _ := pc.Get(resolverKey).(LinkResolver)

	var links []*ast.Link
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if l, ok := n.(*ast.Link); ok && entering {
			if strings.HasPrefix(string(l.Destination), CrossLinkScheme) {
				links = append(links, l)
			}
		}
		return ast.WalkContinue, nil
	})

	for _, l := range links {
		permalink, paragraph, _ := ParseCrossLink(string(l.Destination))
		if resolver != nil {
			if href, ok := resolver.ResolveCrossLink(permalink, paragraph); ok && href != "" {
				l.Destination = []byte(href)
				continue
			}
		}
		unwrap(l)
	}
}

// unwrap replaces n with its children.
func unwrap(n ast.Node) {
	parent := n.Parent()
	if parent == nil {
		return
	}
	for c := n.FirstChild(); c != nil; {
		next := c.NextSibling()
		parent.InsertBefore(parent, n, c)
		c = next
	}
	parent.RemoveChild(parent, n)
}
