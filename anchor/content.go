// Package anchor turns rendered heading content into URL fragment identifiers.
//
// The identifier scheme follows anchorjs so that ids written into heading
// elements and fragments written into links always agree.
package anchor

import (
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/util"
	"golang.org/x/net/html"
)

// Content is the inline content of a heading. It is either a Text leaf or an
// Element with ordered children. A nil Content is empty.
type Content interface {
	content()
}

// Text is a leaf of literal text.
type Text string

// Element is a composite node. An Element with an empty Tag is a bare
// fragment, e.g. the list of children handed to a heading.
type Element struct {
	Tag      string
	Children []Content
}

func (Text) content()    {}
func (Element) content() {}

// Fragment groups children without a wrapping tag.
func Fragment(children ...Content) Element {
	return Element{Children: children}
}

// Flatten concatenates all text leaves of c in document order.
func Flatten(c Content) string {
	var b strings.Builder
	flatten(&b, c)
	return b.String()
}

func flatten(b *strings.Builder, c Content) {
	switch v := c.(type) {
	case nil:
	case Text:
		b.WriteString(string(v))
	case Element:
		for _, child := range v.Children {
			flatten(b, child)
		}
	case *Element:
		if v != nil {
			flatten(b, *v)
		}
	}
}

// FromAST converts a goldmark inline subtree into Content. Raw inline HTML
// contributes nothing. Text outside code spans has backslash escapes and
// entity references resolved, so the result is the text a reader sees.
func FromAST(n ast.Node, source []byte) Content {
	if n == nil {
		return nil
	}
	switch v := n.(type) {
	case *ast.Text:
		value := v.Value(source)
		if !v.IsRaw() {
			value = util.UnescapePunctuations(value)
			value = util.ResolveNumericReferences(value)
			value = util.ResolveEntityNames(value)
		}
		s := string(value)
		if v.SoftLineBreak() || v.HardLineBreak() {
			s += "\n"
		}
		return Text(s)
	case *ast.String:
		return Text(string(v.Value))
	case *ast.RawHTML:
		return nil
	case *ast.AutoLink:
		return Text(string(v.Label(source)))
	}
	el := Element{Tag: n.Kind().String()}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		el.Children = append(el.Children, FromAST(c, source))
	}
	return el
}

// FromHTML converts a parsed HTML subtree into Content. Text nodes are
// already entity-decoded by the HTML parser.
func FromHTML(n *html.Node) Content {
	if n == nil {
		return nil
	}
	switch n.Type {
	case html.TextNode:
		return Text(n.Data)
	case html.ElementNode, html.DocumentNode:
	default:
		return nil
	}
	el := Element{}
	if n.Type == html.ElementNode {
		el.Tag = n.Data
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		el.Children = append(el.Children, FromHTML(c))
	}
	return el
}
