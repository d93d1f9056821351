// Package markdown renders blog posts with goldmark. Headings carry anchor
// ids and "post:" links are resolved to cross-post URLs.
package markdown

import (
	"bytes"
	"context"
	"io"

	"github.com/a-h/templ"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/eringen/pubmark/anchor"
)

// LinkResolver maps a cross-post link to an href. An empty permalink means
// the post being rendered. ok is false when the linked post does not exist.
type LinkResolver interface {
	ResolveCrossLink(permalink, paragraph string) (href string, ok bool)
}

// Renderer converts Markdown to HTML. It is safe for concurrent use.
type Renderer struct {
	md goldmark.Markdown
}

var resolverKey = parser.NewContextKey()

// New creates a Renderer with GFM, heading anchors and cross-post links.
func New() *Renderer {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			parser.WithASTTransformers(
				util.Prioritized(headingIDs{}, 100),
				util.Prioritized(crossLinks{}, 200),
			),
		),
		goldmark.WithRendererOptions(
			renderer.WithNodeRenderers(util.Prioritized(headingRenderer{}, 100)),
		),
	)
	return &Renderer{md: md}
}

// Render writes the HTML for source to w. links may be nil, in which case
// cross-post links render as plain text.
func (r *Renderer) Render(w io.Writer, source []byte, links LinkResolver) error {
	pc := parser.NewContext()
	pc.Set(resolverKey, links)
	return r.md.Convert(source, w, parser.WithContext(pc))
}

// Component wraps Render as a templ component.
func (r *Renderer) Component(source string, links LinkResolver) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		if err := r.Render(&buf, []byte(source), links); err != nil {
			return err
		}
		_, err := w.Write(buf.Bytes())
		return err
	})
}

var defaultRenderer = New()

// Markdown returns a templ.Component that renders content without
// cross-post resolution.
func Markdown(content string) templ.Component {
	return defaultRenderer.Component(content, nil)
}

// RenderMarkdown writes the HTML representation of md to buf.
func RenderMarkdown(buf *bytes.Buffer, md string) error {
	return defaultRenderer.Render(buf, []byte(md), nil)
}

// headingIDs sets the id attribute of every heading to its slug. Duplicate
// headings get duplicate ids.
type headingIDs struct{}

func (headingIDs) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	source := reader.Source()
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		if id := anchor.Slugify(anchor.FromAST(h, source)); id != "" {
			h.SetAttributeString("id", []byte(id))
		}
		return ast.WalkSkipChildren, nil
	})
}

// headingRenderer renders headings with a trailing self-link.
type headingRenderer struct{}

func (r headingRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindHeading, r.renderHeading)
}

func (headingRenderer) renderHeading(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*ast.Heading)
	if entering {
		_, _ = w.WriteString("<h")
		_ = w.WriteByte("0123456"[n.Level])
		if n.Attributes() != nil {
			html.RenderAttributes(w, node, html.HeadingAttributeFilter)
		}
		_ = w.WriteByte('>')
		return ast.WalkContinue, nil
	}
	if v, ok := n.AttributeString("id"); ok {
		if id, ok := v.([]byte); ok {
			_, _ = w.WriteString(`<a class="heading-anchor" aria-hidden="true" tabindex="-1" href="#`)
			_, _ = w.Write(util.EscapeHTML(id))
			_, _ = w.WriteString(`">§</a>`)
		}
	}
	_, _ = w.WriteString("</h")
	_ = w.WriteByte("0123456"[n.Level])
	_, _ = w.WriteString(">\n")
	return ast.WalkContinue, nil
}
