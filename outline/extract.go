package outline

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/eringen/pubmark/anchor"
)

// FromMarkdown builds the outline of a Markdown document. Headings nest
// under the closest preceding heading of a lower level; headings below
// level MaxDepth are left out.
func FromMarkdown(source []byte) *Node {
	doc := goldmark.DefaultParser().Parse(text.NewReader(source))

	type stackEntry struct {
		node  *Node
		level int
	}
	root := &Node{}
	stack := []stackEntry{{node: root, level: 0}}

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		heading, ok := n.(*ast.Heading)
		if !ok || heading.Level > MaxDepth {
			continue
		}
		title := strings.TrimSpace(anchor.Flatten(anchor.FromAST(heading, source)))
		if title == "" {
			continue
		}
		node := &Node{Title: title}
		for len(stack) > 1 && stack[len(stack)-1].level >= heading.Level {
			stack = stack[:len(stack)-1]
		}
		parent := stack[len(stack)-1].node
		parent.Children = append(parent.Children, node)
		stack = append(stack, stackEntry{node: node, level: heading.Level})
	}
	return root
}
