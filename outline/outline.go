// Package outline models a document's heading outline and resolves
// paragraph titles within it to fragment links.
package outline

import (
	"strings"
)

// MaxDepth bounds both outline extraction and paragraph search. The root is
// depth 0, so only two levels of headings below it are searchable.
const MaxDepth = 3

// Node is an entry of a document outline. The synthetic root has an empty
// Title. Outlines are built once per document and never mutated afterwards.
type Node struct {
	Title    string  `json:"title,omitempty"`
	Children []*Node `json:"items,omitempty"`
}

// FindParagraph searches root depth-first, left to right, for the first node
// whose title equals title exactly. Nodes at depth MaxDepth or deeper are
// never returned. An empty title is never found.
func FindParagraph(root *Node, title string) (*Node, bool) {
	if title == "" || root == nil {
		return nil, false
	}
	n := search(root, title, 0)
	return n, n != nil
}

func search(n *Node, title string, depth int) *Node {
	if depth >= MaxDepth {
		return nil
	}
	if n.Title == title {
		return n
	}
	for _, child := range n.Children {
		if child == nil {
			continue
		}
		if res := search(child, title, depth+1); res != nil {
			return res
		}
	}
	return nil
}

// Titles lists every searchable title in depth-first order.
func (n *Node) Titles() []string {
	var out []string
	var walk func(*Node, int)
	walk = func(n *Node, depth int) {
		if n == nil || depth >= MaxDepth {
			return
		}
		if n.Title != "" {
			out = append(out, n.Title)
		}
		for _, c := range n.Children {
			walk(c, depth+1)
		}
	}
	walk(n, 0)
	return out
}

// String renders the outline as an indented list, one title per line.
func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	var b strings.Builder
	var walk func(*Node, int)
	walk = func(n *Node, depth int) {
		if n == nil {
			return
		}
		title := n.Title
		if title == "" {
			title = "(root)"
		}
		b.WriteString(strings.Repeat("  ", depth))
		b.WriteString(title)
		b.WriteByte('\n')
		for _, c := range n.Children {
			walk(c, depth+1)
		}
	}
	walk(n, 0)
	return strings.TrimSuffix(b.String(), "\n")
}
