package outline

import "testing"

func TestFromMarkdown(t *testing.T) {
	input := `Intro paragraph.

## Intro

text

## Setup

### Prereqs

#### Too deep

## Tom &amp; *Jerry*
`
	root := FromMarkdown([]byte(input))
	if root.Title != "" {
		t.Errorf("root title = %q, want empty", root.Title)
	}
	if len(root.Children) != 3 {
		t.Fatalf("expected 3 top-level entries, got %d:\n%s", len(root.Children), root)
	}
	if root.Children[0].Title != "Intro" {
		t.Errorf("expected %q, got %q", "Intro", root.Children[0].Title)
	}
	setup := root.Children[1]
	if setup.Title != "Setup" || len(setup.Children) != 1 {
		t.Fatalf("unexpected Setup entry:\n%s", root)
	}
	if setup.Children[0].Title != "Prereqs" {
		t.Errorf("expected %q, got %q", "Prereqs", setup.Children[0].Title)
	}
	if len(setup.Children[0].Children) != 0 {
		t.Errorf("level 4 headings should be dropped:\n%s", root)
	}
	if got := root.Children[2].Title; got != "Tom & Jerry" {
		t.Errorf("expected decoded title %q, got %q", "Tom & Jerry", got)
	}
}

func TestFromMarkdownEndToEnd(t *testing.T) {
	root := FromMarkdown([]byte("## Intro\n\n## Setup\n\n### Prereqs\n"))
	r := Resolver{Mode: Production}
	if got := r.Fragment(root, "Prereqs"); got != "#prereqs" {
		t.Errorf("Fragment(Prereqs) = %q, want %q", got, "#prereqs")
	}
}

func TestFromMarkdownH1Nesting(t *testing.T) {
	root := FromMarkdown([]byte("# Title\n\n## Section\n\n### Sub\n"))
	if _, ok := FindParagraph(root, "Section"); !ok {
		t.Error("expected Section at depth 2 to be found")
	}
	if _, ok := FindParagraph(root, "Sub"); ok {
		t.Error("expected Sub at depth 3 to be unreachable")
	}
}

func TestFromMarkdownNoHeadings(t *testing.T) {
	root := FromMarkdown([]byte("Just text.\n"))
	if len(root.Children) != 0 {
		t.Errorf("expected empty outline, got:\n%s", root)
	}
}
