package outline

import (
	"fmt"
	"strings"
	"testing"
)

// sample is {root: [Intro, Setup: [Prereqs: [Deep]]]}.
func sample() *Node {
	return &Node{Children: []*Node{
		{Title: "Intro"},
		{Title: "Setup", Children: []*Node{
			{Title: "Prereqs", Children: []*Node{
				{Title: "Deep"},
			}},
		}},
	}}
}

func TestFindParagraph(t *testing.T) {
	root := sample()
	tests := []struct {
		title string
		want  *Node
	}{
		{"Intro", root.Children[0]},
		{"Setup", root.Children[1]},
		{"Prereqs", root.Children[1].Children[0]},
		{"Deep", nil},
		{"Missing", nil},
		{"intro", nil},
		{"", nil},
	}
	for _, tt := range tests {
		got, ok := FindParagraph(root, tt.title)
		if got != tt.want {
			t.Errorf("FindParagraph(%q) = %v, want %v", tt.title, got, tt.want)
		}
		if ok != (tt.want != nil) {
			t.Errorf("FindParagraph(%q) ok = %v", tt.title, ok)
		}
	}
}

func TestFindParagraphFirstMatchWins(t *testing.T) {
	first := &Node{Title: "Notes"}
	second := &Node{Title: "Notes"}
	root := &Node{Children: []*Node{
		{Title: "A", Children: []*Node{first}},
		second,
	}}
	got, ok := FindParagraph(root, "Notes")
	if !ok || got != first {
		t.Fatalf("expected the depth-first match, got %p want %p", got, first)
	}
}

func TestFindParagraphRootTitle(t *testing.T) {
	root := &Node{Title: "Post", Children: []*Node{{Title: "Child"}}}
	got, ok := FindParagraph(root, "Post")
	if !ok || got != root {
		t.Fatalf("expected root to match its own title")
	}
}

func TestFindParagraphNil(t *testing.T) {
	if _, ok := FindParagraph(nil, "Intro"); ok {
		t.Fatal("expected nil outline to find nothing")
	}
	root := &Node{Children: []*Node{nil, {Title: "After"}}}
	if _, ok := FindParagraph(root, "After"); !ok {
		t.Fatal("expected nil children to be skipped")
	}
}

func TestTitles(t *testing.T) {
	got := strings.Join(sample().Titles(), ",")
	if got != "Intro,Setup,Prereqs" {
		t.Errorf("Titles() = %q, want %q", got, "Intro,Setup,Prereqs")
	}
}

func TestNodeString(t *testing.T) {
	want := "(root)\n  Intro\n  Setup\n    Prereqs\n      Deep"
	if got := sample().String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

type recordingLogger struct {
	lines []string
}

func (l *recordingLogger) Warnf(format string, args ...interface{}) {
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
}

func TestResolverFragment(t *testing.T) {
	log := &recordingLogger{}
	r := Resolver{Mode: Development, Logger: log}
	root := sample()

	if got := r.Fragment(root, "Prereqs"); got != "#prereqs" {
		t.Errorf("Fragment(Prereqs) = %q, want %q", got, "#prereqs")
	}
	if got := r.Fragment(root, ""); got != "" {
		t.Errorf("Fragment(\"\") = %q, want empty", got)
	}
	if len(log.lines) != 0 {
		t.Fatalf("expected no warnings, got %v", log.lines)
	}

	if got := r.Fragment(root, "Missing"); got != "" {
		t.Errorf("Fragment(Missing) = %q, want empty", got)
	}
	if len(log.lines) != 1 {
		t.Fatalf("expected one warning, got %d", len(log.lines))
	}
	if !strings.Contains(log.lines[0], `"Missing"`) || !strings.Contains(log.lines[0], "Prereqs") {
		t.Errorf("warning should name the title and dump the outline: %q", log.lines[0])
	}
}

func TestResolverProductionIsSilent(t *testing.T) {
	log := &recordingLogger{}
	r := Resolver{Mode: Production, Logger: log}
	if got := r.Fragment(sample(), "Missing"); got != "" {
		t.Errorf("Fragment(Missing) = %q, want empty", got)
	}
	if len(log.lines) != 0 {
		t.Errorf("expected no warnings in production, got %v", log.lines)
	}
}

func TestResolverNilLogger(t *testing.T) {
	r := Resolver{Mode: Development}
	if got := r.Fragment(sample(), "Missing"); got != "" {
		t.Errorf("Fragment(Missing) = %q, want empty", got)
	}
}

func TestResolverLink(t *testing.T) {
	r := Resolver{Mode: Production}
	root := &Node{Children: []*Node{{Title: "Don't forget: URLs!"}}}
	tests := []struct {
		title    string
		expected string
	}{
		{"Don't forget: URLs!", "/blog/post/#dont-forget-urls"},
		{"", "/blog/post/"},
		{"Nope", "/blog/post/"},
	}
	for _, tt := range tests {
		got := r.Link("/blog/post/", root, tt.title)
		if got != tt.expected {
			t.Errorf("Link(%q) = %q, want %q", tt.title, got, tt.expected)
		}
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		input    string
		expected Mode
	}{
		{"production", Production},
		{" Production ", Production},
		{"development", Development},
		{"", Development},
		{"test", Development},
	}
	for _, tt := range tests {
		if got := ParseMode(tt.input); got != tt.expected {
			t.Errorf("ParseMode(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}
