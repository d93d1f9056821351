package anchor

import (
	"strings"
	"testing"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

func TestSlugifyString(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", ""},
		{"   ", ""},
		{"\t\n ", ""},
		{"Don't forget: URLs!", "dont-forget-urls"},
		{"a--b", "a-b"},
		{" -a- ", "a"},
		{"Hello World", "hello-world"},
		{" ⚡⚡ Don't forget: URL fragments should be i18n-friendly, hyphenated, short, and clean.", "⚡⚡-dont-forget-url-fragments-should-be-i18n-friendly-hyphenated-short-and-clean"},
		{"Zażółć gęślą jaźń", "zażółć-gęślą-jaźń"},
		{"a&nbsp;b", "a-b"},
		{"Tom &amp; Jerry", "tom-jerry"},
		{"f(x) = x * 2", "f-x-x-2"},
		{"path/to/file.go", "path-to-file-go"},
		{"50% [off] {now}", "50-off-now"},
		{"it's", "its"},
		{"'''", ""},
		{"---", ""},
		{"ÀB", "àb"},
	}
	for _, tt := range tests {
		got := SlugifyString(tt.input)
		if got != tt.expected {
			t.Errorf("SlugifyString(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestSlugifyNewlines(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"-a-\r-b-", "a-b"},
		{"Foo\r\nBar", "foo-bar"},
		{"Foo\rBar", "foo-bar"},
		{"-a-\u2028-b-", "a\u2028b"},
		{"-a-\u2029-b-", "a\u2029b"},
	}
	for _, tt := range tests {
		if got := SlugifyString(tt.input); got != tt.expected {
			t.Errorf("SlugifyString(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestSlugifyIdempotent(t *testing.T) {
	inputs := []string{
		"Don't forget: URLs!",
		"Setup & Prereqs",
		"  Über   Straße  ",
		"C++ / Go (1.22)",
		"a--b",
	}
	for _, in := range inputs {
		once := SlugifyString(in)
		twice := SlugifyString(once)
		if once != twice {
			t.Errorf("SlugifyString(SlugifyString(%q)) = %q, want %q", in, twice, once)
		}
	}
}

func TestSlugifyNestedContent(t *testing.T) {
	content := Fragment(
		Text("Using "),
		Element{Tag: "code", Children: []Content{Text("go test")}},
		nil,
		Fragment(Text(" with "), Element{Tag: "em", Children: []Content{Text("-race")}}),
	)
	if got := Flatten(content); got != "Using go test with -race" {
		t.Errorf("Flatten = %q", got)
	}
	if got := Slugify(content); got != "using-go-test-with-race" {
		t.Errorf("Slugify = %q, want %q", got, "using-go-test-with-race")
	}
}

func TestSlugifyNil(t *testing.T) {
	if got := Slugify(nil); got != "" {
		t.Errorf("Slugify(nil) = %q, want empty", got)
	}
	if got := Slugify(Element{}); got != "" {
		t.Errorf("Slugify(Element{}) = %q, want empty", got)
	}
}

func TestFromAST(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"## Plain heading", "Plain heading"},
		{"## Using `go test` **fast**", "Using go test fast"},
		{"## A [link](https://example.com) here", "A link here"},
		{"## Don\\'t \\*escape\\*", "Don't *escape*"},
		{"## Raw <span>html</span> inline", "Raw html inline"},
		{"## Tom &amp; Jerry", "Tom & Jerry"},
		{"## Escape `&amp;lt;` safely", "Escape &amp;lt; safely"},
		{"## Escape &amp;lt; &#35;1", "Escape &lt; #1"},
	}
	md := goldmark.New()
	for _, tt := range tests {
		src := []byte(tt.input)
		doc := md.Parser().Parse(text.NewReader(src))
		heading, ok := doc.FirstChild().(*ast.Heading)
		if !ok {
			t.Fatalf("expected heading for %q", tt.input)
		}
		got := Flatten(FromAST(heading, src))
		if got != tt.expected {
			t.Errorf("Flatten(FromAST(%q)) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestFromHTML(t *testing.T) {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(`Tom&nbsp;<em>&amp;</em> <code>Jerry</code><!-- note -->`), body)
	if err != nil {
		t.Fatalf("parse fragment: %v", err)
	}
	var children []Content
	for _, n := range nodes {
		children = append(children, FromHTML(n))
	}
	content := Fragment(children...)
	if got := Flatten(content); got != "Tom\u00a0& Jerry" {
		t.Errorf("Flatten = %q", got)
	}
	if got := Slugify(content); got != "tom-jerry" {
		t.Errorf("Slugify = %q, want %q", got, "tom-jerry")
	}
}
