package pubmark

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestParsePostFrontMatter(t *testing.T) {
	src := `---
title: "Linking, the easy way"
date: 2024-05-01
description: How links work
tags: [go, " markdown "]
draft: false
---
## Setup

### Prereqs
`
	p, err := ParsePost(strings.NewReader(src), "linking.md")
	if err != nil {
		t.Fatalf("ParsePost failed: %v", err)
	}
	if p.Title != "Linking, the easy way" {
		t.Errorf("Title = %q", p.Title)
	}
	if p.Date != "2024-05-01" {
		t.Errorf("Date = %q, want %q", p.Date, "2024-05-01")
	}
	if p.Summary != "How links work" {
		t.Errorf("Summary = %q", p.Summary)
	}
	if p.Permalink != "/blog/linking/" || p.Slug != "linking" {
		t.Errorf("Permalink = %q, Slug = %q", p.Permalink, p.Slug)
	}
	if len(p.Tags) != 2 || p.Tags[1] != "markdown" {
		t.Errorf("Tags = %v", p.Tags)
	}
	if p.Draft {
		t.Errorf("expected draft: false to publish the post")
	}
	if strings.Contains(p.Content, "title:") {
		t.Errorf("front matter leaked into Content: %q", p.Content)
	}
	if _, ok := findParagraph(p, "Prereqs"); !ok {
		t.Errorf("expected outline to contain Prereqs, got %s", p.Outline)
	}
}

func findParagraph(p BlogPost, title string) (string, bool) {
	for _, t := range p.Outline.Titles() {
		if t == title {
			return t, true
		}
	}
	return "", false
}

func TestParsePostDraftRule(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want bool
	}{
		{"explicit false", "---\ndraft: false\n---\nbody", false},
		{"explicit true", "---\ndraft: true\n---\nbody", true},
		{"missing", "---\ntitle: x\n---\nbody", true},
		{"no front matter", "body", true},
	}
	for _, tt := range tests {
		p, err := ParsePost(strings.NewReader(tt.src), "x.md")
		if err != nil {
			t.Fatalf("%s: ParsePost failed: %v", tt.name, err)
		}
		if p.Draft != tt.want {
			t.Errorf("%s: Draft = %v, want %v", tt.name, p.Draft, tt.want)
		}
	}
}

func TestParsePostPermalink(t *testing.T) {
	tests := []struct {
		rel, fm     string
		permalink   string
		slug, title string
	}{
		{"hello-world.md", "date: 2024-01-01", "/blog/hello-world/", "hello-world", "hello-world"},
		{"2024/trip/index.md", `title: ""`, "/blog/trip/", "trip", "trip"},
		{"x.md", "permalink: custom-one", "/blog/custom-one/", "custom-one", "custom-one"},
		{"x.md", "permalink: /notes/abc", "/notes/abc/", "abc", "abc"},
	}
	for _, tt := range tests {
		src := "---\n" + tt.fm + "\n---\nbody"
		p, err := ParsePost(strings.NewReader(src), tt.rel)
		if err != nil {
			t.Fatalf("ParsePost(%q) failed: %v", tt.rel, err)
		}
		if p.Permalink != tt.permalink {
			t.Errorf("ParsePost(%q, %q).Permalink = %q, want %q", tt.rel, tt.fm, p.Permalink, tt.permalink)
		}
		if p.Slug != tt.slug {
			t.Errorf("ParsePost(%q, %q).Slug = %q, want %q", tt.rel, tt.fm, p.Slug, tt.slug)
		}
		if p.Title != tt.title {
			t.Errorf("ParsePost(%q, %q).Title = %q, want %q", tt.rel, tt.fm, p.Title, tt.title)
		}
	}
}

func TestLoadPosts(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.md"), "---\ntitle: A\ndate: 2024-01-01\ndraft: false\n---\n# A")
	writeFile(t, filepath.Join(dir, "b", "index.mdx"), "---\ntitle: B\ndate: 2024-03-01\n---\n# B")
	writeFile(t, filepath.Join(dir, ".hidden", "c.md"), "---\ntitle: C\n---\n")
	writeFile(t, filepath.Join(dir, ".d.md"), "---\ntitle: D\n---\n")
	writeFile(t, filepath.Join(dir, "notes.txt"), "not a post")

	posts, err := LoadPosts(dir)
	if err != nil {
		t.Fatalf("LoadPosts failed: %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("expected 2 posts, got %d: %+v", len(posts), posts)
	}
	if posts[0].Title != "B" || posts[1].Title != "A" {
		t.Errorf("expected newest first, got %q then %q", posts[0].Title, posts[1].Title)
	}
	if posts[0].Source != "b/index.mdx" {
		t.Errorf("Source = %q, want %q", posts[0].Source, "b/index.mdx")
	}
}

func TestParsePostNeedsPermalink(t *testing.T) {
	if _, err := ParsePost(strings.NewReader("---\ntitle: 日本\n---\nbody"), "日本.md"); err == nil {
		t.Errorf("expected error for a file name without a usable slug")
	}
	p, err := ParsePost(strings.NewReader("---\ntitle: 日本\npermalink: /ja/nihon\n---\nbody"), "日本.md")
	if err != nil {
		t.Fatalf("ParsePost failed: %v", err)
	}
	if p.Permalink != "/ja/nihon/" {
		t.Errorf("Permalink = %q, want %q", p.Permalink, "/ja/nihon/")
	}
}

func TestLoadPostsRejectsDuplicatePermalinks(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.md"), "---\ntitle: A\n---\none")
	writeFile(t, filepath.Join(dir, "b", "index.md"), "---\ntitle: B\npermalink: a\n---\ntwo")

	_, err := LoadPosts(dir)
	if err == nil {
		t.Fatal("expected error for two posts sharing /blog/a/")
	}
	for _, want := range []string{"a.md", "b/index.md", "/blog/a/"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %q", err, want)
		}
	}
}

func TestLoadPostsMissingDir(t *testing.T) {
	if _, err := LoadPosts(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Errorf("expected error for a missing content directory")
	}
}

func TestFilterDraftPosts(t *testing.T) {
	posts := []BlogPost{
		{Permalink: "/blog/a/"},
		{Permalink: "/blog/b/", Draft: true},
	}
	if got := FilterDraftPosts(posts, false); len(got) != 1 || got[0].Permalink != "/blog/a/" {
		t.Errorf("FilterDraftPosts(false) = %+v", got)
	}
	if got := FilterDraftPosts(posts, true); len(got) != 2 {
		t.Errorf("FilterDraftPosts(true) returned %d posts, want 2", len(got))
	}
}
