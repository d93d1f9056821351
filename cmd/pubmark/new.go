package main

import (
	"fmt"
	"os"
	"path/filepath"
	"text/template"
	"time"

	"github.com/eringen/pubmark"
	"github.com/eringen/pubmark/scaffold"
)

// runNew writes a draft post to <dir>/<slug>/index.md and returns its path.
func runNew(dir, title string, tags []string, now time.Time) (string, error) {
	if dir == "" {
		dir = "content/blog"
	}
	slug := pubmark.Slugify(title)
	if slug == "" {
		return "", fmt.Errorf("title %q has no usable characters for a slug", title)
	}

	postDir := filepath.Join(dir, slug)
	outPath := filepath.Join(postDir, "index.md")
	if _, err := os.Stat(outPath); err == nil {
		return "", fmt.Errorf("post %q already exists", outPath)
	}

	content, err := scaffold.Templates.ReadFile(scaffold.PostTemplate)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", scaffold.PostTemplate, err)
	}
	tmpl, err := template.New(filepath.Base(scaffold.PostTemplate)).Parse(string(content))
	if err != nil {
		return "", fmt.Errorf("parse template %s: %w", scaffold.PostTemplate, err)
	}

	if err := os.MkdirAll(postDir, 0o755); err != nil {
		return "", err
	}
	f, err := os.Create(outPath)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", outPath, err)
	}
	defer f.Close()

	data := scaffold.PostData{
		Title: title,
		Date:  now.Format("2006-01-02"),
		Tags:  pubmark.FilterEmpty(tags),
	}
	if err := tmpl.Execute(f, data); err != nil {
		return "", fmt.Errorf("execute template %s: %w", scaffold.PostTemplate, err)
	}
	return outPath, nil
}
