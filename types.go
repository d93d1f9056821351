package pubmark

import "github.com/eringen/pubmark/outline"

// BlogPost is a post loaded from the content directory and indexed in SQLite.
type BlogPost struct {
	Title     string
	Date      string
	Tags      []string
	Summary   string
	Permalink string // e.g. "/blog/my-post/"
	Slug      string
	Content   string // Markdown body without front matter
	Draft     bool
	Outline   *outline.Node
	Source    string // path relative to the content directory
}

// FrontMatter is the metadata block at the top of a post file.
// A post is a draft unless it says draft: false explicitly.
type FrontMatter struct {
	Title       string   `yaml:"title" toml:"title" json:"title"`
	Permalink   string   `yaml:"permalink" toml:"permalink" json:"permalink"`
	Date        string   `yaml:"date" toml:"date" json:"date"`
	Description string   `yaml:"description" toml:"description" json:"description"`
	Tags        []string `yaml:"tags" toml:"tags" json:"tags"`
	Draft       *bool    `yaml:"draft" toml:"draft" json:"draft"`
}
