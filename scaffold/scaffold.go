// Package scaffold provides embedded templates for the pubmark CLI.
package scaffold

import "embed"

// Templates contains the scaffold template files.
// Files use Go text/template syntax and have a .tmpl suffix.
//
//go:embed templates/*.tmpl
var Templates embed.FS

// PostTemplate is the template path for a new post.
const PostTemplate = "templates/post.md.tmpl"

// PostData holds the variables passed to PostTemplate.
type PostData struct {
	Title string
	Date  string
	Tags  []string
}
