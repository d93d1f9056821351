package pubmark

import (
	"time"

	"github.com/eringen/pubmark/markdown"
	"github.com/eringen/pubmark/outline"
)

// SiteConfig holds all configuration for a pubmark site.
type SiteConfig struct {
	Name        string // Site name (default "Blog")
	URL         string // Canonical URL (default "http://localhost:3000")
	Description string // Site description for RSS
	Author      string // Optional author for JSON-LD

	Addr         string // Listen address (default ":3000")
	DatabasePath string // SQLite index path (default "data/index.db")
	ContentDir   string // Markdown posts (default "content/blog")

	// Mode is Development unless set explicitly. Development includes
	// drafts, shows tables of contents and logs unresolved links.
	Mode outline.Mode

	AdminPassword string // Required: admin login password
	SessionSecret string // Required: session encryption secret
	CookieSecure  bool   // Set true for HTTPS

	PostCacheTTL time.Duration // Post cache TTL (default 5min)
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Blog"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/index.db"
	}
	if c.ContentDir == "" {
		c.ContentDir = "content/blog"
	}
	if c.PostCacheTTL == 0 {
		c.PostCacheTTL = 5 * time.Minute
	}
}

// IncludeDrafts reports whether draft posts are published in this mode.
func (c SiteConfig) IncludeDrafts() bool {
	return c.Mode == outline.Development
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for user-owned static assets (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}

// WithMarkdown replaces the Markdown renderer.
func WithMarkdown(r *markdown.Renderer) Option {
	return func(a *App) {
		a.Markdown = r
	}
}
