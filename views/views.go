// Package views provides default page components for a pubmark site.
// Sites with their own templ templates pass those to pubmark.New instead.
package views

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"github.com/eringen/pubmark"
	"github.com/eringen/pubmark/anchor"
	"github.com/eringen/pubmark/outline"
)

// Default returns view functions that render plain, unstyled pages.
func Default(cfg pubmark.SiteConfig) pubmark.ViewFuncs {
	return pubmark.ViewFuncs{
		Home: func(posts []pubmark.BlogPost, activeTag string, tags []string) templ.Component {
			return Home(cfg, posts, activeTag, tags)
		},
		Post: func(post pubmark.BlogPost, body templ.Component, toc *outline.Node) templ.Component {
			return Post(cfg, post, body, toc)
		},
		AdminLogin: func(showError bool, csrfToken string) templ.Component {
			return AdminLogin(cfg, showError, csrfToken)
		},
		AdminDashboard: func(posts []pubmark.BlogPost, message, csrfToken string) templ.Component {
			return AdminDashboard(cfg, posts, message, csrfToken)
		},
		NotFound:    func() templ.Component { return NotFound(cfg) },
		ServerError: func() templ.Component { return ServerError(cfg) },
	}
}

// writer accumulates the first write error so components read top to bottom.
type writer struct {
	w   io.Writer
	err error
}

func (w *writer) raw(s string) {
	if w.err == nil {
		_, w.err = io.WriteString(w.w, s)
	}
}

func (w *writer) text(s string) {
	w.raw(templ.EscapeString(s))
}

func (w *writer) component(ctx context.Context, c templ.Component) {
	if w.err == nil && c != nil {
		w.err = c.Render(ctx, w.w)
	}
}

// Layout wraps body in the HTML document shell.
func Layout(cfg pubmark.SiteConfig, meta PageMeta, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := &writer{w: out}
		title := cfg.Name
		if meta.Title != "" {
			title = meta.Title + " | " + cfg.Name
		}
		w.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		w.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		w.raw(`<title>`)
		w.text(title)
		w.raw(`</title>`)
		if meta.Description != "" {
			w.raw(`<meta name="description" content="`)
			w.text(meta.Description)
			w.raw(`">`)
		}
		if meta.URL != "" {
			w.raw(`<link rel="canonical" href="`)
			w.text(meta.URL)
			w.raw(`"><meta property="og:url" content="`)
			w.text(meta.URL)
			w.raw(`">`)
		}
		if meta.OGType != "" {
			w.raw(`<meta property="og:type" content="`)
			w.text(meta.OGType)
			w.raw(`">`)
		}
		w.raw(`<link rel="alternate" type="application/rss+xml" href="/feed.xml">`)
		w.raw(`<link rel="icon" href="/favicon.svg">`)
		if meta.JSONLD != "" {
			w.raw(`<script type="application/ld+json">`)
			w.raw(meta.JSONLD)
			w.raw(`</script>`)
		}
		w.raw(`</head><body><header><a href="/">`)
		w.text(cfg.Name)
		w.raw(`</a></header><main>`)
		w.component(ctx, body)
		w.raw(`</main></body></html>`)
		return w.err
	})
}

// Home lists posts, newest first, with the tag filter.
func Home(cfg pubmark.SiteConfig, posts []pubmark.BlogPost, activeTag string, tags []string) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := &writer{w: out}
		if len(tags) > 0 {
			w.raw(`<nav class="tags">`)
			for _, t := range tags {
				w.raw(`<a href="`)
				w.text(TagURL(t))
				w.raw(`"`)
				if strings.EqualFold(t, activeTag) {
					w.raw(` class="active" aria-current="page"`)
				}
				w.raw(`>`)
				w.text(t)
				w.raw(`</a> `)
			}
			w.raw(`</nav>`)
		}
		if len(posts) == 0 {
			w.raw(`<p>No posts yet.</p>`)
			return w.err
		}
		w.raw(`<ul class="posts">`)
		for _, p := range posts {
			w.raw(`<li><a href="`)
			w.text(p.Permalink)
			w.raw(`">`)
			w.text(p.Title)
			w.raw(`</a>`)
			if p.Draft {
				w.raw(` <span class="draft">draft</span>`)
			}
			if p.Date != "" {
				w.raw(` <time>`)
				w.text(p.Date)
				w.raw(`</time>`)
			}
			if p.Summary != "" {
				w.raw(`<p>`)
				w.text(p.Summary)
				w.raw(`</p>`)
			}
			w.raw(`</li>`)
		}
		w.raw(`</ul>`)
		return w.err
	})
	return Layout(cfg, PageMeta{
		Description: cfg.Description,
		URL:         pubmark.BuildURL(cfg.URL),
		OGType:      "website",
		JSONLD:      WebsiteJsonLD(cfg),
	}, body)
}

// Post renders an article. toc is shown when non-nil.
func Post(cfg pubmark.SiteConfig, post pubmark.BlogPost, content templ.Component, toc *outline.Node) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := &writer{w: out}
		w.raw(`<article><h1>`)
		w.text(post.Title)
		w.raw(`</h1>`)
		if post.Date != "" {
			w.raw(`<time>`)
			w.text(post.Date)
			w.raw(`</time>`)
		}
		for _, t := range post.Tags {
			w.raw(` <a class="tag" href="`)
			w.text(TagURL(t))
			w.raw(`">`)
			w.text(t)
			w.raw(`</a>`)
		}
		w.component(ctx, TableOfContents(toc))
		w.raw(`<div class="post-body">`)
		w.component(ctx, content)
		w.raw(`</div></article>`)
		return w.err
	})
	return Layout(cfg, PageMeta{
		Title:       post.Title,
		Description: post.Summary,
		URL:         pubmark.BuildURL(cfg.URL, post.Permalink),
		OGType:      "article",
		JSONLD:      BlogPostingJsonLD(cfg, post),
	}, body)
}

// TableOfContents renders root's headings as nested lists linking to the
// heading anchors. A nil or empty outline renders nothing.
func TableOfContents(root *outline.Node) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		if root == nil || len(root.Children) == 0 {
			return nil
		}
		w := &writer{w: out}
		w.raw(`<nav class="toc" aria-label="Table of contents">`)
		writeTOC(w, root.Children, 1)
		w.raw(`</nav>`)
		return w.err
	})
}

func writeTOC(w *writer, nodes []*outline.Node, level int) {
	w.raw(`<ol>`)
	for _, n := range nodes {
		w.raw(`<li data-toc-level="`)
		w.text(strconv.Itoa(level))
		w.raw(`"><a href="#`)
		w.text(anchor.SlugifyString(n.Title))
		w.raw(`">`)
		w.text(n.Title)
		w.raw(`</a>`)
		if len(n.Children) > 0 {
			writeTOC(w, n.Children, level+1)
		}
		w.raw(`</li>`)
	}
	w.raw(`</ol>`)
}

func AdminLogin(cfg pubmark.SiteConfig, showError bool, csrfToken string) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := &writer{w: out}
		w.raw(`<h1>Admin</h1>`)
		if showError {
			w.raw(`<p class="error">Wrong password.</p>`)
		}
		w.raw(`<form method="post" action="/admin/login/">`)
		csrfField(w, csrfToken)
		w.raw(`<label>Password <input type="password" name="password" autocomplete="current-password" required></label>`)
		w.raw(`<button type="submit">Log in</button></form>`)
		return w.err
	})
	return Layout(cfg, PageMeta{Title: "Admin"}, body)
}

// AdminDashboard lists indexed posts and offers a reindex of the content directory.
func AdminDashboard(cfg pubmark.SiteConfig, posts []pubmark.BlogPost, message, csrfToken string) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := &writer{w: out}
		w.raw(`<h1>Admin</h1>`)
		if message != "" {
			w.raw(`<p class="message">`)
			w.text(message)
			w.raw(`</p>`)
		}
		w.raw(`<form method="post" action="/admin/reindex/">`)
		csrfField(w, csrfToken)
		w.raw(`<button type="submit">Reindex</button></form>`)
		w.raw(`<form method="post" action="/admin/logout/">`)
		csrfField(w, csrfToken)
		w.raw(`<button type="submit">Log out</button></form>`)
		w.raw(`<table><thead><tr><th>Title</th><th>Permalink</th><th>Date</th><th>Tags</th><th>Source</th><th>Status</th></tr></thead><tbody>`)
		for _, p := range posts {
			status := "published"
			if p.Draft {
				status = "draft"
			}
			w.raw(`<tr><td>`)
			w.text(p.Title)
			w.raw(`</td><td><a href="`)
			w.text(p.Permalink)
			w.raw(`">`)
			w.text(p.Permalink)
			w.raw(`</a></td><td>`)
			w.text(p.Date)
			w.raw(`</td><td>`)
			w.text(JoinTags(p.Tags))
			w.raw(`</td><td>`)
			w.text(p.Source)
			w.raw(`</td><td>`)
			w.text(status)
			w.raw(`</td></tr>`)
		}
		w.raw(`</tbody></table>`)
		return w.err
	})
	return Layout(cfg, PageMeta{Title: "Admin"}, body)
}

func csrfField(w *writer, token string) {
	w.raw(`<input type="hidden" name="_csrf" value="`)
	w.text(token)
	w.raw(`">`)
}

func NotFound(cfg pubmark.SiteConfig) templ.Component {
	return Layout(cfg, PageMeta{Title: "Not found"}, templ.Raw(`<h1>Not found</h1><p><a href="/">Back to all posts</a></p>`))
}

func ServerError(cfg pubmark.SiteConfig) templ.Component {
	return Layout(cfg, PageMeta{Title: "Error"}, templ.Raw(`<h1>Something went wrong</h1><p>Please try again later.</p>`))
}
