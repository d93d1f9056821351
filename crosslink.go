package pubmark

import (
	"bytes"
	"fmt"

	"github.com/eringen/pubmark/markdown"
	"github.com/eringen/pubmark/outline"
)

// CrossLinker resolves "post:" links written inside Current.
type CrossLinker struct {
	Posts    []BlogPost
	Current  BlogPost
	Resolver outline.Resolver
}

// ResolveCrossLink implements markdown.LinkResolver.
//
// An empty permalink links to Current and yields a bare fragment. A bare slug
// is expanded to "/blog/<slug>/". A missing post returns ok=false so the link
// renders as text; a missing paragraph degrades to the post URL alone.
func (l CrossLinker) ResolveCrossLink(permalink, paragraph string) (string, bool) {
	linksToSelf := permalink == ""
	target := l.Current.Permalink
	if !linksToSelf {
		target = NormalizePermalink(permalink)
	}
	page, ok := findPost(l.Posts, target)
	if !ok && linksToSelf && l.Current.Permalink != "" {
		page, ok = l.Current, true
	}
	if !ok {
		l.Resolver.Warnf("CrossPostLink(%q, %q) in %s: page not found", permalink, paragraph, l.Current.Permalink)
		return "", false
	}
	pageURL := ""
	if !linksToSelf {
		pageURL = page.Permalink
	}
	return l.Resolver.Link(pageURL, page.Outline, paragraph), true
}

// RenderPost renders the body of post with cross-post links resolved against
// posts. In Development mode in-page links without a target are reported.
func RenderPost(r *markdown.Renderer, resolver outline.Resolver, post BlogPost, posts []BlogPost) (string, error) {
	var buf bytes.Buffer
	links := CrossLinker{Posts: posts, Current: post, Resolver: resolver}
	if err := r.Render(&buf, []byte(post.Content), links); err != nil {
		return "", fmt.Errorf("pubmark: render %s: %w", post.Permalink, err)
	}
	if resolver.Mode == outline.Development {
		missing, err := markdown.MissingAnchors(bytes.NewReader(buf.Bytes()))
		if err != nil {
			return "", fmt.Errorf("pubmark: audit %s: %w", post.Permalink, err)
		}
		for _, frag := range missing {
			resolver.Warnf("%s: link to #%s has no matching heading", post.Permalink, frag)
		}
	}
	return buf.String(), nil
}

// Problem is a broken link found by CheckPosts.
type Problem struct {
	Permalink string
	Message   string
}

func (p Problem) String() string {
	return p.Permalink + ": " + p.Message
}

type problemLogger struct {
	permalink string
	problems  []Problem
}

func (l *problemLogger) Warnf(format string, args ...interface{}) {
	l.problems = append(l.problems, Problem{Permalink: l.permalink, Message: fmt.Sprintf(format, args...)})
}

// CheckPosts renders every post in Development mode and collects each
// unresolved cross-post link, missing paragraph and dangling in-page anchor.
func CheckPosts(r *markdown.Renderer, posts []BlogPost) ([]Problem, error) {
	var problems []Problem
	for _, p := range posts {
		log := &problemLogger{permalink: p.Permalink}
		resolver := outline.Resolver{Mode: outline.Development, Logger: log}
		if _, err := RenderPost(r, resolver, p, posts); err != nil {
			return nil, err
		}
		problems = append(problems, log.problems...)
	}
	return problems, nil
}
