package pubmark

import (
	"encoding/xml"
	"time"

	"github.com/labstack/echo/v4"
)

const sitemapNS = "http://www.sitemaps.org/schemas/sitemap/0.9"

type rssFeed struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	Link          string    `xml:"link"`
	Description   string    `xml:"description"`
	LastBuildDate string    `xml:"lastBuildDate,omitempty"`
	Items         []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string   `xml:"title"`
	Link        string   `xml:"link"`
	Description string   `xml:"description"`
	PubDate     string   `xml:"pubDate,omitempty"`
	GUID        string   `xml:"guid"`
	Categories  []string `xml:"category"`
}

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// buildFeed builds an RSS 2.0 channel. Posts are expected newest first.
func buildFeed(cfg SiteConfig, posts []BlogPost) rssFeed {
	ch := rssChannel{
		Title:       cfg.Name,
		Link:        cfg.URL,
		Description: cfg.Description,
		Items:       make([]rssItem, 0, len(posts)),
	}
	var newest time.Time
	for _, p := range posts {
		link := BuildURL(cfg.URL, p.Permalink)
		item := rssItem{
			Title:       p.Title,
			Link:        link,
			Description: p.Summary,
			GUID:        link,
			Categories:  p.Tags,
		}
		if t, err := parsePostDate(p.Date); err == nil {
			item.PubDate = t.Format(time.RFC1123Z)
			if t.After(newest) {
				newest = t
			}
		}
		ch.Items = append(ch.Items, item)
	}
	if !newest.IsZero() {
		ch.LastBuildDate = newest.Format(time.RFC1123Z)
	}
	return rssFeed{Version: "2.0", Channel: ch}
}

// buildSitemap lists the home page and every post.
func buildSitemap(base string, posts []BlogPost) sitemapURLSet {
	urls := []sitemapURL{{Loc: BuildURL(base)}}
	for _, p := range posts {
		u := sitemapURL{Loc: BuildURL(base, p.Permalink)}
		if t, err := parsePostDate(p.Date); err == nil {
			u.LastMod = t.Format("2006-01-02")
		}
		urls = append(urls, u)
	}
	return sitemapURLSet{XMLNS: sitemapNS, URLs: urls}
}

// parsePostDate accepts a bare date or a full RFC 3339 timestamp.
func parsePostDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

func (a *App) renderRSS(c echo.Context, posts []BlogPost) error {
	return renderXML(c, "application/rss+xml; charset=utf-8", buildFeed(a.Config, posts))
}

func (a *App) renderSitemap(c echo.Context, posts []BlogPost) error {
	return renderXML(c, "application/xml; charset=utf-8", buildSitemap(a.Config.URL, posts))
}
