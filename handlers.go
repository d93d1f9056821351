package pubmark

import (
	"errors"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/eringen/pubmark/anchor"
	"github.com/eringen/pubmark/outline"
)

func (a *App) handleHome(c echo.Context) error {
	tag := c.QueryParam("tag")
	posts, err := a.Cache.ListPosts(tag)
	if err != nil {
		return err
	}
	tags, err := a.Cache.ListTags()
	if err != nil {
		return err
	}
	return Render(c, a.Views.Home(posts, tag, tags))
}

// handlePost serves a post by its permalink. Both "/blog/:slug/" and custom
// permalinks from front matter end up here.
func (a *App) handlePost(c echo.Context) error {
	permalink := c.Request().URL.Path
	if slug := c.Param("slug"); slug != "" {
		permalink = NormalizePermalink(slug)
	}
	post, err := a.Cache.GetPost(NormalizePermalink(permalink))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
		}
		return err
	}
	body, err := a.RenderPost(post)
	if err != nil {
		return err
	}
	var toc *outline.Node
	if a.Config.Mode == outline.Development {
		toc = post.Outline
	}
	return Render(c, a.Views.Post(post, templ.Raw(body), toc))
}

func (a *App) handleSitemap(c echo.Context) error {
	posts, err := a.Cache.ListPosts("")
	if err != nil {
		return err
	}
	return a.renderSitemap(c, posts)
}

func (a *App) handleFeed(c echo.Context) error {
	posts, err := a.Cache.ListPosts("")
	if err != nil {
		return err
	}
	return a.renderRSS(c, posts)
}

func handleBlogRedirect(c echo.Context) error {
	return c.Redirect(http.StatusMovedPermanently, "/")
}

func (a *App) handleFavicon(c echo.Context) error {
	return c.File(a.staticDir + "/favicon.svg")
}

func (a *App) handleRobots(c echo.Context) error {
	sitemap := strings.TrimSuffix(BuildURL(a.Config.URL, "sitemap.xml"), "/")
	body := "User-agent: *\nAllow: /\nDisallow: /admin/\n\nSitemap: " + sitemap + "\n"
	return c.String(http.StatusOK, body)
}

type anchorResponse struct {
	Href  string `json:"href"`
	Found bool   `json:"found"`
}

// handleAnchor resolves a cross-post link the way Markdown bodies do.
// Query: permalink (empty for the current post), paragraph, from.
func (a *App) handleAnchor(c echo.Context) error {
	posts, err := a.Cache.ListPosts("")
	if err != nil {
		return err
	}
	linker := CrossLinker{Posts: posts, Resolver: a.Resolver}
	if from := c.QueryParam("from"); from != "" {
		if cur, err := a.Cache.GetPost(NormalizePermalink(from)); err == nil {
			linker.Current = cur
		}
	}
	href, ok := linker.ResolveCrossLink(c.QueryParam("permalink"), c.QueryParam("paragraph"))
	return c.JSON(http.StatusOK, anchorResponse{Href: href, Found: ok})
}

func handleSlug(c echo.Context) error {
	text := c.QueryParam("text")
	return c.JSON(http.StatusOK, map[string]string{"slug": anchor.SlugifyString(text)})
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var he *echo.HTTPError
	ok := errors.As(err, &he)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		_ = RenderStatus(c, code, a.Views.ServerError())
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
