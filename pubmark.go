// Package pubmark is a Markdown blog engine built with Go, Echo, goldmark and templ.
// Posts are loaded from a content directory, indexed in SQLite and served
// with heading anchors and cross-post links resolved.
//
// Users provide their own templ templates via the ViewFuncs struct.
package pubmark

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	elog "github.com/labstack/gommon/log"

	"github.com/eringen/pubmark/markdown"
	"github.com/eringen/pubmark/outline"
)

// ViewFuncs holds the templ components the App renders pages with.
type ViewFuncs struct {
	Home func(posts []BlogPost, activeTag string, tags []string) templ.Component
	// Post receives the rendered body; toc is nil outside Development mode.
	Post           func(post BlogPost, body templ.Component, toc *outline.Node) templ.Component
	AdminLogin     func(showError bool, csrfToken string) templ.Component
	AdminDashboard func(posts []BlogPost, message string, csrfToken string) templ.Component
	NotFound       func() templ.Component
	ServerError    func() templ.Component
}

// App is the central pubmark application. It wires together the store,
// cache, renderer, handlers, middleware, and user-provided templates.
type App struct {
	Config   SiteConfig
	Echo     *echo.Echo
	Store    *Store
	Cache    *PostCache
	Views    ViewFuncs
	Markdown *markdown.Renderer
	Resolver outline.Resolver

	loginLimiter *RateLimiter
	customRoutes []func(*App)
	staticDir    string
}

// New creates a new pubmark App with the given configuration and view functions.
func New(cfg SiteConfig, views ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()

	e := echo.New()
	e.Logger.SetLevel(elog.INFO)
	a := &App{
		Config:    cfg,
		Echo:      e,
		Views:     views,
		Markdown:  markdown.New(),
		Resolver:  outline.Resolver{Mode: cfg.Mode, Logger: e.Logger},
		staticDir: "public",
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Setup opens the index, loads the content directory and registers
// middleware and routes. Start calls it; tests may call it directly.
func (a *App) Setup() error {
	if a.Config.AdminPassword == "" {
		return fmt.Errorf("pubmark: AdminPassword is required")
	}
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("pubmark: SessionSecret is required")
	}

	store, err := NewStore(a.Config.DatabasePath)
	if err != nil {
		return fmt.Errorf("pubmark: init store: %w", err)
	}
	a.Store = store
	a.Cache = NewPostCache(a.Store, a.Config.PostCacheTTL)
	a.loginLimiter = NewRateLimiter(5, time.Minute)

	if _, err := a.Reindex(); err != nil {
		return err
	}

	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}
	return nil
}

// Start sets the App up and starts the server.
func (a *App) Start() error {
	if err := a.Setup(); err != nil {
		return err
	}
	drafts := "will not"
	if a.Config.IncludeDrafts() {
		drafts = "will"
	}
	a.Echo.Logger.Infof("build mode=%s, %s include drafts", a.Config.Mode, drafts)
	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Reindex reloads the content directory into the store and returns the
// number of visible posts. Drafts are dropped unless the mode includes them.
func (a *App) Reindex() (int, error) {
	all, err := LoadPosts(a.Config.ContentDir)
	if err != nil {
		return 0, fmt.Errorf("pubmark: load posts: %w", err)
	}
	posts := FilterDraftPosts(all, a.Config.IncludeDrafts())
	if len(all) == len(posts) {
		a.Echo.Logger.Infof("All %d blog posts will be visible", len(posts))
	} else {
		a.Echo.Logger.Infof("Only %d out of %d will be visible. Rest are drafts", len(posts), len(all))
	}
	if err := a.Store.ReplacePosts(posts); err != nil {
		return 0, fmt.Errorf("pubmark: index posts: %w", err)
	}
	if a.Cache != nil {
		a.Cache.Invalidate()
	}
	return len(posts), nil
}

// RenderPost renders post's body against the cached posts.
func (a *App) RenderPost(post BlogPost) (string, error) {
	posts, err := a.Cache.ListPosts("")
	if err != nil {
		return "", err
	}
	return RenderPost(a.Markdown, a.Resolver, post, posts)
}

func (a *App) setupRoutes() {
	e := a.Echo

	e.Static("/public", a.staticDir)
	e.GET("/favicon.svg", a.handleFavicon)
	e.GET("/robots.txt", a.handleRobots)

	// Public routes
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/blog", handleBlogRedirect)
	e.GET("/", a.handleHome)
	e.GET("/blog/:slug/", a.handlePost)

	// Anchor API
	api := e.Group("/api", apiRateLimit())
	api.GET("/anchor", a.handleAnchor)
	api.GET("/slug", handleSlug)

	// Admin routes
	e.GET("/admin/", a.handleAdmin)
	e.POST("/admin/login/", a.handleAdminLogin)
	e.POST("/admin/logout/", handleAdminLogout)
	e.POST("/admin/reindex/", a.handleAdminReindex, requireAdmin)

	// Posts with a custom permalink outside /blog/
	e.GET("/*", a.handlePost)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.loginLimiter != nil {
		a.loginLimiter.Stop()
	}
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// MustEnv returns the value of the environment variable key, or fatally exits if empty.
func MustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		log.Fatalf("pubmark: required environment variable %s is not set", key)
	}
	return v
}
