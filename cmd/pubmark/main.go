package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	elog "github.com/labstack/gommon/log"

	"github.com/eringen/pubmark"
	"github.com/eringen/pubmark/anchor"
	"github.com/eringen/pubmark/markdown"
	"github.com/eringen/pubmark/outline"
	"github.com/eringen/pubmark/views"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	logger := elog.New("pubmark")
	logger.SetHeader("${time_rfc3339} ${level} ${prefix}")
	logger.SetLevel(elog.INFO)

	switch os.Args[1] {
	case "serve":
		if err := runServe(loadConfig()); err != nil {
			logger.Fatalf("serve: %v", err)
		}
	case "check":
		problems, err := runCheck(loadConfig(), logger)
		if err != nil {
			logger.Fatalf("check: %v", err)
		}
		if problems > 0 {
			logger.Errorf("%d problem(s) found", problems)
			os.Exit(1)
		}
		logger.Info("no problems found")
	case "new":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "Usage: pubmark new <title> [tag...]")
			os.Exit(1)
		}
		path, err := runNew(loadConfig().ContentDir, os.Args[2], os.Args[3:], time.Now())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("created %s\n", path)
	case "slug":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "Usage: pubmark slug <text>")
			os.Exit(1)
		}
		fmt.Println(anchor.SlugifyString(strings.Join(os.Args[2:], " ")))
	case "version":
		fmt.Printf("pubmark %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

// loadConfig reads the site configuration from the environment.
// The build mode is read here once and passed down explicitly.
func loadConfig() pubmark.SiteConfig {
	return pubmark.SiteConfig{
		Name:          pubmark.EnvOr("SITE_NAME", ""),
		URL:           pubmark.EnvOr("SITE_URL", ""),
		Description:   pubmark.EnvOr("SITE_DESCRIPTION", ""),
		Author:        pubmark.EnvOr("SITE_AUTHOR", ""),
		Addr:          pubmark.EnvOr("ADDR", ""),
		DatabasePath:  pubmark.EnvOr("DATABASE_PATH", ""),
		ContentDir:    pubmark.EnvOr("CONTENT_DIR", ""),
		Mode:          outline.ParseMode(os.Getenv("PUBMARK_MODE")),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		SessionSecret: os.Getenv("ADMIN_SESSION_SECRET"),
		CookieSecure:  os.Getenv("COOKIE_SECURE") == "true",
	}
}

func runServe(cfg pubmark.SiteConfig) error {
	if cfg.Mode == outline.Production {
		cfg.AdminPassword = pubmark.MustEnv("ADMIN_PASSWORD")
		cfg.SessionSecret = pubmark.MustEnv("ADMIN_SESSION_SECRET")
	} else {
		cfg.AdminPassword = pubmark.EnvOr("ADMIN_PASSWORD", "admin")
		cfg.SessionSecret = pubmark.EnvOr("ADMIN_SESSION_SECRET", "development-secret")
	}

	app := pubmark.New(cfg, views.Default(cfg))
	defer app.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() { errc <- app.Start() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.Echo.Shutdown(shutdownCtx); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// runCheck renders every visible post and logs each broken link.
// It returns the number of problems found.
func runCheck(cfg pubmark.SiteConfig, logger *elog.Logger) (int, error) {
	if cfg.ContentDir == "" {
		cfg.ContentDir = "content/blog"
	}
	all, err := pubmark.LoadPosts(cfg.ContentDir)
	if err != nil {
		return 0, err
	}
	posts := pubmark.FilterDraftPosts(all, cfg.Mode == outline.Development)
	logger.Infof("checking %d of %d posts in %s (mode=%s)", len(posts), len(all), cfg.ContentDir, cfg.Mode)

	problems, err := pubmark.CheckPosts(markdown.New(), posts)
	if err != nil {
		return 0, err
	}
	for _, p := range problems {
		logger.Warn(p.String())
	}
	return len(problems), nil
}

func printUsage() {
	fmt.Println(`pubmark - A Markdown blog engine with heading anchors and cross-post links

Usage:
  pubmark <command> [arguments]

Commands:
  serve             Index the content directory and start the server
  check             Report unresolved cross-post links and missing anchors
  new <title> [tag] Create a draft post in the content directory
  slug <text>       Print the heading anchor for text
  version           Print the pubmark version
  help              Show this help message

Environment:
  PUBMARK_MODE      development (default) or production
  CONTENT_DIR       Markdown posts (default content/blog)
  DATABASE_PATH     SQLite index (default data/index.db)
  ADDR, SITE_NAME, SITE_URL, SITE_DESCRIPTION, SITE_AUTHOR
  ADMIN_PASSWORD, ADMIN_SESSION_SECRET, COOKIE_SECURE

Examples:
  pubmark new "Hello, world" go
  pubmark slug "Don't forget: URLs!"
  PUBMARK_MODE=production pubmark check`)
}
