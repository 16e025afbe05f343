// Package inkwell is a personal blog engine built with Go, Echo, and templ.
// Markdown content files with YAML front matter are loaded from a directory,
// rendered to HTML through a goldmark pipeline, and served as themed pages,
// alongside cached GitHub statistics endpoints, an RSS feed, a sitemap, and a
// privacy-first analytics dashboard.
//
// Users provide their own templ components via the ViewFuncs struct, and
// inkwell handles the handler logic, middleware, caching, and analytics.
package inkwell

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/okvist/inkwell/analytics"
	"github.com/okvist/inkwell/content"
	"github.com/okvist/inkwell/markdown"
	"github.com/okvist/inkwell/stats"
)

// ViewFuncs holds user-provided templ components that the engine calls when
// rendering pages. This is the inversion-of-control mechanism that lets users
// own and customize all templates.
type ViewFuncs struct {
	Home           func(posts []Post, activeCategory string, categories []string) templ.Component
	Post           func(post Post, related []Post) templ.Component
	AdminLogin     func(showError bool, csrfToken string) templ.Component
	AdminDashboard func(postCount int, stats analytics.Stats, message string, csrfToken string) templ.Component
	NotFound       func() templ.Component
	ServerError    func() templ.Component
}

// App is the central inkwell application. It wires together the content
// cache, markdown renderer, stats client, handlers, middleware, and
// user-provided templates.
type App struct {
	Config SiteConfig
	Echo   *echo.Echo
	Cache  *ContentCache
	Views  ViewFuncs

	render         content.RenderFunc
	loginLimiter   *LoginLimiter
	analyticsStore *analytics.Store
	statsHandler   *stats.Handler
	customRoutes   []func(*App)
}

// New creates a new inkwell App with the given configuration and view functions.
func New(cfg SiteConfig, views ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config: cfg,
		Echo:   echo.New(),
		Views:  views,
		render: func(source []byte) (string, error) {
			return markdown.ToHTML(string(source))
		},
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Start initializes the cache, analytics, middleware, and routes, then starts
// the server. It blocks until the server stops.
func (a *App) Start() error {
	if err := a.init(); err != nil {
		return err
	}

	if a.Config.WatchContent {
		stop, err := a.Cache.Watch()
		if err != nil {
			return fmt.Errorf("inkwell: watch content: %w", err)
		}
		defer stop()
	}

	if a.analyticsStore != nil {
		stopCleanup := a.analyticsStore.StartCleanupScheduler(365, 24*time.Hour)
		defer stopCleanup()
	}

	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// init validates config and wires cache, analytics, middleware, and routes.
// Split from Start so the static build can reuse it without a server.
func (a *App) init() error {
	if a.Config.AdminPassword == "" {
		return fmt.Errorf("inkwell: AdminPassword is required")
	}
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("inkwell: SessionSecret is required")
	}

	a.Cache = NewContentCache(a.Config.ContentDir, a.render, a.Config.CacheTTL)
	a.loginLimiter = NewLoginLimiter(5, time.Minute)

	if a.Config.AnalyticsEnabled {
		store, err := analytics.NewStore(a.Config.AnalyticsDatabasePath)
		if err != nil {
			return fmt.Errorf("inkwell: init analytics: %w", err)
		}
		a.analyticsStore = store
		if err := analytics.InitSalt(store); err != nil {
			return fmt.Errorf("inkwell: init analytics salt: %w", err)
		}
	}

	if a.Config.GithubUser != "" {
		client := stats.NewClient(a.Config.GithubUser, a.Config.GithubToken)
		a.statsHandler = stats.NewHandler(client)
	}

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	e.Static("/public", a.Config.StaticDir)
	e.GET("/favicon.svg", a.handleFavicon)
	e.GET("/robots.txt", a.handleRobots)

	// Public routes
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/blog", handleBlogRedirect)
	e.GET("/", a.handleHome)
	e.GET("/blog/:slug/", a.handlePost)

	// Stats API
	if a.statsHandler != nil {
		a.statsHandler.RegisterRoutes(e)
	}

	// Admin routes
	e.GET("/admin/", a.handleAdmin)
	e.POST("/admin/login/", a.handleAdminLogin)
	e.POST("/admin/logout/", handleAdminLogout)
	e.POST("/admin/reload/", a.handleAdminReload)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.analyticsStore != nil {
		return a.analyticsStore.Close()
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
		log.Fatalf("inkwell: required environment variable %s is not set", key)
	}
	return v
}
