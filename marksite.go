// Package marksite is a file-backed blog publishing engine built with Go,
// Echo, and templ. Posts live as <YYYY-MM-DD>-<slug>.md files with YAML
// front matter (layout, title, tags); marksite syncs them into a SQLite
// read model and serves the site, or exports it as static HTML.
//
// Users provide their own templ templates via the ViewFuncs struct, and
// marksite handles content loading, handlers, middleware, feeds, and the
// static build.
package marksite

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/eringen/marksite/analytics"
)

// ViewFuncs holds user-provided templ components that the framework calls
// when rendering pages. This is the inversion-of-control mechanism that
// lets users own and customize all templates.
type ViewFuncs struct {
	Home           func(posts []Post, activeTag string, tags []string, siteURL string) templ.Component
	HomePartial    func(posts []Post, activeTag string, tags []string, siteURL string) templ.Component
	BlogSection    func(posts []Post, activeTag string, tags []string) templ.Component
	Post           func(post Post, posts []Post, siteURL string) templ.Component
	PostPartial    func(post Post, posts []Post, siteURL string) templ.Component
	AdminLogin     func(showError bool, csrfToken string) templ.Component
	AdminDashboard func(posts []Post, message string, csrfToken string) templ.Component
	AdminImages    func(images []Image, csrfToken string) templ.Component
	NotFound       func() templ.Component
	ServerError    func() templ.Component
}

// App is the central marksite application. It wires together the content
// sync, store, cache, handlers, middleware, and user-provided templates.
type App struct {
	Config SiteConfig
	Echo   *echo.Echo
	Store  *Store
	Cache  *PostCache
	Views  ViewFuncs

	loginLimiter   *LoginLimiter
	analyticsStore *analytics.Store
	customRoutes   []func(*App)
	staticDir      string
	stopWatch      context.CancelFunc
}

// New creates a new marksite App with the given configuration and view functions.
func New(cfg SiteConfig, views ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		Views:     views,
		staticDir: "public",
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// initStore opens the store and cache and runs the initial content sync.
// Shared by Start and Build so a build never needs a running server.
func (a *App) initStore() error {
	if a.Store != nil {
		return nil
	}
	store, err := NewStore(a.Config.DatabasePath)
	if err != nil {
		return fmt.Errorf("marksite: init store: %w", err)
	}
	a.Store = store
	a.Cache = NewPostCache(store, a.Config.PostCacheTTL)

	res, err := SyncDir(a.Store, a.Config.ContentDir)
	if err != nil {
		return fmt.Errorf("marksite: sync content: %w", err)
	}
	for _, e := range res.Errs {
		log.Printf("marksite: sync: %v", e)
	}
	log.Printf("marksite: content sync: %s", res)
	return nil
}

// Resync re-reads the content directory into the store and invalidates the cache.
func (a *App) Resync() (SyncResult, error) {
	res, err := SyncDir(a.Store, a.Config.ContentDir)
	if err != nil {
		return res, err
	}
	a.Cache.Invalidate()
	return res, nil
}

// Start initializes the database, syncs content, and starts the server.
func (a *App) Start() error {
	// Validate required config
	if a.Config.AdminPassword == "" {
		return fmt.Errorf("marksite: AdminPassword is required")
	}
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("marksite: SessionSecret is required")
	}

	if err := a.initStore(); err != nil {
		return err
	}

	// Initialize login limiter
	a.loginLimiter = NewLoginLimiter(5, time.Minute)

	// Initialize analytics if enabled
	if a.Config.AnalyticsEnabled {
		analyticsStore, err := analytics.NewStore(a.Config.AnalyticsDatabasePath)
		if err != nil {
			return fmt.Errorf("marksite: init analytics: %w", err)
		}
		a.analyticsStore = analyticsStore
		if err := analytics.InitSalt(analyticsStore); err != nil {
			return fmt.Errorf("marksite: init analytics salt: %w", err)
		}
		stopCleanup := analyticsStore.StartCleanupScheduler(365, 24*time.Hour)
		defer stopCleanup()
	}

	// Watch the content dir so file edits appear without a restart.
	if a.Config.WatchContent {
		ctx, cancel := context.WithCancel(context.Background())
		a.stopWatch = cancel
		go func() {
			err := WatchContent(ctx, a.Config.ContentDir, a.Config.WatchDebounce, func() {
				res, err := a.Resync()
				if err != nil {
					log.Printf("marksite: resync: %v", err)
					return
				}
				log.Printf("marksite: content changed: %s", res)
			})
			if err != nil && err != context.Canceled {
				log.Printf("marksite: watcher stopped: %v", err)
			}
		}()
	}

	// Setup middleware
	a.setupMiddleware()

	// Setup routes
	a.setupRoutes()

	// Apply custom routes
	for _, fn := range a.customRoutes {
		fn(a)
	}

	// Start server
	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	// Serve the embedded analytics beacon under /public/, falling through
	// to the user's static dir for everything else.
	embeddedFS, _ := fs.Sub(EmbeddedAssets, "embedded")
	embeddedHandler := http.FileServer(http.FS(embeddedFS))
	e.GET("/public/analytics.js", echo.WrapHandler(http.StripPrefix("/public/", embeddedHandler)))

	// User's static assets
	e.Static("/public", a.staticDir)
	e.GET("/favicon.svg", a.handleFavicon)
	e.GET("/robots.txt", a.handleRobots)

	// Public routes
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/blog", handleBlogRedirect)
	e.GET("/", a.handleHome)
	e.GET("/blog/:slug/", a.handlePost)
	e.GET("/tags/:tag/", a.handleTag)

	// Admin routes
	e.GET("/admin/", a.handleAdmin)
	e.POST("/admin/login/", a.handleAdminLogin)
	e.POST("/admin/logout/", handleAdminLogout)
	e.POST("/admin/sync/", a.handleAdminSync)
	e.GET("/admin/preview/:slug/", a.handleAdminPreview)
	e.GET("/admin/images/", a.handleImageList)
	e.POST("/admin/images/upload/", a.handleImageUpload)
	e.DELETE("/admin/images/:filename/", a.handleImageDelete)

	// Analytics routes
	if a.Config.AnalyticsEnabled && a.analyticsStore != nil {
		analyticsHandler := analytics.NewHandler(a.analyticsStore)
		analyticsAuthMiddleware := func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error {
				if !IsAdmin(c) {
					return c.Redirect(http.StatusSeeOther, "/admin/")
				}
				return next(c)
			}
		}
		analyticsHandler.RegisterRoutes(e, analyticsAuthMiddleware)
	}
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.stopWatch != nil {
		a.stopWatch()
	}
	if a.Store != nil {
		a.Store.Close()
	}
	if a.analyticsStore != nil {
		a.analyticsStore.Close()
	}
	return nil
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
// This is a convenience function for use in scaffolded main.go files.
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
		log.Fatalf("marksite: required environment variable %s is not set", key)
	}
	return v
}
