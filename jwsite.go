// Package jwsite serves the JW Digital marketing site with Go, Echo, and templ.
// It renders page-builder pages and posts from a SQLite document store, with
// draft previews, sitemap, RSS, and Open Graph image transforms.
//
// Navigation, footer, and body links all go through package link, so a
// broken reference in content degrades to "#" instead of failing the page.
package jwsite

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jwdigital/jwsite/content"
	"github.com/jwdigital/jwsite/logger"
)

const shutdownTimeout = 10 * time.Second

// App wires together the store, cache, handlers, and middleware.
type App struct {
	Config SiteConfig
	Echo   *echo.Echo
	Store  *content.Store
	Cache  *ContentCache
	Log    logger.Logger

	draftLimiter *AttemptLimiter
	metrics      *siteMetrics
	registry     *prometheus.Registry
	customRoutes []func(*App)
	ownsStore    bool
	ready        bool
	now          func() time.Time
}

// New creates an App with the given configuration.
func New(cfg SiteConfig, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		Log:       logger.NewNop(),
		ownsStore: true,
		now:       time.Now,
	}
	a.Echo.HideBanner = true
	a.Echo.HidePort = true

	for _, opt := range opts {
		opt(a)
	}
	if a.registry == nil {
		a.registry = prometheus.NewRegistry()
	}

	return a
}

// Setup opens the store and installs middleware and routes. Start calls it
// when it has not run yet; tests call it directly and drive a.Echo with
// httptest.
func (a *App) Setup() error {
	if a.ready {
		return nil
	}
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("jwsite: SessionSecret is required")
	}

	if a.Store == nil {
		store, err := content.NewStore(a.Config.DatabasePath)
		if err != nil {
			return fmt.Errorf("jwsite: init store: %w", err)
		}
		a.Store = store
	}

	a.Cache = NewContentCache(a.Store, a.Config.CacheTTL)
	a.draftLimiter = NewAttemptLimiter(5, time.Minute)

	metrics, err := newSiteMetrics(a.registry)
	if err != nil {
		return fmt.Errorf("jwsite: init metrics: %w", err)
	}
	a.metrics = metrics

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}
	a.ready = true
	return nil
}

// Start sets the app up and serves until ctx is cancelled, then shuts the
// server down gracefully.
func (a *App) Start(ctx context.Context) error {
	if err := a.Setup(); err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		a.Log.Info("server starting", logger.String("addr", a.Config.Addr))
		if err := a.Echo.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.Log.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.Echo.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("jwsite: shutdown: %w", err)
	}
	return <-errCh
}

func (a *App) setupRoutes() {
	e := a.Echo

	static, _ := fs.Sub(EmbeddedAssets, "embedded")
	e.GET("/public/*", echo.WrapHandler(http.StripPrefix("/public/", http.FileServer(http.FS(static)))))
	e.GET("/images/:file", a.handleImage)

	e.GET("/robots.txt", a.handleRobots)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/healthz", a.handleHealth)
	if a.Config.MetricsEnabled {
		e.GET("/metrics", a.metrics.handler())
	}

	e.GET("/api/draft-mode/enable", a.handleDraftEnable)
	e.GET("/api/draft-mode/disable", handleDraftDisable)

	e.GET("/", a.handleHome)
	e.GET("/homepage", handleHomepageRedirect)
	e.GET("/posts", a.handlePosts)
	e.GET("/posts/:slug", a.handlePost)
	e.GET("/:slug", a.handlePage)
}

// Close stops background work and releases the store if the app opened it.
func (a *App) Close() error {
	if a.draftLimiter != nil {
		a.draftLimiter.Stop()
	}
	if a.Store != nil && a.ownsStore {
		return a.Store.Close()
	}
	return nil
}
