package jwsite

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jwdigital/jwsite/content"
	"github.com/jwdigital/jwsite/logger"
)

// SiteConfig holds all configuration for a jwsite server.
type SiteConfig struct {
	Name        string `mapstructure:"name"`        // Brand name (default "JW Digital")
	URL         string `mapstructure:"url"`         // Canonical URL (default "http://localhost:3000")
	Description string `mapstructure:"description"` // Fallback meta description and footer tagline

	Addr         string `mapstructure:"addr"`          // Listen address (default ":3000")
	DatabasePath string `mapstructure:"database_path"` // SQLite path (default "data/content.db")
	ContentDir   string `mapstructure:"content_dir"`   // Import source (default "content")
	ImagesDir    string `mapstructure:"images_dir"`    // OG image assets (default "content/images")

	DraftSecret   string `mapstructure:"draft_secret"`   // Enables draft mode when set
	SessionSecret string `mapstructure:"session_secret"` // Required: cookie signing secret
	CookieSecure  bool   `mapstructure:"cookie_secure"`  // Set true for HTTPS

	CacheTTL       time.Duration `mapstructure:"cache_ttl"` // Published content cache TTL (default 5m)
	LogLevel       string        `mapstructure:"log_level"`
	MetricsEnabled bool          `mapstructure:"metrics_enabled"`
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = content.DefaultBrand
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/content.db"
	}
	if c.ContentDir == "" {
		c.ContentDir = "content"
	}
	if c.ImagesDir == "" {
		c.ImagesDir = "content/images"
	}
	if c.CacheTTL == 0 {
		c.CacheTTL = 5 * time.Minute
	}
}

// WithDefaults returns c with empty fields set to their defaults.
func (c SiteConfig) WithDefaults() SiteConfig {
	c.setDefaults()
	return c
}

// Option configures additional App behavior.
type Option func(*App)

// WithLogger sets the application logger (default: no-op).
func WithLogger(l logger.Logger) Option {
	return func(a *App) {
		a.Log = l
	}
}

// WithStore uses an already opened store instead of opening DatabasePath.
// The caller keeps ownership and closes it.
func WithStore(s *content.Store) Option {
	return func(a *App) {
		a.Store = s
		a.ownsStore = false
	}
}

// WithClock overrides the time source used for copyright years.
func WithClock(now func() time.Time) Option {
	return func(a *App) {
		a.now = now
	}
}

// WithRegistry sets the Prometheus registry metrics are registered on.
func WithRegistry(r *prometheus.Registry) Option {
	return func(a *App) {
		a.registry = r
	}
}

// WithCustomRoutes registers additional routes on the Echo instance.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}
