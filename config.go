package inkwell

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// SiteConfig holds all configuration for an inkwell site.
type SiteConfig struct {
	Name        string `yaml:"name"`        // Site name (default "Blog")
	URL         string `yaml:"url"`         // Canonical URL (default "http://localhost:3000")
	Description string `yaml:"description"` // Site description for RSS and meta tags
	Author      string `yaml:"author"`      // Author name for JSON-LD

	Addr       string `yaml:"addr"`        // Listen address (default ":3000")
	ContentDir string `yaml:"content_dir"` // Markdown content directory (default "content")
	StaticDir  string `yaml:"static_dir"`  // Static assets directory (default "public")
	OutputDir  string `yaml:"output_dir"`  // Static build output directory (default "dist")

	GithubUser  string `yaml:"github_user"` // GitHub username for the stats endpoints
	GithubToken string `yaml:"-"`           // Optional API token, env only

	AnalyticsEnabled      bool   `yaml:"analytics_enabled"`  // Enable analytics
	AnalyticsDatabasePath string `yaml:"analytics_database"` // Analytics SQLite path (default "data/analytics.db")

	AdminPassword string `yaml:"-"` // Required for admin routes, env only
	SessionSecret string `yaml:"-"` // Session encryption secret, env only
	CookieSecure  bool   `yaml:"cookie_secure"`

	CacheTTL     time.Duration `yaml:"cache_ttl"`     // Post cache TTL (default 5min)
	WatchContent bool          `yaml:"watch_content"` // Invalidate the cache on content dir changes
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Blog"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.ContentDir == "" {
		c.ContentDir = "content"
	}
	if c.StaticDir == "" {
		c.StaticDir = "public"
	}
	if c.OutputDir == "" {
		c.OutputDir = "dist"
	}
	if c.AnalyticsDatabasePath == "" {
		c.AnalyticsDatabasePath = "data/analytics.db"
	}
	if c.CacheTTL == 0 {
		c.CacheTTL = 5 * time.Minute
	}
	c.URL = strings.TrimSuffix(c.URL, "/")
}

// LoadConfigFile reads an inkwell.yml site file into cfg. Fields already set
// on cfg keep their values only when the file leaves them empty; the file is
// the base layer, env vars are applied by the caller on top.
func LoadConfigFile(path string, cfg *SiteConfig) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithRenderer overrides the markdown render function used by the content
// loader. Mostly useful in tests.
func WithRenderer(fn func(source []byte) (string, error)) Option {
	return func(a *App) {
		a.render = fn
	}
}
