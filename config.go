package website

import (
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/jtushya/new-company-website/blog"
	"github.com/jtushya/new-company-website/contentsync"
	"github.com/jtushya/new-company-website/forms"
)

// SiteConfig holds all configuration for the site.
type SiteConfig struct {
	Name        string // Site name (default "Planckk")
	URL         string // Canonical URL (default "http://localhost:3000")
	Description string // Site description for RSS and meta tags
	Author      string // Organisation name used in JSON-LD

	Addr            string        // Listen address (default ":3000")
	ShutdownTimeout time.Duration // Graceful shutdown budget (default 10s)

	ContentDir      string        // Markdown posts (default "content/blog")
	StaticDir       string        // Static assets served under /public (default "public")
	ContentCacheTTL time.Duration // Collection refresh interval; 0 keeps it for the process lifetime
	PostsPerPage    int           // Listing page size (default 6)

	RedisURL     string        // Optional shared cache for rendered post HTML
	HTMLCacheTTL time.Duration // Lifetime of cached post HTML (default 24h)

	ContentBucket contentsync.Config // Optional bucket to pull posts from at startup

	FormsEndpoint     string // Form backend URL (default forms.DefaultEndpoint)
	FormRatePerMinute int    // Form POSTs allowed per client IP per minute (default 5)

	ContactEmail string
	ContactPhone string

	GAMeasurementID    string
	GoogleVerification string

	SessionSecret string // Flash message cookie secret; random per process when empty
	CookieSecure  bool   // Set true for HTTPS

	LogLevel  string
	LogPretty bool
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Planckk"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	c.URL = strings.TrimRight(c.URL, "/")
	if c.Description == "" {
		c.Description = "Lightning-fast websites, video editing and digital marketing for growing businesses."
	}
	if c.Author == "" {
		c.Author = c.Name
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = 10 * time.Second
	}
	if c.ContentDir == "" {
		c.ContentDir = "content/blog"
	}
	if c.StaticDir == "" {
		c.StaticDir = "public"
	}
	if c.ContentCacheTTL < 0 {
		c.ContentCacheTTL = 0
	}
	if c.PostsPerPage <= 0 {
		c.PostsPerPage = blog.DefaultPageSize
	}
	if c.HTMLCacheTTL == 0 {
		c.HTMLCacheTTL = 24 * time.Hour
	}
	if c.FormsEndpoint == "" {
		c.FormsEndpoint = forms.DefaultEndpoint
	}
	if c.FormRatePerMinute <= 0 {
		c.FormRatePerMinute = 5
	}
	if c.ContactEmail == "" {
		c.ContactEmail = "info@planckk.com"
	}
	if c.ContactPhone == "" {
		c.ContactPhone = "+91 93841 07679"
	}
}

// LoadConfig reads the configuration from the environment, after loading a
// .env file from the working directory when one exists.
func LoadConfig() SiteConfig {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SITE_NAME", "Planckk")
	v.SetDefault("ADDR", ":3000")
	v.SetDefault("CONTENT_DIR", "content/blog")
	v.SetDefault("STATIC_DIR", "public")
	v.SetDefault("CONTENT_CACHE_TTL", "5m")
	v.SetDefault("POSTS_PER_PAGE", blog.DefaultPageSize)
	v.SetDefault("HTML_CACHE_TTL", "24h")
	v.SetDefault("FORM_RATE_PER_MINUTE", 5)
	v.SetDefault("SHUTDOWN_TIMEOUT", "10s")
	v.SetDefault("LOG_LEVEL", "info")

	baseURL := v.GetString("BASE_URL")
	if baseURL == "" {
		baseURL = v.GetString("NEXT_PUBLIC_BASE_URL")
	}

	return SiteConfig{
		Name:            v.GetString("SITE_NAME"),
		URL:             baseURL,
		Description:     v.GetString("SITE_DESCRIPTION"),
		Author:          v.GetString("SITE_AUTHOR"),
		Addr:            v.GetString("ADDR"),
		ShutdownTimeout: v.GetDuration("SHUTDOWN_TIMEOUT"),
		ContentDir:      v.GetString("CONTENT_DIR"),
		StaticDir:       v.GetString("STATIC_DIR"),
		ContentCacheTTL: v.GetDuration("CONTENT_CACHE_TTL"),
		PostsPerPage:    v.GetInt("POSTS_PER_PAGE"),
		RedisURL:        v.GetString("REDIS_URL"),
		HTMLCacheTTL:    v.GetDuration("HTML_CACHE_TTL"),
		ContentBucket: contentsync.Config{
			Bucket:    v.GetString("CONTENT_BUCKET"),
			Prefix:    v.GetString("CONTENT_BUCKET_PREFIX"),
			Endpoint:  v.GetString("CONTENT_BUCKET_ENDPOINT"),
			Region:    v.GetString("CONTENT_BUCKET_REGION"),
			AccessKey: v.GetString("CONTENT_BUCKET_ACCESS_KEY"),
			SecretKey: v.GetString("CONTENT_BUCKET_SECRET_KEY"),
		},
		FormsEndpoint:      v.GetString("FORMS_ENDPOINT"),
		FormRatePerMinute:  v.GetInt("FORM_RATE_PER_MINUTE"),
		ContactEmail:       v.GetString("CONTACT_EMAIL"),
		ContactPhone:       v.GetString("CONTACT_PHONE"),
		GAMeasurementID:    v.GetString("GA_MEASUREMENT_ID"),
		GoogleVerification: v.GetString("GOOGLE_SITE_VERIFICATION"),
		SessionSecret:      v.GetString("SESSION_SECRET"),
		CookieSecure:       v.GetBool("COOKIE_SECURE"),
		LogLevel:           v.GetString("LOG_LEVEL"),
		LogPretty:          v.GetBool("LOG_PRETTY"),
	}
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App after the built-in routes are registered.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithContentFS reads posts from fsys instead of Config.ContentDir.
func WithContentFS(fsys fs.FS) Option {
	return func(a *App) {
		a.contentFS = fsys
	}
}

// WithStaticFS reads images for size probing and social previews from fsys
// instead of Config.StaticDir.
func WithStaticFS(fsys fs.FS) Option {
	return func(a *App) {
		a.staticFS = fsys
	}
}

// WithLogger sets the application logger.
func WithLogger(l zerolog.Logger) Option {
	return func(a *App) {
		a.Logger = l
	}
}

// WithFormSubmitter replaces the form backend client.
func WithFormSubmitter(s forms.Submitter) Option {
	return func(a *App) {
		a.forms = s
	}
}

// WithHTMLCache sets the rendered post cache, bypassing Config.RedisURL.
func WithHTMLCache(c blog.HTMLCache) Option {
	return func(a *App) {
		a.htmlCache = c
	}
}

// WithViews replaces the built-in templates.
func WithViews(v ViewFuncs) Option {
	return func(a *App) {
		a.Views = v
	}
}
