// Package website serves the company marketing site: static pages, lead forms
// and the blog built from a directory of markdown files.
//
// Templates are supplied through the ViewFuncs struct. The built-in mustache
// views are used unless WithViews replaces them.
package website

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/a-h/templ"
	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/jtushya/new-company-website/blog"
	"github.com/jtushya/new-company-website/contentsync"
	"github.com/jtushya/new-company-website/forms"
	"github.com/jtushya/new-company-website/internal/cache"
	"github.com/jtushya/new-company-website/internal/logger"
	"github.com/jtushya/new-company-website/internal/media"
	"github.com/jtushya/new-company-website/internal/metrics"
	"github.com/jtushya/new-company-website/views"
)

// ViewFuncs holds the components the handlers render. This is the
// inversion-of-control point that lets callers own the templates.
type ViewFuncs struct {
	Home        func(views.HomePage) templ.Component
	BlogIndex   func(views.BlogIndexPage) templ.Component
	BlogResults func(views.BlogIndexPage) templ.Component
	Post        func(views.PostPage) templ.Component
	Page        func(views.StaticPage) templ.Component
	Services    func(views.StaticPage) templ.Component
	Form        func(views.FormPage) templ.Component
	Error       func(views.ErrorPage) templ.Component
}

// DefaultViews maps the built-in templates onto ViewFuncs.
func DefaultViews(r *views.Renderer) ViewFuncs {
	return ViewFuncs{
		Home:        r.Home,
		BlogIndex:   r.BlogIndex,
		BlogResults: r.BlogResults,
		Post:        r.Post,
		Page:        r.Page,
		Services:    r.Services,
		Form:        r.Form,
		Error:       r.Error,
	}
}

// App wires the blog store, caches, handlers, middleware and templates
// onto an echo server.
type App struct {
	Config     SiteConfig
	Echo       *echo.Echo
	Store      *blog.Store
	Collection *blog.Collection
	Searcher   *blog.Searcher
	Views      ViewFuncs
	Logger     zerolog.Logger

	contentFS    fs.FS
	staticFS     fs.FS
	htmlCache    blog.HTMLCache
	forms        forms.Submitter
	formLimiter  *FormLimiter
	images       *media.Prober
	registry     *prometheus.Registry
	closers      []io.Closer
	customRoutes []func(*App)

	initOnce sync.Once
	initErr  error
}

// New creates an App with the given configuration.
func New(cfg SiteConfig, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config: cfg,
		Echo:   echo.New(),
		Logger: logger.Get(),
	}
	a.Echo.HideBanner = true
	a.Echo.HidePort = true

	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Init builds the content pipeline, middleware and routes. Start calls it;
// tests call it directly and drive a.Echo with httptest. Only the first call
// does any work.
func (a *App) Init(ctx context.Context) error {
	a.initOnce.Do(func() {
		a.initErr = a.init(ctx)
	})
	return a.initErr
}

func (a *App) init(ctx context.Context) error {
	if a.Config.SessionSecret == "" {
		a.Config.SessionSecret = uuid.NewString() + uuid.NewString()
		a.Logger.Warn().Msg("SESSION_SECRET not set; flash cookies will not survive a restart")
	}

	if a.Views.Home == nil {
		r, err := views.Load()
		if err != nil {
			return fmt.Errorf("website: load views: %w", err)
		}
		a.Views = DefaultViews(r)
	}

	if a.htmlCache == nil && a.Config.RedisURL != "" {
		c, err := cache.Connect(ctx, a.Config.RedisURL, a.Config.HTMLCacheTTL)
		if err != nil {
			// The cache is an optimisation; serve without it.
			a.Logger.Warn().Err(err).Msg("html cache unavailable")
		} else {
			a.htmlCache = c
			a.closers = append(a.closers, c)
		}
	}

	if a.contentFS == nil {
		a.contentFS = os.DirFS(a.Config.ContentDir)
	}
	if a.staticFS == nil {
		a.staticFS = os.DirFS(a.Config.StaticDir)
	}

	storeOpts := []blog.StoreOption{blog.WithLogger(a.Logger)}
	if a.htmlCache != nil {
		storeOpts = append(storeOpts, blog.WithHTMLCache(a.htmlCache))
	}
	a.Store = blog.NewStore(a.contentFS, storeOpts...)
	a.Collection = blog.NewCollection(a.Store, a.Config.ContentCacheTTL)
	a.Searcher = blog.NewSearcher(a.Collection, a.Logger)
	a.images = media.NewProber(a.staticFS)

	if a.forms == nil {
		a.forms = forms.NewClient(a.Config.FormsEndpoint, a.Logger)
	}
	a.formLimiter = NewFormLimiter(a.Config.FormRatePerMinute, time.Minute)
	a.closers = append(a.closers, a.formLimiter)

	a.registry = prometheus.NewRegistry()
	metrics.RegisterCollectors(a.registry)

	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}
	return nil
}

// Start pulls content from the configured bucket, initializes the App and
// serves until SIGINT or SIGTERM, then shuts down gracefully.
func (a *App) Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.SyncContent(ctx); err != nil {
		a.Logger.Error().Err(err).Msg("content sync failed; serving local content")
	}
	if err := a.Init(ctx); err != nil {
		return err
	}
	defer a.Close()

	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info().Str("addr", a.Config.Addr).Msg("server starting")
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

	a.Logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.ShutdownTimeout)
	defer cancel()
	return a.Echo.Shutdown(shutdownCtx)
}

// SyncContent copies posts from Config.ContentBucket into Config.ContentDir.
// It is a no-op when no bucket is configured.
func (a *App) SyncContent(ctx context.Context) error {
	if a.Config.ContentBucket.Bucket == "" {
		return nil
	}
	s, err := contentsync.New(ctx, a.Config.ContentBucket, a.Logger)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(a.Config.ContentDir, 0o755); err != nil {
		return fmt.Errorf("website: create content dir: %w", err)
	}
	n, err := s.Sync(ctx, a.Config.ContentDir)
	if err != nil {
		return err
	}
	a.Logger.Info().Int("files", n).Str("dir", a.Config.ContentDir).Msg("content synced")
	if a.Collection != nil {
		a.Collection.Invalidate()
	}
	return nil
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (a *App) metricsHandler() echo.HandlerFunc {
	return echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: a.registry})
}
