// Package folio is a personal portfolio and blog site built with Go, Echo
// and templ.
//
// Posts are declared in a static registry (package blog); their bodies are
// markdown content units attached by slug. Pages carry an animated
// background rendered by the canvas engine. The App wires content,
// handlers, middleware and views together.
package folio

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"sync/atomic"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/eringen/folio/blog"
	"github.com/eringen/folio/content"
	"github.com/eringen/folio/profile"
	"github.com/eringen/folio/views"
)

// ViewFuncs holds the components the App renders pages with.
type ViewFuncs struct {
	Home        func(views.HomePage) templ.Component
	BlogIndex   func(views.BlogIndexPage) templ.Component
	Post        func(views.PostPage) templ.Component
	NotFound    func(views.ErrorPage) templ.Component
	ServerError func(views.ErrorPage) templ.Component
}

// DefaultViews returns the built-in page components.
func DefaultViews() ViewFuncs {
	return ViewFuncs{
		Home:        views.Home,
		BlogIndex:   views.BlogIndex,
		Post:        views.Post,
		NotFound:    views.NotFound,
		ServerError: views.ServerError,
	}
}

// App is the central folio application.
type App struct {
	Config      SiteConfig
	Echo        *echo.Echo
	Views       ViewFuncs
	Log         zerolog.Logger
	Registry    *blog.Registry
	Catalog     *Catalog
	Backgrounds *BackgroundCache
	Mailer      Mailer

	site         atomic.Pointer[siteContent]
	contentFS    fs.FS
	limiter      *ContactLimiter
	customRoutes []func(*App)
	logSet       bool
	ready        bool

	stopWarm context.CancelFunc
	warmDone chan struct{}
}

// siteContent is everything loaded from the content directory. It is
// replaced as a whole on reload.
type siteContent struct {
	library *blog.Library
	profile *profile.Profile
}

// New creates a folio App with the given configuration.
func New(cfg SiteConfig, opts ...Option) *App {
	cfg.setDefaults()

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	a := &App{
		Config:   cfg,
		Echo:     e,
		Views:    DefaultViews(),
		Registry: blog.Posts,
	}

	for _, opt := range opts {
		opt(a)
	}

	if !a.logSet {
		a.Log = NewLogger(cfg.Log, os.Stderr)
	}
	if a.contentFS == nil {
		if cfg.ContentDir != "" {
			a.contentFS = os.DirFS(cfg.ContentDir)
		} else {
			a.contentFS = content.FS
		}
	}
	if a.Mailer == nil {
		if cfg.Mail.Enabled() {
			a.Mailer = NewSMTPMailer(cfg.Mail)
		} else {
			a.Mailer = LogMailer{Log: a.Log}
		}
	}
	return a
}

// Setup loads content, builds the catalog and registers middleware and
// routes. Start calls it; tests call it directly and drive a.Echo.
func (a *App) Setup() error {
	if a.ready {
		return nil
	}
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("folio: SessionSecret is required")
	}

	site, err := a.loadContent()
	if err != nil {
		return fmt.Errorf("folio: load content: %w", err)
	}
	a.site.Store(site)

	catalog, err := NewCatalog(a.Config.CatalogDSN)
	if err != nil {
		return fmt.Errorf("folio: open catalog: %w", err)
	}
	if err := catalog.Load(context.Background(), a.Registry.All()); err != nil {
		catalog.Close()
		return fmt.Errorf("folio: index posts: %w", err)
	}
	a.Catalog = catalog

	a.Backgrounds = NewBackgroundCache(a.Config.BackgroundTTL, DefaultBackgroundEntries, a.renderBackground)
	warmCtx, stopWarm := context.WithCancel(context.Background())
	a.stopWarm = stopWarm
	a.warmDone = make(chan struct{})
	go a.warmBackgrounds(warmCtx)
	a.limiter = NewContactLimiter(contactPerHour, time.Hour)

	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}

	a.ready = true
	a.Log.Info().
		Int("posts", a.Registry.Len()).
		Int("bodies", site.library.Len()).
		Msg("site ready")
	return nil
}

// Start sets the App up if needed and serves until the server is shut down.
func (a *App) Start() error {
	if err := a.Setup(); err != nil {
		return err
	}
	a.Log.Info().Str("addr", a.Config.Addr).Str("url", a.Config.URL).Msg("listening")
	if err := a.Echo.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully.
func (a *App) Shutdown(ctx context.Context) error {
	return a.Echo.Shutdown(ctx)
}

func (a *App) setupRoutes() {
	e := a.Echo

	assets, _ := fs.Sub(EmbeddedAssets, "embedded")
	e.StaticFS("/public", assets)
	e.GET("/favicon.svg", a.handleFavicon)
	e.GET("/robots.txt", a.handleRobots)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)

	e.GET("/", a.handleHome)
	e.GET("/blog", a.handleBlogIndex)
	e.GET("/blog/:slug", a.handlePost)
	e.GET("/backgrounds/:file", a.handleBackground)
	e.POST("/contact", a.handleContact)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.stopWarm != nil {
		a.stopWarm()
		<-a.warmDone
	}
	if a.limiter != nil {
		a.limiter.Stop()
	}
	if a.Catalog != nil {
		return a.Catalog.Close()
	}
	return nil
}

func (a *App) loadContent() (*siteContent, error) {
	lib, err := blog.LoadLibrary(a.contentFS, content.PostsDir)
	if err != nil {
		return nil, err
	}
	prof, err := profile.Load(a.contentFS, content.ProfileFile)
	if err != nil {
		return nil, err
	}
	if err := lib.Validate(a.Registry); err != nil {
		var gap *blog.ContentGapError
		if !errors.As(err, &gap) || a.Config.StrictContent {
			return nil, err
		}
		a.Log.Warn().
			Strs("missing", gap.Missing).
			Strs("orphans", gap.Orphans).
			Msg("content gaps; posts without a body render a placeholder")
	}
	return &siteContent{library: lib, profile: prof}, nil
}

// Reload reads the content directory again and swaps it in. On failure the
// previous content stays live.
func (a *App) Reload() error {
	site, err := a.loadContent()
	if err != nil {
		a.Log.Error().Err(err).Msg("content reload failed; keeping previous content")
		return err
	}
	a.site.Store(site)
	a.Log.Info().Int("bodies", site.library.Len()).Msg("content reloaded")
	return nil
}

// WatchContent reloads content whenever Config.ContentDir changes. It
// returns immediately when serving embedded content, and otherwise blocks
// until ctx is done.
func (a *App) WatchContent(ctx context.Context) error {
	if a.Config.ContentDir == "" {
		return nil
	}
	return blog.Watch(ctx, a.Config.ContentDir, blog.DefaultDebounce, a.Log, func() {
		_ = a.Reload()
	})
}

// Library returns the live content library.
func (a *App) Library() *blog.Library {
	if s := a.site.Load(); s != nil {
		return s.library
	}
	return nil
}

// Profile returns the live profile.
func (a *App) Profile() *profile.Profile {
	if s := a.site.Load(); s != nil {
		return s.profile
	}
	return nil
}
