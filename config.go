package folio

import (
	"io/fs"
	"time"

	"github.com/rs/zerolog"

	"github.com/eringen/folio/blog"
)

// SiteConfig holds all configuration for a folio site.
type SiteConfig struct {
	Name        string `mapstructure:"name"`        // Site name (default "Folio")
	URL         string `mapstructure:"url"`         // Canonical URL (default "http://localhost:3000")
	Description string `mapstructure:"description"` // Site description for RSS and meta tags
	Author      string `mapstructure:"author"`      // Author name for JSON-LD

	Addr          string `mapstructure:"addr"`           // Listen address (default ":3000")
	SessionSecret string `mapstructure:"session_secret"` // Required: session encryption secret
	CookieSecure  bool   `mapstructure:"cookie_secure"`  // Set true for HTTPS

	ContentDir    string `mapstructure:"content_dir"`    // Read and watch content here instead of the embedded copy
	StrictContent bool   `mapstructure:"strict_content"` // Refuse to start when a post has no body
	CatalogDSN    string `mapstructure:"catalog_dsn"`    // SQLite DSN of the tag/search index (default ":memory:")

	BackgroundTTL time.Duration    `mapstructure:"background_ttl"` // Rendered background cache TTL (default 1h)
	Background    BackgroundConfig `mapstructure:"background"`
	Log           LogConfig        `mapstructure:"log"`
	Mail          MailConfig       `mapstructure:"mail"`
}

// BackgroundConfig controls the animated page backgrounds.
type BackgroundConfig struct {
	Home      string        `mapstructure:"home"` // Effect behind the profile page (default "particles")
	Blog      string        `mapstructure:"blog"` // Effect behind blog pages (default "matrix")
	Width     int           `mapstructure:"width"`
	Height    int           `mapstructure:"height"`
	Frames    int           `mapstructure:"frames"`
	Delay     time.Duration `mapstructure:"delay"`
	Opacity   float64       `mapstructure:"opacity"`
	ClassName string        `mapstructure:"class_name"`
}

// LogConfig selects the log level and output format ("console" or "json").
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// MailConfig is the SMTP relay used for contact messages. Without a host
// and user, messages are only logged.
type MailConfig struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
	User string `mapstructure:"user"`
	Pass string `mapstructure:"pass"`
	From string `mapstructure:"from"`
	To   string `mapstructure:"to"`
}

// Enabled reports whether SMTP delivery is configured.
func (m MailConfig) Enabled() bool { return m.Host != "" && m.User != "" }

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Folio"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.CatalogDSN == "" {
		c.CatalogDSN = ":memory:"
	}
	if c.BackgroundTTL == 0 {
		c.BackgroundTTL = time.Hour
	}
	b := &c.Background
	if b.Home == "" {
		b.Home = "particles"
	}
	if b.Blog == "" {
		b.Blog = "matrix"
	}
	if b.Width == 0 {
		b.Width = 960
	}
	if b.Height == 0 {
		b.Height = 540
	}
	if b.Frames == 0 {
		b.Frames = 48
	}
	if b.Delay == 0 {
		b.Delay = 60 * time.Millisecond
	}
	if b.Opacity == 0 {
		b.Opacity = 0.4
	}
	if b.ClassName == "" {
		b.ClassName = "bg-canvas"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
	if c.Mail.Port == "" {
		c.Mail.Port = "587"
	}
	if c.Mail.From == "" {
		c.Mail.From = c.Mail.User
	}
}

// Option configures additional App behavior.
type Option func(*App)

// WithViews replaces the default page components.
func WithViews(v ViewFuncs) Option {
	return func(a *App) {
		a.Views = v
	}
}

// WithLogger sets the application logger. Without it the App logs to stderr
// per SiteConfig.Log.
func WithLogger(l zerolog.Logger) Option {
	return func(a *App) {
		a.Log = l
		a.logSet = true
	}
}

// WithMailer sets where contact messages go.
func WithMailer(m Mailer) Option {
	return func(a *App) {
		a.Mailer = m
	}
}

// WithContentFS serves post bodies and the profile from fsys instead of the
// embedded content.
func WithContentFS(fsys fs.FS) Option {
	return func(a *App) {
		a.contentFS = fsys
	}
}

// WithRegistry replaces the built-in post registry.
func WithRegistry(r *blog.Registry) Option {
	return func(a *App) {
		a.Registry = r
	}
}

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback runs after the built-in routes are registered.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}
