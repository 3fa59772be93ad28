package folio

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
)

const (
	sessionName   = "folio_session"
	sessionMaxAge = 12 * 60 * 60
	csrfField     = "_csrf"
)

// contentSecurityPolicy allows no scripts beyond JSON-LD data blocks. Inline
// styles carry the background opacity.
const contentSecurityPolicy = "default-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' data:; " +
	"form-action 'self'; base-uri 'self'; frame-ancestors 'none'"

func (a *App) setupMiddleware() {
	e := a.Echo
	e.HTTPErrorHandler = a.httpErrorHandler
	e.IPExtractor = echo.ExtractIPFromXFFHeader(
		echo.TrustLoopback(true),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(true),
	)

	// canonical host and path before routing
	e.Pre(
		middleware.NonWWWRedirect(),
		middleware.RemoveTrailingSlashWithConfig(middleware.TrailingSlashConfig{
			RedirectCode: http.StatusMovedPermanently,
		}),
	)

	e.Use(
		middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}),
		requestLogger(a.Log),
		middleware.Recover(),
		middleware.GzipWithConfig(middleware.GzipConfig{
			Level: 5,
			// already compressed or binary
			Skipper: func(c echo.Context) bool {
				return hasAnyPrefix(c.Request().URL.Path, "/public/", "/backgrounds/")
			},
		}),
		middleware.SecureWithConfig(middleware.SecureConfig{
			XSSProtection:         "1; mode=block",
			ContentTypeNosniff:    "nosniff",
			XFrameOptions:         "DENY",
			ReferrerPolicy:        "strict-origin-when-cross-origin",
			ContentSecurityPolicy: contentSecurityPolicy,
			HSTSMaxAge:            31536000,
		}),
		session.Middleware(newSessionStore(a.Config.SessionSecret, a.Config.CookieSecure)),
		contactCSRF(a.Config.CookieSecure),
		cacheControl,
	)
}

// requestLogger writes one zerolog line per request, at error level when
// the handler failed.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}

// contactCSRF guards every unsafe method; only the contact form posts.
func contactCSRF(secure bool) echo.MiddlewareFunc {
	return middleware.CSRFWithConfig(middleware.CSRFConfig{
		TokenLookup:    "header:X-CSRF-Token,form:" + csrfField,
		CookieName:     csrfField,
		CookiePath:     "/",
		CookieHTTPOnly: true,
		CookieSameSite: http.SameSiteLaxMode,
		CookieSecure:   secure,
		ErrorHandler: func(_ error, c echo.Context) error {
			return echo.NewHTTPError(http.StatusForbidden, "invalid or missing form token")
		},
	})
}

// cacheRule sets Cache-Control for paths matching match.
type cacheRule struct {
	match  func(path string) bool
	header string
}

var cacheRules = []cacheRule{
	{func(p string) bool { return strings.HasPrefix(p, "/public/") }, "public, max-age=31536000, immutable"},
	{func(p string) bool {
		return strings.HasPrefix(p, "/backgrounds/") || p == "/sitemap.xml" || p == "/feed.xml" || p == "/robots.txt"
	}, "public, max-age=86400"},
	// the home page carries the CSRF token and the contact flash
	{func(p string) bool { return p == "/" || p == "/contact" }, "no-store"},
}

const defaultCacheControl = "public, max-age=3600"

func cacheControl(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Response().Header().Set("Cache-Control", cachePolicy(c.Request().URL.Path))
		return next(c)
	}
}

func cachePolicy(path string) string {
	for _, r := range cacheRules {
		if r.match(path) {
			return r.header
		}
	}
	return defaultCacheControl
}

func hasAnyPrefix(s string, prefixes ...string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func newSessionStore(secret string, secure bool) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

// CsrfToken returns the form token the CSRF middleware stored on c.
func CsrfToken(c echo.Context) string {
	token, _ := c.Get(middleware.DefaultCSRFConfig.ContextKey).(string)
	return token
}
