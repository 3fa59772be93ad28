package folio

import (
	"net/http"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"

	"github.com/eringen/folio/views"
)

// Contact form limits.
const (
	ContactNameMax    = 100
	ContactEmailMax   = 254
	ContactMessageMax = 5000

	contactPerHour = 5
)

const (
	flashSuccess = "contact_success"
	flashError   = "contact_error"
)

const (
	msgContactName    = "Please tell me your name."
	msgContactEmail   = "That email address does not look right."
	msgContactMessage = "Please write a message (up to 5000 characters)."
)

// contactForm is the decoded contact submission.
type contactForm struct {
	Name    string `form:"name"`
	Email   string `form:"email"`
	Message string `form:"message"`
}

func (f *contactForm) normalize() {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.TrimSpace(f.Email)
	f.Message = strings.TrimSpace(f.Message)
}

// problem returns the message shown for an invalid form, or "".
func (f contactForm) problem() string {
	if f.Name == "" || utf8.RuneCountInString(f.Name) > ContactNameMax {
		return msgContactName
	}
	if f.Email == "" || len(f.Email) > ContactEmailMax {
		return msgContactEmail
	}
	if addr, err := mail.ParseAddress(f.Email); err != nil || addr.Address != f.Email {
		return msgContactEmail
	}
	if f.Message == "" || utf8.RuneCountInString(f.Message) > ContactMessageMax {
		return msgContactMessage
	}
	return ""
}

func (a *App) handleContact(c echo.Context) error {
	var form contactForm
	if err := c.Bind(&form); err != nil {
		return a.contactRedirect(c, flashError, "Your message could not be read.")
	}
	form.normalize()
	if msg := form.problem(); msg != "" {
		return a.contactRedirect(c, flashError, msg)
	}

	ip := c.RealIP()
	if !a.limiter.Allow(ip) {
		a.Log.Warn().Str("ip", ip).Dur("retry_after", a.limiter.RetryAfter(ip)).Msg("contact rate limit hit")
		return a.contactRedirect(c, flashError, "Too many messages from your address. Please try again later.")
	}

	msg := ContactMessage{
		ID:       uuid.NewString(),
		Name:     form.Name,
		Email:    form.Email,
		Body:     form.Message,
		IP:       ip,
		Received: time.Now(),
	}
	if err := a.Mailer.Send(c.Request().Context(), msg); err != nil {
		a.Log.Error().Err(err).Str("id", msg.ID).Msg("contact delivery failed")
		return a.contactRedirect(c, flashError, "Sorry, your message could not be sent. Please try again later.")
	}
	a.Log.Info().Str("id", msg.ID).Msg("contact message delivered")
	return a.contactRedirect(c, flashSuccess, "Thanks for your message! I'll get back to you soon.")
}

func (a *App) contactRedirect(c echo.Context, kind, message string) error {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return err
	}
	sess.AddFlash(message, kind)
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/#contact")
}

// popFlash returns and clears the pending contact flash, if any.
func popFlash(c echo.Context) *views.Flash {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return nil
	}
	var flash *views.Flash
	for _, kind := range []string{flashError, flashSuccess} {
		msgs := sess.Flashes(kind)
		if len(msgs) == 0 || flash != nil {
			continue
		}
		if s, ok := msgs[0].(string); ok {
			k := "success"
			if kind == flashError {
				k = "error"
			}
			flash = &views.Flash{Kind: k, Message: s}
		}
	}
	if flash != nil {
		_ = sess.Save(c.Request(), c.Response())
	}
	return flash
}
