// Package views renders the site's pages. Each page is an html/template set
// (layout, partials and the page body) exposed as a templ.Component so the
// server renders every page the same way.
package views

import (
	"context"
	"embed"
	"html/template"
	"io"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/a-h/templ"

	"github.com/eringen/folio/blog"
)

//go:embed templates/*.html
var templateFS embed.FS

var funcs = template.FuncMap{
	"pathEscape": url.PathEscape,
	"joinTags":   func(tags []string) string { return strings.Join(tags, ", ") },
	"year":       func() int { return time.Now().Year() },
	"postDate":   postDate,
	"opacity":    func(f float64) template.CSS { return template.CSS("opacity:" + strconv.FormatFloat(f, 'f', -1, 64)) },
}

var (
	homeTmpl      = parse("home.html")
	blogIndexTmpl = parse("blog_index.html")
	postTmpl      = parse("post.html")
	errorTmpl     = parse("error.html")
)

func parse(page string) *template.Template {
	return template.Must(template.New(page).Funcs(funcs).ParseFS(templateFS,
		"templates/layout.html",
		"templates/partials.html",
		"templates/"+page,
	))
}

func render(t *template.Template, data any) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		return t.ExecuteTemplate(w, "layout", data)
	})
}

func Home(p HomePage) templ.Component { return render(homeTmpl, p) }

func BlogIndex(p BlogIndexPage) templ.Component { return render(blogIndexTmpl, p) }

func Post(p PostPage) templ.Component { return render(postTmpl, p) }

func NotFound(p ErrorPage) templ.Component {
	if p.Code == 0 {
		p.Code = 404
	}
	if p.Message == "" {
		p.Message = "This page does not exist."
	}
	return render(errorTmpl, p)
}

func ServerError(p ErrorPage) templ.Component {
	if p.Code == 0 {
		p.Code = 500
	}
	if p.Message == "" {
		p.Message = "Something went wrong on our side."
	}
	return render(errorTmpl, p)
}

// postDate formats a post's date for display, e.g. "Nov 18, 2024".
// Undated posts render as an empty string.
func postDate(p blog.Post) string {
	t := p.Published()
	if t.IsZero() {
		return ""
	}
	return t.Format("Jan 2, 2006")
}
