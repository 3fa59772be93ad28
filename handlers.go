package folio

import (
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/eringen/folio/blog"
	"github.com/eringen/folio/canvas"
	"github.com/eringen/folio/views"
)

// HomeLatestLimit is the number of non-featured posts on the home page.
const HomeLatestLimit = 3

// ErrNotFound is returned when a requested post does not exist.
var ErrNotFound = errors.New("folio: not found")

func (a *App) page(c echo.Context, meta views.PageMeta, effect string, jsonLD ...string) views.Page {
	lds := make([]template.JS, len(jsonLD))
	for i, s := range jsonLD {
		lds[i] = template.JS(s)
	}
	return views.Page{
		Site: views.SiteConfig{
			Name:        a.Config.Name,
			URL:         a.Config.URL,
			Description: a.Config.Description,
			Author:      a.Config.Author,
		},
		Meta:       meta,
		Background: a.background(effect),
		JSONLD:     lds,
		CSRF:       CsrfToken(c),
	}
}

func (a *App) background(effect string) views.Background {
	if effect == "" {
		return views.Background{}
	}
	opts := canvas.Options{
		Opacity:   a.Config.Background.Opacity,
		ClassName: a.Config.Background.ClassName,
	}.Normalized()
	return views.Background{
		Src:       "/backgrounds/" + effect + ".gif",
		ClassName: opts.ClassName,
		Opacity:   opts.Opacity,
	}
}

func (a *App) handleHome(c echo.Context) error {
	prof := a.Profile()
	meta := views.PageMeta{
		Title:       a.Config.Name,
		Description: a.Config.Description,
		URL:         BuildURL(a.Config.URL),
		OGType:      "profile",
	}
	if prof != nil {
		meta.Title = prof.Name + " · " + prof.Role
		if prof.Tagline != "" {
			meta.Description = prof.Tagline
		}
	}

	p := views.HomePage{
		Page:    a.page(c, meta, a.Config.Background.Home, WebsiteJsonLD(a.Config), PersonJsonLD(prof, a.Config)),
		Profile: prof,
		Flash:   popFlash(c),
	}
	if f, ok := a.Registry.Featured(); ok {
		p.Featured = &f
	}
	p.Latest = a.Registry.Others()
	if len(p.Latest) > HomeLatestLimit {
		p.Latest = p.Latest[:HomeLatestLimit]
	}
	return Render(c, a.Views.Home(p))
}

func (a *App) handleBlogIndex(c echo.Context) error {
	ctx := c.Request().Context()
	tag := blog.NormalizeTag(c.QueryParam("tag"))
	q := strings.TrimSpace(c.QueryParam("q"))

	meta := views.PageMeta{
		Title:       "Blog · " + a.Config.Name,
		Description: a.Config.Description,
		URL:         BuildURL(a.Config.URL, "blog"),
		OGType:      "website",
	}
	p := views.BlogIndexPage{
		Page:      a.page(c, meta, a.Config.Background.Blog, WebsiteJsonLD(a.Config)),
		ActiveTag: tag,
		Query:     q,
	}

	if tag == "" && q == "" {
		if f, ok := a.Registry.Featured(); ok {
			p.Featured = &f
		}
		p.Others = a.Registry.Others()
	} else {
		posts, err := a.Catalog.Query(ctx, tag, q)
		if err != nil {
			return err
		}
		p.Others = posts
		if tag != "" {
			p.Meta.Title = TagTitle(tag) + " · " + p.Meta.Title
		}
	}

	counts, err := a.Catalog.TagCounts(ctx)
	if err != nil {
		return err
	}
	p.Tags = make([]views.TagLink, 0, len(counts))
	for _, tc := range counts {
		link := views.TagLink{
			Tag:    tc.Tag,
			Title:  TagTitle(tc.Tag),
			Count:  tc.Count,
			Href:   "/blog?tag=" + url.QueryEscape(tc.Tag),
			Active: tc.Tag == tag,
		}
		if link.Active {
			link.Href = "/blog"
		}
		p.Tags = append(p.Tags, link)
	}
	return Render(c, a.Views.BlogIndex(p))
}

func (a *App) handlePost(c echo.Context) error {
	slug := c.Param("slug")
	post, ok := a.Registry.PostBySlug(slug)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound).SetInternal(fmt.Errorf("%w: post %q", ErrNotFound, slug))
	}

	var updated string
	p := views.PostPage{
		Post:     post,
		ReadTime: post.ReadTime,
	}
	if body, ok := a.Library().Content(slug); ok {
		p.Body = &body
		updated = body.Updated
		if p.ReadTime == "" {
			p.ReadTime = fmt.Sprintf("%d min read", body.Minutes())
		}
	}
	n := a.Registry.Adjacent(slug)
	p.Prev, p.Next = n.Prev, n.Next
	p.Related = FilterRelatedPosts(post, a.Registry.All())
	if len(p.Related) > RelatedLimit {
		p.Related = p.Related[:RelatedLimit]
	}

	meta := views.PageMeta{
		Title:       post.Title + " · " + a.Config.Name,
		Description: post.Description,
		URL:         BuildURL(a.Config.URL, "blog", post.Slug),
		OGType:      "article",
	}
	p.Page = a.page(c, meta, a.Config.Background.Blog, BlogPostingJsonLD(post, updated, a.Config))
	return Render(c, a.Views.Post(p))
}

func (a *App) handleSitemap(c echo.Context) error {
	return a.renderSitemap(c, a.Registry.All())
}

func (a *App) handleFeed(c echo.Context) error {
	return a.renderRSS(c, a.Registry.All())
}

func (a *App) handleFavicon(c echo.Context) error {
	b, err := fs.ReadFile(EmbeddedAssets, "embedded/favicon.svg")
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "image/svg+xml", b)
}

func (a *App) handleRobots(c echo.Context) error {
	body := "User-agent: *\nAllow: /\n\nSitemap: " + BuildURL(a.Config.URL, "sitemap.xml") + "\n"
	return c.String(http.StatusOK, body)
}

func (a *App) errorPage(c echo.Context, code int) views.ErrorPage {
	meta := views.PageMeta{
		Title:  http.StatusText(code) + " · " + a.Config.Name,
		URL:    BuildURL(a.Config.URL, c.Request().URL.Path),
		OGType: "website",
	}
	return views.ErrorPage{Page: a.page(c, meta, ""), Code: code}
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var he *echo.HTTPError
	ok := errors.As(err, &he)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound(a.errorPage(c, http.StatusNotFound)))
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		a.Log.Error().Err(err).Str("uri", c.Request().RequestURI).Msg("server error")
		_ = RenderStatus(c, code, a.Views.ServerError(a.errorPage(c, code)))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
