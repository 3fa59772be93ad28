package folio

import (
	"encoding/xml"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eringen/folio/blog"
)

const sitemapNS = "http://www.sitemaps.org/schemas/sitemap/0.9"

type urlSet struct {
	XMLName xml.Name   `xml:"urlset"`
	XMLNS   string     `xml:"xmlns,attr"`
	URLs    []siteLink `xml:"url"`
}

// siteLink is one <url> entry. Field order is the element order.
type siteLink struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
}

type feedDoc struct {
	XMLName xml.Name    `xml:"rss"`
	Version string      `xml:"version,attr"`
	Channel feedChannel `xml:"channel"`
}

type feedChannel struct {
	Title         string     `xml:"title"`
	Link          string     `xml:"link"`
	Description   string     `xml:"description"`
	Language      string     `xml:"language,omitempty"`
	LastBuildDate string     `xml:"lastBuildDate,omitempty"`
	Items         []feedItem `xml:"item"`
}

type feedItem struct {
	Title       string   `xml:"title"`
	Link        string   `xml:"link"`
	GUID        string   `xml:"guid"`
	Description string   `xml:"description"`
	PubDate     string   `xml:"pubDate,omitempty"`
	Categories  []string `xml:"category"`
}

// sitemapURLs lists the home page, the blog index and every post in
// registry order. A post's lastmod is its Date.
func sitemapURLs(base string, posts []blog.Post) []siteLink {
	links := make([]siteLink, 0, len(posts)+2)
	links = append(links,
		siteLink{Loc: BuildURL(base), ChangeFreq: "monthly"},
		siteLink{Loc: BuildURL(base, "blog"), ChangeFreq: "weekly"},
	)
	for _, p := range posts {
		links = append(links, siteLink{Loc: BuildURL(base, "blog", p.Slug), LastMod: p.Date})
	}
	return links
}

// buildFeed maps posts to an RSS 2.0 channel. lastBuildDate is the newest
// post date; undated posts carry no pubDate.
func buildFeed(cfg SiteConfig, posts []blog.Post) feedDoc {
	ch := feedChannel{
		Title:       cfg.Name,
		Link:        BuildURL(cfg.URL),
		Description: cfg.Description,
		Language:    "en",
		Items:       make([]feedItem, 0, len(posts)),
	}
	var newest time.Time
	for _, p := range posts {
		link := BuildURL(cfg.URL, "blog", p.Slug)
		item := feedItem{
			Title:       p.Title,
			Link:        link,
			GUID:        link,
			Description: p.Description,
			Categories:  p.Tags,
		}
		if t := p.Published(); !t.IsZero() {
			item.PubDate = t.Format(time.RFC1123Z)
			if t.After(newest) {
				newest = t
			}
		}
		ch.Items = append(ch.Items, item)
	}
	if !newest.IsZero() {
		ch.LastBuildDate = newest.Format(time.RFC1123Z)
	}
	return feedDoc{Version: "2.0", Channel: ch}
}

func (a *App) renderSitemap(c echo.Context, posts []blog.Post) error {
	return writeXML(c, "application/xml; charset=utf-8", urlSet{
		XMLNS: sitemapNS,
		URLs:  sitemapURLs(a.Config.URL, posts),
	})
}

func (a *App) renderRSS(c echo.Context, posts []blog.Post) error {
	return writeXML(c, "application/rss+xml; charset=utf-8", buildFeed(a.Config, posts))
}

func writeXML(c echo.Context, contentType string, v any) error {
	res := c.Response()
	res.Header().Set(echo.HeaderContentType, contentType)
	res.WriteHeader(http.StatusOK)
	if _, err := res.Write([]byte(xml.Header)); err != nil {
		return err
	}
	return xml.NewEncoder(res).Encode(v)
}
