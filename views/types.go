package views

import (
	"html/template"

	"github.com/eringen/folio/blog"
	"github.com/eringen/folio/profile"
)

// SiteConfig is the part of the site configuration templates see.
type SiteConfig struct {
	Name        string
	URL         string
	Description string
	Author      string
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
}

// Background is the decorative animated layer behind a page.
type Background struct {
	Src       string
	ClassName string
	Opacity   float64
}

// TagLink is one entry of a tag cloud.
type TagLink struct {
	Tag    string
	Title  string
	Count  int
	Href   string
	Active bool
}

// Flash is a one-shot status message, e.g. the contact form outcome.
type Flash struct {
	Kind    string // "success" or "error"
	Message string
}

// Page holds what every page shares.
type Page struct {
	Site       SiteConfig
	Meta       PageMeta
	Background Background
	JSONLD     []template.JS
	CSRF       string
}

// HomePage is the profile landing page.
type HomePage struct {
	Page
	Profile  *profile.Profile
	Featured *blog.Post
	Latest   []blog.Post
	Flash    *Flash
}

// BlogIndexPage lists posts: the featured slot, then the rest.
type BlogIndexPage struct {
	Page
	Featured  *blog.Post
	Others    []blog.Post
	Tags      []TagLink
	ActiveTag string
	Query     string
}

// Filtered reports whether the listing is narrowed by tag or search.
func (p BlogIndexPage) Filtered() bool { return p.ActiveTag != "" || p.Query != "" }

// PostPage is a single post. Body is nil when the post has no content yet.
type PostPage struct {
	Page
	Post     blog.Post
	Body     *blog.Content
	Prev     *blog.Post
	Next     *blog.Post
	Related  []blog.Post
	ReadTime string
}

// ErrorPage is rendered for 404 and 5xx responses.
type ErrorPage struct {
	Page
	Code    int
	Message string
}
