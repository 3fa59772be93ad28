package folio

import (
	"encoding/json"
	"strings"

	"github.com/eringen/folio/blog"
	"github.com/eringen/folio/profile"
)

const schemaContext = "https://schema.org"

// ldThing is the subset of schema.org properties the site emits. Empty
// fields are omitted.
type ldThing struct {
	Context       string   `json:"@context,omitempty"`
	Type          string   `json:"@type"`
	ID            string   `json:"@id,omitempty"`
	Name          string   `json:"name,omitempty"`
	Headline      string   `json:"headline,omitempty"`
	Description   string   `json:"description,omitempty"`
	URL           string   `json:"url,omitempty"`
	JobTitle      string   `json:"jobTitle,omitempty"`
	Email         string   `json:"email,omitempty"`
	SameAs        []string `json:"sameAs,omitempty"`
	DatePublished string   `json:"datePublished,omitempty"`
	DateModified  string   `json:"dateModified,omitempty"`
	Keywords      string   `json:"keywords,omitempty"`
	Author        *ldThing `json:"author,omitempty"`
	Publisher     *ldThing `json:"publisher,omitempty"`
	MainEntity    *ldThing `json:"mainEntityOfPage,omitempty"`
}

func ldNamed(typ, name string) *ldThing {
	if name == "" {
		return nil
	}
	return &ldThing{Type: typ, Name: name}
}

// WebsiteJsonLD describes the site as a schema.org WebSite.
func WebsiteJsonLD(cfg SiteConfig) string {
	return marshalJsonLD(ldThing{
		Context:     schemaContext,
		Type:        "WebSite",
		Name:        cfg.Name,
		URL:         BuildURL(cfg.URL),
		Description: cfg.Description,
		Author:      ldNamed("Person", cfg.Author),
	})
}

// PersonJsonLD describes the site owner. A nil profile yields "{}".
func PersonJsonLD(p *profile.Profile, cfg SiteConfig) string {
	if p == nil {
		return "{}"
	}
	person := ldThing{
		Context:  schemaContext,
		Type:     "Person",
		Name:     p.Name,
		URL:      BuildURL(cfg.URL),
		JobTitle: p.Role,
	}
	if p.Email != "" {
		person.Email = "mailto:" + p.Email
	}
	for _, l := range p.Links {
		person.SameAs = append(person.SameAs, l.URL)
	}
	return marshalJsonLD(person)
}

// BlogPostingJsonLD describes one post. modified is the body's last update
// and may be empty.
func BlogPostingJsonLD(post blog.Post, modified string, cfg SiteConfig) string {
	link := BuildURL(cfg.URL, "blog", post.Slug)
	return marshalJsonLD(ldThing{
		Context:       schemaContext,
		Type:          "BlogPosting",
		Headline:      post.Title,
		Description:   post.Description,
		URL:           link,
		DatePublished: post.Date,
		DateModified:  modified,
		Keywords:      strings.Join(post.Tags, ", "),
		Author:        ldNamed("Person", cfg.Author),
		Publisher:     ldNamed("Organization", cfg.Name),
		MainEntity:    &ldThing{Type: "WebPage", ID: link},
	})
}

func marshalJsonLD(v ldThing) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(b)
}
