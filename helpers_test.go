package folio

import (
	"encoding/json"
	"testing"

	"github.com/eringen/folio/blog"
	"github.com/eringen/folio/profile"
)

func TestBuildURL(t *testing.T) {
	cases := []struct {
		base string
		segs []string
		want string
	}{
		{"https://example.com", nil, "https://example.com/"},
		{"https://example.com/", nil, "https://example.com/"},
		{"https://example.com", []string{"blog"}, "https://example.com/blog"},
		{"https://example.com/", []string{"blog", "my-post"}, "https://example.com/blog/my-post"},
		{"https://example.com/sub", []string{"blog", "x"}, "https://example.com/sub/blog/x"},
		{"https://example.com", []string{"sitemap.xml"}, "https://example.com/sitemap.xml"},
	}
	for _, c := range cases {
		if got := BuildURL(c.base, c.segs...); got != c.want {
			t.Errorf("BuildURL(%q, %v) = %q, want %q", c.base, c.segs, got, c.want)
		}
	}
}

func TestTagTitle(t *testing.T) {
	cases := map[string]string{
		"go":               "Go",
		" SEO ":            "Seo",
		"machine-learning": "Machine Learning",
	}
	for in, want := range cases {
		if got := TagTitle(in); got != want {
			t.Errorf("TagTitle(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFilterRelatedPosts(t *testing.T) {
	posts := []blog.Post{
		{Slug: "a", Tags: []string{"go", "web"}},
		{Slug: "b", Tags: []string{"Go"}},
		{Slug: "c", Tags: []string{"rust"}},
		{Slug: "d", Tags: []string{"web"}},
	}
	got := FilterRelatedPosts(posts[0], posts)
	if s := slugs(got); !equalStrings(s, []string{"b", "d"}) {
		t.Errorf("related = %v, want [b d]", s)
	}
	got = FilterRelatedPosts(blog.Post{Slug: "e", Tags: []string{"web", "rust"}}, append(posts, blog.Post{Slug: "f", Tags: []string{"rust", "web"}}))
	if s := slugs(got); !equalStrings(s, []string{"f", "a", "c", "d"}) {
		t.Errorf("ranked related = %v, want [f a c d]", s)
	}
	if got := FilterRelatedPosts(blog.Post{Slug: "x"}, posts); len(got) != 0 {
		t.Errorf("untagged post related to %v", slugs(got))
	}
}

func TestJsonLDIsValidJSON(t *testing.T) {
	cfg := SiteConfig{Name: "Site", URL: "https://example.com", Author: "Ann"}
	post := blog.Post{Slug: "p", Title: `Quotes "and" <tags>`, Date: "2024-01-02", Tags: []string{"go"}}
	prof := &profile.Profile{Name: "Ann", Role: "Dev", Links: []profile.Link{{Label: "GitHub", URL: "https://github.com/ann"}}}

	for name, s := range map[string]string{
		"website": WebsiteJsonLD(cfg),
		"person":  PersonJsonLD(prof, cfg),
		"posting": BlogPostingJsonLD(post, "2024-02-01", cfg),
	} {
		var v map[string]any
		if err := json.Unmarshal([]byte(s), &v); err != nil {
			t.Errorf("%s: invalid JSON: %v", name, err)
			continue
		}
		if v["@context"] != "https://schema.org" {
			t.Errorf("%s: @context = %v", name, v["@context"])
		}
	}

	var posting map[string]any
	json.Unmarshal([]byte(BlogPostingJsonLD(post, "", cfg)), &posting)
	if _, ok := posting["dateModified"]; ok {
		t.Error("dateModified set without a modification date")
	}
	if posting["url"] != "https://example.com/blog/p" {
		t.Errorf("url = %v", posting["url"])
	}
	if PersonJsonLD(nil, cfg) != "{}" {
		t.Error("nil profile should produce {}")
	}
}
