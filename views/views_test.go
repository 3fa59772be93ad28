package views

import (
	"bytes"
	"context"
	"html/template"
	"strings"
	"testing"

	"github.com/a-h/templ"

	"github.com/eringen/folio/blog"
	"github.com/eringen/folio/profile"
)

func renderString(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	if err := c.Render(context.Background(), &buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	return buf.String()
}

func assertContains(t *testing.T, html string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(html, w) {
			t.Errorf("output missing %q", w)
		}
	}
}

func testPage(title string) Page {
	return Page{
		Site: SiteConfig{Name: "Test Site", URL: "https://example.com", Author: "Sam"},
		Meta: PageMeta{Title: title, Description: "desc", URL: "https://example.com/", OGType: "website"},
		Background: Background{
			Src:       "/backgrounds/particles.gif",
			ClassName: "bg-canvas",
			Opacity:   0.4,
		},
		CSRF: "tok123",
	}
}

var (
	postA = blog.Post{Slug: "alpha", Title: "Alpha Post", Description: "First one", Date: "2024-11-18", Tags: []string{"go", "web"}, Featured: true}
	postB = blog.Post{Slug: "beta", Title: "Beta Post", Description: "Second one", Date: "2024-10-01", Tags: []string{"go"}}
)

func TestHomeRendersProfileAndContactForm(t *testing.T) {
	html := renderString(t, Home(HomePage{
		Page: testPage("Home"),
		Profile: &profile.Profile{
			Name:    "Jordan Reyes",
			Role:    "Engineer",
			Tagline: "Builds things",
			Email:   "jordan@example.com",
			About:   []string{"Hello there."},
			Career:  []profile.Job{{Role: "Lead", Company: "Acme", Start: "2021-03"}},
		},
		Featured: &postA,
		Latest:   []blog.Post{postB},
		Flash:    &Flash{Kind: "success", Message: "Thanks for reaching out"},
	}))

	assertContains(t, html,
		"<title>Home</title>",
		"Jordan Reyes",
		"Hello there.",
		"Acme",
		"Alpha Post",
		"Beta Post",
		`name="_csrf" value="tok123"`,
		"flash-success",
		"Thanks for reaching out",
		"mailto:jordan@example.com",
		`class="bg-canvas"`,
		`src="/backgrounds/particles.gif"`,
		"opacity:0.4",
	)
}

func TestBlogIndexListsPostsAndTags(t *testing.T) {
	html := renderString(t, BlogIndex(BlogIndexPage{
		Page:     testPage("Blog"),
		Featured: &postA,
		Others:   []blog.Post{postB},
		Tags:     []TagLink{{Tag: "go", Title: "Go", Count: 2, Href: "/blog?tag=go"}},
	}))

	assertContains(t, html, "Alpha Post", "Beta Post", "/blog/alpha", "/blog/beta", "/blog?tag=go")
	if strings.Contains(html, "No posts found.") {
		t.Error("unexpected empty-state message")
	}
}

func TestBlogIndexEmptyState(t *testing.T) {
	html := renderString(t, BlogIndex(BlogIndexPage{Page: testPage("Blog"), ActiveTag: "rust"}))
	assertContains(t, html, "No posts found.")
}

func TestBlogIndexFiltered(t *testing.T) {
	cases := []struct {
		page BlogIndexPage
		want bool
	}{
		{BlogIndexPage{}, false},
		{BlogIndexPage{ActiveTag: "go"}, true},
		{BlogIndexPage{Query: "alpha"}, true},
	}
	for _, tc := range cases {
		if got := tc.page.Filtered(); got != tc.want {
			t.Errorf("Filtered() for tag=%q query=%q = %v, want %v", tc.page.ActiveTag, tc.page.Query, got, tc.want)
		}
	}
}

func TestPostRendersBody(t *testing.T) {
	html := renderString(t, Post(PostPage{
		Page:     testPage("Alpha Post"),
		Post:     postA,
		Body:     &blog.Content{Slug: "alpha", HTML: "<p>Body <strong>text</strong></p>"},
		Next:     &postB,
		Related:  []blog.Post{postB},
		ReadTime: "3 min read",
	}))

	assertContains(t, html,
		"<h1>Alpha Post</h1>",
		"<p>Body <strong>text</strong></p>",
		"Nov 18, 2024",
		"3 min read",
		`href="/blog/beta"`,
	)
	if strings.Contains(html, "The full article is on its way.") {
		t.Error("placeholder rendered for post with a body")
	}
}

func TestPostPlaceholderWithoutBody(t *testing.T) {
	html := renderString(t, Post(PostPage{Page: testPage("Beta Post"), Post: postB}))
	assertContains(t, html, "Second one", "The full article is on its way.")
}

func TestPostEscapesTitle(t *testing.T) {
	p := postB
	p.Title = "<script>x</script>"
	html := renderString(t, Post(PostPage{Page: testPage("t"), Post: p}))
	if strings.Contains(html, "<script>x</script>") {
		t.Error("post title was not escaped")
	}
}

func TestErrorPageDefaults(t *testing.T) {
	html := renderString(t, NotFound(ErrorPage{Page: testPage("Not Found")}))
	assertContains(t, html, "<h1>404</h1>", "This page does not exist.")

	html = renderString(t, ServerError(ErrorPage{Page: testPage("Error")}))
	assertContains(t, html, "<h1>500</h1>", "Something went wrong on our side.")

	html = renderString(t, NotFound(ErrorPage{Page: testPage("Gone"), Code: 410, Message: "Removed."}))
	assertContains(t, html, "<h1>410</h1>", "Removed.")
}

func TestJSONLDEmittedUnescaped(t *testing.T) {
	page := testPage("Home")
	page.JSONLD = []template.JS{`{"@type":"WebSite"}`}
	html := renderString(t, Home(HomePage{Page: page}))
	assertContains(t, html, `<script type="application/ld+json">{"@type":"WebSite"}</script>`)
}

func TestPostDate(t *testing.T) {
	if got := postDate(postA); got != "Nov 18, 2024" {
		t.Errorf("postDate = %q", got)
	}
	if got := postDate(blog.Post{Date: "soon"}); got != "" {
		t.Errorf("postDate(malformed) = %q, want empty", got)
	}
}
