package folio

import (
	"net/url"
	"path"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/eringen/folio/blog"
)

// BuildURL joins a base URL with path segments. Paths never end in a slash,
// except the site root.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if u.Path == "" || u.Path == "." {
		u.Path = "/"
	}
	return u.String()
}

// TagTitle formats a tag for display: "machine-learning" -> "Machine Learning".
func TagTitle(tag string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(blog.NormalizeTag(tag), "-", " "))
}

// RelatedLimit is the number of related posts shown under an article.
const RelatedLimit = 3

// FilterRelatedPosts returns the posts sharing at least one tag with
// current, most shared tags first. Ties keep registry order.
func FilterRelatedPosts(current blog.Post, posts []blog.Post) []blog.Post {
	want := make(map[string]bool, len(current.Tags))
	for _, t := range current.Tags {
		if tag := blog.NormalizeTag(t); tag != "" {
			want[tag] = true
		}
	}
	if len(want) == 0 {
		return nil
	}

	type scored struct {
		post   blog.Post
		shared int
	}
	var hits []scored
	for _, p := range posts {
		if p.Slug == current.Slug {
			continue
		}
		n := 0
		for _, t := range p.Tags {
			if want[blog.NormalizeTag(t)] {
				n++
			}
		}
		if n > 0 {
			hits = append(hits, scored{p, n})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].shared > hits[j].shared })

	related := make([]blog.Post, len(hits))
	for i, h := range hits {
		related[i] = h.post
	}
	return related
}
