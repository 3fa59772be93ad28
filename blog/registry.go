// Package blog holds the post registry and the content units attached to it.
//
// The registry is the single source of truth for which posts exist and in
// what order. Rendered article bodies live in a separate Library keyed by
// slug, so a post can be listed before its body has been written.
package blog

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// DateLayout is the calendar format used by Post.Date.
const DateLayout = "2006-01-02"

// CardTagLimit is the number of tags shown on a compact post card.
const CardTagLimit = 3

// Post is the metadata record for one article.
type Post struct {
	Slug        string
	Title       string
	Description string
	Date        string
	ReadTime    string
	Tags        []string
	Featured    bool
}

// Link returns the public path of the post.
func (p Post) Link() string {
	return "/blog/" + p.Slug
}

// CardTags returns the tags shown on compact cards.
func (p Post) CardTags() []string {
	if len(p.Tags) <= CardTagLimit {
		return p.Tags
	}
	return p.Tags[:CardTagLimit]
}

// Published parses Date. The zero time is returned for empty or malformed dates.
func (p Post) Published() time.Time {
	t, err := time.Parse(DateLayout, p.Date)
	if err != nil {
		return time.Time{}
	}
	return t
}

var (
	ErrEmptySlug     = errors.New("blog: empty slug")
	ErrDuplicateSlug = errors.New("blog: duplicate slug")
	ErrInvalidSlug   = errors.New("blog: slug is not url-safe")
	ErrInvalidDate   = errors.New("blog: invalid date")
)

// RegistryError reports which record failed validation.
type RegistryError struct {
	Index int
	Slug  string
	Err   error
}

func (e *RegistryError) Error() string {
	return fmt.Sprintf("post %d (%q): %v", e.Index, e.Slug, e.Err)
}

func (e *RegistryError) Unwrap() error { return e.Err }

// Registry is an ordered, immutable list of posts. Insertion order is
// authoritative for navigation; dates are display-only.
type Registry struct {
	posts []Post
}

// NewRegistry validates posts and returns a registry that owns a copy of them.
func NewRegistry(posts ...Post) (*Registry, error) {
	seen := make(map[string]struct{}, len(posts))
	out := make([]Post, len(posts))
	for i, p := range posts {
		switch {
		case p.Slug == "":
			return nil, &RegistryError{Index: i, Err: ErrEmptySlug}
		case Slugify(p.Slug) != p.Slug:
			return nil, &RegistryError{Index: i, Slug: p.Slug, Err: ErrInvalidSlug}
		}
		if _, ok := seen[p.Slug]; ok {
			return nil, &RegistryError{Index: i, Slug: p.Slug, Err: ErrDuplicateSlug}
		}
		if _, err := time.Parse(DateLayout, p.Date); p.Date != "" && err != nil {
			return nil, &RegistryError{Index: i, Slug: p.Slug, Err: fmt.Errorf("%w: %q", ErrInvalidDate, p.Date)}
		}
		seen[p.Slug] = struct{}{}
		p.Tags = append([]string(nil), p.Tags...)
		out[i] = p
	}
	return &Registry{posts: out}, nil
}

// MustRegistry is NewRegistry for package-level literals.
func MustRegistry(posts ...Post) *Registry {
	r, err := NewRegistry(posts...)
	if err != nil {
		panic(err)
	}
	return r
}

// Len returns the number of posts.
func (r *Registry) Len() int { return len(r.posts) }

// All returns every post in registry order.
func (r *Registry) All() []Post {
	return append([]Post(nil), r.posts...)
}

// AllSlugs returns every slug in registry order.
func (r *Registry) AllSlugs() []string {
	slugs := make([]string, 0, len(r.posts))
	for _, p := range r.posts {
		slugs = append(slugs, p.Slug)
	}
	return slugs
}

// Index returns the position of slug, or -1.
func (r *Registry) Index(slug string) int {
	for i, p := range r.posts {
		if p.Slug == slug {
			return i
		}
	}
	return -1
}

// PostBySlug returns the first post whose slug matches.
func (r *Registry) PostBySlug(slug string) (Post, bool) {
	i := r.Index(slug)
	if i < 0 {
		return Post{}, false
	}
	return r.posts[i], true
}

// Featured returns the first post flagged as featured.
func (r *Registry) Featured() (Post, bool) {
	for _, p := range r.posts {
		if p.Featured {
			return p, true
		}
	}
	return Post{}, false
}

// Others returns every post except the one Featured selects.
func (r *Registry) Others() []Post {
	featured, ok := r.Featured()
	out := make([]Post, 0, len(r.posts))
	for _, p := range r.posts {
		if ok && p.Slug == featured.Slug {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Neighbors are the posts either side of a post in registry order.
type Neighbors struct {
	Prev *Post
	Next *Post
}

// Adjacent returns the previous and next posts around slug. Both are nil
// for an unknown slug.
func (r *Registry) Adjacent(slug string) Neighbors {
	var n Neighbors
	i := r.Index(slug)
	if i < 0 {
		return n
	}
	if i-1 >= 0 {
		prev := r.posts[i-1]
		n.Prev = &prev
	}
	if i+1 < len(r.posts) {
		next := r.posts[i+1]
		n.Next = &next
	}
	return n
}

// Tags returns the distinct lowercase tags across all posts, sorted.
func (r *Registry) Tags() []string {
	set := make(map[string]struct{})
	for _, p := range r.posts {
		for _, t := range p.Tags {
			if t = NormalizeTag(t); t != "" {
				set[t] = struct{}{}
			}
		}
	}
	tags := make([]string, 0, len(set))
	for t := range set {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	return tags
}

// NormalizeTag lowercases and trims a tag.
func NormalizeTag(t string) string {
	return strings.ToLower(strings.TrimSpace(t))
}

// Slugify converts a title to a URL-safe slug.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	prev := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prev = false
		default:
			if !prev && b.Len() > 0 {
				b.WriteByte('-')
				prev = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}
