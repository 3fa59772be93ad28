package blog

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/adrg/frontmatter"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// wordsPerMinute is used to estimate reading time from a body.
const wordsPerMinute = 200

// Content is the rendered body of one post.
type Content struct {
	Slug    string
	HTML    template.HTML
	Updated string // optional, YYYY-MM-DD
	Source  string // path inside the content filesystem
	Words   int
}

// Minutes estimates reading time, never less than one minute.
func (c Content) Minutes() int {
	m := (c.Words + wordsPerMinute - 1) / wordsPerMinute
	if m < 1 {
		return 1
	}
	return m
}

// unitMeta is the front matter accepted at the top of a post body.
type unitMeta struct {
	Slug    string `yaml:"slug"`
	Updated string `yaml:"updated"`
}

// Library maps slugs to rendered bodies. It is read-only once built.
type Library struct {
	units map[string]Content
}

// NewLibrary builds a library from already rendered units.
func NewLibrary(units ...Content) *Library {
	l := &Library{units: make(map[string]Content, len(units))}
	for _, u := range units {
		l.units[u.Slug] = u
	}
	return l
}

func newMarkdown() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Typographer),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			gmhtml.WithXHTML(),
		),
	)
}

// LoadLibrary renders every *.md file directly under dir in fsys. The slug
// comes from the front matter, or from the file name when absent.
func LoadLibrary(fsys fs.FS, dir string) (*Library, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read content dir %s: %w", dir, err)
	}
	md := newMarkdown()
	l := &Library{units: make(map[string]Content, len(entries))}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		p := path.Join(dir, entry.Name())
		raw, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", p, err)
		}
		unit, err := renderUnit(md, p, raw)
		if err != nil {
			return nil, err
		}
		if prev, ok := l.units[unit.Slug]; ok {
			return nil, fmt.Errorf("%s: slug %q already provided by %s", p, unit.Slug, prev.Source)
		}
		l.units[unit.Slug] = unit
	}
	return l, nil
}

func renderUnit(md goldmark.Markdown, p string, raw []byte) (Content, error) {
	var meta unitMeta
	body, err := frontmatter.Parse(bytes.NewReader(raw), &meta)
	if err != nil {
		return Content{}, fmt.Errorf("parse front matter %s: %w", p, err)
	}
	slug := strings.TrimSpace(meta.Slug)
	if slug == "" {
		slug = strings.TrimSuffix(path.Base(p), ".md")
	}
	if Slugify(slug) != slug {
		return Content{}, fmt.Errorf("%s: %w: %q", p, ErrInvalidSlug, slug)
	}
	var buf bytes.Buffer
	if err := md.Convert(body, &buf); err != nil {
		return Content{}, fmt.Errorf("render %s: %w", p, err)
	}
	return Content{
		Slug:    slug,
		HTML:    template.HTML(buf.String()),
		Updated: strings.TrimSpace(meta.Updated),
		Source:  p,
		Words:   len(strings.Fields(string(body))),
	}, nil
}

// Content returns the body registered for slug.
func (l *Library) Content(slug string) (Content, bool) {
	if l == nil {
		return Content{}, false
	}
	c, ok := l.units[slug]
	return c, ok
}

// Len returns the number of units.
func (l *Library) Len() int {
	if l == nil {
		return 0
	}
	return len(l.units)
}

// Slugs returns the slugs that have a body, sorted.
func (l *Library) Slugs() []string {
	if l == nil {
		return nil
	}
	slugs := make([]string, 0, len(l.units))
	for s := range l.units {
		slugs = append(slugs, s)
	}
	sort.Strings(slugs)
	return slugs
}

// ContentGapError lists registry entries without a body and bodies without
// a registry entry.
type ContentGapError struct {
	Missing []string
	Orphans []string
}

func (e *ContentGapError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "no content for "+strings.Join(e.Missing, ", "))
	}
	if len(e.Orphans) > 0 {
		parts = append(parts, "unregistered content "+strings.Join(e.Orphans, ", "))
	}
	return "blog: " + strings.Join(parts, "; ")
}

// Validate checks the library against the registry. It returns nil or a
// *ContentGapError.
func (l *Library) Validate(r *Registry) error {
	gap := &ContentGapError{}
	registered := make(map[string]struct{}, r.Len())
	for _, slug := range r.AllSlugs() {
		registered[slug] = struct{}{}
		if _, ok := l.Content(slug); !ok {
			gap.Missing = append(gap.Missing, slug)
		}
	}
	for _, slug := range l.Slugs() {
		if _, ok := registered[slug]; !ok {
			gap.Orphans = append(gap.Orphans, slug)
		}
	}
	if len(gap.Missing) == 0 && len(gap.Orphans) == 0 {
		return nil
	}
	return gap
}
