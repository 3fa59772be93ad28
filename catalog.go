package folio

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/eringen/folio/blog"
)

// Catalog is a SQLite index over the post registry used for tag filtering,
// tag counts and search. It is rebuilt from the registry with Load and holds
// nothing the registry does not.
type Catalog struct {
	db *sql.DB
}

// NewCatalog opens the index at dsn (":memory:" by default) and creates its
// schema.
func NewCatalog(dsn string) (*Catalog, error) {
	if dsn == "" {
		dsn = ":memory:"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// Every connection to ":memory:" is a separate database.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	c := &Catalog{db: db}
	if err := c.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return c, nil
}

// Close closes the underlying database connection.
func (c *Catalog) Close() error {
	return c.db.Close()
}

func (c *Catalog) ensureSchema() error {
	_, err := c.db.Exec(`
CREATE TABLE IF NOT EXISTS posts (
    pos INTEGER PRIMARY KEY,
    slug TEXT NOT NULL UNIQUE,
    title TEXT NOT NULL,
    description TEXT NOT NULL,
    date TEXT NOT NULL,
    read_time TEXT NOT NULL,
    tags TEXT NOT NULL,
    featured INTEGER NOT NULL DEFAULT 0
);
`)
	return err
}

// Load replaces the index with posts, keeping their order.
func (c *Catalog) Load(ctx context.Context, posts []blog.Post) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM posts`); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO posts (pos, slug, title, description, date, read_time, tags, featured) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i, p := range posts {
		featured := 0
		if p.Featured {
			featured = 1
		}
		if _, err := stmt.ExecContext(ctx, i, p.Slug, p.Title, p.Description, p.Date, p.ReadTime, joinTags(p.Tags), featured); err != nil {
			return fmt.Errorf("index %q: %w", p.Slug, err)
		}
	}
	return tx.Commit()
}

const postColumns = `slug, title, description, date, read_time, tags, featured`

// ListPosts returns indexed posts in registry order. If tag is non-empty,
// results are filtered to posts carrying that tag.
func (c *Catalog) ListPosts(ctx context.Context, tag string) ([]blog.Post, error) {
	return c.Query(ctx, tag, "")
}

// Search returns posts whose title, description or tags contain q,
// case-insensitively, in registry order.
func (c *Catalog) Search(ctx context.Context, q string) ([]blog.Post, error) {
	return c.Query(ctx, "", q)
}

// Query combines a tag filter and a search term. Empty arguments match
// everything.
func (c *Catalog) Query(ctx context.Context, tag, q string) ([]blog.Post, error) {
	var where []string
	var args []any
	if t := blog.NormalizeTag(tag); t != "" {
		where = append(where, `instr(tags, ',' || ? || ',') > 0`)
		args = append(args, t)
	}
	if q = strings.ToLower(strings.TrimSpace(q)); q != "" {
		where = append(where, `(instr(lower(title), ?) > 0 OR instr(lower(description), ?) > 0 OR instr(tags, ?) > 0)`)
		args = append(args, q, q, q)
	}
	query := `SELECT ` + postColumns + ` FROM posts`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, ` AND `)
	}
	query += ` ORDER BY pos`

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []blog.Post
	for rows.Next() {
		var p blog.Post
		var tags string
		var featured int
		if err := rows.Scan(&p.Slug, &p.Title, &p.Description, &p.Date, &p.ReadTime, &tags, &featured); err != nil {
			return nil, err
		}
		p.Tags = ParseTags(tags)
		p.Featured = featured == 1
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// TagCounts returns every tag with its post count, most used first and
// alphabetical among equals.
func (c *Catalog) TagCounts(ctx context.Context) ([]TagCount, error) {
	rows, err := c.db.QueryContext(ctx, `SELECT tags FROM posts`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var tags string
		if err := rows.Scan(&tags); err != nil {
			return nil, err
		}
		for _, t := range ParseTags(tags) {
			counts[t]++
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	result := make([]TagCount, 0, len(counts))
	for t, n := range counts {
		result = append(result, TagCount{Tag: t, Count: n})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Tag < result[j].Tag
	})
	return result, nil
}

// ListTags returns a sorted, deduplicated slice of all tags.
func (c *Catalog) ListTags(ctx context.Context) ([]string, error) {
	counts, err := c.TagCounts(ctx)
	if err != nil {
		return nil, err
	}
	tags := make([]string, len(counts))
	for i, tc := range counts {
		tags[i] = tc.Tag
	}
	sort.Strings(tags)
	return tags, nil
}

// joinTags stores tags as ",a,b," so a single tag matches with instr.
func joinTags(tags []string) string {
	normalized := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = blog.NormalizeTag(t); t != "" {
			normalized = append(normalized, t)
		}
	}
	return "," + strings.Join(normalized, ",") + ","
}

// ParseTags splits a comma-delimited tag string (e.g. ",go,web,") into a slice.
func ParseTags(tagString string) []string {
	tagString = strings.Trim(tagString, ",")
	if tagString == "" {
		return nil
	}
	parts := strings.Split(tagString, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
