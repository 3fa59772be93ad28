package blog

// Posts is the site's registry. Order here is the order used for previous
// and next navigation, newest first.
var Posts = MustRegistry(
	Post{
		Slug:        "frame-driven-canvas-backgrounds",
		Title:       "Frame-Driven Canvas Backgrounds Without the Jank",
		Description: "One animation loop, two effects: how the particle network and glyph rain behind this site share a single seed, draw, advance and teardown cycle.",
		Date:        "2024-11-18",
		ReadTime:    "9 min read",
		Tags:        []string{"go", "graphics", "animation", "performance"},
		Featured:    true,
	},
	Post{
		Slug:        "static-content-registries",
		Title:       "Static Content Registries Beat a CMS for Small Blogs",
		Description: "Keeping post metadata in code, validating it at startup, and treating a missing article body as an authoring state instead of an error.",
		Date:        "2024-09-02",
		ReadTime:    "6 min read",
		Tags:        []string{"go", "architecture", "blogging"},
	},
	Post{
		Slug:        "echo-middleware-in-practice",
		Title:       "Echo Middleware in Practice",
		Description: "Ordering recover, gzip, secure headers, CSRF and cache-control so each one sees exactly the requests it should.",
		Date:        "2024-06-21",
		ReadTime:    "7 min read",
		Tags:        []string{"go", "web", "echo", "security"},
	},
	Post{
		Slug:        "seo-for-server-rendered-sites",
		Title:       "SEO for Server-Rendered Sites",
		Description: "Sitemaps, feeds, canonical URLs and JSON-LD generated from the same registry that drives the pages.",
		Date:        "2024-03-10",
		ReadTime:    "5 min read",
		Tags:        []string{"seo", "web", "templ"},
	},
)
