package folio

import "embed"

// EmbeddedAssets contains the static assets served under /public/:
// site.css and favicon.svg.
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
