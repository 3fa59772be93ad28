// Package content embeds the site's authored material: post bodies and the
// profile page data.
package content

import "embed"

// FS holds posts/*.md and profile.yaml.
//
//go:embed posts/*.md profile.yaml
var FS embed.FS

const (
	// PostsDir is the directory of post bodies inside FS.
	PostsDir = "posts"
	// ProfileFile is the profile data file inside FS.
	ProfileFile = "profile.yaml"
)
