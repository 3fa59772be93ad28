//go:build !preview

package canvas

import (
	"errors"

	"github.com/rs/zerolog"
)

// ErrNoPreview is returned by RunWindow in builds without the preview tag.
var ErrNoPreview = errors.New("canvas: preview window not built in (rebuild with -tags preview)")

// WindowConfig configures RunWindow.
type WindowConfig struct {
	Width, Height int
	Title         string
	Seed          int64
	Options       Options
	Logger        zerolog.Logger
}

func RunWindow(Effect, WindowConfig) error { return ErrNoPreview }
