package folio

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/eringen/folio/canvas"
)

// BackgroundMinSize is the smallest side of a served background.
const BackgroundMinSize = 64

const backgroundSeed = 20241118

// backgroundSizes lists the sizes /backgrounds/:file serves: the configured
// size and, for small screens, half of it.
func (a *App) backgroundSizes() [][2]int {
	w, h := a.Config.Background.Width, a.Config.Background.Height
	sizes := [][2]int{{w, h}}
	if w/2 >= BackgroundMinSize && h/2 >= BackgroundMinSize {
		sizes = append(sizes, [2]int{w / 2, h / 2})
	}
	return sizes
}

// backgroundKey resolves a request to a servable key. Unknown effects and
// sizes outside backgroundSizes are not servable.
func (a *App) backgroundKey(file, w, h string) (BackgroundKey, bool) {
	name, ok := strings.CutSuffix(file, ".gif")
	if !ok {
		return BackgroundKey{}, false
	}
	name = strings.ToLower(name)
	if _, err := canvas.NewEffect(name); err != nil {
		return BackgroundKey{}, false
	}
	key := BackgroundKey{Effect: name, Width: a.Config.Background.Width, Height: a.Config.Background.Height}
	if w == "" && h == "" {
		return key, true
	}
	wi, err1 := strconv.Atoi(w)
	hi, err2 := strconv.Atoi(h)
	if err1 != nil || err2 != nil {
		return BackgroundKey{}, false
	}
	for _, s := range a.backgroundSizes() {
		if s[0] == wi && s[1] == hi {
			key.Width, key.Height = wi, hi
			return key, true
		}
	}
	return BackgroundKey{}, false
}

func (a *App) handleBackground(c echo.Context) error {
	key, ok := a.backgroundKey(c.Param("file"), c.QueryParam("w"), c.QueryParam("h"))
	if !ok {
		return echo.ErrNotFound
	}
	data, err := a.Backgrounds.Get(c.Request().Context(), key)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			// client went away
			return nil
		}
		return err
	}
	return c.Blob(http.StatusOK, "image/gif", data)
}

// renderBackground records key's effect as an opaque GIF. Pages apply the
// configured opacity when they place it.
func (a *App) renderBackground(ctx context.Context, key BackgroundKey) ([]byte, error) {
	effect, err := canvas.NewEffect(key.Effect)
	if err != nil {
		return nil, err
	}
	log := a.Log.With().Str("effect", key.Effect).Logger()
	var buf bytes.Buffer
	err = canvas.EncodeGIF(ctx, &buf, effect, canvas.RecordConfig{
		Width:   key.Width,
		Height:  key.Height,
		Frames:  a.Config.Background.Frames,
		Delay:   a.Config.Background.Delay,
		Seed:    backgroundSeed,
		Options: canvas.Options{Opacity: 1, ClassName: a.Config.Background.ClassName},
		Logger:  &log,
	})
	if err != nil {
		return nil, err
	}
	a.Log.Debug().Str("background", key.String()).Int("bytes", buf.Len()).Msg("background rendered")
	return buf.Bytes(), nil
}

// warmBackgrounds renders the page backgrounds at every served size so the
// first visitors do not wait for them.
func (a *App) warmBackgrounds(ctx context.Context) {
	defer close(a.warmDone)
	seen := make(map[string]bool)
	for _, effect := range []string{a.Config.Background.Home, a.Config.Background.Blog} {
		if effect == "" || seen[effect] {
			continue
		}
		seen[effect] = true
		for _, s := range a.backgroundSizes() {
			key := BackgroundKey{Effect: effect, Width: s[0], Height: s[1]}
			if _, err := a.Backgrounds.Get(ctx, key); err != nil {
				if ctx.Err() != nil {
					return
				}
				a.Log.Warn().Err(err).Str("background", key.String()).Msg("background prerender failed")
			}
		}
	}
}
