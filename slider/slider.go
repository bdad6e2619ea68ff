// Package slider implements the sliding-window manager: detecting when
// the robot has left the window's central ninth and, when it has,
// evicting the trailing tiles, shifting the cell array, and loading the
// newly exposed tiles.
package slider

import (
	"context"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"

	"github.com/fieldcore/demgrid/geoxform"
	"github.com/fieldcore/demgrid/tile"
	"github.com/fieldcore/demgrid/window"
)

// Slider orchestrates slides for one window against one tile store.
type Slider struct {
	Store  *tile.Store
	Logger golog.Logger
}

// New returns a Slider bound to store.
func New(store *tile.Store, logger golog.Logger) *Slider {
	return &Slider{Store: store, Logger: logger}
}

// Result reports what a call to MaybeSlide actually did, for callers
// that want to log or assert on slide behavior without reaching into
// window internals.
type Result struct {
	Moved    bool
	DX, DY   int32
	Evicted  int
	Loaded   int
	SaveErrs []error
}

// inGrid reports whether (sx, sy) is one of the nine valid tile-grid
// offsets {-1,0,1}^2.
func inGrid(sx, sy int32) bool {
	return sx >= -1 && sx <= 1 && sy >= -1 && sy <= 1
}

// MaybeSlide computes the robot's position within the window and, if it
// has left the central ninth, performs a full slide: evict, shift,
// recenter, load, reset auxiliary buffers, update the affine. If the
// robot is still centered, MaybeSlide issues no I/O and returns a
// zero Result (the "slide idempotence on centered input" law).
//
// Once eviction begins the slide runs to completion; ctx is only checked
// before it starts.
func (s *Slider) MaybeSlide(ctx context.Context, w *window.Window, robotX, robotY float64) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	// The robot's pixel position stays continuous here; flooring it to a
	// cell index would bias the trigger by up to a whole cell.
	px, py := w.Affine.UTMToPixel(robotX, robotY)
	cx := px / float64(w.Width())
	cy := py / float64(w.Height())

	if cx > 0.25 && cx < 0.75 && cy > 0.25 && cy < 0.75 {
		return Result{}, nil
	}

	var dx, dy int32
	switch {
	case cx < 0.33:
		dx = -1
	case cx > 0.66:
		dx = 1
	}
	switch {
	case cy < 0.33:
		dy = -1
	case cy > 0.66:
		dy = 1
	}

	return s.slide(w, dx, dy)
}

// slide performs the unconditional shift-by-(dx,dy). It is not
// re-entrant and is not atomic: an error part-way through leaves the
// window in whatever state the completed steps produced.
func (s *Slider) slide(w *window.Window, dx, dy int32) (Result, error) {
	res := Result{Moved: true, DX: dx, DY: dy}
	preAffine := w.Affine
	preCurX, preCurY := w.CurX, w.CurY

	// 1. Evict every tile that would fall off-grid after the shift,
	// tagged with its *pre-shift* world coordinates.
	for sy := int32(-1); sy <= 1; sy++ {
		for sx := int32(-1); sx <= 1; sx++ {
			if inGrid(sx-dx, sy-dy) {
				continue
			}
			view := w.TileView(int(sx), int(sy))
			originX, originY := preAffine.PixelToUTM(
				float64((int(sx)+1)*w.SW), float64((int(sy)+1)*w.SH))
			err := s.Store.SaveFrom(view, preCurX+sx, preCurY+sy,
				originX, originY, preAffine.ScaleX, preAffine.ScaleY)
			res.Evicted++
			if err != nil {
				if s.Logger != nil {
					s.Logger.Errorw("slide: tile save failed", "tx", preCurX+sx, "ty", preCurY+sy, "error", err)
				}
				res.SaveErrs = append(res.SaveErrs, err)
			}
		}
	}

	// 2. Shift the cell array in place.
	w.Shift(-int(dx)*w.SW, -int(dy)*w.SH)

	// 3. Update center.
	w.CurX += dx
	w.CurY += dy

	// 4. Load every tile newly exposed on the leading edge.
	for sy := int32(-1); sy <= 1; sy++ {
		for sx := int32(-1); sx <= 1; sx++ {
			if inGrid(sx+dx, sy+dy) {
				continue
			}
			view := w.TileView(int(sx), int(sy))
			ok, err := s.Store.LoadInto(view, w.CurX+sx, w.CurY+sy)
			if err != nil {
				return res, errors.Wrapf(err, "slide: tile load (%d,%d)", w.CurX+sx, w.CurY+sy)
			}
			if ok {
				res.Loaded++
			}
		}
	}

	// 5. Reset auxiliary state: dynamic-mode classification is local to
	// one window position.
	w.ResetAuxiliary()

	// 6. Update the window affine: the new origin is the pixel-to-UTM
	// image of (sw*dx, sh*dy) under the pre-shift affine.
	newOriginX, newOriginY := preAffine.PixelToUTM(float64(w.SW*int(dx)), float64(w.SH*int(dy)))
	w.Affine.OriginUTMX, w.Affine.OriginUTMY = newOriginX, newOriginY

	if s.Logger != nil {
		s.Logger.Debugw("window recentered",
			"cur_x", w.CurX, "cur_y", w.CurY,
			"near", geoxform.ReportUTM(newOriginX, newOriginY))
	}
	return res, nil
}
