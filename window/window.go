// Package window implements the 3x3-tile in-memory cell grid that
// follows the robot: an array of cell.Cell addressed by world/pixel
// coordinate, carrying the affine mapping to world space, plus the
// scan/ground/vertical auxiliary buffers the dynamic merge policy needs.
package window

import (
	"github.com/edaniels/golog"

	"github.com/fieldcore/demgrid/cell"
	"github.com/fieldcore/demgrid/geoxform"
)

// Window is the W=3*sw by H=3*sh grid of cells following the robot. It is
// mutated exclusively by the single-scan merger (package merge) and the
// slider (package slider). It carries no internal lock: the owning
// goroutine is the sole mutator.
type Window struct {
	SW, SH int // tile dimensions in cells
	Cells  []cell.Cell

	Scan     []cell.Cell
	Ground   []cell.Cell
	Vertical []bool

	Affine geoxform.WindowAffine

	// CurX, CurY are the world-tile coordinates of the currently
	// central tile.
	CurX, CurY int32

	// Dirty reports that the cell array has diverged from any
	// raster-band mirror since the last export.
	Dirty bool

	Logger golog.Logger
}

// New allocates an empty window of tile size sw x sh.
func New(sw, sh int, affine geoxform.WindowAffine, logger golog.Logger) *Window {
	n := (3 * sw) * (3 * sh)
	return &Window{
		SW: sw, SH: sh,
		Cells:    make([]cell.Cell, n),
		Scan:     make([]cell.Cell, n),
		Ground:   make([]cell.Cell, n),
		Vertical: make([]bool, n),
		Affine:   affine,
		Logger:   logger,
	}
}

// Width returns 3*sw.
func (w *Window) Width() int { return 3 * w.SW }

// Height returns 3*sh.
func (w *Window) Height() int { return 3 * w.SH }

// indexAt converts a window-pixel coordinate to a flat cell index.
func (w *Window) indexAt(px, py int) (int, bool) {
	if px < 0 || py < 0 || px >= w.Width() || py >= w.Height() {
		return 0, false
	}
	return py*w.Width() + px, true
}

// IndexAt converts a world coordinate to a flat cell index, and false
// if the coordinate falls outside the window. The index is valid for
// Cells, Scan, Ground and Vertical alike, which all share the window's
// shape.
func (w *Window) IndexAt(x, y float64) (int, bool) {
	px, py := w.Affine.CustomToPixel(x, y)
	return w.indexAt(px, py)
}

// CellAt returns the cell owning world coordinate (x, y), and false if
// that coordinate falls outside the window. The outside case is a bool
// rather than a shared sentinel cell so callers can't accidentally
// mutate sentinel state.
func (w *Window) CellAt(x, y float64) (*cell.Cell, bool) {
	px, py := w.Affine.CustomToPixel(x, y)
	idx, ok := w.indexAt(px, py)
	if !ok {
		return nil, false
	}
	return &w.Cells[idx], true
}

// ForEachCell visits every cell in the window along with its window-pixel
// coordinate. Visiting stops early if fn returns false.
func (w *Window) ForEachCell(fn func(idx, px, py int, c *cell.Cell) bool) {
	width := w.Width()
	for i := range w.Cells {
		if !fn(i, i%width, i/width, &w.Cells[i]) {
			return
		}
	}
}

// ResetAuxiliary zeroes the ground cache and vertical mask. Flat/vertical
// classification is local to one window position and must not survive a
// slide.
func (w *Window) ResetAuxiliary() {
	for i := range w.Ground {
		w.Ground[i] = cell.Cell{}
		w.Vertical[i] = false
	}
}

// ResetScan zeroes the per-scan scratch buffer.
func (w *Window) ResetScan() {
	for i := range w.Scan {
		w.Scan[i] = cell.Cell{}
	}
}

// Shift slides the entire cell array by (shiftX, shiftY) cells: the cell
// that was at (x, y) moves to (x+shiftX, y+shiftY). Cells exposed on the
// trailing edge are zero-initialized. A fresh backing array is allocated
// rather than doing overlap-aware directional copies in place, so the
// trailing zero-fill is complete by construction.
func (w *Window) Shift(shiftX, shiftY int) {
	width, height := w.Width(), w.Height()
	next := make([]cell.Cell, width*height)
	for y := 0; y < height; y++ {
		srcY := y - shiftY
		if srcY < 0 || srcY >= height {
			continue
		}
		for x := 0; x < width; x++ {
			srcX := x - shiftX
			if srcX < 0 || srcX >= width {
				continue
			}
			next[y*width+x] = w.Cells[srcY*width+srcX]
		}
	}
	w.Cells = next
}
