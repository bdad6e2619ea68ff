package window

import "github.com/fieldcore/demgrid/cell"

// TileView is a view over one of the window's nine sw x sh sub-rectangles,
// addressed by tile-grid offset (sx, sy) in {-1,0,1}^2. It borrows the
// parent window's cell storage for the duration of one load/save and does
// not retain it beyond that.
type TileView struct {
	w      *Window
	sx, sy int
}

// TileView returns a view over the sub-tile at window-grid offset (sx, sy).
func (w *Window) TileView(sx, sy int) TileView {
	return TileView{w: w, sx: sx, sy: sy}
}

// Width and Height are the tile's cell dimensions (sw, sh).
func (t TileView) Width() int  { return t.w.SW }
func (t TileView) Height() int { return t.w.SH }

func (t TileView) baseIndex() (baseX, baseY int) {
	return (t.sx + 1) * t.w.SW, (t.sy + 1) * t.w.SH
}

// At returns a pointer to the cell at local (lx, ly) within this tile.
func (t TileView) At(lx, ly int) *cell.Cell {
	baseX, baseY := t.baseIndex()
	idx, _ := t.w.indexAt(baseX+lx, baseY+ly)
	return &t.w.Cells[idx]
}

// ForEach visits every cell in the tile in row-major order.
func (t TileView) ForEach(fn func(lx, ly int, c *cell.Cell)) {
	for ly := 0; ly < t.Height(); ly++ {
		for lx := 0; lx < t.Width(); lx++ {
			fn(lx, ly, t.At(lx, ly))
		}
	}
}

// Zero clears every cell in the tile to the empty state.
func (t TileView) Zero() {
	t.ForEach(func(lx, ly int, c *cell.Cell) { *c = cell.Cell{} })
}
