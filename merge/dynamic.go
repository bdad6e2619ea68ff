package merge

import (
	"github.com/golang/geo/r3"

	"github.com/fieldcore/demgrid/cell"
	"github.com/fieldcore/demgrid/clockutil"
)

// dynamic is the classify-and-reconcile path. The scan first aggregates
// into a scratch buffer on its own; each scan-cell is then classified as
// flat ground or vertical obstacle by comparing its variance against a
// threshold derived from the whole scan, and reconciled with the
// persistent window:
//
//   - virgin window cell: adopt the scan cell and its class
//   - same class as before: accumulate
//   - flat -> vertical: stash the window cell in the ground cache, expose
//     the obstacle
//   - vertical -> flat: the obstacle has gone; restore the cached ground
//     and accumulate the scan into it
//
// Classification is sticky (it takes a whole scan to change class), and
// the ground cache means a passing pedestrian does not leave a permanent
// hole in the model.
func (m *Merger) dynamic(pts []r3.Vector, stats *Stats) {
	w := m.Window
	w.ResetScan()

	for _, p := range pts {
		i, ok := w.IndexAt(p.X, p.Y)
		if !ok {
			stats.DroppedOutside++
			continue
		}
		cell.AddSample(&w.Scan[i], p.Z)
		stats.Ingested++
	}

	tau := m.VarianceFactor * meanVariance(w.Scan)
	now := clockutil.NowSeconds(m.Clock)

	var flipped int
	for i := range w.Scan {
		if w.Scan[i].Empty() {
			continue
		}
		v := cell.IsVertical(w.Scan[i], tau)
		switch {
		case w.Cells[i].Empty():
			w.Cells[i] = w.Scan[i]
			w.Vertical[i] = v
		case w.Vertical[i] == v:
			cell.MergeCells(&w.Cells[i], w.Scan[i])
		case !w.Vertical[i]:
			// Was flat, now vertical: remember the ground before the
			// obstacle overwrites it.
			w.Ground[i] = w.Cells[i]
			w.Cells[i] = w.Scan[i]
			w.Vertical[i] = true
			flipped++
		default:
			// Was vertical, now flat again.
			w.Cells[i] = w.Ground[i]
			cell.MergeCells(&w.Cells[i], w.Scan[i])
			w.Vertical[i] = false
			flipped++
		}
		w.Cells[i].LastUpdate = now
		stats.CellsTouched++
		w.Dirty = true
	}

	if m.Logger != nil && flipped > 0 {
		m.Logger.Debugw("dynamic merge reclassified cells", "flipped", flipped, "tau", tau)
	}
}

// meanVariance averages the finalized variance over all cells with at
// least three samples, or returns 0 when none qualify.
func meanVariance(cells []cell.Cell) float64 {
	var sum float64
	var n int
	for i := range cells {
		if cells[i].NPoints < 3 {
			continue
		}
		sum += cells[i].Variance()
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
