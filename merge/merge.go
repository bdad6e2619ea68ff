// Package merge folds transformed point clouds into the window: the plain
// single-scan accumulation path, and the dynamic flat/vertical
// classify-and-reconcile policy that keeps transient obstacles from
// punching permanent holes in the elevation model.
package merge

import (
	"context"

	"github.com/benbjohnson/clock"
	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"

	"github.com/fieldcore/demgrid/cell"
	"github.com/fieldcore/demgrid/clockutil"
	"github.com/fieldcore/demgrid/geoxform"
	"github.com/fieldcore/demgrid/slider"
	"github.com/fieldcore/demgrid/window"
)

// Merger runs one scan at a time against one window. It is not safe for
// concurrent use; the owning goroutine serializes calls.
type Merger struct {
	Window *window.Window
	Slider *slider.Slider
	Clock  clock.Clock
	Logger golog.Logger

	// DynamicMerge selects the classify-and-reconcile policy over
	// plain accumulation.
	DynamicMerge bool

	// VarianceFactor is the k in tau = k * mean_variance(scan).
	VarianceFactor float64
}

// Stats reports what one MergeScan call did.
type Stats struct {
	Ingested         int
	DroppedNonFinite int
	DroppedOutside   int
	CellsTouched     int
	Slide            slider.Result
}

// MergeScan transforms cloud by sensorToWorld in place, slides the window
// toward the transform's translation if needed, then folds every in-window
// point into the model. The cloud slice is consumed: its points are
// overwritten with their world-frame images and it must not be reused.
//
// ctx is honored up to the point aggregation begins; after that the scan
// runs to completion so cell statistics and timestamps stay consistent.
func (m *Merger) MergeScan(ctx context.Context, cloud []r3.Vector, sensorToWorld geoxform.Affine3D) (Stats, error) {
	var stats Stats

	transformed, dropped := geoxform.ApplyAll(sensorToWorld, cloud)
	stats.DroppedNonFinite = dropped

	rx, ry := sensorToWorld.Translation()
	slideRes, err := m.Slider.MaybeSlide(ctx, m.Window, rx, ry)
	stats.Slide = slideRes
	if err != nil {
		return stats, err
	}

	if err := ctx.Err(); err != nil {
		// The scan may still be dropped whole here; nothing has been
		// aggregated yet.
		return stats, err
	}

	if m.DynamicMerge {
		m.dynamic(transformed, &stats)
	} else {
		m.static(transformed, &stats)
	}
	return stats, nil
}

// static is the plain accumulation path: every in-window point folds
// straight into its owning cell.
func (m *Merger) static(pts []r3.Vector, stats *Stats) {
	w := m.Window
	now := clockutil.NowSeconds(m.Clock)
	for _, p := range pts {
		c, ok := w.CellAt(p.X, p.Y)
		if !ok {
			stats.DroppedOutside++
			continue
		}
		if c.Empty() || c.LastUpdate != now {
			stats.CellsTouched++
		}
		cell.AddSample(c, p.Z)
		c.LastUpdate = now
		stats.Ingested++
		w.Dirty = true
	}
}
