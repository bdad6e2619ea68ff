// Package mapper wires the window, slider, tile store and merge policy
// behind a single scan-ingestion call, and owns their construction from a
// validated demconfig.Options.
package mapper

import (
	"context"

	"github.com/benbjohnson/clock"
	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"
	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/fieldcore/demgrid/demconfig"
	"github.com/fieldcore/demgrid/geoxform"
	"github.com/fieldcore/demgrid/merge"
	"github.com/fieldcore/demgrid/slider"
	"github.com/fieldcore/demgrid/tile"
	"github.com/fieldcore/demgrid/window"
)

// Mapper maintains one elevation model window against one tile
// directory. All methods must be called from a single goroutine.
type Mapper struct {
	cfg    demconfig.Options
	win    *window.Window
	store  *tile.Store
	merger *merge.Merger
	logger golog.Logger
}

// ScanResult reports what one IngestScan call did. TileIOErr collects any
// non-fatal tile save failures encountered during a slide; per the
// propagation policy they do not fail the call, but callers may want to
// know durability was lost.
type ScanResult struct {
	ID               uuid.UUID
	Ingested         int
	DroppedNonFinite int
	DroppedOutside   int
	CellsTouched     int
	Slid             bool
	SlideDX, SlideDY int32
	TileIOErr        error
}

// New validates cfg, builds the window and its collaborators, and loads
// any tiles already persisted for the nine starting positions. A missing
// tile leaves its region empty; that is the normal cold-start case.
func New(ctx context.Context, cfg demconfig.Options, affine geoxform.WindowAffine,
	logger golog.Logger, clk clock.Clock,
) (*Mapper, error) {
	if err := cfg.Validate("mapper"); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	if clk == nil {
		clk = clock.New()
	}

	store := tile.NewStore(cfg.TileDir, nil, logger)
	win := window.New(cfg.TileWidth, cfg.TileHeight, affine, logger)

	m := &Mapper{
		cfg:   cfg,
		win:   win,
		store: store,
		merger: &merge.Merger{
			Window:         win,
			Slider:         slider.New(store, logger),
			Clock:          clk,
			Logger:         logger,
			DynamicMerge:   cfg.DynamicMerge,
			VarianceFactor: cfg.VarianceFactor,
		},
		logger: logger,
	}

	loaded := 0
	for sy := int32(-1); sy <= 1; sy++ {
		for sx := int32(-1); sx <= 1; sx++ {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			ok, err := store.LoadInto(win.TileView(int(sx), int(sy)), win.CurX+sx, win.CurY+sy)
			if err != nil {
				return nil, err
			}
			if ok {
				loaded++
			}
		}
	}
	if loaded > 0 {
		logger.Infow("window initialized from persisted tiles", "loaded", loaded)
	}
	return m, nil
}

// Window exposes the underlying window for read access (exports, tests).
// Mutating it while scans are being ingested is the caller's mistake.
func (m *Mapper) Window() *window.Window {
	return m.win
}

// IngestScan runs one cloud through the full transaction: transform,
// slide if the robot has left the central ninth, then aggregate or
// dynamically reconcile. The cloud slice is consumed.
func (m *Mapper) IngestScan(ctx context.Context, cloud []r3.Vector, sensorToWorld geoxform.Affine3D) (ScanResult, error) {
	res := ScanResult{ID: uuid.New()}

	stats, err := m.merger.MergeScan(ctx, cloud, sensorToWorld)
	res.Ingested = stats.Ingested
	res.DroppedNonFinite = stats.DroppedNonFinite
	res.DroppedOutside = stats.DroppedOutside
	res.CellsTouched = stats.CellsTouched
	res.Slid = stats.Slide.Moved
	res.SlideDX, res.SlideDY = stats.Slide.DX, stats.Slide.DY
	res.TileIOErr = multierr.Combine(stats.Slide.SaveErrs...)
	if err != nil {
		return res, err
	}

	m.logger.Debugw("scan merged",
		"scan", res.ID,
		"ingested", res.Ingested,
		"dropped_outside", res.DroppedOutside,
		"cells", res.CellsTouched,
		"slid", res.Slid,
	)
	return res, nil
}

// Checkpoint persists all nine window tiles under their current world
// coordinates, a best-effort flush for mission end or shutdown. Failures
// for individual tiles are combined, not short-circuited.
func (m *Mapper) Checkpoint(ctx context.Context) error {
	var errs error
	for sy := int32(-1); sy <= 1; sy++ {
		for sx := int32(-1); sx <= 1; sx++ {
			if err := ctx.Err(); err != nil {
				return multierr.Append(errs, err)
			}
			originX, originY := m.win.Affine.PixelToUTM(
				float64((int(sx)+1)*m.win.SW), float64((int(sy)+1)*m.win.SH))
			err := m.store.SaveFrom(m.win.TileView(int(sx), int(sy)),
				m.win.CurX+sx, m.win.CurY+sy,
				originX, originY, m.win.Affine.ScaleX, m.win.Affine.ScaleY)
			errs = multierr.Append(errs, err)
		}
	}
	if errs == nil {
		m.win.Dirty = false
	}
	return errs
}
