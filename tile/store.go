// Package tile implements the tile store: loading and saving one sw x sh
// sub-tile through a raster adapter, addressed by integer world-tile
// coordinates.
package tile

import (
	"fmt"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"

	"github.com/fieldcore/demgrid/cell"
	"github.com/fieldcore/demgrid/raster"
	"github.com/fieldcore/demgrid/window"
)

// Namer maps world-tile integer coordinates to a persisted path.
type Namer func(tx, ty int32) string

// DefaultNamer formats "tile_<tx>_<ty>.demg" with fixed-width signed
// fields (e.g. "tile_+00003_-00002.demg"). Lexical order of the names does
// not follow numeric order: '+' sorts before '-', and negative values sort
// by magnitude.
func DefaultNamer(tx, ty int32) string {
	return fmt.Sprintf("tile_%+06d_%+06d.demg", tx, ty)
}

// Store is the raster adapter bound to one tile's filename convention.
type Store struct {
	dir    string
	namer  Namer
	logger golog.Logger
}

// NewStore binds a tile store to a directory, using namer to turn
// world-tile coordinates into filenames within it.
func NewStore(dir string, namer Namer, logger golog.Logger) *Store {
	if namer == nil {
		namer = DefaultNamer
	}
	return &Store{dir: dir, namer: namer, logger: logger}
}

func (s *Store) path(tx, ty int32) string {
	return s.dir + "/" + s.namer(tx, ty)
}

// LoadInto reads world tile (tx, ty) from disk and paints it into view.
// It returns false (no error) if the tile file does not exist: a missing
// tile is not an error, the region just stays empty.
func (s *Store) LoadInto(view window.TileView, tx, ty int32) (bool, error) {
	fa, ok, err := raster.LoadFileAdapter(s.path(tx, ty))
	if err != nil {
		return false, errors.Wrapf(err, "tile: load (%d,%d)", tx, ty)
	}
	if !ok {
		return false, nil
	}
	if fa.Width() != view.Width() || fa.Height() != view.Height() {
		return false, errors.Errorf("tile: (%d,%d) size %dx%d does not match window tile size %dx%d",
			tx, ty, fa.Width(), fa.Height(), view.Width(), view.Height())
	}

	view.ForEach(func(lx, ly int, c *cell.Cell) {
		idx := ly*fa.Width() + lx
		n := fa.BandAt(raster.NPoints, idx)
		if n <= 0 {
			*c = cell.Cell{}
			return
		}
		*c = cell.Cell{
			NPoints:    uint64(n),
			ZMin:       fa.BandAt(raster.ZMin, idx),
			ZMax:       fa.BandAt(raster.ZMax, idx),
			ZMean:      fa.BandAt(raster.ZMean, idx),
			LastUpdate: fa.BandAt(raster.LastUpdate, idx),
		}
		// VARIANCE is a finalized-variance export; recover m2 for the
		// internal Welford representation.
		if c.NPoints >= 2 {
			c.M2 = fa.BandAt(raster.Variance, idx) * float64(c.NPoints-1)
		}
	})
	return true, nil
}

// SaveFrom persists view as world tile (tx, ty), always writing. origin
// is the tile's UTM origin, used to set the adapter's transform before
// saving.
func (s *Store) SaveFrom(view window.TileView, tx, ty int32, originX, originY, scaleX, scaleY float64) error {
	fa := raster.NewFileAdapter(view.Width(), view.Height())
	fa.SetTransform(originX, originY, scaleX, scaleY)

	view.ForEach(func(lx, ly int, c *cell.Cell) {
		idx := ly*fa.Width() + lx
		if c.Empty() {
			return
		}
		fa.SetBandAt(raster.NPoints, idx, float64(c.NPoints))
		fa.SetBandAt(raster.ZMin, idx, c.ZMin)
		fa.SetBandAt(raster.ZMax, idx, c.ZMax)
		fa.SetBandAt(raster.ZMean, idx, c.ZMean)
		fa.SetBandAt(raster.Variance, idx, c.Variance())
		fa.SetBandAt(raster.LastUpdate, idx, c.LastUpdate)
	})

	if err := fa.Save(s.path(tx, ty)); err != nil {
		if s.logger != nil {
			s.logger.Errorw("tile save failed", "tx", tx, "ty", ty, "error", err)
		}
		return errors.Wrapf(err, "tile: save (%d,%d)", tx, ty)
	}
	return nil
}
