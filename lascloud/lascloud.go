// Package lascloud reads LiDAR scans from LAS files into plain
// sensor-frame point slices, the input format the merge pipeline consumes.
// Cloud acquisition carries no aggregation logic; this package exists so
// the module runs end to end on real scan files.
package lascloud

import (
	"github.com/edaniels/golog"
	"github.com/edaniels/lidario"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	goutils "go.viam.com/utils"
)

// Past these bounds a float64 can no longer represent every integer, so
// coordinates may silently lose precision.
const (
	maxPreciseFloat64 = float64(9007199254740992)
	minPreciseFloat64 = float64(-9007199254740992)
)

// ReadFile reads every point of a LAS file into a sensor-frame cloud.
// Potential floating-point lossiness is warned about, not an error.
func ReadFile(fn string, logger golog.Logger) ([]r3.Vector, error) {
	lf, err := lidario.NewLasFile(fn, "r")
	if err != nil {
		return nil, errors.Wrapf(err, "lascloud: open %q", fn)
	}
	defer goutils.UncheckedErrorFunc(lf.Close)

	cloud := make([]r3.Vector, 0, lf.Header.NumberPoints)
	for i := 0; i < lf.Header.NumberPoints; i++ {
		p, err := lf.LasPoint(i)
		if err != nil {
			return nil, errors.Wrapf(err, "lascloud: point %d of %q", i, fn)
		}
		data := p.PointData()

		x, y, z := data.X, data.Y, data.Z
		if x < minPreciseFloat64 || x > maxPreciseFloat64 ||
			y < minPreciseFloat64 || y > maxPreciseFloat64 ||
			z < minPreciseFloat64 || z > maxPreciseFloat64 {
			logger.Warnw("potential floating point lossiness for LAS point",
				"index", i, "x", x, "y", y, "z", z)
		}

		cloud = append(cloud, r3.Vector{X: x, Y: y, Z: z})
	}
	return cloud, nil
}

// WriteFile writes a cloud out as a LAS file, point format 0. Useful for
// generating fixtures and for exporting a transformed cloud for
// inspection.
func WriteFile(cloud []r3.Vector, fn string) (err error) {
	lf, err := lidario.NewLasFile(fn, "w")
	if err != nil {
		return errors.Wrapf(err, "lascloud: create %q", fn)
	}
	defer func() {
		cerr := lf.Close()
		err = multierr.Combine(err, cerr)
	}()

	if err = lf.AddHeader(lidario.LasHeader{PointFormatID: 0}); err != nil {
		return err
	}
	for _, p := range cloud {
		pr := &lidario.PointRecord0{
			X: p.X,
			Y: p.Y,
			Z: p.Z,
			BitField: lidario.PointBitField{
				Value: (1) | (1 << 3),
			},
			ClassBitField: lidario.ClassificationBitField{
				Value: 0,
			},
			PointSourceID: 1,
		}
		if err = lf.AddLasPoint(pr); err != nil {
			return err
		}
	}
	return nil
}
