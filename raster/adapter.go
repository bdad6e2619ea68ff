// Package raster defines the georeferenced grid-of-named-bands interface
// the window/tile/slider packages persist through, plus one concrete
// file-backed default implementation.
package raster

import "math"

// Band names a raster band. The six bands and their order are part of
// the persisted tile format and must never be reordered or renamed
// without also updating every Adapter implementation's Names().
type Band int

// The six bands a cell array mirrors into at export time.
const (
	NPoints Band = iota
	ZMax
	ZMin
	ZMean
	Variance
	LastUpdate
	numBands
)

// BandNames is the canonical band-name list every Adapter.Names() must
// equal, element for element.
var BandNames = [int(numBands)]string{
	NPoints:    "N_POINTS",
	ZMax:       "Z_MAX",
	ZMin:       "Z_MIN",
	ZMean:      "Z_MEAN",
	Variance:   "VARIANCE",
	LastUpdate: "LAST_UPDATE",
}

// NumBands is the number of bands every Adapter carries.
const NumBands = int(numBands)

// OutsideIndex is the sentinel IndexCustom returns for a coordinate
// outside the raster's extent.
const OutsideIndex = math.MaxInt

// Adapter abstracts a georeferenced grid of named bands. The core binds
// exactly one Adapter per tile through package tile's Store.
type Adapter interface {
	// Width and Height are the raster's pixel dimensions.
	Width() int
	Height() int

	// ScaleX and ScaleY are the current pixel->UTM scale factors.
	ScaleX() float64
	ScaleY() float64

	// SetTransform installs a new affine: UTM origin plus pixel scale.
	SetTransform(originX, originY, scaleX, scaleY float64)

	// PointCustomToPix maps a custom-frame point to a pixel coordinate.
	PointCustomToPix(x, y float64) (px, py int)

	// PointPixToUTM maps a pixel coordinate to UTM.
	PointPixToUTM(px, py int) (ux, uy float64)

	// IndexCustom maps a custom-frame point to a flat band index, or
	// OutsideIndex if the point falls outside the raster.
	IndexCustom(x, y float64) int

	// BandAt and SetBandAt read/write one band's value at a flat index.
	BandAt(b Band, index int) float64
	SetBandAt(b Band, index int, v float64)

	// Names returns the adapter's band names, in band order, for
	// comparison against BandNames.
	Names() []string

	// CopyMeta copies georeferencing metadata (origin, scale, band
	// names) from other into the receiver and resizes to w x h.
	CopyMeta(other Adapter, w, h int) error

	// Save persists the adapter's current contents to path.
	Save(path string) error
}
