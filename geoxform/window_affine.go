package geoxform

import (
	"math"

	geo "github.com/kellydunn/golang-geo"
	"gonum.org/v1/gonum/mat"
)

// WindowAffine carries the window's mapping from cell index (pixel space)
// to world/custom coordinates and, beyond that, to UTM: per-axis scale
// and an origin in UTM.
type WindowAffine struct {
	ScaleX, ScaleY         float64
	OriginUTMX, OriginUTMY float64
}

// linear returns the 2x2 diagonal scale matrix backing pixel<->custom
// conversions. Using gonum.org/v1/gonum/mat here (rather than two bare
// multiplies) keeps the window's coordinate math expressed the way the
// rest of this module's linear algebra is, and gives it room to grow
// non-axis-aligned scaling without a rewrite.
func (w WindowAffine) linear() *mat.Dense {
	return mat.NewDense(2, 2, []float64{w.ScaleX, 0, 0, w.ScaleY})
}

// PixelToUTM maps a pixel (cell-index) coordinate to UTM.
func (w WindowAffine) PixelToUTM(px, py float64) (ux, uy float64) {
	var v mat.VecDense
	v.MulVec(w.linear(), mat.NewVecDense(2, []float64{px, py}))
	return w.OriginUTMX + v.AtVec(0), w.OriginUTMY + v.AtVec(1)
}

// UTMToPixel is the inverse of PixelToUTM.
func (w WindowAffine) UTMToPixel(ux, uy float64) (px, py float64) {
	dx, dy := ux-w.OriginUTMX, uy-w.OriginUTMY
	if w.ScaleX == 0 || w.ScaleY == 0 {
		return 0, 0
	}
	return dx / w.ScaleX, dy / w.ScaleY
}

// CustomToPixel maps a point in the window's local custom frame
// (world coordinates anchored at the window's origin) to a pixel.
// The custom frame and UTM share the same scale, differing only in
// where "origin" is defined by the caller, so this reuses PixelToUTM's
// linear map inverse. Flooring (not truncation) keeps boundary points
// deterministic and negative coordinates outside the grid.
func (w WindowAffine) CustomToPixel(x, y float64) (px, py int) {
	fpx, fpy := w.UTMToPixel(x, y)
	return int(math.Floor(fpx)), int(math.Floor(fpy))
}

// PixelToCustom is the inverse of CustomToPixel.
func (w WindowAffine) PixelToCustom(px, py int) (x, y float64) {
	return w.PixelToUTM(float64(px), float64(py))
}

// ReportUTM renders a UTM location as a geo.Point for diagnostic logging
// only (e.g. "window recentered near %v"); it is never used for any core
// computation, which stays in the planar UTM/custom frame throughout.
func ReportUTM(ux, uy float64) *geo.Point {
	return geo.NewPoint(uy, ux)
}
