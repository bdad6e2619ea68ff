package geoxform

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func TestIdentityApply(t *testing.T) {
	a := IdentityAffine3D()
	p := r3.Vector{X: 1, Y: 2, Z: 3}
	test.That(t, a.Apply(p), test.ShouldResemble, p)
}

func TestTranslationExtraction(t *testing.T) {
	a := NewAffine3DRowMajor([12]float64{
		1, 0, 0, 10,
		0, 1, 0, 20,
		0, 0, 1, 30,
	})
	x, y := a.Translation()
	test.That(t, x, test.ShouldEqual, 10.0)
	test.That(t, y, test.ShouldEqual, 20.0)

	p := a.Apply(r3.Vector{X: 1, Y: 1, Z: 1})
	test.That(t, p, test.ShouldResemble, r3.Vector{X: 11, Y: 21, Z: 31})
}

func TestApplyAllDropsNonFinite(t *testing.T) {
	a := IdentityAffine3D()
	cloud := []r3.Vector{
		{X: 1, Y: 1, Z: 1},
		{X: math.NaN(), Y: 0, Z: 0},
		{X: math.Inf(1), Y: 0, Z: 0},
		{X: 2, Y: 2, Z: 2},
	}
	out, dropped := ApplyAll(a, cloud)
	test.That(t, dropped, test.ShouldEqual, 2)
	test.That(t, len(out), test.ShouldEqual, 2)
	test.That(t, out[0], test.ShouldResemble, r3.Vector{X: 1, Y: 1, Z: 1})
	test.That(t, out[1], test.ShouldResemble, r3.Vector{X: 2, Y: 2, Z: 2})
}

func TestWindowAffineRoundTrip(t *testing.T) {
	w := WindowAffine{ScaleX: 0.5, ScaleY: 0.5, OriginUTMX: 500000, OriginUTMY: 4000000}

	ux, uy := w.PixelToUTM(10, 20)
	px, py := w.UTMToPixel(ux, uy)
	test.That(t, math.Abs(px-10) < 1e-9, test.ShouldBeTrue)
	test.That(t, math.Abs(py-20) < 1e-9, test.ShouldBeTrue)

	x, y := w.PixelToCustom(4, 4)
	cx, cy := w.CustomToPixel(x, y)
	test.That(t, cx, test.ShouldEqual, 4)
	test.That(t, cy, test.ShouldEqual, 4)
}
