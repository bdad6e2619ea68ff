// Package geoxform implements the coordinate-transform math of the
// pipeline: applying a 3x4 sensor->world affine to a point cloud, and
// converting between the window's custom frame, pixel indices, and UTM.
// It carries no aggregation logic of its own.
package geoxform

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
)

// Affine3D is a 3x4 affine transform (rotation + translation, no
// perspective row) represented as a 4x4 homogeneous matrix with a last
// row of [0 0 0 1].
type Affine3D struct {
	mat mgl64.Mat4
}

// IdentityAffine3D returns the identity transform.
func IdentityAffine3D() Affine3D {
	return Affine3D{mat: mgl64.Ident4()}
}

// NewAffine3DRowMajor builds an Affine3D from the twelve row-major entries
// of a 3x4 matrix: [r00 r01 r02 tx  r10 r11 r12 ty  r20 r21 r22 tz].
func NewAffine3DRowMajor(rows [12]float64) Affine3D {
	m := mgl64.Ident4()
	for r := 0; r < 3; r++ {
		for c := 0; c < 4; c++ {
			m.Set(r, c, rows[r*4+c])
		}
	}
	return Affine3D{mat: m}
}

// Translation returns (T[3], T[7]): the x and y translation components,
// i.e. the robot's world position under this transform's origin.
func (a Affine3D) Translation() (x, y float64) {
	t := a.mat.Col(3)
	return t[0], t[1]
}

// Apply transforms a single point by the 3x4 affine with an implicit
// homogeneous 1.
func (a Affine3D) Apply(p r3.Vector) r3.Vector {
	v := a.mat.Mul4x1(mgl64.Vec4{p.X, p.Y, p.Z, 1})
	return r3.Vector{X: v[0], Y: v[1], Z: v[2]}
}

// ApplyAll transforms cloud in place, dropping (and counting) any point
// whose coordinates are not all finite before or after the transform.
// The returned slice may be shorter than the input.
func ApplyAll(a Affine3D, cloud []r3.Vector) (transformed []r3.Vector, dropped int) {
	out := cloud[:0]
	for _, p := range cloud {
		if !finiteVec(p) {
			dropped++
			continue
		}
		tp := a.Apply(p)
		if !finiteVec(tp) {
			dropped++
			continue
		}
		out = append(out, tp)
	}
	return out, dropped
}

func finiteVec(v r3.Vector) bool {
	return finite(v.X) && finite(v.Y) && finite(v.Z)
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
