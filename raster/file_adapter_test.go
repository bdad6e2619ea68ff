package raster

import (
	"path/filepath"
	"testing"

	"go.viam.com/test"
)

func TestFileAdapterRoundTrip(t *testing.T) {
	fa := NewFileAdapter(9, 9)
	fa.SetTransform(500000, 4000000, 0.1, 0.1)
	fa.SetBandAt(NPoints, 5, 3)
	fa.SetBandAt(ZMean, 5, 1.75)

	dir := t.TempDir()
	path := filepath.Join(dir, "tile.demg")
	test.That(t, fa.Save(path), test.ShouldBeNil)

	loaded, ok, err := LoadFileAdapter(path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, loaded.Width(), test.ShouldEqual, 9)
	test.That(t, loaded.Height(), test.ShouldEqual, 9)
	test.That(t, loaded.BandAt(NPoints, 5), test.ShouldEqual, 3.0)
	test.That(t, loaded.BandAt(ZMean, 5), test.ShouldEqual, 1.75)
	test.That(t, loaded.Names(), test.ShouldResemble, BandNames[:])
}

func TestLoadMissingFileIsNotAnError(t *testing.T) {
	dir := t.TempDir()
	_, ok, err := LoadFileAdapter(filepath.Join(dir, "absent.demg"))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, ok, test.ShouldBeFalse)
}

func TestIndexCustomOutside(t *testing.T) {
	fa := NewFileAdapter(4, 4)
	fa.SetTransform(0, 0, 1, 1)
	test.That(t, fa.IndexCustom(100, 100), test.ShouldEqual, OutsideIndex)
	test.That(t, fa.IndexCustom(1, 1), test.ShouldEqual, 1*4+1)
}

func TestCopyMeta(t *testing.T) {
	src := NewFileAdapter(3, 3)
	src.SetTransform(1, 2, 0.5, 0.5)
	dst := NewFileAdapter(1, 1)
	test.That(t, dst.CopyMeta(src, 3, 3), test.ShouldBeNil)
	test.That(t, dst.Width(), test.ShouldEqual, 3)
	test.That(t, dst.ScaleX(), test.ShouldEqual, 0.5)
}
