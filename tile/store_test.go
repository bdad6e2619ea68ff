package tile

import (
	"testing"

	"github.com/edaniels/golog"
	"go.viam.com/test"

	"github.com/fieldcore/demgrid/cell"
	"github.com/fieldcore/demgrid/geoxform"
	"github.com/fieldcore/demgrid/window"
)

func TestSaveAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir, nil, golog.NewTestLogger(t))

	affine := geoxform.WindowAffine{ScaleX: 1, ScaleY: 1}
	w := window.New(2, 2, affine, golog.NewTestLogger(t))

	view := w.TileView(0, 0)
	cell.AddSample(view.At(0, 0), 1.0)
	cell.AddSample(view.At(0, 0), 3.0)
	cell.AddSample(view.At(1, 1), 5.0)

	test.That(t, store.SaveFrom(view, 3, -2, 100, 200, 1, 1), test.ShouldBeNil)

	w2 := window.New(2, 2, affine, golog.NewTestLogger(t))
	view2 := w2.TileView(0, 0)
	ok, err := store.LoadInto(view2, 3, -2)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, ok, test.ShouldBeTrue)

	loaded := view2.At(0, 0)
	test.That(t, loaded.NPoints, test.ShouldEqual, uint64(2))
	test.That(t, loaded.ZMean, test.ShouldEqual, 2.0)
	test.That(t, loaded.Variance(), test.ShouldEqual, 2.0)

	test.That(t, view2.At(1, 1).NPoints, test.ShouldEqual, uint64(1))
	test.That(t, view2.At(0, 1).NPoints, test.ShouldEqual, uint64(0))
}

func TestLoadMissingTileReturnsFalse(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir, nil, golog.NewTestLogger(t))
	affine := geoxform.WindowAffine{ScaleX: 1, ScaleY: 1}
	w := window.New(2, 2, affine, golog.NewTestLogger(t))
	ok, err := store.LoadInto(w.TileView(-1, 1), 99, 99)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, ok, test.ShouldBeFalse)
}
