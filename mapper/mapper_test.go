package mapper

import (
	"context"
	"testing"

	"github.com/benbjohnson/clock"
	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"github.com/fieldcore/demgrid/demconfig"
	"github.com/fieldcore/demgrid/geoxform"
)

func testOptions(t *testing.T) demconfig.Options {
	return demconfig.Options{
		TileDir:    t.TempDir(),
		TileWidth:  3,
		TileHeight: 3,
	}
}

func testAffine() geoxform.WindowAffine {
	return geoxform.WindowAffine{ScaleX: 1, ScaleY: 1}
}

func centerTransform() geoxform.Affine3D {
	return geoxform.NewAffine3DRowMajor([12]float64{
		1, 0, 0, 4.5,
		0, 1, 0, 4.5,
		0, 0, 1, 0,
	})
}

func TestIngestScanReportsResult(t *testing.T) {
	ctx := context.Background()
	m, err := New(ctx, testOptions(t), testAffine(), golog.NewTestLogger(t), clock.NewMock())
	test.That(t, err, test.ShouldBeNil)

	cloud := []r3.Vector{{X: 0, Y: 0, Z: 1.0}, {X: 0, Y: 0, Z: 3.0}, {X: 50, Y: 50, Z: 2.0}}
	res, err := m.IngestScan(ctx, cloud, centerTransform())
	test.That(t, err, test.ShouldBeNil)
	test.That(t, res.Ingested, test.ShouldEqual, 2)
	test.That(t, res.DroppedOutside, test.ShouldEqual, 1)
	test.That(t, res.CellsTouched, test.ShouldEqual, 1)
	test.That(t, res.Slid, test.ShouldBeFalse)
	test.That(t, res.TileIOErr, test.ShouldBeNil)

	c, ok := m.Window().CellAt(4.5, 4.5)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, c.NPoints, test.ShouldEqual, uint64(2))
	test.That(t, c.ZMean, test.ShouldEqual, 2.0)
}

func TestInvalidConfigRejected(t *testing.T) {
	ctx := context.Background()
	_, err := New(ctx, demconfig.Options{}, testAffine(), golog.NewTestLogger(t), clock.NewMock())
	test.That(t, err, test.ShouldNotBeNil)
}

func TestCheckpointRoundTrip(t *testing.T) {
	ctx := context.Background()
	opts := testOptions(t)
	logger := golog.NewTestLogger(t)

	m1, err := New(ctx, opts, testAffine(), logger, clock.NewMock())
	test.That(t, err, test.ShouldBeNil)

	cloud := []r3.Vector{{X: 0, Y: 0, Z: 1.0}, {X: 0, Y: 0, Z: 3.0}, {X: 0, Y: 0, Z: 2.0}}
	_, err = m1.IngestScan(ctx, cloud, centerTransform())
	test.That(t, err, test.ShouldBeNil)
	test.That(t, m1.Window().Dirty, test.ShouldBeTrue)

	test.That(t, m1.Checkpoint(ctx), test.ShouldBeNil)
	test.That(t, m1.Window().Dirty, test.ShouldBeFalse)

	// A fresh mapper over the same tile directory reconstructs the
	// persisted state.
	m2, err := New(ctx, opts, testAffine(), logger, clock.NewMock())
	test.That(t, err, test.ShouldBeNil)

	c1, ok := m1.Window().CellAt(4.5, 4.5)
	test.That(t, ok, test.ShouldBeTrue)
	c2, ok := m2.Window().CellAt(4.5, 4.5)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, c2.NPoints, test.ShouldEqual, c1.NPoints)
	test.That(t, c2.ZMin, test.ShouldEqual, c1.ZMin)
	test.That(t, c2.ZMax, test.ShouldEqual, c1.ZMax)
	test.That(t, c2.ZMean, test.ShouldEqual, c1.ZMean)
	test.That(t, c2.Variance(), test.ShouldEqual, c1.Variance())
}

func TestIngestCancelledBeforeAggregation(t *testing.T) {
	ctx := context.Background()
	m, err := New(ctx, testOptions(t), testAffine(), golog.NewTestLogger(t), clock.NewMock())
	test.That(t, err, test.ShouldBeNil)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = m.IngestScan(cancelled, []r3.Vector{{X: 0, Y: 0, Z: 1.0}}, centerTransform())
	test.That(t, err, test.ShouldNotBeNil)
	for i := range m.Window().Cells {
		test.That(t, m.Window().Cells[i].Empty(), test.ShouldBeTrue)
	}
}
