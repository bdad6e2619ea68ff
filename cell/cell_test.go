package cell

import (
	"math"
	"math/rand"
	"testing"

	"go.viam.com/test"
)

func TestAddSampleBasic(t *testing.T) {
	var c Cell
	test.That(t, c.Empty(), test.ShouldBeTrue)

	AddSample(&c, 1.0)
	AddSample(&c, 3.0)
	AddSample(&c, 2.0)

	test.That(t, c.NPoints, test.ShouldEqual, uint64(3))
	test.That(t, c.ZMin, test.ShouldEqual, 1.0)
	test.That(t, c.ZMax, test.ShouldEqual, 3.0)
	test.That(t, c.ZMean, test.ShouldEqual, 2.0)
	test.That(t, c.Variance(), test.ShouldEqual, 1.0)
}

func TestAddSampleOrderInvariance(t *testing.T) {
	zs := []float64{1.1, 4.4, -2.2, 9.9, 0.0, 3.3, -5.5}

	var a Cell
	for _, z := range zs {
		AddSample(&a, z)
	}

	perm := []float64{9.9, -5.5, 0.0, 4.4, 3.3, 1.1, -2.2}
	var b Cell
	for _, z := range perm {
		AddSample(&b, z)
	}

	test.That(t, a.NPoints, test.ShouldEqual, b.NPoints)
	test.That(t, a.ZMin, test.ShouldEqual, b.ZMin)
	test.That(t, a.ZMax, test.ShouldEqual, b.ZMax)
	test.That(t, math.Abs(a.ZMean-b.ZMean), test.ShouldBeLessThan, 1e-9)
	test.That(t, math.Abs(a.M2-b.M2), test.ShouldBeLessThan, 1e-9)
}

func TestMergeCellsEmpty(t *testing.T) {
	var dst Cell
	src := Cell{NPoints: 2, ZMin: 1, ZMax: 3, ZMean: 2, M2: 2}
	MergeCells(&dst, src)
	test.That(t, dst, test.ShouldResemble, src)

	var noop Cell
	MergeCells(&dst, noop)
	test.That(t, dst, test.ShouldResemble, src)
}

func TestMergeCellsAssociative(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	build := func(n int) Cell {
		var c Cell
		for i := 0; i < n; i++ {
			AddSample(&c, rng.NormFloat64()*10)
		}
		return c
	}

	a, b, c := build(7), build(11), build(5)

	ab := a
	MergeCells(&ab, b)
	abc1 := ab
	MergeCells(&abc1, c)

	bc := b
	MergeCells(&bc, c)
	abc2 := a
	MergeCells(&abc2, bc)

	test.That(t, abc1.NPoints, test.ShouldEqual, abc2.NPoints)
	test.That(t, math.Abs(abc1.ZMean-abc2.ZMean), test.ShouldBeLessThan, 1e-9)
	test.That(t, math.Abs(abc1.M2-abc2.M2), test.ShouldBeLessThan, 1e-6)
}

func TestIsVertical(t *testing.T) {
	flat := Cell{NPoints: 10, M2: 0.001}
	vertical := Cell{NPoints: 10, M2: 50}

	test.That(t, IsVertical(flat, 1.0), test.ShouldBeFalse)
	test.That(t, IsVertical(vertical, 1.0), test.ShouldBeTrue)
}
