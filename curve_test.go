package lbvh

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bmharper/lbvh-go/internal/parallel"
)

func TestMortonBitLayout(t *testing.T) {
	step3 := 1.0 / 1024
	require.Equal(t, uint32(0), mortonEncode([3]float64{0, 0, 0}, 3))
	require.Equal(t, uint32(1), mortonEncode([3]float64{step3, 0, 0}, 3))
	require.Equal(t, uint32(2), mortonEncode([3]float64{0, step3, 0}, 3))
	require.Equal(t, uint32(4), mortonEncode([3]float64{0, 0, step3}, 3))
	require.Equal(t, uint32(0x3FFFFFFF), mortonEncode([3]float64{1, 1, 1}, 3))

	step2 := 1.0 / 65536
	require.Equal(t, uint32(1), mortonEncode([3]float64{step2, 0}, 2))
	require.Equal(t, uint32(2), mortonEncode([3]float64{0, step2}, 2))
	require.Equal(t, uint32(math.MaxUint32), mortonEncode([3]float64{1, 1}, 2))

	require.Equal(t, uint32(1<<31), mortonEncode([3]float64{0.5}, 1))
	require.Equal(t, uint32(math.MaxUint32), mortonEncode([3]float64{1}, 1))
}

func TestMortonClamps(t *testing.T) {
	for dims := 1; dims <= 3; dims++ {
		top := mortonEncode([3]float64{1, 1, 1}, dims)
		require.Equal(t, top, mortonEncode([3]float64{1.5, 2, 1e30}, dims))
		require.Equal(t, top, mortonEncode([3]float64{math.Nextafter(1, 2), 1, 1}, dims))
		require.Equal(t, uint32(0), mortonEncode([3]float64{-0.5, -1e-9, math.Inf(-1)}, dims))
		require.Equal(t, uint32(0), mortonEncode([3]float64{math.NaN(), math.NaN(), math.NaN()}, dims))
	}
	require.Panics(t, func() { mortonEncode([3]float64{}, 4) })
}

func TestMortonPreservesOctantOrder(t *testing.T) {
	// a point in a higher octant always sorts after every point in a lower one
	lo := mortonEncode([3]float64{0.49, 0.49, 0.49}, 3)
	hi := mortonEncode([3]float64{0.51, 0, 0}, 3)
	require.Less(t, lo, hi)
}

func TestExpandBits(t *testing.T) {
	require.Equal(t, uint32(0x09249249), expand3(0x3FF))
	require.Equal(t, uint32(0x09249249), expand3(0xFFFF), "only 10 bits are used")
	require.Equal(t, uint32(0x55555555), interleave(0xFFFF))
	require.Equal(t, uint32(0x55555555), interleave(0xFFFFFFFF), "only 16 bits are used")
	require.Equal(t, uint32(0b1000001), expand3(0b101))
	require.Equal(t, uint32(0b10001), interleave(0b101))
}

func TestHilbertIsContinuous(t *testing.T) {
	// every cell of an order 4 grid gets a unique index, and consecutive
	// indices are edge neighbours
	const side = 16
	cells := make([][2]int, side*side)
	seen := make([]bool, side*side)
	for x := 0; x < side; x++ {
		for y := 0; y < side; y++ {
			h := hilbertXYToIndex(4, uint32(x), uint32(y))
			require.Less(t, h, uint32(side*side))
			require.False(t, seen[h])
			seen[h] = true
			cells[h] = [2]int{x, y}
		}
	}
	for h := 1; h < len(cells); h++ {
		dx := cells[h][0] - cells[h-1][0]
		dy := cells[h][1] - cells[h-1][1]
		require.Equal(t, 1, dx*dx+dy*dy, "step %d", h)
	}
}

func TestNormalizerDegenerateAxis(t *testing.T) {
	bounds := Box3{Min: Point3{0, 5, -2}, Max: Point3{10, 5, 2}}
	n := newNormalizer(bounds)
	require.Equal(t, [3]float64{0.1, 0, 0.25}, n.inv)

	u := [3]float64{5, 5, 0}
	n.unit(&u)
	require.Equal(t, [3]float64{0.5, 0, 0.5}, u)
}

func TestSpatialCodes(t *testing.T) {
	boxes := []Box2{
		{Min: Point2{0, 0}, Max: Point2{0, 0}},
		{Min: Point2{10, 10}, Max: Point2{10, 10}},
		{Min: Point2{4, 6}, Max: Point2{6, 6}},
	}
	bounds := Box2{Min: Point2{0, 0}, Max: Point2{10, 10}}
	codes := make([]uint32, len(boxes))

	spatialCodes(parallel.Sequential{}, boxes, bounds, CurveMorton, codes)
	require.Equal(t, uint32(0), codes[0])
	require.Equal(t, uint32(math.MaxUint32), codes[1])
	require.Equal(t, mortonEncode([3]float64{0.5, 0.6}, 2), codes[2])

	spatialCodes(parallel.Sequential{}, boxes, bounds, CurveHilbert, codes)
	require.Equal(t, hilbertEncode([3]float64{0, 0}), codes[0])
	require.Equal(t, hilbertEncode([3]float64{0.5, 0.6}), codes[2])
}

func TestCurveStrings(t *testing.T) {
	require.Equal(t, "morton", CurveMorton.String())
	require.Equal(t, "hilbert", CurveHilbert.String())
	require.Equal(t, "Curve(7)", Curve(7).String())
	require.Equal(t, "radix", SortRadix.String())
	require.Equal(t, "stable", SortStable.String())
}
