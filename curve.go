package lbvh

import (
	"fmt"
	"math"

	"github.com/bmharper/lbvh-go/internal/parallel"
)

// Curve selects the space filling curve leaves are ordered along.
type Curve int

const (
	// CurveMorton interleaves 32/D bits per axis. Works for 1, 2 and 3 dimensions.
	CurveMorton Curve = iota
	// CurveHilbert uses a 16 bit per axis Hilbert curve. 2D only.
	CurveHilbert
)

func (c Curve) String() string {
	switch c {
	case CurveMorton:
		return "morton"
	case CurveHilbert:
		return "hilbert"
	}
	return fmt.Sprintf("Curve(%d)", int(c))
}

// extents narrower than this are treated as degenerate
const degenerateExtent = 1e-8

// normalizer maps a point into the unit cube of the global bounds.
type normalizer struct {
	dims   int
	origin [3]float64
	inv    [3]float64
}

func newNormalizer[T Float, P Coords[T]](bounds Box[T, P]) normalizer {
	n := normalizer{dims: bounds.Dims()}
	for i := 0; i < n.dims; i++ {
		lo, hi := float64(bounds.Min[i]), float64(bounds.Max[i])
		n.origin[i] = lo
		if ext := hi - lo; math.Abs(ext) > degenerateExtent {
			n.inv[i] = 1 / ext
		}
		// a flat axis keeps inv == 0, so every point lands on coordinate 0
	}
	return n
}

func (n *normalizer) unit(c *[3]float64) {
	for i := 0; i < n.dims; i++ {
		c[i] = (c[i] - n.origin[i]) * n.inv[i]
	}
}

// quantize scales a unit coordinate to [0, 2^bits-1]. Values on or past the
// boundary are clamped rather than wrapped.
func quantize(u float64, bits int) uint32 {
	if math.IsNaN(u) {
		return 0
	}
	scale := float64(uint64(1) << bits)
	return uint32(min(max(u*scale, 0), scale-1))
}

// mortonEncode interleaves the quantized axes of a unit cube point. Axis 0
// holds the lowest bit of every group.
func mortonEncode(u [3]float64, dims int) uint32 {
	bits := 32 / dims
	switch dims {
	case 1:
		return quantize(u[0], bits)
	case 2:
		return interleave(quantize(u[0], bits)) | interleave(quantize(u[1], bits))<<1
	case 3:
		return expand3(quantize(u[0], bits)) | expand3(quantize(u[1], bits))<<1 | expand3(quantize(u[2], bits))<<2
	}
	panic(fmt.Sprintf("lbvh: morton codes need 1 to 3 dimensions, got %d", dims))
}

func hilbertEncode(u [3]float64) uint32 {
	return hilbertXYToIndex(16, quantize(u[0], 16), quantize(u[1], 16))
}

// spatialCodes computes the curve code of every box centroid, normalized into
// bounds.
func spatialCodes[T Float, P Coords[T]](e parallel.Executor, boxes []Box[T, P], bounds Box[T, P], curve Curve, codes []uint32) {
	norm := newNormalizer(bounds)
	e.For(len(boxes), func(start, end int) {
		var u [3]float64
		for i := start; i < end; i++ {
			c := boxes[i].Centroid()
			for k := 0; k < norm.dims; k++ {
				u[k] = float64(c[k])
			}
			norm.unit(&u)
			if curve == CurveHilbert {
				codes[i] = hilbertEncode(u)
			} else {
				codes[i] = mortonEncode(u, norm.dims)
			}
		}
	})
}

// expand3 spreads the low 10 bits of v so there are two zero bits between each.
func expand3(v uint32) uint32 {
	v &= 0x3FF
	v = (v | (v << 16)) & 0x030000FF
	v = (v | (v << 8)) & 0x0300F00F
	v = (v | (v << 4)) & 0x030C30C3
	v = (v | (v << 2)) & 0x09249249
	return v
}

// interleave spreads the low 16 bits of v so there is a zero bit between each.
// From https://github.com/rawrunprotected/hilbert_curves (public domain)
func interleave(x uint32) uint32 {
	x &= 0xFFFF
	x = (x | (x << 8)) & 0x00FF00FF
	x = (x | (x << 4)) & 0x0F0F0F0F
	x = (x | (x << 2)) & 0x33333333
	x = (x | (x << 1)) & 0x55555555
	return x
}

func hilbertXYToIndex(n uint32, x uint32, y uint32) uint32 {
	x = x << (16 - n)
	y = y << (16 - n)

	var A, B, C, D uint32

	// Initial prefix scan round, prime with x and y
	{
		a := x ^ y
		b := 0xFFFF ^ a
		c := 0xFFFF ^ (x | y)
		d := x & (y ^ 0xFFFF)

		A = a | (b >> 1)
		B = (a >> 1) ^ a

		C = ((c >> 1) ^ (b & (d >> 1))) ^ c
		D = ((a & (c >> 1)) ^ (d >> 1)) ^ d
	}

	for _, shift := range [2]uint32{2, 4} {
		a, b, c, d := A, B, C, D

		A = (a & (a >> shift)) ^ (b & (b >> shift))
		B = (a & (b >> shift)) ^ (b & ((a ^ b) >> shift))

		C ^= (a & (c >> shift)) ^ (b & (d >> shift))
		D ^= (b & (c >> shift)) ^ ((a ^ b) & (d >> shift))
	}

	// Final round and projection
	{
		a, b, c, d := A, B, C, D

		C ^= (a & (c >> 8)) ^ (b & (d >> 8))
		D ^= (b & (c >> 8)) ^ ((a ^ b) & (d >> 8))
	}

	// Undo transformation prefix scan
	a := C ^ (C >> 1)
	b := D ^ (D >> 1)

	// Recover index bits
	i0 := x ^ y
	i1 := b | (0xFFFF ^ (i0 | a))

	return ((interleave(i1) << 1) | interleave(i0)) >> (32 - 2*n)
}
