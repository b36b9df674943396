package lbvh

import (
	"math/bits"

	"github.com/bmharper/lbvh-go/internal/parallel"
)

// delta is the length of the common prefix of the codes at sorted positions
// a and b. Equal codes fall back to the prefix of the positions themselves,
// offset by 32, so every pair of leaves differs. b outside [0, inner] gives -1,
// which is shorter than any real prefix.
func delta(a, b, inner int32, codes []uint32) int32 {
	if b < 0 || b > inner {
		return -1
	}
	x := codes[a] ^ codes[b]
	if x == 0 {
		return int32(bits.LeadingZeros32(uint32(a)^uint32(b))) + 32
	}
	return int32(bits.LeadingZeros32(x))
}

// buildTopology assigns parents and children for every inner node, following
// Karras, "Maximizing Parallelism in the Construction of BVHs, Octrees, and
// k-d Trees" (HPG 2012). Each inner node reads only the sorted codes, so the
// nodes are independent and the result does not depend on scheduling.
func buildTopology[T Float, P Coords[T]](e parallel.Executor, t *RadixTree[T, P]) {
	inner := int32(t.innerSize)
	codes := t.codes
	parents := t.parents
	left := t.leftChildren
	right := t.rightChildren

	if inner == 0 {
		parents[0] = -1
		return
	}

	e.ForEach(t.innerSize, func(n int) {
		i := int32(n)

		// direction of the range
		d := int32(1)
		if delta(i, i+1, inner, codes)-delta(i, i-1, inner, codes) < 0 {
			d = -1
		}

		// upper bound for the length of the range
		minDelta := delta(i, i-d, inner, codes)
		lmax := int32(2)
		for delta(i, i+lmax*d, inner, codes) > minDelta {
			lmax *= 2
		}

		// exact length by binary search
		l := int32(0)
		for step := lmax / 2; step >= 1; step /= 2 {
			if delta(i, i+(l+step)*d, inner, codes) > minDelta {
				l += step
			}
		}
		j := i + l*d

		// split position by binary search
		nodeDelta := delta(i, j, inner, codes)
		s := int32(0)
		for div := int32(2); ; div *= 2 {
			step := (l + div - 1) / div
			if delta(i, i+(s+step)*d, inner, codes) > nodeDelta {
				s += step
			}
			if step <= 1 {
				break
			}
		}
		split := i + s*d + min(d, 0)

		if min(i, j) == split {
			parents[split+inner] = i
			left[i] = split + inner
		} else {
			parents[split] = i
			left[i] = split
		}

		if max(i, j) == split+1 {
			parents[split+inner+1] = i
			right[i] = split + inner + 1
		} else {
			parents[split+1] = i
			right[i] = split + 1
		}

		if i == 0 {
			parents[0] = -1
		}
	})
}
