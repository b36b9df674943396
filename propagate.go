package lbvh

import (
	"fmt"
	"sync/atomic"

	"github.com/bmharper/lbvh-go/internal/parallel"
)

// propagateBoxes computes every inner box bottom-up in a single pass.
//
// One walk starts at every leaf and climbs towards the root. Each inner node
// has a counter that both of its children's walks increment. The first walk
// to arrive stops there; the second one unions its box with the sibling's,
// stores the result and keeps climbing. Every inner box is therefore written
// exactly once, by the second arrival, and the whole pass is O(n).
//
// A walk stores the box of its current node before incrementing the parent's
// counter. The atomic add that observes that increment is synchronized after
// it, so the sibling's box is always visible to the walk that reads it.
//
// Inner boxes start as the inverted sentinel. When verify is set no leaf
// carries an infinite sentinel coordinate, so no finished inner box can either,
// and reading a sentinel means the ordering above was broken.
func propagateBoxes[T Float, P Coords[T]](e parallel.Executor, t *RadixTree[T, P], verify bool) {
	inner := t.innerSize
	if inner == 0 {
		return
	}

	innerBoxes := t.innerBoxes
	leafBoxes := t.leafBoxes
	parents := t.parents
	left := t.leftChildren
	right := t.rightChildren

	e.For(inner, func(start, end int) {
		empty := InvertedBox[T, P]()
		for i := start; i < end; i++ {
			innerBoxes[i] = empty
		}
	})

	counters := make([]atomic.Int32, inner)

	e.ForEach(t.size, func(i int) {
		box := leafBoxes[i]
		last := int32(inner + i)
		current := parents[last]

		for current != -1 {
			switch counters[current].Add(1) {
			case 1:
				// first arrival, the sibling's walk finishes this node
				return
			case 2:
			default:
				panic(fmt.Sprintf("lbvh: inner node %d reached more than twice", current))
			}

			other := left[current]
			if other == last {
				other = right[current]
			}

			if int(other) >= inner {
				box = box.Union(leafBoxes[int(other)-inner])
			} else {
				sibling := innerBoxes[other]
				if verify && sibling.isInverted() {
					panic(fmt.Sprintf("lbvh: inner node %d read before it was stored", other))
				}
				box = box.Union(sibling)
			}

			innerBoxes[current] = box

			last = current
			current = parents[current]
		}
	})
}
