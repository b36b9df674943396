package lbvh

import (
	"golang.org/x/sys/cpu"

	"github.com/bmharper/lbvh-go/internal/parallel"
)

// transformBoxes copies boxes into dst, scaling each one about its centroid.
// The input is never reordered.
func transformBoxes[T Float, P Coords[T]](e parallel.Executor, boxes, dst []Box[T, P], scale T) {
	e.For(len(boxes), func(start, end int) {
		for i := start; i < end; i++ {
			if scale == 1 {
				dst[i] = boxes[i]
			} else {
				dst[i] = boxes[i].Scale(scale)
			}
		}
	})
}

// paddedBox keeps each partial result on its own cache line. Unpadded slots
// share lines between workers writing them on every element; see
// BenchmarkReduceBounds.
type paddedBox[T Float, P Coords[T]] struct {
	box      Box[T, P]
	inverted bool
	_        cpu.CacheLinePad
}

// reduceBounds returns the box enclosing every box, and whether any box
// carries an inverted (empty) coordinate. Each chunk folds into its own slot,
// and the slots are folded in chunk order, so the result does not depend on
// scheduling.
func reduceBounds[T Float, P Coords[T]](e parallel.Executor, boxes []Box[T, P]) (Box[T, P], bool) {
	n := len(boxes)
	chunks, size := parallel.Chunks(e, n)
	partial := make([]paddedBox[T, P], chunks)
	e.ForEach(chunks, func(c int) {
		start := c * size
		end := min(start+size, n)
		slot := &partial[c]
		slot.box = InvertedBox[T, P]()
		for i := start; i < end; i++ {
			slot.box = slot.box.Union(boxes[i])
			if boxes[i].isInverted() {
				slot.inverted = true
			}
		}
	})

	bounds := InvertedBox[T, P]()
	inverted := false
	for c := range partial {
		bounds = bounds.Union(partial[c].box)
		inverted = inverted || partial[c].inverted
	}
	return bounds, inverted
}
