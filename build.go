package lbvh

import (
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"
)

// maxBoxes keeps every node index, and the doubling range search over them,
// inside an int32.
const maxBoxes = math.MaxInt32 / 4

// Build constructs a radix tree over boxes. The slice is not modified; box i
// is reported as index i by queries.
//
// The pipeline runs as a sequence of stages, each a full barrier:
// copy and scale the boxes, reduce the global bounds, compute curve codes,
// sort the codes, gather the leaf boxes into sorted order, build the
// topology, and propagate the inner boxes bottom-up.
func Build[T Float, P Coords[T]](boxes []Box[T, P], opts ...Option) (*RadixTree[T, P], error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	n := len(boxes)
	if n == 0 {
		return nil, ErrNoBoxes
	}
	if n > maxBoxes {
		return nil, fmt.Errorf("%w: %d boxes, at most %d", ErrTooManyBoxes, n, maxBoxes)
	}
	if !(o.Scale > 0) || math.IsInf(o.Scale, 1) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScale, o.Scale)
	}
	dims := boxes[0].Dims()
	switch o.Curve {
	case CurveMorton:
	case CurveHilbert:
		if dims != 2 {
			return nil, fmt.Errorf("%w: %v needs 2 dimensions, got %d", ErrCurveDimension, o.Curve, dims)
		}
	default:
		return nil, fmt.Errorf("%w: %v", ErrCurveDimension, o.Curve)
	}
	if o.Sort != SortRadix && o.Sort != SortStable {
		return nil, fmt.Errorf("%w: %v", ErrUnknownSort, o.Sort)
	}

	exec, release := o.executor()
	defer release()

	log := o.Logger.With(zap.Int("size", n), zap.Int("dims", dims))
	stage := func(name string, fn func()) {
		start := time.Now()
		fn()
		log.Debug("lbvh stage", zap.String("stage", name), zap.Duration("elapsed", time.Since(start)))
	}

	begin := time.Now()
	t := newRadixTree[T, P](n)

	var inverted bool
	stage("transform_boxes", func() {
		transformBoxes(exec, boxes, t.leafBoxes, T(o.Scale))
	})
	stage("reduce", func() {
		t.bounds, inverted = reduceBounds(exec, t.leafBoxes)
	})
	stage("codes", func() {
		spatialCodes(exec, t.leafBoxes, t.bounds, o.Curve, t.codes)
	})
	stage("sort", func() {
		t.codes = sortCodes(exec, t.codes, t.leafs, o.Sort)
	})
	stage("reorder", func() {
		t.leafBoxes = reorder(exec, t.leafs, t.leafBoxes)
	})
	stage("build_tree", func() {
		buildTopology(exec, t)
	})
	stage("propagate", func() {
		propagateBoxes(exec, t, !inverted)
	})

	log.Debug("lbvh built",
		zap.Duration("elapsed", time.Since(begin)),
		zap.Int("workers", exec.Workers()),
		zap.Stringer("sort", o.Sort),
		zap.Stringer("curve", o.Curve),
		zap.Any("bounds", t.bounds))
	return t, nil
}
