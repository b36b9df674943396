package lbvh

import (
	"context"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Search returns the original indices of all boxes that overlap the query box.
func (t *RadixTree[T, P]) Search(query Box[T, P]) []int {
	results := []int{}
	return t.SearchFast(query, results)
}

// SearchFast accepts a 'results' as input. If you are performing millions of queries,
// then reusing a 'results' slice will reduce the number of allocations.
func (t *RadixTree[T, P]) SearchFast(query Box[T, P], results []int) []int {
	results = results[:0]
	if t == nil || t.size == 0 {
		return results
	}
	if t.innerSize == 0 {
		// single leaf, no traversal
		if t.leafBoxes[0].Intersects(query) {
			results = append(results, int(t.leafs[0]))
		}
		return results
	}

	stack := make([]int32, 0, 64)
	stack = append(stack, 0)
	inner := int32(t.innerSize)

	for len(stack) != 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if node >= inner {
			if t.leafBoxes[node-inner].Intersects(query) {
				results = append(results, int(t.leafs[node-inner]))
			}
			continue
		}
		if !t.innerBoxes[node].Intersects(query) {
			continue
		}
		stack = append(stack, t.rightChildren[node], t.leftChildren[node])
	}
	return results
}

// Candidate is the result of a closest box query.
type Candidate[T Float] struct {
	// Index of the closest box in the slice passed to Build, -1 if none.
	Index int
	// Dist2 is the squared distance from the query point to that box.
	Dist2 T
}

type closestEntry[T Float] struct {
	node  int32
	dist2 T
}

// Closest returns the box nearest to p, measured as the squared distance from
// p to the box (zero when p is inside). Ties go to the lowest original index.
// ok is false only for an empty tree. When every box is empty the result is the
// lowest index with Dist2 = +Inf.
func (t *RadixTree[T, P]) Closest(p P) (c Candidate[T], ok bool) {
	c = Candidate[T]{Index: -1, Dist2: T(math.Inf(1))}
	if t == nil || t.size == 0 {
		return c, false
	}
	if t.innerSize == 0 {
		c.Index = int(t.leafs[0])
		c.Dist2 = t.leafBoxes[0].SquaredDistance(p)
		return c, true
	}

	inner := int32(t.innerSize)
	stack := make([]closestEntry[T], 0, 64)
	stack = append(stack, closestEntry[T]{0, t.innerBoxes[0].SquaredDistance(p)})

	for len(stack) != 0 {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if e.dist2 > c.Dist2 {
			continue
		}

		if e.node >= inner {
			idx := int(t.leafs[e.node-inner])
			if c.Index == -1 || e.dist2 < c.Dist2 || (e.dist2 == c.Dist2 && idx < c.Index) {
				c.Index = idx
				c.Dist2 = e.dist2
			}
			continue
		}

		l, r := t.leftChildren[e.node], t.rightChildren[e.node]
		dl := t.NodeBox(int(l)).SquaredDistance(p)
		dr := t.NodeBox(int(r)).SquaredDistance(p)
		// push the farther child first so the nearer one is visited next
		if dl <= dr {
			stack = append(stack, closestEntry[T]{r, dr}, closestEntry[T]{l, dl})
		} else {
			stack = append(stack, closestEntry[T]{l, dl}, closestEntry[T]{r, dr})
		}
	}
	return c, true
}

const closestBatchSize = 256

// ClosestBatch runs Closest for every point, spreading the points over up to
// GOMAXPROCS goroutines. It stops early, returning ctx's error, if ctx is
// cancelled.
func (t *RadixTree[T, P]) ClosestBatch(ctx context.Context, points []P) ([]Candidate[T], error) {
	out := make([]Candidate[T], len(points))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for start := 0; start < len(points); start += closestBatchSize {
		start := start // per-iteration copy; go directive lowered to 1.21 for the local toolchain
		end := min(start+closestBatchSize, len(points))
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			for i := start; i < end; i++ {
				out[i], _ = t.Closest(points[i])
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
