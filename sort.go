package lbvh

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/bmharper/lbvh-go/internal/parallel"
)

// SortStrategy selects how leaves are sorted by code. Both produce the same
// permutation: ascending codes, equal codes in original order.
type SortStrategy int

const (
	// SortRadix is a parallel stable LSD radix sort of (code, index) pairs.
	SortRadix SortStrategy = iota
	// SortStable is a comparator based stable sort of the index array,
	// followed by a gather of the codes.
	SortStable
)

func (s SortStrategy) String() string {
	switch s {
	case SortRadix:
		return "radix"
	case SortStable:
		return "stable"
	}
	return fmt.Sprintf("SortStrategy(%d)", int(s))
}

// iotaFill writes 0, 1, 2, ... into iter.
func iotaFill(e parallel.Executor, iter []int32) {
	e.For(len(iter), func(start, end int) {
		for i := start; i < end; i++ {
			iter[i] = int32(i)
		}
	})
}

// sortCodes sorts codes and writes into iter the original position of every
// sorted code, so codes[k] == original[iter[k]]. The sorted codes are returned;
// they may or may not share storage with the input.
func sortCodes(e parallel.Executor, codes []uint32, iter []int32, strategy SortStrategy) []uint32 {
	if len(codes) != len(iter) {
		panic(fmt.Sprintf("lbvh: sortCodes got %d codes and %d indices", len(codes), len(iter)))
	}
	iotaFill(e, iter)
	switch strategy {
	case SortStable:
		slices.SortStableFunc(iter, func(a, b int32) int {
			return cmp.Compare(codes[a], codes[b])
		})
		return reorder(e, iter, codes)
	default:
		radixSortPairs(e, codes, iter)
		return codes
	}
}

// reorder gathers src into sorted order: out[i] = src[iter[i]].
//
//	src  [a,b,c]
//	iter [1,0,2]
//	out  [b,a,c]
func reorder[E any](e parallel.Executor, iter []int32, src []E) []E {
	out := make([]E, len(iter))
	e.For(len(iter), func(start, end int) {
		for i := start; i < end; i++ {
			out[i] = src[iter[i]]
		}
	})
	return out
}

const (
	radixBits    = 8
	radixBuckets = 1 << radixBits
)

// radixSortPairs sorts keys ascending and carries vals along. Each pass
// histograms every chunk, then scatters chunk by chunk in digit-major,
// chunk-minor order, which keeps the sort stable.
func radixSortPairs(e parallel.Executor, keys []uint32, vals []int32) {
	n := len(keys)
	if n < 2 {
		return
	}
	origKeys, origVals := keys, vals
	tmpKeys := make([]uint32, n)
	tmpVals := make([]int32, n)

	chunks, size := parallel.Chunks(e, n)
	hist := make([][radixBuckets]int, chunks)
	chunk := func(c int) (int, int) {
		start := c * size
		return start, min(start+size, n)
	}

	for shift := 0; shift < 32; shift += radixBits {
		e.ForEach(chunks, func(c int) {
			h := &hist[c]
			*h = [radixBuckets]int{}
			start, end := chunk(c)
			for i := start; i < end; i++ {
				h[(keys[i]>>shift)&(radixBuckets-1)]++
			}
		})

		// all keys share this digit: the pass would be the identity
		trivial := false
		sum := 0
		for d := 0; d < radixBuckets; d++ {
			total := 0
			for c := 0; c < chunks; c++ {
				cnt := hist[c][d]
				hist[c][d] = sum
				sum += cnt
				total += cnt
			}
			if total == n {
				trivial = true
			}
		}
		if trivial {
			continue
		}

		e.ForEach(chunks, func(c int) {
			off := &hist[c]
			start, end := chunk(c)
			for i := start; i < end; i++ {
				d := (keys[i] >> shift) & (radixBuckets - 1)
				dst := off[d]
				off[d]++
				tmpKeys[dst] = keys[i]
				tmpVals[dst] = vals[i]
			}
		})
		keys, tmpKeys = tmpKeys, keys
		vals, tmpVals = tmpVals, vals
	}

	if &keys[0] != &origKeys[0] {
		copy(origKeys, keys)
		copy(origVals, vals)
	}
}
