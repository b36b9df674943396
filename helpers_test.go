package lbvh

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func randomBoxes[T Float, P Coords[T]](rng *rand.Rand, n int, extent T) []Box[T, P] {
	boxes := make([]Box[T, P], n)
	for i := range boxes {
		var lo, hi P
		for k := 0; k < len(lo); k++ {
			lo[k] = T(rng.Float64()) * extent
			hi[k] = lo[k] + T(rng.Float64())
		}
		boxes[i] = Box[T, P]{Min: lo, Max: hi}
	}
	return boxes
}

// buildConfigs covers every execution back-end and sort strategy.
func buildConfigs(t *testing.T) map[string][]Option {
	pool := NewPool(4)
	t.Cleanup(pool.Close)
	return map[string][]Option{
		"sequential":        {WithWorkers(1)},
		"sequential-stable": {WithWorkers(1), WithSort(SortStable)},
		"pool":              {WithWorkers(4)},
		"pool-stable":       {WithWorkers(4), WithSort(SortStable)},
		"shared-pool":       {WithExecutor(pool)},
		"executor":          {WithExecutor(Sequential{}), WithWorkers(8)},
	}
}

// checkTree validates topology, ordering and boxes of a built tree. leaves are
// the boxes as inserted (after scaling), in original order.
func checkTree[T Float, P Coords[T]](t *testing.T, tree *RadixTree[T, P], leaves []Box[T, P]) {
	t.Helper()
	n := len(leaves)
	inner := n - 1
	require.Equal(t, n, tree.Size())
	require.Equal(t, inner, tree.InnerSize())
	require.Equal(t, 2*n-1, tree.NumNodes())
	require.Len(t, tree.Parents(), 2*n-1)
	require.Len(t, tree.LeftChildren(), inner)
	require.Len(t, tree.RightChildren(), inner)
	require.Len(t, tree.InnerBoxes(), inner)
	require.Len(t, tree.LeafBoxes(), n)
	require.Len(t, tree.Codes(), n)

	// leafs is a permutation, and un-permuting the sorted leaves gives the input back
	seen := make([]bool, n)
	for k, orig := range tree.Leafs() {
		require.False(t, seen[orig], "original index %d appears twice", orig)
		seen[orig] = true
		require.True(t, tree.LeafBoxes()[k].Equal(leaves[orig]), "leaf %d", k)
		require.Equal(t, int(orig), tree.LeafIndex(inner+k))
	}

	// codes ascending, equal codes keep insertion order
	codes := tree.Codes()
	for k := 1; k < n; k++ {
		require.LessOrEqual(t, codes[k-1], codes[k])
		if codes[k-1] == codes[k] {
			require.Less(t, tree.Leafs()[k-1], tree.Leafs()[k])
		}
	}

	// only the root lacks a parent, and every parent lists its child
	require.Equal(t, -1, tree.Parent(tree.Root()))
	for node := 1; node < 2*n-1; node++ {
		p := tree.Parent(node)
		require.True(t, p >= 0 && p < inner, "node %d has parent %d", node, p)
		l, r := tree.Children(p)
		require.True(t, l == node || r == node, "node %d not a child of %d", node, p)
	}

	// a walk from the root reaches every node exactly once
	visits := make([]int, 2*n-1)
	stack := []int{tree.Root()}
	for len(stack) != 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		visits[node]++
		if !tree.IsLeaf(node) {
			l, r := tree.Children(node)
			require.NotEqual(t, l, r)
			stack = append(stack, l, r)
		}
	}
	for node, v := range visits {
		require.Equal(t, 1, v, "node %d", node)
	}

	// every inner box is exactly the union of its children
	for node := 0; node < inner; node++ {
		l, r := tree.Children(node)
		require.True(t, tree.NodeBox(node).Equal(tree.NodeBox(l).Union(tree.NodeBox(r))), "node %d", node)
	}
	require.True(t, tree.NodeBox(tree.Root()).Equal(tree.Bounds()))
}
