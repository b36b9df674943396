package lbvh

// RadixTree is a binary BVH over n boxes, built once by Build and read-only
// afterwards.
//
// Nodes are addressed by index. Inner nodes occupy [0, n-1) and leaves
// occupy [n-1, 2n-1); node 0 is the root. A tree over a single box has no
// inner nodes and its root is the only leaf. Leaves are stored in curve
// order; Leafs maps a sorted leaf position back to the index of the box in
// the slice passed to Build.
//
// The slices returned by the accessors alias the tree's storage and must not
// be modified.
type RadixTree[T Float, P Coords[T]] struct {
	size      int
	innerSize int
	bounds    Box[T, P]

	leafBoxes     []Box[T, P]
	innerBoxes    []Box[T, P]
	parents       []int32
	leftChildren  []int32
	rightChildren []int32
	leafs         []int32
	codes         []uint32
}

// newRadixTree sizes every array up front; nothing grows during the build.
func newRadixTree[T Float, P Coords[T]](size int) *RadixTree[T, P] {
	inner := size - 1
	return &RadixTree[T, P]{
		size:          size,
		innerSize:     inner,
		bounds:        InvertedBox[T, P](),
		leafBoxes:     make([]Box[T, P], size),
		innerBoxes:    make([]Box[T, P], inner),
		parents:       make([]int32, size+inner),
		leftChildren:  make([]int32, inner),
		rightChildren: make([]int32, inner),
		leafs:         make([]int32, size),
		codes:         make([]uint32, size),
	}
}

// Size is the number of leaves.
func (t *RadixTree[T, P]) Size() int { return t.size }

// InnerSize is the number of inner nodes, Size()-1.
func (t *RadixTree[T, P]) InnerSize() int { return t.innerSize }

// NumNodes is InnerSize()+Size().
func (t *RadixTree[T, P]) NumNodes() int { return t.innerSize + t.size }

// Bounds is the box enclosing every (scaled) input box.
func (t *RadixTree[T, P]) Bounds() Box[T, P] { return t.bounds }

// Root returns the root node index.
func (t *RadixTree[T, P]) Root() int { return 0 }

func (t *RadixTree[T, P]) IsLeaf(node int) bool { return node >= t.innerSize }

// NodeBox returns the box of an inner node or a leaf.
func (t *RadixTree[T, P]) NodeBox(node int) Box[T, P] {
	if node >= t.innerSize {
		return t.leafBoxes[node-t.innerSize]
	}
	return t.innerBoxes[node]
}

// Parent returns the parent of node, or -1 for the root.
func (t *RadixTree[T, P]) Parent(node int) int { return int(t.parents[node]) }

// Children returns the two children of an inner node.
func (t *RadixTree[T, P]) Children(node int) (left, right int) {
	return int(t.leftChildren[node]), int(t.rightChildren[node])
}

// LeafIndex returns the original box index held by a leaf node.
func (t *RadixTree[T, P]) LeafIndex(node int) int {
	return int(t.leafs[node-t.innerSize])
}

// LeafBoxes are the leaf boxes in sorted order.
func (t *RadixTree[T, P]) LeafBoxes() []Box[T, P] { return t.leafBoxes }

func (t *RadixTree[T, P]) InnerBoxes() []Box[T, P] { return t.innerBoxes }

// Parents is indexed by node; the root holds -1.
func (t *RadixTree[T, P]) Parents() []int32 { return t.parents }

func (t *RadixTree[T, P]) LeftChildren() []int32 { return t.leftChildren }

func (t *RadixTree[T, P]) RightChildren() []int32 { return t.rightChildren }

// Leafs maps sorted leaf position to original box index.
func (t *RadixTree[T, P]) Leafs() []int32 { return t.leafs }

// Codes are the sorted curve codes, one per leaf.
func (t *RadixTree[T, P]) Codes() []uint32 { return t.codes }
