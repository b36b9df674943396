package lbvh

import "math"

// Float is the coordinate type of a box.
type Float interface {
	~float32 | ~float64
}

// Coords is a point with a fixed number of dimensions. The dimension is part
// of the type, so a tree over [3]float64 points can never receive a 2D box.
type Coords[T Float] interface {
	~[1]T | ~[2]T | ~[3]T
}

// Box is an axis aligned bounding box.
type Box[T Float, P Coords[T]] struct {
	Min P
	Max P
}

// Common instantiations.
type (
	Point2  = [2]float64
	Point3  = [3]float64
	Point3f = [3]float32
	Box2    = Box[float64, Point2]
	Box3    = Box[float64, Point3]
	Box3f   = Box[float32, Point3f]
)

// InvertedBox returns the empty box (min=+Inf, max=-Inf). Adding any box to
// it yields that box.
func InvertedBox[T Float, P Coords[T]]() Box[T, P] {
	var b Box[T, P]
	for i := 0; i < len(b.Min); i++ {
		b.Min[i] = T(math.Inf(1))
		b.Max[i] = T(math.Inf(-1))
	}
	return b
}

// Dims returns the number of dimensions.
func (b Box[T, P]) Dims() int {
	return len(b.Min)
}

// IsValid reports whether min <= max on every axis.
func (b Box[T, P]) IsValid() bool {
	for i := 0; i < len(b.Min); i++ {
		if !(b.Min[i] <= b.Max[i]) {
			return false
		}
	}
	return true
}

// isInverted reports whether any axis still carries the empty sentinel.
func (b *Box[T, P]) isInverted() bool {
	inf := T(math.Inf(1))
	for i := 0; i < len(b.Min); i++ {
		if b.Min[i] == inf || b.Max[i] == -inf {
			return true
		}
	}
	return false
}

// Union returns the smallest box enclosing both a and b.
func (a Box[T, P]) Union(b Box[T, P]) Box[T, P] {
	for i := 0; i < len(a.Min); i++ {
		a.Min[i] = min(a.Min[i], b.Min[i])
		a.Max[i] = max(a.Max[i], b.Max[i])
	}
	return a
}

// AddPoint grows the box to include p.
func (a Box[T, P]) AddPoint(p P) Box[T, P] {
	for i := 0; i < len(a.Min); i++ {
		a.Min[i] = min(a.Min[i], p[i])
		a.Max[i] = max(a.Max[i], p[i])
	}
	return a
}

func (b Box[T, P]) Centroid() P {
	var c P
	for i := 0; i < len(c); i++ {
		c[i] = (b.Min[i] + b.Max[i]) / 2
	}
	return c
}

// Scale grows (or shrinks) the box about its centroid by |s|. The empty box
// stays empty.
func (b Box[T, P]) Scale(s T) Box[T, P] {
	if !b.IsValid() {
		return b
	}
	if s < 0 {
		s = -s
	}
	c := b.Centroid()
	for i := 0; i < len(c); i++ {
		r := (b.Max[i] - c[i]) * s
		b.Min[i] = c[i] - r
		b.Max[i] = c[i] + r
	}
	return b
}

// Intersects reports whether a and b overlap, touching included.
func (a Box[T, P]) Intersects(b Box[T, P]) bool {
	for i := 0; i < len(a.Min); i++ {
		if b.Max[i] < a.Min[i] || b.Min[i] > a.Max[i] {
			return false
		}
	}
	return true
}

func (b Box[T, P]) Contains(p P) bool {
	for i := 0; i < len(p); i++ {
		if p[i] < b.Min[i] || p[i] > b.Max[i] {
			return false
		}
	}
	return true
}

// SquaredDistance is the squared euclidean distance from p to the closest
// point of the box. Zero when p is inside.
func (b Box[T, P]) SquaredDistance(p P) T {
	var d2 T
	for i := 0; i < len(p); i++ {
		d := max(b.Min[i]-p[i], 0, p[i]-b.Max[i])
		d2 += d * d
	}
	return d2
}

func (a Box[T, P]) Equal(b Box[T, P]) bool {
	for i := 0; i < len(a.Min); i++ {
		if a.Min[i] != b.Min[i] || a.Max[i] != b.Max[i] {
			return false
		}
	}
	return true
}
