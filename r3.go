package lbvh

import "github.com/golang/geo/r3"

// PointFromR3 converts an r3 vector into a 3D point.
func PointFromR3(v r3.Vector) Point3 {
	return Point3{v.X, v.Y, v.Z}
}

// PointToR3 converts a 3D point into an r3 vector.
func PointToR3(p Point3) r3.Vector {
	return r3.Vector{X: p[0], Y: p[1], Z: p[2]}
}

// BoxFromR3 builds a box from two opposite corners given in any order.
func BoxFromR3(a, b r3.Vector) Box3 {
	return Box3{
		Min: PointFromR3(r3.Vector{X: min(a.X, b.X), Y: min(a.Y, b.Y), Z: min(a.Z, b.Z)}),
		Max: PointFromR3(r3.Vector{X: max(a.X, b.X), Y: max(a.Y, b.Y), Z: max(a.Z, b.Z)}),
	}
}

// BoxAroundR3 returns the box enclosing the given vectors, for example the
// vertices of a triangle. No vectors gives the empty box.
func BoxAroundR3(vs ...r3.Vector) Box3 {
	b := InvertedBox[float64, Point3]()
	for _, v := range vs {
		b = b.AddPoint(PointFromR3(v))
	}
	return b
}
