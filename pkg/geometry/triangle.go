package geometry

import "math"

// Triangle represents a triangular facet in 3D space
type Triangle struct {
	V1, V2, V3 Vector3
}

// NewTriangle creates a new triangle
func NewTriangle(v1, v2, v3 Vector3) Triangle {
	return Triangle{
		V1: v1,
		V2: v2,
		V3: v3,
	}
}

// Vertex returns the corner selected by i (0, 1 or 2)
func (t Triangle) Vertex(i int) Vector3 {
	switch i {
	case 0:
		return t.V1
	case 1:
		return t.V2
	default:
		return t.V3
	}
}

// CrossNormal returns the unnormalized normal (V1-V2) x (V2-V3).
// Its length is twice the triangle area.
func (t Triangle) CrossNormal() Vector3 {
	return t.V1.Sub(t.V2).Cross(t.V2.Sub(t.V3))
}

// CalculateNormal computes the unit normal vector for the triangle
func (t Triangle) CalculateNormal() Vector3 {
	edge1 := t.V2.Sub(t.V1)
	edge2 := t.V3.Sub(t.V1)
	return edge1.Cross(edge2).Normalize()
}

// Area returns the surface area of the triangle
func (t Triangle) Area() float64 {
	edge1 := t.V2.Sub(t.V1)
	edge2 := t.V3.Sub(t.V1)
	cross := edge1.Cross(edge2)
	return cross.Length() / 2.0
}

// EdgeLengths returns the lengths of all three edges
func (t Triangle) EdgeLengths() [3]float64 {
	return [3]float64{
		t.V1.Distance(t.V2),
		t.V2.Distance(t.V3),
		t.V3.Distance(t.V1),
	}
}

// Perimeter returns the total length of all edges
func (t Triangle) Perimeter() float64 {
	lengths := t.EdgeLengths()
	return lengths[0] + lengths[1] + lengths[2]
}

// Center returns the centroid of the triangle
func (t Triangle) Center() Vector3 {
	return Vector3{
		X: (t.V1.X + t.V2.X + t.V3.X) / 3.0,
		Y: (t.V1.Y + t.V2.Y + t.V3.Y) / 3.0,
		Z: (t.V1.Z + t.V2.Z + t.V3.Z) / 3.0,
	}
}

// IsDegenerate reports whether any edge has zero length
func (t Triangle) IsDegenerate() bool {
	return t.V1 == t.V2 || t.V2 == t.V3 || t.V3 == t.V1
}

// Angles returns the three interior angles in radians.
// A corner touching a zero-length edge reports an angle of zero.
func (t Triangle) Angles() [3]float64 {
	return [3]float64{
		cornerAngle(t.V1, t.V2, t.V3),
		cornerAngle(t.V2, t.V3, t.V1),
		cornerAngle(t.V3, t.V1, t.V2),
	}
}

// CornerAngle returns the angle at p0 between the edges towards p1 and p2
func CornerAngle(p0, p1, p2 Vector3) float64 {
	return cornerAngle(p0, p1, p2)
}

func cornerAngle(p0, p1, p2 Vector3) float64 {
	a := p1.Sub(p0)
	b := p2.Sub(p0)
	denom := a.Length() * b.Length()
	if denom == 0 {
		return 0
	}
	c := a.Dot(b) / denom
	return math.Acos(math.Max(-1, math.Min(1, c)))
}
