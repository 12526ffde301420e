package trimesh

import (
	"math"

	"github.com/philipparndt/gotrimesh/internal/parallel"
	"github.com/philipparndt/gotrimesh/pkg/diag"
	"github.com/philipparndt/gotrimesh/pkg/geometry"
)

// NeedFaceAreas computes the area of every face
func (m *Mesh) NeedFaceAreas() {
	m.need(AttrFaceAreas, func() {
		m.NeedFaces()
		nf := len(m.faces)
		m.faceAreas = make([]float64, nf)
		parallel.Each(nf, m.opts.Workers, func(i int) {
			if m.faceOK(m.faces[i]) {
				m.faceAreas[i] = m.triangle(i).Area()
			}
		})
	})
}

// FaceAreas returns the area of every face
func (m *Mesh) FaceAreas() []float64 {
	m.NeedFaceAreas()
	return m.faceAreas
}

// NeedEdgeLengths computes, for every face corner, the length of the
// opposite edge
func (m *Mesh) NeedEdgeLengths() {
	m.need(AttrEdgeLengths, func() {
		m.NeedFaces()
		nf := len(m.faces)
		m.edgeLengths = make([][3]float64, nf)
		parallel.Each(nf, m.opts.Workers, func(i int) {
			f := m.faces[i]
			if !m.faceOK(f) {
				return
			}
			for j := 0; j < 3; j++ {
				m.edgeLengths[i][j] = m.vertices[f[(j+1)%3]].Distance(m.vertices[f[(j+2)%3]])
			}
		})
	})
}

// EdgeLengths returns the opposite-edge length of every face corner
func (m *Mesh) EdgeLengths() [][3]float64 {
	m.NeedEdgeLengths()
	return m.edgeLengths
}

// NeedBBox computes the axis-aligned bounding box of the vertices
func (m *Mesh) NeedBBox() {
	m.need(AttrBBox, func() {
		m.bbox = geometry.NewBoundingBox()
		for _, v := range m.vertices {
			m.bbox.Extend(v)
		}
	})
}

// BBox returns the bounding box; it is not Valid for an empty mesh
func (m *Mesh) BBox() geometry.BoundingBox {
	m.NeedBBox()
	return m.bbox
}

// NeedBSphere computes a bounding sphere centred on the bounding box.
// It encloses every vertex but is not the minimal sphere.
func (m *Mesh) NeedBSphere() {
	m.need(AttrBSphere, func() {
		m.NeedBBox()
		m.bsphere = geometry.Sphere{}
		if !m.bbox.Valid {
			return
		}
		c := m.bbox.Center()
		r2 := 0.0
		for _, v := range m.vertices {
			r2 = math.Max(r2, c.Dist2(v))
		}
		m.bsphere = geometry.Sphere{Center: c, Radius: math.Sqrt(r2), Valid: true}
	})
}

// BSphere returns the bounding sphere
func (m *Mesh) BSphere() geometry.Sphere {
	m.NeedBSphere()
	return m.bsphere
}

// Centroid returns the centroid of face f
func (m *Mesh) Centroid(f int) geometry.Vector3 {
	m.NeedFaces()
	return m.triangle(f).Center()
}

// TriNorm returns the vector area of face f: its normal scaled by its area
func (m *Mesh) TriNorm(f int) geometry.Vector3 {
	m.NeedFaces()
	fc := m.faces[f]
	p0, p1, p2 := m.vertices[fc[0]], m.vertices[fc[1]], m.vertices[fc[2]]
	return p1.Sub(p0).Cross(p2.Sub(p0)).Mul(0.5)
}

// CornerAngle returns the interior angle at corner j of face f in radians
func (m *Mesh) CornerAngle(f, j int) float64 {
	m.NeedFaces()
	fc := m.faces[f]
	return geometry.CornerAngle(m.vertices[fc[j]], m.vertices[fc[(j+1)%3]], m.vertices[fc[(j+2)%3]])
}

// Dihedral returns the angle between face f and the face across the edge
// opposite corner j, measured through the interior of the surface: pi for a
// flat edge, less for a convex edge, more for a concave one. Boundary edges
// return 0.
func (m *Mesh) Dihedral(f, j int) float64 {
	m.NeedAcrossEdge()
	other := m.acrossEdge[f][j]
	if other < 0 {
		return 0
	}
	mine := m.TriNorm(f)
	theirs := m.TriNorm(other)
	if mine.IsZero() || theirs.IsZero() {
		diag.Warnf(m.sink(), diag.KindDegenerate, "dihedral across faces %d and %d: zero-area face", f, other)
		return math.Pi
	}
	ang := mine.Angle(theirs)
	fc := m.faces[f]
	towards := m.vertices[fc[(j+1)%3]].Add(m.vertices[fc[(j+2)%3]]).Mul(0.5).Sub(m.vertices[fc[j]])
	if towards.Dot(theirs) < 0 {
		return math.Pi + ang
	}
	return math.Pi - ang
}
