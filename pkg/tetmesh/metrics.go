package tetmesh

import (
	"math"

	"github.com/philipparndt/gotrimesh/internal/parallel"
	"github.com/philipparndt/gotrimesh/pkg/diag"
	"github.com/philipparndt/gotrimesh/pkg/geometry"
)

// NeedTetraVolumes computes the unsigned volume of every element
func (m *Mesh) NeedTetraVolumes() {
	m.need(AttrTetraVolumes, func() {
		ne := len(m.elements)
		m.tetraVolumes = make([]float64, ne)
		bad := make([]bool, ne)
		parallel.Each(ne, m.workers, func(i int) {
			e := m.elements[i]
			if !m.elementOK(e) {
				bad[i] = true
				return
			}
			c := m.corners(e)
			m.tetraVolumes[i] = Volume(c[0], c[1], c[2], c[3])
		})
		m.reportBad(count(bad), "volumes")
	})
}

// TetraVolumes returns the volume of every element
func (m *Mesh) TetraVolumes() []float64 {
	m.NeedTetraVolumes()
	return m.tetraVolumes
}

// NeedFacetAreas computes the area of the four facets of every element.
// Facet j is the triangle opposite corner j.
func (m *Mesh) NeedFacetAreas() {
	m.need(AttrFacetAreas, func() {
		ne := len(m.elements)
		m.facetAreas = make([][4]float64, ne)
		bad := make([]bool, ne)
		parallel.Each(ne, m.workers, func(i int) {
			e := m.elements[i]
			if !m.elementOK(e) {
				bad[i] = true
				return
			}
			c := m.corners(e)
			for j := 0; j < 4; j++ {
				a, b, d := c[(j+1)%4], c[(j+2)%4], c[(j+3)%4]
				m.facetAreas[i][j] = 0.5 * b.Sub(a).Cross(d.Sub(a)).Length()
			}
		})
		m.reportBad(count(bad), "facet areas")
	})
}

// FacetAreas returns the facet areas of every element
func (m *Mesh) FacetAreas() [][4]float64 {
	m.NeedFacetAreas()
	return m.facetAreas
}

// Dihedral returns the interior angle of element e along the edge between
// corners a and b, in radians. It returns 0 for invalid corners and for
// degenerate elements.
func (m *Mesh) Dihedral(e, a, b int) float64 {
	if e < 0 || e >= len(m.elements) || a < 0 || a > 3 || b < 0 || b > 3 || a == b {
		return 0
	}
	el := m.elements[e]
	if !m.elementOK(el) {
		diag.Warnf(m.sink, diag.KindMalformed, "element %d has out-of-range node indices", e)
		return 0
	}
	var rest []int
	for j := 0; j < 4; j++ {
		if j != a && j != b {
			rest = append(rest, j)
		}
	}
	c := m.corners(el)
	edge := c[b].Sub(c[a])
	n1 := edge.Cross(c[rest[0]].Sub(c[a]))
	n2 := edge.Cross(c[rest[1]].Sub(c[a]))
	if n1.IsZero() || n2.IsZero() {
		diag.Warnf(m.sink, diag.KindDegenerate, "element %d is degenerate along edge (%d,%d)", e, a, b)
		return 0
	}
	d := n1.Normalize().Dot(n2.Normalize())
	return math.Acos(math.Max(-1, math.Min(1, d)))
}

// Volume returns the unsigned volume of the tetrahedron p0 p1 p2 p3
func Volume(p0, p1, p2, p3 geometry.Vector3) float64 {
	return math.Abs(SignedVolume(p0, p1, p2, p3))
}

// SignedVolume is positive when p3 lies on the side of triangle p0 p1 p2
// that its counter-clockwise normal points to.
func SignedVolume(p0, p1, p2, p3 geometry.Vector3) float64 {
	return p1.Sub(p0).Cross(p2.Sub(p0)).Dot(p3.Sub(p0)) / 6
}

func count(flags []bool) int {
	n := 0
	for _, f := range flags {
		if f {
			n++
		}
	}
	return n
}
