package trimesh

import (
	"github.com/philipparndt/gotrimesh/internal/parallel"
	"github.com/philipparndt/gotrimesh/pkg/geometry"
)

// NeedPointAreas computes the Voronoi area around each vertex and the share
// of every face corner in it, following Meyer et al. (2003): obtuse
// triangles give half their area to the obtuse corner and a quarter to each
// of the others.
func (m *Mesh) NeedPointAreas() {
	m.need(AttrPointAreas, func() {
		m.NeedFaces()
		nf, nv := len(m.faces), len(m.vertices)
		m.pointAreas = make([]float64, nv)
		m.cornerAreas = make([][3]float64, nf)

		parallel.Each(nf, m.opts.Workers, func(i int) {
			f := m.faces[i]
			if !m.faceOK(f) {
				return
			}
			m.cornerAreas[i] = cornerAreas(m.vertices[f[0]], m.vertices[f[1]], m.vertices[f[2]])
		})

		for i, f := range m.faces {
			if !m.faceOK(f) {
				continue
			}
			for j := 0; j < 3; j++ {
				m.pointAreas[f[j]] += m.cornerAreas[i][j]
			}
		}
	})
}

// PointAreas returns the area associated with each vertex
func (m *Mesh) PointAreas() []float64 {
	m.NeedPointAreas()
	return m.pointAreas
}

// CornerAreas returns the per-corner share of each face's area
func (m *Mesh) CornerAreas() [][3]float64 {
	m.NeedPointAreas()
	return m.cornerAreas
}

func cornerAreas(p0, p1, p2 geometry.Vector3) [3]float64 {
	// e[j] is the edge opposite corner j.
	e := [3]geometry.Vector3{p2.Sub(p1), p0.Sub(p2), p1.Sub(p0)}
	area := 0.5 * e[0].Cross(e[1]).Length()
	if area == 0 {
		return [3]float64{}
	}
	l2 := [3]float64{e[0].Len2(), e[1].Len2(), e[2].Len2()}
	ew := [3]float64{
		l2[0] * (l2[1] + l2[2] - l2[0]),
		l2[1] * (l2[2] + l2[0] - l2[1]),
		l2[2] * (l2[0] + l2[1] - l2[2]),
	}

	var ca [3]float64
	switch {
	case ew[0] <= 0:
		ca[1] = -0.25 * l2[2] * area / e[0].Dot(e[2])
		ca[2] = -0.25 * l2[1] * area / e[0].Dot(e[1])
		ca[0] = area - ca[1] - ca[2]
	case ew[1] <= 0:
		ca[2] = -0.25 * l2[0] * area / e[1].Dot(e[0])
		ca[0] = -0.25 * l2[2] * area / e[1].Dot(e[2])
		ca[1] = area - ca[2] - ca[0]
	case ew[2] <= 0:
		ca[0] = -0.25 * l2[1] * area / e[2].Dot(e[1])
		ca[1] = -0.25 * l2[0] * area / e[2].Dot(e[0])
		ca[2] = area - ca[0] - ca[1]
	default:
		scale := 0.5 * area / (ew[0] + ew[1] + ew[2])
		for j := 0; j < 3; j++ {
			ca[j] = scale * (ew[(j+1)%3] + ew[(j+2)%3])
		}
	}
	return ca
}
