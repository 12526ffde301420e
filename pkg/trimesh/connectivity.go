package trimesh

import (
	"github.com/philipparndt/gotrimesh/internal/parallel"
	"github.com/philipparndt/gotrimesh/pkg/diag"
)

// NeedNeighbors finds, for every vertex, the vertices sharing a face edge with it
func (m *Mesh) NeedNeighbors() {
	m.need(AttrNeighbors, func() {
		m.NeedFaces()
		nv := len(m.vertices)
		m.neighbors = make([][]int, nv)
		if nv == 0 {
			return
		}

		counts := m.incidentFaceCounts()
		for i := range m.neighbors {
			// A closed fan has as many neighbours as faces; boundaries add one.
			m.neighbors[i] = make([]int, 0, counts[i]+2)
		}

		bad := 0
		for _, f := range m.faces {
			if !m.faceOK(f) {
				bad++
				continue
			}
			for j := 0; j < 3; j++ {
				v := f[j]
				me := m.neighbors[v]
				for _, n := range [2]int{f[(j+1)%3], f[(j+2)%3]} {
					if n != v && !contains(me, n) {
						me = append(me, n)
					}
				}
				m.neighbors[v] = me
			}
		}
		m.reportBadFaces(bad, "neighbors")
		diag.Debugf(m.sink(), "found neighbors of %d vertices", nv)
	})
}

// Neighbors returns the vertex neighbour lists
func (m *Mesh) Neighbors() [][]int {
	m.NeedNeighbors()
	return m.neighbors
}

// NeedAdjacentFaces finds the faces touching each vertex
func (m *Mesh) NeedAdjacentFaces() {
	m.need(AttrAdjacentFaces, func() {
		m.NeedFaces()
		nv := len(m.vertices)
		m.adjacentFaces = make([][]int, nv)
		if nv == 0 {
			return
		}

		counts := m.incidentFaceCounts()
		for i := range m.adjacentFaces {
			m.adjacentFaces[i] = make([]int, 0, counts[i])
		}

		bad := 0
		for i, f := range m.faces {
			if !m.faceOK(f) {
				bad++
				continue
			}
			for j := 0; j < 3; j++ {
				if j > 0 && f[j] == f[0] || j > 1 && f[j] == f[1] {
					continue
				}
				m.adjacentFaces[f[j]] = append(m.adjacentFaces[f[j]], i)
			}
		}
		m.reportBadFaces(bad, "adjacent faces")
		diag.Debugf(m.sink(), "found adjacent faces of %d vertices", nv)
	})
}

// AdjacentFaces returns, for each vertex, the faces touching it
func (m *Mesh) AdjacentFaces() [][]int {
	m.NeedAdjacentFaces()
	return m.adjacentFaces
}

type edgeKey struct{ from, to int }

type halfEdge struct{ face, corner int }

// NeedAcrossEdge finds, for each face corner, the face on the other side of
// the opposite edge. Only a consistently oriented twin counts as a neighbour.
// Edges used by more than one face in the same direction, or by more than
// two faces, are reported as malformed and left as boundaries.
func (m *Mesh) NeedAcrossEdge() {
	m.need(AttrAcrossEdge, func() {
		m.NeedFaces()
		nf := len(m.faces)
		m.acrossEdge = make([]Face, nf)
		if nf == 0 {
			return
		}

		edges := make(map[edgeKey][]halfEdge, nf*3)
		for i, f := range m.faces {
			m.acrossEdge[i] = Face{NoFace, NoFace, NoFace}
			if !m.faceOK(f) {
				continue
			}
			for j := 0; j < 3; j++ {
				k := edgeKey{f[(j+1)%3], f[(j+2)%3]}
				edges[k] = append(edges[k], halfEdge{i, j})
			}
		}

		chunks := parallel.Chunks(nf, m.opts.Workers)
		buf := diag.NewBuffer(m.sink(), chunks)
		parallel.For(nf, m.opts.Workers, func(c, lo, hi int) {
			out := buf.Slot(c)
			for i := lo; i < hi; i++ {
				f := m.faces[i]
				if !m.faceOK(f) {
					continue
				}
				for j := 0; j < 3; j++ {
					v1, v2 := f[(j+1)%3], f[(j+2)%3]
					if v1 == v2 {
						continue
					}
					same := edges[edgeKey{v1, v2}]
					twins := edges[edgeKey{v2, v1}]
					switch {
					case len(twins) == 1 && len(same) == 1 && twins[0].face != i:
						m.acrossEdge[i][j] = twins[0].face
					case len(twins) == 0 && len(same) == 1:
						// boundary
					default:
						// Report each undirected edge once, from its first half-edge.
						first := same[0]
						if first.face == i && first.corner == j && (v1 < v2 || len(twins) == 0) {
							diag.Warnf(out, diag.KindMalformed,
								"edge (%d,%d) has %d+%d incident faces; treated as boundary", v1, v2, len(same), len(twins))
						}
					}
				}
			}
		})
		buf.Flush()
		diag.Debugf(m.sink(), "found across-edge neighbors of %d faces", nf)
	})
}

// AcrossEdge returns, for each face, the faces across its three edges
func (m *Mesh) AcrossEdge() []Face {
	m.NeedAcrossEdge()
	return m.acrossEdge
}

// IsBoundary reports whether vertex v lies on the mesh boundary
func (m *Mesh) IsBoundary(v int) bool {
	m.NeedNeighbors()
	m.NeedAdjacentFaces()
	if v < 0 || v >= len(m.neighbors) {
		return false
	}
	return len(m.neighbors[v]) != len(m.adjacentFaces[v])
}

func (m *Mesh) incidentFaceCounts() []int {
	counts := make([]int, len(m.vertices))
	for _, f := range m.faces {
		if !m.faceOK(f) {
			continue
		}
		counts[f[0]]++
		counts[f[1]]++
		counts[f[2]]++
	}
	return counts
}

func (m *Mesh) reportBadFaces(n int, what string) {
	if n > 0 {
		diag.Warnf(m.sink(), diag.KindMalformed, "%d faces with out-of-range vertex indices skipped while computing %s", n, what)
	}
}

func contains(s []int, v int) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}
