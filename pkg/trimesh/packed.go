package trimesh

import "github.com/philipparndt/gotrimesh/pkg/diag"

// Packed is a flat copy of the mesh for bulk consumers such as renderers.
// Vertices and Normals hold 3 floats per vertex, Indices 3 per triangle.
type Packed struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
}

// VertexCount returns the number of vertices
func (p *Packed) VertexCount() int {
	return len(p.Vertices) / 3
}

// TriangleCount returns the number of triangles
func (p *Packed) TriangleCount() int {
	return len(p.Indices) / 3
}

// IsEmpty returns true if the layout holds no geometry
func (p *Packed) IsEmpty() bool {
	return len(p.Vertices) == 0
}

// RefreshPacked rebuilds the packed layout from the canonical vertices,
// faces and normals. It is the only operation that writes the layout and is
// a no-op while the layout is current.
func (m *Mesh) RefreshPacked() {
	m.need(AttrPacked, func() {
		m.NeedFaces()
		m.NeedNormals()
		nv := len(m.vertices)
		p := Packed{
			Vertices: make([]float32, 0, 3*nv),
			Normals:  make([]float32, 0, 3*nv),
			Indices:  make([]uint32, 0, 3*len(m.faces)),
		}
		for i, v := range m.vertices {
			n := m.normals[i]
			p.Vertices = append(p.Vertices, float32(v.X), float32(v.Y), float32(v.Z))
			p.Normals = append(p.Normals, float32(n.X), float32(n.Y), float32(n.Z))
		}
		skipped := 0
		for _, f := range m.faces {
			if !m.faceOK(f) {
				skipped++
				continue
			}
			p.Indices = append(p.Indices, uint32(f[0]), uint32(f[1]), uint32(f[2]))
		}
		if skipped > 0 {
			diag.Warnf(m.sink(), diag.KindMalformed, "%d faces with out-of-range indices left out of the packed layout", skipped)
		}
		m.packed = p
	})
}

// Packed returns the layout built by the last RefreshPacked. It may be stale;
// check State(AttrPacked) or call RefreshPacked first.
func (m *Mesh) Packed() Packed {
	return m.packed
}
