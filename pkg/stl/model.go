package stl

import (
	"github.com/philipparndt/gotrimesh/pkg/geometry"
	"github.com/philipparndt/gotrimesh/pkg/trimesh"
)

// Model is an STL solid with its triangles welded into an indexed mesh.
// Vertices with bit-identical coordinates share one index.
type Model struct {
	Name     string
	Vertices []geometry.Vector3
	Faces    []trimesh.Face

	index map[geometry.Vector3]int
}

// NewModel creates a new STL model
func NewModel(name string) *Model {
	return &Model{
		Name:  name,
		index: make(map[geometry.Vector3]int),
	}
}

// AddTriangle adds a triangle to the model
func (m *Model) AddTriangle(triangle geometry.Triangle) {
	m.Faces = append(m.Faces, trimesh.Face{
		m.weld(triangle.V1),
		m.weld(triangle.V2),
		m.weld(triangle.V3),
	})
}

func (m *Model) weld(v geometry.Vector3) int {
	if m.index == nil {
		m.index = make(map[geometry.Vector3]int)
	}
	// -0 and +0 must weld together.
	if v.X == 0 {
		v.X = 0
	}
	if v.Y == 0 {
		v.Y = 0
	}
	if v.Z == 0 {
		v.Z = 0
	}
	if i, ok := m.index[v]; ok {
		return i
	}
	i := len(m.Vertices)
	m.Vertices = append(m.Vertices, v)
	m.index[v] = i
	return i
}

// TriangleCount returns the number of triangles in the model
func (m *Model) TriangleCount() int {
	return len(m.Faces)
}

// Triangle returns the positions of triangle i
func (m *Model) Triangle(i int) geometry.Triangle {
	f := m.Faces[i]
	return geometry.NewTriangle(m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]])
}

// Mesh returns an indexed triangle mesh over the model's vertices and faces
func (m *Model) Mesh(opts ...trimesh.Option) *trimesh.Mesh {
	return trimesh.FromFaces(m.Vertices, m.Faces, opts...)
}
