package tetmesh

import (
	"sort"

	"github.com/philipparndt/gotrimesh/pkg/diag"
	"github.com/philipparndt/gotrimesh/pkg/geometry"
	"github.com/philipparndt/gotrimesh/pkg/trimesh"
)

// NeedSurface builds the boundary triangle mesh.
//
// Surface vertex i is node i: the surface takes the node prefix up to the
// highest node a boundary face uses, without renumbering. Meshes whose
// boundary nodes come first, as tetgen writes them, get a surface without
// interior nodes. Faces come from SetSurfaceFaces when given, else from
// ExtractSurface.
func (m *Mesh) NeedSurface() {
	m.need(AttrSurface, func() {
		faces := m.surfaceFaces
		if faces == nil {
			faces = m.ExtractSurface()
		}

		count := 0
		nn := len(m.nodes)
		kept := make([]trimesh.Face, 0, len(faces))
		for _, f := range faces {
			if f[0] < 0 || f[0] >= nn || f[1] < 0 || f[1] >= nn || f[2] < 0 || f[2] >= nn {
				continue
			}
			kept = append(kept, f)
			for _, v := range f {
				if v+1 > count {
					count = v + 1
				}
			}
		}
		if len(kept) < len(faces) {
			diag.Warnf(m.sink, diag.KindMalformed, "%d surface faces with out-of-range node indices dropped", len(faces)-len(kept))
		}

		vertices := make([]geometry.Vector3, count)
		copy(vertices, m.nodes[:count])
		m.surface = trimesh.FromFaces(vertices, kept, m.opts...)
		diag.Debugf(m.sink, "surface has %d vertices and %d faces", count, len(kept))
	})
}

// Surface returns the boundary triangle mesh
func (m *Mesh) Surface() *trimesh.Mesh {
	m.NeedSurface()
	return m.surface
}

type facetKey [3]int

func sortedKey(a, b, c int) facetKey {
	k := []int{a, b, c}
	sort.Ints(k)
	return facetKey{k[0], k[1], k[2]}
}

// ExtractSurface returns the element facets that belong to exactly one
// element, oriented so that their normals point out of that element. Faces
// are listed in element order.
func (m *Mesh) ExtractSurface() []trimesh.Face {
	uses := make(map[facetKey]int, 2*len(m.elements))
	for _, e := range m.elements {
		if !m.elementOK(e) {
			continue
		}
		for j := 0; j < 4; j++ {
			uses[sortedKey(e[(j+1)%4], e[(j+2)%4], e[(j+3)%4])]++
		}
	}

	var faces []trimesh.Face
	overused := 0
	for _, e := range m.elements {
		if !m.elementOK(e) {
			continue
		}
		for j := 0; j < 4; j++ {
			a, b, c := e[(j+1)%4], e[(j+2)%4], e[(j+3)%4]
			switch n := uses[sortedKey(a, b, c)]; {
			case n > 2:
				overused++
				continue
			case n != 1:
				continue
			}
			pa := m.nodes[a]
			normal := m.nodes[b].Sub(pa).Cross(m.nodes[c].Sub(pa))
			if normal.Dot(m.nodes[e[j]].Sub(pa)) > 0 {
				b, c = c, b
			}
			faces = append(faces, trimesh.Face{a, b, c})
		}
	}
	if overused > 0 {
		diag.Warnf(m.sink, diag.KindMalformed, "%d element facets shared by more than two elements", overused)
	}
	return faces
}
