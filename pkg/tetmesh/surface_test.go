package tetmesh

import (
	"testing"

	"github.com/philipparndt/gotrimesh/pkg/trimesh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractSurfaceSingleTet(t *testing.T) {
	nodes := unitTet()
	m := FromElements(nodes, []Element{{0, 1, 2, 3}})

	faces := m.ExtractSurface()
	require.Len(t, faces, 4)
	center := nodes[0].Add(nodes[1]).Add(nodes[2]).Add(nodes[3]).Mul(0.25)
	for _, f := range faces {
		p0, p1, p2 := nodes[f[0]], nodes[f[1]], nodes[f[2]]
		n := p1.Sub(p0).Cross(p2.Sub(p0))
		assert.Greater(t, n.Dot(p0.Sub(center)), 0.0, "face %v points inwards", f)
	}
}

func TestExtractSurfaceDropsSharedFacet(t *testing.T) {
	m := twoTets()

	faces := m.ExtractSurface()
	assert.Len(t, faces, 6)
	for _, f := range faces {
		key := sortedKey(f[0], f[1], f[2])
		assert.NotEqual(t, facetKey{1, 2, 3}, key)
	}
}

func TestSurfaceIsClosed(t *testing.T) {
	m := twoTets()
	s := m.Surface()

	assert.Equal(t, 5, s.VertexCount())
	assert.Equal(t, 6, s.FaceCount())
	for i, ae := range s.AcrossEdge() {
		for j := 0; j < 3; j++ {
			assert.GreaterOrEqual(t, ae[j], 0, "face %d corner %d", i, j)
		}
	}
	assert.Equal(t, trimesh.Computed, m.State(AttrSurface))
}

func TestSurfaceSharesNodeIndices(t *testing.T) {
	m := twoTets()
	m.SetSurfaceFaces([]trimesh.Face{{0, 2, 1}, {0, 1, 3}})

	s := m.Surface()
	assert.Equal(t, 4, s.VertexCount(), "node prefix up to the highest index used")
	for i, v := range s.Vertices() {
		assert.Equal(t, m.Nodes()[i], v)
	}
	assert.Equal(t, []trimesh.Face{{0, 2, 1}, {0, 1, 3}}, s.Faces())

	m.SetSurfaceFaces(nil)
	assert.Equal(t, trimesh.Stale, m.State(AttrSurface))
	assert.Equal(t, 6, m.Surface().FaceCount())
}
