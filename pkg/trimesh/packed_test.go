package trimesh

import (
	"testing"

	"github.com/philipparndt/gotrimesh/pkg/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefreshPacked(t *testing.T) {
	v, f := unitCube()
	m := FromFaces(v, f)

	before := m.Packed()
	assert.True(t, before.IsEmpty())
	m.RefreshPacked()
	assert.Equal(t, Computed, m.State(AttrPacked))

	p := m.Packed()
	require.Equal(t, 8, p.VertexCount())
	require.Equal(t, 12, p.TriangleCount())
	normals := m.Normals()
	for i := range v {
		assert.Equal(t, float32(v[i].X), p.Vertices[3*i])
		assert.Equal(t, float32(v[i].Z), p.Vertices[3*i+2])
		assert.Equal(t, float32(normals[i].Y), p.Normals[3*i+1])
	}
	for i, fc := range f {
		for j := 0; j < 3; j++ {
			assert.Equal(t, uint32(fc[j]), p.Indices[3*i+j])
		}
	}
}

func TestPackedFollowsRefreshOnly(t *testing.T) {
	v, f := unitCube()
	m := FromFaces(v, f)
	m.RefreshPacked()

	moved := make([]geometry.Vector3, len(v))
	for i, p := range v {
		moved[i] = p.Add(v3(10, 0, 0))
	}
	m.SetVertices(moved)
	assert.Equal(t, Stale, m.State(AttrPacked))
	stale := m.Packed()
	assert.Equal(t, float32(0), stale.Vertices[0], "packed data changes only on refresh")

	m.RefreshPacked()
	fresh := m.Packed()
	assert.Equal(t, float32(10), fresh.Vertices[0])

	m.RefreshPacked()
	assert.Equal(t, fresh, m.Packed())
}

func TestPackedSkipsBadFaces(t *testing.T) {
	v, f := flatSquare()
	m := FromFaces(v, append(f, Face{0, 1, 99}))
	m.RefreshPacked()

	p := m.Packed()
	assert.Equal(t, 2, p.TriangleCount())
}
