package trimesh

import (
	"errors"
	"testing"

	"github.com/philipparndt/gotrimesh/pkg/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheStates(t *testing.T) {
	v, f := unitCube()
	m := FromFaces(v, f)

	assert.Equal(t, Computed, m.State(AttrFaces))
	assert.Equal(t, Uncomputed, m.State(AttrNormals))

	m.NeedNormals()
	m.NeedNeighbors()
	assert.Equal(t, Computed, m.State(AttrNormals))
	assert.Equal(t, Computed, m.State(AttrNeighbors))

	moved := make([]geometry.Vector3, len(v))
	for i, p := range v {
		moved[i] = p.Mul(2)
	}
	m.SetVertices(moved)
	assert.Equal(t, Stale, m.State(AttrNormals))
	assert.Equal(t, Computed, m.State(AttrNeighbors), "same vertex count keeps topology")

	m.NeedNormals()
	assert.Equal(t, Computed, m.State(AttrNormals))

	m.Clear()
	assert.Equal(t, 0, m.VertexCount())
	for a := Attr(0); a < numAttrs; a++ {
		assert.Equal(t, Uncomputed, m.State(a), a.String())
	}
}

func TestEmptyResultIsCached(t *testing.T) {
	m := FromFaces([]geometry.Vector3{v3(0, 0, 0), v3(1, 0, 0), v3(0, 1, 0)}, []Face{{0, 1, 2}})

	ae := m.AcrossEdge()
	require.Len(t, ae, 1)
	assert.Equal(t, Face{NoFace, NoFace, NoFace}, ae[0])
	assert.Equal(t, Computed, m.State(AttrAcrossEdge))

	empty := New()
	empty.NeedNormals()
	empty.NeedNeighbors()
	assert.Empty(t, empty.Normals())
	assert.Empty(t, empty.Neighbors())
	assert.Equal(t, Computed, empty.State(AttrNormals))
	assert.Equal(t, Computed, empty.State(AttrNeighbors))
}

func TestInvalidateCascades(t *testing.T) {
	v, f := icosahedron()
	m := FromFaces(v, f)
	m.NeedCurvatures()
	require.Equal(t, Computed, m.State(AttrPointAreas))

	m.Invalidate(AttrNormals)
	assert.Equal(t, Stale, m.State(AttrNormals))
	assert.Equal(t, Stale, m.State(AttrCurvatures))
	assert.Equal(t, Uncomputed, m.State(AttrDCurv))
	assert.Equal(t, Computed, m.State(AttrPointAreas))

	m.Invalidate(AttrFaces)
	assert.Equal(t, Stale, m.State(AttrPointAreas))
}

func TestSetVerticesRecomputes(t *testing.T) {
	v, f := unitCube()
	m := FromFaces(v, f)
	assert.InDelta(t, 6.0, m.Stat(StatTotal, StatFaceArea), 1e-12)

	scaled := make([]geometry.Vector3, len(v))
	for i, p := range v {
		scaled[i] = p.Mul(2)
	}
	m.SetVertices(scaled)
	assert.InDelta(t, 24.0, m.Stat(StatTotal, StatFaceArea), 1e-12)
}

func TestSetVerticesResizeDropsTopology(t *testing.T) {
	v, f := flatSquare()
	m := FromFaces(v, f)
	m.NeedNeighbors()

	m.SetVertices(append(append([]geometry.Vector3(nil), v...), v3(5, 5, 5)))
	assert.Equal(t, Stale, m.State(AttrNeighbors))
	require.Len(t, m.Neighbors(), 5)
	assert.Empty(t, m.Neighbors()[4])
}

func TestSetFacesDropsStrips(t *testing.T) {
	v, f := flatSquare()
	m := New()
	m.SetVertices(v)
	m.SetTStrips([]int{4, 0, 1, 3, 2})
	require.Equal(t, 2, m.FaceCount())

	m.SetFaces(f[:1])
	assert.Nil(t, m.TStrips())
	assert.Equal(t, 1, m.FaceCount())
}

func TestValidate(t *testing.T) {
	v, f := flatSquare()

	t.Run("ok", func(t *testing.T) {
		assert.NoError(t, FromFaces(v, f).Validate())
	})

	t.Run("face index", func(t *testing.T) {
		m := FromFaces(v, []Face{{0, 1, 9}})
		err := m.Validate()
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrIndexOutOfRange))
	})

	t.Run("strip header", func(t *testing.T) {
		m := New()
		m.SetVertices(v)
		m.SetTStrips([]int{2, 0, 1})
		assert.ErrorIs(t, m.Validate(), ErrBadStrip)
	})

	t.Run("grid index", func(t *testing.T) {
		m := New()
		m.SetVertices(v)
		require.NoError(t, m.SetGrid([]int{0, 1, 2, 7}, 2, 2))
		assert.ErrorIs(t, m.Validate(), ErrIndexOutOfRange)
	})
}

func TestFaceIndexOf(t *testing.T) {
	f := Face{4, 7, 9}
	assert.Equal(t, 1, f.IndexOf(7))
	assert.Equal(t, -1, f.IndexOf(3))
}
