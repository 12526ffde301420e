package tetmesh

import (
	"math"
	"testing"

	"github.com/philipparndt/gotrimesh/pkg/diag"
	"github.com/philipparndt/gotrimesh/pkg/geometry"
	"github.com/philipparndt/gotrimesh/pkg/trimesh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func v3(x, y, z float64) geometry.Vector3 {
	return geometry.NewVector3(x, y, z)
}

func unitTet() []geometry.Vector3 {
	return []geometry.Vector3{v3(0, 0, 0), v3(1, 0, 0), v3(0, 1, 0), v3(0, 0, 1)}
}

// twoTets shares the facet (1,2,3) between two elements.
func twoTets() *Mesh {
	nodes := append(unitTet(), v3(1, 1, 1))
	return FromElements(nodes, []Element{{0, 1, 2, 3}, {1, 2, 3, 4}})
}

func permutations(e Element) []Element {
	var out []Element
	var rec func(k int, cur Element)
	rec = func(k int, cur Element) {
		if k == 4 {
			out = append(out, cur)
			return
		}
		for i := k; i < 4; i++ {
			cur[k], cur[i] = cur[i], cur[k]
			rec(k+1, cur)
			cur[k], cur[i] = cur[i], cur[k]
		}
	}
	rec(0, e)
	return out
}

func TestUnitTetVolume(t *testing.T) {
	m := FromElements(unitTet(), []Element{{0, 1, 2, 3}})
	require.Len(t, m.TetraVolumes(), 1)
	assert.InDelta(t, 1.0/6, m.TetraVolumes()[0], 1e-15)
}

func TestVolumePermutationInvariant(t *testing.T) {
	nodes := []geometry.Vector3{v3(0.3, -1, 2), v3(2, 0.5, 1), v3(-1, 2, 0), v3(0.5, 0.5, 3)}
	perms := permutations(Element{0, 1, 2, 3})
	require.Len(t, perms, 24)

	m := FromElements(nodes, perms)
	want := m.TetraVolumes()[0]
	require.Greater(t, want, 0.0)
	for i, v := range m.TetraVolumes() {
		assert.InDelta(t, want, v, 1e-12, "permutation %v", perms[i])
	}

	// Even permutations keep the sign.
	c := func(e Element) float64 {
		return SignedVolume(nodes[e[0]], nodes[e[1]], nodes[e[2]], nodes[e[3]])
	}
	s := c(Element{0, 1, 2, 3})
	assert.InDelta(t, s, c(Element{1, 2, 0, 3}), 1e-12)
	assert.InDelta(t, s, c(Element{1, 0, 3, 2}), 1e-12)
	assert.InDelta(t, -s, c(Element{1, 0, 2, 3}), 1e-12)
}

func TestFacetAreas(t *testing.T) {
	m := FromElements(unitTet(), []Element{{0, 1, 2, 3}})
	fa := m.FacetAreas()[0]
	assert.InDelta(t, math.Sqrt(3)/2, fa[0], 1e-12)
	for j := 1; j < 4; j++ {
		assert.InDelta(t, 0.5, fa[j], 1e-12, "facet %d", j)
	}
}

func TestDihedralRegular(t *testing.T) {
	nodes := []geometry.Vector3{v3(1, 1, 1), v3(1, -1, -1), v3(-1, 1, -1), v3(-1, -1, 1)}
	m := FromElements(nodes, []Element{{0, 1, 2, 3}})

	want := math.Acos(1.0 / 3)
	for a := 0; a < 4; a++ {
		for b := a + 1; b < 4; b++ {
			assert.InDelta(t, want, m.Dihedral(0, a, b), 1e-12, "edge (%d,%d)", a, b)
			assert.InDelta(t, want, m.Dihedral(0, b, a), 1e-12, "edge (%d,%d)", b, a)
		}
	}
}

func TestDihedralUnitTet(t *testing.T) {
	m := FromElements(unitTet(), []Element{{0, 1, 2, 3}})
	assert.InDelta(t, math.Pi/2, m.Dihedral(0, 0, 1), 1e-12)
	assert.InDelta(t, math.Acos(1/math.Sqrt(3)), m.Dihedral(0, 1, 2), 1e-12)

	assert.Equal(t, 0.0, m.Dihedral(0, 1, 1))
	assert.Equal(t, 0.0, m.Dihedral(0, 0, 4))
	assert.Equal(t, 0.0, m.Dihedral(3, 0, 1))
}

func TestNeighborsAndAdjacentElements(t *testing.T) {
	m := twoTets()

	nb := m.Neighbors()
	require.Len(t, nb, 5)
	assert.ElementsMatch(t, []int{1, 2, 3}, nb[0])
	assert.ElementsMatch(t, []int{0, 2, 3, 4}, nb[1])
	assert.ElementsMatch(t, []int{1, 2, 3}, nb[4])

	first := append([]int(nil), nb[1]...)
	m.NeedNeighbors()
	assert.Equal(t, first, m.Neighbors()[1])

	adj := m.AdjacentElements()
	assert.Equal(t, []int{0}, adj[0])
	assert.Equal(t, []int{0, 1}, adj[2])
	assert.Equal(t, []int{1}, adj[4])
}

func TestCacheStates(t *testing.T) {
	m := FromElements(unitTet(), []Element{{0, 1, 2, 3}})
	assert.Equal(t, trimesh.Uncomputed, m.State(AttrTetraVolumes))
	m.NeedTetraVolumes()
	m.NeedNeighbors()
	assert.Equal(t, trimesh.Computed, m.State(AttrTetraVolumes))

	scaled := unitTet()
	for i := range scaled {
		scaled[i] = scaled[i].Mul(2)
	}
	m.SetNodes(scaled)
	assert.Equal(t, trimesh.Stale, m.State(AttrTetraVolumes))
	assert.Equal(t, trimesh.Computed, m.State(AttrNeighbors))
	assert.InDelta(t, 8.0/6, m.TetraVolumes()[0], 1e-12)

	m.SetElements([]Element{{3, 2, 1, 0}})
	assert.Equal(t, trimesh.Stale, m.State(AttrNeighbors))

	m.Clear()
	assert.Empty(t, m.Nodes())
	for a := Attr(0); a < numAttrs; a++ {
		assert.Equal(t, trimesh.Uncomputed, m.State(a), a.String())
	}
}

func TestValidate(t *testing.T) {
	assert.NoError(t, twoTets().Validate())

	m := FromElements(unitTet(), []Element{{0, 1, 1, 3}})
	assert.ErrorIs(t, m.Validate(), ErrBadElement)

	m = FromElements(unitTet(), []Element{{0, 1, 2, 8}})
	assert.ErrorIs(t, m.Validate(), trimesh.ErrIndexOutOfRange)
}

func TestOutOfRangeElement(t *testing.T) {
	rec := &diag.Recorder{}
	m := FromElements(unitTet(), []Element{{0, 1, 2, 3}, {0, 1, 2, 9}}, trimesh.WithDiagnostics(rec))

	vols := m.TetraVolumes()
	assert.Equal(t, 0.0, vols[1])
	assert.Equal(t, 1, rec.Count(diag.KindMalformed))
	assert.Equal(t, []int{0}, m.AdjacentElements()[0])
}
