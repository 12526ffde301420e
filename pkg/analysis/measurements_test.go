package analysis

import (
	"math"
	"testing"

	"github.com/philipparndt/gotrimesh/pkg/geometry"
	"github.com/philipparndt/gotrimesh/pkg/tetmesh"
	"github.com/philipparndt/gotrimesh/pkg/trimesh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func v3(x, y, z float64) geometry.Vector3 {
	return geometry.NewVector3(x, y, z)
}

func unitCube() *trimesh.Mesh {
	v := []geometry.Vector3{
		v3(0, 0, 0), v3(1, 0, 0), v3(1, 1, 0), v3(0, 1, 0),
		v3(0, 0, 1), v3(1, 0, 1), v3(1, 1, 1), v3(0, 1, 1),
	}
	f := []trimesh.Face{
		{0, 2, 1}, {0, 3, 2},
		{4, 5, 6}, {4, 6, 7},
		{0, 1, 5}, {0, 5, 4},
		{3, 7, 6}, {3, 6, 2},
		{0, 4, 7}, {0, 7, 3},
		{1, 2, 6}, {1, 6, 5},
	}
	return trimesh.FromFaces(v, f)
}

func TestAnalyzeCube(t *testing.T) {
	r := AnalyzeMesh(unitCube())

	assert.Equal(t, 8, r.VertexCount)
	assert.Equal(t, 12, r.TriangleCount)
	assert.Equal(t, 18, r.EdgeCount)
	assert.Equal(t, 0, r.BoundaryEdges)
	assert.True(t, r.Closed)
	assert.Equal(t, 2, r.EulerCharacteristic)
	assert.InDelta(t, 6.0, r.SurfaceArea, 1e-12)
	assert.InDelta(t, 1.0, r.Volume, 1e-12)
	assert.InDelta(t, 1.0, r.MinEdgeLength, 1e-12)
	assert.InDelta(t, math.Sqrt2, r.MaxEdgeLength, 1e-12)
	assert.InDelta(t, math.Pi/2, r.MinDihedral, 1e-12)
	assert.InDelta(t, 4.5, r.MeanValence, 1e-12)
	assert.Equal(t, v3(1, 1, 1), r.Dimensions)
}

func TestAnalyzeOpenMesh(t *testing.T) {
	m := trimesh.FromFaces(
		[]geometry.Vector3{v3(0, 0, 0), v3(1, 0, 0), v3(1, 1, 0), v3(0, 1, 0)},
		[]trimesh.Face{{0, 1, 2}, {0, 2, 3}},
	)
	r := AnalyzeMesh(m)

	assert.Equal(t, 5, r.EdgeCount)
	assert.Equal(t, 4, r.BoundaryEdges)
	assert.False(t, r.Closed)
	assert.Equal(t, 1, r.EulerCharacteristic)
}

func TestAnalyzeEmpty(t *testing.T) {
	r := AnalyzeMesh(trimesh.New())
	assert.Equal(t, 0, r.EdgeCount)
	assert.False(t, r.Closed)
	assert.Zero(t, r.MinEdgeLength)
}

func TestFindEdges(t *testing.T) {
	r := AnalyzeMesh(unitCube())

	longest := FindLongestEdges(r, 6)
	require.Len(t, longest, 6)
	for _, e := range longest {
		assert.InDelta(t, math.Sqrt2, e.Length, 1e-12)
	}

	shortest := FindShortestEdges(r, 100)
	assert.Len(t, shortest, 18)
	assert.InDelta(t, 1.0, shortest[0].Length, 1e-12)

	assert.Len(t, FindEdgesByLength(r, 0.5, 1.2), 12)
}

func TestFindNearestVertex(t *testing.T) {
	idx, dist := FindNearestVertex(unitCube(), v3(0.9, 0.9, 0.9))
	assert.Equal(t, 6, idx)
	assert.InDelta(t, math.Sqrt(0.03), dist, 1e-12)

	idx, _ = FindNearestVertex(trimesh.New(), v3(0, 0, 0))
	assert.Equal(t, -1, idx)
}

func TestSummarizeCurvatureFlat(t *testing.T) {
	m := trimesh.FromFaces(
		[]geometry.Vector3{v3(0, 0, 0), v3(1, 0, 0), v3(1, 1, 0), v3(0, 1, 0)},
		[]trimesh.Face{{0, 1, 2}, {0, 2, 3}},
	)
	s := SummarizeCurvature(m)
	assert.InDelta(t, 0.0, s.MaxMean, 1e-12)
	assert.InDelta(t, 0.0, s.TotalGaussian, 1e-12)

	assert.Equal(t, CurvatureSummary{}, SummarizeCurvature(trimesh.New()))
}

func TestAnalyzeTetMesh(t *testing.T) {
	nodes := []geometry.Vector3{v3(0, 0, 0), v3(1, 0, 0), v3(0, 1, 0), v3(0, 0, 1)}
	m := tetmesh.FromElements(nodes, []tetmesh.Element{{0, 1, 2, 3}})

	r := AnalyzeTetMesh(m)
	assert.Equal(t, 4, r.NodeCount)
	assert.Equal(t, 1, r.ElementCount)
	assert.InDelta(t, 1.0/6, r.TotalVolume, 1e-12)
	assert.InDelta(t, math.Acos(1/math.Sqrt(3)), r.MinDihedral, 1e-12)
	assert.InDelta(t, math.Pi/2, r.MaxDihedral, 1e-12)
	assert.InDelta(t, 0.5, r.MinFacetArea, 1e-12)
	assert.Equal(t, 4, r.SurfaceFaces)
	assert.True(t, r.SurfaceReport.Closed)
	assert.InDelta(t, 1.0/6, r.SurfaceReport.Volume, 1e-12)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "1.500000 mm", FormatMeasurement(1.5, "mm"))
	assert.Equal(t, "2.000000 units", FormatMeasurement(2, ""))
	assert.Equal(t, "(1.000000, 2.000000, 3.000000)", FormatVector(v3(1, 2, 3)))
	assert.Equal(t, "90.000°", FormatAngle(math.Pi/2))
}
