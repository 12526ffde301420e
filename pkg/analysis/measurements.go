package analysis

import (
	"fmt"
	"math"
	"sort"

	"github.com/philipparndt/gotrimesh/pkg/geometry"
	"github.com/philipparndt/gotrimesh/pkg/spatial"
	"github.com/philipparndt/gotrimesh/pkg/tetmesh"
	"github.com/philipparndt/gotrimesh/pkg/trimesh"
)

// EdgeInfo describes an undirected edge of a triangle mesh
type EdgeInfo struct {
	Start, End int
	Length     float64
	// Face is the first face using the edge; Across is the face on the
	// other side, or trimesh.NoFace on a boundary.
	Face, Across int
}

// MeasurementResult contains measurements of a triangle mesh
type MeasurementResult struct {
	BoundingBox    geometry.BoundingBox
	Dimensions     geometry.Vector3
	BoundingSphere geometry.Sphere
	SurfaceArea    float64
	// Volume is the enclosed volume; it is meaningful only for closed,
	// consistently oriented meshes.
	Volume        float64
	VertexCount   int
	TriangleCount int
	EdgeCount     int
	BoundaryEdges int
	Closed        bool
	// EulerCharacteristic is V - E + F.
	EulerCharacteristic int
	MinEdgeLength       float64
	MaxEdgeLength       float64
	AvgEdgeLength       float64
	FeatureSize         float64
	MinDihedral         float64
	MaxDihedral         float64
	MeanValence         float64
	AllEdges            []EdgeInfo
}

// AnalyzeMesh performs comprehensive analysis on a triangle mesh
func AnalyzeMesh(mesh *trimesh.Mesh) *MeasurementResult {
	result := &MeasurementResult{
		BoundingBox:    mesh.BBox(),
		BoundingSphere: mesh.BSphere(),
		SurfaceArea:    mesh.Stat(trimesh.StatTotal, trimesh.StatFaceArea),
		VertexCount:    mesh.VertexCount(),
		TriangleCount:  mesh.FaceCount(),
		FeatureSize:    mesh.FeatureSize(),
		MinDihedral:    mesh.Stat(trimesh.StatMin, trimesh.StatDihedral),
		MaxDihedral:    mesh.Stat(trimesh.StatMax, trimesh.StatDihedral),
		MeanValence:    mesh.Stat(trimesh.StatMean, trimesh.StatValence),
	}
	result.Dimensions = result.BoundingBox.Size()
	result.AllEdges = collectEdges(mesh)
	result.EdgeCount = len(result.AllEdges)

	minLength := math.MaxFloat64
	maxLength := 0.0
	totalLength := 0.0
	for _, edge := range result.AllEdges {
		totalLength += edge.Length
		minLength = math.Min(minLength, edge.Length)
		maxLength = math.Max(maxLength, edge.Length)
		if edge.Across == trimesh.NoFace {
			result.BoundaryEdges++
		}
	}
	if result.EdgeCount > 0 {
		result.MinEdgeLength = minLength
		result.MaxEdgeLength = maxLength
		result.AvgEdgeLength = totalLength / float64(result.EdgeCount)
	}

	result.Closed = result.TriangleCount > 0 && result.BoundaryEdges == 0
	result.EulerCharacteristic = result.VertexCount - result.EdgeCount + result.TriangleCount

	v := mesh.Vertices()
	origin := geometry.Vector3{}
	for _, f := range mesh.Faces() {
		if f[0] < 0 || f[0] >= len(v) || f[1] < 0 || f[1] >= len(v) || f[2] < 0 || f[2] >= len(v) {
			continue
		}
		result.Volume += tetmesh.SignedVolume(origin, v[f[0]], v[f[1]], v[f[2]])
	}

	return result
}

// collectEdges lists each undirected edge once, in face order.
func collectEdges(mesh *trimesh.Mesh) []EdgeInfo {
	type key struct{ a, b int }
	v := mesh.Vertices()
	across := mesh.AcrossEdge()
	seen := make(map[key]bool)
	var edges []EdgeInfo
	for i, f := range mesh.Faces() {
		for j := 0; j < 3; j++ {
			a, b := f[(j+1)%3], f[(j+2)%3]
			if a < 0 || a >= len(v) || b < 0 || b >= len(v) || a == b {
				continue
			}
			k := key{a, b}
			if a > b {
				k = key{b, a}
			}
			if seen[k] {
				continue
			}
			seen[k] = true
			edges = append(edges, EdgeInfo{
				Start:  a,
				End:    b,
				Length: v[a].Distance(v[b]),
				Face:   i,
				Across: across[i][j],
			})
		}
	}
	return edges
}

// FindEdgesByLength finds all edges within a length range
func FindEdgesByLength(result *MeasurementResult, minLength, maxLength float64) []EdgeInfo {
	var edges []EdgeInfo
	for _, edge := range result.AllEdges {
		if edge.Length >= minLength && edge.Length <= maxLength {
			edges = append(edges, edge)
		}
	}
	return edges
}

// FindLongestEdges returns the N longest edges in the mesh
func FindLongestEdges(result *MeasurementResult, count int) []EdgeInfo {
	edges := make([]EdgeInfo, len(result.AllEdges))
	copy(edges, result.AllEdges)

	sort.SliceStable(edges, func(i, j int) bool {
		return edges[i].Length > edges[j].Length
	})

	if count > len(edges) {
		count = len(edges)
	}

	return edges[:count]
}

// FindShortestEdges returns the N shortest edges in the mesh
func FindShortestEdges(result *MeasurementResult, count int) []EdgeInfo {
	edges := make([]EdgeInfo, len(result.AllEdges))
	copy(edges, result.AllEdges)

	sort.SliceStable(edges, func(i, j int) bool {
		return edges[i].Length < edges[j].Length
	})

	if count > len(edges) {
		count = len(edges)
	}

	return edges[:count]
}

// FindNearestVertex finds the vertex of the mesh nearest to a given point.
// It returns -1 for an empty mesh.
func FindNearestVertex(mesh *trimesh.Mesh, point geometry.Vector3) (int, float64) {
	n, ok := spatial.NewKDTree(mesh.Vertices()).Nearest(point)
	if !ok {
		return -1, math.Inf(1)
	}
	return n.Index, math.Sqrt(n.Dist2)
}

// CurvatureSummary condenses the per-vertex principal curvatures
type CurvatureSummary struct {
	MinMean, MaxMean, AvgMean             float64
	MinGaussian, MaxGaussian, AvgGaussian float64
	// TotalGaussian integrates Gaussian curvature over the point areas;
	// it approaches 2*pi*chi on closed smooth surfaces.
	TotalGaussian float64
}

// SummarizeCurvature computes mean and Gaussian curvature statistics
func SummarizeCurvature(mesh *trimesh.Mesh) CurvatureSummary {
	curv1, curv2, _, _ := mesh.Curvatures()
	areas := mesh.PointAreas()
	s := CurvatureSummary{
		MinMean: math.Inf(1), MaxMean: math.Inf(-1),
		MinGaussian: math.Inf(1), MaxGaussian: math.Inf(-1),
	}
	n := len(curv1)
	if n == 0 {
		return CurvatureSummary{}
	}
	for i := 0; i < n; i++ {
		h := 0.5 * (curv1[i] + curv2[i])
		k := curv1[i] * curv2[i]
		s.MinMean = math.Min(s.MinMean, h)
		s.MaxMean = math.Max(s.MaxMean, h)
		s.AvgMean += h / float64(n)
		s.MinGaussian = math.Min(s.MinGaussian, k)
		s.MaxGaussian = math.Max(s.MaxGaussian, k)
		s.AvgGaussian += k / float64(n)
		s.TotalGaussian += k * areas[i]
	}
	return s
}

// TetResult contains measurements of a tetrahedral mesh
type TetResult struct {
	NodeCount     int
	ElementCount  int
	TotalVolume   float64
	MinVolume     float64
	MaxVolume     float64
	MinDihedral   float64
	MaxDihedral   float64
	SurfaceFaces  int
	SurfaceArea   float64
	MinFacetArea  float64
	MaxFacetArea  float64
	SurfaceReport *MeasurementResult
}

// tetEdges are the corner pairs of the six edges of a tetrahedron.
var tetEdges = [6][2]int{{0, 1}, {0, 2}, {0, 3}, {1, 2}, {1, 3}, {2, 3}}

// AnalyzeTetMesh measures a tetrahedral mesh and its boundary surface
func AnalyzeTetMesh(mesh *tetmesh.Mesh) *TetResult {
	result := &TetResult{
		NodeCount:    len(mesh.Nodes()),
		ElementCount: len(mesh.Elements()),
	}
	if result.ElementCount > 0 {
		result.MinVolume, result.MinDihedral, result.MinFacetArea = math.Inf(1), math.Inf(1), math.Inf(1)
	}
	for _, vol := range mesh.TetraVolumes() {
		result.TotalVolume += vol
		result.MinVolume = math.Min(result.MinVolume, vol)
		result.MaxVolume = math.Max(result.MaxVolume, vol)
	}
	for _, fa := range mesh.FacetAreas() {
		for _, a := range fa {
			result.MinFacetArea = math.Min(result.MinFacetArea, a)
			result.MaxFacetArea = math.Max(result.MaxFacetArea, a)
		}
	}
	for e := range mesh.Elements() {
		for _, c := range tetEdges {
			d := mesh.Dihedral(e, c[0], c[1])
			result.MinDihedral = math.Min(result.MinDihedral, d)
			result.MaxDihedral = math.Max(result.MaxDihedral, d)
		}
	}

	surface := mesh.Surface()
	result.SurfaceReport = AnalyzeMesh(surface)
	result.SurfaceFaces = result.SurfaceReport.TriangleCount
	result.SurfaceArea = result.SurfaceReport.SurfaceArea
	return result
}

// FormatMeasurement formats a measurement with appropriate units
func FormatMeasurement(value float64, unit string) string {
	if unit == "" {
		unit = "units"
	}
	return fmt.Sprintf("%.6f %s", value, unit)
}

// FormatVector formats a 3D vector
func FormatVector(v geometry.Vector3) string {
	return fmt.Sprintf("(%.6f, %.6f, %.6f)", v.X, v.Y, v.Z)
}

// FormatAngle formats an angle given in radians as degrees
func FormatAngle(rad float64) string {
	return fmt.Sprintf("%.3f°", rad*180/math.Pi)
}
