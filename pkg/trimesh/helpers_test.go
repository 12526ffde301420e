package trimesh

import (
	"math"

	"github.com/philipparndt/gotrimesh/pkg/geometry"
)

func v3(x, y, z float64) geometry.Vector3 {
	return geometry.NewVector3(x, y, z)
}

// orientOutward flips faces of a convex mesh whose normal points towards c.
func orientOutward(vertices []geometry.Vector3, faces []Face, c geometry.Vector3) []Face {
	out := make([]Face, len(faces))
	for i, f := range faces {
		p0, p1, p2 := vertices[f[0]], vertices[f[1]], vertices[f[2]]
		n := p1.Sub(p0).Cross(p2.Sub(p0))
		centroid := p0.Add(p1).Add(p2).Mul(1.0 / 3)
		if n.Dot(centroid.Sub(c)) < 0 {
			f[1], f[2] = f[2], f[1]
		}
		out[i] = f
	}
	return out
}

func unitCube() ([]geometry.Vector3, []Face) {
	v := []geometry.Vector3{
		v3(0, 0, 0), v3(1, 0, 0), v3(1, 1, 0), v3(0, 1, 0),
		v3(0, 0, 1), v3(1, 0, 1), v3(1, 1, 1), v3(0, 1, 1),
	}
	f := []Face{
		{0, 2, 1}, {0, 3, 2},
		{4, 5, 6}, {4, 6, 7},
		{0, 1, 5}, {0, 5, 4},
		{3, 7, 6}, {3, 6, 2},
		{0, 4, 7}, {0, 7, 3},
		{1, 2, 6}, {1, 6, 5},
	}
	return v, orientOutward(v, f, v3(0.5, 0.5, 0.5))
}

// icosahedron returns a regular icosahedron inscribed in the unit sphere.
func icosahedron() ([]geometry.Vector3, []Face) {
	phi := (1 + math.Sqrt(5)) / 2
	var raw []geometry.Vector3
	for _, a := range []float64{-1, 1} {
		for _, b := range []float64{-phi, phi} {
			raw = append(raw, v3(0, a, b), v3(a, b, 0), v3(b, 0, a))
		}
	}

	// Edges of the unscaled icosahedron have length 2.
	edge := func(i, j int) bool {
		return math.Abs(raw[i].Dist2(raw[j])-4) < 1e-9
	}
	var faces []Face
	for i := 0; i < len(raw); i++ {
		for j := i + 1; j < len(raw); j++ {
			for k := j + 1; k < len(raw); k++ {
				if edge(i, j) && edge(j, k) && edge(i, k) {
					faces = append(faces, Face{i, j, k})
				}
			}
		}
	}

	v := make([]geometry.Vector3, len(raw))
	for i, p := range raw {
		v[i] = p.Normalize()
	}
	return v, orientOutward(v, faces, v3(0, 0, 0))
}

// flatSquare is two triangles covering the unit square in the z=0 plane.
func flatSquare() ([]geometry.Vector3, []Face) {
	return []geometry.Vector3{v3(0, 0, 0), v3(1, 0, 0), v3(1, 1, 0), v3(0, 1, 0)},
		[]Face{{0, 1, 2}, {0, 2, 3}}
}

// wavyGrid is a w x h height field sampled on a unit lattice.
func wavyGrid(w, h int) ([]geometry.Vector3, []int) {
	v := make([]geometry.Vector3, 0, w*h)
	grid := make([]int, 0, w*h)
	for j := 0; j < h; j++ {
		for i := 0; i < w; i++ {
			x, y := float64(i), float64(j)
			grid = append(grid, len(v))
			v = append(v, v3(x, y, 0.3*math.Sin(0.4*x)*math.Cos(0.3*y)))
		}
	}
	return v, grid
}

func copyNeighbors(nb [][]int) [][]int {
	out := make([][]int, len(nb))
	for i, n := range nb {
		out[i] = append([]int(nil), n...)
	}
	return out
}
