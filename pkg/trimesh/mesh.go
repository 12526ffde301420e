// Package trimesh holds an indexed triangle mesh and derives connectivity and
// differential-geometry attributes from it on demand.
//
// Raw data (vertices plus exactly one of faces, triangle strips or a grid) is
// set once through the Set* methods. Every other field is computed lazily by
// its Need* method and cached until the data it depends on changes. A Mesh is
// not safe for concurrent use; the derivations themselves parallelize their
// inner loops.
//
// Slices returned by getters are owned by the mesh. Modifying them in place,
// instead of going through a setter, leaves the caches out of date; doing so
// is a caller error that the mesh does not detect.
package trimesh

import (
	"errors"
	"fmt"

	"github.com/philipparndt/gotrimesh/pkg/diag"
	"github.com/philipparndt/gotrimesh/pkg/geometry"
)

// GridInvalid marks a hole in a range grid
const GridInvalid = -1

// NoFace is stored in AcrossEdge for boundary edges
const NoFace = -1

var (
	ErrIndexOutOfRange = errors.New("vertex index out of range")
	ErrGridSize        = errors.New("grid size mismatch")
	ErrBadStrip        = errors.New("malformed triangle strip")
)

// Face is a triangle given by three vertex indices
type Face [3]int

// IndexOf returns the corner holding vertex v, or -1
func (f Face) IndexOf(v int) int {
	switch v {
	case f[0]:
		return 0
	case f[1]:
		return 1
	case f[2]:
		return 2
	}
	return -1
}

// Mesh is a triangle mesh with lazily derived attributes
type Mesh struct {
	opts Options

	vertices   []geometry.Vector3
	faces      []Face
	tstrips    []int
	grid       []int
	gridWidth  int
	gridHeight int

	// facesDerived is set when faces were rebuilt from strips or a grid.
	facesDerived bool

	normals       []geometry.Vector3
	pdir1, pdir2  []geometry.Vector3
	curv1, curv2  []float64
	dcurv         [][4]float64
	cornerAreas   [][3]float64
	pointAreas    []float64
	faceAreas     []float64
	edgeLengths   [][3]float64
	bbox          geometry.BoundingBox
	bsphere       geometry.Sphere
	neighbors     [][]int
	adjacentFaces [][]int
	acrossEdge    []Face
	packed        Packed

	states [numAttrs]State
}

// New creates an empty mesh
func New(opts ...Option) *Mesh {
	m := &Mesh{opts: NewOptions(opts...)}
	m.gridWidth, m.gridHeight = -1, -1
	return m
}

// FromFaces creates a mesh from vertices and faces
func FromFaces(vertices []geometry.Vector3, faces []Face, opts ...Option) *Mesh {
	m := New(opts...)
	m.SetVertices(vertices)
	m.SetFaces(faces)
	return m
}

// Options returns the mesh configuration
func (m *Mesh) Options() Options {
	return m.opts
}

func (m *Mesh) sink() diag.Sink {
	if m.opts.Sink == nil {
		return diag.Discard
	}
	return m.opts.Sink
}

// Vertices returns the vertex positions
func (m *Mesh) Vertices() []geometry.Vector3 {
	return m.vertices
}

// VertexCount returns the number of vertices
func (m *Mesh) VertexCount() int {
	return len(m.vertices)
}

// SetVertices replaces the vertex positions. Fields that read positions are
// marked stale; when the vertex count changes so are the per-vertex topology
// fields.
func (m *Mesh) SetVertices(v []geometry.Vector3) {
	resized := len(v) != len(m.vertices)
	m.vertices = v
	if resized {
		m.invalidate(AttrNeighbors)
		m.invalidate(AttrAdjacentFaces)
	}
	if m.facesDerived && len(m.grid) > 0 {
		// Grid triangulation picks diagonals by length.
		m.invalidate(AttrFaces)
	}
	for _, a := range positional {
		m.invalidate(a)
	}
}

// Faces returns the faces, rebuilding them from strips or a grid if needed
func (m *Mesh) Faces() []Face {
	m.NeedFaces()
	return m.faces
}

// FaceCount returns the number of faces after NeedFaces
func (m *Mesh) FaceCount() int {
	return len(m.Faces())
}

// SetFaces makes f the canonical topology and drops strips and grid
func (m *Mesh) SetFaces(f []Face) {
	m.tstrips = nil
	m.grid = nil
	m.gridWidth, m.gridHeight = -1, -1
	m.faces = f
	m.facesDerived = false
	m.invalidate(AttrFaces)
	m.states[AttrFaces] = Computed
}

// TStrips returns the length-prefixed triangle strips, if any
func (m *Mesh) TStrips() []int {
	return m.tstrips
}

// SetTStrips makes length-prefixed strips the canonical topology.
// Each strip is stored as its vertex count followed by that many indices.
func (m *Mesh) SetTStrips(strips []int) {
	m.grid = nil
	m.gridWidth, m.gridHeight = -1, -1
	m.tstrips = strips
	m.faces = nil
	m.invalidate(AttrFaces)
	m.states[AttrFaces] = Uncomputed
}

// Grid returns the range grid and its dimensions
func (m *Mesh) Grid() (grid []int, width, height int) {
	return m.grid, m.gridWidth, m.gridHeight
}

// SetGrid makes a width x height index grid the canonical topology.
// Entries equal to GridInvalid are holes.
func (m *Mesh) SetGrid(grid []int, width, height int) error {
	if width*height != len(grid) || width < 0 || height < 0 {
		return fmt.Errorf("%w: %dx%d grid with %d entries", ErrGridSize, width, height, len(grid))
	}
	m.tstrips = nil
	m.grid = grid
	m.gridWidth, m.gridHeight = width, height
	m.faces = nil
	m.invalidate(AttrFaces)
	m.states[AttrFaces] = Uncomputed
	return nil
}

// Clear resets all raw and derived data
func (m *Mesh) Clear() {
	opts := m.opts
	*m = Mesh{opts: opts}
	m.gridWidth, m.gridHeight = -1, -1
}

// Validate checks that every face and strip index addresses a vertex
func (m *Mesh) Validate() error {
	nv := len(m.vertices)
	for i, f := range m.faces {
		for j := 0; j < 3; j++ {
			if f[j] < 0 || f[j] >= nv {
				return fmt.Errorf("%w: face %d corner %d = %d (have %d vertices)", ErrIndexOutOfRange, i, j, f[j], nv)
			}
		}
	}
	for i := 0; i < len(m.tstrips); {
		n := m.tstrips[i]
		if n < 3 || i+1+n > len(m.tstrips) {
			return fmt.Errorf("%w: header %d at offset %d", ErrBadStrip, n, i)
		}
		for _, v := range m.tstrips[i+1 : i+1+n] {
			if v < 0 || v >= nv {
				return fmt.Errorf("%w: strip index %d (have %d vertices)", ErrIndexOutOfRange, v, nv)
			}
		}
		i += n + 1
	}
	for _, v := range m.grid {
		if v != GridInvalid && (v < 0 || v >= nv) {
			return fmt.Errorf("%w: grid index %d (have %d vertices)", ErrIndexOutOfRange, v, nv)
		}
	}
	return nil
}

// faceOK reports whether all corners of f address a vertex.
func (m *Mesh) faceOK(f Face) bool {
	nv := len(m.vertices)
	return f[0] >= 0 && f[0] < nv && f[1] >= 0 && f[1] < nv && f[2] >= 0 && f[2] < nv
}

// triangle returns the positions of face f
func (m *Mesh) triangle(f int) geometry.Triangle {
	fc := m.faces[f]
	return geometry.NewTriangle(m.vertices[fc[0]], m.vertices[fc[1]], m.vertices[fc[2]])
}
