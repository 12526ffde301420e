// Package tetmesh holds a tetrahedral mesh and derives node connectivity,
// element metrics and the boundary surface on demand.
//
// It follows the same cache contract as package trimesh: raw nodes and
// elements are set through setters, derived fields are computed by their
// Need* method and cached until their inputs change. Modifying returned
// slices in place is a caller error.
package tetmesh

import (
	"errors"
	"fmt"

	"github.com/philipparndt/gotrimesh/pkg/diag"
	"github.com/philipparndt/gotrimesh/pkg/geometry"
	"github.com/philipparndt/gotrimesh/pkg/trimesh"
)

// ErrBadElement reports an element whose nodes are not four distinct indices
var ErrBadElement = errors.New("bad tetrahedral element")

// Element is a tetrahedron given by four node indices
type Element [4]int

// IndexOf returns the corner holding node n, or -1
func (e Element) IndexOf(n int) int {
	for i, v := range e {
		if v == n {
			return i
		}
	}
	return -1
}

// Attr names a derived field of a tetrahedral mesh
type Attr int

const (
	AttrNeighbors Attr = iota
	AttrAdjacentElements
	AttrTetraVolumes
	AttrFacetAreas
	AttrSurface
	numAttrs
)

var attrNames = [numAttrs]string{"neighbors", "adjacentelements", "tetravolumes", "facetareas", "surface"}

func (a Attr) String() string {
	if a < 0 || a >= numAttrs {
		return "unknown"
	}
	return attrNames[a]
}

// Mesh is a tetrahedral mesh with lazily derived attributes
type Mesh struct {
	opts []trimesh.Option
	sink diag.Sink

	nodes    []geometry.Vector3
	elements []Element
	// surfaceFaces are boundary faces given by a loader; nil means derive
	// them from the elements.
	surfaceFaces []trimesh.Face

	neighbors        [][]int
	adjacentElements [][]int
	tetraVolumes     []float64
	facetAreas       [][4]float64
	surface          *trimesh.Mesh

	workers int
	states  [numAttrs]trimesh.State
}

// New creates an empty mesh. The options also configure the surface mesh.
func New(opts ...trimesh.Option) *Mesh {
	m := &Mesh{opts: opts}
	o := trimesh.NewOptions(opts...)
	m.workers = o.Workers
	m.sink = o.Sink
	if m.sink == nil {
		m.sink = diag.Discard
	}
	return m
}

// FromElements creates a mesh from nodes and elements
func FromElements(nodes []geometry.Vector3, elements []Element, opts ...trimesh.Option) *Mesh {
	m := New(opts...)
	m.SetNodes(nodes)
	m.SetElements(elements)
	return m
}

// Nodes returns the node positions
func (m *Mesh) Nodes() []geometry.Vector3 {
	return m.nodes
}

// SetNodes replaces the node positions
func (m *Mesh) SetNodes(nodes []geometry.Vector3) {
	if len(nodes) != len(m.nodes) {
		m.invalidate(AttrNeighbors)
		m.invalidate(AttrAdjacentElements)
	}
	m.nodes = nodes
	m.invalidate(AttrTetraVolumes)
	m.invalidate(AttrFacetAreas)
	m.invalidate(AttrSurface)
}

// Elements returns the tetrahedra
func (m *Mesh) Elements() []Element {
	return m.elements
}

// SetElements replaces the tetrahedra
func (m *Mesh) SetElements(elements []Element) {
	m.elements = elements
	for a := Attr(0); a < numAttrs; a++ {
		m.invalidate(a)
	}
}

// SetSurfaceFaces sets the boundary faces explicitly, indexed by node.
// Passing nil makes Surface derive them from the elements again.
func (m *Mesh) SetSurfaceFaces(faces []trimesh.Face) {
	m.surfaceFaces = faces
	m.invalidate(AttrSurface)
}

// State returns the cache state of a derived field
func (m *Mesh) State(a Attr) trimesh.State {
	return m.states[a]
}

// Invalidate marks a derived field as stale
func (m *Mesh) Invalidate(a Attr) {
	m.invalidate(a)
}

func (m *Mesh) invalidate(a Attr) {
	if m.states[a] == trimesh.Computed {
		m.states[a] = trimesh.Stale
	}
}

func (m *Mesh) need(a Attr, compute func()) {
	if m.states[a] == trimesh.Computed {
		return
	}
	compute()
	m.states[a] = trimesh.Computed
}

// Clear resets all raw and derived data
func (m *Mesh) Clear() {
	*m = Mesh{opts: m.opts, sink: m.sink, workers: m.workers}
}

// Validate checks that every element references four distinct nodes
func (m *Mesh) Validate() error {
	nn := len(m.nodes)
	for i, e := range m.elements {
		for j := 0; j < 4; j++ {
			if e[j] < 0 || e[j] >= nn {
				return fmt.Errorf("%w: element %d corner %d = %d (have %d nodes)", trimesh.ErrIndexOutOfRange, i, j, e[j], nn)
			}
			for k := j + 1; k < 4; k++ {
				if e[j] == e[k] {
					return fmt.Errorf("%w: element %d repeats node %d", ErrBadElement, i, e[j])
				}
			}
		}
	}
	for i, f := range m.surfaceFaces {
		for j := 0; j < 3; j++ {
			if f[j] < 0 || f[j] >= nn {
				return fmt.Errorf("%w: surface face %d corner %d = %d (have %d nodes)", trimesh.ErrIndexOutOfRange, i, j, f[j], nn)
			}
		}
	}
	return nil
}

// elementOK reports whether all corners of e address a node.
func (m *Mesh) elementOK(e Element) bool {
	nn := len(m.nodes)
	for _, v := range e {
		if v < 0 || v >= nn {
			return false
		}
	}
	return true
}

func (m *Mesh) corners(e Element) [4]geometry.Vector3 {
	return [4]geometry.Vector3{m.nodes[e[0]], m.nodes[e[1]], m.nodes[e[2]], m.nodes[e[3]]}
}
