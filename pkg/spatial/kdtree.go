// Package spatial provides a static k-nearest-neighbour index over a set of
// 3D points.
package spatial

import (
	"math"
	"sort"

	"github.com/philipparndt/gotrimesh/pkg/geometry"
	"gonum.org/v1/gonum/spatial/kdtree"
)

// Neighbor is one result of a nearest-neighbour query
type Neighbor struct {
	Index int
	Point geometry.Vector3
	Dist2 float64
}

// KDTree answers k-closest-point queries over caller-owned points.
// The point slice must not be modified while the tree is in use.
type KDTree struct {
	points []geometry.Vector3
	refs   refs
	tree   *kdtree.Tree
}

// NewKDTree builds the tree. The points are not copied; only an internal
// permutation of references to them is reordered.
func NewKDTree(points []geometry.Vector3) *KDTree {
	t := &KDTree{points: points}
	if len(points) == 0 {
		return t
	}
	t.refs = make(refs, len(points))
	for i := range points {
		t.refs[i] = ref{pos: &points[i], index: i}
	}
	t.tree = kdtree.New(t.refs, true)
	return t
}

// Len returns the number of indexed points
func (t *KDTree) Len() int {
	return len(t.points)
}

// FindKClosest returns up to k points nearest to q, nearest first. Ties in
// distance are ordered by point index. If maxDist2 > 0, points farther than
// sqrt(maxDist2) are excluded. Fewer than k results come back only when the
// set (or the search radius) holds fewer than k points.
func (t *KDTree) FindKClosest(k int, q geometry.Vector3, maxDist2 float64) []Neighbor {
	if k <= 0 || t.tree == nil {
		return nil
	}

	keep := kdtree.NewNKeeper(k)
	if maxDist2 > 0 {
		// The sentinel bounds the search radius until k points are kept.
		keep.Heap[0].Dist = maxDist2
	}
	t.tree.NearestSet(keep, &ref{pos: &q, index: -1})

	out := make([]Neighbor, 0, len(keep.Heap))
	for _, c := range keep.Heap {
		if c.Comparable == nil {
			continue
		}
		r := c.Comparable.(*ref)
		if maxDist2 > 0 && c.Dist > maxDist2 {
			continue
		}
		out = append(out, Neighbor{Index: r.index, Point: *r.pos, Dist2: c.Dist})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Dist2 != out[j].Dist2 {
			return out[i].Dist2 < out[j].Dist2
		}
		return out[i].Index < out[j].Index
	})
	return out
}

// Nearest returns the single closest point to q
func (t *KDTree) Nearest(q geometry.Vector3) (Neighbor, bool) {
	res := t.FindKClosest(1, q, 0)
	if len(res) == 0 {
		return Neighbor{}, false
	}
	return res[0], true
}

// ref points into the caller's slice.
type ref struct {
	pos   *geometry.Vector3
	index int
}

// Compare implements kdtree.Comparable
func (r *ref) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	o := c.(*ref)
	return r.pos.At(int(d)) - o.pos.At(int(d))
}

// Dims implements kdtree.Comparable
func (r *ref) Dims() int { return 3 }

// Distance implements kdtree.Comparable and returns the squared distance
func (r *ref) Distance(c kdtree.Comparable) float64 {
	o := c.(*ref)
	return r.pos.Dist2(*o.pos)
}

type refs []ref

// Index returns the ith element of the list of points.
func (p refs) Index(i int) kdtree.Comparable { return &p[i] }

// Len returns the length of the list.
func (p refs) Len() int { return len(p) }

// Pivot partitions the list based on the dimension specified.
func (p refs) Pivot(d kdtree.Dim) int {
	pl := plane{dim: int(d), refs: p}
	return kdtree.Partition(pl, kdtree.MedianOfMedians(pl))
}

// Slice returns a slice of the list using zero-based half
// open indexing equivalent to built-in slice indexing.
func (p refs) Slice(start, end int) kdtree.Interface { return p[start:end] }

// Bounds implements the kdtree.Bounder interface.
func (p refs) Bounds() *kdtree.Bounding {
	lo := geometry.Vector3{X: math.MaxFloat64, Y: math.MaxFloat64, Z: math.MaxFloat64}
	hi := geometry.Vector3{X: -math.MaxFloat64, Y: -math.MaxFloat64, Z: -math.MaxFloat64}
	for _, r := range p {
		lo = lo.Min(*r.pos)
		hi = hi.Max(*r.pos)
	}
	return &kdtree.Bounding{
		Min: &ref{pos: &lo, index: -1},
		Max: &ref{pos: &hi, index: -1},
	}
}

type plane struct {
	dim  int
	refs refs
}

func (p plane) Less(i, j int) bool {
	return p.refs[i].Compare(&p.refs[j], kdtree.Dim(p.dim)) < 0
}
func (p plane) Swap(i, j int) {
	p.refs[i], p.refs[j] = p.refs[j], p.refs[i]
}
func (p plane) Len() int {
	return len(p.refs)
}
func (p plane) Slice(start, end int) kdtree.SortSlicer {
	p.refs = p.refs[start:end]
	return p
}
