package trimesh

import (
	"math"
	"sort"

	"github.com/philipparndt/gotrimesh/internal/parallel"
	"github.com/philipparndt/gotrimesh/pkg/diag"
	"github.com/philipparndt/gotrimesh/pkg/geometry"
	"github.com/philipparndt/gotrimesh/pkg/spatial"
	"gonum.org/v1/gonum/mat"
)

// ReferenceNormal orients point-cloud normals and replaces normals that
// cannot be estimated.
var ReferenceNormal = geometry.NewVector3(0, 0, 1)

// NeedNormals computes unit per-vertex normals.
//
// Meshes given as strips or faces average the face normals of each vertex
// using the weights of Max (1999): each corner adds the cross-product normal
// divided by the squared lengths of its two edges. Unstructured point clouds
// fit a plane to the KNN nearest points of each vertex. Vertices without a
// usable estimate get ReferenceNormal.
func (m *Mesh) NeedNormals() {
	m.need(AttrNormals, func() {
		nv := len(m.vertices)
		m.normals = make([]geometry.Vector3, nv)
		if nv == 0 {
			return
		}

		if len(m.tstrips) > 0 {
			m.stripNormals()
		} else if m.NeedFaces(); len(m.faces) > 0 {
			m.faceNormals()
		} else {
			m.pointCloudNormals()
		}

		unset := normalizeAll(m.normals, m.opts.Workers)
		if unset > 0 {
			diag.Debugf(m.sink(), "%d vertices without incident faces got the reference normal", unset)
		}
		diag.Debugf(m.sink(), "computed normals of %d vertices", nv)
	})
}

// Normals returns the per-vertex unit normals
func (m *Mesh) Normals() []geometry.Vector3 {
	m.NeedNormals()
	return m.normals
}

// maxWeights returns the Max-weighted corner contributions of one triangle,
// or ok=false when an edge has zero length.
func maxWeights(p0, p1, p2 geometry.Vector3) (n0, n1, n2 geometry.Vector3, ok bool) {
	a := p0.Sub(p1)
	b := p1.Sub(p2)
	c := p2.Sub(p0)
	l2a, l2b, l2c := a.Len2(), b.Len2(), c.Len2()
	if l2a == 0 || l2b == 0 || l2c == 0 {
		return n0, n1, n2, false
	}
	fn := a.Cross(b)
	return fn.Mul(1 / (l2a * l2c)), fn.Mul(1 / (l2b * l2a)), fn.Mul(1 / (l2c * l2b)), true
}

func (m *Mesh) stripNormals() {
	nv := len(m.vertices)
	degenerate := 0
	walkStrips(m.tstrips, m.sink(), func(a, b, c int, flip bool) {
		if a < 0 || a >= nv || b < 0 || b >= nv || c < 0 || c >= nv {
			return
		}
		if flip {
			a, b = b, a
		}
		n0, n1, n2, ok := maxWeights(m.vertices[a], m.vertices[b], m.vertices[c])
		if !ok {
			degenerate++
			return
		}
		m.normals[a] = m.normals[a].Add(n0)
		m.normals[b] = m.normals[b].Add(n1)
		m.normals[c] = m.normals[c].Add(n2)
	})
	if degenerate > 0 {
		diag.Warnf(m.sink(), diag.KindDegenerate, "%d degenerate strip triangles skipped", degenerate)
	}
}

// faceNormals computes per-face contributions in parallel into disjoint slots
// and then reduces them in face order, so the sum does not depend on the
// worker count.
func (m *Mesh) faceNormals() {
	nf := len(m.faces)
	contrib := make([][3]geometry.Vector3, nf)
	skip := make([]bool, nf)
	parallel.For(nf, m.opts.Workers, func(_, lo, hi int) {
		for i := lo; i < hi; i++ {
			f := m.faces[i]
			if !m.faceOK(f) {
				skip[i] = true
				continue
			}
			n0, n1, n2, ok := maxWeights(m.vertices[f[0]], m.vertices[f[1]], m.vertices[f[2]])
			if !ok {
				skip[i] = true
				continue
			}
			contrib[i] = [3]geometry.Vector3{n0, n1, n2}
		}
	})

	skipped := 0
	for i, f := range m.faces {
		if skip[i] {
			skipped++
			continue
		}
		for j := 0; j < 3; j++ {
			m.normals[f[j]] = m.normals[f[j]].Add(contrib[i][j])
		}
	}
	if skipped > 0 {
		diag.Warnf(m.sink(), diag.KindDegenerate, "%d degenerate or invalid faces skipped while computing normals", skipped)
	}
}

// pointCloudRadius2 returns the squared search radius for point-cloud
// normals, or 0 for an unlimited search.
func (m *Mesh) pointCloudRadius2(tree *spatial.KDTree) float64 {
	if m.opts.NeighborRadius > 0 {
		return m.opts.NeighborRadius * m.opts.NeighborRadius
	}
	if m.opts.RadiusFactor <= 0 {
		return 0
	}
	nv := len(m.vertices)
	spacing := make([]float64, nv)
	parallel.Each(nv, m.opts.Workers, func(i int) {
		spacing[i] = math.Inf(1)
		for _, n := range tree.FindKClosest(2, m.vertices[i], 0) {
			if n.Index != i {
				spacing[i] = n.Dist2
				break
			}
		}
	})
	sort.Float64s(spacing)
	median := spacing[nv/2]
	if median == 0 || math.IsInf(median, 1) {
		return 0
	}
	return m.opts.RadiusFactor * m.opts.RadiusFactor * median
}

func (m *Mesh) pointCloudNormals() {
	nv := len(m.vertices)
	k := m.opts.KNN
	if k <= 0 {
		k = DefaultKNN
	}
	tree := spatial.NewKDTree(m.vertices)
	maxDist2 := m.pointCloudRadius2(tree)

	chunks := parallel.Chunks(nv, m.opts.Workers)
	buf := diag.NewBuffer(m.sink(), chunks)
	parallel.For(nv, m.opts.Workers, func(c, lo, hi int) {
		out := buf.Slot(c)
		cov := mat.NewSymDense(3, nil)
		var eig mat.EigenSym
		var vecs mat.Dense
		for i := lo; i < hi; i++ {
			p := m.vertices[i]
			knn := tree.FindKClosest(k, p, maxDist2)
			if len(knn) < 3 {
				diag.Warnf(out, diag.KindInsufficientData,
					"vertex %d has %d points within reach; using reference normal", i, len(knn))
				m.normals[i] = ReferenceNormal
				continue
			}

			var acc [3][3]float64
			for _, n := range knn {
				if n.Index == i {
					continue
				}
				d := n.Point.Sub(p)
				for l := 0; l < 3; l++ {
					for q := l; q < 3; q++ {
						acc[l][q] += d.At(l) * d.At(q)
					}
				}
			}
			for l := 0; l < 3; l++ {
				for q := l; q < 3; q++ {
					cov.SetSym(l, q, acc[l][q])
				}
			}
			if !eig.Factorize(cov, true) {
				diag.Warnf(out, diag.KindInsufficientData,
					"vertex %d: covariance eigendecomposition failed; using reference normal", i)
				m.normals[i] = ReferenceNormal
				continue
			}
			// Eigenvalues come back in ascending order.
			eig.VectorsTo(&vecs)
			n := geometry.NewVector3(vecs.At(0, 0), vecs.At(1, 0), vecs.At(2, 0))
			if n.Dot(ReferenceNormal) < 0 {
				n = n.Neg()
			}
			m.normals[i] = n
		}
	})
	buf.Flush()
}

// normalizeAll scales every vector to unit length in place and replaces zero
// vectors with ReferenceNormal. It returns the number of replacements.
func normalizeAll(v []geometry.Vector3, workers int) int {
	unset := make([]bool, len(v))
	parallel.Each(len(v), workers, func(i int) {
		l := v[i].Length()
		if l == 0 || math.IsNaN(l) || math.IsInf(l, 0) {
			v[i] = ReferenceNormal
			unset[i] = true
			return
		}
		v[i] = v[i].Mul(1 / l)
	})
	n := 0
	for _, u := range unset {
		if u {
			n++
		}
	}
	return n
}
