package trimesh

import (
	"math"

	"github.com/philipparndt/gotrimesh/internal/parallel"
	"github.com/philipparndt/gotrimesh/pkg/diag"
	"github.com/philipparndt/gotrimesh/pkg/geometry"
	"gonum.org/v1/gonum/mat"
)

// Curvature estimation after Rusinkiewicz, "Estimating Curvatures and Their
// Derivatives on Triangle Meshes" (3DPVT 2004). Each face fits a second
// fundamental form to the change of vertex normals along its edges; the
// per-face tensors are reprojected into per-vertex frames and averaged with
// corner-area weights.

// faceFrame is a face's orthonormal tangent basis and edge vectors.
type faceFrame struct {
	t, b geometry.Vector3
	e    [3]geometry.Vector3
}

func newFaceFrame(p0, p1, p2 geometry.Vector3) faceFrame {
	e := [3]geometry.Vector3{p2.Sub(p1), p0.Sub(p2), p1.Sub(p0)}
	t := e[0].Normalize()
	n := e[0].Cross(e[1])
	b := n.Cross(t).Normalize()
	return faceFrame{t: t, b: b, e: e}
}

// rotateFrame rotates the basis (u, v) so that it is perpendicular to n.
func rotateFrame(u, v, n geometry.Vector3) (geometry.Vector3, geometry.Vector3) {
	oldN := u.Cross(v)
	ndot := oldN.Dot(n)
	if ndot <= -1 {
		return u.Neg(), v.Neg()
	}
	perpOld := n.Sub(oldN.Mul(ndot))
	dperp := oldN.Add(n).Mul(1 / (1 + ndot))
	u = u.Sub(dperp.Mul(u.Dot(perpOld)))
	v = v.Sub(dperp.Mul(v.Dot(perpOld)))
	return u, v
}

// projectCurv re-expresses the tensor (ku, kuv, kv) given in basis
// (oldU, oldV) in basis (newU, newV).
func projectCurv(oldU, oldV geometry.Vector3, ku, kuv, kv float64, newU, newV geometry.Vector3) (float64, float64, float64) {
	ru, rv := rotateFrame(newU, newV, oldU.Cross(oldV))
	u1, v1 := ru.Dot(oldU), ru.Dot(oldV)
	u2, v2 := rv.Dot(oldU), rv.Dot(oldV)
	nku := ku*u1*u1 + kuv*(2*u1*v1) + kv*v1*v1
	nkuv := ku*u1*u2 + kuv*(u1*v2+u2*v1) + kv*v1*v2
	nkv := ku*u2*u2 + kuv*(2*u2*v2) + kv*v2*v2
	return nku, nkuv, nkv
}

// projectDCurv is projectCurv for the third-order tensor.
func projectDCurv(oldU, oldV geometry.Vector3, d [4]float64, newU, newV geometry.Vector3) [4]float64 {
	ru, rv := rotateFrame(newU, newV, oldU.Cross(oldV))
	u1, v1 := ru.Dot(oldU), ru.Dot(oldV)
	u2, v2 := rv.Dot(oldU), rv.Dot(oldV)
	return [4]float64{
		d[0]*u1*u1*u1 + d[1]*3*u1*u1*v1 + d[2]*3*u1*v1*v1 + d[3]*v1*v1*v1,
		d[0]*u1*u1*u2 + d[1]*(u1*u1*v2+2*u2*u1*v1) + d[2]*(u2*v1*v1+2*u1*v1*v2) + d[3]*v1*v1*v2,
		d[0]*u1*u2*u2 + d[1]*(u2*u2*v1+2*u1*u2*v2) + d[2]*(u1*v2*v2+2*u2*v2*v1) + d[3]*v1*v2*v2,
		d[0]*u2*u2*u2 + d[1]*3*u2*u2*v2 + d[2]*3*u2*v2*v2 + d[3]*v2*v2*v2,
	}
}

// diagonalizeCurv finds principal directions and curvatures of a tensor,
// keeping the directions perpendicular to n. |k1| >= |k2|.
func diagonalizeCurv(oldU, oldV geometry.Vector3, ku, kuv, kv float64, n geometry.Vector3) (pdir1, pdir2 geometry.Vector3, k1, k2 float64) {
	ru, rv := rotateFrame(oldU, oldV, n)

	c, s, tt := 1.0, 0.0, 0.0
	if kuv != 0 {
		// Jacobi rotation
		h := 0.5 * (kv - ku) / kuv
		if h < 0 {
			tt = 1 / (h - math.Sqrt(1+h*h))
		} else {
			tt = 1 / (h + math.Sqrt(1+h*h))
		}
		c = 1 / math.Sqrt(1+tt*tt)
		s = tt * c
	}

	k1 = ku - tt*kuv
	k2 = kv + tt*kuv
	if math.Abs(k1) >= math.Abs(k2) {
		pdir1 = ru.Mul(c).Sub(rv.Mul(s))
	} else {
		k1, k2 = k2, k1
		pdir1 = ru.Mul(s).Add(rv.Mul(c))
	}
	pdir2 = n.Cross(pdir1)
	return pdir1, pdir2, k1, k2
}

// solveSym solves A x = rhs for a symmetric positive definite A given by its
// upper triangle in row-major order.
func solveSym(n int, upper []float64, rhs []float64) ([]float64, bool) {
	a := mat.NewSymDense(n, upper)
	var chol mat.Cholesky
	if !chol.Factorize(a) {
		return nil, false
	}
	var x mat.VecDense
	if err := chol.SolveVecTo(&x, mat.NewVecDense(n, rhs)); err != nil {
		return nil, false
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = x.AtVec(i)
	}
	return out, true
}

// NeedCurvatures computes principal curvatures and directions per vertex
func (m *Mesh) NeedCurvatures() {
	m.need(AttrCurvatures, func() {
		m.NeedFaces()
		m.NeedNormals()
		m.NeedPointAreas()
		nv, nf := len(m.vertices), len(m.faces)
		m.curv1 = make([]float64, nv)
		m.curv2 = make([]float64, nv)
		m.pdir1 = make([]geometry.Vector3, nv)
		m.pdir2 = make([]geometry.Vector3, nv)
		curv12 := make([]float64, nv)

		// Initial tangent frame per vertex
		for _, f := range m.faces {
			if !m.faceOK(f) {
				continue
			}
			m.pdir1[f[0]] = m.vertices[f[1]].Sub(m.vertices[f[0]])
			m.pdir1[f[1]] = m.vertices[f[2]].Sub(m.vertices[f[1]])
			m.pdir1[f[2]] = m.vertices[f[0]].Sub(m.vertices[f[2]])
		}
		for i := 0; i < nv; i++ {
			m.pdir1[i] = m.pdir1[i].Cross(m.normals[i]).Normalize()
			m.pdir2[i] = m.normals[i].Cross(m.pdir1[i])
		}

		// Per-face second fundamental form, in the face's own frame
		type faceCurv struct {
			frame faceFrame
			k     [3]float64
			ok    bool
		}
		fc := make([]faceCurv, nf)
		parallel.Each(nf, m.opts.Workers, func(i int) {
			f := m.faces[i]
			if !m.faceOK(f) {
				return
			}
			fr := newFaceFrame(m.vertices[f[0]], m.vertices[f[1]], m.vertices[f[2]])
			var rhs [3]float64
			var w00, w01, w22 float64
			for j := 0; j < 3; j++ {
				u := fr.e[j].Dot(fr.t)
				v := fr.e[j].Dot(fr.b)
				w00 += u * u
				w01 += u * v
				w22 += v * v
				dn := m.normals[f[(j+2)%3]].Sub(m.normals[f[(j+1)%3]])
				dnu := dn.Dot(fr.t)
				dnv := dn.Dot(fr.b)
				rhs[0] += dnu * u
				rhs[1] += dnu*v + dnv*u
				rhs[2] += dnv * v
			}
			upper := []float64{
				w00, w01, 0,
				w01, w00 + w22, w01,
				0, w01, w22,
			}
			k, ok := solveSym(3, upper, rhs[:])
			if !ok {
				return
			}
			fc[i] = faceCurv{frame: fr, k: [3]float64{k[0], k[1], k[2]}, ok: true}
		})

		skipped := 0
		for i, f := range m.faces {
			if !fc[i].ok {
				skipped++
				continue
			}
			fr := fc[i].frame
			for j := 0; j < 3; j++ {
				vj := f[j]
				if m.pointAreas[vj] == 0 {
					continue
				}
				c1, c12, c2 := projectCurv(fr.t, fr.b, fc[i].k[0], fc[i].k[1], fc[i].k[2], m.pdir1[vj], m.pdir2[vj])
				wt := m.cornerAreas[i][j] / m.pointAreas[vj]
				m.curv1[vj] += wt * c1
				curv12[vj] += wt * c12
				m.curv2[vj] += wt * c2
			}
		}
		if skipped > 0 {
			diag.Warnf(m.sink(), diag.KindDegenerate, "%d faces skipped while fitting curvature", skipped)
		}

		parallel.Each(nv, m.opts.Workers, func(i int) {
			m.pdir1[i], m.pdir2[i], m.curv1[i], m.curv2[i] =
				diagonalizeCurv(m.pdir1[i], m.pdir2[i], m.curv1[i], curv12[i], m.curv2[i], m.normals[i])
		})
		diag.Debugf(m.sink(), "computed curvatures of %d vertices", nv)
	})
}

// Curvatures returns the principal curvatures (curv1, curv2) and directions
// (pdir1, pdir2) of every vertex
func (m *Mesh) Curvatures() (curv1, curv2 []float64, pdir1, pdir2 []geometry.Vector3) {
	m.NeedCurvatures()
	return m.curv1, m.curv2, m.pdir1, m.pdir2
}

// NeedDCurv computes the derivative of curvature per vertex, as the four
// distinct components of the third-order tensor in the (pdir1, pdir2) frame
func (m *Mesh) NeedDCurv() {
	m.need(AttrDCurv, func() {
		m.NeedCurvatures()
		nv, nf := len(m.vertices), len(m.faces)
		m.dcurv = make([][4]float64, nv)

		type faceDCurv struct {
			frame faceFrame
			d     [4]float64
			ok    bool
		}
		fd := make([]faceDCurv, nf)
		parallel.Each(nf, m.opts.Workers, func(i int) {
			f := m.faces[i]
			if !m.faceOK(f) {
				return
			}
			fr := newFaceFrame(m.vertices[f[0]], m.vertices[f[1]], m.vertices[f[2]])

			// Curvature tensor of each vertex in this face's frame
			var fcurv [3][3]float64
			for j := 0; j < 3; j++ {
				vj := f[j]
				a, b, c := projectCurv(m.pdir1[vj], m.pdir2[vj], m.curv1[vj], 0, m.curv2[vj], fr.t, fr.b)
				fcurv[j] = [3]float64{a, b, c}
			}

			var rhs [4]float64
			var w00, w01, w33 float64
			for j := 0; j < 3; j++ {
				prev, next := fcurv[(j+2)%3], fcurv[(j+1)%3]
				d := [3]float64{prev[0] - next[0], prev[1] - next[1], prev[2] - next[2]}
				u := fr.e[j].Dot(fr.t)
				v := fr.e[j].Dot(fr.b)
				w00 += u * u
				w01 += u * v
				w33 += v * v
				rhs[0] += u * d[0]
				rhs[1] += v*d[0] + 2*u*d[1]
				rhs[2] += 2*v*d[1] + u*d[2]
				rhs[3] += v * d[2]
			}
			upper := []float64{
				w00, w01, 0, 0,
				w01, 2*w00 + w33, 2 * w01, 0,
				0, 2 * w01, w00 + 2*w33, w01,
				0, 0, w01, w33,
			}
			d, ok := solveSym(4, upper, rhs[:])
			if !ok {
				return
			}
			fd[i] = faceDCurv{frame: fr, d: [4]float64{d[0], d[1], d[2], d[3]}, ok: true}
		})

		for i, f := range m.faces {
			if !fd[i].ok {
				continue
			}
			fr := fd[i].frame
			for j := 0; j < 3; j++ {
				vj := f[j]
				if m.pointAreas[vj] == 0 {
					continue
				}
				vd := projectDCurv(fr.t, fr.b, fd[i].d, m.pdir1[vj], m.pdir2[vj])
				wt := m.cornerAreas[i][j] / m.pointAreas[vj]
				for k := 0; k < 4; k++ {
					m.dcurv[vj][k] += wt * vd[k]
				}
			}
		}
		diag.Debugf(m.sink(), "computed curvature derivatives of %d vertices", nv)
	})
}

// DCurv returns the curvature derivative tensor of every vertex
func (m *Mesh) DCurv() [][4]float64 {
	m.NeedDCurv()
	return m.dcurv
}
