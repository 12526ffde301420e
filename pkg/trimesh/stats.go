package trimesh

import (
	"math"
	"sort"
)

// StatOp selects how Stat reduces its values
type StatOp int

const (
	StatMin StatOp = iota
	StatMax
	StatMean
	StatMeanAbs
	StatRMS
	StatMedian
	StatStdDev
	StatTotal
)

// StatVal selects the per-element quantity Stat reduces
type StatVal int

const (
	// StatValence is the neighbour count of each vertex.
	StatValence StatVal = iota
	// StatFaceArea is the area of each face.
	StatFaceArea
	// StatAngle is every corner angle.
	StatAngle
	// StatDihedral is the dihedral angle of every interior edge, once per side.
	StatDihedral
	// StatEdgeLen is every face edge, interior edges counted once per side.
	StatEdgeLen
	StatX
	StatY
	StatZ
)

// Stat reduces a per-element quantity of the mesh. It returns 0 when there
// are no values.
func (m *Mesh) Stat(op StatOp, val StatVal) float64 {
	return reduce(op, m.statValues(val))
}

func (m *Mesh) statValues(val StatVal) []float64 {
	var vals []float64
	switch val {
	case StatValence:
		nb := m.Neighbors()
		vals = make([]float64, len(nb))
		for i, n := range nb {
			vals[i] = float64(len(n))
		}
	case StatFaceArea:
		vals = append(vals, m.FaceAreas()...)
	case StatAngle:
		m.NeedFaces()
		for i, f := range m.faces {
			if !m.faceOK(f) {
				continue
			}
			for j := 0; j < 3; j++ {
				vals = append(vals, m.CornerAngle(i, j))
			}
		}
	case StatDihedral:
		ae := m.AcrossEdge()
		for i := range m.faces {
			for j := 0; j < 3; j++ {
				if ae[i][j] >= 0 {
					vals = append(vals, m.Dihedral(i, j))
				}
			}
		}
	case StatEdgeLen:
		m.NeedFaces()
		el := m.EdgeLengths()
		for i, f := range m.faces {
			if !m.faceOK(f) {
				continue
			}
			vals = append(vals, el[i][0], el[i][1], el[i][2])
		}
	case StatX, StatY, StatZ:
		axis := int(val - StatX)
		vals = make([]float64, len(m.vertices))
		for i, v := range m.vertices {
			vals[i] = v.At(axis)
		}
	}
	return vals
}

func reduce(op StatOp, vals []float64) float64 {
	n := len(vals)
	if n == 0 {
		return 0
	}
	switch op {
	case StatMin:
		r := vals[0]
		for _, v := range vals[1:] {
			r = math.Min(r, v)
		}
		return r
	case StatMax:
		r := vals[0]
		for _, v := range vals[1:] {
			r = math.Max(r, v)
		}
		return r
	case StatMean:
		return sum(vals) / float64(n)
	case StatMeanAbs:
		s := 0.0
		for _, v := range vals {
			s += math.Abs(v)
		}
		return s / float64(n)
	case StatRMS:
		s := 0.0
		for _, v := range vals {
			s += v * v
		}
		return math.Sqrt(s / float64(n))
	case StatMedian:
		sorted := append([]float64(nil), vals...)
		sort.Float64s(sorted)
		return sorted[n/2]
	case StatStdDev:
		mean := sum(vals) / float64(n)
		s := 0.0
		for _, v := range vals {
			s += (v - mean) * (v - mean)
		}
		return math.Sqrt(s / float64(n))
	case StatTotal:
		return sum(vals)
	}
	return 0
}

func sum(vals []float64) float64 {
	s := 0.0
	for _, v := range vals {
		s += v
	}
	return s
}

// FeatureSize returns the median edge length, a scale for tolerances
func (m *Mesh) FeatureSize() float64 {
	return m.Stat(StatMedian, StatEdgeLen)
}
