package trimesh

import "github.com/philipparndt/gotrimesh/pkg/diag"

// NeedFaces rebuilds faces from triangle strips or the grid when faces were
// not given directly
func (m *Mesh) NeedFaces() {
	m.need(AttrFaces, func() {
		if len(m.faces) > 0 && !m.facesDerived {
			return
		}
		m.faces = nil
		m.facesDerived = false
		switch {
		case len(m.tstrips) > 0:
			m.unpackTStrips()
			m.facesDerived = true
		case len(m.grid) > 0:
			m.triangulateGrid()
			m.facesDerived = true
		}
	})
}

// walkStrips calls fn for each triangle of the strips, with flip set on
// every other triangle of a strip. It stops at the first malformed header.
func walkStrips(strips []int, sink diag.Sink, fn func(a, b, c int, flip bool)) {
	for i := 0; i < len(strips); {
		n := strips[i]
		if n < 3 || i+1+n > len(strips) {
			diag.Warnf(sink, diag.KindMalformed, "strip header %d at offset %d; ignoring the rest", n, i)
			return
		}
		s := strips[i+1 : i+1+n]
		flip := false
		for j := 2; j < n; j++ {
			fn(s[j-2], s[j-1], s[j], flip)
			flip = !flip
		}
		i += n + 1
	}
}

func (m *Mesh) unpackTStrips() {
	nfaces := 0
	for i := 0; i < len(m.tstrips); {
		n := m.tstrips[i]
		if n < 3 || i+1+n > len(m.tstrips) {
			break
		}
		nfaces += n - 2
		i += n + 1
	}
	m.faces = make([]Face, 0, nfaces)
	walkStrips(m.tstrips, m.sink(), func(a, b, c int, flip bool) {
		if flip {
			m.faces = append(m.faces, Face{b, a, c})
		} else {
			m.faces = append(m.faces, Face{a, b, c})
		}
	})
	diag.Debugf(m.sink(), "unpacked %d faces from triangle strips", len(m.faces))
}

// triangulateGrid emits two triangles per fully valid cell, split along the
// shorter diagonal, and one triangle per cell with exactly three valid
// corners.
func (m *Mesh) triangulateGrid() {
	w, h := m.gridWidth, m.gridHeight
	if w*h != len(m.grid) {
		diag.Warnf(m.sink(), diag.KindMalformed, "grid size mismatch: %dx%d vs %d entries", w, h, len(m.grid))
		return
	}
	nv := len(m.vertices)
	valid := func(i int) bool {
		v := m.grid[i]
		return v >= 0 && v < nv
	}

	for j := 0; j < h-1; j++ {
		for i := 0; i < w-1; i++ {
			ll := i + j*w
			lr := ll + 1
			ul := ll + w
			ur := ul + 1
			nvalid := 0
			for _, c := range [4]int{ll, lr, ul, ur} {
				if valid(c) {
					nvalid++
				}
			}
			g := m.grid
			switch {
			case nvalid == 4:
				llur := m.vertices[g[ll]].Dist2(m.vertices[g[ur]])
				lrul := m.vertices[g[lr]].Dist2(m.vertices[g[ul]])
				if llur < lrul {
					m.faces = append(m.faces, Face{g[ll], g[lr], g[ur]}, Face{g[ll], g[ur], g[ul]})
				} else {
					m.faces = append(m.faces, Face{g[ll], g[lr], g[ul]}, Face{g[lr], g[ur], g[ul]})
				}
			case nvalid == 3 && !valid(ll):
				m.faces = append(m.faces, Face{g[lr], g[ur], g[ul]})
			case nvalid == 3 && !valid(lr):
				m.faces = append(m.faces, Face{g[ll], g[ur], g[ul]})
			case nvalid == 3 && !valid(ul):
				m.faces = append(m.faces, Face{g[ll], g[lr], g[ur]})
			case nvalid == 3:
				m.faces = append(m.faces, Face{g[ll], g[lr], g[ul]})
			}
		}
	}
	diag.Debugf(m.sink(), "triangulated %dx%d grid into %d faces", w, h, len(m.faces))
}
