package tetmesh

import "github.com/philipparndt/gotrimesh/pkg/diag"

// NeedNeighbors finds, for every node, the nodes sharing an element with it
func (m *Mesh) NeedNeighbors() {
	m.need(AttrNeighbors, func() {
		nn := len(m.nodes)
		m.neighbors = make([][]int, nn)
		counts := m.incidentCounts()
		for i := range m.neighbors {
			m.neighbors[i] = make([]int, 0, counts[i]+3)
		}

		bad := 0
		for _, e := range m.elements {
			if !m.elementOK(e) {
				bad++
				continue
			}
			for j := 0; j < 4; j++ {
				v := e[j]
				me := m.neighbors[v]
				for k := 1; k < 4; k++ {
					n := e[(j+k)%4]
					if n != v && !contains(me, n) {
						me = append(me, n)
					}
				}
				m.neighbors[v] = me
			}
		}
		m.reportBad(bad, "neighbors")
		diag.Debugf(m.sink, "found neighbors of %d nodes", nn)
	})
}

// Neighbors returns the node neighbour lists
func (m *Mesh) Neighbors() [][]int {
	m.NeedNeighbors()
	return m.neighbors
}

// NeedAdjacentElements finds the elements containing each node
func (m *Mesh) NeedAdjacentElements() {
	m.need(AttrAdjacentElements, func() {
		nn := len(m.nodes)
		m.adjacentElements = make([][]int, nn)
		counts := m.incidentCounts()
		for i := range m.adjacentElements {
			m.adjacentElements[i] = make([]int, 0, counts[i])
		}

		bad := 0
		for i, e := range m.elements {
			if !m.elementOK(e) {
				bad++
				continue
			}
			for j := 0; j < 4; j++ {
				if e.IndexOf(e[j]) != j {
					continue
				}
				m.adjacentElements[e[j]] = append(m.adjacentElements[e[j]], i)
			}
		}
		m.reportBad(bad, "adjacent elements")
		diag.Debugf(m.sink, "found adjacent elements of %d nodes", nn)
	})
}

// AdjacentElements returns, for each node, the elements containing it
func (m *Mesh) AdjacentElements() [][]int {
	m.NeedAdjacentElements()
	return m.adjacentElements
}

func (m *Mesh) incidentCounts() []int {
	counts := make([]int, len(m.nodes))
	for _, e := range m.elements {
		if !m.elementOK(e) {
			continue
		}
		for _, v := range e {
			counts[v]++
		}
	}
	return counts
}

func (m *Mesh) reportBad(n int, what string) {
	if n > 0 {
		diag.Warnf(m.sink, diag.KindMalformed, "%d elements with out-of-range node indices skipped while computing %s", n, what)
	}
}

func contains(s []int, v int) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}
