package trimesh

// State tracks whether a derived field holds a current value
type State uint8

const (
	// Uncomputed fields have never been derived since the last Clear.
	Uncomputed State = iota
	// Computed fields are current, even when the result is empty.
	Computed
	// Stale fields were derived from data that has since changed.
	Stale
)

func (s State) String() string {
	switch s {
	case Uncomputed:
		return "uncomputed"
	case Computed:
		return "computed"
	case Stale:
		return "stale"
	}
	return "unknown"
}

// Attr names a derived field
type Attr int

const (
	AttrFaces Attr = iota
	AttrNeighbors
	AttrAdjacentFaces
	AttrAcrossEdge
	AttrNormals
	AttrPointAreas
	AttrCurvatures
	AttrDCurv
	AttrFaceAreas
	AttrEdgeLengths
	AttrBBox
	AttrBSphere
	AttrPacked
	numAttrs
)

var attrNames = [numAttrs]string{
	"faces", "neighbors", "adjacentfaces", "across_edge", "normals",
	"pointareas", "curvatures", "dcurv", "faceareas", "edgelengths",
	"bbox", "bsphere", "packed",
}

func (a Attr) String() string {
	if a < 0 || a >= numAttrs {
		return "unknown"
	}
	return attrNames[a]
}

// dependsOn lists the fields each field is derived from.
var dependsOn = [numAttrs][]Attr{
	AttrNeighbors:     {AttrFaces},
	AttrAdjacentFaces: {AttrFaces},
	AttrAcrossEdge:    {AttrFaces, AttrAdjacentFaces},
	AttrNormals:       {AttrFaces},
	AttrPointAreas:    {AttrFaces},
	AttrCurvatures:    {AttrFaces, AttrNormals, AttrPointAreas},
	AttrDCurv:         {AttrCurvatures},
	AttrFaceAreas:     {AttrFaces},
	AttrEdgeLengths:   {AttrFaces},
	AttrPacked:        {AttrFaces, AttrNormals},
}

// positional fields read vertex positions directly.
var positional = []Attr{
	AttrNormals, AttrPointAreas, AttrCurvatures, AttrDCurv,
	AttrFaceAreas, AttrEdgeLengths, AttrBBox, AttrBSphere, AttrPacked,
}

// State returns the cache state of a derived field
func (m *Mesh) State(a Attr) State {
	return m.states[a]
}

// Invalidate marks a field and everything derived from it as stale
func (m *Mesh) Invalidate(a Attr) {
	m.invalidate(a)
}

func (m *Mesh) invalidate(a Attr) {
	if m.states[a] == Computed {
		m.states[a] = Stale
	}
	for b := Attr(0); b < numAttrs; b++ {
		for _, d := range dependsOn[b] {
			if d == a && m.states[b] == Computed {
				m.invalidate(b)
			}
		}
	}
}

// need runs compute unless a is current. The compute function must itself
// call the Need methods of its prerequisites.
func (m *Mesh) need(a Attr, compute func()) {
	if m.states[a] == Computed {
		return
	}
	compute()
	m.states[a] = Computed
}
