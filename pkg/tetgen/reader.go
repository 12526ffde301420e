// Package tetgen reads tetrahedral meshes in the tetgen .node/.ele/.face
// format.
package tetgen

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/philipparndt/gotrimesh/pkg/diag"
	"github.com/philipparndt/gotrimesh/pkg/geometry"
	"github.com/philipparndt/gotrimesh/pkg/tetmesh"
	"github.com/philipparndt/gotrimesh/pkg/trimesh"
)

// ErrFormat reports a malformed tetgen file
var ErrFormat = errors.New("malformed tetgen file")

// Read loads X.node, X.ele and, when present, X.face given the path of the
// .node file. Without a .face file the surface is derived from the elements.
func Read(nodeFile string, opts ...trimesh.Option) (*tetmesh.Mesh, error) {
	if !strings.HasSuffix(nodeFile, ".node") {
		return nil, fmt.Errorf("%s: expected a .node file", nodeFile)
	}
	base := strings.TrimSuffix(nodeFile, ".node")

	nf, err := os.Open(nodeFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open node file: %w", err)
	}
	defer nf.Close()

	ef, err := os.Open(base + ".ele")
	if err != nil {
		return nil, fmt.Errorf("failed to open element file: %w", err)
	}
	defer ef.Close()

	var face io.Reader
	ff, err := os.Open(base + ".face")
	switch {
	case err == nil:
		defer ff.Close()
		face = ff
	case errors.Is(err, os.ErrNotExist):
		diag.Debugf(trimesh.NewOptions(opts...).Sink, "%s.face not found; surface will be extracted from elements", base)
	default:
		return nil, fmt.Errorf("failed to open face file: %w", err)
	}

	m, err := ReadFrom(nf, ef, face, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", nodeFile, err)
	}
	return m, nil
}

// ReadFrom parses node, element and optional face streams
func ReadFrom(node, ele, face io.Reader, opts ...trimesh.Option) (*tetmesh.Mesh, error) {
	nodes, first, err := parseNodes(node)
	if err != nil {
		return nil, fmt.Errorf("node file: %w", err)
	}
	elements, err := parseElements(ele, first)
	if err != nil {
		return nil, fmt.Errorf("element file: %w", err)
	}

	m := tetmesh.FromElements(nodes, elements, opts...)
	if face != nil {
		faces, err := parseFaces(face, first)
		if err != nil {
			return nil, fmt.Errorf("face file: %w", err)
		}
		m.SetSurfaceFaces(faces)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// lines yields the whitespace-separated fields of each non-empty line,
// with # comments removed.
type lines struct {
	s    *bufio.Scanner
	line int
}

func newLines(r io.Reader) *lines {
	return &lines{s: bufio.NewScanner(r)}
}

func (l *lines) next() ([]string, error) {
	for l.s.Scan() {
		l.line++
		text := l.s.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		if f := strings.Fields(text); len(f) > 0 {
			return f, nil
		}
	}
	if err := l.s.Err(); err != nil {
		return nil, err
	}
	return nil, io.ErrUnexpectedEOF
}

func (l *lines) ints(min int) ([]int, error) {
	f, err := l.next()
	if err != nil {
		return nil, err
	}
	if len(f) < min {
		return nil, fmt.Errorf("%w: line %d: want %d fields, got %d", ErrFormat, l.line, min, len(f))
	}
	out := make([]int, min)
	for i := range out {
		if out[i], err = strconv.Atoi(f[i]); err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrFormat, l.line, err)
		}
	}
	return out, nil
}

// parseNodes returns the nodes and the index of the first one, which sets
// whether the files count from 0 or 1.
func parseNodes(r io.Reader) ([]geometry.Vector3, int, error) {
	l := newLines(r)
	hdr, err := l.ints(2)
	if err != nil {
		return nil, 0, err
	}
	n, dim := hdr[0], hdr[1]
	if dim != 3 {
		return nil, 0, fmt.Errorf("%w: dimension %d", ErrFormat, dim)
	}
	if n <= 0 {
		return nil, 0, fmt.Errorf("%w: no nodes", ErrFormat)
	}

	nodes := make([]geometry.Vector3, n)
	first := 0
	for i := 0; i < n; i++ {
		f, err := l.next()
		if err != nil {
			return nil, 0, fmt.Errorf("node %d: %w", i, err)
		}
		if len(f) < 4 {
			return nil, 0, fmt.Errorf("%w: line %d: node needs an index and 3 coordinates", ErrFormat, l.line)
		}
		idx, err := strconv.Atoi(f[0])
		if err != nil {
			return nil, 0, fmt.Errorf("%w: line %d: %v", ErrFormat, l.line, err)
		}
		if i == 0 {
			first = idx
		}
		var c [3]float64
		for k := range c {
			if c[k], err = strconv.ParseFloat(f[k+1], 64); err != nil {
				return nil, 0, fmt.Errorf("%w: line %d: %v", ErrFormat, l.line, err)
			}
		}
		nodes[i] = geometry.NewVector3(c[0], c[1], c[2])
	}
	return nodes, first, nil
}

func parseElements(r io.Reader, first int) ([]tetmesh.Element, error) {
	l := newLines(r)
	hdr, err := l.ints(2)
	if err != nil {
		return nil, err
	}
	n, per := hdr[0], hdr[1]
	if per < 4 {
		return nil, fmt.Errorf("%w: %d nodes per element", ErrFormat, per)
	}

	elements := make([]tetmesh.Element, n)
	for i := range elements {
		f, err := l.ints(5)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		for j := 0; j < 4; j++ {
			elements[i][j] = f[j+1] - first
		}
	}
	return elements, nil
}

func parseFaces(r io.Reader, first int) ([]trimesh.Face, error) {
	l := newLines(r)
	hdr, err := l.ints(1)
	if err != nil {
		return nil, err
	}

	faces := make([]trimesh.Face, hdr[0])
	for i := range faces {
		f, err := l.ints(4)
		if err != nil {
			return nil, fmt.Errorf("face %d: %w", i, err)
		}
		faces[i] = trimesh.Face{f[1] - first, f[2] - first, f[3] - first}
	}
	return faces, nil
}
