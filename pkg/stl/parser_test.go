package stl

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/philipparndt/gotrimesh/pkg/trimesh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const asciiSquare = `solid square
  facet normal 0 0 1
    outer loop
      vertex 0 0 0
      vertex 1 0 0
      vertex 1 1 0
    endloop
  endfacet
  facet normal 0 0 1
    outer loop
      vertex 0 0 0
      vertex 1 1 0
      vertex 0 1 -0
    endloop
  endfacet
endsolid square
`

func binarySTL(header string, tris [][3][3]float32) []byte {
	var buf bytes.Buffer
	h := make([]byte, binaryHeaderSize)
	copy(h, header)
	buf.Write(h)
	_ = binary.Write(&buf, binary.LittleEndian, uint32(len(tris)))
	for _, t := range tris {
		_ = binary.Write(&buf, binary.LittleEndian, record{V1: t[0], V2: t[1], V3: t[2]})
	}
	return buf.Bytes()
}

var squareTris = [][3][3]float32{
	{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}},
	{{0, 0, 0}, {1, 1, 0}, {0, 1, 0}},
}

func TestReadASCII(t *testing.T) {
	m, err := Read(bytes.NewReader([]byte(asciiSquare)))
	require.NoError(t, err)

	assert.Equal(t, "square", m.Name)
	assert.Equal(t, 2, m.TriangleCount())
	assert.Len(t, m.Vertices, 4, "shared corners are welded")
	assert.Equal(t, []trimesh.Face{{0, 1, 2}, {0, 2, 3}}, m.Faces)
}

func TestReadBinary(t *testing.T) {
	m, err := Read(bytes.NewReader(binarySTL("binary square", squareTris)))
	require.NoError(t, err)

	assert.Equal(t, "binary square", m.Name)
	assert.Len(t, m.Vertices, 4)
	assert.InDelta(t, 1.0, m.Mesh().Stat(trimesh.StatTotal, trimesh.StatFaceArea), 1e-6)
}

func TestReadBinaryWithSolidHeader(t *testing.T) {
	m, err := Read(bytes.NewReader(binarySTL("solid exported by a CAD tool", squareTris)))
	require.NoError(t, err)
	assert.Equal(t, 2, m.TriangleCount())
}

func TestReadErrors(t *testing.T) {
	_, err := Read(bytes.NewReader(nil))
	assert.Error(t, err)

	data := binarySTL("short", squareTris)
	_, err = Read(bytes.NewReader(data[:len(data)-10]))
	assert.Error(t, err)

	_, err = Read(bytes.NewReader([]byte("solid x\nfacet normal 0 0 1\nvertex 0 zero 0\n")))
	assert.Error(t, err)
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "square.stl")
	require.NoError(t, os.WriteFile(path, []byte(asciiSquare), 0o644))

	m, err := Parse(path)
	require.NoError(t, err)
	mesh := m.Mesh()
	require.Equal(t, 2, mesh.FaceCount())
	assert.Equal(t, 1, mesh.AcrossEdge()[0][1])

	_, err = Parse(filepath.Join(t.TempDir(), "missing.stl"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestModelTriangle(t *testing.T) {
	m, err := Read(bytes.NewReader([]byte(asciiSquare)))
	require.NoError(t, err)

	tri := m.Triangle(1)
	assert.InDelta(t, 0.5, tri.Area(), 1e-12)
}
