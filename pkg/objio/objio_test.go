package objio_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chazu/meshalyzer/pkg/mesh"
	"github.com/chazu/meshalyzer/pkg/objio"
)

func TestDecodeBasic(t *testing.T) {
	src := `
# a single triangle
v 0 0 0
v 1 0 0
v 0 1 0
f 1 2 3
`
	m, err := objio.Decode(strings.NewReader(src))
	require.NoError(t, err)
	require.Equal(t, 3, m.VertexCount())
	require.Equal(t, 1, m.FaceCount())
	require.Equal(t, mesh.Face{0, 1, 2}, m.Faces[0])
	require.Equal(t, mesh.Vec3{X: 1, Y: 0, Z: 0}, m.Vertices[1])
}

func TestDecodeSkipsNonGeometry(t *testing.T) {
	src := `
mtllib scene.mtl
o triangle
v 0 0 0
v 1 0 0
v 0 1 0
vt 0.5 0.5
vn 0 0 1
s off
usemtl default
f 1/1/1 2/1/1 3/1/1
`
	m, err := objio.Decode(strings.NewReader(src))
	require.NoError(t, err)
	require.Equal(t, 3, m.VertexCount())
	require.Equal(t, mesh.Face{0, 1, 2}, m.Faces[0])
}

func TestDecodeFanTriangulation(t *testing.T) {
	src := `
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
f 1 2 3 4
`
	m, err := objio.Decode(strings.NewReader(src))
	require.NoError(t, err)
	require.Equal(t, 2, m.FaceCount())
	require.Equal(t, mesh.Face{0, 1, 2}, m.Faces[0])
	require.Equal(t, mesh.Face{0, 2, 3}, m.Faces[1])
}

func TestDecodeNegativeIndices(t *testing.T) {
	src := `
v 0 0 0
v 1 0 0
v 0 1 0
f -3 -2 -1
`
	m, err := objio.Decode(strings.NewReader(src))
	require.NoError(t, err)
	require.Equal(t, mesh.Face{0, 1, 2}, m.Faces[0])
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		wantLine int
	}{
		{"short vertex", "v 1 2\n", 1},
		{"bad coordinate", "v 1 2 x\n", 1},
		{"short face", "v 0 0 0\nf 1 1\n", 2},
		{"zero index", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 0 1 2\n", 4},
		{"index out of range", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 9\n", 4},
		{"negative before first", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 -7\n", 4},
		{"bad reference", "v 0 0 0\nf a b c\n", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := objio.Decode(strings.NewReader(tt.src))
			require.Error(t, err)
			var perr *objio.ParseError
			require.True(t, errors.As(err, &perr), "error = %v, want *ParseError", err)
			require.Equal(t, tt.wantLine, perr.Line)
		})
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	original, err := mesh.New(
		[]mesh.Vec3{{X: 0, Y: 0, Z: 0}, {X: 1.5, Y: 0, Z: 0}, {X: 0, Y: 2.25, Z: 0}, {X: 0, Y: 0, Z: -3}},
		[]mesh.Face{{0, 1, 2}, {0, 1, 3}},
	)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, objio.Encode(&buf, original))

	decoded, err := objio.Decode(&buf)
	require.NoError(t, err)
	require.Equal(t, original.Vertices, decoded.Vertices)
	require.Equal(t, original.Faces, decoded.Faces)
}
