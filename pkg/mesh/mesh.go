// Package mesh defines the triangle mesh data record for meshalyzer.
// A Mesh is immutable by convention: transforms return new values and
// never mutate in place, so analyzers built from a Mesh snapshot stay
// consistent regardless of later operations.
package mesh

import "fmt"

// Vec3 is a 3D point or vector.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Add returns the component-wise sum v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

// Sub returns the component-wise difference v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z}
}

// Scale returns v scaled by f.
func (v Vec3) Scale(f float64) Vec3 {
	return Vec3{X: v.X * f, Y: v.Y * f, Z: v.Z * f}
}

// Cross returns the cross product v x o.
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		X: v.Y*o.Z - v.Z*o.Y,
		Y: v.Z*o.X - v.X*o.Z,
		Z: v.X*o.Y - v.Y*o.X,
	}
}

// Face is a triangle referencing three vertex indices.
type Face [3]int

// Mesh is a triangulated surface: an ordered vertex sequence (insertion
// order is the vertex index used everywhere else) and an ordered face
// sequence of vertex-index triples.
type Mesh struct {
	Vertices []Vec3 `json:"vertices"`
	Faces    []Face `json:"faces"`
}

// FaceIndexError reports a face referencing a vertex index outside the
// vertex range. This is the malformed-mesh condition: it is surfaced at
// construction time and never silently clamped.
type FaceIndexError struct {
	Face        int // face index containing the bad reference
	Index       int // the out-of-range vertex index
	VertexCount int
}

func (e *FaceIndexError) Error() string {
	return fmt.Sprintf("malformed mesh: face %d references vertex %d (mesh has %d vertices)",
		e.Face, e.Index, e.VertexCount)
}

// New constructs a Mesh from raw coordinate and index data, validating
// that every face references only existing vertices. An out-of-range
// index returns a *FaceIndexError; the mesh is never partially built.
func New(vertices []Vec3, faces []Face) (*Mesh, error) {
	m := &Mesh{Vertices: vertices, Faces: faces}
	if err := m.checkFaceIndices(); err != nil {
		return nil, err
	}
	return m, nil
}

// checkFaceIndices verifies the face-index invariant: every index is in
// [0, VertexCount).
func (m *Mesh) checkFaceIndices() error {
	n := len(m.Vertices)
	for fi, f := range m.Faces {
		for _, vi := range f {
			if vi < 0 || vi >= n {
				return &FaceIndexError{Face: fi, Index: vi, VertexCount: n}
			}
		}
	}
	return nil
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// FaceCount returns the number of triangular faces.
func (m *Mesh) FaceCount() int {
	return len(m.Faces)
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}
