package mesh

import "math"

// Geometric derivations. Each is an independent pass over the stored
// arrays: transforms return a new Mesh, reductions return scalars or
// vectors. None of them touch analyzer state.

// VertexNormals computes per-vertex normals by accumulating the
// unnormalized face normal of every incident triangle, then normalizing.
// The cross-product magnitude weights large faces more heavily, which is
// the usual smooth-shading behavior. Vertices with no incident faces
// (or only degenerate ones) get a zero normal.
func (m *Mesh) VertexNormals() []Vec3 {
	normals := make([]Vec3, len(m.Vertices))

	for _, f := range m.Faces {
		a, b, c := m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]]
		n := b.Sub(a).Cross(c.Sub(a))
		for _, vi := range f {
			normals[vi] = normals[vi].Add(n)
		}
	}

	for i, n := range normals {
		length := math.Sqrt(n.X*n.X + n.Y*n.Y + n.Z*n.Z)
		if length > 1e-12 {
			normals[i] = n.Scale(1 / length)
		}
	}
	return normals
}

// SurfaceArea returns the total area of all triangles. Degenerate
// triangles contribute zero.
func (m *Mesh) SurfaceArea() float64 {
	var total float64
	for _, f := range m.Faces {
		a, b, c := m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]]
		n := b.Sub(a).Cross(c.Sub(a))
		total += 0.5 * math.Sqrt(n.X*n.X+n.Y*n.Y+n.Z*n.Z)
	}
	return total
}

// Bounds returns the axis-aligned bounding box of the vertices.
// An empty mesh returns zero vectors.
func (m *Mesh) Bounds() (min, max Vec3) {
	if len(m.Vertices) == 0 {
		return Vec3{}, Vec3{}
	}
	min, max = m.Vertices[0], m.Vertices[0]
	for _, v := range m.Vertices[1:] {
		min.X = math.Min(min.X, v.X)
		min.Y = math.Min(min.Y, v.Y)
		min.Z = math.Min(min.Z, v.Z)
		max.X = math.Max(max.X, v.X)
		max.Y = math.Max(max.Y, v.Y)
		max.Z = math.Max(max.Z, v.Z)
	}
	return min, max
}

// Scale returns a new Mesh with every vertex scaled uniformly about the
// origin. Faces are shared structurally; they are never mutated.
func (m *Mesh) Scale(f float64) *Mesh {
	vertices := make([]Vec3, len(m.Vertices))
	for i, v := range m.Vertices {
		vertices[i] = v.Scale(f)
	}
	return &Mesh{Vertices: vertices, Faces: m.Faces}
}

// Translate returns a new Mesh with every vertex offset by d.
func (m *Mesh) Translate(d Vec3) *Mesh {
	vertices := make([]Vec3, len(m.Vertices))
	for i, v := range m.Vertices {
		vertices[i] = v.Add(d)
	}
	return &Mesh{Vertices: vertices, Faces: m.Faces}
}

// Merge returns a new Mesh containing the geometry of both meshes.
// The other mesh's face indices are re-based past this mesh's vertices.
// No vertex welding is performed: coincident vertices from the two
// inputs remain distinct, which a topology analysis will report as open
// seams. That is the correct answer for an unwelded concatenation.
func (m *Mesh) Merge(o *Mesh) *Mesh {
	vertices := make([]Vec3, 0, len(m.Vertices)+len(o.Vertices))
	vertices = append(vertices, m.Vertices...)
	vertices = append(vertices, o.Vertices...)

	faces := make([]Face, 0, len(m.Faces)+len(o.Faces))
	faces = append(faces, m.Faces...)
	base := len(m.Vertices)
	for _, f := range o.Faces {
		faces = append(faces, Face{f[0] + base, f[1] + base, f[2] + base})
	}
	return &Mesh{Vertices: vertices, Faces: faces}
}
