// Package topology analyzes the connectivity of triangle meshes.
// An Analyzer is built once from a mesh snapshot and answers structural
// questions against eagerly-built adjacency indexes: is the surface
// closed (watertight), is it topologically a sphere, and where are its
// boundary loops (holes).
package topology

import "github.com/chazu/meshalyzer/pkg/mesh"

// Edge is an unordered pair of vertex indices, canonicalized so that
// A <= B. An edge shared by two faces with opposite winding therefore
// maps to a single key.
type Edge struct {
	A, B int
}

// MakeEdge returns the canonical edge key for two vertex indices.
func MakeEdge(a, b int) Edge {
	if a > b {
		a, b = b, a
	}
	return Edge{A: a, B: b}
}

// Analyzer holds the derived adjacency indexes for one mesh snapshot.
// It is built in a single pass by New and never mutated afterwards, so
// all queries are pure reads and safe for concurrent callers.
type Analyzer struct {
	mesh *mesh.Mesh

	// edgeFaces maps each canonical edge to the faces containing it,
	// in face insertion order. Exactly 2 faces means interior edge,
	// exactly 1 means boundary edge, 3+ means non-manifold.
	edgeFaces map[Edge][]int

	// vertexFaces maps each referenced vertex to its incident faces,
	// in face insertion order.
	vertexFaces map[int][]int

	// edgeOrder records edges in first-seen order. Go map iteration is
	// randomized; boundary-edge collection and walk tie-breaks iterate
	// this slice instead so hole output is deterministic for a given
	// face ordering.
	edgeOrder []Edge
}

// New builds an Analyzer from a mesh. The mesh's face-index invariant is
// re-checked before any indexing: a face referencing a vertex outside
// the vertex range fails with *mesh.FaceIndexError rather than reading
// out of bounds. (Meshes from mesh.New are already valid; hand-built
// literals may not be.)
func New(m *mesh.Mesh) (*Analyzer, error) {
	n := m.VertexCount()
	a := &Analyzer{
		mesh:        m,
		edgeFaces:   make(map[Edge][]int),
		vertexFaces: make(map[int][]int),
	}

	for fi, f := range m.Faces {
		for _, vi := range f {
			if vi < 0 || vi >= n {
				return nil, &mesh.FaceIndexError{Face: fi, Index: vi, VertexCount: n}
			}
		}

		for _, vi := range f {
			a.vertexFaces[vi] = append(a.vertexFaces[vi], fi)
		}

		edges := [3]Edge{
			MakeEdge(f[0], f[1]),
			MakeEdge(f[1], f[2]),
			MakeEdge(f[2], f[0]),
		}
		for _, e := range edges {
			if _, seen := a.edgeFaces[e]; !seen {
				a.edgeOrder = append(a.edgeOrder, e)
			}
			a.edgeFaces[e] = append(a.edgeFaces[e], fi)
		}
	}
	return a, nil
}

// IsWatertight reports whether every edge is shared by exactly two
// faces, i.e. the surface is a closed 2-manifold with no boundary.
func (a *Analyzer) IsWatertight() bool {
	for _, faces := range a.edgeFaces {
		if len(faces) != 2 {
			return false
		}
	}
	return true
}

// IsSphereLike reports whether the mesh is watertight with Euler
// characteristic V - E + F == 2, i.e. a closed genus-0 surface.
// Watertightness is checked first: the Euler formula alone is necessary
// but not sufficient, and is meaningless for open surfaces.
func (a *Analyzer) IsSphereLike() bool {
	if !a.IsWatertight() {
		return false
	}
	v := a.mesh.VertexCount()
	e := len(a.edgeFaces)
	f := a.mesh.FaceCount()
	return v-e+f == 2
}

// EulerCharacteristic returns V - E + F.
func (a *Analyzer) EulerCharacteristic() int {
	return a.mesh.VertexCount() - len(a.edgeFaces) + a.mesh.FaceCount()
}

// EdgeCount returns the number of distinct edges.
func (a *Analyzer) EdgeCount() int {
	return len(a.edgeFaces)
}

// BoundaryEdgeCount returns the number of edges belonging to exactly
// one face.
func (a *Analyzer) BoundaryEdgeCount() int {
	count := 0
	for _, faces := range a.edgeFaces {
		if len(faces) == 1 {
			count++
		}
	}
	return count
}

// NonManifoldEdges returns the edges shared by three or more faces, in
// first-seen order.
func (a *Analyzer) NonManifoldEdges() []Edge {
	var edges []Edge
	for _, e := range a.edgeOrder {
		if len(a.edgeFaces[e]) > 2 {
			edges = append(edges, e)
		}
	}
	return edges
}

// FacesAroundEdge returns the face indices containing the edge (a, b),
// in face insertion order. The argument order does not matter.
func (a *Analyzer) FacesAroundEdge(va, vb int) []int {
	faces := a.edgeFaces[MakeEdge(va, vb)]
	out := make([]int, len(faces))
	copy(out, faces)
	return out
}

// FacesAroundVertex returns the face indices incident to a vertex, in
// face insertion order.
func (a *Analyzer) FacesAroundVertex(v int) []int {
	faces := a.vertexFaces[v]
	out := make([]int, len(faces))
	copy(out, faces)
	return out
}
