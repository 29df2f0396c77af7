package mesh

import (
	"errors"
	"testing"
)

func TestNewValidMesh(t *testing.T) {
	m, err := New(
		[]Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		[]Face{{0, 1, 2}},
	)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if got := m.VertexCount(); got != 3 {
		t.Errorf("VertexCount() = %d, want 3", got)
	}
	if got := m.FaceCount(); got != 1 {
		t.Errorf("FaceCount() = %d, want 1", got)
	}
}

func TestNewMalformedMesh(t *testing.T) {
	tests := []struct {
		name     string
		vertices []Vec3
		faces    []Face
		wantIdx  int
	}{
		{"index too large", []Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}, []Face{{0, 1, 3}}, 3},
		{"negative index", []Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}, []Face{{0, -1, 2}}, -1},
		{"face on empty mesh", nil, []Face{{0, 1, 2}}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.vertices, tt.faces)
			if err == nil {
				t.Fatal("New() succeeded, want malformed-mesh error")
			}
			var fiErr *FaceIndexError
			if !errors.As(err, &fiErr) {
				t.Fatalf("error = %v, want *FaceIndexError", err)
			}
			if fiErr.Index != tt.wantIdx {
				t.Errorf("FaceIndexError.Index = %d, want %d", fiErr.Index, tt.wantIdx)
			}
		})
	}
}

func TestVertexAndFaceCounts(t *testing.T) {
	tests := []struct {
		name      string
		vertices  []Vec3
		faces     []Face
		wantVerts int
		wantFaces int
	}{
		{"empty", nil, nil, 0, 0},
		{"vertices only", []Vec3{{1, 2, 3}, {4, 5, 6}}, nil, 2, 0},
		{"triangle", []Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}, []Face{{0, 1, 2}}, 3, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := New(tt.vertices, tt.faces)
			if err != nil {
				t.Fatalf("New() error: %v", err)
			}
			if got := m.VertexCount(); got != tt.wantVerts {
				t.Errorf("VertexCount() = %d, want %d", got, tt.wantVerts)
			}
			if got := m.FaceCount(); got != tt.wantFaces {
				t.Errorf("FaceCount() = %d, want %d", got, tt.wantFaces)
			}
		})
	}
}

func TestIsEmpty(t *testing.T) {
	empty := &Mesh{}
	if !empty.IsEmpty() {
		t.Error("IsEmpty() = false for empty mesh, want true")
	}
	m := &Mesh{Vertices: []Vec3{{1, 2, 3}}}
	if m.IsEmpty() {
		t.Error("IsEmpty() = true for non-empty mesh, want false")
	}
}

func TestVec3Ops(t *testing.T) {
	a := Vec3{1, 2, 3}
	b := Vec3{4, 5, 6}

	if got := a.Add(b); got != (Vec3{5, 7, 9}) {
		t.Errorf("Add = %v", got)
	}
	if got := b.Sub(a); got != (Vec3{3, 3, 3}) {
		t.Errorf("Sub = %v", got)
	}
	if got := a.Scale(2); got != (Vec3{2, 4, 6}) {
		t.Errorf("Scale = %v", got)
	}
	// X cross Y = Z.
	if got := (Vec3{1, 0, 0}).Cross(Vec3{0, 1, 0}); got != (Vec3{0, 0, 1}) {
		t.Errorf("Cross = %v, want (0,0,1)", got)
	}
}
