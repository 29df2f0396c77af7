package report_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/chazu/meshalyzer/pkg/mesh"
	"github.com/chazu/meshalyzer/pkg/report"
)

func tetrahedron(t *testing.T) *mesh.Mesh {
	t.Helper()
	m, err := mesh.New(
		[]mesh.Vec3{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}, {X: 0, Y: 0, Z: 1}},
		[]mesh.Face{{0, 1, 2}, {0, 1, 3}, {0, 2, 3}, {1, 2, 3}},
	)
	if err != nil {
		t.Fatalf("mesh.New() error: %v", err)
	}
	return m
}

func TestBuildClosedMesh(t *testing.T) {
	r, err := report.Build("tetra", tetrahedron(t))
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	if r.VertexCount != 4 || r.FaceCount != 4 || r.EdgeCount != 6 {
		t.Errorf("counts = %d/%d/%d, want 4/4/6", r.VertexCount, r.FaceCount, r.EdgeCount)
	}
	if !r.Watertight || !r.SphereLike {
		t.Errorf("watertight=%v sphereLike=%v, want both true", r.Watertight, r.SphereLike)
	}
	if r.EulerCharacteristic != 2 {
		t.Errorf("euler = %d, want 2", r.EulerCharacteristic)
	}
	if len(r.Holes) != 0 {
		t.Errorf("holes = %v, want none", r.Holes)
	}
	if r.BoundsMin != (mesh.Vec3{}) || r.BoundsMax != (mesh.Vec3{X: 1, Y: 1, Z: 1}) {
		t.Errorf("bounds = %v..%v", r.BoundsMin, r.BoundsMax)
	}
}

func TestBuildOpenMesh(t *testing.T) {
	m, err := mesh.New(
		[]mesh.Vec3{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}},
		[]mesh.Face{{0, 1, 2}},
	)
	if err != nil {
		t.Fatalf("mesh.New() error: %v", err)
	}
	r, err := report.Build("tri", m)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	if r.Watertight || r.SphereLike {
		t.Error("open triangle reported as closed")
	}
	if r.BoundaryEdgeCount != 3 || len(r.Holes) != 1 {
		t.Errorf("boundaryEdges=%d holes=%v, want 3 edges and 1 loop", r.BoundaryEdgeCount, r.Holes)
	}
}

func TestBuildMalformedMesh(t *testing.T) {
	m := &mesh.Mesh{
		Vertices: []mesh.Vec3{{X: 0, Y: 0, Z: 0}},
		Faces:    []mesh.Face{{0, 1, 2}},
	}
	if _, err := report.Build("bad", m); err == nil {
		t.Fatal("Build() succeeded on malformed mesh, want error")
	}
}

func TestWriteJSONRoundTrips(t *testing.T) {
	r, err := report.Build("tetra", tetrahedron(t))
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	var buf bytes.Buffer
	if err := r.WriteJSON(&buf); err != nil {
		t.Fatalf("WriteJSON() error: %v", err)
	}

	var decoded report.Report
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.VertexCount != r.VertexCount || decoded.Watertight != r.Watertight {
		t.Errorf("round-trip mismatch: %+v vs %+v", decoded, r)
	}
}
