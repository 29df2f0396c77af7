// Package report assembles a JSON-serializable analysis summary from a
// mesh and its topology analyzer, for CLI output and machine consumers.
package report

import (
	"encoding/json"
	"io"

	"github.com/chazu/meshalyzer/pkg/mesh"
	"github.com/chazu/meshalyzer/pkg/topology"
)

// EdgeData is a JSON-serializable edge.
type EdgeData struct {
	A int `json:"a"`
	B int `json:"b"`
}

// Report summarizes one mesh's geometry and topology.
type Report struct {
	Name                string     `json:"name,omitempty"`
	VertexCount         int        `json:"vertexCount"`
	FaceCount           int        `json:"faceCount"`
	EdgeCount           int        `json:"edgeCount"`
	EulerCharacteristic int        `json:"eulerCharacteristic"`
	Watertight          bool       `json:"watertight"`
	SphereLike          bool       `json:"sphereLike"`
	BoundaryEdgeCount   int        `json:"boundaryEdgeCount"`
	NonManifoldEdges    []EdgeData `json:"nonManifoldEdges,omitempty"`
	Holes               [][]int    `json:"holes,omitempty"`
	SurfaceArea         float64    `json:"surfaceArea"`
	BoundsMin           mesh.Vec3  `json:"boundsMin"`
	BoundsMax           mesh.Vec3  `json:"boundsMax"`
	Warnings            []string   `json:"warnings,omitempty"`
}

// Build analyzes a mesh and assembles its report. The analyzer is
// constructed here; a malformed mesh surfaces as the construction
// error.
func Build(name string, m *mesh.Mesh) (*Report, error) {
	a, err := topology.New(m)
	if err != nil {
		return nil, err
	}

	min, max := m.Bounds()
	r := &Report{
		Name:                name,
		VertexCount:         m.VertexCount(),
		FaceCount:           m.FaceCount(),
		EdgeCount:           a.EdgeCount(),
		EulerCharacteristic: a.EulerCharacteristic(),
		Watertight:          a.IsWatertight(),
		SphereLike:          a.IsSphereLike(),
		BoundaryEdgeCount:   a.BoundaryEdgeCount(),
		Holes:               a.FindHoles(),
		SurfaceArea:         m.SurfaceArea(),
		BoundsMin:           min,
		BoundsMax:           max,
	}

	for _, e := range a.NonManifoldEdges() {
		r.NonManifoldEdges = append(r.NonManifoldEdges, EdgeData{A: e.A, B: e.B})
	}
	for _, f := range mesh.Validate(m) {
		if f.Severity == mesh.SeverityWarning {
			r.Warnings = append(r.Warnings, f.String())
		}
	}
	return r, nil
}

// WriteJSON writes the report as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
