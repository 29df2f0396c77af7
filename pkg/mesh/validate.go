package mesh

import "fmt"

// Severity indicates whether a finding blocks analysis or is advisory.
type Severity int

const (
	SeverityError   Severity = iota // malformed input, blocks analysis
	SeverityWarning                 // degenerate but analyzable geometry
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// Finding describes a single validation result.
type Finding struct {
	Face     int    // which face has the problem (-1 if mesh-level)
	Message  string // human-readable description
	Severity Severity
}

func (f Finding) String() string {
	if f.Face < 0 {
		return fmt.Sprintf("[%s] %s", f.Severity, f.Message)
	}
	return fmt.Sprintf("[%s] face %d: %s", f.Severity, f.Face, f.Message)
}

// Validate inspects a mesh and reports findings. Out-of-range face
// indices are errors (the malformed-mesh condition). Faces that repeat a
// vertex index are warnings: they are valid input whose topological
// classification the analyzer still computes, but they collapse one or
// more edges into self-loops and usually signal an upstream bug.
// Validate is read-only and never mutates the mesh.
func Validate(m *Mesh) []Finding {
	var findings []Finding
	n := len(m.Vertices)

	for fi, f := range m.Faces {
		for _, vi := range f {
			if vi < 0 || vi >= n {
				findings = append(findings, Finding{
					Face:     fi,
					Message:  fmt.Sprintf("references vertex %d (mesh has %d vertices)", vi, n),
					Severity: SeverityError,
				})
			}
		}
		if f[0] == f[1] || f[1] == f[2] || f[2] == f[0] {
			findings = append(findings, Finding{
				Face:     fi,
				Message:  "repeats a vertex index (degenerate triangle)",
				Severity: SeverityWarning,
			})
		}
	}
	return findings
}
