package mesh

import "testing"

func TestValidate(t *testing.T) {
	tests := []struct {
		name          string
		mesh          *Mesh
		wantErrors    int
		wantWarnings  int
	}{
		{
			"clean triangle",
			&Mesh{
				Vertices: []Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
				Faces:    []Face{{0, 1, 2}},
			},
			0, 0,
		},
		{
			"out-of-range index",
			&Mesh{
				Vertices: []Vec3{{0, 0, 0}, {1, 0, 0}},
				Faces:    []Face{{0, 1, 5}},
			},
			1, 0,
		},
		{
			"negative index",
			&Mesh{
				Vertices: []Vec3{{0, 0, 0}, {1, 0, 0}},
				Faces:    []Face{{-2, 0, 1}},
			},
			1, 0,
		},
		{
			"repeated vertex",
			&Mesh{
				Vertices: []Vec3{{0, 0, 0}, {1, 0, 0}},
				Faces:    []Face{{0, 0, 1}},
			},
			0, 1,
		},
		{
			"mixed findings",
			&Mesh{
				Vertices: []Vec3{{0, 0, 0}, {1, 0, 0}},
				Faces:    []Face{{0, 0, 1}, {0, 1, 9}},
			},
			1, 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			findings := Validate(tt.mesh)
			var gotErrors, gotWarnings int
			for _, f := range findings {
				switch f.Severity {
				case SeverityError:
					gotErrors++
				case SeverityWarning:
					gotWarnings++
				}
			}
			if gotErrors != tt.wantErrors {
				t.Errorf("errors = %d, want %d (findings: %v)", gotErrors, tt.wantErrors, findings)
			}
			if gotWarnings != tt.wantWarnings {
				t.Errorf("warnings = %d, want %d (findings: %v)", gotWarnings, tt.wantWarnings, findings)
			}
		})
	}
}

func TestFindingString(t *testing.T) {
	f := Finding{Face: 3, Message: "references vertex 9", Severity: SeverityError}
	want := "[error] face 3: references vertex 9"
	if got := f.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}

	meshLevel := Finding{Face: -1, Message: "no faces", Severity: SeverityWarning}
	want = "[warning] no faces"
	if got := meshLevel.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
