// Package objio reads and writes triangle meshes in the Wavefront OBJ
// text format. Only the geometry subset is handled: vertex positions
// and faces. Texture coordinates, normals, groups and material records
// are skipped on read and never written.
package objio

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chazu/meshalyzer/pkg/mesh"
)

// ParseError reports a malformed record with its line number.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("obj: line %d: %s", e.Line, e.Message)
}

// Decode reads an OBJ stream and returns the mesh it describes.
// Faces with more than three vertices are fan-triangulated. Indices may
// be 1-based absolute or negative (relative to the vertices defined so
// far), per the OBJ convention. An index that resolves outside the
// vertex range is a malformed-mesh error reported with its line number.
func Decode(r io.Reader) (*mesh.Mesh, error) {
	var (
		vertices []mesh.Vec3
		faces    []mesh.Face
	)

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		ident, args := fields[0], fields[1:]

		switch ident {
		case "v":
			if len(args) < 3 {
				return nil, &ParseError{Line: lineNo, Message: "vertex needs 3 coordinates"}
			}
			var coords [3]float64
			for i := 0; i < 3; i++ {
				c, err := strconv.ParseFloat(args[i], 64)
				if err != nil {
					return nil, &ParseError{Line: lineNo, Message: fmt.Sprintf("bad coordinate %q", args[i])}
				}
				coords[i] = c
			}
			vertices = append(vertices, mesh.Vec3{X: coords[0], Y: coords[1], Z: coords[2]})

		case "f":
			if len(args) < 3 {
				return nil, &ParseError{Line: lineNo, Message: "face needs at least 3 vertices"}
			}
			indices := make([]int, len(args))
			for i, ref := range args {
				idx, err := resolveIndex(ref, len(vertices))
				if err != nil {
					return nil, &ParseError{Line: lineNo, Message: err.Error()}
				}
				indices[i] = idx
			}
			// Fan-triangulate polygons: (0,1,2), (0,2,3), ...
			for i := 1; i < len(indices)-1; i++ {
				faces = append(faces, mesh.Face{indices[0], indices[i], indices[i+1]})
			}

		default:
			// vt, vn, o, g, s, usemtl, mtllib etc. carry no geometry
			// this tool cares about.
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("obj: read: %w", err)
	}

	return mesh.New(vertices, faces)
}

// resolveIndex converts one face vertex reference ("7", "7/2/3", "-1")
// to a 0-based vertex index. OBJ indices are 1-based; negative values
// count back from the vertices defined so far.
func resolveIndex(ref string, defined int) (int, error) {
	// A reference may carry /texture/normal parts; only the first
	// matters here.
	if slash := strings.IndexByte(ref, '/'); slash >= 0 {
		ref = ref[:slash]
	}
	raw, err := strconv.Atoi(ref)
	if err != nil {
		return 0, fmt.Errorf("bad vertex reference %q", ref)
	}
	switch {
	case raw > 0:
		if raw > defined {
			return 0, fmt.Errorf("vertex reference %d exceeds %d defined vertices", raw, defined)
		}
		return raw - 1, nil
	case raw < 0:
		idx := defined + raw
		if idx < 0 {
			return 0, fmt.Errorf("relative vertex reference %d reaches before the first vertex", raw)
		}
		return idx, nil
	default:
		return 0, fmt.Errorf("vertex reference 0 is not valid in OBJ")
	}
}

// Encode writes the mesh as OBJ. Indices are written 1-based.
func Encode(w io.Writer, m *mesh.Mesh) error {
	bw := bufio.NewWriter(w)
	for _, v := range m.Vertices {
		if _, err := fmt.Fprintf(bw, "v %g %g %g\n", v.X, v.Y, v.Z); err != nil {
			return fmt.Errorf("obj: write: %w", err)
		}
	}
	for _, f := range m.Faces {
		if _, err := fmt.Fprintf(bw, "f %d %d %d\n", f[0]+1, f[1]+1, f[2]+1); err != nil {
			return fmt.Errorf("obj: write: %w", err)
		}
	}
	return bw.Flush()
}
