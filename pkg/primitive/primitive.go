// Package primitive generates triangle meshes for basic solids using
// the github.com/deadsy/sdfx SDF-based CAD library. Marching cubes
// produces a triangle soup; the soup is welded into an indexed mesh so
// shared edges are actually shared and topology analysis sees a closed
// surface rather than disconnected triangles.
package primitive

import (
	"fmt"
	"math"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/meshalyzer/pkg/mesh"
)

// Options controls tessellation and welding.
type Options struct {
	// Cells is the marching cubes resolution along the longest axis.
	Cells int
	// WeldTolerance is the absolute distance under which two soup
	// vertices are considered the same vertex.
	WeldTolerance float64
}

// DefaultOptions returns the tessellation defaults.
func DefaultOptions() Options {
	return Options{Cells: 128, WeldTolerance: 1e-9}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Cells <= 0 {
		o.Cells = d.Cells
	}
	if o.WeldTolerance <= 0 {
		o.WeldTolerance = d.WeldTolerance
	}
	return o
}

// Box generates a rectangular solid with the given dimensions,
// centered at the origin.
func Box(x, y, z float64, opts Options) (*mesh.Mesh, error) {
	s, err := sdf.Box3D(v3.Vec{X: x, Y: y, Z: z}, 0)
	if err != nil {
		return nil, fmt.Errorf("primitive: box: %w", err)
	}
	return FromSDF(s, opts)
}

// Sphere generates a sphere with the given radius, centered at the
// origin.
func Sphere(radius float64, opts Options) (*mesh.Mesh, error) {
	s, err := sdf.Sphere3D(radius)
	if err != nil {
		return nil, fmt.Errorf("primitive: sphere: %w", err)
	}
	return FromSDF(s, opts)
}

// Cylinder generates a cylinder along the Z axis with the given height
// and radius, centered at the origin.
func Cylinder(height, radius float64, opts Options) (*mesh.Mesh, error) {
	s, err := sdf.Cylinder3D(height, radius, 0)
	if err != nil {
		return nil, fmt.Errorf("primitive: cylinder: %w", err)
	}
	return FromSDF(s, opts)
}

// FromSDF tessellates any signed distance field into a welded,
// indexed mesh via uniform marching cubes.
func FromSDF(s sdf.SDF3, opts Options) (*mesh.Mesh, error) {
	opts = opts.withDefaults()

	renderer := render.NewMarchingCubesUniform(opts.Cells)
	triangles := render.ToTriangles(s, renderer)
	if len(triangles) == 0 {
		return &mesh.Mesh{}, nil
	}

	vertices, faces := weld(triangles, opts.WeldTolerance)
	return mesh.New(vertices, faces)
}

// weldKey quantizes a position to the weld tolerance grid.
type weldKey struct {
	x, y, z int64
}

// weld merges coincident soup vertices into shared indexed vertices.
// Positions are quantized to the tolerance grid; marching cubes emits
// bitwise-identical coordinates for vertices on shared cell edges, so
// the tolerance only has to absorb float noise.
func weld(triangles []*sdf.Triangle3, tol float64) ([]mesh.Vec3, []mesh.Face) {
	index := make(map[weldKey]int)
	var vertices []mesh.Vec3
	faces := make([]mesh.Face, 0, len(triangles))

	lookup := func(v v3.Vec) int {
		key := weldKey{
			x: int64(math.Round(v.X / tol)),
			y: int64(math.Round(v.Y / tol)),
			z: int64(math.Round(v.Z / tol)),
		}
		if idx, ok := index[key]; ok {
			return idx
		}
		idx := len(vertices)
		vertices = append(vertices, mesh.Vec3{X: v.X, Y: v.Y, Z: v.Z})
		index[key] = idx
		return idx
	}

	for _, tri := range triangles {
		f := mesh.Face{lookup(tri[0]), lookup(tri[1]), lookup(tri[2])}
		// Welding can collapse slivers thinner than the tolerance into
		// degenerate triangles; drop them instead of emitting
		// self-loop edges.
		if f[0] == f[1] || f[1] == f[2] || f[2] == f[0] {
			continue
		}
		faces = append(faces, f)
	}
	return vertices, faces
}
