package engine

import (
	"fmt"
	"os"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/meshalyzer/pkg/mesh"
	"github.com/chazu/meshalyzer/pkg/objio"
	"github.com/chazu/meshalyzer/pkg/primitive"
	"github.com/chazu/meshalyzer/pkg/topology"
)

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpMesh wraps a mesh.Mesh so it can be passed between builtins. The
// topology analyzer is built lazily on first query and cached; meshes
// are immutable so the cache never goes stale.
type sexpMesh struct {
	m        *mesh.Mesh
	analyzer *topology.Analyzer
}

func (s *sexpMesh) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(mesh :vertices %d :faces %d)", s.m.VertexCount(), s.m.FaceCount())
}
func (s *sexpMesh) Type() *zygo.RegisteredType { return nil }

func (s *sexpMesh) topo() (*topology.Analyzer, error) {
	if s.analyzer == nil {
		a, err := topology.New(s.m)
		if err != nil {
			return nil, err
		}
		s.analyzer = a
	}
	return s.analyzer, nil
}

// sexpVec3 wraps a mesh.Vec3.
type sexpVec3 struct {
	vec mesh.Vec3
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toInt extracts an int from a Sexp.
func toInt(s zygo.Sexp) (int, error) {
	if v, ok := s.(*zygo.SexpInt); ok {
		return int(v.Val), nil
	}
	return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toMesh extracts the wrapped mesh from a sexpMesh.
func toMesh(s zygo.Sexp) (*sexpMesh, error) {
	if m, ok := s.(*sexpMesh); ok {
		return m, nil
	}
	return nil, fmt.Errorf("expected mesh, got %T (%s)", s, s.SexpString(nil))
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// toVec3 extracts a Vec3 from a sexpVec3 or a 3-element list/array of
// numbers.
func toVec3(s zygo.Sexp) (mesh.Vec3, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	elems, err := sexpListToSlice(s)
	if err != nil || len(elems) != 3 {
		return mesh.Vec3{}, fmt.Errorf("expected vec3 or 3-element list, got %T (%s)", s, s.SexpString(nil))
	}
	var coords [3]float64
	for i, e := range elems {
		coords[i], err = toFloat64(e)
		if err != nil {
			return mesh.Vec3{}, err
		}
	}
	return mesh.Vec3{X: coords[0], Y: coords[1], Z: coords[2]}, nil
}

// toFace extracts a face (3 vertex indices) from a list/array of ints.
func toFace(s zygo.Sexp) (mesh.Face, error) {
	elems, err := sexpListToSlice(s)
	if err != nil || len(elems) != 3 {
		return mesh.Face{}, fmt.Errorf("expected 3-element index list, got %s", s.SexpString(nil))
	}
	var f mesh.Face
	for i, e := range elems {
		f[i], err = toInt(e)
		if err != nil {
			return mesh.Face{}, err
		}
	}
	return f, nil
}

// intSliceToSexp converts vertex indices to a zygomys array.
func intSliceToSexp(vals []int) zygo.Sexp {
	out := make([]zygo.Sexp, len(vals))
	for i, v := range vals {
		out[i] = &zygo.SexpInt{Val: int64(v)}
	}
	return &zygo.SexpArray{Val: out}
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the meshalyzer DSL into a zygomys
// environment. Emitted meshes are collected into the provided Result.
//
// Source must be preprocessed with preprocessSource() first so that
// kebab-case names like find-holes reach the interpreter as find_holes.
func registerBuiltins(env *zygo.Zlisp, result *Result) {

	// -----------------------------------------------------------------------
	// (vec3 1 2 3)
	// -----------------------------------------------------------------------
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
		}
		x, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: x: %w", err)
		}
		y, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: y: %w", err)
		}
		z, err := toFloat64(args[2])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: z: %w", err)
		}
		return &sexpVec3{vec: mesh.Vec3{X: x, Y: y, Z: z}}, nil
	})

	// -----------------------------------------------------------------------
	// (mesh [vertices...] [faces...])
	// Vertices are vec3s or 3-number lists; faces are 3-index lists.
	// -----------------------------------------------------------------------
	env.AddFunction("mesh", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("mesh requires vertex and face lists, got %d arguments", len(args))
		}
		vertExprs, err := sexpListToSlice(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("mesh: vertices: %w", err)
		}
		faceExprs, err := sexpListToSlice(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("mesh: faces: %w", err)
		}

		vertices := make([]mesh.Vec3, len(vertExprs))
		for i, e := range vertExprs {
			vertices[i], err = toVec3(e)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("mesh: vertex %d: %w", i, err)
			}
		}
		faces := make([]mesh.Face, len(faceExprs))
		for i, e := range faceExprs {
			faces[i], err = toFace(e)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("mesh: face %d: %w", i, err)
			}
		}

		m, err := mesh.New(vertices, faces)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("mesh: %w", err)
		}
		return &sexpMesh{m: m}, nil
	})

	// -----------------------------------------------------------------------
	// (box 10 20 30)  (sphere 5)  (cylinder 10 3)
	// -----------------------------------------------------------------------
	env.AddFunction("box", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("box requires x y z dimensions, got %d arguments", len(args))
		}
		var dims [3]float64
		for i, a := range args {
			f, err := toFloat64(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("box: %w", err)
			}
			dims[i] = f
		}
		m, err := primitive.Box(dims[0], dims[1], dims[2], primitive.DefaultOptions())
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpMesh{m: m}, nil
	})

	env.AddFunction("sphere", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("sphere requires a radius, got %d arguments", len(args))
		}
		r, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("sphere: %w", err)
		}
		m, err := primitive.Sphere(r, primitive.DefaultOptions())
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpMesh{m: m}, nil
	})

	env.AddFunction("cylinder", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("cylinder requires height and radius, got %d arguments", len(args))
		}
		h, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("cylinder: height: %w", err)
		}
		r, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("cylinder: radius: %w", err)
		}
		m, err := primitive.Cylinder(h, r, primitive.DefaultOptions())
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpMesh{m: m}, nil
	})

	// -----------------------------------------------------------------------
	// (load-obj "model.obj")  (save-obj m "out.obj")
	// -----------------------------------------------------------------------
	env.AddFunction("load_obj", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("load-obj requires a path, got %d arguments", len(args))
		}
		path, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("load-obj: %w", err)
		}
		f, err := os.Open(path)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("load-obj: %w", err)
		}
		defer f.Close()
		m, err := objio.Decode(f)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("load-obj: %w", err)
		}
		return &sexpMesh{m: m}, nil
	})

	env.AddFunction("save_obj", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("save-obj requires a mesh and a path, got %d arguments", len(args))
		}
		sm, err := toMesh(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("save-obj: %w", err)
		}
		path, err := toString(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("save-obj: %w", err)
		}
		f, err := os.Create(path)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("save-obj: %w", err)
		}
		defer f.Close()
		if err := objio.Encode(f, sm.m); err != nil {
			return zygo.SexpNull, fmt.Errorf("save-obj: %w", err)
		}
		return args[0], nil
	})

	// -----------------------------------------------------------------------
	// (scale m 2.0)  (translate m 1 0 0)  (merge a b)
	// Transforms return new meshes; the input is never mutated.
	// -----------------------------------------------------------------------
	env.AddFunction("scale", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("scale requires a mesh and a factor, got %d arguments", len(args))
		}
		sm, err := toMesh(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("scale: %w", err)
		}
		f, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("scale: factor: %w", err)
		}
		return &sexpMesh{m: sm.m.Scale(f)}, nil
	})

	env.AddFunction("translate", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 4 {
			return zygo.SexpNull, fmt.Errorf("translate requires a mesh and x y z offsets, got %d arguments", len(args))
		}
		sm, err := toMesh(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("translate: %w", err)
		}
		var d [3]float64
		for i, a := range args[1:] {
			f, err := toFloat64(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("translate: %w", err)
			}
			d[i] = f
		}
		return &sexpMesh{m: sm.m.Translate(mesh.Vec3{X: d[0], Y: d[1], Z: d[2]})}, nil
	})

	env.AddFunction("merge", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("merge requires two meshes, got %d arguments", len(args))
		}
		a, err := toMesh(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("merge: %w", err)
		}
		b, err := toMesh(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("merge: %w", err)
		}
		return &sexpMesh{m: a.m.Merge(b.m)}, nil
	})

	// -----------------------------------------------------------------------
	// Size and geometry queries
	// -----------------------------------------------------------------------
	meshIntQuery := func(builtin string, fn func(*sexpMesh) (int, error)) {
		env.AddFunction(builtin, func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			if len(args) != 1 {
				return zygo.SexpNull, fmt.Errorf("%s requires a mesh, got %d arguments", builtin, len(args))
			}
			sm, err := toMesh(args[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", builtin, err)
			}
			n, err := fn(sm)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", builtin, err)
			}
			return &zygo.SexpInt{Val: int64(n)}, nil
		})
	}

	meshIntQuery("vertex_count", func(sm *sexpMesh) (int, error) {
		return sm.m.VertexCount(), nil
	})
	meshIntQuery("face_count", func(sm *sexpMesh) (int, error) {
		return sm.m.FaceCount(), nil
	})
	meshIntQuery("edge_count", func(sm *sexpMesh) (int, error) {
		a, err := sm.topo()
		if err != nil {
			return 0, err
		}
		return a.EdgeCount(), nil
	})
	meshIntQuery("euler_characteristic", func(sm *sexpMesh) (int, error) {
		a, err := sm.topo()
		if err != nil {
			return 0, err
		}
		return a.EulerCharacteristic(), nil
	})

	env.AddFunction("surface_area", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("surface-area requires a mesh, got %d arguments", len(args))
		}
		sm, err := toMesh(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("surface-area: %w", err)
		}
		return &zygo.SexpFloat{Val: sm.m.SurfaceArea()}, nil
	})

	// -----------------------------------------------------------------------
	// Topology queries: (watertight m)  (sphere-like m)  (find-holes m)
	// -----------------------------------------------------------------------
	meshBoolQuery := func(builtin string, fn func(*topology.Analyzer) bool) {
		env.AddFunction(builtin, func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			if len(args) != 1 {
				return zygo.SexpNull, fmt.Errorf("%s requires a mesh, got %d arguments", builtin, len(args))
			}
			sm, err := toMesh(args[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", builtin, err)
			}
			a, err := sm.topo()
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", builtin, err)
			}
			return &zygo.SexpBool{Val: fn(a)}, nil
		})
	}

	meshBoolQuery("watertight", (*topology.Analyzer).IsWatertight)
	meshBoolQuery("sphere_like", (*topology.Analyzer).IsSphereLike)

	env.AddFunction("find_holes", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("find-holes requires a mesh, got %d arguments", len(args))
		}
		sm, err := toMesh(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("find-holes: %w", err)
		}
		a, err := sm.topo()
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("find-holes: %w", err)
		}
		holes := a.FindHoles()
		out := make([]zygo.Sexp, len(holes))
		for i, loop := range holes {
			out[i] = intSliceToSexp(loop)
		}
		return &zygo.SexpArray{Val: out}, nil
	})

	// -----------------------------------------------------------------------
	// (emit m "name") registers a mesh as an evaluation output.
	// -----------------------------------------------------------------------
	env.AddFunction("emit", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("emit requires a mesh and a name, got %d arguments", len(args))
		}
		sm, err := toMesh(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("emit: %w", err)
		}
		outName, err := toString(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("emit: name: %w", err)
		}
		result.emit(outName, sm.m)
		return args[0], nil
	})
}
