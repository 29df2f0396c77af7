// Command meshalyzer analyzes the topology of triangle meshes: load an
// OBJ file (or generate a primitive), then report whether the surface
// is watertight, whether it is sphere-like, and where its boundary
// loops are. A Lisp scripting mode drives the same toolkit from source
// files.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"github.com/chazu/meshalyzer/pkg/config"
	"github.com/chazu/meshalyzer/pkg/engine"
	"github.com/chazu/meshalyzer/pkg/mesh"
	"github.com/chazu/meshalyzer/pkg/objio"
	"github.com/chazu/meshalyzer/pkg/primitive"
	"github.com/chazu/meshalyzer/pkg/report"
)

const usage = `usage: meshalyzer [-config file] <command> [args]

commands:
  info  <mesh.obj>             print a full analysis report
  check <mesh.obj>             exit non-zero unless the mesh is watertight
  holes <mesh.obj>             list boundary loops (holes)
  gen   <shape> [dims] -o out  generate a primitive mesh (box|sphere|cylinder)
  run   <script.lisp>          evaluate a meshalyzer Lisp script
`

var logger = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: true,
	Prefix:          "meshalyzer",
})

func main() {
	configPath := flag.String("config", "meshalyzer.toml", "path to TOML config")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal("config", "err", err)
	}
	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	}

	cmd, args := flag.Arg(0), flag.Args()[1:]
	switch cmd {
	case "info":
		err = cmdInfo(args)
	case "check":
		err = cmdCheck(args)
	case "holes":
		err = cmdHoles(args)
	case "gen":
		err = cmdGen(cfg, args)
	case "run":
		err = cmdRun(cfg, args)
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		logger.Fatal(cmd, "err", err)
	}
}

// loadMesh reads an OBJ file into a mesh.
func loadMesh(path string) (*mesh.Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return objio.Decode(f)
}

func cmdInfo(args []string) error {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	asJSON := fs.Bool("json", false, "emit the report as JSON")
	fs.Parse(args)
	if fs.NArg() != 1 {
		return fmt.Errorf("info requires exactly one OBJ file")
	}
	path := fs.Arg(0)

	m, err := loadMesh(path)
	if err != nil {
		return err
	}
	r, err := report.Build(path, m)
	if err != nil {
		return err
	}

	if *asJSON {
		return r.WriteJSON(os.Stdout)
	}

	logger.Info("mesh",
		"vertices", r.VertexCount,
		"faces", r.FaceCount,
		"edges", r.EdgeCount,
		"area", fmt.Sprintf("%.4g", r.SurfaceArea))
	logger.Info("topology",
		"watertight", r.Watertight,
		"sphereLike", r.SphereLike,
		"euler", r.EulerCharacteristic,
		"boundaryEdges", r.BoundaryEdgeCount,
		"holes", len(r.Holes))
	for _, w := range r.Warnings {
		logger.Warn(w)
	}
	for _, e := range r.NonManifoldEdges {
		logger.Warn("non-manifold edge", "a", e.A, "b", e.B)
	}
	return nil
}

func cmdCheck(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("check requires exactly one OBJ file")
	}
	m, err := loadMesh(args[0])
	if err != nil {
		return err
	}
	r, err := report.Build(args[0], m)
	if err != nil {
		return err
	}
	if !r.Watertight {
		logger.Error("mesh is not watertight",
			"boundaryEdges", r.BoundaryEdgeCount,
			"holes", len(r.Holes))
		os.Exit(1)
	}
	logger.Info("mesh is watertight", "sphereLike", r.SphereLike)
	return nil
}

func cmdHoles(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("holes requires exactly one OBJ file")
	}
	m, err := loadMesh(args[0])
	if err != nil {
		return err
	}
	r, err := report.Build(args[0], m)
	if err != nil {
		return err
	}
	if len(r.Holes) == 0 {
		logger.Info("no holes found")
		return nil
	}
	for i, loop := range r.Holes {
		fmt.Printf("hole %d (%d vertices): %v\n", i, len(loop), loop)
	}
	return nil
}

func cmdGen(cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("gen", flag.ExitOnError)
	out := fs.String("o", "", "output OBJ path (required)")
	cells := fs.Int("cells", cfg.Cells, "marching cubes resolution")
	fs.Parse(args)
	if *out == "" || fs.NArg() < 1 {
		return fmt.Errorf("gen requires a shape and -o output path")
	}

	opts := primitive.Options{Cells: *cells, WeldTolerance: cfg.WeldTolerance}
	dims := make([]float64, fs.NArg()-1)
	for i := range dims {
		if _, err := fmt.Sscanf(fs.Arg(i+1), "%g", &dims[i]); err != nil {
			return fmt.Errorf("bad dimension %q", fs.Arg(i+1))
		}
	}

	var (
		m   *mesh.Mesh
		err error
	)
	switch shape := fs.Arg(0); shape {
	case "box":
		if len(dims) != 3 {
			return fmt.Errorf("box requires 3 dimensions")
		}
		m, err = primitive.Box(dims[0], dims[1], dims[2], opts)
	case "sphere":
		if len(dims) != 1 {
			return fmt.Errorf("sphere requires a radius")
		}
		m, err = primitive.Sphere(dims[0], opts)
	case "cylinder":
		if len(dims) != 2 {
			return fmt.Errorf("cylinder requires height and radius")
		}
		m, err = primitive.Cylinder(dims[0], dims[1], opts)
	default:
		return fmt.Errorf("unknown shape %q", shape)
	}
	if err != nil {
		return err
	}

	f, err := os.Create(*out)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := objio.Encode(f, m); err != nil {
		return err
	}
	logger.Info("generated",
		"shape", fs.Arg(0),
		"vertices", m.VertexCount(),
		"faces", m.FaceCount(),
		"out", *out)
	return nil
}

func cmdRun(cfg config.Config, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("run requires exactly one script file")
	}
	source, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}

	eng := engine.NewEngineWithTimeout(cfg.EvalTimeout)
	result, evalErrs, err := eng.Evaluate(string(source))
	if err != nil {
		return err
	}
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			logger.Error("script error", "line", e.Line, "msg", e.Message)
		}
		os.Exit(1)
	}

	for _, name := range result.Order {
		r, err := report.Build(name, result.Meshes[name])
		if err != nil {
			return err
		}
		logger.Info("emitted",
			"name", name,
			"vertices", r.VertexCount,
			"faces", r.FaceCount,
			"watertight", r.Watertight,
			"sphereLike", r.SphereLike,
			"holes", len(r.Holes))
	}
	if len(result.Order) == 0 {
		logger.Warn("script emitted no meshes")
	}
	return nil
}
