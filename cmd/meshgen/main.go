// Command meshgen writes a procedural mesh as Wavefront OBJ.
//
//	meshgen -kind geosphere -subdivision 3 -radius 1 -out sphere.obj
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mjm114514/personal-wgpu-demos/engine/model"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "meshgen: %v\n", err)
		os.Exit(1)
	}
}

// run parses args, builds the mesh and writes it to -out, or to stdout for "-".
func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("meshgen", flag.ContinueOnError)
	fs.SetOutput(stderr)
	kind := fs.String("kind", string(model.MeshKindGeoSphere), "mesh kind: geosphere, sphere or brick")
	subdivision := fs.Int("subdivision", 2, "subdivision passes (brick, geosphere)")
	radius := fs.Float64("radius", 1, "radius (sphere, geosphere)")
	width := fs.Float64("width", 1, "brick width")
	height := fs.Float64("height", 1, "brick height")
	depth := fs.Float64("depth", 1, "brick depth")
	slices := fs.Uint("slices", 32, "sphere slices")
	stacks := fs.Uint("stacks", 16, "sphere stacks")
	out := fs.String("out", "-", "output path, - for stdout")
	quiet := fs.Bool("quiet", false, "disable the progress bar even on a terminal")
	if err := fs.Parse(args); err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(stderr, nil))

	k, err := model.ParseMeshKind(*kind)
	if err != nil {
		return err
	}
	desc := model.MeshDescriptor{
		Kind:        k,
		Radius:      float32(*radius),
		Width:       float32(*width),
		Height:      float32(*height),
		Depth:       float32(*depth),
		Slices:      uint32(*slices),
		Stacks:      uint32(*stacks),
		Subdivision: *subdivision,
	}
	mesh, err := desc.Build()
	if err != nil {
		return err
	}
	logger.Info("generated mesh", "kind", k, "vertices", len(mesh.Vertices), "triangles", mesh.TriangleCount(),
		"bounding_radius", mesh.BoundingRadius())

	if *out == "-" {
		return mesh.WriteOBJ(stdout)
	}

	f, err := os.Create(*out)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer f.Close()

	var w io.Writer = f
	if !*quiet && isTerminal(stderr) {
		bar := progressbar.NewOptions64(-1,
			progressbar.OptionSetDescription("writing "+*out),
			progressbar.OptionSetWriter(stderr),
			progressbar.OptionShowBytes(true),
			progressbar.OptionClearOnFinish(),
		)
		defer bar.Close()
		w = io.MultiWriter(f, bar)
	}
	if err := mesh.WriteOBJ(w); err != nil {
		return err
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("sync output: %w", err)
	}
	logger.Info("wrote obj", "path", *out)
	return nil
}

// isTerminal reports whether w is a file attached to a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
