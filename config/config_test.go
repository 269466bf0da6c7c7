package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mjm114514/personal-wgpu-demos/engine/model"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg != Default() {
		t.Fatalf("cfg = %+v, want defaults", cfg)
	}
}

func TestLoadOverridesOnlyGivenKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "viewer.yaml")
	doc := `
window:
  title: bricks
renderer:
  present_mode: uncapped
  msaa: 1
scene:
  grid: 3
  texture: bricks.png
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	def := Default()
	if cfg.Window.Title != "bricks" || cfg.Window.Width != def.Window.Width || !cfg.Window.Resizable {
		t.Errorf("window = %+v", cfg.Window)
	}
	if cfg.Renderer.PresentMode != "uncapped" || cfg.Renderer.MSAA != 1 || cfg.Renderer.ClearColor != def.Renderer.ClearColor {
		t.Errorf("renderer = %+v", cfg.Renderer)
	}
	if cfg.Scene.Grid != 3 || cfg.Scene.Texture != "bricks.png" || cfg.Scene.Mesh != def.Scene.Mesh {
		t.Errorf("scene = %+v", cfg.Scene)
	}
	if cfg.Camera != def.Camera || cfg.Engine != def.Engine {
		t.Error("untouched sections must keep their defaults")
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"malformed", "window: [", "parse"},
		{"unknown key", "window:\n  colour: red\n", "parse"},
		{"bad msaa", "renderer:\n  msaa: 2\n", "msaa"},
		{"bad present mode", "renderer:\n  present_mode: mailbox\n", "present_mode"},
		{"inverted clip planes", "camera:\n  near: 10\n  far: 1\n", "clip planes"},
		{"negative grid", "scene:\n  grid: -1\n", "grid"},
		{"subdivision above the cap", "scene:\n  subdivision: 12\n", "subdivision"},
		{"unknown mesh", "scene:\n  mesh: teapot\n", "mesh"},
		{"unknown filter", "scene:\n  filter: cubic\n", "filter"},
		{"unknown address mode", "scene:\n  address_mode: border\n", "address_mode"},
		{"negative min size", "window:\n  min_width: -1\n", "limits"},
		{"max below min", "window:\n  min_width: 800\n  max_width: 640\n", "max size"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("Parse = %v, want error containing %q", err, tt.want)
			}
		})
	}
}

func TestParseEmptyDocument(t *testing.T) {
	cfg, err := Parse(nil)
	if err != nil {
		t.Fatal(err)
	}
	if cfg != Default() {
		t.Fatal("an empty document should yield the defaults")
	}
}

func TestParseCapsSubdivision(t *testing.T) {
	doc := fmt.Sprintf("scene:\n  subdivision: %d\n", model.MaxSubdivision)
	cfg, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("subdivision at the cap: %v", err)
	}
	if cfg.Scene.Subdivision != model.MaxSubdivision {
		t.Fatalf("subdivision = %d", cfg.Scene.Subdivision)
	}
	if _, err := Parse([]byte(fmt.Sprintf("scene:\n  subdivision: %d\n", model.MaxSubdivision+1))); err == nil {
		t.Fatal("expected an error one past the cap")
	}
}
