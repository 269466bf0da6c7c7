// Package config loads the viewer's YAML configuration. Every field has a default, so a
// config file only needs the keys it changes.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mjm114514/personal-wgpu-demos/engine/model"
	"github.com/mjm114514/personal-wgpu-demos/engine/texture"
	"gopkg.in/yaml.v3"
)

// DefaultFilename is looked up in the working directory when no path is given.
const DefaultFilename = "viewer.yaml"

// Config is the viewer configuration.
type Config struct {
	Window   WindowConfig   `yaml:"window"`
	Renderer RendererConfig `yaml:"renderer"`
	Engine   EngineConfig   `yaml:"engine"`
	Camera   CameraConfig   `yaml:"camera"`
	Scene    SceneConfig    `yaml:"scene"`
}

// WindowConfig sizes the viewer window.
type WindowConfig struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	// MinWidth and MinHeight bound interactive resizing from below; 0 leaves a side free.
	MinWidth  int `yaml:"min_width"`
	MinHeight int `yaml:"min_height"`
	// MaxWidth and MaxHeight bound interactive resizing from above; 0 leaves a side free.
	MaxWidth  int  `yaml:"max_width"`
	MaxHeight int  `yaml:"max_height"`
	Resizable bool `yaml:"resizable"`
}

// RendererConfig selects the surface presentation and the main pass setup.
type RendererConfig struct {
	// PresentMode is "vsync" or "uncapped".
	PresentMode string `yaml:"present_mode"`
	// MSAA is the sample count, 1 or 4.
	MSAA       int        `yaml:"msaa"`
	ClearColor [4]float64 `yaml:"clear_color"`
	// ForceSoftware requests the fallback (CPU) adapter.
	ForceSoftware bool `yaml:"force_software"`
}

// EngineConfig paces the engine loops.
type EngineConfig struct {
	TickRate float64 `yaml:"tick_rate"`
	// FrameLimit caps the render loop; 0 is uncapped.
	FrameLimit float64 `yaml:"frame_limit"`
	Profiling  bool    `yaml:"profiling"`
	// Workers sizes the instance packing pool; 0 picks NumCPU-1.
	Workers int `yaml:"workers"`
}

// CameraConfig places the fly camera and sets its lens and movement rates.
type CameraConfig struct {
	Position    [3]float32 `yaml:"position"`
	FovY        float32    `yaml:"fov_y"`
	Near        float32    `yaml:"near"`
	Far         float32    `yaml:"far"`
	Speed       float32    `yaml:"speed"`
	Sensitivity float32    `yaml:"sensitivity"`
}

// SceneConfig describes the demo scene: a floor brick and a square field of instanced meshes.
type SceneConfig struct {
	// Grid is the number of instanced spheres along each side of the square field.
	Grid    int     `yaml:"grid"`
	Spacing float32 `yaml:"spacing"`
	// Mesh is the instanced mesh kind: geosphere, sphere or brick.
	Mesh        string  `yaml:"mesh"`
	Radius      float32 `yaml:"radius"`
	Subdivision int     `yaml:"subdivision"`
	// Spin is the rotation speed about Y in radians per second.
	Spin    float32 `yaml:"spin"`
	Culling bool    `yaml:"culling"`
	// Texture is an image path; empty uses a generated checkerboard.
	Texture     string `yaml:"texture"`
	Filter      string `yaml:"filter"`
	AddressMode string `yaml:"address_mode"`
}

// Default returns the configuration used for every key a file leaves out.
func Default() Config {
	return Config{
		Window: WindowConfig{
			Title:     "wgpu demo",
			Width:     1280,
			Height:    720,
			MinWidth:  320,
			MinHeight: 240,
			Resizable: true,
		},
		Renderer: RendererConfig{
			PresentMode: "vsync",
			MSAA:        4,
			ClearColor:  [4]float64{0.1, 0.2, 0.3, 1},
		},
		Engine: EngineConfig{TickRate: 60},
		Camera: CameraConfig{
			Position:    [3]float32{0, 2, -12},
			FovY:        45,
			Near:        0.1,
			Far:         200,
			Speed:       5,
			Sensitivity: 0.25,
		},
		Scene: SceneConfig{
			Grid:        10,
			Spacing:     2.5,
			Mesh:        "geosphere",
			Radius:      0.75,
			Subdivision: 2,
			Spin:        0.5,
			Culling:     true,
			Filter:      "linear",
			AddressMode: "repeat",
		},
	}
}

// Load reads the YAML file at path over the defaults. A missing file is not an error: the
// defaults are returned and a warning is logged.
//
// Parameters:
//   - path: the config file path
//
// Returns:
//   - Config: the merged configuration
//   - error: an error if the file cannot be read, does not parse, or fails Validate
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		slog.Warn("config file not found, using defaults", "path", path)
		return Default(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	slog.Info("loaded config", "path", path, "size", len(data))
	return cfg, nil
}

// Parse decodes YAML over the defaults. Unknown keys are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	// An empty document leaves the defaults untouched.
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first out-of-range value or unknown name.
func (c Config) Validate() error {
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	case c.Window.MinWidth < 0 || c.Window.MinHeight < 0 || c.Window.MaxWidth < 0 || c.Window.MaxHeight < 0:
		return errors.New("window size limits must not be negative")
	case c.Window.MaxWidth > 0 && c.Window.MaxWidth < c.Window.MinWidth,
		c.Window.MaxHeight > 0 && c.Window.MaxHeight < c.Window.MinHeight:
		return fmt.Errorf("window max size %dx%d is below the min size %dx%d",
			c.Window.MaxWidth, c.Window.MaxHeight, c.Window.MinWidth, c.Window.MinHeight)
	case c.Renderer.PresentMode != "vsync" && c.Renderer.PresentMode != "uncapped":
		return fmt.Errorf("present_mode %q must be vsync or uncapped", c.Renderer.PresentMode)
	case c.Renderer.MSAA != 1 && c.Renderer.MSAA != 4:
		return fmt.Errorf("msaa %d must be 1 or 4", c.Renderer.MSAA)
	case c.Engine.TickRate < 0 || c.Engine.FrameLimit < 0 || c.Engine.Workers < 0:
		return errors.New("engine rates and workers must not be negative")
	case c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near:
		return fmt.Errorf("camera clip planes %v..%v must satisfy 0 < near < far", c.Camera.Near, c.Camera.Far)
	case c.Camera.FovY <= 0 || c.Camera.FovY >= 180:
		return fmt.Errorf("camera fov_y %v must be in (0, 180)", c.Camera.FovY)
	case c.Scene.Grid < 0:
		return fmt.Errorf("scene grid %d must not be negative", c.Scene.Grid)
	case c.Scene.Subdivision < 0 || c.Scene.Subdivision > model.MaxSubdivision:
		return fmt.Errorf("scene subdivision %d must be in [0, %d]", c.Scene.Subdivision, model.MaxSubdivision)
	}
	if _, err := model.ParseMeshKind(c.Scene.Mesh); err != nil {
		return fmt.Errorf("scene mesh: %w", err)
	}
	if _, err := texture.ParseFilterMode(c.Scene.Filter); err != nil {
		return fmt.Errorf("scene filter: %w", err)
	}
	if _, err := texture.ParseAddressMode(c.Scene.AddressMode); err != nil {
		return fmt.Errorf("scene address_mode: %w", err)
	}
	return nil
}
