// Command viewer opens a window with a spinning field of instanced spheres above a static
// textured floor.
//
// Controls: WASD or arrows move, left-drag looks around, P pauses, R restarts the clock,
// Escape quits.
package main

import (
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/mjm114514/personal-wgpu-demos/config"
	"github.com/mjm114514/personal-wgpu-demos/engine"
	"github.com/mjm114514/personal-wgpu-demos/engine/camera"
	"github.com/mjm114514/personal-wgpu-demos/engine/input"
	"github.com/mjm114514/personal-wgpu-demos/engine/renderer"
	"github.com/mjm114514/personal-wgpu-demos/engine/renderer/pipeline"
	"github.com/mjm114514/personal-wgpu-demos/engine/scene"
	"github.com/mjm114514/personal-wgpu-demos/engine/window"
)

func main() {
	configPath := flag.String("config", config.DefaultFilename, "path to the YAML config")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	win := window.NewWindow(
		window.WithTitle(cfg.Window.Title),
		window.WithSize(cfg.Window.Width, cfg.Window.Height),
		window.WithMinSize(cfg.Window.MinWidth, cfg.Window.MinHeight),
		window.WithMaxSize(cfg.Window.MaxWidth, cfg.Window.MaxHeight),
		window.WithResizable(cfg.Window.Resizable),
	)

	static, err := pipeline.NewTexturedPipeline(staticPipeline, false)
	if err != nil {
		log.Fatalf("static pipeline: %v", err)
	}
	instanced, err := pipeline.NewTexturedPipeline(instancedPipeline, true)
	if err != nil {
		log.Fatalf("instanced pipeline: %v", err)
	}

	msaa := renderer.MSAA4x
	if cfg.Renderer.MSAA == 1 {
		msaa = renderer.MSAAOff
	}
	bg := cfg.Renderer.ClearColor
	r := renderer.NewRenderer(renderer.BackendTypeWGPU, win,
		renderer.WithPipelines(static, instanced),
		renderer.WithPresentMode(renderer.ParsePresentMode(cfg.Renderer.PresentMode)),
		renderer.WithMSAA(msaa),
		renderer.WithClearColor(wgpu.Color{R: bg[0], G: bg[1], B: bg[2], A: bg[3]}),
		renderer.WithForceSoftwareRenderer(cfg.Renderer.ForceSoftware),
	)

	camCfg := cfg.Camera
	cam := camera.NewCamera(
		camera.WithPosition(camCfg.Position[0], camCfg.Position[1], camCfg.Position[2]),
		camera.WithLens(camCfg.FovY, float32(win.Width())/float32(win.Height()), camCfg.Near, camCfg.Far),
		camera.WithSensitivity(camCfg.Sensitivity),
	)

	var sceneOpts []scene.SceneBuilderOption
	if cfg.Engine.Workers > 0 {
		sceneOpts = append(sceneOpts, scene.WithPrepWorkers(cfg.Engine.Workers))
	}
	sceneOpts = append(sceneOpts, scene.WithCullingDisabled(!cfg.Scene.Culling))
	sc := scene.NewScene("demo", cam, r, sceneOpts...)
	if err := populate(sc, cfg.Scene); err != nil {
		log.Fatalf("scene: %v", err)
	}
	slog.Info("scene ready", "items", sc.Count(), "objects", cfg.Scene.Grid*cfg.Scene.Grid)

	e := engine.NewEngine(
		engine.WithWindow(win),
		engine.WithInput(input.NewController(camCfg.Speed)),
		engine.WithScene(0, sc),
		engine.WithTickRate(cfg.Engine.TickRate),
		engine.WithRenderFrameLimit(cfg.Engine.FrameLimit),
		engine.WithProfiling(cfg.Engine.Profiling),
	)
	e.Run()
}
