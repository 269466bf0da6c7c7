package main

import (
	"fmt"
	"image/color"

	"github.com/mjm114514/personal-wgpu-demos/common"
	"github.com/mjm114514/personal-wgpu-demos/config"
	"github.com/mjm114514/personal-wgpu-demos/engine/game_object"
	"github.com/mjm114514/personal-wgpu-demos/engine/model"
	"github.com/mjm114514/personal-wgpu-demos/engine/renderer/material"
	"github.com/mjm114514/personal-wgpu-demos/engine/scene"
	"github.com/mjm114514/personal-wgpu-demos/engine/texture"
)

const (
	staticPipeline    = "textured_static"
	instancedPipeline = "textured_instanced"
)

// populate adds the floor brick and the instanced field to the scene.
func populate(sc scene.Scene, cfg config.SceneConfig) error {
	sampler, err := samplerFor(cfg)
	if err != nil {
		return err
	}

	floorMesh, err := model.Brick(float32(cfg.Grid+2)*cfg.Spacing, 0.2, float32(cfg.Grid+2)*cfg.Spacing, 1)
	if err != nil {
		return err
	}
	floor := model.NewModel(model.WithName("floor"), model.WithMesh(floorMesh))
	floorMat := material.NewMaterial(
		material.WithName("floor"),
		material.WithPipelineKey(staticPipeline),
		material.WithDiffuse(texture.Checkerboard(256, 16, color.RGBA{200, 200, 200, 255}, color.RGBA{60, 60, 60, 255})),
		material.WithSampler(sampler),
	)
	if err := sc.AddStatic(floor, floorMat.PipelineKey(), floorMat.BindGroupProvider()); err != nil {
		return err
	}

	if cfg.Grid == 0 {
		return nil
	}
	kind, err := model.ParseMeshKind(cfg.Mesh)
	if err != nil {
		return err
	}
	d := 2 * cfg.Radius
	mesh, err := model.MeshDescriptor{
		Kind: kind, Radius: cfg.Radius, Width: d, Height: d, Depth: d,
		Slices: 32, Stacks: 16, Subdivision: cfg.Subdivision,
	}.Build()
	if err != nil {
		return err
	}
	field := model.NewModel(model.WithName("field"), model.WithMesh(mesh))

	pixels := texture.Checkerboard(128, 8, color.RGBA{230, 120, 40, 255}, color.RGBA{40, 90, 200, 255})
	if cfg.Texture != "" {
		if pixels, err = texture.Load(cfg.Texture); err != nil {
			return err
		}
	}
	fieldMat := material.NewMaterial(
		material.WithName("field"),
		material.WithPipelineKey(instancedPipeline),
		material.WithDiffuse(pixels),
		material.WithSampler(sampler),
	)
	return sc.AddInstanced(field, fieldMat.PipelineKey(), fieldMat.BindGroupProvider(), gridObjects(cfg)...)
}

// gridObjects lays out Grid x Grid objects centered on the origin, one radius above the floor.
// Each spins about Y at a slightly different rate.
func gridObjects(cfg config.SceneConfig) []game_object.GameObject {
	objects := make([]game_object.GameObject, 0, cfg.Grid*cfg.Grid)
	half := float32(cfg.Grid-1) / 2
	for i := 0; i < cfg.Grid; i++ {
		for j := 0; j < cfg.Grid; j++ {
			x := (float32(i) - half) * cfg.Spacing
			z := (float32(j) - half) * cfg.Spacing
			spin := cfg.Spin * (1 + 0.1*float32((i+j)%5))
			objects = append(objects, game_object.NewGameObject(
				game_object.WithID(uint64(i*cfg.Grid+j+1)),
				game_object.WithPosition(x, cfg.Radius+0.1, z),
				game_object.WithRotationSpeed(0, spin, 0),
			))
		}
	}
	return objects
}

func samplerFor(cfg config.SceneConfig) (*common.SamplerStagingData, error) {
	s := texture.DefaultSampler()
	filter, err := texture.ParseFilterMode(cfg.Filter)
	if err != nil {
		return nil, fmt.Errorf("scene filter: %w", err)
	}
	address, err := texture.ParseAddressMode(cfg.AddressMode)
	if err != nil {
		return nil, fmt.Errorf("scene address_mode: %w", err)
	}
	s.MagFilter, s.MinFilter = filter, filter
	s.AddressModeU, s.AddressModeV, s.AddressModeW = address, address, address
	return s, nil
}
