package scene

import (
	"math"

	"github.com/mjm114514/personal-wgpu-demos/common"
	"github.com/mjm114514/personal-wgpu-demos/engine/game_object"
	"github.com/mjm114514/personal-wgpu-demos/engine/model"
	"github.com/mjm114514/personal-wgpu-demos/engine/renderer/bind_group_provider"
)

// renderItem is one draw: a model, the pipeline it is drawn with, and for instanced items the
// objects whose transforms fill the instance buffer.
type renderItem struct {
	model       model.Model
	pipelineKey string
	textures    bind_group_provider.BindGroupProvider
	instanced   bool
	objects     []game_object.GameObject

	// bindGroups is indexed by bind group number, resolved once when the item is added.
	bindGroups []bind_group_provider.BindGroupProvider

	// Per-frame scratch, written by prepare and read by the scene after the worker barrier.
	instances []model.GPUInstance
	data      []byte
	visible   int
}

// instanceCount returns how many instances the next draw covers.
func (it *renderItem) instanceCount() uint32 {
	if !it.instanced {
		return 1
	}
	return uint32(it.visible)
}

// prepare advances every object by dt and packs the transforms of the enabled ones. With a
// frustum, objects whose scaled bounding sphere lies outside it are skipped.
//
// Parameters:
//   - dt: elapsed seconds since the previous frame
//   - frustum: the camera frustum, or nil to draw every enabled object
func (it *renderItem) prepare(dt float32, frustum *common.Frustum) {
	radius := it.model.BoundingRadius()
	it.instances = it.instances[:0]
	for _, obj := range it.objects {
		obj.Advance(dt)
		if !obj.Enabled() {
			continue
		}
		if frustum != nil && radius > 0 {
			pos, scale, _, _ := obj.TransformData()
			if !frustum.ContainsSphere(pos, radius*maxAbs(scale)) {
				continue
			}
		}
		it.instances = append(it.instances, obj.Instance())
	}
	it.data = model.MarshalInstances(it.data, it.instances)
	it.visible = len(it.instances)
}

func maxAbs(v [3]float32) float32 {
	m := float32(math.Abs(float64(v[0])))
	m = max(m, float32(math.Abs(float64(v[1]))))
	return max(m, float32(math.Abs(float64(v[2]))))
}

// growCapacity rounds a required instance count up to the next power of two so a slowly
// growing item does not reallocate its buffer every frame.
func growCapacity(n int) int {
	c := 1
	for c < n {
		c <<= 1
	}
	return c
}
