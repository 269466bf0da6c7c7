package shader

import (
	"errors"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

var (
	// ErrLocationMismatch is returned when a vertex input is missing from the host layouts,
	// fed twice, or fed with a format of a different scalar type or component count.
	ErrLocationMismatch = errors.New("vertex input location mismatch")

	// ErrBindingMismatch is returned when a declared resource does not match what the host binds.
	ErrBindingMismatch = errors.New("resource binding mismatch")
)

// BindingExpectation is one resource the host will bind at draw time.
type BindingExpectation struct {
	Group   int
	Binding int
	Kind    ResourceKind
	// MinSize is the smallest buffer the host will bind. Ignored for textures and samplers.
	MinSize uint64
}

func (s *shader) ValidateVertexLayouts(layouts []wgpu.VertexBufferLayout) error {
	provided := make(map[uint32]wgpu.VertexFormat)
	for slot, layout := range layouts {
		for _, attr := range layout.Attributes {
			if _, dup := provided[attr.ShaderLocation]; dup {
				return fmt.Errorf("%w: location %d fed twice (slot %d)", ErrLocationMismatch, attr.ShaderLocation, slot)
			}
			provided[attr.ShaderLocation] = attr.Format
		}
	}
	for _, in := range s.vertexInputs {
		format, ok := provided[in.Location]
		if !ok {
			return fmt.Errorf("%w: location %d (%s.%s) has no host attribute", ErrLocationMismatch, in.Location, in.Struct, in.Name)
		}
		want := vertexFormatShapes[in.Format]
		got, known := vertexFormatShapes[format]
		if !known || got != want {
			return fmt.Errorf("%w: location %d (%s.%s) reads %s, host provides format %d",
				ErrLocationMismatch, in.Location, in.Struct, in.Name, want, format)
		}
	}
	return nil
}

func (s *shader) ValidateBindings(expect []BindingExpectation) error {
	declared := make(map[[2]int]Binding, len(s.bindings))
	for _, b := range s.bindings {
		declared[[2]int{b.Group, b.Binding}] = b
	}
	for _, e := range expect {
		key := [2]int{e.Group, e.Binding}
		b, ok := declared[key]
		if !ok {
			return fmt.Errorf("%w: group %d binding %d not declared by %s", ErrBindingMismatch, e.Group, e.Binding, s.key)
		}
		if b.Kind != e.Kind {
			return fmt.Errorf("%w: group %d binding %d is a %s, host binds a %s", ErrBindingMismatch, e.Group, e.Binding, b.Kind, e.Kind)
		}
		if e.Kind == ResourceKindUniformBuffer && e.MinSize > 0 && b.Size > e.MinSize {
			return fmt.Errorf("%w: group %d binding %d needs %d bytes, host binds %d", ErrBindingMismatch, e.Group, e.Binding, b.Size, e.MinSize)
		}
		delete(declared, key)
	}
	for key, b := range declared {
		return fmt.Errorf("%w: group %d binding %d (%s) has no host resource", ErrBindingMismatch, key[0], key[1], b.VarName)
	}
	return nil
}
