package shader

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// annotationPrefix marks a WGSL line comment as a pre-processor directive, e.g. "//@wgd:include uniforms".
const annotationPrefix = "@wgd:"

// AnnotationType is the directive name following the @wgd: prefix.
type AnnotationType string

const (
	// annotationTypeInclude injects a registered struct definition: //@wgd:include <struct>
	annotationTypeInclude AnnotationType = "include"

	// AnnotationTypeBindingGroup emits a buffer binding declaration:
	// //@wgd:group <group> <binding> <address space> <var name> <struct>
	AnnotationTypeBindingGroup AnnotationType = "group"

	// AnnotationTypeProvider emits nothing and tags the next handle declaration with the
	// provider that owns it: //@wgd:provider <group> <binding> <provider>[ <role>]
	AnnotationTypeProvider AnnotationType = "provider"
)

// Annotation is one parsed @wgd: directive.
type Annotation struct {
	Type AnnotationType
	// Args holds the directive arguments after group and binding numbers.
	Args []AnnotationArg
	// Line is the 1-based source line of the directive.
	Line    int
	Group   *int
	Binding *int
}

// AnnotationArg is a single argument token of an annotation.
type AnnotationArg string

// Struct types that can be injected with @wgd:include or bound with @wgd:group.
const (
	AnnotationArgUniforms   AnnotationArg = "uniforms"
	annotationArgVertex     AnnotationArg = "vertex"
	annotationArgInstance   AnnotationArg = "instance"
	annotationArgUniformBuf AnnotationArg = "storage_uniform"
)

// Provider identities used by @wgd:provider and resolved by the scene.
const (
	AnnotationArgCamera  AnnotationArg = "camera"
	AnnotationArgTexture AnnotationArg = "texture"
)

// Binding roles within a texture provider.
const (
	AnnotationArgDiffuseTexture AnnotationArg = "diffuse_texture"
	AnnotationArgDiffuseSampler AnnotationArg = "diffuse_sampler"
)

var validStructTypes = []AnnotationArg{
	AnnotationArgUniforms,
	annotationArgVertex,
	annotationArgInstance,
}

var validAddressSpaces = []AnnotationArg{
	annotationArgUniformBuf,
}

var validProviderIdentities = []AnnotationArg{
	AnnotationArgCamera,
	AnnotationArgTexture,
}

var validBindingRoles = []AnnotationArg{
	AnnotationArgDiffuseTexture,
	AnnotationArgDiffuseSampler,
}

// parseAnnotation parses a single source line. Lines without the @wgd: prefix return nil, nil.
//
// Parameters:
//   - line: the raw source line
//   - lineNum: the 1-based line number, used in error messages
//
// Returns:
//   - *Annotation: the parsed annotation, or nil if the line is not a directive
//   - error: an error if the directive is malformed
func parseAnnotation(line string, lineNum int) (*Annotation, error) {
	_, after, ok := strings.Cut(strings.TrimSpace(line), annotationPrefix)
	if !ok {
		return nil, nil
	}
	args := strings.Fields(after)
	if len(args) == 0 {
		return nil, fmt.Errorf("line %d: empty @wgd annotation", lineNum)
	}

	switch AnnotationType(args[0]) {
	case annotationTypeInclude:
		if len(args) != 2 {
			return nil, fmt.Errorf("line %d: @wgd:include takes exactly one struct name", lineNum)
		}
		if !slices.Contains(validStructTypes, AnnotationArg(args[1])) {
			return nil, fmt.Errorf("line %d: unknown struct %q in @wgd:include", lineNum, args[1])
		}
		return &Annotation{Type: annotationTypeInclude, Args: []AnnotationArg{AnnotationArg(args[1])}, Line: lineNum}, nil

	case AnnotationTypeBindingGroup:
		if len(args) != 6 {
			return nil, fmt.Errorf("line %d: @wgd:group needs group, binding, address space, var name and struct", lineNum)
		}
		group, binding, err := parseGroupBinding(args[1], args[2], lineNum)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(validAddressSpaces, AnnotationArg(args[3])) {
			return nil, fmt.Errorf("line %d: unknown address space %q in @wgd:group", lineNum, args[3])
		}
		if !slices.Contains(validStructTypes, AnnotationArg(args[5])) {
			return nil, fmt.Errorf("line %d: unknown struct %q in @wgd:group", lineNum, args[5])
		}
		return &Annotation{
			Type:    AnnotationTypeBindingGroup,
			Args:    []AnnotationArg{AnnotationArg(args[3]), AnnotationArg(args[4]), AnnotationArg(args[5])},
			Line:    lineNum,
			Group:   &group,
			Binding: &binding,
		}, nil

	case AnnotationTypeProvider:
		if len(args) < 4 || len(args) > 5 {
			return nil, fmt.Errorf("line %d: @wgd:provider needs group, binding, provider and an optional role", lineNum)
		}
		group, binding, err := parseGroupBinding(args[1], args[2], lineNum)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(validProviderIdentities, AnnotationArg(args[3])) {
			return nil, fmt.Errorf("line %d: unknown provider %q in @wgd:provider", lineNum, args[3])
		}
		providerArgs := []AnnotationArg{AnnotationArg(args[3])}
		if len(args) == 5 {
			if !slices.Contains(validBindingRoles, AnnotationArg(args[4])) {
				return nil, fmt.Errorf("line %d: unknown binding role %q in @wgd:provider", lineNum, args[4])
			}
			providerArgs = append(providerArgs, AnnotationArg(args[4]))
		}
		return &Annotation{
			Type:    AnnotationTypeProvider,
			Args:    providerArgs,
			Line:    lineNum,
			Group:   &group,
			Binding: &binding,
		}, nil
	}

	return nil, fmt.Errorf("line %d: unknown @wgd annotation type %q", lineNum, args[0])
}

func parseGroupBinding(groupArg, bindingArg string, lineNum int) (int, int, error) {
	group, err := strconv.Atoi(groupArg)
	if err != nil || group < 0 {
		return 0, 0, fmt.Errorf("line %d: invalid group number %q", lineNum, groupArg)
	}
	binding, err := strconv.Atoi(bindingArg)
	if err != nil || binding < 0 {
		return 0, 0, fmt.Errorf("line %d: invalid binding number %q", lineNum, bindingArg)
	}
	return group, binding, nil
}

// Identity returns the provider identity a declaration refers to. For @wgd:group
// declarations this is the bound struct (e.g. "uniforms" resolves to the camera).
func (a Annotation) Identity() AnnotationArg {
	switch a.Type {
	case AnnotationTypeProvider:
		return a.Args[0]
	case AnnotationTypeBindingGroup:
		if a.Args[2] == AnnotationArgUniforms {
			return AnnotationArgCamera
		}
		return a.Args[2]
	}
	return ""
}
