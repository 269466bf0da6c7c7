package shader

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
)

// wgslVertexFormatMap maps WGSL vertex attribute types to a wgpu vertex format.
var wgslVertexFormatMap = map[string]vertexFormatInfo{
	"f32":       {wgpu.VertexFormatFloat32, 4, 1},
	"vec2f":     {wgpu.VertexFormatFloat32x2, 8, 2},
	"vec2<f32>": {wgpu.VertexFormatFloat32x2, 8, 2},
	"vec3f":     {wgpu.VertexFormatFloat32x3, 12, 3},
	"vec3<f32>": {wgpu.VertexFormatFloat32x3, 12, 3},
	"vec4f":     {wgpu.VertexFormatFloat32x4, 16, 4},
	"vec4<f32>": {wgpu.VertexFormatFloat32x4, 16, 4},
	"i32":       {wgpu.VertexFormatSint32, 4, 1},
	"vec2<i32>": {wgpu.VertexFormatSint32x2, 8, 2},
	"vec3<i32>": {wgpu.VertexFormatSint32x3, 12, 3},
	"vec4<i32>": {wgpu.VertexFormatSint32x4, 16, 4},
	"u32":       {wgpu.VertexFormatUint32, 4, 1},
	"vec2<u32>": {wgpu.VertexFormatUint32x2, 8, 2},
	"vec3<u32>": {wgpu.VertexFormatUint32x3, 12, 3},
	"vec4<u32>": {wgpu.VertexFormatUint32x4, 16, 4},
}

// scalarKind is the shader-side scalar a vertex format is read as.
type scalarKind int

const (
	scalarFloat scalarKind = iota
	scalarSint
	scalarUint
)

func (k scalarKind) String() string {
	switch k {
	case scalarSint:
		return "i32"
	case scalarUint:
		return "u32"
	}
	return "f32"
}

// formatShape is what a shader input sees of a vertex format. Normalized and half formats
// read as f32.
type formatShape struct {
	scalar     scalarKind
	components int
}

func (f formatShape) String() string {
	if f.components == 1 {
		return f.scalar.String()
	}
	return "vec" + strconv.Itoa(f.components) + "<" + f.scalar.String() + ">"
}

// vertexFormatShapes is the reverse lookup used when checking host layouts.
var vertexFormatShapes = map[wgpu.VertexFormat]formatShape{
	wgpu.VertexFormatFloat32:   {scalarFloat, 1},
	wgpu.VertexFormatFloat32x2: {scalarFloat, 2},
	wgpu.VertexFormatFloat32x3: {scalarFloat, 3},
	wgpu.VertexFormatFloat32x4: {scalarFloat, 4},
	wgpu.VertexFormatFloat16x2: {scalarFloat, 2},
	wgpu.VertexFormatFloat16x4: {scalarFloat, 4},
	wgpu.VertexFormatUnorm8x2:  {scalarFloat, 2},
	wgpu.VertexFormatUnorm8x4:  {scalarFloat, 4},
	wgpu.VertexFormatSnorm8x2:  {scalarFloat, 2},
	wgpu.VertexFormatSnorm8x4:  {scalarFloat, 4},
	wgpu.VertexFormatSint32:    {scalarSint, 1},
	wgpu.VertexFormatSint32x2:  {scalarSint, 2},
	wgpu.VertexFormatSint32x3:  {scalarSint, 3},
	wgpu.VertexFormatSint32x4:  {scalarSint, 4},
	wgpu.VertexFormatUint32:    {scalarUint, 1},
	wgpu.VertexFormatUint32x2:  {scalarUint, 2},
	wgpu.VertexFormatUint32x3:  {scalarUint, 3},
	wgpu.VertexFormatUint32x4:  {scalarUint, 4},
}

var (
	structBlockRegex = regexp.MustCompile(`struct\s+(\w+)\s*\{([^}]*)\}`)
	locationRegex    = regexp.MustCompile(`@location\((\d+)\)`)
	builtinRegex     = regexp.MustCompile(`@builtin\(\w+\)`)

	// fieldRegex captures a field name and its type after any attributes.
	fieldRegex = regexp.MustCompile(`(?:@\w+\([^)]*\)\s*)*(\w+)\s*:\s*(.+)`)

	vertexEntryRegex   = regexp.MustCompile(`(?s)@vertex\b.*?\bfn\s+(\w+)`)
	fragmentEntryRegex = regexp.MustCompile(`(?s)@fragment\b.*?\bfn\s+(\w+)`)

	// bindGroupDeclRegex captures group, binding, optional address space, name and type from
	// "@group(1) @binding(0) var<uniform> uniforms: Uniforms;" or "@group(0) @binding(1) var s: sampler;".
	bindGroupDeclRegex = regexp.MustCompile(`@group\((\d+)\)\s*@binding\((\d+)\)\s*var(?:<([^>]*)>)?\s+(\w+)\s*:\s*([^;]+?)\s*;`)
)

// parseVertexInputs returns every @location field of every vertex input struct in source,
// sorted by location. A vertex input struct has at least one @location and no @builtin.
//
// Parameters:
//   - source: WGSL source after pre-processing
//
// Returns:
//   - []VertexInput: the reflected inputs
//   - error: an error if a field type has no vertex format or a location is declared twice
func parseVertexInputs(source string) ([]VertexInput, error) {
	var inputs []VertexInput
	seen := make(map[uint32]string)
	for _, ps := range parseStructBlocks(stripComments(source)) {
		if !isVertexInputStruct(ps) {
			continue
		}
		for _, f := range ps.fields {
			if f.location < 0 {
				continue
			}
			info, ok := wgslVertexFormatMap[f.typeName]
			if !ok {
				return nil, &parseError{msg: "struct " + ps.name + " field " + f.name + ": unsupported vertex type " + f.typeName}
			}
			loc := uint32(f.location)
			if prev, dup := seen[loc]; dup {
				return nil, &parseError{msg: "location " + strconv.Itoa(f.location) + " declared by both " + prev + " and " + ps.name + "." + f.name}
			}
			seen[loc] = ps.name + "." + f.name
			inputs = append(inputs, VertexInput{Struct: ps.name, Name: f.name, Location: loc, Format: info.format})
		}
	}
	sort.Slice(inputs, func(i, j int) bool { return inputs[i].Location < inputs[j].Location })
	return inputs, nil
}

// parseVertexLayouts derives one tightly packed, per-vertex buffer layout for each vertex
// input struct, in source order. Hosts that interleave or step per instance supply their
// own layouts through WithVertexLayouts.
func parseVertexLayouts(source string) []wgpu.VertexBufferLayout {
	var layouts []wgpu.VertexBufferLayout
	for _, ps := range parseStructBlocks(stripComments(source)) {
		if !isVertexInputStruct(ps) {
			continue
		}
		if layout, ok := buildVertexBufferLayout(ps); ok {
			layouts = append(layouts, layout)
		}
	}
	return layouts
}

// parseBindings reflects every @group/@binding declaration in source.
// Buffer bindings carry the byte size of their bound type when it can be resolved.
//
// Parameters:
//   - source: WGSL source after pre-processing
//
// Returns:
//   - []Binding: bindings sorted by group then binding
func parseBindings(source string) []Binding {
	cleaned := stripComments(source)
	sizes := computeStructSizes(parseStructBlocks(cleaned))

	var bindings []Binding
	for _, m := range bindGroupDeclRegex.FindAllStringSubmatch(cleaned, -1) {
		group, _ := strconv.Atoi(m[1])
		binding, _ := strconv.Atoi(m[2])
		typeName := strings.TrimSpace(m[5])
		b := Binding{
			Group:   group,
			Binding: binding,
			VarName: strings.TrimSpace(m[4]),
			Kind:    classifyKind(strings.TrimSpace(m[3]), typeName),
		}
		if b.Kind == ResourceKindUniformBuffer || b.Kind == ResourceKindStorageBuffer {
			if layout, ok := resolveTypeLayout(typeName, sizes); ok {
				b.Size = layout.size
			}
		}
		bindings = append(bindings, b)
	}
	sort.Slice(bindings, func(i, j int) bool {
		if bindings[i].Group != bindings[j].Group {
			return bindings[i].Group < bindings[j].Group
		}
		return bindings[i].Binding < bindings[j].Binding
	})
	return bindings
}

// buildBindGroupLayouts converts reflected bindings into layout descriptors keyed by group.
//
// Parameters:
//   - source: WGSL source after pre-processing, needed for texture and sampler details
//   - bindings: the reflected bindings
//   - visibility: the shader stage that declared them
//
// Returns:
//   - map[int]wgpu.BindGroupLayoutDescriptor: layout descriptors keyed by group index
func buildBindGroupLayouts(source string, bindings []Binding, visibility wgpu.ShaderStage) map[int]wgpu.BindGroupLayoutDescriptor {
	types := make(map[[2]int]string)
	spaces := make(map[[2]int]string)
	for _, m := range bindGroupDeclRegex.FindAllStringSubmatch(stripComments(source), -1) {
		group, _ := strconv.Atoi(m[1])
		binding, _ := strconv.Atoi(m[2])
		types[[2]int{group, binding}] = strings.TrimSpace(m[5])
		spaces[[2]int{group, binding}] = strings.TrimSpace(m[3])
	}

	entries := make(map[int][]wgpu.BindGroupLayoutEntry)
	for _, b := range bindings {
		key := [2]int{b.Group, b.Binding}
		entry := classifyResource(uint32(b.Binding), visibility, spaces[key], types[key])
		if entry.Buffer.Type != wgpu.BufferBindingTypeUndefined {
			entry.Buffer.MinBindingSize = b.Size
		}
		entries[b.Group] = append(entries[b.Group], entry)
	}

	result := make(map[int]wgpu.BindGroupLayoutDescriptor, len(entries))
	for g, e := range entries {
		result[g] = wgpu.BindGroupLayoutDescriptor{Entries: e}
	}
	return result
}

// parseEntryPoint returns the name of the first @vertex or @fragment function, or "".
func parseEntryPoint(source string, shaderType ShaderType) string {
	re := vertexEntryRegex
	if shaderType == ShaderTypeFragment {
		re = fragmentEntryRegex
	}
	if m := re.FindStringSubmatch(stripComments(source)); m != nil {
		return m[1]
	}
	return ""
}

func parseStructBlocks(source string) []parsedStruct {
	matches := structBlockRegex.FindAllStringSubmatch(source, -1)
	structs := make([]parsedStruct, 0, len(matches))
	for _, m := range matches {
		structs = append(structs, parsedStruct{name: m[1], fields: parseStructFields(m[2])})
	}
	return structs
}

func parseStructFields(body string) []parsedField {
	parts := splitAtTopLevelCommas(body)
	fields := make([]parsedField, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		fm := fieldRegex.FindStringSubmatch(part)
		if fm == nil {
			continue
		}
		field := parsedField{
			name:      fm[1],
			typeName:  strings.TrimSpace(fm[2]),
			location:  -1,
			isBuiltin: builtinRegex.MatchString(part),
		}
		if lm := locationRegex.FindStringSubmatch(part); lm != nil {
			field.location, _ = strconv.Atoi(lm[1])
		}
		fields = append(fields, field)
	}
	return fields
}

type parseError struct {
	msg string
}

func (e *parseError) Error() string {
	return "wgsl: " + e.msg
}
