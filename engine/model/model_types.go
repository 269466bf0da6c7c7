package model

import (
	"fmt"
	"strings"
)

// MeshKind names a procedural mesh generator.
type MeshKind string

const (
	MeshKindBrick     MeshKind = "brick"
	MeshKindSphere    MeshKind = "sphere"
	MeshKindGeoSphere MeshKind = "geosphere"
)

// ParseMeshKind parses a generator name, case-insensitively.
func ParseMeshKind(s string) (MeshKind, error) {
	switch k := MeshKind(strings.ToLower(strings.TrimSpace(s))); k {
	case MeshKindBrick, MeshKindSphere, MeshKindGeoSphere:
		return k, nil
	}
	return "", fmt.Errorf("%w: unknown mesh kind %q", ErrInvalidMesh, s)
}

// MeshDescriptor describes a procedural mesh, as read from configuration or flags.
// Fields that do not apply to Kind are ignored.
type MeshDescriptor struct {
	Kind MeshKind `yaml:"kind"`

	// Radius applies to sphere and geosphere.
	Radius float32 `yaml:"radius"`

	// Width, Height and Depth apply to brick.
	Width  float32 `yaml:"width"`
	Height float32 `yaml:"height"`
	Depth  float32 `yaml:"depth"`

	// Slices and Stacks apply to sphere.
	Slices uint32 `yaml:"slices"`
	Stacks uint32 `yaml:"stacks"`

	// Subdivision applies to brick and geosphere.
	Subdivision int `yaml:"subdivision"`
}

// Build runs the generator the descriptor names.
//
// Returns:
//   - *Mesh: the generated mesh
//   - error: an error wrapping ErrInvalidMesh for unknown kinds or invalid parameters
func (d MeshDescriptor) Build() (*Mesh, error) {
	switch d.Kind {
	case MeshKindBrick:
		return Brick(d.Width, d.Height, d.Depth, d.Subdivision)
	case MeshKindSphere:
		return Sphere(d.Radius, d.Slices, d.Stacks)
	case MeshKindGeoSphere:
		return GeoSphere(d.Radius, d.Subdivision)
	}
	return nil, fmt.Errorf("%w: unknown mesh kind %q", ErrInvalidMesh, d.Kind)
}
