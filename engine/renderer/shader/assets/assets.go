// Package assets embeds the WGSL programs of the textured mesh pipelines.
package assets

import _ "embed"

// TexturedFragment samples the diffuse texture at the interpolated texture coordinate.
//
//go:embed textured.frag.wgsl
var TexturedFragment string

// StaticVertex transforms mesh vertices by the view-projection matrix.
//
//go:embed static.vert.wgsl
var StaticVertex string

// InstancedVertex transforms mesh vertices by a per-instance model matrix and then the
// view-projection matrix.
//
//go:embed instanced.vert.wgsl
var InstancedVertex string
