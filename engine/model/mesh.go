package model

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/mjm114514/personal-wgpu-demos/common"
)

// MaxSubdivision bounds the Subdivide passes of Brick and GeoSphere. Each pass quadruples
// the triangle count, so level 8 already yields 20*4^8 triangles for a GeoSphere.
const MaxSubdivision = 8

// ErrInvalidMesh is returned when a generator is given parameters that cannot form a mesh.
var ErrInvalidMesh = errors.New("invalid mesh parameters")

// Mesh is an indexed triangle list with Uint32 indices.
type Mesh struct {
	Vertices []GPUVertex
	Indices  []uint32
}

func vtx(px, py, pz, nx, ny, nz, tx, ty, tz, u, v float32) GPUVertex {
	return GPUVertex{
		Position: [3]float32{px, py, pz},
		Normal:   [3]float32{nx, ny, nz},
		Tangent:  [3]float32{tx, ty, tz},
		TexCoord: [2]float32{u, v},
	}
}

// Brick builds an axis-aligned box centred on the origin with 4 vertices per face,
// so every face carries its own normal, tangent and full [0,1] uv range.
//
// Parameters:
//   - width, height, depth: extents along X, Y and Z
//   - subdivision: number of Subdivide passes applied afterwards, at most MaxSubdivision
//
// Returns:
//   - *Mesh: 24 vertices and 36 indices before subdivision
//   - error: ErrInvalidMesh if an extent is not positive or subdivision is out of range
func Brick(width, height, depth float32, subdivision int) (*Mesh, error) {
	if width <= 0 || height <= 0 || depth <= 0 || subdivision < 0 || subdivision > MaxSubdivision {
		return nil, fmt.Errorf("brick %vx%vx%v subdivision %d: %w", width, height, depth, subdivision, ErrInvalidMesh)
	}
	w, h, d := 0.5*width, 0.5*height, 0.5*depth

	m := &Mesh{
		Vertices: []GPUVertex{
			// front (-Z)
			vtx(-w, -h, -d, 0, 0, -1, 1, 0, 0, 0, 1),
			vtx(-w, h, -d, 0, 0, -1, 1, 0, 0, 0, 0),
			vtx(w, h, -d, 0, 0, -1, 1, 0, 0, 1, 0),
			vtx(w, -h, -d, 0, 0, -1, 1, 0, 0, 1, 1),
			// back (+Z)
			vtx(-w, -h, d, 0, 0, 1, -1, 0, 0, 1, 1),
			vtx(w, -h, d, 0, 0, 1, -1, 0, 0, 0, 1),
			vtx(w, h, d, 0, 0, 1, -1, 0, 0, 0, 0),
			vtx(-w, h, d, 0, 0, 1, -1, 0, 0, 1, 0),
			// top
			vtx(-w, h, -d, 0, 1, 0, 1, 0, 0, 0, 1),
			vtx(-w, h, d, 0, 1, 0, 1, 0, 0, 0, 0),
			vtx(w, h, d, 0, 1, 0, 1, 0, 0, 1, 0),
			vtx(w, h, -d, 0, 1, 0, 1, 0, 0, 1, 1),
			// bottom
			vtx(-w, -h, -d, 0, -1, 0, -1, 0, 0, 1, 1),
			vtx(w, -h, -d, 0, -1, 0, -1, 0, 0, 0, 1),
			vtx(w, -h, d, 0, -1, 0, -1, 0, 0, 0, 0),
			vtx(-w, -h, d, 0, -1, 0, -1, 0, 0, 1, 0),
			// left
			vtx(-w, -h, d, -1, 0, 0, 0, 0, -1, 0, 1),
			vtx(-w, h, d, -1, 0, 0, 0, 0, -1, 0, 0),
			vtx(-w, h, -d, -1, 0, 0, 0, 0, -1, 1, 0),
			vtx(-w, -h, -d, -1, 0, 0, 0, 0, -1, 1, 1),
			// right
			vtx(w, -h, -d, 1, 0, 0, 0, 0, 1, 0, 1),
			vtx(w, h, -d, 1, 0, 0, 0, 0, 1, 0, 0),
			vtx(w, h, d, 1, 0, 0, 0, 0, 1, 1, 0),
			vtx(w, -h, d, 1, 0, 0, 0, 0, 1, 1, 1),
		},
		Indices: make([]uint32, 0, 36),
	}
	for face := uint32(0); face < 6; face++ {
		b := face * 4
		m.Indices = append(m.Indices, b, b+1, b+2, b, b+2, b+3)
	}

	for i := 0; i < subdivision; i++ {
		m.Subdivide()
	}
	return m, nil
}

// Sphere builds a UV sphere: a vertex at each pole and stacks-1 rings of slices+1
// vertices, where the duplicated seam vertex carries u = 1.
//
// Parameters:
//   - radius: sphere radius
//   - slices: segments around the Y axis (>= 3)
//   - stacks: segments from pole to pole (>= 2)
//
// Returns:
//   - *Mesh: the generated sphere
//   - error: ErrInvalidMesh on bad parameters
func Sphere(radius float32, slices, stacks uint32) (*Mesh, error) {
	if radius <= 0 || slices < 3 || stacks < 2 {
		return nil, fmt.Errorf("sphere r=%v slices=%d stacks=%d: %w", radius, slices, stacks, ErrInvalidMesh)
	}

	ring := slices + 1
	m := &Mesh{
		Vertices: make([]GPUVertex, 0, ring*(stacks-1)+2),
		Indices:  make([]uint32, 0, 6*slices*(stacks-1)),
	}
	m.Vertices = append(m.Vertices, vtx(0, radius, 0, 0, 1, 0, 1, 0, 0, 0, 0))

	phiStep := math.Pi / float64(stacks)
	thetaStep := 2 * math.Pi / float64(slices)
	for i := uint32(1); i < stacks; i++ {
		phi := float64(i) * phiStep
		sinPhi, cosPhi := math.Sincos(phi)
		for j := uint32(0); j <= slices; j++ {
			theta := float64(j) * thetaStep
			sinTheta, cosTheta := math.Sincos(theta)

			pos := [3]float32{
				float32(float64(radius) * sinPhi * cosTheta),
				float32(float64(radius) * cosPhi),
				float32(float64(radius) * sinPhi * sinTheta),
			}
			tangent := common.Normalize3([3]float32{
				float32(-float64(radius) * sinPhi * sinTheta),
				0,
				float32(float64(radius) * sinPhi * cosTheta),
			})
			m.Vertices = append(m.Vertices, GPUVertex{
				Position: pos,
				Normal:   common.Normalize3(pos),
				Tangent:  tangent,
				TexCoord: [2]float32{float32(theta / (2 * math.Pi)), float32(phi / math.Pi)},
			})
		}
	}
	m.Vertices = append(m.Vertices, vtx(0, -radius, 0, 0, -1, 0, 1, 0, 0, 0, 1))

	// top cap, fanned around the north pole at index 0
	for j := uint32(0); j < slices; j++ {
		m.Indices = append(m.Indices, 0, j+2, j+1)
	}

	// body, skipping the north pole
	for i := uint32(0); i < stacks-2; i++ {
		for j := uint32(0); j < slices; j++ {
			a := 1 + i*ring + j
			b := 1 + (i+1)*ring + j
			m.Indices = append(m.Indices,
				a, a+1, b,
				b, a+1, b+1,
			)
		}
	}

	// bottom cap, fanned around the south pole written last
	south := uint32(len(m.Vertices) - 1)
	base := south - ring
	for j := uint32(0); j < slices; j++ {
		m.Indices = append(m.Indices, south, base+j, base+j+1)
	}

	return m, nil
}

var (
	icosahedronX = float32(0.525731)
	icosahedronZ = float32(0.850651)

	icosahedronPositions = [12][3]float32{
		{-icosahedronX, 0, icosahedronZ}, {icosahedronX, 0, icosahedronZ},
		{-icosahedronX, 0, -icosahedronZ}, {icosahedronX, 0, -icosahedronZ},
		{0, icosahedronZ, icosahedronX}, {0, icosahedronZ, -icosahedronX},
		{0, -icosahedronZ, icosahedronX}, {0, -icosahedronZ, -icosahedronX},
		{icosahedronZ, icosahedronX, 0}, {-icosahedronZ, icosahedronX, 0},
		{icosahedronZ, -icosahedronX, 0}, {-icosahedronZ, -icosahedronX, 0},
	}

	icosahedronIndices = [60]uint32{
		1, 4, 0, 4, 9, 0, 4, 5, 9, 8, 5, 4, 1, 8, 4,
		1, 10, 8, 10, 3, 8, 8, 3, 5, 3, 2, 5, 3, 7, 2,
		3, 10, 7, 10, 6, 7, 6, 11, 7, 6, 0, 11, 6, 1, 0,
		10, 1, 6, 11, 0, 9, 2, 11, 9, 5, 2, 9, 11, 2, 7,
	}
)

// GeoSphere builds a geodesic sphere by subdividing an icosahedron and projecting
// every vertex onto the sphere. Texture coordinates come from the spherical angles:
// u = theta/2pi with theta = atan2(z, x) in [0, 2pi], v = phi/pi with phi = acos(y/r).
//
// Parameters:
//   - radius: sphere radius
//   - subdivision: number of Subdivide passes, at most MaxSubdivision
//
// Returns:
//   - *Mesh: 20*4^subdivision triangles
//   - error: ErrInvalidMesh on bad parameters
func GeoSphere(radius float32, subdivision int) (*Mesh, error) {
	if radius <= 0 || subdivision < 0 || subdivision > MaxSubdivision {
		return nil, fmt.Errorf("geosphere r=%v subdivision %d: %w", radius, subdivision, ErrInvalidMesh)
	}

	m := &Mesh{
		Vertices: make([]GPUVertex, len(icosahedronPositions)),
		Indices:  append([]uint32(nil), icosahedronIndices[:]...),
	}
	for i, p := range icosahedronPositions {
		m.Vertices[i].Position = p
	}
	for i := 0; i < subdivision; i++ {
		m.Subdivide()
	}

	r := float64(radius)
	for i := range m.Vertices {
		v := &m.Vertices[i]
		v.Normal = common.Normalize3(v.Position)
		v.Position = [3]float32{v.Normal[0] * radius, v.Normal[1] * radius, v.Normal[2] * radius}

		theta := math.Atan2(float64(v.Position[2]), float64(v.Position[0]))
		if theta < 0 {
			theta += 2 * math.Pi
		}
		phi := math.Acos(math.Max(-1, math.Min(1, float64(v.Position[1])/r)))

		v.TexCoord = [2]float32{float32(theta / (2 * math.Pi)), float32(phi / math.Pi)}

		sinPhi := math.Sin(phi)
		sinTheta, cosTheta := math.Sincos(theta)
		v.Tangent = [3]float32{float32(-r * sinPhi * sinTheta), 0, float32(r * sinPhi * cosTheta)}
	}
	return m, nil
}

// Subdivide splits every triangle (v0, v1, v2) into four using the edge midpoints
// m0 = mid(v0,v1), m1 = mid(v1,v2) and m2 = mid(v0,v2). The original triangle becomes
// (v0, m0, m2) in place and (m0, v1, m1), (m0, m1, m2), (m2, m1, v2) are appended.
// Midpoints are not shared, so each pass adds three vertices per triangle.
func (m *Mesh) Subdivide() {
	triangles := len(m.Indices) / 3

	vertices := make([]GPUVertex, len(m.Vertices), len(m.Vertices)+triangles*3)
	copy(vertices, m.Vertices)
	indices := make([]uint32, len(m.Indices), len(m.Indices)*4)
	copy(indices, m.Indices)

	for t := 0; t < triangles; t++ {
		i0, i1, i2 := indices[t*3], indices[t*3+1], indices[t*3+2]
		v0, v1, v2 := vertices[i0], vertices[i1], vertices[i2]

		m0 := uint32(len(vertices))
		m1, m2 := m0+1, m0+2
		vertices = append(vertices, Midpoint(v0, v1), Midpoint(v1, v2), Midpoint(v0, v2))

		indices[t*3+1] = m0
		indices[t*3+2] = m2
		indices = append(indices,
			m0, i1, m1,
			m0, m1, m2,
			m2, m1, i2,
		)
	}

	m.Vertices = vertices
	m.Indices = indices
}

// TriangleCount returns the number of triangles in the index list.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// BoundingRadius returns the largest vertex distance from the origin.
func (m *Mesh) BoundingRadius() float32 {
	var maxSq float32
	for _, v := range m.Vertices {
		if d := common.Dot3(v.Position, v.Position); d > maxSq {
			maxSq = d
		}
	}
	return float32(math.Sqrt(float64(maxSq)))
}

// VertexData returns the vertex buffer contents.
func (m *Mesh) VertexData() []byte {
	return MarshalVertices(m.Vertices)
}

// IndexData returns the Uint32 index buffer contents.
func (m *Mesh) IndexData() []byte {
	return common.SliceToBytes(m.Indices)
}

// WriteOBJ writes the mesh as Wavefront OBJ with positions, texcoords and normals.
// OBJ indices are 1-based and each face references the same index for v/vt/vn.
//
// Parameters:
//   - w: destination writer
//
// Returns:
//   - error: the first write error encountered
func (m *Mesh) WriteOBJ(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, v := range m.Vertices {
		fmt.Fprintf(bw, "v %g %g %g\n", v.Position[0], v.Position[1], v.Position[2])
	}
	for _, v := range m.Vertices {
		// OBJ puts v = 0 at the bottom of the image.
		fmt.Fprintf(bw, "vt %g %g\n", v.TexCoord[0], 1-v.TexCoord[1])
	}
	for _, v := range m.Vertices {
		fmt.Fprintf(bw, "vn %g %g %g\n", v.Normal[0], v.Normal[1], v.Normal[2])
	}
	for t := 0; t < m.TriangleCount(); t++ {
		a, b, c := m.Indices[t*3]+1, m.Indices[t*3+1]+1, m.Indices[t*3+2]+1
		fmt.Fprintf(bw, "f %d/%d/%d %d/%d/%d %d/%d/%d\n", a, a, a, b, b, b, c, c, c)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write obj: %w", err)
	}
	return nil
}
