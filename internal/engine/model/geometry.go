package model

import (
	"fmt"
	"sort"
)

// Geometry is the vertex and index data of one mesh.
// Geometries are shared by reference; Clone before mutating one that may be
// referenced elsewhere.
type Geometry struct {
	Vertices []Vertex
	Indices  []uint32
	Groups   []Group
	Bounds   Bounds
	Skinned  bool

	attributes map[string][]float32
	version    int
	disposed   bool
	onDispose  []func()
}

// NewGeometry creates a geometry with a single group covering all indices
// and computed bounds.
func NewGeometry(vertices []Vertex, indices []uint32) *Geometry {
	g := &Geometry{
		Vertices: vertices,
		Indices:  indices,
	}
	count := len(indices)
	if count == 0 {
		count = len(vertices)
	}
	g.Groups = []Group{{MaterialIndex: 0, StartIndex: 0, IndexCount: int32(count)}}
	g.ComputeBounds()
	return g
}

// VertexCount returns the number of vertices.
func (g *Geometry) VertexCount() int {
	return len(g.Vertices)
}

// Attribute returns a named custom attribute.
func (g *Geometry) Attribute(name string) ([]float32, bool) {
	data, ok := g.attributes[name]
	return data, ok
}

// SetAttribute attaches a named scalar attribute with one value per vertex.
func (g *Geometry) SetAttribute(name string, data []float32) error {
	if len(data) != len(g.Vertices) {
		return fmt.Errorf("%s: %w (%d != %d)", name, ErrAttributeLength, len(data), len(g.Vertices))
	}
	if g.attributes == nil {
		g.attributes = make(map[string][]float32)
	}
	g.attributes[name] = data
	g.version++
	return nil
}

// AttributeNames returns the custom attribute names in sorted order.
func (g *Geometry) AttributeNames() []string {
	names := make([]string, 0, len(g.attributes))
	for name := range g.attributes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Version increases every time the geometry data changes.
func (g *Geometry) Version() int {
	return g.version
}

// MarkChanged bumps the version after Vertices or Indices were edited in place.
func (g *Geometry) MarkChanged() {
	g.version++
	g.ComputeBounds()
}

// Clone returns a deep copy. Dispose callbacks are not copied.
func (g *Geometry) Clone() *Geometry {
	c := &Geometry{
		Vertices: append([]Vertex(nil), g.Vertices...),
		Indices:  append([]uint32(nil), g.Indices...),
		Groups:   append([]Group(nil), g.Groups...),
		Bounds:   g.Bounds,
		Skinned:  g.Skinned,
	}
	if len(g.attributes) > 0 {
		c.attributes = make(map[string][]float32, len(g.attributes))
		for name, data := range g.attributes {
			c.attributes[name] = append([]float32(nil), data...)
		}
	}
	return c
}

// OnDispose registers a callback run once when the geometry is disposed.
// Renderers use it to free GPU buffers.
func (g *Geometry) OnDispose(fn func()) {
	g.onDispose = append(g.onDispose, fn)
}

// Dispose releases the geometry. Calling it twice is a no-op.
func (g *Geometry) Dispose() {
	if g.disposed {
		return
	}
	g.disposed = true
	for _, fn := range g.onDispose {
		fn()
	}
	g.onDispose = nil
}

// Disposed reports whether Dispose was called.
func (g *Geometry) Disposed() bool {
	return g.disposed
}

// Triangles calls fn for each triangle's vertex indices.
// Non-indexed geometry is read as consecutive vertex triples.
func (g *Geometry) Triangles(fn func(a, b, c uint32)) {
	if len(g.Indices) > 0 {
		for i := 0; i+2 < len(g.Indices); i += 3 {
			fn(g.Indices[i], g.Indices[i+1], g.Indices[i+2])
		}
		return
	}
	for i := 0; i+2 < len(g.Vertices); i += 3 {
		fn(uint32(i), uint32(i+1), uint32(i+2))
	}
}

// ComputeBounds recalculates the bounding box from vertex positions.
func (g *Geometry) ComputeBounds() {
	g.Bounds = Bounds{
		Min: [3]float32{1e10, 1e10, 1e10},
		Max: [3]float32{-1e10, -1e10, -1e10},
	}
	for i := range g.Vertices {
		updateBounds(&g.Bounds, g.Vertices[i].Position)
	}
}

func updateBounds(b *Bounds, p [3]float32) {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] {
			b.Min[i] = p[i]
		}
		if p[i] > b.Max[i] {
			b.Max[i] = p[i]
		}
	}
}
