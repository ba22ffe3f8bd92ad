package renderer

import (
	"unsafe"

	"go.uber.org/zap"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/glbstudio/internal/engine/model"
	"github.com/Faultbox/glbstudio/internal/engine/scene"
	"github.com/Faultbox/glbstudio/internal/engine/shader"
	"github.com/Faultbox/glbstudio/internal/logger"
)

const (
	attrPosition = iota
	attrNormal
	attrTexCoord
	attrJoints
	attrWeights
	attrHighlight
)

// gpuMesh holds the buffers of one uploaded geometry.
type gpuMesh struct {
	vao       uint32
	vbo       uint32
	ebo       uint32
	highlight uint32
	indexed   bool
	version   int
	attribute string
	scratch   []model.Vertex
}

func (m *gpuMesh) delete() {
	if m.vao != 0 {
		gl.DeleteVertexArrays(1, &m.vao)
	}
	for _, b := range []*uint32{&m.vbo, &m.ebo, &m.highlight} {
		if *b != 0 {
			gl.DeleteBuffers(1, b)
		}
	}
	*m = gpuMesh{}
}

// mesh returns the GPU buffers for a geometry, uploading it on first use
// and again whenever its version or highlight attribute changes.
func (r *Renderer) mesh(g *model.Geometry, attribute string) *gpuMesh {
	m, ok := r.meshes[g]
	if ok && m.version == g.Version() && m.attribute == attribute {
		return m
	}
	if ok {
		m.delete()
	} else {
		m = &gpuMesh{}
		r.meshes[g] = m
		g.OnDispose(func() {
			if gm, ok := r.meshes[g]; ok {
				gm.delete()
				delete(r.meshes, g)
			}
		})
	}
	r.uploadMesh(m, g, attribute)
	return m
}

func (r *Renderer) uploadMesh(m *gpuMesh, g *model.Geometry, attribute string) {
	m.version = g.Version()
	m.attribute = attribute
	if len(g.Vertices) == 0 {
		return
	}

	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)

	vertexSize := int(unsafe.Sizeof(model.Vertex{}))
	gl.GenBuffers(1, &m.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(g.Vertices)*vertexSize, unsafe.Pointer(&g.Vertices[0]), gl.DYNAMIC_DRAW)

	var v model.Vertex
	gl.EnableVertexAttribArray(attrPosition)
	gl.VertexAttribPointerWithOffset(attrPosition, 3, gl.FLOAT, false, int32(vertexSize), unsafe.Offsetof(v.Position))
	gl.EnableVertexAttribArray(attrNormal)
	gl.VertexAttribPointerWithOffset(attrNormal, 3, gl.FLOAT, false, int32(vertexSize), unsafe.Offsetof(v.Normal))
	gl.EnableVertexAttribArray(attrTexCoord)
	gl.VertexAttribPointerWithOffset(attrTexCoord, 2, gl.FLOAT, false, int32(vertexSize), unsafe.Offsetof(v.TexCoord))
	gl.EnableVertexAttribArray(attrJoints)
	gl.VertexAttribPointerWithOffset(attrJoints, 4, gl.UNSIGNED_SHORT, false, int32(vertexSize), unsafe.Offsetof(v.Joints))
	gl.EnableVertexAttribArray(attrWeights)
	gl.VertexAttribPointerWithOffset(attrWeights, 4, gl.FLOAT, false, int32(vertexSize), unsafe.Offsetof(v.Weights))

	if data, ok := g.Attribute(attribute); ok && attribute != "" {
		gl.GenBuffers(1, &m.highlight)
		gl.BindBuffer(gl.ARRAY_BUFFER, m.highlight)
		gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, unsafe.Pointer(&data[0]), gl.STATIC_DRAW)
		gl.EnableVertexAttribArray(attrHighlight)
		gl.VertexAttribPointerWithOffset(attrHighlight, 1, gl.FLOAT, false, 4, 0)
	} else {
		// Full weight keeps the original color
		gl.DisableVertexAttribArray(attrHighlight)
		gl.VertexAttrib1f(attrHighlight, 1)
	}

	if len(g.Indices) > 0 {
		m.indexed = true
		gl.GenBuffers(1, &m.ebo)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(g.Indices)*4, unsafe.Pointer(&g.Indices[0]), gl.STATIC_DRAW)
	}

	gl.BindVertexArray(0)
	logger.Debug("mesh uploaded",
		zap.Int("vertices", len(g.Vertices)),
		zap.Int("indices", len(g.Indices)),
		zap.String("attribute", attribute),
	)
}

// uploadCPUSkinned replaces the vertex buffer with world-space deformed
// positions for skins too large for the joint uniform array.
func (r *Renderer) uploadCPUSkinned(m *gpuMesh, view scene.SkinnedView) {
	g := view.Geometry()
	positions := view.SkinnedPositions()
	if cap(m.scratch) < len(g.Vertices) {
		m.scratch = make([]model.Vertex, len(g.Vertices))
	}
	m.scratch = m.scratch[:len(g.Vertices)]
	for i, v := range g.Vertices {
		v.Position = positions[i].Float32()
		v.Weights = [model.MaxInfluences]float32{}
		m.scratch[i] = v
	}
	vertexSize := int(unsafe.Sizeof(model.Vertex{}))
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(m.scratch)*vertexSize, unsafe.Pointer(&m.scratch[0]))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

// draw renders one index group.
func (r *Renderer) draw(item drawItem) {
	g := item.host.Geometry()
	mat := item.material
	m := r.mesh(g, highlightAttribute(item.host.Materials()))
	if m.vao == 0 {
		return
	}

	p := r.programs[mat.Variant]
	if p == nil {
		p = r.programs[scene.VariantStandard]
	}
	p.Use()

	modelMatrix := item.host.Node().WorldMatrix().Float32()
	gl.UniformMatrix4fv(p.Uniform("uModel"), 1, false, &modelMatrix[0])

	skinned := false
	if view, ok := item.host.Node().AsSkinned(); ok && g.Skinned && view.Skin() != nil {
		joints := view.Skin().JointMatrices()
		if len(joints) <= shader.MaxJoints {
			flat := make([]float32, 0, len(joints)*16)
			for _, j := range joints {
				f := j.Float32()
				flat = append(flat, f[:]...)
			}
			if len(flat) > 0 {
				gl.UniformMatrix4fv(p.Uniform("uJoints"), int32(len(joints)), false, &flat[0])
				skinned = true
			}
		} else {
			r.uploadCPUSkinned(m, view)
			identity := [16]float32{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}
			gl.UniformMatrix4fv(p.Uniform("uModel"), 1, false, &identity[0])
		}
	}
	setBool(p.Uniform("uSkinned"), skinned)

	r.applyMaterial(p, mat)

	gl.BindVertexArray(m.vao)
	if m.indexed {
		gl.DrawElementsWithOffset(gl.TRIANGLES, item.group.IndexCount, gl.UNSIGNED_INT, uintptr(item.group.StartIndex*4))
	} else {
		gl.DrawArrays(gl.TRIANGLES, item.group.StartIndex, item.group.IndexCount)
	}
	gl.BindVertexArray(0)
}

func (r *Renderer) applyMaterial(p *shader.Program, mat *scene.Material) {
	c := mat.Color
	gl.Uniform4f(p.Uniform("uBaseColor"), float32(c.R), float32(c.G), float32(c.B), float32(mat.Opacity))
	e := mat.Emissive
	k := mat.EmissiveIntensity
	gl.Uniform3f(p.Uniform("uEmissive"), float32(e.R*k), float32(e.G*k), float32(e.B*k))
	gl.Uniform1f(p.Uniform("uMetalness"), float32(mat.Metalness))
	gl.Uniform1f(p.Uniform("uRoughness"), float32(mat.Roughness))

	alphaMode := int32(mat.AlphaMode)
	if mat.IsBlended() {
		alphaMode = int32(scene.AlphaBlend)
	}
	gl.Uniform1i(p.Uniform("uAlphaMode"), alphaMode)
	gl.Uniform1f(p.Uniform("uAlphaCutoff"), float32(mat.AlphaCutoff))

	if mat.DoubleSided {
		gl.Disable(gl.CULL_FACE)
	} else {
		gl.Enable(gl.CULL_FACE)
	}

	uv := [9]float32{1, 0, 0, 0, 1, 0, 0, 0, 1}
	tex := r.texture(mat.Map)
	gl.ActiveTexture(gl.TEXTURE0)
	if tex != 0 {
		uv = mat.Map.UVTransform()
		gl.BindTexture(gl.TEXTURE_2D, tex)
	} else {
		gl.BindTexture(gl.TEXTURE_2D, 0)
	}
	setBool(p.Uniform("uHasMap"), tex != 0)
	gl.UniformMatrix3fv(p.Uniform("uUVTransform"), 1, false, &uv[0])
}

func setBool(loc int32, v bool) {
	if v {
		gl.Uniform1i(loc, 1)
	} else {
		gl.Uniform1i(loc, 0)
	}
}
