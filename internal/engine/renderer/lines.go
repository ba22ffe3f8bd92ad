package renderer

import (
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/glbstudio/internal/engine/camera"
	"github.com/Faultbox/glbstudio/internal/engine/debug"
	"github.com/Faultbox/glbstudio/pkg/math"
)

func (r *Renderer) createLineBuffer() {
	gl.GenVertexArrays(1, &r.lineVAO)
	gl.BindVertexArray(r.lineVAO)

	gl.GenBuffers(1, &r.lineVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.lineVBO)

	stride := int32(unsafe.Sizeof(debug.LineVertex{}))
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, stride, 3*4)
	gl.EnableVertexAttribArray(1)

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
}

// LineOptions controls how a line batch is drawn. A zero Model draws in
// world space.
type LineOptions struct {
	Model     math.Mat4
	DepthTest bool
}

// DrawLines streams a batch of line segments and draws them.
func (r *Renderer) DrawLines(vertices []debug.LineVertex, cam *camera.Camera, opts LineOptions) {
	if len(vertices) < 2 {
		return
	}

	stride := int(unsafe.Sizeof(debug.LineVertex{}))
	gl.BindBuffer(gl.ARRAY_BUFFER, r.lineVBO)
	if len(vertices) > r.lineCap {
		r.lineCap = len(vertices)
		gl.BufferData(gl.ARRAY_BUFFER, r.lineCap*stride, unsafe.Pointer(&vertices[0]), gl.STREAM_DRAW)
	} else {
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(vertices)*stride, unsafe.Pointer(&vertices[0]))
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	if opts.Model == (math.Mat4{}) {
		opts.Model = math.Identity()
	}

	r.lines.Use()
	viewProj := cam.ViewProjection().Float32()
	model := opts.Model.Float32()
	gl.UniformMatrix4fv(r.lines.Uniform("uViewProj"), 1, false, &viewProj[0])
	gl.UniformMatrix4fv(r.lines.Uniform("uModel"), 1, false, &model[0])

	if !opts.DepthTest {
		gl.Disable(gl.DEPTH_TEST)
		gl.DepthMask(false)
	}
	gl.BindVertexArray(r.lineVAO)
	gl.DrawArrays(gl.LINES, 0, int32(len(vertices)))
	gl.BindVertexArray(0)
	if !opts.DepthTest {
		gl.Enable(gl.DEPTH_TEST)
		gl.DepthMask(true)
	}
}
