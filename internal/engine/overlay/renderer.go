// Package overlay draws screen-space markers and text on top of the 3D
// scene with OpenGL. Coordinates are in pixels with the origin at the top
// left.
package overlay

import (
	"fmt"
	gomath "math"
	"strings"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// discSegments is the number of triangles in a marker disc.
const discSegments = 24

// Renderer batches quads, discs and glyphs for one frame.
type Renderer struct {
	screenWidth  int
	screenHeight int

	solidShader uint32
	textShader  uint32

	solidVAO, solidVBO uint32
	textVAO, textVBO   uint32

	solidVertices []float32 // x, y, z, r, g, b, a
	textVertices  []float32 // x, y, z, u, v, r, g, b, a

	font    *Font
	fontTex uint32
}

// New creates an overlay renderer. A GL context must be current.
func New(width, height int) (*Renderer, error) {
	r := &Renderer{
		screenWidth:   width,
		screenHeight:  height,
		solidVertices: make([]float32, 0, 4096),
		textVertices:  make([]float32, 0, 4096),
		font:          NewFont(),
	}

	var err error
	r.solidShader, err = linkProgram(solidVertexSource, solidFragmentSource)
	if err != nil {
		return nil, fmt.Errorf("create solid shader: %w", err)
	}
	r.textShader, err = linkProgram(textVertexSource, textFragmentSource)
	if err != nil {
		r.Close()
		return nil, fmt.Errorf("create text shader: %w", err)
	}

	r.solidVAO, r.solidVBO = createBuffers([]int32{3, 4})
	r.textVAO, r.textVBO = createBuffers([]int32{3, 2, 4})
	r.fontTex = uploadAlpha(r.font)

	return r, nil
}

// Font returns the font text is drawn with.
func (r *Renderer) Font() *Font {
	return r.font
}

// Resize updates the screen dimensions.
func (r *Renderer) Resize(width, height int) {
	r.screenWidth = width
	r.screenHeight = height
}

// Begin starts a new overlay frame.
func (r *Renderer) Begin() {
	r.solidVertices = r.solidVertices[:0]
	r.textVertices = r.textVertices[:0]
}

// End draws everything queued since Begin: shapes first, text on top.
func (r *Renderer) End() {
	if len(r.solidVertices) == 0 && len(r.textVertices) == 0 {
		return
	}

	var prevBlend, prevDepth, prevCull int32
	gl.GetIntegerv(gl.BLEND, &prevBlend)
	gl.GetIntegerv(gl.DEPTH_TEST, &prevDepth)
	gl.GetIntegerv(gl.CULL_FACE, &prevCull)

	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.CULL_FACE)

	proj := ortho(0, float32(r.screenWidth), float32(r.screenHeight), 0, -1, 1)

	if len(r.solidVertices) > 0 {
		gl.UseProgram(r.solidShader)
		gl.UniformMatrix4fv(gl.GetUniformLocation(r.solidShader, gl.Str("uProjection\x00")), 1, false, &proj[0])

		gl.BindVertexArray(r.solidVAO)
		gl.BindBuffer(gl.ARRAY_BUFFER, r.solidVBO)
		gl.BufferData(gl.ARRAY_BUFFER, len(r.solidVertices)*4, unsafe.Pointer(&r.solidVertices[0]), gl.STREAM_DRAW)
		gl.DrawArrays(gl.TRIANGLES, 0, int32(len(r.solidVertices)/7))
	}

	if len(r.textVertices) > 0 {
		gl.UseProgram(r.textShader)
		gl.UniformMatrix4fv(gl.GetUniformLocation(r.textShader, gl.Str("uProjection\x00")), 1, false, &proj[0])
		gl.Uniform1i(gl.GetUniformLocation(r.textShader, gl.Str("uTexture\x00")), 0)

		gl.ActiveTexture(gl.TEXTURE0)
		gl.BindTexture(gl.TEXTURE_2D, r.fontTex)

		gl.BindVertexArray(r.textVAO)
		gl.BindBuffer(gl.ARRAY_BUFFER, r.textVBO)
		gl.BufferData(gl.ARRAY_BUFFER, len(r.textVertices)*4, unsafe.Pointer(&r.textVertices[0]), gl.STREAM_DRAW)
		gl.DrawArrays(gl.TRIANGLES, 0, int32(len(r.textVertices)/9))
	}

	gl.BindVertexArray(0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	gl.UseProgram(0)

	if prevBlend == gl.FALSE {
		gl.Disable(gl.BLEND)
	}
	if prevDepth == gl.TRUE {
		gl.Enable(gl.DEPTH_TEST)
	}
	if prevCull == gl.TRUE {
		gl.Enable(gl.CULL_FACE)
	}
}

// Close releases renderer resources.
func (r *Renderer) Close() {
	if r.fontTex != 0 {
		gl.DeleteTextures(1, &r.fontTex)
	}
	for _, vao := range []*uint32{&r.solidVAO, &r.textVAO} {
		if *vao != 0 {
			gl.DeleteVertexArrays(1, vao)
		}
	}
	for _, vbo := range []*uint32{&r.solidVBO, &r.textVBO} {
		if *vbo != 0 {
			gl.DeleteBuffers(1, vbo)
		}
	}
	if r.solidShader != 0 {
		gl.DeleteProgram(r.solidShader)
	}
	if r.textShader != 0 {
		gl.DeleteProgram(r.textShader)
	}
}

// DrawRect draws a filled rectangle.
func (r *Renderer) DrawRect(x, y, width, height float32, c Color) {
	r.solidVertices = append(r.solidVertices,
		x, y, 0, c.R, c.G, c.B, c.A,
		x+width, y, 0, c.R, c.G, c.B, c.A,
		x+width, y+height, 0, c.R, c.G, c.B, c.A,
		x, y, 0, c.R, c.G, c.B, c.A,
		x+width, y+height, 0, c.R, c.G, c.B, c.A,
		x, y+height, 0, c.R, c.G, c.B, c.A,
	)
}

// DrawDisc draws a filled circle.
func (r *Renderer) DrawDisc(cx, cy, radius float32, c Color) {
	step := 2 * gomath.Pi / discSegments
	for i := 0; i < discSegments; i++ {
		a0, a1 := float64(i)*step, float64(i+1)*step
		x0 := cx + radius*float32(gomath.Cos(a0))
		y0 := cy + radius*float32(gomath.Sin(a0))
		x1 := cx + radius*float32(gomath.Cos(a1))
		y1 := cy + radius*float32(gomath.Sin(a1))
		r.solidVertices = append(r.solidVertices,
			cx, cy, 0, c.R, c.G, c.B, c.A,
			x0, y0, 0, c.R, c.G, c.B, c.A,
			x1, y1, 0, c.R, c.G, c.B, c.A,
		)
	}
}

// DrawText draws text with its top-left corner at (x, y).
func (r *Renderer) DrawText(x, y float32, text string, scale float32, c Color) {
	gw, gh := r.font.GlyphSize()
	charW, charH := float32(gw)*scale, float32(gh)*scale

	curX := x
	for _, ch := range text {
		if ch == '\n' {
			curX = x
			y += charH
			continue
		}
		u0, v0, u1, v1 := r.font.GlyphUV(ch)
		r.textVertices = append(r.textVertices,
			curX, y, 0, u0, v0, c.R, c.G, c.B, c.A,
			curX+charW, y, 0, u1, v0, c.R, c.G, c.B, c.A,
			curX+charW, y+charH, 0, u1, v1, c.R, c.G, c.B, c.A,
			curX, y, 0, u0, v0, c.R, c.G, c.B, c.A,
			curX+charW, y+charH, 0, u1, v1, c.R, c.G, c.B, c.A,
			curX, y+charH, 0, u0, v1, c.R, c.G, c.B, c.A,
		)
		curX += charW
	}
}

// MeasureText returns the width and height of rendered text.
func (r *Renderer) MeasureText(text string, scale float32) (float32, float32) {
	return r.font.MeasureText(text, scale)
}

func ortho(left, right, bottom, top, near, far float32) [16]float32 {
	return [16]float32{
		2 / (right - left), 0, 0, 0,
		0, 2 / (top - bottom), 0, 0,
		0, 0, -2 / (far - near), 0,
		-(right + left) / (right - left), -(top + bottom) / (top - bottom), -(far + near) / (far - near), 1,
	}
}

// createBuffers builds a VAO with tightly packed float attributes of the
// given sizes at locations 0, 1, ...
func createBuffers(sizes []int32) (vao, vbo uint32) {
	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)
	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)

	var stride int32
	for _, s := range sizes {
		stride += s * 4
	}
	var offset uintptr
	for i, s := range sizes {
		gl.VertexAttribPointerWithOffset(uint32(i), s, gl.FLOAT, false, stride, offset)
		gl.EnableVertexAttribArray(uint32(i))
		offset += uintptr(s * 4)
	}

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return vao, vbo
}

func uploadAlpha(f *Font) uint32 {
	b := f.Atlas.Bounds()
	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.R8, int32(b.Dx()), int32(b.Dy()), 0,
		gl.RED, gl.UNSIGNED_BYTE, gl.Ptr(&f.Atlas.Pix[0]))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return tex
}

func linkProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	vs, err := compileShader(vertexSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, fmt.Errorf("vertex shader: %w", err)
	}
	defer gl.DeleteShader(vs)

	fs, err := compileShader(fragmentSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		return 0, fmt.Errorf("fragment shader: %w", err)
	}
	defer gl.DeleteShader(fs)

	program := gl.CreateProgram()
	gl.AttachShader(program, vs)
	gl.AttachShader(program, fs)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("link failed: %s", log)
	}
	return program, nil
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)

	csources, free := gl.Strs(source)
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("compile failed: %s", log)
	}
	return shader, nil
}

const solidVertexSource = `
#version 410 core
layout (location = 0) in vec3 aPos;
layout (location = 1) in vec4 aColor;
uniform mat4 uProjection;
out vec4 vColor;
void main() {
	gl_Position = uProjection * vec4(aPos, 1.0);
	vColor = aColor;
}
` + "\x00"

const solidFragmentSource = `
#version 410 core
in vec4 vColor;
out vec4 FragColor;
void main() {
	FragColor = vColor;
}
` + "\x00"

const textVertexSource = `
#version 410 core
layout (location = 0) in vec3 aPos;
layout (location = 1) in vec2 aTexCoord;
layout (location = 2) in vec4 aColor;
uniform mat4 uProjection;
out vec2 vTexCoord;
out vec4 vColor;
void main() {
	gl_Position = uProjection * vec4(aPos, 1.0);
	vTexCoord = aTexCoord;
	vColor = aColor;
}
` + "\x00"

// The atlas is single-channel; coverage lives in red.
const textFragmentSource = `
#version 410 core
uniform sampler2D uTexture;
in vec2 vTexCoord;
in vec4 vColor;
out vec4 FragColor;
void main() {
	float coverage = texture(uTexture, vTexCoord).r;
	FragColor = vec4(vColor.rgb, vColor.a * coverage);
}
` + "\x00"
