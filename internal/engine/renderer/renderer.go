// Package renderer provides OpenGL rendering of the scene graph and debug
// line overlays.
package renderer

import (
	"fmt"

	colorful "github.com/lucasb-eyer/go-colorful"
	"go.uber.org/zap"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/glbstudio/internal/engine/camera"
	"github.com/Faultbox/glbstudio/internal/engine/lighting"
	"github.com/Faultbox/glbstudio/internal/engine/model"
	"github.com/Faultbox/glbstudio/internal/engine/scene"
	"github.com/Faultbox/glbstudio/internal/engine/shader"
	"github.com/Faultbox/glbstudio/internal/logger"
)

// Config holds renderer configuration.
type Config struct {
	Width      int
	Height     int
	VSync      bool
	Background colorful.Color
}

// Renderer handles all OpenGL rendering.
type Renderer struct {
	config Config

	programs map[scene.Variant]*shader.Program
	lines    *shader.Program

	meshes   map[*model.Geometry]*gpuMesh
	textures map[*scene.Texture]*gpuTexture

	lineVAO uint32
	lineVBO uint32
	lineCap int
}

// New creates a new renderer.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		config:   cfg,
		programs: make(map[scene.Variant]*shader.Program),
		meshes:   make(map[*model.Geometry]*gpuMesh),
		textures: make(map[*scene.Texture]*gpuTexture),
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	version := gl.GoStr(gl.GetString(gl.VERSION))
	rendererName := gl.GoStr(gl.GetString(gl.RENDERER))
	logger.Info("OpenGL initialized",
		zap.String("version", version),
		zap.String("renderer", rendererName),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LEQUAL)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	r.SetBackground(cfg.Background)

	for _, v := range []scene.Variant{scene.VariantStandard, scene.VariantDesaturated, scene.VariantBoneWeightedHighlight} {
		p, err := shader.NewMeshProgram(v)
		if err != nil {
			r.Close()
			return nil, err
		}
		r.programs[v] = p
	}

	lines, err := shader.NewLineProgram()
	if err != nil {
		r.Close()
		return nil, err
	}
	r.lines = lines
	r.createLineBuffer()

	gl.Viewport(0, 0, int32(cfg.Width), int32(cfg.Height))
	return r, nil
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	logger.Info("closing renderer")
	for g, m := range r.meshes {
		m.delete()
		delete(r.meshes, g)
	}
	for t, gt := range r.textures {
		gt.delete()
		delete(r.textures, t)
	}
	for v, p := range r.programs {
		p.Delete()
		delete(r.programs, v)
	}
	if r.lines != nil {
		r.lines.Delete()
	}
	if r.lineVAO != 0 {
		gl.DeleteVertexArrays(1, &r.lineVAO)
	}
	if r.lineVBO != 0 {
		gl.DeleteBuffers(1, &r.lineVBO)
	}
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	logger.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Size returns the current viewport size.
func (r *Renderer) Size() (width, height int) {
	return r.config.Width, r.config.Height
}

// SetBackground changes the clear color.
func (r *Renderer) SetBackground(c colorful.Color) {
	r.config.Background = c
	gl.ClearColor(float32(c.R), float32(c.G), float32(c.B), 1.0)
}

// Begin starts a new frame.
func (r *Renderer) Begin() {
	gl.DepthMask(true)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// End finishes the current frame.
func (r *Renderer) End() {
	gl.BindVertexArray(0)
	gl.UseProgram(0)
}

// Render draws every visible mesh under root: opaque groups first, then
// blended groups back to front.
func (r *Renderer) Render(root *scene.Node, cam *camera.Camera, rig lighting.Rig) {
	opaque, blended := buildDrawList(root, cam.Position)
	if len(opaque) == 0 && len(blended) == 0 {
		return
	}

	viewProj := cam.ViewProjection().Float32()
	light := rig.Uniforms()
	eye := cam.Position.Float32()

	for _, p := range r.programs {
		p.Use()
		gl.UniformMatrix4fv(p.Uniform("uViewProj"), 1, false, &viewProj[0])
		gl.Uniform3fv(p.Uniform("uAmbient"), 1, &light.Ambient[0])
		if light.HasDirection {
			gl.Uniform3fv(p.Uniform("uLightColor"), 1, &light.LightColor[0])
		} else {
			gl.Uniform3f(p.Uniform("uLightColor"), 0, 0, 0)
		}
		gl.Uniform3fv(p.Uniform("uLightDir"), 1, &light.LightDir[0])
		gl.Uniform3fv(p.Uniform("uCameraPos"), 1, &eye[0])
		gl.Uniform1i(p.Uniform("uMap"), 0)
	}

	gl.Disable(gl.BLEND)
	gl.DepthMask(true)
	for _, item := range opaque {
		r.draw(item)
	}

	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.DepthMask(false)
	for _, item := range blended {
		r.draw(item)
	}
	gl.DepthMask(true)
	gl.Disable(gl.BLEND)
	gl.Enable(gl.CULL_FACE)
}

// ReadPixels returns the RGBA contents of the framebuffer, bottom row first.
func (r *Renderer) ReadPixels() []byte {
	w, h := r.config.Width, r.config.Height
	if w <= 0 || h <= 0 {
		return nil
	}
	pixels := make([]byte, w*h*4)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(&pixels[0]))
	return pixels
}
