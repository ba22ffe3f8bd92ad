// Package framebuffer provides an offscreen render target used for
// screenshots larger than the window.
package framebuffer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Target is a framebuffer with RGBA8 color and 24-bit depth renderbuffers.
type Target struct {
	fbo   uint32
	color uint32
	depth uint32

	width  int32
	height int32
}

// New creates a target of the given size. A GL context must be current.
func New(width, height int) (*Target, error) {
	t := &Target{}
	gl.GenFramebuffers(1, &t.fbo)
	gl.GenRenderbuffers(1, &t.color)
	gl.GenRenderbuffers(1, &t.depth)

	if err := t.allocate(width, height); err != nil {
		t.Destroy()
		return nil, err
	}
	return t, nil
}

func (t *Target) allocate(width, height int) error {
	t.width, t.height = int32(max(width, 1)), int32(max(height, 1))

	var prev int32
	gl.GetIntegerv(gl.FRAMEBUFFER_BINDING, &prev)
	defer gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(prev))

	gl.BindFramebuffer(gl.FRAMEBUFFER, t.fbo)

	gl.BindRenderbuffer(gl.RENDERBUFFER, t.color)
	gl.RenderbufferStorage(gl.RENDERBUFFER, gl.RGBA8, t.width, t.height)
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.RENDERBUFFER, t.color)

	gl.BindRenderbuffer(gl.RENDERBUFFER, t.depth)
	gl.RenderbufferStorage(gl.RENDERBUFFER, gl.DEPTH_COMPONENT24, t.width, t.height)
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.RENDERBUFFER, t.depth)
	gl.BindRenderbuffer(gl.RENDERBUFFER, 0)

	if status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER); status != gl.FRAMEBUFFER_COMPLETE {
		return fmt.Errorf("framebuffer incomplete: 0x%x", status)
	}
	return nil
}

// Size returns the target dimensions.
func (t *Target) Size() (width, height int) {
	return int(t.width), int(t.height)
}

// Resize reallocates storage when the size changed.
func (t *Target) Resize(width, height int) error {
	if int32(width) == t.width && int32(height) == t.height {
		return nil
	}
	return t.allocate(width, height)
}

// Capture runs draw with the target bound and the viewport covering it,
// then returns the RGBA pixels bottom row first. The previous framebuffer
// and viewport are restored.
func (t *Target) Capture(draw func()) []byte {
	var prevFBO int32
	var prevViewport [4]int32
	gl.GetIntegerv(gl.FRAMEBUFFER_BINDING, &prevFBO)
	gl.GetIntegerv(gl.VIEWPORT, &prevViewport[0])

	gl.BindFramebuffer(gl.FRAMEBUFFER, t.fbo)
	gl.Viewport(0, 0, t.width, t.height)

	draw()

	pixels := make([]byte, int(t.width)*int(t.height)*4)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, t.width, t.height, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(&pixels[0]))

	gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(prevFBO))
	gl.Viewport(prevViewport[0], prevViewport[1], prevViewport[2], prevViewport[3])
	return pixels
}

// Destroy releases all OpenGL resources.
func (t *Target) Destroy() {
	if t.fbo != 0 {
		gl.DeleteFramebuffers(1, &t.fbo)
		t.fbo = 0
	}
	if t.color != 0 {
		gl.DeleteRenderbuffers(1, &t.color)
		t.color = 0
	}
	if t.depth != 0 {
		gl.DeleteRenderbuffers(1, &t.depth)
		t.depth = 0
	}
}
