package renderer

import (
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/glbstudio/internal/engine/scene"
)

type gpuTexture struct {
	id      uint32
	version int
}

func (t *gpuTexture) delete() {
	if t.id != 0 {
		gl.DeleteTextures(1, &t.id)
		t.id = 0
	}
}

// texture returns the GL texture for t, uploading it on first use and after
// MarkChanged. Disposing t frees the GL texture.
func (r *Renderer) texture(t *scene.Texture) uint32 {
	if t == nil || t.Image == nil || t.Disposed() {
		return 0
	}
	gt, ok := r.textures[t]
	if ok && gt.version == t.Version() {
		return gt.id
	}
	if ok {
		gt.delete()
	} else {
		gt = &gpuTexture{}
		r.textures[t] = gt
		t.OnDispose(func() {
			if cur, ok := r.textures[t]; ok {
				cur.delete()
				delete(r.textures, t)
			}
		})
	}
	gt.version = t.Version()
	gt.id = uploadTexture(t)
	return gt.id
}

func uploadTexture(t *scene.Texture) uint32 {
	img := t.Image
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	if w == 0 || h == 0 {
		return 0
	}

	var texID uint32
	gl.GenTextures(1, &texID)
	gl.BindTexture(gl.TEXTURE_2D, texID)
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, int32(img.Stride/4))
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(w), int32(h), 0, gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&img.Pix[0]))
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, 0)
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.TexParameterf(gl.TEXTURE_2D, gl.TEXTURE_MAX_ANISOTROPY, 8.0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return texID
}
