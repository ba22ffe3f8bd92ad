// Package loader converts glTF 2.0 documents (.gltf and .glb) into the
// scene graph and animation clips.
package loader

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"go.uber.org/zap"

	"github.com/Faultbox/glbstudio/internal/engine/animation"
	"github.com/Faultbox/glbstudio/internal/engine/scene"
)

// ErrNoScene is returned for documents without any node to display.
var ErrNoScene = errors.New("document has no scene")

// Model is a loaded asset.
type Model struct {
	Root      *scene.Node
	Clips     []*animation.Clip
	Skeletons []*scene.Skeleton
	Materials []*scene.Material
	Textures  []*scene.Texture
}

// Dispose releases every material, texture and geometry of the model.
func (m *Model) Dispose() {
	m.Root.Traverse(func(n *scene.Node) {
		if host, ok := n.AsMaterialHost(); ok {
			host.Geometry().Dispose()
		}
	})
	for _, mat := range m.Materials {
		mat.Dispose()
	}
	for _, tex := range m.Textures {
		tex.Dispose()
	}
}

// Load opens a .gltf or .glb file. External buffers and images are resolved
// relative to the file.
func Load(path string, log *zap.Logger) (*Model, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	return FromDocument(doc, filepath.Dir(path), log)
}

// Decode reads a self-contained document (typically .glb) from r.
func Decode(r io.Reader, log *zap.Logger) (*Model, error) {
	doc := new(gltf.Document)
	if err := gltf.NewDecoder(r).Decode(doc); err != nil {
		return nil, fmt.Errorf("decoding gltf: %w", err)
	}
	return FromDocument(doc, "", log)
}

// FromDocument converts a decoded document. dir resolves relative image
// URIs; empty means images must be embedded.
func FromDocument(doc *gltf.Document, dir string, log *zap.Logger) (*Model, error) {
	if log == nil {
		log = zap.NewNop()
	}
	b := &builder{doc: doc, dir: dir, log: log}
	return b.build()
}
