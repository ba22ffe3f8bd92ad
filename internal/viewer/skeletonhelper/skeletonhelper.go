// Package skeletonhelper shows the bones of one skeleton as an always on
// top line overlay that follows the skeleton's animation.
package skeletonhelper

import (
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/Faultbox/glbstudio/internal/engine/debug"
	"github.com/Faultbox/glbstudio/internal/engine/scene"
	"github.com/Faultbox/glbstudio/internal/viewer/introspect"
	"github.com/Faultbox/glbstudio/pkg/math"
)

// Color is the overlay color.
var Color = colorful.Color{R: 0.29, G: 0.87, B: 0.5}

// Helper is the overlay of one skeleton.
type Helper struct {
	Skeleton string
	Root     *scene.Node
	Mesh     scene.SkinnedView
	// Matrix is the owning mesh's world matrix; Lines are expressed in its
	// space.
	Matrix math.Mat4
	Lines  []debug.LineVertex
}

// Controller owns at most one Helper.
type Controller struct {
	Color colorful.Color

	enabled bool
	filter  string
	helper  *Helper
}

// New returns a disabled controller.
func New() *Controller {
	return &Controller{Color: Color}
}

// Enabled reports whether the overlay is switched on.
func (c *Controller) Enabled() bool {
	return c.enabled
}

// Helper returns the live helper, nil when none exists.
func (c *Controller) Helper() *Helper {
	return c.helper
}

// Set switches the overlay on or off for the skeleton named filter, or
// for the first skeleton found when filter is empty. Calling Set with
// unchanged arguments keeps the existing helper.
func (c *Controller) Set(root *scene.Node, enabled bool, filter string) {
	if !enabled {
		c.enabled = false
		c.Dispose()
		return
	}
	if c.enabled && c.filter == filter && c.helper != nil {
		return
	}
	c.Dispose()
	c.enabled, c.filter = true, filter

	refs := introspect.MatchSkeletons(root, filter)
	if len(refs) == 0 {
		return
	}
	ref := refs[0]
	c.helper = &Helper{
		Skeleton: ref.Name,
		Root:     ref.Skeleton.RootBone(),
		Mesh:     ref.Meshes[0],
	}
	c.Update()
}

// Update re-syncs the helper to its mesh's current world matrix and
// regenerates the bone lines. World matrices must be current.
func (c *Controller) Update() {
	h := c.helper
	if h == nil {
		return
	}
	h.Matrix = h.Mesh.Node().WorldMatrix()
	h.Lines = debug.SkeletonLines(h.Root, h.Matrix, c.Color)
}

// Dispose drops the helper. The enabled flag is left as is.
func (c *Controller) Dispose() {
	if c.helper != nil {
		c.helper.Lines = nil
		c.helper = nil
	}
}
