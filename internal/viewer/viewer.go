// Package viewer ties the scene, the binders and the per-frame systems
// together. A Viewer holds no GL state and can be driven headless; App
// adds the window, renderer and input loop.
package viewer

import (
	"errors"
	"fmt"

	colorful "github.com/lucasb-eyer/go-colorful"
	"go.uber.org/zap"

	"github.com/Faultbox/glbstudio/internal/config"
	"github.com/Faultbox/glbstudio/internal/engine/animation"
	"github.com/Faultbox/glbstudio/internal/engine/camera"
	"github.com/Faultbox/glbstudio/internal/engine/debug"
	"github.com/Faultbox/glbstudio/internal/engine/lighting"
	"github.com/Faultbox/glbstudio/internal/engine/loader"
	"github.com/Faultbox/glbstudio/internal/engine/picking"
	"github.com/Faultbox/glbstudio/internal/engine/scene"
	"github.com/Faultbox/glbstudio/internal/viewer/annotation"
	"github.com/Faultbox/glbstudio/internal/viewer/binding"
	"github.com/Faultbox/glbstudio/internal/viewer/highlight"
	"github.com/Faultbox/glbstudio/internal/viewer/introspect"
	"github.com/Faultbox/glbstudio/internal/viewer/sequencer"
	"github.com/Faultbox/glbstudio/internal/viewer/skeletonhelper"
	"github.com/Faultbox/glbstudio/pkg/math"
)

// ErrNoModel is returned by operations that need a loaded model.
var ErrNoModel = errors.New("no model loaded")

// Discovery is what a model load exposes to the control UI.
type Discovery struct {
	introspect.Result
	Clips []string
}

// Options are the collaborators of a Viewer. Zero values get defaults.
type Options struct {
	Textures binding.TextureSource
	Log      *zap.Logger
	// OnDiscover runs after every model load or reset.
	OnDiscover func(Discovery)
	// OnCameraArrived runs once when a camera move completes.
	OnCameraArrived func()
}

// Viewer owns one scene with at most one loaded model.
type Viewer struct {
	cfg  *config.Config
	opts Options
	log  *zap.Logger

	world      *scene.Node // Scene root
	modelGroup *scene.Node // Carries the model transform
	model      *loader.Model
	path       string

	discovery  Discovery
	transforms map[string]introspect.NodeTransform

	materials *binding.MaterialBinder
	highlight *highlight.Engine
	mixer     *animation.Mixer
	sequencer *sequencer.Sequencer
	helper    *skeletonhelper.Controller

	Camera       *camera.Camera
	Orbit        *camera.OrbitControls
	Interpolator *camera.Interpolator
	Lights       lighting.Rig

	Annotations *annotation.Store
	Screens     *annotation.ScreenStore
	placer      *annotation.Placer
	placing     *annotation.Kind

	state  State
	grid   []debug.LineVertex
	width  float64
	height float64
}

// New creates a viewer with an empty scene configured from cfg.
func New(cfg *config.Config, opts Options) *Viewer {
	if cfg == nil {
		cfg = config.Default()
	}
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}

	v := &Viewer{
		cfg:         cfg,
		opts:        opts,
		log:         log,
		world:       scene.NewGroup(""),
		modelGroup:  scene.NewGroup(""),
		highlight:   highlight.New(log.Named("highlight")),
		helper:      skeletonhelper.New(),
		Annotations: annotation.NewStore(),
		Screens:     annotation.NewScreenStore(),
		width:       float64(cfg.Window.Width),
		height:      float64(cfg.Window.Height),
	}
	v.world.Add(v.modelGroup)
	v.materials = binding.NewMaterialBinder(opts.Textures, v.highlight, log.Named("material"))
	v.mixer = animation.NewMixer(nil)
	v.sequencer = sequencer.New(v.mixer, log.Named("sequencer"))

	cc := cfg.Viewer.Camera
	v.Camera = camera.New(vec(cc.Position), cc.FOV)
	v.Camera.Near, v.Camera.Far = cc.Near, cc.Far
	v.Camera.SetViewport(cfg.Window.Width, cfg.Window.Height)
	v.Orbit = camera.NewOrbitControls(v.Camera)
	v.Orbit.DampingFactor = cc.Damping
	v.Orbit.MinDistance, v.Orbit.MaxDistance = cc.MinDistance, cc.MaxDistance
	v.Interpolator = camera.NewInterpolator(opts.OnCameraArrived)

	v.Lights = rigFromConfig(cfg.Viewer.Lighting)
	v.placer = &annotation.Placer{
		Camera:  v.Camera,
		Surface: picking.Rect{Width: v.width, Height: v.height},
		World:   v.world,
	}
	v.Annotations.OnSelectPart = v.SetHighlight

	v.state = defaultState(cfg)
	v.grid = gridLines(cfg.Viewer.Scene)
	return v
}

func vec(c config.Vec3) math.Vec3 {
	return math.Vec3{X: c.X, Y: c.Y, Z: c.Z}
}

func rigFromConfig(c config.LightingConfig) lighting.Rig {
	rig := lighting.DefaultRig()
	rig.Ambient.Intensity = c.Ambient
	rig.Directional.Intensity = c.Directional
	rig.Directional.Position = vec(c.Direction)
	return rig
}

func gridLines(c config.SceneConfig) []debug.LineVertex {
	if !c.ShowGrid {
		return nil
	}
	return debug.GridLines(c.GridSize, c.GridDivisions, debug.GridCenterColor, debug.GridColor)
}

// World returns the scene root.
func (v *Viewer) World() *scene.Node {
	return v.world
}

// Root returns the loaded model's root node, nil before a load.
func (v *Viewer) Root() *scene.Node {
	if v.model == nil {
		return nil
	}
	return v.model.Root
}

// Path returns the file the model was loaded from.
func (v *Viewer) Path() string {
	return v.path
}

// Discovery returns the names found in the loaded model.
func (v *Viewer) Discovery() Discovery {
	return v.discovery
}

// Grid returns the ground grid lines, nil when the grid is hidden.
func (v *Viewer) Grid() []debug.LineVertex {
	return v.grid
}

// SkeletonHelper returns the live skeleton overlay, nil when off.
func (v *Viewer) SkeletonHelper() *skeletonhelper.Helper {
	return v.helper.Helper()
}

// Background returns the clear color.
func (v *Viewer) Background() colorful.Color {
	return v.cfg.Background()
}

// Load reads a model file and installs it.
func (v *Viewer) Load(path string) error {
	m, err := loader.Load(path, v.log.Named("loader"))
	if err != nil {
		return fmt.Errorf("loading model: %w", err)
	}
	v.SetModel(m)
	v.path = path
	v.log.Info("model loaded",
		zap.String("path", path),
		zap.Int("nodes", len(v.discovery.NodeNames)),
		zap.Int("clips", len(v.discovery.Clips)),
	)
	return nil
}

// SetModel replaces the scene content with m. Everything tied to the
// previous model is discarded first. A nil model leaves the scene empty.
func (v *Viewer) SetModel(m *loader.Model) {
	v.Reset()
	if m == nil {
		return
	}
	v.model = m
	v.modelGroup.Add(m.Root)

	binding.ApplyTransform(v.modelGroup, v.state.Model)
	v.world.UpdateWorldMatrix()

	v.mixer = animation.NewMixer(m.Clips)
	v.sequencer = sequencer.New(v.mixer, v.log.Named("sequencer"))
	v.sequencer.SetSpeed(v.state.Animation.Speed)
	v.sequencer.SetLoop(v.state.Animation.Loop)
	v.placer.Model = m.Root

	v.discovery = Discovery{Result: introspect.Introspect(m.Root), Clips: animation.Names(m.Clips)}
	v.transforms = make(map[string]introspect.NodeTransform, len(v.discovery.InitialTransforms))
	for name, t := range v.discovery.InitialTransforms {
		v.transforms[name] = t
	}
	if v.opts.OnDiscover != nil {
		v.opts.OnDiscover(v.discovery)
	}

	if len(v.discovery.Clips) > 0 && v.state.Animation.Clip == "" {
		a := v.state.Animation
		a.Clip, a.Playing = v.discovery.Clips[0], true
		v.SetAnimation(a)
	}
}

// Reset discards the model and all state tied to it: names, transforms,
// annotations, parts, selection, highlight, skeleton helper, sequencer
// and binder textures.
func (v *Viewer) Reset() {
	v.placer.CancelDrag()
	v.placing = nil
	v.sequencer.Reset()
	v.helper.Set(nil, false, "")
	v.highlight.Clear()
	if v.model != nil {
		v.materials.Dispose(v.model.Root)
		v.modelGroup.Remove(v.model.Root)
		v.model.Dispose()
	}
	v.model = nil
	v.path = ""
	v.placer.Model = nil
	v.Annotations.Reset()
	v.Screens.Reset()
	v.discovery = Discovery{}
	v.transforms = nil

	model := v.state.Model
	v.state = defaultState(v.cfg)
	v.state.Model = model

	if v.opts.OnDiscover != nil {
		v.opts.OnDiscover(v.discovery)
	}
}

// Close releases the model.
func (v *Viewer) Close() {
	v.Reset()
}

// Update runs the per-frame work: texture results, animation, world
// matrices, skeleton helper, camera and annotation screen positions.
func (v *Viewer) Update(dt float64) annotation.Snapshot {
	if v.model != nil {
		v.materials.Poll(v.model.Root)
	}
	v.sequencer.Update(dt)
	v.world.UpdateWorldMatrix()
	v.helper.Update()

	if !v.Interpolator.Apply(v.Camera) {
		v.Orbit.Update()
	}
	v.Camera.SetViewport(int(v.width), int(v.height))

	return v.Screens.Update(dt, v.Camera, v.width, v.height, v.Annotations, v.world)
}

// Resize tracks the render surface size in pixels.
func (v *Viewer) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	v.width, v.height = float64(width), float64(height)
	v.placer.Surface = picking.Rect{Width: v.width, Height: v.height}
	v.Camera.SetViewport(width, height)
}

// MoveCamera starts a smooth transition to position and fov. Orbit input
// is ignored until it completes.
func (v *Viewer) MoveCamera(position math.Vec3, fov float64) {
	v.Orbit.Reset()
	v.Interpolator.SetTarget(camera.State{Position: position, FOV: fov})
}

// SetLighting replaces the light rig.
func (v *Viewer) SetLighting(rig lighting.Rig) {
	v.Lights = rig
}
