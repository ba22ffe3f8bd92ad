package viewer

import (
	"testing"

	"github.com/Faultbox/glbstudio/internal/config"
	"github.com/Faultbox/glbstudio/internal/engine/animation"
	"github.com/Faultbox/glbstudio/internal/engine/loader"
	"github.com/Faultbox/glbstudio/internal/engine/model"
	"github.com/Faultbox/glbstudio/internal/engine/scene"
	"github.com/Faultbox/glbstudio/internal/viewer/annotation"
	"github.com/Faultbox/glbstudio/internal/viewer/sequencer"
	"github.com/Faultbox/glbstudio/pkg/math"
)

func triangle() *model.Geometry {
	return model.NewGeometry([]model.Vertex{
		{Position: [3]float32{-1, 0, -1}},
		{Position: [3]float32{1, 0, -1}},
		{Position: [3]float32{0, 0, 1}},
	}, []uint32{0, 1, 2})
}

// robot builds Robot -> {Arm mesh, Hip bone -> Knee bone} with two clips.
func robot() (*loader.Model, *scene.Node) {
	root := scene.NewGroup("Robot")
	armMat := scene.NewStandardMaterial("metal")
	arm := scene.NewMesh("Arm", triangle(), armMat)
	hip := scene.NewBone("Hip")
	knee := scene.NewBone("Knee")
	knee.Position = math.Vec3{Y: -1}
	hip.Add(knee)
	root.Add(arm, hip)

	skel := scene.NewSkeleton("rig", []*scene.Node{hip, knee}, nil)
	clip := func(name string, d float64) *animation.Clip {
		return animation.NewClip(name, []*animation.Track{{
			Target: hip,
			Path:   animation.PathTranslation,
			Times:  []float64{0, d},
			Values: []float64{0, 0, 0, 0, 1, 0},
		}})
	}
	return &loader.Model{
		Root:      root,
		Clips:     []*animation.Clip{clip("Wave", 1), clip("Walk", 2)},
		Skeletons: []*scene.Skeleton{skel},
		Materials: []*scene.Material{armMat},
	}, arm
}

func TestSetModelDiscoversAndAutoPlays(t *testing.T) {
	var discovered []Discovery
	v := New(config.Default(), Options{OnDiscover: func(d Discovery) { discovered = append(discovered, d) }})
	m, _ := robot()

	v.SetModel(m)

	if v.Root() != m.Root {
		t.Fatal("Root() should be the loaded model")
	}
	if m.Root.Parent() == nil {
		t.Fatal("model should be attached to the scene")
	}
	d := v.Discovery()
	if len(d.Clips) != 2 || d.Clips[0] != "Wave" {
		t.Errorf("clips = %v", d.Clips)
	}
	if len(d.MaterialNames) != 1 || d.MaterialNames[0] != "metal" {
		t.Errorf("materials = %v", d.MaterialNames)
	}
	// Reset before load notifies an empty discovery, then the real one.
	if len(discovered) != 2 || len(discovered[1].Clips) != 2 {
		t.Errorf("OnDiscover calls = %d", len(discovered))
	}

	h := v.Handle()
	if h.State() != sequencer.SinglePlaying || h.ActiveClip() != "Wave" {
		t.Errorf("state %v clip %q, want first clip playing", h.State(), h.ActiveClip())
	}
	if !v.State().Animation.Playing {
		t.Error("animation state should be playing")
	}
}

func TestResetDiscardsModelState(t *testing.T) {
	v := New(config.Default(), Options{})
	m, arm := robot()
	v.SetModel(m)
	if _, err := v.Annotations.AddPart("Arm", "Left arm"); err != nil {
		t.Fatalf("AddPart: %v", err)
	}
	v.SetHighlight("Arm")

	v.Reset()

	if v.Root() != nil {
		t.Error("Root() should be nil after reset")
	}
	if m.Root.Parent() != nil {
		t.Error("model should be detached")
	}
	if len(v.Discovery().NodeNames) != 0 || len(v.Discovery().Clips) != 0 {
		t.Errorf("discovery not cleared: %+v", v.Discovery())
	}
	if len(v.Annotations.Parts()) != 0 {
		t.Error("parts should be cleared")
	}
	if v.Handle().State() != sequencer.Idle {
		t.Errorf("state = %v, want idle", v.Handle().State())
	}
	if v.State().Highlight != "" {
		t.Errorf("highlight = %q", v.State().Highlight)
	}
	host, _ := arm.AsMaterialHost()
	if !host.Geometry().Disposed() {
		t.Error("geometry should be disposed")
	}
}

func TestSetModelNilLeavesSceneEmpty(t *testing.T) {
	v := New(nil, Options{})
	m, _ := robot()
	v.SetModel(m)

	v.SetModel(nil)

	if v.Root() != nil {
		t.Error("Root() should be nil")
	}
	v.Update(0.016)
}

func TestNodeTransformOnlyForKnownNames(t *testing.T) {
	v := New(config.Default(), Options{})
	m, arm := robot()
	v.SetModel(m)

	moved := v.NodeTransform("Arm")
	moved.Position = math.Vec3{X: 2}
	moved.Visible = false
	v.SetNodeTransform("Arm", moved)
	v.SetNodeTransform("Ghost", moved)

	if arm.Position != (math.Vec3{X: 2}) || arm.Visible {
		t.Errorf("Arm = %v visible %v", arm.Position, arm.Visible)
	}
	if got := v.NodeTransform("Arm"); got.Position != (math.Vec3{X: 2}) {
		t.Errorf("NodeTransform(Arm) = %+v", got)
	}
	if got := v.NodeTransform("Ghost"); got.Position != (math.Vec3{}) || !got.Visible {
		t.Errorf("unknown name should report the default transform, got %+v", got)
	}
}

func TestSetAnimationAdjustsInPlace(t *testing.T) {
	v := New(config.Default(), Options{})
	m, _ := robot()
	v.SetModel(m)
	v.Update(0.5)

	p := v.State().Animation
	p.Speed = 2
	v.SetAnimation(p)
	if v.Handle().ActiveClip() != "Wave" {
		t.Fatalf("speed change should not switch clips, got %q", v.Handle().ActiveClip())
	}

	p.SequenceMode = true
	p.Sequence = []string{"Walk", "Wave"}
	v.SetAnimation(p)
	if v.Handle().State() != sequencer.SequencePlaying || v.Handle().ActiveClip() != "Walk" {
		t.Errorf("state %v clip %q, want sequence from Walk", v.Handle().State(), v.Handle().ActiveClip())
	}

	p.Playing = false
	v.SetAnimation(p)
	if v.Handle().State() != sequencer.Idle {
		t.Errorf("state = %v, want idle", v.Handle().State())
	}
}

func TestHandleControlsPlayback(t *testing.T) {
	v := New(config.Default(), Options{})
	m, _ := robot()
	v.SetModel(m)
	h := v.Handle()

	h.Stop()
	if h.State() != sequencer.Idle || v.State().Animation.Playing {
		t.Fatalf("Stop: state %v", h.State())
	}
	h.Play()
	if h.State() != sequencer.SinglePlaying || h.ActiveClip() != "Wave" {
		t.Fatalf("Play: state %v clip %q", h.State(), h.ActiveClip())
	}
	h.Pause()
	v.Update(0.25)
	h.Reset()
	if h.State() != sequencer.Idle {
		t.Errorf("Reset: state %v", h.State())
	}
	if h.Root() != m.Root {
		t.Error("Root() should expose the model")
	}
}

func TestPointerClickPlacesOnce(t *testing.T) {
	v := New(config.Default(), Options{})
	m, _ := robot()
	v.SetModel(m)
	v.Update(0)

	if _, ok := v.PointerClick(640, 360); ok {
		t.Fatal("click without placement mode should not place")
	}

	kind := annotation.KindText
	v.PlaceMode(&kind)
	id, ok := v.PointerClick(640, 360)
	if !ok || id == "" {
		t.Fatalf("PointerClick = %q, %v", id, ok)
	}
	if v.Placing() != nil {
		t.Error("placement should disarm after one click")
	}
	if len(v.Annotations.Texts()) != 1 || v.Annotations.Texts()[0].ID != id {
		t.Errorf("texts = %v", v.Annotations.Texts())
	}

	snap := v.Update(0.016)
	if _, ok := snap.Position(id); !ok {
		t.Error("snapshot should include the new text")
	}
}

func TestMoveCameraBlocksOrbit(t *testing.T) {
	v := New(config.Default(), Options{})
	target := math.Vec3{X: 3, Y: 3, Z: 3}

	v.MoveCamera(target, 40)
	start := v.Camera.Position
	v.PointerDrag(0, 0, 50, 0)
	if !v.Interpolator.Active() {
		t.Fatal("interpolator should be active")
	}
	if v.Camera.Position != start {
		t.Error("drag should not orbit during a camera move")
	}

	for i := 0; i < 1000 && v.Interpolator.Active(); i++ {
		v.Update(0.016)
	}
	if v.Interpolator.Active() {
		t.Fatal("camera move never completed")
	}
	if d := v.Camera.Position.Distance(target); d > 0.01 {
		t.Errorf("camera ended %v from target", d)
	}
}
