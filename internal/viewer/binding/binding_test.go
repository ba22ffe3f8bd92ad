package binding

import (
	"errors"
	"image"
	"testing"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/Faultbox/glbstudio/internal/engine/model"
	"github.com/Faultbox/glbstudio/internal/engine/scene"
	"github.com/Faultbox/glbstudio/internal/engine/texture"
	"github.com/Faultbox/glbstudio/internal/viewer/highlight"
	"github.com/Faultbox/glbstudio/internal/viewer/introspect"
	"github.com/Faultbox/glbstudio/pkg/math"
)

func triangle() *model.Geometry {
	return model.NewGeometry([]model.Vertex{
		{Position: [3]float32{0, 0, 0}},
		{Position: [3]float32{1, 0, 0}},
		{Position: [3]float32{0, 1, 0}},
	}, []uint32{0, 1, 2})
}

// fakeSource queues loads and completes them when told to.
type fakeSource struct {
	requests []texture.Result
	done     []texture.Result
}

func (f *fakeSource) Load(key, source string) {
	f.requests = append(f.requests, texture.Result{Key: key, Source: source})
}

func (f *fakeSource) Poll(fn func(texture.Result)) int {
	n := len(f.done)
	for _, r := range f.done {
		fn(r)
	}
	f.done = nil
	return n
}

func (f *fakeSource) complete(i int, err error) {
	r := f.requests[i]
	if err != nil {
		r.Err = err
	} else {
		r.Image = image.NewRGBA(image.Rect(0, 0, 2, 2))
	}
	f.done = append(f.done, r)
}

type overrideSet map[*scene.Node]bool

func (o overrideSet) Overridden(n *scene.Node) bool { return o[n] }

func TestApplyTransformsIdempotent(t *testing.T) {
	root := scene.NewGroup("")
	arm := scene.NewGroup("Arm")
	twin := scene.NewGroup("Arm")
	root.Add(arm, scene.NewGroup("Leg"))
	arm.Add(twin)

	transforms := map[string]introspect.NodeTransform{
		"Arm":     {Visible: false, Position: math.Vec3{X: 1, Y: 2, Z: 3}, Rotation: math.Vec3{Y: 0.5}, Scale: 2},
		"Missing": introspect.DefaultTransform(),
	}

	ApplyTransforms(root, transforms)
	first := arm.LocalMatrix()
	ApplyTransforms(root, transforms)

	if arm.LocalMatrix() != first {
		t.Error("second apply changed the transform")
	}
	for _, n := range []*scene.Node{arm, twin} {
		if n.Visible || n.Position != (math.Vec3{X: 1, Y: 2, Z: 3}) || n.Scale != (math.Vec3{X: 2, Y: 2, Z: 2}) {
			t.Errorf("%p not updated: visible=%v pos=%v scale=%v", n, n.Visible, n.Position, n.Scale)
		}
		if !n.Euler().ApproxEqual(math.Vec3{Y: 0.5}, 1e-9) {
			t.Errorf("rotation = %v, want (0, 0.5, 0)", n.Euler())
		}
	}
	if leg := root.Find("Leg"); !leg.Visible || leg.Position != (math.Vec3{}) {
		t.Error("unlisted node must stay untouched")
	}
}

func TestMaterialBinderFlatColor(t *testing.T) {
	shared := scene.NewStandardMaterial("Paint")
	other := scene.NewStandardMaterial("Chrome")
	grayed := scene.NewMesh("grayed", triangle(), shared.Clone())
	root := scene.NewGroup("")
	root.Add(scene.NewMesh("a", triangle(), shared), scene.NewMesh("b", triangle(), shared, other), grayed)

	b := NewMaterialBinder(nil, overrideSet{grayed: true}, nil)
	b.Apply(root, "Paint", MaterialParams{
		Color: "#ff0000", Metalness: 0.2, Roughness: 0.7, Opacity: 0.5,
		Emissive: "#00ff00", EmissiveIntensity: 2,
	})

	if shared.Color != (colorful.Color{R: 1}) || shared.Metalness != 0.2 || shared.Roughness != 0.7 {
		t.Errorf("shared material not updated: %+v", shared)
	}
	if !shared.Transparent || shared.Opacity != 0.5 {
		t.Error("opacity below 1 must flag the material transparent")
	}
	if shared.Emissive != (colorful.Color{G: 1}) || shared.EmissiveIntensity != 2 {
		t.Error("emissive not applied")
	}
	if other.Color != (colorful.Color{R: 1, G: 1, B: 1}) {
		t.Error("other material must stay untouched")
	}
	gm, _ := grayed.AsMaterialHost()
	if gm.Materials()[0].Metalness == 0.2 {
		t.Error("overridden mesh must be skipped")
	}

	b.Apply(root, "", MaterialParams{Color: "#0000ff"})
	if shared.Color != (colorful.Color{R: 1}) {
		t.Error("empty material name must be a no-op")
	}
}

func TestMaterialBinderTextureLifecycle(t *testing.T) {
	original := scene.NewTexture("albedo", nil)
	paint := scene.NewStandardMaterial("Paint")
	paint.Map = original
	root := scene.NewGroup("")
	root.Add(scene.NewMesh("a", triangle(), paint))

	src := &fakeSource{}
	b := NewMaterialBinder(src, nil, nil)
	params := DefaultMaterialParams()
	params.Color = "#336699"
	params.TextureURL = "one.png"

	b.Apply(root, "Paint", params)
	b.Apply(root, "Paint", params)
	if len(src.requests) != 1 {
		t.Fatalf("loads started = %d, want 1 while in flight", len(src.requests))
	}
	if paint.Map != original {
		t.Fatal("map must not change before the load lands")
	}

	src.complete(0, nil)
	b.Poll(root)
	first := b.Texture("Paint")
	if first == nil || paint.Map != first {
		t.Fatal("loaded texture should be assigned")
	}
	if paint.Color != (colorful.Color{R: 1, G: 1, B: 1}) {
		t.Error("textured material should not be tinted")
	}

	params.TextureURL = "two.png"
	b.Apply(root, "Paint", params)
	src.complete(1, nil)
	b.Poll(root)
	if !first.Disposed() {
		t.Error("replaced texture must be disposed")
	}
	second := b.Texture("Paint")
	if paint.Map != second || second == first {
		t.Fatal("second texture should replace the first")
	}

	params.TextureURL = ""
	b.Apply(root, "Paint", params)
	if !second.Disposed() || b.Texture("Paint") != nil {
		t.Error("clearing the URL must dispose the held texture")
	}
	if paint.Map != original {
		t.Error("clearing the URL must restore the original map")
	}
	if want, _ := colorful.Hex("#336699"); paint.Color != want {
		t.Errorf("flat color = %v, want %v", paint.Color.Hex(), want.Hex())
	}
}

func TestMaterialBinderKeysResultsByName(t *testing.T) {
	paint := scene.NewStandardMaterial("Paint")
	chrome := scene.NewStandardMaterial("Chrome")
	root := scene.NewGroup("")
	root.Add(scene.NewMesh("a", triangle(), paint, chrome))

	src := &fakeSource{}
	b := NewMaterialBinder(src, nil, nil)

	b.Apply(root, "Paint", MaterialParams{Color: "#ffffff", Opacity: 1, TextureURL: "paint.png"})
	// Selection moves on before the load lands
	b.Apply(root, "Chrome", MaterialParams{Color: "#888888", Opacity: 1})

	src.complete(0, nil)
	b.Poll(root)
	if paint.Map == nil {
		t.Error("result must land on the material it was requested for")
	}
	if chrome.Map != nil {
		t.Error("result must not land on the newly selected material")
	}
}

func TestMaterialBinderStaleAndFailedLoads(t *testing.T) {
	paint := scene.NewStandardMaterial("Paint")
	root := scene.NewGroup("")
	root.Add(scene.NewMesh("a", triangle(), paint))

	src := &fakeSource{}
	b := NewMaterialBinder(src, nil, nil)

	b.Apply(root, "Paint", MaterialParams{Color: "#ffffff", Opacity: 1, TextureURL: "old.png"})
	b.Apply(root, "Paint", MaterialParams{Color: "#ffffff", Opacity: 1, TextureURL: "new.png"})
	src.complete(0, nil)
	b.Poll(root)
	if paint.Map != nil {
		t.Error("a result for a superseded URL must be dropped")
	}

	src.complete(1, errors.New("boom"))
	b.Poll(root)
	if paint.Map != nil || b.Texture("Paint") != nil {
		t.Error("a failed load must leave the flat color")
	}
	if paint.Color != (colorful.Color{R: 1, G: 1, B: 1}) {
		t.Error("flat color should be applied on failure")
	}
}

func TestMaterialBinderDispose(t *testing.T) {
	paint := scene.NewStandardMaterial("Paint")
	root := scene.NewGroup("")
	root.Add(scene.NewMesh("a", triangle(), paint))

	src := &fakeSource{}
	b := NewMaterialBinder(src, nil, nil)
	b.Apply(root, "Paint", MaterialParams{Color: "#ffffff", Opacity: 1, TextureURL: "p.png"})
	src.complete(0, nil)
	b.Poll(root)
	tex := b.Texture("Paint")

	b.Dispose(root)
	if !tex.Disposed() || paint.Map != nil {
		t.Error("Dispose must release and detach every held texture")
	}
}

func TestMaterialBinderReleaseWhileHighlighted(t *testing.T) {
	albedo := scene.NewTexture("albedo", nil)
	skin := scene.NewStandardMaterial("Skin")
	skin.Map = albedo
	body := scene.NewMesh("Body", triangle(), skin)
	root := scene.NewGroup("")
	root.Add(scene.NewMesh("Head", triangle(), scene.NewStandardMaterial("Eyes")), body)

	hl := highlight.New(nil)
	src := &fakeSource{}
	b := NewMaterialBinder(src, hl, nil)
	params := DefaultMaterialParams()
	params.TextureURL = "a.png"
	b.Apply(root, "Skin", params)
	src.complete(0, nil)
	b.Poll(root)
	held := b.Texture("Skin")
	if skin.Map != held {
		t.Fatal("override should be assigned")
	}

	hl.Set(root, "Head")
	host, _ := body.AsMaterialHost()
	if host.Materials()[0] == skin {
		t.Fatal("body should show a grayed clone")
	}

	params.TextureURL = ""
	b.Apply(root, "Skin", params)
	if !held.Disposed() {
		t.Error("override must be disposed")
	}
	if host.Materials()[0].Map != albedo {
		t.Error("grayed clone should fall back to the original map")
	}

	hl.Set(root, "")
	if host.Materials()[0] != skin {
		t.Fatal("clear should restore the original material")
	}
	if skin.Map != albedo {
		t.Errorf("restored material map = %p, want the original %p", skin.Map, albedo)
	}

	b.Apply(root, "Skin", params)
	if skin.Map != albedo {
		t.Error("re-applying the flat color must keep the original map")
	}
}

func TestApplyTextureTransform(t *testing.T) {
	albedo := scene.NewTexture("albedo", nil)
	normal := scene.NewTexture("normal", nil)
	m := scene.NewStandardMaterial("m")
	m.Map, m.NormalMap = albedo, normal
	root := scene.NewGroup("")
	root.Add(scene.NewMesh("a", triangle(), m))

	tt := TextureTransform{Repeat: math.Vec2{X: 2, Y: 3}, Offset: math.Vec2{X: 0.5}, Rotation: 1}
	ApplyTextureTransform(root, "albedo", tt)

	if albedo.Repeat != tt.Repeat || albedo.Offset != tt.Offset || albedo.Rotation != 1 {
		t.Errorf("albedo = %+v %+v %v", albedo.Repeat, albedo.Offset, albedo.Rotation)
	}
	if normal.Repeat != (math.Vec2{X: 1, Y: 1}) || normal.Rotation != 0 {
		t.Error("other textures must keep their transform")
	}
	if d := DefaultTextureTransform(); d.Repeat != (math.Vec2{X: 1, Y: 1}) || d.Rotation != 0 {
		t.Errorf("DefaultTextureTransform() = %+v", d)
	}
}

func TestApplySkeletonVisibility(t *testing.T) {
	hip := scene.NewBone("Hip")
	tail := scene.NewBone("Tail")
	root := scene.NewGroup("")
	root.Add(hip, tail)

	body := scene.NewSkinnedMesh("Body", triangle(), scene.NewSkin(scene.NewSkeleton("", []*scene.Node{hip}, nil), math.Identity()))
	pet := scene.NewSkinnedMesh("Pet", triangle(), scene.NewSkin(scene.NewSkeleton("", []*scene.Node{tail}, nil), math.Identity()))
	root.Add(body, pet)

	ApplySkeletonVisibility(root, "Hip", false)
	if hip.Visible || !tail.Visible {
		t.Error("only the filtered skeleton should be hidden")
	}
	ApplySkeletonVisibility(root, "", false)
	if tail.Visible {
		t.Error("empty filter should hide every skeleton")
	}
	ApplySkeletonVisibility(root, "", true)
	if !hip.Visible || !tail.Visible {
		t.Error("bones should be shown again")
	}
}
