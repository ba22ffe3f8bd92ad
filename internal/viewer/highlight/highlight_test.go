package highlight

import (
	"testing"

	"github.com/Faultbox/glbstudio/internal/engine/model"
	"github.com/Faultbox/glbstudio/internal/engine/scene"
	"github.com/Faultbox/glbstudio/pkg/math"
)

func triangle() *model.Geometry {
	return model.NewGeometry([]model.Vertex{
		{Position: [3]float32{0, 0, 0}},
		{Position: [3]float32{1, 0, 0}},
		{Position: [3]float32{0, 1, 0}},
	}, []uint32{0, 1, 2})
}

// character builds root -> {Body (group) -> Torso mesh, Hat mesh, rigged mesh}.
func character() (root, torso, hat, rigged *scene.Node) {
	root = scene.NewGroup("")
	body := scene.NewGroup("Body")
	torso = scene.NewMesh("Torso", triangle(), scene.NewStandardMaterial("skin"))
	hat = scene.NewMesh("Hat", triangle(), scene.NewStandardMaterial("felt"))

	hip := scene.NewBone("Hip")
	knee := scene.NewBone("Knee")
	hip.Add(knee)
	skel := scene.NewSkeleton("rig", []*scene.Node{hip, knee}, []math.Mat4{math.Identity(), math.Identity()})
	geo := model.NewGeometry([]model.Vertex{
		{Joints: [4]uint16{0, 1}, Weights: [4]float32{0.25, 0.75}},
		{Joints: [4]uint16{0}, Weights: [4]float32{1}},
		{Joints: [4]uint16{1}, Weights: [4]float32{1}},
	}, []uint32{0, 1, 2})
	rigged = scene.NewSkinnedMesh("Legs", geo, scene.NewSkin(skel, math.Identity()), scene.NewStandardMaterial("cloth"))

	body.Add(torso)
	root.Add(body, hat, hip, rigged)
	return root, torso, hat, rigged
}

func variantOf(t *testing.T, n *scene.Node) scene.Variant {
	t.Helper()
	host, _ := n.AsMaterialHost()
	return host.Materials()[0].Variant
}

func TestSetKeepsNamedSubtreeInColor(t *testing.T) {
	root, torso, hat, rigged := character()
	e := New(nil)

	e.Set(root, "Body")

	if got := variantOf(t, torso); got != scene.VariantStandard {
		t.Errorf("Torso variant = %v, want standard", got)
	}
	for _, n := range []*scene.Node{hat, rigged} {
		if got := variantOf(t, n); got != scene.VariantDesaturated {
			t.Errorf("%s variant = %v, want desaturated", n.Name, got)
		}
		if !e.Overridden(n) {
			t.Errorf("%s should be overridden", n.Name)
		}
	}
	if e.Overridden(torso) {
		t.Error("Torso should not be overridden")
	}
	if e.Current() != "Body" {
		t.Errorf("Current() = %q", e.Current())
	}
}

func TestClearRestoresOriginals(t *testing.T) {
	root, _, hat, rigged := character()
	hatHost, _ := hat.AsMaterialHost()
	legs, _ := rigged.AsMaterialHost()
	hatMat := hatHost.Materials()[0]
	legsGeo := legs.Geometry()
	legsMat := legs.Materials()[0]

	e := New(nil)
	e.Set(root, "Torso")
	clone := hatHost.Materials()[0]
	if clone == hatMat {
		t.Fatal("hat material was not cloned")
	}

	e.Clear()

	if hatHost.Materials()[0] != hatMat {
		t.Error("hat material not restored by identity")
	}
	if legs.Materials()[0] != legsMat || legs.Geometry() != legsGeo {
		t.Error("legs not restored by identity")
	}
	if !clone.Disposed() {
		t.Error("clone should be disposed")
	}
	if hatMat.Disposed() {
		t.Error("original must not be disposed")
	}
	if e.Current() != "" || e.Overridden(hat) {
		t.Error("registry should be empty")
	}
}

func TestBoneHighlightWeights(t *testing.T) {
	root, torso, _, rigged := character()
	view, _ := rigged.AsSkinned()
	original := view.Geometry()

	e := New(nil)
	e.Set(root, "Knee")

	geo := view.Geometry()
	if geo == original {
		t.Fatal("geometry should be cloned for a bone highlight")
	}
	weights, ok := geo.Attribute(Attribute)
	if !ok {
		t.Fatal("highlight attribute missing")
	}
	want := []float32{0.75, 0, 1}
	for i := range want {
		if weights[i] != want[i] {
			t.Errorf("weight[%d] = %v, want %v", i, weights[i], want[i])
		}
	}
	m := view.Materials()[0]
	if m.Variant != scene.VariantBoneWeightedHighlight || m.HighlightAttribute != Attribute {
		t.Errorf("material variant = %v attribute = %q", m.Variant, m.HighlightAttribute)
	}
	if _, ok := original.Attribute(Attribute); ok {
		t.Error("original geometry must not carry the attribute")
	}
	if e.Overridden(torso) {
		t.Error("unskinned meshes are untouched by a bone highlight")
	}

	e.Clear()
	if !geo.Disposed() || view.Geometry() != original {
		t.Error("cloned geometry should be disposed and original restored")
	}
}

func TestUnknownNameIsNoop(t *testing.T) {
	root, torso, hat, _ := character()
	e := New(nil)

	for _, name := range []string{"", "Nope"} {
		e.Set(root, name)
		if e.Overridden(torso) || e.Overridden(hat) {
			t.Errorf("Set(%q) should not override anything", name)
		}
		if got := variantOf(t, hat); got != scene.VariantStandard {
			t.Errorf("Set(%q): hat variant = %v", name, got)
		}
	}
}

func TestRehighlightDisposesPrevious(t *testing.T) {
	root, torso, hat, _ := character()
	hatHost, _ := hat.AsMaterialHost()
	torsoHost, _ := torso.AsMaterialHost()
	e := New(nil)

	e.Set(root, "Torso")
	first := hatHost.Materials()[0]

	e.Set(root, "Hat")
	if !first.Disposed() {
		t.Error("previous clone should be disposed")
	}
	if got := variantOf(t, hat); got != scene.VariantStandard {
		t.Errorf("hat variant = %v, want standard", got)
	}
	if got := torsoHost.Materials()[0].Variant; got != scene.VariantDesaturated {
		t.Errorf("torso variant = %v, want desaturated", got)
	}
}

func TestDuplicateNamesAllKept(t *testing.T) {
	root := scene.NewGroup("")
	a := scene.NewMesh("Wheel", triangle(), scene.NewStandardMaterial("rubber"))
	b := scene.NewMesh("Wheel", triangle(), scene.NewStandardMaterial("rubber"))
	frame := scene.NewMesh("Frame", triangle(), scene.NewStandardMaterial("steel"))
	root.Add(a, b, frame)

	e := New(nil)
	e.Set(root, "Wheel")

	if e.Overridden(a) || e.Overridden(b) {
		t.Error("every node named Wheel stays in color")
	}
	if !e.Overridden(frame) {
		t.Error("Frame should be desaturated")
	}
}
