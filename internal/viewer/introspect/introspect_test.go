package introspect

import (
	"sort"
	"testing"

	"github.com/Faultbox/glbstudio/internal/engine/model"
	"github.com/Faultbox/glbstudio/internal/engine/scene"
	"github.com/Faultbox/glbstudio/pkg/math"
)

func triangle() *model.Geometry {
	return model.NewGeometry([]model.Vertex{
		{Position: [3]float32{0, 0, 0}, Weights: [4]float32{1}},
		{Position: [3]float32{1, 0, 0}, Weights: [4]float32{1}},
		{Position: [3]float32{0, 1, 0}, Weights: [4]float32{1}},
	}, []uint32{0, 1, 2})
}

func TestIntrospectDiscoversNodes(t *testing.T) {
	root := scene.NewGroup("")
	head := scene.NewGroup("Head")
	head.Position = math.Vec3{Y: 2}
	head.Scale = math.Vec3{X: 1, Y: 2, Z: 3}
	root.Add(head, scene.NewGroup("Leg.L"), scene.NewGroup("Leg.R"))

	res := Introspect(root)

	got := append([]string(nil), res.NodeNames...)
	sort.Strings(got)
	want := []string{"Head", "Leg.L", "Leg.R"}
	if len(got) != len(want) {
		t.Fatalf("NodeNames = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("NodeNames = %v, want %v", got, want)
		}
		if _, ok := res.InitialTransforms[want[i]]; !ok {
			t.Errorf("missing initial transform for %s", want[i])
		}
	}

	h := res.InitialTransforms["Head"]
	if h.Position != (math.Vec3{Y: 2}) || h.Scale != 2 || !h.Visible {
		t.Errorf("Head snapshot = %+v, want position (0,2,0) and mean scale 2", h)
	}
}

func TestIntrospectDuplicateNames(t *testing.T) {
	root := scene.NewGroup("")
	first := scene.NewGroup("Wheel")
	first.Position = math.Vec3{X: 1}
	second := scene.NewGroup("Wheel")
	second.Position = math.Vec3{X: -1}
	root.Add(first, second)

	res := Introspect(root)
	if len(res.NodeNames) != 1 {
		t.Fatalf("NodeNames = %v, want a single Wheel", res.NodeNames)
	}
	if got := res.InitialTransforms["Wheel"].Position; got != second.Position {
		t.Errorf("snapshot = %v, want the last node named Wheel", got)
	}
}

func TestIntrospectMaterialsAndTextures(t *testing.T) {
	skin := scene.NewStandardMaterial("Skin")
	skin.Map = scene.NewTexture("albedo", nil)
	skin.NormalMap = scene.NewTexture("normal", nil)
	cloth := scene.NewStandardMaterial("Cloth")
	cloth.Map = scene.NewTexture("albedo", nil)
	cloth.RoughnessMap = scene.NewTexture("", nil)
	unnamed := scene.NewStandardMaterial("")

	root := scene.NewGroup("")
	root.Add(
		scene.NewMesh("a", triangle(), skin, cloth),
		scene.NewMesh("b", triangle(), skin),
		scene.NewMesh("c", triangle(), unnamed),
	)

	res := Introspect(root)
	if want := []string{"Skin", "Cloth"}; !equal(res.MaterialNames, want) {
		t.Errorf("MaterialNames = %v, want %v", res.MaterialNames, want)
	}
	if want := []string{"albedo", "normal"}; !equal(res.TextureNames, want) {
		t.Errorf("TextureNames = %v, want %v", res.TextureNames, want)
	}
}

func TestSkeletonNaming(t *testing.T) {
	hip := scene.NewBone("Hip")
	hand := scene.NewBone("Hand")
	hip.Add(hand)
	named := scene.NewSkeleton("", []*scene.Node{hand, hip}, nil)

	anon := scene.NewSkeleton("", []*scene.Node{scene.NewBone("")}, nil)
	orphan := scene.NewSkeleton("", []*scene.Node{scene.NewBone("")}, nil)
	empty := scene.NewSkeleton("", nil, nil)

	root := scene.NewGroup("")
	root.Add(hip)
	root.Add(
		scene.NewSkinnedMesh("Body", triangle(), scene.NewSkin(named, math.Identity())),
		scene.NewSkinnedMesh("Shirt", triangle(), scene.NewSkin(named, math.Identity())),
		scene.NewSkinnedMesh("Cape", triangle(), scene.NewSkin(anon, math.Identity())),
		scene.NewSkinnedMesh("", triangle(), scene.NewSkin(orphan, math.Identity())),
		scene.NewSkinnedMesh("Ghost", triangle(), scene.NewSkin(empty, math.Identity())),
	)

	refs := Skeletons(root)
	if len(refs) != 3 {
		t.Fatalf("skeletons = %d, want 3 distinct non-empty skeletons", len(refs))
	}
	tests := []struct {
		name   string
		meshes int
	}{
		{"Hip", 2},
		{"Cape", 1},
		{"Skeleton_2", 1},
	}
	for i, tt := range tests {
		if refs[i].Name != tt.name || len(refs[i].Meshes) != tt.meshes {
			t.Errorf("skeleton %d = %q with %d meshes, want %q with %d", i, refs[i].Name, len(refs[i].Meshes), tt.name, tt.meshes)
		}
	}

	if got := Introspect(root).SkeletonNames; !equal(got, []string{"Hip", "Cape", "Skeleton_2"}) {
		t.Errorf("SkeletonNames = %v", got)
	}
	if got := MatchSkeletons(root, "Cape"); len(got) != 1 || got[0].Skeleton != anon {
		t.Error("MatchSkeletons should select by display name")
	}
	if got := MatchSkeletons(root, ""); len(got) != 3 {
		t.Errorf("empty filter matched %d skeletons, want 3", len(got))
	}
}

func TestSnapshotEuler(t *testing.T) {
	n := scene.NewGroup("n")
	n.SetEuler(math.Vec3{X: 0.3, Y: -0.2, Z: 1.1})
	got := Snapshot(n).Rotation
	if !got.ApproxEqual(math.Vec3{X: 0.3, Y: -0.2, Z: 1.1}, 1e-9) {
		t.Errorf("rotation = %v", got)
	}
	if d := DefaultTransform(); !d.Visible || d.Scale != 1 || d.Position != (math.Vec3{}) {
		t.Errorf("DefaultTransform() = %+v", d)
	}
	if got := (Result{}).Transform("missing"); got != DefaultTransform() {
		t.Errorf("missing transform = %+v, want default", got)
	}
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
