package loader

import (
	"errors"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/Faultbox/glbstudio/internal/engine/scene"
	"github.com/Faultbox/glbstudio/pkg/math"
)

// riggedDocument builds a scene with one skinned triangle driven by two
// bones and a translation clip on the second bone.
//
//	Armature
//	├── Body (skinned mesh)
//	└── Hip (bone)
//	    └── Hand.L (bone)
func riggedDocument() *gltf.Document {
	doc := gltf.NewDocument()

	pos := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}})
	idx := modeler.WriteIndices(doc, []uint16{0, 1, 2})
	joints := modeler.WriteJoints(doc, [][4]uint8{{0}, {1}, {1}})
	weights := modeler.WriteWeights(doc, [][4]float32{{1}, {1}, {0.5, 0.5}})
	ibm := modeler.WriteAccessor(doc, gltf.TargetNone, [][4][4]float32{
		{{1, 0, 0, 0}, {0, 1, 0, 0}, {0, 0, 1, 0}, {0, 0, 0, 1}},
		{{1, 0, 0, 0}, {0, 1, 0, 0}, {0, 0, 1, 0}, {-1, 0, 0, 1}},
	})
	times := modeler.WriteAccessor(doc, gltf.TargetNone, []float32{0, 2})
	moves := modeler.WriteAccessor(doc, gltf.TargetNone, [][3]float32{{1, 0, 0}, {1, 3, 0}})

	doc.Materials = []*gltf.Material{{Name: "Skin"}}
	doc.Meshes = []*gltf.Mesh{{
		Name: "BodyMesh",
		Primitives: []*gltf.Primitive{{
			Attributes: map[string]int{
				gltf.POSITION:  pos,
				gltf.JOINTS_0:  joints,
				gltf.WEIGHTS_0: weights,
			},
			Indices:  gltf.Index(idx),
			Material: gltf.Index(0),
		}},
	}}
	doc.Nodes = []*gltf.Node{
		{Name: "Armature", Children: []int{1, 2}},
		{Name: "Body", Mesh: gltf.Index(0), Skin: gltf.Index(0)},
		{Name: "Hip", Children: []int{3}},
		{Name: "Hand.L", Translation: [3]float64{1, 0, 0}},
	}
	doc.Skins = []*gltf.Skin{{Name: "Rig", Joints: []int{2, 3}, InverseBindMatrices: gltf.Index(ibm)}}
	doc.Animations = []*gltf.Animation{{
		Name: "Wave",
		Channels: []*gltf.AnimationChannel{{
			Sampler: 0,
			Target:  gltf.AnimationChannelTarget{Node: gltf.Index(3), Path: gltf.TRSTranslation},
		}},
		Samplers: []*gltf.AnimationSampler{{Input: times, Output: moves}},
	}}
	doc.Scenes = []*gltf.Scene{{Name: "Scene", Nodes: []int{0}}}
	doc.Scene = gltf.Index(0)
	return doc
}

func TestFromDocumentHierarchy(t *testing.T) {
	m, err := FromDocument(riggedDocument(), "", nil)
	if err != nil {
		t.Fatalf("FromDocument: %v", err)
	}

	var names []string
	m.Root.Traverse(func(n *scene.Node) { names = append(names, n.Name) })
	want := []string{"Scene", "Armature", "Body", "Hip", "Hand.L"}
	if len(names) != len(want) {
		t.Fatalf("names = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("node %d = %q, want %q", i, names[i], want[i])
		}
	}

	if !m.Root.Find("Hip").IsBone() || !m.Root.Find("Hand.L").IsBone() {
		t.Error("skin joints should load as bones")
	}
	if got := m.Root.Find("Hand.L").WorldPosition(); !got.ApproxEqual(math.Vec3{X: 1}, 1e-9) {
		t.Errorf("Hand.L world = %v, want (1, 0, 0)", got)
	}
}

func TestFromDocumentSkinAndMaterial(t *testing.T) {
	m, err := FromDocument(riggedDocument(), "", nil)
	if err != nil {
		t.Fatalf("FromDocument: %v", err)
	}

	view, ok := m.Root.Find("Body").AsSkinned()
	if !ok {
		t.Fatal("Body should be a skinned mesh")
	}
	skel := view.Skeleton()
	if len(m.Skeletons) != 1 || skel != m.Skeletons[0] {
		t.Fatal("mesh should reference the loaded skeleton")
	}
	if skel.RootBone().Name != "Hip" {
		t.Errorf("root bone = %q, want Hip", skel.RootBone().Name)
	}
	if got := skel.BoneInverses[1].Position(); !got.ApproxEqual(math.Vec3{X: -1}, 1e-6) {
		t.Errorf("inverse bind translation = %v, want (-1, 0, 0)", got)
	}

	// Bind pose: skinning must reproduce the rest positions
	pos := view.SkinnedPositions()
	if !pos[1].ApproxEqual(math.Vec3{X: 1}, 1e-5) {
		t.Errorf("bind pose vertex = %v, want (1, 0, 0)", pos[1])
	}

	mats := view.Materials()
	if len(mats) != 1 || mats[0].Name != "Skin" {
		t.Errorf("materials = %v", mats)
	}
	if !view.Geometry().Skinned || view.Geometry().VertexCount() != 3 {
		t.Error("geometry should be skinned with 3 vertices")
	}
}

func TestFromDocumentClips(t *testing.T) {
	m, err := FromDocument(riggedDocument(), "", nil)
	if err != nil {
		t.Fatalf("FromDocument: %v", err)
	}
	if len(m.Clips) != 1 {
		t.Fatalf("clips = %d, want 1", len(m.Clips))
	}
	clip := m.Clips[0]
	if clip.Name != "Wave" || clip.Duration != 2 {
		t.Errorf("clip = %q %v, want Wave 2", clip.Name, clip.Duration)
	}

	clip.Apply(1)
	if got := m.Root.Find("Hand.L").Position; !got.ApproxEqual(math.Vec3{X: 1, Y: 1.5}, 1e-6) {
		t.Errorf("Hand.L at t=1 = %v, want (1, 1.5, 0)", got)
	}
}

func TestFromDocumentEmpty(t *testing.T) {
	doc := gltf.NewDocument()
	doc.Scenes = nil
	doc.Scene = nil
	if _, err := FromDocument(doc, "", nil); !errors.Is(err, ErrNoScene) {
		t.Errorf("err = %v, want ErrNoScene", err)
	}
}
