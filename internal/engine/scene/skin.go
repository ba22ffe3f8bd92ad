package scene

import (
	"github.com/Faultbox/glbstudio/internal/engine/model"
	"github.com/Faultbox/glbstudio/pkg/math"
)

// Skeleton is an ordered set of bones with their inverse bind matrices.
// Skeletons are compared by pointer: meshes sharing a rig share one value.
type Skeleton struct {
	Name         string
	Bones        []*Node
	BoneInverses []math.Mat4
}

// NewSkeleton creates a skeleton. Missing inverse bind matrices are
// computed from the bones' current world matrices.
func NewSkeleton(name string, bones []*Node, inverses []math.Mat4) *Skeleton {
	s := &Skeleton{Name: name, Bones: bones, BoneInverses: inverses}
	if len(inverses) != len(bones) {
		s.BoneInverses = make([]math.Mat4, len(bones))
		for i, b := range bones {
			s.BoneInverses[i] = b.WorldMatrix().Inverse()
		}
	}
	return s
}

// RootBone returns the first bone whose parent is not itself a bone of this
// skeleton.
func (s *Skeleton) RootBone() *Node {
	for _, b := range s.Bones {
		if s.BoneIndex(b.Parent()) < 0 {
			return b
		}
	}
	return nil
}

// BoneIndex returns the index of bone in the skeleton, or -1.
func (s *Skeleton) BoneIndex(bone *Node) int {
	if bone == nil {
		return -1
	}
	for i, b := range s.Bones {
		if b == bone {
			return i
		}
	}
	return -1
}

// BoneByName returns the first bone with the given name.
func (s *Skeleton) BoneByName(name string) (*Node, int) {
	for i, b := range s.Bones {
		if b.Name == name {
			return b, i
		}
	}
	return nil, -1
}

// Skin binds a mesh to a skeleton. BindMatrix is the mesh's world matrix at
// bind time. Deformed vertices are placed by the bones alone, so the mesh's
// own world matrix does not apply to weighted vertices.
type Skin struct {
	Skeleton          *Skeleton
	BindMatrix        math.Mat4
	BindMatrixInverse math.Mat4
}

// NewSkin creates a skin bound with the given bind matrix.
func NewSkin(skeleton *Skeleton, bind math.Mat4) *Skin {
	return &Skin{Skeleton: skeleton, BindMatrix: bind, BindMatrixInverse: bind.Inverse()}
}

// BoneMatrices returns boneWorld * boneInverse for every bone using the
// bones' cached world matrices.
func (s *Skin) BoneMatrices() []math.Mat4 {
	out := make([]math.Mat4, len(s.Skeleton.Bones))
	for i, b := range s.Skeleton.Bones {
		out[i] = b.WorldMatrix().Mul(s.Skeleton.BoneInverses[i])
	}
	return out
}

// JointMatrices returns boneWorld * boneInverse * bindMatrix per bone. They
// map bind-space vertex positions straight to world space.
func (s *Skin) JointMatrices() []math.Mat4 {
	joints := s.BoneMatrices()
	for i := range joints {
		joints[i] = joints[i].Mul(s.BindMatrix)
	}
	return joints
}

// Apply deforms a vertex into world space. joints must come from
// JointMatrices. ok is false for a vertex without weights.
func (s *Skin) Apply(joints []math.Mat4, v model.Vertex) (p math.Vec3, ok bool) {
	bind := vec3(v.Position)
	var total float64
	for k := 0; k < model.MaxInfluences; k++ {
		w := float64(v.Weights[k])
		j := int(v.Joints[k])
		if w == 0 || j >= len(joints) {
			continue
		}
		p = p.Add(joints[j].TransformPoint(bind).Scale(w))
		total += w
	}
	return p, total > 0
}
