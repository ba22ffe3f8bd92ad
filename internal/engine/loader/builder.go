package loader

import (
	"context"
	"fmt"
	"image"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"go.uber.org/zap"

	"github.com/Faultbox/glbstudio/internal/engine/model"
	"github.com/Faultbox/glbstudio/internal/engine/scene"
	"github.com/Faultbox/glbstudio/internal/engine/texture"
	"github.com/Faultbox/glbstudio/pkg/math"
)

type builder struct {
	doc *gltf.Document
	dir string
	log *zap.Logger

	textures   []*scene.Texture
	materials  []*scene.Material
	defaultMat *scene.Material
	geometries map[[2]int]*model.Geometry
	nodes      []*scene.Node
	skins      map[int][]*scene.Skin
	model      *Model
}

func (b *builder) build() (*Model, error) {
	b.model = &Model{}
	b.geometries = make(map[[2]int]*model.Geometry)
	b.skins = make(map[int][]*scene.Skin)

	b.buildTextures()
	b.buildMaterials()
	if err := b.buildNodes(); err != nil {
		return nil, err
	}

	root, err := b.buildRoot()
	if err != nil {
		return nil, err
	}
	b.model.Root = root
	root.UpdateWorldMatrix()

	if err := b.buildSkeletons(); err != nil {
		return nil, err
	}
	if err := b.buildClips(); err != nil {
		return nil, err
	}

	b.log.Debug("model loaded",
		zap.Int("nodes", len(b.nodes)),
		zap.Int("materials", len(b.model.Materials)),
		zap.Int("textures", len(b.model.Textures)),
		zap.Int("skeletons", len(b.model.Skeletons)),
		zap.Int("clips", len(b.model.Clips)))
	return b.model, nil
}

func (b *builder) buildTextures() {
	images := make(map[int]*scene.Texture)
	b.textures = make([]*scene.Texture, len(b.doc.Textures))

	for i, t := range b.doc.Textures {
		if t.Source == nil || *t.Source >= len(b.doc.Images) {
			continue
		}
		src := b.doc.Images[*t.Source]
		name := t.Name
		if name == "" {
			name = src.Name
		}

		// Textures sharing an image share pixels but keep their own name
		// and UV transform.
		if shared, ok := images[*t.Source]; ok {
			tex := scene.NewTexture(name, shared.Image)
			b.textures[i] = tex
			b.model.Textures = append(b.model.Textures, tex)
			continue
		}

		img, err := b.decodeImage(src)
		if err != nil {
			b.log.Warn("skipping texture", zap.Int("texture", i), zap.String("name", name), zap.Error(err))
			continue
		}
		tex := scene.NewTexture(name, img)
		images[*t.Source] = tex
		b.textures[i] = tex
		b.model.Textures = append(b.model.Textures, tex)
	}
}

func (b *builder) decodeImage(img *gltf.Image) (*image.RGBA, error) {
	var data []byte
	var err error
	switch {
	case img.BufferView != nil:
		data, err = modeler.ReadBufferView(b.doc, b.doc.BufferViews[*img.BufferView])
	case strings.HasPrefix(img.URI, "data:"):
		data, err = texture.Fetch(context.Background(), img.URI)
	case img.URI != "":
		if b.dir == "" {
			return nil, fmt.Errorf("external image %q without base directory", img.URI)
		}
		path, uerr := url.PathUnescape(img.URI)
		if uerr != nil {
			path = img.URI
		}
		data, err = texture.Fetch(context.Background(), filepath.Join(b.dir, filepath.FromSlash(path)))
	default:
		return nil, fmt.Errorf("image has no source")
	}
	if err != nil {
		return nil, err
	}
	return texture.Decode(data)
}

func (b *builder) texture(index int) *scene.Texture {
	if index < 0 || index >= len(b.textures) {
		return nil
	}
	return b.textures[index]
}

func (b *builder) buildMaterials() {
	b.materials = make([]*scene.Material, len(b.doc.Materials))
	for i, gm := range b.doc.Materials {
		b.materials[i] = b.material(gm)
		b.model.Materials = append(b.model.Materials, b.materials[i])
	}
}

func (b *builder) material(gm *gltf.Material) *scene.Material {
	m := scene.NewStandardMaterial(gm.Name)
	m.Metalness = 1
	m.DoubleSided = gm.DoubleSided

	if pbr := gm.PBRMetallicRoughness; pbr != nil {
		f := pbr.BaseColorFactorOrDefault()
		m.Color = colorFromFactor(float64(f[0]), float64(f[1]), float64(f[2]))
		m.Opacity = float64(f[3])
		m.Metalness = float64(pbr.MetallicFactorOrDefault())
		m.Roughness = float64(pbr.RoughnessFactorOrDefault())
		if pbr.BaseColorTexture != nil {
			m.Map = b.texture(pbr.BaseColorTexture.Index)
		}
		if pbr.MetallicRoughnessTexture != nil {
			t := b.texture(pbr.MetallicRoughnessTexture.Index)
			m.RoughnessMap, m.MetalnessMap = t, t
		}
	}
	if gm.NormalTexture != nil && gm.NormalTexture.Index != nil {
		m.NormalMap = b.texture(*gm.NormalTexture.Index)
	}

	e := gm.EmissiveFactor
	m.Emissive = colorFromFactor(float64(e[0]), float64(e[1]), float64(e[2]))

	switch gm.AlphaMode {
	case gltf.AlphaBlend:
		m.AlphaMode = scene.AlphaBlend
		m.Transparent = true
	case gltf.AlphaMask:
		m.AlphaMode = scene.AlphaMask
		m.AlphaCutoff = float64(gm.AlphaCutoffOrDefault())
	}
	return m
}

// primitiveMaterial returns the material of a primitive, creating the
// shared default material on first use.
func (b *builder) primitiveMaterial(index *int) *scene.Material {
	if index != nil && *index < len(b.materials) {
		return b.materials[*index]
	}
	if b.defaultMat == nil {
		b.defaultMat = scene.NewStandardMaterial("")
		b.defaultMat.Metalness = 1
		b.model.Materials = append(b.model.Materials, b.defaultMat)
	}
	return b.defaultMat
}

func (b *builder) buildNodes() error {
	joints := make(map[int]bool)
	for _, skin := range b.doc.Skins {
		for _, j := range skin.Joints {
			joints[j] = true
		}
	}

	b.nodes = make([]*scene.Node, len(b.doc.Nodes))
	for i, gn := range b.doc.Nodes {
		n, err := b.node(i, gn, joints[i])
		if err != nil {
			return err
		}
		b.nodes[i] = n
	}

	for i, gn := range b.doc.Nodes {
		for _, c := range gn.Children {
			if c < 0 || c >= len(b.nodes) {
				return fmt.Errorf("node %d: child index %d out of range", i, c)
			}
			b.nodes[i].Add(b.nodes[c])
		}
	}
	return nil
}

func (b *builder) node(index int, gn *gltf.Node, isJoint bool) (*scene.Node, error) {
	var n *scene.Node

	switch {
	case gn.Mesh != nil:
		meshes, err := b.meshes(*gn.Mesh, gn.Skin)
		if err != nil {
			return nil, fmt.Errorf("node %d: %w", index, err)
		}
		if len(meshes) == 1 {
			n = meshes[0]
		} else {
			n = scene.NewGroup("")
			n.Add(meshes...)
		}
	case isJoint:
		n = scene.NewBone("")
	default:
		n = scene.NewGroup("")
	}
	n.Name = gn.Name
	setTransform(n, gn)
	return n, nil
}

func setTransform(n *scene.Node, gn *gltf.Node) {
	var m math.Mat4
	for i := range m {
		m[i] = float64(gn.Matrix[i])
	}
	if m != math.Identity() && m != (math.Mat4{}) {
		n.SetLocalMatrix(m)
		return
	}

	n.Position = math.Vec3{X: float64(gn.Translation[0]), Y: float64(gn.Translation[1]), Z: float64(gn.Translation[2])}
	q := math.Quat{X: float64(gn.Rotation[0]), Y: float64(gn.Rotation[1]), Z: float64(gn.Rotation[2]), W: float64(gn.Rotation[3])}
	if q != (math.Quat{}) {
		n.Rotation = q.Normalize()
	}
	s := math.Vec3{X: float64(gn.Scale[0]), Y: float64(gn.Scale[1]), Z: float64(gn.Scale[2])}
	if s != (math.Vec3{}) {
		n.Scale = s
	}
}

// meshes creates one mesh node per triangle primitive of a glTF mesh.
func (b *builder) meshes(meshIndex int, skinIndex *int) ([]*scene.Node, error) {
	if meshIndex < 0 || meshIndex >= len(b.doc.Meshes) {
		return nil, fmt.Errorf("mesh index %d out of range", meshIndex)
	}
	gm := b.doc.Meshes[meshIndex]
	name := gm.Name
	if name == "" {
		name = fmt.Sprintf("mesh_%d", meshIndex)
	}

	var out []*scene.Node
	for p, prim := range gm.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles {
			b.log.Debug("skipping non-triangle primitive", zap.String("mesh", name), zap.Int("primitive", p))
			continue
		}
		geo, err := b.geometry(meshIndex, p, prim)
		if err != nil {
			return nil, fmt.Errorf("mesh %q primitive %d: %w", name, p, err)
		}
		mat := b.primitiveMaterial(prim.Material)

		childName := name
		if len(gm.Primitives) > 1 {
			childName = fmt.Sprintf("%s_%d", name, p)
		}

		if skinIndex != nil && geo.Skinned {
			skin := &scene.Skin{}
			b.skins[*skinIndex] = append(b.skins[*skinIndex], skin)
			out = append(out, scene.NewSkinnedMesh(childName, geo, skin, mat))
		} else {
			out = append(out, scene.NewMesh(childName, geo, mat))
		}
	}
	if len(out) == 0 {
		out = append(out, scene.NewGroup(name))
	}
	return out, nil
}

func (b *builder) geometry(meshIndex, primIndex int, prim *gltf.Primitive) (*model.Geometry, error) {
	key := [2]int{meshIndex, primIndex}
	if g, ok := b.geometries[key]; ok {
		return g, nil
	}

	posIndex, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil, fmt.Errorf("missing POSITION attribute")
	}
	positions, err := modeler.ReadPosition(b.doc, b.doc.Accessors[posIndex], nil)
	if err != nil {
		return nil, fmt.Errorf("reading positions: %w", err)
	}
	vertices := make([]model.Vertex, len(positions))
	for i, p := range positions {
		vertices[i].Position = p
	}

	hasNormals := false
	if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
		normals, err := modeler.ReadNormal(b.doc, b.doc.Accessors[idx], nil)
		if err != nil {
			return nil, fmt.Errorf("reading normals: %w", err)
		}
		for i := range vertices {
			if i < len(normals) {
				vertices[i].Normal = normals[i]
			}
		}
		hasNormals = true
	}

	if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
		uvs, err := modeler.ReadTextureCoord(b.doc, b.doc.Accessors[idx], nil)
		if err != nil {
			return nil, fmt.Errorf("reading texcoords: %w", err)
		}
		for i := range vertices {
			if i < len(uvs) {
				vertices[i].TexCoord = uvs[i]
			}
		}
	}

	jointsIdx, hasJoints := prim.Attributes[gltf.JOINTS_0]
	weightsIdx, hasWeights := prim.Attributes[gltf.WEIGHTS_0]
	if hasJoints && hasWeights {
		joints, err := modeler.ReadJoints(b.doc, b.doc.Accessors[jointsIdx], nil)
		if err != nil {
			return nil, fmt.Errorf("reading joints: %w", err)
		}
		weights, err := modeler.ReadWeights(b.doc, b.doc.Accessors[weightsIdx], nil)
		if err != nil {
			return nil, fmt.Errorf("reading weights: %w", err)
		}
		for i := range vertices {
			if i < len(joints) && i < len(weights) {
				vertices[i].Joints = joints[i]
				vertices[i].Weights = weights[i]
			}
		}
	}

	var indices []uint32
	if prim.Indices != nil {
		indices, err = modeler.ReadIndices(b.doc, b.doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return nil, fmt.Errorf("reading indices: %w", err)
		}
	}

	g := model.NewGeometry(vertices, indices)
	if hasJoints && hasWeights {
		g.Skinned = true
		g.NormalizeWeights()
	}
	if !hasNormals {
		g.ComputeNormals()
	}
	b.geometries[key] = g
	return g, nil
}

func (b *builder) buildRoot() (*scene.Node, error) {
	var roots []int
	name := ""

	switch {
	case len(b.doc.Scenes) > 0:
		idx := 0
		if b.doc.Scene != nil && *b.doc.Scene < len(b.doc.Scenes) {
			idx = *b.doc.Scene
		}
		roots = b.doc.Scenes[idx].Nodes
		name = b.doc.Scenes[idx].Name
	default:
		for i, n := range b.nodes {
			if n.Parent() == nil {
				roots = append(roots, i)
			}
		}
	}
	if len(roots) == 0 {
		return nil, ErrNoScene
	}

	root := scene.NewGroup(name)
	for _, i := range roots {
		if i < 0 || i >= len(b.nodes) {
			return nil, fmt.Errorf("scene node index %d out of range", i)
		}
		root.Add(b.nodes[i])
	}
	return root, nil
}

func (b *builder) buildSkeletons() error {
	for si, gs := range b.doc.Skins {
		bones := make([]*scene.Node, len(gs.Joints))
		for i, j := range gs.Joints {
			if j < 0 || j >= len(b.nodes) {
				return fmt.Errorf("skin %d: joint index %d out of range", si, j)
			}
			bones[i] = b.nodes[j]
		}

		inverses := make([]math.Mat4, len(bones))
		for i := range inverses {
			inverses[i] = math.Identity()
		}
		if gs.InverseBindMatrices != nil {
			data, err := modeler.ReadAccessor(b.doc, b.doc.Accessors[*gs.InverseBindMatrices], nil)
			if err != nil {
				return fmt.Errorf("skin %d: reading inverse bind matrices: %w", si, err)
			}
			mats, ok := data.([][4][4]float32)
			if !ok {
				return fmt.Errorf("skin %d: inverse bind matrices have type %T", si, data)
			}
			for i := range inverses {
				if i < len(mats) {
					inverses[i] = mat4(mats[i])
				}
			}
		}

		skeleton := scene.NewSkeleton(gs.Name, bones, inverses)
		b.model.Skeletons = append(b.model.Skeletons, skeleton)
		for _, skin := range b.skins[si] {
			skin.Skeleton = skeleton
			skin.BindMatrix = math.Identity()
			skin.BindMatrixInverse = math.Identity()
		}
	}
	return nil
}

// mat4 converts accessor data, where each inner array is one column.
func mat4(m [4][4]float32) math.Mat4 {
	var out math.Mat4
	for c := 0; c < 4; c++ {
		for r := 0; r < 4; r++ {
			out[c*4+r] = float64(m[c][r])
		}
	}
	return out
}
