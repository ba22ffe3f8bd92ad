package model

// BoneInfluence returns, for every vertex, the summed skin weight that the
// given bone index contributes across all influences of that vertex.
// Vertices not weighted to the bone get 0.
func (g *Geometry) BoneInfluence(boneIndex int) []float32 {
	out := make([]float32, len(g.Vertices))
	if boneIndex < 0 {
		return out
	}
	for i := range g.Vertices {
		v := &g.Vertices[i]
		var w float32
		for k := 0; k < MaxInfluences; k++ {
			if int(v.Joints[k]) == boneIndex {
				w += v.Weights[k]
			}
		}
		out[i] = w
	}
	return out
}

// NormalizeWeights rescales each vertex's weights to sum to 1.
// Vertices without any weight are left untouched.
func (g *Geometry) NormalizeWeights() {
	for i := range g.Vertices {
		v := &g.Vertices[i]
		var sum float32
		for k := 0; k < MaxInfluences; k++ {
			sum += v.Weights[k]
		}
		if sum == 0 || sum == 1 {
			continue
		}
		for k := 0; k < MaxInfluences; k++ {
			v.Weights[k] /= sum
		}
	}
}
