package model

// ComputeNormals writes area-weighted face normals into every vertex.
// Used when a primitive ships without a NORMAL attribute.
func (g *Geometry) ComputeNormals() {
	sums := make([][3]float32, len(g.Vertices))
	g.Triangles(func(a, b, c uint32) {
		if int(a) >= len(g.Vertices) || int(b) >= len(g.Vertices) || int(c) >= len(g.Vertices) {
			return
		}
		p0, p1, p2 := g.Vertices[a].Position, g.Vertices[b].Position, g.Vertices[c].Position
		n := Cross(sub(p1, p0), sub(p2, p0))
		for _, idx := range [3]uint32{a, b, c} {
			sums[idx][0] += n[0]
			sums[idx][1] += n[1]
			sums[idx][2] += n[2]
		}
	})
	for i := range g.Vertices {
		g.Vertices[i].Normal = Normalize(sums[i])
	}
	g.version++
}

// SmoothNormals averages normals of vertices that share a position, hiding
// seams where a primitive was split for UVs.
func SmoothNormals(vertices []Vertex) {
	const epsilon float32 = 0.001

	// Group vertices by quantized position for O(n) lookup
	posMap := make(map[[3]int32][]int)
	for i := range vertices {
		key := [3]int32{
			int32(vertices[i].Position[0] / epsilon),
			int32(vertices[i].Position[1] / epsilon),
			int32(vertices[i].Position[2] / epsilon),
		}
		posMap[key] = append(posMap[key], i)
	}

	for _, idxs := range posMap {
		if len(idxs) < 2 {
			continue
		}

		var sum [3]float32
		for _, idx := range idxs {
			sum[0] += vertices[idx].Normal[0]
			sum[1] += vertices[idx].Normal[1]
			sum[2] += vertices[idx].Normal[2]
		}

		avg := Normalize(sum)
		for _, idx := range idxs {
			vertices[idx].Normal = avg
		}
	}
}
