// Package model holds renderable geometry: interleaved vertices with skin
// data, per-material index groups and named custom per-vertex attributes.
package model

import "errors"

// MaxInfluences is the number of bone influences stored per vertex.
const MaxInfluences = 4

// ErrAttributeLength is returned when a custom attribute does not have one
// value per vertex.
var ErrAttributeLength = errors.New("attribute length does not match vertex count")

// Vertex represents a mesh vertex with position, normal, texture coordinates
// and up to four bone influences.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	TexCoord [2]float32
	Joints   [MaxInfluences]uint16
	Weights  [MaxInfluences]float32
}

// Group is a contiguous index range drawn with a single material.
type Group struct {
	MaterialIndex int
	StartIndex    int32
	IndexCount    int32
}

// Bounds holds an axis-aligned bounding box.
type Bounds struct {
	Min [3]float32
	Max [3]float32
}

// Center returns the midpoint of the box.
func (b Bounds) Center() [3]float32 {
	return [3]float32{
		(b.Min[0] + b.Max[0]) / 2,
		(b.Min[1] + b.Max[1]) / 2,
		(b.Min[2] + b.Max[2]) / 2,
	}
}

// Empty reports whether the box contains no points.
func (b Bounds) Empty() bool {
	return b.Min[0] > b.Max[0] || b.Min[1] > b.Max[1] || b.Min[2] > b.Max[2]
}
