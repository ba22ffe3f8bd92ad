// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// MeshVertexShader is the vertex shader shared by every material variant.
//
//go:embed mesh.vert
var MeshVertexShader string

// MeshFragmentShader is the fragment shader shared by every material variant.
// Variant-specific code is selected with preprocessor defines.
//
//go:embed mesh.frag
var MeshFragmentShader string

// LineVertexShader is the vertex shader for grid, skeleton and box lines.
//
//go:embed line.vert
var LineVertexShader string

// LineFragmentShader is the fragment shader for grid, skeleton and box lines.
//
//go:embed line.frag
var LineFragmentShader string
