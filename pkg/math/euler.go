package math

import "math"

// QuatFromEuler builds a rotation from XYZ-order Euler angles in radians.
// The resulting matrix is Rx * Ry * Rz.
func QuatFromEuler(e Vec3) Quat {
	c1, s1 := math.Cos(e.X/2), math.Sin(e.X/2)
	c2, s2 := math.Cos(e.Y/2), math.Sin(e.Y/2)
	c3, s3 := math.Cos(e.Z/2), math.Sin(e.Z/2)

	return Quat{
		X: s1*c2*c3 + c1*s2*s3,
		Y: c1*s2*c3 - s1*c2*s3,
		Z: c1*c2*s3 + s1*s2*c3,
		W: c1*c2*c3 - s1*s2*s3,
	}
}

// EulerFromMat4 returns XYZ-order Euler angles of a pure rotation matrix.
func EulerFromMat4(m Mat4) Vec3 {
	m11, m12, m13 := m[0], m[4], m[8]
	m22, m23 := m[5], m[9]
	m32, m33 := m[6], m[10]

	y := math.Asin(clamp(m13, -1, 1))
	if math.Abs(m13) < 0.9999999 {
		return Vec3{X: math.Atan2(-m23, m33), Y: y, Z: math.Atan2(-m12, m11)}
	}
	return Vec3{X: math.Atan2(m32, m22), Y: y}
}

// Euler returns the XYZ-order Euler angles of the quaternion.
func (q Quat) Euler() Vec3 {
	return EulerFromMat4(q.ToMat4())
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
