package math

import (
	"math"
	"testing"
)

func TestIdentity(t *testing.T) {
	m := Identity()
	if m[0] != 1 || m[5] != 1 || m[10] != 1 || m[15] != 1 {
		t.Error("Identity diagonal should be 1")
	}
	if m[1] != 0 || m[4] != 0 {
		t.Error("Identity off-diagonal should be 0")
	}
}

func TestMulIdentity(t *testing.T) {
	m := Translate(1, 2, 3)
	result := m.Mul(Identity())

	for i := 0; i < 16; i++ {
		if result[i] != m[i] {
			t.Errorf("M * I should equal M, element %d: got %f, want %f", i, result[i], m[i])
		}
	}
}

func TestTransformPoint(t *testing.T) {
	m := Translate(10, 20, 30)
	got := m.TransformPoint(Vec3{1, 2, 3})

	if want := (Vec3{11, 22, 33}); got != want {
		t.Errorf("TransformPoint: got %v, want %v", got, want)
	}
}

func TestTransformDirectionIgnoresTranslation(t *testing.T) {
	m := Translate(10, 20, 30).Mul(Scale(2, 2, 2))
	got := m.TransformDirection(Vec3{1, 0, 0})

	if want := (Vec3{2, 0, 0}); got != want {
		t.Errorf("TransformDirection: got %v, want %v", got, want)
	}
}

func TestRotateY90(t *testing.T) {
	m := RotateY(math.Pi / 2)
	got := m.TransformPoint(Vec3{1, 0, 0})

	if !got.ApproxEqual(Vec3{0, 0, -1}, 1e-9) {
		t.Errorf("RotateY 90: got %v, want (0, 0, -1)", got)
	}
}

func TestPerspective(t *testing.T) {
	m := Perspective(math.Pi/4, 1, 0.1, 100)

	if m[0] == 0 || m[5] == 0 {
		t.Error("Perspective should have non-zero elements")
	}
	if m[15] != 0 {
		t.Errorf("Perspective [15] should be 0, got %f", m[15])
	}
	if m[11] != -1 {
		t.Errorf("Perspective [11] should be -1, got %f", m[11])
	}
}

func TestLookAtMovesEyeToOrigin(t *testing.T) {
	eye := Vec3{0, 5, 10}
	m := LookAt(eye, Vec3{}, Vec3{0, 1, 0})

	if got := m.TransformPoint(eye); !got.ApproxEqual(Vec3{}, 1e-9) {
		t.Errorf("LookAt should map eye to origin, got %v", got)
	}
}

func TestInverse(t *testing.T) {
	m := Compose(Vec3{1, -2, 3}, QuatFromEuler(Vec3{0.3, -0.7, 1.1}), Vec3{2, 2, 2})
	p := Vec3{4, 5, 6}

	back := m.Inverse().TransformPoint(m.TransformPoint(p))
	if !back.ApproxEqual(p, 1e-9) {
		t.Errorf("Inverse round trip: got %v, want %v", back, p)
	}
}

func TestInverseSingular(t *testing.T) {
	if got := (Mat4{}).Inverse(); got != Identity() {
		t.Errorf("singular Inverse should be identity, got %v", got)
	}
}

func TestComposeDecompose(t *testing.T) {
	tests := []struct {
		name  string
		pos   Vec3
		euler Vec3
		scale Vec3
	}{
		{"identity", Vec3{}, Vec3{}, Vec3One},
		{"translated", Vec3{1, 2, 3}, Vec3{}, Vec3One},
		{"rotated", Vec3{}, Vec3{0.5, 0.25, -0.75}, Vec3One},
		{"non-uniform", Vec3{-4, 0, 9}, Vec3{0, 1.2, 0}, Vec3{1, 2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Compose(tt.pos, QuatFromEuler(tt.euler), tt.scale)
			pos, rot, scale := m.Decompose()

			if !pos.ApproxEqual(tt.pos, 1e-9) {
				t.Errorf("position = %v, want %v", pos, tt.pos)
			}
			if !scale.ApproxEqual(tt.scale, 1e-9) {
				t.Errorf("scale = %v, want %v", scale, tt.scale)
			}
			if e := rot.Euler(); !e.ApproxEqual(tt.euler, 1e-9) {
				t.Errorf("euler = %v, want %v", e, tt.euler)
			}
		})
	}
}

func TestFloat32(t *testing.T) {
	m := Translate(1.5, 2.5, 3.5).Float32()
	if m[12] != 1.5 || m[13] != 2.5 || m[14] != 3.5 || m[15] != 1 {
		t.Errorf("Float32 translation: got %v", m)
	}
}
