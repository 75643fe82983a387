package utils

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestEulerQuatRoundTrip(t *testing.T) {
	tests := []mgl32.Vec3{
		{0, 0, 0},
		{45, 0, 0},
		{0, 30, 0},
		{0, 0, -60},
		{10, 20, 30},
	}
	for _, e := range tests {
		got := QuatToEulerDeg(EulerDegToQuat(e))
		for i := 0; i < 3; i++ {
			if diff := math.Abs(float64(got[i] - e[i])); diff > 1e-3 {
				t.Errorf("roundtrip %v -> %v (axis %d off by %v)", e, got, i, diff)
			}
		}
	}
}

func TestRandomNamesUnique(t *testing.T) {
	var rng RandomNameGenerator
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		name := rng.RandomName()
		if seen[name] {
			t.Fatalf("duplicate name %q", name)
		}
		seen[name] = true
	}
}
