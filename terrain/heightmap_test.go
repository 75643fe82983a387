package terrain

import (
	"bytes"
	"image/png"
	"testing"
)

func TestGenerateDeterministic(t *testing.T) {
	a := NewGenerator(64, 64).WithSeed(7).Generate()
	b := NewGenerator(64, 64).WithSeed(7).Generate()
	c := NewGenerator(64, 64).WithSeed(8).Generate()

	for i := range a.Values {
		if a.Values[i] != b.Values[i] {
			t.Fatalf("same seed diverged at %d: %v != %v", i, a.Values[i], b.Values[i])
		}
	}

	same := true
	for i := range a.Values {
		if a.Values[i] != c.Values[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("different seeds produced identical terrain")
	}
}

func TestGenerateNormalized(t *testing.T) {
	hm := NewGenerator(32, 32).WithSeed(3).WithOctaves(4).Generate()
	for i, v := range hm.Values {
		if v < 0 || v > 1 {
			t.Fatalf("value %d out of range: %v", i, v)
		}
	}
}

func TestMountainRaisesCenter(t *testing.T) {
	peaked := NewGenerator(64, 64).WithSeed(1)
	peaked.AddFeature(NewFeature([2]float64{32, 32}, 24, 30.0, FalloffSmooth, FeatureMountain))

	b := peaked.Generate()

	// After normalization the feature center should sit near the top of the
	// range while far corners sink relative to it.
	if b.At(32, 32) < 0.9 {
		t.Errorf("mountain center = %v, want near 1", b.At(32, 32))
	}
	if b.At(32, 32) <= b.At(1, 1) {
		t.Errorf("center %v not above corner %v", b.At(32, 32), b.At(1, 1))
	}
}

func TestValleyLowersCenter(t *testing.T) {
	g := NewGenerator(64, 64).WithSeed(1)
	g.AddFeature(NewFeature([2]float64{32, 32}, 24, 30.0, FalloffGaussian, FeatureValley))
	hm := g.Generate()
	if hm.At(32, 32) > 0.1 {
		t.Errorf("valley center = %v, want near 0", hm.At(32, 32))
	}
}

func TestPlateauFlatTop(t *testing.T) {
	g := NewGenerator(64, 64).WithSeed(1).WithOctaves(1)
	f := NewFeature([2]float64{32, 32}, 24, 50.0, FalloffSmooth, FeaturePlateau).WithFlatTop(0.5)
	g.AddFeature(f)
	hm := g.Generate()

	center := hm.At(32, 32)
	inner := hm.At(36, 32) // still inside the flat fraction of the radius
	if diff := center - inner; diff > 0.05 || diff < -0.05 {
		t.Errorf("plateau top not flat: center %v vs inner %v", center, inner)
	}
}

func TestRidgeRunsAlongAxis(t *testing.T) {
	g := NewGenerator(64, 64).WithSeed(1).WithOctaves(1)
	g.AddFeature(NewFeature([2]float64{32, 32}, 12, 5.0, FalloffSmooth, FeatureRidge))
	hm := g.Generate()

	// Same x as the ridge line, far away in y: still elevated.
	if hm.At(32, 4) < hm.At(8, 32) {
		t.Errorf("ridge line %v below off-ridge %v", hm.At(32, 4), hm.At(8, 32))
	}
}

func TestParseFallbacks(t *testing.T) {
	if ParseFeatureType("Volcano") != FeatureMountain {
		t.Error("unknown feature type should fall back to Mountain")
	}
	if ParseFalloffType("Sharp") != FalloffSmooth {
		t.Error("unknown falloff should fall back to Smooth")
	}
}

func TestEncodePNG(t *testing.T) {
	hm := NewGenerator(16, 16).WithSeed(2).Generate()
	data, err := hm.EncodePNG()
	if err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("png decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 16 || b.Dy() != 16 {
		t.Errorf("bounds = %v", b)
	}
}
