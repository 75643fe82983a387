// Package terrain generates heightfields for landscape rebuilds: fractal
// value noise shaped by an ordered list of composited terrain features.
package terrain

import (
	"math"
)

type FeatureType string

const (
	FeatureMountain FeatureType = "Mountain"
	FeatureValley   FeatureType = "Valley"
	FeaturePlateau  FeatureType = "Plateau"
	FeatureRidge    FeatureType = "Ridge"
)

// ParseFeatureType falls back to Mountain for unrecognized names.
func ParseFeatureType(s string) FeatureType {
	switch FeatureType(s) {
	case FeatureValley, FeaturePlateau, FeatureRidge:
		return FeatureType(s)
	}
	return FeatureMountain
}

type FalloffType string

const (
	FalloffLinear   FalloffType = "Linear"
	FalloffSmooth   FalloffType = "Smooth"
	FalloffGaussian FalloffType = "Gaussian"
)

// ParseFalloffType falls back to Smooth for unrecognized names.
func ParseFalloffType(s string) FalloffType {
	switch FalloffType(s) {
	case FalloffLinear, FalloffGaussian:
		return FalloffType(s)
	}
	return FalloffSmooth
}

// Feature is one shaping pass applied on top of the base noise.
type Feature struct {
	Type      FeatureType
	Center    [2]float64
	Radius    float64
	Intensity float64
	Falloff   FalloffType

	flatTop    float64 // fraction of the radius held at full intensity
	transition float64 // widens the plateau edge blend
	hasFlatTop bool
}

func NewFeature(center [2]float64, radius, intensity float64, falloff FalloffType, typ FeatureType) Feature {
	return Feature{
		Type:      typ,
		Center:    center,
		Radius:    radius,
		Intensity: intensity,
		Falloff:   falloff,
	}
}

func (f Feature) WithFlatTop(fraction float64) Feature {
	f.flatTop = clamp(fraction, 0, 1)
	f.hasFlatTop = true
	return f
}

func (f Feature) WithTransition(t float64) Feature {
	f.transition = math.Max(t, 0)
	return f
}

// Defaults match the engine's terrain scale: a 1024x1024 field stretched
// over the world size with the documented vertical scale.
const (
	DefaultSize          = 1024
	DefaultScale         = 1024.0
	DefaultOctaves       = 8
	DefaultPersistence   = 0.5
	DefaultLacunarity    = 2.0
	DefaultSeed          = 42
	DefaultWorldSize     = 1024.0 * 4
	DefaultVerticalScale = 150.0 * 4
)

type Generator struct {
	width, height int
	seed          uint32
	scale         float64
	octaves       int
	persistence   float64
	lacunarity    float64
	features      []Feature
}

func NewGenerator(width, height int) *Generator {
	return &Generator{
		width:       width,
		height:      height,
		seed:        DefaultSeed,
		scale:       DefaultScale,
		octaves:     DefaultOctaves,
		persistence: DefaultPersistence,
		lacunarity:  DefaultLacunarity,
	}
}

func (g *Generator) WithSeed(seed uint32) *Generator { g.seed = seed; return g }

func (g *Generator) WithScale(scale float64) *Generator {
	if scale > 0 {
		g.scale = scale
	}
	return g
}

func (g *Generator) WithOctaves(octaves int) *Generator {
	if octaves > 0 {
		g.octaves = octaves
	}
	return g
}

func (g *Generator) WithPersistence(p float64) *Generator { g.persistence = p; return g }

func (g *Generator) WithLacunarity(l float64) *Generator {
	if l > 0 {
		g.lacunarity = l
	}
	return g
}

func (g *Generator) AddFeature(f Feature) { g.features = append(g.features, f) }

// Generate produces the normalized heightfield. Output is a pure function
// of the generator parameters, so identical seeds give identical terrain.
func (g *Generator) Generate() *Heightmap {
	hm := &Heightmap{
		Width:  g.width,
		Height: g.height,
		Values: make([]float64, g.width*g.height),
	}

	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			h := g.fbm(float64(x)/g.scale, float64(y)/g.scale)
			for _, f := range g.features {
				h += f.contribution(float64(x), float64(y))
			}
			hm.Values[y*g.width+x] = h
		}
	}

	hm.normalize()
	return hm
}

// fbm sums octaves of value noise, renormalized to [0, 1].
func (g *Generator) fbm(x, y float64) float64 {
	var sum, amplitude, max float64
	amplitude = 1
	frequency := 1.0
	for o := 0; o < g.octaves; o++ {
		sum += amplitude * g.valueNoise(x*frequency, y*frequency, uint32(o))
		max += amplitude
		amplitude *= g.persistence
		frequency *= g.lacunarity
	}
	if max == 0 {
		return 0
	}
	return sum / max
}

// valueNoise interpolates hashed lattice values with a smoothstep fade.
func (g *Generator) valueNoise(x, y float64, octave uint32) float64 {
	x0, y0 := math.Floor(x), math.Floor(y)
	tx, ty := smooth(x-x0), smooth(y-y0)
	ix, iy := int64(x0), int64(y0)

	v00 := g.lattice(ix, iy, octave)
	v10 := g.lattice(ix+1, iy, octave)
	v01 := g.lattice(ix, iy+1, octave)
	v11 := g.lattice(ix+1, iy+1, octave)

	top := v00 + (v10-v00)*tx
	bottom := v01 + (v11-v01)*tx
	return top + (bottom-top)*ty
}

func (g *Generator) lattice(x, y int64, octave uint32) float64 {
	h := uint64(g.seed) ^ (uint64(octave) << 32)
	h ^= uint64(x) * 0x9e3779b97f4a7c15
	h ^= uint64(y) * 0xc2b2ae3d27d4eb4f
	h ^= h >> 33
	h *= 0xff51afd7ed558ccd
	h ^= h >> 33
	return float64(h&0xffffff) / float64(0xffffff)
}

func (f Feature) contribution(x, y float64) float64 {
	if f.Radius <= 0 {
		return 0
	}

	var d float64
	if f.Type == FeatureRidge {
		// A ridge runs along y through the feature center; only the
		// perpendicular distance attenuates it.
		d = math.Abs(x - f.Center[0])
	} else {
		dx, dy := x-f.Center[0], y-f.Center[1]
		d = math.Sqrt(dx*dx + dy*dy)
	}

	t := d / f.Radius
	if t >= 1 {
		return 0
	}

	var w float64
	switch {
	case f.Type == FeaturePlateau || f.hasFlatTop:
		flat := f.flatTop
		if f.Type == FeaturePlateau && !f.hasFlatTop {
			flat = 0.6
		}
		if t <= flat {
			w = 1
		} else {
			edge := (t - flat) / math.Max(1e-9, 1-flat+f.transition)
			w = f.falloffWeight(clamp(edge, 0, 1))
		}
	default:
		w = f.falloffWeight(t)
	}

	switch f.Type {
	case FeatureValley:
		return -f.Intensity * w
	default:
		return f.Intensity * w
	}
}

func (f Feature) falloffWeight(t float64) float64 {
	switch f.Falloff {
	case FalloffLinear:
		return 1 - t
	case FalloffGaussian:
		return math.Exp(-4.5 * t * t)
	default: // Smooth
		s := 1 - t
		return s * s * (3 - 2*s)
	}
}

func smooth(t float64) float64 { return t * t * (3 - 2*t) }

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
