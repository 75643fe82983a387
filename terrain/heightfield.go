package terrain

import (
	"bytes"
	"image"
	"image/png"
	"math"

	"github.com/pkg/errors"
)

// Heightmap is a normalized heightfield in [0, 1], row-major.
type Heightmap struct {
	Width  int
	Height int
	Values []float64
}

func (hm *Heightmap) At(x, y int) float64 {
	return hm.Values[y*hm.Width+x]
}

// normalize rescales the field into [0, 1]. A flat field maps to zero.
func (hm *Heightmap) normalize() {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range hm.Values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	span := hi - lo
	if span <= 0 {
		for i := range hm.Values {
			hm.Values[i] = 0
		}
		return
	}
	for i, v := range hm.Values {
		hm.Values[i] = (v - lo) / span
	}
}

// Heights converts to the float32 samples the render backend consumes.
func (hm *Heightmap) Heights() []float32 {
	out := make([]float32, len(hm.Values))
	for i, v := range hm.Values {
		out[i] = float32(v)
	}
	return out
}

// EncodePNG writes the field as 16-bit grayscale for the upload boundary.
func (hm *Heightmap) EncodePNG() ([]byte, error) {
	img := image.NewGray16(image.Rect(0, 0, hm.Width, hm.Height))
	for y := 0; y < hm.Height; y++ {
		for x := 0; x < hm.Width; x++ {
			v := uint16(clamp(hm.At(x, y), 0, 1) * math.MaxUint16)
			i := img.PixOffset(x, y)
			img.Pix[i] = uint8(v >> 8)
			img.Pix[i+1] = uint8(v)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, errors.Wrapf(err, "Failed to encode heightmap png")
	}
	return buf.Bytes(), nil
}
