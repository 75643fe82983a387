package renderer

import (
	"context"
	"io"
	"log"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"

	"github.com/glimt/levelforge/saved"
)

// Headless is a Backend without a GPU: it parses model assets to validate
// them and size their bounds, and tracks object handles so the engine (and
// its tests) can run server-side with the same lifecycle as a real render
// context.
type Headless struct {
	nextHandle uint64
	frames     uint64
	alive      map[Handle]string
}

func NewHeadless() *Headless {
	return &Headless{alive: make(map[Handle]string)}
}

func (h *Headless) allocate(kind string) Handle {
	handle := Handle(atomic.AddUint64(&h.nextHandle, 1))
	h.alive[handle] = kind
	return handle
}

// Alive reports how many live objects of the kind the backend still holds.
func (h *Headless) Alive(kind string) int {
	n := 0
	for _, k := range h.alive {
		if k == kind {
			n++
		}
	}
	return n
}

func (h *Headless) Frames() uint64 { return atomic.LoadUint64(&h.frames) }

func (h *Headless) CreateModel(ctx context.Context, name string, src io.Reader) (ModelInfo, error) {
	if err := ctx.Err(); err != nil {
		return ModelInfo{}, err
	}

	info := ModelInfo{Handle: h.allocate("model")}
	if src == nil {
		log.Printf("[renderer] asset %q not reachable, placeholder object", name)
		return info, nil
	}

	doc := new(gltf.Document)
	if err := gltf.NewDecoder(src).Decode(doc); err != nil {
		return ModelInfo{}, errors.Wrapf(err, "Failed to parse model %q", name)
	}

	info.Meshes = len(doc.Meshes)
	info.Nodes = len(doc.Nodes)
	info.Min, info.Max = gltfBounds(doc)
	return info, nil
}

func (h *Headless) CreatePrimitive(ctx context.Context, shape PrimitiveShape) (Handle, error) {
	switch shape {
	case ShapeCube, ShapeSphere:
		return h.allocate("primitive"), nil
	}
	return 0, errors.Errorf("Unknown primitive shape %q", shape)
}

func (h *Headless) CreateWater(ctx context.Context, over *Landscape) (Handle, error) {
	if over == nil {
		return 0, errors.Errorf("Water plane needs a landscape")
	}
	return h.allocate("water"), nil
}

func (h *Headless) UpdateWater(handle Handle, cfg saved.WaterConfig) error {
	if _, ok := h.alive[handle]; !ok {
		return errors.Errorf("Unknown water handle %v", handle)
	}
	return nil
}

func (h *Headless) CreateSky(ctx context.Context) (Handle, error) {
	return h.allocate("sky"), nil
}

func (h *Headless) CreateGrass(ctx context.Context) (Handle, error) {
	return h.allocate("grass"), nil
}

func (h *Headless) CreateTrees(ctx context.Context) (Handle, error) {
	return h.allocate("trees"), nil
}

func (h *Headless) RegenerateTrees(ctx context.Context, handle Handle, cfg saved.TreeProperties) error {
	if _, ok := h.alive[handle]; !ok {
		return errors.Errorf("Unknown tree system handle %v", handle)
	}
	return nil
}

func (h *Headless) CreateLandscape(ctx context.Context, width, depth int, heights []float32) (Handle, error) {
	if len(heights) != width*depth {
		return 0, errors.Errorf("Heightfield size %d does not match %dx%d", len(heights), width, depth)
	}
	return h.allocate("landscape"), nil
}

func (h *Headless) Destroy(handle Handle) {
	delete(h.alive, handle)
}

func (h *Headless) RenderFrame(ctx context.Context, s *State) error {
	atomic.AddUint64(&h.frames, 1)
	return ctx.Err()
}

// gltfBounds unions the POSITION accessor bounds of every mesh primitive.
func gltfBounds(doc *gltf.Document) (min, max mgl32.Vec3) {
	first := true
	for _, mesh := range doc.Meshes {
		for _, prim := range mesh.Primitives {
			idx, ok := prim.Attributes["POSITION"]
			if !ok || int(idx) >= len(doc.Accessors) {
				continue
			}
			acc := doc.Accessors[idx]
			if len(acc.Min) < 3 || len(acc.Max) < 3 {
				continue
			}
			lo := mgl32.Vec3{acc.Min[0], acc.Min[1], acc.Min[2]}
			hi := mgl32.Vec3{acc.Max[0], acc.Max[1], acc.Max[2]}
			if first {
				min, max = lo, hi
				first = false
				continue
			}
			for i := 0; i < 3; i++ {
				if lo[i] < min[i] {
					min[i] = lo[i]
				}
				if hi[i] > max[i] {
					max[i] = hi[i]
				}
			}
		}
	}
	return min, max
}
