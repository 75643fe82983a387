package renderer

import (
	"context"
	"io"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/glimt/levelforge/saved"
)

// Handle identifies one backend-owned GPU object.
type Handle uint64

type PrimitiveShape string

const (
	ShapeCube   PrimitiveShape = "Cube"
	ShapeSphere PrimitiveShape = "Sphere"
)

// ModelInfo describes what the backend built from a model asset.
type ModelInfo struct {
	Handle Handle
	Meshes int
	Nodes  int
	Min    mgl32.Vec3
	Max    mgl32.Vec3
}

// Backend is the rendering/GPU boundary. Object construction may block on
// asset IO or GPU work, so creation calls take a context; the dispatcher
// holds the exclusive scene handle across these calls.
type Backend interface {
	// CreateModel builds a live object from a glTF/GLB stream. src may be
	// nil when the asset file is not reachable locally; the backend then
	// provides a placeholder.
	CreateModel(ctx context.Context, name string, src io.Reader) (ModelInfo, error)

	CreatePrimitive(ctx context.Context, shape PrimitiveShape) (Handle, error)

	// CreateWater builds the water plane spanning the given landscape.
	CreateWater(ctx context.Context, over *Landscape) (Handle, error)
	UpdateWater(h Handle, cfg saved.WaterConfig) error

	CreateSky(ctx context.Context) (Handle, error)

	CreateGrass(ctx context.Context) (Handle, error)
	CreateTrees(ctx context.Context) (Handle, error)
	// RegenerateTrees rebuilds a tree system's geometry for new tuning.
	RegenerateTrees(ctx context.Context, h Handle, cfg saved.TreeProperties) error

	CreateLandscape(ctx context.Context, width, depth int, heights []float32) (Handle, error)

	Destroy(h Handle)

	// RenderFrame draws one frame from the live state. The caller holds the
	// scene handle for the duration.
	RenderFrame(ctx context.Context, s *State) error
}
