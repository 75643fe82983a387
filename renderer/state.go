// Package renderer holds the live, render-ready mirror of the scene
// document: GPU-backed objects keyed by the same component ids, plus the
// singleton systems (water, sky, grass, trees) looked up by type.
package renderer

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/glimt/levelforge/saved"
	"github.com/glimt/levelforge/utils"
)

// Transform is the live placement of one object. Rotation is Euler degrees
// to match the document representation.
type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Vec3
	Scale    mgl32.Vec3
}

func NewTransform() Transform {
	return Transform{Scale: mgl32.Vec3{1, 1, 1}}
}

func TransformFrom(g saved.GenericProperties) Transform {
	return Transform{
		Position: mgl32.Vec3(g.Position),
		Rotation: mgl32.Vec3(g.Rotation),
		Scale:    mgl32.Vec3(g.Scale),
	}
}

// Matrix composes translation, rotation and scale into the model matrix
// uploaded to the GPU each frame.
func (t *Transform) Matrix() mgl32.Mat4 {
	q := utils.EulerDegToQuat(t.Rotation)
	return mgl32.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z()).
		Mul4(q.Mat4()).
		Mul4(mgl32.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z()))
}

type Model struct {
	ID        string
	AssetID   string
	FileName  string
	Transform Transform
	Info      ModelInfo
}

type PointLight struct {
	ID        string
	Position  mgl32.Vec3
	Color     utils.ColorFloat
	Intensity float32
	Radius    float32
}

type Primitive struct {
	ID        string
	Shape     PrimitiveShape
	Transform Transform
	Handle    Handle
}

type WaterPlane struct {
	ID          string
	LandscapeID string
	Config      saved.WaterConfig
	Handle      Handle
}

type GrassSystem struct {
	ID     string
	Config saved.GrassProperties
	Handle Handle
}

type TreeSystem struct {
	ID     string
	Config saved.TreeProperties
	Handle Handle
}

type Landscape struct {
	ID       string
	AssetID  string
	Position mgl32.Vec3
	Width    int
	Depth    int

	// World extent and height scale the heightfield is stretched over.
	Size          float32
	VerticalScale float32

	Handle Handle
}

type Sky struct {
	Config saved.SkyConfig
	Handle Handle
}

// State is the live scene. It is owned by the dispatcher's scene handle and
// never persisted; the document is the durable source of truth.
type State struct {
	Models      []*Model
	PointLights []*PointLight
	Primitives  []*Primitive
	WaterPlanes []*WaterPlane
	Grasses     []*GrassSystem
	Trees       []*TreeSystem
	Landscapes  []*Landscape
	Sky         *Sky
}

func NewState() *State {
	return &State{}
}

func (s *State) FindModel(id string) *Model {
	for _, m := range s.Models {
		if m.ID == id {
			return m
		}
	}
	return nil
}

func (s *State) FindPrimitive(id string) *Primitive {
	for _, p := range s.Primitives {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (s *State) FindPointLight(id string) *PointLight {
	for _, l := range s.PointLights {
		if l.ID == id {
			return l
		}
	}
	return nil
}

func (s *State) FindLandscape(id string) *Landscape {
	for _, l := range s.Landscapes {
		if l.ID == id {
			return l
		}
	}
	return nil
}

// FirstWaterPlane returns the water singleton, optionally narrowed to an
// explicit id. Singleton systems are looked up by type, not id.
func (s *State) FirstWaterPlane(targetID string) *WaterPlane {
	for _, w := range s.WaterPlanes {
		if targetID == "" || w.ID == targetID {
			return w
		}
	}
	return nil
}

func (s *State) FirstGrass(targetID string) *GrassSystem {
	for _, g := range s.Grasses {
		if targetID == "" || g.ID == targetID {
			return g
		}
	}
	return nil
}

func (s *State) FirstTrees(targetID string) *TreeSystem {
	for _, t := range s.Trees {
		if targetID == "" || t.ID == targetID {
			return t
		}
	}
	return nil
}

// ApplyTransform updates whichever live objects carry the component id,
// touching only the fields that are present. Reports whether anything
// matched.
func (s *State) ApplyTransform(id string, position, rotation, scale *[3]float32) bool {
	found := false

	apply := func(t *Transform) {
		if position != nil {
			t.Position = mgl32.Vec3(*position)
		}
		if rotation != nil {
			t.Rotation = mgl32.Vec3(*rotation)
		}
		if scale != nil {
			t.Scale = mgl32.Vec3(*scale)
		}
	}

	if m := s.FindModel(id); m != nil {
		apply(&m.Transform)
		found = true
	}
	if p := s.FindPrimitive(id); p != nil {
		apply(&p.Transform)
		found = true
	}
	if l := s.FindPointLight(id); l != nil {
		if position != nil {
			l.Position = mgl32.Vec3(*position)
		}
		found = true
	}
	if ls := s.FindLandscape(id); ls != nil {
		if position != nil {
			ls.Position = mgl32.Vec3(*position)
		}
		found = true
	}
	return found
}

// ClearLandscapes empties the landscape collection ahead of a regenerate,
// releasing the GPU objects through the backend.
func (s *State) ClearLandscapes(b Backend) {
	for _, l := range s.Landscapes {
		b.Destroy(l.Handle)
	}
	s.Landscapes = s.Landscapes[:0]
}
