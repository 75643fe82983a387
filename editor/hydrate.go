package editor

import (
	"context"
	"io"
	"log"

	"github.com/glimt/levelforge/renderer"
	"github.com/glimt/levelforge/saved"
	"github.com/glimt/levelforge/utils"
)

// Hydrate builds the live scene from the loaded document. Call it once,
// before Run starts accepting commands. Components whose assets cannot be
// built become placeholders rather than failing the whole session.
func (e *Editor) Hydrate(ctx context.Context) error {
	e.acquire()
	defer e.release()

	level := e.Doc.ActiveLevel()
	for _, comp := range level.Components {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := e.hydrateComponent(ctx, comp); err != nil {
			log.Printf("[editor] hydrate %s %q: %v", comp.Kind, comp.ID, err)
		}
	}

	if level.Sky != nil {
		handle, err := e.backend.CreateSky(ctx)
		if err != nil {
			return err
		}
		e.Live.Sky = &renderer.Sky{Config: *level.Sky, Handle: handle}
	}
	// Water hydrates only over a landscape, mirroring the configure rule.
	if level.Water != nil && len(e.Live.Landscapes) > 0 {
		land := e.Live.Landscapes[0]
		handle, err := e.backend.CreateWater(ctx, land)
		if err != nil {
			return err
		}
		plane := &renderer.WaterPlane{
			ID:          waterPlaneID(level),
			LandscapeID: land.ID,
			Config:      *level.Water,
			Handle:      handle,
		}
		if err := e.backend.UpdateWater(handle, plane.Config); err != nil {
			return err
		}
		e.Live.WaterPlanes = append(e.Live.WaterPlanes, plane)
	}
	return nil
}

func (e *Editor) hydrateComponent(ctx context.Context, comp *saved.Component) error {
	switch comp.Kind {
	case saved.KindModel, saved.KindCollectable, saved.KindNPC:
		asset := e.Doc.FindModel(comp.AssetID)
		fileName := ""
		if asset != nil {
			fileName = asset.FileName
		}
		var src io.Reader
		if rc, err := e.assetReader(fileName); err != nil {
			return err
		} else if rc != nil {
			defer rc.Close()
			src = rc
		}
		info, err := e.backend.CreateModel(ctx, fileName, src)
		if err != nil {
			return err
		}
		e.Live.Models = append(e.Live.Models, &renderer.Model{
			ID:        comp.ID,
			AssetID:   comp.AssetID,
			FileName:  fileName,
			Transform: renderer.TransformFrom(comp.Generic),
			Info:      info,
		})

	case saved.KindPrimitive:
		shape := renderer.ShapeCube
		if comp.Primitive != nil && comp.Primitive.Shape == string(renderer.ShapeSphere) {
			shape = renderer.ShapeSphere
		}
		handle, err := e.backend.CreatePrimitive(ctx, shape)
		if err != nil {
			return err
		}
		e.Live.Primitives = append(e.Live.Primitives, &renderer.Primitive{
			ID:        comp.ID,
			Shape:     shape,
			Transform: renderer.TransformFrom(comp.Generic),
			Handle:    handle,
		})

	case saved.KindPointLight:
		light := &renderer.PointLight{
			ID:        comp.ID,
			Position:  renderer.TransformFrom(comp.Generic).Position,
			Intensity: 1.0,
			Radius:    10.0,
		}
		if comp.Light != nil {
			light.Color = utils.NewColorFloat(comp.Light.Color)
			light.Intensity = comp.Light.Intensity
			light.Radius = comp.Light.Radius
		}
		e.Live.PointLights = append(e.Live.PointLights, light)

	case saved.KindProceduralTree:
		handle, err := e.backend.CreateTrees(ctx)
		if err != nil {
			return err
		}
		props := saved.DefaultTreeProperties()
		if comp.Tree != nil {
			props = *comp.Tree
		}
		if err := e.backend.RegenerateTrees(ctx, handle, props); err != nil {
			return err
		}
		e.Live.Trees = append(e.Live.Trees, &renderer.TreeSystem{
			ID: comp.ID, Config: props, Handle: handle,
		})

	case saved.KindProceduralGrass:
		handle, err := e.backend.CreateGrass(ctx)
		if err != nil {
			return err
		}
		props := saved.DefaultGrassProperties()
		if comp.Grass != nil {
			props = *comp.Grass
		}
		e.Live.Grasses = append(e.Live.Grasses, &renderer.GrassSystem{
			ID: comp.ID, Config: props, Handle: handle,
		})

	case saved.KindLandscape:
		// The stored heightmap image lives behind the upload boundary; a
		// hydrated landscape starts flat until regenerated.
		width, depth := 256, 256
		handle, err := e.backend.CreateLandscape(ctx, width, depth, make([]float32, width*depth))
		if err != nil {
			return err
		}
		e.Live.Landscapes = append(e.Live.Landscapes, &renderer.Landscape{
			ID:       comp.ID,
			AssetID:  comp.AssetID,
			Position: renderer.TransformFrom(comp.Generic).Position,
			Width:    width,
			Depth:    depth,
			Handle:   handle,
		})
	}
	return nil
}

// waterPlaneID names the water plane after the landscape component it spans.
func waterPlaneID(level *saved.Level) string {
	if c := level.FindFirstKind(saved.KindLandscape); c != nil {
		return c.ID + "-water"
	}
	return "water"
}
