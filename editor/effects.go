package editor

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/glimt/levelforge/command"
	"github.com/glimt/levelforge/renderer"
	"github.com/glimt/levelforge/saved"
	"github.com/glimt/levelforge/terrain"
	"github.com/glimt/levelforge/utils"
)

// Effects apply one command to both scene representations. Invariant: either
// both representations change with the same ids and values, or neither does
// and an error comes back. Resolution and validation happen before the first
// mutation so a failing command leaves no partial state.

func orDefault(v *[3]float32, def [3]float32) [3]float32 {
	if v != nil {
		return *v
	}
	return def
}

func orDefaultF(v *float32, def float32) float32 {
	if v != nil {
		return *v
	}
	return def
}

func genericFrom(name string, position, rotation, scale *[3]float32) saved.GenericProperties {
	g := saved.DefaultGeneric(name)
	g.Position = orDefault(position, g.Position)
	g.Rotation = orDefault(rotation, g.Rotation)
	g.Scale = orDefault(scale, g.Scale)
	return g
}

func (e *Editor) applyTransform(a *command.TransformObjectArgs) (string, bool, error) {
	level := e.Doc.ActiveLevel()
	if level.FindComponent(a.ComponentID) == nil {
		return "", false, errors.Errorf("Component %q not found", a.ComponentID)
	}
	level.UpdateTransform(a.ComponentID, a.Translation, a.Rotation, a.Scale)
	if !e.Live.ApplyTransform(a.ComponentID, a.Translation, a.Rotation, a.Scale) {
		log.Printf("[editor] component %q has no live object to move", a.ComponentID)
	}
	return a.ComponentID, true, nil
}

func (e *Editor) applySpawnModel(ctx context.Context, a *command.SpawnModelArgs) (string, bool, error) {
	asset := e.Doc.FindModel(a.AssetID)
	if asset == nil {
		return "", false, errors.Errorf("Model asset %q not in catalog", a.AssetID)
	}

	var src io.Reader
	if rc, err := e.assetReader(asset.FileName); err != nil {
		return "", false, err
	} else if rc != nil {
		defer rc.Close()
		src = rc
	}
	info, err := e.backend.CreateModel(ctx, asset.FileName, src)
	if err != nil {
		return "", false, err
	}

	id := uuid.NewString()
	generic := genericFrom(e.names.DisplayName("Model"), a.Position, a.Rotation, a.Scale)

	e.Live.Models = append(e.Live.Models, &renderer.Model{
		ID:        id,
		AssetID:   a.AssetID,
		FileName:  asset.FileName,
		Transform: renderer.TransformFrom(generic),
		Info:      info,
	})
	e.Doc.ActiveLevel().Append(&saved.Component{
		ID:      id,
		Kind:    saved.KindModel,
		AssetID: a.AssetID,
		Generic: generic,
	})
	return id, true, nil
}

func (e *Editor) applySpawnPrimitive(ctx context.Context, a *command.SpawnPrimitiveArgs) (string, bool, error) {
	var shape renderer.PrimitiveShape
	switch a.Type {
	case "Cube":
		shape = renderer.ShapeCube
	case "Sphere":
		shape = renderer.ShapeSphere
	default:
		return "", false, errors.Errorf("Unknown primitive type %q", a.Type)
	}

	handle, err := e.backend.CreatePrimitive(ctx, shape)
	if err != nil {
		return "", false, err
	}

	id := uuid.NewString()
	generic := genericFrom(e.names.DisplayName(a.Type), a.Position, nil, a.Scale)

	e.Live.Primitives = append(e.Live.Primitives, &renderer.Primitive{
		ID:        id,
		Shape:     shape,
		Transform: renderer.TransformFrom(generic),
		Handle:    handle,
	})
	e.Doc.ActiveLevel().Append(&saved.Component{
		ID:        id,
		Kind:      saved.KindPrimitive,
		Generic:   generic,
		Primitive: &saved.PrimitiveProperties{Shape: string(shape)},
	})
	return id, true, nil
}

func (e *Editor) applySpawnPointLight(a *command.SpawnPointLightArgs) (string, bool, error) {
	id := uuid.NewString()
	color := orDefault(a.Color, [3]float32{1, 1, 1})
	intensity := orDefaultF(a.Intensity, 1.0)
	radius := orDefaultF(a.Radius, 10.0)

	generic := genericFrom(e.names.DisplayName("Light"), a.Position, nil, nil)

	e.Live.PointLights = append(e.Live.PointLights, &renderer.PointLight{
		ID:        id,
		Position:  renderer.TransformFrom(generic).Position,
		Color:     utils.NewColorFloat(color),
		Intensity: intensity,
		Radius:    radius,
	})
	e.Doc.ActiveLevel().Append(&saved.Component{
		ID:      id,
		Kind:    saved.KindPointLight,
		Generic: generic,
		Light: &saved.LightProperties{
			Color:     color,
			Intensity: intensity,
			Radius:    radius,
		},
	})
	return id, true, nil
}

func (e *Editor) applySpawnCollectable(ctx context.Context, a *command.SpawnCollectableArgs) (string, bool, error) {
	asset := e.Doc.FindModel(a.AssetID)
	if asset == nil {
		return "", false, errors.Errorf("Model asset %q not in catalog", a.AssetID)
	}
	stat := e.Doc.FirstStat()
	if stat == nil {
		return "", false, errors.Errorf("Project has no stat templates for collectables")
	}

	var src io.Reader
	if rc, err := e.assetReader(asset.FileName); err != nil {
		return "", false, err
	} else if rc != nil {
		defer rc.Close()
		src = rc
	}
	info, err := e.backend.CreateModel(ctx, asset.FileName, src)
	if err != nil {
		return "", false, err
	}

	id := uuid.NewString()
	generic := genericFrom(e.names.DisplayName("Collectable"), a.Position, a.Rotation, a.Scale)

	e.Live.Models = append(e.Live.Models, &renderer.Model{
		ID:        id,
		AssetID:   a.AssetID,
		FileName:  asset.FileName,
		Transform: renderer.TransformFrom(generic),
		Info:      info,
	})
	e.Doc.ActiveLevel().Append(&saved.Component{
		ID:      id,
		Kind:    saved.KindCollectable,
		AssetID: a.AssetID,
		Generic: generic,
		Collectable: &saved.CollectableProperties{
			Type:    saved.ParseCollectableType(a.Type),
			StatID:  stat.ID,
			ModelID: a.AssetID,
		},
	})
	return id, true, nil
}

func (e *Editor) applySpawnNPC(ctx context.Context, a *command.SpawnNPCArgs) (string, bool, error) {
	asset := e.Doc.FindModel(a.AssetID)
	if asset == nil {
		return "", false, errors.Errorf("Model asset %q not in catalog", a.AssetID)
	}

	combat := saved.CombatMelee
	if a.CombatType != nil && *a.CombatType == string(saved.CombatRanged) {
		combat = saved.CombatRanged
	}
	attackRange := float32(2.0)
	if combat == saved.CombatRanged {
		attackRange = 15.0
	}
	attack := &saved.AttackStats{
		Damage:   orDefaultF(a.Damage, 10.0),
		Range:    attackRange,
		Cooldown: 1.5,
		WindUp:   0.5,
		Recovery: 0.5,
	}
	behavior := saved.BehaviorConfig{
		Aggressiveness:  orDefaultF(a.Aggressiveness, 0.5),
		CombatType:      combat,
		WanderRadius:    orDefaultF(a.WanderRadius, 10.0),
		WanderSpeed:     orDefaultF(a.WanderSpeed, 2.0),
		DetectionRadius: orDefaultF(a.DetectionRadius, 15.0),
	}
	if combat == saved.CombatMelee {
		behavior.Melee = attack
	} else {
		behavior.Ranged = attack
	}

	var src io.Reader
	if rc, err := e.assetReader(asset.FileName); err != nil {
		return "", false, err
	} else if rc != nil {
		defer rc.Close()
		src = rc
	}
	info, err := e.backend.CreateModel(ctx, asset.FileName, src)
	if err != nil {
		return "", false, err
	}

	id := uuid.NewString()
	generic := genericFrom(e.names.DisplayName("NPC"), a.Position, a.Rotation, a.Scale)

	e.Live.Models = append(e.Live.Models, &renderer.Model{
		ID:        id,
		AssetID:   a.AssetID,
		FileName:  asset.FileName,
		Transform: renderer.TransformFrom(generic),
		Info:      info,
	})
	e.Doc.ActiveLevel().Append(&saved.Component{
		ID:      id,
		Kind:    saved.KindNPC,
		AssetID: a.AssetID,
		Generic: generic,
		NPC: &saved.NPCProperties{
			ModelID:  a.AssetID,
			Behavior: behavior,
		},
	})
	return id, true, nil
}

func targetID(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func (e *Editor) applyConfigureWater(ctx context.Context, a *command.ConfigureWaterArgs) (string, bool, error) {
	// Water spans a landscape; without one there is nothing to configure and
	// both representations stay untouched.
	if len(e.Live.Landscapes) == 0 {
		return "", false, errors.Errorf("Water needs a landscape, generate a heightmap first")
	}

	target := targetID(a.ComponentID)
	plane := e.Live.FirstWaterPlane(target)

	// The updated tuning is staged in a local copy and committed only after
	// the backend accepts it, so a failure leaves both representations
	// untouched.
	var staged saved.WaterConfig
	var handle renderer.Handle
	created := false
	if plane == nil {
		if target != "" {
			return "", false, errors.Errorf("Water plane %q not found", target)
		}
		h, err := e.backend.CreateWater(ctx, e.Live.Landscapes[0])
		if err != nil {
			return "", false, err
		}
		handle = h
		created = true
		staged = saved.DefaultWaterConfig()
	} else {
		handle = plane.Handle
		staged = plane.Config
	}

	cfg := &staged
	if a.ShallowColor != nil {
		cfg.ShallowColor = *a.ShallowColor
	}
	if a.MediumColor != nil {
		cfg.MediumColor = *a.MediumColor
	}
	if a.DeepColor != nil {
		cfg.DeepColor = *a.DeepColor
	}
	cfg.RippleAmplitudeMultiplier = orDefaultF(a.RippleAmplitudeMultiplier, cfg.RippleAmplitudeMultiplier)
	cfg.RippleFreq = orDefaultF(a.RippleFreq, cfg.RippleFreq)
	cfg.RippleSpeed = orDefaultF(a.RippleSpeed, cfg.RippleSpeed)
	cfg.ShorelineFoamRange = orDefaultF(a.ShorelineFoamRange, cfg.ShorelineFoamRange)
	cfg.CrestFoamMin = orDefaultF(a.CrestFoamMin, cfg.CrestFoamMin)
	cfg.CrestFoamMax = orDefaultF(a.CrestFoamMax, cfg.CrestFoamMax)
	cfg.SparkleIntensity = orDefaultF(a.SparkleIntensity, cfg.SparkleIntensity)
	cfg.SparkleThreshold = orDefaultF(a.SparkleThreshold, cfg.SparkleThreshold)
	cfg.SubsurfaceMultiplier = orDefaultF(a.SubsurfaceMultiplier, cfg.SubsurfaceMultiplier)
	cfg.FresnelPower = orDefaultF(a.FresnelPower, cfg.FresnelPower)
	cfg.FresnelMultiplier = orDefaultF(a.FresnelMultiplier, cfg.FresnelMultiplier)
	for i, w := range a.Waves() {
		wave := &cfg.Waves[i]
		wave.Amplitude = orDefaultF(w.Amplitude, wave.Amplitude)
		wave.Frequency = orDefaultF(w.Frequency, wave.Frequency)
		wave.Speed = orDefaultF(w.Speed, wave.Speed)
		wave.Steepness = orDefaultF(w.Steepness, wave.Steepness)
		if w.Direction != nil {
			wave.Direction = *w.Direction
		}
	}

	if err := e.backend.UpdateWater(handle, staged); err != nil {
		if created {
			e.backend.Destroy(handle)
		}
		return "", false, err
	}

	if created {
		land := e.Live.Landscapes[0]
		plane = &renderer.WaterPlane{
			ID:          uuid.NewString(),
			LandscapeID: land.ID,
			Handle:      handle,
		}
		e.Live.WaterPlanes = append(e.Live.WaterPlanes, plane)
	}
	plane.Config = staged
	*e.Doc.ActiveLevel().EnsureWater() = staged
	return plane.ID, true, nil
}

func (e *Editor) applyConfigureSky(ctx context.Context, a *command.ConfigureSkyArgs) (string, bool, error) {
	if e.Live.Sky == nil {
		if a.ComponentID != nil {
			return "", false, errors.Errorf("Sky %q not found", *a.ComponentID)
		}
		handle, err := e.backend.CreateSky(ctx)
		if err != nil {
			return "", false, err
		}
		e.Live.Sky = &renderer.Sky{Config: saved.DefaultSkyConfig(), Handle: handle}
	}

	cfg := &e.Live.Sky.Config
	if a.HorizonColor != nil {
		cfg.HorizonColor = *a.HorizonColor
	}
	if a.ZenithColor != nil {
		cfg.ZenithColor = *a.ZenithColor
	}
	if a.SunDirection != nil {
		cfg.SunDirection = *a.SunDirection
	}
	if a.SunColor != nil {
		cfg.SunColor = *a.SunColor
	}
	cfg.SunIntensity = orDefaultF(a.SunIntensity, cfg.SunIntensity)

	*e.Doc.ActiveLevel().EnsureSky() = *cfg
	return "", true, nil
}

func (e *Editor) applyConfigureTrees(ctx context.Context, a *command.ConfigureTreesArgs) (string, bool, error) {
	target := targetID(a.ComponentID)
	level := e.Doc.ActiveLevel()

	comp := level.FindSingleton(saved.KindProceduralTree, target)
	system := e.Live.FirstTrees(target)
	if comp == nil && target != "" {
		return "", false, errors.Errorf("Tree system %q not found", target)
	}

	// Stage the updated tuning and regenerate before committing anything,
	// so a backend failure leaves both representations untouched.
	staged := saved.DefaultTreeProperties()
	if comp != nil && comp.Tree != nil {
		staged = *comp.Tree
	}
	if a.Seed != nil {
		staged.Seed = *a.Seed
	}
	staged.TrunkHeight = orDefaultF(a.TrunkHeight, staged.TrunkHeight)
	staged.TrunkRadius = orDefaultF(a.TrunkRadius, staged.TrunkRadius)
	if a.BranchLevels != nil {
		staged.BranchLevels = *a.BranchLevels
	}
	staged.FoliageRadius = orDefaultF(a.FoliageRadius, staged.FoliageRadius)

	var handle renderer.Handle
	created := false
	if system != nil {
		handle = system.Handle
	} else {
		h, err := e.backend.CreateTrees(ctx)
		if err != nil {
			return "", false, err
		}
		handle = h
		created = true
	}
	if err := e.backend.RegenerateTrees(ctx, handle, staged); err != nil {
		if created {
			e.backend.Destroy(handle)
		}
		return "", false, err
	}

	if comp == nil {
		comp = &saved.Component{
			ID:      uuid.NewString(),
			Kind:    saved.KindProceduralTree,
			Generic: saved.DefaultGeneric(e.names.DisplayName("Trees")),
		}
		level.Append(comp)
	}
	props := staged
	comp.Tree = &props
	if system == nil {
		system = &renderer.TreeSystem{ID: comp.ID, Handle: handle}
		e.Live.Trees = append(e.Live.Trees, system)
	}
	system.Config = staged
	return comp.ID, true, nil
}

func (e *Editor) applyConfigureGrass(ctx context.Context, a *command.ConfigureGrassArgs) (string, bool, error) {
	target := targetID(a.ComponentID)
	level := e.Doc.ActiveLevel()

	comp := level.FindSingleton(saved.KindProceduralGrass, target)
	system := e.Live.FirstGrass(target)
	if comp == nil {
		if target != "" {
			return "", false, errors.Errorf("Grass system %q not found", target)
		}
		handle, err := e.backend.CreateGrass(ctx)
		if err != nil {
			return "", false, err
		}
		props := saved.DefaultGrassProperties()
		comp = &saved.Component{
			ID:      uuid.NewString(),
			Kind:    saved.KindProceduralGrass,
			Generic: saved.DefaultGeneric(e.names.DisplayName("Grass")),
			Grass:   &props,
		}
		level.Append(comp)
		system = &renderer.GrassSystem{ID: comp.ID, Config: props, Handle: handle}
		e.Live.Grasses = append(e.Live.Grasses, system)
	}
	if comp.Grass == nil {
		props := saved.DefaultGrassProperties()
		comp.Grass = &props
	}

	props := comp.Grass
	props.WindStrength = orDefaultF(a.WindStrength, props.WindStrength)
	props.WindSpeed = orDefaultF(a.WindSpeed, props.WindSpeed)
	props.BladeHeight = orDefaultF(a.BladeHeight, props.BladeHeight)
	props.BladeWidth = orDefaultF(a.BladeWidth, props.BladeWidth)
	if a.BladeDensity != nil {
		props.BladeDensity = uint32(*a.BladeDensity)
	}
	props.RenderDistance = orDefaultF(a.RenderDistance, props.RenderDistance)

	if system != nil {
		system.Config = *props
	}
	return comp.ID, true, nil
}

func (e *Editor) applyGenerateHeightmap(ctx context.Context, a *command.GenerateHeightmapArgs) (string, bool, error) {
	target := targetID(a.ComponentID)
	level := e.Doc.ActiveLevel()

	// Regenerating reuses the existing landscape component's identity and
	// placement so references elsewhere stay valid.
	comp := level.FindSingleton(saved.KindLandscape, target)
	if comp == nil && target != "" {
		return "", false, errors.Errorf("Landscape %q not found", target)
	}

	assetID := uuid.NewString()
	if comp != nil && comp.AssetID != "" {
		assetID = comp.AssetID
	}
	fileName := fmt.Sprintf("heightmap_%s.png", assetID)
	if la := e.Doc.FindLandscapeAsset(assetID); la != nil && la.Heightmap != nil && la.Heightmap.FileName != "" {
		fileName = la.Heightmap.FileName
	}

	gen := terrain.NewGenerator(terrain.DefaultSize, terrain.DefaultSize)
	if a.Seed != nil {
		gen.WithSeed(*a.Seed)
	}
	if a.Scale != nil {
		gen.WithScale(*a.Scale)
	}
	if a.Octaves != nil {
		gen.WithOctaves(*a.Octaves)
	}
	if a.Persistence != nil {
		gen.WithPersistence(*a.Persistence)
	}
	if a.Lacunarity != nil {
		gen.WithLacunarity(*a.Lacunarity)
	}
	for _, f := range a.Features {
		feature := terrain.NewFeature(f.Center, f.Radius, f.Intensity,
			terrain.ParseFalloffType(f.Falloff), terrain.ParseFeatureType(f.Type))
		if f.FlatTop != nil {
			feature = feature.WithFlatTop(*f.FlatTop)
		}
		if f.Transition != nil {
			feature = feature.WithTransition(*f.Transition)
		}
		gen.AddFeature(feature)
	}
	hm := gen.Generate()

	handle, err := e.backend.CreateLandscape(ctx, hm.Width, hm.Height, hm.Heights())
	if err != nil {
		return "", false, err
	}

	if comp == nil {
		comp = &saved.Component{
			ID:      uuid.NewString(),
			Kind:    saved.KindLandscape,
			AssetID: assetID,
			Generic: saved.DefaultGeneric(e.names.DisplayName("Landscape")),
		}
		level.Append(comp)
	}
	comp.AssetID = assetID
	e.Doc.SetLandscapeHeightmap(assetID, fileName)

	// Exactly one live landscape survives a regenerate.
	e.Live.ClearLandscapes(e.backend)
	e.Live.Landscapes = append(e.Live.Landscapes, &renderer.Landscape{
		ID:            comp.ID,
		AssetID:       assetID,
		Position:      renderer.TransformFrom(comp.Generic).Position,
		Width:         hm.Width,
		Depth:         hm.Height,
		Size:          terrain.DefaultWorldSize,
		VerticalScale: terrain.DefaultVerticalScale,
		Handle:        handle,
	})

	if e.uploads != nil {
		png, err := hm.EncodePNG()
		if err != nil {
			log.Printf("[editor] heightmap png: %v", err)
		} else {
			// Fire and forget: the image upload must not hold the scene
			// handle or delay the ack.
			go func() {
				if err := e.uploads.UploadHeightmap(context.Background(),
					e.projectPath, assetID, fileName, png); err != nil {
					log.Printf("[editor] heightmap upload: %v", err)
				}
			}()
		}
	}
	return comp.ID, true, nil
}

func (e *Editor) applySaveScript(a *command.SaveScriptArgs) (string, bool, error) {
	scriptPath := "scripts/" + a.Filename
	id := ""
	durable := false
	if a.ComponentID != nil {
		if !e.Doc.ActiveLevel().SetScriptPath(*a.ComponentID, scriptPath) {
			return "", false, errors.Errorf("Component %q not found", *a.ComponentID)
		}
		id = *a.ComponentID
		durable = true
	}

	if e.uploads != nil {
		content := a.Content
		go func() {
			if err := e.uploads.SaveScript(context.Background(),
				e.projectPath, a.Filename, content); err != nil {
				log.Printf("[editor] script upload: %v", err)
			}
		}()
	}
	return id, durable, nil
}
