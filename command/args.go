package command

import "github.com/pkg/errors"

// Argument records per command kind. Optional fields are pointers so "field
// absent" survives decoding; defaults are applied by the effects, not here.
// Wire names are stable: ids are lowerCamelCase, tuning fields keep the
// snake_case names the assistant-side tool schemas use.

type TransformObjectArgs struct {
	ComponentID string      `json:"componentId"`
	Translation *[3]float32 `json:"translation"`
	Rotation    *[3]float32 `json:"rotation"`
	Scale       *[3]float32 `json:"scale"`
}

func (a *TransformObjectArgs) commandName() string { return "transformObject" }

func (a *TransformObjectArgs) validate() error {
	if a.ComponentID == "" {
		return errors.Errorf("componentId is required")
	}
	return nil
}

type SpawnModelArgs struct {
	AssetID  string      `json:"assetId"`
	Position *[3]float32 `json:"position"`
	Rotation *[3]float32 `json:"rotation"`
	Scale    *[3]float32 `json:"scale"`
}

func (a *SpawnModelArgs) commandName() string { return "spawnModel" }

func (a *SpawnModelArgs) validate() error {
	if a.AssetID == "" {
		return errors.Errorf("assetId is required")
	}
	return nil
}

type SpawnPrimitiveArgs struct {
	Type     string      `json:"type"`
	Position *[3]float32 `json:"position"`
	Scale    *[3]float32 `json:"scale"`
}

func (a *SpawnPrimitiveArgs) commandName() string { return "spawnPrimitive" }

func (a *SpawnPrimitiveArgs) validate() error {
	if a.Type == "" {
		return errors.Errorf("type is required")
	}
	if a.Position == nil {
		return errors.Errorf("position is required")
	}
	return nil
}

type SpawnPointLightArgs struct {
	Position  *[3]float32 `json:"position"`
	Color     *[3]float32 `json:"color"`
	Intensity *float32    `json:"intensity"`
	Radius    *float32    `json:"radius"`
}

func (a *SpawnPointLightArgs) commandName() string { return "spawnPointLight" }

func (a *SpawnPointLightArgs) validate() error {
	if a.Position == nil {
		return errors.Errorf("position is required")
	}
	return nil
}

type SpawnCollectableArgs struct {
	AssetID  string      `json:"assetId"`
	Type     string      `json:"type"`
	Position *[3]float32 `json:"position"`
	Rotation *[3]float32 `json:"rotation"`
	Scale    *[3]float32 `json:"scale"`
}

func (a *SpawnCollectableArgs) commandName() string { return "spawnCollectable" }

func (a *SpawnCollectableArgs) validate() error {
	if a.AssetID == "" {
		return errors.Errorf("assetId is required")
	}
	if a.Type == "" {
		return errors.Errorf("type is required")
	}
	return nil
}

type SpawnNPCArgs struct {
	AssetID         string      `json:"assetId"`
	Position        *[3]float32 `json:"position"`
	Rotation        *[3]float32 `json:"rotation"`
	Scale           *[3]float32 `json:"scale"`
	Aggressiveness  *float32    `json:"aggressiveness"`
	CombatType      *string     `json:"combat_type"`
	WanderRadius    *float32    `json:"wander_radius"`
	WanderSpeed     *float32    `json:"wander_speed"`
	DetectionRadius *float32    `json:"detection_radius"`
	Damage          *float32    `json:"damage"`
	Health          *float32    `json:"health"`
}

func (a *SpawnNPCArgs) commandName() string { return "spawnNPC" }

func (a *SpawnNPCArgs) validate() error {
	if a.AssetID == "" {
		return errors.Errorf("assetId is required")
	}
	return nil
}

type ConfigureWaterArgs struct {
	ComponentID *string `json:"componentId"`

	ShallowColor *[3]float32 `json:"shallow_color"`
	MediumColor  *[3]float32 `json:"medium_color"`
	DeepColor    *[3]float32 `json:"deep_color"`

	RippleAmplitudeMultiplier *float32 `json:"ripple_amplitude_multiplier"`
	RippleFreq                *float32 `json:"ripple_freq"`
	RippleSpeed               *float32 `json:"ripple_speed"`

	ShorelineFoamRange *float32 `json:"shoreline_foam_range"`
	CrestFoamMin       *float32 `json:"crest_foam_min"`
	CrestFoamMax       *float32 `json:"crest_foam_max"`

	SparkleIntensity     *float32 `json:"sparkle_intensity"`
	SparkleThreshold     *float32 `json:"sparkle_threshold"`
	SubsurfaceMultiplier *float32 `json:"subsurface_multiplier"`
	FresnelPower         *float32 `json:"fresnel_power"`
	FresnelMultiplier    *float32 `json:"fresnel_multiplier"`

	Wave1Amplitude *float32    `json:"wave1_amplitude"`
	Wave1Frequency *float32    `json:"wave1_frequency"`
	Wave1Speed     *float32    `json:"wave1_speed"`
	Wave1Steepness *float32    `json:"wave1_steepness"`
	Wave1Direction *[2]float32 `json:"wave1_direction"`

	Wave2Amplitude *float32    `json:"wave2_amplitude"`
	Wave2Frequency *float32    `json:"wave2_frequency"`
	Wave2Speed     *float32    `json:"wave2_speed"`
	Wave2Steepness *float32    `json:"wave2_steepness"`
	Wave2Direction *[2]float32 `json:"wave2_direction"`

	Wave3Amplitude *float32    `json:"wave3_amplitude"`
	Wave3Frequency *float32    `json:"wave3_frequency"`
	Wave3Speed     *float32    `json:"wave3_speed"`
	Wave3Steepness *float32    `json:"wave3_steepness"`
	Wave3Direction *[2]float32 `json:"wave3_direction"`
}

// WaveArgs groups one wave's overrides so effects can iterate the three
// waves instead of repeating field-by-field copies.
type WaveArgs struct {
	Amplitude *float32
	Frequency *float32
	Speed     *float32
	Steepness *float32
	Direction *[2]float32
}

func (a *ConfigureWaterArgs) commandName() string { return "configureWater" }

// Waves returns the per-wave overrides in order.
func (a *ConfigureWaterArgs) Waves() [3]WaveArgs {
	return [3]WaveArgs{
		{a.Wave1Amplitude, a.Wave1Frequency, a.Wave1Speed, a.Wave1Steepness, a.Wave1Direction},
		{a.Wave2Amplitude, a.Wave2Frequency, a.Wave2Speed, a.Wave2Steepness, a.Wave2Direction},
		{a.Wave3Amplitude, a.Wave3Frequency, a.Wave3Speed, a.Wave3Steepness, a.Wave3Direction},
	}
}

type ConfigureSkyArgs struct {
	ComponentID  *string     `json:"componentId"`
	HorizonColor *[3]float32 `json:"horizon_color"`
	ZenithColor  *[3]float32 `json:"zenith_color"`
	SunDirection *[3]float32 `json:"sun_direction"`
	SunColor     *[3]float32 `json:"sun_color"`
	SunIntensity *float32    `json:"sun_intensity"`
}

func (a *ConfigureSkyArgs) commandName() string { return "configureSky" }

type ConfigureTreesArgs struct {
	ComponentID   *string  `json:"componentId"`
	Seed          *uint32  `json:"seed"`
	TrunkHeight   *float32 `json:"trunk_height"`
	TrunkRadius   *float32 `json:"trunk_radius"`
	BranchLevels  *uint32  `json:"branch_levels"`
	FoliageRadius *float32 `json:"foliage_radius"`
}

func (a *ConfigureTreesArgs) commandName() string { return "configureTrees" }

type ConfigureGrassArgs struct {
	ComponentID    *string  `json:"componentId"`
	WindStrength   *float32 `json:"wind_strength"`
	WindSpeed      *float32 `json:"wind_speed"`
	BladeHeight    *float32 `json:"blade_height"`
	BladeWidth     *float32 `json:"blade_width"`
	BladeDensity   *float32 `json:"blade_density"`
	RenderDistance *float32 `json:"render_distance"`
}

func (a *ConfigureGrassArgs) commandName() string { return "configureGrass" }

type TerrainFeatureArgs struct {
	Type       string     `json:"type"`
	Center     [2]float64 `json:"center"`
	Radius     float64    `json:"radius"`
	Intensity  float64    `json:"intensity"`
	Falloff    string     `json:"falloff"`
	FlatTop    *float64   `json:"flat_top"`
	Transition *float64   `json:"transition"`
}

type GenerateHeightmapArgs struct {
	ComponentID *string              `json:"componentId"`
	Seed        *uint32              `json:"seed"`
	Scale       *float64             `json:"scale"`
	Octaves     *int                 `json:"octaves"`
	Persistence *float64             `json:"persistence"`
	Lacunarity  *float64             `json:"lacunarity"`
	Features    []TerrainFeatureArgs `json:"features"`
}

func (a *GenerateHeightmapArgs) commandName() string { return "generateHeightmap" }

type SaveScriptArgs struct {
	Filename    string  `json:"filename"`
	Content     string  `json:"content"`
	ComponentID *string `json:"componentId"`
}

func (a *SaveScriptArgs) commandName() string { return "saveScript" }

func (a *SaveScriptArgs) validate() error {
	if a.Filename == "" {
		return errors.Errorf("filename is required")
	}
	return nil
}
