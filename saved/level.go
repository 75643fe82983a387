package saved

// Kind tags one placed component. A component carries at most one
// kind-specific property block, matching its kind.
type Kind string

const (
	KindModel           Kind = "Model"
	KindPointLight      Kind = "PointLight"
	KindCollectable     Kind = "Collectable"
	KindNPC             Kind = "NPC"
	KindProceduralTree  Kind = "ProceduralTree"
	KindProceduralGrass Kind = "ProceduralGrass"
	KindLandscape       Kind = "Landscape"
	KindPrimitive       Kind = "Primitive"
)

// Level holds an ordered collection of placed components plus the per-level
// environment singletons (sky, water).
type Level struct {
	ID         string       `json:"id,omitempty"`
	Components []*Component `json:"components"`
	Sky        *SkyConfig   `json:"proceduralSky,omitempty"`
	Water      *WaterConfig `json:"water,omitempty"`
}

func NewLevel() *Level {
	return &Level{Components: make([]*Component, 0)}
}

// Component is one placed entity inside a level.
type Component struct {
	ID      string `json:"id"`
	Kind    Kind   `json:"kind"`
	AssetID string `json:"assetId,omitempty"`

	Generic GenericProperties `json:"genericProperties"`

	Light       *LightProperties       `json:"lightProperties,omitempty"`
	Collectable *CollectableProperties `json:"collectableProperties,omitempty"`
	NPC         *NPCProperties         `json:"npcProperties,omitempty"`
	Tree        *TreeProperties        `json:"proceduralTreeProperties,omitempty"`
	Grass       *GrassProperties       `json:"proceduralGrassProperties,omitempty"`
	Primitive   *PrimitiveProperties   `json:"primitiveProperties,omitempty"`

	ScriptPath string `json:"scriptPath,omitempty"`
}

// GenericProperties is the placement block every component carries.
type GenericProperties struct {
	Name     string     `json:"name"`
	Position [3]float32 `json:"position"`
	Rotation [3]float32 `json:"rotation"`
	Scale    [3]float32 `json:"scale"`
}

// DefaultGeneric applies the documented placement defaults: zero position
// and rotation, unit scale.
func DefaultGeneric(name string) GenericProperties {
	return GenericProperties{
		Name:  name,
		Scale: [3]float32{1, 1, 1},
	}
}

type LightProperties struct {
	Color     [3]float32 `json:"color"`
	Intensity float32    `json:"intensity"`
	Radius    float32    `json:"radius"`
}

type CollectableType string

const (
	CollectableItem         CollectableType = "Item"
	CollectableMeleeWeapon  CollectableType = "MeleeWeapon"
	CollectableRangedWeapon CollectableType = "RangedWeapon"
	CollectableArmor        CollectableType = "Armor"
)

// ParseCollectableType maps the wire name to a type, falling back to Item.
func ParseCollectableType(s string) CollectableType {
	switch CollectableType(s) {
	case CollectableMeleeWeapon, CollectableRangedWeapon, CollectableArmor:
		return CollectableType(s)
	}
	return CollectableItem
}

type CollectableProperties struct {
	Type    CollectableType `json:"collectableType"`
	StatID  string          `json:"statId,omitempty"`
	ModelID string          `json:"modelId,omitempty"`
}

type CombatType string

const (
	CombatMelee  CombatType = "Melee"
	CombatRanged CombatType = "Ranged"
)

type AttackStats struct {
	Damage   float32 `json:"damage"`
	Range    float32 `json:"range"`
	Cooldown float32 `json:"cooldown"`
	WindUp   float32 `json:"windUpTime"`
	Recovery float32 `json:"recoveryTime"`
}

type BehaviorConfig struct {
	Aggressiveness  float32      `json:"aggressiveness"`
	CombatType      CombatType   `json:"combatType"`
	WanderRadius    float32      `json:"wanderRadius"`
	WanderSpeed     float32      `json:"wanderSpeed"`
	DetectionRadius float32      `json:"detectionRadius"`
	Melee           *AttackStats `json:"meleeStats,omitempty"`
	Ranged          *AttackStats `json:"rangedStats,omitempty"`
}

type NPCProperties struct {
	ModelID  string         `json:"modelId"`
	Behavior BehaviorConfig `json:"behavior"`
}

type TreeProperties struct {
	Seed          uint32  `json:"seed"`
	TrunkHeight   float32 `json:"trunkHeight"`
	TrunkRadius   float32 `json:"trunkRadius"`
	BranchLevels  uint32  `json:"branchLevels"`
	FoliageRadius float32 `json:"foliageRadius"`
}

func DefaultTreeProperties() TreeProperties {
	return TreeProperties{
		TrunkHeight:   3.5,
		TrunkRadius:   0.25,
		BranchLevels:  4,
		FoliageRadius: 0.5,
	}
}

type GrassProperties struct {
	WindStrength     float32 `json:"windStrength"`
	WindSpeed        float32 `json:"windSpeed"`
	BladeHeight      float32 `json:"bladeHeight"`
	BladeWidth       float32 `json:"bladeWidth"`
	BladeDensity     uint32  `json:"bladeDensity"`
	RenderDistance   float32 `json:"renderDistance"`
	GridSize         float32 `json:"gridSize"`
	BrownianStrength float32 `json:"brownianStrength"`
}

func DefaultGrassProperties() GrassProperties {
	return GrassProperties{
		WindStrength:     2.5,
		WindSpeed:        0.3,
		BladeHeight:      2.75,
		BladeWidth:       0.03,
		BladeDensity:     15,
		RenderDistance:   150,
		GridSize:         10,
		BrownianStrength: 0.5,
	}
}

type PrimitiveProperties struct {
	Shape string `json:"shape"`
}

type SkyConfig struct {
	HorizonColor [3]float32 `json:"horizonColor"`
	ZenithColor  [3]float32 `json:"zenithColor"`
	SunDirection [3]float32 `json:"sunDirection"`
	SunColor     [3]float32 `json:"sunColor"`
	SunIntensity float32    `json:"sunIntensity"`
}

func DefaultSkyConfig() SkyConfig {
	return SkyConfig{
		HorizonColor: [3]float32{0.7, 0.8, 0.9},
		ZenithColor:  [3]float32{0.2, 0.4, 0.8},
		SunDirection: [3]float32{0.3, -1.0, 0.2},
		SunColor:     [3]float32{1.0, 0.95, 0.85},
		SunIntensity: 1.0,
	}
}

type WaveConfig struct {
	Amplitude float32    `json:"amplitude"`
	Frequency float32    `json:"frequency"`
	Speed     float32    `json:"speed"`
	Steepness float32    `json:"steepness"`
	Direction [2]float32 `json:"direction"`
}

// WaterConfig mirrors the live water plane tuning so the document and the
// render state stay symmetric for configure commands.
type WaterConfig struct {
	ShallowColor [3]float32 `json:"shallowColor"`
	MediumColor  [3]float32 `json:"mediumColor"`
	DeepColor    [3]float32 `json:"deepColor"`

	RippleAmplitudeMultiplier float32 `json:"rippleAmplitudeMultiplier"`
	RippleFreq                float32 `json:"rippleFreq"`
	RippleSpeed               float32 `json:"rippleSpeed"`

	ShorelineFoamRange float32 `json:"shorelineFoamRange"`
	CrestFoamMin       float32 `json:"crestFoamMin"`
	CrestFoamMax       float32 `json:"crestFoamMax"`

	SparkleIntensity     float32 `json:"sparkleIntensity"`
	SparkleThreshold     float32 `json:"sparkleThreshold"`
	SubsurfaceMultiplier float32 `json:"subsurfaceMultiplier"`
	FresnelPower         float32 `json:"fresnelPower"`
	FresnelMultiplier    float32 `json:"fresnelMultiplier"`

	Waves [3]WaveConfig `json:"waves"`
}

func DefaultWaterConfig() WaterConfig {
	return WaterConfig{
		ShallowColor:              [3]float32{0.3, 0.7, 0.8},
		MediumColor:               [3]float32{0.1, 0.4, 0.6},
		DeepColor:                 [3]float32{0.0, 0.15, 0.35},
		RippleAmplitudeMultiplier: 1.0,
		RippleFreq:                0.5,
		RippleSpeed:               1.0,
		ShorelineFoamRange:        1.5,
		CrestFoamMin:              0.6,
		CrestFoamMax:              0.9,
		SparkleIntensity:          0.5,
		SparkleThreshold:          0.9,
		SubsurfaceMultiplier:      0.8,
		FresnelPower:              5.0,
		FresnelMultiplier:         1.0,
		Waves: [3]WaveConfig{
			{Amplitude: 0.35, Frequency: 0.2, Speed: 1.0, Steepness: 0.4, Direction: [2]float32{1, 0}},
			{Amplitude: 0.2, Frequency: 0.4, Speed: 1.3, Steepness: 0.3, Direction: [2]float32{0.7, 0.7}},
			{Amplitude: 0.1, Frequency: 0.8, Speed: 1.7, Steepness: 0.2, Direction: [2]float32{0, 1}},
		},
	}
}
