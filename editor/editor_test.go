package editor

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"

	"github.com/glimt/levelforge/command"
	"github.com/glimt/levelforge/remote"
	"github.com/glimt/levelforge/renderer"
	"github.com/glimt/levelforge/saved"
)

func testDocument() *saved.Document {
	doc := saved.NewDocument()
	doc.Models = append(doc.Models,
		saved.ModelAsset{ID: "m1", FileName: "chair.glb"},
		saved.ModelAsset{ID: "m2", FileName: "goblin.glb"},
	)
	doc.Stats = append(doc.Stats, saved.StatTemplate{ID: "s1", Name: "Basic", Health: 100, Stamina: 50})
	return doc
}

func startEditor(t *testing.T, cfg Config) *Editor {
	t.Helper()
	if cfg.Document == nil {
		cfg.Document = testDocument()
	}
	if cfg.Backend == nil {
		cfg.Backend = renderer.NewHeadless()
	}
	e := New(cfg)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go e.Run(ctx)
	return e
}

func dispatch(t *testing.T, e *Editor, name, args string) {
	t.Helper()
	ack, err := e.ExecuteCall(context.Background(), command.Call{
		Name: name, Arguments: json.RawMessage(args),
	})
	if err != nil {
		t.Fatalf("%s: %v", name, err)
	}
	if ack != command.Ack {
		t.Fatalf("%s ack = %q", name, ack)
	}
}

// dispatchRejected sends a command the engine must ignore. The caller still
// receives the fixed acknowledgement; only the status stream and the log see
// the rejection, so the assertions that nothing changed live at the call
// sites.
func dispatchRejected(t *testing.T, e *Editor, name, args string) {
	t.Helper()
	ack, err := e.ExecuteCall(context.Background(), command.Call{
		Name: name, Arguments: json.RawMessage(args),
	})
	if err != nil {
		t.Fatalf("%s: rejection must not surface as an error: %v", name, err)
	}
	if ack != command.Ack {
		t.Fatalf("%s ack = %q", name, ack)
	}
}

func level(e *Editor) *saved.Level { return e.Doc.ActiveLevel() }

func TestSpawnModelBothRepresentations(t *testing.T) {
	e := startEditor(t, Config{})

	dispatch(t, e, "spawnModel", `{"assetId":"m1","position":[1,2,3],"rotation":[0,90,0]}`)

	if len(e.Live.Models) != 1 || len(level(e).Components) != 1 {
		t.Fatalf("models = %d, components = %d", len(e.Live.Models), len(level(e).Components))
	}
	m, c := e.Live.Models[0], level(e).Components[0]
	if m.ID != c.ID || m.ID == "" {
		t.Errorf("ids diverge: live %q, doc %q", m.ID, c.ID)
	}
	if c.Kind != saved.KindModel || c.AssetID != "m1" || m.FileName != "chair.glb" {
		t.Errorf("component = %+v, model file = %q", c, m.FileName)
	}
	if c.Generic.Position != [3]float32{1, 2, 3} || c.Generic.Rotation != [3]float32{0, 90, 0} {
		t.Errorf("placement = %+v", c.Generic)
	}
	// Omitted scale falls back to unit.
	if c.Generic.Scale != [3]float32{1, 1, 1} || m.Transform.Scale != [3]float32{1, 1, 1} {
		t.Errorf("scale = %v / %v", c.Generic.Scale, m.Transform.Scale)
	}
	if c.Generic.Name == "" {
		t.Error("spawned component has no display name")
	}
}

func TestSpawnModelUnknownAssetRejected(t *testing.T) {
	e := startEditor(t, Config{})
	dispatchRejected(t, e, "spawnModel", `{"assetId":"nope"}`)
	if len(e.Live.Models) != 0 || len(level(e).Components) != 0 {
		t.Error("rejected spawn must not touch either representation")
	}
}

func TestSpawnPrimitive(t *testing.T) {
	backend := renderer.NewHeadless()
	e := startEditor(t, Config{Backend: backend})

	dispatch(t, e, "spawnPrimitive", `{"type":"Sphere","position":[0,1,0],"scale":[2,2,2]}`)

	c := level(e).Components[0]
	if c.Kind != saved.KindPrimitive || c.Primitive == nil || c.Primitive.Shape != "Sphere" {
		t.Errorf("component = %+v", c)
	}
	if backend.Alive("primitive") != 1 {
		t.Errorf("live primitives = %d", backend.Alive("primitive"))
	}

	dispatchRejected(t, e, "spawnPrimitive", `{"type":"Cone","position":[0,0,0]}`)
	dispatchRejected(t, e, "spawnPrimitive", `{"type":"Cube"}`) // position is required
}

func TestSpawnPointLightDefaults(t *testing.T) {
	e := startEditor(t, Config{})

	dispatch(t, e, "spawnPointLight", `{"position":[4,8,4]}`)

	c := level(e).Components[0]
	if c.Kind != saved.KindPointLight || c.Light == nil {
		t.Fatalf("component = %+v", c)
	}
	if c.Light.Color != [3]float32{1, 1, 1} || c.Light.Intensity != 1.0 || c.Light.Radius != 10.0 {
		t.Errorf("light defaults = %+v", c.Light)
	}
	l := e.Live.PointLights[0]
	if l.ID != c.ID || l.Position != [3]float32{4, 8, 4} {
		t.Errorf("live light = %+v", l)
	}
}

func TestSpawnCollectableNeedsStatTemplate(t *testing.T) {
	doc := testDocument()
	doc.Stats = nil
	e := startEditor(t, Config{Document: doc})
	dispatchRejected(t, e, "spawnCollectable", `{"assetId":"m1","type":"MeleeWeapon"}`)

	e2 := startEditor(t, Config{})
	dispatch(t, e2, "spawnCollectable", `{"assetId":"m1","type":"MeleeWeapon"}`)
	c := level(e2).Components[0]
	if c.Kind != saved.KindCollectable || c.Collectable == nil {
		t.Fatalf("component = %+v", c)
	}
	if c.Collectable.Type != saved.CollectableMeleeWeapon || c.Collectable.StatID != "s1" || c.Collectable.ModelID != "m1" {
		t.Errorf("collectable = %+v", c.Collectable)
	}
}

func TestSpawnNPCBehaviorDefaults(t *testing.T) {
	e := startEditor(t, Config{})

	dispatch(t, e, "spawnNPC", `{"assetId":"m2","combat_type":"Ranged","damage":25}`)

	c := level(e).Components[0]
	if c.Kind != saved.KindNPC || c.NPC == nil {
		t.Fatalf("component = %+v", c)
	}
	b := c.NPC.Behavior
	if b.CombatType != saved.CombatRanged || b.Melee != nil || b.Ranged == nil {
		t.Fatalf("behavior = %+v", b)
	}
	if b.Ranged.Damage != 25 || b.Ranged.Range != 15.0 || b.Ranged.Cooldown != 1.5 {
		t.Errorf("ranged stats = %+v", b.Ranged)
	}
	if b.Aggressiveness != 0.5 || b.WanderRadius != 10.0 || b.WanderSpeed != 2.0 || b.DetectionRadius != 15.0 {
		t.Errorf("behavior defaults = %+v", b)
	}
}

func TestTransformPartialUpdate(t *testing.T) {
	e := startEditor(t, Config{})
	dispatch(t, e, "spawnModel", `{"assetId":"m1","position":[1,2,3],"rotation":[10,20,30]}`)
	id := level(e).Components[0].ID

	dispatch(t, e, "transformObject",
		`{"componentId":"`+id+`","translation":[7,0,7]}`)

	c := level(e).Components[0]
	if c.Generic.Position != [3]float32{7, 0, 7} {
		t.Errorf("position = %v", c.Generic.Position)
	}
	// Omitted fields stay put.
	if c.Generic.Rotation != [3]float32{10, 20, 30} {
		t.Errorf("rotation = %v", c.Generic.Rotation)
	}
	m := e.Live.FindModel(id)
	if m.Transform.Position != [3]float32{7, 0, 7} || m.Transform.Rotation != [3]float32{10, 20, 30} {
		t.Errorf("live transform = %+v", m.Transform)
	}
}

func TestTransformUnknownComponentRejected(t *testing.T) {
	e := startEditor(t, Config{})
	dispatchRejected(t, e, "transformObject", `{"componentId":"ghost","translation":[1,1,1]}`)
}

func TestConfigureWaterRequiresLandscape(t *testing.T) {
	e := startEditor(t, Config{})

	dispatchRejected(t, e, "configureWater", `{"shallow_color":[0,1,1]}`)

	if level(e).Water != nil {
		t.Error("rejected configure must not create the water block")
	}
	if len(e.Live.WaterPlanes) != 0 {
		t.Error("rejected configure must not create a live plane")
	}
}

func TestConfigureWaterFindOrCreate(t *testing.T) {
	backend := renderer.NewHeadless()
	e := startEditor(t, Config{Backend: backend})
	dispatch(t, e, "generateHeightmap", `{}`)

	dispatch(t, e, "configureWater", `{"shallow_color":[0.1,0.2,0.3],"wave2_amplitude":0.9}`)

	if len(e.Live.WaterPlanes) != 1 {
		t.Fatalf("planes = %d", len(e.Live.WaterPlanes))
	}
	plane := e.Live.WaterPlanes[0]
	water := level(e).Water
	if water == nil {
		t.Fatal("document water block missing")
	}
	if water.ShallowColor != [3]float32{0.1, 0.2, 0.3} || water.Waves[1].Amplitude != 0.9 {
		t.Errorf("water = %+v", water)
	}
	// Untouched tuning keeps its defaults.
	if water.FresnelPower != 5.0 || water.Waves[0].Amplitude != 0.35 {
		t.Errorf("water defaults = %+v", water)
	}
	if plane.Config != *water {
		t.Error("live and document water configs diverge")
	}

	// A second configure updates the same plane.
	dispatch(t, e, "configureWater", `{"ripple_speed":3}`)
	if len(e.Live.WaterPlanes) != 1 || backend.Alive("water") != 1 {
		t.Errorf("planes = %d, backend water = %d", len(e.Live.WaterPlanes), backend.Alive("water"))
	}
	if level(e).Water.RippleSpeed != 3 || level(e).Water.ShallowColor != [3]float32{0.1, 0.2, 0.3} {
		t.Errorf("water after update = %+v", level(e).Water)
	}

	dispatchRejected(t, e, "configureWater", `{"componentId":"ghost","ripple_speed":1}`)
}

func TestConfigureSky(t *testing.T) {
	e := startEditor(t, Config{})

	dispatchRejected(t, e, "configureSky", `{"componentId":"ghost"}`)

	dispatch(t, e, "configureSky", `{"sun_intensity":2.5,"zenith_color":[0,0,1]}`)
	sky := level(e).Sky
	if sky == nil || sky.SunIntensity != 2.5 || sky.ZenithColor != [3]float32{0, 0, 1} {
		t.Fatalf("sky = %+v", sky)
	}
	if sky.HorizonColor != [3]float32{0.7, 0.8, 0.9} {
		t.Errorf("untouched horizon = %v", sky.HorizonColor)
	}
	if e.Live.Sky == nil || e.Live.Sky.Config != *sky {
		t.Error("live sky diverges from document")
	}

	dispatch(t, e, "configureSky", `{"sun_intensity":0.1}`)
	if level(e).Sky.ZenithColor != [3]float32{0, 0, 1} {
		t.Error("second configure lost earlier tuning")
	}
}

func TestConfigureTreesFindOrCreate(t *testing.T) {
	backend := renderer.NewHeadless()
	e := startEditor(t, Config{Backend: backend})

	dispatch(t, e, "configureTrees", `{"trunk_height":6}`)

	c := level(e).FindFirstKind(saved.KindProceduralTree)
	if c == nil || c.Tree == nil {
		t.Fatal("tree component missing")
	}
	if c.Tree.TrunkHeight != 6 || c.Tree.TrunkRadius != 0.25 || c.Tree.BranchLevels != 4 {
		t.Errorf("tree props = %+v", c.Tree)
	}

	dispatch(t, e, "configureTrees", `{"seed":7,"foliage_radius":1.5}`)
	if n := len(e.Live.Trees); n != 1 {
		t.Fatalf("tree systems = %d", n)
	}
	if c.Tree.Seed != 7 || c.Tree.FoliageRadius != 1.5 || c.Tree.TrunkHeight != 6 {
		t.Errorf("tree props after update = %+v", c.Tree)
	}
	if e.Live.Trees[0].Config != *c.Tree {
		t.Error("live tree config diverges from document")
	}

	dispatchRejected(t, e, "configureTrees", `{"componentId":"ghost","seed":1}`)
}

func TestConfigureGrassFindOrCreate(t *testing.T) {
	e := startEditor(t, Config{})

	dispatch(t, e, "configureGrass", `{"blade_density":22,"wind_strength":4}`)

	c := level(e).FindFirstKind(saved.KindProceduralGrass)
	if c == nil || c.Grass == nil {
		t.Fatal("grass component missing")
	}
	if c.Grass.BladeDensity != 22 || c.Grass.WindStrength != 4 {
		t.Errorf("grass props = %+v", c.Grass)
	}
	if c.Grass.BladeHeight != 2.75 || c.Grass.GridSize != 10 {
		t.Errorf("grass defaults = %+v", c.Grass)
	}
	if e.Live.Grasses[0].Config != *c.Grass {
		t.Error("live grass config diverges from document")
	}

	// A second untargeted configure updates the same component; the result
	// is the union of both calls.
	dispatch(t, e, "configureGrass", `{"wind_speed":1.25}`)
	if n := countKind(level(e), saved.KindProceduralGrass); n != 1 {
		t.Fatalf("grass components = %d", n)
	}
	if len(e.Live.Grasses) != 1 {
		t.Fatalf("grass systems = %d", len(e.Live.Grasses))
	}
	if c.Grass.WindSpeed != 1.25 || c.Grass.BladeDensity != 22 || c.Grass.WindStrength != 4 {
		t.Errorf("grass union = %+v", c.Grass)
	}
	if e.Live.Grasses[0].Config != *c.Grass {
		t.Error("live grass config diverges after second configure")
	}
}

// flakyBackend injects failures into the fallible update calls so the
// all-or-nothing behavior of configure effects can be observed.
type flakyBackend struct {
	*renderer.Headless
	failRegenerate bool
	failWater      bool
}

func (b *flakyBackend) RegenerateTrees(ctx context.Context, h renderer.Handle, cfg saved.TreeProperties) error {
	if b.failRegenerate {
		return errors.Errorf("regenerate refused")
	}
	return b.Headless.RegenerateTrees(ctx, h, cfg)
}

func (b *flakyBackend) UpdateWater(h renderer.Handle, cfg saved.WaterConfig) error {
	if b.failWater {
		return errors.Errorf("update refused")
	}
	return b.Headless.UpdateWater(h, cfg)
}

func TestConfigureTreesBackendFailureLeavesStateUntouched(t *testing.T) {
	backend := &flakyBackend{Headless: renderer.NewHeadless()}
	e := startEditor(t, Config{Backend: backend})
	dispatch(t, e, "configureTrees", `{"trunk_height":6}`)

	backend.failRegenerate = true
	dispatchRejected(t, e, "configureTrees", `{"trunk_height":9}`)

	c := level(e).FindFirstKind(saved.KindProceduralTree)
	if c.Tree.TrunkHeight != 6 {
		t.Errorf("document trunk height = %v after failed configure", c.Tree.TrunkHeight)
	}
	if e.Live.Trees[0].Config.TrunkHeight != 6 {
		t.Errorf("live trunk height = %v after failed configure", e.Live.Trees[0].Config.TrunkHeight)
	}
}

func TestConfigureTreesFailedCreateLeavesNothing(t *testing.T) {
	backend := &flakyBackend{Headless: renderer.NewHeadless(), failRegenerate: true}
	e := startEditor(t, Config{Backend: backend})

	dispatchRejected(t, e, "configureTrees", `{"trunk_height":6}`)

	if n := countKind(level(e), saved.KindProceduralTree); n != 0 {
		t.Errorf("tree components = %d after failed create", n)
	}
	if len(e.Live.Trees) != 0 || backend.Alive("trees") != 0 {
		t.Errorf("live trees = %d, backend trees = %d", len(e.Live.Trees), backend.Alive("trees"))
	}
}

func TestConfigureWaterBackendFailureLeavesStateUntouched(t *testing.T) {
	backend := &flakyBackend{Headless: renderer.NewHeadless()}
	e := startEditor(t, Config{Backend: backend})
	dispatch(t, e, "generateHeightmap", `{}`)

	// Failed create: no plane, no document block, no leaked handle.
	backend.failWater = true
	dispatchRejected(t, e, "configureWater", `{"ripple_speed":3}`)
	if level(e).Water != nil || len(e.Live.WaterPlanes) != 0 || backend.Alive("water") != 0 {
		t.Fatalf("failed create left state: water=%v planes=%d handles=%d",
			level(e).Water, len(e.Live.WaterPlanes), backend.Alive("water"))
	}

	// Failed update keeps the previous tuning on both sides.
	backend.failWater = false
	dispatch(t, e, "configureWater", `{"ripple_speed":3}`)
	backend.failWater = true
	dispatchRejected(t, e, "configureWater", `{"ripple_speed":7}`)
	if level(e).Water.RippleSpeed != 3 || e.Live.WaterPlanes[0].Config.RippleSpeed != 3 {
		t.Errorf("tuning after failed update = doc %v / live %v",
			level(e).Water.RippleSpeed, e.Live.WaterPlanes[0].Config.RippleSpeed)
	}
}

func TestGenerateHeightmapSingleLandscape(t *testing.T) {
	backend := renderer.NewHeadless()
	e := startEditor(t, Config{Backend: backend})

	dispatch(t, e, "generateHeightmap",
		`{"seed":7,"features":[{"type":"Mountain","center":[512,512],"radius":200,"intensity":40,"falloff":"Smooth"}]}`)

	comp := level(e).FindFirstKind(saved.KindLandscape)
	if comp == nil || comp.AssetID == "" {
		t.Fatal("landscape component missing")
	}
	la := e.Doc.FindLandscapeAsset(comp.AssetID)
	if la == nil || la.Heightmap == nil || la.Heightmap.FileName != "heightmap_"+comp.AssetID+".png" {
		t.Fatalf("landscape asset = %+v", la)
	}
	if len(e.Live.Landscapes) != 1 || backend.Alive("landscape") != 1 {
		t.Fatalf("landscapes = %d / backend %d", len(e.Live.Landscapes), backend.Alive("landscape"))
	}

	// Regenerating replaces the live landscape but keeps identity.
	dispatch(t, e, "generateHeightmap", `{"seed":8}`)
	comp2 := level(e).FindFirstKind(saved.KindLandscape)
	if comp2.ID != comp.ID || comp2.AssetID != comp.AssetID {
		t.Errorf("regenerate changed identity: %q/%q -> %q/%q", comp.ID, comp.AssetID, comp2.ID, comp2.AssetID)
	}
	if len(e.Live.Landscapes) != 1 || backend.Alive("landscape") != 1 {
		t.Errorf("landscapes after regenerate = %d / backend %d", len(e.Live.Landscapes), backend.Alive("landscape"))
	}
	if n := countKind(level(e), saved.KindLandscape); n != 1 {
		t.Errorf("landscape components = %d", n)
	}
}

func countKind(l *saved.Level, kind saved.Kind) int {
	n := 0
	for _, c := range l.Components {
		if c.Kind == kind {
			n++
		}
	}
	return n
}

func TestGenerateHeightmapUploadsDetached(t *testing.T) {
	uploaded := make(chan struct{})
	var once sync.Once
	var mu sync.Mutex
	var assetField, fileField string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/save-heightmap" {
			t.Errorf("path = %s", r.URL.Path)
		}
		r.ParseMultipartForm(32 << 20)
		mu.Lock()
		assetField = r.FormValue("landscapeAssetId")
		fileField = r.FormValue("filename")
		mu.Unlock()
		once.Do(func() { close(uploaded) })
	}))
	defer srv.Close()

	e := startEditor(t, Config{
		ProjectPath: "projects/p1",
		Uploads:     remote.NewClient(srv.URL),
	})
	dispatch(t, e, "generateHeightmap", `{}`)

	select {
	case <-uploaded:
	case <-time.After(5 * time.Second):
		t.Fatal("heightmap upload never arrived")
	}
	comp := level(e).FindFirstKind(saved.KindLandscape)
	mu.Lock()
	defer mu.Unlock()
	if assetField != comp.AssetID || fileField != "heightmap_"+comp.AssetID+".png" {
		t.Errorf("upload fields = %q %q", assetField, fileField)
	}
}

func TestSaveScriptBindsComponent(t *testing.T) {
	e := startEditor(t, Config{})
	dispatch(t, e, "spawnModel", `{"assetId":"m1"}`)
	id := level(e).Components[0].ID

	dispatch(t, e, "saveScript", `{"filename":"patrol.lua","content":"-- noop","componentId":"`+id+`"}`)
	if got := level(e).Components[0].ScriptPath; got != "scripts/patrol.lua" {
		t.Errorf("scriptPath = %q", got)
	}

	dispatchRejected(t, e, "saveScript", `{"filename":"x.lua","content":"","componentId":"ghost"}`)
	// Detached save without a component is fine.
	dispatch(t, e, "saveScript", `{"filename":"global.lua","content":"-- noop"}`)
}

func TestUnknownCommandRejected(t *testing.T) {
	e := startEditor(t, Config{})
	dispatchRejected(t, e, "deleteEverything", `{}`)
}

func TestRejectedCommandsStillAck(t *testing.T) {
	e := startEditor(t, Config{})

	// Resolution failure, truncated arguments, unknown name: all three come
	// back as the fixed acknowledgement, never as an error.
	dispatchRejected(t, e, "spawnModel", `{"assetId":"nope"}`)
	dispatchRejected(t, e, "spawnModel", `{"assetId":`)
	dispatchRejected(t, e, "deleteEverything", `{}`)

	if len(level(e).Components) != 0 || len(e.Live.Models) != 0 {
		t.Errorf("rejected commands changed state: components = %d, models = %d",
			len(level(e).Components), len(e.Live.Models))
	}
}

func TestTransformIdempotent(t *testing.T) {
	e := startEditor(t, Config{})
	dispatch(t, e, "spawnModel", `{"assetId":"m1","position":[1,2,3]}`)
	id := level(e).Components[0].ID

	move := `{"componentId":"` + id + `","translation":[5,0,5],"rotation":[0,45,0],"scale":[2,2,2]}`
	dispatch(t, e, "transformObject", move)
	first := level(e).Components[0].Generic

	dispatch(t, e, "transformObject", move)
	if got := level(e).Components[0].Generic; got != first {
		t.Errorf("second identical transform changed the document: %+v -> %+v", first, got)
	}
	m := e.Live.FindModel(id)
	if m.Transform.Position != first.Position || m.Transform.Rotation != first.Rotation || m.Transform.Scale != first.Scale {
		t.Errorf("live transform diverged: %+v", m.Transform)
	}
}

func TestDurableMutationsSchedulePersistence(t *testing.T) {
	saves := make(chan *saved.Document, 8)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var env struct {
			SavedData *saved.Document `json:"savedData"`
		}
		json.Unmarshal(body, &env)
		saves <- env.SavedData
	}))
	defer srv.Close()

	sched := remote.NewScheduler(remote.NewClient(srv.URL))
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go sched.Run(ctx)

	e := startEditor(t, Config{ProjectID: "p1", Scheduler: sched})
	dispatch(t, e, "spawnModel", `{"assetId":"m1"}`)

	select {
	case doc := <-saves:
		if len(doc.Levels) == 0 || len(doc.Levels[0].Components) != 1 {
			t.Errorf("persisted snapshot = %+v", doc)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no persistence write arrived")
	}
}

func TestSnapshotIsolatedFromLaterCommands(t *testing.T) {
	e := startEditor(t, Config{})
	dispatch(t, e, "spawnModel", `{"assetId":"m1"}`)

	snapshot := e.Doc.Clone()
	dispatch(t, e, "spawnModel", `{"assetId":"m2"}`)

	if n := len(snapshot.ActiveLevel().Components); n != 1 {
		t.Errorf("snapshot grew to %d components", n)
	}
	if n := len(level(e).Components); n != 2 {
		t.Errorf("document has %d components", n)
	}
}

func TestHydrateRebuildsLiveScene(t *testing.T) {
	doc := testDocument()
	lvl := doc.ActiveLevel()
	lvl.Append(&saved.Component{
		ID: "c1", Kind: saved.KindModel, AssetID: "m1",
		Generic: saved.DefaultGeneric("Chair"),
	})
	lvl.Append(&saved.Component{
		ID: "c2", Kind: saved.KindPointLight,
		Generic: saved.DefaultGeneric("Lamp"),
		Light:   &saved.LightProperties{Color: [3]float32{1, 0, 0}, Intensity: 2, Radius: 5},
	})
	lvl.Append(&saved.Component{
		ID: "c3", Kind: saved.KindLandscape, AssetID: "land-1",
		Generic: saved.DefaultGeneric("Terrain"),
	})
	sky := saved.DefaultSkyConfig()
	lvl.Sky = &sky
	water := saved.DefaultWaterConfig()
	lvl.Water = &water

	backend := renderer.NewHeadless()
	e := New(Config{Document: doc, Backend: backend})
	if err := e.Hydrate(context.Background()); err != nil {
		t.Fatalf("hydrate: %v", err)
	}

	if e.Live.FindModel("c1") == nil {
		t.Error("model not hydrated")
	}
	if l := e.Live.FindPointLight("c2"); l == nil || l.Intensity != 2 {
		t.Errorf("light = %+v", l)
	}
	if e.Live.FindLandscape("c3") == nil {
		t.Error("landscape not hydrated")
	}
	if e.Live.Sky == nil {
		t.Error("sky not hydrated")
	}
	if len(e.Live.WaterPlanes) != 1 {
		t.Errorf("water planes = %d", len(e.Live.WaterPlanes))
	}
}

func TestRenderFrameThroughDispatcher(t *testing.T) {
	backend := renderer.NewHeadless()
	e := startEditor(t, Config{Backend: backend})

	if err := e.RenderFrame(context.Background()); err != nil {
		t.Fatalf("frame: %v", err)
	}
	if backend.Frames() != 1 {
		t.Errorf("frames = %d", backend.Frames())
	}
}

func TestSceneHandleHeldTwicePanics(t *testing.T) {
	e := New(Config{Backend: renderer.NewHeadless()})
	e.acquire()
	defer func() {
		if recover() == nil {
			t.Fatal("second acquire must panic while the handle is held")
		}
	}()
	e.acquire()
}
