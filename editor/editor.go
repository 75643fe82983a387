// Package editor is the command dispatcher: it owns both representations of
// the scene (the durable document and the live render state), applies chat
// assistant commands to them atomically and schedules persistence snapshots.
package editor

import (
	"context"
	"log"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"

	"github.com/glimt/levelforge/command"
	"github.com/glimt/levelforge/remote"
	"github.com/glimt/levelforge/renderer"
	"github.com/glimt/levelforge/saved"
	"github.com/glimt/levelforge/status"
	"github.com/glimt/levelforge/utils"
	"github.com/glimt/levelforge/vfs"
)

// Config wires one editing session.
type Config struct {
	ProjectID   string
	ProjectPath string

	Document *saved.Document
	Backend  renderer.Backend

	// Scheduler receives a document snapshot after every durable mutation.
	// Optional; without it commands still apply, nothing persists.
	Scheduler *remote.Scheduler

	// Uploads carries detached side effects (heightmap images, scripts) to
	// the hosting backend. Optional.
	Uploads *remote.Client

	// Files is the local project store model assets are read from. Optional;
	// without it models get placeholder objects.
	Files vfs.Directory
}

// Editor owns the scene. All mutation goes through Run's goroutine; the busy
// flag is a fail-fast backstop against anything else touching the scene while
// a command or a frame holds it.
type Editor struct {
	projectID   string
	projectPath string

	Doc  *saved.Document
	Live *renderer.State

	backend renderer.Backend
	sched   *remote.Scheduler
	uploads *remote.Client
	files   vfs.Directory

	names utils.RandomNameGenerator

	busy  int32
	calls chan *request
}

type request struct {
	ctx context.Context

	// call is nil for a render-frame request.
	call *command.Call

	resp chan error
}

func New(cfg Config) *Editor {
	doc := cfg.Document
	if doc == nil {
		doc = saved.NewDocument()
	}
	return &Editor{
		projectID:   cfg.ProjectID,
		projectPath: cfg.ProjectPath,
		Doc:         doc,
		Live:        renderer.NewState(),
		backend:     cfg.Backend,
		sched:       cfg.Scheduler,
		uploads:     cfg.Uploads,
		files:       cfg.Files,
		calls:       make(chan *request),
	}
}

// Run serializes all scene access until ctx is cancelled. Call it on its own
// goroutine before dispatching anything.
func (e *Editor) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case req := <-e.calls:
			if req.call == nil {
				req.resp <- e.frame(req.ctx)
			} else {
				req.resp <- e.execute(req.ctx, *req.call)
			}
		}
	}
}

// ExecuteToolCall dispatches one chat transport envelope.
func (e *Editor) ExecuteToolCall(ctx context.Context, tc command.ToolCall) (string, error) {
	return e.ExecuteCall(ctx, tc.Call())
}

// ExecuteCall dispatches one command and blocks until it has been applied to
// both scene representations. The caller always receives the fixed
// acknowledgement: a rejected or failed command is logged and broadcast but
// never surfaces as an error, the caller just observes no visible change.
// The only error paths are transport-level (context cancellation).
func (e *Editor) ExecuteCall(ctx context.Context, call command.Call) (string, error) {
	req := &request{ctx: ctx, call: &call, resp: make(chan error, 1)}
	select {
	case e.calls <- req:
	case <-ctx.Done():
		return "", ctx.Err()
	}
	select {
	case err := <-req.resp:
		if err != nil {
			return "", err
		}
		return command.Ack, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// RenderFrame draws one frame through the dispatcher goroutine, so frames
// and commands never overlap on the live state.
func (e *Editor) RenderFrame(ctx context.Context) error {
	req := &request{ctx: ctx, resp: make(chan error, 1)}
	select {
	case e.calls <- req:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-req.resp:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RunRenderLoop drives frames at the given interval until ctx is cancelled.
func (e *Editor) RunRenderLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := e.RenderFrame(ctx); err != nil && ctx.Err() == nil {
				log.Printf("[editor] frame: %v", err)
			}
		}
	}
}

// acquire takes the exclusive scene handle. Only the Run goroutine ever
// calls it, so a failed swap means the single-owner invariant is broken and
// the process must not keep mutating a shared scene.
func (e *Editor) acquire() {
	if !atomic.CompareAndSwapInt32(&e.busy, 0, 1) {
		panic("editor: scene handle already held")
	}
}

func (e *Editor) release() {
	atomic.StoreInt32(&e.busy, 0)
}

func (e *Editor) frame(ctx context.Context) error {
	e.acquire()
	defer e.release()
	return e.backend.RenderFrame(ctx, e.Live)
}

func (e *Editor) execute(ctx context.Context, call command.Call) error {
	cmd, err := command.Decode(call)
	if err != nil {
		// Unknown names and malformed arguments are ignored, not errors:
		// the caller still gets the fixed acknowledgement.
		log.Printf("[editor] command %s rejected: %v", call.Name, err)
		status.Error("command %s rejected: %v", call.Name, err)
		return nil
	}

	e.acquire()
	defer e.release()

	id, durable, err := e.apply(ctx, cmd)
	if err != nil {
		log.Printf("[editor] command %s failed: %v", call.Name, err)
		status.Error("command %s failed: %v", call.Name, err)
		return nil
	}

	status.CommandApplied(call.Name, id)
	if durable && e.sched != nil {
		e.sched.Schedule(e.projectID, e.Doc.Clone())
	}
	return nil
}

// apply routes a decoded command to its effect. It returns the id of the
// component the command touched (empty for environment singletons) and
// whether the document changed.
func (e *Editor) apply(ctx context.Context, cmd command.Command) (string, bool, error) {
	switch c := cmd.(type) {
	case *command.TransformObjectArgs:
		return e.applyTransform(c)
	case *command.SpawnModelArgs:
		return e.applySpawnModel(ctx, c)
	case *command.SpawnPrimitiveArgs:
		return e.applySpawnPrimitive(ctx, c)
	case *command.SpawnPointLightArgs:
		return e.applySpawnPointLight(c)
	case *command.SpawnCollectableArgs:
		return e.applySpawnCollectable(ctx, c)
	case *command.SpawnNPCArgs:
		return e.applySpawnNPC(ctx, c)
	case *command.ConfigureWaterArgs:
		return e.applyConfigureWater(ctx, c)
	case *command.ConfigureSkyArgs:
		return e.applyConfigureSky(ctx, c)
	case *command.ConfigureTreesArgs:
		return e.applyConfigureTrees(ctx, c)
	case *command.ConfigureGrassArgs:
		return e.applyConfigureGrass(ctx, c)
	case *command.GenerateHeightmapArgs:
		return e.applyGenerateHeightmap(ctx, c)
	case *command.SaveScriptArgs:
		return e.applySaveScript(c)
	}
	return "", false, errors.Errorf("No effect for %T", cmd)
}

// assetReader opens a model asset from the local project store. A missing
// file is not an error; the backend substitutes a placeholder.
func (e *Editor) assetReader(fileName string) (*vfs.ReaderCloser, error) {
	if e.files == nil || fileName == "" {
		return nil, nil
	}
	f, err := vfs.DirectoryGetFile(e.files, fileName)
	if err != nil {
		log.Printf("[editor] asset %q not in project store: %v", fileName, err)
		return nil, nil
	}
	r, err := vfs.OpenFileAndGetReader(f, true)
	if err != nil {
		return nil, err
	}
	return &vfs.ReaderCloser{SectionReader: r, File: f}, nil
}
