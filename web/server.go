// Package web exposes the editing engine over HTTP: project document reads
// and writes, the command endpoint chat assistants post to, asset uploads
// and the status websocket.
package web

import (
	"context"
	"log"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/glimt/levelforge/config"
	"github.com/glimt/levelforge/editor"
	"github.com/glimt/levelforge/remote"
	"github.com/glimt/levelforge/renderer"
	"github.com/glimt/levelforge/status"
	"github.com/glimt/levelforge/vfs"
)

type Server struct {
	cfg   *Config
	store *Store
	sched *remote.Scheduler

	// uploads forwards generated assets to the remote backend; nil when
	// self-hosted (the local store is the destination).
	uploads *remote.Client

	mu       sync.Mutex
	sessions map[string]*editor.Editor

	ctx    context.Context
	cancel context.CancelFunc
}

type Config struct {
	ProjectsDir string
	WebDir      string
	APIBase     string
	Persistence config.Persistence

	// FrameInterval paces each session's headless render loop. Zero
	// disables frames.
	FrameInterval time.Duration
}

func NewServer(cfg Config) *Server {
	store := NewStore(vfs.NewDirectoryDriver(cfg.ProjectsDir))

	var saver remote.Saver = store
	var uploads *remote.Client
	if cfg.APIBase != "" {
		uploads = remote.NewClient(cfg.APIBase)
		saver = uploads
	}
	sched := remote.NewScheduler(saver).
		WithRetry(cfg.Persistence.MaxAttempts, time.Duration(cfg.Persistence.RetryBackoff))

	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		cfg:      &cfg,
		store:    store,
		sched:    sched,
		uploads:  uploads,
		sessions: make(map[string]*editor.Editor),
		ctx:      ctx,
		cancel:   cancel,
	}
	go sched.Run(ctx)
	return s
}

func (s *Server) Close() {
	s.cancel()
	s.sched.Wait()
}

// session returns the running editor for a project, starting one on first
// use: document loaded from the store, live scene hydrated, dispatcher
// goroutine running for the life of the server.
func (s *Server) session(projectID string) (*editor.Editor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.sessions[projectID]; ok {
		return e, nil
	}

	doc, err := s.store.Load(projectID)
	if err != nil {
		return nil, err
	}
	files, err := s.store.SubDir(projectID, "models")
	if err != nil {
		return nil, err
	}

	e := editor.New(editor.Config{
		ProjectID:   projectID,
		ProjectPath: projectID,
		Document:    doc,
		Backend:     renderer.NewHeadless(),
		Scheduler:   s.sched,
		Uploads:     s.uploads,
		Files:       files,
	})
	if err := e.Hydrate(s.ctx); err != nil {
		return nil, err
	}
	go e.Run(s.ctx)
	if s.cfg.FrameInterval > 0 {
		go e.RunRenderLoop(s.ctx, s.cfg.FrameInterval)
	}

	s.sessions[projectID] = e
	status.Info("session started for project %s", projectID)
	return e, nil
}

func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/api/projects/{id}", s.HandlerGetProject).Methods("GET")
	r.HandleFunc("/api/projects/{id}", s.HandlerPatchProject).Methods("PATCH")
	r.HandleFunc("/api/projects/{id}/commands", s.HandlerCommand).Methods("POST")
	r.HandleFunc("/api/projects/{id}/dump", s.HandlerDumpProject).Methods("GET")
	r.HandleFunc("/api/save-heightmap", s.HandlerSaveHeightmap).Methods("POST")
	r.HandleFunc("/api/upload-model", s.HandlerUploadModel).Methods("POST")
	r.HandleFunc("/api/upload-texture", s.HandlerUploadTexture).Methods("POST")
	r.HandleFunc("/api/save-script", s.HandlerSaveScript).Methods("POST")
	r.HandleFunc("/ws/status", status.Handler)

	r.PathPrefix("/").Handler(http.FileServer(http.Dir(s.cfg.WebDir)))
	return r
}

// StartServer runs the editor API until the listener fails.
func StartServer(addr string, cfg Config) error {
	s := NewServer(cfg)
	defer s.Close()

	h := handlers.LoggingHandler(os.Stdout, handlers.RecoveryHandler()(s.Router()))

	log.Printf("[web] Starting server %v", addr)
	return http.ListenAndServe(addr, h)
}
