package remote

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/glimt/levelforge/saved"
)

func TestSaveProjectPatch(t *testing.T) {
	var gotMethod, gotPath string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotBody, _ = io.ReadAll(r.Body)
	}))
	defer srv.Close()

	doc := saved.NewDocument()
	doc.Models = append(doc.Models, saved.ModelAsset{ID: "m1", FileName: "chair.glb"})
	if err := NewClient(srv.URL).SaveProject(context.Background(), "p42", doc); err != nil {
		t.Fatalf("save: %v", err)
	}

	if gotMethod != http.MethodPatch || gotPath != "/api/projects/p42" {
		t.Errorf("request = %s %s", gotMethod, gotPath)
	}
	var env projectEnvelope
	if err := json.Unmarshal(gotBody, &env); err != nil {
		t.Fatalf("body: %v", err)
	}
	if env.SavedData == nil || len(env.SavedData.Models) != 1 || env.SavedData.Models[0].ID != "m1" {
		t.Errorf("savedData = %+v", env.SavedData)
	}
}

func TestFetchProject(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/projects/p1" {
			t.Errorf("request = %s %s", r.Method, r.URL.Path)
		}
		io.WriteString(w, `{"savedData":{"models":[{"id":"m7","fileName":"rock.glb"}]}}`)
	}))
	defer srv.Close()

	doc, err := NewClient(srv.URL).FetchProject(context.Background(), "p1")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if m := doc.FindModel("m7"); m == nil || m.FileName != "rock.glb" {
		t.Errorf("model m7 = %+v", m)
	}
}

func TestSaveProjectRejectsBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	if err := NewClient(srv.URL).SaveProject(context.Background(), "p1", saved.NewDocument()); err == nil {
		t.Error("expected error on 502")
	}
}

func TestUploadHeightmapMultipart(t *testing.T) {
	var fields map[string]string
	var fileName string
	var fileData []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/save-heightmap" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		fields = map[string]string{
			"projectPath":      r.FormValue("projectPath"),
			"landscapeAssetId": r.FormValue("landscapeAssetId"),
			"filename":         r.FormValue("filename"),
		}
		f, fh, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		defer f.Close()
		fileName = fh.Filename
		fileData, _ = io.ReadAll(f)
	}))
	defer srv.Close()

	png := []byte{0x89, 'P', 'N', 'G'}
	err := NewClient(srv.URL).UploadHeightmap(context.Background(),
		"projects/p1", "land-1", "heightmap_land-1.png", png)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if fields["projectPath"] != "projects/p1" || fields["landscapeAssetId"] != "land-1" ||
		fields["filename"] != "heightmap_land-1.png" {
		t.Errorf("fields = %v", fields)
	}
	if fileName != "heightmap_land-1.png" || string(fileData) != string(png) {
		t.Errorf("file = %q (%d bytes)", fileName, len(fileData))
	}
}

func TestSchedulerCoalescesWrites(t *testing.T) {
	release := make(chan struct{})
	var mu sync.Mutex
	var bodies [][]byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		bodies = append(bodies, body)
		first := len(bodies) == 1
		mu.Unlock()
		if first {
			<-release
		}
	}))
	defer srv.Close()

	sched := NewScheduler(NewClient(srv.URL))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sched.Run(ctx)

	snapshot := func(name string) *saved.Document {
		doc := saved.NewDocument()
		doc.Models = append(doc.Models, saved.ModelAsset{ID: name})
		return doc
	}

	sched.Schedule("p1", snapshot("v1"))
	// Wait for the worker to be stuck inside the first request.
	deadline := time.Now().Add(2 * time.Second)
	for {
		mu.Lock()
		n := len(bodies)
		mu.Unlock()
		if n == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("first save never started")
		}
		time.Sleep(time.Millisecond)
	}

	// These three coalesce into one trailing write carrying v4.
	sched.Schedule("p1", snapshot("v2"))
	sched.Schedule("p1", snapshot("v3"))
	sched.Schedule("p1", snapshot("v4"))
	close(release)

	deadline = time.Now().Add(2 * time.Second)
	for {
		mu.Lock()
		n := len(bodies)
		mu.Unlock()
		if n >= 2 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("coalesced save never arrived")
		}
		time.Sleep(time.Millisecond)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(bodies) != 2 {
		t.Fatalf("got %d saves, want 2", len(bodies))
	}
	var env projectEnvelope
	if err := json.Unmarshal(bodies[1], &env); err != nil {
		t.Fatal(err)
	}
	if len(env.SavedData.Models) != 1 || env.SavedData.Models[0].ID != "v4" {
		t.Errorf("trailing save carries %+v, want v4", env.SavedData.Models)
	}
}

func TestSchedulerRetriesBounded(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	sched := NewScheduler(NewClient(srv.URL))
	sched.backoff = time.Millisecond
	ctx, cancel := context.WithCancel(context.Background())
	go sched.Run(ctx)

	sched.Schedule("p1", saved.NewDocument())

	deadline := time.Now().Add(2 * time.Second)
	for atomic.LoadInt32(&calls) < defaultMaxAttempts {
		if time.Now().After(deadline) {
			t.Fatalf("calls = %d, want %d", atomic.LoadInt32(&calls), defaultMaxAttempts)
		}
		time.Sleep(time.Millisecond)
	}
	// Give it a moment to prove it stops at the bound.
	time.Sleep(20 * time.Millisecond)
	if got := atomic.LoadInt32(&calls); got != defaultMaxAttempts {
		t.Errorf("calls = %d, want exactly %d", got, defaultMaxAttempts)
	}

	cancel()
	sched.Wait()
}
