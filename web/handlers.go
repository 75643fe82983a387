package web

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"

	"github.com/glimt/levelforge/command"
	"github.com/glimt/levelforge/saved"
	"github.com/glimt/levelforge/utils"
	"github.com/glimt/levelforge/vfs"
	"github.com/glimt/levelforge/webutils"
)

type projectEnvelope struct {
	SavedData *saved.Document `json:"savedData"`
}

func (s *Server) HandlerGetProject(w http.ResponseWriter, r *http.Request) {
	projectID := mux.Vars(r)["id"]
	doc, err := s.store.Load(projectID)
	if err != nil {
		webutils.WriteError(w, err)
		return
	}
	webutils.WriteJson(w, &projectEnvelope{SavedData: doc})
}

func (s *Server) HandlerPatchProject(w http.ResponseWriter, r *http.Request) {
	projectID := mux.Vars(r)["id"]
	var env projectEnvelope
	if err := webutils.ReadJson(r, &env); err != nil {
		webutils.WriteError(w, err)
		return
	}
	if env.SavedData == nil {
		webutils.WriteError(w, errors.Errorf("Request has no savedData"))
		return
	}
	if err := s.store.SaveProject(r.Context(), projectID, env.SavedData); err != nil {
		webutils.WriteError(w, err)
		return
	}
	webutils.WriteJson(w, map[string]bool{"success": true})
}

// HandlerCommand dispatches one scene command. The body is either the chat
// transport envelope (arguments as an embedded JSON string) or the plain
// name/arguments form.
func (s *Server) HandlerCommand(w http.ResponseWriter, r *http.Request) {
	projectID := mux.Vars(r)["id"]
	body, err := io.ReadAll(r.Body)
	if err != nil {
		webutils.WriteError(w, err)
		return
	}

	call, err := decodeCall(body)
	if err != nil {
		webutils.WriteError(w, err)
		return
	}

	e, err := s.session(projectID)
	if err != nil {
		webutils.WriteErrorStatus(w, err, http.StatusInternalServerError)
		return
	}
	ack, err := e.ExecuteCall(r.Context(), call)
	if err != nil {
		webutils.WriteError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	webutils.WriteResult(w, []byte(ack))
}

func decodeCall(body []byte) (command.Call, error) {
	var tc command.ToolCall
	if err := json.Unmarshal(body, &tc); err == nil && tc.Function.Name != "" {
		return tc.Call(), nil
	}
	var call command.Call
	if err := json.Unmarshal(body, &call); err != nil {
		return command.Call{}, errors.Wrapf(err, "Failed to decode command body")
	}
	if call.Name == "" {
		return command.Call{}, errors.Errorf("Command has no name")
	}
	return call, nil
}

// HandlerDumpProject renders the running session's document for debugging.
func (s *Server) HandlerDumpProject(w http.ResponseWriter, r *http.Request) {
	projectID := mux.Vars(r)["id"]
	e, err := s.session(projectID)
	if err != nil {
		webutils.WriteErrorStatus(w, err, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/plain")
	webutils.WriteResult(w, []byte(utils.SDump(e.Doc)))
}

func (s *Server) HandlerSaveHeightmap(w http.ResponseWriter, r *http.Request) {
	projectID := r.FormValue("projectPath")
	fileName := r.FormValue("filename")
	if projectID == "" || fileName == "" {
		webutils.WriteError(w, errors.Errorf("projectPath and filename are required"))
		return
	}
	s.storeUpload(w, r, projectID, "heightmaps", fileName, nil)
}

func (s *Server) HandlerUploadModel(w http.ResponseWriter, r *http.Request) {
	projectID := r.FormValue("projectPath")
	fileName := r.FormValue("filename")
	// A model upload must parse as glTF before it enters the store; a broken
	// asset would otherwise poison every later spawn.
	s.storeUpload(w, r, projectID, "models", fileName, func(data []byte) error {
		doc := new(gltf.Document)
		if err := gltf.NewDecoder(bytes.NewReader(data)).Decode(doc); err != nil {
			return errors.Wrapf(err, "Not a valid glTF asset")
		}
		return nil
	})
}

func (s *Server) HandlerUploadTexture(w http.ResponseWriter, r *http.Request) {
	s.storeUpload(w, r, r.FormValue("projectPath"), "textures", r.FormValue("filename"), nil)
}

func (s *Server) HandlerSaveScript(w http.ResponseWriter, r *http.Request) {
	s.storeUpload(w, r, r.FormValue("projectPath"), "scripts", r.FormValue("filename"), nil)
}

// storeUpload writes one multipart file into a project asset subdirectory,
// optionally validating the payload first.
func (s *Server) storeUpload(w http.ResponseWriter, r *http.Request, projectID, subdir, fileName string, validate func([]byte) error) {
	if projectID == "" {
		webutils.WriteError(w, errors.Errorf("projectPath is required"))
		return
	}

	f, uploadName, err := webutils.FormFile(r, "file")
	if err != nil {
		webutils.WriteError(w, err)
		return
	}
	defer f.Close()
	if fileName == "" {
		fileName = uploadName
	}
	if fileName == "" || strings.Contains(fileName, "/") || strings.Contains(fileName, "\\") {
		webutils.WriteError(w, errors.Errorf("Bad file name %q", fileName))
		return
	}

	data, err := io.ReadAll(f)
	if err != nil {
		webutils.WriteError(w, err)
		return
	}
	if validate != nil {
		if err := validate(data); err != nil {
			webutils.WriteError(w, err)
			return
		}
	}

	dir, err := s.store.SubDir(projectID, subdir)
	if err != nil {
		webutils.WriteErrorStatus(w, err, http.StatusInternalServerError)
		return
	}
	if err := vfs.DirectoryWriteFile(dir, fileName, bytes.NewReader(data)); err != nil {
		webutils.WriteErrorStatus(w, err, http.StatusInternalServerError)
		return
	}
	webutils.WriteJson(w, map[string]bool{"success": true})
}
