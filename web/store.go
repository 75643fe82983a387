package web

import (
	"bytes"
	"context"
	"path"

	"github.com/glimt/levelforge/saved"
	"github.com/glimt/levelforge/vfs"
)

const documentFileName = "project.json"

// Store keeps project documents and their asset files in the local project
// directory tree: one directory per project, the document as project.json
// next to the models/, textures/, heightmaps/ and scripts/ subdirectories.
type Store struct {
	root vfs.Directory
}

func NewStore(root vfs.Directory) *Store {
	return &Store{root: root}
}

// Dir resolves (creating if needed) a project's directory.
func (s *Store) Dir(projectID string) (vfs.Directory, error) {
	return vfs.DirectoryEnsureDirectory(s.root, path.Base(projectID))
}

// SubDir resolves a project's asset subdirectory, e.g. "models".
func (s *Store) SubDir(projectID, name string) (vfs.Directory, error) {
	dir, err := s.Dir(projectID)
	if err != nil {
		return nil, err
	}
	return vfs.DirectoryEnsureDirectory(dir, name)
}

// Load reads a project's document. A project without one starts empty.
func (s *Store) Load(projectID string) (*saved.Document, error) {
	dir, err := s.Dir(projectID)
	if err != nil {
		return nil, err
	}
	data, err := vfs.DirectoryReadFile(dir, documentFileName)
	if err != nil {
		return saved.NewDocument(), nil
	}
	return saved.Unmarshal(data)
}

// SaveProject writes a project's document. Implements remote.Saver, so a
// self-hosted server persists through the same scheduler path a remote
// backend would.
func (s *Store) SaveProject(ctx context.Context, projectID string, doc *saved.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dir, err := s.Dir(projectID)
	if err != nil {
		return err
	}
	data, err := doc.Marshal()
	if err != nil {
		return err
	}
	return vfs.DirectoryWriteFile(dir, documentFileName, bytes.NewReader(data))
}
