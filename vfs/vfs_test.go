package vfs

import (
	"bytes"
	"testing"
)

func TestDirectoryWriteReadFile(t *testing.T) {
	root := NewDirectoryDriver(t.TempDir())

	if err := DirectoryWriteFile(root, "scene.json", bytes.NewReader([]byte(`{"levels":[]}`))); err != nil {
		t.Fatalf("write: %v", err)
	}
	data, err := DirectoryReadFile(root, "scene.json")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != `{"levels":[]}` {
		t.Errorf("content = %q", data)
	}

	// Overwrite keeps a single file.
	if err := DirectoryWriteFile(root, "scene.json", bytes.NewReader([]byte(`{}`))); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	names, err := root.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 1 || names[0] != "scene.json" {
		t.Errorf("listing = %v", names)
	}
}

func TestEnsureDirectory(t *testing.T) {
	root := NewDirectoryDriver(t.TempDir())

	sub, err := DirectoryEnsureDirectory(root, "assets")
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if err := DirectoryWriteFile(sub, "chair.glb", bytes.NewReader([]byte("glb"))); err != nil {
		t.Fatalf("write in sub: %v", err)
	}

	// Second ensure resolves the same directory.
	again, err := DirectoryEnsureDirectory(root, "assets")
	if err != nil {
		t.Fatalf("re-ensure: %v", err)
	}
	data, err := DirectoryReadFile(again, "chair.glb")
	if err != nil || string(data) != "glb" {
		t.Errorf("read back = %q, %v", data, err)
	}
}

func TestDirectoryReadMissing(t *testing.T) {
	root := NewDirectoryDriver(t.TempDir())
	if _, err := DirectoryReadFile(root, "nope.bin"); err == nil {
		t.Error("reading missing file should fail")
	}
}
