package vfs

import (
	"io"
	"os"
	"path"

	"github.com/pkg/errors"
)

// DirectoryDriver maps a Directory onto a filesystem directory.
type DirectoryDriver struct {
	path string
}

func NewDirectoryDriver(p string) *DirectoryDriver {
	return &DirectoryDriver{path: p}
}

func (dd *DirectoryDriver) Init(parent Directory) {
	if p, ok := parent.(*DirectoryDriver); ok {
		dd.path = path.Join(p.path, path.Base(dd.path))
	}
}

func (dd *DirectoryDriver) Name() string { return path.Base(dd.path) }

func (dd *DirectoryDriver) IsDirectory() bool { return true }

func (dd *DirectoryDriver) Path() string { return dd.path }

func (dd *DirectoryDriver) List() ([]string, error) {
	entries, err := os.ReadDir(dd.path)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to list directory %q", dd.path)
	}
	result := make([]string, 0, len(entries))
	for _, e := range entries {
		result = append(result, e.Name())
	}
	return result, nil
}

func (dd *DirectoryDriver) GetElement(name string) (Element, error) {
	p := path.Join(dd.path, name)
	s, err := os.Stat(p)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to stat %q", p)
	}
	var e Element
	if s.IsDir() {
		e = NewDirectoryDriver(p)
	} else {
		e = NewDirectoryDriverFile(p)
	}
	e.Init(dd)
	return e, nil
}

func (dd *DirectoryDriver) Add(e Element) error {
	p := path.Join(dd.path, e.Name())
	if e.IsDirectory() {
		return os.MkdirAll(p, os.ModePerm)
	}
	f, err := os.OpenFile(p, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0666)
	if err != nil {
		return errors.Wrapf(err, "Failed to create file %q", p)
	}
	return f.Close()
}

func (dd *DirectoryDriver) Remove(name string) error {
	return os.Remove(path.Join(dd.path, name))
}

type DirectoryDriverFile struct {
	path string
	f    *os.File
}

func NewDirectoryDriverFile(p string) *DirectoryDriverFile {
	return &DirectoryDriverFile{path: p}
}

func (ddf *DirectoryDriverFile) Init(parent Directory) {
	if dd, ok := parent.(*DirectoryDriver); ok {
		ddf.path = path.Join(dd.path, path.Base(ddf.path))
	}
}

func (ddf *DirectoryDriverFile) Name() string { return path.Base(ddf.path) }

func (ddf *DirectoryDriverFile) IsDirectory() bool { return false }

func (ddf *DirectoryDriverFile) Size() int64 {
	s, err := os.Stat(ddf.path)
	if err != nil {
		return 0
	}
	return s.Size()
}

func (ddf *DirectoryDriverFile) Open(readonly bool) error {
	if ddf.f != nil {
		return errors.Errorf("File %q already opened", ddf.path)
	}
	flags := os.O_RDWR
	if readonly {
		flags = os.O_RDONLY
	}
	f, err := os.OpenFile(ddf.path, flags, 0)
	if err != nil {
		return errors.Wrapf(err, "Failed to open %q", ddf.path)
	}
	ddf.f = f
	return nil
}

func (ddf *DirectoryDriverFile) Close() error {
	if ddf.f == nil {
		return nil
	}
	err := ddf.f.Close()
	ddf.f = nil
	return err
}

func (ddf *DirectoryDriverFile) Reader() (*io.SectionReader, error) {
	if ddf.f == nil {
		return nil, errors.Errorf("File %q is not opened", ddf.path)
	}
	return io.NewSectionReader(ddf.f, 0, ddf.Size()), nil
}

func (ddf *DirectoryDriverFile) Copy(src io.Reader) error {
	ddf.Close()
	f, err := os.Create(ddf.path)
	if err != nil {
		return errors.Wrapf(err, "Failed to create %q", ddf.path)
	}
	defer f.Close()
	if _, err := io.Copy(f, src); err != nil {
		return errors.Wrapf(err, "Failed to write %q", ddf.path)
	}
	return nil
}
