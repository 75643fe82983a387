package vfs

import (
	"io"
	"io/ioutil"

	"github.com/pkg/errors"
)

func DirectoryGetFile(d Directory, name string) (File, error) {
	e, err := d.GetElement(name)
	if err != nil {
		return nil, err
	}
	f, ok := e.(File)
	if !ok {
		return nil, errors.Errorf("%q is not a file", name)
	}
	return f, nil
}

// DirectoryEnsureDirectory descends into (creating if needed) a child
// directory.
func DirectoryEnsureDirectory(d Directory, name string) (Directory, error) {
	if e, err := d.GetElement(name); err == nil {
		if sub, ok := e.(Directory); ok {
			return sub, nil
		}
		return nil, errors.Errorf("%q exists and is not a directory", name)
	}
	child := NewDirectoryDriver(name)
	child.Init(d)
	if err := d.Add(child); err != nil {
		return nil, err
	}
	e, err := d.GetElement(name)
	if err != nil {
		return nil, err
	}
	sub, ok := e.(Directory)
	if !ok {
		return nil, errors.Errorf("%q did not come back as a directory", name)
	}
	return sub, nil
}

// DirectoryWriteFile creates-or-truncates name inside d and fills it from
// src.
func DirectoryWriteFile(d Directory, name string, src io.Reader) error {
	f, err := DirectoryGetFile(d, name)
	if err != nil {
		nf := NewDirectoryDriverFile(name)
		nf.Init(d)
		if err := d.Add(nf); err != nil {
			return err
		}
		if f, err = DirectoryGetFile(d, name); err != nil {
			return err
		}
	}
	defer f.Close()
	return f.Copy(src)
}

// DirectoryReadFile slurps a file's contents.
func DirectoryReadFile(d Directory, name string) ([]byte, error) {
	f, err := DirectoryGetFile(d, name)
	if err != nil {
		return nil, err
	}
	if err := f.Open(true); err != nil {
		return nil, err
	}
	defer f.Close()
	r, err := f.Reader()
	if err != nil {
		return nil, err
	}
	return ioutil.ReadAll(r)
}

// ReaderCloser pairs an opened file with its reader so a consumer can stream
// the contents and release the file in one Close.
type ReaderCloser struct {
	*io.SectionReader
	File File
}

func (rc *ReaderCloser) Close() error { return rc.File.Close() }

func OpenFileAndGetReader(f File, readonly bool) (*io.SectionReader, error) {
	if err := f.Open(readonly); err != nil {
		return nil, errors.Wrapf(err, "Cannot open file %q", f.Name())
	}
	r, err := f.Reader()
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "Cannot get reader for %q", f.Name())
	}
	return r, nil
}
