// Package vfs abstracts the project file store: scene documents, model and
// texture assets, heightmaps and scripts all live behind these interfaces
// so the web layer does not care where a project keeps its files.
package vfs

import (
	"io"
)

// Element carries only metadata until the file is opened.
type Element interface {
	Init(parent Directory)
	Name() string
	IsDirectory() bool
}

type File interface {
	Element
	Size() int64
	Open(readonly bool) error
	Close() error
	Reader() (*io.SectionReader, error)
	Copy(src io.Reader) error
}

type Directory interface {
	Element
	List() ([]string, error)
	GetElement(name string) (Element, error)
	Add(e Element) error
	Remove(name string) error
}
