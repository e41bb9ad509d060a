package fs

import (
	"os"

	"go.uber.org/fx"
)

// Module is the Fx module for this package.
var Module = fx.Provide(New)

// SlspFS will wrap the filesystem operations used by slsp.
type SlspFS interface {
	MkdirAll(path string) error
	FileExists(path string) (bool, error)
	ReadFile(name string) ([]byte, error)
}

type fsImpl struct{}

// New creates a new SlspFS.
func New() SlspFS {
	return fsImpl{}
}

// MkdirAll creates a directory and all its parents.
func (fsImpl) MkdirAll(path string) error { return os.MkdirAll(path, os.ModePerm) }

func (fsImpl) FileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return !info.IsDir(), nil
}

func (fsImpl) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}
