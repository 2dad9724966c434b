package types

import (
	"context"
	"io/fs"
)

// FS is the filesystem interface used throughout ccagents. The OS
// implementation lives in pkg/filesystem; an afero-backed one is available
// for tests.
type FS interface {
	// File operations
	Stat(name string) (fs.FileInfo, error)
	Lstat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error

	// Directory operations
	MkdirAll(path string, perm fs.FileMode) error
	ReadDir(name string) ([]fs.DirEntry, error)

	// Symlink operations
	Symlink(oldname, newname string) error
	Readlink(name string) (string, error)

	// Other operations
	Remove(name string) error
	Rename(oldpath, newpath string) error
}

// Downloader fetches agent content from a remote source. Implementations
// must reject non-direct-file links with an UNSUPPORTED_SOURCE error
// instead of attempting a fetch.
type Downloader interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Confirmer asks the user a yes/no question. Consumed by clean (without
// --force) and import (without --all).
type Confirmer interface {
	Confirm(message string) bool
}
