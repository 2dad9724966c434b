// Package probe inspects the managed storage directory and the active
// symlink directory. It is strictly read-only: absence of a file or link
// is reported as a normal result value, never as an error.
package probe

import (
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/Bitropy/ccagents/pkg/errors"
	"github.com/Bitropy/ccagents/pkg/paths"
	"github.com/Bitropy/ccagents/pkg/types"
)

// Prober reports on-disk facts for one agent
type Prober struct {
	fs    types.FS
	paths *paths.Paths
}

// New creates a Prober over the given filesystem and project layout
func New(filesystem types.FS, p *paths.Paths) *Prober {
	return &Prober{fs: filesystem, paths: p}
}

// Probe gathers the filesystem facts for one agent. Only genuine access
// failures (permission problems and the like) return an error; "does not
// exist" is a normal ProbeResult.
func (pr *Prober) Probe(agent types.Agent) (types.ProbeResult, error) {
	var result types.ProbeResult

	storagePath := pr.paths.StoragePath(agent)
	exists, err := pr.exists(pr.fs.Stat, storagePath)
	if err != nil {
		return result, err
	}
	result.StorageExists = exists

	linkPath := pr.paths.LinkPath(agent)
	info, err := pr.lstat(linkPath)
	if err != nil {
		return result, err
	}
	if info == nil {
		return result, nil
	}

	result.LinkExists = true
	result.LinkIsSymlink = info.Mode()&os.ModeSymlink != 0
	if !result.LinkIsSymlink {
		return result, nil
	}

	target, err := pr.fs.Readlink(linkPath)
	if err != nil {
		return result, errors.Wrapf(err, errors.ErrIO, "failed to read symlink %s", linkPath)
	}
	result.LinkTarget = target

	// Relative targets resolve against the directory holding the link
	resolved := target
	if !filepath.IsAbs(resolved) {
		resolved = filepath.Join(pr.paths.ActiveDir(), resolved)
	}
	resolved = filepath.Clean(resolved)

	targetExists, err := pr.exists(pr.fs.Stat, resolved)
	if err != nil {
		return result, err
	}
	result.LinkResolves = targetExists && resolved == filepath.Clean(storagePath)

	return result, nil
}

// lstat returns nil info when the path does not exist
func (pr *Prober) lstat(path string) (fs.FileInfo, error) {
	info, err := pr.fs.Lstat(path)
	if err != nil {
		if isNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, errors.ErrIO, "failed to inspect %s", path)
	}
	return info, nil
}

func (pr *Prober) exists(stat func(string) (fs.FileInfo, error), path string) (bool, error) {
	if _, err := stat(path); err != nil {
		if isNotExist(err) {
			return false, nil
		}
		return false, errors.Wrapf(err, errors.ErrIO, "failed to inspect %s", path)
	}
	return true, nil
}

func isNotExist(err error) bool {
	return stderrors.Is(err, fs.ErrNotExist) || os.IsNotExist(err)
}
