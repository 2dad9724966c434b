package reconcile

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/Bitropy/ccagents/pkg/errors"
	"github.com/Bitropy/ccagents/pkg/types"
)

// replaceLink points linkPath at target, replacing whatever is there.
// The new symlink is created under a temporary name and renamed over the
// old path, so there is no window where neither the old nor the new link
// exists. The temporary link is removed on every failure path.
func replaceLink(filesystem types.FS, target, linkPath string) error {
	dir := filepath.Dir(linkPath)
	if err := filesystem.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", dir)
	}

	tmpPath := filepath.Join(dir, fmt.Sprintf(".%s.tmp-%d", filepath.Base(linkPath), os.Getpid()))
	_ = filesystem.Remove(tmpPath)

	if err := filesystem.Symlink(target, tmpPath); err != nil {
		return errors.Wrapf(err, errors.ErrSymlinkCreate,
			"failed to create symlink %s -> %s", linkPath, target)
	}
	if err := filesystem.Rename(tmpPath, linkPath); err != nil {
		_ = filesystem.Remove(tmpPath)
		return errors.Wrapf(err, errors.ErrSymlinkCreate,
			"failed to replace symlink %s", linkPath)
	}
	return nil
}

// removeLink removes the symlink at linkPath. A missing link is a no-op.
// Refuses to delete anything that is not a symlink so a real file sitting
// in the active directory is never destroyed.
func removeLink(filesystem types.FS, linkPath string) error {
	info, err := filesystem.Lstat(linkPath)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) || os.IsNotExist(err) {
			return nil
		}
		return errors.Wrapf(err, errors.ErrIO, "failed to inspect %s", linkPath)
	}
	if info.Mode()&os.ModeSymlink == 0 {
		return errors.Newf(errors.ErrNotSymlink, "%s is not a symlink", linkPath)
	}
	if err := filesystem.Remove(linkPath); err != nil {
		return errors.Wrapf(err, errors.ErrIO, "failed to remove symlink %s", linkPath)
	}
	return nil
}
