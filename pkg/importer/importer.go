// Package importer discovers files present in the storage or active
// directories that have no config entry, and folds them into the config
// as new entries.
package importer

import (
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/Bitropy/ccagents/pkg/config"
	"github.com/Bitropy/ccagents/pkg/errors"
	"github.com/Bitropy/ccagents/pkg/logging"
	"github.com/Bitropy/ccagents/pkg/paths"
	"github.com/Bitropy/ccagents/pkg/types"
)

// Candidate is one unmanaged on-disk entity keyed by name. An entity found
// in both directories carries both paths; the active-directory link is the
// signal that the agent should be enabled.
type Candidate struct {
	Name string

	// StoragePath is the entity's absolute path in the storage directory,
	// empty when only the active directory holds something
	StoragePath string

	// ActivePath is the entity's absolute path in the active directory,
	// empty when only storage holds something
	ActivePath string

	// HasLink is true when the active-directory entity is a symlink
	HasLink bool

	// LinkResolves is true when that symlink points at an existing file
	LinkResolves bool

	// IsRegularFile is true when the active-directory entity is a plain
	// file rather than a symlink
	IsRegularFile bool
}

// DanglingLink reports whether the candidate is a symlink pointing nowhere
func (c Candidate) DanglingLink() bool {
	return c.HasLink && !c.LinkResolves
}

// Importable reports whether the candidate has content that can back a
// config entry
func (c Candidate) Importable() bool {
	return c.StoragePath != "" || c.IsRegularFile
}

// Discover walks the storage and active directories and returns every
// entity with no config entry, deduplicated by name and sorted for
// deterministic processing. It never mutates anything.
func Discover(filesystem types.FS, p *paths.Paths, existingNames map[string]bool) ([]Candidate, error) {
	byName := make(map[string]*Candidate)

	storageEntries, err := readDir(filesystem, p.StorageDir())
	if err != nil {
		return nil, err
	}
	for _, entry := range storageEntries {
		name := entry.Name()
		if existingNames[name] {
			continue
		}
		byName[name] = &Candidate{
			Name:        name,
			StoragePath: filepath.Join(p.StorageDir(), name),
		}
	}

	activeEntries, err := readDir(filesystem, p.ActiveDir())
	if err != nil {
		return nil, err
	}
	for _, entry := range activeEntries {
		name := entry.Name()
		if existingNames[name] {
			continue
		}
		cand := byName[name]
		if cand == nil {
			cand = &Candidate{Name: name}
			byName[name] = cand
		}
		cand.ActivePath = filepath.Join(p.ActiveDir(), name)

		if entry.Type()&os.ModeSymlink != 0 {
			cand.HasLink = true
			cand.LinkResolves = linkResolves(filesystem, p.ActiveDir(), cand.ActivePath)
		} else if entry.Type().IsRegular() {
			cand.IsRegularFile = true
		}
	}

	candidates := make([]Candidate, 0, len(byName))
	for _, cand := range byName {
		candidates = append(candidates, *cand)
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].Name < candidates[j].Name })
	return candidates, nil
}

// Import folds one candidate into the config as a new entry. A regular
// file sitting in the active directory is first moved into storage and
// replaced by a symlink, matching what sync would have produced. The
// caller is responsible for saving the config afterwards.
func Import(filesystem types.FS, p *paths.Paths, cfg *config.Config, cand Candidate) (types.Agent, error) {
	logger := logging.GetLogger("importer")

	if cfg.Get(cand.Name) != nil {
		return types.Agent{}, errors.Newf(errors.ErrAlreadyTracked, "agent %q already exists", cand.Name)
	}
	if !cand.Importable() {
		return types.Agent{}, errors.Newf(errors.ErrInvalidInput,
			"nothing to import for %q: no storage entity and no regular file", cand.Name)
	}

	storagePath := cand.StoragePath
	enabled := cand.HasLink

	if cand.IsRegularFile {
		// Adopt the file: canonical copy moves into storage, a symlink
		// takes its place in the active directory
		if storagePath == "" {
			storagePath = filepath.Join(p.StorageDir(), cand.Name)
			if err := filesystem.MkdirAll(p.StorageDir(), 0755); err != nil {
				return types.Agent{}, errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", p.StorageDir())
			}
			data, err := filesystem.ReadFile(cand.ActivePath)
			if err != nil {
				return types.Agent{}, errors.Wrapf(err, errors.ErrIO, "failed to read %s", cand.ActivePath)
			}
			if err := filesystem.WriteFile(storagePath, data, 0644); err != nil {
				return types.Agent{}, errors.Wrapf(err, errors.ErrIO, "failed to write %s", storagePath)
			}
		}
		if err := filesystem.Remove(cand.ActivePath); err != nil {
			return types.Agent{}, errors.Wrapf(err, errors.ErrIO, "failed to remove %s", cand.ActivePath)
		}
		enabled = true
	}

	relSource, err := filepath.Rel(p.Root(), storagePath)
	if err != nil {
		relSource = storagePath
	}

	agent := types.NewAgent(cand.Name, types.NewLocalSource(relSource))
	agent.Enabled = enabled

	if enabled {
		target, err := filepath.Rel(p.ActiveDir(), storagePath)
		if err != nil {
			target = storagePath
		}
		linkPath := filepath.Join(p.ActiveDir(), cand.Name)
		_ = filesystem.Remove(linkPath)
		if err := filesystem.Symlink(target, linkPath); err != nil {
			return types.Agent{}, errors.Wrapf(err, errors.ErrSymlinkCreate,
				"failed to create symlink %s -> %s", linkPath, target)
		}
	}

	if err := cfg.Add(agent); err != nil {
		return types.Agent{}, err
	}

	logger.Info().Str("agent", agent.Name).Bool("enabled", agent.Enabled).Msg("Imported unmanaged entity")
	return agent, nil
}

func readDir(filesystem types.FS, dir string) ([]fs.DirEntry, error) {
	entries, err := filesystem.ReadDir(dir)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) || os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, errors.ErrIO, "failed to read directory %s", dir)
	}
	return entries, nil
}

func linkResolves(filesystem types.FS, baseDir, linkPath string) bool {
	target, err := filesystem.Readlink(linkPath)
	if err != nil {
		return false
	}
	if !filepath.IsAbs(target) {
		target = filepath.Join(baseDir, target)
	}
	_, err = filesystem.Stat(target)
	return err == nil
}
