// Package paths provides centralized path handling for ccagents.
// All agent paths are derived from the project root: canonical content
// lives in the storage directory and enabled agents are exposed through
// symlinks in the active directory.
package paths

import (
	"os"
	"path/filepath"

	"github.com/Bitropy/ccagents/pkg/errors"
	"github.com/Bitropy/ccagents/pkg/types"
)

// Default directory layout relative to the project root
const (
	// DefaultStorageDir holds canonical, committed agent content
	DefaultStorageDir = ".ccagents"

	// DefaultActiveDir is scanned by the consuming tool; it holds one
	// symlink per enabled agent
	DefaultActiveDir = ".claude/agents"

	// ConfigFileName is the declarative agent list
	ConfigFileName = ".agents.json"

	// SettingsFileName is the optional tool settings file
	SettingsFileName = ".ccagents.toml"
)

// Layout overrides the default directory names. Zero values keep the
// defaults.
type Layout struct {
	StorageDir string
	ActiveDir  string
}

// Paths resolves all ccagents locations for one project checkout
type Paths struct {
	root       string
	storageDir string
	activeDir  string
}

// New creates a Paths instance rooted at root. An empty root resolves to
// the current working directory.
func New(root string, layout Layout) (*Paths, error) {
	if root == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrIO, "failed to get current directory")
		}
		root = cwd
	}

	storageDir := layout.StorageDir
	if storageDir == "" {
		storageDir = DefaultStorageDir
	}
	activeDir := layout.ActiveDir
	if activeDir == "" {
		activeDir = DefaultActiveDir
	}

	return &Paths{
		root:       root,
		storageDir: storageDir,
		activeDir:  activeDir,
	}, nil
}

// Root returns the project root
func (p *Paths) Root() string {
	return p.root
}

// StorageDir returns the absolute path of the managed storage directory
func (p *Paths) StorageDir() string {
	return filepath.Join(p.root, p.storageDir)
}

// ActiveDir returns the absolute path of the active symlink directory
func (p *Paths) ActiveDir() string {
	return filepath.Join(p.root, filepath.FromSlash(p.activeDir))
}

// ConfigFile returns the absolute path of .agents.json
func (p *Paths) ConfigFile() string {
	return filepath.Join(p.root, ConfigFileName)
}

// SettingsFile returns the absolute path of .ccagents.toml
func (p *Paths) SettingsFile() string {
	return filepath.Join(p.root, SettingsFileName)
}

// StoragePath returns the absolute path of the agent's canonical content.
// Local sources resolve relative to the project root unless already
// absolute; GitHub sources always live under the storage directory.
func (p *Paths) StoragePath(agent types.Agent) string {
	switch agent.Source.Kind {
	case types.SourceLocal:
		if filepath.IsAbs(agent.Source.Value) {
			return agent.Source.Value
		}
		return filepath.Join(p.root, agent.Source.Value)
	default:
		return filepath.Join(p.StorageDir(), agent.Name)
	}
}

// LinkPath returns the absolute path of the agent's active symlink
func (p *Paths) LinkPath(agent types.Agent) string {
	return filepath.Join(p.ActiveDir(), agent.Name)
}

// RelativeLinkTarget returns the symlink target for the agent, expressed
// relative to the active directory so checkouts stay portable across
// machines. Falls back to the absolute storage path when no relative form
// exists (storage outside the project on another volume).
func (p *Paths) RelativeLinkTarget(agent types.Agent) string {
	storage := p.StoragePath(agent)
	rel, err := filepath.Rel(p.ActiveDir(), storage)
	if err != nil {
		return storage
	}
	return rel
}

// EnsureDirs creates the storage and active directories when missing
func (p *Paths) EnsureDirs(fs types.FS) error {
	for _, dir := range []string{p.StorageDir(), p.ActiveDir()} {
		if err := fs.MkdirAll(dir, 0755); err != nil {
			return errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", dir)
		}
	}
	return nil
}
