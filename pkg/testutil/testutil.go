// Package testutil provides helpers for building isolated ccagents
// project trees in tests. All environments live in t.TempDir and use the
// real filesystem so symlink behavior is exercised for real.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Bitropy/ccagents/pkg/config"
	"github.com/Bitropy/ccagents/pkg/filesystem"
	"github.com/Bitropy/ccagents/pkg/paths"
	"github.com/Bitropy/ccagents/pkg/types"
)

// ProjectEnv is a throwaway project root with the standard ccagents
// layout (storage dir, active dir) ready to be populated.
type ProjectEnv struct {
	Root  string
	FS    types.FS
	Paths *paths.Paths

	t *testing.T
}

// NewProjectEnv creates an isolated project under t.TempDir. The storage
// and active directories exist; the config file does not until SaveConfig
// is called.
func NewProjectEnv(t *testing.T) *ProjectEnv {
	t.Helper()

	root := t.TempDir()
	fs := filesystem.NewOS()
	p, err := paths.New(root, paths.Layout{})
	if err != nil {
		t.Fatalf("failed to create paths for %s: %v", root, err)
	}
	if err := p.EnsureDirs(fs); err != nil {
		t.Fatalf("failed to create project layout under %s: %v", root, err)
	}

	return &ProjectEnv{Root: root, FS: fs, Paths: p, t: t}
}

// SaveConfig writes cfg to the environment's config file.
func (e *ProjectEnv) SaveConfig(cfg *config.Config) {
	e.t.Helper()
	if err := cfg.Save(e.FS, e.Paths); err != nil {
		e.t.Fatalf("failed to save config: %v", err)
	}
}

// LoadConfig reads the config file back.
func (e *ProjectEnv) LoadConfig() *config.Config {
	e.t.Helper()
	cfg, err := config.Load(e.FS, e.Paths)
	if err != nil {
		e.t.Fatalf("failed to load config: %v", err)
	}
	return cfg
}

// LocalAgent creates a Local agent backed by a real file under the
// storage directory and returns it ready to be added to a config.
func (e *ProjectEnv) LocalAgent(name, content string) types.Agent {
	e.t.Helper()
	rel := filepath.Join(paths.DefaultStorageDir, name)
	WriteFile(e.t, filepath.Join(e.Root, rel), content)
	return types.NewAgent(name, types.NewLocalSource(rel))
}

// GitHubAgent creates a GitHub agent entry. The storage file is only
// written when content is non-empty, so absent-storage scenarios are easy
// to set up.
func (e *ProjectEnv) GitHubAgent(name, url, content string) types.Agent {
	e.t.Helper()
	agent := types.NewAgent(name, types.NewGitHubSource(url))
	if content != "" {
		WriteFile(e.t, e.Paths.StoragePath(agent), content)
	}
	return agent
}

// Link creates the agent's active symlink pointing at its storage file,
// using the same relative target the reconciler produces.
func (e *ProjectEnv) Link(agent types.Agent) string {
	e.t.Helper()
	link := e.Paths.LinkPath(agent)
	Symlink(e.t, e.Paths.RelativeLinkTarget(agent), link)
	return link
}

// BrokenLink creates an active symlink for the agent pointing at a
// target that does not exist.
func (e *ProjectEnv) BrokenLink(agent types.Agent) string {
	e.t.Helper()
	link := e.Paths.LinkPath(agent)
	Symlink(e.t, filepath.Join("..", "nowhere", agent.Name), link)
	return link
}

// WriteActiveFile drops a regular (non-symlink) file straight into the
// active directory, the shape import discovers.
func (e *ProjectEnv) WriteActiveFile(name, content string) string {
	e.t.Helper()
	path := filepath.Join(e.Paths.ActiveDir(), name)
	WriteFile(e.t, path, content)
	return path
}

// WriteStorageFile drops a file into the storage directory without any
// config entry, the other shape import discovers.
func (e *ProjectEnv) WriteStorageFile(name, content string) string {
	e.t.Helper()
	path := filepath.Join(e.Paths.StorageDir(), name)
	WriteFile(e.t, path, content)
	return path
}

// WriteFile creates path with content, making parent directories as
// needed.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create parent dirs for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

// Symlink creates link pointing at target, making parent directories as
// needed.
func Symlink(t *testing.T, target, link string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(link), 0755); err != nil {
		t.Fatalf("failed to create parent dirs for %s: %v", link, err)
	}
	if err := os.Symlink(target, link); err != nil {
		t.Fatalf("failed to create symlink %s -> %s: %v", link, target, err)
	}
}

// IsSymlink reports whether path exists and is a symbolic link.
func IsSymlink(t *testing.T, path string) bool {
	t.Helper()
	info, err := os.Lstat(path)
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeSymlink != 0
}

// FileExists reports whether path exists and is a regular file (through
// symlinks).
func FileExists(t *testing.T, path string) bool {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// PathAbsent reports whether nothing exists at path, not even a broken
// symlink.
func PathAbsent(t *testing.T, path string) bool {
	t.Helper()
	_, err := os.Lstat(path)
	return os.IsNotExist(err)
}
