// Package env bootstraps the shared state every command needs: the
// filesystem, the resolved project layout, the tool settings, and the
// loaded agent config.
package env

import (
	"github.com/Bitropy/ccagents/pkg/config"
	"github.com/Bitropy/ccagents/pkg/filesystem"
	"github.com/Bitropy/ccagents/pkg/paths"
	"github.com/Bitropy/ccagents/pkg/types"
)

// Env is the loaded per-invocation state
type Env struct {
	FS       types.FS
	Paths    *paths.Paths
	Settings config.Settings
	Config   *config.Config
}

// Load resolves settings, paths, and config for the given project root.
// A nil fs defaults to the OS filesystem; an empty root defaults to the
// working directory.
func Load(fs types.FS, root string) (*Env, error) {
	if fs == nil {
		fs = filesystem.NewOS()
	}

	settings, err := config.LoadSettings(fs, root)
	if err != nil {
		return nil, err
	}

	p, err := paths.New(root, settings.Layout())
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(fs, p)
	if err != nil {
		return nil, err
	}

	return &Env{FS: fs, Paths: p, Settings: settings, Config: cfg}, nil
}
