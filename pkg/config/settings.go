package config

import (
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/Bitropy/ccagents/pkg/errors"
	"github.com/Bitropy/ccagents/pkg/logging"
	"github.com/Bitropy/ccagents/pkg/paths"
	"github.com/Bitropy/ccagents/pkg/types"
)

// Settings are optional per-project tool settings read from .ccagents.toml.
// Unlike .agents.json these never describe agents, only how the tool
// behaves for this checkout.
type Settings struct {
	// StorageDir overrides the managed storage directory name
	StorageDir string `toml:"storage_dir"`

	// AgentsDir overrides the active symlink directory
	AgentsDir string `toml:"agents_dir"`

	// DownloadTimeoutSecs bounds a single download attempt
	DownloadTimeoutSecs int `toml:"download_timeout_secs"`
}

// DefaultDownloadTimeout bounds a single best-effort download attempt so a
// hanging network call cannot stall the whole run.
const DefaultDownloadTimeout = 30 * time.Second

// DownloadTimeout returns the configured timeout, or the default
func (s Settings) DownloadTimeout() time.Duration {
	if s.DownloadTimeoutSecs <= 0 {
		return DefaultDownloadTimeout
	}
	return time.Duration(s.DownloadTimeoutSecs) * time.Second
}

// Layout converts the settings into directory overrides for paths.New
func (s Settings) Layout() paths.Layout {
	return paths.Layout{StorageDir: s.StorageDir, ActiveDir: s.AgentsDir}
}

// LoadSettings reads .ccagents.toml from the project root. An absent file
// yields zero-value settings (all defaults apply).
func LoadSettings(filesystem types.FS, root string) (Settings, error) {
	logger := logging.GetLogger("config.settings")

	p, err := paths.New(root, paths.Layout{})
	if err != nil {
		return Settings{}, err
	}

	data, err := filesystem.ReadFile(p.SettingsFile())
	if err != nil {
		if isNotExist(err) {
			return Settings{}, nil
		}
		return Settings{}, errors.Wrapf(err, errors.ErrIO, "failed to read %s", p.SettingsFile())
	}

	var settings Settings
	if err := toml.Unmarshal(data, &settings); err != nil {
		return Settings{}, errors.Wrapf(err, errors.ErrConfigCorrupt, "failed to parse %s", p.SettingsFile())
	}

	logger.Debug().
		Str("storageDir", settings.StorageDir).
		Str("agentsDir", settings.AgentsDir).
		Msg("Settings loaded")
	return settings, nil
}
