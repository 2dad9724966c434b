// Package config owns persistence of the declarative agent list
// (.agents.json) and the optional tool settings (.ccagents.toml).
// It performs no reconciliation; deciding which mutations to apply is the
// reconciler's job.
package config

import (
	"encoding/json"
	stderrors "errors"
	"io/fs"
	"os"

	"github.com/Bitropy/ccagents/pkg/errors"
	"github.com/Bitropy/ccagents/pkg/logging"
	"github.com/Bitropy/ccagents/pkg/paths"
	"github.com/Bitropy/ccagents/pkg/types"
)

// Config is the ordered agent list persisted in .agents.json
type Config struct {
	Agents []types.Agent `json:"agents"`
}

// Load reads .agents.json from the project root. An absent file yields an
// empty config. Unknown fields are tolerated for forward compatibility.
func Load(filesystem types.FS, p *paths.Paths) (*Config, error) {
	logger := logging.GetLogger("config")
	configPath := p.ConfigFile()

	data, err := filesystem.ReadFile(configPath)
	if err != nil {
		if isNotExist(err) {
			logger.Debug().Str("path", configPath).Msg("No config file, starting empty")
			return &Config{}, nil
		}
		return nil, errors.Wrapf(err, errors.ErrIO, "failed to read %s", configPath)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigCorrupt, "failed to parse %s", configPath)
	}

	logger.Debug().Int("agents", len(cfg.Agents)).Msg("Config loaded")
	return &cfg, nil
}

// Save writes the full agent list atomically: the new content goes to a
// temporary file which is then renamed over .agents.json, so a crash never
// leaves a half-written config behind. The managed directories are created
// when missing.
func (c *Config) Save(filesystem types.FS, p *paths.Paths) error {
	logger := logging.GetLogger("config")

	if err := p.EnsureDirs(filesystem); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to serialize agents config")
	}
	data = append(data, '\n')

	configPath := p.ConfigFile()
	tmpPath := configPath + ".tmp"

	if err := filesystem.WriteFile(tmpPath, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrIO, "failed to write %s", tmpPath)
	}
	if err := filesystem.Rename(tmpPath, configPath); err != nil {
		// Best effort: do not leave the temp file behind
		_ = filesystem.Remove(tmpPath)
		return errors.Wrapf(err, errors.ErrIO, "failed to replace %s", configPath)
	}

	logger.Debug().Int("agents", len(c.Agents)).Str("path", configPath).Msg("Config saved")
	return nil
}

// Add appends an agent, rejecting duplicate names
func (c *Config) Add(agent types.Agent) error {
	if c.Get(agent.Name) != nil {
		return errors.Newf(errors.ErrAlreadyTracked, "agent %q already exists", agent.Name)
	}
	c.Agents = append(c.Agents, agent)
	return nil
}

// Remove deletes the first entry with the given name. Only that one
// entry goes away: when the externally edited file carries duplicate
// names, later occurrences survive and stay the reconciler's to judge.
func (c *Config) Remove(name string) error {
	for i := range c.Agents {
		if c.Agents[i].Name == name {
			c.Agents = append(c.Agents[:i], c.Agents[i+1:]...)
			return nil
		}
	}
	return errors.Newf(errors.ErrAgentNotFound, "agent %q not found", name)
}

// Get returns a pointer into the agent list, or nil when the name is
// unknown. The pointer stays valid until the list is mutated.
func (c *Config) Get(name string) *types.Agent {
	for i := range c.Agents {
		if c.Agents[i].Name == name {
			return &c.Agents[i]
		}
	}
	return nil
}

// Enabled returns the agents that should have an active symlink
func (c *Config) Enabled() []types.Agent {
	var enabled []types.Agent
	for _, a := range c.Agents {
		if a.Enabled {
			enabled = append(enabled, a)
		}
	}
	return enabled
}

// Disabled returns the agents without an active symlink claim
func (c *Config) Disabled() []types.Agent {
	var disabled []types.Agent
	for _, a := range c.Agents {
		if !a.Enabled {
			disabled = append(disabled, a)
		}
	}
	return disabled
}

// Names returns the set of tracked agent names
func (c *Config) Names() map[string]bool {
	names := make(map[string]bool, len(c.Agents))
	for _, a := range c.Agents {
		names[a.Name] = true
	}
	return names
}

func isNotExist(err error) bool {
	return stderrors.Is(err, fs.ErrNotExist) || os.IsNotExist(err)
}
