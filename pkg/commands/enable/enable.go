// Package enable implements the enable command: flip an agent on and
// create its symlink in the same operation.
package enable

import (
	"context"

	"github.com/Bitropy/ccagents/pkg/commands/internal/env"
	"github.com/Bitropy/ccagents/pkg/downloader"
	"github.com/Bitropy/ccagents/pkg/errors"
	"github.com/Bitropy/ccagents/pkg/logging"
	"github.com/Bitropy/ccagents/pkg/reconcile"
	"github.com/Bitropy/ccagents/pkg/types"
)

// Options defines the options for the Enable command
type Options struct {
	Root       string
	Name       string
	FS         types.FS
	Downloader types.Downloader
}

// Result represents the result of enabling an agent
type Result struct {
	Agent types.Agent
	// AlreadyEnabled is true when nothing had to change
	AlreadyEnabled bool
	Outcome        types.Outcome
}

// Enable flips the named agent on, saves the config, and immediately
// performs the single-agent sync action (downloading GitHub content when
// the storage file is absent). A Local agent whose storage file is gone
// cannot be enabled; the config stays untouched in that case.
func Enable(ctx context.Context, opts Options) (*Result, error) {
	logger := logging.GetLogger("commands.enable")

	e, err := env.Load(opts.FS, opts.Root)
	if err != nil {
		return nil, err
	}

	agent := e.Config.Get(opts.Name)
	if agent == nil {
		return nil, errors.Newf(errors.ErrAgentNotFound, "agent %q not found in %s",
			opts.Name, e.Paths.ConfigFile())
	}
	if agent.Enabled {
		return &Result{Agent: *agent, AlreadyEnabled: true}, nil
	}

	// A missing Local source cannot be repaired by enabling; fail before
	// any mutation so the config file is left exactly as it was
	if agent.Source.Kind == types.SourceLocal {
		if _, err := e.FS.Stat(e.Paths.StoragePath(*agent)); err != nil {
			return nil, errors.Newf(errors.ErrSourceMissing,
				"agent source does not exist: %s", e.Paths.StoragePath(*agent))
		}
	}

	agent.Enabled = true
	if err := e.Config.Save(e.FS, e.Paths); err != nil {
		return nil, err
	}

	dl := opts.Downloader
	if dl == nil {
		dl = downloader.New(e.Settings.DownloadTimeout())
	}
	outcome, err := reconcile.New(e.FS, e.Paths, e.Config, dl).SyncOne(ctx, opts.Name)
	if err != nil {
		return nil, err
	}

	logger.Info().Str("agent", opts.Name).Msg("Agent enabled")
	return &Result{Agent: *agent, Outcome: outcome}, nil
}
