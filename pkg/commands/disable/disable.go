// Package disable implements the disable command: flip an agent off and
// remove its symlink in the same operation.
package disable

import (
	"context"

	"github.com/Bitropy/ccagents/pkg/commands/internal/env"
	"github.com/Bitropy/ccagents/pkg/errors"
	"github.com/Bitropy/ccagents/pkg/logging"
	"github.com/Bitropy/ccagents/pkg/reconcile"
	"github.com/Bitropy/ccagents/pkg/types"
)

// Options defines the options for the Disable command
type Options struct {
	Root string
	Name string
	FS   types.FS
}

// Result represents the result of disabling an agent
type Result struct {
	Agent types.Agent
	// AlreadyDisabled is true when nothing had to change
	AlreadyDisabled bool
	Outcome         types.Outcome
}

// Disable flips the named agent off, saves the config, and immediately
// removes its active symlink.
func Disable(ctx context.Context, opts Options) (*Result, error) {
	logger := logging.GetLogger("commands.disable")

	e, err := env.Load(opts.FS, opts.Root)
	if err != nil {
		return nil, err
	}

	agent := e.Config.Get(opts.Name)
	if agent == nil {
		return nil, errors.Newf(errors.ErrAgentNotFound, "agent %q not found in %s",
			opts.Name, e.Paths.ConfigFile())
	}
	if !agent.Enabled {
		return &Result{Agent: *agent, AlreadyDisabled: true}, nil
	}

	agent.Enabled = false
	if err := e.Config.Save(e.FS, e.Paths); err != nil {
		return nil, err
	}

	outcome, err := reconcile.New(e.FS, e.Paths, e.Config, nil).SyncOne(ctx, opts.Name)
	if err != nil {
		return nil, err
	}

	logger.Info().Str("agent", opts.Name).Msg("Agent disabled")
	return &Result{Agent: *agent, Outcome: outcome}, nil
}
