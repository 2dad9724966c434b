// Package sync implements the sync command: reconcile the active
// directory with the config.
package sync

import (
	"context"

	"github.com/Bitropy/ccagents/pkg/commands/internal/env"
	"github.com/Bitropy/ccagents/pkg/downloader"
	"github.com/Bitropy/ccagents/pkg/logging"
	"github.com/Bitropy/ccagents/pkg/reconcile"
	"github.com/Bitropy/ccagents/pkg/types"
)

// Options defines the options for the Sync command
type Options struct {
	Root string
	// Prune drops entries with a missing source after everything else
	// has been processed
	Prune      bool
	FS         types.FS
	Downloader types.Downloader
}

// Result represents the result of a sync run
type Result struct {
	Report *types.Report
	// Empty is true when no agents are configured at all
	Empty bool
}

// Sync runs a full reconciliation pass. Per-agent failures land in the
// report; only config-level problems surface as an error.
func Sync(ctx context.Context, opts Options) (*Result, error) {
	logger := logging.GetLogger("commands.sync")
	logger.Debug().Bool("prune", opts.Prune).Msg("Starting sync command")

	e, err := env.Load(opts.FS, opts.Root)
	if err != nil {
		return nil, err
	}
	if len(e.Config.Agents) == 0 {
		return &Result{Report: &types.Report{}, Empty: true}, nil
	}

	if err := e.Paths.EnsureDirs(e.FS); err != nil {
		return nil, err
	}

	dl := opts.Downloader
	if dl == nil {
		dl = downloader.New(e.Settings.DownloadTimeout())
	}

	report, err := reconcile.New(e.FS, e.Paths, e.Config, dl).Sync(ctx, opts.Prune)
	if err != nil {
		return &Result{Report: report}, err
	}
	return &Result{Report: report}, nil
}
