// Package clean implements the clean command: remove config entries whose
// backing source can no longer be found.
package clean

import (
	"github.com/Bitropy/ccagents/pkg/commands/internal/env"
	"github.com/Bitropy/ccagents/pkg/logging"
	"github.com/Bitropy/ccagents/pkg/reconcile"
	"github.com/Bitropy/ccagents/pkg/types"
)

// Options defines the options for the Clean command
type Options struct {
	Root string
	// Force skips the interactive confirmation
	Force bool
	FS    types.FS
	// Confirmer is consulted when Force is false
	Confirmer types.Confirmer
}

// Result represents the result of a clean run
type Result struct {
	// Missing lists the removal candidates found before any mutation
	Missing []types.Agent
	Report  *types.Report
}

// Clean lists all source-missing entries and removes them from the config
// after confirmation (or unconditionally with Force). Linked and
// not-linked entries are never touched.
func Clean(opts Options) (*Result, error) {
	logger := logging.GetLogger("commands.clean")
	logger.Debug().Bool("force", opts.Force).Msg("Starting clean command")

	e, err := env.Load(opts.FS, opts.Root)
	if err != nil {
		return nil, err
	}

	rec := reconcile.New(e.FS, e.Paths, e.Config, nil)
	result := &Result{Missing: rec.MissingSources()}

	report, err := rec.Clean(result.Missing, opts.Force, opts.Confirmer)
	if err != nil {
		return result, err
	}
	result.Report = report
	return result, nil
}
