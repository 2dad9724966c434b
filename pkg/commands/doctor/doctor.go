// Package doctor implements the doctor command: diagnose configuration
// and filesystem inconsistencies, optionally fixing them.
package doctor

import (
	"context"

	"github.com/Bitropy/ccagents/pkg/commands/internal/env"
	"github.com/Bitropy/ccagents/pkg/downloader"
	"github.com/Bitropy/ccagents/pkg/logging"
	"github.com/Bitropy/ccagents/pkg/reconcile"
	"github.com/Bitropy/ccagents/pkg/types"
)

// Options defines the options for the Doctor command
type Options struct {
	Root string
	// Fix applies corrective actions instead of only reporting
	Fix        bool
	FS         types.FS
	Downloader types.Downloader
}

// Result represents the result of a doctor run
type Result struct {
	Report *types.Report
}

// Issues returns the outcomes needing attention: unhealthy statuses and
// per-agent failures.
func (r *Result) Issues() []types.Outcome {
	var issues []types.Outcome
	for _, o := range r.Report.Outcomes {
		if o.Failed() || !o.Status.Healthy() {
			issues = append(issues, o)
		}
	}
	return issues
}

// Doctor classifies every agent and every orphaned on-disk entity.
// Without Fix the run is strictly read-only and always succeeds; issues
// are data, not errors.
func Doctor(ctx context.Context, opts Options) (*Result, error) {
	logger := logging.GetLogger("commands.doctor")
	logger.Debug().Bool("fix", opts.Fix).Msg("Starting doctor command")

	e, err := env.Load(opts.FS, opts.Root)
	if err != nil {
		return nil, err
	}

	var dl types.Downloader
	if opts.Fix {
		dl = opts.Downloader
		if dl == nil {
			dl = downloader.New(e.Settings.DownloadTimeout())
		}
	}

	report, err := reconcile.New(e.FS, e.Paths, e.Config, dl).Doctor(ctx, opts.Fix)
	if err != nil {
		return &Result{Report: report}, err
	}
	return &Result{Report: report}, nil
}
