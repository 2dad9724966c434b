// Package reconcile implements the reconciliation engine: it compares the
// declarative config, the managed storage directory, and the active
// symlink directory, classifies each agent's health, and applies
// corrective mutations safely and idempotently.
//
// Every operation follows the same discipline: all classification happens
// before any mutation, mutations are applied one agent at a time, and a
// failure on one agent never stops the processing of the rest. The caller
// gets a Report listing every agent's outcome.
package reconcile

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Bitropy/ccagents/pkg/config"
	"github.com/Bitropy/ccagents/pkg/errors"
	"github.com/Bitropy/ccagents/pkg/importer"
	"github.com/Bitropy/ccagents/pkg/logging"
	"github.com/Bitropy/ccagents/pkg/paths"
	"github.com/Bitropy/ccagents/pkg/probe"
	"github.com/Bitropy/ccagents/pkg/types"
)

// Reconciler owns the decision of which mutations to apply. The config
// store owns persistence; the prober never mutates.
type Reconciler struct {
	fs         types.FS
	paths      *paths.Paths
	cfg        *config.Config
	downloader types.Downloader
	prober     *probe.Prober
	logger     zerolog.Logger
}

// New creates a Reconciler. The downloader may be nil for operations that
// never fetch (clean, read-only doctor).
func New(filesystem types.FS, p *paths.Paths, cfg *config.Config, downloader types.Downloader) *Reconciler {
	return &Reconciler{
		fs:         filesystem,
		paths:      p,
		cfg:        cfg,
		downloader: downloader,
		prober:     probe.New(filesystem, p),
		logger:     logging.GetLogger("reconcile"),
	}
}

// inspection is the pre-mutation snapshot of one config entry
type inspection struct {
	agent  types.Agent
	probe  types.ProbeResult
	status types.AgentStatus
	err    error
}

// inspectAll probes and classifies every config entry in order. Probe
// failures are captured per entry so one unreadable agent does not hide
// the rest.
func (r *Reconciler) inspectAll() []inspection {
	seen := make(map[string]bool, len(r.cfg.Agents))
	inspections := make([]inspection, 0, len(r.cfg.Agents))

	for _, agent := range r.cfg.Agents {
		insp := inspection{agent: agent}

		result, err := r.prober.Probe(agent)
		if err != nil {
			insp.err = err
		} else {
			insp.probe = result
			insp.status = Classify(agent, result, seen[agent.Name])
		}
		seen[agent.Name] = true
		inspections = append(inspections, insp)
	}

	return inspections
}

// Sync brings the active directory in line with the config: enabled agents
// get a (re)created symlink, disabled agents lose theirs. GitHub agents
// with absent storage are downloaded first; a failed download downgrades
// the agent to source-missing for this run and processing continues. With
// prune, entries still source-missing after every other agent has been
// processed are dropped from the config.
func (r *Reconciler) Sync(ctx context.Context, prune bool) (*types.Report, error) {
	report := &types.Report{}
	inspections := r.inspectAll()

	for i := range inspections {
		report.Add(r.syncEntry(ctx, &inspections[i]))
	}

	if prune {
		r.pruneMissing(inspections, report)
	}

	if report.ConfigChanged {
		if err := r.cfg.Save(r.fs, r.paths); err != nil {
			return report, err
		}
	}

	r.logger.Info().
		Int("agents", len(report.Outcomes)).
		Int("mutations", report.Mutations()).
		Int("failures", len(report.Failed())).
		Bool("prune", prune).
		Msg("Sync completed")
	return report, nil
}

// syncEntry applies the sync action for one inspected entry and updates
// the inspection's status to the post-action classification.
func (r *Reconciler) syncEntry(ctx context.Context, insp *inspection) types.Outcome {
	agent := insp.agent
	outcome := types.Outcome{Name: agent.Name, Status: insp.status, Action: types.ActionNone}

	if insp.err != nil {
		outcome.Err = insp.err
		return outcome
	}

	switch insp.status {
	case types.StatusDuplicate:
		// Reported only; doctor --fix collapses duplicates
		return outcome

	case types.StatusSourceMissing:
		// Reported only; sync never drops entries on its own
		return outcome

	case types.StatusOrphaned:
		// Disabled entry with a stray link
		if err := removeLink(r.fs, r.paths.LinkPath(agent)); err != nil {
			outcome.Err = err
			return outcome
		}
		outcome.Status = types.StatusNotLinked
		outcome.Action = types.ActionUnlinked
		insp.status = types.StatusNotLinked
		return outcome

	case types.StatusNotLinked, types.StatusLinkBroken:
		if !agent.Enabled {
			return outcome
		}
		if !insp.probe.StorageExists {
			// Only reachable for GitHub sources; Local ones classified
			// source-missing above
			if err := r.download(ctx, agent); err != nil {
				outcome.Status = types.StatusSourceMissing
				outcome.Err = err
				insp.status = types.StatusSourceMissing
				return outcome
			}
			outcome.Action = types.ActionDownloaded
		}
		if err := replaceLink(r.fs, r.paths.RelativeLinkTarget(agent), r.paths.LinkPath(agent)); err != nil {
			outcome.Err = err
			return outcome
		}
		if outcome.Action == types.ActionNone {
			outcome.Action = types.ActionLinked
		}
		outcome.Status = types.StatusLinked
		insp.status = types.StatusLinked
		return outcome

	default:
		return outcome
	}
}

// pruneMissing drops every entry still source-missing after the main sync
// phase. Running last means a download retried earlier in the same run is
// never prematurely pruned. An entry whose storage file exists is never
// touched.
func (r *Reconciler) pruneMissing(inspections []inspection, report *types.Report) {
	for _, insp := range inspections {
		if insp.status != types.StatusSourceMissing {
			continue
		}
		if err := r.cfg.Remove(insp.agent.Name); err != nil {
			continue
		}
		// Stale link cleanup is best effort. A surviving duplicate still
		// claims the link name, so the link is left for it in that case.
		if r.cfg.Get(insp.agent.Name) == nil {
			_ = removeLink(r.fs, r.paths.LinkPath(insp.agent))
		}

		report.ConfigChanged = true
		report.Add(types.Outcome{
			Name:   insp.agent.Name,
			Status: types.StatusSourceMissing,
			Action: types.ActionPruned,
		})
		r.logger.Info().Str("agent", insp.agent.Name).Msg("Pruned entry with missing source")
	}
}

// Doctor classifies every agent plus all orphaned on-disk entities and
// reports them. With fix it applies the same link repairs as Sync, removes
// dangling orphaned symlinks, and collapses duplicate entries keeping the
// first occurrence. Unmanaged regular files in the active directory are
// only reported; converting them is import's job.
func (r *Reconciler) Doctor(ctx context.Context, fix bool) (*types.Report, error) {
	report := &types.Report{}
	inspections := r.inspectAll()
	orphans, err := importer.Discover(r.fs, r.paths, r.cfg.Names())
	if err != nil {
		return report, err
	}

	dedupe := false
	for i := range inspections {
		insp := &inspections[i]

		if insp.err != nil {
			report.Add(types.Outcome{Name: insp.agent.Name, Err: insp.err})
			continue
		}
		if !fix {
			report.Add(types.Outcome{Name: insp.agent.Name, Status: insp.status, Action: types.ActionNone})
			continue
		}

		switch insp.status {
		case types.StatusDuplicate:
			dedupe = true
			report.Add(types.Outcome{
				Name:   insp.agent.Name,
				Status: types.StatusDuplicate,
				Action: types.ActionDeduplicated,
			})
		default:
			report.Add(r.syncEntry(ctx, insp))
		}
	}

	if fix && dedupe {
		r.collapseDuplicates()
		report.ConfigChanged = true
	}

	for _, orphan := range orphans {
		outcome := types.Outcome{Name: orphan.Name, Status: types.StatusOrphaned, Action: types.ActionNone}
		if fix && orphan.DanglingLink() {
			if err := removeLink(r.fs, orphan.ActivePath); err != nil {
				outcome.Err = err
			} else {
				outcome.Action = types.ActionLinkRemoved
			}
		}
		report.Add(outcome)
	}

	if report.ConfigChanged {
		if err := r.cfg.Save(r.fs, r.paths); err != nil {
			return report, err
		}
	}

	r.logger.Info().
		Int("agents", len(inspections)).
		Int("orphans", len(orphans)).
		Bool("fix", fix).
		Msg("Doctor completed")
	return report, nil
}

// collapseDuplicates keeps the first occurrence of each name
func (r *Reconciler) collapseDuplicates() {
	seen := make(map[string]bool, len(r.cfg.Agents))
	kept := r.cfg.Agents[:0]
	for _, a := range r.cfg.Agents {
		if seen[a.Name] {
			continue
		}
		seen[a.Name] = true
		kept = append(kept, a)
	}
	r.cfg.Agents = kept
}

// MissingSources returns the entries currently classified source-missing.
// Used by clean to present the removal candidates before confirmation.
func (r *Reconciler) MissingSources() []types.Agent {
	var missing []types.Agent
	for _, insp := range r.inspectAll() {
		if insp.err == nil && insp.status == types.StatusSourceMissing {
			missing = append(missing, insp.agent)
		}
	}
	return missing
}

// Clean removes the given source-missing entries from the config.
// Without force the confirmer is consulted first; a declined confirmation
// leaves everything untouched. The candidate list comes from
// MissingSources, so linked and not-linked entries are never considered.
func (r *Reconciler) Clean(missing []types.Agent, force bool, confirm types.Confirmer) (*types.Report, error) {
	report := &types.Report{}
	if len(missing) == 0 {
		return report, nil
	}

	if !force {
		message := fmt.Sprintf("Remove %d entr%s from %s?",
			len(missing), plural(len(missing), "y", "ies"), paths.ConfigFileName)
		if confirm == nil || !confirm.Confirm(message) {
			report.Cancelled = true
			return report, nil
		}
	}

	for _, agent := range missing {
		outcome := types.Outcome{Name: agent.Name, Status: types.StatusSourceMissing}
		if err := r.cfg.Remove(agent.Name); err != nil {
			outcome.Err = err
		} else {
			// A surviving duplicate still claims the link name
			if r.cfg.Get(agent.Name) == nil {
				_ = removeLink(r.fs, r.paths.LinkPath(agent))
			}
			outcome.Action = types.ActionPruned
			report.ConfigChanged = true
		}
		report.Add(outcome)
	}

	if report.ConfigChanged {
		if err := r.cfg.Save(r.fs, r.paths); err != nil {
			return report, err
		}
	}

	r.logger.Info().Int("removed", report.Mutations()).Msg("Clean completed")
	return report, nil
}

// SyncOne applies the sync action for a single agent, used by enable and
// disable so the symlink change happens in the same operation as the flag
// flip. The agent must already be present in the config.
func (r *Reconciler) SyncOne(ctx context.Context, name string) (types.Outcome, error) {
	agent := r.cfg.Get(name)
	if agent == nil {
		return types.Outcome{}, errors.Newf(errors.ErrAgentNotFound, "agent %q not found", name)
	}

	result, err := r.prober.Probe(*agent)
	if err != nil {
		return types.Outcome{Name: name, Err: err}, err
	}

	insp := inspection{agent: *agent, probe: result, status: Classify(*agent, result, false)}
	outcome := r.syncEntry(ctx, &insp)
	if outcome.Err != nil {
		return outcome, outcome.Err
	}
	return outcome, nil
}

func plural(n int, singular, plural string) string {
	if n == 1 {
		return singular
	}
	return plural
}

// download fetches the agent's content into its storage path
func (r *Reconciler) download(ctx context.Context, agent types.Agent) error {
	if r.downloader == nil {
		return errors.Newf(errors.ErrDownload, "no downloader available for %q", agent.Name)
	}
	data, err := r.downloader.Fetch(ctx, agent.Source.Value)
	if err != nil {
		return err
	}

	storagePath := r.paths.StoragePath(agent)
	if err := r.fs.MkdirAll(r.paths.StorageDir(), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", r.paths.StorageDir())
	}
	if err := r.fs.WriteFile(storagePath, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrIO, "failed to write %s", storagePath)
	}

	r.logger.Debug().Str("agent", agent.Name).Str("path", storagePath).Msg("Downloaded agent content")
	return nil
}
