// Package list implements the read-only list command: every configured
// agent with its live classification, plus unconfigured storage entities.
package list

import (
	"github.com/Bitropy/ccagents/pkg/commands/internal/env"
	"github.com/Bitropy/ccagents/pkg/importer"
	"github.com/Bitropy/ccagents/pkg/logging"
	"github.com/Bitropy/ccagents/pkg/probe"
	"github.com/Bitropy/ccagents/pkg/reconcile"
	"github.com/Bitropy/ccagents/pkg/types"
)

// Options defines the options for the List command
type Options struct {
	Root string
	FS   types.FS
}

// Row is one configured agent with its freshly computed status
type Row struct {
	Agent  types.Agent
	Status types.AgentStatus
	// Err is set when the agent's paths could not be inspected
	Err error
}

// Result represents the result of listing agents
type Result struct {
	Rows []Row
	// Available are storage entities with no config entry
	Available []string
	Enabled   int
	Disabled  int
}

// List classifies every configured agent and discovers unconfigured
// storage entities. It never mutates anything; classification issues are
// reported in the rows, not as errors.
func List(opts Options) (*Result, error) {
	logger := logging.GetLogger("commands.list")

	e, err := env.Load(opts.FS, opts.Root)
	if err != nil {
		return nil, err
	}

	result := &Result{}
	prober := probe.New(e.FS, e.Paths)
	seen := make(map[string]bool, len(e.Config.Agents))

	for _, agent := range e.Config.Agents {
		row := Row{Agent: agent}
		probeResult, err := prober.Probe(agent)
		if err != nil {
			row.Err = err
		} else {
			row.Status = reconcile.Classify(agent, probeResult, seen[agent.Name])
		}
		seen[agent.Name] = true
		result.Rows = append(result.Rows, row)
	}
	result.Enabled = len(e.Config.Enabled())
	result.Disabled = len(e.Config.Disabled())

	candidates, err := importer.Discover(e.FS, e.Paths, e.Config.Names())
	if err != nil {
		return nil, err
	}
	for _, cand := range candidates {
		if cand.StoragePath != "" {
			result.Available = append(result.Available, cand.Name)
		}
	}

	logger.Debug().
		Int("agents", len(result.Rows)).
		Int("available", len(result.Available)).
		Msg("List completed")
	return result, nil
}
