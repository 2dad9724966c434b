// Package imports implements the import command: fold unmanaged files
// from the active or storage directories into the config. (The package
// is named imports because import is a Go keyword.)
package imports

import (
	"fmt"

	"github.com/Bitropy/ccagents/pkg/commands/internal/env"
	"github.com/Bitropy/ccagents/pkg/errors"
	"github.com/Bitropy/ccagents/pkg/importer"
	"github.com/Bitropy/ccagents/pkg/logging"
	"github.com/Bitropy/ccagents/pkg/types"
)

// Options defines the options for the Import command
type Options struct {
	Root string
	// Name imports one specific entity; empty means all candidates
	Name string
	// All skips the interactive confirmation
	All bool
	FS  types.FS
	// Confirmer is consulted when neither Name nor All is given
	Confirmer types.Confirmer
}

// Result represents the result of an import run
type Result struct {
	// Candidates are the unmanaged entities found before any mutation
	Candidates []importer.Candidate
	Imported   []types.Agent
	Cancelled  bool
}

// Import discovers unmanaged entities and folds them into the config.
// A specific name that is already tracked fails with ALREADY_TRACKED; a
// name with nothing on disk fails with AGENT_NOT_FOUND.
func Import(opts Options) (*Result, error) {
	logger := logging.GetLogger("commands.import")
	logger.Debug().Str("name", opts.Name).Bool("all", opts.All).Msg("Starting import command")

	e, err := env.Load(opts.FS, opts.Root)
	if err != nil {
		return nil, err
	}

	if opts.Name != "" && e.Config.Get(opts.Name) != nil {
		return nil, errors.Newf(errors.ErrAlreadyTracked, "agent %q already exists", opts.Name)
	}

	candidates, err := importer.Discover(e.FS, e.Paths, e.Config.Names())
	if err != nil {
		return nil, err
	}

	result := &Result{}
	for _, cand := range candidates {
		if !cand.Importable() {
			continue
		}
		if opts.Name != "" && cand.Name != opts.Name {
			continue
		}
		result.Candidates = append(result.Candidates, cand)
	}

	if opts.Name != "" && len(result.Candidates) == 0 {
		return nil, errors.Newf(errors.ErrAgentNotFound, "no unmanaged entity named %q found", opts.Name)
	}
	if len(result.Candidates) == 0 {
		return result, nil
	}

	if opts.Name == "" && !opts.All {
		message := fmt.Sprintf("Import %d unmanaged entit%s as managed agents?",
			len(result.Candidates), plural(len(result.Candidates), "y", "ies"))
		if opts.Confirmer == nil || !opts.Confirmer.Confirm(message) {
			result.Cancelled = true
			return result, nil
		}
	}

	for _, cand := range result.Candidates {
		agent, err := importer.Import(e.FS, e.Paths, e.Config, cand)
		if err != nil {
			return result, err
		}
		result.Imported = append(result.Imported, agent)
	}

	if err := e.Config.Save(e.FS, e.Paths); err != nil {
		return result, err
	}

	logger.Info().Int("imported", len(result.Imported)).Msg("Import completed")
	return result, nil
}

func plural(n int, singular, plural string) string {
	if n == 1 {
		return singular
	}
	return plural
}
