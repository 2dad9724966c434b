// Package show implements the show command: render an agent's markdown
// content in the terminal.
package show

import (
	"github.com/charmbracelet/glamour"

	"github.com/Bitropy/ccagents/pkg/commands/internal/env"
	"github.com/Bitropy/ccagents/pkg/errors"
	"github.com/Bitropy/ccagents/pkg/logging"
	"github.com/Bitropy/ccagents/pkg/style"
	"github.com/Bitropy/ccagents/pkg/types"
)

// Options defines the options for the Show command
type Options struct {
	Root string
	Name string
	FS   types.FS
	// Raw skips markdown rendering
	Raw bool
}

// Result represents the rendered agent content
type Result struct {
	Agent    types.Agent
	Rendered string
}

// Show reads the agent's storage file and renders it as markdown. The
// agent must be tracked and its storage file must exist.
func Show(opts Options) (*Result, error) {
	logger := logging.GetLogger("commands.show")

	e, err := env.Load(opts.FS, opts.Root)
	if err != nil {
		return nil, err
	}

	agent := e.Config.Get(opts.Name)
	if agent == nil {
		return nil, errors.Newf(errors.ErrAgentNotFound, "agent %q not found in %s",
			opts.Name, e.Paths.ConfigFile())
	}

	storagePath := e.Paths.StoragePath(*agent)
	data, err := e.FS.ReadFile(storagePath)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrSourceMissing, "failed to read %s", storagePath)
	}

	result := &Result{Agent: *agent, Rendered: string(data)}
	if opts.Raw || !style.ColorEnabled() {
		return result, nil
	}

	rendered, err := glamour.Render(string(data), "auto")
	if err != nil {
		// Fall back to the raw content rather than failing the command
		logger.Warn().Err(err).Str("agent", opts.Name).Msg("Markdown rendering failed")
		return result, nil
	}
	result.Rendered = rendered
	return result, nil
}
