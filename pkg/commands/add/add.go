// Package add implements the add command: register a new agent from a
// local path or a GitHub file URL.
package add

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/Bitropy/ccagents/pkg/commands/internal/env"
	"github.com/Bitropy/ccagents/pkg/downloader"
	"github.com/Bitropy/ccagents/pkg/errors"
	"github.com/Bitropy/ccagents/pkg/logging"
	"github.com/Bitropy/ccagents/pkg/reconcile"
	"github.com/Bitropy/ccagents/pkg/types"
)

// Options defines the options for the Add command
type Options struct {
	// Root is the project root; empty means the working directory
	Root string
	// Source is a local path or a GitHub file URL
	Source string
	// FS overrides the filesystem (tests); nil uses the OS
	FS types.FS
	// Downloader overrides the GitHub downloader (tests)
	Downloader types.Downloader
}

// Result represents the result of adding an agent
type Result struct {
	Agent      types.Agent
	Downloaded bool
	Copied     bool
	Linked     bool
}

// Add registers a new agent. URLs are downloaded into storage; local paths
// outside the project are copied in. The new entry starts enabled and its
// symlink is created as part of the same operation.
func Add(ctx context.Context, opts Options) (*Result, error) {
	logger := logging.GetLogger("commands.add")
	logger.Debug().Str("source", opts.Source).Msg("Starting add command")

	e, err := env.Load(opts.FS, opts.Root)
	if err != nil {
		return nil, err
	}

	result := &Result{}
	var agent types.Agent

	if strings.HasPrefix(opts.Source, "http://") || strings.HasPrefix(opts.Source, "https://") {
		agent, err = addRemote(ctx, e, opts, result)
	} else {
		agent, err = addLocal(e, opts, result)
	}
	if err != nil {
		return nil, err
	}

	if err := e.Config.Add(agent); err != nil {
		return nil, err
	}
	if err := e.Config.Save(e.FS, e.Paths); err != nil {
		return nil, err
	}
	result.Agent = agent

	outcome, err := reconcile.New(e.FS, e.Paths, e.Config, opts.Downloader).SyncOne(ctx, agent.Name)
	if err != nil {
		return result, err
	}
	result.Linked = outcome.Action == types.ActionLinked || outcome.Action == types.ActionDownloaded

	logger.Info().Str("agent", agent.Name).Bool("linked", result.Linked).Msg("Agent added")
	return result, nil
}

// addRemote validates the URL and downloads the content into storage
func addRemote(ctx context.Context, e *env.Env, opts Options, result *Result) (types.Agent, error) {
	agent, err := types.AgentFromURL(opts.Source)
	if err != nil {
		return types.Agent{}, err
	}

	dl := opts.Downloader
	if dl == nil {
		dl = downloader.New(e.Settings.DownloadTimeout())
	}
	data, err := dl.Fetch(ctx, opts.Source)
	if err != nil {
		return types.Agent{}, err
	}

	if err := e.Paths.EnsureDirs(e.FS); err != nil {
		return types.Agent{}, err
	}
	storagePath := e.Paths.StoragePath(agent)
	if err := e.FS.WriteFile(storagePath, data, 0644); err != nil {
		return types.Agent{}, errors.Wrapf(err, errors.ErrIO, "failed to write %s", storagePath)
	}
	result.Downloaded = true
	return agent, nil
}

// addLocal registers a path. Paths outside the project root are copied
// into storage so the checkout stays self-contained.
func addLocal(e *env.Env, opts Options, result *Result) (types.Agent, error) {
	absPath := opts.Source
	if !filepath.IsAbs(absPath) {
		absPath = filepath.Join(e.Paths.Root(), absPath)
	}
	absPath = filepath.Clean(absPath)

	info, err := e.FS.Stat(absPath)
	if err != nil {
		return types.Agent{}, errors.Wrapf(err, errors.ErrSourceMissing, "path does not exist: %s", absPath)
	}

	rel, relErr := filepath.Rel(e.Paths.Root(), absPath)
	inside := relErr == nil && !strings.HasPrefix(rel, "..")

	if inside {
		return types.AgentFromPath(rel)
	}

	// Copy external content into storage
	name := filepath.Base(absPath)
	if err := e.Paths.EnsureDirs(e.FS); err != nil {
		return types.Agent{}, err
	}
	targetPath := filepath.Join(e.Paths.StorageDir(), name)

	if info.IsDir() {
		err = copyDir(e.FS, absPath, targetPath)
	} else {
		err = copyFile(e.FS, absPath, targetPath)
	}
	if err != nil {
		return types.Agent{}, err
	}
	result.Copied = true

	relTarget, err := filepath.Rel(e.Paths.Root(), targetPath)
	if err != nil {
		relTarget = targetPath
	}
	return types.NewAgent(name, types.NewLocalSource(relTarget)), nil
}

func copyFile(fsys types.FS, src, dst string) error {
	data, err := fsys.ReadFile(src)
	if err != nil {
		return errors.Wrapf(err, errors.ErrIO, "failed to read %s", src)
	}
	if err := fsys.WriteFile(dst, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrIO, "failed to write %s", dst)
	}
	return nil
}

func copyDir(fsys types.FS, src, dst string) error {
	if err := fsys.MkdirAll(dst, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", dst)
	}
	entries, err := fsys.ReadDir(src)
	if err != nil {
		return errors.Wrapf(err, errors.ErrIO, "failed to read directory %s", src)
	}
	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())
		if entry.IsDir() {
			if err := copyDir(fsys, srcPath, dstPath); err != nil {
				return err
			}
			continue
		}
		if err := copyFile(fsys, srcPath, dstPath); err != nil {
			return err
		}
	}
	return nil
}
