package enable_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bitropy/ccagents/pkg/commands/enable"
	"github.com/Bitropy/ccagents/pkg/config"
	"github.com/Bitropy/ccagents/pkg/errors"
	"github.com/Bitropy/ccagents/pkg/testutil"
	"github.com/Bitropy/ccagents/pkg/types"
)

func TestEnable(t *testing.T) {
	env := testutil.NewProjectEnv(t)
	a := env.LocalAgent("reviewer.md", "content")
	a.Enabled = false
	env.SaveConfig(&config.Config{Agents: []types.Agent{a}})

	result, err := enable.Enable(context.Background(), enable.Options{
		Root: env.Root,
		Name: "reviewer.md",
		FS:   env.FS,
	})
	require.NoError(t, err)

	assert.False(t, result.AlreadyEnabled)
	assert.Equal(t, types.ActionLinked, result.Outcome.Action)
	assert.True(t, testutil.IsSymlink(t, env.Paths.LinkPath(a)))
	assert.True(t, env.LoadConfig().Get("reviewer.md").Enabled)
}

func TestEnable_AlreadyEnabled(t *testing.T) {
	env := testutil.NewProjectEnv(t)
	a := env.LocalAgent("reviewer.md", "content")
	env.Link(a)
	env.SaveConfig(&config.Config{Agents: []types.Agent{a}})

	result, err := enable.Enable(context.Background(), enable.Options{
		Root: env.Root,
		Name: "reviewer.md",
		FS:   env.FS,
	})
	require.NoError(t, err)
	assert.True(t, result.AlreadyEnabled)
}

func TestEnable_UnknownAgent(t *testing.T) {
	env := testutil.NewProjectEnv(t)
	env.SaveConfig(&config.Config{})

	_, err := enable.Enable(context.Background(), enable.Options{
		Root: env.Root,
		Name: "nobody.md",
		FS:   env.FS,
	})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrAgentNotFound))
}

func TestEnable_MissingLocalSourceLeavesConfigUntouched(t *testing.T) {
	env := testutil.NewProjectEnv(t)
	gone := types.NewAgent("gone.md", types.NewLocalSource(".ccagents/gone.md"))
	gone.Enabled = false
	env.SaveConfig(&config.Config{Agents: []types.Agent{gone}})

	_, err := enable.Enable(context.Background(), enable.Options{
		Root: env.Root,
		Name: "gone.md",
		FS:   env.FS,
	})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrSourceMissing))

	assert.False(t, env.LoadConfig().Get("gone.md").Enabled,
		"the failed enable must not be persisted")
}

func TestEnable_DownloadsAbsentGitHubContent(t *testing.T) {
	env := testutil.NewProjectEnv(t)
	url := "https://github.com/u/r/blob/main/helper.md"
	a := env.GitHubAgent("helper.md", url, "")
	a.Enabled = false
	env.SaveConfig(&config.Config{Agents: []types.Agent{a}})
	dl := &testutil.FakeDownloader{Content: map[string][]byte{url: []byte("# helper")}}

	result, err := enable.Enable(context.Background(), enable.Options{
		Root:       env.Root,
		Name:       "helper.md",
		FS:         env.FS,
		Downloader: dl,
	})
	require.NoError(t, err)

	assert.Equal(t, types.ActionDownloaded, result.Outcome.Action)
	assert.True(t, testutil.FileExists(t, env.Paths.StoragePath(a)))
}
