package probe_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bitropy/ccagents/pkg/probe"
	"github.com/Bitropy/ccagents/pkg/testutil"
	"github.com/Bitropy/ccagents/pkg/types"
)

func TestProbe_NothingOnDisk(t *testing.T) {
	env := testutil.NewProjectEnv(t)
	pr := probe.New(env.FS, env.Paths)

	agent := types.NewAgent("ghost.md", types.NewLocalSource(".ccagents/ghost.md"))
	result, err := pr.Probe(agent)
	require.NoError(t, err)

	assert.False(t, result.StorageExists)
	assert.False(t, result.LinkExists)
}

func TestProbe_Linked(t *testing.T) {
	env := testutil.NewProjectEnv(t)
	pr := probe.New(env.FS, env.Paths)

	agent := env.LocalAgent("reviewer.md", "content")
	env.Link(agent)

	result, err := pr.Probe(agent)
	require.NoError(t, err)

	assert.True(t, result.StorageExists)
	assert.True(t, result.LinkExists)
	assert.True(t, result.LinkIsSymlink)
	assert.True(t, result.LinkResolves)
}

func TestProbe_BrokenLink(t *testing.T) {
	env := testutil.NewProjectEnv(t)
	pr := probe.New(env.FS, env.Paths)

	agent := env.LocalAgent("reviewer.md", "content")
	env.BrokenLink(agent)

	result, err := pr.Probe(agent)
	require.NoError(t, err)

	assert.True(t, result.StorageExists)
	assert.True(t, result.LinkExists)
	assert.True(t, result.LinkIsSymlink)
	assert.False(t, result.LinkResolves)
}

func TestProbe_LinkToWrongTarget(t *testing.T) {
	env := testutil.NewProjectEnv(t)
	pr := probe.New(env.FS, env.Paths)

	agent := env.LocalAgent("reviewer.md", "content")
	other := env.LocalAgent("other.md", "other content")
	// Symlink exists and resolves, but to another agent's storage file
	testutil.Symlink(t, env.Paths.StoragePath(other), env.Paths.LinkPath(agent))

	result, err := pr.Probe(agent)
	require.NoError(t, err)

	assert.True(t, result.LinkExists)
	assert.True(t, result.LinkIsSymlink)
	assert.False(t, result.LinkResolves, "a link to the wrong target must not count as resolving")
}

func TestProbe_RegularFileAtLinkPath(t *testing.T) {
	env := testutil.NewProjectEnv(t)
	pr := probe.New(env.FS, env.Paths)

	agent := env.LocalAgent("reviewer.md", "content")
	env.WriteActiveFile("reviewer.md", "manually placed")

	result, err := pr.Probe(agent)
	require.NoError(t, err)

	assert.True(t, result.LinkExists)
	assert.False(t, result.LinkIsSymlink)
	assert.False(t, result.LinkResolves)
}
