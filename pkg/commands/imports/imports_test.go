package imports_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bitropy/ccagents/pkg/commands/imports"
	"github.com/Bitropy/ccagents/pkg/config"
	"github.com/Bitropy/ccagents/pkg/errors"
	"github.com/Bitropy/ccagents/pkg/testutil"
	"github.com/Bitropy/ccagents/pkg/types"
)

func TestImport_All(t *testing.T) {
	env := testutil.NewProjectEnv(t)
	env.WriteStorageFile("stored.md", "content")
	env.WriteActiveFile("manual.md", "content")
	env.SaveConfig(&config.Config{})

	result, err := imports.Import(imports.Options{Root: env.Root, All: true, FS: env.FS})
	require.NoError(t, err)

	assert.Len(t, result.Imported, 2)
	cfg := env.LoadConfig()
	assert.NotNil(t, cfg.Get("stored.md"))
	assert.NotNil(t, cfg.Get("manual.md"))
}

func TestImport_Named(t *testing.T) {
	env := testutil.NewProjectEnv(t)
	env.WriteStorageFile("wanted.md", "content")
	env.WriteStorageFile("other.md", "content")
	env.SaveConfig(&config.Config{})

	result, err := imports.Import(imports.Options{Root: env.Root, Name: "wanted.md", FS: env.FS})
	require.NoError(t, err)

	require.Len(t, result.Imported, 1)
	assert.Equal(t, "wanted.md", result.Imported[0].Name)
	assert.Nil(t, env.LoadConfig().Get("other.md"), "only the named entity is imported")
}

func TestImport_NamedNotFound(t *testing.T) {
	env := testutil.NewProjectEnv(t)
	env.SaveConfig(&config.Config{})

	_, err := imports.Import(imports.Options{Root: env.Root, Name: "ghost.md", FS: env.FS})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrAgentNotFound))
}

func TestImport_NamedAlreadyTracked(t *testing.T) {
	env := testutil.NewProjectEnv(t)
	cfg := &config.Config{}
	require.NoError(t, cfg.Add(types.NewAgent("taken.md", types.NewLocalSource("x"))))
	env.SaveConfig(cfg)

	_, err := imports.Import(imports.Options{Root: env.Root, Name: "taken.md", FS: env.FS})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrAlreadyTracked))
}

func TestImport_DeclinedConfirmation(t *testing.T) {
	env := testutil.NewProjectEnv(t)
	env.WriteStorageFile("stored.md", "content")
	env.SaveConfig(&config.Config{})

	confirm := &testutil.StaticConfirmer{Answer: false}
	result, err := imports.Import(imports.Options{Root: env.Root, FS: env.FS, Confirmer: confirm})
	require.NoError(t, err)

	assert.True(t, result.Cancelled)
	assert.Len(t, confirm.Messages, 1)
	assert.Empty(t, env.LoadConfig().Agents)
}

func TestImport_NothingToImport(t *testing.T) {
	env := testutil.NewProjectEnv(t)
	env.SaveConfig(&config.Config{})

	result, err := imports.Import(imports.Options{Root: env.Root, All: true, FS: env.FS})
	require.NoError(t, err)
	assert.Empty(t, result.Candidates)
	assert.Empty(t, result.Imported)
}
