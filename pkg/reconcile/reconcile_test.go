package reconcile_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bitropy/ccagents/pkg/config"
	"github.com/Bitropy/ccagents/pkg/errors"
	"github.com/Bitropy/ccagents/pkg/reconcile"
	"github.com/Bitropy/ccagents/pkg/testutil"
	"github.com/Bitropy/ccagents/pkg/types"
)

func TestSync_LinksEnabledAgent(t *testing.T) {
	env := testutil.NewProjectEnv(t)
	a := env.LocalAgent("reviewer.md", "content")
	cfg := &config.Config{Agents: []types.Agent{a}}

	rec := reconcile.New(env.FS, env.Paths, cfg, nil)
	report, err := rec.Sync(context.Background(), false)
	require.NoError(t, err)

	require.Len(t, report.Outcomes, 1)
	assert.Equal(t, types.ActionLinked, report.Outcomes[0].Action)
	assert.Equal(t, types.StatusLinked, report.Outcomes[0].Status)
	assert.True(t, testutil.IsSymlink(t, env.Paths.LinkPath(a)))
	assert.True(t, testutil.FileExists(t, env.Paths.LinkPath(a)), "link must resolve")
}

func TestSync_RemovesOrphanedLink(t *testing.T) {
	env := testutil.NewProjectEnv(t)
	a := env.LocalAgent("reviewer.md", "content")
	a.Enabled = false
	env.Link(a)
	cfg := &config.Config{Agents: []types.Agent{a}}

	rec := reconcile.New(env.FS, env.Paths, cfg, nil)
	report, err := rec.Sync(context.Background(), false)
	require.NoError(t, err)

	require.Len(t, report.Outcomes, 1)
	assert.Equal(t, types.ActionUnlinked, report.Outcomes[0].Action)
	assert.True(t, testutil.PathAbsent(t, env.Paths.LinkPath(a)))
}

func TestSync_RepairsBrokenLink(t *testing.T) {
	env := testutil.NewProjectEnv(t)
	a := env.LocalAgent("reviewer.md", "content")
	env.BrokenLink(a)
	cfg := &config.Config{Agents: []types.Agent{a}}

	rec := reconcile.New(env.FS, env.Paths, cfg, nil)
	report, err := rec.Sync(context.Background(), false)
	require.NoError(t, err)

	require.Len(t, report.Outcomes, 1)
	assert.Equal(t, types.ActionLinked, report.Outcomes[0].Action)
	assert.True(t, testutil.FileExists(t, env.Paths.LinkPath(a)), "repaired link must resolve")
}

func TestSync_DownloadsGitHubAgent(t *testing.T) {
	env := testutil.NewProjectEnv(t)
	url := "https://github.com/u/r/blob/main/helper.md"
	a := env.GitHubAgent("helper.md", url, "")
	cfg := &config.Config{Agents: []types.Agent{a}}
	dl := &testutil.FakeDownloader{Content: map[string][]byte{url: []byte("# helper")}}

	rec := reconcile.New(env.FS, env.Paths, cfg, dl)
	report, err := rec.Sync(context.Background(), false)
	require.NoError(t, err)

	require.Len(t, report.Outcomes, 1)
	assert.Equal(t, types.ActionDownloaded, report.Outcomes[0].Action)
	assert.Equal(t, types.StatusLinked, report.Outcomes[0].Status)
	assert.True(t, testutil.FileExists(t, env.Paths.StoragePath(a)))
	assert.True(t, testutil.IsSymlink(t, env.Paths.LinkPath(a)))
	assert.Equal(t, []string{url}, dl.Calls)
}

func TestSync_SkipsDownloadWhenStorageExists(t *testing.T) {
	env := testutil.NewProjectEnv(t)
	url := "https://github.com/u/r/blob/main/helper.md"
	a := env.GitHubAgent("helper.md", url, "already here")
	cfg := &config.Config{Agents: []types.Agent{a}}
	dl := &testutil.FakeDownloader{}

	rec := reconcile.New(env.FS, env.Paths, cfg, dl)
	_, err := rec.Sync(context.Background(), false)
	require.NoError(t, err)

	assert.Empty(t, dl.Calls, "existing storage content is never re-fetched")
}

func TestSync_FailedDownloadDoesNotStopRun(t *testing.T) {
	env := testutil.NewProjectEnv(t)
	bad := env.GitHubAgent("bad.md", "https://github.com/u/r/blob/main/bad.md", "")
	good := env.LocalAgent("good.md", "content")
	cfg := &config.Config{Agents: []types.Agent{bad, good}}
	dl := &testutil.FakeDownloader{} // serves nothing

	rec := reconcile.New(env.FS, env.Paths, cfg, dl)
	report, err := rec.Sync(context.Background(), false)
	require.NoError(t, err)

	require.Len(t, report.Outcomes, 2)
	assert.Error(t, report.Outcomes[0].Err)
	assert.Equal(t, types.StatusSourceMissing, report.Outcomes[0].Status)
	assert.Equal(t, types.ActionLinked, report.Outcomes[1].Action,
		"an earlier failure must not stop later agents")
}

func TestSync_Idempotent(t *testing.T) {
	env := testutil.NewProjectEnv(t)
	a := env.LocalAgent("reviewer.md", "content")
	b := env.LocalAgent("writer.md", "content")
	b.Enabled = false
	cfg := &config.Config{Agents: []types.Agent{a, b}}

	rec := reconcile.New(env.FS, env.Paths, cfg, nil)
	first, err := rec.Sync(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Mutations())

	second, err := rec.Sync(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Mutations(), "a second run must change nothing")
	for _, o := range second.Outcomes {
		assert.NoError(t, o.Err)
		assert.Equal(t, types.ActionNone, o.Action)
	}
}

func TestSync_PruneDropsMissingSources(t *testing.T) {
	env := testutil.NewProjectEnv(t)
	gone := types.NewAgent("gone.md", types.NewLocalSource(".ccagents/gone.md"))
	kept := env.LocalAgent("kept.md", "content")
	cfg := &config.Config{Agents: []types.Agent{gone, kept}}
	env.SaveConfig(cfg)

	rec := reconcile.New(env.FS, env.Paths, cfg, nil)
	report, err := rec.Sync(context.Background(), true)
	require.NoError(t, err)

	assert.True(t, report.ConfigChanged)
	assert.Nil(t, cfg.Get("gone.md"))
	assert.NotNil(t, cfg.Get("kept.md"))

	// The save happened: a reload agrees
	assert.Nil(t, env.LoadConfig().Get("gone.md"))

	var pruned bool
	for _, o := range report.Outcomes {
		if o.Action == types.ActionPruned {
			pruned = true
			assert.Equal(t, "gone.md", o.Name)
		}
	}
	assert.True(t, pruned, "prune must be reported as its own outcome")
}

func TestSync_PruneKeepsDuplicateWithExistingStorage(t *testing.T) {
	env := testutil.NewProjectEnv(t)
	// Externally edited config: two entries named a.md, the first with a
	// missing source, the second backed by a real file and linked
	gone := types.NewAgent("a.md", types.NewLocalSource(".ccagents/a.md"))
	dupe := types.NewAgent("a.md", types.NewLocalSource(filepath.Join("agents-src", "a.md")))
	testutil.WriteFile(t, env.Paths.StoragePath(dupe), "content")
	env.Link(dupe)
	cfg := &config.Config{Agents: []types.Agent{gone, dupe}}
	env.SaveConfig(cfg)

	rec := reconcile.New(env.FS, env.Paths, cfg, nil)
	report, err := rec.Sync(context.Background(), true)
	require.NoError(t, err)

	require.Len(t, cfg.Agents, 1, "only the source-missing entry is pruned")
	assert.Equal(t, dupe.Source, cfg.Agents[0].Source,
		"the entry whose storage file exists survives")
	assert.True(t, report.ConfigChanged)
	assert.Len(t, env.LoadConfig().Agents, 1)
	assert.True(t, testutil.FileExists(t, env.Paths.LinkPath(dupe)),
		"the surviving entry's link is left in place")
}

func TestClean_KeepsDuplicateWithExistingStorage(t *testing.T) {
	env := testutil.NewProjectEnv(t)
	gone := types.NewAgent("a.md", types.NewLocalSource(".ccagents/a.md"))
	dupe := types.NewAgent("a.md", types.NewLocalSource(filepath.Join("agents-src", "a.md")))
	testutil.WriteFile(t, env.Paths.StoragePath(dupe), "content")
	env.Link(dupe)
	cfg := &config.Config{Agents: []types.Agent{gone, dupe}}
	env.SaveConfig(cfg)

	rec := reconcile.New(env.FS, env.Paths, cfg, nil)
	missing := rec.MissingSources()
	require.Len(t, missing, 1, "the duplicate is not a removal candidate")

	report, err := rec.Clean(missing, true, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Mutations())
	require.Len(t, cfg.Agents, 1)
	assert.Equal(t, dupe.Source, cfg.Agents[0].Source)
	assert.True(t, testutil.FileExists(t, env.Paths.LinkPath(dupe)))
}

func TestSync_WithoutPruneKeepsMissingSources(t *testing.T) {
	env := testutil.NewProjectEnv(t)
	gone := types.NewAgent("gone.md", types.NewLocalSource(".ccagents/gone.md"))
	cfg := &config.Config{Agents: []types.Agent{gone}}

	rec := reconcile.New(env.FS, env.Paths, cfg, nil)
	report, err := rec.Sync(context.Background(), false)
	require.NoError(t, err)

	assert.NotNil(t, cfg.Get("gone.md"), "sync never drops entries on its own")
	assert.Equal(t, types.StatusSourceMissing, report.Outcomes[0].Status)
	assert.NoError(t, report.Outcomes[0].Err)
}

func TestClean_DeclinedLeavesConfigUntouched(t *testing.T) {
	env := testutil.NewProjectEnv(t)
	gone := types.NewAgent("gone.md", types.NewLocalSource(".ccagents/gone.md"))
	cfg := &config.Config{Agents: []types.Agent{gone}}
	env.SaveConfig(cfg)

	rec := reconcile.New(env.FS, env.Paths, cfg, nil)
	missing := rec.MissingSources()
	require.Len(t, missing, 1)

	confirm := &testutil.StaticConfirmer{Answer: false}
	report, err := rec.Clean(missing, false, confirm)
	require.NoError(t, err)

	assert.True(t, report.Cancelled)
	assert.Len(t, confirm.Messages, 1)
	assert.NotNil(t, cfg.Get("gone.md"))
	assert.NotNil(t, env.LoadConfig().Get("gone.md"))
}

func TestClean_ForceSkipsConfirmation(t *testing.T) {
	env := testutil.NewProjectEnv(t)
	gone := types.NewAgent("gone.md", types.NewLocalSource(".ccagents/gone.md"))
	kept := env.LocalAgent("kept.md", "content")
	cfg := &config.Config{Agents: []types.Agent{gone, kept}}
	env.SaveConfig(cfg)

	rec := reconcile.New(env.FS, env.Paths, cfg, nil)
	report, err := rec.Clean(rec.MissingSources(), true, nil)
	require.NoError(t, err)

	assert.False(t, report.Cancelled)
	assert.Equal(t, 1, report.Mutations())
	assert.Nil(t, cfg.Get("gone.md"))
	assert.NotNil(t, cfg.Get("kept.md"), "entries with existing storage are never cleaned")
}

func TestDoctor_ReportOnly(t *testing.T) {
	env := testutil.NewProjectEnv(t)
	a := env.LocalAgent("reviewer.md", "content")
	env.BrokenLink(a)
	cfg := &config.Config{Agents: []types.Agent{a}}

	rec := reconcile.New(env.FS, env.Paths, cfg, nil)
	report, err := rec.Doctor(context.Background(), false)
	require.NoError(t, err)

	require.Len(t, report.Outcomes, 1)
	assert.Equal(t, types.StatusLinkBroken, report.Outcomes[0].Status)
	assert.Equal(t, types.ActionNone, report.Outcomes[0].Action)
	assert.False(t, testutil.FileExists(t, env.Paths.LinkPath(a)),
		"doctor without fix must not repair anything")
}

func TestDoctor_FixRepairsAndDedupes(t *testing.T) {
	env := testutil.NewProjectEnv(t)
	a := env.LocalAgent("reviewer.md", "content")
	env.BrokenLink(a)
	dupe := a
	dupe.Enabled = false
	cfg := &config.Config{Agents: []types.Agent{a, dupe}}
	env.SaveConfig(cfg)

	rec := reconcile.New(env.FS, env.Paths, cfg, nil)
	report, err := rec.Doctor(context.Background(), true)
	require.NoError(t, err)

	assert.True(t, testutil.FileExists(t, env.Paths.LinkPath(a)), "broken link repaired")
	require.Len(t, cfg.Agents, 1)
	assert.True(t, cfg.Agents[0].Enabled, "the first occurrence is kept")
	assert.True(t, report.ConfigChanged)
	assert.Len(t, env.LoadConfig().Agents, 1, "the collapsed config was saved")
}

func TestDoctor_FixRemovesDanglingOrphanLink(t *testing.T) {
	env := testutil.NewProjectEnv(t)
	// Unmanaged symlink in the active dir pointing nowhere
	link := filepath.Join(env.Paths.ActiveDir(), "stray.md")
	testutil.Symlink(t, filepath.Join("..", "nowhere", "stray.md"), link)
	cfg := &config.Config{}

	rec := reconcile.New(env.FS, env.Paths, cfg, nil)
	report, err := rec.Doctor(context.Background(), true)
	require.NoError(t, err)

	require.Len(t, report.Outcomes, 1)
	assert.Equal(t, types.ActionLinkRemoved, report.Outcomes[0].Action)
	assert.True(t, testutil.PathAbsent(t, link))
}

func TestDoctor_ReportsUnmanagedEntities(t *testing.T) {
	env := testutil.NewProjectEnv(t)
	env.WriteStorageFile("unclaimed.md", "content")
	env.WriteActiveFile("manual.md", "content")
	cfg := &config.Config{}

	rec := reconcile.New(env.FS, env.Paths, cfg, nil)
	report, err := rec.Doctor(context.Background(), false)
	require.NoError(t, err)

	names := make(map[string]types.AgentStatus)
	for _, o := range report.Outcomes {
		names[o.Name] = o.Status
	}
	assert.Equal(t, types.StatusOrphaned, names["unclaimed.md"])
	assert.Equal(t, types.StatusOrphaned, names["manual.md"])
}

func TestSyncOne_UnknownAgent(t *testing.T) {
	env := testutil.NewProjectEnv(t)
	cfg := &config.Config{}

	rec := reconcile.New(env.FS, env.Paths, cfg, nil)
	_, err := rec.SyncOne(context.Background(), "nobody.md")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrAgentNotFound))
}

func TestSyncOne_LinksSingleAgent(t *testing.T) {
	env := testutil.NewProjectEnv(t)
	a := env.LocalAgent("reviewer.md", "content")
	other := env.LocalAgent("other.md", "content")
	cfg := &config.Config{Agents: []types.Agent{a, other}}

	rec := reconcile.New(env.FS, env.Paths, cfg, nil)
	outcome, err := rec.SyncOne(context.Background(), "reviewer.md")
	require.NoError(t, err)

	assert.Equal(t, types.ActionLinked, outcome.Action)
	assert.True(t, testutil.IsSymlink(t, env.Paths.LinkPath(a)))
	assert.True(t, testutil.PathAbsent(t, env.Paths.LinkPath(other)),
		"only the named agent is touched")
}
