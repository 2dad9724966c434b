package reconcile_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Bitropy/ccagents/pkg/reconcile"
	"github.com/Bitropy/ccagents/pkg/types"
)

func agent(kind types.SourceKind, enabled bool) types.Agent {
	a := types.NewAgent("a.md", types.AgentSource{Kind: kind, Value: "x"})
	a.Enabled = enabled
	return a
}

func TestClassify(t *testing.T) {
	linked := types.ProbeResult{
		StorageExists: true,
		LinkExists:    true,
		LinkIsSymlink: true,
		LinkResolves:  true,
	}

	tests := []struct {
		name       string
		agent      types.Agent
		probe      types.ProbeResult
		seenBefore bool
		want       types.AgentStatus
	}{
		{
			name:       "duplicate wins over everything",
			agent:      agent(types.SourceLocal, true),
			probe:      linked,
			seenBefore: true,
			want:       types.StatusDuplicate,
		},
		{
			name:  "local agent with absent storage is source-missing",
			agent: agent(types.SourceLocal, true),
			probe: types.ProbeResult{StorageExists: false},
			want:  types.StatusSourceMissing,
		},
		{
			name:  "source-missing even when a link is present",
			agent: agent(types.SourceLocal, true),
			probe: types.ProbeResult{StorageExists: false, LinkExists: true, LinkIsSymlink: true},
			want:  types.StatusSourceMissing,
		},
		{
			name:  "github agent with absent storage is not source-missing",
			agent: agent(types.SourceGitHub, true),
			probe: types.ProbeResult{StorageExists: false},
			want:  types.StatusNotLinked,
		},
		{
			name:  "disabled without link is not-linked",
			agent: agent(types.SourceLocal, false),
			probe: types.ProbeResult{StorageExists: true},
			want:  types.StatusNotLinked,
		},
		{
			name:  "disabled with stray link is orphaned",
			agent: agent(types.SourceLocal, false),
			probe: linked,
			want:  types.StatusOrphaned,
		},
		{
			name:  "enabled without link is not-linked",
			agent: agent(types.SourceLocal, true),
			probe: types.ProbeResult{StorageExists: true},
			want:  types.StatusNotLinked,
		},
		{
			name:  "enabled with unresolving link is link-broken",
			agent: agent(types.SourceLocal, true),
			probe: types.ProbeResult{StorageExists: true, LinkExists: true, LinkIsSymlink: true},
			want:  types.StatusLinkBroken,
		},
		{
			name:  "regular file at link path is link-broken",
			agent: agent(types.SourceLocal, true),
			probe: types.ProbeResult{StorageExists: true, LinkExists: true, LinkIsSymlink: false},
			want:  types.StatusLinkBroken,
		},
		{
			name:  "enabled with resolving link is linked",
			agent: agent(types.SourceLocal, true),
			probe: linked,
			want:  types.StatusLinked,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := reconcile.Classify(tt.agent, tt.probe, tt.seenBefore)
			assert.Equal(t, tt.want, got)
		})
	}
}
