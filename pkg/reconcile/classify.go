package reconcile

import (
	"github.com/Bitropy/ccagents/pkg/types"
)

// Classify computes the health of one config entry from its probe result.
// It is a pure function of its inputs; no cached status is ever trusted
// across a run. The checks are ordered by precedence and the first match
// wins:
//
//  1. a name already seen earlier in the config is a duplicate
//  2. a Local source whose storage file is absent is source-missing
//  3. a disabled entry is not-linked, unless a stray link exists, which
//     is flagged as orphaned rather than silently accepted
//  4. an enabled entry without a link is not-linked
//  5. an enabled entry whose link does not resolve, or resolves to a path
//     other than the expected storage path, is link-broken
//  6. everything else is linked
func Classify(agent types.Agent, probe types.ProbeResult, seenBefore bool) types.AgentStatus {
	switch {
	case seenBefore:
		return types.StatusDuplicate
	case agent.Source.Kind == types.SourceLocal && !probe.StorageExists:
		return types.StatusSourceMissing
	case !agent.Enabled:
		if probe.LinkExists {
			return types.StatusOrphaned
		}
		return types.StatusNotLinked
	case !probe.LinkExists:
		return types.StatusNotLinked
	case !probe.LinkResolves:
		return types.StatusLinkBroken
	default:
		return types.StatusLinked
	}
}
