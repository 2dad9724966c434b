package types

// AgentStatus is the derived health of one agent. It is recomputed from the
// config entry and a live filesystem probe on every run, never persisted.
type AgentStatus string

const (
	// StatusLinked means the active symlink exists and resolves to the
	// expected storage path
	StatusLinked AgentStatus = "linked"

	// StatusNotLinked means no active symlink exists (expected for
	// disabled agents, fixable for enabled ones)
	StatusNotLinked AgentStatus = "not-linked"

	// StatusLinkBroken means the symlink exists but does not resolve, or
	// resolves somewhere other than the expected storage path
	StatusLinkBroken AgentStatus = "link-broken"

	// StatusSourceMissing means the backing storage file is absent
	StatusSourceMissing AgentStatus = "source-missing"

	// StatusOrphaned means an on-disk entity has no config entry, or a
	// disabled entry has a stray link
	StatusOrphaned AgentStatus = "orphaned"

	// StatusDuplicate means another config entry earlier in the list has
	// the same name
	StatusDuplicate AgentStatus = "duplicate"
)

// Healthy reports whether the status needs no corrective action
func (s AgentStatus) Healthy() bool {
	return s == StatusLinked || s == StatusNotLinked
}
