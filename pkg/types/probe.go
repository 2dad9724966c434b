package types

// ProbeResult holds the on-disk facts for one agent at the moment of
// inspection. Absence of a file or link is a normal value here, not an
// error.
type ProbeResult struct {
	// StorageExists is true when the agent's storage path exists
	StorageExists bool

	// LinkExists is true when a symlink (or any entry) named after the
	// agent exists in the active directory
	LinkExists bool

	// LinkIsSymlink is true when that entry is actually a symlink rather
	// than a regular file
	LinkIsSymlink bool

	// LinkTarget is the raw symlink target, empty when LinkExists is false
	LinkTarget string

	// LinkResolves is true when the symlink resolves to an existing file
	// at the expected storage path
	LinkResolves bool
}
