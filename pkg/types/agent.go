package types

import (
	"encoding/json"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/Bitropy/ccagents/pkg/errors"
)

// SourceKind is the discriminator for the agent source variant
type SourceKind string

const (
	// SourceLocal is an agent backed by a path inside the project
	SourceLocal SourceKind = "Local"

	// SourceGitHub is an agent fetched from a GitHub file URL
	SourceGitHub SourceKind = "GitHub"
)

// AgentSource is a closed two-variant sum: a local path or a GitHub URL.
// Value holds the relative path for SourceLocal and the origin URL for
// SourceGitHub.
type AgentSource struct {
	Kind  SourceKind
	Value string
}

// NewLocalSource creates a Local source from a path
func NewLocalSource(path string) AgentSource {
	return AgentSource{Kind: SourceLocal, Value: path}
}

// NewGitHubSource creates a GitHub source from an origin URL
func NewGitHubSource(url string) AgentSource {
	return AgentSource{Kind: SourceGitHub, Value: url}
}

// sourceJSON is the wire shape of AgentSource in .agents.json
type sourceJSON struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// MarshalJSON implements json.Marshaler
func (s AgentSource) MarshalJSON() ([]byte, error) {
	return json.Marshal(sourceJSON{Type: string(s.Kind), Value: s.Value})
}

// UnmarshalJSON implements json.Unmarshaler
func (s *AgentSource) UnmarshalJSON(data []byte) error {
	var raw sourceJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch SourceKind(raw.Type) {
	case SourceLocal, SourceGitHub:
		s.Kind = SourceKind(raw.Type)
		s.Value = raw.Value
		return nil
	default:
		return errors.Newf(errors.ErrConfigCorrupt, "unknown source type %q", raw.Type)
	}
}

// Agent is one tracked agent entry in .agents.json
type Agent struct {
	Name    string      `json:"name"`
	Source  AgentSource `json:"source"`
	Enabled bool        `json:"enabled"`
}

// NewAgent creates an enabled agent with the given name and source
func NewAgent(name string, source AgentSource) Agent {
	return Agent{Name: name, Source: source, Enabled: true}
}

// AgentFromPath creates a Local agent named after the path's base name
func AgentFromPath(path string) (Agent, error) {
	name := filepath.Base(path)
	if name == "" || name == "." || name == string(filepath.Separator) {
		return Agent{}, errors.Newf(errors.ErrInvalidInput, "invalid agent path %q", path)
	}
	return NewAgent(name, NewLocalSource(path)), nil
}

// AgentFromURL creates a GitHub agent from a direct file URL. Only
// github.com blob URLs (https://github.com/owner/repo/blob/branch/file)
// are accepted; repository and directory links are rejected so the caller
// gets a clear error instead of a failed fetch.
func AgentFromURL(rawURL string) (Agent, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return Agent{}, errors.Wrapf(err, errors.ErrInvalidInput, "invalid URL %q", rawURL)
	}
	if parsed.Host != "github.com" {
		return Agent{}, errors.Newf(errors.ErrUnsupportedSource,
			"only GitHub URLs are supported, got host %q", parsed.Host)
	}

	segments := splitPathSegments(parsed.Path)
	// owner/repo/blob/branch/...file
	if len(segments) < 5 || segments[2] != "blob" {
		return Agent{}, errors.Newf(errors.ErrUnsupportedSource,
			"only direct file links are supported, e.g. https://github.com/user/repo/blob/main/agent.md")
	}

	name := segments[len(segments)-1]
	return NewAgent(name, NewGitHubSource(rawURL)), nil
}

func splitPathSegments(path string) []string {
	var segments []string
	for _, s := range strings.Split(strings.TrimPrefix(path, "/"), "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	return segments
}
