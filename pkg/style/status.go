package style

import (
	"github.com/pterm/pterm"

	"github.com/Bitropy/ccagents/pkg/types"
)

// StatusStyle returns the pterm style for an agent status
func StatusStyle(status types.AgentStatus) *pterm.Style {
	switch status {
	case types.StatusLinked:
		return pterm.NewStyle(pterm.FgGreen)
	case types.StatusNotLinked:
		return pterm.NewStyle(pterm.FgYellow)
	case types.StatusLinkBroken, types.StatusSourceMissing:
		return pterm.NewStyle(pterm.FgRed)
	case types.StatusDuplicate:
		return pterm.NewStyle(pterm.FgRed, pterm.Bold)
	case types.StatusOrphaned:
		return pterm.NewStyle(pterm.FgCyan)
	default:
		return pterm.NewStyle(pterm.FgGray)
	}
}

// StatusGlyph returns the bullet used in front of an agent line
func StatusGlyph(status types.AgentStatus) string {
	switch status {
	case types.StatusLinked:
		return "●"
	case types.StatusNotLinked:
		return "○"
	case types.StatusLinkBroken, types.StatusSourceMissing, types.StatusDuplicate:
		return "✗"
	case types.StatusOrphaned:
		return "◆"
	default:
		return "·"
	}
}

// StatusLabel returns the human-readable status text
func StatusLabel(status types.AgentStatus) string {
	switch status {
	case types.StatusLinked:
		return "linked"
	case types.StatusNotLinked:
		return "not linked"
	case types.StatusLinkBroken:
		return "link broken"
	case types.StatusSourceMissing:
		return "source missing"
	case types.StatusDuplicate:
		return "duplicate entry"
	case types.StatusOrphaned:
		return "orphaned"
	default:
		return string(status)
	}
}

// RenderStatus renders the glyph plus label with the status color
func RenderStatus(status types.AgentStatus) string {
	s := StatusStyle(status)
	return s.Sprint(StatusGlyph(status) + " " + StatusLabel(status))
}
