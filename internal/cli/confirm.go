package cli

import (
	"github.com/pterm/pterm"

	"github.com/Bitropy/ccagents/pkg/types"
)

// ptermConfirmer asks yes/no questions through an interactive prompt
type ptermConfirmer struct{}

// NewConfirmer returns the interactive confirmation prompt used by clean
// and import
func NewConfirmer() types.Confirmer {
	return ptermConfirmer{}
}

func (ptermConfirmer) Confirm(message string) bool {
	ok, err := pterm.DefaultInteractiveConfirm.
		WithDefaultValue(false).
		Show(message)
	if err != nil {
		return false
	}
	return ok
}
