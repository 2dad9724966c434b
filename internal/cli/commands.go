// Package cli wires the cobra command tree for ccagents.
package cli

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Bitropy/ccagents/internal/version"
	"github.com/Bitropy/ccagents/pkg/commands/add"
	"github.com/Bitropy/ccagents/pkg/commands/clean"
	"github.com/Bitropy/ccagents/pkg/commands/disable"
	"github.com/Bitropy/ccagents/pkg/commands/doctor"
	"github.com/Bitropy/ccagents/pkg/commands/enable"
	"github.com/Bitropy/ccagents/pkg/commands/imports"
	"github.com/Bitropy/ccagents/pkg/commands/list"
	"github.com/Bitropy/ccagents/pkg/commands/show"
	synccmd "github.com/Bitropy/ccagents/pkg/commands/sync"
	"github.com/Bitropy/ccagents/pkg/logging"
	"github.com/Bitropy/ccagents/pkg/style"
)

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	var verbosity int

	rootCmd := &cobra.Command{
		Use:   "ccagents",
		Short: "Manage Claude Code agents in your project",
		Long: `ccagents tracks named agent files in a project: canonical content lives
in the managed storage directory and enabled agents are exposed to the
consuming tool through symlinks in the active directory. A bare
invocation runs sync.`,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(verbosity)
			style.Init()
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// Bare invocation behaves like sync
			return runSync(cmd, false)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		DisableAutoGenTag: true,
	}

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")

	rootCmd.AddCommand(newAddCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newEnableCmd())
	rootCmd.AddCommand(newDisableCmd())
	rootCmd.AddCommand(newSyncCmd())
	rootCmd.AddCommand(newImportCmd())
	rootCmd.AddCommand(newCleanCmd())
	rootCmd.AddCommand(newDoctorCmd())
	rootCmd.AddCommand(newShowCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("ccagents version %s\n", version.Version)
			if version.Commit != "" {
				fmt.Printf("Commit: %s\n", version.Commit)
			}
			if version.Date != "" {
				fmt.Printf("Built:  %s\n", version.Date)
			}
		},
	}
}

func newAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <source>",
		Short: "Add a new agent from a local path or GitHub URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := add.Add(cmd.Context(), add.Options{Source: args[0]})
			if err != nil {
				return err
			}
			renderAdd(result)
			return nil
		},
	}
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all agents (enabled, disabled, and available)",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := list.List(list.Options{})
			if err != nil {
				return err
			}
			renderList(result)
			return nil
		},
	}
}

func newEnableCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "enable <name>",
		Short: "Enable an agent by creating its symlink in the active directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := enable.Enable(cmd.Context(), enable.Options{Name: args[0]})
			if err != nil {
				return err
			}
			renderEnable(result)
			return nil
		},
	}
}

func newDisableCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "disable <name>",
		Short: "Disable an agent by removing its symlink from the active directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := disable.Disable(cmd.Context(), disable.Options{Name: args[0]})
			if err != nil {
				return err
			}
			renderDisable(result)
			return nil
		},
	}
}

func newSyncCmd() *cobra.Command {
	var prune bool

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Sync the active directory with the agent configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(cmd, prune)
		},
	}
	cmd.Flags().BoolVarP(&prune, "prune", "p", false, "Remove entries with a missing source after syncing")
	return cmd
}

func runSync(cmd *cobra.Command, prune bool) error {
	result, err := synccmd.Sync(cmd.Context(), synccmd.Options{Prune: prune})
	if err != nil {
		return err
	}
	renderSync(result)
	return nil
}

func newImportCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "import [<name>]",
		Short: "Import unmanaged files as managed agents",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := imports.Options{All: all, Confirmer: NewConfirmer()}
			if len(args) == 1 {
				opts.Name = args[0]
			}
			result, err := imports.Import(opts)
			if err != nil {
				return err
			}
			renderImport(result)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&all, "all", "a", false, "Import all unmanaged files without confirmation")
	return cmd
}

func newCleanCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove entries whose source is missing",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := clean.Clean(clean.Options{Force: force, Confirmer: NewConfirmer()})
			if err != nil {
				return err
			}
			renderClean(result)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation prompt")
	return cmd
}

func newDoctorCmd() *cobra.Command {
	var fix bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose and fix issues with the agent configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := doctor.Doctor(cmd.Context(), doctor.Options{Fix: fix})
			if err != nil {
				return err
			}
			renderDoctor(result, fix)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&fix, "fix", "f", false, "Automatically fix issues")
	return cmd
}

func newShowCmd() *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "show <name>",
		Short: "Render an agent's content in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := show.Show(show.Options{Name: args[0], Raw: raw})
			if err != nil {
				return err
			}
			fmt.Print(result.Rendered)
			return nil
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "Print the raw file content without rendering")
	return cmd
}
