package cli

import (
	"fmt"

	"github.com/Bitropy/ccagents/pkg/commands/add"
	"github.com/Bitropy/ccagents/pkg/commands/clean"
	"github.com/Bitropy/ccagents/pkg/commands/disable"
	"github.com/Bitropy/ccagents/pkg/commands/doctor"
	"github.com/Bitropy/ccagents/pkg/commands/enable"
	"github.com/Bitropy/ccagents/pkg/commands/imports"
	"github.com/Bitropy/ccagents/pkg/commands/list"
	synccmd "github.com/Bitropy/ccagents/pkg/commands/sync"
	"github.com/Bitropy/ccagents/pkg/style"
	"github.com/Bitropy/ccagents/pkg/types"
)

func renderAdd(result *add.Result) {
	if result.Downloaded {
		fmt.Printf("  %s %s\n", style.InfoStyle.Render("→"), "downloaded from GitHub")
	}
	if result.Copied {
		fmt.Printf("  %s copied into storage\n", style.InfoStyle.Render("→"))
	}
	if result.Linked {
		fmt.Printf("  %s created symlink in active directory\n", style.InfoStyle.Render("→"))
	}
	fmt.Printf("%s Agent %s added\n",
		style.SuccessStyle.Render("✓"), style.NameStyle.Render(result.Agent.Name))
}

func renderList(result *list.Result) {
	if len(result.Rows) == 0 && len(result.Available) == 0 {
		fmt.Println(style.MutedStyle.Render("No agents configured"))
		return
	}

	fmt.Println(style.TitleStyle.Render("Agents:"))
	for _, row := range result.Rows {
		if row.Err != nil {
			fmt.Printf("  %s %s - %v\n",
				style.ErrorStyle.Render("✗"), style.NameStyle.Render(row.Agent.Name), row.Err)
			continue
		}
		fmt.Printf("  %s %s\n", style.NameStyle.Render(row.Agent.Name), style.RenderStatus(row.Status))
		fmt.Printf("    %s %s\n", style.MutedStyle.Render("source:"), sourceLabel(row.Agent))
	}

	if len(result.Available) > 0 {
		fmt.Println()
		fmt.Println(style.TitleStyle.Render("Available (in storage but not configured):"))
		for _, name := range result.Available {
			fmt.Printf("  %s %s %s\n",
				style.InfoStyle.Render("◇"), name,
				style.MutedStyle.Render("run 'ccagents import "+name+"'"))
		}
	}

	fmt.Println()
	fmt.Printf("%s: %d enabled, %d disabled\n",
		style.NameStyle.Render("Total"), result.Enabled, result.Disabled)
}

func renderEnable(result *enable.Result) {
	if result.AlreadyEnabled {
		fmt.Printf("%s Agent %s is already enabled\n",
			style.InfoStyle.Render("ℹ"), style.NameStyle.Render(result.Agent.Name))
		return
	}
	if result.Outcome.Action == types.ActionDownloaded {
		fmt.Printf("  %s downloaded from GitHub\n", style.InfoStyle.Render("→"))
	}
	fmt.Printf("%s Agent %s enabled\n",
		style.SuccessStyle.Render("✓"), style.NameStyle.Render(result.Agent.Name))
}

func renderDisable(result *disable.Result) {
	if result.AlreadyDisabled {
		fmt.Printf("%s Agent %s is already disabled\n",
			style.InfoStyle.Render("ℹ"), style.NameStyle.Render(result.Agent.Name))
		return
	}
	fmt.Printf("%s Agent %s disabled\n",
		style.SuccessStyle.Render("✓"), style.NameStyle.Render(result.Agent.Name))
}

func renderSync(result *synccmd.Result) {
	if result.Empty {
		fmt.Println(style.WarningStyle.Render("No agents configured in .agents.json"))
		fmt.Println("Use 'ccagents add <source>' to add agents")
		return
	}

	for _, o := range result.Report.Outcomes {
		renderOutcome(o)
	}
	renderSummary(result.Report)
}

func renderImport(result *imports.Result) {
	if result.Cancelled {
		fmt.Println(style.WarningStyle.Render("Import cancelled"))
		return
	}
	if len(result.Candidates) == 0 {
		fmt.Printf("%s No unmanaged files found\n", style.SuccessStyle.Render("✓"))
		return
	}
	for _, agent := range result.Imported {
		fmt.Printf("  %s imported %s\n", style.InfoStyle.Render("→"), style.NameStyle.Render(agent.Name))
	}
	fmt.Printf("%s Imported %d agent%s\n",
		style.SuccessStyle.Render("✓"), len(result.Imported), pluralS(len(result.Imported)))
}

func renderClean(result *clean.Result) {
	if len(result.Missing) == 0 {
		fmt.Printf("%s No entries with a missing source\n", style.SuccessStyle.Render("✓"))
		return
	}

	fmt.Println(style.WarningStyle.Render("Entries with a missing source:"))
	for _, agent := range result.Missing {
		fmt.Printf("  %s %s\n", style.ErrorStyle.Render("○"), style.NameStyle.Render(agent.Name))
		fmt.Printf("    %s %s\n", style.MutedStyle.Render("missing:"), sourceLabel(agent))
	}

	if result.Report.Cancelled {
		fmt.Println(style.WarningStyle.Render("Clean operation cancelled"))
		return
	}
	fmt.Printf("%s Removed %d entr%s\n",
		style.SuccessStyle.Render("✓"), result.Report.Mutations(),
		pluralY(result.Report.Mutations()))
}

func renderDoctor(result *doctor.Result, fix bool) {
	issues := result.Issues()
	if len(issues) == 0 {
		fmt.Printf("%s All checks passed, no issues found\n", style.SuccessStyle.Render("✓"))
		return
	}

	fmt.Printf("%s Found %d issue%s:\n",
		style.WarningStyle.Render("⚠"), len(issues), pluralS(len(issues)))
	for _, o := range issues {
		renderOutcome(o)
	}

	if !fix {
		fmt.Println()
		fmt.Printf("Run %s to automatically fix these issues\n",
			style.InfoStyle.Render("ccagents doctor --fix"))
		return
	}
	fmt.Println()
	fmt.Printf("%s Applied %d fix%s\n",
		style.SuccessStyle.Render("✓"), result.Report.Mutations(),
		pluralEs(result.Report.Mutations()))
}

func renderOutcome(o types.Outcome) {
	if o.Err != nil {
		fmt.Printf("  %s %s - %v\n",
			style.ErrorStyle.Render("✗"), style.NameStyle.Render(o.Name), o.Err)
		return
	}

	var note string
	switch o.Action {
	case types.ActionLinked:
		note = "linked"
	case types.ActionUnlinked:
		note = "symlink removed"
	case types.ActionDownloaded:
		note = "downloaded and linked"
	case types.ActionPruned:
		note = "pruned from config"
	case types.ActionDeduplicated:
		note = "duplicate removed"
	case types.ActionLinkRemoved:
		note = "dangling symlink removed"
	default:
		fmt.Printf("  %s %s\n", style.NameStyle.Render(o.Name), style.RenderStatus(o.Status))
		return
	}
	fmt.Printf("  %s %s - %s\n",
		style.SuccessStyle.Render("✓"), style.NameStyle.Render(o.Name), note)
}

func renderSummary(report *types.Report) {
	failed := report.Failed()
	fmt.Println()
	if len(failed) == 0 {
		fmt.Printf("%s Sync complete: %d agent%s, %d change%s\n",
			style.SuccessStyle.Render("✓"),
			len(report.Outcomes), pluralS(len(report.Outcomes)),
			report.Mutations(), pluralS(report.Mutations()))
		return
	}
	fmt.Printf("%s Sync finished with %d failure%s\n",
		style.ErrorStyle.Render("✗"), len(failed), pluralS(len(failed)))
}

func sourceLabel(agent types.Agent) string {
	switch agent.Source.Kind {
	case types.SourceGitHub:
		return agent.Source.Value + " (GitHub)"
	default:
		return agent.Source.Value
	}
}

func pluralS(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

func pluralY(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}

func pluralEs(n int) string {
	if n == 1 {
		return ""
	}
	return "es"
}
