package view

import (
	"fmt"
	"strings"

	tuitheme "github.com/abhinav-dholi/todo-cli/internal/tui/theme"
)

func Toolbar(inputActive bool) string {
	if inputActive {
		return "enter: submit | esc: cancel"
	}
	return "j/k move | enter/space toggle | a add | e edit | d delete | / search | ctrl+l clear search | r refresh | ? help"
}

func Footer(shown, total int, searchQuery string, matchCount int, editing bool, th tuitheme.Theme) string {
	mode := "create"
	if editing {
		mode = "edit"
	}
	parts := []string{
		th.MetaLabel.Render("mode") + " " + th.MetaValue.Render(mode),
		th.MetaValue.Render(fmt.Sprintf("%d shown", shown)),
		th.MetaValue.Render(fmt.Sprintf("%d total", total)),
	}
	if searchQuery != "" {
		parts = append(parts, th.MetaLabel.Render("search")+" "+th.MetaValue.Render(fmt.Sprintf("%q (%d)", searchQuery, matchCount)))
	}
	return strings.Join(parts, " • ")
}

func Message(loading, hasWarning bool, status, warning string, th tuitheme.Theme) string {
	state := "idle"
	if loading {
		state = "loading"
	}
	if hasWarning {
		state = "warning"
	}
	main := "Ready"
	if status != "" {
		main = status
	} else if hasWarning {
		main = warning
	}
	stateLabel := th.StateIdle.Render("state")
	switch state {
	case "warning":
		stateLabel = th.StateWarn.Render("state")
	case "loading":
		stateLabel = th.StateLoad.Render("state")
	}
	return fmt.Sprintf("%s: %s | %s", stateLabel, state, th.MetaValue.Render(main))
}

func HelpView() string {
	lines := []string{
		"Navigation:",
		"  j/k or arrows move, g/G jump top/bottom, pgup/pgdown jump page",
		"Actions:",
		"  enter or space toggles completion",
		"  a adds a todo, e edits the selected one, d deletes it",
		"Search:",
		"  / starts typing a search, applied 1s after the last keystroke",
		"  ctrl+l clears the search and restores the full list",
		"Other:",
		"  c compact mode, N numbering, r refresh, q quit",
	}
	return strings.Join(lines, "\n")
}
