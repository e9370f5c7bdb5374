package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/abhinav-dholi/todo-cli/internal/todoapi"
)

type Theme struct {
	Title      lipgloss.Style
	ActiveLine lipgloss.Style
	MetaLabel  lipgloss.Style
	MetaValue  lipgloss.Style
	StateIdle  lipgloss.Style
	StateWarn  lipgloss.Style
	StateLoad  lipgloss.Style

	CheckDone    lipgloss.Style
	CheckPending lipgloss.Style
	TitlePending lipgloss.Style
	TitleDone    lipgloss.Style
}

func Default() Theme {
	cpMauve := lipgloss.Color("#cba6f7")
	cpRed := lipgloss.Color("#f38ba8")
	cpPeach := lipgloss.Color("#fab387")
	cpGreen := lipgloss.Color("#a6e3a1")
	cpText := lipgloss.Color("#cdd6f4")
	cpSubtext0 := lipgloss.Color("#a6adc8")
	cpSubtext1 := lipgloss.Color("#bac2de")
	cpOverlay1 := lipgloss.Color("#7f849c")
	cpSurface0 := lipgloss.Color("#313244")

	return Theme{
		Title:      lipgloss.NewStyle().Bold(true).Foreground(cpMauve),
		ActiveLine: lipgloss.NewStyle().Background(cpSurface0).Foreground(cpText),
		MetaLabel:  lipgloss.NewStyle().Foreground(cpOverlay1),
		MetaValue:  lipgloss.NewStyle().Foreground(cpSubtext1),
		StateIdle:  lipgloss.NewStyle().Foreground(cpGreen),
		StateWarn:  lipgloss.NewStyle().Foreground(cpRed),
		StateLoad:  lipgloss.NewStyle().Foreground(cpPeach),

		CheckDone:    lipgloss.NewStyle().Foreground(cpGreen),
		CheckPending: lipgloss.NewStyle().Foreground(cpOverlay1),
		TitlePending: lipgloss.NewStyle().Bold(true).Foreground(cpText),
		TitleDone:    lipgloss.NewStyle().Strikethrough(true).Foreground(cpSubtext0),
	}
}

func (t Theme) StyleTodoTitle(todo todoapi.Todo, title string) string {
	if title == "" {
		return title
	}
	if todo.Completed {
		return t.TitleDone.Render(title)
	}
	return t.TitlePending.Render(title)
}

func (t Theme) StyleCheckbox(todo todoapi.Todo) string {
	if todo.Completed {
		return t.CheckDone.Render("[x]")
	}
	return t.CheckPending.Render("[ ]")
}

func (t Theme) RenderActiveLine(active bool, line string) string {
	if !active {
		return line
	}
	return t.ActiveLine.Render(line)
}
