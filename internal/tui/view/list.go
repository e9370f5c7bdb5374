package view

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	tuitheme "github.com/abhinav-dholi/todo-cli/internal/tui/theme"

	"github.com/abhinav-dholi/todo-cli/internal/todoapi"
)

var reANSICodes = regexp.MustCompile(`\x1b\[[0-9;]*m`)

type TodoLineParams struct {
	Todo        todoapi.Todo
	Compact     bool
	ShowNumbers bool
	VisiblePos  int
	Active      bool
	Width       int
}

// RenderTodoLine renders one list row: cursor marker, checkbox, title and a
// right-aligned creation date column.
func RenderTodoLine(p TodoLineParams, th tuitheme.Theme) string {
	cursorMarker := " "
	if p.Active {
		cursorMarker = ">"
	}

	prefix := fmt.Sprintf(" %s %s ", cursorMarker, th.StyleCheckbox(p.Todo))
	if p.ShowNumbers {
		prefix = fmt.Sprintf(" %s%2d. %s ", cursorMarker, p.VisiblePos+1, th.StyleCheckbox(p.Todo))
	}

	dateLabel := ""
	if !p.Compact {
		dateLabel = "[" + createdDateLabel(p.Todo) + "]"
	}

	available := p.Width - visibleLen(prefix) - 1 - visibleLen(dateLabel)
	if available < 1 {
		available = 1
	}

	label := truncateRunes(strings.TrimSpace(p.Todo.Title), available)
	styledTitle := th.StyleTodoTitle(p.Todo, label)
	if p.Compact {
		return th.RenderActiveLine(p.Active, prefix+styledTitle)
	}

	gap := p.Width - visibleLen(prefix) - visibleLen(label) - visibleLen(dateLabel)
	if gap < 1 {
		gap = 1
	}
	return th.RenderActiveLine(p.Active, prefix+styledTitle+strings.Repeat(" ", gap)+dateLabel)
}

func createdDateLabel(todo todoapi.Todo) string {
	if todo.CreatedAt.IsZero() {
		return "----------"
	}
	return todo.CreatedAt.UTC().Format(time.DateOnly)
}

func visibleLen(s string) int {
	return utf8.RuneCountInString(stripANSI(s))
}

func stripANSI(s string) string {
	return reANSICodes.ReplaceAllString(s, "")
}

func truncateRunes(s string, max int) string {
	if max < 1 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max == 1 {
		return "…"
	}
	return string(runes[:max-1]) + "…"
}
