// Package state holds the pure list-state helpers the synchronizer is built
// from. Everything here is side-effect free so the reconciliation rules can
// be tested without a terminal.
package state

import (
	"strings"

	"github.com/abhinav-dholi/todo-cli/internal/todoapi"
)

func ClampCursor(cursor, size int) int {
	if size <= 0 {
		return 0
	}
	if cursor >= size {
		return size - 1
	}
	if cursor < 0 {
		return 0
	}
	return cursor
}

func PageStep(height int, hasStatus bool) int {
	if height <= 0 {
		return 10
	}
	headerLines := 6
	if hasStatus {
		headerLines += 2
	}
	step := height - headerLines
	if step < 3 {
		step = 3
	}
	return step
}

func CenteredWindow(totalRows, cursor, height int) (int, int) {
	if totalRows <= 0 {
		return 0, 0
	}
	if height <= 0 || totalRows <= height {
		return 0, totalRows
	}
	cursor = ClampCursor(cursor, totalRows)
	start := cursor - height/2
	if start < 0 {
		start = 0
	}
	maxStart := totalRows - height
	if start > maxStart {
		start = maxStart
	}
	return start, start + height
}

func IndexByID(todos []todoapi.Todo, id string) int {
	for i, todo := range todos {
		if todo.ID == id {
			return i
		}
	}
	return -1
}

// RemoveByID drops the record with the given id, keeping order. The input
// slice is left untouched.
func RemoveByID(todos []todoapi.Todo, id string) []todoapi.Todo {
	out := make([]todoapi.Todo, 0, len(todos))
	for _, todo := range todos {
		if todo.ID == id {
			continue
		}
		out = append(out, todo)
	}
	return out
}

// ReplaceAt splices todo into position index. An out-of-range index leaves
// the list unchanged.
func ReplaceAt(todos []todoapi.Todo, index int, todo todoapi.Todo) []todoapi.Todo {
	if index < 0 || index >= len(todos) {
		return todos
	}
	out := append([]todoapi.Todo(nil), todos...)
	out[index] = todo
	return out
}

// ReplaceByID splices todo over the record sharing its id. Unknown ids leave
// the list unchanged.
func ReplaceByID(todos []todoapi.Todo, todo todoapi.Todo) []todoapi.Todo {
	index := IndexByID(todos, todo.ID)
	if index < 0 {
		return todos
	}
	return ReplaceAt(todos, index, todo)
}

// FilterByTitle returns the records whose title contains term,
// case-insensitively. An empty term matches everything.
func FilterByTitle(todos []todoapi.Todo, term string) []todoapi.Todo {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return append([]todoapi.Todo(nil), todos...)
	}
	out := make([]todoapi.Todo, 0, len(todos))
	for _, todo := range todos {
		if strings.Contains(strings.ToLower(todo.Title), term) {
			out = append(out, todo)
		}
	}
	return out
}
