package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/abhinav-dholi/todo-cli/internal/todoapi"
	tuistate "github.com/abhinav-dholi/todo-cli/internal/tui/state"
	tuitheme "github.com/abhinav-dholi/todo-cli/internal/tui/theme"
	"github.com/abhinav-dholi/todo-cli/internal/tui/view"
)

type Service interface {
	Load(ctx context.Context) ([]todoapi.Todo, error)
	Create(ctx context.Context, title string) ([]todoapi.Todo, error)
	Update(ctx context.Context, id string, patch todoapi.Patch) (todoapi.Todo, error)
	Delete(ctx context.Context, id string) error
}

// searchDebounce is how long the search term must stay unchanged before the
// filter is applied.
const searchDebounce = 1000 * time.Millisecond

const requestTimeout = 10 * time.Second

type inputMode int

const (
	inputNone inputMode = iota
	inputAdd
	inputEdit
	inputSearch
)

type loadSuccessMsg struct {
	todos []todoapi.Todo
}

type loadErrorMsg struct {
	err error
}

type createSuccessMsg struct {
	todos []todoapi.Todo
}

type updateSuccessMsg struct {
	index int
	todo  todoapi.Todo
}

type toggleSuccessMsg struct {
	todo todoapi.Todo
}

type deleteSuccessMsg struct {
	id string
}

type mutationErrorMsg struct {
	err error
}

type searchDebounceMsg struct {
	seq int
}

type preferenceSaveErrorMsg struct {
	err error
}

// Preferences are the display toggles persisted between runs.
type Preferences struct {
	Compact     bool
	ShowNumbers bool
}

// Model is the view-state synchronizer. items is what the list shows;
// itemsBackup is the last full server collection and items only diverges from
// it while a search filter is active.
type Model struct {
	service Service

	items       []todoapi.Todo
	itemsBackup []todoapi.Todo

	cursor      int
	editIndex   int
	mutationSeq int

	searchTerm          string
	debouncedSearchTerm string
	searchSeq           int

	mode  inputMode
	input textinput.Model

	compact     bool
	showNumbers bool
	showHelp    bool

	width   int
	height  int
	loading bool
	status  string
	err     error

	savePreferencesFn func(Preferences) error
	theme             tuitheme.Theme
}

func NewModel(service Service, todos []todoapi.Todo) Model {
	input := textinput.New()
	input.Prompt = "> "
	input.CharLimit = 200

	return Model{
		service:     service,
		items:       append([]todoapi.Todo(nil), todos...),
		itemsBackup: append([]todoapi.Todo(nil), todos...),
		editIndex:   -1,
		mode:        inputNone,
		input:       input,
		theme:       tuitheme.Default(),
	}
}

func (m Model) Init() tea.Cmd {
	if m.service == nil {
		return nil
	}
	return loadCmd(m.service)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.showHelp {
			switch msg.String() {
			case "esc", "?":
				m.showHelp = false
				return m, nil
			case "ctrl+c", "q":
				return m, tea.Quit
			}
			return m, nil
		}
		if m.mode != inputNone {
			return m.updateInput(msg)
		}
		return m.updateNormal(msg)

	case loadSuccessMsg:
		m.loading = false
		m.err = nil
		m.items = msg.todos
		m.itemsBackup = append([]todoapi.Todo(nil), msg.todos...)
		m.cursor = tuistate.ClampCursor(m.cursor, len(m.items))
		return m, nil

	case loadErrorMsg:
		m.loading = false
		m.status = ""
		m.err = msg.err
		return m, nil

	case createSuccessMsg:
		m.loading = false
		m.err = nil
		m.items = msg.todos
		m.itemsBackup = append([]todoapi.Todo(nil), msg.todos...)
		m.cursor = tuistate.ClampCursor(m.cursor, len(m.items))
		m.status = "Added todo"
		return m, nil

	case updateSuccessMsg:
		m.loading = false
		m.err = nil
		m.items = tuistate.ReplaceAt(m.items, msg.index, msg.todo)
		m.editIndex = -1
		m.status = "Updated todo"
		return m, m.bumpMutationSeq()

	case toggleSuccessMsg:
		m.loading = false
		m.err = nil
		m.items = tuistate.ReplaceByID(m.items, msg.todo)
		if msg.todo.Completed {
			m.status = "Marked done"
		} else {
			m.status = "Marked pending"
		}
		return m, m.bumpMutationSeq()

	case deleteSuccessMsg:
		m.loading = false
		m.err = nil
		// itemsBackup keeps the stale record until the next fetch.
		m.items = tuistate.RemoveByID(m.items, msg.id)
		m.cursor = tuistate.ClampCursor(m.cursor, len(m.items))
		m.status = "Deleted todo"
		return m, nil

	case mutationErrorMsg:
		m.loading = false
		m.status = ""
		m.err = msg.err
		return m, nil

	case searchDebounceMsg:
		if msg.seq != m.searchSeq {
			return m, nil
		}
		m.debouncedSearchTerm = m.searchTerm
		m.applySearch()
		return m, nil

	case preferenceSaveErrorMsg:
		m.err = msg.err
		m.status = "Could not persist UI preferences"
		return m, nil
	}
	return m, nil
}

func (m Model) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "?":
		m.showHelp = true
		return m, nil
	case "up", "k":
		m.cursor = tuistate.ClampCursor(m.cursor-1, len(m.items))
		return m, nil
	case "down", "j":
		m.cursor = tuistate.ClampCursor(m.cursor+1, len(m.items))
		return m, nil
	case "g":
		m.cursor = 0
		return m, nil
	case "G":
		m.cursor = tuistate.ClampCursor(len(m.items)-1, len(m.items))
		return m, nil
	case "pgup", "ctrl+b":
		m.cursor = tuistate.ClampCursor(m.cursor-tuistate.PageStep(m.height, m.status != ""), len(m.items))
		return m, nil
	case "pgdown", "ctrl+f":
		m.cursor = tuistate.ClampCursor(m.cursor+tuistate.PageStep(m.height, m.status != ""), len(m.items))
		return m, nil
	case "a":
		m.mode = inputAdd
		m.editIndex = -1
		m.input.SetValue("")
		m.input.Placeholder = "New todo title..."
		m.input.Focus()
		return m, textinput.Blink
	case "e":
		if len(m.items) == 0 {
			return m, nil
		}
		m.mode = inputEdit
		m.editIndex = m.cursor
		m.input.SetValue(m.items[m.cursor].Title)
		m.input.CursorEnd()
		m.input.Placeholder = "Edit todo title..."
		m.input.Focus()
		return m, textinput.Blink
	case "d":
		if m.service == nil || len(m.items) == 0 {
			return m, nil
		}
		m.loading = true
		m.status = ""
		m.err = nil
		return m, deleteCmd(m.service, m.items[m.cursor].ID)
	case "enter", " ":
		return m.toggleCurrent()
	case "/":
		m.mode = inputSearch
		m.input.SetValue(m.searchTerm)
		m.input.CursorEnd()
		m.input.Placeholder = "Search todos..."
		m.input.Focus()
		return m, textinput.Blink
	case "ctrl+l":
		return m.clearSearch()
	case "r":
		if m.service == nil {
			return m, nil
		}
		m.loading = true
		m.status = ""
		m.err = nil
		return m, loadCmd(m.service)
	case "c":
		m.compact = !m.compact
		m.err = nil
		if m.compact {
			m.status = "Compact mode: on"
		} else {
			m.status = "Compact mode: off"
		}
		return m, persistPreferencesCmd(m.savePreferencesFn, m.preferences())
	case "N":
		m.showNumbers = !m.showNumbers
		m.err = nil
		if m.showNumbers {
			m.status = "Numbering: on"
		} else {
			m.status = "Numbering: off"
		}
		return m, persistPreferencesCmd(m.savePreferencesFn, m.preferences())
	}
	return m, nil
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "enter":
		if m.mode == inputSearch {
			m.closeInput()
			return m, nil
		}
		return m.submitTitle()
	case "esc":
		if m.mode == inputSearch {
			m.closeInput()
			return m.clearSearch()
		}
		if m.mode == inputEdit {
			m.editIndex = -1
		}
		m.closeInput()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	if m.mode == inputSearch {
		if value := m.input.Value(); value != m.searchTerm {
			m.searchTerm = value
			m.searchSeq++
			return m, tea.Batch(cmd, searchDebounceCmd(m.searchSeq))
		}
	}
	return m, cmd
}

// submitTitle is the create-or-update path: create mode (editIndex == -1)
// posts a new record, edit mode puts the edited title merged into the
// existing one.
func (m Model) submitTitle() (tea.Model, tea.Cmd) {
	title := strings.TrimSpace(m.input.Value())
	if title == "" {
		m.status = "Title cannot be empty"
		return m, nil
	}
	if m.service == nil {
		m.closeInput()
		return m, nil
	}

	if m.editIndex == -1 {
		m.closeInput()
		m.loading = true
		m.status = ""
		m.err = nil
		return m, createCmd(m.service, title)
	}

	index := m.editIndex
	if index < 0 || index >= len(m.items) {
		m.closeInput()
		m.editIndex = -1
		return m, nil
	}
	todo := m.items[index]
	patch := todoapi.Patch{Title: &title, Completed: &todo.Completed}

	m.closeInput()
	m.loading = true
	m.status = ""
	m.err = nil
	return m, updateCmd(m.service, todo.ID, patch, index)
}

func (m Model) toggleCurrent() (tea.Model, tea.Cmd) {
	if m.service == nil || len(m.items) == 0 {
		return m, nil
	}
	// Optimistic flip: stays flipped even if the update fails.
	m.items[m.cursor].Completed = !m.items[m.cursor].Completed
	todo := m.items[m.cursor]
	patch := todoapi.Patch{Completed: &todo.Completed}

	m.loading = true
	m.status = ""
	m.err = nil
	return m, toggleCmd(m.service, todo.ID, patch)
}

func (m Model) clearSearch() (tea.Model, tea.Cmd) {
	m.searchTerm = ""
	m.debouncedSearchTerm = ""
	m.searchSeq++
	m.items = append([]todoapi.Todo(nil), m.itemsBackup...)
	m.cursor = tuistate.ClampCursor(m.cursor, len(m.items))
	m.status = "Search cleared"
	return m, nil
}

func (m *Model) closeInput() {
	m.mode = inputNone
	m.input.SetValue("")
	m.input.Blur()
}

// bumpMutationSeq advances the mutation counter; every change triggers a full
// reload from the server.
func (m *Model) bumpMutationSeq() tea.Cmd {
	m.mutationSeq++
	if m.service == nil {
		return nil
	}
	m.loading = true
	return loadCmd(m.service)
}

func (m *Model) applySearch() {
	term := strings.TrimSpace(m.debouncedSearchTerm)
	if term == "" {
		m.items = append([]todoapi.Todo(nil), m.itemsBackup...)
		m.cursor = tuistate.ClampCursor(m.cursor, len(m.items))
		return
	}
	filtered := tuistate.FilterByTitle(m.itemsBackup, term)
	if len(filtered) == 0 {
		// Zero matches keeps the full list visible instead of an empty one.
		m.items = append([]todoapi.Todo(nil), m.itemsBackup...)
		m.cursor = tuistate.ClampCursor(m.cursor, len(m.items))
		return
	}
	m.items = filtered
	m.cursor = tuistate.ClampCursor(m.cursor, len(m.items))
}

func (m Model) searchMatchCount() int {
	term := strings.TrimSpace(m.debouncedSearchTerm)
	if term == "" {
		return 0
	}
	return len(tuistate.FilterByTitle(m.itemsBackup, term))
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.theme.Title.Render("Todo CLI"))
	b.WriteString("\n")

	if m.showHelp {
		b.WriteString("Help (? to close)\n\n")
		b.WriteString(view.HelpView())
		b.WriteString("\n\n")
		b.WriteString(m.messagePanel())
		b.WriteString("\n")
		b.WriteString(m.footer())
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(view.Toolbar(m.mode != inputNone))
	b.WriteString("\n\n")

	if m.loading && len(m.items) == 0 {
		b.WriteString("Loading todos...\n")
	} else if len(m.items) == 0 {
		b.WriteString("No todos yet. Press a to add one.\n")
	} else {
		start, end := tuistate.CenteredWindow(len(m.items), m.cursor, m.listBodyHeight())
		for i := start; i < end; i++ {
			b.WriteString(view.RenderTodoLine(view.TodoLineParams{
				Todo:        m.items[i],
				Compact:     m.compact,
				ShowNumbers: m.showNumbers,
				VisiblePos:  i,
				Active:      i == m.cursor,
				Width:       m.contentWidth(),
			}, m.theme))
			b.WriteString("\n")
		}
	}

	if m.mode != inputNone {
		b.WriteString("\n")
		b.WriteString(m.inputTitle())
		b.WriteString("\n")
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.messagePanel())
	b.WriteString("\n")
	b.WriteString(m.footer())
	b.WriteString("\n")
	return b.String()
}

func (m Model) inputTitle() string {
	switch m.mode {
	case inputAdd:
		return "Add new todo"
	case inputEdit:
		return "Edit todo"
	case inputSearch:
		return "Search todos"
	default:
		return ""
	}
}

func (m Model) footer() string {
	return view.Footer(len(m.items), len(m.itemsBackup), m.debouncedSearchTerm, m.searchMatchCount(), m.editIndex != -1, m.theme)
}

func (m Model) messagePanel() string {
	warning := ""
	if m.err != nil {
		warning = m.err.Error()
	}
	return view.Message(m.loading, m.err != nil, m.status, warning, m.theme)
}

func (m Model) contentWidth() int {
	if m.width > 0 {
		return m.width - 1
	}
	return 80
}

func (m Model) listBodyHeight() int {
	if m.height <= 0 {
		return 20
	}
	used := 7
	if m.mode != inputNone {
		used += 3
	}
	if h := m.height - used; h > 3 {
		return h
	}
	return 3
}

func loadCmd(service Service) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		todos, err := service.Load(ctx)
		if err != nil {
			return loadErrorMsg{err: err}
		}
		return loadSuccessMsg{todos: todos}
	}
}

func createCmd(service Service, title string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		todos, err := service.Create(ctx, title)
		if err != nil {
			return mutationErrorMsg{err: err}
		}
		return createSuccessMsg{todos: todos}
	}
}

func updateCmd(service Service, id string, patch todoapi.Patch, index int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		todo, err := service.Update(ctx, id, patch)
		if err != nil {
			return mutationErrorMsg{err: err}
		}
		return updateSuccessMsg{index: index, todo: todo}
	}
}

func toggleCmd(service Service, id string, patch todoapi.Patch) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		todo, err := service.Update(ctx, id, patch)
		if err != nil {
			return mutationErrorMsg{err: err}
		}
		return toggleSuccessMsg{todo: todo}
	}
}

func deleteCmd(service Service, id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		if err := service.Delete(ctx, id); err != nil {
			return mutationErrorMsg{err: err}
		}
		return deleteSuccessMsg{id: id}
	}
}

func searchDebounceCmd(seq int) tea.Cmd {
	return tea.Tick(searchDebounce, func(time.Time) tea.Msg {
		return searchDebounceMsg{seq: seq}
	})
}

func persistPreferencesCmd(saveFn func(Preferences) error, prefs Preferences) tea.Cmd {
	if saveFn == nil {
		return nil
	}
	return func() tea.Msg {
		if err := saveFn(prefs); err != nil {
			return preferenceSaveErrorMsg{err: err}
		}
		return nil
	}
}

func (m *Model) ApplyPreferences(prefs Preferences) {
	m.compact = prefs.Compact
	m.showNumbers = prefs.ShowNumbers
}

func (m *Model) SetPreferencesSaver(saveFn func(Preferences) error) {
	m.savePreferencesFn = saveFn
}

func (m Model) preferences() Preferences {
	return Preferences{
		Compact:     m.compact,
		ShowNumbers: m.showNumbers,
	}
}
