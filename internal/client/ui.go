package client

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"taskshare/internal/task"
)

// noticeTTL is how long a transient notice stays on screen.
const noticeTTL = 3 * time.Second

type mode int

const (
	modeList mode = iota
	modeCreate
	modeEdit
	modeConfirmDelete
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	doneStyle    = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	sharedStyle  = lipgloss.NewStyle().Faint(true)
	helpStyle    = lipgloss.NewStyle().Faint(true)
	cursorStyle  = lipgloss.NewStyle().Bold(true)
)

// RunUI starts the interactive task view.
func RunUI(ctx context.Context, api *API, email string) error {
	program := tea.NewProgram(newUIModel(api, email), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

type uiModel struct {
	api   *API
	email string

	mode    mode
	tasks   []*task.Task
	cursor  int
	loading bool

	// Transient one-line notice; cleared by clearNoticeMsg.
	notice    string
	noticeErr bool

	// Create/edit form. Two fields, tab switches focus.
	formTitle string
	formDesc  string
	formFocus int
	editID    string
}

type tasksLoadedMsg struct {
	tasks []*task.Task
}

type taskSavedMsg struct {
	task    *task.Task
	created bool
}

type taskDeletedMsg struct {
	id string
}

type apiErrorMsg struct {
	action string
	err    error
}

type clearNoticeMsg struct{}

func newUIModel(api *API, email string) *uiModel {
	return &uiModel{api: api, email: email, loading: true}
}

func (m *uiModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m *uiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch m.mode {
		case modeList:
			return m.updateList(msg)
		case modeCreate, modeEdit:
			return m.updateForm(msg)
		case modeConfirmDelete:
			return m.updateConfirm(msg)
		}

	case tasksLoadedMsg:
		m.loading = false
		m.tasks = msg.tasks
		m.clampCursor()
		return m, nil

	case taskSavedMsg:
		// The server's copy is authoritative; replace rather than patch.
		m.reconcile(msg.task)
		if msg.created {
			return m, m.showNotice("Task created", false)
		}
		return m, m.showNotice("Task updated", false)

	case taskDeletedMsg:
		m.removeTask(msg.id)
		return m, m.showNotice("Task deleted", false)

	case apiErrorMsg:
		m.loading = false
		return m, m.showNotice(fmt.Sprintf("Unable to %s: %v", msg.action, msg.err), true)

	case clearNoticeMsg:
		m.notice = ""
		return m, nil
	}

	return m, nil
}

func (m *uiModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.tasks)-1 {
			m.cursor++
		}
	case "r":
		m.loading = true
		return m, m.loadCmd()
	case "n":
		m.mode = modeCreate
		m.formTitle, m.formDesc, m.formFocus = "", "", 0
	case "e":
		if t := m.selected(); t != nil {
			m.mode = modeEdit
			m.editID = t.ID
			m.formTitle, m.formDesc, m.formFocus = t.Title, t.Description, 0
		}
	case "d":
		if m.selected() != nil {
			m.mode = modeConfirmDelete
		}
	case " ", "t":
		if t := m.selected(); t != nil {
			return m, m.toggleCmd(t)
		}
	}
	return m, nil
}

func (m *uiModel) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = modeList
		return m, nil
	case tea.KeyTab, tea.KeyShiftTab:
		m.formFocus = 1 - m.formFocus
		return m, nil
	case tea.KeyEnter:
		if strings.TrimSpace(m.formTitle) == "" || strings.TrimSpace(m.formDesc) == "" {
			return m, m.showNotice("Title and description are required", true)
		}
		editing := m.mode == modeEdit
		m.mode = modeList
		if editing {
			return m, m.updateCmd(m.editID, m.formTitle, m.formDesc)
		}
		return m, m.createCmd(m.formTitle, m.formDesc)
	case tea.KeyBackspace:
		field := m.focusedField()
		if len(*field) > 0 {
			runes := []rune(*field)
			*field = string(runes[:len(runes)-1])
		}
		return m, nil
	case tea.KeyRunes, tea.KeySpace:
		*m.focusedField() += string(msg.Runes)
		if msg.Type == tea.KeySpace {
			*m.focusedField() += " "
		}
		return m, nil
	case tea.KeyCtrlC:
		return m, tea.Quit
	}
	return m, nil
}

func (m *uiModel) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.mode = modeList
		if t := m.selected(); t != nil {
			return m, m.deleteCmd(t.ID)
		}
	case "n", "N", "esc":
		m.mode = modeList
	case "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m *uiModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Taskshare") + "  " + helpStyle.Render(m.email) + "\n\n")

	switch m.mode {
	case modeCreate, modeEdit:
		m.viewForm(&b)
	case modeConfirmDelete:
		m.viewConfirm(&b)
	default:
		m.viewList(&b)
	}

	if m.notice != "" {
		b.WriteString("\n")
		if m.noticeErr {
			b.WriteString(errorStyle.Render(m.notice) + "\n")
		} else {
			b.WriteString(successStyle.Render(m.notice) + "\n")
		}
	}
	return b.String()
}

func (m *uiModel) viewList(b *strings.Builder) {
	if m.loading {
		b.WriteString("Loading...\n")
		return
	}
	if len(m.tasks) == 0 {
		b.WriteString("No tasks yet. Press n to create one.\n")
	}
	for i, t := range m.tasks {
		cursor := "  "
		if i == m.cursor {
			cursor = cursorStyle.Render("> ")
		}
		check := "[ ]"
		line := t.Title
		if t.Status == task.StatusCompleted {
			check = "[x]"
			line = doneStyle.Render(line)
		}
		b.WriteString(fmt.Sprintf("%s%s %s\n", cursor, check, line))
		if i == m.cursor {
			if t.Description != "" {
				b.WriteString("      " + helpStyle.Render(t.Description) + "\n")
			}
			if len(t.SharedWith) > 0 {
				b.WriteString("      " + sharedStyle.Render("shared with "+strings.Join(t.SharedWith, ", ")) + "\n")
			}
		}
	}
	b.WriteString("\n" + helpStyle.Render("n new | e edit | space toggle | d delete | r reload | q quit") + "\n")
}

func (m *uiModel) viewForm(b *strings.Builder) {
	label := "New Task"
	if m.mode == modeEdit {
		label = "Edit Task"
	}
	b.WriteString(titleStyle.Render(label) + "\n\n")
	b.WriteString(formField("Title", m.formTitle, m.formFocus == 0))
	b.WriteString(formField("Description", m.formDesc, m.formFocus == 1))
	b.WriteString("\n" + helpStyle.Render("tab switch field | enter save | esc cancel") + "\n")
}

func (m *uiModel) viewConfirm(b *strings.Builder) {
	t := m.selected()
	if t == nil {
		return
	}
	b.WriteString(fmt.Sprintf("Delete %q? (y/n)\n", t.Title))
}

func formField(label, value string, focused bool) string {
	marker := "  "
	if focused {
		marker = cursorStyle.Render("> ")
	}
	display := value
	if focused {
		display += "_"
	}
	return fmt.Sprintf("%s%s: %s\n", marker, label, display)
}

func (m *uiModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		tasks, err := m.api.List(context.Background(), m.email)
		if err != nil {
			return apiErrorMsg{action: "load tasks", err: err}
		}
		return tasksLoadedMsg{tasks: tasks}
	}
}

func (m *uiModel) createCmd(title, description string) tea.Cmd {
	return func() tea.Msg {
		created, err := m.api.Create(context.Background(), CreateTaskRequest{
			Title:       title,
			Description: description,
			UserEmail:   m.email,
		})
		if err != nil {
			return apiErrorMsg{action: "create task", err: err}
		}
		return taskSavedMsg{task: created, created: true}
	}
}

func (m *uiModel) updateCmd(id, title, description string) tea.Cmd {
	return func() tea.Msg {
		updated, err := m.api.Update(context.Background(), id, UpdateTaskRequest{
			Title:       &title,
			Description: &description,
		})
		if err != nil {
			return apiErrorMsg{action: "update task", err: err}
		}
		return taskSavedMsg{task: updated}
	}
}

func (m *uiModel) toggleCmd(t *task.Task) tea.Cmd {
	next := string(t.Status.Toggle())
	return func() tea.Msg {
		updated, err := m.api.SetStatus(context.Background(), t.ID, next)
		if err != nil {
			return apiErrorMsg{action: "toggle status", err: err}
		}
		return taskSavedMsg{task: updated}
	}
}

func (m *uiModel) deleteCmd(id string) tea.Cmd {
	return func() tea.Msg {
		if err := m.api.Delete(context.Background(), id); err != nil {
			return apiErrorMsg{action: "delete task", err: err}
		}
		return taskDeletedMsg{id: id}
	}
}

func (m *uiModel) showNotice(text string, isErr bool) tea.Cmd {
	m.notice = text
	m.noticeErr = isErr
	return tea.Tick(noticeTTL, func(time.Time) tea.Msg {
		return clearNoticeMsg{}
	})
}

// reconcile folds a server-returned task into the list, keeping the
// title-ascending order the server uses.
func (m *uiModel) reconcile(t *task.Task) {
	replaced := false
	for i, existing := range m.tasks {
		if existing.ID == t.ID {
			m.tasks[i] = t
			replaced = true
			break
		}
	}
	if !replaced {
		m.tasks = append(m.tasks, t)
	}
	sort.Slice(m.tasks, func(i, j int) bool {
		return m.tasks[i].Title < m.tasks[j].Title
	})
	for i, existing := range m.tasks {
		if existing.ID == t.ID {
			m.cursor = i
			break
		}
	}
}

func (m *uiModel) removeTask(id string) {
	for i, t := range m.tasks {
		if t.ID == id {
			m.tasks = append(m.tasks[:i], m.tasks[i+1:]...)
			break
		}
	}
	m.clampCursor()
}

func (m *uiModel) selected() *task.Task {
	if m.cursor < 0 || m.cursor >= len(m.tasks) {
		return nil
	}
	return m.tasks[m.cursor]
}

func (m *uiModel) clampCursor() {
	if m.cursor >= len(m.tasks) {
		m.cursor = len(m.tasks) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *uiModel) focusedField() *string {
	if m.formFocus == 1 {
		return &m.formDesc
	}
	return &m.formTitle
}
