// Package tui renders one workflow screen in the terminal: a table of rows
// with their actions and a modal form for create and update.
package tui

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/heartmarshall/backoffice/internal/domain"
	"github.com/heartmarshall/backoffice/internal/lookup"
	"github.com/heartmarshall/backoffice/internal/upload"
	"github.com/heartmarshall/backoffice/internal/workflow"
)

const maxColumnWidth = 40

type mode int

const (
	modeBrowse mode = iota
	modeSearch
	modeForm
	modeConfirm
	modeUpload
)

type loadedMsg struct{ err error }

type doneMsg struct {
	status string
	err    error
	submit bool
}

type progressMsg struct{ progress upload.Progress }

type uploadedMsg struct {
	progress upload.Progress
	err      error
}

type suggestionsMsg struct {
	opts []lookup.Option
	err  error
}

// MemberLookup searches members while a lookup field is typed into.
type MemberLookup interface {
	Search(prefix string)
	Close()
}

// Options configures the console.
type Options struct {
	// Header is shown above the screen title, e.g. the signed-in user.
	Header string
	// NewLookup, when set, backs FieldLookup inputs with a member search.
	NewLookup func(deliver func([]lookup.Option, error)) MemberLookup
	// Upload, when set, enables the word-list upload key. It must refresh
	// the active lists once the last batch is written.
	Upload func(ctx context.Context, words []string, onProgress func(upload.Progress)) (upload.Progress, error)
}

// Model is the bubbletea model of one screen.
type Model struct {
	ctx    context.Context
	screen *workflow.Screen
	opts   Options
	styles styles

	mode   mode
	table  table.Model
	rows   []workflow.RowView
	search textinput.Model

	fields []workflow.FieldSpec
	inputs []textinput.Model
	focus  int

	lookup      MemberLookup
	suggestCh   chan suggestionsMsg
	suggestions []lookup.Option
	pick        int

	saving bool

	path       textinput.Model
	uploading  bool
	progressCh chan progressMsg

	pendingDelete string
	status        string
	err           error
}

// New creates the console for screen. ctx bounds every request it issues.
func New(ctx context.Context, screen *workflow.Screen, opts Options) Model {
	headers := screen.Projector.Headers()
	cols := make([]table.Column, len(headers))
	for i, h := range headers {
		cols[i] = table.Column{Title: h, Width: max(len(h), 8)}
	}

	t := table.New(
		table.WithColumns(cols),
		table.WithFocused(true),
		table.WithHeight(15),
	)
	t.SetStyles(tableStyles())

	search := textinput.New()
	search.Placeholder = "search..."
	search.CharLimit = 64
	search.Width = 40

	path := textinput.New()
	path.Placeholder = "path to a word list, one word per line"
	path.CharLimit = 1024
	path.Width = 60

	return Model{
		ctx:    ctx,
		screen: screen,
		opts:   opts,
		styles: defaultStyles(),
		table:  t,
		search: search,
		path:   path,
	}
}

// Init loads the list.
func (m Model) Init() tea.Cmd {
	return m.load()
}

func (m Model) load() tea.Cmd {
	screen, ctx := m.screen, m.ctx
	return func() tea.Msg {
		return loadedMsg{err: screen.Load(ctx)}
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.table.SetHeight(max(msg.Height-10, 5))
		return m, nil

	case loadedMsg:
		m.err = msg.err
		if msg.err == nil {
			m.status = ""
		}
		m.refreshRows()
		return m, nil

	case doneMsg:
		if msg.submit {
			m.saving = false
		}
		m.err = msg.err
		if msg.err == nil {
			m.status = msg.status
		}
		if m.mode == modeForm && !m.screen.Form.Mode().IsOpen() {
			m.closeForm()
		}
		m.refreshRows()
		return m, nil

	case progressMsg:
		if !m.uploading {
			return m, nil
		}
		m.status = "uploading " + msg.progress.String()
		return m, m.waitProgress()

	case uploadedMsg:
		m.uploading = false
		m.progressCh = nil
		m.err = msg.err
		if msg.err == nil {
			m.status = "uploaded " + msg.progress.String()
		} else {
			m.status = ""
		}
		m.refreshRows()
		return m, nil

	case suggestionsMsg:
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.suggestions = msg.opts
			m.pick = -1
		}
		return m, m.waitSuggestion()

	case tea.KeyMsg:
		switch m.mode {
		case modeSearch:
			return m.updateSearch(msg)
		case modeForm:
			return m.updateForm(msg)
		case modeConfirm:
			return m.updateConfirm(msg)
		case modeUpload:
			return m.updateUpload(msg)
		default:
			return m.updateBrowse(msg)
		}
	}
	return m, nil
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key := msg.String(); key {
	case "ctrl+c", "q":
		m.closeLookup()
		return m, tea.Quit

	case "r":
		m.status = "refreshing"
		screen, ctx := m.screen, m.ctx
		return m, func() tea.Msg { return loadedMsg{err: screen.Query.Refresh(ctx)} }

	case "/":
		if m.screen.Desc.SearchFilter == nil {
			return m, nil
		}
		m.mode = modeSearch
		cmd := m.search.Focus()
		return m, cmd

	case "u":
		if m.opts.Upload == nil || m.uploading {
			return m, nil
		}
		m.mode = modeUpload
		m.path.SetValue("")
		cmd := m.path.Focus()
		return m, cmd

	case "a":
		if err := m.screen.Form.Add(); err != nil {
			m.err = err
			return m, nil
		}
		cmd := m.openForm()
		return m, cmd

	case "e":
		row, ok := m.selected()
		if !ok {
			return m, nil
		}
		if err := m.screen.Invoke(m.ctx, row.Key, workflow.ActionEdit); err != nil {
			m.err = err
			return m, nil
		}
		cmd := m.openForm()
		return m, cmd

	case "d":
		row, ok := m.selected()
		if !ok {
			return m, nil
		}
		if _, ok := row.Action(workflow.ActionDelete); !ok {
			return m, nil
		}
		m.pendingDelete = row.Key
		m.mode = modeConfirm
		return m, nil

	default:
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			cmd := m.runCustom(int(key[0] - '1'))
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeBrowse
		m.search.Blur()
		return m, nil
	case "enter":
		m.mode = modeBrowse
		m.search.Blur()
		screen, ctx, text := m.screen, m.ctx, m.search.Value()
		return m, func() tea.Msg { return loadedMsg{err: screen.Search(ctx, text)} }
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m Model) updateUpload(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeBrowse
		m.path.Blur()
		return m, nil
	case "enter":
		path := strings.TrimSpace(m.path.Value())
		if path == "" {
			return m, nil
		}
		m.mode = modeBrowse
		m.path.Blur()
		cmd := m.startUpload(path)
		return m, cmd
	}
	var cmd tea.Cmd
	m.path, cmd = m.path.Update(msg)
	return m, cmd
}

// startUpload reads the word list at path and uploads it in the
// background. Progress lands in the status line; only the latest value is
// kept.
func (m *Model) startUpload(path string) tea.Cmd {
	ch := make(chan progressMsg, 1)
	m.progressCh = ch
	m.uploading = true
	m.err = nil
	m.status = "uploading " + path

	ctx, up := m.ctx, m.opts.Upload
	onProgress := func(p upload.Progress) {
		select {
		case <-ch:
		default:
		}
		ch <- progressMsg{progress: p}
	}
	run := func() tea.Msg {
		defer close(ch)
		b, err := os.ReadFile(path)
		if err != nil {
			return uploadedMsg{err: fmt.Errorf("read word list: %w", err)}
		}
		p, err := up(ctx, upload.Parse(string(b)), onProgress)
		return uploadedMsg{progress: p, err: err}
	}
	return tea.Batch(run, m.waitProgress())
}

func (m Model) waitProgress() tea.Cmd {
	ch := m.progressCh
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return nil
		}
		return msg
	}
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := m.pendingDelete
	m.pendingDelete = ""
	m.mode = modeBrowse
	if msg.String() != "y" {
		return m, nil
	}
	screen, ctx := m.screen, m.ctx
	return m, func() tea.Msg {
		if err := screen.Invoke(ctx, key, workflow.ActionDelete); err != nil {
			return doneMsg{err: err}
		}
		return doneMsg{status: "deleted " + key}
	}
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.screen.Form.Cancel()
		m.closeForm()
		return m, nil
	case "tab", "down":
		cmd := m.focusField(m.focus + 1)
		return m, cmd
	case "shift+tab", "up":
		cmd := m.focusField(m.focus - 1)
		return m, cmd
	case "ctrl+n":
		m.pickSuggestion()
		return m, nil
	case "enter":
		if m.saving {
			return m, nil
		}
		cmd := m.submit()
		return m, cmd
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	if m.fields[m.focus].Kind == workflow.FieldLookup && m.lookup != nil {
		m.lookup.Search(m.inputs[m.focus].Value())
	}
	return m, cmd
}

// submit copies the inputs into the draft and sends it. The form stays
// open when the server rejects the draft.
func (m *Model) submit() tea.Cmd {
	form := m.screen.Form
	for i, f := range m.fields {
		if err := form.SetField(f.Name, m.inputs[i].Value()); err != nil {
			m.err = err
			return nil
		}
	}
	m.saving = true
	m.err = nil
	m.status = "saving..."
	ctx := m.ctx
	return func() tea.Msg {
		rec, err := form.Submit(ctx)
		if err != nil {
			return doneMsg{err: err, submit: true}
		}
		return doneMsg{status: "saved " + rec.ID(), submit: true}
	}
}

func (m *Model) openForm() tea.Cmd {
	form := m.screen.Form
	m.fields = form.Fields()
	m.inputs = make([]textinput.Model, len(m.fields))
	needLookup := false
	for i, f := range m.fields {
		in := textinput.New()
		in.CharLimit = 256
		in.Width = 40
		switch f.Kind {
		case workflow.FieldEnum:
			in.Placeholder = strings.Join(f.Options, ", ")
		case workflow.FieldLookup:
			in.Placeholder = "type to search, ctrl+n to pick"
			needLookup = true
		}
		if v := form.Value(f.Name); v != nil {
			in.SetValue(domain.FormatValue(v))
		}
		m.inputs[i] = in
	}
	m.mode = modeForm
	m.err = nil
	m.suggestions = nil

	var cmds []tea.Cmd
	if needLookup && m.opts.NewLookup != nil {
		ch := make(chan suggestionsMsg, 1)
		m.suggestCh = ch
		m.lookup = m.opts.NewLookup(func(opts []lookup.Option, err error) {
			select {
			case ch <- suggestionsMsg{opts: opts, err: err}:
			default:
			}
		})
		cmds = append(cmds, m.waitSuggestion())
	}
	cmds = append(cmds, m.focusField(0))
	return tea.Batch(cmds...)
}

func (m *Model) closeForm() {
	m.mode = modeBrowse
	m.fields = nil
	m.inputs = nil
	m.focus = 0
	m.closeLookup()
}

func (m *Model) closeLookup() {
	if m.lookup == nil {
		return
	}
	m.lookup.Close()
	close(m.suggestCh)
	m.lookup = nil
	m.suggestCh = nil
	m.suggestions = nil
}

func (m Model) waitSuggestion() tea.Cmd {
	ch := m.suggestCh
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return nil
		}
		return msg
	}
}

func (m *Model) focusField(i int) tea.Cmd {
	if len(m.inputs) == 0 {
		return nil
	}
	i = (i + len(m.inputs)) % len(m.inputs)
	m.inputs[m.focus].Blur()
	m.focus = i
	return m.inputs[i].Focus()
}

func (m *Model) pickSuggestion() {
	if len(m.suggestions) == 0 || m.fields[m.focus].Kind != workflow.FieldLookup {
		return
	}
	m.pick = (m.pick + 1) % len(m.suggestions)
	m.inputs[m.focus].SetValue(m.suggestions[m.pick].ID)
}

func (m Model) customActions(row workflow.RowView) []workflow.Action {
	var out []workflow.Action
	for _, a := range row.Actions {
		if a.Name == workflow.ActionEdit || a.Name == workflow.ActionDelete {
			continue
		}
		out = append(out, a)
	}
	return out
}

func (m *Model) runCustom(i int) tea.Cmd {
	row, ok := m.selected()
	if !ok {
		return nil
	}
	actions := m.customActions(row)
	if i >= len(actions) {
		return nil
	}
	act, ctx := actions[i], m.ctx
	return func() tea.Msg {
		if err := act.Invoke(ctx); err != nil {
			return doneMsg{err: err}
		}
		return doneMsg{status: act.Label + " done"}
	}
}

func (m Model) selected() (workflow.RowView, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.rows) {
		return workflow.RowView{}, false
	}
	return m.rows[i], true
}

func (m *Model) refreshRows() {
	rows, _ := m.screen.Rows()
	m.rows = rows

	cols := m.table.Columns()
	for i := range cols {
		cols[i].Width = max(len(cols[i].Title), 8)
	}
	trs := make([]table.Row, len(rows))
	for i, r := range rows {
		for j, cell := range r.Cells {
			if j < len(cols) {
				cols[j].Width = min(max(cols[j].Width, lipgloss.Width(cell)), maxColumnWidth)
			}
		}
		trs[i] = table.Row(r.Cells)
	}
	m.table.SetRows(nil)
	m.table.SetColumns(cols)
	m.table.SetRows(trs)
	if m.table.Cursor() >= len(trs) {
		m.table.SetCursor(max(len(trs)-1, 0))
	}
}

// View renders the screen.
func (m Model) View() string {
	var b strings.Builder
	if m.opts.Header != "" {
		b.WriteString(m.styles.Muted.Render(m.opts.Header) + "\n")
	}
	b.WriteString(m.styles.Title.Render(m.screen.Desc.Title) + "\n\n")

	st := m.screen.Query.State()
	switch st.Status {
	case workflow.StatusIdle, workflow.StatusLoading:
		b.WriteString(m.styles.Muted.Render("loading...") + "\n")
	case workflow.StatusError:
		b.WriteString(m.styles.Error.Render("query failed: "+errorText(st.Err)) + "\n")
	default:
		b.WriteString(m.table.View() + "\n")
	}

	switch m.mode {
	case modeSearch:
		b.WriteString("\n" + m.search.View() + "\n")
	case modeConfirm:
		b.WriteString("\n" + m.styles.Error.Render(fmt.Sprintf("delete %s? (y/n)", m.pendingDelete)) + "\n")
	case modeForm:
		b.WriteString("\n" + m.formView() + "\n")
	case modeUpload:
		b.WriteString("\nUpload words from: " + m.path.View() + "\n")
	}

	if m.err != nil {
		b.WriteString(m.styles.Error.Render(errorText(m.err)) + "\n")
	} else if m.status != "" {
		b.WriteString(m.styles.Status.Render(m.status) + "\n")
	}
	b.WriteString(m.styles.Help.Render(m.help()))
	return b.String()
}

func (m Model) formView() string {
	var b strings.Builder
	title := "New " + m.screen.Desc.Title
	if m.screen.Form.Mode() == domain.FormUpdate {
		title = "Edit " + m.screen.Desc.Title
	}
	b.WriteString(m.styles.Title.Render(title) + "\n")
	for i, f := range m.fields {
		label := m.styles.Label
		if i == m.focus {
			label = m.styles.Focused
		}
		name := f.Label
		if f.Required {
			name += " *"
		}
		b.WriteString(label.Render(name) + m.inputs[i].View() + "\n")
		if i == m.focus && f.Kind == workflow.FieldLookup {
			for j, o := range m.suggestions {
				line := "  " + o.Name + " (" + o.ID + ")"
				if j == m.pick {
					line = m.styles.Status.Render("> " + o.Name + " (" + o.ID + ")")
				}
				b.WriteString(m.styles.Muted.Render(line) + "\n")
			}
		}
	}
	return m.styles.Form.Render(strings.TrimRight(b.String(), "\n"))
}

func (m Model) help() string {
	switch m.mode {
	case modeForm:
		return "tab next field, enter save, esc cancel"
	case modeSearch:
		return "enter search, esc back"
	case modeConfirm:
		return ""
	case modeUpload:
		return "enter upload, esc back"
	}
	parts := []string{"r refresh"}
	if m.screen.Desc.SearchFilter != nil {
		parts = append(parts, "/ search")
	}
	if !m.screen.Desc.ReadOnly {
		parts = append(parts, "a add", "e edit", "d delete")
	}
	if m.opts.Upload != nil {
		parts = append(parts, "u upload words")
	}
	if row, ok := m.selected(); ok {
		for i, a := range m.customActions(row) {
			if i == 9 {
				break
			}
			parts = append(parts, fmt.Sprintf("%d %s", i+1, a.Label))
		}
	}
	parts = append(parts, "q quit")
	return strings.Join(parts, " | ")
}

func errorText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// Run starts the console and blocks until the user quits.
func Run(ctx context.Context, screen *workflow.Screen, opts Options) error {
	_, err := tea.NewProgram(New(ctx, screen, opts), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
