// Package tui is the terminal front end: a login screen, the active board,
// the archive and the note editor dialog, drawn with bubbletea and lipgloss.
//
// The model never writes on its own. Every mutation goes through a
// board.Controller inside a tea.Cmd, and the result comes back as a message.
package tui

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/aretw0/keep/pkg/board"
	"github.com/aretw0/keep/pkg/core"
	"github.com/aretw0/keep/pkg/session"
)

type mode int

const (
	modeLogin mode = iota
	modeBoard
	modeSearch
	modeColor
	modeEditor
)

type editorField int

const (
	fieldTitle editorField = iota
	fieldBody
	fieldLabels
	fieldColor
	fieldCount
)

// Sessions is the part of session.Manager the program uses.
type Sessions interface {
	Owner() string
	SignIn(ctx context.Context, email, password string) (session.Session, error)
	SignOut(ctx context.Context) error
}

// BoardFactory builds a page controller for the signed-in user.
type BoardFactory func(view core.View, opts ...board.Option) (*board.Controller, error)

// Options wires the program to the application.
type Options struct {
	Sessions Sessions
	Boards   BoardFactory
	// SignedOut fires when the session disappears underneath the program,
	// typically from session.Watch.
	SignedOut <-chan struct{}
	Logger    *slog.Logger
	// ToastTimeout defaults to three seconds.
	ToastTimeout time.Duration
	// StartView selects the first page shown after sign-in.
	StartView core.View
}

// Model is the bubbletea model.
type Model struct {
	ctx   context.Context
	opts  Options
	queue *toastQueue

	mode   mode
	route  core.View
	boards map[core.View]*board.Controller
	cursor int
	width  int
	height int

	search     textinput.Model
	email      textinput.Model
	password   textinput.Model
	loginFocus int
	loginErr   string
	busy       bool

	editor   board.Editor
	title    textinput.Model
	body     textarea.Model
	label    textinput.Model
	field    editorField
	colorIdx int
	pickFor  core.Note

	toast    *board.Toast
	toastSeq int
}

// New creates the model. ctx bounds every backend call it issues.
func New(ctx context.Context, opts Options) *Model {
	if opts.ToastTimeout <= 0 {
		opts.ToastTimeout = 3 * time.Second
	}
	if opts.StartView != core.ViewArchived {
		opts.StartView = core.ViewActive
	}

	search := textinput.New()
	search.Placeholder = "Search your notes..."
	search.Prompt = "🔍 "
	search.CharLimit = 100
	search.Width = 32

	email := textinput.New()
	email.Placeholder = "you@example.com"
	email.Prompt = "Email    "
	email.CharLimit = 254

	password := textinput.New()
	password.Placeholder = "password"
	password.Prompt = "Password "
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	title := textinput.New()
	title.Placeholder = "Title"
	title.Prompt = ""
	title.CharLimit = 200

	body := textarea.New()
	body.Placeholder = "Take a note..."
	body.ShowLineNumbers = false
	body.CharLimit = 0
	body.SetWidth(56)
	body.SetHeight(8)

	label := textinput.New()
	label.Placeholder = "Add label (press Enter)"
	label.Prompt = "# "
	label.CharLimit = 50

	return &Model{
		ctx:      ctx,
		opts:     opts,
		queue:    &toastQueue{},
		mode:     modeLogin,
		route:    opts.StartView,
		search:   search,
		email:    email,
		password: password,
		title:    title,
		body:     body,
		label:    label,
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.waitSignOut()}
	if m.opts.Sessions != nil && m.opts.Sessions.Owner() != "" {
		cmds = append(cmds, m.enterBoard())
	} else {
		cmds = append(cmds, m.email.Focus())
	}
	return tea.Batch(cmds...)
}

func (m *Model) current() *board.Controller {
	if m.boards == nil {
		return nil
	}
	return m.boards[m.route]
}

func (m *Model) enterBoard() tea.Cmd {
	boards := make(map[core.View]*board.Controller, 2)
	for _, view := range []core.View{core.ViewActive, core.ViewArchived} {
		c, err := m.opts.Boards(view, board.WithNotifier(m.queue), board.WithLogger(m.opts.Logger))
		if err != nil {
			m.loginErr = err.Error()
			return m.email.Focus()
		}
		boards[view] = c
	}
	m.boards = boards
	m.mode = modeBoard
	m.cursor = 0
	m.loginErr = ""
	m.email.Blur()
	m.password.Blur()
	m.password.Reset()
	return m.load(m.route)
}

func (m *Model) toLogin() tea.Cmd {
	m.boards = nil
	m.mode = modeLogin
	m.busy = false
	m.editor.Discard()
	m.search.Reset()
	m.search.Blur()
	m.loginFocus = 0
	m.password.Blur()
	return m.email.Focus()
}

func (m *Model) load(view core.View) tea.Cmd {
	c := m.boards[view]
	if c == nil {
		return nil
	}
	ctx, q := m.ctx, m.queue
	return func() tea.Msg {
		err := c.Load(ctx)
		return loadedMsg{view: view, err: err, toasts: q.drain()}
	}
}

// mutate runs one controller action off the event loop.
func (m *Model) mutate(fn func(ctx context.Context, c *board.Controller) error) tea.Cmd {
	c := m.current()
	if c == nil {
		return nil
	}
	ctx, q, view := m.ctx, m.queue, m.route
	return func() tea.Msg {
		err := fn(ctx, c)
		return loadedMsg{view: view, err: err, toasts: q.drain()}
	}
}

func (m *Model) waitSignOut() tea.Cmd {
	ch := m.opts.SignedOut
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return signedOutMsg{external: true}
	}
}

func (m *Model) signOut() tea.Cmd {
	ctx, s := m.ctx, m.opts.Sessions
	m.busy = true
	return func() tea.Msg {
		return signedOutMsg{err: s.SignOut(ctx)}
	}
}

func (m *Model) pushToasts(toasts []board.Toast) tea.Cmd {
	if len(toasts) == 0 {
		return nil
	}
	last := toasts[len(toasts)-1]
	m.toast = &last
	m.toastSeq++
	seq := m.toastSeq
	return tea.Tick(m.opts.ToastTimeout, func(time.Time) tea.Msg {
		return dismissToastMsg{seq: seq}
	})
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		if w := msg.Width - 12; w > 20 {
			m.body.SetWidth(min(w, 72))
		}
		return m, nil

	case loadedMsg:
		m.clampCursor()
		return m, m.pushToasts(msg.toasts)

	case editorClosedMsg:
		m.clampCursor()
		return m, m.pushToasts(msg.toasts)

	case signedInMsg:
		m.busy = false
		if msg.err != nil {
			m.loginErr = msg.err.Error()
			return m, nil
		}
		return m, m.enterBoard()

	case signedOutMsg:
		if msg.err != nil && !errors.Is(msg.err, session.ErrNoSession) && m.opts.Logger != nil {
			m.opts.Logger.Warn("sign-out failed", "error", msg.err)
		}
		var cmds []tea.Cmd
		if msg.external {
			cmds = append(cmds, m.waitSignOut())
		}
		if m.mode != modeLogin {
			cmds = append(cmds, m.toLogin())
		}
		m.busy = false
		return m, tea.Batch(cmds...)

	case dismissToastMsg:
		if msg.seq == m.toastSeq {
			m.toast = nil
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.mode {
		case modeLogin:
			return m.updateLogin(msg)
		case modeSearch:
			return m.updateSearch(msg)
		case modeColor:
			return m.updateColor(msg)
		case modeEditor:
			return m.updateEditor(msg)
		default:
			return m.updateBoard(msg)
		}
	}

	// Cursor blinks and other component messages.
	var cmd tea.Cmd
	switch m.mode {
	case modeLogin:
		if m.loginFocus == 0 {
			m.email, cmd = m.email.Update(msg)
		} else {
			m.password, cmd = m.password.Update(msg)
		}
	case modeSearch:
		m.search, cmd = m.search.Update(msg)
	case modeEditor:
		cmd = m.updateEditorField(msg)
	}
	return m, cmd
}

func (m *Model) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.busy {
		return m, nil
	}
	switch msg.String() {
	case "tab", "shift+tab", "up", "down":
		return m, m.focusLogin(1 - m.loginFocus)
	case "enter":
		if m.loginFocus == 0 {
			return m, m.focusLogin(1)
		}
		email, password := m.email.Value(), m.password.Value()
		if email == "" || password == "" {
			m.loginErr = "Email and password are required"
			return m, nil
		}
		m.busy = true
		m.loginErr = ""
		ctx, s := m.ctx, m.opts.Sessions
		return m, func() tea.Msg {
			_, err := s.SignIn(ctx, email, password)
			return signedInMsg{err: err}
		}
	}

	var cmd tea.Cmd
	if m.loginFocus == 0 {
		m.email, cmd = m.email.Update(msg)
	} else {
		m.password, cmd = m.password.Update(msg)
	}
	return m, cmd
}

func (m *Model) focusLogin(i int) tea.Cmd {
	m.loginFocus = i
	if i == 0 {
		m.password.Blur()
		return m.email.Focus()
	}
	m.email.Blur()
	return m.password.Focus()
}

func (m *Model) updateBoard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	c := m.current()
	if c == nil {
		return m, nil
	}
	cols := m.columns()

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "/":
		m.mode = modeSearch
		return m, m.search.Focus()
	case "tab":
		if m.route == core.ViewActive {
			m.route = core.ViewArchived
		} else {
			m.route = core.ViewActive
		}
		m.cursor = 0
		m.search.SetValue(m.current().Query())
		return m, m.load(m.route)
	case "r":
		return m, m.load(m.route)
	case "S":
		if m.busy {
			return m, nil
		}
		return m, m.signOut()
	case "left", "h":
		m.cursor--
	case "right", "l":
		m.cursor++
	case "up", "k":
		m.cursor -= cols
	case "down", "j":
		m.cursor += cols
	case "n":
		if m.route == core.ViewActive {
			return m, m.openEditor(nil)
		}
	}
	m.clampCursor()

	n, ok := m.selected()
	if !ok {
		return m, nil
	}
	switch msg.String() {
	case "enter", "e":
		return m, m.openEditor(&n)
	case "p":
		return m, m.mutate(func(ctx context.Context, c *board.Controller) error { return c.TogglePin(ctx, n) })
	case "a":
		return m, m.mutate(func(ctx context.Context, c *board.Controller) error { return c.ToggleArchive(ctx, n) })
	case "d", "delete":
		return m, m.mutate(func(ctx context.Context, c *board.Controller) error { return c.Delete(ctx, n) })
	case "c":
		m.mode = modeColor
		m.pickFor = n
		m.colorIdx = paletteIndex(n.Color)
	}
	return m, nil
}

func (m *Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter":
		m.search.Blur()
		m.mode = modeBoard
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if c := m.current(); c != nil {
		c.SetQuery(m.search.Value())
	}
	m.cursor = 0
	return m, cmd
}

func (m *Model) updateColor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "left", "h":
		m.colorIdx = (m.colorIdx + len(core.Palette) - 1) % len(core.Palette)
	case "right", "l":
		m.colorIdx = (m.colorIdx + 1) % len(core.Palette)
	case "enter", " ":
		m.mode = modeBoard
		n, color := m.pickFor, string(core.Palette[m.colorIdx])
		return m, m.mutate(func(ctx context.Context, c *board.Controller) error { return c.SetColor(ctx, n, color) })
	case "esc", "q":
		m.mode = modeBoard
	}
	return m, nil
}

func (m *Model) openEditor(n *core.Note) tea.Cmd {
	m.editor.Open(n)
	d := m.editor.Draft()
	m.title.SetValue(d.Title)
	m.body.SetValue(d.Body)
	m.label.Reset()
	m.colorIdx = paletteIndex(d.Color)
	m.mode = modeEditor
	return m.focusField(fieldTitle)
}

func (m *Model) focusField(f editorField) tea.Cmd {
	m.field = f
	m.title.Blur()
	m.body.Blur()
	m.label.Blur()
	switch f {
	case fieldTitle:
		return m.title.Focus()
	case fieldBody:
		return m.body.Focus()
	case fieldLabels:
		return m.label.Focus()
	}
	return nil
}

func (m *Model) closeEditor() tea.Cmd {
	m.mode = modeBoard
	m.focusField(fieldColor)
	ed := m.editor
	m.editor.Discard()

	c := m.current()
	if c == nil {
		return nil
	}
	ctx, q := m.ctx, m.queue
	return func() tea.Msg {
		saved, err := ed.Close(ctx, c)
		return editorClosedMsg{saved: saved, err: err, toasts: q.drain()}
	}
}

func (m *Model) updateEditor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n, existing := m.editor.Note()

	switch msg.String() {
	case "esc":
		return m, m.closeEditor()
	case "tab":
		return m, m.focusField((m.field + 1) % fieldCount)
	case "shift+tab":
		return m, m.focusField((m.field + fieldCount - 1) % fieldCount)
	case "ctrl+p":
		if existing {
			return m, m.mutate(func(ctx context.Context, c *board.Controller) error { return c.TogglePin(ctx, n) })
		}
		return m, nil
	case "ctrl+a":
		if existing {
			return m, m.mutate(func(ctx context.Context, c *board.Controller) error { return c.ToggleArchive(ctx, n) })
		}
		return m, nil
	case "ctrl+d":
		if existing {
			m.editor.Discard()
			m.focusField(fieldColor)
			m.mode = modeBoard
			return m, m.mutate(func(ctx context.Context, c *board.Controller) error { return c.Delete(ctx, n) })
		}
		return m, nil
	}

	switch m.field {
	case fieldLabels:
		switch msg.String() {
		case "enter":
			m.editor.AddLabel(m.label.Value())
			m.label.Reset()
			return m, nil
		case "backspace":
			if m.label.Value() == "" {
				if labels := m.editor.Draft().Labels; len(labels) > 0 {
					m.editor.RemoveLabel(labels[len(labels)-1])
				}
				return m, nil
			}
		}
	case fieldColor:
		switch msg.String() {
		case "left", "h":
			m.colorIdx = (m.colorIdx + len(core.Palette) - 1) % len(core.Palette)
		case "right", "l":
			m.colorIdx = (m.colorIdx + 1) % len(core.Palette)
		default:
			return m, nil
		}
		m.editor.SetColor(string(core.Palette[m.colorIdx]))
		return m, nil
	}
	return m, m.updateEditorField(msg)
}

func (m *Model) updateEditorField(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.field {
	case fieldTitle:
		m.title, cmd = m.title.Update(msg)
		m.editor.SetTitle(m.title.Value())
	case fieldBody:
		m.body, cmd = m.body.Update(msg)
		m.editor.SetBody(m.body.Value())
	case fieldLabels:
		m.label, cmd = m.label.Update(msg)
	}
	return cmd
}

func (m *Model) cards() []core.Note {
	c := m.current()
	if c == nil {
		return nil
	}
	return c.Render().Cards()
}

func (m *Model) selected() (core.Note, bool) {
	cards := m.cards()
	if m.cursor < 0 || m.cursor >= len(cards) {
		return core.Note{}, false
	}
	return cards[m.cursor], true
}

func (m *Model) clampCursor() {
	n := len(m.cards())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) columns() int {
	if m.width <= 0 {
		return 3
	}
	return max(1, m.width/(cardWidth+4))
}

func paletteIndex(name string) int {
	resolved := core.ResolveColor(name)
	for i, c := range core.Palette {
		if c == resolved {
			return i
		}
	}
	return 0
}

var _ tea.Model = (*Model)(nil)
