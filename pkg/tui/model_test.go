package tui_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/keep/pkg/adapters/memory"
	"github.com/aretw0/keep/pkg/board"
	"github.com/aretw0/keep/pkg/core"
	"github.com/aretw0/keep/pkg/session"
	"github.com/aretw0/keep/pkg/tui"
)

type fakeSessions struct {
	mu       sync.Mutex
	owner    string
	signOuts int
}

func (f *fakeSessions) Owner() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.owner
}

func (f *fakeSessions) SignIn(ctx context.Context, email, password string) (session.Session, error) {
	if password != "secret" {
		return session.Session{}, errors.New("Invalid login credentials")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.owner = "user-" + email
	return session.Session{AccessToken: "tok", User: session.User{ID: f.owner, Email: email}}, nil
}

func (f *fakeSessions) SignOut(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signOuts++
	f.owner = ""
	return nil
}

type harness struct {
	t        *testing.T
	m        *tui.Model
	svc      *core.Service
	sessions *fakeSessions
}

// newService ticks one second per call so fetch order never ties.
func newService() *core.Service {
	var mu sync.Mutex
	now := time.Date(2026, 7, 1, 8, 0, 0, 0, time.UTC)
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(time.Second)
		return now
	}
	return core.NewService(memory.NewRepository(memory.WithClock(clock)), core.WithClock(clock))
}

func newHarness(t *testing.T, owner string) *harness {
	t.Helper()
	h := &harness{
		t:        t,
		svc:      newService(),
		sessions: &fakeSessions{owner: owner},
	}
	h.m = tui.New(context.Background(), tui.Options{
		Sessions: h.sessions,
		Boards: func(view core.View, opts ...board.Option) (*board.Controller, error) {
			return board.NewController(h.svc, h.sessions.Owner(), view, opts...), nil
		},
		ToastTimeout: time.Hour,
	})
	h.m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	h.run(h.m.Init())
	return h
}

// exec runs a command, dropping ones that wait on timers or channels.
func exec(cmd tea.Cmd) tea.Msg {
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(100 * time.Millisecond):
		return nil
	}
}

func (h *harness) run(cmd tea.Cmd) {
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0 && steps < 200; steps++ {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		msg := exec(c)
		if msg == nil {
			continue
		}
		if batch, ok := msg.(tea.BatchMsg); ok {
			queue = append(queue, batch...)
			continue
		}
		if _, ok := msg.(tea.QuitMsg); ok {
			continue
		}
		_, next := h.m.Update(msg)
		queue = append(queue, next)
	}
}

func (h *harness) send(msg tea.Msg) {
	_, cmd := h.m.Update(msg)
	h.run(cmd)
}

func (h *harness) key(k tea.KeyType) { h.send(tea.KeyMsg{Type: k}) }

func (h *harness) press(s string) {
	h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func (h *harness) typeText(s string) {
	for _, r := range s {
		h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func (h *harness) notes(view core.View) []core.Note {
	h.t.Helper()
	notes, err := h.svc.List(context.Background(), h.sessions.Owner(), view)
	require.NoError(h.t, err)
	return notes
}

func (h *harness) seed(titles ...string) {
	h.t.Helper()
	for _, title := range titles {
		_, err := h.svc.Create(context.Background(), h.sessions.Owner(), core.Draft{Title: title})
		require.NoError(h.t, err)
	}
	h.press("r")
}

func TestLogin(t *testing.T) {
	h := newHarness(t, "")
	assert.Contains(t, h.m.View(), "Sign in to your account")

	h.typeText("me@example.com")
	h.key(tea.KeyEnter)
	h.typeText("wrong")
	h.key(tea.KeyEnter)
	assert.Contains(t, h.m.View(), "Invalid login credentials")

	for range "wrong" {
		h.key(tea.KeyBackspace)
	}
	h.typeText("secret")
	h.key(tea.KeyEnter)

	assert.Equal(t, "user-me@example.com", h.sessions.Owner())
	view := h.m.View()
	assert.Contains(t, view, "No notes yet")
	assert.Contains(t, view, "Create your first note to get started")
}

func TestEditor_CreateOnClose(t *testing.T) {
	h := newHarness(t, "u1")

	h.press("n")
	assert.Contains(t, h.m.View(), "New note")
	h.typeText("Buy milk")
	h.key(tea.KeyTab)
	h.typeText("2 liters")
	h.key(tea.KeyEsc)

	notes := h.notes(core.ViewActive)
	require.Len(t, notes, 1)
	assert.Equal(t, "Buy milk", notes[0].Title)
	assert.Equal(t, "2 liters", notes[0].Body)
	assert.Equal(t, "default", notes[0].Color)

	view := h.m.View()
	assert.Contains(t, view, "Buy milk")
	assert.Contains(t, view, "Success: Note created")
}

func TestEditor_BlankCloseWritesNothing(t *testing.T) {
	h := newHarness(t, "u1")

	h.press("n")
	h.typeText("   ")
	h.key(tea.KeyEsc)

	assert.Empty(t, h.notes(core.ViewActive))
	assert.NotContains(t, h.m.View(), "Success")
	assert.Contains(t, h.m.View(), "No notes yet")
}

func TestEditor_LabelsAndColor(t *testing.T) {
	h := newHarness(t, "u1")

	h.press("n")
	h.typeText("Groceries")
	h.key(tea.KeyTab) // body
	h.key(tea.KeyTab) // labels
	h.typeText("#todo")
	h.key(tea.KeyEnter)
	h.typeText("todo")
	h.key(tea.KeyEnter)
	h.typeText("home")
	h.key(tea.KeyEnter)
	assert.Contains(t, h.m.View(), "#todo")

	h.key(tea.KeyBackspace) // empty input drops the last label
	h.key(tea.KeyTab)       // colors
	h.key(tea.KeyRight)
	h.key(tea.KeyRight)
	h.key(tea.KeyEsc)

	notes := h.notes(core.ViewActive)
	require.Len(t, notes, 1)
	assert.Equal(t, []string{"todo"}, notes[0].Labels)
	assert.Equal(t, "orange", notes[0].Color)
}

func TestBoard_PinSearchAndSections(t *testing.T) {
	h := newHarness(t, "u1")
	h.seed("Meeting notes", "Buy milk")

	// Newest first, so "Buy milk" is under the cursor.
	h.press("p")
	view := h.m.View()
	assert.Contains(t, view, "PINNED")
	assert.Contains(t, view, "OTHERS")
	assert.Less(t, strings.Index(view, "Buy milk"), strings.Index(view, "Meeting notes"))

	h.press("/")
	h.typeText("milk")
	h.key(tea.KeyEnter)
	view = h.m.View()
	assert.Contains(t, view, "Buy milk")
	assert.NotContains(t, view, "Meeting notes")
	assert.NotContains(t, view, "OTHERS")

	h.press("/")
	for range "milk" {
		h.key(tea.KeyBackspace)
	}
	h.typeText("zzz")
	h.key(tea.KeyEsc)
	assert.Contains(t, h.m.View(), "No notes found")
}

func TestBoard_ArchiveRoundTrip(t *testing.T) {
	h := newHarness(t, "u1")
	h.seed("Old idea")

	h.press("a")
	assert.Contains(t, h.m.View(), "Note archived")
	assert.Empty(t, h.notes(core.ViewActive))

	h.key(tea.KeyTab)
	view := h.m.View()
	assert.Contains(t, view, "Archived Notes")
	assert.Contains(t, view, "Old idea")

	h.press("n")
	assert.NotContains(t, h.m.View(), "New note", "the archive has no create")

	h.press("a")
	assert.Contains(t, h.m.View(), "Note unarchived")
	assert.Contains(t, h.m.View(), "No archived notes")

	h.key(tea.KeyTab)
	assert.Contains(t, h.m.View(), "Old idea")
}

func TestBoard_ColorPicker(t *testing.T) {
	h := newHarness(t, "u1")
	h.seed("Paint me")

	h.press("c")
	h.key(tea.KeyRight)
	h.key(tea.KeyEnter)

	notes := h.notes(core.ViewActive)
	require.Len(t, notes, 1)
	assert.Equal(t, "yellow", notes[0].Color)
	assert.NotContains(t, h.m.View(), "Success", "color changes are silent")
}

func TestEditor_DeleteCloses(t *testing.T) {
	h := newHarness(t, "u1")
	h.seed("Doomed")

	h.key(tea.KeyEnter)
	assert.Contains(t, h.m.View(), "Edit note")
	h.typeText(" edited")
	h.key(tea.KeyCtrlD)

	assert.Empty(t, h.notes(core.ViewActive))
	view := h.m.View()
	assert.NotContains(t, view, "Edit note")
	assert.Contains(t, view, "Success: Note deleted")
	assert.NotContains(t, view, "Note updated", "a deleted note is not saved on close")
}

func TestSignOut(t *testing.T) {
	t.Run("From The Navbar", func(t *testing.T) {
		h := newHarness(t, "u1")
		h.press("S")
		assert.Equal(t, 1, h.sessions.signOuts)
		assert.Empty(t, h.sessions.Owner())
		assert.Contains(t, h.m.View(), "Sign in to your account")
	})
}
