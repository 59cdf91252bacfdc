package board

import (
	"context"

	"github.com/aretw0/keep/pkg/core"
)

// Saver persists an editor draft. Controller implements it.
type Saver interface {
	Save(ctx context.Context, selected *core.Note, d core.Draft) error
}

// Editor is a draft editing session over one note, or over a new note when
// opened with nil. Changes are only written when the editor closes.
type Editor struct {
	open  bool
	note  *core.Note
	draft core.Draft
}

// Open starts a session. A nil note starts a blank draft in the default color.
func (e *Editor) Open(n *core.Note) {
	e.open = true
	if n == nil {
		e.note = nil
		e.draft = core.Draft{Color: string(core.ColorDefault), Labels: []string{}}
		return
	}
	sel := *n
	e.note = &sel
	e.draft = core.DraftFromNote(sel)
}

// IsOpen reports whether a session is active.
func (e *Editor) IsOpen() bool { return e.open }

// Note returns the note being edited, if any.
func (e *Editor) Note() (core.Note, bool) {
	if e.note == nil {
		return core.Note{}, false
	}
	return *e.note, true
}

// Draft returns a copy of the current draft.
func (e *Editor) Draft() core.Draft {
	d := e.draft
	d.Labels = append([]string(nil), e.draft.Labels...)
	return d
}

func (e *Editor) SetTitle(title string) { e.draft.Title = title }

func (e *Editor) SetBody(body string) { e.draft.Body = body }

// SetColor changes the draft color. Nothing is written until Close.
func (e *Editor) SetColor(color string) { e.draft.Color = color }

// AddLabel adds a label from raw input. It reports whether the label was new.
func (e *Editor) AddLabel(raw string) bool {
	labels, added := core.AddLabel(e.draft.Labels, raw)
	e.draft.Labels = labels
	return added
}

func (e *Editor) RemoveLabel(label string) {
	e.draft.Labels = core.RemoveLabel(e.draft.Labels, label)
}

// Close ends the session and saves the draft if it has any content. It
// reports whether a save was attempted.
func (e *Editor) Close(ctx context.Context, s Saver) (bool, error) {
	if !e.open {
		return false, nil
	}
	sel, draft := e.note, e.draft
	e.Discard()

	if !draft.HasContent() {
		return false, nil
	}
	return true, s.Save(ctx, sel, draft.Normalize())
}

// Discard ends the session without saving.
func (e *Editor) Discard() {
	e.open = false
	e.note = nil
	e.draft = core.Draft{}
}
