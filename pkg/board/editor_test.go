package board_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/keep/pkg/board"
	"github.com/aretw0/keep/pkg/core"
)

type recordingSaver struct {
	saves    int
	selected *core.Note
	draft    core.Draft
}

func (r *recordingSaver) Save(ctx context.Context, selected *core.Note, d core.Draft) error {
	r.saves++
	r.selected = selected
	r.draft = d
	return nil
}

func TestEditor_BlankDraftClosesWithoutWrite(t *testing.T) {
	var e board.Editor
	s := &recordingSaver{}

	e.Open(nil)
	assert.True(t, e.IsOpen())
	assert.Equal(t, "default", e.Draft().Color)
	e.SetTitle("   ")
	e.SetBody("\n\t")

	saved, err := e.Close(context.Background(), s)
	require.NoError(t, err)
	assert.False(t, saved)
	assert.False(t, e.IsOpen())
	assert.Zero(t, s.saves)
}

func TestEditor_Labels(t *testing.T) {
	var e board.Editor
	e.Open(nil)

	assert.True(t, e.AddLabel("#todo"))
	assert.False(t, e.AddLabel("todo"), "re-adding is a no-op")
	assert.False(t, e.AddLabel("  "))
	assert.True(t, e.AddLabel(" work "))
	assert.Equal(t, []string{"todo", "work"}, e.Draft().Labels)

	e.RemoveLabel("todo")
	assert.Equal(t, []string{"work"}, e.Draft().Labels)

	s := &recordingSaver{}
	saved, err := e.Close(context.Background(), s)
	require.NoError(t, err)
	assert.True(t, saved, "a label alone is content")
	assert.Nil(t, s.selected)
	assert.Equal(t, []string{"work"}, s.draft.Labels)
}

func TestEditor_SeededFromNote(t *testing.T) {
	var e board.Editor
	n := core.Note{ID: "n1", Title: "Title", Body: "Body", Color: "", Labels: []string{"a"}}
	e.Open(&n)

	got, ok := e.Note()
	require.True(t, ok)
	assert.Equal(t, "n1", got.ID)

	d := e.Draft()
	assert.Equal(t, "Title", d.Title)
	assert.Equal(t, "default", d.Color)

	e.AddLabel("b")
	e.SetColor("blue")
	e.SetBody("  changed  ")
	assert.Equal(t, []string{"a"}, n.Labels, "the source note is not aliased")

	s := &recordingSaver{}
	saved, err := e.Close(context.Background(), s)
	require.NoError(t, err)
	assert.True(t, saved)
	require.NotNil(t, s.selected)
	assert.Equal(t, "n1", s.selected.ID)
	assert.Equal(t, core.Draft{Title: "Title", Body: "changed", Color: "blue", Labels: []string{"a", "b"}}, s.draft)

	_, ok = e.Note()
	assert.False(t, ok)
}

func TestEditor_DiscardAndDoubleClose(t *testing.T) {
	var e board.Editor
	s := &recordingSaver{}

	e.Open(nil)
	e.SetTitle("lost")
	e.Discard()
	assert.False(t, e.IsOpen())

	saved, err := e.Close(context.Background(), s)
	require.NoError(t, err)
	assert.False(t, saved)
	assert.Zero(t, s.saves)
}

func TestEditor_CloseThroughController(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, f.active.Load(ctx))

	var e board.Editor
	e.Open(nil)
	e.SetTitle("from editor")
	saved, err := e.Close(ctx, f.active)
	require.NoError(t, err)
	assert.True(t, saved)
	assert.Equal(t, board.MsgCreated, f.lastToast(t).Description)

	n := findByTitle(t, f.active, "from editor")
	e.Open(&n)
	require.NoError(t, f.active.Delete(ctx, n))
	e.Discard()

	assert.Empty(t, f.active.Notes())
	assert.Equal(t, board.MsgDeleted, f.lastToast(t).Description)
}
