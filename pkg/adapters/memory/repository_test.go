package memory_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/keep/pkg/adapters/memory"
	"github.com/aretw0/keep/pkg/core"
)

func sequence() func() string {
	i := 0
	return func() string {
		i++
		return fmt.Sprintf("n%02d", i)
	}
}

func TestRepository_Ordering(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	repo := memory.NewRepository(memory.WithIDGenerator(sequence()), memory.WithClock(func() time.Time { return base }))

	for _, title := range []string{"old", "mid", "new"} {
		_, err := repo.Insert(ctx, core.NewNote{Title: title, UserID: "u1", Color: "default"})
		require.NoError(t, err)
	}
	// n01 old, n02 mid, n03 new; give them distinct update times.
	for i, id := range []string{"n01", "n02", "n03"} {
		require.NoError(t, repo.Update(ctx, "u1", id, core.Patch{UpdatedAt: base.Add(time.Duration(i) * time.Minute)}))
	}
	pinned := true
	require.NoError(t, repo.Update(ctx, "u1", "n01", core.Patch{Pinned: &pinned, UpdatedAt: base}))

	notes, err := repo.List(ctx, core.Query{Owner: "u1", View: core.ViewActive})
	require.NoError(t, err)
	require.Len(t, notes, 3)
	assert.Equal(t, []string{"old", "new", "mid"}, titles(notes))

	archived := true
	for _, id := range []string{"n01", "n02"} {
		require.NoError(t, repo.Update(ctx, "u1", id, core.Patch{Archived: &archived, UpdatedAt: base.Add(time.Hour)}))
	}
	require.NoError(t, repo.Update(ctx, "u1", "n02", core.Patch{UpdatedAt: base.Add(2 * time.Hour)}))

	notes, err = repo.List(ctx, core.Query{Owner: "u1", View: core.ViewArchived})
	require.NoError(t, err)
	assert.Equal(t, []string{"mid", "old"}, titles(notes), "pinned does not lead on the archive")
}

func TestRepository_OwnerScoping(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewRepository()

	mine, err := repo.Insert(ctx, core.NewNote{Title: "mine", UserID: "u1"})
	require.NoError(t, err)
	_, err = repo.Insert(ctx, core.NewNote{Title: "theirs", UserID: "u2"})
	require.NoError(t, err)

	notes, err := repo.List(ctx, core.Query{Owner: "u1", View: core.ViewActive})
	require.NoError(t, err)
	assert.Equal(t, []string{"mine"}, titles(notes))

	title := "stolen"
	assert.ErrorIs(t, repo.Update(ctx, "u2", mine.ID, core.Patch{Title: &title}), core.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "u2", mine.ID), core.ErrNotFound)
	assert.Equal(t, 2, repo.Len())

	require.NoError(t, repo.Delete(ctx, "u1", mine.ID))
	assert.Equal(t, 1, repo.Len())
	assert.ErrorIs(t, repo.Delete(ctx, "u1", mine.ID), core.ErrNotFound)
}

func TestRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewRepository()

	labels := []string{"work"}
	n, err := repo.Insert(ctx, core.NewNote{Title: "t", Labels: labels, UserID: "u1"})
	require.NoError(t, err)
	assert.NotEmpty(t, n.ID)
	assert.False(t, n.CreatedAt.IsZero())

	labels[0] = "mutated"
	n.Labels[0] = "mutated"

	notes, err := repo.List(ctx, core.Query{Owner: "u1", View: core.ViewActive})
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, []string{"work"}, notes[0].Labels)
}

func TestRepository_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	repo := memory.NewRepository()
	_, err := repo.List(ctx, core.Query{Owner: "u1"})
	assert.ErrorIs(t, err, context.Canceled)
	_, err = repo.Insert(ctx, core.NewNote{Title: "t", UserID: "u1"})
	assert.ErrorIs(t, err, context.Canceled)
}

func titles(notes []core.Note) []string {
	out := make([]string, len(notes))
	for i, n := range notes {
		out[i] = n.Title
	}
	return out
}
