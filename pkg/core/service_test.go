package core_test

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/keep/pkg/core"
)

// MockRepository implements core.Repository in memory and records patches.
type MockRepository struct {
	notes   map[string]core.Note
	patches []core.Patch
	nextID  int
	failErr error
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		notes: make(map[string]core.Note),
	}
}

func (m *MockRepository) Initialize(ctx context.Context) error { return nil }

func (m *MockRepository) List(ctx context.Context, q core.Query) ([]core.Note, error) {
	if m.failErr != nil {
		return nil, m.failErr
	}
	var notes []core.Note
	for _, n := range m.notes {
		if n.UserID == q.Owner && n.Archived == q.View.Archived() {
			notes = append(notes, n)
		}
	}
	// Sort for deterministic tests
	sort.Slice(notes, func(i, j int) bool {
		return notes[i].ID < notes[j].ID
	})
	return notes, nil
}

func (m *MockRepository) Insert(ctx context.Context, n core.NewNote) (core.Note, error) {
	if m.failErr != nil {
		return core.Note{}, m.failErr
	}
	m.nextID++
	note := core.Note{
		ID:       string(rune('a' + m.nextID - 1)),
		Title:    n.Title,
		Body:     n.Body,
		Color:    n.Color,
		Labels:   n.Labels,
		Pinned:   n.Pinned,
		Archived: n.Archived,
		UserID:   n.UserID,
	}
	m.notes[note.ID] = note
	return note, nil
}

func (m *MockRepository) Update(ctx context.Context, owner, id string, p core.Patch) error {
	if m.failErr != nil {
		return m.failErr
	}
	n, ok := m.notes[id]
	if !ok || n.UserID != owner {
		return core.ErrNotFound
	}
	m.patches = append(m.patches, p)
	p.Apply(&n)
	m.notes[id] = n
	return nil
}

func (m *MockRepository) Delete(ctx context.Context, owner, id string) error {
	n, ok := m.notes[id]
	if !ok || n.UserID != owner {
		return core.ErrNotFound
	}
	delete(m.notes, id)
	return nil
}

func TestService_CRUD(t *testing.T) {
	repo := NewMockRepository()
	service := core.NewService(repo)
	ctx := context.TODO()

	// 1. Create
	note, err := service.Create(ctx, "u1", core.Draft{Title: "  Buy milk ", Labels: []string{"home", " "}})
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", note.Title)
	assert.Equal(t, "default", note.Color)
	assert.Equal(t, []string{"home"}, note.Labels)
	assert.False(t, note.Pinned)
	assert.False(t, note.Archived)

	// 2. List is scoped by owner and view
	_, err = service.Create(ctx, "u2", core.Draft{Body: "other user"})
	require.NoError(t, err)
	notes, err := service.List(ctx, "u1", core.ViewActive)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, note.ID, notes[0].ID)

	// 3. Archive moves it between views
	require.NoError(t, service.SetArchived(ctx, "u1", note.ID, true))
	active, err := service.List(ctx, "u1", core.ViewActive)
	require.NoError(t, err)
	assert.Empty(t, active)
	archived, err := service.List(ctx, "u1", core.ViewArchived)
	require.NoError(t, err)
	assert.Len(t, archived, 1)

	// 4. Delete
	require.NoError(t, service.Delete(ctx, "u1", note.ID))
	archived, err = service.List(ctx, "u1", core.ViewArchived)
	require.NoError(t, err)
	assert.Empty(t, archived)
}

func TestService_Validation(t *testing.T) {
	service := core.NewService(NewMockRepository())
	ctx := context.TODO()

	_, err := service.List(ctx, "", core.ViewActive)
	assert.ErrorIs(t, err, core.ErrUnauthenticated)

	_, err = service.Create(ctx, "u1", core.Draft{Title: "  ", Body: "\n", Labels: []string{" "}})
	assert.ErrorIs(t, err, core.ErrEmptyNote)

	assert.ErrorIs(t, service.SetPinned(ctx, "u1", "", true), core.ErrEmptyID)
	assert.ErrorIs(t, service.Delete(ctx, "", "a"), core.ErrUnauthenticated)
	assert.ErrorIs(t, service.SetColor(ctx, "u1", "missing", "red"), core.ErrNotFound)
}

func TestService_StampNeverGoesBackwards(t *testing.T) {
	repo := NewMockRepository()
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := []time.Time{base, base.Add(-time.Hour), base.Add(time.Minute)}
	calls := 0
	service := core.NewService(repo, core.WithClock(func() time.Time {
		t := clock[calls%len(clock)]
		calls++
		return t
	}))
	ctx := context.TODO()

	note, err := service.Create(ctx, "u1", core.Draft{Title: "t"})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		require.NoError(t, service.SetPinned(ctx, "u1", note.ID, i%2 == 0))
	}

	require.Len(t, repo.patches, 3)
	assert.Equal(t, base, repo.patches[0].UpdatedAt)
	assert.Equal(t, base, repo.patches[1].UpdatedAt, "clock skew must not move updated_at backwards")
	assert.Equal(t, base.Add(time.Minute), repo.patches[2].UpdatedAt)
}

func TestService_SetColorIsLenient(t *testing.T) {
	repo := NewMockRepository()
	service := core.NewService(repo)
	ctx := context.TODO()

	note, err := service.Create(ctx, "u1", core.Draft{Title: "t"})
	require.NoError(t, err)
	require.NoError(t, service.SetColor(ctx, "u1", note.ID, "chartreuse"))

	stored := repo.notes[note.ID]
	assert.Equal(t, "chartreuse", stored.Color)
	assert.Equal(t, core.ColorDefault, core.ResolveColor(stored.Color))
}

func TestService_PropagatesRepositoryErrors(t *testing.T) {
	repo := NewMockRepository()
	repo.failErr = errors.New("backend down")
	service := core.NewService(repo)

	_, err := service.List(context.TODO(), "u1", core.ViewActive)
	assert.EqualError(t, err, "backend down")
}

func TestService_State(t *testing.T) {
	service := core.NewService(NewMockRepository())
	_, _ = service.List(context.TODO(), "u1", core.ViewActive)

	state, ok := service.State().(core.ServiceState)
	require.True(t, ok)
	assert.Equal(t, "repository", state.RepositoryType)
	assert.Equal(t, 1, state.Reads)
	assert.Equal(t, "service", service.ComponentType())
}
