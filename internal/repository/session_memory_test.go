package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imposter_web/internal/repository/models"
)

func TestMemorySessionRepositorySaveAndFind(t *testing.T) {
	repo := NewMemorySessionRepository()

	session := &models.Session{
		ID:        "s1",
		StartedAt: time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
		Rounds:    []byte(`[]`),
	}
	require.NoError(t, repo.Save(session))

	found, err := repo.FindByID("s1")
	require.NoError(t, err)
	assert.Equal(t, session.ID, found.ID)

	_, err = repo.FindByID("missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestMemorySessionRepositoryFindAllNewestFirst(t *testing.T) {
	repo := NewMemorySessionRepository()

	require.NoError(t, repo.Save(&models.Session{
		ID: "old", StartedAt: time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC),
	}))
	require.NoError(t, repo.Save(&models.Session{
		ID: "new", StartedAt: time.Date(2026, 8, 3, 9, 0, 0, 0, time.UTC),
	}))

	all, err := repo.FindAll()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "new", all[0].ID)
	assert.Equal(t, "old", all[1].ID)
}

func TestMemorySessionRepositorySaveOverwrites(t *testing.T) {
	repo := NewMemorySessionRepository()
	startedAt := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Save(&models.Session{ID: "s", StartedAt: startedAt}))
	require.NoError(t, repo.Save(&models.Session{ID: "s", StartedAt: startedAt, Rounds: []byte(`[{}]`)}))

	all, err := repo.FindAll()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, []byte(`[{}]`), all[0].Rounds)
}
