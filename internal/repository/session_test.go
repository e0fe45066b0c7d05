package repository

import (
	"testing"
	"time"

	"github.com/contentdee/contentdee/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionLifecycle(t *testing.T) {
	conn := newTestDB(t)
	owner := seedOwner(t, conn)
	repo := NewSessionRepository(conn)

	session := &model.Session{
		ID:        "0123456789abcdef0123456789abcdef",
		UserID:    owner.ID,
		Username:  owner.Username,
		ExpiresAt: time.Now().Add(time.Hour),
		CreatedAt: time.Now(),
	}
	require.NoError(t, repo.Create(session))

	got, err := repo.ByID(session.ID)
	require.NoError(t, err)
	assert.Equal(t, owner.ID, got.UserID)
	assert.Equal(t, "alice", got.Username)

	require.NoError(t, repo.Delete(session.ID))

	_, err = repo.ByID(session.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	assert.ErrorIs(t, repo.Delete(session.ID), ErrSessionNotFound)
}

func TestSessionExpiry(t *testing.T) {
	conn := newTestDB(t)
	owner := seedOwner(t, conn)
	repo := NewSessionRepository(conn)

	expired := &model.Session{
		ID:        "feedfacefeedfacefeedfacefeedface",
		UserID:    owner.ID,
		Username:  owner.Username,
		ExpiresAt: time.Now().Add(-time.Minute),
		CreatedAt: time.Now().Add(-time.Hour),
	}
	require.NoError(t, repo.Create(expired))

	_, err := repo.ByID(expired.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	reaped, err := repo.DeleteExpired()
	require.NoError(t, err)
	assert.Equal(t, int64(1), reaped)
}
