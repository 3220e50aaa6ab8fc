package repository

import (
	"testing"

	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
	"github.com/rocketscienceinc/gomoku-backend/testing/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRepository_CreateOrUpdate(t *testing.T) {
	ctx, st := suite.New(t)

	sessionRepo := NewSessionRepository(st.Storage)

	// Given: a new session with one move
	session := entity.NewSession("game-1", "player-1", "greedy", 15, entity.White)
	session.Moves = append(session.Moves, entity.Move{Row: 7, Col: 7})

	// When: CreateOrUpdate is called twice, the second time with another move
	require.NoError(t, sessionRepo.CreateOrUpdate(ctx, session))

	session.Moves = append(session.Moves, entity.Move{Row: 7, Col: 8})
	require.NoError(t, sessionRepo.CreateOrUpdate(ctx, session))

	// Then: the latest version is stored
	stored, err := sessionRepo.GetByID(ctx, "player-1")
	require.NoError(t, err)
	assert.Equal(t, session, stored)
}

func TestSessionRepository_GetByID(t *testing.T) {
	t.Run("GetByID_NotFound", func(t *testing.T) {
		ctx, st := suite.New(t)

		sessionRepo := NewSessionRepository(st.Storage)

		// When: GetByID is called for a player without a game
		_, err := sessionRepo.GetByID(ctx, "nobody")

		// Then: ErrSessionNotFound is returned
		require.ErrorIs(t, err, ErrSessionNotFound)
	})
}

func TestSessionRepository_DeleteByID(t *testing.T) {
	t.Run("DeleteByID_Success", func(t *testing.T) {
		ctx, st := suite.New(t)

		sessionRepo := NewSessionRepository(st.Storage)

		// Given: a stored session
		session := entity.NewSession("game-1", "player-1", "random", 15, entity.Black)
		require.NoError(t, sessionRepo.CreateOrUpdate(ctx, session))

		// When: it is deleted
		err := sessionRepo.DeleteByID(ctx, "player-1")

		// Then: it can no longer be found
		require.NoError(t, err)

		_, err = sessionRepo.GetByID(ctx, "player-1")
		require.ErrorIs(t, err, ErrSessionNotFound)
	})

	t.Run("DeleteByID_NotFound", func(t *testing.T) {
		ctx, st := suite.New(t)

		sessionRepo := NewSessionRepository(st.Storage)

		err := sessionRepo.DeleteByID(ctx, "nobody")

		require.ErrorIs(t, err, ErrSessionNotFound)
	})
}
