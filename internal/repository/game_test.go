package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-synthesis/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-synthesis/internal/entity"
	"github.com/rocketscienceinc/tictactoe-synthesis/testing/suite"
)

// gameRepositories - every implementation under test; redis ones are skipped without docker.
func gameRepositories(t *testing.T) map[string]func(t *testing.T) (context.Context, GameRepository) {
	t.Helper()

	return map[string]func(t *testing.T) (context.Context, GameRepository){
		"redis": func(t *testing.T) (context.Context, GameRepository) {
			ctx, st := suite.New(t)
			return ctx, NewGameRepository(st.Storage)
		},
		"memory": func(*testing.T) (context.Context, GameRepository) {
			return context.Background(), NewMemoryGameRepository()
		},
	}
}

func TestGameRepository_CreateOrUpdate(t *testing.T) {
	for name, newRepo := range gameRepositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx, gameRepo := newRepo(t)

			// Given: a new guided game
			game := entity.NewGame("123", entity.GuidedType, true)

			// When: CreateOrUpdate is called twice with a move in between
			require.NoError(t, gameRepo.CreateOrUpdate(ctx, game))
			game.Status = entity.StatusOngoing
			require.NoError(t, game.MakeTurn(entity.PlayerX, 4))
			err := gameRepo.CreateOrUpdate(ctx, game)

			// Then: the latest version is stored
			require.NoError(t, err)
			stored, err := gameRepo.GetByID(ctx, game.ID)
			require.NoError(t, err)
			assert.Equal(t, game, stored)
		})
	}
}

func TestGameRepository_GetByID(t *testing.T) {
	for name, newRepo := range gameRepositories(t) {
		t.Run(name+"/GetByID_Success", func(t *testing.T) {
			ctx, gameRepo := newRepo(t)

			// Given: a game with ID and status
			game := &entity.Game{
				ID:     "123",
				Status: entity.StatusWaiting,
			}

			err := gameRepo.CreateOrUpdate(ctx, game)
			require.NoError(t, err)

			// When: GetByID is called with existing ID
			retrievedGame, err := gameRepo.GetByID(ctx, game.ID)

			// Then: the retrieved game should match the saved game
			require.NoError(t, err)
			require.Equal(t, game.ID, retrievedGame.ID)
			require.Equal(t, game.Status, retrievedGame.Status)
		})

		t.Run(name+"/GetByID_NotFound", func(t *testing.T) {
			ctx, gameRepo := newRepo(t)

			// When: GetByID is called with non-existent ID
			retrievedGame, err := gameRepo.GetByID(ctx, "9999999")

			// Then: an ErrGameNotFound error should be returned
			require.ErrorIs(t, err, apperror.ErrGameNotFound)
			assert.Empty(t, retrievedGame.ID)
			assert.Empty(t, retrievedGame.Status)
		})
	}
}

func TestGameRepository_DeleteByID(t *testing.T) {
	for name, newRepo := range gameRepositories(t) {
		t.Run(name+"/DeleteByID_Success", func(t *testing.T) {
			ctx, gameRepo := newRepo(t)

			// Given: a finished game
			game := &entity.Game{
				ID:     "123",
				Status: entity.StatusFinished,
			}

			err := gameRepo.CreateOrUpdate(ctx, game)
			require.NoError(t, err)

			// When: DeleteByID is called with existing ID
			err = gameRepo.DeleteByID(ctx, game.ID)

			// Then: the game is gone
			require.NoError(t, err)

			_, err = gameRepo.GetByID(ctx, game.ID)
			assert.ErrorIs(t, err, apperror.ErrGameNotFound)
		})

		t.Run(name+"/DeleteByID_NotFound", func(t *testing.T) {
			ctx, gameRepo := newRepo(t)

			// When: DeleteByID is called with non-existent ID
			err := gameRepo.DeleteByID(ctx, "9999999")

			// Then: an ErrGameNotFound error should be returned
			require.ErrorIs(t, err, apperror.ErrGameNotFound)
		})
	}
}
