package usecase

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-synthesis/internal/automaton"
	"github.com/rocketscienceinc/tictactoe-synthesis/internal/entity"
	"github.com/rocketscienceinc/tictactoe-synthesis/internal/plant"
	"github.com/rocketscienceinc/tictactoe-synthesis/internal/repository"
	"github.com/rocketscienceinc/tictactoe-synthesis/internal/service"
	"github.com/rocketscienceinc/tictactoe-synthesis/internal/strategy"
	"github.com/rocketscienceinc/tictactoe-synthesis/internal/synthesis"
)

// builtStrategies serves synthesized strategies the way the artifact
// repository does.
type builtStrategies map[entity.Mark]*automaton.Automaton

func (that builtStrategies) Load(_ context.Context, owner entity.Mark) (*automaton.Automaton, error) {
	return that[owner], nil
}

var (
	builtOnce sync.Once
	built     builtStrategies
	builtErr  error
)

func newGuidedManager(t *testing.T) (*GameManager, repository.GameRepository) {
	t.Helper()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))

	builtOnce.Do(func() {
		ctx := context.Background()
		synth := synthesis.New(logger, 0, nil)

		var p *automaton.Automaton
		if p, builtErr = plant.NewBuilder(logger, synth).Build(ctx); builtErr != nil {
			return
		}

		var strategies map[entity.Mark]*strategy.Strategy
		if strategies, builtErr = strategy.NewSynthesizer(logger, synth).SynthesizeAll(ctx, p); builtErr != nil {
			return
		}

		built = make(builtStrategies, len(strategies))
		for mark, s := range strategies {
			built[mark] = s.Automaton
		}
	})
	require.NoError(t, builtErr)

	repo := repository.NewMemoryGameRepository()
	guided := service.NewGuidedOpponent(strategy.NewStore(built), strategy.NewExecutor())
	random := service.NewRandomOpponent(strategy.SharedRandom{})

	return NewGameManager(logger, repo, guided, random), repo
}

func TestGameManager_GuidedHumanMove(t *testing.T) {
	ctx := context.Background()

	t.Run("Legal move is matched and answered", func(t *testing.T) {
		// Given: a guided game where the human plays X
		manager, _ := newGuidedManager(t)
		game, err := manager.NewGame(ctx, entity.GuidedType, true)
		require.NoError(t, err)

		// When: the human takes the center
		game, err = manager.MakeTurn(ctx, game.ID, 4)

		// Then: the move is played and O answers in a corner
		require.NoError(t, err)
		assert.Equal(t, entity.PlayerX, game.Board[4])
		assert.Equal(t, 1, game.Board.Count(entity.PlayerO))
		for _, edge := range []int{1, 3, 5, 7} {
			assert.Equal(t, entity.EmptyCell, game.Board[edge])
		}
	})

	t.Run("Occupied cell is refused and can be retried", func(t *testing.T) {
		// Given: a guided game after the human's first move
		manager, _ := newGuidedManager(t)
		game, err := manager.NewGame(ctx, entity.GuidedType, true)
		require.NoError(t, err)
		_, err = manager.MakeTurn(ctx, game.ID, 4)
		require.NoError(t, err)

		// When: the human plays the center again
		_, err = manager.MakeTurn(ctx, game.ID, 4)

		// Then: the strategy has no such move and the stored game is unchanged
		require.ErrorIs(t, err, strategy.ErrIllegalMove)
		stored, err := manager.GetGame(ctx, game.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, stored.Board.Count(entity.PlayerX)+stored.Board.Count(entity.PlayerO))
		assert.True(t, stored.IsHumanTurn())
	})

	t.Run("Configuration outside the strategy is fatal", func(t *testing.T) {
		// Given: a stored game where O answered the center on an edge,
		// a position O's strategy never enters
		manager, repo := newGuidedManager(t)
		game := entity.NewGame("edge-reply", entity.GuidedType, true)
		game.Status = entity.StatusOngoing
		game.Board[4] = entity.PlayerX
		game.Board[1] = entity.PlayerO
		require.NoError(t, repo.CreateOrUpdate(ctx, game))

		// When: the human moves
		_, err := manager.MakeTurn(ctx, game.ID, 0)

		// Then: the session cannot continue
		assert.ErrorIs(t, err, strategy.ErrUnknownConfiguration)
	})
}
