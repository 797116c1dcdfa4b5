package strategy

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-synthesis/internal/entity"
)

func TestExecutor_NextMove(t *testing.T) {
	_, all := strategies(t)
	executor := NewExecutor(WithRandom(rand.New(rand.NewPCG(1, 2))))

	t.Run("Picks a move the strategy keeps", func(t *testing.T) {
		// Given: X opened in the center
		state := play(t, 4)

		// When: asking the O strategy for a move
		cell, err := executor.NextMove(all[entity.PlayerO], state)
		require.NoError(t, err)

		// Then: O answers in a corner
		assert.Contains(t, []int{0, 2, 6, 8}, cell)
	})

	t.Run("Takes an immediate win", func(t *testing.T) {
		// Given: X holds 0 and 1, O holds 3 and 4, X to move
		state := play(t, 0, 3, 1, 4)

		// When: asking the X strategy for a move
		cell, err := executor.NextMove(all[entity.PlayerX], state)
		require.NoError(t, err)

		// Then: X completes the top row
		assert.Equal(t, 2, cell)
	})

	t.Run("Unknown configuration is fatal", func(t *testing.T) {
		// Given: a configuration the O strategy never allows
		state := play(t, 4, 1)

		_, err := executor.NextMove(all[entity.PlayerO], state)
		assert.ErrorIs(t, err, ErrUnknownConfiguration)
	})

	t.Run("Finished game", func(t *testing.T) {
		// Given: a drawn game
		state := play(t, 0, 4, 8, 2, 6, 3, 5, 7, 1)
		require.True(t, state.IsTie())

		_, err := executor.NextMove(all[entity.PlayerX], state)
		assert.ErrorIs(t, err, ErrGameOver)
	})

	t.Run("Not the owner's turn", func(t *testing.T) {
		_, err := executor.NextMove(all[entity.PlayerO], entity.NewBoardState())
		assert.ErrorIs(t, err, ErrNotOwnersTurn)
	})
}

func TestExecutor_MatchMove(t *testing.T) {
	_, all := strategies(t)
	executor := NewExecutor()
	strategy := all[entity.PlayerO]

	t.Run("Opponent move is followed", func(t *testing.T) {
		// When: X opens in the center
		next, err := executor.MatchMove(strategy, entity.NewBoardState(), 4)
		require.NoError(t, err)

		// Then: the configuration has X in 4 and O to move
		assert.Equal(t, play(t, 4), next)
	})

	t.Run("Occupied cell is refused", func(t *testing.T) {
		state := play(t, 4)

		next, err := executor.MatchMove(all[entity.PlayerX], state, 4)
		assert.ErrorIs(t, err, ErrIllegalMove)
		assert.Equal(t, state, next)
	})

	t.Run("Cell out of range is refused", func(t *testing.T) {
		_, err := executor.MatchMove(strategy, entity.NewBoardState(), 9)
		assert.ErrorIs(t, err, ErrIllegalMove)
	})
}

func TestExecutor_GuidedAgainstRandom(t *testing.T) {
	_, all := strategies(t)
	rnd := rand.New(rand.NewPCG(7, 11))

	for _, owner := range entity.Marks {
		t.Run(owner.String(), func(t *testing.T) {
			// Given: the owner's strategy against a uniformly random opponent
			strategy := all[owner]
			executor := NewExecutor(WithRandom(rnd))
			tally := map[entity.Mark]int{}

			// When: playing ten thousand games
			for range 10_000 {
				state := entity.NewBoardState()
				for !state.IsTerminal() {
					var cell int
					if state.Turn == owner {
						var err error
						cell, err = executor.NextMove(strategy, state)
						require.NoError(t, err)
					} else {
						free := state.Board.AvailableCells()
						cell = free[rnd.IntN(len(free))]
					}

					next, err := executor.MatchMove(strategy, state, cell)
					require.NoError(t, err)
					state = next
				}

				winner := state.Board.Winner()
				require.NotEqual(t, entity.EmptyCell, winner)
				tally[winner]++
			}

			// Then: the opponent never wins
			assert.Zero(t, tally[owner.Opponent()])
			assert.Equal(t, 10_000, tally[owner]+tally[entity.PlayerTie])
		})
	}
}

func TestPolicies(t *testing.T) {
	rnd := rand.New(rand.NewPCG(3, 5))

	// X holds 0 and 1, O holds 3 and 4, X to move
	state := play(t, 0, 3, 1, 4)

	t.Run("PreferWin completes the line", func(t *testing.T) {
		assert.Equal(t, 2, PreferWin{}.Choose(state, []int{2, 5, 8}, rnd))
	})

	t.Run("BlockThreat blocks when it cannot win", func(t *testing.T) {
		assert.Equal(t, 5, BlockThreat{}.Choose(state, []int{5, 6, 8}, rnd))
	})

	t.Run("Uniform stays within the allowed cells", func(t *testing.T) {
		for range 100 {
			assert.Contains(t, []int{6, 7}, Uniform{}.Choose(state, []int{6, 7}, rnd))
		}
	})

	t.Run("ParsePolicy", func(t *testing.T) {
		policy, err := ParsePolicy("")
		require.NoError(t, err)
		assert.Equal(t, PreferWin{}, policy)

		policy, err = ParsePolicy(BlockThreatPolicy)
		require.NoError(t, err)
		assert.Equal(t, BlockThreat{}, policy)

		_, err = ParsePolicy("minimax")
		assert.ErrorIs(t, err, ErrUnknownPolicy)
	})
}
