package strategy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-synthesis/internal/automaton"
	"github.com/rocketscienceinc/tictactoe-synthesis/internal/entity"
	"github.com/rocketscienceinc/tictactoe-synthesis/internal/synthesis"
)

func TestSynthesizer_SynthesizeAll(t *testing.T) {
	_, all := strategies(t)

	require.Len(t, all, 2)
	for _, owner := range entity.Marks {
		require.Contains(t, all, owner)
		assert.Equal(t, owner, all[owner].Owner)
		assert.Equal(t, []automaton.State{automaton.SuccessState()}, all[owner].Automaton.Accepting())
	}
}

func TestStrategy_Safety(t *testing.T) {
	_, all := strategies(t)

	for _, owner := range entity.Marks {
		t.Run(owner.String(), func(t *testing.T) {
			aut := all[owner].Automaton
			reachable := aut.Reachable()

			for _, s := range aut.States() {
				if s.IsSuccess() {
					continue
				}

				// Then: the opponent never wins and every finished game is marked
				assert.True(t, reachable[s])
				board := s.BoardState()
				assert.False(t, board.IsWin(owner.Opponent()), "opponent wins in %s", s)
				if board.IsTerminal() {
					assert.True(t, all[owner].Succeeded(board), "unmarked finished game %s", s)
				}
			}
		})
	}
}

func TestStrategy_Coverage(t *testing.T) {
	plant, all := strategies(t)

	for _, owner := range entity.Marks {
		t.Run(owner.String(), func(t *testing.T) {
			aut := all[owner].Automaton

			for _, s := range aut.States() {
				board := s.BoardState()
				if s.IsSuccess() || board.IsTerminal() || board.Turn == owner {
					continue
				}

				// Then: every opponent reply the plant allows is still there
				replies := 0
				for _, tr := range aut.ForwardStar(s) {
					assert.True(t, tr.IsUrgent(), tr.String())
					replies++
				}
				assert.Equal(t, len(plant.ForwardStar(s)), replies, s.String())
				assert.Len(t, board.Board.AvailableCells(), replies, s.String())
			}
		})
	}
}

func TestStrategy_Idempotence(t *testing.T) {
	_, all := strategies(t)
	synth := synthesis.New(newTestLogger(), 0, nil)

	for _, owner := range entity.Marks {
		again, err := synth.Synthesize(context.Background(), "again", all[owner].Automaton)
		require.NoError(t, err)
		assert.True(t, all[owner].Automaton.Equal(again), owner.String())
	}
}

func TestStrategy_Openings(t *testing.T) {
	_, all := strategies(t)

	t.Run("X may open anywhere", func(t *testing.T) {
		// Given: the X strategy in the empty configuration
		aut := all[entity.PlayerX].Automaton

		// Then: all nine openings keep X from losing
		openings := aut.ForwardStar(aut.Initial())
		require.Len(t, openings, entity.BoardSize)
		for _, tr := range openings {
			assert.True(t, tr.IsPermitted())
		}
	})

	t.Run("O must block an open line", func(t *testing.T) {
		// Given: X in 0, O in 4, X in 1
		state := play(t, 0, 4, 1)
		strategy := all[entity.PlayerO]
		require.True(t, strategy.Knows(state))

		// When: looking at what O may do
		moves := strategy.Automaton.ForwardStar(automaton.StateOf(state))

		// Then: only the block in 2 is left
		require.Len(t, moves, 1)
		assert.Equal(t, automaton.Move(entity.PlayerO, 2), moves[0].Action)
	})

	t.Run("O corner reply to a center opening survives", func(t *testing.T) {
		assert.True(t, all[entity.PlayerO].Knows(play(t, 4, 0)))
	})

	t.Run("O edge reply to a center opening loses", func(t *testing.T) {
		assert.False(t, all[entity.PlayerO].Knows(play(t, 4, 1)))
	})
}

func TestSynthesizer_Synthesize(t *testing.T) {
	t.Run("Unplayable plant is rejected", func(t *testing.T) {
		// Given: a plant where X wins at once whatever O does
		state := play(t, 0, 3, 1, 4)
		won, err := state.Play(2)
		require.NoError(t, err)

		aut := automaton.New(automaton.StateOf(state), nil, []automaton.Transition{
			{Source: automaton.StateOf(state), Action: automaton.Move(entity.PlayerX, 2), Target: automaton.StateOf(won), Modality: automaton.Permitted},
		})

		// When: synthesizing the O strategy
		_, err = newTestSynthesizer().Synthesize(context.Background(), aut, entity.PlayerO)

		// Then: there is no strategy
		assert.ErrorIs(t, err, ErrInvalidStrategy)
		assert.ErrorIs(t, err, synthesis.ErrEmptyController)
	})

	t.Run("Owner must be a player", func(t *testing.T) {
		_, err := newTestSynthesizer().Synthesize(context.Background(), automaton.New(automaton.NewState(), nil, nil), entity.PlayerTie)
		assert.ErrorIs(t, err, entity.ErrInvalidMark)
	})
}
