package automaton

import (
	"testing"

	"github.com/rocketscienceinc/tictactoe-synthesis/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompose(t *testing.T) {
	t.Run("Lockstep fires shared actions together", func(t *testing.T) {
		// Given: a cell automaton and a turn automaton sharing X_0 and O_0
		automata := []*Automaton{cellZero(Permitted), turnZero()}

		// When: composing them in lockstep
		product, err := Compose(automata, Lockstep{})
		require.NoError(t, err)

		// Then: only X may open and cell 0 cannot be written twice
		initial := empty0.Union(turnX)
		assert.Equal(t, initial, product.Initial())
		require.Len(t, product.ForwardStar(initial), 1)

		opening := product.ForwardStar(initial)[0]
		assert.Equal(t, Move(entity.PlayerX, 0), opening.Action)
		assert.Equal(t, cross0.Union(turnO), opening.Target)
		assert.Empty(t, product.ForwardStar(opening.Target))
		assert.Equal(t, 2, product.NumStates())
		assert.Len(t, product.Accepting(), 2)
	})

	t.Run("Interleave moves one component at a time", func(t *testing.T) {
		// Given: the same two automata
		automata := []*Automaton{cellZero(Permitted), turnZero()}

		// When: composing them by interleaving
		product, err := Compose(automata, Interleave{})
		require.NoError(t, err)

		// Then: X_0 is offered separately by each component plus O_0 by the cell
		assert.Len(t, product.ForwardStar(product.Initial()), 3)
	})

	t.Run("Urgency of any participant makes the joint step urgent", func(t *testing.T) {
		// Given: a cell automaton whose moves are urgent
		automata := []*Automaton{cellZero(Urgent), turnZero()}

		// When: composing in lockstep
		product, err := Compose(automata, nil)
		require.NoError(t, err)

		// Then: the opening move is urgent
		for _, tr := range product.Transitions() {
			assert.True(t, tr.IsUrgent())
		}
	})

	t.Run("Pruned steps never materialize their target", func(t *testing.T) {
		// Given: a pruning predicate rejecting every O turn
		prune := WithPrune(func(_, to State) bool { return to.Has(TurnFact(entity.PlayerO)) })

		// When: composing
		product, err := Compose([]*Automaton{cellZero(Permitted), turnZero()}, Lockstep{}, prune)
		require.NoError(t, err)

		// Then: only the initial state is left
		assert.Equal(t, 1, product.NumStates())
		assert.Zero(t, product.NumTransitions())
	})

	t.Run("Composition order does not change the result", func(t *testing.T) {
		a, err := Compose([]*Automaton{cellZero(Permitted), turnZero()}, Lockstep{})
		require.NoError(t, err)
		b, err := Compose([]*Automaton{turnZero(), cellZero(Permitted)}, Lockstep{})
		require.NoError(t, err)

		assert.True(t, a.Equal(b))
	})

	t.Run("Driven fires only actions of the first component", func(t *testing.T) {
		// Given: a leader writing cell 0 and a follower also looping on X_1
		leader := New(empty0, []State{cross0}, []Transition{
			{Source: empty0, Action: Move(entity.PlayerX, 0), Target: cross0, Modality: Permitted},
		})
		follower := New(turnX, []State{turnX}, []Transition{
			{Source: turnX, Action: Move(entity.PlayerX, 0), Target: turnX, Modality: Permitted},
			{Source: turnX, Action: Move(entity.PlayerX, 1), Target: turnX, Modality: Permitted},
		})

		// When: composing led by the first component and in plain lockstep
		driven, err := Compose([]*Automaton{leader, follower}, Driven{})
		require.NoError(t, err)
		lockstep, err := Compose([]*Automaton{leader, follower}, Lockstep{})
		require.NoError(t, err)

		// Then: only the leader's move survives, lockstep adds the follower's loops
		require.Equal(t, 1, driven.NumTransitions())
		assert.Equal(t, Move(entity.PlayerX, 0), driven.Transitions()[0].Action)
		assert.Equal(t, 3, lockstep.NumTransitions())
	})

	t.Run("Tuples joining into the same state are rejected", func(t *testing.T) {
		// Given: two turn automata starting on opposite turns
		first := New(turnX, nil, []Transition{{Source: turnX, Action: Move(entity.PlayerX, 0), Target: turnO, Modality: Permitted}})
		second := New(turnO, nil, []Transition{{Source: turnO, Action: Move(entity.PlayerX, 0), Target: turnX, Modality: Permitted}})

		// When: composing them
		_, err := Compose([]*Automaton{first, second}, Lockstep{})

		// Then: the swapped tuple cannot be told apart from the initial one
		assert.ErrorIs(t, err, ErrOverlappingComponents)
	})

	t.Run("Nothing to compose", func(t *testing.T) {
		_, err := Compose(nil, Lockstep{})
		assert.ErrorIs(t, err, ErrNothingToCompose)
	})
}
