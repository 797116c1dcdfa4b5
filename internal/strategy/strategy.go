// Package strategy synthesizes non-losing strategies from the plant and plays
// them.
package strategy

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-synthesis/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-synthesis/internal/automaton"
	"github.com/rocketscienceinc/tictactoe-synthesis/internal/entity"
)

// Strategy is a plant restriction guaranteeing Owner at least a tie. It is
// immutable and safe to share between sessions.
type Strategy struct {
	Owner     entity.Mark
	Automaton *automaton.Automaton
}

func New(owner entity.Mark, aut *automaton.Automaton) *Strategy {
	return &Strategy{Owner: owner, Automaton: aut}
}

// Knows reports whether the configuration is one the strategy can be in.
func (that *Strategy) Knows(state entity.BoardState) bool {
	return that.Automaton.HasState(automaton.StateOf(state))
}

// Succeeded reports whether the configuration carries the success marker.
func (that *Strategy) Succeeded(state entity.BoardState) bool {
	for _, t := range that.Automaton.ForwardStar(automaton.StateOf(state)) {
		if t.Action.IsSuccess() {
			return true
		}
	}
	return false
}

// Validate checks that aut can be owner's strategy: it starts on the empty
// board with X to move, accepts the Success state, has a first transition and
// marks owner moves permitted and opponent moves urgent. Failures wrap
// apperror.ErrCorruptStrategy.
func Validate(owner entity.Mark, aut *automaton.Automaton) error {
	if !owner.IsPlayer() {
		return fmt.Errorf("%w: %q", entity.ErrInvalidMark, owner)
	}

	if aut.Initial() != automaton.StateOf(entity.NewBoardState()) {
		return fmt.Errorf("%w: initial state %s is not the empty board", apperror.ErrCorruptStrategy, aut.Initial())
	}

	if !aut.IsAccepting(automaton.SuccessState()) {
		return fmt.Errorf("%w: success state is not accepting", apperror.ErrCorruptStrategy)
	}

	if len(aut.ForwardStar(aut.Initial())) == 0 {
		return fmt.Errorf("%w: no move from the initial state", apperror.ErrCorruptStrategy)
	}

	for _, t := range aut.Transitions() {
		if t.Action.IsMove() && t.IsUrgent() == (t.Action.Mark == owner) {
			return fmt.Errorf("%w: %s does not belong to the %s strategy", apperror.ErrCorruptStrategy, t, owner)
		}
	}

	return nil
}
