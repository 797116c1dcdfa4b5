package strategy

import (
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-synthesis/internal/automaton"
	"github.com/rocketscienceinc/tictactoe-synthesis/internal/entity"
)

var (
	ErrUnknownConfiguration = errors.New("configuration is not part of the strategy")
	ErrGameOver             = errors.New("game is over")
	ErrIllegalMove          = errors.New("move is not allowed")
	ErrNotOwnersTurn        = errors.New("not the strategy owner's turn")
	ErrNoMoves              = errors.New("strategy offers no move")
)

// Executor walks a finished strategy during play.
type Executor struct {
	policy MovePolicy
	rnd    Random
}

type ExecutorOption func(*Executor)

func WithPolicy(policy MovePolicy) ExecutorOption {
	return func(e *Executor) {
		e.policy = policy
	}
}

// WithRandom fixes the source of move choices. The source must be safe for
// the executor's concurrent use.
func WithRandom(rnd Random) ExecutorOption {
	return func(e *Executor) {
		e.rnd = rnd
	}
}

func NewExecutor(opts ...ExecutorOption) *Executor {
	executor := &Executor{
		policy: PreferWin{},
		rnd:    SharedRandom{},
	}
	for _, opt := range opts {
		opt(executor)
	}
	return executor
}

// NextMove picks the owner's next cell among the moves the strategy keeps.
// An unknown configuration means the strategy and the game disagree and play
// cannot continue.
func (that *Executor) NextMove(strategy *Strategy, state entity.BoardState) (int, error) {
	if state.IsTerminal() {
		return 0, ErrGameOver
	}

	current := automaton.StateOf(state)
	if !strategy.Automaton.HasState(current) {
		return 0, fmt.Errorf("%w: %s", ErrUnknownConfiguration, current)
	}

	if strategy.Succeeded(state) {
		return 0, ErrGameOver
	}

	if state.Turn != strategy.Owner {
		return 0, fmt.Errorf("%w: %s to move", ErrNotOwnersTurn, state.Turn)
	}

	var cells []int
	for _, t := range strategy.Automaton.ForwardStar(current) {
		if t.Action.IsMove() && t.Action.Mark == strategy.Owner {
			cells = append(cells, t.Action.Cell)
		}
	}
	if len(cells) == 0 {
		return 0, fmt.Errorf("%w: %s", ErrNoMoves, current)
	}

	return that.policy.Choose(state, cells, that.rnd), nil
}

// MatchMove accepts the move of whoever is to play in cell and returns the
// resulting configuration. A move the strategy does not offer is rejected with
// ErrIllegalMove and the caller may ask again.
func (that *Executor) MatchMove(strategy *Strategy, state entity.BoardState, cell int) (entity.BoardState, error) {
	if !entity.ValidCell(cell) {
		return state, fmt.Errorf("%w: cell %d", ErrIllegalMove, cell)
	}

	if state.IsTerminal() {
		return state, ErrGameOver
	}

	current := automaton.StateOf(state)
	if !strategy.Automaton.HasState(current) {
		return state, fmt.Errorf("%w: %s", ErrUnknownConfiguration, current)
	}

	for _, t := range strategy.Automaton.ForwardStar(current) {
		if t.Action.IsMove() && t.Action.Mark == state.Turn && t.Action.Cell == cell {
			return t.Target.BoardState(), nil
		}
	}

	return state, fmt.Errorf("%w: cell %d", ErrIllegalMove, cell)
}
