package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-synthesis/internal/entity"
	"github.com/rocketscienceinc/tictactoe-synthesis/internal/strategy"
)

var ErrNoAvailableMoves = errors.New("no available moves")

// OpponentService plays mark's next move in game. AcceptTurn plays the
// human's move in cell once the opponent agrees it is legal.
type OpponentService interface {
	MakeTurn(ctx context.Context, game *entity.Game, mark entity.Mark) error
	AcceptTurn(ctx context.Context, game *entity.Game, cell int) error
}

type randomOpponent struct {
	rnd strategy.Random
}

// NewRandomOpponent picks uniformly among the free cells.
func NewRandomOpponent(rnd strategy.Random) OpponentService {
	return &randomOpponent{
		rnd: rnd,
	}
}

func (that *randomOpponent) MakeTurn(_ context.Context, game *entity.Game, mark entity.Mark) error {
	availableCells := game.Board.AvailableCells()
	if len(availableCells) == 0 {
		return ErrNoAvailableMoves
	}

	chosenCell := availableCells[that.rnd.IntN(len(availableCells))]

	if err := game.MakeTurn(mark, chosenCell); err != nil {
		return fmt.Errorf("random opponent failed to make turn: %w", err)
	}

	return nil
}

func (that *randomOpponent) AcceptTurn(_ context.Context, game *entity.Game, cell int) error {
	return game.MakeTurn(game.Human, cell)
}

type strategyStore interface {
	Get(ctx context.Context, owner entity.Mark) (*strategy.Strategy, error)
}

type guidedOpponent struct {
	store    strategyStore
	executor *strategy.Executor
}

// NewGuidedOpponent follows the synthesized strategy of the mark it plays.
func NewGuidedOpponent(store strategyStore, executor *strategy.Executor) OpponentService {
	return &guidedOpponent{
		store:    store,
		executor: executor,
	}
}

func (that *guidedOpponent) MakeTurn(ctx context.Context, game *entity.Game, mark entity.Mark) error {
	strat, err := that.store.Get(ctx, mark)
	if err != nil {
		return fmt.Errorf("failed to get strategy: %w", err)
	}

	cell, err := that.executor.NextMove(strat, game.State())
	if err != nil {
		return fmt.Errorf("failed to pick move: %w", err)
	}

	if err = game.MakeTurn(mark, cell); err != nil {
		return fmt.Errorf("guided opponent failed to make turn: %w", err)
	}

	return nil
}

// AcceptTurn matches the human move against the opponent's strategy before
// playing it. A configuration the strategy does not know means the artifact
// and the game disagree and is returned as strategy.ErrUnknownConfiguration.
func (that *guidedOpponent) AcceptTurn(ctx context.Context, game *entity.Game, cell int) error {
	strat, err := that.store.Get(ctx, game.Opponent)
	if err != nil {
		return fmt.Errorf("failed to get strategy: %w", err)
	}

	next, err := that.executor.MatchMove(strat, game.State(), cell)
	if err != nil {
		return fmt.Errorf("failed to match move: %w", err)
	}

	if err = game.MakeTurn(game.Human, cell); err != nil {
		return fmt.Errorf("failed to play matched move: %w", err)
	}

	if game.State() != next {
		return fmt.Errorf("%w: strategy expected %s", strategy.ErrUnknownConfiguration, next.Board.String())
	}

	return nil
}
