package service

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync/atomic"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/rocketscienceinc/tictactoe-synthesis/internal/entity"
)

// Tally counts the outcomes of simulated games.
type Tally struct {
	Games      int
	GuidedWins int
	RandomWins int
	Ties       int
}

func (that Tally) String() string {
	return fmt.Sprintf("games=%d guided=%d random=%d ties=%d", that.Games, that.GuidedWins, that.RandomWins, that.Ties)
}

type SimulationService struct {
	logger  *slog.Logger
	guided  OpponentService
	random  OpponentService
	workers int
}

func NewSimulationService(logger *slog.Logger, guided, random OpponentService) *SimulationService {
	return &SimulationService{
		logger:  logger.With("component", "simulation"),
		guided:  guided,
		random:  random,
		workers: runtime.GOMAXPROCS(0),
	}
}

// Simulate plays games between the guided side, holding guidedMark, and the
// random side. Games run concurrently; the first failure stops the rest.
func (that *SimulationService) Simulate(ctx context.Context, games int, guidedMark entity.Mark) (Tally, error) {
	var guidedWins, randomWins, ties atomic.Int64

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(that.workers)

	for range games {
		g.Go(func() error {
			game, err := that.play(gCtx, guidedMark)
			if err != nil {
				return err
			}

			switch game.Winner {
			case guidedMark:
				guidedWins.Add(1)
			case entity.PlayerTie:
				ties.Add(1)
			default:
				randomWins.Add(1)
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Tally{}, fmt.Errorf("simulation failed: %w", err)
	}

	tally := Tally{
		Games:      games,
		GuidedWins: int(guidedWins.Load()),
		RandomWins: int(randomWins.Load()),
		Ties:       int(ties.Load()),
	}
	that.logger.Info("simulation completed", "guided", guidedMark.String(), "tally", tally.String())

	return tally, nil
}

func (that *SimulationService) play(ctx context.Context, guidedMark entity.Mark) (*entity.Game, error) {
	// the random side takes the "human" seat
	game := entity.NewGame(uuid.NewString(), entity.GuidedType, guidedMark != entity.PlayerX)
	game.Status = entity.StatusOngoing

	for !game.IsFinished() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		player, mark := that.random, game.Human
		if game.Turn == game.Opponent {
			player, mark = that.guided, game.Opponent
		}

		if err := player.MakeTurn(ctx, game, mark); err != nil {
			return nil, fmt.Errorf("game %s: %w", game.ID, err)
		}
	}

	return game, nil
}
