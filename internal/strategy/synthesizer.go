package strategy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/rocketscienceinc/tictactoe-synthesis/internal/automaton"
	"github.com/rocketscienceinc/tictactoe-synthesis/internal/entity"
	"github.com/rocketscienceinc/tictactoe-synthesis/internal/synthesis"
)

var ErrInvalidStrategy = errors.New("strategy has no move from the initial configuration")

type Synthesizer struct {
	logger *slog.Logger
	synth  *synthesis.Synthesizer
}

func NewSynthesizer(logger *slog.Logger, synth *synthesis.Synthesizer) *Synthesizer {
	return &Synthesizer{
		logger: logger.With("component", "strategy"),
		synth:  synth,
	}
}

// Synthesize restricts plant to the moves that keep owner from losing. Owner
// moves become permitted and opponent moves urgent; every owner-win or tie
// configuration gets a permitted success transition to the Success state,
// which is the only accepting state.
func (that *Synthesizer) Synthesize(ctx context.Context, plant *automaton.Automaton, owner entity.Mark) (*Strategy, error) {
	if !owner.IsPlayer() {
		return nil, fmt.Errorf("%w: %q", entity.ErrInvalidMark, owner)
	}

	game := plant.Relabel(func(t automaton.Transition) automaton.Transition {
		if t.Action.IsSuccess() {
			return automaton.Transition{}
		}
		if t.Action.Mark == owner {
			return t.WithModality(automaton.Permitted)
		}
		return t.WithModality(automaton.Urgent)
	}, func(automaton.State) bool { return false })

	transitions := game.Transitions()
	for _, s := range game.States() {
		board := s.BoardState()
		if board.IsWin(owner) || board.IsTie() {
			transitions = append(transitions, automaton.Transition{
				Source:   s,
				Action:   automaton.Success(),
				Target:   automaton.SuccessState(),
				Modality: automaton.Permitted,
			})
		}
	}
	game = automaton.New(game.Initial(), []automaton.State{automaton.SuccessState()}, transitions)

	controller, err := that.synth.Synthesize(ctx, "strategy-"+owner.String(), game)
	if err != nil {
		return nil, fmt.Errorf("%w for %s: %w", ErrInvalidStrategy, owner, err)
	}

	if len(controller.ForwardStar(controller.Initial())) == 0 {
		return nil, fmt.Errorf("%w for %s", ErrInvalidStrategy, owner)
	}

	that.logger.Info("strategy synthesized",
		"owner", owner.String(),
		"states", controller.NumStates(),
		"transitions", controller.NumTransitions())

	return New(owner, controller), nil
}

// SynthesizeAll runs the synthesis for both marks concurrently.
func (that *Synthesizer) SynthesizeAll(ctx context.Context, plant *automaton.Automaton) (map[entity.Mark]*Strategy, error) {
	var (
		mu         sync.Mutex
		strategies = make(map[entity.Mark]*Strategy, len(entity.Marks))
	)

	g, gCtx := errgroup.WithContext(ctx)
	for _, owner := range entity.Marks {
		g.Go(func() error {
			strategy, err := that.Synthesize(gCtx, plant, owner)
			if err != nil {
				return err
			}

			mu.Lock()
			strategies[owner] = strategy
			mu.Unlock()

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return strategies, nil
}
