package plant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-synthesis/internal/automaton"
	"github.com/rocketscienceinc/tictactoe-synthesis/internal/synthesis"
)

var ErrNoLegalPlay = errors.New("plant has no legal play")

type Builder struct {
	logger *slog.Logger
	synth  *synthesis.Synthesizer
}

func NewBuilder(logger *slog.Logger, synth *synthesis.Synthesizer) *Builder {
	return &Builder{
		logger: logger.With("component", "plant"),
		synth:  synth,
	}
}

// Build composes the cell and turn automata and folds every constraint over
// the product, in order.
func (that *Builder) Build(ctx context.Context) (*automaton.Automaton, error) {
	plant, err := Compose()
	if err != nil {
		return nil, err
	}

	that.logger.Info("components composed", "states", plant.NumStates(), "transitions", plant.NumTransitions())

	for _, constraint := range Constraints() {
		plant, err = that.Apply(ctx, plant, constraint)
		if err != nil {
			return nil, err
		}
	}

	that.logger.Info("plant built", "states", plant.NumStates(), "transitions", plant.NumTransitions())

	return plant, nil
}

// Apply runs one step of the fold: restrict plant to the constraint with
// every move controllable, then strip moves out of finished games.
func (that *Builder) Apply(ctx context.Context, plant *automaton.Automaton, constraint Constraint) (*automaton.Automaton, error) {
	restricted, err := that.synth.RestrictToProperty(ctx, constraint.Name, plant, constraint.Property, allControllable)
	if err != nil {
		if errors.Is(err, synthesis.ErrEmptyController) {
			return nil, fmt.Errorf("%w: constraint %s: %w", ErrNoLegalPlay, constraint.Name, err)
		}
		return nil, fmt.Errorf("failed to apply constraint %s: %w", constraint.Name, err)
	}

	return StripTerminal(restricted), nil
}

// Compose - the lockstep product of Components. Steps out of a finished game
// are never explored.
func Compose() (*automaton.Automaton, error) {
	product, err := automaton.Compose(Components(), automaton.Lockstep{}, automaton.WithPrune(func(from, _ automaton.State) bool {
		return from.BoardState().IsTerminal()
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to compose plant: %w", err)
	}

	return product, nil
}

// StripTerminal removes the outgoing transitions of won or tied configurations.
func StripTerminal(aut *automaton.Automaton) *automaton.Automaton {
	return aut.Restrict(func(t automaton.Transition) bool {
		return !t.Source.BoardState().IsTerminal()
	})
}

func allControllable(automaton.Action) bool {
	return true
}
