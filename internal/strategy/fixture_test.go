package strategy

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-synthesis/internal/automaton"
	"github.com/rocketscienceinc/tictactoe-synthesis/internal/entity"
	"github.com/rocketscienceinc/tictactoe-synthesis/internal/plant"
	"github.com/rocketscienceinc/tictactoe-synthesis/internal/synthesis"
)

var (
	fixtureOnce       sync.Once
	fixturePlant      *automaton.Automaton
	fixtureStrategies map[entity.Mark]*Strategy
	fixtureErr        error
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

func newTestSynthesizer() *Synthesizer {
	logger := newTestLogger()
	return NewSynthesizer(logger, synthesis.New(logger, 0, nil))
}

// strategies builds the plant and both strategies once per test binary.
func strategies(t *testing.T) (*automaton.Automaton, map[entity.Mark]*Strategy) {
	t.Helper()

	fixtureOnce.Do(func() {
		ctx := context.Background()
		logger := newTestLogger()

		fixturePlant, fixtureErr = plant.NewBuilder(logger, synthesis.New(logger, 0, nil)).Build(ctx)
		if fixtureErr != nil {
			return
		}
		fixtureStrategies, fixtureErr = newTestSynthesizer().SynthesizeAll(ctx, fixturePlant)
	})
	require.NoError(t, fixtureErr)

	return fixturePlant, fixtureStrategies
}

// play applies the moves in order from the empty board.
func play(t *testing.T, cells ...int) entity.BoardState {
	t.Helper()

	state := entity.NewBoardState()
	for _, cell := range cells {
		var err error
		state, err = state.Play(cell)
		require.NoError(t, err)
	}
	return state
}
