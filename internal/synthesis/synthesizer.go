// Package synthesis computes most permissive controllers: the largest
// sub-automaton from which accepting states stay reachable whatever the
// uncontrollable (urgent) transitions do.
package synthesis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rocketscienceinc/tictactoe-synthesis/internal/automaton"
)

var ErrEmptyController = errors.New("initial state cannot be controlled")

type Synthesizer struct {
	logger  *slog.Logger
	workers int
	metrics *Metrics
}

// New - workers bounds the goroutines evaluating one fixpoint pass; zero means GOMAXPROCS.
func New(logger *slog.Logger, workers int, metrics *Metrics) *Synthesizer {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	return &Synthesizer{
		logger:  logger.With("component", "synthesis"),
		workers: workers,
		metrics: metrics,
	}
}

// Synthesize returns the most permissive controller of aut.
//
// A state is bad when it carries the Fail fact, when it cannot reach an
// accepting state through good states, or when one of its urgent transitions
// leads to a bad state. Bad states are accumulated until nothing changes; the
// result keeps the transitions between good states that stay reachable.
// Urgent transitions of a kept state are therefore never removed.
func (that *Synthesizer) Synthesize(ctx context.Context, stage string, aut *automaton.Automaton) (*automaton.Automaton, error) {
	log := that.logger.With("stage", stage)
	start := time.Now()

	states := aut.States()
	bad := make(map[automaton.State]bool)
	for _, s := range states {
		if s.IsFail() {
			bad[s] = true
		}
	}

	passes := 0
	for {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("synthesis %s interrupted: %w", stage, err)
		}
		passes++

		live := coreachable(aut, bad)

		newlyBad, err := that.evaluate(ctx, aut, states, bad, live)
		if err != nil {
			return nil, fmt.Errorf("synthesis %s pass %d: %w", stage, passes, err)
		}

		if len(newlyBad) == 0 {
			break
		}

		for _, s := range newlyBad {
			bad[s] = true
		}

		log.Debug("fixpoint pass", "pass", passes, "bad", len(newlyBad))
	}

	if bad[aut.Initial()] {
		return nil, fmt.Errorf("synthesis %s: %w", stage, ErrEmptyController)
	}

	result := aut.Restrict(func(t automaton.Transition) bool {
		return !bad[t.Source] && !bad[t.Target]
	})

	elapsed := time.Since(start)
	that.metrics.observe(stage, passes, len(bad), result.NumStates(), elapsed)

	log.Info("synthesis completed",
		"passes", passes,
		"bad", len(bad),
		"states", result.NumStates(),
		"transitions", result.NumTransitions(),
		"elapsed", elapsed)

	return result, nil
}

// RestrictToProperty composes plant with property in lockstep led by the
// plant, turns the transitions whose action is not controllable urgent and
// synthesizes the controller. Property states carrying the Fail fact are the
// violations to avoid. Property moves the plant does not offer never fire, so
// the result only removes plant behaviour.
func (that *Synthesizer) RestrictToProperty(
	ctx context.Context,
	stage string,
	plant, property *automaton.Automaton,
	controllable func(automaton.Action) bool,
) (*automaton.Automaton, error) {
	product, err := automaton.Compose([]*automaton.Automaton{plant, property}, automaton.Driven{})
	if err != nil {
		return nil, fmt.Errorf("failed to compose %s: %w", stage, err)
	}

	relabeled := product.Relabel(func(t automaton.Transition) automaton.Transition {
		if !controllable(t.Action) {
			return t.WithModality(automaton.Urgent)
		}
		return t
	}, product.IsAccepting)

	return that.Synthesize(ctx, stage, relabeled)
}

// evaluate partitions the good states over the workers. Each worker reads the
// previous pass's bad and live sets only and reports the states turning bad.
func (that *Synthesizer) evaluate(
	ctx context.Context,
	aut *automaton.Automaton,
	states []automaton.State,
	bad, live map[automaton.State]bool,
) ([]automaton.State, error) {
	chunk := (len(states) + that.workers - 1) / that.workers
	if chunk == 0 {
		return nil, nil
	}

	results := make([][]automaton.State, that.workers)

	g, gCtx := errgroup.WithContext(ctx)
	for w := 0; w < that.workers; w++ {
		from := w * chunk
		if from >= len(states) {
			break
		}
		to := min(from+chunk, len(states))

		g.Go(func() error {
			for _, s := range states[from:to] {
				if err := gCtx.Err(); err != nil {
					return err
				}
				if bad[s] {
					continue
				}
				if !live[s] || hasBadUrgentSuccessor(aut, s, bad) {
					results[w] = append(results[w], s)
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var merged []automaton.State
	for _, r := range results {
		merged = append(merged, r...)
	}
	return merged, nil
}

func hasBadUrgentSuccessor(aut *automaton.Automaton, s automaton.State, bad map[automaton.State]bool) bool {
	for _, t := range aut.ForwardStar(s) {
		if t.IsUrgent() && bad[t.Target] {
			return true
		}
	}
	return false
}

// coreachable - good states from which a good accepting state can be reached
// through good states only.
func coreachable(aut *automaton.Automaton, bad map[automaton.State]bool) map[automaton.State]bool {
	live := make(map[automaton.State]bool)
	var queue []automaton.State
	for _, s := range aut.Accepting() {
		if !bad[s] {
			live[s] = true
			queue = append(queue, s)
		}
	}

	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]
		for _, t := range aut.BackwardStar(s) {
			if bad[t.Source] || live[t.Source] {
				continue
			}
			live[t.Source] = true
			queue = append(queue, t.Source)
		}
	}

	return live
}
