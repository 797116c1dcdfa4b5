package automaton

import (
	"errors"
	"fmt"
	"slices"
)

var (
	ErrNothingToCompose      = errors.New("no automata to compose")
	ErrOverlappingComponents = errors.New("components share facts")
)

// SyncPolicy decides which components fire an action together. Participants
// returns every admissible set of component indexes; components outside a set
// stay idle for that step.
type SyncPolicy interface {
	Participants(a Action, alphabets []map[Action]bool) [][]int
}

// Lockstep makes every component sharing an action fire it together.
type Lockstep struct{}

func (Lockstep) Participants(a Action, alphabets []map[Action]bool) [][]int {
	var set []int
	for i, alphabet := range alphabets {
		if alphabet[a] {
			set = append(set, i)
		}
	}
	if len(set) == 0 {
		return nil
	}
	return [][]int{set}
}

// Driven is Lockstep led by component 0: an action outside its alphabet is
// never fired, so the product only offers moves component 0 offers.
type Driven struct{}

func (Driven) Participants(a Action, alphabets []map[Action]bool) [][]int {
	if len(alphabets) == 0 || !alphabets[0][a] {
		return nil
	}
	return Lockstep{}.Participants(a, alphabets)
}

// Interleave lets exactly one component move per step.
type Interleave struct{}

func (Interleave) Participants(a Action, alphabets []map[Action]bool) [][]int {
	var sets [][]int
	for i, alphabet := range alphabets {
		if alphabet[a] {
			sets = append(sets, []int{i})
		}
	}
	return sets
}

type composeOptions struct {
	prune func(from, to State) bool
}

type ComposeOption func(*composeOptions)

// WithPrune discards a joint step before its target is materialized when fn
// returns true. Targets only reachable through discarded steps never appear.
func WithPrune(fn func(from, to State) bool) ComposeOption {
	return func(o *composeOptions) {
		o.prune = fn
	}
}

// Compose builds the synchronized product of automata, exploring breadth-first
// from the joint initial state. A joint state is the union of its component
// states; it is accepting when every component is. A joint transition is
// Urgent when any participant's transition is. Nondeterministic results are
// allowed.
//
// Components must contribute disjoint facts, or agree on the ones they share:
// two reachable tuples with the same union fail with ErrOverlappingComponents.
func Compose(automata []*Automaton, policy SyncPolicy, opts ...ComposeOption) (*Automaton, error) {
	if len(automata) == 0 {
		return nil, ErrNothingToCompose
	}

	if policy == nil {
		policy = Lockstep{}
	}

	options := composeOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	alphabets := make([]map[Action]bool, len(automata))
	actionSet := make(map[Action]struct{})
	for i, aut := range automata {
		alphabets[i] = make(map[Action]bool, len(aut.alphabet))
		for _, a := range aut.alphabet {
			alphabets[i][a] = true
			actionSet[a] = struct{}{}
		}
	}

	actions := make([]Action, 0, len(actionSet))
	for a := range actionSet {
		actions = append(actions, a)
	}
	slices.SortFunc(actions, compareActions)

	participants := make(map[Action][][]int, len(actions))
	for _, a := range actions {
		participants[a] = policy.Participants(a, alphabets)
	}

	initialTuple := make([]State, len(automata))
	for i, aut := range automata {
		initialTuple[i] = aut.initial
	}
	initial := join(initialTuple)

	tuples := map[State][]State{initial: initialTuple}
	queue := []State{initial}
	var transitions []Transition

	for len(queue) > 0 {
		source := queue[0]
		queue = queue[1:]
		tuple := tuples[source]

		for _, a := range actions {
			for _, set := range participants[a] {
				for _, step := range jointSteps(automata, tuple, set, a) {
					target := join(step.targets)
					if options.prune != nil && options.prune(source, target) {
						continue
					}

					transitions = append(transitions, Transition{
						Source:   source,
						Action:   a,
						Target:   target,
						Modality: step.modality,
					})

					known, ok := tuples[target]
					if !ok {
						tuples[target] = step.targets
						queue = append(queue, target)
						continue
					}
					if !slices.Equal(known, step.targets) {
						return nil, fmt.Errorf("%w: %v and %v both join into %s", ErrOverlappingComponents, known, step.targets, target)
					}
				}
			}
		}
	}

	var accepting []State
	for joint, tuple := range tuples {
		if allAccepting(automata, tuple) {
			accepting = append(accepting, joint)
		}
	}

	return New(initial, accepting, transitions), nil
}

type jointStep struct {
	targets  []State
	modality Modality
}

// jointSteps enumerates the combinations of the participants' a-transitions
// from their current local states.
func jointSteps(automata []*Automaton, tuple []State, set []int, a Action) []jointStep {
	options := make([][]Transition, len(set))
	for k, i := range set {
		for _, t := range automata[i].forward[tuple[i]] {
			if t.Action == a {
				options[k] = append(options[k], t)
			}
		}
		if len(options[k]) == 0 {
			return nil
		}
	}

	steps := []jointStep{{targets: slices.Clone(tuple), modality: Permitted}}
	for k, i := range set {
		next := make([]jointStep, 0, len(steps)*len(options[k]))
		for _, partial := range steps {
			for _, t := range options[k] {
				targets := slices.Clone(partial.targets)
				targets[i] = t.Target
				modality := partial.modality
				if t.IsUrgent() {
					modality = Urgent
				}
				next = append(next, jointStep{targets: targets, modality: modality})
			}
		}
		steps = next
	}

	return steps
}

func join(tuple []State) State {
	var joint State
	for _, s := range tuple {
		joint = joint.Union(s)
	}
	return joint
}

func allAccepting(automata []*Automaton, tuple []State) bool {
	for i, aut := range automata {
		if !aut.accepting[tuple[i]] {
			return false
		}
	}
	return true
}
