// Package automaton holds the immutable automaton values every synthesis stage
// consumes and produces, the synchronized composition of automata and the
// artifact codec.
package automaton

import (
	"slices"
)

// Automaton is an immutable finite automaton with modal transitions.
// Every operation returns a new value; accessors hand out copies.
type Automaton struct {
	initial     State
	states      []State
	accepting   map[State]bool
	transitions []Transition
	forward     map[State][]Transition
	backward    map[State][]Transition
	alphabet    []Action
}

// New builds an automaton over the given transitions. Duplicate transitions are
// merged; states are the initial state plus every source and target. Accepting
// states that do not occur in the automaton are ignored.
func New(initial State, accepting []State, transitions []Transition) *Automaton {
	seen := make(map[Transition]struct{}, len(transitions))
	ts := make([]Transition, 0, len(transitions))
	for _, t := range transitions {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		ts = append(ts, t)
	}
	slices.SortFunc(ts, compareTransitions)

	aut := &Automaton{
		initial:     initial,
		accepting:   make(map[State]bool),
		transitions: ts,
		forward:     make(map[State][]Transition),
		backward:    make(map[State][]Transition),
	}

	states := map[State]struct{}{initial: {}}
	actions := make(map[Action]struct{})
	for i, t := range ts {
		states[t.Source] = struct{}{}
		states[t.Target] = struct{}{}
		actions[t.Action] = struct{}{}
		aut.backward[t.Target] = append(aut.backward[t.Target], t)

		// ts is sorted by source, so the forward star is a contiguous run
		if i == 0 || ts[i-1].Source != t.Source {
			j := i
			for j < len(ts) && ts[j].Source == t.Source {
				j++
			}
			aut.forward[t.Source] = ts[i:j:j]
		}
	}

	aut.states = make([]State, 0, len(states))
	for s := range states {
		aut.states = append(aut.states, s)
	}
	slices.SortFunc(aut.states, compareStates)

	for _, s := range accepting {
		if _, ok := states[s]; ok {
			aut.accepting[s] = true
		}
	}

	aut.alphabet = make([]Action, 0, len(actions))
	for a := range actions {
		aut.alphabet = append(aut.alphabet, a)
	}
	slices.SortFunc(aut.alphabet, compareActions)

	return aut
}

func (that *Automaton) Initial() State {
	return that.initial
}

func (that *Automaton) States() []State {
	return slices.Clone(that.states)
}

func (that *Automaton) NumStates() int {
	return len(that.states)
}

func (that *Automaton) HasState(s State) bool {
	_, found := slices.BinarySearchFunc(that.states, s, compareStates)
	return found
}

func (that *Automaton) Transitions() []Transition {
	return slices.Clone(that.transitions)
}

func (that *Automaton) NumTransitions() int {
	return len(that.transitions)
}

func (that *Automaton) IsAccepting(s State) bool {
	return that.accepting[s]
}

func (that *Automaton) Accepting() []State {
	states := make([]State, 0, len(that.accepting))
	for s := range that.accepting {
		states = append(states, s)
	}
	slices.SortFunc(states, compareStates)
	return states
}

// ForwardStar - the outgoing transitions of s.
func (that *Automaton) ForwardStar(s State) []Transition {
	return slices.Clone(that.forward[s])
}

// BackwardStar - the incoming transitions of s.
func (that *Automaton) BackwardStar(s State) []Transition {
	return slices.Clone(that.backward[s])
}

// Alphabet - the actions labelling at least one transition.
func (that *Automaton) Alphabet() []Action {
	return slices.Clone(that.alphabet)
}

func (that *Automaton) HasAction(a Action) bool {
	_, found := slices.BinarySearchFunc(that.alphabet, a, compareActions)
	return found
}

// Reachable - the states reachable from the initial state.
func (that *Automaton) Reachable() map[State]bool {
	return reachable(that.initial, func(s State) []Transition { return that.forward[s] })
}

// Restrict keeps the transitions satisfying keep and drops whatever is no longer
// reachable from the initial state.
func (that *Automaton) Restrict(keep func(Transition) bool) *Automaton {
	kept := make(map[State][]Transition, len(that.forward))
	for _, t := range that.transitions {
		if keep(t) {
			kept[t.Source] = append(kept[t.Source], t)
		}
	}

	live := reachable(that.initial, func(s State) []Transition { return kept[s] })

	ts := make([]Transition, 0, len(that.transitions))
	for s := range live {
		ts = append(ts, kept[s]...)
	}

	accepting := make([]State, 0, len(that.accepting))
	for s := range that.accepting {
		if live[s] {
			accepting = append(accepting, s)
		}
	}

	return New(that.initial, accepting, ts)
}

// Relabel maps every transition through fn and recomputes the accepting set
// with accept. Transitions fn maps to the zero value are dropped.
func (that *Automaton) Relabel(fn func(Transition) Transition, accept func(State) bool) *Automaton {
	ts := make([]Transition, 0, len(that.transitions))
	for _, t := range that.transitions {
		if mapped := fn(t); mapped != (Transition{}) {
			ts = append(ts, mapped)
		}
	}

	var accepting []State
	for _, s := range that.states {
		if accept(s) {
			accepting = append(accepting, s)
		}
	}

	return New(that.initial, accepting, ts)
}

// Equal compares initial state, accepting set and transition set.
func (that *Automaton) Equal(other *Automaton) bool {
	if that == nil || other == nil {
		return that == other
	}

	return that.initial == other.initial &&
		slices.Equal(that.states, other.states) &&
		slices.Equal(that.Accepting(), other.Accepting()) &&
		slices.Equal(that.transitions, other.transitions)
}

func reachable(from State, next func(State) []Transition) map[State]bool {
	visited := map[State]bool{from: true}
	queue := []State{from}
	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]
		for _, t := range next(s) {
			if !visited[t.Target] {
				visited[t.Target] = true
				queue = append(queue, t.Target)
			}
		}
	}
	return visited
}

func compareStates(a, b State) int {
	switch {
	case a.Less(b):
		return -1
	case b.Less(a):
		return 1
	default:
		return 0
	}
}

func compareActions(a, b Action) int {
	switch {
	case a.Less(b):
		return -1
	case b.Less(a):
		return 1
	default:
		return 0
	}
}

func compareTransitions(a, b Transition) int {
	switch {
	case a.Less(b):
		return -1
	case b.Less(a):
		return 1
	default:
		return 0
	}
}
