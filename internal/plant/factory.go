// Package plant builds the automaton of every legal tic-tac-toe configuration.
package plant

import (
	"github.com/rocketscienceinc/tictactoe-synthesis/internal/automaton"
	"github.com/rocketscienceinc/tictactoe-synthesis/internal/entity"
)

// CellAutomaton offers either mark in cell once: _i --X_i--> X_i, _i --O_i--> O_i.
// Every state is accepting.
func CellAutomaton(cell int) *automaton.Automaton {
	free := automaton.NewState(automaton.CellFact(cell, entity.EmptyCell))

	var (
		accepting   = []automaton.State{free}
		transitions []automaton.Transition
	)
	for _, mark := range entity.Marks {
		taken := automaton.NewState(automaton.CellFact(cell, mark))
		accepting = append(accepting, taken)
		transitions = append(transitions, automaton.Transition{
			Source:   free,
			Action:   automaton.Move(mark, cell),
			Target:   taken,
			Modality: automaton.Permitted,
		})
	}

	return automaton.New(free, accepting, transitions)
}

// TurnAutomaton alternates the marks: X moves in TurnX, O in TurnO.
func TurnAutomaton() *automaton.Automaton {
	turnX := automaton.NewState(automaton.TurnFact(entity.PlayerX))
	turnO := automaton.NewState(automaton.TurnFact(entity.PlayerO))

	var transitions []automaton.Transition
	for cell := 0; cell < entity.BoardSize; cell++ {
		transitions = append(transitions,
			automaton.Transition{Source: turnX, Action: automaton.Move(entity.PlayerX, cell), Target: turnO, Modality: automaton.Permitted},
			automaton.Transition{Source: turnO, Action: automaton.Move(entity.PlayerO, cell), Target: turnX, Modality: automaton.Permitted},
		)
	}

	return automaton.New(turnX, []automaton.State{turnX, turnO}, transitions)
}

// Components - the nine cell automata followed by the turn automaton.
func Components() []*automaton.Automaton {
	components := make([]*automaton.Automaton, 0, entity.BoardSize+1)
	for cell := 0; cell < entity.BoardSize; cell++ {
		components = append(components, CellAutomaton(cell))
	}
	return append(components, TurnAutomaton())
}
