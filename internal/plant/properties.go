package plant

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-synthesis/internal/automaton"
	"github.com/rocketscienceinc/tictactoe-synthesis/internal/entity"
)

// Constraint is one step of the plant fold: a safety property whose Fail
// state must never be reached.
type Constraint struct {
	Name     string
	Property *automaton.Automaton
}

// Constraints - turn alternation first, then write-once for cells 0 to 8.
func Constraints() []Constraint {
	constraints := []Constraint{{Name: "turn", Property: TurnProperty()}}
	for cell := 0; cell < entity.BoardSize; cell++ {
		constraints = append(constraints, Constraint{
			Name:     fmt.Sprintf("cell-%d", cell),
			Property: CellProperty(cell),
		})
	}
	return constraints
}

// TurnProperty fails as soon as a mark moves out of turn.
func TurnProperty() *automaton.Automaton {
	fail := automaton.FailState()
	turns := map[entity.Mark]automaton.State{
		entity.PlayerX: automaton.NewState(automaton.TurnFact(entity.PlayerX)),
		entity.PlayerO: automaton.NewState(automaton.TurnFact(entity.PlayerO)),
	}

	var transitions []automaton.Transition
	for _, mark := range entity.Marks {
		for _, a := range automaton.Moves() {
			target := fail
			if a.Mark == mark {
				target = turns[mark.Opponent()]
			}
			transitions = append(transitions, automaton.Transition{
				Source:   turns[mark],
				Action:   a,
				Target:   target,
				Modality: automaton.Permitted,
			})
		}
	}

	return automaton.New(turns[entity.PlayerX], []automaton.State{turns[entity.PlayerX], turns[entity.PlayerO]}, transitions)
}

// CellProperty fails when an occupied cell is written again. Moves on other
// cells loop on every non-failing state.
func CellProperty(cell int) *automaton.Automaton {
	fail := automaton.FailState()
	free := automaton.NewState(automaton.CellFact(cell, entity.EmptyCell))
	values := []automaton.State{free}

	var transitions []automaton.Transition
	for _, mark := range entity.Marks {
		taken := automaton.NewState(automaton.CellFact(cell, mark))
		values = append(values, taken)
		transitions = append(transitions, automaton.Transition{
			Source:   free,
			Action:   automaton.Move(mark, cell),
			Target:   taken,
			Modality: automaton.Permitted,
		})
	}

	for _, value := range values {
		for _, a := range automaton.Moves() {
			switch {
			case a.Cell != cell:
				transitions = append(transitions, automaton.Transition{Source: value, Action: a, Target: value, Modality: automaton.Permitted})
			case value != free:
				transitions = append(transitions, automaton.Transition{Source: value, Action: a, Target: fail, Modality: automaton.Permitted})
			}
		}
	}

	return automaton.New(free, values, transitions)
}
