package automaton

import (
	"fmt"
	"math/bits"
	"strings"

	"github.com/rocketscienceinc/tictactoe-synthesis/internal/entity"
)

// Fact is one structural statement about a configuration, e.g. "cell 4 holds X".
type Fact uint8

const (
	factsPerCell = 3

	turnXFact   Fact = entity.BoardSize * factsPerCell
	turnOFact   Fact = turnXFact + 1
	FailFact    Fact = turnXFact + 2
	SuccessFact Fact = turnXFact + 3

	factCount = int(SuccessFact) + 1
)

// CellFact - the fact that cell holds mark; EmptyCell means the cell is free.
func CellFact(cell int, mark entity.Mark) Fact {
	offset := 0
	switch mark {
	case entity.PlayerX:
		offset = 1
	case entity.PlayerO:
		offset = 2
	}
	return Fact(cell*factsPerCell + offset)
}

func TurnFact(mark entity.Mark) Fact {
	if mark == entity.PlayerO {
		return turnOFact
	}
	return turnXFact
}

func (that Fact) String() string {
	switch {
	case that == turnXFact:
		return "TurnX"
	case that == turnOFact:
		return "TurnO"
	case that == FailFact:
		return "Fail"
	case that == SuccessFact:
		return "Success"
	case int(that) < int(turnXFact):
		cell := int(that) / factsPerCell
		switch int(that) % factsPerCell {
		case 1:
			return fmt.Sprintf("X_%d", cell)
		case 2:
			return fmt.Sprintf("O_%d", cell)
		default:
			return fmt.Sprintf("_%d", cell)
		}
	default:
		return fmt.Sprintf("Fact(%d)", uint8(that))
	}
}

// State is identified by its set of facts. Two states with the same content
// compare and hash equal no matter which automaton produced them; a product
// state is the union of its components.
type State struct {
	facts uint64
}

func NewState(facts ...Fact) State {
	var s State
	for _, f := range facts {
		s.facts |= 1 << f
	}
	return s
}

// StateOf - the canonical encoding of a configuration: one fact per cell plus the turn.
func StateOf(state entity.BoardState) State {
	facts := make([]Fact, 0, entity.BoardSize+1)
	for cell, mark := range state.Board {
		facts = append(facts, CellFact(cell, mark))
	}
	facts = append(facts, TurnFact(state.Turn))
	return NewState(facts...)
}

// SuccessState is the unique accepting state of a strategy.
func SuccessState() State {
	return NewState(SuccessFact)
}

func FailState() State {
	return NewState(FailFact)
}

func (that State) Has(f Fact) bool {
	return that.facts&(1<<f) != 0
}

func (that State) Union(other State) State {
	return State{facts: that.facts | other.facts}
}

func (that State) IsZero() bool {
	return that.facts == 0
}

func (that State) IsFail() bool {
	return that.Has(FailFact)
}

func (that State) IsSuccess() bool {
	return that.Has(SuccessFact)
}

// Facts lists the facts in ascending order.
func (that State) Facts() []Fact {
	facts := make([]Fact, 0, bits.OnesCount64(that.facts))
	for f := 0; f < factCount; f++ {
		if that.Has(Fact(f)) {
			facts = append(facts, Fact(f))
		}
	}
	return facts
}

// Board reads the cell facts back. A cell carrying both marks reports the
// first one found; Consistent tells whether that happened.
func (that State) Board() entity.Board {
	var board entity.Board
	for cell := 0; cell < entity.BoardSize; cell++ {
		switch {
		case that.Has(CellFact(cell, entity.PlayerX)):
			board[cell] = entity.PlayerX
		case that.Has(CellFact(cell, entity.PlayerO)):
			board[cell] = entity.PlayerO
		}
	}
	return board
}

// Turn - the mark to move, or EmptyCell when the state carries no turn fact.
func (that State) Turn() entity.Mark {
	switch {
	case that.Has(turnXFact):
		return entity.PlayerX
	case that.Has(turnOFact):
		return entity.PlayerO
	default:
		return entity.EmptyCell
	}
}

func (that State) BoardState() entity.BoardState {
	return entity.BoardState{Board: that.Board(), Turn: that.Turn()}
}

// Consistent reports whether every cell holds at most one value and at most one
// turn is recorded.
func (that State) Consistent() bool {
	for cell := 0; cell < entity.BoardSize; cell++ {
		values := 0
		for _, mark := range []entity.Mark{entity.EmptyCell, entity.PlayerX, entity.PlayerO} {
			if that.Has(CellFact(cell, mark)) {
				values++
			}
		}
		if values > 1 {
			return false
		}
	}
	return !(that.Has(turnXFact) && that.Has(turnOFact))
}

func (that State) Less(other State) bool {
	return that.facts < other.facts
}

func (that State) String() string {
	facts := that.Facts()
	names := make([]string, len(facts))
	for i, f := range facts {
		names[i] = f.String()
	}
	return "[" + strings.Join(names, ", ") + "]"
}
