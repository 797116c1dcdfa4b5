package automaton

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-synthesis/internal/entity"
)

type ActionKind uint8

const (
	MoveAction ActionKind = iota + 1
	SuccessAction
)

// Action is a structured transition label: a move (mark, cell) or the
// synthetic "success" marker.
type Action struct {
	Kind ActionKind
	Mark entity.Mark
	Cell int
}

func Move(mark entity.Mark, cell int) Action {
	return Action{Kind: MoveAction, Mark: mark, Cell: cell}
}

func Success() Action {
	return Action{Kind: SuccessAction, Cell: -1}
}

// Moves - all 18 move actions, X moves first.
func Moves() []Action {
	actions := make([]Action, 0, 2*entity.BoardSize)
	for _, mark := range entity.Marks {
		actions = append(actions, MovesOf(mark)...)
	}
	return actions
}

func MovesOf(mark entity.Mark) []Action {
	actions := make([]Action, 0, entity.BoardSize)
	for cell := 0; cell < entity.BoardSize; cell++ {
		actions = append(actions, Move(mark, cell))
	}
	return actions
}

func (that Action) IsMove() bool {
	return that.Kind == MoveAction
}

func (that Action) IsSuccess() bool {
	return that.Kind == SuccessAction
}

func (that Action) Less(other Action) bool {
	if that.Kind != other.Kind {
		return that.Kind < other.Kind
	}
	if that.Mark != other.Mark {
		return that.Mark < other.Mark
	}
	return that.Cell < other.Cell
}

func (that Action) String() string {
	switch that.Kind {
	case MoveAction:
		return fmt.Sprintf("%s_%d", that.Mark, that.Cell)
	case SuccessAction:
		return "success"
	default:
		return "unknown"
	}
}
