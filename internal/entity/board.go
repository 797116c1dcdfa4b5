package entity

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rocketscienceinc/tictactoe-synthesis/internal/apperror"
)

type Mark string

const (
	PlayerX   Mark = "X"
	PlayerO   Mark = "O"
	PlayerTie Mark = "-"

	EmptyCell Mark = ""
)

const BoardSize = 9

var (
	ErrInvalidCell = errors.New("invalid cell index")
	ErrInvalidMark = errors.New("invalid mark")

	Marks = [2]Mark{PlayerX, PlayerO}

	WinCombos = [][3]int{
		{0, 1, 2},
		{3, 4, 5},
		{6, 7, 8},
		{0, 3, 6},
		{1, 4, 7},
		{2, 5, 8},
		{0, 4, 8},
		{2, 4, 6},
	}
)

// ParseMark accepts "X" or "O", case-insensitive.
func ParseMark(s string) (Mark, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case string(PlayerX):
		return PlayerX, nil
	case string(PlayerO):
		return PlayerO, nil
	default:
		return EmptyCell, fmt.Errorf("%w: %q", ErrInvalidMark, s)
	}
}

func (that Mark) IsPlayer() bool {
	return that == PlayerX || that == PlayerO
}

// Opponent - returns the other player's mark.
func (that Mark) Opponent() Mark {
	if that == PlayerX {
		return PlayerO
	}
	return PlayerX
}

func (that Mark) String() string {
	if that == EmptyCell {
		return "_"
	}
	return string(that)
}

// Board holds the 9 cells in row-major order.
type Board [BoardSize]Mark

func ValidCell(cell int) bool {
	return cell >= 0 && cell < BoardSize
}

func (that Board) IsAvailable(cell int) bool {
	return ValidCell(cell) && that[cell] == EmptyCell
}

func (that Board) AvailableCells() []int {
	cells := make([]int, 0, BoardSize)
	for i, cell := range that {
		if cell == EmptyCell {
			cells = append(cells, i)
		}
	}
	return cells
}

func (that Board) Count(mark Mark) int {
	count := 0
	for _, cell := range that {
		if cell == mark {
			count++
		}
	}
	return count
}

// NextMark - X moves whenever both marks have been placed the same number of times.
func (that Board) NextMark() Mark {
	if that.Count(PlayerX) > that.Count(PlayerO) {
		return PlayerO
	}
	return PlayerX
}

func (that Board) IsWin(mark Mark) bool {
	for _, combo := range WinCombos {
		if that[combo[0]] == mark && that[combo[1]] == mark && that[combo[2]] == mark {
			return true
		}
	}
	return false
}

func (that Board) IsFull() bool {
	for _, cell := range that {
		if cell == EmptyCell {
			return false
		}
	}
	return true
}

// IsTie - a full board nobody won.
func (that Board) IsTie() bool {
	return that.IsFull() && !that.IsWin(PlayerX) && !that.IsWin(PlayerO)
}

func (that Board) IsTerminal() bool {
	return that.IsWin(PlayerX) || that.IsWin(PlayerO) || that.IsFull()
}

// Winner - returns the winning mark, PlayerTie on a draw, or EmptyCell while the game continues.
func (that Board) Winner() Mark {
	for _, combo := range WinCombos {
		a, b, c := that[combo[0]], that[combo[1]], that[combo[2]]
		if a != EmptyCell && a == b && b == c {
			return a
		}
	}

	// the game will continue until all the squares are full
	if !that.IsFull() {
		return EmptyCell
	}

	return PlayerTie
}

// Threats - cells that would complete a line for mark on its next move.
func (that Board) Threats(mark Mark) []int {
	var cells []int
	seen := make(map[int]bool)
	for _, combo := range WinCombos {
		owned, free := 0, -1
		for _, cell := range combo {
			switch that[cell] {
			case mark:
				owned++
			case EmptyCell:
				free = cell
			}
		}
		if owned == 2 && free >= 0 && !seen[free] {
			seen[free] = true
			cells = append(cells, free)
		}
	}
	return cells
}

// String renders the board as three rows.
func (that Board) String() string {
	var sb strings.Builder
	for row := 0; row < 3; row++ {
		sb.WriteString("[")
		for col := 0; col < 3; col++ {
			if col > 0 {
				sb.WriteString(", ")
			}
			cell := that[row*3+col]
			if cell == EmptyCell {
				sb.WriteString(" ")
			} else {
				sb.WriteString(string(cell))
			}
		}
		sb.WriteString("]")
		if row < 2 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// BoardState is a configuration: complete board contents plus whose turn it is.
type BoardState struct {
	Board Board `json:"board"`
	Turn  Mark  `json:"turn"`
}

func NewBoardState() BoardState {
	return BoardState{Turn: PlayerX}
}

// BoardStateOf derives the turn from the mark counts.
func BoardStateOf(board Board) BoardState {
	return BoardState{Board: board, Turn: board.NextMark()}
}

func (that BoardState) IsWin(mark Mark) bool {
	return that.Board.IsWin(mark)
}

func (that BoardState) IsTie() bool {
	return that.Board.IsTie()
}

func (that BoardState) IsTerminal() bool {
	return that.Board.IsTerminal()
}

// Play writes the mark whose turn it is into cell and passes the turn.
// Cells are write-once and no move is accepted after the game ended.
func (that BoardState) Play(cell int) (BoardState, error) {
	if !ValidCell(cell) {
		return that, fmt.Errorf("%w: cell %d", ErrInvalidCell, cell)
	}

	if that.IsTerminal() {
		return that, apperror.ErrGameFinished
	}

	if that.Board[cell] != EmptyCell {
		return that, apperror.ErrCellOccupied
	}

	next := that
	next.Board[cell] = that.Turn
	next.Turn = that.Turn.Opponent()

	return next, nil
}
