package strategy

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/rocketscienceinc/tictactoe-synthesis/internal/entity"
)

var ErrUnknownPolicy = errors.New("unknown move policy")

const (
	PreferWinPolicy   = "prefer-win"
	UniformPolicy     = "uniform"
	BlockThreatPolicy = "block-threat"
)

// Random is the source of move choices; *rand.Rand satisfies it.
type Random interface {
	IntN(n int) int
}

// SharedRandom draws from the global source and is safe for concurrent use.
type SharedRandom struct{}

func (SharedRandom) IntN(n int) int {
	return rand.IntN(n) //nolint: gosec // move choice, not a secret
}

// MovePolicy picks one of the cells the strategy allows. cells is never empty.
type MovePolicy interface {
	Choose(state entity.BoardState, cells []int, rnd Random) int
}

// Uniform picks any allowed cell.
type Uniform struct{}

func (Uniform) Choose(_ entity.BoardState, cells []int, rnd Random) int {
	return cells[rnd.IntN(len(cells))]
}

// PreferWin completes a line when it can, otherwise picks uniformly.
type PreferWin struct{}

func (PreferWin) Choose(state entity.BoardState, cells []int, rnd Random) int {
	if wins := winningCells(state, cells); len(wins) > 0 {
		return wins[rnd.IntN(len(wins))]
	}
	return Uniform{}.Choose(state, cells, rnd)
}

// BlockThreat completes a line, else blocks one the opponent could complete,
// else picks uniformly.
type BlockThreat struct{}

func (BlockThreat) Choose(state entity.BoardState, cells []int, rnd Random) int {
	if wins := winningCells(state, cells); len(wins) > 0 {
		return wins[rnd.IntN(len(wins))]
	}

	var blocks []int
	for _, cell := range state.Board.Threats(state.Turn.Opponent()) {
		if slices.Contains(cells, cell) {
			blocks = append(blocks, cell)
		}
	}
	if len(blocks) > 0 {
		return blocks[rnd.IntN(len(blocks))]
	}

	return Uniform{}.Choose(state, cells, rnd)
}

func winningCells(state entity.BoardState, cells []int) []int {
	var wins []int
	for _, cell := range state.Board.Threats(state.Turn) {
		if slices.Contains(cells, cell) {
			wins = append(wins, cell)
		}
	}
	return wins
}

// ParsePolicy maps a configured policy name to its MovePolicy.
func ParsePolicy(name string) (MovePolicy, error) {
	switch name {
	case "", PreferWinPolicy:
		return PreferWin{}, nil
	case UniformPolicy:
		return Uniform{}, nil
	case BlockThreatPolicy:
		return BlockThreat{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPolicy, name)
	}
}
