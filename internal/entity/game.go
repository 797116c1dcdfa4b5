package entity

import (
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-synthesis/internal/apperror"
)

const (
	StatusFinished = "finished"
	StatusOngoing  = "ongoing"
	StatusWaiting  = "waiting"
)

const (
	GuidedType = "guided"
	RandomType = "random"
)

var ErrUnknownGameStatus = errors.New("unknown game status")

// Game is one play session between a human and an opponent.
type Game struct {
	ID       string `json:"id"`
	Board    Board  `json:"board"`
	Winner   Mark   `json:"winner"`
	Status   string `json:"status"`
	Turn     Mark   `json:"player_turn"`
	Type     string `json:"type,omitempty"`
	Human    Mark   `json:"human,omitempty"`
	Opponent Mark   `json:"opponent,omitempty"`
}

// NewGame - the human plays X when starting first, O otherwise.
func NewGame(id, gameType string, humanFirst bool) *Game {
	human := PlayerO
	if humanFirst {
		human = PlayerX
	}

	return &Game{
		ID:       id,
		Turn:     PlayerX,
		Status:   StatusWaiting,
		Type:     gameType,
		Human:    human,
		Opponent: human.Opponent(),
	}
}

// State - the configuration seen by the strategy executor. The turn is derived
// from the board so that finished games still map to a canonical configuration.
func (that *Game) State() BoardState {
	return BoardStateOf(that.Board)
}

func (that *Game) UpdateGameState() {
	switch winner := that.Board.Winner(); winner {
	// one player wins
	case PlayerX, PlayerO:
		that.Winner = winner
		that.Status = StatusFinished
		that.Turn = EmptyCell
	// tie
	case PlayerTie:
		that.Winner = PlayerTie
		that.Status = StatusFinished
		that.Turn = EmptyCell
	// game continue
	default:
		that.Status = StatusOngoing
	}
}

func (that *Game) MakeTurn(playerMark Mark, cell int) error {
	if !ValidCell(cell) {
		return fmt.Errorf("%w: cell %d", ErrInvalidCell, cell)
	}

	if that.IsFinished() {
		return apperror.ErrGameFinished
	}

	if that.Turn != playerMark {
		return apperror.ErrNotYourTurn
	}

	if that.Board[cell] != EmptyCell {
		return apperror.ErrCellOccupied
	}

	that.Board[cell] = playerMark
	that.Turn = playerMark.Opponent()

	that.UpdateGameState()

	return nil
}

func (that *Game) IsFinished() bool {
	return that.Status == StatusFinished
}

func (that *Game) IsOngoing() bool {
	return that.Status == StatusOngoing
}

func (that *Game) IsWaiting() bool {
	return that.Status == StatusWaiting
}

func (that *Game) ConfirmOngoingState() error {
	switch {
	case that.IsWaiting():
		return apperror.ErrGameIsNotStarted
	case that.IsFinished():
		return apperror.ErrGameFinished
	case that.IsOngoing():
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownGameStatus, that.Status)
	}
}

func (that *Game) IsGuided() bool {
	return that.Type == GuidedType
}

func (that *Game) IsHumanTurn() bool {
	return that.IsOngoing() && that.Turn == that.Human
}
