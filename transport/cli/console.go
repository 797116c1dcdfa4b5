// Package cli is the terminal front end for playing against an opponent.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/rocketscienceinc/tictactoe-synthesis/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-synthesis/internal/entity"
	"github.com/rocketscienceinc/tictactoe-synthesis/internal/strategy"
)

const quitCommand = "quit"

var errQuit = errors.New("player quit")

type gameManager interface {
	NewGame(ctx context.Context, gameType string, humanFirst bool) (*entity.Game, error)
	MakeTurn(ctx context.Context, gameID string, cell int) (*entity.Game, error)
	CleanupGame(ctx context.Context, game *entity.Game)
}

type Console struct {
	logger  *slog.Logger
	manager gameManager
	in      *bufio.Scanner
	out     io.Writer
}

func NewConsole(logger *slog.Logger, manager gameManager, in io.Reader, out io.Writer) *Console {
	return &Console{
		logger:  logger.With("component", "console"),
		manager: manager,
		in:      bufio.NewScanner(in),
		out:     out,
	}
}

// Run plays games until the player quits or the input ends.
func (that *Console) Run(ctx context.Context) error {
	for {
		err := that.playGame(ctx)
		if errors.Is(err, errQuit) || errors.Is(err, io.EOF) {
			that.println("Bye!")
			return nil
		}
		if err != nil {
			return err
		}

		again, err := that.askYesNo("Play again? [y/n]")
		if err != nil || !again {
			that.println("Bye!")
			return nil
		}
	}
}

func (that *Console) playGame(ctx context.Context) error {
	gameType, err := that.askGameType()
	if err != nil {
		return err
	}

	humanFirst, err := that.askYesNo("Do you want to start? [y/n]")
	if err != nil {
		return err
	}

	game, err := that.manager.NewGame(ctx, gameType, humanFirst)
	if err != nil {
		return fmt.Errorf("failed to start game: %w", err)
	}
	that.println(fmt.Sprintf("You play %s.", game.Human))

	for {
		that.println(game.Board.String())

		cell, err := that.askCell()
		if err != nil {
			that.manager.CleanupGame(ctx, game)
			return err
		}

		next, err := that.manager.MakeTurn(ctx, game.ID, cell)
		switch {
		case errors.Is(err, apperror.ErrGameFinished):
			that.println(next.Board.String())
			that.println(resultMessage(next))
			return nil
		case errors.Is(err, entity.ErrInvalidCell), errors.Is(err, apperror.ErrCellOccupied),
			errors.Is(err, strategy.ErrIllegalMove):
			that.println("Illegal move, try again.")
			continue
		case err != nil:
			return fmt.Errorf("failed to play: %w", err)
		}

		game = next
	}
}

func (that *Console) askGameType() (string, error) {
	for {
		answer, err := that.ask("Opponent: (g)uided or (r)andom?")
		if err != nil {
			return "", err
		}

		switch answer {
		case "g", entity.GuidedType:
			that.println("You have selected an opponent following the synthesized strategy.")
			return entity.GuidedType, nil
		case "r", entity.RandomType:
			that.println("You have selected an opponent performing random moves.")
			return entity.RandomType, nil
		}
	}
}

func (that *Console) askCell() (int, error) {
	for {
		answer, err := that.ask("Your move (0-8):")
		if err != nil {
			return 0, err
		}

		cell, err := strconv.Atoi(answer)
		if err == nil && entity.ValidCell(cell) {
			return cell, nil
		}
		that.println("Please enter a cell between 0 and 8.")
	}
}

func (that *Console) askYesNo(question string) (bool, error) {
	for {
		answer, err := that.ask(question)
		if err != nil {
			return false, err
		}

		switch answer {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
	}
}

// ask prompts and reads one trimmed, lower-cased line. "quit" ends the session.
func (that *Console) ask(prompt string) (string, error) {
	that.println(prompt)

	if !that.in.Scan() {
		if err := that.in.Err(); err != nil {
			return "", fmt.Errorf("failed to read input: %w", err)
		}
		return "", io.EOF
	}

	answer := strings.ToLower(strings.TrimSpace(that.in.Text()))
	if answer == quitCommand {
		return "", errQuit
	}

	return answer, nil
}

func (that *Console) println(line string) {
	if _, err := fmt.Fprintln(that.out, line); err != nil {
		that.logger.Error("failed to write to console", "error", err)
	}
}

func resultMessage(game *entity.Game) string {
	switch game.Winner {
	case game.Human:
		return "You win!"
	case entity.PlayerTie:
		return "It's a draw!"
	default:
		return "You lose!"
	}
}
