package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/tictactoe-synthesis/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-synthesis/internal/entity"
)

var ErrUnknownGameType = errors.New("unknown game type")

type gameRepo interface {
	CreateOrUpdate(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	DeleteByID(ctx context.Context, id string) error
}

type opponent interface {
	MakeTurn(ctx context.Context, game *entity.Game, mark entity.Mark) error
	AcceptTurn(ctx context.Context, game *entity.Game, cell int) error
}

// GameManager runs human-versus-opponent sessions.
type GameManager struct {
	logger   *slog.Logger
	gameRepo gameRepo

	guided opponent
	random opponent
}

func NewGameManager(logger *slog.Logger, gameRepo gameRepo, guided, random opponent) *GameManager {
	return &GameManager{
		logger:   logger,
		gameRepo: gameRepo,

		guided: guided,
		random: random,
	}
}

// NewGame starts a session. When the human does not start, the opponent has
// already made its first move in the returned game.
func (that *GameManager) NewGame(ctx context.Context, gameType string, humanFirst bool) (*entity.Game, error) {
	if gameType != entity.GuidedType && gameType != entity.RandomType {
		return nil, fmt.Errorf("%w: %q", ErrUnknownGameType, gameType)
	}

	game := entity.NewGame(uuid.NewString(), gameType, humanFirst)
	game.Status = entity.StatusOngoing

	if !humanFirst {
		if err := that.opponentOf(game).MakeTurn(ctx, game, game.Opponent); err != nil {
			return nil, fmt.Errorf("opponent failed to make first turn: %w", err)
		}
	}

	if err := that.updateGame(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	that.logger.Info("game created", "gameID", game.ID, "type", gameType, "human", game.Human.String())

	return game, nil
}

// MakeTurn plays the human move, as accepted by the opponent, and the
// opponent's reply. A finished game is removed and returned together with
// apperror.ErrGameFinished. Refused moves leave the stored game untouched.
func (that *GameManager) MakeTurn(ctx context.Context, gameID string, cell int) (*entity.Game, error) {
	game, err := that.getGameByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("%w by id", err)
	}

	if err = game.ConfirmOngoingState(); err != nil {
		return game, err
	}

	if err = that.opponentOf(game).AcceptTurn(ctx, game, cell); err != nil {
		return game, fmt.Errorf("failed make turn: %w", err)
	}

	if !game.IsFinished() {
		if err = that.opponentOf(game).MakeTurn(ctx, game, game.Opponent); err != nil {
			return nil, fmt.Errorf("opponent failed to make turn: %w", err)
		}
	}

	if game.IsFinished() {
		that.CleanupGame(ctx, game)

		return game, apperror.ErrGameFinished
	}

	if err = that.updateGame(ctx, game); err != nil {
		return nil, fmt.Errorf("failed update game: %w", err)
	}

	return game, nil
}

func (that *GameManager) GetGame(ctx context.Context, gameID string) (*entity.Game, error) {
	return that.getGameByID(ctx, gameID)
}

// CleanupGame forgets the session. Failures are logged only.
func (that *GameManager) CleanupGame(ctx context.Context, game *entity.Game) {
	log := that.logger.With("method", "CleanupGame", "gameID", game.ID)

	if err := that.gameRepo.DeleteByID(ctx, game.ID); err != nil && !errors.Is(err, apperror.ErrGameNotFound) {
		log.Error("failed to delete game", "error", err)
		return
	}

	log.Info("game deleted", "winner", game.Winner.String())
}

func (that *GameManager) opponentOf(game *entity.Game) opponent {
	if game.IsGuided() {
		return that.guided
	}
	return that.random
}

func (that *GameManager) getGameByID(ctx context.Context, id string) (*entity.Game, error) {
	existingGame, err := that.gameRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return existingGame, nil
}

func (that *GameManager) updateGame(ctx context.Context, game *entity.Game) error {
	if err := that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return fmt.Errorf("failed to update game: %w", err)
	}

	return nil
}
