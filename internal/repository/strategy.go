package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-synthesis/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-synthesis/internal/automaton"
	"github.com/rocketscienceinc/tictactoe-synthesis/internal/entity"
)

// StrategyRepository keeps one strategy artifact per mark.
type StrategyRepository interface {
	Save(ctx context.Context, owner entity.Mark, aut *automaton.Automaton) error
	Load(ctx context.Context, owner entity.Mark) (*automaton.Automaton, error)
}

func strategyKey(owner entity.Mark) string {
	return "strategy:" + owner.String()
}

func decodeStrategy(owner entity.Mark, data []byte) (*automaton.Automaton, error) {
	aut, err := automaton.Import(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", apperror.ErrCorruptStrategy, strategyKey(owner), err)
	}

	return aut, nil
}

type badgerStrategy struct {
	db *badger.DB
}

func NewBadgerStrategyRepository(db *badger.DB) StrategyRepository {
	return &badgerStrategy{
		db: db,
	}
}

func (that *badgerStrategy) Save(_ context.Context, owner entity.Mark, aut *automaton.Automaton) error {
	data, err := automaton.Export(aut)
	if err != nil {
		return fmt.Errorf("could not export strategy: %w", err)
	}

	err = that.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(strategyKey(owner)), data)
	})
	if err != nil {
		return fmt.Errorf("failed to set strategy: %w", err)
	}

	return nil
}

func (that *badgerStrategy) Load(_ context.Context, owner entity.Mark) (*automaton.Automaton, error) {
	var data []byte
	err := that.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(strategyKey(owner)))
		if err != nil {
			return err
		}

		data, err = item.ValueCopy(nil)
		return err
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: %s", apperror.ErrStrategyNotFound, strategyKey(owner))
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get strategy: %w", err)
	}

	return decodeStrategy(owner, data)
}

type redisStrategy struct {
	client *redis.Client
}

func NewRedisStrategyRepository(client *redis.Client) StrategyRepository {
	return &redisStrategy{
		client: client,
	}
}

func (that *redisStrategy) Save(ctx context.Context, owner entity.Mark, aut *automaton.Automaton) error {
	data, err := automaton.Export(aut)
	if err != nil {
		return fmt.Errorf("could not export strategy: %w", err)
	}

	if err = that.client.Set(ctx, strategyKey(owner), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to set strategy: %w", err)
	}

	return nil
}

func (that *redisStrategy) Load(ctx context.Context, owner entity.Mark) (*automaton.Automaton, error) {
	data, err := that.client.Get(ctx, strategyKey(owner)).Bytes()

	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", apperror.ErrStrategyNotFound, strategyKey(owner))
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get strategy: %w", err)
	}

	return decodeStrategy(owner, data)
}

type tieredStrategy struct {
	logger *slog.Logger
	cache  StrategyRepository
	origin StrategyRepository
}

// NewTieredStrategyRepository reads through cache to origin and fills the
// cache on a miss. Saves go to both, origin first.
func NewTieredStrategyRepository(logger *slog.Logger, cache, origin StrategyRepository) StrategyRepository {
	return &tieredStrategy{
		logger: logger.With("component", "strategy-repository"),
		cache:  cache,
		origin: origin,
	}
}

func (that *tieredStrategy) Save(ctx context.Context, owner entity.Mark, aut *automaton.Automaton) error {
	if err := that.origin.Save(ctx, owner, aut); err != nil {
		return err
	}

	return that.cache.Save(ctx, owner, aut)
}

func (that *tieredStrategy) Load(ctx context.Context, owner entity.Mark) (*automaton.Automaton, error) {
	log := that.logger.With("method", "Load", "owner", owner.String())

	aut, err := that.cache.Load(ctx, owner)
	if err == nil {
		return aut, nil
	}
	log.Debug("strategy cache miss", "error", err)

	aut, err = that.origin.Load(ctx, owner)
	if err != nil {
		return nil, err
	}

	if err = that.cache.Save(ctx, owner, aut); err != nil {
		log.Warn("failed to fill strategy cache", "error", err)
	}

	return aut, nil
}
