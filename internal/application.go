package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-synthesis/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-synthesis/internal/config"
	"github.com/rocketscienceinc/tictactoe-synthesis/internal/entity"
	"github.com/rocketscienceinc/tictactoe-synthesis/internal/plant"
	"github.com/rocketscienceinc/tictactoe-synthesis/internal/repository"
	"github.com/rocketscienceinc/tictactoe-synthesis/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-synthesis/internal/service"
	"github.com/rocketscienceinc/tictactoe-synthesis/internal/strategy"
	"github.com/rocketscienceinc/tictactoe-synthesis/internal/synthesis"
	"github.com/rocketscienceinc/tictactoe-synthesis/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-synthesis/transport/cli"
)

// RunBuild - builds the plant, synthesizes both strategies and stores them.
func RunBuild(ctx context.Context, logger *slog.Logger, conf *config.Config, out io.Writer) error {
	log := logger.With("component", "app", "command", "build")

	stores, err := openStores(ctx, logger, conf)
	if err != nil {
		return err
	}
	defer stores.close(log)

	registry := prometheus.NewRegistry()
	synth := synthesis.New(logger, conf.Synthesis.Workers, synthesis.NewMetrics(registry))

	built, err := plant.NewBuilder(logger, synth).Build(ctx)
	if err != nil {
		return fmt.Errorf("failed to build plant: %w", err)
	}
	fmt.Fprintf(out, "plant: %d states, %d transitions\n", built.NumStates(), built.NumTransitions())

	strategies, err := strategy.NewSynthesizer(logger, synth).SynthesizeAll(ctx, built)
	if err != nil {
		return fmt.Errorf("failed to synthesize strategies: %w", err)
	}

	for _, owner := range entity.Marks {
		strat := strategies[owner]
		if err = stores.strategies.Save(ctx, owner, strat.Automaton); err != nil {
			return fmt.Errorf("failed to save strategy %s: %w", owner, err)
		}
		fmt.Fprintf(out, "strategy %s: %d states, %d transitions\n",
			owner, strat.Automaton.NumStates(), strat.Automaton.NumTransitions())
	}

	if conf.Synthesis.MetricsFile != "" {
		if err = prometheus.WriteToTextfile(conf.Synthesis.MetricsFile, registry); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
		log.Info("metrics written", "file", conf.Synthesis.MetricsFile)
	}

	return nil
}

// RunPlay - interactive games against the guided or the random opponent.
func RunPlay(ctx context.Context, logger *slog.Logger, conf *config.Config, in io.Reader, out io.Writer) error {
	log := logger.With("component", "app", "command", "play")

	stores, err := openStores(ctx, logger, conf)
	if err != nil {
		return err
	}
	defer stores.close(log)

	guided, random, err := newOpponents(ctx, log, conf, stores)
	if err != nil {
		return err
	}

	gameManager := usecase.NewGameManager(logger, stores.games, guided, random)

	return cli.NewConsole(logger, gameManager, in, out).Run(ctx)
}

// RunSimulate - plays games between the guided and the random opponent and
// prints the tally.
func RunSimulate(ctx context.Context, logger *slog.Logger, conf *config.Config, games int, guidedMark entity.Mark, out io.Writer) error {
	log := logger.With("component", "app", "command", "simulate")

	stores, err := openStores(ctx, logger, conf)
	if err != nil {
		return err
	}
	defer stores.close(log)

	guided, random, err := newOpponents(ctx, log, conf, stores)
	if err != nil {
		return err
	}

	tally, err := service.NewSimulationService(logger, guided, random).Simulate(ctx, games, guidedMark)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "guided %s against random: %s\n", guidedMark, tally)

	return nil
}

type stores struct {
	badger *badger.DB
	redis  *redis.Client

	strategies repository.StrategyRepository
	games      repository.GameRepository
}

// openStores opens the local artifact database and, when enabled, redis as
// strategy cache and session store.
func openStores(ctx context.Context, logger *slog.Logger, conf *config.Config) (*stores, error) {
	db, err := storage.NewBadgerStorage(storage.BadgerConfig{Path: conf.StrategyDir, Logger: logger})
	if err != nil {
		return nil, fmt.Errorf("could not open strategy storage: %w", err)
	}

	result := &stores{
		badger:     db,
		strategies: repository.NewBadgerStrategyRepository(db),
		games:      repository.NewMemoryGameRepository(),
	}

	if !conf.Redis.Enabled {
		return result, nil
	}

	client, err := storage.NewRedisClient(ctx, conf.Redis.GetRedisAddr())
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("could not connect to redis storage: %w", err)
	}

	result.redis = client
	result.strategies = repository.NewTieredStrategyRepository(logger, repository.NewRedisStrategyRepository(client), result.strategies)
	result.games = repository.NewGameRepository(client)

	return result, nil
}

func (that *stores) close(log *slog.Logger) {
	if that.redis != nil {
		if err := that.redis.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}

	if err := that.badger.Close(); err != nil {
		log.Error("could not close strategy storage", "error", err)
	}
}

// newOpponents loads the strategies up front so that a corrupt artifact stops
// the command before any game starts. Missing artifacts only disable guided
// play.
func newOpponents(ctx context.Context, log *slog.Logger, conf *config.Config, stores *stores) (service.OpponentService, service.OpponentService, error) {
	policy, err := strategy.ParsePolicy(conf.Play.Policy)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid play policy: %w", err)
	}

	store := strategy.NewStore(stores.strategies)
	if err = store.Preload(ctx); err != nil {
		if !errors.Is(err, apperror.ErrStrategyNotFound) {
			return nil, nil, fmt.Errorf("unusable strategies: %w", err)
		}
		log.Warn("strategies are not built, guided games will fail", "error", err)
	}

	executor := strategy.NewExecutor(strategy.WithPolicy(policy))
	guided := service.NewGuidedOpponent(store, executor)
	random := service.NewRandomOpponent(strategy.SharedRandom{})

	return guided, random, nil
}
