package strategy

import (
	"context"
	"fmt"
	"sync"

	"github.com/rocketscienceinc/tictactoe-synthesis/internal/automaton"
	"github.com/rocketscienceinc/tictactoe-synthesis/internal/entity"
)

type loader interface {
	Load(ctx context.Context, owner entity.Mark) (*automaton.Automaton, error)
}

// Store loads each mark's strategy on first use and keeps it for the lifetime
// of the store. Loaded artifacts are validated; failed loads are not
// remembered.
type Store struct {
	loader loader

	mu         sync.Mutex
	strategies map[entity.Mark]*Strategy
}

func NewStore(loader loader) *Store {
	return &Store{
		loader:     loader,
		strategies: make(map[entity.Mark]*Strategy, len(entity.Marks)),
	}
}

func (that *Store) Get(ctx context.Context, owner entity.Mark) (*Strategy, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if strategy, ok := that.strategies[owner]; ok {
		return strategy, nil
	}

	aut, err := that.loader.Load(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to load strategy %s: %w", owner, err)
	}

	if err = Validate(owner, aut); err != nil {
		return nil, fmt.Errorf("failed to load strategy %s: %w", owner, err)
	}

	strategy := New(owner, aut)
	that.strategies[owner] = strategy

	return strategy, nil
}

// Preload loads every mark's strategy.
func (that *Store) Preload(ctx context.Context) error {
	for _, owner := range entity.Marks {
		if _, err := that.Get(ctx, owner); err != nil {
			return err
		}
	}
	return nil
}
