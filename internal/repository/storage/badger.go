package storage

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/dgraph-io/badger/v4"
)

var ErrBadgerPathRequired = errors.New("path is required for a persistent badger database")

type BadgerConfig struct {
	Path     string
	InMemory bool
	Logger   *slog.Logger
}

// badgerLogger routes badger's own logging to slog.
type badgerLogger struct {
	logger *slog.Logger
}

func (that *badgerLogger) Errorf(format string, args ...any) {
	that.logger.Error(fmt.Sprintf(format, args...))
}

func (that *badgerLogger) Warningf(format string, args ...any) {
	that.logger.Warn(fmt.Sprintf(format, args...))
}

func (that *badgerLogger) Infof(format string, args ...any) {
	that.logger.Info(fmt.Sprintf(format, args...))
}

func (that *badgerLogger) Debugf(format string, args ...any) {
	that.logger.Debug(fmt.Sprintf(format, args...))
}

// NewBadgerStorage opens the local artifact database.
func NewBadgerStorage(conf BadgerConfig) (*badger.DB, error) {
	var opts badger.Options
	switch {
	case conf.InMemory:
		opts = badger.DefaultOptions("").WithInMemory(true)
	case conf.Path == "":
		return nil, ErrBadgerPathRequired
	default:
		if err := os.MkdirAll(conf.Path, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create badger directory %s: %w", conf.Path, err)
		}
		opts = badger.DefaultOptions(conf.Path).WithSyncWrites(true)
	}

	if conf.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: conf.Logger.With("component", "badger")})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger database: %w", err)
	}

	return db, nil
}
