// Package injector assembles the long-lived services the CLI needs.
package injector

import (
	"github.com/google/wire"
	"go.uber.org/zap"

	"github.com/san-kum/steersim/internal/logging"
	"github.com/san-kum/steersim/internal/scenario"
	"github.com/san-kum/steersim/internal/storage"
)

// DataDir is the directory runs are stored under.
type DataDir string

// LogLevel is a level name understood by logging.ParseLevel.
type LogLevel string

type App struct {
	Log     *zap.Logger
	Store   *storage.Store
	Builder *scenario.Builder
}

func NewApp(log *zap.Logger, store *storage.Store, builder *scenario.Builder) *App {
	return &App{Log: log, Store: store, Builder: builder}
}

func ProvideLogger(level LogLevel) (*zap.Logger, func(), error) {
	log, err := logging.New(string(level))
	if err != nil {
		return nil, nil, err
	}
	return log, func() { _ = log.Sync() }, nil
}

func ProvideStore(dir DataDir, log *zap.Logger) *storage.Store {
	return storage.New(string(dir), log)
}

var ProviderSet = wire.NewSet(
	ProvideLogger,
	ProvideStore,
	scenario.NewRegistry,
	scenario.NewBuilder,
	NewApp,
)
