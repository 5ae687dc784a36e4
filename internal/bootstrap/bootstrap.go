// Package bootstrap assembles a running game from a Config. Both binaries
// share it.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	httpadapter "hearthfield/internal/adapter/http"
	metricsinmem "hearthfield/internal/adapter/metrics/inmemory"
	gormrepo "hearthfield/internal/adapter/repo/gorm"
	"hearthfield/internal/adapter/repo/memory"
	sqliterepo "hearthfield/internal/adapter/repo/sqlite"
	"hearthfield/internal/adapter/ticker"
	"hearthfield/internal/app/game"
	"hearthfield/internal/app/ports"
	"hearthfield/internal/app/replay"
	"hearthfield/internal/app/techtree"
	"hearthfield/internal/config"
	"hearthfield/internal/domain/catalog"
	"hearthfield/internal/domain/forage"
)

const defaultSQLitePath = "hearth.db"

type App struct {
	Catalog *catalog.Catalog
	Game    game.UseCase
	Replay  replay.UseCase
	KPI     *metricsinmem.Recorder
	Seed    int64

	tickInterval time.Duration
	corsOrigin   string
	logger       *slog.Logger
	closers      []func() error
}

func Build(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	cat, err := loadCatalog(cfg.Game.Catalog)
	if err != nil {
		return nil, err
	}
	seed := cfg.Game.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	engine, err := game.BuildEngine(cat, forage.NewSeededRand(seed), logger)
	if err != nil {
		return nil, fmt.Errorf("build engine: %w", err)
	}

	a := &App{
		Catalog:      cat,
		KPI:          metricsinmem.NewRecorder(),
		Seed:         seed,
		tickInterval: cfg.Game.TickInterval,
		corsOrigin:   cfg.HTTP.CORSOrigin,
		logger:       logger,
	}
	tx, events, err := a.openJournal(ctx, cfg.Journal)
	if err != nil {
		return nil, err
	}

	sessionID := uuid.NewString()
	a.Game = game.UseCase{
		TxManager: tx,
		Engine:    engine,
		Tech:      techtree.New(cat, logger),
		State:     cat.NewGameState(),
		Events:    events,
		Metrics:   a.KPI,
		SessionID: sessionID,
		Now:       time.Now,
		Logger:    logger,
	}
	a.Replay = replay.UseCase{Events: events}
	logger.Info("game ready", "session_id", sessionID, "seed", seed, "journal", cfg.Journal.Driver)
	return a, nil
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default()
	}
	return catalog.LoadFile(path)
}

// openJournal picks the event store. Every driver serializes calls on the
// in-process mutex; postgres additionally commits each call's events in one
// database transaction.
func (a *App) openJournal(ctx context.Context, cfg config.JournalConfig) (ports.TxManager, ports.EventRepository, error) {
	store := memory.NewStore(cfg.MemoryLimit)
	tx := memory.NewTxManager(store)

	switch cfg.Driver {
	case config.DriverPostgres:
		db, err := gormrepo.OpenJournal(ctx, cfg.DSN)
		if err != nil {
			return nil, nil, err
		}
		a.closers = append(a.closers, func() error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		})
		return tx.Wrap(gormrepo.NewTxManager(db)), gormrepo.NewEventRepo(db), nil
	case config.DriverSQLite:
		path := cfg.DSN
		if path == "" {
			path = defaultSQLitePath
		}
		conn, err := sqliterepo.Open(path)
		if err != nil {
			return nil, nil, err
		}
		a.closers = append(a.closers, conn.Close)
		return tx, sqliterepo.NewEventRepo(conn), nil
	case config.DriverMemory, "":
		return tx, memory.NewEventRepo(store), nil
	default:
		return nil, nil, fmt.Errorf("%w: unknown journal driver %q", config.ErrInvalidConfig, cfg.Driver)
	}
}

func (a *App) Handler() httpadapter.Handler {
	return httpadapter.Handler{
		GameUC:      a.Game,
		ReplayUC:    a.Replay,
		KPI:         a.KPI,
		AllowOrigin: a.corsOrigin,
	}
}

// RunTicker advances the game one tick per configured interval until ctx is
// done. A zero interval returns immediately.
func (a *App) RunTicker(ctx context.Context) {
	ticker.Run(ctx, a.tickInterval, func(ctx context.Context) error {
		_, err := a.Game.AdvanceTick(ctx, game.TickRequest{Count: 1})
		return err
	}, a.logger.With("component", "ticker"))
}

func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	return errors.Join(errs...)
}
