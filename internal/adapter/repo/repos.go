// Package repo selects the storage backend named by the config.
package repo

import (
	"context"
	"fmt"
	"strings"

	"questforge/db"
	gormrepo "questforge/internal/adapter/repo/gorm"
	"questforge/internal/adapter/repo/memory"
	sqliterepo "questforge/internal/adapter/repo/sqlite"
	"questforge/internal/app/ports"
	"questforge/internal/config"

	"github.com/cloudwego/hertz/pkg/common/hlog"
)

type Repos struct {
	States      ports.AdventureStateRepository
	Wallets     ports.WalletRepository
	Quests      ports.QuestRepository
	Events      ports.EventRepository
	Credentials ports.UserCredentialRepository
	TxManager   ports.TxManager

	close func() error
}

func (r Repos) Close() error {
	if r.close == nil {
		return nil
	}
	return r.close()
}

// Open builds the repositories for cfg.Driver. Postgres is migrated on open
// from the embedded schema unless MigrationsDir points elsewhere.
func Open(ctx context.Context, cfg config.StorageConfig) (Repos, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		gdb, err := gormrepo.OpenPostgres(cfg.DSN)
		if err != nil {
			return Repos{}, err
		}
		if dir := strings.TrimSpace(cfg.MigrationsDir); dir != "" {
			err = gormrepo.ApplyMigrationsDir(ctx, gdb, dir)
		} else {
			err = gormrepo.ApplyMigrations(ctx, gdb, db.Migrations())
		}
		if err != nil {
			return Repos{}, fmt.Errorf("migrate postgres: %w", err)
		}
		sqlDB, err := gdb.DB()
		if err != nil {
			return Repos{}, fmt.Errorf("open postgres: %w", err)
		}
		hlog.CtxInfof(ctx, "storage: using postgres")
		return Repos{
			States:      gormrepo.NewAdventureStateRepo(gdb),
			Wallets:     gormrepo.NewWalletRepo(gdb),
			Quests:      gormrepo.NewQuestRepo(gdb),
			Events:      gormrepo.NewEventRepo(gdb),
			Credentials: gormrepo.NewUserCredentialRepo(gdb),
			TxManager:   gormrepo.NewTxManager(gdb),
			close:       sqlDB.Close,
		}, nil
	case config.DriverSQLite:
		sdb, err := sqliterepo.Open(cfg.SQLitePath)
		if err != nil {
			return Repos{}, err
		}
		hlog.CtxInfof(ctx, "storage: using sqlite at %s", cfg.SQLitePath)
		return Repos{
			States:      sqliterepo.NewAdventureStateRepo(sdb),
			Wallets:     sqliterepo.NewWalletRepo(sdb),
			Quests:      sqliterepo.NewQuestRepo(sdb),
			Events:      sqliterepo.NewEventRepo(sdb),
			Credentials: sqliterepo.NewUserCredentialRepo(sdb),
			TxManager:   sqliterepo.NewTxManager(sdb),
			close:       sdb.Close,
		}, nil
	case config.DriverMemory:
		hlog.CtxWarnf(ctx, "storage: using in-memory store, progress is lost on exit")
		store := memory.NewStore()
		return Repos{
			States:      memory.NewAdventureStateRepo(store),
			Wallets:     memory.NewWalletRepo(store),
			Quests:      memory.NewQuestRepo(store),
			Events:      memory.NewEventRepo(store),
			Credentials: memory.NewUserCredentialRepo(store),
			TxManager:   memory.NewTxManager(store),
		}, nil
	default:
		return Repos{}, fmt.Errorf("%w: unknown storage driver %q", config.ErrInvalidConfig, cfg.Driver)
	}
}
