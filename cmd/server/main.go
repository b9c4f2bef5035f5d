package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	httpadapter "questforge/internal/adapter/http"
	metricsinmem "questforge/internal/adapter/metrics/inmemory"
	"questforge/internal/adapter/repo"
	adventureapp "questforge/internal/app/adventure"
	"questforge/internal/app/auth"
	"questforge/internal/app/history"
	"questforge/internal/app/lifecycle"
	questapp "questforge/internal/app/quest"
	walletapp "questforge/internal/app/wallet"
	"questforge/internal/config"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/hlog"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		hlog.Fatalf("load config: %v", err)
	}
	logFile, err := configureLogging(cfg.Log)
	if err != nil {
		hlog.Fatalf("configure logging: %v", err)
	}

	ctx := context.Background()
	repos, err := repo.Open(ctx, cfg.Storage)
	if err != nil {
		hlog.Fatalf("open storage: %v (driver=%s)", err, cfg.Storage.Driver)
	}
	svc := newService(cfg, repos, time.Now)

	s := server.Default(
		server.WithHostPorts(cfg.HTTP.Addr),
		server.WithExitWaitTime(cfg.Adventure.SaveTimeout),
	)
	svc.handler.RegisterRoutes(s)
	stopEviction := svc.sessions.StartEviction(cfg.Adventure.SessionIdle/2, cfg.Adventure.SessionIdle)
	s.OnShutdown = append(s.OnShutdown, func(ctx context.Context) {
		stopEviction()
		if err := svc.sessions.Close(ctx); err != nil {
			hlog.CtxErrorf(ctx, "flush sessions on shutdown: %v", err)
		}
		if err := repos.Close(); err != nil {
			hlog.CtxErrorf(ctx, "close storage: %v", err)
		}
		if logFile != nil {
			_ = logFile.Close()
		}
	})

	hlog.Infof("questforge server listening on %s (storage=%s)", cfg.HTTP.Addr, cfg.Storage.Driver)
	s.Spin()
}

type service struct {
	handler  httpadapter.Handler
	sessions *lifecycle.Registry
	kpi      *metricsinmem.Recorder
}

func newService(cfg config.Config, repos repo.Repos, now func() time.Time) service {
	kpi := metricsinmem.NewRecorder()
	sessions := lifecycle.NewRegistry(lifecycle.Config{
		Store:        repos.States,
		Events:       repos.Events,
		Metrics:      kpi,
		Now:          now,
		TickInterval: cfg.Adventure.TickInterval,
		SaveTimeout:  cfg.Adventure.SaveTimeout,
	})
	return service{
		sessions: sessions,
		kpi:      kpi,
		handler: httpadapter.Handler{
			RegisterUC: auth.RegisterUseCase{
				Credentials: repos.Credentials,
				States:      repos.States,
				TxManager:   repos.TxManager,
				Now:         now,
			},
			AuthUC:       auth.VerifyUseCase{Credentials: repos.Credentials},
			AdventureUC:  adventureapp.UseCase{Sessions: sessions, Wallets: repos.Wallets, Now: now},
			QuestUC:      questapp.UseCase{Quests: repos.Quests, Sessions: sessions, Now: now},
			WalletUC:     walletapp.UseCase{Wallets: repos.Wallets},
			HistoryUC:    history.UseCase{Events: repos.Events},
			KPI:          kpi,
			AllowOrigins: cfg.HTTP.AllowOrigins,
		},
	}
}

// configureLogging applies the level and, when a file is configured, sends
// hlog output there. The returned closer is nil for stderr logging.
func configureLogging(cfg config.LogConfig) (io.Closer, error) {
	level, err := cfg.HlogLevel()
	if err != nil {
		return nil, err
	}
	hlog.SetLevel(level)
	if cfg.File == "" {
		return nil, nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	hlog.SetOutput(f)
	return f, nil
}
