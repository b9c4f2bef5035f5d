// questtui is the terminal client. It keeps a single local user's progress
// in sqlite by default; see internal/config for overrides.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"questforge/internal/adapter/repo"
	"questforge/internal/adapter/tui"
	adventureapp "questforge/internal/app/adventure"
	"questforge/internal/app/lifecycle"
	questapp "questforge/internal/app/quest"
	walletapp "questforge/internal/app/wallet"
	"questforge/internal/config"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cloudwego/hertz/pkg/common/hlog"
)

const defaultUser = "local"

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	userID := flag.String("user", defaultUser, "local player name")
	flag.Parse()

	if err := run(*configPath, *userID); err != nil {
		fmt.Fprintf(os.Stderr, "questtui: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, userID string) error {
	cfg, err := config.LoadClient(configPath)
	if err != nil {
		return err
	}
	logFile, err := openLog(cfg.Log)
	if err != nil {
		return err
	}
	defer logFile.Close()

	ctx := context.Background()
	repos, err := repo.Open(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer repos.Close()

	sessions := lifecycle.NewRegistry(lifecycle.Config{
		Store:        repos.States,
		Events:       repos.Events,
		TickInterval: cfg.Adventure.TickInterval,
		SaveTimeout:  cfg.Adventure.SaveTimeout,
	})
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), cfg.Adventure.SaveTimeout)
		defer cancel()
		if err := sessions.Close(closeCtx); err != nil {
			hlog.Errorf("save progress on exit: %v", err)
		}
	}()

	model, err := tui.New(ctx, userID, tui.Services{
		Adventure: adventureapp.UseCase{Sessions: sessions, Wallets: repos.Wallets, Now: time.Now},
		Quests:    questapp.UseCase{Quests: repos.Quests, Sessions: sessions, Now: time.Now},
		Wallet:    walletapp.UseCase{Wallets: repos.Wallets},
	})
	if err != nil {
		return err
	}
	defer model.Close()

	hlog.Infof("questtui started for user=%s (storage=%s)", userID, cfg.Storage.Driver)
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}

// openLog sends hlog output to the configured file so it never draws over
// the terminal UI.
func openLog(cfg config.LogConfig) (*os.File, error) {
	level, err := cfg.HlogLevel()
	if err != nil {
		return nil, err
	}
	if dir := filepath.Dir(cfg.File); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
	}
	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	hlog.SetLevel(level)
	hlog.SetOutput(f)
	return f, nil
}
