package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/abhisek/bootseq/internal/catalog"
	"github.com/abhisek/bootseq/internal/coach"
	"github.com/abhisek/bootseq/internal/game"
	"github.com/abhisek/bootseq/internal/llm"
	"github.com/abhisek/bootseq/internal/store"
	"github.com/spf13/cobra"
)

// gameEnv is everything a playing command needs, opened from flags.
type gameEnv struct {
	store  *store.Store
	ctl    *game.Controller
	coach  *coach.Service
	logger *slog.Logger
	log    io.Closer
}

// openGameEnv opens the store, loads the bank and builds the controller
// with renderers attached. The coach is built when an LLM provider is
// configured.
func openGameEnv(cmd *cobra.Command, renderers ...game.Renderer) (*gameEnv, error) {
	ctx := cmd.Context()

	cfg, err := gameConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger, logFile, err := newLogger(cmd)
	if err != nil {
		return nil, err
	}

	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		_ = logFile.Close()
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		_ = logFile.Close()
		return nil, fmt.Errorf("open store: %w", err)
	}

	cat := catalog.Default()
	bank, err := cfg.LoadBank(cat)
	if err != nil {
		_ = st.Close()
		_ = logFile.Close()
		return nil, fmt.Errorf("load quiz bank: %w", err)
	}

	eventRepo := st.EventRepo()
	ctl := game.New(cfg, cat, cfg.NewEngine(bank), game.Deps{
		Best:     st.BestScore(),
		Events:   eventRepo,
		Renderer: game.Renderers(renderers),
		Logger:   logger,
	})

	// The coach is optional; the game works without it.
	provider, err := llm.NewProviderFromEnv(ctx, eventRepo, logger)
	switch {
	case errors.Is(err, llm.ErrDisabled):
	case err != nil:
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		fmt.Fprintln(os.Stderr, "Failed attempts will show static hints.")
	}
	logger.Info("game ready", "db", dbPath, "variant", bank.Name, "coach", provider != nil)

	return &gameEnv{
		store:  st,
		ctl:    ctl,
		coach:  coach.NewService(provider, coach.DefaultConfig(), logger),
		logger: logger,
		log:    logFile,
	}, nil
}

func (e *gameEnv) Close() {
	e.coach.Cancel()
	e.ctl.Close()
	_ = e.store.Close()
	_ = e.log.Close()
}

// withStore opens the database named by the flags for the duration of fn.
func withStore(cmd *cobra.Command, fn func(*store.Store) error) error {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer s.Close()
	return fn(s)
}

func rule(n int) string {
	return strings.Repeat("─", n)
}
