package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/abhisek/bootseq/internal/game"
	"github.com/abhisek/bootseq/internal/store"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "bootseq",
	Short: "Boot the RAG2F pipeline one module at a time",
	Long: `bootseq is a terminal quiz about the RAG2F framework. Each module comes
online when its quiz is answered, and only after the modules it depends on.
Every attempt costs a step from a limited budget.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlay(cmd, playOptions{splash: true})
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("db", "", "Path to SQLite database file (overrides BOOTSEQ_DB env var)")
	pf.String("variant", "", "Built-in quiz bank: concepts or classic (overrides BOOTSEQ_VARIANT)")
	pf.String("bank", "", "Load the quiz bank from a YAML file instead of a built-in variant")
	pf.Int("budget", game.BankDefault, "Starting step budget (default: the bank's)")
	pf.Int("mistake-limit", game.BankDefault, "Failed attempts before a forced reset, 0 disables (default: the bank's)")
	pf.Duration("tour-interval", 0, "Delay between tour steps")
	pf.Int64("seed", 0, "Seed quiz shuffles for reproducible runs")
	pf.String("log", "", "Write structured logs to this file (overrides BOOTSEQ_LOG)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(tourCmd)
	rootCmd.AddCommand(modulesCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then BOOTSEQ_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// gameConfig layers flags that were set over BOOTSEQ_* env vars over the
// defaults.
func gameConfig(cmd *cobra.Command) (game.Config, error) {
	cfg := game.ConfigFromEnv()
	flags := cmd.Flags()

	if flags.Changed("variant") {
		cfg.Variant, _ = flags.GetString("variant")
	}
	if flags.Changed("bank") {
		cfg.BankPath, _ = flags.GetString("bank")
	}
	if flags.Changed("budget") {
		cfg.InitialBudget, _ = flags.GetInt("budget")
	}
	if flags.Changed("mistake-limit") {
		cfg.MistakeLimit, _ = flags.GetInt("mistake-limit")
	}
	if flags.Changed("tour-interval") {
		cfg.TourInterval, _ = flags.GetDuration("tour-interval")
	}
	if flags.Changed("seed") {
		cfg.Seed, _ = flags.GetInt64("seed")
		cfg.Seeded = true
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// newLogger returns a text logger writing to --log or BOOTSEQ_LOG. Without
// either, logs are discarded so they never draw over the TUI.
func newLogger(cmd *cobra.Command) (*slog.Logger, io.Closer, error) {
	path, _ := cmd.Flags().GetString("log")
	if path == "" {
		path = os.Getenv("BOOTSEQ_LOG")
	}
	if path == "" {
		return slog.New(slog.DiscardHandler), io.NopCloser(nil), nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	level := slog.LevelInfo
	if os.Getenv("BOOTSEQ_DEBUG") != "" {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level})), f, nil
}
