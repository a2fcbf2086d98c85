package game

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/abhisek/bootseq/internal/catalog"
	"github.com/abhisek/bootseq/internal/quiz"
	"github.com/abhisek/bootseq/internal/tour"
)

// BankDefault in InitialBudget or MistakeLimit means "use the bank's value".
const BankDefault = -1

// Config holds the economy and pacing of a boot sequence.
type Config struct {
	// Variant selects a built-in bank: "concepts" or "classic".
	Variant string

	// BankPath, when set, loads the bank from a YAML file instead of the
	// built-in variant.
	BankPath string

	// InitialBudget overrides the bank's starting budget when positive.
	InitialBudget int

	// MistakeLimit overrides the bank's forced-reset threshold when not
	// BankDefault. Zero disables forced resets.
	MistakeLimit int

	// TourInterval is the delay between tour steps. Default: 900ms.
	TourInterval time.Duration

	// Seed makes quiz shuffles deterministic when Seeded is true.
	Seed   int64
	Seeded bool
}

// DefaultConfig returns a Config for the concepts variant with the bank's
// own economy.
func DefaultConfig() Config {
	return Config{
		Variant:       "concepts",
		InitialBudget: BankDefault,
		MistakeLimit:  BankDefault,
		TourInterval:  tour.DefaultInterval,
	}
}

// ConfigFromEnv builds a Config from BOOTSEQ_* environment variables,
// falling back to defaults for unset or unparsable values.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	if v := os.Getenv("BOOTSEQ_VARIANT"); v != "" {
		cfg.Variant = v
	}
	if p := os.Getenv("BOOTSEQ_BANK"); p != "" {
		cfg.BankPath = p
	}
	if n, err := strconv.Atoi(os.Getenv("BOOTSEQ_BUDGET")); err == nil {
		cfg.InitialBudget = n
	}
	if n, err := strconv.Atoi(os.Getenv("BOOTSEQ_MISTAKE_LIMIT")); err == nil {
		cfg.MistakeLimit = n
	}
	if d, err := time.ParseDuration(os.Getenv("BOOTSEQ_TOUR_INTERVAL")); err == nil {
		cfg.TourInterval = d
	}
	if n, err := strconv.ParseInt(os.Getenv("BOOTSEQ_SEED"), 10, 64); err == nil {
		cfg.Seed = n
		cfg.Seeded = true
	}

	return cfg
}

// Validate checks that the config describes a playable game.
func (c Config) Validate() error {
	if c.BankPath == "" {
		if _, err := quiz.Builtin(c.Variant); err != nil {
			return err
		}
	}
	if c.InitialBudget == 0 || c.InitialBudget < BankDefault {
		return fmt.Errorf("initial budget must be positive, got %d", c.InitialBudget)
	}
	if c.MistakeLimit < BankDefault {
		return fmt.Errorf("mistake limit must be zero or positive, got %d", c.MistakeLimit)
	}
	if c.TourInterval <= 0 {
		return fmt.Errorf("tour interval must be positive, got %s", c.TourInterval)
	}
	return nil
}

// LoadBank returns the configured bank, checked against the catalog.
func (c Config) LoadBank(cat *catalog.Catalog) (*quiz.Bank, error) {
	var (
		bank *quiz.Bank
		err  error
	)
	if c.BankPath != "" {
		bank, err = quiz.LoadBankFile(c.BankPath)
	} else {
		bank, err = quiz.Builtin(c.Variant)
	}
	if err != nil {
		return nil, err
	}
	if err := bank.Validate(cat); err != nil {
		return nil, err
	}
	return bank, nil
}

// Economy resolves the budget and mistake limit for a bank.
func (c Config) Economy(bank *quiz.Bank) (budget, mistakeLimit int) {
	budget, mistakeLimit = bank.Budget, bank.MistakeLimit
	if c.InitialBudget > 0 {
		budget = c.InitialBudget
	}
	if c.MistakeLimit != BankDefault {
		mistakeLimit = c.MistakeLimit
	}
	return budget, mistakeLimit
}

// NewEngine builds a quiz engine for bank honoring the seed settings.
func (c Config) NewEngine(bank *quiz.Bank) *quiz.Engine {
	if c.Seeded {
		return quiz.NewSeeded(bank, c.Seed)
	}
	return quiz.New(bank)
}
