package coach

import "time"

// Config holds nudge generation settings.
type Config struct {
	MaxTokens   int
	Temperature float64

	// Timeout bounds one nudge, retries included. A slow coach falls back
	// to the static hint.
	Timeout time.Duration
}

// DefaultConfig returns sensible defaults for nudge generation.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   200,
		Temperature: 0.4,
		Timeout:     15 * time.Second,
	}
}
