package store

import (
	"context"
	"time"

	"github.com/abhisek/bootseq/internal/game"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit     int    // max results (0 = unlimited)
	After     int64  // sequence > After
	Before    int64  // sequence < Before
	SessionID string // restrict to one session when set
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEvent is a stored LLM request.
type LLMRequestEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// LLMUsage aggregates LLM request events under one key (purpose or model).
type LLMUsage struct {
	Key          string
	Calls        int
	Failures     int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// AttemptRecord is a stored attempt event.
type AttemptRecord struct {
	Sequence  int64
	Timestamp time.Time
	game.AttemptEvent
}

// SessionRecord is a stored session lifecycle event.
type SessionRecord struct {
	Sequence  int64
	Timestamp time.Time
	game.SessionEvent
}

// EventRepo provides append and query access to domain events. It
// satisfies game.EventRecorder.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// RecordAttempt records one quiz attempt outcome.
	RecordAttempt(ctx context.Context, e game.AttemptEvent) error

	// RecordSession records a session lifecycle event.
	RecordSession(ctx context.Context, e game.SessionEvent) error

	// QueryAttempts returns attempt events, newest first.
	QueryAttempts(ctx context.Context, opts QueryOpts) ([]AttemptRecord, error)

	// QuerySessions returns session events, newest first.
	QuerySessions(ctx context.Context, opts QueryOpts) ([]SessionRecord, error)

	// QueryLLMEvents returns LLM request events, newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error)

	// GetLLMEvent returns one LLM request event, or nil if it doesn't exist.
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEvent, error)

	// LLMUsageByPurpose aggregates LLM requests per purpose label.
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error)

	// LLMUsageByModel aggregates LLM requests per model.
	LLMUsageByModel(ctx context.Context) ([]LLMUsage, error)
}

var _ game.EventRecorder = (EventRepo)(nil)
