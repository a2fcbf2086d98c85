package store

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/bootseq/internal/catalog"
	"github.com/abhisek/bootseq/internal/game"
	"github.com/abhisek/bootseq/internal/quiz"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "bootseq.db"))
	require.NoError(t, err, "open test store")
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	assert.NotNil(t, s.Driver())
	assert.NotNil(t, s.DB())
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestAutoMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)
	for _, table := range []string{tableKV, tableAttemptEvents, tableSessionEvents, tableLLMEvents, "global_sequence"} {
		var name string
		err := s.DB().QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		require.NoError(t, err, "table %s", table)
		assert.Equal(t, table, name)
	}
}

func TestAutoMigrationCreatesIndexes(t *testing.T) {
	s := openTestStore(t)
	for _, index := range []string{"attemptevent_session_id", "sessionevent_session_id", "llmrequestevent_purpose"} {
		var n int
		err := s.DB().QueryRow(
			"SELECT COUNT(*) FROM sqlite_master WHERE type='index' AND name=?", index,
		).Scan(&n)
		require.NoError(t, err)
		assert.Equal(t, 1, n, "index %s", index)
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bootseq.db")
	ctx := context.Background()

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.BestScore().Write(ctx, 7))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	v, ok, err := s.BestScore().Read(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 7, v)
}

func TestBestScore(t *testing.T) {
	s := openTestStore(t)
	best := s.BestScore()
	ctx := context.Background()

	_, ok, err := best.Read(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "empty store has no best")

	require.NoError(t, best.Write(ctx, 8))
	require.NoError(t, best.Write(ctx, 5))

	v, ok, err := best.Read(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 5, v)

	assert.Error(t, best.Write(ctx, -1))

	cleared, err := best.Clear(ctx)
	require.NoError(t, err)
	assert.True(t, cleared)

	cleared, err = best.Clear(ctx)
	require.NoError(t, err)
	assert.False(t, cleared, "second clear has nothing to remove")

	_, ok, err = best.Read(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var seqs []int64
	for i := 0; i < 5; i++ {
		seq, err := s.seq.Next(ctx)
		require.NoError(t, err, "next %d", i)
		seqs = append(seqs, seq)
	}

	// Should be monotonically increasing starting from 1.
	for i, seq := range seqs {
		assert.Equal(t, int64(i+1), seq, "seq[%d]", i)
	}
}

func TestSequenceCounterConcurrent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	const n = 20
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		seen = map[int64]bool{}
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			seq, err := s.seq.Next(ctx)
			assert.NoError(t, err)
			mu.Lock()
			seen[seq] = true
			mu.Unlock()
		}()
	}
	wg.Wait()
	assert.Len(t, seen, n, "sequence numbers must be unique")
}

func TestAttemptEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	require.NoError(t, repo.RecordAttempt(ctx, game.AttemptEvent{
		SessionID: "s1", ModuleID: "spock", Outcome: game.StatusCompleted, StepsRemaining: 11,
	}))
	require.NoError(t, repo.RecordAttempt(ctx, game.AttemptEvent{
		SessionID: "s1", ModuleID: "morpheus", Outcome: game.StatusFailed, StepsRemaining: 10,
		Mistakes: 1, Wrong: []string{"discovery", "group"},
	}))
	require.NoError(t, repo.RecordAttempt(ctx, game.AttemptEvent{
		SessionID: "s2", ModuleID: "spock", Outcome: game.StatusFailed, StepsRemaining: 19, Mistakes: 1,
	}))

	all, err := repo.QueryAttempts(ctx, QueryOpts{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "s2", all[0].SessionID, "newest first")

	s1, err := repo.QueryAttempts(ctx, QueryOpts{SessionID: "s1"})
	require.NoError(t, err)
	require.Len(t, s1, 2)
	assert.Equal(t, "morpheus", s1[0].ModuleID)
	assert.Equal(t, game.StatusFailed, s1[0].Outcome)
	assert.Equal(t, []string{"discovery", "group"}, s1[0].Wrong)
	assert.Equal(t, 10, s1[0].StepsRemaining)
	assert.Nil(t, s1[1].Wrong)
	assert.Equal(t, game.StatusCompleted, s1[1].Outcome)

	limited, err := repo.QueryAttempts(ctx, QueryOpts{Limit: 1})
	require.NoError(t, err)
	require.Len(t, limited, 1)

	after, err := repo.QueryAttempts(ctx, QueryOpts{After: all[1].Sequence})
	require.NoError(t, err)
	require.Len(t, after, 1)
	assert.Equal(t, all[0].Sequence, after[0].Sequence)
}

func TestSessionEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	require.NoError(t, repo.RecordSession(ctx, game.SessionEvent{
		SessionID: "s1", Action: game.SessionStart, Variant: "concepts",
	}))
	require.NoError(t, repo.RecordSession(ctx, game.SessionEvent{
		SessionID: "s1", Action: game.SessionWon, Variant: "concepts", StepsUsed: 5, NewBest: true,
	}))

	got, err := repo.QuerySessions(ctx, QueryOpts{})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, game.SessionWon, got[0].Action)
	assert.Equal(t, 5, got[0].StepsUsed)
	assert.True(t, got[0].NewBest)
	assert.False(t, got[1].NewBest)
	assert.Less(t, got[1].Sequence, got[0].Sequence)
}

func TestEventsShareSequence(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	require.NoError(t, repo.RecordSession(ctx, game.SessionEvent{SessionID: "s", Action: game.SessionStart}))
	require.NoError(t, repo.RecordAttempt(ctx, game.AttemptEvent{SessionID: "s", ModuleID: "spock"}))
	require.NoError(t, repo.RecordSession(ctx, game.SessionEvent{SessionID: "s", Action: game.SessionReset}))

	sessions, err := repo.QuerySessions(ctx, QueryOpts{})
	require.NoError(t, err)
	attempts, err := repo.QueryAttempts(ctx, QueryOpts{})
	require.NoError(t, err)

	assert.Equal(t, int64(1), sessions[1].Sequence)
	assert.Equal(t, int64(2), attempts[0].Sequence)
	assert.Equal(t, int64(3), sessions[0].Sequence)
}

func TestLLMEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	require.NoError(t, repo.AppendLLMRequest(ctx, LLMRequestEventData{
		Provider: "anthropic", Model: "claude-haiku-4-5-20251001", Purpose: "coach",
		InputTokens: 100, OutputTokens: 20, LatencyMs: 300, Success: true,
		RequestBody: "[user]\nwhy?", ResponseBody: `{"nudge":"look again"}`,
	}))
	require.NoError(t, repo.AppendLLMRequest(ctx, LLMRequestEventData{
		Provider: "anthropic", Model: "claude-haiku-4-5-20251001", Purpose: "coach",
		InputTokens: 50, LatencyMs: 100, ErrorMessage: "rate limited",
	}))
	require.NoError(t, repo.AppendLLMRequest(ctx, LLMRequestEventData{
		Provider: "openai", Model: "gpt-4o-mini", Purpose: "explain",
		InputTokens: 10, OutputTokens: 5, LatencyMs: 50, Success: true,
	}))

	events, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 10})
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, "explain", events[0].Purpose)

	first := events[2]
	got, err := repo.GetLLMEvent(ctx, first.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, `{"nudge":"look again"}`, got.ResponseBody)
	assert.True(t, got.Success)

	missing, err := repo.GetLLMEvent(ctx, 9999)
	require.NoError(t, err)
	assert.Nil(t, missing)

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	require.NoError(t, err)
	require.Len(t, byPurpose, 2)
	assert.Equal(t, LLMUsage{
		Key: "coach", Calls: 2, Failures: 1, InputTokens: 150, OutputTokens: 20, AvgLatencyMs: 200,
	}, byPurpose[0])

	byModel, err := repo.LLMUsageByModel(ctx)
	require.NoError(t, err)
	require.Len(t, byModel, 2)
	assert.Equal(t, "gpt-4o-mini", byModel[1].Key)
	assert.Equal(t, 1, byModel[1].Calls)
}

func TestControllerWithStore(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.BestScore().Write(ctx, 9))

	cat := catalog.Default()
	bank := quiz.Concepts()
	ctl := game.New(game.DefaultConfig(), cat, quiz.NewSeeded(bank, 1), game.Deps{
		Best:   s.BestScore(),
		Events: s.EventRepo(),
	})
	defer ctl.Close()

	f := ctl.Start(ctx)
	assert.Equal(t, 9, f.Best)
	for _, id := range cat.TopologicalOrder() {
		sub, ok := bank.AnswerKey(id)
		require.True(t, ok, id)
		f = ctl.Attempt(ctx, id, sub)
	}
	require.Equal(t, game.StatusWon, f.Status)

	v, ok, err := s.BestScore().Read(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, cat.Len(), v)

	attempts, err := s.EventRepo().QueryAttempts(ctx, QueryOpts{SessionID: ctl.SessionID()})
	require.NoError(t, err)
	assert.Len(t, attempts, cat.Len())

	sessions, err := s.EventRepo().QuerySessions(ctx, QueryOpts{SessionID: ctl.SessionID()})
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, game.SessionWon, sessions[0].Action)
	assert.True(t, sessions[0].NewBest)
}

func TestDefaultDBPath(t *testing.T) {
	dir := t.TempDir()

	t.Run("env override", func(t *testing.T) {
		want := filepath.Join(dir, "custom", "x.db")
		t.Setenv("BOOTSEQ_DB", want)
		got, err := DefaultDBPath()
		require.NoError(t, err)
		assert.Equal(t, want, got)
		assert.DirExists(t, filepath.Join(dir, "custom"))
	})

	t.Run("xdg data home", func(t *testing.T) {
		t.Setenv("BOOTSEQ_DB", "")
		t.Setenv("XDG_DATA_HOME", dir)
		got, err := DefaultDBPath()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "bootseq", "bootseq.db"), got)
	})
}
