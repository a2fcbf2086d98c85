package llm

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

const mockModel = "mock"

// MockResponse is one scripted answer. Delay holds the answer back, and a
// context that ends first wins.
type MockResponse struct {
	Content json.RawMessage
	Usage   Usage
	Err     error
	Delay   time.Duration
}

// MockProvider replays scripted answers in order and records every request
// with its purpose tag. Once the script runs out it answers with Fallback,
// or reports the provider as unavailable when Fallback is nil.
type MockProvider struct {
	Fallback json.RawMessage

	mu       sync.Mutex
	script   []MockResponse
	Calls    []Request
	Purposes []string
}

// NewMockProvider returns a MockProvider that plays script.
func NewMockProvider(script ...MockResponse) *MockProvider {
	return &MockProvider{script: script}
}

func (m *MockProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	next, ok := m.record(ctx, req)
	if !ok {
		return nil, &ErrProviderUnavailable{}
	}

	if next.Delay > 0 {
		if err := sleepCtx(ctx, next.Delay); err != nil {
			return nil, err
		}
	}
	if next.Err != nil {
		return nil, next.Err
	}
	if err := validateResponse(req.Schema, next.Content); err != nil {
		return nil, err
	}
	return &Response{
		Content:    next.Content,
		Usage:      next.Usage,
		Model:      mockModel,
		StopReason: StopEnd,
	}, nil
}

// record logs the call and pops the next scripted answer.
func (m *MockProvider) record(ctx context.Context, req Request) (MockResponse, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, req)
	m.Purposes = append(m.Purposes, PurposeFrom(ctx))

	if len(m.script) > 0 {
		next := m.script[0]
		m.script = m.script[1:]
		return next, true
	}
	if m.Fallback != nil {
		return MockResponse{Content: m.Fallback}, true
	}
	return MockResponse{}, false
}

func (m *MockProvider) ModelID() string { return mockModel }

// AddResponse appends to the script.
func (m *MockProvider) AddResponse(resp MockResponse) {
	m.mu.Lock()
	m.script = append(m.script, resp)
	m.mu.Unlock()
}

// CallCount returns the number of Generate calls made.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
