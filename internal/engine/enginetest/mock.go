// Package enginetest provides a scriptable Engine for tests.
package enginetest

import (
	"context"
	"sync"

	"github.com/arbiterhq/arbiter/internal/engine"
)

// Call records one Generate invocation.
type Call struct {
	Prompt string
	Opts   engine.Options
}

// Mock is a function-backed Engine that records its calls.
type Mock struct {
	GenerateFunc func(ctx context.Context, prompt string, opts engine.Options) (string, error)

	mu    sync.Mutex
	calls []Call
}

var _ engine.Engine = (*Mock)(nil)

func (m *Mock) Name() string { return "mock" }

func (m *Mock) Generate(ctx context.Context, prompt string, opts engine.Options) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, Call{Prompt: prompt, Opts: opts})
	m.mu.Unlock()

	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, prompt, opts)
	}
	return "", nil
}

// Calls returns a copy of the recorded calls.
func (m *Mock) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Call, len(m.calls))
	copy(out, m.calls)
	return out
}

// CallCount returns how many times Generate was invoked.
func (m *Mock) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}
