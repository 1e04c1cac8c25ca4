// Package agent wraps an analysis engine call plus response normalization
// into the two review agents: a general-purpose reviewer and a
// security-focused one.
package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/arbiterhq/arbiter/internal/engine"
	"github.com/arbiterhq/arbiter/internal/models"
	"github.com/arbiterhq/arbiter/internal/normalizer"
)

// Role selects an agent variant. The role doubles as the issue source tag.
type Role string

const (
	RoleGeneral  Role = "general"
	RoleSecurity Role = "security"
)

// Source returns the issue source tag for issues this role produces.
func (r Role) Source() models.Source {
	if r == RoleSecurity {
		return models.SourceSecurity
	}
	return models.SourcePrimary
}

// Metrics receives per-call observations. The zero implementation is a
// no-op; the CLI injects a stderr logger when verbose output is on.
type Metrics interface {
	ObserveAnalysis(role Role, duration time.Duration, issueCount int)
}

type nopMetrics struct{}

func (nopMetrics) ObserveAnalysis(Role, time.Duration, int) {}

// Agent turns (code, language) into an AnalysisResult via one engine call.
type Agent struct {
	engine    engine.Engine
	role      Role
	metrics   Metrics
	maxTokens int
}

// Option configures an Agent.
type Option func(*Agent)

// WithMetrics sets the metrics sink.
func WithMetrics(m Metrics) Option {
	return func(a *Agent) {
		if m != nil {
			a.metrics = m
		}
	}
}

// WithMaxTokens caps the engine response size.
func WithMaxTokens(n int) Option {
	return func(a *Agent) {
		a.maxTokens = n
	}
}

// New creates an agent of the given role.
func New(eng engine.Engine, role Role, opts ...Option) *Agent {
	a := &Agent{
		engine:  eng,
		role:    role,
		metrics: nopMetrics{},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Role returns the agent's role.
func (a *Agent) Role() Role { return a.role }

// Analyze runs one engine call and normalizes the response. Engine
// failures propagate unchanged in meaning; the agent never synthesizes a
// degraded result on its own.
func (a *Agent) Analyze(ctx context.Context, code, language string) (*models.AnalysisResult, error) {
	start := time.Now()

	raw, err := a.engine.Generate(ctx, userPrompt(code, language), engine.Options{
		SystemPrompt: systemPrompt(a.role),
		MaxTokens:    a.maxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("%s agent: %w", a.role, err)
	}

	result := normalizer.Normalize(raw)

	source := a.role.Source()
	for i := range result.Issues {
		result.Issues[i].Source = source
		result.Issues[i].ID = models.Fingerprint(result.Issues[i].Title, result.Issues[i].Line, source)
	}

	a.metrics.ObserveAnalysis(a.role, time.Since(start), len(result.Issues))
	return result, nil
}
