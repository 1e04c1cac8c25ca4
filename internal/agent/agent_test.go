package agent

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/arbiterhq/arbiter/internal/engine"
	"github.com/arbiterhq/arbiter/internal/engine/enginetest"
	"github.com/arbiterhq/arbiter/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureMetrics struct {
	role   Role
	count  int
	called bool
}

func (m *captureMetrics) ObserveAnalysis(role Role, _ time.Duration, issueCount int) {
	m.role = role
	m.count = issueCount
	m.called = true
}

func TestAnalyzeTagsSource(t *testing.T) {
	mock := &enginetest.Mock{
		GenerateFunc: func(_ context.Context, _ string, _ engine.Options) (string, error) {
			return `{"issues":[{"title":"Hardcoded credential","severity":"critical","kind":"security"}],"confidence":95}`, nil
		},
	}

	a := New(mock, RoleSecurity)
	result, err := a.Analyze(context.Background(), "password := \"hunter2\"", "go")
	require.NoError(t, err)

	require.Len(t, result.Issues, 1)
	assert.Equal(t, models.SourceSecurity, result.Issues[0].Source)
	assert.Equal(t, 95, result.Confidence)
}

func TestAnalyzeBuildsPrompts(t *testing.T) {
	mock := &enginetest.Mock{
		GenerateFunc: func(_ context.Context, _ string, _ engine.Options) (string, error) {
			return "no findings", nil
		},
	}

	a := New(mock, RoleGeneral, WithMaxTokens(2048))
	_, err := a.Analyze(context.Background(), "func main() {}", "go")
	require.NoError(t, err)

	calls := mock.Calls()
	require.Len(t, calls, 1)
	assert.Contains(t, calls[0].Prompt, "func main() {}")
	assert.Contains(t, calls[0].Prompt, "go code")
	assert.Contains(t, calls[0].Opts.SystemPrompt, "code reviewer")
	assert.Equal(t, 2048, calls[0].Opts.MaxTokens)
}

func TestAnalyzeEngineFailurePropagates(t *testing.T) {
	wantErr := errors.New("connection refused")
	mock := &enginetest.Mock{
		GenerateFunc: func(_ context.Context, _ string, _ engine.Options) (string, error) {
			return "", wantErr
		},
	}

	a := New(mock, RoleGeneral)
	result, err := a.Analyze(context.Background(), "code", "go")

	assert.Nil(t, result)
	require.Error(t, err)
	assert.True(t, errors.Is(err, wantErr))
}

func TestAnalyzeEmitsMetrics(t *testing.T) {
	mock := &enginetest.Mock{
		GenerateFunc: func(_ context.Context, _ string, _ engine.Options) (string, error) {
			return `{"issues":[{"title":"a"},{"title":"b"}],"confidence":80}`, nil
		},
	}

	metrics := &captureMetrics{}
	a := New(mock, RoleGeneral, WithMetrics(metrics))
	_, err := a.Analyze(context.Background(), "code", "go")
	require.NoError(t, err)

	assert.True(t, metrics.called)
	assert.Equal(t, RoleGeneral, metrics.role)
	assert.Equal(t, 2, metrics.count)
}

func TestRoleSystemPrompts(t *testing.T) {
	if !strings.Contains(systemPrompt(RoleSecurity), "security") {
		t.Error("security system prompt should mention security")
	}
	if systemPrompt(RoleGeneral) == systemPrompt(RoleSecurity) {
		t.Error("roles should use distinct system prompts")
	}
}

func TestRoleSource(t *testing.T) {
	assert.Equal(t, models.SourcePrimary, RoleGeneral.Source())
	assert.Equal(t, models.SourceSecurity, RoleSecurity.Source())
}
