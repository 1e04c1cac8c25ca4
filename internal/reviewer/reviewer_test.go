package reviewer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arbiterhq/arbiter/internal/cache"
	"github.com/arbiterhq/arbiter/internal/engine"
	"github.com/arbiterhq/arbiter/internal/engine/enginetest"
	"github.com/arbiterhq/arbiter/internal/models"
)

const cleanResponse = `{"issues": [], "confidence": 95, "summary": "clean"}`

func issueResponse(title, severity string) string {
	return `{"issues": [{"title": "` + title + `", "severity": "` + severity + `", "line": 3}], "confidence": 90, "summary": "found"}`
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReviewSourceEmptyFileShortCircuits(t *testing.T) {
	mock := &enginetest.Mock{}
	r := New(mock)

	report, err := r.ReviewSource(context.Background(), "empty.go", "  \n\t\n", "go")
	require.NoError(t, err)

	assert.Equal(t, 100, report.Metadata.Confidence)
	assert.Empty(t, report.Issues)
	assert.Equal(t, 0, report.Summary.RiskScore)
	assert.Equal(t, 0, mock.CallCount(), "empty input must not reach the engine")
}

func TestReviewFileBuildsReport(t *testing.T) {
	mock := &enginetest.Mock{
		GenerateFunc: func(_ context.Context, _ string, opts engine.Options) (string, error) {
			if strings.Contains(opts.SystemPrompt, "security") {
				return issueResponse("Hardcoded credential", "critical"), nil
			}
			return issueResponse("Unchecked error", "medium"), nil
		},
	}
	r := New(mock)

	path := writeFile(t, t.TempDir(), "main.go", "package main\n")
	report, err := r.ReviewFile(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, "go", report.Metadata.Language)
	assert.Equal(t, 90, report.Metadata.Confidence)
	assert.Equal(t, 2, mock.CallCount(), "one call per agent, no second pass at high confidence")

	// Sorted critical first.
	require.Len(t, report.Issues, 2)
	assert.Equal(t, "Hardcoded credential", report.Issues[0].Title)
	assert.Equal(t, models.SourceSecurity, report.Issues[0].Source)

	assert.Equal(t, models.SeverityCounts{Critical: 1, Medium: 1}, report.Summary.Counts)
	assert.Equal(t, 50, report.Summary.RiskScore)
}

func TestReviewFileCacheHitSkipsEngine(t *testing.T) {
	mock := &enginetest.Mock{
		GenerateFunc: func(_ context.Context, _ string, _ engine.Options) (string, error) {
			return cleanResponse, nil
		},
	}
	c, err := cache.New(t.TempDir(), 1, true)
	require.NoError(t, err)
	r := New(mock, WithCache(c, "model-a"))

	path := writeFile(t, t.TempDir(), "main.go", "package main\n")

	first, err := r.ReviewFile(context.Background(), path)
	require.NoError(t, err)
	calls := mock.CallCount()
	assert.Equal(t, 2, calls)

	second, err := r.ReviewFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, calls, mock.CallCount(), "cache hit must not call the engine")
	assert.Equal(t, first.Summary, second.Summary)
}

func TestAnalyzeBothIsolatesSingleAgentFailure(t *testing.T) {
	mock := &enginetest.Mock{
		GenerateFunc: func(_ context.Context, _ string, opts engine.Options) (string, error) {
			if strings.Contains(opts.SystemPrompt, "security") {
				return "", errors.New("boom")
			}
			return issueResponse("Unchecked error", "high"), nil
		},
	}
	r := New(mock)

	report, err := r.ReviewSource(context.Background(), "main.go", "package main", "go")
	require.NoError(t, err)

	// The failing agent degrades to an empty zero-confidence result; the
	// surviving agent's finding is kept.
	require.Len(t, report.Issues, 1)
	assert.Equal(t, "Unchecked error", report.Issues[0].Title)
}

func TestReviewSourceSecondPassReportSorted(t *testing.T) {
	mock := &enginetest.Mock{
		GenerateFunc: func(_ context.Context, _ string, opts engine.Options) (string, error) {
			if strings.Contains(opts.SystemPrompt, "skeptical") {
				return `{
					"verifiedIssues": [
						{"original": "Naming nit", "verified": true},
						{"original": "Sloppy comment", "verified": true}
					],
					"newIssues": [{"title": "Injection", "severity": "critical", "line": 7}],
					"confidence": 85
				}`, nil
			}
			return `{"issues": [{"title": "Naming nit", "severity": "low", "line": 1}, {"title": "Sloppy comment", "severity": "low", "line": 9}], "confidence": 40, "summary": "minor"}`, nil
		},
	}
	r := New(mock)

	report, err := r.ReviewSource(context.Background(), "main.go", "package main", "go")
	require.NoError(t, err)

	// Low combined confidence triggers the verification pass; the report
	// must still come out severity-sorted even though the new critical
	// issue is appended last during reconciliation.
	require.Len(t, report.Issues, 5)
	assert.Equal(t, "Injection", report.Issues[0].Title)
	assert.Equal(t, models.SeverityCritical, report.Issues[0].Severity)
	for i := 1; i < len(report.Issues); i++ {
		assert.GreaterOrEqual(t,
			report.Issues[i].Severity.Rank(),
			report.Issues[i-1].Severity.Rank(),
			"issue %d out of order", i)
	}
	assert.Equal(t, models.SeverityCounts{Critical: 1, Low: 4}, report.Summary.Counts)
}

func TestReviewSourceBothAgentsFailing(t *testing.T) {
	mock := &enginetest.Mock{
		GenerateFunc: func(_ context.Context, _ string, _ engine.Options) (string, error) {
			return "", errors.New("model unavailable")
		},
	}
	r := New(mock)

	_, err := r.ReviewSource(context.Background(), "main.go", "package main", "go")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model unavailable")
}

func TestReviewFileUnreadable(t *testing.T) {
	r := New(&enginetest.Mock{})
	_, err := r.ReviewFile(context.Background(), filepath.Join(t.TempDir(), "missing.go"))
	require.Error(t, err)
}
