package reviewer

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arbiterhq/arbiter/internal/engine"
	"github.com/arbiterhq/arbiter/internal/engine/enginetest"
	"github.com/arbiterhq/arbiter/internal/models"
)

type recordingObserver struct {
	mu    sync.Mutex
	total int
	done  []string
	ended bool
}

func (o *recordingObserver) Begin(total int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.total = total
}

func (o *recordingObserver) FileDone(path string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.done = append(o.done, path)
}

func (o *recordingObserver) End() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.ended = true
}

func cleanEngine() *enginetest.Mock {
	return &enginetest.Mock{
		GenerateFunc: func(_ context.Context, _ string, _ engine.Options) (string, error) {
			return cleanResponse, nil
		},
	}
}

func TestReviewFolderAggregates(t *testing.T) {
	tmp := t.TempDir()
	writeFile(t, tmp, "a.go", "package a\nfunc A() {}\n")
	writeFile(t, tmp, "b.go", "package b\n")

	obs := &recordingObserver{}
	r := New(cleanEngine(), WithObserver(obs))

	report, err := r.ReviewFolder(context.Background(), tmp)
	require.NoError(t, err)

	assert.Equal(t, 2, report.FolderInfo.TotalFiles)
	assert.Equal(t, 3, report.FolderInfo.TotalLines)
	assert.Equal(t, 0, report.FolderInfo.TotalIssues)
	assert.Equal(t, 0, report.RiskScore)
	assert.Empty(t, report.FilesByRisk)

	require.Len(t, report.Recommendations, 1)
	assert.Equal(t, "Healthy", report.Recommendations[0].Title)

	assert.Equal(t, 2, obs.total)
	assert.Len(t, obs.done, 2)
	assert.True(t, obs.ended)

	// Per-file confidence is the unweighted mean of both agents.
	for _, f := range report.Files {
		assert.Equal(t, 95, f.Confidence)
	}
}

func TestReviewFolderFileLimitDeclinedWithoutConfirm(t *testing.T) {
	tmp := t.TempDir()
	for _, name := range []string{"a.go", "b.go", "c.go"} {
		writeFile(t, tmp, name, "package x\n")
	}

	r := New(cleanEngine(), WithFileLimit(2))
	_, err := r.ReviewFolder(context.Background(), tmp)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "declined")
}

func TestReviewFolderFileLimitConfirmed(t *testing.T) {
	tmp := t.TempDir()
	for _, name := range []string{"a.go", "b.go", "c.go"} {
		writeFile(t, tmp, name, "package x\n")
	}

	var asked int
	r := New(cleanEngine(), WithFileLimit(2), WithConfirm(func(files int) bool {
		asked = files
		return true
	}))

	report, err := r.ReviewFolder(context.Background(), tmp)
	require.NoError(t, err)
	assert.Equal(t, 3, asked)
	assert.Equal(t, 3, report.FolderInfo.TotalFiles)
}

func TestReviewFolderFileUnreadable(t *testing.T) {
	r := New(cleanEngine())

	summary := r.reviewFolderFile(context.Background(), "/tmp", filepath.Join(t.TempDir(), "missing.go"))
	assert.NotEmpty(t, summary.Error)
	assert.NotNil(t, summary.Issues)
	assert.Empty(t, summary.Issues)
}

func TestReviewFolderCancellation(t *testing.T) {
	tmp := t.TempDir()
	writeFile(t, tmp, "a.go", "package a\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := New(cleanEngine())
	_, err := r.ReviewFolder(ctx, tmp)
	require.ErrorIs(t, err, context.Canceled)
}

func TestBuildFolderReportRecommendations(t *testing.T) {
	summary := func(c models.SeverityCounts) models.FileSummary {
		issues := make([]models.Issue, 0, c.Total())
		return models.FileSummary{Path: "f.go", Counts: c, Issues: issues}
	}

	t.Run("critical issues flag urgent", func(t *testing.T) {
		report := buildFolderReport("src", []models.FileSummary{
			summary(models.SeverityCounts{Critical: 2}),
		})
		require.NotEmpty(t, report.Recommendations)
		assert.Equal(t, "Urgent", report.Recommendations[0].Title)
	})

	t.Run("many high issues flag prioritize", func(t *testing.T) {
		report := buildFolderReport("src", []models.FileSummary{
			summary(models.SeverityCounts{High: 6}),
		})
		var titles []string
		for _, rec := range report.Recommendations {
			titles = append(titles, rec.Title)
		}
		assert.Contains(t, titles, "Prioritize")
	})

	t.Run("unreadable files excluded from risk", func(t *testing.T) {
		report := buildFolderReport("src", []models.FileSummary{
			{Path: "bad.go", Error: "permission denied", Issues: []models.Issue{}},
			summary(models.SeverityCounts{}),
		})
		assert.Equal(t, 2, report.FolderInfo.TotalFiles)
		assert.Equal(t, 0, report.RiskScore)
	})
}

func TestRankFilesOrdersByWeight(t *testing.T) {
	ranked := rankFiles([]models.FileSummary{
		{Path: "low.go", Counts: models.SeverityCounts{Medium: 1}},
		{Path: "clean.go"},
		{Path: "hot.go", Counts: models.SeverityCounts{Critical: 1, High: 1}},
	})

	require.Len(t, ranked, 2)
	assert.Equal(t, "hot.go", ranked[0].Path)
	assert.Equal(t, 15, ranked[0].Weight)
	assert.Equal(t, "low.go", ranked[1].Path)
}

func TestCountLines(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"one line", 1},
		{"a\nb\n", 2},
		{"a\nb", 2},
	}
	for _, tt := range tests {
		if got := countLines(tt.in); got != tt.want {
			t.Errorf("countLines(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestReviewFolderEmptyDir(t *testing.T) {
	r := New(&enginetest.Mock{})
	report, err := r.ReviewFolder(context.Background(), t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, 0, report.FolderInfo.TotalFiles)
	assert.Equal(t, 0, report.RiskScore)
}

func TestReviewFolderSkipsNonSource(t *testing.T) {
	tmp := t.TempDir()
	writeFile(t, tmp, "a.go", "package a\n")
	require.NoError(t, os.WriteFile(filepath.Join(tmp, "README.md"), []byte("# docs\n"), 0o644))

	r := New(cleanEngine())
	report, err := r.ReviewFolder(context.Background(), tmp)
	require.NoError(t, err)
	assert.Equal(t, 1, report.FolderInfo.TotalFiles)
}
