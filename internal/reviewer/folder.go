package reviewer

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sourcegraph/conc/pool"

	"github.com/arbiterhq/arbiter/internal/cache"
	"github.com/arbiterhq/arbiter/internal/models"
	"github.com/arbiterhq/arbiter/internal/scanner"
)

// ReviewFolder reviews every reviewable file under root. Files run
// through the two agents only; the self-correction pass is a
// single-file feature and is skipped at folder scale.
func (r *Reviewer) ReviewFolder(ctx context.Context, root string) (*models.FolderReport, error) {
	files, err := r.scanner.ScanDir(root)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", root, err)
	}

	if r.fileLimit > 0 && len(files) > r.fileLimit {
		if r.confirm == nil || !r.confirm(len(files)) {
			return nil, fmt.Errorf("folder has %d reviewable files (limit %d), review declined", len(files), r.fileLimit)
		}
	}

	r.observer.Begin(len(files))
	defer r.observer.End()

	summaries := make([]models.FileSummary, len(files))
	p := pool.New().WithMaxGoroutines(r.concurrency)
	for i, path := range files {
		if ctx.Err() != nil {
			break
		}
		i, path := i, path
		p.Go(func() {
			summaries[i] = r.reviewFolderFile(ctx, root, path)
			r.observer.FileDone(path)
		})
	}
	p.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return buildFolderReport(root, summaries), nil
}

// reviewFolderFile produces one file's summary. Failures never abort the
// folder run: unreadable files are recorded with an error, and a failing
// agent contributes an empty zero-confidence result.
func (r *Reviewer) reviewFolderFile(ctx context.Context, root, path string) models.FileSummary {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}

	code, err := os.ReadFile(path)
	if err != nil {
		return models.FileSummary{
			Path:   rel,
			Error:  err.Error(),
			Issues: []models.Issue{},
		}
	}

	language := scanner.DetectLanguage(path)
	lines := countLines(string(code))

	var hash string
	if r.cache != nil {
		hash = cache.HashBytes(code)
		if data, ok := r.cache.Get(folderKey(path, r.model), hash); ok {
			var summary models.FileSummary
			if err := json.Unmarshal(data, &summary); err == nil {
				return summary
			}
		}
	}

	summary := models.FileSummary{
		Path:     rel,
		Language: language,
		Lines:    lines,
		Issues:   []models.Issue{},
	}

	if strings.TrimSpace(string(code)) == "" {
		summary.Confidence = 100
		return summary
	}

	primary, security, err := r.analyzeBoth(ctx, string(code), language)
	if err != nil {
		primary, security = emptyResult(), emptyResult()
	}

	issues := make([]models.Issue, 0, len(primary.Issues)+len(security.Issues))
	issues = append(issues, primary.Issues...)
	issues = append(issues, security.Issues...)
	models.SortIssues(issues)

	summary.Issues = issues
	summary.Counts = models.CountBySeverity(issues)
	summary.Confidence = r.aggregator.Combine([]int{primary.Confidence, security.Confidence})

	if r.cache != nil {
		if data, err := json.Marshal(summary); err == nil {
			r.cache.Set(folderKey(path, r.model), hash, data)
		}
	}
	return summary
}

// folderKey separates folder-scale entries from single-file ones, which
// include the validator pass and are not interchangeable.
func folderKey(path, model string) string {
	return cache.Key(path, model) + "|folder"
}

func countLines(code string) int {
	if code == "" {
		return 0
	}
	n := strings.Count(code, "\n")
	if !strings.HasSuffix(code, "\n") {
		n++
	}
	return n
}

func buildFolderReport(root string, summaries []models.FileSummary) *models.FolderReport {
	var total models.SeverityCounts
	var totalLines, totalIssues, analyzed int

	for _, s := range summaries {
		if s.Error != "" {
			continue
		}
		analyzed++
		totalLines += s.Lines
		totalIssues += s.Counts.Total()
		total.Critical += s.Counts.Critical
		total.High += s.Counts.High
		total.Medium += s.Counts.Medium
		total.Low += s.Counts.Low
	}

	return &models.FolderReport{
		FolderInfo: models.FolderInfo{
			Path:        root,
			TotalFiles:  len(summaries),
			TotalLines:  totalLines,
			TotalIssues: totalIssues,
		},
		Files:           summaries,
		RiskScore:       models.FolderRiskScore(total, analyzed),
		FilesByRisk:     rankFiles(summaries),
		Recommendations: recommendations(total, totalIssues, analyzed),
	}
}

// rankFiles orders files by descending rank weight, dropping clean ones.
func rankFiles(summaries []models.FileSummary) []models.RankedFile {
	ranked := make([]models.RankedFile, 0, len(summaries))
	for _, s := range summaries {
		if w := s.RankWeight(); w > 0 {
			ranked = append(ranked, models.RankedFile{
				Path:   s.Path,
				Weight: w,
				Counts: s.Counts,
			})
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Weight > ranked[j].Weight
	})
	return ranked
}

func recommendations(total models.SeverityCounts, totalIssues, analyzed int) []models.Recommendation {
	var recs []models.Recommendation

	if total.Critical > 0 {
		recs = append(recs, models.Recommendation{
			Title:       "Urgent",
			Description: fmt.Sprintf("Address %d critical issue(s) before merging or deploying", total.Critical),
		})
	}
	if total.High > 5 {
		recs = append(recs, models.Recommendation{
			Title:       "Prioritize",
			Description: fmt.Sprintf("%d high-severity issues found, schedule focused remediation", total.High),
		})
	}
	if analyzed > 0 && float64(totalIssues)/float64(analyzed) > 5 {
		recs = append(recs, models.Recommendation{
			Title:       "Process",
			Description: "Issue density is high, consider stricter review gates for this area",
		})
	}
	if totalIssues == 0 {
		recs = append(recs, models.Recommendation{
			Title:       "Healthy",
			Description: "No issues found across the reviewed files",
		})
	}
	return recs
}
