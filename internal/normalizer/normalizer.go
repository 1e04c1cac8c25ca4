// Package normalizer converts raw model output into structured analysis
// results. It never fails: structured JSON is preferred, a heuristic line
// parser recovers everything else.
package normalizer

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/arbiterhq/arbiter/internal/models"
)

// FallbackConfidence is assigned whenever the heuristic path runs or a
// structured payload omits confidence. Deliberately low-trust so callers
// can tell heuristic extraction from structured extraction.
const FallbackConfidence = 70

const (
	maxTitleLen       = 100
	maxSynthDescLen   = 500
	minDescriptionLen = 10
)

var (
	fencedBlockRe = regexp.MustCompile("(?s)```(?:[a-zA-Z0-9]*)\\s*\\n(.*?)```")
	severityRe    = regexp.MustCompile(`(?i)\b(critical|high|medium|low)\b`)
)

// payloadIssue mirrors the JSON shape agents are prompted to produce.
type payloadIssue struct {
	Kind        string `json:"kind"`
	Severity    string `json:"severity"`
	Line        int    `json:"line"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Suggestion  string `json:"suggestion"`
}

type payload struct {
	Issues     []payloadIssue `json:"issues"`
	Confidence *int           `json:"confidence"`
	Summary    string         `json:"summary"`
}

// Normalize converts raw model text into an AnalysisResult. It always
// returns a result with at least one issue and a confidence in [0,100].
func Normalize(raw string) *models.AnalysisResult {
	// Fenced JSON block first, then the whole input.
	for _, candidate := range jsonCandidates(raw) {
		if result := parseStructured(candidate); result != nil {
			return result
		}
	}

	if result := parseHeuristic(raw); result != nil {
		return result
	}

	return synthesize(raw)
}

// jsonCandidates returns JSON texts to try, in priority order: every fenced
// code block, then the trimmed input itself.
func jsonCandidates(raw string) []string {
	var candidates []string
	for _, m := range fencedBlockRe.FindAllStringSubmatch(raw, -1) {
		candidates = append(candidates, strings.TrimSpace(m[1]))
	}
	candidates = append(candidates, strings.TrimSpace(raw))
	return candidates
}

// parseStructured attempts to interpret text as a structured analysis
// payload. Returns nil if the text is not valid JSON, fails schema
// validation, or carries no issues.
func parseStructured(text string) *models.AnalysisResult {
	if !strings.HasPrefix(text, "{") {
		return nil
	}
	if !validPayload(text) {
		return nil
	}

	var p payload
	if err := json.Unmarshal([]byte(text), &p); err != nil {
		return nil
	}
	if len(p.Issues) == 0 {
		return nil
	}

	issues := make([]models.Issue, 0, len(p.Issues))
	for _, pi := range p.Issues {
		line := pi.Line
		if line < 0 {
			line = 0
		}
		issue := models.Issue{
			Kind:        models.ParseKind(pi.Kind),
			Severity:    models.ParseSeverity(pi.Severity),
			Line:        line,
			Title:       pi.Title,
			Description: pi.Description,
			Suggestion:  pi.Suggestion,
		}
		issue.ID = models.Fingerprint(issue.Title, issue.Line, issue.Source)
		issues = append(issues, issue)
	}

	confidence := FallbackConfidence
	if p.Confidence != nil {
		confidence = clampConfidence(*p.Confidence)
	}

	summary := p.Summary
	if summary == "" {
		summary = completedSummary(len(issues))
	}

	return &models.AnalysisResult{
		Issues:     issues,
		Confidence: confidence,
		Summary:    summary,
	}
}

// parseHeuristic scans lines for severity keywords. Each keyword line opens
// a new issue; subsequent non-trivial lines extend its description. Returns
// nil when no severity keyword appears anywhere.
func parseHeuristic(raw string) *models.AnalysisResult {
	var issues []models.Issue
	var current *models.Issue
	var descParts []string

	flush := func() {
		if current == nil {
			return
		}
		current.Description = strings.Join(descParts, " ")
		current.ID = models.Fingerprint(current.Title, current.Line, current.Source)
		issues = append(issues, *current)
		current = nil
		descParts = nil
	}

	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(line)
		matches := severityRe.FindAllString(trimmed, -1)
		if len(matches) > 0 {
			flush()
			current = &models.Issue{
				Kind:     models.KindGeneral,
				Severity: severityFromMatches(matches),
				Title:    truncate(trimmed, maxTitleLen),
			}
			continue
		}
		if current != nil && len(trimmed) > minDescriptionLen {
			descParts = append(descParts, trimmed)
		}
	}
	flush()

	if len(issues) == 0 {
		return nil
	}

	return &models.AnalysisResult{
		Issues:     issues,
		Confidence: FallbackConfidence,
		Summary:    completedSummary(len(issues)),
	}
}

// severityFromMatches picks the severity for a heuristic issue. A line
// naming more than one distinct severity is ambiguous and defaults to
// medium.
func severityFromMatches(matches []string) models.Severity {
	first := models.ParseSeverity(matches[0])
	for _, m := range matches[1:] {
		if models.ParseSeverity(m) != first {
			return models.SeverityMedium
		}
	}
	return first
}

// synthesize produces the single catch-all issue for text containing no
// severity keywords at all.
func synthesize(raw string) *models.AnalysisResult {
	issue := models.Issue{
		Kind:        models.KindGeneral,
		Severity:    models.SeverityMedium,
		Title:       "Code Analysis",
		Description: truncate(strings.TrimSpace(raw), maxSynthDescLen),
	}
	issue.ID = models.Fingerprint(issue.Title, issue.Line, issue.Source)

	return &models.AnalysisResult{
		Issues:     []models.Issue{issue},
		Confidence: FallbackConfidence,
		Summary:    completedSummary(1),
	}
}

func completedSummary(n int) string {
	return fmt.Sprintf("Analysis completed (%d issue(s) found)", n)
}

func clampConfidence(c int) int {
	if c < 0 {
		return 0
	}
	if c > 100 {
		return 100
	}
	return c
}

// truncate cuts s to at most n characters, never splitting a rune.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
