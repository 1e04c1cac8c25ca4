package models

import "sort"

// Metadata describes one file review run.
type Metadata struct {
	Path       string `json:"path,omitempty"`
	Language   string `json:"language"`
	DurationMs int64  `json:"duration_ms"`
	Confidence int    `json:"confidence"`
	Iterations int    `json:"iterations"`
}

// SeverityCounts holds per-severity issue counts.
type SeverityCounts struct {
	Critical int `json:"critical"`
	High     int `json:"high"`
	Medium   int `json:"medium"`
	Low      int `json:"low"`
}

// Total returns the sum across all severities.
func (c SeverityCounts) Total() int {
	return c.Critical + c.High + c.Medium + c.Low
}

// CountBySeverity tallies issues into a SeverityCounts histogram.
func CountBySeverity(issues []Issue) SeverityCounts {
	var c SeverityCounts
	for _, issue := range issues {
		switch issue.Severity {
		case SeverityCritical:
			c.Critical++
		case SeverityHigh:
			c.High++
		case SeverityLow:
			c.Low++
		default:
			c.Medium++
		}
	}
	return c
}

// ReportSummary aggregates issue counts and the derived risk score.
type ReportSummary struct {
	Counts    SeverityCounts `json:"counts"`
	RiskScore int            `json:"risk_score"`
}

// Report is the terminal artifact for one file review.
type Report struct {
	Metadata Metadata      `json:"metadata"`
	Summary  ReportSummary `json:"summary"`
	Issues   []Issue       `json:"issues"`
}

// FileSummary is one file's entry in a folder report. Error is set when
// the file could not be read; its issue list is empty in that case.
type FileSummary struct {
	Path       string         `json:"path"`
	Language   string         `json:"language,omitempty"`
	Lines      int            `json:"lines"`
	Counts     SeverityCounts `json:"counts"`
	Confidence int            `json:"confidence"`
	Issues     []Issue        `json:"issues"`
	Error      string         `json:"error,omitempty"`
}

// RankWeight is the folder ranking weight for a file (critical*10 + high*5 + medium).
func (f FileSummary) RankWeight() int {
	return f.Counts.Critical*10 + f.Counts.High*5 + f.Counts.Medium
}

// FolderInfo describes the corpus a folder review walked.
type FolderInfo struct {
	Path        string `json:"path"`
	TotalFiles  int    `json:"total_files"`
	TotalLines  int    `json:"total_lines"`
	TotalIssues int    `json:"total_issues"`
}

// RankedFile pairs a file path with its ranking weight for display.
type RankedFile struct {
	Path   string `json:"path"`
	Weight int    `json:"weight"`
	Counts SeverityCounts `json:"counts"`
}

// Recommendation is a rule-derived remediation note.
type Recommendation struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// FolderReport aggregates many file reviews.
type FolderReport struct {
	FolderInfo      FolderInfo       `json:"folder_info"`
	Files           []FileSummary    `json:"files"`
	RiskScore       int              `json:"risk_score"`
	FilesByRisk     []RankedFile     `json:"files_by_risk"`
	Recommendations []Recommendation `json:"recommendations"`
}

// SortIssues orders issues by severity, critical first, keeping discovery
// order within a severity. This is the single sort used by report builders;
// renderers must not re-derive their own ordering.
func SortIssues(issues []Issue) {
	sort.SliceStable(issues, func(i, j int) bool {
		return issues[i].Severity.Rank() < issues[j].Severity.Rank()
	})
}
