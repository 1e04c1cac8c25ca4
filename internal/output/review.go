package output

import (
	"fmt"
	"strings"

	"github.com/arbiterhq/arbiter/internal/models"
)

// FileDocument builds the renderable for a single file review. JSON and
// TOON serialize the report itself; text and markdown get composed
// sections.
func FileDocument(report *models.Report) *Document {
	doc := &Document{
		Title: fmt.Sprintf("Review: %s", report.Metadata.Path),
		Data:  report,
	}

	doc.Sections = append(doc.Sections, &Section{
		Title: "Summary",
		Content: fmt.Sprintf(
			"Language: %s\nIssues: %d (critical %d, high %d, medium %d, low %d)\nRisk score: %d/100\nConfidence: %d%%\nIterations: %d\nDuration: %dms",
			report.Metadata.Language,
			report.Summary.Counts.Total(),
			report.Summary.Counts.Critical,
			report.Summary.Counts.High,
			report.Summary.Counts.Medium,
			report.Summary.Counts.Low,
			report.Summary.RiskScore,
			report.Metadata.Confidence,
			report.Metadata.Iterations,
			report.Metadata.DurationMs,
		),
	})

	if len(report.Issues) > 0 {
		doc.Sections = append(doc.Sections, issueTable("Issues", report.Issues))
	} else {
		doc.Sections = append(doc.Sections, &Section{
			Title:   "Issues",
			Content: "No issues found.",
		})
	}

	return doc
}

// FolderDocument builds the renderable for a folder review.
func FolderDocument(report *models.FolderReport) *Document {
	doc := &Document{
		Title: fmt.Sprintf("Folder review: %s", report.FolderInfo.Path),
		Data:  report,
	}

	doc.Sections = append(doc.Sections, &Section{
		Title: "Summary",
		Content: fmt.Sprintf(
			"Files: %d\nLines: %d\nIssues: %d\nRisk score: %d/100",
			report.FolderInfo.TotalFiles,
			report.FolderInfo.TotalLines,
			report.FolderInfo.TotalIssues,
			report.RiskScore,
		),
	})

	if len(report.FilesByRisk) > 0 {
		rows := make([][]string, 0, len(report.FilesByRisk))
		for _, rf := range report.FilesByRisk {
			rows = append(rows, []string{
				rf.Path,
				fmt.Sprintf("%d", rf.Weight),
				fmt.Sprintf("%d/%d/%d/%d", rf.Counts.Critical, rf.Counts.High, rf.Counts.Medium, rf.Counts.Low),
			})
		}
		doc.Sections = append(doc.Sections, &Table{
			Title:   "Files by risk",
			Headers: []string{"File", "Weight", "C/H/M/L"},
			Rows:    rows,
		})
	}

	var failed []string
	for _, f := range report.Files {
		if f.Error != "" {
			failed = append(failed, fmt.Sprintf("%s: %s", f.Path, f.Error))
		}
	}
	if len(failed) > 0 {
		doc.Sections = append(doc.Sections, &Section{
			Title:   "Skipped files",
			Content: strings.Join(failed, "\n"),
		})
	}

	if len(report.Recommendations) > 0 {
		lines := make([]string, 0, len(report.Recommendations))
		for _, rec := range report.Recommendations {
			lines = append(lines, fmt.Sprintf("%s: %s", rec.Title, rec.Description))
		}
		doc.Sections = append(doc.Sections, &Section{
			Title:   "Recommendations",
			Content: strings.Join(lines, "\n"),
		})
	}

	return doc
}

func issueTable(title string, issues []models.Issue) *Table {
	rows := make([][]string, 0, len(issues))
	for _, issue := range issues {
		line := ""
		if issue.Line > 0 {
			line = fmt.Sprintf("%d", issue.Line)
		}
		rows = append(rows, []string{
			string(issue.Severity),
			line,
			issue.Title,
			string(issue.Source),
		})
	}
	return &Table{
		Title:   title,
		Headers: []string{"Severity", "Line", "Title", "Source"},
		Rows:    rows,
	}
}
