package validator

import (
	"strings"

	"github.com/arbiterhq/arbiter/internal/models"
)

// Reconcile merges first-pass issues with a second pass's verification
// records and newly discovered issues.
//
// Matching is a case-insensitive substring check of the first-pass title
// inside the record's original text, first match wins. Titles are not
// stable identifiers, so zero or multiple matches are possible; the
// first-match policy resolves ambiguity silently. An unmatched issue is
// kept untouched. A matched record keeps or drops the issue by its
// verdict, may correct the severity, and stamps the verification outcome.
//
// Output order: kept first-pass issues in original order, then new issues
// in discovery order. Severity sorting happens in the report builder.
func Reconcile(firstPass []models.Issue, verified []models.VerificationRecord, newIssues []models.Issue) []models.Issue {
	out := make([]models.Issue, 0, len(firstPass)+len(newIssues))

	for _, issue := range firstPass {
		rec, found := matchRecord(issue, verified)
		if !found {
			out = append(out, issue)
			continue
		}
		if !rec.Verified {
			continue
		}

		if rec.CorrectedSeverity != "" {
			issue.Severity = rec.CorrectedSeverity
		}
		v := true
		issue.Verified = &v
		issue.VerificationNotes = rec.Reason
		out = append(out, issue)
	}

	for _, issue := range newIssues {
		issue.Source = models.SourceValidator
		issue.DiscoveredInSecondPass = true
		if issue.ID == "" {
			issue.ID = models.Fingerprint(issue.Title, issue.Line, models.SourceValidator)
		}
		out = append(out, issue)
	}

	return out
}

func matchRecord(issue models.Issue, records []models.VerificationRecord) (models.VerificationRecord, bool) {
	title := strings.ToLower(issue.Title)
	if title == "" {
		return models.VerificationRecord{}, false
	}
	for _, rec := range records {
		if strings.Contains(strings.ToLower(rec.Original), title) {
			return rec, true
		}
	}
	return models.VerificationRecord{}, false
}
