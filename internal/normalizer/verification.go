package normalizer

import (
	"encoding/json"
	"strings"

	"github.com/arbiterhq/arbiter/internal/models"
)

// VerificationFallbackConfidence is the confidence assigned when a
// second-pass response cannot be parsed. Lower than the first-pass
// fallback: an unparseable verification response earns even less trust.
const VerificationFallbackConfidence = 60

// verificationPayload mirrors the JSON shape the second-pass prompt asks
// for.
type verificationPayload struct {
	VerifiedIssues []struct {
		Original          string `json:"original"`
		Verified          *bool  `json:"verified"`
		Reason            string `json:"reason"`
		CorrectedSeverity string `json:"correctedSeverity"`
	} `json:"verifiedIssues"`
	NewIssues       []payloadIssue `json:"newIssues"`
	Confidence      *int           `json:"confidence"`
	ValidationNotes string         `json:"validationNotes"`
}

// NormalizeVerification converts a second-pass response into a
// VerificationOutcome. Unparseable input yields empty issue lists and the
// verification fallback confidence; it never fails.
func NormalizeVerification(raw string) *models.VerificationOutcome {
	for _, candidate := range jsonCandidates(raw) {
		if outcome := parseVerification(candidate); outcome != nil {
			return outcome
		}
	}
	return &models.VerificationOutcome{
		VerifiedIssues: []models.VerificationRecord{},
		NewIssues:      []models.Issue{},
		Confidence:     VerificationFallbackConfidence,
	}
}

func parseVerification(text string) *models.VerificationOutcome {
	if !strings.HasPrefix(text, "{") {
		return nil
	}

	var p verificationPayload
	if err := json.Unmarshal([]byte(text), &p); err != nil {
		return nil
	}
	// Require at least one of the expected keys so arbitrary JSON objects
	// do not masquerade as verification output.
	if p.VerifiedIssues == nil && p.NewIssues == nil && p.Confidence == nil {
		return nil
	}

	records := make([]models.VerificationRecord, 0, len(p.VerifiedIssues))
	for _, v := range p.VerifiedIssues {
		rec := models.VerificationRecord{
			Original: v.Original,
			Verified: v.Verified == nil || *v.Verified,
			Reason:   v.Reason,
		}
		if v.CorrectedSeverity != "" {
			rec.CorrectedSeverity = models.ParseSeverity(v.CorrectedSeverity)
		}
		records = append(records, rec)
	}

	newIssues := make([]models.Issue, 0, len(p.NewIssues))
	for _, pi := range p.NewIssues {
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
		issue.ID = models.Fingerprint(issue.Title, issue.Line, models.SourceValidator)
		newIssues = append(newIssues, issue)
	}

	confidence := VerificationFallbackConfidence
	if p.Confidence != nil {
		confidence = clampConfidence(*p.Confidence)
	}

	return &models.VerificationOutcome{
		VerifiedIssues:  records,
		NewIssues:       newIssues,
		Confidence:      confidence,
		ValidationNotes: p.ValidationNotes,
	}
}
