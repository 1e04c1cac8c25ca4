package models

// AnalysisResult is the output of one agent's single analysis call.
// Issues keep discovery order; sorting by severity happens in the
// report builder.
type AnalysisResult struct {
	Issues     []Issue `json:"issues"`
	Confidence int     `json:"confidence"`
	Summary    string  `json:"summary,omitempty"`
}

// ValidationResult is an AnalysisResult plus self-correction metadata.
type ValidationResult struct {
	AnalysisResult
	SelfCorrectionApplied bool   `json:"self_correction_applied"`
	Iterations            int    `json:"iterations"`
	ValidationNotes       string `json:"validation_notes,omitempty"`
	ValidationWarning     string `json:"validation_warning,omitempty"`
}

// VerificationRecord is the second pass's verdict on one first-pass issue.
// Original carries the text the model used to reference the issue; matching
// back to the first-pass issue is a substring heuristic, not an ID join.
type VerificationRecord struct {
	Original          string   `json:"original"`
	Verified          bool     `json:"verified"`
	Reason            string   `json:"reason,omitempty"`
	CorrectedSeverity Severity `json:"corrected_severity,omitempty"`
}

// VerificationOutcome is the normalized shape of a second-pass response.
type VerificationOutcome struct {
	VerifiedIssues  []VerificationRecord `json:"verified_issues"`
	NewIssues       []Issue              `json:"new_issues"`
	Confidence      int                  `json:"confidence"`
	ValidationNotes string               `json:"validation_notes,omitempty"`
}
