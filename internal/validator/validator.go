// Package validator implements the confidence-gated self-correction loop:
// merge two agents' results, and when combined confidence falls below the
// threshold, run a second, more skeptical analysis pass and reconcile.
package validator

import (
	"context"
	"sync"

	"github.com/arbiterhq/arbiter/internal/engine"
	"github.com/arbiterhq/arbiter/internal/models"
	"github.com/arbiterhq/arbiter/internal/normalizer"
)

// DegradedWarning is attached when the second pass was attempted but the
// engine call failed.
const DegradedWarning = "Re-analysis failed, using initial results"

// DefaultThreshold is the combined confidence below which a second pass
// triggers.
const DefaultThreshold = 80

// Session holds per-review-session validator state: the second-pass
// iteration counter. It is passed by the caller and reset at session
// boundaries, not between files, so repeated low-confidence files
// accumulate a visible count across one folder run.
type Session struct {
	mu         sync.Mutex
	iterations int
}

// NewSession creates a fresh session.
func NewSession() *Session {
	return &Session{}
}

// Iterations returns the current second-pass count.
func (s *Session) Iterations() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.iterations
}

// Reset zeroes the counter. Callers invoke this at review-session
// boundaries.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.iterations = 0
}

func (s *Session) increment() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.iterations++
	return s.iterations
}

// Validator orchestrates merge, threshold check, optional second pass,
// and reconciliation.
type Validator struct {
	engine     engine.Engine
	aggregator *Aggregator
	threshold  int
	enabled    bool
	maxTokens  int
}

// Option configures a Validator.
type Option func(*Validator)

// WithThreshold sets the confidence threshold (0-100).
func WithThreshold(t int) Option {
	return func(v *Validator) {
		v.threshold = t
	}
}

// WithEnabled toggles the self-correction pass. When disabled, Validate
// always merges without calling the engine.
func WithEnabled(enabled bool) Option {
	return func(v *Validator) {
		v.enabled = enabled
	}
}

// WithAggregator replaces the confidence aggregator.
func WithAggregator(a *Aggregator) Option {
	return func(v *Validator) {
		if a != nil {
			v.aggregator = a
		}
	}
}

// WithMaxTokens caps the second-pass response size.
func WithMaxTokens(n int) Option {
	return func(v *Validator) {
		v.maxTokens = n
	}
}

// New creates a Validator with the default threshold and self-correction
// enabled.
func New(eng engine.Engine, opts ...Option) *Validator {
	v := &Validator{
		engine:     eng,
		aggregator: NewAggregator(),
		threshold:  DefaultThreshold,
		enabled:    true,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate merges the two first-pass results and applies self-correction
// when warranted. It never fails: a failing second pass degrades to the
// plain merge with a warning. Terminal outcomes:
//
//   - merged: self-correction disabled, or combined confidence at or
//     above the threshold
//   - reconciled: second pass succeeded and was reconciled in
//   - degraded merge: second pass was attempted and failed
func (v *Validator) Validate(ctx context.Context, session *Session, primary, security *models.AnalysisResult, code, language string) *models.ValidationResult {
	firstPass := mergeIssues(primary, security)
	combined := v.aggregator.Combine([]int{primary.Confidence, security.Confidence})

	if !v.enabled || combined >= v.threshold {
		return merged(firstPass, combined, session.Iterations())
	}

	iterations := session.increment()

	raw, err := v.engine.Generate(ctx, verificationPrompt(code, language, firstPass), engine.Options{
		SystemPrompt: verificationSystemPrompt,
		MaxTokens:    v.maxTokens,
	})
	if err != nil {
		result := merged(firstPass, combined, iterations)
		result.ValidationWarning = DegradedWarning
		return result
	}

	outcome := normalizer.NormalizeVerification(raw)
	reconciled := Reconcile(firstPass, outcome.VerifiedIssues, outcome.NewIssues)

	return &models.ValidationResult{
		AnalysisResult: models.AnalysisResult{
			Issues:     reconciled,
			Confidence: outcome.Confidence,
			Summary:    summaryFor(len(reconciled)),
		},
		SelfCorrectionApplied: true,
		Iterations:            iterations,
		ValidationNotes:       outcome.ValidationNotes,
	}
}

// mergeIssues concatenates both results' issues, primary first, tagging
// any untagged issue with its originating agent.
func mergeIssues(primary, security *models.AnalysisResult) []models.Issue {
	out := make([]models.Issue, 0, len(primary.Issues)+len(security.Issues))
	for _, issue := range primary.Issues {
		if issue.Source == "" {
			issue.Source = models.SourcePrimary
		}
		out = append(out, issue)
	}
	for _, issue := range security.Issues {
		if issue.Source == "" {
			issue.Source = models.SourceSecurity
		}
		out = append(out, issue)
	}
	return out
}

// merged builds the plain severity-sorted merge result.
func merged(firstPass []models.Issue, confidence, iterations int) *models.ValidationResult {
	issues := make([]models.Issue, len(firstPass))
	copy(issues, firstPass)
	models.SortIssues(issues)

	return &models.ValidationResult{
		AnalysisResult: models.AnalysisResult{
			Issues:     issues,
			Confidence: confidence,
			Summary:    summaryFor(len(issues)),
		},
		Iterations: iterations,
	}
}
