// Package models defines the data model shared by the review pipeline.
package models

import (
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Severity is the ordered severity scale for issues.
// Critical sorts first; see Rank.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// Rank returns the sort rank for a severity (critical=0 .. low=3).
// Unknown severities rank after low.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityHigh:
		return 1
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 3
	default:
		return 4
	}
}

// ParseSeverity coerces free-form model output into the fixed severity
// scale. Anything unrecognized becomes medium.
func ParseSeverity(s string) Severity {
	switch Severity(strings.ToLower(strings.TrimSpace(s))) {
	case SeverityCritical:
		return SeverityCritical
	case SeverityHigh:
		return SeverityHigh
	case SeverityMedium:
		return SeverityMedium
	case SeverityLow:
		return SeverityLow
	default:
		return SeverityMedium
	}
}

// Kind is an open tag describing what an issue is about. The well-known
// values below are not exhaustive; models may report others.
type Kind string

const (
	KindBug         Kind = "bug"
	KindPerformance Kind = "performance"
	KindStyle       Kind = "style"
	KindSecurity    Kind = "security"
	KindGeneral     Kind = "general"
)

// ParseKind normalizes a kind tag, defaulting to general when empty.
func ParseKind(s string) Kind {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if k == "" {
		return KindGeneral
	}
	return k
}

// Source identifies which agent produced an issue.
type Source string

const (
	SourcePrimary   Source = "primary"
	SourceSecurity  Source = "security"
	SourceValidator Source = "validator"
)

// Issue is a single finding reported by an analysis agent.
type Issue struct {
	ID                     string   `json:"id,omitempty"`
	Kind                   Kind     `json:"kind"`
	Severity               Severity `json:"severity"`
	Line                   int      `json:"line,omitempty"`
	Title                  string   `json:"title"`
	Description            string   `json:"description,omitempty"`
	Suggestion             string   `json:"suggestion,omitempty"`
	Source                 Source   `json:"source,omitempty"`
	Verified               *bool    `json:"verified,omitempty"`
	VerificationNotes      string   `json:"verification_notes,omitempty"`
	DiscoveredInSecondPass bool     `json:"discovered_in_second_pass,omitempty"`
}

// Fingerprint computes a stable identifier for an issue from its title,
// line, and source. Reconciliation still matches by title text to mirror
// what second-pass responses reference, but the ID gives downstream
// consumers a stable key.
func Fingerprint(title string, line int, source Source) string {
	h := xxhash.Sum64String(fmt.Sprintf("%s:%d:%s", strings.ToLower(title), line, source))
	return fmt.Sprintf("%016x", h)
}
