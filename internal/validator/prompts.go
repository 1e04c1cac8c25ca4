package validator

import (
	"fmt"
	"strings"

	"github.com/arbiterhq/arbiter/internal/models"
)

const verificationSystemPrompt = `You are a skeptical senior code reviewer performing a verification pass over another reviewer's findings. Re-read the source code carefully. For each reported finding, decide whether it is real. Reject findings that are speculative, duplicated, or wrong. Then look for real issues the first pass missed.

You MUST respond with ONLY a JSON object in this exact shape. No markdown, no preamble.
{
  "verifiedIssues": [
    {
      "original": "title or text of the finding being verified",
      "verified": true,
      "reason": "why it was confirmed or rejected",
      "correctedSeverity": "critical|high|medium|low"
    }
  ],
  "newIssues": [
    {
      "kind": "bug|performance|style|security|general",
      "severity": "critical|high|medium|low",
      "line": 1,
      "title": "Short descriptive title",
      "description": "What is wrong",
      "suggestion": "How to fix it"
    }
  ],
  "confidence": 0,
  "validationNotes": "overall assessment of the first pass"
}

Include a verifiedIssues entry for every finding listed. Set correctedSeverity only when the original severity was wrong. Report a new overall confidence from 0 to 100.`

// verificationPrompt lists every first-pass finding alongside the source
// so the second pass can confirm or reject each one.
func verificationPrompt(code, language string, firstPass []models.Issue) string {
	var b strings.Builder

	fmt.Fprintf(&b, "A first-pass review of the %s code below reported %d finding(s). Verify each one against the source, then report anything the first pass missed.\n\n", language, len(firstPass))

	b.WriteString("Findings to verify:\n")
	for i, issue := range firstPass {
		fmt.Fprintf(&b, "%d. [%s] %s", i+1, issue.Severity, issue.Title)
		if issue.Description != "" {
			fmt.Fprintf(&b, ": %s", issue.Description)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n--- BEGIN SOURCE ---\n")
	b.WriteString(code)
	b.WriteString("\n--- END SOURCE ---\n")

	return b.String()
}

func summaryFor(n int) string {
	return fmt.Sprintf("Analysis completed (%d issue(s) found)", n)
}
