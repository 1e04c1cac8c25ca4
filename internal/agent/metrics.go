package agent

import (
	"os"
	"time"

	"github.com/fatih/color"
)

// StderrMetrics logs analysis observations to stderr. Silent unless
// verbose is enabled.
type StderrMetrics struct {
	Verbose bool
}

func (m StderrMetrics) ObserveAnalysis(role Role, duration time.Duration, issueCount int) {
	if !m.Verbose {
		return
	}
	color.New(color.Faint).Fprintf(os.Stderr, "%s agent: %d issue(s) in %s\n",
		role, issueCount, duration.Round(time.Millisecond))
}
