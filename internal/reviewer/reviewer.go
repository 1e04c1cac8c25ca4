// Package reviewer orchestrates the review pipeline: fan out the two
// analysis agents, run the self-correction validator, and assemble the
// final report for a file or a folder.
package reviewer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sourcegraph/conc"

	"github.com/arbiterhq/arbiter/internal/agent"
	"github.com/arbiterhq/arbiter/internal/cache"
	"github.com/arbiterhq/arbiter/internal/engine"
	"github.com/arbiterhq/arbiter/internal/models"
	"github.com/arbiterhq/arbiter/internal/scanner"
	"github.com/arbiterhq/arbiter/internal/validator"
)

// Observer receives folder review progress callbacks. Implementations
// must tolerate concurrent FileDone calls.
type Observer interface {
	Begin(total int)
	FileDone(path string)
	End()
}

type nopObserver struct{}

func (nopObserver) Begin(int)      {}
func (nopObserver) FileDone(string) {}
func (nopObserver) End()           {}

// Reviewer runs reviews against one engine.
type Reviewer struct {
	general    *agent.Agent
	security   *agent.Agent
	validator  *validator.Validator
	aggregator *validator.Aggregator
	session    *validator.Session

	cache *cache.Cache
	model string

	scanner     *scanner.Scanner
	concurrency int
	fileLimit   int
	observer    Observer
	confirm     func(files int) bool

	agentOpts     []agent.Option
	validatorOpts []validator.Option
}

// Option configures a Reviewer.
type Option func(*Reviewer)

// WithCache enables result caching. The model name partitions entries so
// switching models never serves stale results.
func WithCache(c *cache.Cache, model string) Option {
	return func(r *Reviewer) {
		r.cache = c
		r.model = model
	}
}

// WithScanner replaces the folder file scanner.
func WithScanner(s *scanner.Scanner) Option {
	return func(r *Reviewer) {
		if s != nil {
			r.scanner = s
		}
	}
}

// WithConcurrency bounds in-flight files during a folder review.
func WithConcurrency(n int) Option {
	return func(r *Reviewer) {
		if n > 0 {
			r.concurrency = n
		}
	}
}

// WithFileLimit sets the file count above which confirm is consulted.
// Zero disables the guard.
func WithFileLimit(n int) Option {
	return func(r *Reviewer) {
		r.fileLimit = n
	}
}

// WithObserver sets the folder progress observer.
func WithObserver(o Observer) Option {
	return func(r *Reviewer) {
		if o != nil {
			r.observer = o
		}
	}
}

// WithConfirm sets the callback consulted before reviewing more files
// than the limit. Without one, oversized reviews are declined.
func WithConfirm(fn func(files int) bool) Option {
	return func(r *Reviewer) {
		r.confirm = fn
	}
}

// WithValidatorOptions forwards options to the self-correction validator.
func WithValidatorOptions(opts ...validator.Option) Option {
	return func(r *Reviewer) {
		r.validatorOpts = append(r.validatorOpts, opts...)
	}
}

// WithAgentOptions forwards options to both analysis agents.
func WithAgentOptions(opts ...agent.Option) Option {
	return func(r *Reviewer) {
		r.agentOpts = append(r.agentOpts, opts...)
	}
}

// New creates a Reviewer backed by eng.
func New(eng engine.Engine, opts ...Option) *Reviewer {
	r := &Reviewer{
		aggregator:  validator.NewAggregator(),
		session:     validator.NewSession(),
		scanner:     scanner.New(scanner.Options{Gitignore: true}),
		concurrency: 1,
		fileLimit:   50,
		observer:    nopObserver{},
	}
	for _, opt := range opts {
		opt(r)
	}
	r.general = agent.New(eng, agent.RoleGeneral, r.agentOpts...)
	r.security = agent.New(eng, agent.RoleSecurity, r.agentOpts...)
	r.validator = validator.New(eng, r.validatorOpts...)
	return r
}

// Session returns the validator session, letting callers reset the
// iteration counter at review-session boundaries.
func (r *Reviewer) Session() *validator.Session {
	return r.session
}

// ReviewFile reviews a single file on disk.
func (r *Reviewer) ReviewFile(ctx context.Context, path string) (*models.Report, error) {
	code, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var hash string
	if r.cache != nil {
		hash = cache.HashBytes(code)
		if data, ok := r.cache.Get(cache.Key(path, r.model), hash); ok {
			var report models.Report
			if err := json.Unmarshal(data, &report); err == nil {
				return &report, nil
			}
		}
	}

	report, err := r.ReviewSource(ctx, path, string(code), scanner.DetectLanguage(path))
	if err != nil {
		return nil, err
	}

	if r.cache != nil {
		if data, err := json.Marshal(report); err == nil {
			r.cache.Set(cache.Key(path, r.model), hash, data)
		}
	}
	return report, nil
}

// ReviewSource reviews in-memory code. Empty input short-circuits to a
// clean report without any engine call.
func (r *Reviewer) ReviewSource(ctx context.Context, path, code, language string) (*models.Report, error) {
	start := time.Now()

	if strings.TrimSpace(code) == "" {
		return &models.Report{
			Metadata: models.Metadata{
				Path:       path,
				Language:   language,
				DurationMs: time.Since(start).Milliseconds(),
				Confidence: 100,
				Iterations: r.session.Iterations(),
			},
			Summary: models.ReportSummary{},
			Issues:  []models.Issue{},
		}, nil
	}

	primary, security, err := r.analyzeBoth(ctx, code, language)
	if err != nil {
		return nil, err
	}

	result := r.validator.Validate(ctx, r.session, primary, security, code, language)
	models.SortIssues(result.Issues)
	counts := models.CountBySeverity(result.Issues)

	return &models.Report{
		Metadata: models.Metadata{
			Path:       path,
			Language:   language,
			DurationMs: time.Since(start).Milliseconds(),
			Confidence: result.Confidence,
			Iterations: result.Iterations,
		},
		Summary: models.ReportSummary{
			Counts:    counts,
			RiskScore: models.FileRiskScore(counts),
		},
		Issues: result.Issues,
	}, nil
}

// analyzeBoth runs the two agents concurrently. A single agent failure
// degrades to an empty zero-confidence result so the other agent's
// findings survive; both failing is a review failure.
func (r *Reviewer) analyzeBoth(ctx context.Context, code, language string) (primary, security *models.AnalysisResult, err error) {
	var perr, serr error

	var wg conc.WaitGroup
	wg.Go(func() {
		primary, perr = r.general.Analyze(ctx, code, language)
	})
	wg.Go(func() {
		security, serr = r.security.Analyze(ctx, code, language)
	})
	wg.Wait()

	if perr != nil && serr != nil {
		return nil, nil, errors.Join(perr, serr)
	}
	if perr != nil {
		primary = emptyResult()
	}
	if serr != nil {
		security = emptyResult()
	}
	return primary, security, nil
}

func emptyResult() *models.AnalysisResult {
	return &models.AnalysisResult{Issues: []models.Issue{}, Confidence: 0}
}
