// Package scoring computes 0-100 fit scores for jobs against a resume
// profile, combining a deterministic heuristic tier with an optional
// AI tier that falls back gracefully.
package scoring

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/remotescout/remotescout/internal/ai"
	"github.com/remotescout/remotescout/internal/job"
	"github.com/remotescout/remotescout/internal/profile"
)

const (
	// defaultBatchConcurrency bounds simultaneous outbound scoring calls.
	defaultBatchConcurrency = 4
	maxBatchConcurrency     = 8
)

// Scorer scores jobs. Score never fails a job: any AI-tier problem is
// absorbed into a heuristic fallback noted in the reasoning string.
type Scorer struct {
	heuristic   *Heuristic
	assistant   ai.Scorer
	concurrency int
	logger      *zap.Logger
}

// Option configures a Scorer.
type Option func(*Scorer)

// WithAssistant plugs in the optional AI scoring tier.
func WithAssistant(assistant ai.Scorer) Option {
	return func(s *Scorer) { s.assistant = assistant }
}

// WithConcurrency sets the batch scoring parallelism (clamped to 1-8).
func WithConcurrency(n int) Option {
	return func(s *Scorer) { s.concurrency = n }
}

func NewScorer(weights Weights, logger *zap.Logger, opts ...Option) *Scorer {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Scorer{
		heuristic:   NewHeuristic(weights),
		concurrency: defaultBatchConcurrency,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.concurrency < 1 {
		s.concurrency = 1
	}
	if s.concurrency > maxBatchConcurrency {
		s.concurrency = maxBatchConcurrency
	}

	return s
}

// Score produces the scored job. The AI tier is consulted when configured;
// on any failure the heuristic score is used and the fallback is recorded
// in the reasoning, never silently.
func (s *Scorer) Score(ctx context.Context, p *profile.Profile, j *job.Job) *job.Scored {
	heuristicScore, matched := s.heuristic.Score(p, j)

	scored := &job.Scored{
		Job:             *j,
		MatchPercentage: heuristicScore,
		MatchedSkills:   matched,
		Reasoning:       "heuristic keyword match",
	}

	if s.assistant == nil {
		return scored
	}

	assessment, err := s.assistant.Score(ctx, p, j)
	if err != nil {
		s.logger.Warn("AI scoring failed; using heuristic score",
			zap.String("job", j.Title),
			zap.String("source", j.Source),
			zap.Error(err),
		)
		scored.Reasoning = fmt.Sprintf("AI scoring unavailable (%v); heuristic score used instead", err)
		return scored
	}

	scored.MatchPercentage = normalizeScore(assessment)
	scored.MissingRequirements = assessment.MissingRequirements
	if len(assessment.MatchedSkills) > 0 {
		scored.MatchedSkills = assessment.MatchedSkills
	}
	if assessment.Reasoning != "" {
		scored.Reasoning = assessment.Reasoning
	}

	return scored
}

// ScoreBatch scores a batch with bounded concurrency, preserving input
// order in the result.
func (s *Scorer) ScoreBatch(ctx context.Context, p *profile.Profile, jobs []*job.Job) []*job.Scored {
	if len(jobs) == 0 {
		return nil
	}

	scored := make([]*job.Scored, len(jobs))
	sem := make(chan struct{}, s.concurrency)
	var wg sync.WaitGroup

	for i, j := range jobs {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, j *job.Job) {
			defer wg.Done()
			defer func() { <-sem }()
			scored[i] = s.Score(ctx, p, j)
		}(i, j)
	}

	wg.Wait()
	return scored
}

// normalizeScore applies the complete-match rule: when the provider
// reports no missing requirements ("None"), the visible score is 100
// regardless of the raw score field. Everything else clamps to 0-100.
func normalizeScore(a *ai.Assessment) int {
	if len(a.MissingRequirements) == 1 &&
		strings.EqualFold(strings.TrimSpace(a.MissingRequirements[0]), "none") {
		return 100
	}

	score := a.Score
	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	return score
}
