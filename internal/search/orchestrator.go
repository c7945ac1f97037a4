// Package search coordinates a whole search session: planning queries,
// driving source adapters under credential rotation, filtering, scoring and
// streaming incremental results.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/remotescout/remotescout/internal/cache"
	"github.com/remotescout/remotescout/internal/filtering"
	"github.com/remotescout/remotescout/internal/job"
	"github.com/remotescout/remotescout/internal/keyring"
	logfields "github.com/remotescout/remotescout/internal/logger"
	"github.com/remotescout/remotescout/internal/planner"
	"github.com/remotescout/remotescout/internal/profile"
	"github.com/remotescout/remotescout/internal/scoring"
	"github.com/remotescout/remotescout/internal/source"
	"github.com/remotescout/remotescout/internal/utils"
)

const (
	// defaultThreshold is the minimum match percentage worth surfacing.
	// Empirically tuned upstream; configurable, not assumed optimal.
	defaultThreshold = 70

	// defaultQueryBudget is how many planned queries each source runs.
	defaultQueryBudget = 3

	// defaultSourceRate paces successive queries to one source.
	defaultSourceRate = rate.Limit(2)

	// sourceDelay separates successive sources to stay under shared
	// gateway throttles.
	sourceDelay = 500 * time.Millisecond

	eventBuffer = 16
)

// SourceConfig couples an adapter with its per-source tuning. Sources run
// in the order configured, which reflects reliability.
type SourceConfig struct {
	Adapter source.Adapter

	// QueryBudget caps how many planned queries this source runs; keep
	// it small for heavily rate-limited boards.
	QueryBudget int

	// RequestsPerSecond paces queries to this source.
	RequestsPerSecond float64

	// Boost is added to every match score from this source.
	Boost int
}

// Orchestrator drives search sessions. It is safe for concurrent sessions:
// the registry guards its own state and everything session-scoped lives in
// Run's stack.
type Orchestrator struct {
	sources   []SourceConfig
	registry  *keyring.Registry
	scorer    *scoring.Scorer
	results   cache.ResultCache
	threshold int
	now       func() time.Time
	logger    *zap.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithThreshold overrides the minimum surfaced match percentage.
func WithThreshold(threshold int) Option {
	return func(o *Orchestrator) {
		if threshold > 0 && threshold <= 100 {
			o.threshold = threshold
		}
	}
}

// WithResultCache plugs in the session result cache.
func WithResultCache(results cache.ResultCache) Option {
	return func(o *Orchestrator) { o.results = results }
}

// WithClock injects the time source for tests.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

func NewOrchestrator(sources []SourceConfig, registry *keyring.Registry, scorer *scoring.Scorer, logger *zap.Logger, opts ...Option) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}

	o := &Orchestrator{
		sources:   sources,
		registry:  registry,
		scorer:    scorer,
		results:   cache.Noop{},
		threshold: defaultThreshold,
		now:       time.Now,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(o)
	}

	return o
}

// Run executes one search session and returns its event stream. The
// channel is closed after the terminal event. Cancelling ctx stops the
// session; results already streamed remain valid.
func (o *Orchestrator) Run(ctx context.Context, p *profile.Profile, filters source.Filters) <-chan Event {
	events := make(chan Event, eventBuffer)

	go func() {
		defer close(events)
		o.run(ctx, p, filters, events)
	}()

	return events
}

type session struct {
	events   chan<- Event
	profile  *profile.Profile
	filters  source.Filters
	pipeline *filtering.Pipeline
	found    *job.List
	started  time.Time
	total    int // total (source, query) pairs
	done     int
}

func (o *Orchestrator) run(ctx context.Context, p *profile.Profile, filters source.Filters, events chan<- Event) {
	started := o.now()

	if !p.HasSignal() {
		o.emit(ctx, events, Event{
			Type:    EventError,
			Message: "resume profile has no usable skills, experience or responsibilities; re-run the resume analysis",
		})
		return
	}

	o.emit(ctx, events, Event{Type: EventSearchStarted})

	cacheKey := o.cacheKey(p, filters)
	if cached, ok := o.results.Get(ctx, cacheKey); ok && cached.Len() > 0 {
		o.logger.Info("serving session from result cache", zap.Int("jobs", cached.Len()))
		o.emit(ctx, events, Event{
			Type:            EventJobsFound,
			Source:          "cache",
			Jobs:            cached.Items,
			ProgressPercent: 100,
		})
		o.emit(ctx, events, Event{
			Type: EventSearchComplete,
			Summary: &Summary{
				AllJobs:        cached,
				TotalJobs:      cached.Len(),
				ElapsedSeconds: o.now().Sub(started).Seconds(),
				SourceHealth:   o.registry.Report(),
				FromCache:      true,
			},
		})
		return
	}

	queries := planner.Plan(p)
	o.logger.Info("planned search queries", zap.Int("count", len(queries)), zap.Strings("queries", queries))
	o.emit(ctx, events, Event{
		Type:    EventProgressUpdate,
		Message: fmt.Sprintf("planned %d search queries", len(queries)),
	})

	// One dedupe step per session: the seen set spans every source and
	// query of this run, and nothing else.
	steps := append([]filtering.Filter{filtering.NewRemote()}, filtering.Post(filters)...)
	steps = append(steps, filtering.NewDedupe())

	sess := &session{
		events:   events,
		profile:  p,
		filters:  filters,
		pipeline: filtering.New(steps, o.logger),
		found:    &job.List{},
		started:  started,
	}
	for _, src := range o.sources {
		sess.total += o.budget(src, len(queries))
	}

	for i, src := range o.sources {
		if ctx.Err() != nil {
			o.emit(ctx, events, Event{Type: EventError, Message: "search cancelled"})
			return
		}

		if i > 0 {
			if err := utils.WaitFor(ctx, sourceDelay); err != nil {
				o.emit(ctx, events, Event{Type: EventError, Message: "search cancelled"})
				return
			}
		}

		o.runSource(ctx, sess, src, queries)
	}

	if ctx.Err() != nil {
		o.emit(ctx, events, Event{Type: EventError, Message: "search cancelled"})
		return
	}

	if sess.found.Len() == 0 {
		o.emit(ctx, events, Event{
			Type:    EventError,
			Message: "no matching remote jobs found; try broadening your search criteria (lower the salary floor or remove filters)",
		})
		return
	}

	sess.found.SortByScore()
	o.results.Set(ctx, cacheKey, sess.found)

	o.emit(ctx, events, Event{
		Type: EventSearchComplete,
		Summary: &Summary{
			AllJobs:        sess.found,
			TotalJobs:      sess.found.Len(),
			ElapsedSeconds: o.now().Sub(started).Seconds(),
			SourceHealth:   o.registry.Report(),
		},
	})
}

// runSource runs one source's query budget. Nothing here aborts the
// session; every failure is contained at (source, query) granularity.
func (o *Orchestrator) runSource(ctx context.Context, sess *session, src SourceConfig, queries []string) {
	name := src.Adapter.Name()
	budget := o.budget(src, len(queries))
	limiter := rate.NewLimiter(o.sourceRate(src), 1)

	logger := logfields.WithSource(o.logger, name)

	// An abandoned source still owes its share of the progress bar.
	spent := 0
	defer func() { sess.done += budget - spent }()

	for _, query := range queries[:budget] {
		if ctx.Err() != nil {
			return
		}

		spent++
		sess.done++

		cred, ok := o.registry.GetCredential(name)
		if !ok {
			logger.Info("no usable credential; skipping source")
			return
		}

		if err := limiter.Wait(ctx); err != nil {
			return
		}

		jobs, err := src.Adapter.Search(ctx, query, sess.filters, cred)
		if err != nil {
			jobs, err = o.handleSearchError(ctx, sess, src, query, err, logger)
			if err != nil {
				continue
			}
		}

		if len(jobs) == 0 {
			if flipped := o.registry.RecordEmpty(name); flipped {
				logger.Warn("source exhausted after repeated empty responses")
				o.emit(ctx, sess.events, Event{
					Type:    EventUserMessage,
					Source:  name,
					Message: fmt.Sprintf("%s stopped returning results and was paused until the next reset", name),
				})
				return
			}
			continue
		}

		o.registry.RecordSuccess(name)
		o.processBatch(ctx, sess, src, jobs)
	}
}

// handleSearchError classifies the failure and performs at most one
// rotate-and-retry. An explicit bounded loop is deliberate: rotation never
// recurses.
func (o *Orchestrator) handleSearchError(ctx context.Context, sess *session, src SourceConfig, query string, err error, logger *zap.Logger) ([]*job.Job, error) {
	name := src.Adapter.Name()

	verdict := keyring.Classify(err)
	if !verdict.Exhausted {
		// Transient: log and let the caller move to the next query.
		logger.Warn("source query failed", zap.String("query", query), zap.Error(err))
		o.registry.RecordFailure(name, "query failures")
		return nil, err
	}

	logger.Warn("quota exhaustion detected",
		zap.String("query", query),
		zap.String("reason", verdict.Reason),
	)
	o.registry.MarkExhausted(name, verdict.Reason)

	if !o.registry.Rotate(name) {
		o.emit(ctx, sess.events, Event{
			Type:    EventUserMessage,
			Source:  name,
			Message: fmt.Sprintf("%s ran out of API quota on all keys; it will recover after the next hourly reset", name),
		})
		return nil, err
	}

	cred, ok := o.registry.GetCredential(name)
	if !ok {
		return nil, err
	}

	jobs, retryErr := src.Adapter.Search(ctx, query, sess.filters, cred)
	if retryErr != nil {
		logger.Warn("retry after rotation failed", zap.String("query", query), zap.Error(retryErr))
		if v := keyring.Classify(retryErr); v.Exhausted {
			o.registry.MarkExhausted(name, v.Reason)
		}
		return nil, retryErr
	}

	logger.Info("retry after rotation succeeded", zap.String("query", query))
	return jobs, nil
}

func (o *Orchestrator) processBatch(ctx context.Context, sess *session, src SourceConfig, jobs []*job.Job) {
	name := src.Adapter.Name()

	filtered, err := sess.pipeline.Run(ctx, jobs)
	if err != nil {
		o.logger.Warn("filter pipeline failed for batch", zap.String("source", name), zap.Error(err))
		return
	}
	if len(filtered) == 0 {
		return
	}

	scored := o.scorer.ScoreBatch(ctx, sess.profile, filtered)

	matches := make([]*job.Scored, 0, len(scored))
	for _, s := range scored {
		if s == nil {
			continue
		}
		s.MatchPercentage = boosted(s.MatchPercentage, src.Boost)
		if s.MatchPercentage >= o.threshold {
			matches = append(matches, s)
		}
	}

	if len(matches) == 0 {
		return
	}

	sess.found.Append(matches...)

	progress := 0
	if sess.total > 0 {
		progress = sess.done * 100 / sess.total
	}

	o.emit(ctx, sess.events, Event{
		Type:            EventJobsFound,
		Source:          name,
		Jobs:            matches,
		ProgressPercent: progress,
	})
}

func (o *Orchestrator) budget(src SourceConfig, planned int) int {
	budget := src.QueryBudget
	if budget <= 0 {
		budget = defaultQueryBudget
	}
	if budget > planned {
		budget = planned
	}
	return budget
}

func (o *Orchestrator) sourceRate(src SourceConfig) rate.Limit {
	if src.RequestsPerSecond > 0 {
		return rate.Limit(src.RequestsPerSecond)
	}
	return defaultSourceRate
}

func (o *Orchestrator) cacheKey(p *profile.Profile, filters source.Filters) string {
	profileJSON, _ := json.Marshal(p)
	filtersJSON, _ := json.Marshal(filters)
	return cache.Key(profileJSON, filtersJSON)
}

// emit delivers an event without blocking past cancellation.
func (o *Orchestrator) emit(ctx context.Context, events chan<- Event, event Event) {
	select {
	case events <- event:
	case <-ctx.Done():
	}
}

func boosted(score, boost int) int {
	score += boost
	if score > 100 {
		score = 100
	}
	return score
}
