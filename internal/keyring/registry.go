// Package keyring owns the process-wide credential rotation and source
// health state shared across search sessions.
package keyring

import (
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/remotescout/remotescout/internal/source"
)

// Health is the per-source health classification.
type Health string

const (
	HealthHealthy    Health = "healthy"
	HealthSuspicious Health = "suspicious"
	HealthExhausted  Health = "exhausted"
)

// suspicionLimit is the number of consecutive empty responses after which a
// source is treated as quota-exhausted even without a definitive signal.
const suspicionLimit = 3

type slot struct {
	cred      source.Credential
	exhausted bool
}

type sourceState struct {
	slots      []*slot
	index      int
	health     Health
	suspicious int
	reason     string
}

func (s *sourceState) current() *slot {
	if len(s.slots) == 0 {
		return nil
	}
	return s.slots[s.index]
}

func (s *sourceState) allExhausted() bool {
	if len(s.slots) == 0 {
		return true
	}
	for _, sl := range s.slots {
		if !sl.exhausted {
			return false
		}
	}
	return true
}

// Registry serves the next usable credential per source and records the
// exhaustion verdicts that drive health transitions. One registry is
// constructed at process start and shared by reference; a single mutex
// covers all mutation paths since transitions are simple enumerations.
type Registry struct {
	mu        sync.Mutex
	sources   map[string]*sourceState
	now       func() time.Time
	lastReset time.Time
	logger    *zap.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithClock injects the time source, primarily for tests.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

func New(logger *zap.Logger, opts ...Option) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := &Registry{
		sources: make(map[string]*sourceState),
		now:     time.Now,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.lastReset = r.now()

	return r
}

// Configure registers the ordered credential list for a source. Composite
// credentials (id + key) are registered as single units.
func (r *Registry) Configure(sourceName string, creds []source.Credential) {
	r.mu.Lock()
	defer r.mu.Unlock()

	slots := make([]*slot, 0, len(creds))
	for _, cred := range creds {
		if cred.IsZero() {
			continue
		}
		slots = append(slots, &slot{cred: cred})
	}

	r.sources[sourceName] = &sourceState{
		slots:  slots,
		health: HealthHealthy,
	}
}

// GetCredential returns the current usable credential for the source. The
// second return is false when the source is unconfigured or every
// configured credential has been proven exhausted in this reset window.
func (r *Registry) GetCredential(sourceName string) (source.Credential, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	state, ok := r.sources[sourceName]
	if !ok || len(state.slots) == 0 {
		return source.Credential{}, false
	}

	if state.allExhausted() {
		return source.Credential{}, false
	}

	return state.current().cred, true
}

// Rotate switches the source to its next non-exhausted credential. It
// returns false when no backup remains; the source then short-circuits
// until the next reset.
func (r *Registry) Rotate(sourceName string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	state, ok := r.sources[sourceName]
	if !ok || len(state.slots) == 0 {
		return false
	}

	for i := 1; i < len(state.slots); i++ {
		next := (state.index + i) % len(state.slots)
		if !state.slots[next].exhausted {
			state.index = next
			// A successful rotation keeps the source usable, so it is
			// not reported as exhausted.
			state.health = HealthHealthy
			state.suspicious = 0
			r.logger.Info("rotated source credential",
				zap.String("source", sourceName),
				zap.Int("slot", next),
			)
			return true
		}
	}

	return false
}

// MarkExhausted records a definitive quota verdict against the source's
// current credential. When no usable credential remains the whole source
// transitions to exhausted for the rest of the reset window.
func (r *Registry) MarkExhausted(sourceName, reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	state, ok := r.sources[sourceName]
	if !ok {
		return
	}

	if current := state.current(); current != nil {
		current.exhausted = true
	}

	if state.allExhausted() {
		state.health = HealthExhausted
		state.reason = reason
		r.logger.Warn("source exhausted",
			zap.String("source", sourceName),
			zap.String("reason", reason),
		)
	}
}

// RecordEmpty counts an ambiguous empty response against the source. Three
// consecutive empties flip the source to exhausted; the return value is
// true when this call caused that flip.
func (r *Registry) RecordEmpty(sourceName string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	state, ok := r.sources[sourceName]
	if !ok {
		return false
	}

	state.suspicious++
	if state.suspicious < suspicionLimit {
		if state.health == HealthHealthy {
			state.health = HealthSuspicious
		}
		return false
	}

	// Repeated empties are a source-level verdict, not a per-key one, so
	// the whole source goes quiet until the next reset.
	for _, sl := range state.slots {
		sl.exhausted = true
	}
	state.health = HealthExhausted
	state.reason = "repeated empty responses"

	return true
}

// RecordFailure notes a non-exhaustion failure against the source so health
// reports surface flaky boards. It never exhausts a credential: transient
// errors are retried naturally on the next query.
func (r *Registry) RecordFailure(sourceName, detail string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	state, ok := r.sources[sourceName]
	if !ok {
		return
	}

	if state.health == HealthHealthy {
		state.health = HealthSuspicious
		state.reason = detail
	}
}

// RecordSuccess resets the suspicion counter after a non-empty response.
func (r *Registry) RecordSuccess(sourceName string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	state, ok := r.sources[sourceName]
	if !ok {
		return
	}

	state.suspicious = 0
	if state.health == HealthSuspicious {
		state.health = HealthHealthy
		state.reason = ""
	}
}

// SourceHealth is one entry of the health report.
type SourceHealth struct {
	Source      string `json:"source"`
	Health      Health `json:"health"`
	Reason      string `json:"reason,omitempty"`
	Suspicious  int    `json:"suspicious,omitempty"`
	Credentials int    `json:"credentials"`
	Slot        int    `json:"slot"`
}

// Report returns the current health of every configured source.
func (r *Registry) Report() []SourceHealth {
	r.mu.Lock()
	defer r.mu.Unlock()

	report := make([]SourceHealth, 0, len(r.sources))
	for name, state := range r.sources {
		report = append(report, SourceHealth{
			Source:      name,
			Health:      state.health,
			Reason:      state.reason,
			Suspicious:  state.suspicious,
			Credentials: len(state.slots),
			Slot:        state.index,
		})
	}
	sort.Slice(report, func(i, j int) bool { return report[i].Source < report[j].Source })

	return report
}

// Reset clears exhaustion and suspicion state for every source, returning
// each to its first credential. Called by the periodic reset schedule and
// by the administrative surface.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for name, state := range r.sources {
		for _, sl := range state.slots {
			sl.exhausted = false
		}
		state.index = 0
		state.suspicious = 0
		state.reason = ""
		state.health = HealthHealthy
		r.logger.Debug("source health reset", zap.String("source", name))
	}
	r.lastReset = r.now()
}

// LastReset reports when the current reset window started.
func (r *Registry) LastReset() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastReset
}
