package filtering

import (
	"context"

	"github.com/remotescout/remotescout/internal/job"
)

// Dedupe removes duplicate postings by normalized (title, company) key.
// Stable: the first occurrence wins.
func Dedupe(jobs []*job.Job, seen map[string]struct{}) []*job.Job {
	if seen == nil {
		seen = make(map[string]struct{}, len(jobs))
	}

	unique := make([]*job.Job, 0, len(jobs))
	for _, j := range jobs {
		key := j.Key()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, j)
	}

	return unique
}

type dedupeFilter struct {
	seen map[string]struct{}
}

// NewDedupe creates the deduplication step. The seen set persists across
// every Apply call on the same filter value, so one instance threads the
// whole session: duplicates are removed within a batch and across every
// (source, query) pair of that session. Never share an instance between
// sessions.
func NewDedupe() Filter {
	return &dedupeFilter{seen: make(map[string]struct{})}
}

func (f *dedupeFilter) Name() string { return "dedupe" }

func (f *dedupeFilter) Apply(_ context.Context, jobs []*job.Job) ([]*job.Job, Step, error) {
	initial := len(jobs)
	unique := Dedupe(jobs, f.seen)

	return unique, Step{Initial: initial, Dropped: initial - len(unique), Left: len(unique)}, nil
}
