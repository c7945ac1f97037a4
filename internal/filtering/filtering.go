// Package filtering narrows raw postings down to remote-eligible,
// user-acceptable, unique jobs. Filters run as an ordered pipeline; each
// step is a no-op when its corresponding constraint is unset.
package filtering

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/remotescout/remotescout/internal/job"
)

// Filter represents a single filtering step applied to a batch of jobs.
type Filter interface {
	Name() string
	Apply(ctx context.Context, jobs []*job.Job) ([]*job.Job, Step, error)
}

// Step describes the result of executing a filtering step.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

// Pipeline executes filters sequentially, in order.
type Pipeline struct {
	steps  []Filter
	logger *zap.Logger
}

func New(steps []Filter, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{steps: steps, logger: logger}
}

// Run pushes the batch through every step. A step error aborts the batch,
// not the session; the caller decides what to do with it.
func (p *Pipeline) Run(ctx context.Context, jobs []*job.Job) ([]*job.Job, error) {
	for _, step := range p.steps {
		next, info, err := step.Apply(ctx, jobs)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}

		if info.Dropped > 0 {
			p.logger.Debug("filter step",
				zap.String("name", step.Name()),
				zap.Int("initial", info.Initial),
				zap.Int("dropped", info.Dropped),
				zap.Int("left", info.Left),
			)
		}

		jobs = next
	}

	return jobs, nil
}
