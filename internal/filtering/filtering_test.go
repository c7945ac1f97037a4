package filtering

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/remotescout/remotescout/internal/job"
	"github.com/remotescout/remotescout/internal/source"
)

type failingFilter struct{}

func (failingFilter) Name() string { return "failing" }

func (failingFilter) Apply(context.Context, []*job.Job) ([]*job.Job, Step, error) {
	return nil, Step{}, errors.New("boom")
}

func TestPipelineRunsStepsInOrder(t *testing.T) {
	steps := append([]Filter{NewRemote()}, Post(source.Filters{SalaryFloor: 90000})...)
	steps = append(steps, NewDedupe())
	pipeline := New(steps, zap.NewNop())

	jobs := []*job.Job{
		{Title: "Go Engineer", Company: "Acme", Location: "Remote", SalaryText: "$120,000"},
		{Title: "Go Engineer", Company: "Acme", Location: "Remote", SalaryText: "$120,000"},
		{Title: "Clerk", Company: "Acme", Location: "Boston, MA"},
		{Title: "Cheap Engineer", Company: "Globex", Location: "Remote", SalaryText: "$50,000"},
	}

	kept, err := pipeline.Run(context.Background(), jobs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(kept) != 1 {
		t.Fatalf("expected 1 survivor, got %d", len(kept))
	}
	if kept[0].Company != "Acme" {
		t.Fatalf("unexpected survivor: %+v", kept[0])
	}
}

func TestPipelineStepErrorNamesStep(t *testing.T) {
	pipeline := New([]Filter{failingFilter{}}, nil)

	_, err := pipeline.Run(context.Background(), []*job.Job{{Title: "a"}})
	if err == nil {
		t.Fatalf("expected error")
	}
	if got := err.Error(); got != "failing: boom" {
		t.Fatalf("unexpected error: %q", got)
	}
}
