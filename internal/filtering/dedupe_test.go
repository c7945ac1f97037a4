package filtering

import (
	"context"
	"testing"

	"github.com/remotescout/remotescout/internal/job"
)

func TestDedupeFirstWins(t *testing.T) {
	first := &job.Job{Title: "Go Engineer", Company: "Acme", Source: "adzuna"}
	dup := &job.Job{Title: " go engineer ", Company: "ACME", Source: "reed"}
	other := &job.Job{Title: "Go Engineer", Company: "Globex"}

	unique := Dedupe([]*job.Job{first, dup, other}, nil)

	if len(unique) != 2 {
		t.Fatalf("expected 2 unique jobs, got %d", len(unique))
	}
	if unique[0].Source != "adzuna" {
		t.Fatalf("first occurrence should win, got source %q", unique[0].Source)
	}
}

func TestDedupeIsIdempotent(t *testing.T) {
	jobs := []*job.Job{
		{Title: "A", Company: "x"},
		{Title: "B", Company: "y"},
	}

	once := Dedupe(jobs, nil)
	twice := Dedupe(once, nil)

	if len(once) != len(twice) {
		t.Fatalf("dedupe of deduped input changed the set: %d vs %d", len(once), len(twice))
	}
}

func TestDedupeFilterSpansBatches(t *testing.T) {
	filter := NewDedupe()
	ctx := context.Background()

	batch1 := []*job.Job{{Title: "Go Engineer", Company: "Acme"}}
	batch2 := []*job.Job{
		{Title: "go engineer", Company: "acme"},
		{Title: "SRE", Company: "Initech"},
	}

	kept1, _, err := filter.Apply(ctx, batch1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	kept2, step, err := filter.Apply(ctx, batch2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(kept1) != 1 {
		t.Fatalf("expected 1 job from first batch")
	}
	if len(kept2) != 1 || kept2[0].Title != "SRE" {
		t.Fatalf("duplicate from an earlier batch should be dropped, kept: %v", kept2)
	}
	if step.Dropped != 1 {
		t.Fatalf("unexpected step: %+v", step)
	}
}

func TestDedupeFreshInstancesAreIndependent(t *testing.T) {
	ctx := context.Background()
	jobs := []*job.Job{{Title: "Go Engineer", Company: "Acme"}}

	if kept, _, _ := NewDedupe().Apply(ctx, jobs); len(kept) != 1 {
		t.Fatalf("expected job to pass a fresh filter")
	}
	// A second instance carries no memory of the first.
	if kept, _, _ := NewDedupe().Apply(ctx, jobs); len(kept) != 1 {
		t.Fatalf("expected job to pass another fresh filter")
	}
}
