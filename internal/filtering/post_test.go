package filtering

import (
	"context"
	"testing"

	"github.com/remotescout/remotescout/internal/job"
	"github.com/remotescout/remotescout/internal/source"
)

func TestPostBuildsThreeSteps(t *testing.T) {
	steps := Post(source.Filters{SalaryFloor: 90000, ExperienceLevel: "senior", TimezonePreference: "UTC-5"})

	if len(steps) != 3 {
		t.Fatalf("expected 3 steps, got %d", len(steps))
	}
	names := []string{steps[0].Name(), steps[1].Name(), steps[2].Name()}
	want := []string{"salary_floor", "seniority", "timezone"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("unexpected step order: %v", names)
		}
	}
}

func TestSeniorityDropsConflictingTitles(t *testing.T) {
	jobs := []*job.Job{
		{Title: "Junior Developer"},
		{Title: "Senior Go Engineer"},
		{Title: "Go Engineer"},
		{Title: "Graduate Scheme Developer"},
	}

	kept, step, err := NewSeniority("senior").Apply(context.Background(), jobs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(kept) != 2 {
		t.Fatalf("expected 2 kept, got %d (%+v)", len(kept), step)
	}
	// Titles without a level marker pass.
	if kept[1].Title != "Go Engineer" {
		t.Fatalf("unmarked title should pass, kept: %v", kept)
	}
}

func TestSeniorityUnknownLevelIsNoop(t *testing.T) {
	jobs := []*job.Job{{Title: "Junior Developer"}}

	kept, _, err := NewSeniority("wizard").Apply(context.Background(), jobs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(kept) != 1 {
		t.Fatalf("unknown level must not filter")
	}
}

func TestTimezoneAbsencePasses(t *testing.T) {
	jobs := []*job.Job{
		{Title: "a", Description: "Fully remote, async-first team."},
		{Title: "b", Description: "Must have 4 hours working hours overlap with UTC-5."},
		{Title: "c", Description: "Requires overlap with CET timezone."},
	}

	kept, _, err := NewTimezone("UTC-5").Apply(context.Background(), jobs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(kept) != 2 {
		t.Fatalf("expected 2 kept, got %d", len(kept))
	}
	if kept[0].Title != "a" || kept[1].Title != "b" {
		t.Fatalf("unexpected survivors: %v", kept)
	}
}

func TestTimezoneEmptyPreferenceIsNoop(t *testing.T) {
	jobs := []*job.Job{{Title: "a", Description: "Requires overlap with CET timezone."}}

	kept, _, err := NewTimezone("").Apply(context.Background(), jobs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(kept) != 1 {
		t.Fatalf("empty preference must not filter")
	}
}
