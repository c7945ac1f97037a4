package filtering

import (
	"context"
	"testing"

	"github.com/remotescout/remotescout/internal/job"
)

func TestIsRemote(t *testing.T) {
	cases := []struct {
		name string
		job  *job.Job
		want bool
	}{
		{
			name: "remote location",
			job:  &job.Job{Title: "Accountant", Location: "Remote"},
			want: true,
		},
		{
			name: "remote in description",
			job:  &job.Job{Title: "Accountant", Location: "New York, NY", Description: "This is a fully remote position."},
			want: true,
		},
		{
			name: "work from home phrasing",
			job:  &job.Job{Title: "Support Agent", Location: "Austin, TX", Description: "Work from home with quarterly meetups."},
			want: true,
		},
		{
			name: "veto beats keyword",
			job:  &job.Job{Title: "Engineer", Location: "Remote", Description: "Please note: no remote applicants, on-site only."},
			want: false,
		},
		{
			name: "relocation veto",
			job:  &job.Job{Title: "Engineer", Location: "Anywhere", Description: "Relocation required within 6 months."},
			want: false,
		},
		{
			name: "on-site city",
			job:  &job.Job{Title: "Accountant", Location: "London, UK", Description: "Join our office team."},
			want: false,
		},
		{
			name: "blank location with engineering title",
			job:  &job.Job{Title: "Senior Software Engineer", Location: "", Description: "Build backend services."},
			want: true,
		},
		{
			name: "blank location with non-knowledge role",
			job:  &job.Job{Title: "Warehouse Operative", Location: "", Description: "Forklift certified."},
			want: false,
		},
		{
			name: "not specified location with designer title",
			job:  &job.Job{Title: "Product Designer", Location: "Not specified"},
			want: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsRemote(tc.job); got != tc.want {
				t.Fatalf("IsRemote() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestRemoteFilterCountsDrops(t *testing.T) {
	jobs := []*job.Job{
		{Title: "Engineer", Location: "Remote"},
		{Title: "Clerk", Location: "Boston, MA"},
		{Title: "Engineer", Location: "Worldwide"},
	}

	kept, step, err := NewRemote().Apply(context.Background(), jobs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(kept) != 2 {
		t.Fatalf("expected 2 kept, got %d", len(kept))
	}
	if step.Initial != 3 || step.Dropped != 1 || step.Left != 2 {
		t.Fatalf("unexpected step: %+v", step)
	}
}
