package filtering

import (
	"context"
	"strings"

	"github.com/remotescout/remotescout/internal/job"
	"github.com/remotescout/remotescout/internal/source"
)

// Post builds the user-constraint portion of the pipeline from the request
// filters: salary floor, then seniority, then timezone. Unset fields
// contribute no-op steps.
func Post(filters source.Filters) []Filter {
	return []Filter{
		NewSalaryFloor(filters.SalaryFloor),
		NewSeniority(filters.ExperienceLevel),
		NewTimezone(filters.TimezonePreference),
	}
}

// conflictingLevels lists title markers that contradict a requested level.
// A title carrying no marker always passes.
var conflictingLevels = map[string][]string{
	"entry":  {"senior", "staff", "principal", "lead", "director", "head of"},
	"mid":    {"intern", "principal", "director", "head of"},
	"senior": {"junior", "intern", "entry level", "entry-level", "graduate"},
	"lead":   {"junior", "intern", "entry level", "entry-level", "graduate"},
}

type seniorityFilter struct {
	level string
}

func NewSeniority(level string) Filter {
	return &seniorityFilter{level: strings.ToLower(strings.TrimSpace(level))}
}

func (f *seniorityFilter) Name() string { return "seniority" }

func (f *seniorityFilter) Apply(_ context.Context, jobs []*job.Job) ([]*job.Job, Step, error) {
	initial := len(jobs)
	conflicts, ok := conflictingLevels[f.level]
	if f.level == "" || !ok {
		return jobs, Step{Initial: initial, Left: initial}, nil
	}

	kept := make([]*job.Job, 0, initial)
	for _, j := range jobs {
		title := strings.ToLower(j.Title)
		excluded := false
		for _, marker := range conflicts {
			if strings.Contains(title, marker) {
				excluded = true
				break
			}
		}
		if !excluded {
			kept = append(kept, j)
		}
	}

	return kept, Step{Initial: initial, Dropped: initial - len(kept), Left: len(kept)}, nil
}

// timezoneMentions flag a posting as timezone-restricted.
var timezoneMentions = []string{"time zone", "timezone", "working hours overlap", "overlap with"}

type timezoneFilter struct {
	preference string
}

// NewTimezone drops postings that state a timezone restriction not
// mentioning the user's preference. Postings with no restriction pass;
// most remote jobs never state one.
func NewTimezone(preference string) Filter {
	return &timezoneFilter{preference: strings.ToLower(strings.TrimSpace(preference))}
}

func (f *timezoneFilter) Name() string { return "timezone" }

func (f *timezoneFilter) Apply(_ context.Context, jobs []*job.Job) ([]*job.Job, Step, error) {
	initial := len(jobs)
	if f.preference == "" {
		return jobs, Step{Initial: initial, Left: initial}, nil
	}

	kept := make([]*job.Job, 0, initial)
	for _, j := range jobs {
		description := strings.ToLower(j.Description)
		restricted := false
		for _, mention := range timezoneMentions {
			if strings.Contains(description, mention) {
				restricted = true
				break
			}
		}
		if !restricted || strings.Contains(description, f.preference) {
			kept = append(kept, j)
		}
	}

	return kept, Step{Initial: initial, Dropped: initial - len(kept), Left: len(kept)}, nil
}
