package filtering

import (
	"context"
	"strings"

	"github.com/remotescout/remotescout/internal/job"
)

// remoteKeywords are positive remote-work signals in a location or
// description.
var remoteKeywords = []string{
	"remote",
	"work from home",
	"work-from-home",
	"anywhere",
	"distributed",
	"virtual",
	"worldwide",
	"global",
	"telecommute",
	"home office",
	"home-based",
}

// onSiteVetoes are explicit negative phrases that override every positive
// signal.
var onSiteVetoes = []string{
	"on-site only",
	"onsite only",
	"on site only",
	"no remote",
	"not remote",
	"relocation required",
	"must relocate",
	"in-office only",
}

// permissiveTitleRoles is the fallback for postings with a blank or
// ambiguous location: generic knowledge-work roles are assumed remotable
// because many remote-only boards omit explicit remote language.
var permissiveTitleRoles = []string{
	"engineer",
	"developer",
	"analyst",
	"designer",
	"architect",
	"consultant",
	"writer",
}

type remoteFilter struct{}

// NewRemote creates the remote-eligibility step. The check is a heuristic,
// best-effort: it can admit a posting that turns out to be on-site.
func NewRemote() Filter {
	return &remoteFilter{}
}

func (f *remoteFilter) Name() string { return "remote" }

func (f *remoteFilter) Apply(_ context.Context, jobs []*job.Job) ([]*job.Job, Step, error) {
	initial := len(jobs)
	kept := make([]*job.Job, 0, initial)
	for _, j := range jobs {
		if IsRemote(j) {
			kept = append(kept, j)
		}
	}

	return kept, Step{Initial: initial, Dropped: initial - len(kept), Left: len(kept)}, nil
}

// IsRemote reports whether the posting looks remote-eligible.
func IsRemote(j *job.Job) bool {
	location := strings.ToLower(j.Location)
	description := strings.ToLower(j.Description)
	haystack := location + " " + description

	for _, veto := range onSiteVetoes {
		if strings.Contains(haystack, veto) {
			return false
		}
	}

	for _, keyword := range remoteKeywords {
		if strings.Contains(location, keyword) || strings.Contains(description, keyword) {
			return true
		}
	}

	if isAmbiguousLocation(location) {
		title := strings.ToLower(j.Title)
		for _, role := range permissiveTitleRoles {
			if strings.Contains(title, role) {
				return true
			}
		}
	}

	return false
}

func isAmbiguousLocation(location string) bool {
	location = strings.TrimSpace(location)
	switch location {
	case "", "n/a", "not specified", "flexible", "various", "multiple locations":
		return true
	}
	return false
}
