package ai

import (
	"context"

	"github.com/remotescout/remotescout/internal/job"
	"github.com/remotescout/remotescout/internal/profile"
)

// Assessment is one provider's judgement of a job against a profile.
type Assessment struct {
	Score               int
	MatchedSkills       []string
	MissingRequirements []string
	Reasoning           string
	Raw                 string
}

// Scorer is the pluggable text-generation scoring capability. Implemented
// by the Gemini provider; never hardcoded to one vendor.
type Scorer interface {
	Score(ctx context.Context, p *profile.Profile, j *job.Job) (*Assessment, error)
}
