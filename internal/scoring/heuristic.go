package scoring

import (
	"strings"

	"github.com/remotescout/remotescout/internal/job"
	"github.com/remotescout/remotescout/internal/profile"
)

// Weights configure the heuristic tier's signal blend. The defaults are
// empirically tuned, not derived; they are configuration so product can
// re-tune them without a code change.
type Weights struct {
	TechnicalSkills  float64 `mapstructure:"technical-skills"`
	Title            float64 `mapstructure:"title"`
	Industry         float64 `mapstructure:"industry"`
	Responsibilities float64 `mapstructure:"responsibilities"`

	// Cap bounds the heuristic score. A heuristic match is never a
	// verified perfect match, so 100 is reserved for the AI tier's
	// complete-match verdict.
	Cap int `mapstructure:"cap"`
}

// DefaultWeights returns the standard blend: skills 35%, title 30%,
// industry 20%, responsibilities 15%, capped at 95.
func DefaultWeights() Weights {
	return Weights{
		TechnicalSkills:  0.35,
		Title:            0.30,
		Industry:         0.20,
		Responsibilities: 0.15,
		Cap:              95,
	}
}

// Heuristic is the deterministic, sub-millisecond scoring tier. Always
// available; the combined scorer falls back to it whenever the AI tier is
// absent or fails.
type Heuristic struct {
	weights Weights
}

func NewHeuristic(weights Weights) *Heuristic {
	if weights.Cap <= 0 || weights.Cap > 100 {
		weights.Cap = DefaultWeights().Cap
	}
	return &Heuristic{weights: weights}
}

// Score computes the weighted match percentage and the skills that
// contributed to it.
func (h *Heuristic) Score(p *profile.Profile, j *job.Job) (int, []string) {
	text := strings.ToLower(j.Title + " " + j.Description)

	skillScore, matched := termOverlap(profile.Values(p.TechnicalSkills), text)
	titleScore := wordOverlap(profile.Values(p.WorkExperience), strings.ToLower(j.Title))
	industryScore, _ := termOverlap(profile.Values(p.Industries), text)
	respScore, _ := termOverlap(profile.Values(p.Responsibilities), text)

	weighted := float64(skillScore)*h.weights.TechnicalSkills +
		float64(titleScore)*h.weights.Title +
		float64(industryScore)*h.weights.Industry +
		float64(respScore)*h.weights.Responsibilities

	score := int(weighted)
	if score > h.weights.Cap {
		score = h.weights.Cap
	}
	if score < 0 {
		score = 0
	}

	return score, matched
}

// termOverlap scores the fraction of profile terms present in the job
// text, normalized to 0-100, and returns the terms that hit.
func termOverlap(terms []string, text string) (int, []string) {
	if len(terms) == 0 {
		return 0, nil
	}

	var matched []string
	for _, term := range terms {
		if strings.Contains(text, strings.ToLower(term)) {
			matched = append(matched, term)
		}
	}

	return len(matched) * 100 / len(terms), matched
}

// wordOverlap scores how much of the job title's vocabulary appears in the
// candidate's role history, normalized to 0-100.
func wordOverlap(roles []string, title string) int {
	titleWords := significantWords(title)
	if len(titleWords) == 0 {
		return 0
	}

	history := strings.ToLower(strings.Join(roles, " "))
	hits := 0
	for _, word := range titleWords {
		if strings.Contains(history, word) {
			hits++
		}
	}

	return hits * 100 / len(titleWords)
}

var stopWords = map[string]bool{
	"a": true, "an": true, "and": true, "the": true, "of": true,
	"for": true, "to": true, "in": true, "at": true, "with": true,
	"remote": true,
}

func significantWords(s string) []string {
	fields := strings.Fields(strings.ToLower(s))
	words := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, ".,()/-")
		if len(f) < 2 || stopWords[f] {
			continue
		}
		words = append(words, f)
	}
	return words
}
