package gemini

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/remotescout/remotescout/internal/ai"
	"github.com/remotescout/remotescout/internal/job"
	"github.com/remotescout/remotescout/internal/profile"
	"github.com/remotescout/remotescout/internal/utils"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// cachedContentGenerator is implemented by generators that can pin the
// profile payload server-side for the duration of a session.
type cachedContentGenerator interface {
	EnsureProfileCache(ctx context.Context, sessionID, payload string) (string, error)
	GenerateContentWithCache(ctx context.Context, prompt, cacheName string) (string, error)
}

//go:embed prompt.md
var promptTemplate string

const defaultMaxLogLength = 200

// Scorer is the Gemini implementation of the AI scoring tier.
type Scorer struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

func NewScorer(generator contentGenerator, maxLogLength int, logger *zap.Logger) *Scorer {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Scorer{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

// Score asks Gemini for a structured assessment of the job against the
// profile. Errors propagate to the combined scorer, which falls back to
// the heuristic tier.
func (s *Scorer) Score(ctx context.Context, p *profile.Profile, j *job.Job) (*ai.Assessment, error) {
	if p == nil {
		return nil, fmt.Errorf("profile is required")
	}
	if j == nil {
		return nil, fmt.Errorf("job is required")
	}

	profileJSON, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal profile payload: %w", err)
	}

	jobJSON, err := json.MarshalIndent(j, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal job payload: %w", err)
	}

	prompt, cacheName := s.preparePrompt(ctx, string(profileJSON), string(jobJSON))

	s.logger.Debug("gemini scoring request",
		zap.String("job", j.Title),
		zap.String("source", j.Source),
		zap.Bool("profile_cached", cacheName != ""),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, s.maxLogLen)),
	)

	raw, err := s.generate(ctx, prompt, cacheName)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("gemini scoring response",
		zap.String("job", j.Title),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, s.maxLogLen)),
	)

	assessment, err := parseResponse(raw)
	if err != nil {
		return nil, err
	}

	assessment.Raw = raw
	return assessment, nil
}

// preparePrompt builds the scoring prompt, pinning the profile payload in
// a server-side cache when the generator supports it. The profile repeats
// across every job of a session; caching it cuts the per-job token cost.
// Any cache problem falls back to inlining the profile.
func (s *Scorer) preparePrompt(ctx context.Context, profileJSON, jobJSON string) (prompt, cacheName string) {
	cached, ok := s.generator.(cachedContentGenerator)
	if !ok {
		return buildPrompt(profileJSON, jobJSON), ""
	}

	sum := sha256.Sum256([]byte(profileJSON))
	sessionID := fmt.Sprintf("%x", sum[:6])

	name, err := cached.EnsureProfileCache(ctx, sessionID, profileJSON)
	if err != nil {
		s.logger.Debug("profile caching unavailable; inlining profile", zap.Error(err))
		return buildPrompt(profileJSON, jobJSON), ""
	}

	return buildPrompt("(provided in the cached context above)", jobJSON), name
}

func (s *Scorer) generate(ctx context.Context, prompt, cacheName string) (string, error) {
	if cacheName != "" {
		if cached, ok := s.generator.(cachedContentGenerator); ok {
			return cached.GenerateContentWithCache(ctx, prompt, cacheName)
		}
	}
	return s.generator.GenerateContent(ctx, prompt)
}

func buildPrompt(profileJSON, jobJSON string) string {
	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Profile:\n{{PROFILE_JSON}}\n\nJob:\n{{JOB_JSON}}\n\nJSON Response:"
	}
	prompt := strings.ReplaceAll(template, "{{PROFILE_JSON}}", profileJSON)
	prompt = strings.ReplaceAll(prompt, "{{JOB_JSON}}", jobJSON)
	return prompt
}

func parseResponse(raw string) (*ai.Assessment, error) {
	cleaned := extractJSON(strings.TrimSpace(raw))

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}

	return &ai.Assessment{
		Score:               coerceInt(data["match_percentage"]),
		MatchedSkills:       coerceStrings(data["matched_skills"]),
		MissingRequirements: coerceStrings(data["missing_requirements"]),
		Reasoning:           coerceString(data["reasoning"]),
	}, nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

func coerceInt(v any) int {
	switch val := v.(type) {
	case float64:
		return int(val)
	case int:
		return val
	case string:
		trimmed := strings.TrimSuffix(strings.TrimSpace(val), "%")
		n, err := strconv.Atoi(trimmed)
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

func coerceStrings(v any) []string {
	switch val := v.(type) {
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if s := coerceString(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	case []string:
		return val
	case string:
		if s := strings.TrimSpace(val); s != "" {
			return []string{s}
		}
		return nil
	default:
		return nil
	}
}

func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case fmt.Stringer:
		return strings.TrimSpace(val.String())
	default:
		if v == nil {
			return ""
		}
		bytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(bytes)
	}
}
