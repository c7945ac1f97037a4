package profile

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// Seniority is the candidate's level as produced by the resume analyzer.
type Seniority string

const (
	SeniorityEntry     Seniority = "entry"
	SeniorityMid       Seniority = "mid"
	SenioritySenior    Seniority = "senior"
	SeniorityLead      Seniority = "lead"
	SeniorityExecutive Seniority = "executive"
)

// ParseSeniority normalizes a free-form seniority string. Unknown values
// fall back to mid rather than failing the profile.
func ParseSeniority(s string) Seniority {
	switch Seniority(strings.ToLower(strings.TrimSpace(s))) {
	case SeniorityEntry:
		return SeniorityEntry
	case SenioritySenior:
		return SenioritySenior
	case SeniorityLead:
		return SeniorityLead
	case SeniorityExecutive:
		return SeniorityExecutive
	default:
		return SeniorityMid
	}
}

// Entry is a single profile item. Upstream extractors emit either a plain
// string or a structured object, so Entry is the closed union of both: a
// plain-text entry carries only Text, a structured one carries the named
// fields. The zero value is an empty entry.
type Entry struct {
	Text    string `json:"text,omitempty" mapstructure:"text"`
	Title   string `json:"title,omitempty" mapstructure:"title"`
	Role    string `json:"role,omitempty" mapstructure:"role"`
	Company string `json:"company,omitempty" mapstructure:"company"`
}

// PlainText wraps a string into an Entry.
func PlainText(s string) Entry {
	return Entry{Text: strings.TrimSpace(s)}
}

// Value returns the first usable string field of the entry.
func (e Entry) Value() string {
	for _, candidate := range []string{e.Text, e.Title, e.Role, e.Company} {
		if v := strings.TrimSpace(candidate); v != "" {
			return v
		}
	}
	return ""
}

func (e Entry) IsZero() bool {
	return e.Value() == ""
}

// Profile is the candidate analysis consumed by the search core. Lists are
// ordered by relevance as produced by the upstream extractor. The profile
// is read-only input; nothing in the core mutates it.
type Profile struct {
	TechnicalSkills  []Entry   `json:"technical_skills" mapstructure:"technical_skills"`
	SoftSkills       []Entry   `json:"soft_skills" mapstructure:"soft_skills"`
	WorkExperience   []Entry   `json:"work_experience" mapstructure:"work_experience"`
	Industries       []Entry   `json:"industries" mapstructure:"industries"`
	Responsibilities []Entry   `json:"responsibilities" mapstructure:"responsibilities"`
	Qualifications   []Entry   `json:"qualifications" mapstructure:"qualifications"`
	Education        []Entry   `json:"education" mapstructure:"education"`
	Seniority        Seniority `json:"seniority_level" mapstructure:"seniority_level"`
}

// HasSignal reports whether the profile carries enough information to plan
// a search. A profile with no skills, experience and responsibilities is
// rejected before any source is contacted.
func (p *Profile) HasSignal() bool {
	if p == nil {
		return false
	}
	for _, list := range [][]Entry{p.TechnicalSkills, p.WorkExperience, p.Responsibilities} {
		for _, entry := range list {
			if !entry.IsZero() {
				return true
			}
		}
	}
	return false
}

// Values converts a list of entries into their usable string values,
// dropping empty entries.
func Values(entries []Entry) []string {
	values := make([]string, 0, len(entries))
	for _, entry := range entries {
		if v := entry.Value(); v != "" {
			values = append(values, v)
		}
	}
	return values
}

// Decode builds a Profile from a loosely-typed document. Extractors are not
// consistent about their shapes: a field may be a list of strings, a list
// of objects, a single string, or absent. All of those decode without error.
func Decode(raw map[string]any) (*Profile, error) {
	if raw == nil {
		return nil, fmt.Errorf("profile document is empty")
	}

	p := &Profile{}
	fields := map[string]*[]Entry{
		"technical_skills": &p.TechnicalSkills,
		"soft_skills":      &p.SoftSkills,
		"work_experience":  &p.WorkExperience,
		"industries":       &p.Industries,
		"responsibilities": &p.Responsibilities,
		"qualifications":   &p.Qualifications,
		"education":        &p.Education,
	}

	for key, target := range fields {
		*target = decodeEntries(raw[key])
	}

	p.Seniority = ParseSeniority(stringify(raw["seniority_level"]))

	return p, nil
}

// Load reads a profile document from a JSON file.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading profile file: %w", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing profile file %q: %w", path, err)
	}

	return Decode(raw)
}

func decodeEntries(v any) []Entry {
	switch typed := v.(type) {
	case nil:
		return nil
	case string:
		if entry := PlainText(typed); !entry.IsZero() {
			return []Entry{entry}
		}
		return nil
	case []any:
		entries := make([]Entry, 0, len(typed))
		for _, item := range typed {
			if entry := decodeEntry(item); !entry.IsZero() {
				entries = append(entries, entry)
			}
		}
		return entries
	default:
		if entry := decodeEntry(v); !entry.IsZero() {
			return []Entry{entry}
		}
		return nil
	}
}

func decodeEntry(v any) Entry {
	switch typed := v.(type) {
	case string:
		return PlainText(typed)
	case map[string]any:
		var entry Entry
		if err := mapstructure.Decode(typed, &entry); err == nil && !entry.IsZero() {
			return entry
		}
		// Object with none of the known fields: stringify as last resort.
		return PlainText(stringify(typed))
	default:
		return PlainText(stringify(v))
	}
}

func stringify(v any) string {
	switch typed := v.(type) {
	case nil:
		return ""
	case string:
		return typed
	case fmt.Stringer:
		return typed.String()
	case map[string]any:
		// Avoid turning arbitrary objects into "map[...]" noise.
		for _, key := range []string{"text", "title", "name", "role", "value"} {
			if s, ok := typed[key].(string); ok && strings.TrimSpace(s) != "" {
				return s
			}
		}
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}
