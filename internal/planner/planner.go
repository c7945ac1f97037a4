// Package planner derives a bounded set of remote-intent search queries
// from a resume profile. Planning is deterministic: the same profile always
// yields the same ordered query list.
package planner

import (
	"strings"

	"github.com/remotescout/remotescout/internal/profile"
)

const (
	minQueries = 3
	maxQueries = 12

	// How many leading entries of each profile list feed the plan. Lists
	// are ordered by relevance upstream.
	topExperience = 3
	topSkills     = 5
)

// roleSynonyms expands a role keyword found in work experience into the
// query phrases boards actually index.
var roleSynonyms = map[string][]string{
	"engineer":  {"software engineer", "developer"},
	"developer": {"developer", "software engineer"},
	"analyst":   {"analyst", "data analyst"},
	"designer":  {"designer", "product designer"},
	"manager":   {"manager", "project manager"},
	"scientist": {"data scientist"},
	"architect": {"software architect"},
	"devops":    {"devops engineer"},
	"writer":    {"technical writer"},
	"marketer":  {"marketing specialist"},
}

// skillQueries maps a known technical skill to its canonical role query.
var skillQueries = map[string]string{
	"javascript": "remote javascript developer",
	"typescript": "remote typescript developer",
	"python":     "remote python developer",
	"go":         "remote golang developer",
	"golang":     "remote golang developer",
	"java":       "remote java developer",
	"react":      "remote react developer",
	"node":       "remote node.js developer",
	"ruby":       "remote ruby developer",
	"php":        "remote php developer",
	"rust":       "remote rust developer",
	"c#":         "remote .net developer",
	"sql":        "remote data analyst",
	"aws":        "remote cloud engineer",
	"kubernetes": "remote devops engineer",
	"docker":     "remote devops engineer",
	"terraform":  "remote infrastructure engineer",
}

// seniorityFallback supplies generic queries when the profile yields fewer
// than the minimum.
var seniorityFallback = map[profile.Seniority][]string{
	profile.SeniorityEntry:     {"remote junior developer", "remote entry level", "remote internship"},
	profile.SeniorityMid:       {"remote developer", "remote software engineer", "remote analyst"},
	profile.SenioritySenior:    {"remote senior developer", "remote senior engineer", "remote senior"},
	profile.SeniorityLead:      {"remote lead engineer", "remote engineering lead", "remote staff engineer"},
	profile.SeniorityExecutive: {"remote engineering director", "remote cto", "remote head of engineering"},
}

// Plan converts the profile into 3-12 distinct remote-intent queries. It
// never fails: a profile with no usable entries still produces the
// seniority fallback set.
func Plan(p *profile.Profile) []string {
	queries := make([]string, 0, maxQueries)
	seen := make(map[string]struct{})

	add := func(q string) {
		q = strings.TrimSpace(strings.ToLower(q))
		if q == "" || len(queries) >= maxQueries {
			return
		}
		if _, dup := seen[q]; dup {
			return
		}
		seen[q] = struct{}{}
		queries = append(queries, q)
	}

	for _, entry := range top(p.WorkExperience, topExperience) {
		text := strings.ToLower(entry)
		// Fixed keyword order keeps the plan deterministic; ranging over
		// the synonym map would not be.
		for _, keyword := range roleKeywords {
			if !strings.Contains(text, keyword) {
				continue
			}
			for _, phrase := range roleSynonyms[keyword] {
				add("remote " + phrase)
			}
		}
	}

	for _, skill := range top(p.TechnicalSkills, topSkills) {
		if q, ok := skillQueries[normalizeSkill(skill)]; ok {
			add(q)
		}
	}

	if len(queries) < minQueries {
		seniority := p.Seniority
		if _, ok := seniorityFallback[seniority]; !ok {
			seniority = profile.SeniorityMid
		}
		for _, q := range seniorityFallback[seniority] {
			add(q)
		}
	}

	return queries
}

// roleKeywords fixes the lookup order over roleSynonyms.
var roleKeywords = []string{
	"engineer", "developer", "analyst", "designer", "manager",
	"scientist", "architect", "devops", "writer", "marketer",
}

func top(entries []profile.Entry, n int) []string {
	values := profile.Values(entries)
	if len(values) > n {
		values = values[:n]
	}
	return values
}

func normalizeSkill(skill string) string {
	skill = strings.ToLower(strings.TrimSpace(skill))
	skill = strings.TrimSuffix(skill, ".js")
	return skill
}
