package job

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"
)

// Job is the canonical posting record produced by a source adapter.
// It is immutable once constructed; scoring wraps it into a Scored value
// instead of mutating it.
type Job struct {
	Title          string    `json:"title"`
	Company        string    `json:"company"`
	Location       string    `json:"location"`
	Description    string    `json:"description"`
	URL            string    `json:"url"`
	SalaryText     string    `json:"salary_text,omitempty"`
	EmploymentType string    `json:"employment_type,omitempty"`
	PostedAt       time.Time `json:"posted_at,omitempty"`
	Source         string    `json:"source"`
}

// Key returns the deduplication identity: the normalized (title, company)
// pair, case-insensitive and trimmed.
func (j *Job) Key() string {
	title := strings.ToLower(strings.TrimSpace(j.Title))
	company := strings.ToLower(strings.TrimSpace(j.Company))
	return title + "|" + company
}

// Scored augments a Job with the match assessment computed against a
// resume profile.
type Scored struct {
	Job
	MatchPercentage     int      `json:"match_percentage"`
	MatchedSkills       []string `json:"matched_skills,omitempty"`
	MissingRequirements []string `json:"missing_requirements,omitempty"`
	Reasoning           string   `json:"reasoning,omitempty"`
}

// List is a collection of scored jobs accumulated over a search session.
type List struct {
	Items []*Scored
}

func (l *List) Len() int {
	return len(l.Items)
}

func (l *List) Append(items ...*Scored) {
	l.Items = append(l.Items, items...)
}

// SortByScore orders the list by match percentage, highest first. The sort
// is stable so arrival order breaks ties.
func (l *List) SortByScore() {
	sort.SliceStable(l.Items, func(i, j int) bool {
		return l.Items[i].MatchPercentage > l.Items[j].MatchPercentage
	})
}

func (l *List) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "jobs_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(l); err != nil {
		return "", err
	}
	return file.Name(), nil
}

// ReportBySource groups the accumulated jobs by source name.
func (l *List) ReportBySource() map[string][]map[string]string {
	report := make(map[string][]map[string]string)
	for _, item := range l.Items {
		report[item.Source] = append(report[item.Source], map[string]string{
			"title":   item.Title,
			"company": item.Company,
			"url":     item.URL,
			"salary":  item.SalaryText,
			"match":   fmt.Sprintf("%d%%", item.MatchPercentage),
		})
	}
	return report
}
