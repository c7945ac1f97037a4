package search

import (
	"github.com/remotescout/remotescout/internal/job"
	"github.com/remotescout/remotescout/internal/keyring"
)

// EventType discriminates the events streamed to the caller.
type EventType string

const (
	// EventSearchStarted is always the first event of a session.
	EventSearchStarted EventType = "search_started"
	// EventJobsFound carries an incremental batch of matches.
	EventJobsFound EventType = "jobs_found"
	// EventProgressUpdate reports session progress.
	EventProgressUpdate EventType = "progress_update"
	// EventUserMessage carries a source-health advisory.
	EventUserMessage EventType = "user_message"
	// EventSearchComplete is terminal and carries the full summary.
	EventSearchComplete EventType = "search_complete"
	// EventError is terminal and carries an actionable message.
	EventError EventType = "error"
)

// Event is one element of the session's output stream. The stream starts
// with search_started and ends with exactly one search_complete or error;
// jobs_found and progress_update interleave in arrival order between them.
type Event struct {
	Type            EventType     `json:"type"`
	Source          string        `json:"source,omitempty"`
	Jobs            []*job.Scored `json:"jobs,omitempty"`
	ProgressPercent int           `json:"progress_percent,omitempty"`
	Message         string        `json:"message,omitempty"`
	Summary         *Summary      `json:"summary,omitempty"`
}

// Summary is the terminal session report.
type Summary struct {
	AllJobs        *job.List              `json:"all_jobs"`
	TotalJobs      int                    `json:"total_jobs"`
	ElapsedSeconds float64                `json:"elapsed_seconds"`
	SourceHealth   []keyring.SourceHealth `json:"source_health"`
	FromCache      bool                   `json:"from_cache,omitempty"`
}
