package importer

import (
	"time"

	"github.com/google/uuid"
)

// Action is what an import did, or would do, to one entity.
type Action string

const (
	// ActionCreated marks an entity that did not exist before.
	ActionCreated Action = "created"
	// ActionUpdated marks an existing entity whose fields were overwritten.
	ActionUpdated Action = "updated"
	// ActionRemoved marks an entity deleted because its identity left the data.
	ActionRemoved Action = "removed"
)

// RecordReport describes the outcome for a single entity.
type RecordReport struct {
	Type     EntityType `json:"type"`
	Key      string     `json:"key"`
	UUID     uuid.UUID  `json:"uuid"`
	Action   Action     `json:"action"`
	Existing bool       `json:"existing"`
}

// Result summarizes one entity type within a run.
type Result struct {
	// Type is the imported entity type.
	Type EntityType `json:"type"`

	// Created, Updated and Removed count records by action.
	Created int `json:"created"`
	Updated int `json:"updated"`
	Removed int `json:"removed"`

	// Records lists every entity touched, in processing order.
	Records []RecordReport `json:"records"`

	// Warnings are non-fatal findings, such as duplicate identities.
	Warnings []string `json:"warnings,omitempty"`
}

func (r *Result) add(rec RecordReport) {
	switch rec.Action {
	case ActionCreated:
		r.Created++
	case ActionUpdated:
		r.Updated++
	case ActionRemoved:
		r.Removed++
	}
	r.Records = append(r.Records, rec)
}

// Report is the outcome of a whole pipeline run.
type Report struct {
	RunID      uuid.UUID `json:"run_id"`
	Ruleset    string    `json:"ruleset"`
	Source     string    `json:"source"`
	DryRun     bool      `json:"dry_run"`
	Status     RunStatus `json:"status"`
	Error      string    `json:"error,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Steps      []*Result `json:"steps"`
	Warnings   []string  `json:"warnings,omitempty"`
}

// Totals sums the per-type counts.
func (r *Report) Totals() (created, updated, removed int) {
	for _, s := range r.Steps {
		created += s.Created
		updated += s.Updated
		removed += s.Removed
	}
	return created, updated, removed
}

// Step returns the result for an entity type, or nil if it did not run.
func (r *Report) Step(t EntityType) *Result {
	for _, s := range r.Steps {
		if s.Type == t {
			return s
		}
	}
	return nil
}
