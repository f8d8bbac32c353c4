// Package agent implements the three workflow roles: the planner that
// turns a user prompt into a phased project plan, the writer that
// generates the files a phase calls for, and the reviewer that judges
// phase output against the plan's acceptance criteria.
//
// Each role is an interface so the orchestrator can be tested with
// fakes; the Model* implementations talk to a provider.Generator.
package agent

import (
	"context"

	"github.com/hbarrett/planwright/internal/plan"
)

// File is a generated file before it is written to disk.
type File struct {
	// Name is the filename from the plan.
	Name string `json:"name"`

	// Content is the cleaned file content.
	Content string `json:"content"`

	// Language is the detected language, if any.
	Language string `json:"language,omitempty"`
}

// Planner produces project plans from user prompts.
type Planner interface {
	// GeneratePlan turns a user prompt into a validated plan.
	GeneratePlan(ctx context.Context, prompt string) (*plan.Plan, error)

	// RegeneratePlan produces a new plan that addresses feedback on a
	// previous one.
	RegeneratePlan(ctx context.Context, original *plan.Plan, feedback string) (*plan.Plan, error)
}

// WriteRequest asks the writer to produce the files for one phase.
type WriteRequest struct {
	// Plan is the full project plan, for cross-file context.
	Plan *plan.Plan

	// Phase is the phase to generate files for.
	Phase plan.Phase

	// Feedback is reviewer guidance from a failed earlier attempt.
	// Empty on the first attempt.
	Feedback string
}

// Writer generates the files a phase calls for.
type Writer interface {
	WritePhase(ctx context.Context, req WriteRequest) ([]File, error)
}

// CheckType distinguishes the kinds of review checks.
type CheckType string

const (
	// CheckFileExistence verifies the phase produced its required files.
	CheckFileExistence CheckType = "file_existence"

	// CheckCriterion evaluates one acceptance criterion with the model.
	CheckCriterion CheckType = "criterion"
)

// Check is the outcome of a single review check.
type Check struct {
	Type      CheckType `json:"type"`
	Criterion string    `json:"criterion,omitempty"`
	Passed    bool      `json:"passed"`
	Details   string    `json:"details,omitempty"`
	Issues    []string  `json:"issues,omitempty"`
}

// ReviewRequest asks the reviewer to judge a phase's output.
type ReviewRequest struct {
	// Plan is the full project plan.
	Plan *plan.Plan

	// Phase is the phase under review.
	Phase plan.Phase

	// Files are the files the writer produced for this attempt.
	Files []File

	// Attempt is the attempt number, starting at 1. It shapes the
	// feedback tier on failure.
	Attempt int
}

// ReviewResult is the reviewer's verdict on one phase attempt.
type ReviewResult struct {
	// Passed is true when every check succeeded.
	Passed bool `json:"passed"`

	// Checks holds the individual check outcomes.
	Checks []Check `json:"checks"`

	// Feedback is guidance for the next attempt. Empty when passed.
	Feedback string `json:"feedback,omitempty"`
}

// Reviewer judges phase output against the plan.
type Reviewer interface {
	ReviewPhase(ctx context.Context, req ReviewRequest) (*ReviewResult, error)
}
