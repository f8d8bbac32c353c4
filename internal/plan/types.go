// Package plan defines the project plan schema produced by the planner
// agent, along with parsing, validation, and snapshot persistence.
//
// A Plan describes the work a workflow will execute: project metadata,
// an ordered list of phases, and a prose description of the overall
// structure. Plans arrive as raw model output and pass through
// ParsePlannerOutput before they are trusted by the rest of the system.
package plan

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// SchemaVersion is the plan schema version stamped into Metadata.
const SchemaVersion = "1.0"

// ----------------------------------------------------------------------------
// Plan types
// ----------------------------------------------------------------------------

// ProjectInfo describes the project a plan targets.
type ProjectInfo struct {
	// Name is the project name.
	Name string `json:"name"`

	// Type categorizes the project (e.g. "cli", "web_app", "library").
	Type string `json:"type"`

	// Description is a short summary of what the project does.
	Description string `json:"description"`

	// Language is the primary implementation language.
	Language string `json:"language"`
}

// Phase is a single unit of work within a plan. Phases are executed in
// ascending PhaseID order.
type Phase struct {
	// PhaseID orders the phase within the plan, starting at 1.
	PhaseID int `json:"phase_id"`

	// Name is a short title for the phase.
	Name string `json:"name"`

	// Description explains what the phase should accomplish.
	Description string `json:"description"`

	// FilesToCreate lists the files the writer is expected to produce.
	FilesToCreate []string `json:"files_to_create"`

	// Dependencies lists phase IDs that must complete first.
	Dependencies []int `json:"dependencies,omitempty"`

	// AcceptanceCriteria are the review criteria for the phase's output.
	AcceptanceCriteria []string `json:"acceptance_criteria,omitempty"`

	// Prerequisites names earlier phases this phase builds on.
	// Informational only; Dependencies carries the enforced ordering.
	Prerequisites []string `json:"prerequisites,omitempty"`

	// EstimatedComplexity is the planner's complexity estimate on a
	// 1 (trivial) to 5 (hard) scale. Zero means the planner omitted it.
	EstimatedComplexity int `json:"estimated_complexity,omitempty"`
}

// Metadata records provenance for a generated plan.
type Metadata struct {
	// GeneratedAt is when the plan was produced.
	GeneratedAt time.Time `json:"generated_at"`

	// OriginalPrompt is the user request the plan was generated from.
	OriginalPrompt string `json:"original_prompt"`

	// PlannerAgent names the agent or model that produced the plan.
	PlannerAgent string `json:"planner_agent"`

	// Version is the plan schema version.
	Version string `json:"version"`
}

// Plan is a complete, validated project plan.
type Plan struct {
	// ProjectInfo describes the target project.
	ProjectInfo ProjectInfo `json:"project_info"`

	// Phases are the units of work, executed in PhaseID order.
	Phases []Phase `json:"phases"`

	// OverallStructure is a prose description of the intended layout.
	OverallStructure string `json:"overall_structure"`

	// Metadata records how and when the plan was generated.
	Metadata Metadata `json:"metadata,omitempty"`
}

// PhaseCount returns the number of phases in the plan.
func (p *Plan) PhaseCount() int {
	return len(p.Phases)
}

// GetPhase returns the phase with the given ID, or nil if not found.
func (p *Plan) GetPhase(phaseID int) *Phase {
	for i := range p.Phases {
		if p.Phases[i].PhaseID == phaseID {
			return &p.Phases[i]
		}
	}
	return nil
}

// SortedPhases returns the plan's phases in ascending PhaseID order
// without modifying the plan.
func (p *Plan) SortedPhases() []Phase {
	phases := make([]Phase, len(p.Phases))
	copy(phases, p.Phases)
	sort.Slice(phases, func(i, j int) bool {
		return phases[i].PhaseID < phases[j].PhaseID
	})
	return phases
}

// AllFiles returns every file named across all phases, deduplicated,
// in first-seen order walking phases by ascending PhaseID.
func (p *Plan) AllFiles() []string {
	seen := make(map[string]bool)
	var files []string
	for _, phase := range p.SortedPhases() {
		for _, f := range phase.FilesToCreate {
			if !seen[f] {
				seen[f] = true
				files = append(files, f)
			}
		}
	}
	return files
}

// String returns a short human-readable summary of the plan.
func (p *Plan) String() string {
	return fmt.Sprintf("%s (%s, %d phases)", p.ProjectInfo.Name, p.ProjectInfo.Language, len(p.Phases))
}

// MarshalIndent renders the plan as indented JSON.
func (p *Plan) MarshalIndent() ([]byte, error) {
	return json.MarshalIndent(p, "", "  ")
}

// ----------------------------------------------------------------------------
// Validation types
// ----------------------------------------------------------------------------

// ValidationSeverity indicates how serious a validation finding is.
type ValidationSeverity string

const (
	// SeverityError indicates the plan cannot be used as-is.
	SeverityError ValidationSeverity = "error"

	// SeverityWarning indicates a suspicious but usable plan.
	SeverityWarning ValidationSeverity = "warning"
)

// ValidationMessage is a single finding from plan validation.
type ValidationMessage struct {
	Severity ValidationSeverity `json:"severity"`
	Field    string             `json:"field,omitempty"`
	Message  string             `json:"message"`
}

// ValidationResult aggregates the findings from validating a plan.
type ValidationResult struct {
	Valid    bool                `json:"valid"`
	Messages []ValidationMessage `json:"messages,omitempty"`
}

// Errors returns only the error-severity messages.
func (r *ValidationResult) Errors() []ValidationMessage {
	var errs []ValidationMessage
	for _, m := range r.Messages {
		if m.Severity == SeverityError {
			errs = append(errs, m)
		}
	}
	return errs
}

// Warnings returns only the warning-severity messages.
func (r *ValidationResult) Warnings() []ValidationMessage {
	var warns []ValidationMessage
	for _, m := range r.Messages {
		if m.Severity == SeverityWarning {
			warns = append(warns, m)
		}
	}
	return warns
}

func (r *ValidationResult) addError(field, msg string) {
	r.Messages = append(r.Messages, ValidationMessage{Severity: SeverityError, Field: field, Message: msg})
	r.Valid = false
}

func (r *ValidationResult) addWarning(field, msg string) {
	r.Messages = append(r.Messages, ValidationMessage{Severity: SeverityWarning, Field: field, Message: msg})
}
