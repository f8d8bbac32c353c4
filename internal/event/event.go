// Package event defines the events emitted by the orchestrator during
// workflow execution, for consumption by listeners like the CLI
// progress printer and the log sink.
package event

import "time"

// Type identifies what kind of event occurred.
type Type string

const (
	// TypeWorkflowStarted indicates a workflow began executing.
	TypeWorkflowStarted Type = "workflow_started"

	// TypePlanReady indicates a plan was generated and validated.
	TypePlanReady Type = "plan_ready"

	// TypePlanIteration indicates a deep-planning critique iteration finished.
	TypePlanIteration Type = "plan_iteration"

	// TypePhaseStarted indicates a phase attempt began.
	TypePhaseStarted Type = "phase_started"

	// TypePhaseCompleted indicates a phase finished successfully.
	TypePhaseCompleted Type = "phase_completed"

	// TypePhaseFailed indicates a phase attempt failed review.
	TypePhaseFailed Type = "phase_failed"

	// TypePhaseRetrying indicates a failed phase is being attempted again.
	TypePhaseRetrying Type = "phase_retrying"

	// TypeFileWritten indicates a generated file was written to disk.
	TypeFileWritten Type = "file_written"

	// TypeReviewCompleted indicates the reviewer finished evaluating a phase.
	TypeReviewCompleted Type = "review_completed"

	// TypePhaseTesting indicates a phase's output is under test.
	// Reserved for a tester collaborator; nothing emits it yet.
	TypePhaseTesting Type = "phase_testing"

	// TypePhaseFixing indicates the writer is addressing test failures.
	// Reserved for a fixer collaborator; nothing emits it yet.
	TypePhaseFixing Type = "phase_fixing"

	// TypeWorkflowCompleted indicates the workflow finished successfully.
	TypeWorkflowCompleted Type = "workflow_completed"

	// TypeWorkflowFailed indicates the workflow stopped with failures.
	TypeWorkflowFailed Type = "workflow_failed"

	// TypeWorkflowCancelled indicates the workflow was cancelled or timed out.
	TypeWorkflowCancelled Type = "workflow_cancelled"

	// TypeError indicates a non-fatal error worth surfacing.
	TypeError Type = "error"
)

// String returns the string representation of the event type.
func (t Type) String() string {
	return string(t)
}

// Event is a single notification from the orchestrator.
type Event struct {
	// Type identifies what kind of event this is.
	Type Type `json:"type"`

	// WorkflowID is the workflow this event belongs to.
	WorkflowID string `json:"workflow_id,omitempty"`

	// PhaseID is the phase this event relates to (if applicable).
	PhaseID int `json:"phase_id,omitempty"`

	// Attempt is the attempt number for phase events.
	Attempt int `json:"attempt,omitempty"`

	// File is the path for file events.
	File string `json:"file,omitempty"`

	// Message provides human-readable context for the event.
	Message string `json:"message,omitempty"`

	// Err carries the error for error events.
	Err error `json:"-"`

	// Timestamp is when the event occurred.
	Timestamp time.Time `json:"timestamp"`
}

// Listener receives events. Implementations must not block: the
// emitter calls listeners inline on the workflow goroutine.
type Listener func(Event)

// Emitter fans events out to registered listeners, stamping a
// timestamp on each event as it is emitted.
type Emitter struct {
	workflowID string
	listeners  []Listener
}

// NewEmitter creates an emitter for the given workflow.
func NewEmitter(workflowID string, listeners ...Listener) *Emitter {
	return &Emitter{
		workflowID: workflowID,
		listeners:  listeners,
	}
}

// Subscribe registers an additional listener. Not safe to call
// concurrently with Emit.
func (e *Emitter) Subscribe(l Listener) {
	e.listeners = append(e.listeners, l)
}

// Emit delivers an event to all listeners. A nil emitter is a no-op so
// callers need no guards.
func (e *Emitter) Emit(ev Event) {
	if e == nil {
		return
	}
	if ev.WorkflowID == "" {
		ev.WorkflowID = e.workflowID
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}
	for _, l := range e.listeners {
		l(ev)
	}
}
