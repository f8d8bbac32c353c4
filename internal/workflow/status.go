// Package workflow tracks the runtime state of a generation workflow:
// the overall status machine, per-phase attempt accounting, generated
// file tracking, and the review feedback store consumed by retries.
package workflow

// ----------------------------------------------------------------------------
// Workflow status
// ----------------------------------------------------------------------------

// Status represents the lifecycle state of a workflow.
type Status string

const (
	// StatusIdle means the workflow has been created but not started.
	StatusIdle Status = "idle"

	// StatusPlanning means the planner is generating or refining a plan.
	StatusPlanning Status = "planning"

	// StatusWriting means the writer is producing files for a phase.
	StatusWriting Status = "writing"

	// StatusReviewing means the reviewer is evaluating phase output.
	StatusReviewing Status = "reviewing"

	// StatusTesting means generated output is being tested.
	StatusTesting Status = "testing"

	// StatusFixing means the writer is addressing review or test feedback.
	StatusFixing Status = "fixing"

	// StatusCompleted means the workflow finished with all phases done.
	StatusCompleted Status = "completed"

	// StatusFailed means the workflow stopped with unrecoverable failures.
	StatusFailed Status = "failed"

	// StatusCancelled means the workflow was cancelled or timed out.
	StatusCancelled Status = "cancelled"
)

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// IsTerminal returns true if the workflow has finished.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

// IsActive returns true if the workflow is doing work.
func (s Status) IsActive() bool {
	switch s {
	case StatusPlanning, StatusWriting, StatusReviewing, StatusTesting, StatusFixing:
		return true
	}
	return false
}

// IsValid returns true if the status is a known value.
func (s Status) IsValid() bool {
	switch s {
	case StatusIdle, StatusPlanning, StatusWriting, StatusReviewing,
		StatusTesting, StatusFixing, StatusCompleted, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

// ----------------------------------------------------------------------------
// Phase status
// ----------------------------------------------------------------------------

// PhaseStatus represents the lifecycle state of a single phase.
type PhaseStatus string

const (
	// PhasePending means the phase has not started yet.
	PhasePending PhaseStatus = "pending"

	// PhaseInProgress means the phase is on its first attempt.
	PhaseInProgress PhaseStatus = "in_progress"

	// PhaseCompleted means the phase finished successfully.
	PhaseCompleted PhaseStatus = "completed"

	// PhaseFailed means the phase's most recent attempt failed.
	PhaseFailed PhaseStatus = "failed"

	// PhaseRetrying means the phase is on a second or later attempt.
	PhaseRetrying PhaseStatus = "retrying"
)

// String returns the string representation of the phase status.
func (s PhaseStatus) String() string {
	return string(s)
}

// IsTerminal returns true if the phase will not run again. A failed
// phase is terminal only once its attempts are exhausted, which is
// tracked on PhaseState rather than the status itself.
func (s PhaseStatus) IsTerminal() bool {
	return s == PhaseCompleted
}

// IsValid returns true if the phase status is a known value.
func (s PhaseStatus) IsValid() bool {
	switch s {
	case PhasePending, PhaseInProgress, PhaseCompleted, PhaseFailed, PhaseRetrying:
		return true
	}
	return false
}
