package errors

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

// -----------------------------------------------------------------------------
// Severity Tests
// -----------------------------------------------------------------------------

func TestSeverity_String(t *testing.T) {
	tests := []struct {
		severity Severity
		want     string
	}{
		{SeverityDebug, "debug"},
		{SeverityInfo, "info"},
		{SeverityWarning, "warning"},
		{SeverityError, "error"},
		{SeverityCritical, "critical"},
		{Severity(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.severity.String(); got != tt.want {
				t.Errorf("Severity.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

// -----------------------------------------------------------------------------
// PlanError Tests
// -----------------------------------------------------------------------------

func TestNewPlanError(t *testing.T) {
	cause := ErrMalformedPlan
	err := NewPlanError("failed to parse plan", cause)

	if err.message != "failed to parse plan" {
		t.Errorf("message = %q, want %q", err.message, "failed to parse plan")
	}
	if err.cause != cause {
		t.Errorf("cause = %v, want %v", err.cause, cause)
	}
	if err.Severity() != SeverityError {
		t.Errorf("Severity() = %v, want %v", err.Severity(), SeverityError)
	}
	if err.IsRetryable() {
		t.Error("IsRetryable() = true, want false")
	}
	if !err.IsUserFacing() {
		t.Error("IsUserFacing() = false, want true")
	}
}

func TestPlanError_WithMethods(t *testing.T) {
	err := NewPlanError("test", nil).
		WithPlanID("plan-9f2a").
		WithField("project_info").
		WithSeverity(SeverityCritical).
		WithRetryable(true)

	if err.PlanID != "plan-9f2a" {
		t.Errorf("PlanID = %q, want %q", err.PlanID, "plan-9f2a")
	}
	if err.Field != "project_info" {
		t.Errorf("Field = %q, want %q", err.Field, "project_info")
	}
	if err.Severity() != SeverityCritical {
		t.Errorf("Severity() = %v, want %v", err.Severity(), SeverityCritical)
	}
	if !err.IsRetryable() {
		t.Error("IsRetryable() = false, want true")
	}
}

func TestPlanError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *PlanError
		want string
	}{
		{
			name: "basic error",
			err:  NewPlanError("test error", nil),
			want: "plan error: test error",
		},
		{
			name: "with cause",
			err:  NewPlanError("test error", ErrMalformedPlan),
			want: "plan error: test error: plan output is not valid JSON",
		},
		{
			name: "with plan ID",
			err:  NewPlanError("test error", nil).WithPlanID("plan-1"),
			want: "plan error [plan=plan-1]: test error",
		},
		{
			name: "with plan ID and field",
			err:  NewPlanError("missing key", ErrMissingField).WithPlanID("plan-2").WithField("phases"),
			want: "plan error [plan=plan-2, field=phases]: missing key: required plan field missing",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPlanError_Is(t *testing.T) {
	err := NewPlanError("test", ErrMalformedPlan).WithPlanID("abc")

	// Should match PlanError type
	if !Is(err, &PlanError{}) {
		t.Error("Is(PlanError{}) = false, want true")
	}

	// Should match wrapped sentinel error
	if !Is(err, ErrMalformedPlan) {
		t.Error("Is(ErrMalformedPlan) = false, want true")
	}

	// Should not match unrelated errors
	if Is(err, ErrPhaseNotFound) {
		t.Error("Is(ErrPhaseNotFound) = true, want false")
	}
}

func TestPlanError_Unwrap(t *testing.T) {
	cause := ErrRefusal
	err := NewPlanError("test", cause)

	if unwrapped := Unwrap(err); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}
}

// -----------------------------------------------------------------------------
// PhaseError Tests
// -----------------------------------------------------------------------------

func TestNewPhaseError(t *testing.T) {
	cause := ErrPhaseFailed
	err := NewPhaseError("write step failed", cause)

	if err.message != "write step failed" {
		t.Errorf("message = %q, want %q", err.message, "write step failed")
	}
	if err.Attempt != -1 {
		t.Errorf("Attempt = %d, want -1", err.Attempt)
	}
}

func TestPhaseError_WithMethods(t *testing.T) {
	err := NewPhaseError("test", nil).
		WithPhaseID("p2").
		WithAttempt(3).
		WithSeverity(SeverityWarning).
		WithRetryable(true)

	if err.PhaseID != "p2" {
		t.Errorf("PhaseID = %q, want %q", err.PhaseID, "p2")
	}
	if err.Attempt != 3 {
		t.Errorf("Attempt = %d, want 3", err.Attempt)
	}
	if err.Severity() != SeverityWarning {
		t.Errorf("Severity() = %v, want %v", err.Severity(), SeverityWarning)
	}
}

func TestPhaseError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *PhaseError
		want string
	}{
		{
			name: "basic error",
			err:  NewPhaseError("test error", nil),
			want: "phase error: test error",
		},
		{
			name: "with phase ID",
			err:  NewPhaseError("test error", nil).WithPhaseID("p1"),
			want: "phase error [phase=p1]: test error",
		},
		{
			name: "with all fields",
			err:  NewPhaseError("rejected", ErrReviewRejected).WithPhaseID("p1").WithAttempt(2),
			want: "phase error [phase=p1, attempt=2]: rejected: review rejected phase output",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPhaseError_Is(t *testing.T) {
	err := NewPhaseError("test", ErrPhaseNotRetryable)

	if !Is(err, &PhaseError{}) {
		t.Error("Is(PhaseError{}) = false, want true")
	}
	if !Is(err, ErrPhaseNotRetryable) {
		t.Error("Is(ErrPhaseNotRetryable) = false, want true")
	}
	if Is(err, &PlanError{}) {
		t.Error("Is(PlanError{}) = true, want false")
	}
}

// -----------------------------------------------------------------------------
// WorkflowError Tests
// -----------------------------------------------------------------------------

func TestNewWorkflowError(t *testing.T) {
	cause := ErrWorkflowNotActive
	err := NewWorkflowError("transition rejected", cause)

	if err.message != "transition rejected" {
		t.Errorf("message = %q, want %q", err.message, "transition rejected")
	}
	if err.cause != cause {
		t.Errorf("cause = %v, want %v", err.cause, cause)
	}
}

func TestWorkflowError_WithMethods(t *testing.T) {
	err := NewWorkflowError("test", nil).
		WithWorkflowID("workflow_a1b2c3").
		WithStatus("completed").
		WithSeverity(SeverityCritical).
		WithRetryable(true)

	if err.WorkflowID != "workflow_a1b2c3" {
		t.Errorf("WorkflowID = %q, want %q", err.WorkflowID, "workflow_a1b2c3")
	}
	if err.Status != "completed" {
		t.Errorf("Status = %q, want %q", err.Status, "completed")
	}
}

func TestWorkflowError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *WorkflowError
		want string
	}{
		{
			name: "basic error",
			err:  NewWorkflowError("test error", nil),
			want: "workflow error: test error",
		},
		{
			name: "with workflow ID",
			err:  NewWorkflowError("test error", nil).WithWorkflowID("workflow_1"),
			want: "workflow error [workflow=workflow_1]: test error",
		},
		{
			name: "with all fields",
			err:  NewWorkflowError("stopped", ErrMaxAttemptsExceeded).WithWorkflowID("workflow_1").WithStatus("failed"),
			want: "workflow error [workflow=workflow_1, status=failed]: stopped: maximum attempts exceeded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWorkflowError_Is(t *testing.T) {
	err := NewWorkflowError("test", ErrWorkflowCanceled)

	if !Is(err, &WorkflowError{}) {
		t.Error("Is(WorkflowError{}) = false, want true")
	}
	if !Is(err, ErrWorkflowCanceled) {
		t.Error("Is(ErrWorkflowCanceled) = false, want true")
	}
}

// -----------------------------------------------------------------------------
// ProviderError Tests
// -----------------------------------------------------------------------------

func TestNewProviderError(t *testing.T) {
	cause := ErrBadStatus
	err := NewProviderError("chat request failed", cause)

	if err.message != "chat request failed" {
		t.Errorf("message = %q, want %q", err.message, "chat request failed")
	}
	// Provider errors are retryable by default
	if !err.IsRetryable() {
		t.Error("IsRetryable() = false, want true")
	}
}

func TestProviderError_WithMethods(t *testing.T) {
	err := NewProviderError("test", nil).
		WithProvider("openai").
		WithModel("gpt-4o").
		WithStatusCode(503).
		WithSeverity(SeverityWarning).
		WithRetryable(false)

	if err.Provider != "openai" {
		t.Errorf("Provider = %q, want %q", err.Provider, "openai")
	}
	if err.Model != "gpt-4o" {
		t.Errorf("Model = %q, want %q", err.Model, "gpt-4o")
	}
	if err.StatusCode != 503 {
		t.Errorf("StatusCode = %d, want 503", err.StatusCode)
	}
	if err.IsRetryable() {
		t.Error("IsRetryable() = true, want false")
	}
}

func TestProviderError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *ProviderError
		want string
	}{
		{
			name: "basic error",
			err:  NewProviderError("test error", nil),
			want: "provider error: test error",
		},
		{
			name: "with provider",
			err:  NewProviderError("request failed", nil).WithProvider("ollama"),
			want: "provider error [provider=ollama]: request failed",
		},
		{
			name: "with all fields",
			err:  NewProviderError("failed", ErrBadStatus).WithProvider("openai").WithModel("gpt-4o").WithStatusCode(429),
			want: "provider error [provider=openai, model=gpt-4o, status=429]: failed: provider returned error status",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestProviderError_Is(t *testing.T) {
	err := NewProviderError("test", ErrProviderUnavailable)

	if !Is(err, &ProviderError{}) {
		t.Error("Is(ProviderError{}) = false, want true")
	}
	if !Is(err, ErrProviderUnavailable) {
		t.Error("Is(ErrProviderUnavailable) = false, want true")
	}
}

// -----------------------------------------------------------------------------
// NotFoundError Tests
// -----------------------------------------------------------------------------

func TestNewNotFoundError(t *testing.T) {
	err := NewNotFoundError("phase", "p3")

	if err.ResourceType != "phase" {
		t.Errorf("ResourceType = %q, want %q", err.ResourceType, "phase")
	}
	if err.ResourceID != "p3" {
		t.Errorf("ResourceID = %q, want %q", err.ResourceID, "p3")
	}
	if err.Severity() != SeverityWarning {
		t.Errorf("Severity() = %v, want %v", err.Severity(), SeverityWarning)
	}
}

func TestNotFoundError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *NotFoundError
		want string
	}{
		{
			name: "basic error",
			err:  NewNotFoundError("phase", "p3"),
			want: "phase 'p3' not found",
		},
		{
			name: "with cause",
			err:  NewNotFoundError("snapshot", "/path").WithCause(fmt.Errorf("IO error")),
			want: "snapshot '/path' not found: IO error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNotFoundError_Is(t *testing.T) {
	err := NewNotFoundError("phase", "p3")

	if !Is(err, &NotFoundError{}) {
		t.Error("Is(NotFoundError{}) = false, want true")
	}
	// NotFoundError does not wrap sentinel errors by default
	if Is(err, ErrPhaseNotFound) {
		t.Error("Is(ErrPhaseNotFound) = true, want false (not wrapped)")
	}
}

// -----------------------------------------------------------------------------
// ValidationError Tests
// -----------------------------------------------------------------------------

func TestNewValidationError(t *testing.T) {
	err := NewValidationError("phase_id cannot be empty")

	if err.message != "phase_id cannot be empty" {
		t.Errorf("message = %q, want %q", err.message, "phase_id cannot be empty")
	}
	if err.Severity() != SeverityWarning {
		t.Errorf("Severity() = %v, want %v", err.Severity(), SeverityWarning)
	}
}

func TestValidationError_WithMethods(t *testing.T) {
	err := NewValidationError("invalid value").
		WithField("phase_id").
		WithValue("").
		WithCause(fmt.Errorf("must not be empty"))

	if err.Field != "phase_id" {
		t.Errorf("Field = %q, want %q", err.Field, "phase_id")
	}
	if err.Value != "" {
		t.Errorf("Value = %v, want empty string", err.Value)
	}
}

func TestValidationError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *ValidationError
		want string
	}{
		{
			name: "basic error",
			err:  NewValidationError("invalid input"),
			want: "validation error: invalid input",
		},
		{
			name: "with field",
			err:  NewValidationError("cannot be empty").WithField("name"),
			want: "validation error [field=name]: cannot be empty",
		},
		{
			name: "with field and value",
			err:  NewValidationError("must be positive").WithField("max_attempts").WithValue(-1),
			want: "validation error [field=max_attempts, value=-1]: must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidationError_Is(t *testing.T) {
	err := NewValidationError("test")

	if !Is(err, &ValidationError{}) {
		t.Error("Is(ValidationError{}) = false, want true")
	}
	// ValidationError should match ErrInvalidInput
	if !Is(err, ErrInvalidInput) {
		t.Error("Is(ErrInvalidInput) = false, want true")
	}
}

// -----------------------------------------------------------------------------
// TimeoutError Tests
// -----------------------------------------------------------------------------

func TestNewTimeoutError(t *testing.T) {
	err := NewTimeoutError("waiting for planner response", 30*time.Second)

	if err.Operation != "waiting for planner response" {
		t.Errorf("Operation = %q, want %q", err.Operation, "waiting for planner response")
	}
	if err.Duration != 30*time.Second {
		t.Errorf("Duration = %v, want %v", err.Duration, 30*time.Second)
	}
	// Timeouts are retryable by default
	if !err.IsRetryable() {
		t.Error("IsRetryable() = false, want true")
	}
}

func TestTimeoutError_WithMethods(t *testing.T) {
	err := NewTimeoutError("test", time.Second).
		WithCause(fmt.Errorf("context deadline exceeded")).
		WithRetryable(false)

	if err.IsRetryable() {
		t.Error("IsRetryable() = true, want false")
	}
}

func TestTimeoutError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *TimeoutError
		want string
	}{
		{
			name: "basic error",
			err:  NewTimeoutError("waiting for response", 5*time.Second),
			want: "timeout error: waiting for response (timeout: 5s)",
		},
		{
			name: "with cause",
			err:  NewTimeoutError("connecting", time.Minute).WithCause(fmt.Errorf("network unreachable")),
			want: "timeout error: connecting (timeout: 1m0s): network unreachable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTimeoutError_Is(t *testing.T) {
	err := NewTimeoutError("test", time.Second)

	if !Is(err, &TimeoutError{}) {
		t.Error("Is(TimeoutError{}) = false, want true")
	}
	// TimeoutError should match ErrTimeout
	if !Is(err, ErrTimeout) {
		t.Error("Is(ErrTimeout) = false, want true")
	}
}

// -----------------------------------------------------------------------------
// Classification Helper Tests
// -----------------------------------------------------------------------------

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "nil error",
			err:  nil,
			want: false,
		},
		{
			name: "timeout error",
			err:  NewTimeoutError("test", time.Second),
			want: true,
		},
		{
			name: "plan error not retryable",
			err:  NewPlanError("test", nil),
			want: false,
		},
		{
			name: "plan error set retryable",
			err:  NewPlanError("test", nil).WithRetryable(true),
			want: true,
		},
		{
			name: "provider error retryable by default",
			err:  NewProviderError("test", nil),
			want: true,
		},
		{
			name: "wrapped timeout sentinel",
			err:  fmt.Errorf("operation failed: %w", ErrTimeout),
			want: true,
		},
		{
			name: "wrapped provider unavailable sentinel",
			err:  fmt.Errorf("chat failed: %w", ErrProviderUnavailable),
			want: true,
		},
		{
			name: "standard error",
			err:  errors.New("standard error"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.want {
				t.Errorf("IsRetryable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsUserFacing(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "nil error",
			err:  nil,
			want: false,
		},
		{
			name: "plan error",
			err:  NewPlanError("test", nil),
			want: true,
		},
		{
			name: "not found error",
			err:  NewNotFoundError("phase", "p1"),
			want: true,
		},
		{
			name: "validation error",
			err:  NewValidationError("invalid input"),
			want: true,
		},
		{
			name: "timeout error",
			err:  NewTimeoutError("waiting", time.Second),
			want: true,
		},
		{
			name: "standard error",
			err:  errors.New("internal error"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUserFacing(tt.err); got != tt.want {
				t.Errorf("IsUserFacing() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetSeverity(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Severity
	}{
		{
			name: "nil error",
			err:  nil,
			want: SeverityDebug,
		},
		{
			name: "plan error default",
			err:  NewPlanError("test", nil),
			want: SeverityError,
		},
		{
			name: "plan error critical",
			err:  NewPlanError("test", nil).WithSeverity(SeverityCritical),
			want: SeverityCritical,
		},
		{
			name: "not found error",
			err:  NewNotFoundError("phase", "p1"),
			want: SeverityWarning,
		},
		{
			name: "standard error",
			err:  errors.New("standard"),
			want: SeverityError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetSeverity(tt.err); got != tt.want {
				t.Errorf("GetSeverity() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsDomainError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "nil error",
			err:  nil,
			want: false,
		},
		{
			name: "plan error",
			err:  NewPlanError("test", nil),
			want: true,
		},
		{
			name: "phase error",
			err:  NewPhaseError("test", nil),
			want: true,
		},
		{
			name: "workflow error",
			err:  NewWorkflowError("test", nil),
			want: true,
		},
		{
			name: "provider error",
			err:  NewProviderError("test", nil),
			want: true,
		},
		{
			name: "not found error (semantic)",
			err:  NewNotFoundError("phase", "p1"),
			want: false,
		},
		{
			name: "standard error",
			err:  errors.New("test"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsDomainError(tt.err); got != tt.want {
				t.Errorf("IsDomainError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsSemanticError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "nil error",
			err:  nil,
			want: false,
		},
		{
			name: "not found error",
			err:  NewNotFoundError("phase", "p1"),
			want: true,
		},
		{
			name: "validation error",
			err:  NewValidationError("invalid"),
			want: true,
		},
		{
			name: "timeout error",
			err:  NewTimeoutError("waiting", time.Second),
			want: true,
		},
		{
			name: "plan error (domain)",
			err:  NewPlanError("test", nil),
			want: false,
		},
		{
			name: "standard error",
			err:  errors.New("test"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsSemanticError(tt.err); got != tt.want {
				t.Errorf("IsSemanticError() = %v, want %v", got, tt.want)
			}
		})
	}
}

// -----------------------------------------------------------------------------
// Wrap/Wrapf Tests
// -----------------------------------------------------------------------------

func TestWrap(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		message string
		want    string
	}{
		{
			name:    "nil error",
			err:     nil,
			message: "context",
			want:    "",
		},
		{
			name:    "wrap standard error",
			err:     errors.New("base error"),
			message: "failed to process",
			want:    "failed to process: base error",
		},
		{
			name:    "wrap plan error",
			err:     NewPlanError("plan failed", nil),
			message: "operation failed",
			want:    "operation failed: plan error: plan failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Wrap(tt.err, tt.message)
			if tt.err == nil {
				if got != nil {
					t.Errorf("Wrap(nil) = %v, want nil", got)
				}
				return
			}
			if got.Error() != tt.want {
				t.Errorf("Wrap().Error() = %q, want %q", got.Error(), tt.want)
			}
		})
	}
}

func TestWrapf(t *testing.T) {
	baseErr := errors.New("base error")
	err := Wrapf(baseErr, "failed to execute phase %s", "p1")

	want := "failed to execute phase p1: base error"
	if err.Error() != want {
		t.Errorf("Wrapf().Error() = %q, want %q", err.Error(), want)
	}

	// Wrapf with nil should return nil
	if got := Wrapf(nil, "test"); got != nil {
		t.Errorf("Wrapf(nil) = %v, want nil", got)
	}
}

// -----------------------------------------------------------------------------
// Error Chain Tests
// -----------------------------------------------------------------------------

func TestErrorChain(t *testing.T) {
	// Create a chain of errors
	baseErr := ErrMalformedPlan
	planErr := NewPlanError("failed to parse", baseErr).WithPlanID("plan-abc")
	wrappedErr := Wrap(planErr, "planning failed")

	// Should be able to find all errors in the chain
	if !Is(wrappedErr, ErrMalformedPlan) {
		t.Error("Should find ErrMalformedPlan in chain")
	}

	var extracted *PlanError
	if !As(wrappedErr, &extracted) {
		t.Error("Should extract PlanError from chain")
	}
	if extracted.PlanID != "plan-abc" {
		t.Errorf("PlanID = %q, want %q", extracted.PlanID, "plan-abc")
	}
}

// -----------------------------------------------------------------------------
// Sentinel Error Tests
// -----------------------------------------------------------------------------

func TestSentinelErrors(t *testing.T) {
	// Verify all sentinel errors are distinct
	sentinels := []error{
		ErrRefusal,
		ErrMalformedPlan,
		ErrMissingField,
		ErrPlanNotFound,
		ErrEmptyPlan,
		ErrPhaseNotFound,
		ErrPhaseNotRetryable,
		ErrPhaseFailed,
		ErrReviewRejected,
		ErrWorkflowNotActive,
		ErrWorkflowCanceled,
		ErrMaxAttemptsExceeded,
		ErrProviderUnavailable,
		ErrEmptyResponse,
		ErrBadStatus,
		ErrTimeout,
		ErrCanceled,
		ErrInvalidInput,
	}

	// Check that each sentinel is distinct from all others
	for i, err1 := range sentinels {
		for j, err2 := range sentinels {
			if i != j && Is(err1, err2) {
				t.Errorf("Sentinel error %v should not match %v", err1, err2)
			}
		}
	}
}
