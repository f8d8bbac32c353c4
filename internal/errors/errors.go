// Package errors provides centralized error definitions and error handling utilities
// for the planwright codebase. It defines domain-specific errors, semantic error
// types, error constructors with context wrapping, and error classification helpers.
//
// # Error Types
//
// The package provides two categories of errors:
//
// Domain-specific errors represent errors from specific subsystems:
//   - PlanError: errors related to plan parsing, validation, and persistence
//   - PhaseError: errors related to phase execution and lifecycle
//   - WorkflowError: errors related to workflow orchestration
//   - ProviderError: errors related to model provider communication
//
// Semantic errors represent common error conditions:
//   - NotFoundError: resource not found
//   - ValidationError: invalid input or state
//   - TimeoutError: operation timed out
//
// # Usage
//
// Creating errors:
//
//	// Domain-specific error
//	err := errors.NewPlanError("failed to parse plan", errors.ErrMalformedPlan)
//
//	// Semantic error
//	err := errors.NewNotFoundError("phase", "p3")
//
//	// With context wrapping
//	err := errors.NewPhaseError("write failed", baseErr).WithPhaseID("p1").WithAttempt(2)
//
// Checking errors:
//
//	// Check for specific sentinel errors
//	if errors.Is(err, errors.ErrRefusal) { ... }
//
//	// Check for error types
//	var planErr *errors.PlanError
//	if errors.As(err, &planErr) { ... }
//
//	// Use classification helpers
//	if errors.IsRetryable(err) { ... }
//	if errors.IsUserFacing(err) { ... }
package errors

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Re-export standard library functions for convenience.
// This allows callers to import only this package for all error handling.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Severity represents the severity level of an error.
type Severity int

const (
	// SeverityDebug is for errors that are useful for debugging but not critical.
	SeverityDebug Severity = iota
	// SeverityInfo is for informational errors that don't indicate a problem.
	SeverityInfo
	// SeverityWarning is for errors that might indicate a problem but aren't critical.
	SeverityWarning
	// SeverityError is for errors that indicate a real problem.
	SeverityError
	// SeverityCritical is for errors that require immediate attention.
	SeverityCritical
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// -----------------------------------------------------------------------------
// Sentinel Errors
// -----------------------------------------------------------------------------

// Plan-related sentinel errors
var (
	// ErrRefusal indicates that the model declined to produce a plan.
	ErrRefusal = New("model refused to generate plan")
	// ErrMalformedPlan indicates that plan output could not be parsed as JSON.
	ErrMalformedPlan = New("plan output is not valid JSON")
	// ErrMissingField indicates that a required plan field is absent.
	ErrMissingField = New("required plan field missing")
	// ErrPlanNotFound indicates that a persisted plan could not be found.
	ErrPlanNotFound = New("plan not found")
	// ErrEmptyPlan indicates a plan with no phases.
	ErrEmptyPlan = New("plan contains no phases")
)

// Phase-related sentinel errors
var (
	// ErrPhaseNotFound indicates that a phase could not be found in the workflow.
	ErrPhaseNotFound = New("phase not found")
	// ErrPhaseNotRetryable indicates that a phase has exhausted its attempts.
	ErrPhaseNotRetryable = New("phase cannot be retried")
	// ErrPhaseFailed indicates that a phase execution failed.
	ErrPhaseFailed = New("phase failed")
	// ErrReviewRejected indicates that review found the phase output unacceptable.
	ErrReviewRejected = New("review rejected phase output")
)

// Workflow-related sentinel errors
var (
	// ErrWorkflowNotActive indicates an operation on a workflow that is not running.
	ErrWorkflowNotActive = New("workflow is not active")
	// ErrWorkflowCanceled indicates that the workflow was canceled.
	ErrWorkflowCanceled = New("workflow canceled")
	// ErrMaxAttemptsExceeded indicates that all retry attempts were consumed.
	ErrMaxAttemptsExceeded = New("maximum attempts exceeded")
)

// Provider-related sentinel errors
var (
	// ErrProviderUnavailable indicates that the model provider could not be reached.
	ErrProviderUnavailable = New("provider unavailable")
	// ErrEmptyResponse indicates that the provider returned no content.
	ErrEmptyResponse = New("provider returned empty response")
	// ErrBadStatus indicates a non-success HTTP status from the provider.
	ErrBadStatus = New("provider returned error status")
)

// General sentinel errors
var (
	// ErrTimeout indicates that an operation timed out.
	ErrTimeout = New("operation timed out")
	// ErrCanceled indicates that an operation was canceled.
	ErrCanceled = New("operation canceled")
	// ErrInvalidInput indicates that input validation failed.
	ErrInvalidInput = New("invalid input")
)

// -----------------------------------------------------------------------------
// Base Error Interface
// -----------------------------------------------------------------------------

// DomainError is the base interface for all planwright errors.
// It extends the standard error interface with additional methods for
// error handling and classification.
type DomainError interface {
	error

	// Unwrap returns the underlying error, if any.
	Unwrap() error

	// Is reports whether this error matches the target error.
	// This is used by errors.Is() for error comparison.
	Is(target error) bool

	// Severity returns the severity level of this error.
	Severity() Severity

	// IsRetryable returns true if the error is transient and the operation
	// may succeed on retry.
	IsRetryable() bool

	// IsUserFacing returns true if the error message is safe to display
	// to end users.
	IsUserFacing() bool
}

// -----------------------------------------------------------------------------
// Base Error Implementation
// -----------------------------------------------------------------------------

// baseError provides common functionality for all error types.
type baseError struct {
	message    string
	cause      error
	severity   Severity
	retryable  bool
	userFacing bool
}

// Error returns the error message.
func (e *baseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying error.
func (e *baseError) Unwrap() error {
	return e.cause
}

// Is checks if this error matches the target.
func (e *baseError) Is(target error) bool {
	if e.cause != nil {
		return errors.Is(e.cause, target)
	}
	return false
}

// Severity returns the error severity.
func (e *baseError) Severity() Severity {
	return e.severity
}

// IsRetryable returns whether the error is retryable.
func (e *baseError) IsRetryable() bool {
	return e.retryable
}

// IsUserFacing returns whether the error is safe to show users.
func (e *baseError) IsUserFacing() bool {
	return e.userFacing
}

// -----------------------------------------------------------------------------
// Domain-Specific Errors
// -----------------------------------------------------------------------------

// PlanError represents errors related to plan parsing, validation, and persistence.
//
// Example:
//
//	err := errors.NewPlanError("missing project_info", errors.ErrMissingField)
//	err = err.WithPlanID("plan-9f2a").WithField("project_info")
type PlanError struct {
	baseError
	PlanID string
	Field  string
}

// NewPlanError creates a new PlanError.
func NewPlanError(message string, cause error) *PlanError {
	return &PlanError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityError,
			retryable:  false,
			userFacing: true,
		},
	}
}

// WithPlanID adds a plan ID to the error context.
func (e *PlanError) WithPlanID(id string) *PlanError {
	e.PlanID = id
	return e
}

// WithField adds the offending field name to the error context.
func (e *PlanError) WithField(field string) *PlanError {
	e.Field = field
	return e
}

// WithSeverity sets the error severity.
func (e *PlanError) WithSeverity(s Severity) *PlanError {
	e.severity = s
	return e
}

// WithRetryable sets whether the error is retryable.
func (e *PlanError) WithRetryable(r bool) *PlanError {
	e.retryable = r
	return e
}

// Error returns the formatted error message.
func (e *PlanError) Error() string {
	var parts []string
	if e.PlanID != "" {
		parts = append(parts, fmt.Sprintf("plan=%s", e.PlanID))
	}
	if e.Field != "" {
		parts = append(parts, fmt.Sprintf("field=%s", e.Field))
	}

	prefix := "plan error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("plan error [%s]", strings.Join(parts, ", "))
	}

	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *PlanError) Is(target error) bool {
	if _, ok := target.(*PlanError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// PhaseError represents errors related to phase execution and lifecycle.
//
// Example:
//
//	err := errors.NewPhaseError("write step failed", errors.ErrPhaseFailed)
//	err = err.WithPhaseID("p2").WithAttempt(3)
type PhaseError struct {
	baseError
	PhaseID string
	Attempt int
}

// NewPhaseError creates a new PhaseError.
func NewPhaseError(message string, cause error) *PhaseError {
	return &PhaseError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityError,
			retryable:  false,
			userFacing: true,
		},
		Attempt: -1, // -1 indicates not set
	}
}

// WithPhaseID adds a phase ID to the error context.
func (e *PhaseError) WithPhaseID(id string) *PhaseError {
	e.PhaseID = id
	return e
}

// WithAttempt adds the attempt number to the error context.
func (e *PhaseError) WithAttempt(n int) *PhaseError {
	e.Attempt = n
	return e
}

// WithSeverity sets the error severity.
func (e *PhaseError) WithSeverity(s Severity) *PhaseError {
	e.severity = s
	return e
}

// WithRetryable sets whether the error is retryable.
func (e *PhaseError) WithRetryable(r bool) *PhaseError {
	e.retryable = r
	return e
}

// Error returns the formatted error message.
func (e *PhaseError) Error() string {
	var parts []string
	if e.PhaseID != "" {
		parts = append(parts, fmt.Sprintf("phase=%s", e.PhaseID))
	}
	if e.Attempt >= 0 {
		parts = append(parts, fmt.Sprintf("attempt=%d", e.Attempt))
	}

	prefix := "phase error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("phase error [%s]", strings.Join(parts, ", "))
	}

	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *PhaseError) Is(target error) bool {
	if _, ok := target.(*PhaseError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// WorkflowError represents errors related to workflow orchestration.
//
// Example:
//
//	err := errors.NewWorkflowError("transition rejected", errors.ErrWorkflowNotActive)
//	err = err.WithWorkflowID("workflow_a1b2c3").WithStatus("completed")
type WorkflowError struct {
	baseError
	WorkflowID string
	Status     string
}

// NewWorkflowError creates a new WorkflowError.
func NewWorkflowError(message string, cause error) *WorkflowError {
	return &WorkflowError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityError,
			retryable:  false,
			userFacing: true,
		},
	}
}

// WithWorkflowID adds a workflow ID to the error context.
func (e *WorkflowError) WithWorkflowID(id string) *WorkflowError {
	e.WorkflowID = id
	return e
}

// WithStatus adds the workflow status to the error context.
func (e *WorkflowError) WithStatus(status string) *WorkflowError {
	e.Status = status
	return e
}

// WithSeverity sets the error severity.
func (e *WorkflowError) WithSeverity(s Severity) *WorkflowError {
	e.severity = s
	return e
}

// WithRetryable sets whether the error is retryable.
func (e *WorkflowError) WithRetryable(r bool) *WorkflowError {
	e.retryable = r
	return e
}

// Error returns the formatted error message.
func (e *WorkflowError) Error() string {
	var parts []string
	if e.WorkflowID != "" {
		parts = append(parts, fmt.Sprintf("workflow=%s", e.WorkflowID))
	}
	if e.Status != "" {
		parts = append(parts, fmt.Sprintf("status=%s", e.Status))
	}

	prefix := "workflow error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("workflow error [%s]", strings.Join(parts, ", "))
	}

	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *WorkflowError) Is(target error) bool {
	if _, ok := target.(*WorkflowError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// ProviderError represents errors related to model provider communication.
//
// Example:
//
//	err := errors.NewProviderError("chat request failed", errors.ErrBadStatus)
//	err = err.WithProvider("openai").WithStatusCode(503)
type ProviderError struct {
	baseError
	Provider   string
	Model      string
	StatusCode int
}

// NewProviderError creates a new ProviderError.
func NewProviderError(message string, cause error) *ProviderError {
	return &ProviderError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityError,
			retryable:  true, // Transport failures are generally retryable
			userFacing: true,
		},
	}
}

// WithProvider adds the provider name to the error context.
func (e *ProviderError) WithProvider(name string) *ProviderError {
	e.Provider = name
	return e
}

// WithModel adds the model name to the error context.
func (e *ProviderError) WithModel(model string) *ProviderError {
	e.Model = model
	return e
}

// WithStatusCode adds the HTTP status code to the error context.
func (e *ProviderError) WithStatusCode(code int) *ProviderError {
	e.StatusCode = code
	return e
}

// WithSeverity sets the error severity.
func (e *ProviderError) WithSeverity(s Severity) *ProviderError {
	e.severity = s
	return e
}

// WithRetryable sets whether the error is retryable.
func (e *ProviderError) WithRetryable(r bool) *ProviderError {
	e.retryable = r
	return e
}

// Error returns the formatted error message.
func (e *ProviderError) Error() string {
	var parts []string
	if e.Provider != "" {
		parts = append(parts, fmt.Sprintf("provider=%s", e.Provider))
	}
	if e.Model != "" {
		parts = append(parts, fmt.Sprintf("model=%s", e.Model))
	}
	if e.StatusCode != 0 {
		parts = append(parts, fmt.Sprintf("status=%d", e.StatusCode))
	}

	prefix := "provider error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("provider error [%s]", strings.Join(parts, ", "))
	}

	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *ProviderError) Is(target error) bool {
	if _, ok := target.(*ProviderError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Semantic Errors
// -----------------------------------------------------------------------------

// NotFoundError represents a resource that could not be found.
//
// Example:
//
//	err := errors.NewNotFoundError("phase", "p3")
//	fmt.Println(err) // "phase 'p3' not found"
type NotFoundError struct {
	baseError
	ResourceType string
	ResourceID   string
}

// NewNotFoundError creates a new NotFoundError.
func NewNotFoundError(resourceType, resourceID string) *NotFoundError {
	return &NotFoundError{
		baseError: baseError{
			message:    fmt.Sprintf("%s '%s' not found", resourceType, resourceID),
			severity:   SeverityWarning,
			retryable:  false,
			userFacing: true,
		},
		ResourceType: resourceType,
		ResourceID:   resourceID,
	}
}

// WithCause adds a cause to the error.
func (e *NotFoundError) WithCause(cause error) *NotFoundError {
	e.cause = cause
	return e
}

// Error returns the formatted error message.
func (e *NotFoundError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s '%s' not found: %v", e.ResourceType, e.ResourceID, e.cause)
	}
	return fmt.Sprintf("%s '%s' not found", e.ResourceType, e.ResourceID)
}

// Is checks if this error matches the target.
func (e *NotFoundError) Is(target error) bool {
	if _, ok := target.(*NotFoundError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// ValidationError represents invalid input or state.
//
// Example:
//
//	err := errors.NewValidationError("phase_id cannot be empty")
//	err = err.WithField("phase_id").WithValue("")
type ValidationError struct {
	baseError
	Field string
	Value any
}

// NewValidationError creates a new ValidationError.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{
		baseError: baseError{
			message:    message,
			severity:   SeverityWarning,
			retryable:  false,
			userFacing: true,
		},
	}
}

// WithField adds a field name to the error context.
func (e *ValidationError) WithField(field string) *ValidationError {
	e.Field = field
	return e
}

// WithValue adds the invalid value to the error context.
func (e *ValidationError) WithValue(value any) *ValidationError {
	e.Value = value
	return e
}

// WithCause adds a cause to the error.
func (e *ValidationError) WithCause(cause error) *ValidationError {
	e.cause = cause
	return e
}

// Error returns the formatted error message.
func (e *ValidationError) Error() string {
	var parts []string
	if e.Field != "" {
		parts = append(parts, fmt.Sprintf("field=%s", e.Field))
	}
	if e.Value != nil {
		parts = append(parts, fmt.Sprintf("value=%v", e.Value))
	}

	prefix := "validation error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("validation error [%s]", strings.Join(parts, ", "))
	}

	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *ValidationError) Is(target error) bool {
	if _, ok := target.(*ValidationError); ok {
		return true
	}
	if errors.Is(target, ErrInvalidInput) {
		return true
	}
	return e.baseError.Is(target)
}

// TimeoutError represents an operation that timed out.
//
// Example:
//
//	err := errors.NewTimeoutError("waiting for planner response", 30*time.Second)
//	fmt.Println(err) // "timeout error: waiting for planner response (timeout: 30s)"
type TimeoutError struct {
	baseError
	Operation string
	Duration  time.Duration
}

// NewTimeoutError creates a new TimeoutError.
func NewTimeoutError(operation string, duration time.Duration) *TimeoutError {
	return &TimeoutError{
		baseError: baseError{
			message:    operation,
			severity:   SeverityWarning,
			retryable:  true, // Timeouts are generally retryable
			userFacing: true,
		},
		Operation: operation,
		Duration:  duration,
	}
}

// WithCause adds a cause to the error.
func (e *TimeoutError) WithCause(cause error) *TimeoutError {
	e.cause = cause
	return e
}

// WithRetryable sets whether the error is retryable (default true for timeouts).
func (e *TimeoutError) WithRetryable(r bool) *TimeoutError {
	e.retryable = r
	return e
}

// Error returns the formatted error message.
func (e *TimeoutError) Error() string {
	base := fmt.Sprintf("timeout error: %s (timeout: %s)", e.Operation, e.Duration)
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", base, e.cause)
	}
	return base
}

// Is checks if this error matches the target.
func (e *TimeoutError) Is(target error) bool {
	if _, ok := target.(*TimeoutError); ok {
		return true
	}
	if errors.Is(target, ErrTimeout) {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Error Classification Helpers
// -----------------------------------------------------------------------------

// IsRetryable returns true if the error represents a transient condition
// that may succeed on retry. This checks for:
//   - Errors implementing DomainError with IsRetryable() returning true
//   - TimeoutError instances
//   - Errors wrapping ErrTimeout or ErrProviderUnavailable
//
// Example:
//
//	if errors.IsRetryable(err) {
//	    time.Sleep(backoff)
//	    return retry(operation)
//	}
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var domainErr DomainError
	if As(err, &domainErr) {
		return domainErr.IsRetryable()
	}

	if Is(err, ErrTimeout) || Is(err, ErrProviderUnavailable) {
		return true
	}

	return false
}

// IsUserFacing returns true if the error message is safe to display to end users.
//
// Example:
//
//	if errors.IsUserFacing(err) {
//	    displayToUser(err.Error())
//	} else {
//	    displayToUser("An internal error occurred")
//	    log.Error("internal error", "err", err)
//	}
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}

	var domainErr DomainError
	if As(err, &domainErr) {
		return domainErr.IsUserFacing()
	}

	var notFound *NotFoundError
	var validation *ValidationError
	var timeout *TimeoutError

	if As(err, &notFound) || As(err, &validation) || As(err, &timeout) {
		return true
	}

	return false
}

// GetSeverity returns the severity level of the error.
// Returns SeverityError for errors that don't implement DomainError.
func GetSeverity(err error) Severity {
	if err == nil {
		return SeverityDebug
	}

	var domainErr DomainError
	if As(err, &domainErr) {
		return domainErr.Severity()
	}

	return SeverityError
}

// IsDomainError returns true if the error is a domain-specific error
// (PlanError, PhaseError, WorkflowError, or ProviderError).
func IsDomainError(err error) bool {
	if err == nil {
		return false
	}

	var planErr *PlanError
	var phaseErr *PhaseError
	var workflowErr *WorkflowError
	var providerErr *ProviderError

	return As(err, &planErr) || As(err, &phaseErr) ||
		As(err, &workflowErr) || As(err, &providerErr)
}

// IsSemanticError returns true if the error is a semantic error
// (NotFoundError, ValidationError, or TimeoutError).
func IsSemanticError(err error) bool {
	if err == nil {
		return false
	}

	var notFound *NotFoundError
	var validation *ValidationError
	var timeout *TimeoutError

	return As(err, &notFound) || As(err, &validation) || As(err, &timeout)
}

// -----------------------------------------------------------------------------
// Convenience Constructors
// -----------------------------------------------------------------------------

// Wrap wraps an error with additional context message.
//
// Example:
//
//	err := errors.Wrap(baseErr, "failed to load snapshot")
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted context message.
//
// Example:
//
//	err := errors.Wrapf(baseErr, "failed to execute phase %s", phaseID)
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
