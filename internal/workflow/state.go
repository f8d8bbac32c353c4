package workflow

import (
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hbarrett/planwright/internal/errors"
	"github.com/hbarrett/planwright/internal/plan"
)

// GeneratedFile records a file produced by a phase attempt.
type GeneratedFile struct {
	// Name is the filename declared in the plan (used for dedup).
	Name string `json:"name"`

	// Path is where the file was written on disk.
	Path string `json:"path,omitempty"`

	// PhaseID is the phase that produced this version of the file.
	PhaseID int `json:"phase_id"`
}

// TestResult records the outcome of a test pass over a phase's
// generated output.
type TestResult struct {
	// Success is whether the test pass succeeded.
	Success bool `json:"success"`

	// PhaseID is the phase whose output was tested.
	PhaseID int `json:"phase_id"`

	// TestType names the kind of test run (build, unit, lint).
	TestType string `json:"test_type"`

	// Output is the captured test output.
	Output string `json:"output,omitempty"`

	// Errors and Warnings are messages extracted from the output.
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`

	// Duration is how long the test pass took.
	Duration time.Duration `json:"duration,omitempty"`
}

// PhaseState tracks the execution of a single plan phase.
type PhaseState struct {
	PhaseID        int             `json:"phase_id"`
	Name           string          `json:"name"`
	Status         PhaseStatus     `json:"status"`
	AttemptCount   int             `json:"attempt_count"`
	MaxAttempts    int             `json:"max_attempts"`
	StartedAt      time.Time       `json:"started_at,omitempty"`
	CompletedAt    time.Time       `json:"completed_at,omitempty"`
	GeneratedFiles []GeneratedFile `json:"generated_files,omitempty"`
	TestResults    []TestResult    `json:"test_results,omitempty"`
	Errors         []string        `json:"errors,omitempty"`
}

// CanRetry returns whether the phase may be attempted again: it must
// have failed and still have attempts left.
func (p *PhaseState) CanRetry() bool {
	return p.Status == PhaseFailed && p.AttemptCount < p.MaxAttempts
}

// State is the runtime state of one workflow. It is safe for
// concurrent use.
type State struct {
	mu sync.RWMutex

	workflowID      string
	status          Status
	plan            *plan.Plan
	phases          map[int]*PhaseState
	completedPhases []int
	totalAttempts   int
	startedAt       time.Time
	finishedAt      time.Time
}

// NewWorkflowID returns a fresh workflow identifier of the form
// workflow_<12 hex chars>.
func NewWorkflowID() string {
	hex := strings.ReplaceAll(uuid.New().String(), "-", "")
	return "workflow_" + hex[:12]
}

// NewState creates workflow state for the given plan. Every plan phase
// gets a pending PhaseState with the configured attempt budget.
func NewState(p *plan.Plan, maxAttempts int) *State {
	s := &State{
		workflowID: NewWorkflowID(),
		status:     StatusIdle,
		plan:       p,
		phases:     make(map[int]*PhaseState),
		startedAt:  time.Now(),
	}
	if p != nil {
		for _, phase := range p.Phases {
			s.phases[phase.PhaseID] = &PhaseState{
				PhaseID:     phase.PhaseID,
				Name:        phase.Name,
				Status:      PhasePending,
				MaxAttempts: maxAttempts,
			}
		}
	}
	return s
}

// WorkflowID returns the workflow's identifier.
func (s *State) WorkflowID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.workflowID
}

// Status returns the current workflow status.
func (s *State) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// SetStatus transitions the workflow to the given status. Terminal
// statuses also record the finish time.
func (s *State) SetStatus(status Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = status
	if status.IsTerminal() && s.finishedAt.IsZero() {
		s.finishedAt = time.Now()
	}
}

// Plan returns the plan this workflow executes.
func (s *State) Plan() *plan.Plan {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.plan
}

// SetPlan replaces the workflow's plan and rebuilds phase state for
// any phases not yet tracked. Used when deep planning refines the plan
// before execution starts.
func (s *State) SetPlan(p *plan.Plan, maxAttempts int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.plan = p
	for _, phase := range p.Phases {
		if _, ok := s.phases[phase.PhaseID]; !ok {
			s.phases[phase.PhaseID] = &PhaseState{
				PhaseID:     phase.PhaseID,
				Name:        phase.Name,
				Status:      PhasePending,
				MaxAttempts: maxAttempts,
			}
		}
	}
}

// PhaseState returns a copy of the state for the given phase, or an
// ErrPhaseNotFound error.
func (s *State) PhaseState(phaseID int) (PhaseState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ps, ok := s.phases[phaseID]
	if !ok {
		return PhaseState{}, errors.NewPhaseError("unknown phase", errors.ErrPhaseNotFound).
			WithPhaseID(strconv.Itoa(phaseID))
	}
	return s.copyPhase(ps), nil
}

// StartPhase records the beginning of an attempt for a phase. The
// first attempt moves the phase to in_progress; later attempts move it
// to retrying. Each call consumes one attempt from the phase budget
// and one from the workflow total. Only a pending phase or a failed
// phase with attempts remaining may be started; anything else returns
// ErrPhaseNotRetryable.
func (s *State) StartPhase(phaseID int) (PhaseState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ps, ok := s.phases[phaseID]
	if !ok {
		return PhaseState{}, errors.NewPhaseError("unknown phase", errors.ErrPhaseNotFound).
			WithPhaseID(strconv.Itoa(phaseID))
	}
	if ps.Status != PhasePending && !ps.CanRetry() {
		return PhaseState{}, errors.NewPhaseError("phase not startable", errors.ErrPhaseNotRetryable).
			WithPhaseID(strconv.Itoa(phaseID))
	}

	ps.AttemptCount++
	s.totalAttempts++
	if ps.AttemptCount > 1 {
		ps.Status = PhaseRetrying
	} else {
		ps.Status = PhaseInProgress
	}
	ps.StartedAt = time.Now()

	return s.copyPhase(ps), nil
}

// CompletePhase records the outcome of a phase attempt. Files produced
// by the attempt are merged into the phase's generated file list, and
// any test results are appended to the phase's history. A successful
// completion adds the phase to the completed list exactly once.
func (s *State) CompletePhase(phaseID int, success bool, files []GeneratedFile, testResults ...TestResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ps, ok := s.phases[phaseID]
	if !ok {
		return errors.NewPhaseError("unknown phase", errors.ErrPhaseNotFound).
			WithPhaseID(strconv.Itoa(phaseID))
	}

	ps.CompletedAt = time.Now()
	for _, f := range files {
		f.PhaseID = phaseID
		ps.GeneratedFiles = append(ps.GeneratedFiles, f)
	}
	for _, tr := range testResults {
		tr.PhaseID = phaseID
		ps.TestResults = append(ps.TestResults, tr)
	}

	if success {
		ps.Status = PhaseCompleted
		for _, id := range s.completedPhases {
			if id == phaseID {
				return nil
			}
		}
		s.completedPhases = append(s.completedPhases, phaseID)
	} else {
		ps.Status = PhaseFailed
	}
	return nil
}

// AddPhaseError appends an error message to a phase's history.
func (s *State) AddPhaseError(phaseID int, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ps, ok := s.phases[phaseID]; ok {
		ps.Errors = append(ps.Errors, msg)
	}
}

// CanRetryPhase reports whether the phase has failed and still has
// attempts remaining.
func (s *State) CanRetryPhase(phaseID int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ps, ok := s.phases[phaseID]
	return ok && ps.CanRetry()
}

// CompletedPhases returns the phase IDs completed so far, in
// completion order.
func (s *State) CompletedPhases() []int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]int, len(s.completedPhases))
	copy(out, s.completedPhases)
	return out
}

// TotalAttempts returns the number of phase attempts made across the
// whole workflow.
func (s *State) TotalAttempts() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.totalAttempts
}

// CollectGeneratedFiles returns the final set of generated files,
// deduplicated by filename. Phases are walked in ascending ID order so
// a later phase's version of a file replaces an earlier one; output
// order is first appearance.
func (s *State) CollectGeneratedFiles() []GeneratedFile {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]int, 0, len(s.phases))
	for id := range s.phases {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	index := make(map[string]int)
	var out []GeneratedFile
	for _, id := range ids {
		for _, f := range s.phases[id].GeneratedFiles {
			if i, ok := index[f.Name]; ok {
				out[i] = f
				continue
			}
			index[f.Name] = len(out)
			out = append(out, f)
		}
	}
	return out
}

// Summary is a point-in-time snapshot of workflow progress.
type Summary struct {
	WorkflowID      string        `json:"workflow_id"`
	Status          Status        `json:"status"`
	TotalPhases     int           `json:"total_phases"`
	CompletedPhases int           `json:"completed_phases"`
	FailedPhases    int           `json:"failed_phases"`
	TotalAttempts   int           `json:"total_attempts"`
	GeneratedFiles  int           `json:"generated_files"`
	Elapsed         time.Duration `json:"elapsed"`
}

// Summarize builds a progress summary for logging and display.
func (s *State) Summarize() Summary {
	files := s.CollectGeneratedFiles()

	s.mu.RLock()
	defer s.mu.RUnlock()

	failed := 0
	for _, ps := range s.phases {
		if ps.Status == PhaseFailed {
			failed++
		}
	}

	end := s.finishedAt
	if end.IsZero() {
		end = time.Now()
	}

	return Summary{
		WorkflowID:      s.workflowID,
		Status:          s.status,
		TotalPhases:     len(s.phases),
		CompletedPhases: len(s.completedPhases),
		FailedPhases:    failed,
		TotalAttempts:   s.totalAttempts,
		GeneratedFiles:  len(files),
		Elapsed:         end.Sub(s.startedAt),
	}
}

func (s *State) copyPhase(ps *PhaseState) PhaseState {
	out := *ps
	if ps.GeneratedFiles != nil {
		out.GeneratedFiles = make([]GeneratedFile, len(ps.GeneratedFiles))
		copy(out.GeneratedFiles, ps.GeneratedFiles)
	}
	if ps.TestResults != nil {
		out.TestResults = make([]TestResult, len(ps.TestResults))
		copy(out.TestResults, ps.TestResults)
	}
	if ps.Errors != nil {
		out.Errors = make([]string, len(ps.Errors))
		copy(out.Errors, ps.Errors)
	}
	return out
}
