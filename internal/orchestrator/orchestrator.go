// Package orchestrator drives a workflow from prompt to generated
// project: plan, then execute each phase through a write-review retry
// loop, carrying reviewer feedback into the next attempt.
package orchestrator

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/hbarrett/planwright/internal/agent"
	"github.com/hbarrett/planwright/internal/config"
	"github.com/hbarrett/planwright/internal/deepplan"
	"github.com/hbarrett/planwright/internal/errors"
	"github.com/hbarrett/planwright/internal/event"
	"github.com/hbarrett/planwright/internal/logging"
	"github.com/hbarrett/planwright/internal/output"
	"github.com/hbarrett/planwright/internal/plan"
	"github.com/hbarrett/planwright/internal/workflow"
)

// PlanApprover reviews a generated plan before execution begins. It
// returns the plan to execute (possibly revised) or an error to abort
// the workflow.
type PlanApprover interface {
	ApprovePlan(ctx context.Context, p *plan.Plan) (*plan.Plan, error)
}

// Orchestrator coordinates the planner, writer, and reviewer agents
// over a single workflow run.
type Orchestrator struct {
	planner  agent.Planner
	writer   agent.Writer
	reviewer agent.Reviewer
	cfg      config.Workflow

	deep     *deepplan.Runner
	approver PlanApprover
	out      *output.Writer
	emitter  *event.Emitter
	timeout  time.Duration
	snapDir  string

	log *logging.Logger
}

// Option customizes an Orchestrator.
type Option func(*Orchestrator)

// WithDeepPlanning routes plan generation through the reflection loop.
func WithDeepPlanning(runner *deepplan.Runner) Option {
	return func(o *Orchestrator) { o.deep = runner }
}

// WithPlanApprover gates execution behind plan approval.
func WithPlanApprover(a PlanApprover) Option {
	return func(o *Orchestrator) { o.approver = a }
}

// WithOutput writes reviewed files to disk as phases complete.
func WithOutput(w *output.Writer) Option {
	return func(o *Orchestrator) { o.out = w }
}

// WithListeners registers event listeners for the run.
func WithListeners(listeners ...event.Listener) Option {
	return func(o *Orchestrator) { o.emitter = event.NewEmitter("", listeners...) }
}

// WithTimeout bounds the whole workflow run. On expiry the workflow is
// marked cancelled and the partial summary is returned.
func WithTimeout(d time.Duration) Option {
	return func(o *Orchestrator) { o.timeout = d }
}

// WithSnapshotDir persists each accepted plan to the given directory.
func WithSnapshotDir(dir string) Option {
	return func(o *Orchestrator) { o.snapDir = dir }
}

// New creates an orchestrator. MaxAttempts below 1 falls back to the
// default of 3.
func New(planner agent.Planner, writer agent.Writer, reviewer agent.Reviewer, cfg config.Workflow, log *logging.Logger, opts ...Option) *Orchestrator {
	if log == nil {
		log = logging.NopLogger()
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 3
	}
	o := &Orchestrator{
		planner:  planner,
		writer:   writer,
		reviewer: reviewer,
		cfg:      cfg,
		log:      log,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Result is the outcome of a workflow run.
type Result struct {
	// Success is true when every phase completed.
	Success bool `json:"success"`
	// Plan is the plan that was executed.
	Plan *plan.Plan `json:"plan,omitempty"`
	// Summary is the final workflow state snapshot.
	Summary workflow.Summary `json:"summary"`
	// Files is the deduplicated set of generated files, later phases
	// winning over earlier ones.
	Files []workflow.GeneratedFile `json:"files,omitempty"`
	// Agents is the per-role message and error bookkeeping for the run.
	Agents []workflow.AgentState `json:"agents,omitempty"`
}

// Run executes the complete workflow for a prompt. Phase failures end
// up in the Result rather than in the returned error; the error is
// reserved for planning failures and cancellation.
func (o *Orchestrator) Run(ctx context.Context, prompt string) (*Result, error) {
	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	state := workflow.NewState(nil, o.cfg.MaxAttempts)
	agents := workflow.NewAgentRegistry()
	agents.Register("planner")
	agents.Register("writer")
	agents.Register("reviewer")

	log := o.log.WithWorkflow(state.WorkflowID())
	log.Info("starting workflow", "max_attempts", o.cfg.MaxAttempts, "timeout", o.timeout)
	o.emit(state, event.Event{Type: event.TypeWorkflowStarted})

	p, err := o.buildPlan(ctx, state, agents, prompt, log)
	if err != nil {
		state.SetStatus(workflow.StatusFailed)
		o.emit(state, event.Event{Type: event.TypeWorkflowFailed, Err: err, Message: "planning failed"})
		return &Result{Summary: state.Summarize(), Agents: agents.Agents()}, err
	}
	state.SetPlan(p, o.cfg.MaxAttempts)
	o.emit(state, event.Event{Type: event.TypePlanReady, Message: p.String()})

	success, runErr := o.executePhases(ctx, state, agents, p, log)

	if runErr != nil {
		state.SetStatus(workflow.StatusCancelled)
		o.emit(state, event.Event{Type: event.TypeWorkflowCancelled, Err: runErr})
		log.Warn("workflow cancelled", "error", runErr)
		return o.finish(state, agents, p, false), runErr
	}

	if success {
		state.SetStatus(workflow.StatusCompleted)
		o.emit(state, event.Event{Type: event.TypeWorkflowCompleted})
	} else {
		state.SetStatus(workflow.StatusFailed)
		o.emit(state, event.Event{Type: event.TypeWorkflowFailed})
	}

	result := o.finish(state, agents, p, success)
	log.Info("workflow finished",
		"success", success,
		"completed_phases", result.Summary.CompletedPhases,
		"total_attempts", result.Summary.TotalAttempts,
		"files", len(result.Files))
	return result, nil
}

func (o *Orchestrator) finish(state *workflow.State, agents *workflow.AgentRegistry, p *plan.Plan, success bool) *Result {
	return &Result{
		Success: success,
		Plan:    p,
		Summary: state.Summarize(),
		Files:   state.CollectGeneratedFiles(),
		Agents:  agents.Agents(),
	}
}

// buildPlan generates the plan, optionally refining it through deep
// planning and gating it behind approval.
func (o *Orchestrator) buildPlan(ctx context.Context, state *workflow.State, agents *workflow.AgentRegistry, prompt string, log *logging.Logger) (*plan.Plan, error) {
	state.SetStatus(workflow.StatusPlanning)

	var p *plan.Plan
	if o.deep != nil {
		deepResult, err := o.deep.Run(ctx, prompt, nil)
		if err != nil {
			agents.RecordError("planner")
			return nil, err
		}
		p = deepResult.Plan
		agents.RecordMessage("planner")
		o.emit(state, event.Event{
			Type: event.TypePlanIteration,
			Message: fmt.Sprintf("deep planning: %d iterations, best score %.1f",
				deepResult.Iterations, deepResult.BestScore),
		})
	} else {
		var err error
		p, err = o.planner.GeneratePlan(ctx, prompt)
		if err != nil {
			agents.RecordError("planner")
			return nil, err
		}
		agents.RecordMessage("planner")
	}
	log.Info("plan generated", "project", p.ProjectInfo.Name, "phases", p.PhaseCount())

	if o.approver != nil {
		approved, err := o.approver.ApprovePlan(ctx, p)
		if err != nil {
			return nil, err
		}
		p = approved
	}

	if o.snapDir != "" {
		if path, err := plan.SaveSnapshot(p, o.snapDir); err != nil {
			log.Warn("plan snapshot failed", "error", err)
		} else {
			log.Debug("plan snapshot saved", "path", path)
		}
	}
	return p, nil
}

// executePhases runs every phase in plan order. A phase that exhausts
// its attempts fails the workflow; later phases still run when
// ContinueOnFailure is set.
func (o *Orchestrator) executePhases(ctx context.Context, state *workflow.State, agents *workflow.AgentRegistry, p *plan.Plan, log *logging.Logger) (bool, error) {
	success := true
	feedback := workflow.NewFeedbackStore()
	for _, phase := range p.SortedPhases() {
		if err := cancellation(ctx); err != nil {
			return false, err
		}

		ok, err := o.runPhase(ctx, state, agents, p, phase, feedback, log)
		if err != nil {
			return false, err
		}
		if !ok {
			success = false
			if !o.cfg.ContinueOnFailure {
				log.Warn("stopping after failed phase", "phase", phase.PhaseID)
				break
			}
			log.Warn("continuing past failed phase", "phase", phase.PhaseID)
		}
	}
	return success, nil
}

// runPhase drives the write-review retry loop for one phase. Reviewer
// feedback from a failed attempt is stored for the next one; the
// phase's entry is cleared once the phase reaches a terminal state so
// stale guidance never leaks into a later phase.
func (o *Orchestrator) runPhase(ctx context.Context, state *workflow.State, agents *workflow.AgentRegistry, p *plan.Plan, phase plan.Phase, feedback *workflow.FeedbackStore, log *logging.Logger) (bool, error) {
	plog := log.WithPhase(strconv.Itoa(phase.PhaseID))

	for attempt := 1; attempt <= o.cfg.MaxAttempts; attempt++ {
		if err := cancellation(ctx); err != nil {
			return false, err
		}

		ps, err := state.StartPhase(phase.PhaseID)
		if err != nil {
			return false, err
		}
		o.emit(state, event.Event{Type: event.TypePhaseStarted, PhaseID: phase.PhaseID, Attempt: attempt, Message: phase.Name})
		plog.Info("phase attempt started", "attempt", attempt, "status", ps.Status)

		passed, files, err := o.writeReviewCycle(ctx, state, agents, p, phase, attempt, feedback, plog)
		if err != nil {
			if cerr := cancellation(ctx); cerr != nil {
				return false, cerr
			}
			state.AddPhaseError(phase.PhaseID, err.Error())
			o.emit(state, event.Event{Type: event.TypeError, PhaseID: phase.PhaseID, Attempt: attempt, Err: err})
			plog.Error("phase attempt errored", "attempt", attempt, "error", err)
		}

		if cerr := state.CompletePhase(phase.PhaseID, passed, files); cerr != nil {
			return false, cerr
		}

		if passed {
			feedback.Clear(phase.PhaseID)
			o.emit(state, event.Event{Type: event.TypePhaseCompleted, PhaseID: phase.PhaseID, Attempt: attempt})
			plog.Info("phase completed", "attempt", attempt, "files", len(files))
			return true, nil
		}
		if attempt < o.cfg.MaxAttempts {
			o.emit(state, event.Event{Type: event.TypePhaseRetrying, PhaseID: phase.PhaseID, Attempt: attempt})
		}
	}

	feedback.Clear(phase.PhaseID)
	o.emit(state, event.Event{Type: event.TypePhaseFailed, PhaseID: phase.PhaseID,
		Message: fmt.Sprintf("failed after %d attempts", o.cfg.MaxAttempts)})
	plog.Error("phase failed permanently", "attempts", o.cfg.MaxAttempts)
	return false, nil
}

// writeReviewCycle performs one write-then-review attempt. On review
// failure the feedback is stored for the next attempt, unless this was
// the last one.
func (o *Orchestrator) writeReviewCycle(ctx context.Context, state *workflow.State, agents *workflow.AgentRegistry, p *plan.Plan, phase plan.Phase, attempt int, feedback *workflow.FeedbackStore, log *logging.Logger) (bool, []workflow.GeneratedFile, error) {
	state.SetStatus(workflow.StatusWriting)

	req := agent.WriteRequest{Plan: p, Phase: phase}
	if fb, ok := feedback.Get(phase.PhaseID); ok {
		req.Feedback = fb.Message
	}

	files, err := o.writer.WritePhase(ctx, req)
	if err != nil {
		agents.RecordError("writer")
		return false, nil, errors.Wrapf(err, "write phase %d", phase.PhaseID)
	}
	agents.RecordMessage("writer")

	state.SetStatus(workflow.StatusReviewing)
	review, err := o.reviewer.ReviewPhase(ctx, agent.ReviewRequest{
		Plan:    p,
		Phase:   phase,
		Files:   files,
		Attempt: attempt,
	})
	if err != nil {
		agents.RecordError("reviewer")
		return false, nil, errors.Wrapf(err, "review phase %d", phase.PhaseID)
	}
	agents.RecordMessage("reviewer")
	o.emit(state, event.Event{
		Type:    event.TypeReviewCompleted,
		PhaseID: phase.PhaseID,
		Attempt: attempt,
		Message: fmt.Sprintf("passed=%t checks=%d", review.Passed, len(review.Checks)),
	})

	if !review.Passed {
		log.Warn("review failed", "attempt", attempt, "checks", len(review.Checks))
		if attempt < o.cfg.MaxAttempts {
			feedback.Put(workflow.Feedback{PhaseID: phase.PhaseID, Attempt: attempt, Message: review.Feedback})
		}
		return false, o.toGenerated(files, nil), nil
	}

	var paths []string
	if o.out != nil {
		paths, err = o.out.WriteFiles(files)
		if err != nil {
			return false, o.toGenerated(files, nil), errors.Wrapf(err, "persist phase %d output", phase.PhaseID)
		}
		for i, path := range paths {
			o.emit(state, event.Event{Type: event.TypeFileWritten, PhaseID: phase.PhaseID, File: path, Message: files[i].Name})
		}
	}
	return true, o.toGenerated(files, paths), nil
}

// toGenerated converts agent files to workflow records. Paths line up
// with files by index when present.
func (o *Orchestrator) toGenerated(files []agent.File, paths []string) []workflow.GeneratedFile {
	out := make([]workflow.GeneratedFile, len(files))
	for i, f := range files {
		out[i] = workflow.GeneratedFile{Name: f.Name}
		if i < len(paths) {
			out[i].Path = paths[i]
		}
	}
	return out
}

func (o *Orchestrator) emit(state *workflow.State, ev event.Event) {
	ev.WorkflowID = state.WorkflowID()
	o.emitter.Emit(ev)
}

// cancellation maps a done context to the matching sentinel.
func cancellation(ctx context.Context) error {
	switch ctx.Err() {
	case nil:
		return nil
	case context.DeadlineExceeded:
		return errors.NewWorkflowError("workflow timed out", errors.ErrTimeout)
	default:
		return errors.NewWorkflowError("workflow cancelled", errors.ErrCanceled)
	}
}
