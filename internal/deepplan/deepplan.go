// Package deepplan iterates a plan through critique-and-revise rounds
// until it converges on acceptable quality. The loop never returns a
// plan scored worse than one it has already seen, and a failing
// collaborator stops the loop with the best plan so far instead of
// failing the whole cycle.
package deepplan

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hbarrett/planwright/internal/agent"
	"github.com/hbarrett/planwright/internal/config"
	"github.com/hbarrett/planwright/internal/errors"
	"github.com/hbarrett/planwright/internal/logging"
	"github.com/hbarrett/planwright/internal/plan"
)

// ----------------------------------------------------------------------------
// Convergence
// ----------------------------------------------------------------------------

// ConvergenceType names why the loop stopped iterating.
type ConvergenceType string

const (
	// ConvergedQualityThreshold means the score reached the configured
	// threshold.
	ConvergedQualityThreshold ConvergenceType = "quality_threshold"
	// ConvergedReviewerApproval means the critic recommended approval
	// outright.
	ConvergedReviewerApproval ConvergenceType = "reviewer_approval"
	// ConvergedMinimalImprovement means iterating stopped paying off.
	ConvergedMinimalImprovement ConvergenceType = "minimal_improvement"
	// ConvergedIssuesResolved means no critical or high issues remain
	// and the score is already strong.
	ConvergedIssuesResolved ConvergenceType = "issues_resolved"
	// ConvergedMaxIterations means the iteration budget ran out.
	ConvergedMaxIterations ConvergenceType = "max_iterations"
)

// issuesResolvedFloor is the minimum score for the issues_resolved
// convergence path. A plan with no serious issues but a mediocre score
// still has room to improve.
const issuesResolvedFloor = 8.5

// Convergence records the stopping decision for one iteration.
type Convergence struct {
	Converged bool            `json:"converged"`
	Type      ConvergenceType `json:"type,omitempty"`
	Reason    string          `json:"reason,omitempty"`
}

// ----------------------------------------------------------------------------
// Results
// ----------------------------------------------------------------------------

// IterationRecord captures one critique round for the history.
type IterationRecord struct {
	Iteration int       `json:"iteration"`
	Score     float64   `json:"score"`
	Action    string    `json:"action"`
	Issues    int       `json:"issues"`
	Revised   bool      `json:"revised"`
	Timestamp time.Time `json:"timestamp"`
}

// Result is the outcome of a deep planning cycle.
type Result struct {
	// Plan is the best-scored plan seen across all iterations.
	Plan *plan.Plan `json:"plan"`
	// BestScore is the score associated with Plan.
	BestScore float64 `json:"best_score"`
	// Iterations is how many critique rounds ran.
	Iterations int `json:"iterations"`
	// Convergence records why the loop stopped.
	Convergence Convergence `json:"convergence"`
	// FallbackUsed reports that a collaborator failed mid-cycle and the
	// loop fell back to the best plan seen rather than completing.
	FallbackUsed bool `json:"fallback_used"`
	// History holds one record per critique round.
	History []IterationRecord `json:"history"`
	// Duration is the wall-clock time the cycle took.
	Duration time.Duration `json:"-"`
}

// ----------------------------------------------------------------------------
// Runner
// ----------------------------------------------------------------------------

// Runner drives the reflection loop between a planner and a critic.
type Runner struct {
	planner agent.Planner
	critic  Critic
	cfg     config.PlannerConfig
	log     *logging.Logger
	debug   *logging.DebugRecorder
}

// NewRunner creates a reflection loop runner. Zero config values fall
// back to the documented defaults.
func NewRunner(planner agent.Planner, critic Critic, cfg config.PlannerConfig, log *logging.Logger, debug *logging.DebugRecorder) *Runner {
	if log == nil {
		log = logging.NopLogger()
	}
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = 3
	}
	if cfg.QualityThreshold <= 0 {
		cfg.QualityThreshold = 8.0
	}
	if cfg.MinImprovement <= 0 {
		cfg.MinImprovement = 0.5
	}
	return &Runner{
		planner: planner,
		critic:  critic,
		cfg:     cfg,
		log:     log,
		debug:   debug,
	}
}

// Run executes the full cycle: generate an initial plan for the prompt
// (or start from the given one), then critique and revise until
// convergence or the iteration budget runs out.
func (r *Runner) Run(ctx context.Context, prompt string, initial *plan.Plan) (*Result, error) {
	start := time.Now()
	r.log.Info("starting deep planning",
		"max_iterations", r.cfg.MaxIterations,
		"quality_threshold", r.cfg.QualityThreshold)

	current := initial
	if current == nil {
		var err error
		current, err = r.planner.GeneratePlan(ctx, prompt)
		if err != nil {
			return nil, errors.Wrap(err, "generate initial plan")
		}
	}

	result := &Result{Plan: current}
	var previousScore float64

	for iteration := 1; iteration <= r.cfg.MaxIterations; iteration++ {
		result.Iterations = iteration

		critique, err := r.critic.CritiquePlan(ctx, current)
		if err != nil {
			r.log.Warn("plan critique failed, keeping best plan so far",
				"iteration", iteration, "error", err)
			result.FallbackUsed = true
			break
		}

		score := critique.Assessment.Score
		action := r.effectiveAction(critique)

		result.History = append(result.History, IterationRecord{
			Iteration: iteration,
			Score:     score,
			Action:    action,
			Issues:    len(critique.Issues),
			Timestamp: time.Now(),
		})
		r.log.Info("plan critiqued",
			"iteration", iteration,
			"score", score,
			"action", action,
			"issues", len(critique.Issues))

		if score > result.BestScore {
			result.Plan = current
			result.BestScore = score
		}

		conv := r.checkConvergence(critique, action, score, previousScore, iteration)
		if conv.Converged {
			result.Convergence = conv
			r.log.Info("deep planning converged", "type", conv.Type, "reason", conv.Reason)
			break
		}
		if iteration >= r.cfg.MaxIterations {
			result.Convergence = Convergence{
				Converged: true,
				Type:      ConvergedMaxIterations,
				Reason:    fmt.Sprintf("iteration budget exhausted (%d)", r.cfg.MaxIterations),
			}
			break
		}

		revised, err := r.planner.RegeneratePlan(ctx, current, formatCritiqueFeedback(critique))
		if err != nil {
			r.log.Warn("plan revision failed, keeping best plan so far",
				"iteration", iteration, "error", err)
			result.FallbackUsed = true
			break
		}
		result.History[len(result.History)-1].Revised = true

		current = revised
		previousScore = score
	}

	result.Duration = time.Since(start)
	r.log.Info("deep planning finished",
		"iterations", result.Iterations,
		"best_score", result.BestScore,
		"fallback", result.FallbackUsed,
		"duration_ms", result.Duration.Milliseconds())
	return result, nil
}

// effectiveAction reconciles the critic's recommendation with its own
// issue list. A lenient recommendation does not survive critical
// issues, and more than two high-severity issues overrides an approve.
func (r *Runner) effectiveAction(c *Critique) string {
	critical := c.CountBySeverity(SeverityCritical)
	high := c.CountBySeverity(SeverityHigh)

	switch {
	case critical > 0:
		return ActionNeedsMajorRevision
	case high > 2 && c.Assessment.Recommendation == ActionApprove:
		return ActionNeedsMajorRevision
	default:
		return c.Assessment.Recommendation
	}
}

// checkConvergence applies the stopping rules in priority order. First
// match wins.
func (r *Runner) checkConvergence(c *Critique, action string, score, previousScore float64, iteration int) Convergence {
	if score >= r.cfg.QualityThreshold {
		return Convergence{
			Converged: true,
			Type:      ConvergedQualityThreshold,
			Reason:    fmt.Sprintf("quality threshold reached (score: %.1f)", score),
		}
	}

	if action == ActionApprove {
		return Convergence{
			Converged: true,
			Type:      ConvergedReviewerApproval,
			Reason:    "plan approved by critic",
		}
	}

	if iteration > 1 {
		improvement := score - previousScore
		if improvement < r.cfg.MinImprovement {
			return Convergence{
				Converged: true,
				Type:      ConvergedMinimalImprovement,
				Reason:    fmt.Sprintf("minimal improvement (%.1f)", improvement),
			}
		}
	}

	if c.CountBySeverity(SeverityCritical) == 0 && c.CountBySeverity(SeverityHigh) == 0 && score >= issuesResolvedFloor {
		return Convergence{
			Converged: true,
			Type:      ConvergedIssuesResolved,
			Reason:    "no critical or high-severity issues remaining",
		}
	}

	return Convergence{}
}

// formatCritiqueFeedback flattens a critique into the feedback text the
// planner revises against. Critical and high issues lead, then
// high-priority improvements, open questions, and strengths to keep.
func formatCritiqueFeedback(c *Critique) string {
	var b strings.Builder

	fmt.Fprintf(&b, "OVERALL ASSESSMENT: %s\n", c.Assessment.Summary)
	fmt.Fprintf(&b, "Current Score: %.1f/10\n", c.Assessment.Score)
	fmt.Fprintf(&b, "Recommendation: %s\n\n", c.Assessment.Recommendation)

	var serious []Issue
	for _, issue := range c.Issues {
		if issue.Severity == SeverityCritical || issue.Severity == SeverityHigh {
			serious = append(serious, issue)
		}
	}
	if len(serious) > 0 {
		b.WriteString("CRITICAL ISSUES TO ADDRESS:\n")
		for i, issue := range serious {
			fmt.Fprintf(&b, "%d. %s\n", i+1, issue.Description)
			if issue.Suggestion != "" {
				fmt.Fprintf(&b, "   Solution: %s\n", issue.Suggestion)
			}
		}
		b.WriteString("\n")
	}

	var urgent []Improvement
	for _, imp := range c.Improvements {
		if imp.Priority == "high" {
			urgent = append(urgent, imp)
		}
	}
	if len(urgent) > 0 {
		b.WriteString("HIGH-PRIORITY IMPROVEMENTS:\n")
		for i, imp := range urgent {
			fmt.Fprintf(&b, "%d. %s\n", i+1, imp.Description)
			if imp.SpecificChanges != "" {
				fmt.Fprintf(&b, "   Changes: %s\n", imp.SpecificChanges)
			}
		}
		b.WriteString("\n")
	}

	if len(c.Questions) > 0 {
		b.WriteString("QUESTIONS TO CONSIDER:\n")
		for i, q := range c.Questions {
			fmt.Fprintf(&b, "%d. %s\n", i+1, q)
		}
		b.WriteString("\n")
	}

	if len(c.Strengths) > 0 {
		b.WriteString("STRENGTHS TO MAINTAIN:\n")
		for _, s := range c.Strengths {
			fmt.Fprintf(&b, "- %s\n", s)
		}
	}

	return strings.TrimRight(b.String(), "\n")
}
