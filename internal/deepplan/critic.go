package deepplan

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hbarrett/planwright/internal/errors"
	"github.com/hbarrett/planwright/internal/logging"
	"github.com/hbarrett/planwright/internal/plan"
	"github.com/hbarrett/planwright/internal/provider"
)

// Recommendation values a critic may return.
const (
	ActionApprove            = "approve"
	ActionApproveMinor       = "approve_with_minor_changes"
	ActionNeedsRevision      = "needs_revision"
	ActionNeedsMajorRevision = "needs_major_revision"
)

// Issue severities, most serious first.
const (
	SeverityCritical = "critical"
	SeverityHigh     = "high"
	SeverityMedium   = "medium"
	SeverityLow      = "low"
)

// Issue is a single problem the critic found in a plan.
type Issue struct {
	// Severity is one of critical, high, medium, low.
	Severity string `json:"severity"`
	// Description explains the problem.
	Description string `json:"description"`
	// Suggestion is an optional concrete fix.
	Suggestion string `json:"suggestion,omitempty"`
}

// Improvement is a suggested enhancement that is not a defect.
type Improvement struct {
	// Priority is one of high, medium, low.
	Priority string `json:"priority"`
	// Description explains the opportunity.
	Description string `json:"description"`
	// SpecificChanges names the concrete edits to make.
	SpecificChanges string `json:"specific_changes,omitempty"`
}

// Assessment is the critic's overall verdict on a plan.
type Assessment struct {
	// Score rates the plan from 0 to 10.
	Score float64 `json:"score"`
	// Summary is a short free-text appraisal.
	Summary string `json:"summary"`
	// Recommendation is one of the Action constants.
	Recommendation string `json:"recommendation"`
}

// Critique is the structured review of one plan iteration.
type Critique struct {
	Assessment   Assessment    `json:"overall_assessment"`
	Strengths    []string      `json:"strengths,omitempty"`
	Issues       []Issue       `json:"issues,omitempty"`
	Improvements []Improvement `json:"improvements,omitempty"`
	Questions    []string      `json:"questions,omitempty"`
}

// CountBySeverity returns how many issues carry the given severity.
func (c *Critique) CountBySeverity(severity string) int {
	n := 0
	for _, issue := range c.Issues {
		if issue.Severity == severity {
			n++
		}
	}
	return n
}

// Critic reviews a plan and scores it. Implementations are model-backed
// in production and scripted in tests.
type Critic interface {
	CritiquePlan(ctx context.Context, p *plan.Plan) (*Critique, error)
}

const criticSystemPrompt = `You are an expert software architect reviewing project plans before implementation begins.

Evaluate the plan for completeness, phase ordering, file coverage, and feasibility. Be specific: vague feedback cannot be acted on.

Respond with ONLY a JSON object in this exact format:
{
  "overall_assessment": {
    "score": <number 0-10>,
    "summary": "<one paragraph appraisal>",
    "recommendation": "<approve|approve_with_minor_changes|needs_revision|needs_major_revision>"
  },
  "strengths": ["<what the plan does well>"],
  "issues": [
    {"severity": "<critical|high|medium|low>", "description": "<the problem>", "suggestion": "<how to fix it>"}
  ],
  "improvements": [
    {"priority": "<high|medium|low>", "description": "<the opportunity>", "specific_changes": "<concrete edits>"}
  ],
  "questions": ["<open questions the plan should answer>"]
}`

// ModelCritic scores plans with a model call.
type ModelCritic struct {
	gen         provider.Generator
	model       string
	temperature float64
	log         *logging.Logger
	debug       *logging.DebugRecorder
}

// NewModelCritic creates a critic backed by the given generator.
func NewModelCritic(gen provider.Generator, model string, temperature float64, log *logging.Logger, debug *logging.DebugRecorder) *ModelCritic {
	if log == nil {
		log = logging.NopLogger()
	}
	return &ModelCritic{
		gen:         gen,
		model:       model,
		temperature: temperature,
		log:         log.WithAgent("plan_critic"),
		debug:       debug,
	}
}

// CritiquePlan asks the model to review the plan and parses the
// structured verdict out of its response.
func (c *ModelCritic) CritiquePlan(ctx context.Context, p *plan.Plan) (*Critique, error) {
	planJSON, err := p.MarshalIndent()
	if err != nil {
		return nil, errors.NewPlanError("encode plan for critique", err)
	}

	prompt := fmt.Sprintf(`Review this project plan:

%s

Assess whether the phases cover everything the project needs, whether their order respects dependencies, and whether the listed files are sufficient. Respond with the JSON format from your instructions.`, string(planJSON))

	c.debug.RecordRequest("critic_request", logging.RequestRecord{
		Agent:       "plan_critic",
		Model:       c.model,
		SystemChars: len(criticSystemPrompt),
		Prompt:      prompt,
	})
	resp, err := c.gen.Chat(ctx, &provider.ChatRequest{
		Model: c.model,
		Messages: []provider.Message{
			{Role: provider.RoleSystem, Content: criticSystemPrompt},
			{Role: provider.RoleUser, Content: prompt},
		},
		Temperature: c.temperature,
	})
	if err != nil {
		c.debug.RecordError("critic_error", logging.ErrorRecord{Agent: "plan_critic", Error: err.Error()})
		return nil, err
	}
	c.debug.Record("critic_response", resp.Content)

	if plan.IsRefusal(resp.Content) {
		return nil, errors.NewPlanError("critic refused to review plan", errors.ErrRefusal)
	}

	payload := plan.ExtractJSON(resp.Content)
	if payload == "" {
		return nil, errors.NewPlanError("no JSON object in critic response", errors.ErrMalformedPlan)
	}

	var critique Critique
	if err := json.Unmarshal([]byte(payload), &critique); err != nil {
		return nil, errors.NewPlanError("decode critique", errors.Join(errors.ErrMalformedPlan, err))
	}

	c.log.Debug("plan critiqued",
		"score", critique.Assessment.Score,
		"recommendation", critique.Assessment.Recommendation,
		"issues", len(critique.Issues))
	return &critique, nil
}
