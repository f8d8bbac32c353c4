package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/hbarrett/planwright/internal/logging"
	"github.com/hbarrett/planwright/internal/plan"
	"github.com/hbarrett/planwright/internal/provider"
)

const plannerSystemPrompt = `You are an expert project planner specialized in software development. Your role is to analyze project requirements and create detailed, actionable implementation plans.

CORE RESPONSIBILITIES:
1. Analyze project requirements from the user prompt
2. Break down the project into logical, manageable phases
3. Intelligently determine the most appropriate programming language and technology stack
4. Provide clear deliverables for each phase

PHASE PLANNING RULES:
- Each phase should be focused and achievable
- Include setup, core functionality, testing, and packaging phases where appropriate
- Consider dependencies between phases

CRITICAL: ACCEPTANCE CRITERIA ALIGNMENT
Acceptance criteria MUST be verifiable by examining the files created in that phase:
- Focus on what can be validated by reading the generated files
- Avoid criteria that require external setup (virtual environments, installations, etc.)
- Be specific about file content requirements rather than vague concepts

OUTPUT FORMAT:
Respond with a single JSON object of the following structure, inside a json code fence:
{
    "project_info": {
        "name": "project name",
        "type": "project type",
        "description": "project description",
        "language": "chosen language"
    },
    "phases": [
        {
            "phase_id": 1,
            "name": "Phase Name",
            "description": "Phase description",
            "files_to_create": ["file1", "file2"],
            "dependencies": [],
            "acceptance_criteria": ["criterion 1", "criterion 2"],
            "prerequisites": ["names of earlier phases this phase builds on"],
            "estimated_complexity": 3
        }
    ],
    "overall_structure": "description of the intended project layout"
}

"estimated_complexity" rates the phase from 1 (trivial) to 5 (hard).`

// ModelPlanner generates plans by prompting a chat model.
type ModelPlanner struct {
	gen         provider.Generator
	model       string
	temperature float64
	maxTokens   int
	maxPhases   int
	log         *logging.Logger
	debug       *logging.DebugRecorder
}

// PlannerOption configures a ModelPlanner.
type PlannerOption func(*ModelPlanner)

// WithMaxPhases caps how many phases the planner asks for.
func WithMaxPhases(n int) PlannerOption {
	return func(p *ModelPlanner) { p.maxPhases = n }
}

// WithPlannerDebug attaches a debug recorder that captures raw
// planner responses.
func WithPlannerDebug(rec *logging.DebugRecorder) PlannerOption {
	return func(p *ModelPlanner) { p.debug = rec }
}

// NewModelPlanner creates a planner backed by the given generator.
func NewModelPlanner(gen provider.Generator, model string, temperature float64, maxTokens int, log *logging.Logger, opts ...PlannerOption) *ModelPlanner {
	if log == nil {
		log = logging.NopLogger()
	}
	p := &ModelPlanner{
		gen:         gen,
		model:       model,
		temperature: temperature,
		maxTokens:   maxTokens,
		maxPhases:   10,
		log:         log.WithAgent("planner"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// GeneratePlan turns a user prompt into a validated plan.
func (p *ModelPlanner) GeneratePlan(ctx context.Context, prompt string) (*plan.Plan, error) {
	p.log.Info("generating plan", "prompt_chars", len(prompt))

	userPrompt := fmt.Sprintf("PROJECT REQUEST:\n%s\n\nLimit the plan to at most %d phases. Analyze the request and generate a complete implementation plan in the specified JSON format.",
		prompt, p.maxPhases)
	p.debug.RecordRequest("planner_request", logging.RequestRecord{
		Agent:       "planner",
		Model:       p.model,
		SystemChars: len(plannerSystemPrompt),
		Prompt:      userPrompt,
	})

	content, err := p.chat(ctx, userPrompt)
	if err != nil {
		p.debug.RecordError("planner_error", logging.ErrorRecord{Agent: "planner", Error: err.Error()})
		return nil, err
	}
	p.debug.Record("planner_response", content)

	parsed, err := plan.ParsePlannerOutput(content, prompt, "planner")
	if err != nil {
		return nil, err
	}

	p.log.Info("plan generated",
		"project", parsed.ProjectInfo.Name,
		"language", parsed.ProjectInfo.Language,
		"phases", len(parsed.Phases))
	return parsed, nil
}

// RegeneratePlan produces a revised plan that addresses feedback on an
// earlier one. The original user prompt is carried into the new plan's
// metadata.
func (p *ModelPlanner) RegeneratePlan(ctx context.Context, original *plan.Plan, feedback string) (*plan.Plan, error) {
	p.log.Info("regenerating plan with feedback", "feedback_chars", len(feedback))

	originalJSON, err := original.MarshalIndent()
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	b.WriteString("Here is an existing project plan:\n```json\n")
	b.Write(originalJSON)
	b.WriteString("\n```\n\nFEEDBACK TO ADDRESS:\n")
	b.WriteString(feedback)
	b.WriteString("\n\nRevise the plan to address every feedback point. Keep the same JSON structure and field names. ")
	b.WriteString("Output the COMPLETE revised plan in the same JSON format.")

	p.debug.RecordRequest("planner_revision_request", logging.RequestRecord{
		Agent:       "planner",
		Model:       p.model,
		SystemChars: len(plannerSystemPrompt),
		Prompt:      b.String(),
	})
	content, err := p.chat(ctx, b.String())
	if err != nil {
		p.debug.RecordError("planner_error", logging.ErrorRecord{Agent: "planner", Error: err.Error()})
		return nil, err
	}
	p.debug.Record("planner_revision", content)

	return plan.ParsePlannerOutput(content, original.Metadata.OriginalPrompt, "planner")
}

func (p *ModelPlanner) chat(ctx context.Context, userPrompt string) (string, error) {
	resp, err := p.gen.Chat(ctx, &provider.ChatRequest{
		Model: p.model,
		Messages: []provider.Message{
			{Role: provider.RoleSystem, Content: plannerSystemPrompt},
			{Role: provider.RoleUser, Content: userPrompt},
		},
		Temperature: p.temperature,
		MaxTokens:   p.maxTokens,
	})
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}
