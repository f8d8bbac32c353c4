package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/gobwas/glob"

	"github.com/hbarrett/planwright/internal/logging"
	"github.com/hbarrett/planwright/internal/provider"
)

const reviewerSystemPrompt = `You are an expert code reviewer. You evaluate generated project files against explicit acceptance criteria.

EVALUATION GUIDELINES:
1. ONLY evaluate what can be verified from the provided files
2. If a criterion mentions 'setup' or 'environment', interpret it as 'documented in files'
3. Focus on file content, structure, and functionality
4. Do NOT require external setup unless specific setup files are mentioned
5. Be consistent across evaluations`

// ReviewerConfig tunes the reviewer's behavior.
type ReviewerConfig struct {
	// MaxFileChars truncates file contents in evaluation prompts.
	MaxFileChars int

	// KeywordFallback accepts affirmative keywords when the model
	// omits the RESULT marker. When false, unmarked responses fail.
	KeywordFallback bool
}

// ModelReviewer evaluates phase output with a mix of mechanical checks
// and per-criterion model evaluation.
type ModelReviewer struct {
	gen         provider.Generator
	model       string
	temperature float64
	cfg         ReviewerConfig
	log         *logging.Logger
	debug       *logging.DebugRecorder
}

// NewModelReviewer creates a reviewer backed by the given generator.
func NewModelReviewer(gen provider.Generator, model string, temperature float64, cfg ReviewerConfig, log *logging.Logger, debug *logging.DebugRecorder) *ModelReviewer {
	if log == nil {
		log = logging.NopLogger()
	}
	if cfg.MaxFileChars <= 0 {
		cfg.MaxFileChars = 2000
	}
	return &ModelReviewer{
		gen:         gen,
		model:       model,
		temperature: temperature,
		cfg:         cfg,
		log:         log.WithAgent("reviewer"),
		debug:       debug,
	}
}

// ReviewPhase runs the file existence check and every acceptance
// criterion, then builds feedback when anything failed. A criterion
// whose evaluation errors counts as failed rather than aborting the
// review.
func (r *ModelReviewer) ReviewPhase(ctx context.Context, req ReviewRequest) (*ReviewResult, error) {
	r.log.Info("reviewing phase",
		"phase", req.Phase.PhaseID,
		"attempt", req.Attempt,
		"criteria", len(req.Phase.AcceptanceCriteria))

	result := &ReviewResult{Passed: true}

	fileCheck := checkRequiredFiles(req.Phase.FilesToCreate, req.Files)
	result.Checks = append(result.Checks, fileCheck)
	if !fileCheck.Passed {
		result.Passed = false
	}

	for _, criterion := range req.Phase.AcceptanceCriteria {
		check := r.checkCriterion(ctx, criterion, req)
		result.Checks = append(result.Checks, check)
		if !check.Passed {
			result.Passed = false
		}
	}

	if !result.Passed {
		result.Feedback = buildFeedback(result.Checks, req.Attempt, req.Phase.Name)
		r.log.Info("phase review failed",
			"phase", req.Phase.PhaseID,
			"attempt", req.Attempt,
			"feedback_chars", len(result.Feedback))
	} else {
		r.log.Info("phase review passed", "phase", req.Phase.PhaseID, "attempt", req.Attempt)
	}

	return result, nil
}

// checkRequiredFiles verifies every required file was generated. A
// requirement containing glob metacharacters matches by pattern.
func checkRequiredFiles(required []string, files []File) Check {
	names := make([]string, len(files))
	exists := make(map[string]bool, len(files))
	for i, f := range files {
		names[i] = f.Name
		exists[f.Name] = true
	}

	var missing []string
	for _, want := range required {
		if exists[want] {
			continue
		}
		if matchesAny(want, names) {
			continue
		}
		missing = append(missing, want)
	}

	return Check{
		Type:   CheckFileExistence,
		Passed: len(missing) == 0,
		Details: fmt.Sprintf("required files check: %d/%d files created",
			len(required)-len(missing), len(required)),
		Issues: missing,
	}
}

func matchesAny(pattern string, names []string) bool {
	if !strings.ContainsAny(pattern, "*?[{") {
		return false
	}
	g, err := glob.Compile(pattern)
	if err != nil {
		return false
	}
	for _, name := range names {
		if g.Match(name) {
			return true
		}
	}
	return false
}

func (r *ModelReviewer) checkCriterion(ctx context.Context, criterion string, req ReviewRequest) Check {
	prompt := r.buildCriterionPrompt(criterion, req)
	r.debug.RecordRequest("reviewer_request", logging.RequestRecord{
		Agent:       "reviewer",
		Model:       r.model,
		SystemChars: len(reviewerSystemPrompt),
		Prompt:      prompt,
	})

	resp, err := r.gen.Chat(ctx, &provider.ChatRequest{
		Model: r.model,
		Messages: []provider.Message{
			{Role: provider.RoleSystem, Content: reviewerSystemPrompt},
			{Role: provider.RoleUser, Content: prompt},
		},
		Temperature: r.temperature,
	})
	if err != nil {
		r.debug.RecordError("reviewer_error", logging.ErrorRecord{Agent: "reviewer", Error: err.Error()})
		return Check{
			Type:      CheckCriterion,
			Criterion: criterion,
			Passed:    false,
			Details:   fmt.Sprintf("evaluation error: %v", err),
		}
	}
	r.debug.Record("reviewer_evaluation", resp.Content)

	passed, details := r.parseEvaluation(resp.Content)
	return Check{
		Type:      CheckCriterion,
		Criterion: criterion,
		Passed:    passed,
		Details:   details,
	}
}

func (r *ModelReviewer) buildCriterionPrompt(criterion string, req ReviewRequest) string {
	var b strings.Builder

	b.WriteString("Evaluate whether the following acceptance criterion is met by the generated files:\n")
	fmt.Fprintf(&b, "\nACCEPTANCE CRITERION: %s\n", criterion)
	fmt.Fprintf(&b, "\nProject Description: %s\n", req.Plan.ProjectInfo.Description)
	fmt.Fprintf(&b, "Phase: %s\n", req.Phase.Name)
	fmt.Fprintf(&b, "Phase Description: %s\n", req.Phase.Description)
	fmt.Fprintf(&b, "Files supposed to be created in this phase: %s\n", strings.Join(req.Phase.FilesToCreate, ", "))

	b.WriteString("\nGenerated Files:\n")
	for _, f := range req.Files {
		fmt.Fprintf(&b, "\n--- %s ---\n", f.Name)
		content := f.Content
		if len(content) > r.cfg.MaxFileChars {
			content = content[:r.cfg.MaxFileChars] + "\n... (truncated)"
		}
		b.WriteString(content)
		b.WriteString("\n")
	}

	b.WriteString(`
EVALUATION INSTRUCTIONS:
1. Analyze the generated files against the acceptance criterion
2. Check if the criterion is fully satisfied based on file content only
3. Respond with 'PASS' if the criterion is met, 'FAIL' if not
4. Provide specific details about what was found or missing
5. Format your response as: 'RESULT: [PASS/FAIL] - [detailed explanation]'`)

	return b.String()
}

// parseEvaluation extracts the verdict from a model evaluation. It
// looks for the RESULT marker first; without one, the keyword fallback
// accepts clearly affirmative responses and everything else fails.
func (r *ModelReviewer) parseEvaluation(evaluation string) (bool, string) {
	upper := strings.ToUpper(evaluation)

	if i := strings.Index(upper, "RESULT: PASS"); i >= 0 {
		details := strings.Trim(evaluation[i+len("RESULT: PASS"):], " -\n")
		if details == "" {
			details = "criterion met"
		}
		return true, details
	}
	if i := strings.Index(upper, "RESULT: FAIL"); i >= 0 {
		details := strings.Trim(evaluation[i+len("RESULT: FAIL"):], " -\n")
		if details == "" {
			details = "criterion not met"
		}
		return false, details
	}

	if r.cfg.KeywordFallback {
		for _, word := range []string{"PASS", "SATISFIED", "MET", "SUCCESS"} {
			if strings.Contains(upper, word) {
				return true, "no verdict marker; affirmative keyword match (low confidence): " + evaluation
			}
		}
	}
	return false, "no verdict marker in evaluation: " + evaluation
}

// buildFeedback turns failed checks into writer guidance. The tone
// escalates with the attempt number.
func buildFeedback(checks []Check, attempt int, phaseName string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "REVIEW FEEDBACK - Phase: %s (Attempt %d)\n", phaseName, attempt)
	b.WriteString(strings.Repeat("=", 60))
	b.WriteString("\n\n")

	var critical, unmet []string
	for _, c := range checks {
		if c.Passed {
			continue
		}
		switch c.Type {
		case CheckFileExistence:
			critical = append(critical, "MISSING FILES: "+strings.Join(c.Issues, ", "))
		default:
			issue := "CRITERION NOT MET: " + c.Criterion
			if c.Details != "" {
				issue += " - " + c.Details
			}
			unmet = append(unmet, issue)
		}
	}

	if len(critical) > 0 {
		b.WriteString("CRITICAL ISSUES (Must Fix):\n")
		for _, issue := range critical {
			fmt.Fprintf(&b, "- %s\n", issue)
		}
		b.WriteString("\n")
	}
	if len(unmet) > 0 {
		b.WriteString("REQUIREMENTS NOT MET:\n")
		for _, issue := range unmet {
			fmt.Fprintf(&b, "- %s\n", issue)
		}
		b.WriteString("\n")
	}

	b.WriteString("RECOMMENDATIONS:\n")
	switch {
	case attempt == 1:
		b.WriteString("- Review the project plan carefully\n")
		b.WriteString("- Ensure all required files are created with correct names\n")
		b.WriteString("- Verify each acceptance criterion is addressed in the code\n")
		b.WriteString("- Check that files integrate properly with each other\n")
	case attempt == 2:
		b.WriteString("- Focus on the specific issues identified above\n")
		b.WriteString("- Consider simpler implementations if the current approach is too complex\n")
		b.WriteString("- Ensure core functionality works before adding advanced features\n")
	default:
		b.WriteString("- This is the final attempt: focus on critical issues only\n")
		b.WriteString("- Implement minimal viable functionality that meets the acceptance criteria\n")
		b.WriteString("- Double-check against the project plan requirements\n")
	}

	fmt.Fprintf(&b, "\nAttempt %d of maximum attempts. Please address all issues listed above.", attempt)
	return b.String()
}
