package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/hbarrett/planwright/internal/errors"
	"github.com/hbarrett/planwright/internal/extract"
	"github.com/hbarrett/planwright/internal/logging"
	"github.com/hbarrett/planwright/internal/provider"
)

const writerSystemPrompt = `You are an expert AI Writer Agent specialized in multi-file project generation. Your role is to create complete, well-structured projects based on detailed implementation plans.

CODE GENERATION GUIDELINES:
1. Always write clean, readable, and well-commented code
2. Follow best practices for the programming language being used
3. Include proper error handling and input validation
4. Structure code logically with appropriate functions and types
5. Ensure files have proper imports and dependencies

PLAN ADHERENCE:
1. Generate EXACTLY the file requested
2. Follow the acceptance criteria defined in the plan
3. Use the project structure and naming conventions from the plan

FEEDBACK INTEGRATION:
When reviewer feedback is provided, identify the specific issues it
mentions and address every point while keeping existing functionality.

Always generate complete, runnable code that follows the project plan precisely.`

// ModelWriter generates phase files by prompting a chat model, one
// request per file.
type ModelWriter struct {
	gen         provider.Generator
	model       string
	temperature float64
	maxTokens   int
	log         *logging.Logger
	debug       *logging.DebugRecorder
}

// NewModelWriter creates a writer backed by the given generator.
func NewModelWriter(gen provider.Generator, model string, temperature float64, maxTokens int, log *logging.Logger, debug *logging.DebugRecorder) *ModelWriter {
	if log == nil {
		log = logging.NopLogger()
	}
	return &ModelWriter{
		gen:         gen,
		model:       model,
		temperature: temperature,
		maxTokens:   maxTokens,
		log:         log.WithAgent("writer"),
		debug:       debug,
	}
}

// WritePhase generates every file the phase calls for. A failure on
// one file aborts the phase: partial output would fail review anyway,
// and the retry loop handles the rerun.
func (w *ModelWriter) WritePhase(ctx context.Context, req WriteRequest) ([]File, error) {
	w.log.Info("writing phase",
		"phase", req.Phase.PhaseID,
		"files", len(req.Phase.FilesToCreate),
		"has_feedback", req.Feedback != "")

	files := make([]File, 0, len(req.Phase.FilesToCreate))
	for _, name := range req.Phase.FilesToCreate {
		f, err := w.generateFile(ctx, name, req)
		if err != nil {
			return nil, errors.NewPhaseError(fmt.Sprintf("generate %s", name), err)
		}
		files = append(files, f)
	}
	return files, nil
}

func (w *ModelWriter) generateFile(ctx context.Context, filename string, req WriteRequest) (File, error) {
	prompt := w.buildFilePrompt(filename, req)
	label := sanitizeLabel(filename)
	w.debug.RecordRequest("writer_request_"+label, logging.RequestRecord{
		Agent:       "writer",
		Model:       w.model,
		SystemChars: len(writerSystemPrompt),
		Prompt:      prompt,
	})

	resp, err := w.gen.Chat(ctx, &provider.ChatRequest{
		Model: w.model,
		Messages: []provider.Message{
			{Role: provider.RoleSystem, Content: writerSystemPrompt},
			{Role: provider.RoleUser, Content: prompt},
		},
		Temperature: w.temperature,
		MaxTokens:   w.maxTokens,
	})
	if err != nil {
		w.debug.RecordError("writer_error_"+label, logging.ErrorRecord{Agent: "writer", Error: err.Error()})
		return File{}, err
	}
	w.debug.Record("writer_"+label, resp.Content)

	// Models wrap output in fences despite instructions not to
	language, code := extract.PrimaryCode(resp.Content, req.Plan.ProjectInfo.Language)

	w.log.Debug("file generated", "file", filename, "language", language, "chars", len(code))
	return File{Name: filename, Content: code, Language: language}, nil
}

func (w *ModelWriter) buildFilePrompt(filename string, req WriteRequest) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Generate the file '%s' for this project.\n", filename)
	fmt.Fprintf(&b, "\nProject: %s (%s)\n", req.Plan.ProjectInfo.Name, req.Plan.ProjectInfo.Language)
	fmt.Fprintf(&b, "Project Description: %s\n", req.Plan.ProjectInfo.Description)
	fmt.Fprintf(&b, "\nPhase: %s\n", req.Phase.Name)
	fmt.Fprintf(&b, "Phase Description: %s\n", req.Phase.Description)

	if len(req.Phase.AcceptanceCriteria) > 0 {
		b.WriteString("\nAcceptance Criteria for this phase:\n")
		for i, c := range req.Phase.AcceptanceCriteria {
			fmt.Fprintf(&b, "%d. %s\n", i+1, c)
		}
	}

	if all := req.Plan.AllFiles(); len(all) > 0 {
		b.WriteString("\nProject Structure (all files to be created):\n")
		for _, name := range all {
			fmt.Fprintf(&b, "- %s\n", name)
		}
	}

	if req.Feedback != "" {
		b.WriteString("\nReviewer Feedback to Address:\n")
		b.WriteString(req.Feedback)
		b.WriteString("\nPlease address all feedback points in the generated code.\n")
	}

	fmt.Fprintf(&b, `
IMPORTANT INSTRUCTIONS:
1. Generate ONLY the content for '%s'
2. Return ONLY the raw file content, no markdown fences and no explanations
3. Include proper imports and dependencies
4. Ensure the file integrates well with the other project files
5. Include error handling where appropriate

Return the file content as if you're writing directly to the file.`, filename)

	return b.String()
}

func sanitizeLabel(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, name)
}
