package plan

import (
	"encoding/json"
	"regexp"
	"strings"
	"time"

	"github.com/hbarrett/planwright/internal/errors"
)

// refusalPhrases are openings that indicate the model declined to plan
// rather than producing malformed output. Matched case-insensitively
// anywhere in the response.
var refusalPhrases = []string{
	"i'm sorry",
	"i cannot",
	"i don't have",
	"i'm unable",
	"i can't",
	"unfortunately",
	"i apologize",
	"i'm not able",
}

var (
	jsonFenceRe = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")
	bareFenceRe = regexp.MustCompile("(?s)```\\s*(.*?)\\s*```")
)

// IsRefusal reports whether the raw model output looks like a refusal
// to generate a plan. Refusal detection runs before any JSON parsing so
// a polite decline is never misreported as malformed JSON.
func IsRefusal(output string) bool {
	lower := strings.ToLower(output)
	for _, phrase := range refusalPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

// ExtractJSON pulls the JSON payload out of raw model output. It tries,
// in order: a ```json fenced block, a bare ``` fenced block, and finally
// the substring from the first '{' to the last '}'. Returns an empty
// string when no candidate is found.
func ExtractJSON(output string) string {
	if m := jsonFenceRe.FindStringSubmatch(output); len(m) >= 2 {
		return strings.TrimSpace(m[1])
	}
	if m := bareFenceRe.FindStringSubmatch(output); len(m) >= 2 {
		return strings.TrimSpace(m[1])
	}
	start := strings.Index(output, "{")
	end := strings.LastIndex(output, "}")
	if start >= 0 && end > start {
		return strings.TrimSpace(output[start : end+1])
	}
	return ""
}

// ParsePlannerOutput parses raw planner output into a validated Plan.
//
// The pipeline is: refusal check, JSON extraction, decode with field
// aliasing, schema validation, then metadata stamping. Refusals return
// errors.ErrRefusal; anything that fails to decode returns
// errors.ErrMalformedPlan; schema violations return a PlanError
// wrapping errors.ErrMissingField.
func ParsePlannerOutput(output, originalPrompt, plannerAgent string) (*Plan, error) {
	if IsRefusal(output) {
		return nil, errors.NewPlanError("planner declined the request", errors.ErrRefusal)
	}

	jsonStr := ExtractJSON(output)
	if jsonStr == "" {
		return nil, errors.NewPlanError("no JSON object found in planner output", errors.ErrMalformedPlan)
	}

	p, err := DecodePlan([]byte(jsonStr))
	if err != nil {
		return nil, err
	}

	if result := Validate(p); !result.Valid {
		errs := result.Errors()
		return nil, errors.NewPlanError(errs[0].Message, errors.ErrMissingField).
			WithField(errs[0].Field)
	}

	p.Metadata = Metadata{
		GeneratedAt:    time.Now(),
		OriginalPrompt: originalPrompt,
		PlannerAgent:   plannerAgent,
		Version:        SchemaVersion,
	}

	return p, nil
}

// DecodePlan decodes plan JSON, accepting "files" as an alias for
// "files_to_create" on phases. The alias only applies when
// "files_to_create" is absent.
func DecodePlan(data []byte) (*Plan, error) {
	// flexiblePhase handles alternative field names planners generate
	type flexiblePhase struct {
		PhaseID             int      `json:"phase_id"`
		Name                string   `json:"name"`
		Description         string   `json:"description"`
		FilesToCreate       []string `json:"files_to_create"`
		Files               []string `json:"files"` // Alternative name
		Dependencies        []int    `json:"dependencies"`
		AcceptanceCriteria  []string `json:"acceptance_criteria"`
		Prerequisites       []string `json:"prerequisites"`
		EstimatedComplexity int      `json:"estimated_complexity"`
	}

	var raw struct {
		ProjectInfo      ProjectInfo     `json:"project_info"`
		Phases           []flexiblePhase `json:"phases"`
		OverallStructure string          `json:"overall_structure"`
		Metadata         Metadata        `json:"metadata"`
	}

	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.NewPlanError("decode plan", errors.Join(errors.ErrMalformedPlan, err))
	}

	phases := make([]Phase, len(raw.Phases))
	for i, fp := range raw.Phases {
		files := fp.FilesToCreate
		if len(files) == 0 && len(fp.Files) > 0 {
			files = fp.Files
		}
		phases[i] = Phase{
			PhaseID:             fp.PhaseID,
			Name:                fp.Name,
			Description:         fp.Description,
			FilesToCreate:       files,
			Dependencies:        fp.Dependencies,
			AcceptanceCriteria:  fp.AcceptanceCriteria,
			Prerequisites:       fp.Prerequisites,
			EstimatedComplexity: fp.EstimatedComplexity,
		}
	}

	return &Plan{
		ProjectInfo:      raw.ProjectInfo,
		Phases:           phases,
		OverallStructure: raw.OverallStructure,
		Metadata:         raw.Metadata,
	}, nil
}
