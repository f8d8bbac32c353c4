package plan

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/hbarrett/planwright/internal/errors"
)

const validPlanJSON = `{
  "project_info": {
    "name": "taskcli",
    "type": "cli",
    "description": "A task tracking CLI",
    "language": "go"
  },
  "phases": [
    {
      "phase_id": 1,
      "name": "Core types",
      "description": "Define the task model",
      "files_to_create": ["task.go"]
    },
    {
      "phase_id": 2,
      "name": "Storage",
      "description": "Persist tasks to disk",
      "files_to_create": ["store.go", "store_test.go"]
    }
  ],
  "overall_structure": "Flat package with a cobra entrypoint"
}`

func TestIsRefusal(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   bool
	}{
		{"apology", "I'm sorry, but I can't help with that.", true},
		{"cannot", "I cannot generate a plan for this request.", true},
		{"unfortunately", "Unfortunately this is outside my abilities.", true},
		{"mixed case", "I CANNOT do that.", true},
		{"mid sentence", "After consideration, I'm unable to proceed.", true},
		{"apologize", "I apologize, this request is unclear.", true},
		{"not able", "I'm not able to produce that.", true},
		{"normal output", "Here is the plan you requested.", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRefusal(tt.output); got != tt.want {
				t.Errorf("IsRefusal(%q) = %v, want %v", tt.output, got, tt.want)
			}
		})
	}
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   string
	}{
		{
			name:   "json fence",
			output: "Here is the plan:\n```json\n{\"a\": 1}\n```\nDone.",
			want:   `{"a": 1}`,
		},
		{
			name:   "bare fence",
			output: "```\n{\"a\": 1}\n```",
			want:   `{"a": 1}`,
		},
		{
			name:   "json fence preferred over bare fence",
			output: "```\nnot it\n```\n```json\n{\"a\": 1}\n```",
			want:   `{"a": 1}`,
		},
		{
			name:   "brace fallback",
			output: "The plan is {\"a\": {\"b\": 2}} as requested",
			want:   `{"a": {"b": 2}}`,
		},
		{
			name:   "no json",
			output: "no structured content here",
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractJSON(tt.output); got != tt.want {
				t.Errorf("ExtractJSON() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParsePlannerOutput(t *testing.T) {
	output := "Here is your plan:\n```json\n" + validPlanJSON + "\n```"

	p, err := ParsePlannerOutput(output, "build a task CLI", "planner")
	if err != nil {
		t.Fatalf("ParsePlannerOutput() error = %v", err)
	}

	if p.ProjectInfo.Name != "taskcli" {
		t.Errorf("ProjectInfo.Name = %q, want %q", p.ProjectInfo.Name, "taskcli")
	}
	if len(p.Phases) != 2 {
		t.Fatalf("len(Phases) = %d, want 2", len(p.Phases))
	}
	if p.Metadata.OriginalPrompt != "build a task CLI" {
		t.Errorf("Metadata.OriginalPrompt = %q", p.Metadata.OriginalPrompt)
	}
	if p.Metadata.PlannerAgent != "planner" {
		t.Errorf("Metadata.PlannerAgent = %q", p.Metadata.PlannerAgent)
	}
	if p.Metadata.Version != SchemaVersion {
		t.Errorf("Metadata.Version = %q, want %q", p.Metadata.Version, SchemaVersion)
	}
	if p.Metadata.GeneratedAt.IsZero() {
		t.Error("Metadata.GeneratedAt is zero")
	}
}

func TestParsePlannerOutput_Refusal(t *testing.T) {
	_, err := ParsePlannerOutput("I'm sorry, I can't create that plan.", "prompt", "planner")
	if !errors.Is(err, errors.ErrRefusal) {
		t.Errorf("error = %v, want ErrRefusal", err)
	}
}

func TestParsePlannerOutput_RefusalBeforeMalformed(t *testing.T) {
	// A refusal that happens to contain broken JSON must still be
	// reported as a refusal, not a parse failure.
	output := "I cannot generate this. {broken json"
	_, err := ParsePlannerOutput(output, "prompt", "planner")
	if !errors.Is(err, errors.ErrRefusal) {
		t.Errorf("error = %v, want ErrRefusal", err)
	}
	if errors.Is(err, errors.ErrMalformedPlan) {
		t.Error("refusal misreported as malformed plan")
	}
}

func TestParsePlannerOutput_Malformed(t *testing.T) {
	tests := []struct {
		name   string
		output string
	}{
		{"no json", "just prose with no structure"},
		{"broken json", "```json\n{\"project_info\": \n```"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePlannerOutput(tt.output, "prompt", "planner")
			if !errors.Is(err, errors.ErrMalformedPlan) {
				t.Errorf("error = %v, want ErrMalformedPlan", err)
			}
		})
	}
}

func TestParsePlannerOutput_MissingField(t *testing.T) {
	output := "```json\n" + `{
  "project_info": {"name": "x", "type": "cli", "description": "d", "language": "go"},
  "phases": [{"phase_id": 1, "name": "p", "description": "d", "files_to_create": ["a.go"]}]
}` + "\n```"

	_, err := ParsePlannerOutput(output, "prompt", "planner")
	if !errors.Is(err, errors.ErrMissingField) {
		t.Errorf("error = %v, want ErrMissingField", err)
	}
	if !strings.Contains(err.Error(), "overall_structure") {
		t.Errorf("error %q does not name the missing field", err.Error())
	}
}

func TestDecodePlan_FilesAlias(t *testing.T) {
	data := []byte(`{
  "project_info": {"name": "x", "type": "cli", "description": "d", "language": "go"},
  "phases": [
    {"phase_id": 1, "name": "a", "description": "d", "files": ["legacy.go"]},
    {"phase_id": 2, "name": "b", "description": "d", "files_to_create": ["new.go"], "files": ["ignored.go"]}
  ],
  "overall_structure": "flat"
}`)

	p, err := DecodePlan(data)
	if err != nil {
		t.Fatalf("DecodePlan() error = %v", err)
	}

	if got := p.Phases[0].FilesToCreate; len(got) != 1 || got[0] != "legacy.go" {
		t.Errorf("phase 1 FilesToCreate = %v, want [legacy.go]", got)
	}
	// files_to_create wins when both are present
	if got := p.Phases[1].FilesToCreate; len(got) != 1 || got[0] != "new.go" {
		t.Errorf("phase 2 FilesToCreate = %v, want [new.go]", got)
	}
}

func TestDecodePlan_PhaseMetadata(t *testing.T) {
	data := []byte(`{
  "project_info": {"name": "x", "type": "cli", "description": "d", "language": "go"},
  "phases": [
    {"phase_id": 1, "name": "Core", "description": "d", "files_to_create": ["task.go"], "estimated_complexity": 2},
    {"phase_id": 2, "name": "CLI", "description": "d", "files_to_create": ["main.go"], "prerequisites": ["Core"], "estimated_complexity": 4}
  ],
  "overall_structure": "flat"
}`)

	p, err := DecodePlan(data)
	if err != nil {
		t.Fatalf("DecodePlan() error = %v", err)
	}

	if got := p.Phases[0].EstimatedComplexity; got != 2 {
		t.Errorf("phase 1 EstimatedComplexity = %d, want 2", got)
	}
	if got := p.Phases[1].EstimatedComplexity; got != 4 {
		t.Errorf("phase 2 EstimatedComplexity = %d, want 4", got)
	}
	if got := p.Phases[1].Prerequisites; len(got) != 1 || got[0] != "Core" {
		t.Errorf("phase 2 Prerequisites = %v, want [Core]", got)
	}
	if p.Phases[0].Prerequisites != nil {
		t.Errorf("phase 1 Prerequisites = %v, want none", p.Phases[0].Prerequisites)
	}
}

func TestPlanRoundTrip(t *testing.T) {
	p, err := DecodePlan([]byte(validPlanJSON))
	if err != nil {
		t.Fatalf("DecodePlan() error = %v", err)
	}

	encoded, err := p.MarshalIndent()
	if err != nil {
		t.Fatalf("MarshalIndent() error = %v", err)
	}

	p2, err := DecodePlan(encoded)
	if err != nil {
		t.Fatalf("DecodePlan(round trip) error = %v", err)
	}

	a, _ := json.Marshal(p)
	b, _ := json.Marshal(p2)
	if string(a) != string(b) {
		t.Errorf("round trip changed plan:\n%s\n!=\n%s", a, b)
	}
}
