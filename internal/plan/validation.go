package plan

import "fmt"

// Validate checks a decoded plan against the schema requirements.
//
// Errors cover the required top-level keys (project_info, phases,
// overall_structure), the required project_info fields (name, type,
// description, language), and the required per-phase fields (phase_id,
// name, description, files_to_create). Warnings flag duplicate phase
// IDs, dependencies on phases that do not exist, prerequisites that
// match no phase name, and complexity estimates outside the 1-5 scale.
func Validate(p *Plan) *ValidationResult {
	result := &ValidationResult{Valid: true}
	if p == nil {
		result.addError("", "plan is nil")
		return result
	}

	validateProjectInfo(p, result)
	validatePhases(p, result)

	if p.OverallStructure == "" {
		result.addError("overall_structure", "missing required field: overall_structure")
	}

	return result
}

func validateProjectInfo(p *Plan, result *ValidationResult) {
	info := p.ProjectInfo
	if info.Name == "" {
		result.addError("project_info.name", "missing required field: project_info.name")
	}
	if info.Type == "" {
		result.addError("project_info.type", "missing required field: project_info.type")
	}
	if info.Description == "" {
		result.addError("project_info.description", "missing required field: project_info.description")
	}
	if info.Language == "" {
		result.addError("project_info.language", "missing required field: project_info.language")
	}
}

func validatePhases(p *Plan, result *ValidationResult) {
	if len(p.Phases) == 0 {
		result.addError("phases", "plan contains no phases")
		return
	}

	seen := make(map[int]bool)
	ids := make(map[int]bool)
	names := make(map[string]bool)
	for _, phase := range p.Phases {
		ids[phase.PhaseID] = true
		names[phase.Name] = true
	}

	for i, phase := range p.Phases {
		field := fmt.Sprintf("phases[%d]", i)

		if phase.PhaseID == 0 {
			result.addError(field+".phase_id", "missing required field: phase_id")
		} else if seen[phase.PhaseID] {
			result.addWarning(field+".phase_id", fmt.Sprintf("duplicate phase_id: %d", phase.PhaseID))
		}
		seen[phase.PhaseID] = true

		if phase.Name == "" {
			result.addError(field+".name", "missing required field: name")
		}
		if phase.Description == "" {
			result.addError(field+".description", "missing required field: description")
		}
		if len(phase.FilesToCreate) == 0 {
			result.addError(field+".files_to_create", "missing required field: files_to_create")
		}

		for _, dep := range phase.Dependencies {
			if !ids[dep] {
				result.addWarning(field+".dependencies", fmt.Sprintf("phase %d depends on unknown phase %d", phase.PhaseID, dep))
			}
		}
		for _, pre := range phase.Prerequisites {
			if !names[pre] {
				result.addWarning(field+".prerequisites", fmt.Sprintf("phase %d lists unknown prerequisite %q", phase.PhaseID, pre))
			}
		}
		if c := phase.EstimatedComplexity; c != 0 && (c < 1 || c > 5) {
			result.addWarning(field+".estimated_complexity", fmt.Sprintf("estimated_complexity %d outside 1-5 scale", c))
		}
	}
}
