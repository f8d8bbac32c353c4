package config

import (
	"strings"
	"testing"
)

func TestValidationError_Error(t *testing.T) {
	err := ValidationError{
		Field:   "workflow.max_attempts",
		Value:   0,
		Message: "must be at least 1",
	}

	want := "workflow.max_attempts: must be at least 1 (got: 0)"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestValidationErrors_Error(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		var errs ValidationErrors
		if got := errs.Error(); got != "" {
			t.Errorf("Error() = %q, want empty", got)
		}
	})

	t.Run("single error", func(t *testing.T) {
		errs := ValidationErrors{
			{Field: "provider.model", Value: "", Message: "cannot be empty"},
		}
		want := "provider.model: cannot be empty (got: )"
		if got := errs.Error(); got != want {
			t.Errorf("Error() = %q, want %q", got, want)
		}
	})

	t.Run("multiple errors", func(t *testing.T) {
		errs := ValidationErrors{
			{Field: "a", Value: 1, Message: "bad"},
			{Field: "b", Value: 2, Message: "worse"},
		}
		got := errs.Error()
		if !strings.HasPrefix(got, "2 validation errors:") {
			t.Errorf("Error() should start with count header, got %q", got)
		}
		if !strings.Contains(got, "1. a: bad (got: 1)") || !strings.Contains(got, "2. b: worse (got: 2)") {
			t.Errorf("Error() missing numbered entries: %q", got)
		}
	})
}

func TestValidateWorkflow(t *testing.T) {
	tests := []struct {
		name        string
		maxAttempts int
		wantErrors  int
	}{
		{"valid", 3, 0},
		{"minimum", 1, 0},
		{"zero", 0, 1},
		{"negative", -1, 1},
		{"too large", 21, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Workflow.MaxAttempts = tt.maxAttempts

			errs := cfg.validateWorkflow()
			if len(errs) != tt.wantErrors {
				t.Errorf("validateWorkflow() returned %d errors, want %d: %v", len(errs), tt.wantErrors, errs)
			}
		})
	}
}

func TestValidateProvider(t *testing.T) {
	t.Run("invalid name", func(t *testing.T) {
		cfg := Default()
		cfg.Provider.Name = "bedrock"

		errs := cfg.validateProvider()
		if len(errs) != 1 {
			t.Fatalf("expected 1 error, got %d: %v", len(errs), errs)
		}
		if errs[0].Field != "provider.name" {
			t.Errorf("Field = %q, want provider.name", errs[0].Field)
		}
	})

	t.Run("empty base URL", func(t *testing.T) {
		cfg := Default()
		cfg.Provider.BaseURL = ""

		errs := cfg.validateProvider()
		if len(errs) != 1 {
			t.Fatalf("expected 1 error, got %d: %v", len(errs), errs)
		}
	})

	t.Run("URL without scheme", func(t *testing.T) {
		cfg := Default()
		cfg.Provider.BaseURL = "localhost:11434"

		errs := cfg.validateProvider()
		if len(errs) == 0 {
			t.Error("expected an error for URL without scheme")
		}
	})

	t.Run("empty model", func(t *testing.T) {
		cfg := Default()
		cfg.Provider.Model = ""

		errs := cfg.validateProvider()
		if len(errs) != 1 {
			t.Fatalf("expected 1 error, got %d: %v", len(errs), errs)
		}
	})

	t.Run("timeout bounds", func(t *testing.T) {
		cfg := Default()
		cfg.Provider.TimeoutSeconds = 0
		if errs := cfg.validateProvider(); len(errs) != 1 {
			t.Errorf("expected 1 error for zero timeout, got %d", len(errs))
		}

		cfg.Provider.TimeoutSeconds = 3601
		if errs := cfg.validateProvider(); len(errs) != 1 {
			t.Errorf("expected 1 error for oversized timeout, got %d", len(errs))
		}
	})

	t.Run("negative max tokens", func(t *testing.T) {
		cfg := Default()
		cfg.Provider.MaxTokens = -1

		if errs := cfg.validateProvider(); len(errs) != 1 {
			t.Errorf("expected 1 error, got %d", len(errs))
		}
	})

	t.Run("temperature out of range", func(t *testing.T) {
		cfg := Default()
		cfg.Provider.Temperature = 2.5

		if errs := cfg.validateProvider(); len(errs) != 1 {
			t.Errorf("expected 1 error, got %d", len(errs))
		}
	})
}

func TestValidatePlanner(t *testing.T) {
	t.Run("iteration bounds", func(t *testing.T) {
		cfg := Default()
		cfg.Planner.MaxIterations = 0
		if errs := cfg.validatePlanner(); len(errs) != 1 {
			t.Errorf("expected 1 error for zero iterations, got %d", len(errs))
		}

		cfg.Planner.MaxIterations = 11
		if errs := cfg.validatePlanner(); len(errs) != 1 {
			t.Errorf("expected 1 error for too many iterations, got %d", len(errs))
		}
	})

	t.Run("quality threshold out of range", func(t *testing.T) {
		cfg := Default()
		cfg.Planner.QualityThreshold = 11

		if errs := cfg.validatePlanner(); len(errs) != 1 {
			t.Errorf("expected 1 error, got %d", len(errs))
		}
	})

	t.Run("negative min improvement", func(t *testing.T) {
		cfg := Default()
		cfg.Planner.MinImprovement = -0.1

		if errs := cfg.validatePlanner(); len(errs) != 1 {
			t.Errorf("expected 1 error, got %d", len(errs))
		}
	})
}

func TestValidateReview(t *testing.T) {
	cfg := Default()
	cfg.Review.MaxFileChars = 0
	if errs := cfg.validateReview(); len(errs) != 1 {
		t.Errorf("expected 1 error for zero max_file_chars, got %d", len(errs))
	}

	cfg.Review.MaxFileChars = 2_000_000
	if errs := cfg.validateReview(); len(errs) != 1 {
		t.Errorf("expected 1 error for oversized max_file_chars, got %d", len(errs))
	}
}

func TestValidateLogging(t *testing.T) {
	tests := []struct {
		level      string
		wantErrors int
	}{
		{"debug", 0},
		{"info", 0},
		{"warn", 0},
		{"error", 0},
		{"", 0},
		{"trace", 1},
		{"INFO", 1},
	}

	for _, tt := range tests {
		cfg := Default()
		cfg.Logging.Level = tt.level

		errs := cfg.validateLogging()
		if len(errs) != tt.wantErrors {
			t.Errorf("validateLogging() with level %q returned %d errors, want %d", tt.level, len(errs), tt.wantErrors)
		}
	}
}

func TestValidatePaths(t *testing.T) {
	t.Run("null byte in path", func(t *testing.T) {
		cfg := Default()
		cfg.Paths.OutputDir = "bad\x00path"

		if errs := cfg.validatePaths(); len(errs) != 1 {
			t.Errorf("expected 1 error, got %d", len(errs))
		}
	})

	t.Run("oversized path", func(t *testing.T) {
		cfg := Default()
		cfg.Paths.PlanDir = strings.Repeat("a", 5000)

		if errs := cfg.validatePaths(); len(errs) != 1 {
			t.Errorf("expected 1 error, got %d", len(errs))
		}
	})

	t.Run("empty paths are valid", func(t *testing.T) {
		cfg := Default()
		if errs := cfg.validatePaths(); len(errs) != 0 {
			t.Errorf("expected no errors, got %d: %v", len(errs), errs)
		}
	})
}

func TestValidate_AccumulatesAllErrors(t *testing.T) {
	cfg := Default()
	cfg.Workflow.MaxAttempts = 0
	cfg.Provider.Model = ""
	cfg.Logging.Level = "trace"

	errs := cfg.Validate()
	if len(errs) != 3 {
		t.Errorf("Validate() returned %d errors, want 3: %v", len(errs), ValidationErrors(errs))
	}
}
