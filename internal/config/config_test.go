package config

import (
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg == nil {
		t.Fatal("Default() returned nil")
	}

	// Verify default workflow config
	if cfg.Workflow.MaxAttempts != 3 {
		t.Errorf("Workflow.MaxAttempts = %d, want 3", cfg.Workflow.MaxAttempts)
	}
	if cfg.Workflow.ContinueOnFailure {
		t.Error("Workflow.ContinueOnFailure should be false by default")
	}
	if cfg.Workflow.AutoApprove {
		t.Error("Workflow.AutoApprove should be false by default")
	}
	if !cfg.Workflow.BackupArtifacts {
		t.Error("Workflow.BackupArtifacts should be true by default")
	}

	// Verify default provider config
	if cfg.Provider.Name != "ollama" {
		t.Errorf("Provider.Name = %q, want %q", cfg.Provider.Name, "ollama")
	}
	if cfg.Provider.BaseURL != "http://localhost:11434" {
		t.Errorf("Provider.BaseURL = %q, want %q", cfg.Provider.BaseURL, "http://localhost:11434")
	}
	if cfg.Provider.TimeoutSeconds != 120 {
		t.Errorf("Provider.TimeoutSeconds = %d, want 120", cfg.Provider.TimeoutSeconds)
	}
	if cfg.Provider.Temperature != 0.2 {
		t.Errorf("Provider.Temperature = %f, want 0.2", cfg.Provider.Temperature)
	}

	// Verify default planner config
	if cfg.Planner.DeepPlanning {
		t.Error("Planner.DeepPlanning should be false by default")
	}
	if cfg.Planner.MaxIterations != 3 {
		t.Errorf("Planner.MaxIterations = %d, want 3", cfg.Planner.MaxIterations)
	}
	if cfg.Planner.QualityThreshold != 8.0 {
		t.Errorf("Planner.QualityThreshold = %f, want 8.0", cfg.Planner.QualityThreshold)
	}
	if cfg.Planner.MinImprovement != 0.5 {
		t.Errorf("Planner.MinImprovement = %f, want 0.5", cfg.Planner.MinImprovement)
	}

	// Verify default review config
	if cfg.Review.MaxFileChars != 2000 {
		t.Errorf("Review.MaxFileChars = %d, want 2000", cfg.Review.MaxFileChars)
	}
	if !cfg.Review.KeywordFallback {
		t.Error("Review.KeywordFallback should be true by default")
	}

	// Verify default logging config
	if !cfg.Logging.Enabled {
		t.Error("Logging.Enabled should be true by default")
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "info")
	}
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()

	if errs := cfg.Validate(); len(errs) > 0 {
		t.Errorf("Default() config should validate cleanly, got %d errors: %v", len(errs), ValidationErrors(errs))
	}
}

func TestProviderConfig_Timeout(t *testing.T) {
	tests := []struct {
		seconds  int
		expected time.Duration
	}{
		{120, 2 * time.Minute},
		{30, 30 * time.Second},
		{0, 0},
	}

	for _, tt := range tests {
		cfg := ProviderConfig{TimeoutSeconds: tt.seconds}
		result := cfg.Timeout()
		if result != tt.expected {
			t.Errorf("Timeout() with %ds = %v, want %v", tt.seconds, result, tt.expected)
		}
	}
}

func TestProviderConfig_APIKey(t *testing.T) {
	t.Run("reads key from environment", func(t *testing.T) {
		t.Setenv("PLANWRIGHT_TEST_KEY", "sk-test")

		cfg := ProviderConfig{APIKeyEnv: "PLANWRIGHT_TEST_KEY"}
		if got := cfg.APIKey(); got != "sk-test" {
			t.Errorf("APIKey() = %q, want %q", got, "sk-test")
		}
	})

	t.Run("empty env name returns empty key", func(t *testing.T) {
		cfg := ProviderConfig{APIKeyEnv: ""}
		if got := cfg.APIKey(); got != "" {
			t.Errorf("APIKey() = %q, want empty", got)
		}
	})
}

func TestValidProviders(t *testing.T) {
	providers := ValidProviders()

	expected := []string{"openai", "ollama"}
	if len(providers) != len(expected) {
		t.Errorf("ValidProviders() length = %d, want %d", len(providers), len(expected))
	}

	for i, name := range expected {
		if providers[i] != name {
			t.Errorf("ValidProviders()[%d] = %q, want %q", i, providers[i], name)
		}
	}
}

func TestIsValidProvider(t *testing.T) {
	tests := []struct {
		name  string
		valid bool
	}{
		{"openai", true},
		{"ollama", true},
		{"anthropic", false},
		{"", false},
		{"OpenAI", false},
	}

	for _, tt := range tests {
		if got := IsValidProvider(tt.name); got != tt.valid {
			t.Errorf("IsValidProvider(%q) = %v, want %v", tt.name, got, tt.valid)
		}
	}
}

func TestPathsConfig_ResolveOutputDir(t *testing.T) {
	tests := []struct {
		name     string
		dir      string
		baseDir  string
		expected string
	}{
		{
			name:     "empty uses default",
			dir:      "",
			baseDir:  "/work",
			expected: filepath.Join("/work", "output"),
		},
		{
			name:     "relative resolved against base",
			dir:      "generated",
			baseDir:  "/work",
			expected: filepath.Join("/work", "generated"),
		},
		{
			name:     "absolute kept as-is",
			dir:      "/data/out",
			baseDir:  "/work",
			expected: "/data/out",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := PathsConfig{OutputDir: tt.dir}
			if got := cfg.ResolveOutputDir(tt.baseDir); got != tt.expected {
				t.Errorf("ResolveOutputDir() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestPathsConfig_ResolvePlanDir(t *testing.T) {
	cfg := PathsConfig{}
	if got := cfg.ResolvePlanDir("/work"); got != filepath.Join("/work", "plans") {
		t.Errorf("ResolvePlanDir() = %q, want %q", got, filepath.Join("/work", "plans"))
	}
}
