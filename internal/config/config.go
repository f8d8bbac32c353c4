package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete planwright configuration
type Config struct {
	Workflow Workflow       `mapstructure:"workflow"`
	Provider ProviderConfig `mapstructure:"provider"`
	Planner  PlannerConfig  `mapstructure:"planner"`
	Review   ReviewConfig   `mapstructure:"review"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Paths    PathsConfig    `mapstructure:"paths"`
}

// Workflow controls the write-review retry loop
type Workflow struct {
	// MaxAttempts is the number of write-review attempts per phase (default: 3)
	MaxAttempts int `mapstructure:"max_attempts"`
	// ContinueOnFailure keeps executing later phases after a phase exhausts
	// its attempts. When false (default), the workflow stops at the first
	// permanently failed phase.
	ContinueOnFailure bool `mapstructure:"continue_on_failure"`
	// AutoApprove skips the interactive plan review step (default: false)
	AutoApprove bool `mapstructure:"auto_approve"`
	// BackupArtifacts saves the previous version of a file before a retry
	// overwrites it (default: true)
	BackupArtifacts bool `mapstructure:"backup_artifacts"`
}

// ProviderConfig controls model provider communication
type ProviderConfig struct {
	// Name selects the provider backend: "openai" or "ollama" (default: "ollama")
	Name string `mapstructure:"name"`
	// BaseURL is the provider endpoint (default: "http://localhost:11434")
	BaseURL string `mapstructure:"base_url"`
	// APIKeyEnv names the environment variable holding the API key
	// (default: "PLANWRIGHT_API_KEY")
	APIKeyEnv string `mapstructure:"api_key_env"`
	// Model is the model identifier sent with each request
	Model string `mapstructure:"model"`
	// TimeoutSeconds bounds each request (default: 120)
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
	// MaxTokens limits the completion length, 0 = provider default
	MaxTokens int `mapstructure:"max_tokens"`
	// Temperature is the sampling temperature (default: 0.2)
	Temperature float64 `mapstructure:"temperature"`
}

// PlannerConfig controls plan generation and deep planning
type PlannerConfig struct {
	// DeepPlanning enables the iterative critique-and-refine loop (default: false)
	DeepPlanning bool `mapstructure:"deep_planning"`
	// MaxIterations limits deep planning rounds (default: 3)
	MaxIterations int `mapstructure:"max_iterations"`
	// QualityThreshold is the critic score at which the plan is accepted
	// without further iteration (default: 8.0, scale 0-10)
	QualityThreshold float64 `mapstructure:"quality_threshold"`
	// MinImprovement is the minimum score delta between iterations; below it
	// the loop stops as converged (default: 0.5)
	MinImprovement float64 `mapstructure:"min_improvement"`
}

// ReviewConfig controls phase output review
type ReviewConfig struct {
	// MaxFileChars truncates file contents included in review prompts (default: 2000)
	MaxFileChars int `mapstructure:"max_file_chars"`
	// KeywordFallback enables keyword scanning when the reviewer response
	// carries no explicit RESULT line (default: true)
	KeywordFallback bool `mapstructure:"keyword_fallback"`
}

// LoggingConfig controls structured logging behavior
type LoggingConfig struct {
	// Enabled controls whether logging is enabled (default: true)
	Enabled bool `mapstructure:"enabled"`
	// Level is the log level: "debug", "info", "warn", "error" (default: "info")
	Level string `mapstructure:"level"`
	// DebugDumps saves raw model responses that failed to parse (default: false)
	DebugDumps bool `mapstructure:"debug_dumps"`
}

// PathsConfig controls where planwright stores data
type PathsConfig struct {
	// OutputDir is the directory where generated files are written.
	// If empty, defaults to "output" relative to the working directory.
	// Supports ~ for home directory expansion.
	OutputDir string `mapstructure:"output_dir"`
	// PlanDir is the directory where plan snapshots are persisted.
	// If empty, defaults to "plans" relative to the working directory.
	PlanDir string `mapstructure:"plan_dir"`
}

// resolvePath expands ~ and resolves relative paths against baseDir.
func resolvePath(path, baseDir, fallback string) string {
	if path == "" {
		return filepath.Join(baseDir, fallback)
	}

	// Expand ~ to home directory
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = home
		}
	}

	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, path)
	}

	return path
}

// ResolveOutputDir returns the resolved output directory path.
func (p *PathsConfig) ResolveOutputDir(baseDir string) string {
	return resolvePath(p.OutputDir, baseDir, "output")
}

// ResolvePlanDir returns the resolved plan snapshot directory path.
func (p *PathsConfig) ResolvePlanDir(baseDir string) string {
	return resolvePath(p.PlanDir, baseDir, "plans")
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Workflow: Workflow{
			MaxAttempts:       3,
			ContinueOnFailure: false,
			AutoApprove:       false,
			BackupArtifacts:   true,
		},
		Provider: ProviderConfig{
			Name:           "ollama",
			BaseURL:        "http://localhost:11434",
			APIKeyEnv:      "PLANWRIGHT_API_KEY",
			Model:          "qwen2.5-coder:14b",
			TimeoutSeconds: 120,
			MaxTokens:      0, // Provider default
			Temperature:    0.2,
		},
		Planner: PlannerConfig{
			DeepPlanning:     false,
			MaxIterations:    3,
			QualityThreshold: 8.0,
			MinImprovement:   0.5,
		},
		Review: ReviewConfig{
			MaxFileChars:    2000,
			KeywordFallback: true,
		},
		Logging: LoggingConfig{
			Enabled:    true,
			Level:      "info",
			DebugDumps: false,
		},
		Paths: PathsConfig{
			OutputDir: "", // Empty means use default: ./output
			PlanDir:   "", // Empty means use default: ./plans
		},
	}
}

// Timeout returns the provider request timeout as a time.Duration
func (c *ProviderConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// APIKey reads the API key from the configured environment variable.
// Returns an empty string if the variable is unset.
func (c *ProviderConfig) APIKey() string {
	if c.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(c.APIKeyEnv)
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	// Workflow defaults
	viper.SetDefault("workflow.max_attempts", defaults.Workflow.MaxAttempts)
	viper.SetDefault("workflow.continue_on_failure", defaults.Workflow.ContinueOnFailure)
	viper.SetDefault("workflow.auto_approve", defaults.Workflow.AutoApprove)
	viper.SetDefault("workflow.backup_artifacts", defaults.Workflow.BackupArtifacts)

	// Provider defaults
	viper.SetDefault("provider.name", defaults.Provider.Name)
	viper.SetDefault("provider.base_url", defaults.Provider.BaseURL)
	viper.SetDefault("provider.api_key_env", defaults.Provider.APIKeyEnv)
	viper.SetDefault("provider.model", defaults.Provider.Model)
	viper.SetDefault("provider.timeout_seconds", defaults.Provider.TimeoutSeconds)
	viper.SetDefault("provider.max_tokens", defaults.Provider.MaxTokens)
	viper.SetDefault("provider.temperature", defaults.Provider.Temperature)

	// Planner defaults
	viper.SetDefault("planner.deep_planning", defaults.Planner.DeepPlanning)
	viper.SetDefault("planner.max_iterations", defaults.Planner.MaxIterations)
	viper.SetDefault("planner.quality_threshold", defaults.Planner.QualityThreshold)
	viper.SetDefault("planner.min_improvement", defaults.Planner.MinImprovement)

	// Review defaults
	viper.SetDefault("review.max_file_chars", defaults.Review.MaxFileChars)
	viper.SetDefault("review.keyword_fallback", defaults.Review.KeywordFallback)

	// Logging defaults
	viper.SetDefault("logging.enabled", defaults.Logging.Enabled)
	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.debug_dumps", defaults.Logging.DebugDumps)

	// Paths defaults
	viper.SetDefault("paths.output_dir", defaults.Paths.OutputDir)
	viper.SetDefault("paths.plan_dir", defaults.Paths.PlanDir)
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// Validate the configuration
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// Get returns the current configuration (convenience function)
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		// Fall back to defaults if unmarshaling fails
		return Default()
	}
	return cfg
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	// Check XDG_CONFIG_HOME first
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "planwright")
	}
	// Fall back to ~/.config/planwright
	home, err := os.UserHomeDir()
	if err != nil {
		return ".planwright"
	}
	return filepath.Join(home, ".config", "planwright")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// ValidProviders returns the list of valid provider backend names
func ValidProviders() []string {
	return []string{"openai", "ollama"}
}

// IsValidProvider checks if the given provider name is valid
func IsValidProvider(name string) bool {
	for _, valid := range ValidProviders() {
		if name == valid {
			return true
		}
	}
	return false
}
