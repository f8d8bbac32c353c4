package config

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "workflow.max_attempts")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validateWorkflow()...)
	errors = append(errors, c.validateProvider()...)
	errors = append(errors, c.validatePlanner()...)
	errors = append(errors, c.validateReview()...)
	errors = append(errors, c.validateLogging()...)
	errors = append(errors, c.validatePaths()...)

	return errors
}

// validateWorkflow validates the Workflow config
func (c *Config) validateWorkflow() []ValidationError {
	var errors []ValidationError

	const minAttempts = 1
	const maxAttempts = 20

	if c.Workflow.MaxAttempts < minAttempts {
		errors = append(errors, ValidationError{
			Field:   "workflow.max_attempts",
			Value:   c.Workflow.MaxAttempts,
			Message: fmt.Sprintf("must be at least %d", minAttempts),
		})
	}
	if c.Workflow.MaxAttempts > maxAttempts {
		errors = append(errors, ValidationError{
			Field:   "workflow.max_attempts",
			Value:   c.Workflow.MaxAttempts,
			Message: fmt.Sprintf("exceeds maximum of %d", maxAttempts),
		})
	}

	return errors
}

// validateProvider validates the ProviderConfig
func (c *Config) validateProvider() []ValidationError {
	var errors []ValidationError

	if c.Provider.Name != "" && !IsValidProvider(c.Provider.Name) {
		errors = append(errors, ValidationError{
			Field:   "provider.name",
			Value:   c.Provider.Name,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidProviders(), ", ")),
		})
	}

	if c.Provider.BaseURL == "" {
		errors = append(errors, ValidationError{
			Field:   "provider.base_url",
			Value:   c.Provider.BaseURL,
			Message: "cannot be empty",
		})
	} else if u, err := url.Parse(c.Provider.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errors = append(errors, ValidationError{
			Field:   "provider.base_url",
			Value:   c.Provider.BaseURL,
			Message: "must be a valid URL with scheme and host",
		})
	}

	if c.Provider.Model == "" {
		errors = append(errors, ValidationError{
			Field:   "provider.model",
			Value:   c.Provider.Model,
			Message: "cannot be empty",
		})
	}

	// Timeout validation
	const minTimeout = 1
	const maxTimeout = 3600

	if c.Provider.TimeoutSeconds < minTimeout {
		errors = append(errors, ValidationError{
			Field:   "provider.timeout_seconds",
			Value:   c.Provider.TimeoutSeconds,
			Message: fmt.Sprintf("must be at least %ds", minTimeout),
		})
	}
	if c.Provider.TimeoutSeconds > maxTimeout {
		errors = append(errors, ValidationError{
			Field:   "provider.timeout_seconds",
			Value:   c.Provider.TimeoutSeconds,
			Message: fmt.Sprintf("exceeds maximum of %ds", maxTimeout),
		})
	}

	// Token limit must be non-negative (0 means provider default)
	if c.Provider.MaxTokens < 0 {
		errors = append(errors, ValidationError{
			Field:   "provider.max_tokens",
			Value:   c.Provider.MaxTokens,
			Message: "must be non-negative (0 uses provider default)",
		})
	}

	if c.Provider.Temperature < 0 || c.Provider.Temperature > 2 {
		errors = append(errors, ValidationError{
			Field:   "provider.temperature",
			Value:   c.Provider.Temperature,
			Message: "must be between 0 and 2",
		})
	}

	return errors
}

// validatePlanner validates the PlannerConfig
func (c *Config) validatePlanner() []ValidationError {
	var errors []ValidationError

	const minIterations = 1
	const maxIterations = 10

	if c.Planner.MaxIterations < minIterations {
		errors = append(errors, ValidationError{
			Field:   "planner.max_iterations",
			Value:   c.Planner.MaxIterations,
			Message: fmt.Sprintf("must be at least %d", minIterations),
		})
	}
	if c.Planner.MaxIterations > maxIterations {
		errors = append(errors, ValidationError{
			Field:   "planner.max_iterations",
			Value:   c.Planner.MaxIterations,
			Message: fmt.Sprintf("exceeds maximum of %d", maxIterations),
		})
	}

	// Quality threshold is a 0-10 critic score
	if c.Planner.QualityThreshold < 0 || c.Planner.QualityThreshold > 10 {
		errors = append(errors, ValidationError{
			Field:   "planner.quality_threshold",
			Value:   c.Planner.QualityThreshold,
			Message: "must be between 0 and 10",
		})
	}

	if c.Planner.MinImprovement < 0 {
		errors = append(errors, ValidationError{
			Field:   "planner.min_improvement",
			Value:   c.Planner.MinImprovement,
			Message: "must be non-negative",
		})
	}

	return errors
}

// validateReview validates the ReviewConfig
func (c *Config) validateReview() []ValidationError {
	var errors []ValidationError

	if c.Review.MaxFileChars <= 0 {
		errors = append(errors, ValidationError{
			Field:   "review.max_file_chars",
			Value:   c.Review.MaxFileChars,
			Message: "must be positive",
		})
	}

	// Reasonable upper bound to keep review prompts within context limits
	const maxFileChars = 1_000_000
	if c.Review.MaxFileChars > maxFileChars {
		errors = append(errors, ValidationError{
			Field:   "review.max_file_chars",
			Value:   c.Review.MaxFileChars,
			Message: fmt.Sprintf("exceeds maximum of %d", maxFileChars),
		})
	}

	return errors
}

// validateLogging validates the LoggingConfig
func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	// Validate log level
	if c.Logging.Level != "" && !slices.Contains(ValidLogLevels(), c.Logging.Level) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	return errors
}

// validatePaths validates the PathsConfig
func (c *Config) validatePaths() []ValidationError {
	var errors []ValidationError

	for _, field := range []struct {
		name string
		path string
	}{
		{"paths.output_dir", c.Paths.OutputDir},
		{"paths.plan_dir", c.Paths.PlanDir},
	} {
		if field.path == "" {
			continue
		}

		// Check for null bytes which are invalid in paths
		if strings.ContainsRune(field.path, '\x00') {
			errors = append(errors, ValidationError{
				Field:   field.name,
				Value:   field.path,
				Message: "path contains invalid null character",
			})
		}

		// Reasonable path length limit (most filesystems have limits around 4096)
		const maxPathLength = 4096
		if len(field.path) > maxPathLength {
			errors = append(errors, ValidationError{
				Field:   field.name,
				Value:   field.path,
				Message: fmt.Sprintf("path exceeds maximum length of %d characters", maxPathLength),
			})
		}
	}

	return errors
}
