package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/hbarrett/planwright/internal/agent"
	"github.com/hbarrett/planwright/internal/config"
	"github.com/hbarrett/planwright/internal/deepplan"
	"github.com/hbarrett/planwright/internal/event"
	"github.com/hbarrett/planwright/internal/logging"
	"github.com/hbarrett/planwright/internal/orchestrator"
	"github.com/hbarrett/planwright/internal/output"
	"github.com/hbarrett/planwright/internal/provider"
	"github.com/hbarrett/planwright/internal/tui/review"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run [prompt]",
	Short: "Generate a project from a prompt",
	Long: `Run the full workflow: generate a phased plan from the prompt, gate it
behind interactive approval, then execute each phase through the
write-review loop and write accepted files to the output directory.

The prompt can be given inline or loaded from a .txt file with
--prompt-file.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRun,
}

var runFlags struct {
	promptFile  string
	outputDir   string
	provider    string
	model       string
	maxAttempts int
	maxPhases   int
	deep        bool
	autoApprove bool
	debugDumps  bool
	timeout     time.Duration
	quiet       bool
}

func init() {
	runCmd.Flags().StringVarP(&runFlags.promptFile, "prompt-file", "f", "", "read the prompt from a .txt file")
	runCmd.Flags().StringVarP(&runFlags.outputDir, "output", "o", "", "output directory (overrides config)")
	runCmd.Flags().StringVar(&runFlags.provider, "provider", "", "model provider (overrides config)")
	runCmd.Flags().StringVarP(&runFlags.model, "model", "m", "", "model name (overrides config)")
	runCmd.Flags().IntVar(&runFlags.maxAttempts, "max-attempts", 0, "write-review attempts per phase (overrides config)")
	runCmd.Flags().IntVar(&runFlags.maxPhases, "max-phases", 0, "cap the number of plan phases (0 = planner default)")
	runCmd.Flags().BoolVar(&runFlags.deep, "deep", false, "refine the plan through critique iterations before execution")
	runCmd.Flags().BoolVarP(&runFlags.autoApprove, "yes", "y", false, "skip interactive plan approval")
	runCmd.Flags().BoolVar(&runFlags.debugDumps, "debug", false, "record model requests and responses under the output directory")
	runCmd.Flags().DurationVar(&runFlags.timeout, "timeout", 0, "abort the workflow after this duration (0 = no limit)")
	runCmd.Flags().BoolVarP(&runFlags.quiet, "quiet", "q", false, "suppress progress output")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	prompt, err := resolvePrompt(args)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyRunOverrides(cfg)

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}

	outputDir := cfg.Paths.ResolveOutputDir(cwd)
	if runFlags.outputDir != "" {
		outputDir = runFlags.outputDir
	}
	planDir := cfg.Paths.ResolvePlanDir(cwd)

	log, err := buildLogger(cfg, outputDir)
	if err != nil {
		return err
	}
	defer func() { _ = log.Close() }()

	gen, err := provider.New(cfg.Provider, log)
	if err != nil {
		return fmt.Errorf("failed to create provider: %w", err)
	}
	debug := logging.NewDebugRecorder(outputDir, cfg.Logging.DebugDumps, log)

	plannerOpts := []agent.PlannerOption{agent.WithPlannerDebug(debug)}
	if runFlags.maxPhases > 0 {
		plannerOpts = append(plannerOpts, agent.WithMaxPhases(runFlags.maxPhases))
	}
	planner := agent.NewModelPlanner(gen, cfg.Provider.Model, cfg.Provider.Temperature, cfg.Provider.MaxTokens, log,
		plannerOpts...)
	writer := agent.NewModelWriter(gen, cfg.Provider.Model, cfg.Provider.Temperature, cfg.Provider.MaxTokens, log, debug)
	reviewer := agent.NewModelReviewer(gen, cfg.Provider.Model, cfg.Provider.Temperature, agent.ReviewerConfig{
		MaxFileChars:    cfg.Review.MaxFileChars,
		KeywordFallback: cfg.Review.KeywordFallback,
	}, log, debug)

	out, err := output.NewWriter(outputDir, cfg.Workflow.BackupArtifacts, log)
	if err != nil {
		return fmt.Errorf("failed to prepare output directory: %w", err)
	}
	if err := out.Validate(); err != nil {
		return fmt.Errorf("output directory is not writable: %w", err)
	}

	autoApprove := cfg.Workflow.AutoApprove || runFlags.autoApprove
	gate := review.NewGate(planner, autoApprove, log)

	opts := []orchestrator.Option{
		orchestrator.WithOutput(out),
		orchestrator.WithSnapshotDir(planDir),
		orchestrator.WithPlanApprover(gate),
	}
	if !runFlags.quiet {
		opts = append(opts, orchestrator.WithListeners(progressListener(cmd)))
	}
	if runFlags.timeout > 0 {
		opts = append(opts, orchestrator.WithTimeout(runFlags.timeout))
	}
	if runFlags.deep || cfg.Planner.DeepPlanning {
		critic := deepplan.NewModelCritic(gen, cfg.Provider.Model, cfg.Provider.Temperature, log, debug)
		opts = append(opts, orchestrator.WithDeepPlanning(deepplan.NewRunner(planner, critic, cfg.Planner, log, debug)))
	}

	orch := orchestrator.New(planner, writer, reviewer, cfg.Workflow, log, opts...)

	result, err := orch.Run(cmd.Context(), prompt)
	if result != nil {
		printSummary(cmd, result, outputDir)
	}
	if err != nil {
		return err
	}
	if !result.Success {
		return fmt.Errorf("workflow finished with %d failed phase(s)", result.Summary.FailedPhases)
	}
	return nil
}

// applyRunOverrides layers flag values over the loaded config. Flags
// left at their zero value keep the config's setting.
func applyRunOverrides(cfg *config.Config) {
	if runFlags.provider != "" {
		cfg.Provider.Name = runFlags.provider
	}
	if runFlags.model != "" {
		cfg.Provider.Model = runFlags.model
	}
	if runFlags.maxAttempts > 0 {
		cfg.Workflow.MaxAttempts = runFlags.maxAttempts
	}
	if runFlags.debugDumps {
		cfg.Logging.DebugDumps = true
	}
}

func resolvePrompt(args []string) (string, error) {
	if runFlags.promptFile != "" {
		return output.ReadPromptFile(runFlags.promptFile)
	}
	if len(args) == 1 && args[0] != "" {
		return args[0], nil
	}
	return "", fmt.Errorf("a prompt is required: pass it inline or via --prompt-file")
}

func buildLogger(cfg *config.Config, outputDir string) (*logging.Logger, error) {
	if !cfg.Logging.Enabled {
		return logging.NopLogger(), nil
	}
	log, err := logging.NewLogger(outputDir, cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return log, nil
}

func progressListener(cmd *cobra.Command) event.Listener {
	w := cmd.OutOrStdout()
	return func(ev event.Event) {
		switch ev.Type {
		case event.TypePlanReady:
			fmt.Fprintf(w, "plan ready: %s\n", ev.Message)
		case event.TypePhaseStarted:
			fmt.Fprintf(w, "phase %d: attempt %d\n", ev.PhaseID, ev.Attempt)
		case event.TypePhaseCompleted:
			fmt.Fprintf(w, "phase %d: completed\n", ev.PhaseID)
		case event.TypePhaseRetrying:
			fmt.Fprintf(w, "phase %d: retrying after failed review\n", ev.PhaseID)
		case event.TypePhaseFailed:
			fmt.Fprintf(w, "phase %d: %s\n", ev.PhaseID, ev.Message)
		case event.TypeFileWritten:
			fmt.Fprintf(w, "  wrote %s\n", ev.File)
		case event.TypeError:
			fmt.Fprintf(w, "error: %v\n", ev.Err)
		}
	}
}

func printSummary(cmd *cobra.Command, result *orchestrator.Result, outputDir string) {
	w := cmd.OutOrStdout()
	s := result.Summary
	fmt.Fprintf(w, "\nworkflow %s: %s\n", s.WorkflowID, s.Status)
	fmt.Fprintf(w, "phases: %d/%d completed, %d failed, %d attempts\n",
		s.CompletedPhases, s.TotalPhases, s.FailedPhases, s.TotalAttempts)
	fmt.Fprintf(w, "files: %d generated in %s\n", s.GeneratedFiles, outputDir)
	fmt.Fprintf(w, "elapsed: %s\n", s.Elapsed.Round(time.Millisecond))
}
