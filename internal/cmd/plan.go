package cmd

import (
	"fmt"
	"os"

	"github.com/hbarrett/planwright/internal/config"
	"github.com/hbarrett/planwright/internal/plan"
	"github.com/spf13/cobra"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Inspect saved plan snapshots",
}

var planShowCmd = &cobra.Command{
	Use:   "show [snapshot-file]",
	Short: "Print a plan snapshot",
	Long: `Print a saved plan snapshot as JSON. With no argument the most recent
snapshot in the plan directory is shown.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlanShow,
}

var planWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the plan directory for snapshot changes",
	Long: `Watch the plan directory and print each snapshot as it is created or
rewritten, until interrupted. Useful for following a run from another
terminal, or for editing a plan file before approving it.`,
	Args: cobra.NoArgs,
	RunE: runPlanWatch,
}

var planCheckCmd = &cobra.Command{
	Use:   "check <snapshot-file>",
	Short: "Validate a plan snapshot",
	Long: `Load a plan snapshot and report validation errors and warnings.
Exits non-zero if the plan is invalid.`,
	Args: cobra.ExactArgs(1),
	RunE: runPlanCheck,
}

func init() {
	planCmd.AddCommand(planShowCmd)
	planCmd.AddCommand(planWatchCmd)
	planCmd.AddCommand(planCheckCmd)
	rootCmd.AddCommand(planCmd)
}

func runPlanShow(cmd *cobra.Command, args []string) error {
	var (
		p   *plan.Plan
		err error
	)
	if len(args) == 1 {
		p, err = plan.LoadSnapshot(args[0])
	} else {
		cfg, cfgErr := config.Load()
		if cfgErr != nil {
			return fmt.Errorf("failed to load config: %w", cfgErr)
		}
		cwd, cwdErr := os.Getwd()
		if cwdErr != nil {
			return fmt.Errorf("failed to get current directory: %w", cwdErr)
		}
		p, err = plan.LoadLatestSnapshot(cfg.Paths.ResolvePlanDir(cwd))
	}
	if err != nil {
		return err
	}

	data, err := p.MarshalIndent()
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

func runPlanWatch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}
	dir := cfg.Paths.ResolvePlanDir(cwd)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create plan directory: %w", err)
	}

	w := cmd.OutOrStdout()
	watcher, err := plan.NewSnapshotWatcher(dir, func(path string) {
		p, loadErr := plan.LoadSnapshot(path)
		if loadErr != nil {
			fmt.Fprintf(w, "%s: %v\n", path, loadErr)
			return
		}
		fmt.Fprintf(w, "%s: %q, %d phase(s)\n", path, p.ProjectInfo.Name, p.PhaseCount())
	}, nil)
	if err != nil {
		return err
	}
	defer watcher.Stop()
	watcher.Start()

	fmt.Fprintf(w, "watching %s\n", dir)
	<-cmd.Context().Done()
	return nil
}

func runPlanCheck(cmd *cobra.Command, args []string) error {
	p, err := plan.LoadSnapshot(args[0])
	if err != nil {
		return err
	}

	result := plan.Validate(p)
	w := cmd.OutOrStdout()
	for _, m := range result.Errors() {
		fmt.Fprintf(w, "error: %s\n", m.Message)
	}
	for _, m := range result.Warnings() {
		fmt.Fprintf(w, "warning: %s\n", m.Message)
	}
	if !result.Valid {
		return fmt.Errorf("plan is invalid: %d error(s)", len(result.Errors()))
	}
	fmt.Fprintf(w, "plan %q is valid: %d phase(s), %d file(s)\n",
		p.ProjectInfo.Name, p.PhaseCount(), len(p.AllFiles()))
	return nil
}
