package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"greenspring/core/config"
	"greenspring/core/logger"
	"greenspring/core/pinstore"
	"greenspring/core/reconcile"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	purgeState  bool
	dryRunState bool
	yesConfirm  bool
)

// reconcileCmd audits the stored pin documents.
var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Audit the pin configuration against the stored state",
	Long: `Compare the pin topology with the state document to find duplicate pin numbers,
outputs without a stored value and state entries that no longer drive anything.
Optionally purge those inert entries.

Run it while the server is stopped: a running server keeps its own copy of the state.

Examples:
  # Report only
  reconcile

  # Purge inert state entries (with interactive confirmation)
  reconcile --purge

  # Purge with auto-confirm (non-interactive)
  reconcile --purge --yes`,
	RunE: runReconcile,
}

func init() {
	reconcileCmd.Flags().BoolVar(&purgeState, "purge", false, "Remove state entries for unknown or input pins")
	reconcileCmd.Flags().BoolVar(&dryRunState, "dry-run", false, "Force dry-run (no mutations even with --yes)")
	reconcileCmd.Flags().BoolVar(&yesConfirm, "yes", false, "Auto-confirm destructive actions (non-interactive)")

	RootCmd.AddCommand(reconcileCmd)
}

func runReconcile(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	store, err := pinstore.Open(ctx, cfg.Store, cfg.Storage, cfg.Database, l)
	if err != nil {
		return fmt.Errorf("failed to open pin store: %w", err)
	}

	opts := reconcile.PlanOptions{
		DoPurge: purgeState,
		DryRun:  dryRunState,
	}

	// Step 1: Plan (always runs)
	pinCfg := store.LoadConfig(ctx)
	state := store.LoadState(ctx)
	plan := reconcile.Audit(pinCfg, state, opts)

	// Step 2: Print report
	printReconcileReport(l, plan)

	if !purgeState {
		l.Info("No actions requested. Use --purge to remove inert state entries.")
		return nil
	}

	// Step 3: Apply (if confirmed)
	if dryRunState {
		l.Info("Dry-run mode: No changes were made.")
		return nil
	}
	if len(plan.Actions) == 0 {
		l.Info("No actions required.")
		return nil
	}
	if !confirmDestructiveAction() {
		l.Warn("Operation cancelled by user. No changes were made.")
		return nil
	}
	opts.Confirmed = true

	next, executed := reconcile.ApplyPlan(state, plan, opts)
	if err := store.SaveState(ctx, next); err != nil {
		return fmt.Errorf("failed to save state: %w", err)
	}

	l.Info("Successfully executed actions", zap.Int("count", executed))
	return nil
}

// printReconcileReport prints a formatted audit report using logger.
func printReconcileReport(l *zap.Logger, plan *reconcile.Plan) {
	s := plan.Summary

	l.Info("Reconciliation report",
		zap.Int("total_pins", s.TotalPins),
		zap.Int("outputs", s.Outputs),
		zap.Int("inputs", s.Inputs),
		zap.Int("duplicates", s.Duplicates),
		zap.Int("missing_state", s.MissingState),
		zap.Int("inert_state", s.InertState),
	)

	for _, r := range plan.Results {
		if len(r.Issues) == 0 {
			continue
		}
		l.Info("Pin issue",
			logger.Pin(r.Number),
			zap.String("label", r.Label),
			zap.Strings("issues", r.Issues),
		)
	}

	if len(plan.Actions) > 0 {
		l.Info("Planned actions", zap.Int("purge_actions", s.PurgeActions))

		maxShow := 5
		if len(plan.Actions) < maxShow {
			maxShow = len(plan.Actions)
		}
		for _, action := range plan.Actions[:maxShow] {
			l.Info("Sample action",
				zap.String("type", string(action.Type)),
				logger.Pin(action.Number),
				zap.String("reason", action.Reason),
			)
		}
		if len(plan.Actions) > maxShow {
			l.Info("Additional actions not shown", zap.Int("count", len(plan.Actions)-maxShow))
		}
	}
}

// confirmDestructiveAction prompts the user for confirmation or uses --yes flag.
func confirmDestructiveAction() bool {
	if yesConfirm {
		fmt.Println("\n✓ Auto-confirmed via --yes flag")
		return true
	}

	fmt.Print("\n⚠️  Type 'yes' to confirm destructive actions: ")
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	return strings.TrimSpace(response) == "yes"
}
