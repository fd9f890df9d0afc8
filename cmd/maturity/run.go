package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aretw0/maturity"
	"github.com/aretw0/maturity/internal/presentation/tui"
	"github.com/aretw0/maturity/pkg/domain"
	"github.com/aretw0/maturity/pkg/observability"
	"github.com/aretw0/maturity/pkg/report"
	"github.com/aretw0/maturity/pkg/runner"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run [questionnaire]",
	Short: "Take the assessment in the terminal",
	Long: `Walks through the questionnaire interactively. Answer with an option number, id or
label; "b" goes back, "r" restarts and "q" quits. With --session and a persistent
store (file or redis), an interrupted assessment resumes where it stopped.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAssessment,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().String("session", "", "Session id to persist and resume")
	runCmd.Flags().Bool("fresh", false, "Discard the stored session before starting")
	runCmd.Flags().Bool("json", false, "Exchange JSON lines instead of text (for programs)")
	runCmd.Flags().Bool("manual", false, "Stay on a question after answering; an empty line moves on")
	runCmd.Flags().String("export", "", "Write the text report to this file when the assessment completes")
}

func runAssessment(cmd *cobra.Command, args []string) error {
	sessionID, _ := cmd.Flags().GetString("session")
	fresh, _ := cmd.Flags().GetBool("fresh")
	jsonMode, _ := cmd.Flags().GetBool("json")
	manual, _ := cmd.Flags().GetBool("manual")
	export, _ := cmd.Flags().GetString("export")

	engine, err := loadEngine(args, maturity.WithLifecycleHooks(observability.LoggingHooks(logger)))
	if err != nil {
		return err
	}
	q, err := engine.Inspect()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := []runner.Option{runner.WithLogger(logger)}
	if sessionID != "" {
		backend, err := openStore(ctx, cfg.Store)
		if err != nil {
			return err
		}
		defer backend.Close()

		if fresh {
			if err := backend.Store.Delete(ctx, sessionID); err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
				return fmt.Errorf("failed to reset session %s: %w", sessionID, err)
			}
		}
		opts = append(opts, runner.WithStore(backend.Store), runner.WithSessionID(sessionID))
	}
	if manual {
		opts = append(opts, runner.WithManualAdvance())
	}

	in, out := cmd.InOrStdin(), cmd.OutOrStdout()
	if jsonMode {
		opts = append(opts, runner.WithInputHandler(runner.NewJSONHandler(in, out)))
	} else {
		textOpts := []runner.TextHandlerOption{runner.WithReportTitle(q.Metadata.Title)}
		if runner.IsTerminal(out) {
			tui.PrintBanner(out, q.Metadata.Title)
			if render, err := tui.NewRenderer("", 0); err == nil {
				textOpts = append(textOpts, runner.WithTextHandlerRenderer(render))
			} else {
				logger.Warn("markdown renderer unavailable", "err", err)
			}
		}
		opts = append(opts, runner.WithInputHandler(runner.NewTextHandler(in, out, textOpts...)))
	}

	state, err := runner.NewRunner(opts...).Run(ctx, engine)
	if errors.Is(err, context.Canceled) {
		fmt.Fprintln(cmd.ErrOrStderr(), "\nInterrupted.")
		return nil
	}
	if err != nil {
		return err
	}

	if export != "" && state.IsCompleted() {
		return exportReport(ctx, engine, state, export, q.Metadata.Title)
	}
	return nil
}

func exportReport(ctx context.Context, engine *maturity.Engine, state *domain.State, path, title string) error {
	results, err := engine.Results(ctx, state)
	if err != nil {
		return err
	}
	text := report.Text(results, report.Options{Title: title, GeneratedAt: time.Now()})
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("failed to export report: %w", err)
	}
	logger.Info("report exported", "path", path)
	return nil
}
