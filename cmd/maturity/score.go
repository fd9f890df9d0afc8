package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/aretw0/maturity/pkg/report"
	"github.com/aretw0/maturity/pkg/runner"
	"github.com/spf13/cobra"
)

var scoreCmd = &cobra.Command{
	Use:   "score [questionnaire]",
	Short: "Score a recorded list of answers without prompting",
	Long: `Replays answers from a JSON file (or "-" for stdin) through the questionnaire and
prints the results. The file holds an array of {"question_id", "option_id"} objects
in the order they were given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScore,
}

func init() {
	rootCmd.AddCommand(scoreCmd)
	scoreCmd.Flags().StringP("answers", "a", "-", "Answers file, or - for stdin")
	scoreCmd.Flags().StringP("format", "f", "text", "Output format (text, markdown, json)")
}

func runScore(cmd *cobra.Command, args []string) error {
	answersPath, _ := cmd.Flags().GetString("answers")
	format, _ := cmd.Flags().GetString("format")

	engine, err := loadEngine(args)
	if err != nil {
		return err
	}
	q, err := engine.Inspect()
	if err != nil {
		return err
	}

	answers, err := readAnswers(cmd.InOrStdin(), answersPath)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	state, err := runner.Replay(ctx, engine, "score", answers)
	if err != nil {
		return err
	}
	if !state.IsCompleted() {
		logger.Warn("answers stop before the end of the questionnaire; scoring a partial session",
			"answered", len(state.Answers))
	}
	results, err := engine.Results(ctx, state)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	opts := report.Options{Title: q.Metadata.Title, GeneratedAt: time.Now()}
	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	case "markdown", "md":
		_, err = fmt.Fprint(out, report.Markdown(results, opts))
		return err
	case "text":
		return report.WriteText(out, results, opts)
	default:
		return fmt.Errorf("unknown format %q (want text, markdown or json)", format)
	}
}

func readAnswers(stdin io.Reader, path string) ([]runner.Answer, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read answers: %w", err)
	}

	var answers []runner.Answer
	if err := json.Unmarshal(data, &answers); err != nil {
		return nil, fmt.Errorf("failed to parse answers: %w", err)
	}
	return answers, nil
}
