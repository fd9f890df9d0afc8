package main

import (
	"fmt"

	"github.com/aretw0/maturity/internal/validator"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [questionnaire]",
	Short: "Check a questionnaire for errors and warnings",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := loadEngine(args)
		if err != nil {
			return err
		}
		q, err := engine.Inspect()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		report := validator.Check(q)
		for _, w := range report.Warnings {
			fmt.Fprintf(out, "warning: %s\n", w)
		}
		if err := report.Err(); err != nil {
			return err
		}
		fmt.Fprintf(out, "%s: %d pillars, %d questions, entry %s\n",
			engine.Name, len(q.Pillars), len(q.Questions), q.Metadata.EntryQuestionID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
