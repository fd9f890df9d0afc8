package main

import (
	"fmt"

	"github.com/aretw0/maturity/internal/presentation/graph"
	"github.com/spf13/cobra"
)

var graphCmd = &cobra.Command{
	Use:   "graph [questionnaire]",
	Short: "Print the question flow as a Mermaid flowchart",
	Long: `Prints the branching flow as Mermaid. With --session, the path walked by that
stored session is highlighted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionID, _ := cmd.Flags().GetString("session")

		engine, err := loadEngine(args)
		if err != nil {
			return err
		}
		q, err := engine.Inspect()
		if err != nil {
			return err
		}

		var overlay *graph.GraphOverlay
		if sessionID != "" {
			backend, err := openStore(cmd.Context(), cfg.Store)
			if err != nil {
				return err
			}
			defer backend.Close()

			state, err := backend.Store.Load(cmd.Context(), sessionID)
			if err != nil {
				return fmt.Errorf("failed to load session %s: %w", sessionID, err)
			}
			overlay = graph.OverlayFromState(state)
		}

		_, err = fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(q, overlay))
		return err
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().String("session", "", "Highlight the path of a stored session")
}
