package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/aretw0/maturity"
	mcpAdapter "github.com/aretw0/maturity/pkg/adapters/mcp"
	"github.com/aretw0/maturity/pkg/observability"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp [questionnaire]",
	Short: "Expose the assessment as Model Context Protocol tools",
	Long: `Runs an MCP server so AI agents can start sessions, answer questions and read
results. Stdio is the default transport; --sse serves HTTP instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sse, _ := cmd.Flags().GetBool("sse")
		port, _ := cmd.Flags().GetInt("port")

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		engine, err := loadEngine(args, maturity.WithLifecycleHooks(observability.LoggingHooks(logger)))
		if err != nil {
			return err
		}
		backend, err := openStore(ctx, cfg.Store)
		if err != nil {
			return err
		}
		defer backend.Close()

		srv := mcpAdapter.NewServer(engine, backend.Store, mcpAdapter.WithLogger(logger))
		if sse {
			return srv.ServeSSE(ctx, port)
		}
		return srv.ServeStdio()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().Bool("sse", false, "Serve over HTTP with server-sent events instead of stdio")
	mcpCmd.Flags().Int("port", 8080, "Port for the SSE transport")
}
