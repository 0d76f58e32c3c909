package main

import (
	"log"
	"os"

	"github.com/aretw0/turing/pkg/adapters/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Starts an MCP Server over Standard Input/Output.
This allows AI agents to list, inspect, graph and run stored machines as tools.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		srv := mcp.NewServer(store,
			mcp.WithLogger(logger),
			mcp.WithDefaultSymbol(cfg.DefaultSymbol),
			mcp.WithMaxSteps(cfg.MaxSteps),
		)

		// Ensure logs don't corrupt JSON-RPC on Stdout
		log.SetOutput(os.Stderr)
		logger.Info("Starting Turing MCP Server (Stdio)...")
		return srv.ServeStdio()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
