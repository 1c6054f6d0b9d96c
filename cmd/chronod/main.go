// Package main is the entry point for the chronod time server.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var version = "0.1.0"

const serverName = "chronos"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "chronod",
		Short: "MCP time server",
		Long: `Chronod exposes deterministic time operations (current time lookup,
cross-timezone conversion) over the MCP streamable HTTP transport and the
legacy SSE transport.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newServeCmd())
	root.AddCommand(newVersionCmd())

	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "chronod %s\n", version)
		},
	}
}

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
