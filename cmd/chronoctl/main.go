// Package main is the chronoctl example client: a test harness that
// exercises a running chronod over either wire transport.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/szaher/chronos/internal/client"
	"github.com/szaher/chronos/internal/tools"
)

var (
	serverURL string
	transport string
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "chronoctl",
		Short:         "Client for the chronod time server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&serverURL, "url", "", "Server URL (defaults per transport)")
	root.PersistentFlags().StringVar(&transport, "transport", client.TransportStreamable,
		"Wire transport: streamable or sse")

	root.AddCommand(newToolsCmd())
	root.AddCommand(newCurrentCmd())
	root.AddCommand(newConvertCmd())

	return root
}

// endpoint resolves the server URL, defaulting to the conventional path for
// the selected transport on localhost:3000.
func endpoint() string {
	if serverURL != "" {
		return serverURL
	}
	if transport == client.TransportSSE {
		return "http://localhost:3000/sse"
	}
	return "http://localhost:3000/mcp"
}

// withClient connects, runs fn, and closes the session.
func withClient(fn func(ctx context.Context, c *client.Client) error) error {
	ctx := context.Background()
	c := client.New(endpoint(), transport)
	if err := c.Connect(ctx); err != nil {
		return err
	}
	defer c.Close()
	return fn(ctx, c)
}

func newToolsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "List the server's tools",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withClient(func(ctx context.Context, c *client.Client) error {
				list, err := c.ListTools(ctx)
				if err != nil {
					return err
				}
				for _, t := range list {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", t.Name, t.Description)
				}
				return nil
			})
		},
	}
}

func newCurrentCmd() *cobra.Command {
	var zone string

	cmd := &cobra.Command{
		Use:   "current",
		Short: "Get the current time in a timezone",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withClient(func(ctx context.Context, c *client.Client) error {
				args := map[string]any{}
				if zone != "" {
					args["timezone"] = zone
				}
				text, err := c.CallTool(ctx, tools.ToolGetCurrentTime, args)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), text)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&zone, "timezone", "", "IANA timezone name (default: server's local zone)")
	return cmd
}

func newConvertCmd() *cobra.Command {
	var (
		from    string
		to      string
		timeStr string
	)

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert a wall-clock time between timezones",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withClient(func(ctx context.Context, c *client.Client) error {
				args := map[string]any{"time": timeStr}
				if from != "" {
					args["source_timezone"] = from
				}
				if to != "" {
					args["target_timezone"] = to
				}
				text, err := c.CallTool(ctx, tools.ToolConvertTime, args)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), text)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Source IANA timezone (default: server's local zone)")
	cmd.Flags().StringVar(&to, "to", "", "Target IANA timezone (default: server's local zone)")
	cmd.Flags().StringVar(&timeStr, "time", "", "Time to convert, 24-hour HH:MM")
	_ = cmd.MarkFlagRequired("time")
	return cmd
}

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
