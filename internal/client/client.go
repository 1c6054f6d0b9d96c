// Package client wraps the MCP SDK client for the chronoctl test harness.
// It is not part of the service; the server is exercised end to end through
// either wire transport.
package client

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Transport names accepted by Connect.
const (
	TransportStreamable = "streamable"
	TransportSSE        = "sse"
)

// ToolInfo describes a tool advertised by the server.
type ToolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Client wraps one MCP server connection.
type Client struct {
	url       string
	transport string
	client    *mcpsdk.Client
	session   *mcpsdk.ClientSession
}

// New creates a client for the server at url using the named transport.
func New(url, transport string) *Client {
	return &Client{url: url, transport: transport}
}

// Connect establishes the session, performing the MCP handshake.
func (c *Client) Connect(ctx context.Context) error {
	impl := &mcpsdk.Implementation{
		Name:    "chronoctl",
		Version: "0.1.0",
	}
	c.client = mcpsdk.NewClient(impl, nil)

	var transport mcpsdk.Transport
	switch c.transport {
	case TransportStreamable:
		transport = &mcpsdk.StreamableClientTransport{Endpoint: c.url}
	case TransportSSE:
		transport = &mcpsdk.SSEClientTransport{Endpoint: c.url}
	default:
		return fmt.Errorf("unsupported transport: %s", c.transport)
	}

	session, err := c.client.Connect(ctx, transport, nil)
	if err != nil {
		return fmt.Errorf("mcp connect to %s: %w", c.url, err)
	}
	c.session = session
	return nil
}

// ListTools returns the tools available on the server.
func (c *Client) ListTools(ctx context.Context) ([]ToolInfo, error) {
	if c.session == nil {
		return nil, fmt.Errorf("mcp client not connected")
	}

	var tools []ToolInfo
	for tool, err := range c.session.Tools(ctx, nil) {
		if err != nil {
			return nil, fmt.Errorf("mcp list tools: %w", err)
		}
		tools = append(tools, ToolInfo{
			Name:        tool.Name,
			Description: tool.Description,
		})
	}
	return tools, nil
}

// CallTool invokes a tool and returns the concatenated text content. Tool
// failures come back as text as well, flagged by the server's isError
// convention and surfaced here as an error.
func (c *Client) CallTool(ctx context.Context, name string, args map[string]any) (string, error) {
	if c.session == nil {
		return "", fmt.Errorf("mcp client not connected")
	}

	result, err := c.session.CallTool(ctx, &mcpsdk.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	if err != nil {
		return "", fmt.Errorf("mcp call tool %s: %w", name, err)
	}

	var text string
	for _, content := range result.Content {
		if tc, ok := content.(*mcpsdk.TextContent); ok {
			if text != "" {
				text += "\n"
			}
			text += tc.Text
		}
	}

	if result.IsError {
		return "", fmt.Errorf("tool %s: %s", name, text)
	}
	return text, nil
}

// Close gracefully closes the connection.
func (c *Client) Close() error {
	if c.session != nil {
		return c.session.Close()
	}
	return nil
}
