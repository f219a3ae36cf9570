package tools

import (
	"context"
	"fmt"
	"strings"

	mcpclient "github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
)

// MCPTool attaches an external MCP tool server and exposes its tools through
// one dispatchable tool. The server's tool list is discovered at connect time
// and baked into the description.
type MCPTool struct {
	name        string
	client      *mcpclient.Client
	serverTools []mcp.Tool
}

// NewMCPTool connects to an MCP server over stdio by launching command with args
func NewMCPTool(ctx context.Context, name, command string, args []string) (*MCPTool, error) {
	c, err := mcpclient.NewStdioMCPClient(command, nil, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to start MCP server: %w", err)
	}
	return initMCPTool(ctx, name, c)
}

// NewMCPToolFromURL connects to an MCP server over streamable HTTP
func NewMCPToolFromURL(ctx context.Context, name, url string) (*MCPTool, error) {
	c, err := mcpclient.NewStreamableHttpClient(url)
	if err != nil {
		return nil, fmt.Errorf("failed to create MCP client: %w", err)
	}
	if err := c.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to MCP server: %w", err)
	}
	return initMCPTool(ctx, name, c)
}

func initMCPTool(ctx context.Context, name string, c *mcpclient.Client) (*MCPTool, error) {
	initReq := mcp.InitializeRequest{}
	initReq.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initReq.Params.ClientInfo = mcp.Implementation{Name: "aws-agent", Version: "0.1.0"}

	if _, err := c.Initialize(ctx, initReq); err != nil {
		c.Close()
		return nil, fmt.Errorf("MCP initialize failed: %w", err)
	}

	list, err := c.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("MCP tool discovery failed: %w", err)
	}

	return &MCPTool{name: name, client: c, serverTools: list.Tools}, nil
}

func (m *MCPTool) Name() string {
	return m.name
}

func (m *MCPTool) Description() string {
	var sb strings.Builder
	sb.WriteString("Call a tool on an attached MCP server. Available tools:")
	for _, t := range m.serverTools {
		sb.WriteString(fmt.Sprintf("\n- %s: %s", t.Name, t.Description))
	}
	return sb.String()
}

func (m *MCPTool) Parameters() map[string]any {
	names := make([]string, 0, len(m.serverTools))
	for _, t := range m.serverTools {
		names = append(names, t.Name)
	}
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"tool_name": map[string]any{
				"type":        "string",
				"description": "Name of the server tool to call",
				"enum":        names,
			},
			"arguments": map[string]any{
				"type":        "object",
				"description": "Arguments for the server tool",
			},
		},
		"required": []string{"tool_name"},
	}
}

func (m *MCPTool) Call(ctx context.Context, params map[string]any) (string, error) {
	toolName := stringParam(params, "tool_name")
	if toolName == "" {
		return "", fmt.Errorf("tool_name parameter required")
	}

	req := mcp.CallToolRequest{}
	req.Params.Name = toolName
	req.Params.Arguments = mapParam(params, "arguments")

	res, err := m.client.CallTool(ctx, req)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, content := range res.Content {
		if tc, ok := content.(mcp.TextContent); ok {
			if sb.Len() > 0 {
				sb.WriteString("\n")
			}
			sb.WriteString(tc.Text)
		}
	}
	if res.IsError {
		return "", fmt.Errorf("server tool %q failed: %s", toolName, sb.String())
	}
	return sb.String(), nil
}

// ToolCount reports how many tools the server advertised
func (m *MCPTool) ToolCount() int {
	return len(m.serverTools)
}

// Close shuts down the server connection
func (m *MCPTool) Close() error {
	return m.client.Close()
}
