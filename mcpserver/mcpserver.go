// Package mcpserver exposes GetContent as an MCP tool.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/use-agent/preview/models"
	"github.com/use-agent/preview/service"
)

// ToolName is the name of the registered tool.
const ToolName = "get_content"

// New creates an MCP server with the get_content tool registered.
func New(svc *service.Service, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"preview",
		version,
		server.WithToolCapabilities(false),
	)

	tool := mcp.NewTool(ToolName,
		mcp.WithDescription("Fetch a web page and return its link-preview metadata: OpenGraph title, OpenGraph image and shortcut icon. Image and icon are absolute URLs. Fields the page does not provide are omitted."),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("Absolute URL of the page, including scheme"),
		),
	)
	s.AddTool(tool, HandleGetContent(svc))

	return s
}

// HandleGetContent returns the tool handler. Failures are reported as tool
// errors of the form "[CODE] message", never as protocol errors.
func HandleGetContent(svc *service.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		url, err := request.RequireString("url")
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("[%s] url is required", service.CodeInvalidArgument)), nil
		}

		content, err := svc.GetContent(ctx, &models.ContentRequest{URL: url})
		if err != nil {
			var status *service.StatusError
			if errors.As(err, &status) {
				return mcp.NewToolResultError(fmt.Sprintf("[%s] %s", status.Code, status.Message)), nil
			}
			return mcp.NewToolResultError(err.Error()), nil
		}

		body, err := json.MarshalIndent(content, "", "  ")
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to encode content: %v", err)), nil
		}
		return mcp.NewToolResultText(string(body)), nil
	}
}
