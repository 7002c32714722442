package server

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/deskmate/deskmate/internal/tools"
)

// NewMCPServer bridges the tool registry onto an MCP server so stdio
// clients see the same catalog the reasoning backend does.
func NewMCPServer(name, version string, registry *tools.Registry) *mcpserver.MCPServer {
	srv := mcpserver.NewMCPServer(name, version,
		mcpserver.WithToolCapabilities(true),
	)

	for _, spec := range registry.Specs() {
		srv.AddTool(toMCPTool(spec), mcpHandler(registry, spec.Name))
	}
	return srv
}

// ServeStdio blocks serving the MCP protocol on stdin/stdout.
func ServeStdio(srv *mcpserver.MCPServer) error {
	return mcpserver.ServeStdio(srv)
}

func toMCPTool(spec tools.Spec) mcp.Tool {
	opts := []mcp.ToolOption{mcp.WithDescription(spec.Description)}

	for _, p := range spec.Params {
		var propOpts []mcp.PropertyOption
		if p.Description != "" {
			propOpts = append(propOpts, mcp.Description(p.Description))
		}
		if p.Required {
			propOpts = append(propOpts, mcp.Required())
		}

		switch p.Type {
		case tools.TypeNumber:
			opts = append(opts, mcp.WithNumber(p.Name, propOpts...))
		case tools.TypeBoolean:
			opts = append(opts, mcp.WithBoolean(p.Name, propOpts...))
		default:
			if len(p.Enum) > 0 {
				propOpts = append(propOpts, mcp.Enum(p.Enum...))
			}
			opts = append(opts, mcp.WithString(p.Name, propOpts...))
		}
	}

	return mcp.NewTool(spec.Name, opts...)
}

// mcpHandler adapts registry invocation to the MCP result shape. Error
// results become MCP error results, never protocol errors.
func mcpHandler(registry *tools.Registry, name string) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result := registry.Invoke(ctx, name, request.GetArguments())
		if !result.OK {
			return mcp.NewToolResultError(result.Message), nil
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}
