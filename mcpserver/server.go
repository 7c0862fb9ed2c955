// Package mcpserver 通过 MCP 协议暴露工作区的文件和检查能力
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sjzsdu/workbench/share"
	"github.com/sjzsdu/workbench/workspace"
	"go.uber.org/zap"
)

// ToolHandler MCP 工具处理函数
type ToolHandler = func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)

// Server 基于工作区的 MCP 服务器
type Server struct {
	mcp       *server.MCPServer
	workspace *workspace.Workspace
	logger    *zap.Logger
	handlers  map[string]ToolHandler
	names     []string
}

// New 创建服务器并注册全部工具
func New(w *workspace.Workspace, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		mcp: server.NewMCPServer(
			share.MCP_SERVER_NAME,
			share.VERSION,
			server.WithToolCapabilities(true),
		),
		workspace: w,
		logger:    logger,
		handlers:  make(map[string]ToolHandler),
	}
	RegisterFileTools(s)
	RegisterEngineTools(s)
	return s
}

// MCPServer 返回底层的 MCP 服务器，用于选择传输方式
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

// Tools 按注册顺序返回工具名
func (s *Server) Tools() []string {
	return append([]string(nil), s.names...)
}

// Call 直接调用已注册的工具
func (s *Server) Call(ctx context.Context, name string, args map[string]any) (*mcp.CallToolResult, error) {
	h, ok := s.handlers[name]
	if !ok {
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
	req := mcp.CallToolRequest{}
	req.Method = string(mcp.MethodToolsCall)
	req.Params.Name = name
	req.Params.Arguments = args
	return h(ctx, req)
}

func (s *Server) addTool(tool mcp.Tool, h ToolHandler) {
	wrapped := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		res, err := h(ctx, req)
		if res != nil && res.IsError {
			s.logger.Debug("工具调用失败", zap.String("tool", tool.Name))
		}
		return res, err
	}
	s.mcp.AddTool(tool, wrapped)
	s.handlers[tool.Name] = wrapped
	s.names = append(s.names, tool.Name)
}

// bind 把工作区传给处理函数
func (s *Server) bind(fn func(context.Context, *workspace.Workspace, mcp.CallToolRequest) (*mcp.CallToolResult, error)) ToolHandler {
	w := s.workspace
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return fn(ctx, w, req)
	}
}

// toJSON 格式化输出，失败时退回 %v
func toJSON(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}

func errorResult(err error) *mcp.CallToolResult {
	return mcp.NewToolResultError(err.Error())
}
