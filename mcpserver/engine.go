package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sjzsdu/workbench/preview"
	"github.com/sjzsdu/workbench/workspace"
)

// RegisterEngineTools 注册校验、格式化、符号、预览和命令工具
func RegisterEngineTools(s *Server) {
	if s == nil || s.workspace == nil {
		return
	}

	s.addTool(mcp.NewTool(
		"file_validate",
		mcp.WithDescription("对文件做启发式语法检查，返回问题列表"),
		mcp.WithString("path", mcp.Required(), mcp.Description("文件路径")),
	), s.bind(fileValidate))

	s.addTool(mcp.NewTool(
		"file_format",
		mcp.WithDescription("规范化文件中的空白，可选择写回"),
		mcp.WithString("path", mcp.Required(), mcp.Description("文件路径")),
		mcp.WithBoolean("apply", mcp.Description("是否写回工作区，默认 false")),
	), s.bind(fileFormat))

	s.addTool(mcp.NewTool(
		"file_symbols",
		mcp.WithDescription("提取脚本文件中的函数、变量、类和导入"),
		mcp.WithString("path", mcp.Required(), mcp.Description("文件路径")),
	), s.bind(fileSymbols))

	s.addTool(mcp.NewTool(
		"preview_build",
		mcp.WithDescription("合成项目的 HTML 预览文档"),
		mcp.WithString("active", mcp.Description("作为当前文件的路径，默认使用已打开的文件")),
		mcp.WithBoolean("markdown", mcp.Description("Markdown 文件作为宿主时渲染为 HTML，默认 false")),
	), s.bind(previewBuild))

	s.addTool(mcp.NewTool(
		"command_run",
		mcp.WithDescription("执行命令面板中的命令"),
		mcp.WithString("id", mcp.Required(), mcp.Description("命令 ID，如 new-file、save-all")),
		mcp.WithString("args", mcp.Description("参数列表（逗号分隔）")),
	), s.bind(commandRun))

	s.addTool(mcp.NewTool(
		"notices",
		mcp.WithDescription("列出尚未关闭的通知"),
	), s.bind(listNotices))
}

func fileValidate(ctx context.Context, w *workspace.Workspace, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p, err := requirePath(req, "path")
	if err != nil {
		return errorResult(err), nil
	}
	res, err := w.Validate(ctx, p)
	if err != nil {
		return errorResult(err), nil
	}
	return mcp.NewToolResultText(toJSON(map[string]any{"path": p, "isValid": res.IsValid, "errors": res.Errors})), nil
}

func fileFormat(ctx context.Context, w *workspace.Workspace, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p, err := requirePath(req, "path")
	if err != nil {
		return errorResult(err), nil
	}
	formatted, err := w.Format(ctx, p, req.GetBool("apply", false))
	if err != nil {
		return errorResult(err), nil
	}
	return mcp.NewToolResultText(formatted), nil
}

func fileSymbols(ctx context.Context, w *workspace.Workspace, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p, err := requirePath(req, "path")
	if err != nil {
		return errorResult(err), nil
	}
	syms, err := w.Symbols(ctx, p)
	if err != nil {
		return errorResult(err), nil
	}
	return mcp.NewToolResultText(toJSON(syms)), nil
}

func previewBuild(_ context.Context, w *workspace.Workspace, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var opts []preview.Option
	if active := req.GetString("active", ""); active != "" {
		opts = append(opts, preview.WithActive(active))
	}
	if req.GetBool("markdown", false) {
		opts = append(opts, preview.WithMarkdownHost())
	}
	res, err := w.Preview(opts...)
	if err != nil {
		return errorResult(err), nil
	}
	return mcp.NewToolResultText(toJSON(map[string]any{
		"host":        res.HostPath,
		"synthesized": res.Synthesized,
		"inlined":     res.Inlined,
		"appended":    res.Appended,
		"html":        res.HTML,
	})), nil
}

func commandRun(ctx context.Context, w *workspace.Workspace, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return errorResult(err), nil
	}
	if err := w.Run(ctx, id, splitList(req.GetString("args", ""))...); err != nil {
		return errorResult(err), nil
	}
	return mcp.NewToolResultText(toJSON(map[string]any{"id": id, "ok": true})), nil
}

func listNotices(_ context.Context, w *workspace.Workspace, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	type noticeT struct {
		ID      int    `json:"id"`
		Level   string `json:"level"`
		Message string `json:"message"`
	}
	out := make([]noticeT, 0)
	for _, n := range w.Notices() {
		out = append(out, noticeT{ID: n.ID, Level: string(n.Level), Message: n.Message})
	}
	return mcp.NewToolResultText(toJSON(out)), nil
}
