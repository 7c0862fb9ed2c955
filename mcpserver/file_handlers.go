package mcpserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sjzsdu/workbench/helper"
	"github.com/sjzsdu/workbench/project"
	prjsearch "github.com/sjzsdu/workbench/project/search"
	prjtree "github.com/sjzsdu/workbench/project/tree"
	"github.com/sjzsdu/workbench/workspace"
	"github.com/zeebo/xxh3"
)

// requirePath 读取并规范化 path 参数
func requirePath(req mcp.CallToolRequest, key string) (string, error) {
	p, err := req.RequireString(key)
	if err != nil {
		return "", err
	}
	return project.NormalizePath(p)
}

// ensureDirs 逐级创建缺失的目录
func ensureDirs(w *workspace.Workspace, dir string) (bool, error) {
	created := false
	cur := ""
	for _, part := range strings.Split(dir, "/") {
		if part == "" {
			continue
		}
		next := helper.JoinPath(cur, part)
		tree := w.Tree()
		if n, err := tree.Find(next); err == nil {
			if !n.IsDir() {
				return created, &project.PathError{Op: "mkdir", Path: next, Err: project.ErrNotFolder}
			}
		} else {
			if _, err := w.CreateFolder(cur, part); err != nil {
				return created, err
			}
			created = true
		}
		cur = next
	}
	return created, nil
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func fsList(ctx context.Context, w *workspace.Workspace, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dir, err := requirePath(req, "path")
	if err != nil {
		return errorResult(err), nil
	}

	opts := prjsearch.DefaultSearchOptions()
	opts.MaxDepth = req.GetInt("maxDepth", 1)
	opts.IncludeFiles = req.GetBool("includeFiles", true)
	opts.IncludeDirs = req.GetBool("includeDirs", true)
	opts.IncludeHidden = req.GetBool("includeHidden", false)

	matched, err := prjsearch.Search(ctx, w.SyncedTree(), dir, opts)
	if err != nil {
		return errorResult(err), nil
	}

	type itemT struct {
		Name  string `json:"name"`
		Path  string `json:"path"`
		IsDir bool   `json:"isDir"`
		Size  int    `json:"size,omitempty"`
	}
	items := make([]itemT, 0, len(matched))
	for _, m := range matched {
		items = append(items, itemT{Name: m.Name, Path: m.Path, IsDir: m.IsDir(), Size: len(m.Content)})
	}
	return mcp.NewToolResultText(toJSON(map[string]any{"dir": dir, "items": items})), nil
}

func fsRead(ctx context.Context, w *workspace.Workspace, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p, err := requirePath(req, "path")
	if err != nil {
		return errorResult(err), nil
	}
	text, err := w.Content(ctx, p)
	if err != nil {
		return errorResult(err), nil
	}
	return mcp.NewToolResultText(text), nil
}

func fsWrite(ctx context.Context, w *workspace.Workspace, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p, err := requirePath(req, "path")
	if err != nil {
		return errorResult(err), nil
	}
	content, err := req.RequireString("content")
	if err != nil {
		return errorResult(err), nil
	}

	created := false
	if !w.Tree().Exists(p) || p == "" {
		if _, err := ensureDirs(w, helper.ParentPath(p)); err != nil {
			return errorResult(err), nil
		}
		if _, err := w.CreateFile(ctx, helper.ParentPath(p), helper.BaseName(p)); err != nil {
			return errorResult(err), nil
		}
		created = true
	}
	if err := w.UpdateContent(p, content); err != nil {
		return errorResult(err), nil
	}
	return mcp.NewToolResultText(toJSON(map[string]any{"path": p, "size": len(content), "created": created})), nil
}

func fsCreateFile(ctx context.Context, w *workspace.Workspace, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p, err := requirePath(req, "path")
	if err != nil {
		return errorResult(err), nil
	}
	if _, err := ensureDirs(w, helper.ParentPath(p)); err != nil {
		return errorResult(err), nil
	}
	if _, err := w.CreateFile(ctx, helper.ParentPath(p), helper.BaseName(p)); err != nil {
		return errorResult(err), nil
	}
	if content := req.GetString("content", ""); content != "" {
		if err := w.UpdateContent(p, content); err != nil {
			return errorResult(err), nil
		}
	}
	return mcp.NewToolResultText(toJSON(map[string]any{"path": p, "created": true})), nil
}

func fsCreateDir(_ context.Context, w *workspace.Workspace, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p, err := requirePath(req, "path")
	if err != nil {
		return errorResult(err), nil
	}
	created, err := ensureDirs(w, p)
	if err != nil {
		return errorResult(err), nil
	}
	return mcp.NewToolResultText(toJSON(map[string]any{"path": p, "created": created})), nil
}

func fsDelete(ctx context.Context, w *workspace.Workspace, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p, err := requirePath(req, "path")
	if err != nil {
		return errorResult(err), nil
	}
	if err := w.Delete(ctx, p); err != nil {
		return errorResult(err), nil
	}
	return mcp.NewToolResultText(toJSON(map[string]any{"path": p, "deleted": true})), nil
}

func fsRename(_ context.Context, w *workspace.Workspace, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p, err := requirePath(req, "path")
	if err != nil {
		return errorResult(err), nil
	}
	name, err := req.RequireString("name")
	if err != nil {
		return errorResult(err), nil
	}
	np, err := w.Rename(p, name)
	if err != nil {
		return errorResult(err), nil
	}
	return mcp.NewToolResultText(toJSON(map[string]any{"from": p, "to": np})), nil
}

func fsMove(_ context.Context, w *workspace.Workspace, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p, err := requirePath(req, "path")
	if err != nil {
		return errorResult(err), nil
	}
	parent, err := requirePath(req, "parent")
	if err != nil {
		return errorResult(err), nil
	}
	np, err := w.Move(p, parent)
	if err != nil {
		return errorResult(err), nil
	}
	return mcp.NewToolResultText(toJSON(map[string]any{"from": p, "to": np})), nil
}

func fsTree(_ context.Context, w *workspace.Workspace, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p, err := requirePath(req, "path")
	if err != nil {
		return errorResult(err), nil
	}
	opts := prjtree.DefaultOptions()
	opts.ShowFiles = req.GetBool("showFiles", true)
	opts.ShowHidden = req.GetBool("showHidden", false)
	opts.MaxDepth = req.GetInt("maxDepth", 0)
	txt, err := prjtree.TreeWithOptions(w.SyncedTree(), p, opts)
	if err != nil {
		return errorResult(err), nil
	}
	return mcp.NewToolResultText(txt), nil
}

func fsSearch(ctx context.Context, w *workspace.Workspace, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p, err := requirePath(req, "path")
	if err != nil {
		return errorResult(err), nil
	}

	opts := prjsearch.DefaultSearchOptions()
	opts.NameContains = req.GetString("nameContains", "")
	opts.NameRegex = req.GetString("nameRegex", "")
	opts.ContentContains = req.GetString("contentContains", "")
	opts.ContentRegex = req.GetString("contentRegex", "")
	opts.Extensions = splitList(req.GetString("extensions", ""))
	opts.IncludeHidden = req.GetBool("includeHidden", false)
	opts.IncludeDirs = req.GetBool("includeDirs", false)
	opts.IncludeFiles = req.GetBool("includeFiles", true)
	opts.CaseInsensitive = req.GetBool("caseInsensitive", true)
	opts.MatchAny = req.GetBool("matchAny", false)
	opts.MaxDepth = req.GetInt("maxDepth", 0)

	matched, err := prjsearch.Search(ctx, w.SyncedTree(), p, opts)
	if err != nil {
		return errorResult(err), nil
	}
	paths := make([]string, 0, len(matched))
	for _, m := range matched {
		paths = append(paths, m.Path)
	}
	return mcp.NewToolResultText(toJSON(map[string]any{"count": len(paths), "paths": paths})), nil
}

func fsGrep(ctx context.Context, w *workspace.Workspace, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return errorResult(err), nil
	}
	engine := prjsearch.NewDefaultSearchEngine()
	if err := engine.BuildIndex(w.SyncedTree()); err != nil {
		return errorResult(err), nil
	}
	results, err := engine.Search(ctx, query, prjsearch.GrepOptions{
		CaseSensitive: req.GetBool("caseSensitive", false),
		WholeWord:     req.GetBool("wholeWord", false),
		RegexMode:     req.GetBool("regex", false),
		FileTypes:     splitList(req.GetString("fileTypes", "")),
		MaxResults:    req.GetInt("maxResults", 0),
	})
	if err != nil {
		return errorResult(err), nil
	}
	return mcp.NewToolResultText(toJSON(map[string]any{"count": len(results), "results": results})), nil
}

func fsStat(_ context.Context, w *workspace.Workspace, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p, err := requirePath(req, "path")
	if err != nil {
		return errorResult(err), nil
	}
	tree := w.SyncedTree()
	n, err := tree.Find(p)
	if err != nil {
		return errorResult(err), nil
	}

	info := map[string]any{"name": n.Name, "path": n.Path, "isDir": n.IsDir()}
	if n.IsDir() {
		kids, _ := tree.Children(p)
		info["children"] = len(kids)
	} else {
		info["size"] = len(n.Content)
		info["language"] = helper.LanguageOf(p)
	}
	if req.GetBool("hash", false) && n.IsFile() {
		info["hash"] = fmt.Sprintf("%016x", xxh3.HashString(n.Content))
	}
	return mcp.NewToolResultText(toJSON(info)), nil
}

func fsSave(ctx context.Context, w *workspace.Workspace, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := w.Persist(ctx); err != nil {
		return errorResult(err), nil
	}
	return mcp.NewToolResultText("saved"), nil
}
