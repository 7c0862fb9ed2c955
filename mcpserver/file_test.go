package mcpserver

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sjzsdu/workbench/config"
	"github.com/sjzsdu/workbench/helper/clock"
	"github.com/sjzsdu/workbench/storage"
	"github.com/sjzsdu/workbench/workspace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*Server, *workspace.Workspace, *storage.FS) {
	t.Helper()
	st := storage.NewMemory()
	settings := config.DefaultSettings()
	settings.Workers = 1
	w := workspace.New(workspace.Options{
		Storage:  st,
		Settings: settings,
		Clock:    clock.Fake(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
	})
	t.Cleanup(func() { _ = w.Close() })
	return New(w, nil), w, st
}

func textFromResult(t *testing.T, r *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, r)
	for _, c := range r.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

// call 调用工具并要求成功
func call(t *testing.T, s *Server, name string, args map[string]any) string {
	t.Helper()
	res, err := s.Call(context.Background(), name, args)
	require.NoError(t, err)
	require.False(t, res.IsError, "%s: %s", name, textFromResult(t, res))
	return textFromResult(t, res)
}

// callErr 调用工具并要求返回错误结果
func callErr(t *testing.T, s *Server, name string, args map[string]any) string {
	t.Helper()
	res, err := s.Call(context.Background(), name, args)
	require.NoError(t, err)
	require.True(t, res.IsError, name)
	return textFromResult(t, res)
}

func decode(t *testing.T, text string) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(text), &out))
	return out
}

func TestToolsRegistered(t *testing.T) {
	s, _, _ := newTestServer(t)
	tools := s.Tools()
	for _, name := range []string{"fs_list", "fs_read", "fs_write", "fs_delete", "fs_tree", "fs_grep", "file_validate", "preview_build", "command_run"} {
		assert.Contains(t, tools, name)
	}
	_, err := s.Call(context.Background(), "nope", nil)
	assert.Error(t, err)
	assert.NotNil(t, s.MCPServer())
}

func TestFSCreateReadWriteDelete(t *testing.T) {
	s, w, _ := newTestServer(t)

	out := decode(t, call(t, s, "fs_create_dir", map[string]any{"path": "/a/b"}))
	assert.Equal(t, true, out["created"])
	assert.True(t, w.Tree().Exists("a/b"))
	out = decode(t, call(t, s, "fs_create_dir", map[string]any{"path": "/a/b"}))
	assert.Equal(t, false, out["created"])

	call(t, s, "fs_create_file", map[string]any{"path": "/a/hello.txt", "content": "hi"})
	assert.Equal(t, "hi", call(t, s, "fs_read", map[string]any{"path": "/a/hello.txt"}))
	callErr(t, s, "fs_create_file", map[string]any{"path": "/a/hello.txt"})

	out = decode(t, call(t, s, "fs_write", map[string]any{"path": "x/y/new.js", "content": "let a = 1"}))
	assert.Equal(t, true, out["created"])
	assert.Equal(t, "let a = 1", call(t, s, "fs_read", map[string]any{"path": "x/y/new.js"}))
	out = decode(t, call(t, s, "fs_write", map[string]any{"path": "x/y/new.js", "content": "let a = 2"}))
	assert.Equal(t, false, out["created"])
	assert.Equal(t, "let a = 2", call(t, s, "fs_read", map[string]any{"path": "x/y/new.js"}))

	out = decode(t, call(t, s, "fs_rename", map[string]any{"path": "a/hello.txt", "name": "hi.txt"}))
	assert.Equal(t, "a/hi.txt", out["to"])
	out = decode(t, call(t, s, "fs_move", map[string]any{"path": "a/hi.txt", "parent": "/"}))
	assert.Equal(t, "hi.txt", out["to"])
	assert.Equal(t, "hi", call(t, s, "fs_read", map[string]any{"path": "hi.txt"}))

	call(t, s, "fs_delete", map[string]any{"path": "a"})
	assert.False(t, w.Tree().Exists("a/b"))

	callErr(t, s, "fs_read", map[string]any{"path": "missing.txt"})
	callErr(t, s, "fs_read", map[string]any{})
	callErr(t, s, "fs_create_dir", map[string]any{"path": "hi.txt/sub"})
	callErr(t, s, "fs_move", map[string]any{"path": "x", "parent": "x/y"})
	callErr(t, s, "fs_read", map[string]any{"path": "../outside"})
}

func TestFSListTreeSearch(t *testing.T) {
	s, _, _ := newTestServer(t)
	call(t, s, "fs_write", map[string]any{"path": "index.html", "content": "<html></html>"})
	call(t, s, "fs_write", map[string]any{"path": "src/app.js", "content": "function main() {}\nmain()"})
	call(t, s, "fs_write", map[string]any{"path": "src/.env", "content": "KEY=main"})

	var listed struct {
		Dir   string `json:"dir"`
		Items []struct {
			Path  string `json:"path"`
			IsDir bool   `json:"isDir"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal([]byte(call(t, s, "fs_list", map[string]any{"path": "/"})), &listed))
	require.Len(t, listed.Items, 2)
	assert.Equal(t, "index.html", listed.Items[0].Path)
	assert.Equal(t, "src", listed.Items[1].Path)
	assert.True(t, listed.Items[1].IsDir)

	tree := call(t, s, "fs_tree", map[string]any{"path": "/"})
	assert.Contains(t, tree, "src/")
	assert.Contains(t, tree, "app.js")
	assert.NotContains(t, tree, ".env")

	out := decode(t, call(t, s, "fs_search", map[string]any{"path": "/", "contentContains": "main", "includeHidden": true}))
	assert.Equal(t, []any{"src/.env", "src/app.js"}, out["paths"])

	out = decode(t, call(t, s, "fs_grep", map[string]any{"query": "main", "wholeWord": true, "fileTypes": "js"}))
	assert.Equal(t, float64(2), out["count"])

	out = decode(t, call(t, s, "fs_stat", map[string]any{"path": "src/app.js", "hash": true}))
	assert.Equal(t, "javascript", out["language"])
	assert.Len(t, out["hash"], 16)
	out = decode(t, call(t, s, "fs_stat", map[string]any{"path": "src"}))
	assert.Equal(t, float64(2), out["children"])
}

func TestFSSavePersists(t *testing.T) {
	s, _, st := newTestServer(t)
	call(t, s, "fs_write", map[string]any{"path": "web/a.js", "content": "let a = 1"})
	assert.Equal(t, "saved", call(t, s, "fs_save", nil))

	text, err := st.Read(context.Background(), "web/a.js")
	require.NoError(t, err)
	assert.Equal(t, "let a = 1", text)
}

func TestEngineTools(t *testing.T) {
	s, w, _ := newTestServer(t)
	call(t, s, "fs_write", map[string]any{"path": "style.css", "content": "a { color: red;\n"})
	call(t, s, "fs_write", map[string]any{"path": "b.js", "content": "function foo() {}   \n\n\n\nconst x = 1"})
	call(t, s, "fs_write", map[string]any{"path": "index.html", "content": "<html><body>hi</body></html>"})

	out := decode(t, call(t, s, "file_validate", map[string]any{"path": "style.css"}))
	assert.Equal(t, false, out["isValid"])
	assert.NotEmpty(t, out["errors"])

	assert.Equal(t, "function foo() {}\n\nconst x = 1\n", call(t, s, "file_format", map[string]any{"path": "b.js"}))
	assert.Equal(t, "function foo() {}   \n\n\n\nconst x = 1", w.Peek("b.js"), "未写回")
	call(t, s, "file_format", map[string]any{"path": "b.js", "apply": true})
	assert.Equal(t, "function foo() {}\n\nconst x = 1\n", w.Peek("b.js"))

	out = decode(t, call(t, s, "file_symbols", map[string]any{"path": "b.js"}))
	assert.Contains(t, out["functions"], "foo")

	out = decode(t, call(t, s, "preview_build", map[string]any{"active": "b.js"}))
	assert.Equal(t, "index.html", out["host"])
	assert.Contains(t, out["html"], "hi")

	call(t, s, "command_run", map[string]any{"id": "toggle-output"})
	assert.True(t, w.UI().OutputVisible)
	callErr(t, s, "command_run", map[string]any{"id": "unknown"})

	var notices []map[string]any
	require.NoError(t, json.Unmarshal([]byte(call(t, s, "notices", nil)), &notices))
	assert.NotNil(t, notices)
}
