package search

import (
	"context"
	"testing"

	"github.com/sjzsdu/workbench/project"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTree(t *testing.T) *project.Tree {
	t.Helper()
	tree := project.New()
	var err error
	for _, f := range []struct{ path, content string }{
		{"index.html", "<html><script src=\"app.js\"></script></html>"},
		{"app.js", "function main() {\n  console.log('Hello')\n}\nmain()"},
		{"src/util.js", "export function helper() { return 1 }"},
		{"src/styles/main.css", "body { color: red; }"},
		{".hidden/secret.js", "const token = 'main'"},
	} {
		tree, err = tree.WriteFile(f.path, f.content)
		require.NoError(t, err)
	}
	return tree
}

func paths(nodes []*project.Node) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.Path)
	}
	return out
}

func TestSearch(t *testing.T) {
	tree := sampleTree(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		start string
		opts  SearchOptions
		want  []string
	}{
		{name: "名称子串", opts: SearchOptions{NameContains: "MAIN", IncludeFiles: true, CaseInsensitive: true}, want: []string{"src/styles/main.css"}},
		{name: "名称正则", opts: SearchOptions{NameRegex: `\.js$`, IncludeFiles: true}, want: []string{"app.js", "src/util.js"}},
		{name: "内容子串", opts: SearchOptions{ContentContains: "hello", IncludeFiles: true, CaseInsensitive: true}, want: []string{"app.js"}},
		{name: "区分大小写", opts: SearchOptions{ContentContains: "hello", IncludeFiles: true}, want: []string{}},
		{name: "扩展名过滤", opts: SearchOptions{Extensions: []string{"css"}, IncludeFiles: true}, want: []string{"src/styles/main.css"}},
		{name: "包含隐藏项", opts: SearchOptions{ContentContains: "main", IncludeFiles: true, IncludeHidden: true}, want: []string{".hidden/secret.js", "app.js"}},
		{name: "深度限制", opts: SearchOptions{NameRegex: `\.(js|css)$`, IncludeFiles: true, MaxDepth: 1}, want: []string{"app.js"}},
		{name: "只要目录", opts: SearchOptions{IncludeDirs: true}, want: []string{"src", "src/styles"}},
		{name: "任一条件", opts: SearchOptions{NameContains: "util", ContentContains: "color", IncludeFiles: true, MatchAny: true}, want: []string{"src/styles/main.css", "src/util.js"}},
		{name: "从子目录开始", start: "src", opts: SearchOptions{IncludeFiles: true}, want: []string{"src/styles/main.css", "src/util.js"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := tt.opts
			got, err := Search(ctx, tree, tt.start, &opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, paths(got))
		})
	}
}

func TestSearchErrors(t *testing.T) {
	tree := sampleTree(t)
	ctx := context.Background()

	_, err := Search(ctx, tree, "", &SearchOptions{NameRegex: "("})
	assert.Error(t, err)

	_, err = Search(ctx, tree, "app.js", nil)
	assert.ErrorIs(t, err, project.ErrNotFolder)

	got, err := Search(ctx, nil, "", nil)
	assert.NoError(t, err)
	assert.Nil(t, got)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = Search(cancelled, tree, "", nil)
	assert.ErrorIs(t, err, context.Canceled)
}
