package preview

import (
	"strings"
	"testing"

	"github.com/sjzsdu/workbench/project"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTree(t *testing.T, files map[string]string, order ...string) *project.Tree {
	t.Helper()
	tree := project.New()
	var err error
	for _, p := range order {
		tree, err = tree.WriteFile(p, files[p])
		require.NoError(t, err)
	}
	return tree
}

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<link rel="stylesheet" href="css/style.css?v=2">
</head>
<body>
<h1>Hello</h1>
<script src="./app.js"></script>
</body>
</html>`

func TestInlineReferencedAndAppended(t *testing.T) {
	files := map[string]string{
		"index.html":    indexHTML,
		"css/style.css": "h1 { color: red; }",
		"extra.css":     "p { margin: 0; }",
		"app.js":        "console.log(1)",
		"lib/util.js":   "window.util = {}",
	}
	tree := buildTree(t, files, "index.html", "css/style.css", "extra.css", "app.js", "lib/util.js")

	res, err := Build(tree)
	require.NoError(t, err)
	assert.Equal(t, "index.html", res.HostPath)
	assert.False(t, res.Synthesized)

	assert.Contains(t, res.HTML, "h1 { color: red; }")
	assert.Contains(t, res.HTML, "p { margin: 0; }")
	assert.Contains(t, res.HTML, "console.log(1)")
	assert.Contains(t, res.HTML, "window.util = {}")
	assert.NotContains(t, res.HTML, "<link")
	assert.NotContains(t, res.HTML, `src="./app.js"`)

	assert.Equal(t, []string{"css/style.css", "app.js"}, res.Inlined)
	assert.Equal(t, []string{"extra.css", "lib/util.js"}, res.Appended)

	// 追加的样式在 head 中，追加的脚本在 body 末尾
	head := res.HTML[:strings.Index(res.HTML, "</head>")]
	assert.Contains(t, head, "p { margin: 0; }")
	assert.Greater(t, strings.Index(res.HTML, "window.util"), strings.Index(res.HTML, "<h1>"))
}

func TestSameBasenameIsInlinedAndAppended(t *testing.T) {
	files := map[string]string{
		"index.html": `<html><head></head><body><script src="app.js"></script></body></html>`,
		"a/app.js":   "run('a')",
		"b/app.js":   "run('b')",
	}
	tree := buildTree(t, files, "index.html", "a/app.js", "b/app.js")

	res, err := Build(tree)
	require.NoError(t, err)
	assert.Equal(t, []string{"a/app.js"}, res.Inlined, "同名文件按深度优先取第一个")
	assert.Equal(t, []string{"b/app.js"}, res.Appended, "另一个同名文件被追加，两个都会执行")
}

func TestSingleScriptIsWrapped(t *testing.T) {
	tree := buildTree(t, map[string]string{"main.js": "document.body.textContent = 'hi'"}, "main.js")

	res, err := Build(tree)
	require.NoError(t, err)
	assert.True(t, res.Synthesized)
	assert.Equal(t, "main.js", res.HostPath)
	assert.Contains(t, res.HTML, "<!DOCTYPE html>")
	assert.Contains(t, res.HTML, "document.body.textContent = 'hi'")
	assert.Equal(t, []string{"main.js"}, res.Inlined)
}

func TestHostSelection(t *testing.T) {
	tests := []struct {
		name        string
		files       []string
		active      string
		markdown    bool
		host        string
		synthesized bool
		err         error
	}{
		{name: "当前文件是 HTML", files: []string{"index.html", "pages/about.html"}, active: "pages/about.html", host: "pages/about.html"},
		{name: "任意位置的 index.htm", files: []string{"a.html", "site/index.htm"}, active: "main.js", host: "site/index.htm"},
		{name: "第一个 HTML", files: []string{"docs/b.html", "a.html"}, host: "docs/b.html"},
		{name: "当前脚本被包裹", files: []string{"a.js", "b.js", "style.css"}, active: "b.js", host: "b.js", synthesized: true},
		{name: "第一个脚本被包裹", files: []string{"src/a.js", "b.js"}, active: "style.css", host: "src/a.js", synthesized: true},
		{name: "当前文件不存在", files: []string{"a.js"}, active: "gone.html", host: "a.js", synthesized: true},
		{name: "Markdown 默认不作为宿主", files: []string{"README.md", "a.js"}, active: "README.md", host: "a.js", synthesized: true},
		{name: "Markdown 宿主", files: []string{"README.md", "index.html"}, active: "README.md", markdown: true, host: "README.md", synthesized: true},
		{name: "没有可预览的文件", files: []string{"README.md", "data.json"}, err: ErrNoPreview},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			contents := map[string]string{}
			for _, f := range tt.files {
				contents[f] = "<p>" + f + "</p>"
			}
			contents["README.md"] = "# Title\n\ntext"
			tree := buildTree(t, contents, tt.files...)

			opts := []Option{WithActive(tt.active)}
			if tt.markdown {
				opts = append(opts, WithMarkdownHost())
			}
			res, err := Build(tree, opts...)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.host, res.HostPath)
			assert.Equal(t, tt.synthesized, res.Synthesized)
		})
	}
}

func TestSynthesizedShellOnlyWrapsChosenScript(t *testing.T) {
	files := map[string]string{"a.js": "alpha()", "b.js": "beta()", "site.css": "body{}"}
	tree := buildTree(t, files, "a.js", "b.js", "site.css")

	res, err := Build(tree, WithActive("b.js"))
	require.NoError(t, err)
	assert.Contains(t, res.HTML, "beta()")
	assert.NotContains(t, res.HTML, "alpha()")
	assert.Contains(t, res.HTML, "body{}")
	assert.Equal(t, []string{"site.css"}, res.Appended)
}

func TestTechStackAssets(t *testing.T) {
	tree := buildTree(t, map[string]string{"app.jsx": "x", "app.js": "ReactDOM.render()"}, "app.jsx", "app.js")

	res, err := Build(tree, WithActive("app.js"), WithTechStack("React", "tailwindcss", "unknown"))
	require.NoError(t, err)
	assert.Contains(t, res.HTML, "react-dom@18")
	assert.Contains(t, res.HTML, "cdn.tailwindcss.com")
	assert.NotContains(t, res.HTML, "vue.global")

	assert.Empty(t, cdnTags(nil))
	assert.Len(t, cdnTags([]string{"vue", "Vue.js"}), 1, "别名去重")
}

func TestMarkdownHost(t *testing.T) {
	tree := buildTree(t, map[string]string{"README.md": "# Guide\n\n- one\n- two\n", "theme.css": "h1{}"}, "README.md", "theme.css")

	res, err := Build(tree, WithActive("README.md"), WithMarkdownHost())
	require.NoError(t, err)
	assert.Contains(t, res.HTML, "<h1>Guide</h1>")
	assert.Contains(t, res.HTML, "<li>one</li>")
	assert.Equal(t, []string{"theme.css"}, res.Appended)
}

func TestRewriteFailureReturnsHost(t *testing.T) {
	files := map[string]string{"index.html": indexHTML, "css/style.css": "h1{}"}
	tree := buildTree(t, files, "index.html", "css/style.css")

	content := func(p string) string {
		if p == "css/style.css" {
			panic("storage exploded")
		}
		return files[p]
	}
	res, err := Build(tree, WithContent(content))
	require.NoError(t, err)
	assert.Equal(t, indexHTML, res.HTML)
	assert.Equal(t, "index.html", res.HostPath)
	assert.Empty(t, res.Inlined)
}

func TestContentOverride(t *testing.T) {
	tree := buildTree(t, map[string]string{"index.html": "<p>stale</p>"}, "index.html")
	res, err := Build(tree, WithContent(func(string) string { return "<p>fresh</p>" }))
	require.NoError(t, err)
	assert.Contains(t, res.HTML, "fresh")
}

func TestText(t *testing.T) {
	doc := `<html><head><style>h1{}</style></head><body>
<h1>Title</h1>
<p>Hello <a href="docs.html">docs</a></p>
<ul><li>one<ul><li>nested</li></ul></li><li>two</li></ul>
<ol><li>first</li></ol>
<table><tr><th>a</th><th>b</th></tr><tr><td>1</td><td>2</td></tr></table>
<script>alert(1)</script>
</body></html>`

	out, err := Text(doc)
	require.NoError(t, err)
	assert.Contains(t, out, "# Title")
	assert.Contains(t, out, "[docs](docs.html)")
	assert.Contains(t, out, "- one")
	assert.Contains(t, out, "  - nested")
	assert.Contains(t, out, "1. first")
	assert.Contains(t, out, "| a | b |")
	assert.Contains(t, out, "| 1 | 2 |")
	assert.NotContains(t, out, "alert")
	assert.NotContains(t, out, "h1{}")
}
