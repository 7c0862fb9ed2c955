package tree

import (
	"strings"
	"testing"

	"github.com/sjzsdu/workbench/project"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTree(t *testing.T) *project.Tree {
	t.Helper()
	files := map[string]string{
		"README.md":           "# Test Project\nThis is a test project.",
		"src/main.js":         "console.log('hi')",
		"src/utils/helper.js": "export const x = 1",
		"docs/api.md":         "# API",
		".gitignore":          "*.log",
	}
	tree := project.New()
	var err error
	for _, p := range []string{"README.md", "src/main.js", "src/utils/helper.js", "docs/api.md", ".gitignore"} {
		tree, err = tree.WriteFile(p, files[p])
		require.NoError(t, err)
	}
	return tree
}

func TestTree(t *testing.T) {
	tree := sampleTree(t)

	t.Run("基本输出", func(t *testing.T) {
		out := Tree(tree)
		assert.True(t, strings.HasPrefix(out, ".\n"))
		for _, s := range []string{"src/", "docs/", "utils/", "main.js", "helper.js", "README.md (38 B)"} {
			assert.Contains(t, out, s)
		}
		assert.NotContains(t, out, ".gitignore")
		// 文件夹排在文件前
		assert.Less(t, strings.Index(out, "docs/"), strings.Index(out, "README.md"))
	})

	t.Run("只显示目录", func(t *testing.T) {
		out, err := TreeWithOptions(tree, "", Options{Sorted: true})
		require.NoError(t, err)
		assert.Contains(t, out, "src/")
		assert.NotContains(t, out, "README.md")
		assert.NotContains(t, out, "main.js")
	})

	t.Run("深度限制", func(t *testing.T) {
		out, err := TreeWithOptions(tree, "", Options{ShowFiles: true, MaxDepth: 1})
		require.NoError(t, err)
		assert.Contains(t, out, "README.md")
		assert.NotContains(t, out, "main.js")
	})

	t.Run("显示隐藏文件", func(t *testing.T) {
		out, err := TreeWithOptions(tree, "", Options{ShowFiles: true, ShowHidden: true})
		require.NoError(t, err)
		assert.Contains(t, out, ".gitignore")
	})

	t.Run("从子目录开始", func(t *testing.T) {
		out, err := TreeWithOptions(tree, "src", DefaultOptions())
		require.NoError(t, err)
		assert.Equal(t, "src/\n├── utils/\n│   └── helper.js (18 B)\n└── main.js (17 B)\n", out)
	})

	t.Run("路径不存在", func(t *testing.T) {
		_, err := TreeWithOptions(tree, "missing", DefaultOptions())
		assert.ErrorIs(t, err, project.ErrNotFound)
	})
}

func TestStats(t *testing.T) {
	stats := Stats(sampleTree(t))
	assert.Equal(t, 3, stats.DirectoryCount)
	assert.Equal(t, 5, stats.FileCount)
	assert.Equal(t, 3, stats.MaxDepth)
	assert.Equal(t, 2, stats.Languages["javascript"])
	assert.Equal(t, 2, stats.Languages["markdown"])
	assert.Equal(t, "3 directories, 5 files, 83 bytes total", stats.String())

	assert.Equal(t, Statistics{Languages: map[string]int{}}, Stats(nil))
}
