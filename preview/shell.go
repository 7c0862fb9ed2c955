package preview

import (
	"bytes"
	"fmt"
	"html"
	"sort"
	"strings"
	"sync"

	"github.com/sjzsdu/workbench/helper"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// cdnAssets 技术栈标签对应的 CDN 资源
var cdnAssets = map[string][]string{
	"react": {
		`<script crossorigin src="https://unpkg.com/react@18/umd/react.development.js"></script>`,
		`<script crossorigin src="https://unpkg.com/react-dom@18/umd/react-dom.development.js"></script>`,
	},
	"vue": {
		`<script src="https://unpkg.com/vue@3/dist/vue.global.js"></script>`,
	},
	"tailwind": {
		`<script src="https://cdn.tailwindcss.com"></script>`,
	},
	"bootstrap": {
		`<link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/bootstrap@5.3.3/dist/css/bootstrap.min.css">`,
		`<script src="https://cdn.jsdelivr.net/npm/bootstrap@5.3.3/dist/js/bootstrap.bundle.min.js"></script>`,
	},
	"jquery": {
		`<script src="https://code.jquery.com/jquery-3.7.1.min.js"></script>`,
	},
}

var aliases = map[string]string{
	"reactjs":     "react",
	"react.js":    "react",
	"vuejs":       "vue",
	"vue.js":      "vue",
	"tailwindcss": "tailwind",
}

// cdnTags 返回技术栈对应的标签，按名称排序去重
func cdnTags(stack []string) []string {
	seen := map[string]bool{}
	var names []string
	for _, tag := range stack {
		name := strings.ToLower(strings.TrimSpace(tag))
		if a, ok := aliases[name]; ok {
			name = a
		}
		if _, ok := cdnAssets[name]; ok && !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	sort.Strings(names)

	var out []string
	for _, n := range names {
		out = append(out, cdnAssets[n]...)
	}
	return out
}

func shell(title string, stack []string, body string) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&b, "<title>%s</title>\n", html.EscapeString(title))
	for _, tag := range cdnTags(stack) {
		b.WriteString(tag)
		b.WriteByte('\n')
	}
	b.WriteString("</head>\n<body>\n")
	b.WriteString(body)
	b.WriteString("</body>\n</html>\n")
	return b.String()
}

// scriptShell 合成包裹脚本的最小文档，脚本以引用的形式出现，由内联阶段替换
func scriptShell(script string, stack []string) string {
	body := "<div id=\"root\"></div>\n<div id=\"app\"></div>\n" +
		fmt.Sprintf("<script src=\"%s\"></script>\n", html.EscapeString(helper.BaseName(script)))
	return shell(helper.BaseName(script), stack, body)
}

var (
	markdownOnce sync.Once
	markdown     goldmark.Markdown
)

func markdownRenderer() goldmark.Markdown {
	markdownOnce.Do(func() {
		markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))
	})
	return markdown
}

// markdownShell 把 Markdown 渲染为文档主体
func markdownShell(path, text string, stack []string) (string, error) {
	var buf bytes.Buffer
	if err := markdownRenderer().Convert([]byte(text), &buf); err != nil {
		return "", err
	}
	return shell(helper.BaseName(path), stack, buf.String()), nil
}
