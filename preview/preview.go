// Package preview 从项目树合成一个可以直接渲染的 HTML 文档
//
// 宿主文档的选择顺序：
//  1. 当前文件是 HTML
//  2. 树中任意位置名为 index.html 或 index.htm 的文件
//  3. 深度优先遍历遇到的第一个 HTML 文件
//  4. 当前文件是脚本时，合成一个包裹该脚本和所有样式表的外壳
//  5. 第一个脚本文件，同样包裹
//  6. 都没有时返回 ErrNoPreview
package preview

import (
	"errors"
	"strings"

	"github.com/sjzsdu/workbench/helper"
	"github.com/sjzsdu/workbench/project"
	"go.uber.org/zap"
)

// ErrNoPreview 树中没有可以预览的文档
var ErrNoPreview = errors.New("preview: no previewable document")

// Result 合成结果
type Result struct {
	HTML        string
	HostPath    string
	Synthesized bool     // 宿主是合成的外壳
	Inlined     []string // 按引用内联的文件
	Appended    []string // 没有被引用而追加的文件
}

type options struct {
	active    string
	content   func(path string) string
	techStack []string
	markdown  bool
	logger    *zap.Logger
}

// Option 合成选项
type Option func(*options)

// WithActive 设置当前文件
func WithActive(path string) Option {
	return func(o *options) { o.active = helper.StandardizePath(path) }
}

// WithContent 设置内容读取函数，默认读取节点自身的内容
func WithContent(fn func(path string) string) Option {
	return func(o *options) { o.content = fn }
}

// WithTechStack 设置项目的技术栈标签，合成外壳时加入对应的 CDN 资源
func WithTechStack(tags ...string) Option {
	return func(o *options) { o.techStack = append(o.techStack, tags...) }
}

// WithMarkdownHost 当前文件是 Markdown 时渲染为宿主文档
func WithMarkdownHost() Option {
	return func(o *options) { o.markdown = true }
}

// WithLogger 设置日志
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// Build 选择宿主文档并内联所有样式和脚本
func Build(tree *project.Tree, opts ...Option) (Result, error) {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	if tree == nil {
		return Result{}, ErrNoPreview
	}
	if o.content == nil {
		o.content = func(path string) string {
			if n, err := tree.Find(path); err == nil {
				return n.Content
			}
			return ""
		}
	}

	h, ok := selectHost(tree, &o)
	if !ok {
		return Result{}, ErrNoPreview
	}

	res, err := inline(tree, h, &o)
	if err != nil {
		o.logger.Warn("预览合成失败，返回原始文档", zap.String("host", h.path), zap.Error(err))
		return Result{HTML: h.text, HostPath: h.path, Synthesized: h.synthesized}, nil
	}
	return res, nil
}

// host 是选中的宿主文档
type host struct {
	path        string
	text        string
	synthesized bool
	script      string // 合成外壳包裹的脚本，只有它参与追加
}

func selectHost(tree *project.Tree, o *options) (host, bool) {
	active := o.active
	if active != "" {
		if n, err := tree.Find(active); err != nil || !n.IsFile() {
			active = ""
		}
	}

	if active != "" && helper.IsMarkupFile(active) {
		return host{path: active, text: o.content(active)}, true
	}
	if active != "" && o.markdown && helper.IsMarkdownFile(active) {
		text, err := markdownShell(active, o.content(active), o.techStack)
		if err == nil {
			return host{path: active, text: text, synthesized: true}, true
		}
		o.logger.Warn("Markdown 渲染失败", zap.String("path", active), zap.Error(err))
	}

	files := tree.ListAllFiles()
	for _, n := range files {
		if n.Name == "index.html" || n.Name == "index.htm" {
			return host{path: n.Path, text: o.content(n.Path)}, true
		}
	}
	for _, n := range files {
		if helper.IsMarkupFile(n.Path) {
			return host{path: n.Path, text: o.content(n.Path)}, true
		}
	}

	script := ""
	if active != "" && helper.IsScriptFile(active) {
		script = active
	} else {
		for _, n := range files {
			if helper.IsScriptFile(n.Path) {
				script = n.Path
				break
			}
		}
	}
	if script == "" {
		return host{}, false
	}
	return host{path: script, text: scriptShell(script, o.techStack), synthesized: true, script: script}, true
}

// baseName 取引用地址的文件名部分，忽略查询参数和锚点
func baseName(ref string) string {
	if i := strings.IndexAny(ref, "?#"); i >= 0 {
		ref = ref[:i]
	}
	ref = strings.ReplaceAll(ref, "\\", "/")
	return helper.BaseName(strings.TrimRight(ref, "/"))
}
